package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

const (
	PermAttendanceSelf   = "attendance.self"
	PermAttendanceTeam   = "attendance.team"
	PermAttendanceExport = "attendance.export"
	PermSystemMetrics    = "system.metrics"
)

var DefaultPermissions = []string{
	PermAttendanceSelf,
	PermAttendanceTeam,
	PermAttendanceExport,
	PermSystemMetrics,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermAttendanceSelf,
	},
	RoleManager: {
		PermAttendanceSelf,
		PermAttendanceTeam,
		PermAttendanceExport,
		PermSystemMetrics,
	},
	RoleAdmin: {
		PermSystemMetrics,
	},
}

// SelfServiceRoles are the roles a user may pick at registration.
var SelfServiceRoles = []string{RoleEmployee, RoleManager}

func HasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
