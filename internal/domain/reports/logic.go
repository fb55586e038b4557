package reports

import (
	"time"

	"attendly/internal/domain/attendance"
)

type EmployeeDashboard struct {
	Today      attendance.Status   `json:"today"`
	Present    int                 `json:"present"`
	Late       int                 `json:"late"`
	Half       int                 `json:"half"`
	Absent     int                 `json:"absent"`
	TotalHours float64             `json:"totalHours"`
	Recent     []attendance.Record `json:"recent"`
}

type LateArrival struct {
	Name       string     `json:"name"`
	EmployeeID string     `json:"employeeId"`
	CheckIn    *time.Time `json:"checkIn"`
}

type AbsentEmployee struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
}

type ManagerDashboard struct {
	TotalEmployees int                   `json:"totalEmployees"`
	PresentToday   int                   `json:"presentToday"`
	LateToday      []LateArrival         `json:"lateToday"`
	WeeklyCounts   []attendance.DayCount `json:"weeklyCounts"`
	DeptSummary    map[string]int        `json:"deptSummary"`
	AbsentToday    []AbsentEmployee      `json:"absentToday"`
}

func BuildEmployeeDashboard(today attendance.TodayStatus, month attendance.MonthlySummary, recent []attendance.Record) EmployeeDashboard {
	if recent == nil {
		recent = []attendance.Record{}
	}
	return EmployeeDashboard{
		Today:      today.Status,
		Present:    month.Present,
		Late:       month.Late,
		Half:       month.Half,
		Absent:     month.Absent,
		TotalHours: month.TotalHours,
		Recent:     recent,
	}
}

// BuildManagerDashboard counts every row of the day as present and lists late
// rows with a resolved user.
func BuildManagerDashboard(totalEmployees int, roster attendance.Roster, weekly []attendance.DayCount, depts map[string]int) ManagerDashboard {
	out := ManagerDashboard{
		TotalEmployees: totalEmployees,
		PresentToday:   len(roster.Present),
		LateToday:      []LateArrival{},
		WeeklyCounts:   weekly,
		DeptSummary:    depts,
		AbsentToday:    make([]AbsentEmployee, 0, len(roster.Absent)),
	}
	if out.WeeklyCounts == nil {
		out.WeeklyCounts = []attendance.DayCount{}
	}
	if out.DeptSummary == nil {
		out.DeptSummary = map[string]int{}
	}
	for _, row := range roster.Present {
		if row.Status != attendance.StatusLate || row.User == nil {
			continue
		}
		out.LateToday = append(out.LateToday, LateArrival{Name: row.User.Name, EmployeeID: row.User.EmployeeID, CheckIn: row.CheckInTime})
	}
	for _, a := range roster.Absent {
		out.AbsentToday = append(out.AbsentToday, AbsentEmployee{Name: a.Name, EmployeeID: a.EmployeeID})
	}
	return out
}
