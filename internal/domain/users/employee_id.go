package users

import "fmt"

const employeeIDPrefix = "EMP"

// FormatEmployeeID renders a sequence number as EMP001, EMP002, ... widening
// past three digits instead of truncating.
func FormatEmployeeID(n int64) string {
	return fmt.Sprintf("%s%03d", employeeIDPrefix, n)
}
