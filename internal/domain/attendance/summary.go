package attendance

import (
	"time"

	"attendly/internal/domain/users"
)

// Summarize counts records by status and adds one absence for every expected
// working day that has no record.
func Summarize(records []Record, expectedDays []string) MonthlySummary {
	out := MonthlySummary{Records: records}
	if out.Records == nil {
		out.Records = []Record{}
	}
	seen := make(map[string]struct{}, len(records))
	hours := make([]float64, 0, len(records))
	for _, r := range records {
		seen[r.Date] = struct{}{}
		switch r.Status {
		case StatusPresent:
			out.Present++
		case StatusLate:
			out.Late++
		case StatusHalfDay:
			out.Half++
		}
		hours = append(hours, r.TotalHours)
	}
	for _, day := range expectedDays {
		if _, ok := seen[day]; !ok {
			out.Absent++
		}
	}
	out.TotalHours = sumHours(hours)
	return out
}

// WorkingDays lists Monday to Friday dates in [from, to).
func WorkingDays(from, to time.Time) []string {
	var days []string
	for d := dayOf(from); d.Before(dayOf(to)); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		days = append(days, d.Format(DateLayout))
	}
	return days
}

// MonthBounds returns the first and last calendar day of the month.
func MonthBounds(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// WeekWindow returns today and the six days before it, oldest first.
func WeekWindow(today time.Time) []time.Time {
	today = dayOf(today)
	days := make([]time.Time, 0, 7)
	for i := 6; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

// AbsenteesFrom returns the users with no row, keeping the users' order.
func AbsenteesFrom(all []users.User, rows []JoinedRecord) []Absentee {
	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[r.UserID] = struct{}{}
	}
	absent := []Absentee{}
	for _, u := range all {
		if _, ok := present[u.ID]; ok {
			continue
		}
		absent = append(absent, Absentee{ID: u.ID, Name: u.Name, EmployeeID: u.EmployeeID, Department: u.Department})
	}
	return absent
}

// GroupByDepartment folds grouped counts into department -> status -> count.
func GroupByDepartment(counts []DepartmentStatusCount) map[string]map[Status]int {
	out := map[string]map[Status]int{}
	for _, c := range counts {
		dept := departmentLabel(c.Department)
		if out[dept] == nil {
			out[dept] = map[Status]int{}
		}
		out[dept][c.Status] += c.Count
	}
	return out
}

func departmentLabel(dept string) string {
	if dept == "" {
		return "Unknown"
	}
	return dept
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
