package attendance

import "time"

// DateLayout is the calendar-day key used in records and API payloads.
const DateLayout = "2006-01-02"

type Record struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Date         string     `json:"date"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Status       Status     `json:"status"`
	TotalHours   float64    `json:"totalHours"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r Record) Open() bool {
	return r.CheckInTime != nil && r.CheckOutTime == nil
}

// UserRef is the identity slice joined onto ledger rows.
type UserRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department,omitempty"`
}

// JoinedRecord is a ledger row with its user. User is nil when the reference
// does not resolve.
type JoinedRecord struct {
	Record
	User *UserRef `json:"user"`
}

type Filter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Status Status
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DepartmentStatusCount struct {
	Department string
	Status     Status
	Count      int
}

type Absentee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department,omitempty"`
}

type MonthlySummary struct {
	Year       int      `json:"year"`
	Month      int      `json:"month"`
	Present    int      `json:"present"`
	Late       int      `json:"late"`
	Half       int      `json:"half"`
	Absent     int      `json:"absent"`
	TotalHours float64  `json:"totalHours"`
	Records    []Record `json:"records"`
}

type TodayStatus struct {
	Date       string  `json:"date"`
	Status     Status  `json:"status"`
	Attendance *Record `json:"attendance"`
}

type Roster struct {
	Date    string         `json:"date"`
	Present []JoinedRecord `json:"present"`
	Absent  []Absentee     `json:"absent"`
}

type ListQuery struct {
	EmployeeID string
	Date       *time.Time
	Status     Status
	Page       int
	Limit      int
}

type ListResult struct {
	Rows  []JoinedRecord `json:"rows"`
	Count int            `json:"count"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type ExportQuery struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}
