package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendly/internal/domain/auth"
	"attendly/internal/domain/users"
)

const RecentLimit = 7

type Service struct {
	Store  StoreAPI
	Users  Directory
	Policy Policy
	now    func() time.Time
}

func NewService(store StoreAPI, directory Directory, policy Policy) *Service {
	return &Service{Store: store, Users: directory, Policy: policy, now: time.Now}
}

// WithClock replaces the time source, for tests and seeding.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today is the current calendar day in the policy zone.
func (s *Service) Today() time.Time {
	return s.Policy.WorkDate(s.now())
}

func (s *Service) CheckIn(ctx context.Context, userID string) (Record, error) {
	now := s.now()
	return s.Store.InsertCheckIn(ctx, userID, s.Policy.WorkDate(now), now, s.Policy.CheckInStatus(now))
}

func (s *Service) CheckOut(ctx context.Context, userID string) (Record, error) {
	now := s.now()
	day := s.Policy.WorkDate(now)

	rec, err := s.Store.GetRecord(ctx, userID, day)
	if errors.Is(err, ErrRecordNotFound) {
		return Record{}, ErrNoCheckInFound
	}
	if err != nil {
		return Record{}, err
	}
	if rec.CheckInTime == nil {
		return Record{}, ErrNoCheckInFound
	}
	if rec.CheckOutTime != nil {
		return Record{}, ErrAlreadyCheckedOut
	}

	out := now
	if out.Before(*rec.CheckInTime) {
		out = *rec.CheckInTime
	}
	hours := ComputeHours(*rec.CheckInTime, out)
	closed, err := s.Store.CloseRecord(ctx, userID, day, out, hours, s.Policy.CloseStatus(rec.Status, hours))
	if errors.Is(err, ErrRecordNotOpen) {
		return Record{}, ErrAlreadyCheckedOut
	}
	return closed, err
}

func (s *Service) History(ctx context.Context, userID string) ([]Record, error) {
	return s.Store.ListByUser(ctx, userID, 0)
}

func (s *Service) Recent(ctx context.Context, userID string) ([]Record, error) {
	return s.Store.ListByUser(ctx, userID, RecentLimit)
}

// MonthlySummary counts the user's month. Absences are the working days from
// registration up to yesterday that have no record.
func (s *Service) MonthlySummary(ctx context.Context, user users.User, year, month int) (MonthlySummary, error) {
	first, last, err := MonthBounds(year, month)
	if err != nil {
		return MonthlySummary{}, err
	}
	records, err := s.Store.ListByUserRange(ctx, user.ID, first, last)
	if err != nil {
		return MonthlySummary{}, err
	}

	from := maxTime(first, s.Policy.WorkDate(user.CreatedAt))
	to := minTime(last.AddDate(0, 0, 1), s.Today())
	summary := Summarize(records, WorkingDays(from, to))
	summary.Year = year
	summary.Month = month
	return summary, nil
}

// TodayStatus reports absent when there is no record for today.
func (s *Service) TodayStatus(ctx context.Context, userID string) (TodayStatus, error) {
	day := s.Today()
	out := TodayStatus{Date: day.Format(DateLayout), Status: StatusAbsent}
	rec, err := s.Store.GetRecord(ctx, userID, day)
	if errors.Is(err, ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return TodayStatus{}, err
	}
	out.Status = rec.Status
	out.Attendance = &rec
	return out, nil
}

// List pages through all records. An unknown employee id matches nothing.
func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	result := ListResult{Rows: []JoinedRecord{}, Page: q.Page, Limit: q.Limit}
	filter := Filter{From: q.Date, To: q.Date, Status: q.Status}
	if q.EmployeeID != "" {
		u, err := s.Users.GetByEmployeeID(ctx, q.EmployeeID)
		if errors.Is(err, users.ErrNotFound) {
			return result, nil
		}
		if err != nil {
			return ListResult{}, err
		}
		filter.UserID = u.ID
	}

	offset := (q.Page - 1) * q.Limit
	if offset < 0 {
		offset = 0
	}
	rows, err := s.Store.ListJoined(ctx, filter, q.Limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.Store.CountJoined(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	result.Rows = rows
	result.Count = len(rows)
	result.Total = total
	return result, nil
}

func (s *Service) EmployeeHistory(ctx context.Context, userID string) ([]Record, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return s.Store.ListByUser(ctx, userID, 0)
}

func (s *Service) DepartmentBreakdown(ctx context.Context, from, to *time.Time) (map[string]map[Status]int, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrInvalidRange
	}
	counts, err := s.Store.StatusCountsByDepartment(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return GroupByDepartment(counts), nil
}

// DepartmentCounts totals the records for one day per department.
func (s *Service) DepartmentCounts(ctx context.Context, day time.Time) (map[string]int, error) {
	counts, err := s.Store.StatusCountsByDepartment(ctx, &day, &day)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, c := range counts {
		out[departmentLabel(c.Department)] += c.Count
	}
	return out, nil
}

// Roster joins the day's records with users and lists everyone else as absent.
func (s *Service) Roster(ctx context.Context, day time.Time) (Roster, error) {
	return s.roster(ctx, day, s.Users.List)
}

// EmployeeRoster is Roster restricted to users with the employee role.
func (s *Service) EmployeeRoster(ctx context.Context, day time.Time) (Roster, error) {
	return s.roster(ctx, day, func(ctx context.Context) ([]users.User, error) {
		return s.Users.ListByRole(ctx, auth.RoleEmployee)
	})
}

func (s *Service) roster(ctx context.Context, day time.Time, list func(context.Context) ([]users.User, error)) (Roster, error) {
	rows, err := s.Store.ListJoined(ctx, Filter{From: &day, To: &day}, 0, 0)
	if err != nil {
		return Roster{}, err
	}
	all, err := list(ctx)
	if err != nil {
		return Roster{}, err
	}
	return Roster{Date: day.Format(DateLayout), Present: rows, Absent: AbsenteesFrom(all, rows)}, nil
}

// WeeklyTrend counts rows of any status for today and the six days before.
func (s *Service) WeeklyTrend(ctx context.Context) ([]DayCount, error) {
	days := WeekWindow(s.Today())
	counts, err := s.Store.CountByDay(ctx, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}
	out := make([]DayCount, 0, len(days))
	for _, d := range days {
		key := d.Format(DateLayout)
		out = append(out, DayCount{Date: key, Count: counts[key]})
	}
	return out, nil
}

func (s *Service) TeamCalendar(ctx context.Context, year, month int) ([]JoinedRecord, error) {
	first, last, err := MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	return s.Store.ListJoined(ctx, Filter{From: &first, To: &last}, 0, 0)
}

// ExportRows selects and flattens records for export. Unlike List, an unknown
// employee id is an error.
func (s *Service) ExportRows(ctx context.Context, q ExportQuery) ([]ExportRow, error) {
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, ErrInvalidRange
	}
	filter := Filter{From: q.From, To: q.To}
	if q.EmployeeID != "" {
		u, err := s.Users.GetByEmployeeID(ctx, q.EmployeeID)
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		if err != nil {
			return nil, err
		}
		filter.UserID = u.ID
	}
	rows, err := s.Store.ListJoined(ctx, filter, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("select export rows: %w", err)
	}
	return BuildExportRows(rows, s.Policy.Location)
}
