package reports

import (
	"context"
	"fmt"
	"time"

	"attendly/internal/domain/attendance"
	"attendly/internal/domain/auth"
	"attendly/internal/domain/users"
)

// AttendanceViews is the slice of the attendance service dashboards read from.
type AttendanceViews interface {
	Today() time.Time
	TodayStatus(ctx context.Context, userID string) (attendance.TodayStatus, error)
	MonthlySummary(ctx context.Context, user users.User, year, month int) (attendance.MonthlySummary, error)
	Recent(ctx context.Context, userID string) ([]attendance.Record, error)
	EmployeeRoster(ctx context.Context, day time.Time) (attendance.Roster, error)
	WeeklyTrend(ctx context.Context) ([]attendance.DayCount, error)
	DepartmentCounts(ctx context.Context, day time.Time) (map[string]int, error)
}

type EmployeeCounter interface {
	CountByRole(ctx context.Context, role string) (int, error)
}

type Service struct {
	Attendance AttendanceViews
	Users      EmployeeCounter
}

func NewService(views AttendanceViews, counter EmployeeCounter) *Service {
	return &Service{Attendance: views, Users: counter}
}

func (s *Service) EmployeeDashboard(ctx context.Context, user users.User) (EmployeeDashboard, error) {
	today, err := s.Attendance.TodayStatus(ctx, user.ID)
	if err != nil {
		return EmployeeDashboard{}, fmt.Errorf("today status: %w", err)
	}
	day := s.Attendance.Today()
	month, err := s.Attendance.MonthlySummary(ctx, user, day.Year(), int(day.Month()))
	if err != nil {
		return EmployeeDashboard{}, fmt.Errorf("monthly summary: %w", err)
	}
	recent, err := s.Attendance.Recent(ctx, user.ID)
	if err != nil {
		return EmployeeDashboard{}, fmt.Errorf("recent records: %w", err)
	}
	return BuildEmployeeDashboard(today, month, recent), nil
}

func (s *Service) ManagerDashboard(ctx context.Context) (ManagerDashboard, error) {
	total, err := s.Users.CountByRole(ctx, auth.RoleEmployee)
	if err != nil {
		return ManagerDashboard{}, fmt.Errorf("count employees: %w", err)
	}
	day := s.Attendance.Today()
	roster, err := s.Attendance.EmployeeRoster(ctx, day)
	if err != nil {
		return ManagerDashboard{}, fmt.Errorf("roster: %w", err)
	}
	weekly, err := s.Attendance.WeeklyTrend(ctx)
	if err != nil {
		return ManagerDashboard{}, fmt.Errorf("weekly trend: %w", err)
	}
	depts, err := s.Attendance.DepartmentCounts(ctx, day)
	if err != nil {
		return ManagerDashboard{}, fmt.Errorf("department counts: %w", err)
	}
	return BuildManagerDashboard(total, roster, weekly, depts), nil
}
