package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"attendly/internal/domain/attendance"
	"attendly/internal/domain/auth"
	"attendly/internal/domain/users"
	"attendly/internal/platform/config"
)

const (
	demoPassword    = "password123"
	demoHistoryDays = 14
)

type demoEmployee struct {
	Name       string
	Email      string
	Department string
}

var demoEmployees = []demoEmployee{
	{Name: "John Doe", Email: "john@example.com", Department: "Engineering"},
	{Name: "Jane Smith", Email: "jane@example.com", Department: "Design"},
	{Name: "Bob Brown", Email: "bob@example.com", Department: "HR"},
	{Name: "Priya Patel", Email: "priya@example.com", Department: "Engineering"},
	{Name: "Chen Li", Email: "chen@example.com", Department: "Sales"},
}

// DemoDay is one closed working day of generated history.
type DemoDay struct {
	Date time.Time
	In   time.Time
	Out  time.Time
}

// Seed makes sure the configured manager exists and, when demo data is on and
// the ledger is empty, adds a handful of employees with two weeks of history.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	userStore := users.NewStore(pool)

	if cfg.SeedManagerEmail != "" && cfg.SeedManagerPassword != "" {
		if _, err := ensureUser(ctx, userStore, cfg.SeedManagerName, cfg.SeedManagerEmail, cfg.SeedManagerPassword, auth.RoleManager, ""); err != nil {
			return fmt.Errorf("seed manager: %w", err)
		}
	}

	if !cfg.SeedDemoData {
		return nil
	}

	var existing int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM attendance_records").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		slog.Info("seed skipped, attendance ledger not empty", "records", existing)
		return nil
	}

	policy, err := attendance.NewPolicy(cfg.LateThreshold, cfg.HalfDayHours, cfg.Timezone)
	if err != nil {
		return err
	}
	ledger := attendance.NewStore(pool)
	today := policy.WorkDate(time.Now())

	for i, emp := range demoEmployees {
		user, err := ensureUser(ctx, userStore, emp.Name, emp.Email, demoPassword, auth.RoleEmployee, emp.Department)
		if err != nil {
			return fmt.Errorf("seed %s: %w", emp.Email, err)
		}
		for _, d := range DemoHistory(i, today, policy.Location, demoHistoryDays) {
			status := policy.CheckInStatus(d.In)
			if _, err := ledger.InsertCheckIn(ctx, user.ID, d.Date, d.In, status); err != nil {
				if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
					continue
				}
				return err
			}
			hours := attendance.ComputeHours(d.In, d.Out)
			if _, err := ledger.CloseRecord(ctx, user.ID, d.Date, d.Out, hours, policy.CloseStatus(status, hours)); err != nil {
				return err
			}
		}
	}
	slog.Info("demo data seeded", "employees", len(demoEmployees), "days", demoHistoryDays)
	return nil
}

func ensureUser(ctx context.Context, store *users.Store, name, email, password, role, department string) (users.User, error) {
	email = users.NormalizeEmail(email)
	existing, err := store.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return users.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return users.User{}, err
	}
	return store.Create(ctx, users.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   department,
	})
}

// DemoHistory generates the weekdays before today for one employee. Roughly
// one day in five is left empty, and the arrival minute and day length vary
// with the employee index so some days come out late or short.
func DemoHistory(index int, today time.Time, loc *time.Location, days int) []DemoDay {
	if loc == nil {
		loc = time.UTC
	}
	var out []DemoDay
	for back := days; back >= 1; back-- {
		date := today.AddDate(0, 0, -back)
		switch date.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		if (index+back)%5 == 0 {
			continue
		}

		y, m, d := date.Date()
		in := time.Date(y, m, d, 9, (index*7+back*13)%30, 0, 0, loc)
		length := 8*time.Hour + time.Duration((index+back)%4)*15*time.Minute
		if (index*3+back)%7 == 0 {
			length = 3*time.Hour + 30*time.Minute
		}
		out = append(out, DemoDay{Date: date, In: in, Out: in.Add(length)})
	}
	return out
}
