package attendance

import (
	"context"
	"time"

	"attendly/internal/domain/users"
)

// Dates passed to a StoreAPI are calendar days at UTC midnight.
type StoreAPI interface {
	InsertCheckIn(ctx context.Context, userID string, date, at time.Time, status Status) (Record, error)
	GetRecord(ctx context.Context, userID string, date time.Time) (Record, error)
	CloseRecord(ctx context.Context, userID string, date, at time.Time, hours float64, status Status) (Record, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
	ListJoined(ctx context.Context, filter Filter, limit, offset int) ([]JoinedRecord, error)
	CountJoined(ctx context.Context, filter Filter) (int, error)
	CountByDay(ctx context.Context, from, to time.Time) (map[string]int, error)
	StatusCountsByDepartment(ctx context.Context, from, to *time.Time) ([]DepartmentStatusCount, error)
}

// Directory is the read side of the identity store.
type Directory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
	ListByRole(ctx context.Context, role string) ([]users.User, error)
}
