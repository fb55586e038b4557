package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"attendly/internal/platform/querier"
)

const uniqueViolation = "23505"

const userColumns = `id::text, name, email, password_hash, role, employee_id, COALESCE(department, ''), created_at`

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// employeeIDExpr renders the next sequence value as EMP001, widening past 999
// the same way FormatEmployeeID does.
const employeeIDExpr = `'EMP' || lpad(n::text, GREATEST(3, length(n::text)), '0')`

// Create issues the employee id from employee_number_seq inside the insert.
func (s *Store) Create(ctx context.Context, in NewUser) (User, error) {
	row := s.DB.QueryRow(ctx, `
    WITH seq AS (SELECT nextval('employee_number_seq') AS n)
    INSERT INTO users (name, email, password_hash, role, employee_id, department)
    SELECT $1::text, $2::text, $3::text, $4::text, `+employeeIDExpr+`, $5::text
    FROM seq
    RETURNING `+userColumns,
		in.Name, NormalizeEmail(in.Email), in.PasswordHash, in.Role, nullIfEmpty(in.Department))
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	return s.getOne(ctx, "id = $1::uuid", id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.getOne(ctx, "email = $1", NormalizeEmail(email))
}

func (s *Store) GetByEmployeeID(ctx context.Context, employeeID string) (User, error) {
	return s.getOne(ctx, "employee_id = $1", employeeID)
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (User, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) || querier.IsInvalidInput(err) {
		return User{}, ErrNotFound
	}
	return user, err
}

// UpdateProfile never touches role or employee_id.
func (s *Store) UpdateProfile(ctx context.Context, id string, p Profile) (User, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE users
    SET name = $1, email = $2, department = $3, updated_at = now()
    WHERE id = $4::uuid
    RETURNING `+userColumns,
		p.Name, NormalizeEmail(p.Email), nullIfEmpty(p.Department), id)
	user, err := scanUser(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows), querier.IsInvalidInput(err):
		return User{}, ErrNotFound
	case isUniqueViolation(err, "users_email_key"):
		return User{}, ErrEmailTaken
	}
	return user, err
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	return s.list(ctx, "SELECT "+userColumns+" FROM users ORDER BY employee_id")
}

func (s *Store) ListByRole(ctx context.Context, role string) ([]User, error) {
	return s.list(ctx, "SELECT "+userColumns+" FROM users WHERE role = $1 ORDER BY employee_id", role)
}

func (s *Store) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE role = $1", role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) list(ctx context.Context, sql string, args ...any) ([]User, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeeID, &u.Department, &u.CreatedAt)
	return u, err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
