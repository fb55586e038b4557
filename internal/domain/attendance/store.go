package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"attendly/internal/platform/querier"
)

const recordColumns = `a.id::text, a.user_id::text, to_char(a.work_date, 'YYYY-MM-DD'), a.check_in_time, a.check_out_time, a.status, a.total_hours, a.created_at`

const joinedColumns = recordColumns + `, u.id::text, u.name, u.email, u.employee_id, COALESCE(u.department, '')`

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// InsertCheckIn creates the day's record. A conflicting row yields
// ErrAlreadyCheckedIn and is left untouched.
func (s *Store) InsertCheckIn(ctx context.Context, userID string, date, at time.Time, status Status) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    WITH inserted AS (
      INSERT INTO attendance_records (user_id, work_date, check_in_time, status)
      VALUES ($1::uuid, $2, $3, $4)
      ON CONFLICT (user_id, work_date) DO NOTHING
      RETURNING *
    )
    SELECT `+recordColumns+` FROM inserted a
  `, userID, date, at, string(status))
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrAlreadyCheckedIn
	}
	return rec, err
}

func (s *Store) GetRecord(ctx context.Context, userID string, date time.Time) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    WHERE a.user_id = $1::uuid AND a.work_date = $2
  `, userID, date)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) || querier.IsInvalidInput(err) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

// CloseRecord only updates a record whose check-out is still empty.
func (s *Store) CloseRecord(ctx context.Context, userID string, date, at time.Time, hours float64, status Status) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    WITH closed AS (
      UPDATE attendance_records
      SET check_out_time = $3, total_hours = $4, status = $5, updated_at = now()
      WHERE user_id = $1::uuid AND work_date = $2 AND check_out_time IS NULL
      RETURNING *
    )
    SELECT `+recordColumns+` FROM closed a
  `, userID, date, at, hours, string(status))
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) || querier.IsInvalidInput(err) {
		return Record{}, ErrRecordNotOpen
	}
	return rec, err
}

func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	sql := `
    SELECT ` + recordColumns + `
    FROM attendance_records a
    WHERE a.user_id = $1::uuid
    ORDER BY a.work_date DESC, a.created_at`
	args := []any{userID}
	if limit > 0 {
		sql += " LIMIT $2"
		args = append(args, limit)
	}
	return s.listRecords(ctx, sql, args...)
}

func (s *Store) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error) {
	return s.listRecords(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    WHERE a.user_id = $1::uuid AND a.work_date BETWEEN $2 AND $3
    ORDER BY a.work_date DESC, a.created_at
  `, userID, from, to)
}

func (s *Store) listRecords(ctx context.Context, sql string, args ...any) ([]Record, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) ListJoined(ctx context.Context, filter Filter, limit, offset int) ([]JoinedRecord, error) {
	where, args := filterClause(filter)
	sql := `
    SELECT ` + joinedColumns + `
    FROM attendance_records a
    LEFT JOIN users u ON u.id = a.user_id` + where + `
    ORDER BY a.work_date DESC, a.created_at`
	if limit > 0 {
		args = append(args, limit, offset)
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JoinedRecord{}
	for rows.Next() {
		rec, err := scanJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) CountJoined(ctx context.Context, filter Filter) (int, error) {
	where, args := filterClause(filter)
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT count(*) FROM attendance_records a`+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) CountByDay(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT to_char(work_date, 'YYYY-MM-DD'), count(*)
    FROM attendance_records
    WHERE work_date BETWEEN $1 AND $2
    GROUP BY work_date
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		out[day] = count
	}
	return out, rows.Err()
}

func (s *Store) StatusCountsByDepartment(ctx context.Context, from, to *time.Time) ([]DepartmentStatusCount, error) {
	where, args := filterClause(Filter{From: from, To: to})
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(u.department, ''), a.status, count(*)
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id`+where+`
    GROUP BY 1, 2
    ORDER BY 1, 2
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DepartmentStatusCount{}
	for rows.Next() {
		var c DepartmentStatusCount
		var status string
		if err := rows.Scan(&c.Department, &status, &c.Count); err != nil {
			return nil, err
		}
		if c.Status, err = ParseStatus(status); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func filterClause(f Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("a.user_id = $%d::uuid", f.UserID)
	}
	if f.From != nil {
		add("a.work_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("a.work_date <= $%d", *f.To)
	}
	if f.Status != "" {
		add("a.status = $%d", string(f.Status))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "\n    WHERE " + strings.Join(conds, " AND "), args
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var status string
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime, &status, &rec.TotalHours, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	parsed, err := ParseStatus(status)
	if err != nil {
		return Record{}, err
	}
	rec.Status = parsed
	return rec, nil
}

func scanJoined(row pgx.Row) (JoinedRecord, error) {
	var rec JoinedRecord
	var status string
	var uID, uName, uEmail, uEmployeeID, uDepartment *string
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime, &status, &rec.TotalHours, &rec.CreatedAt,
		&uID, &uName, &uEmail, &uEmployeeID, &uDepartment); err != nil {
		return JoinedRecord{}, err
	}
	parsed, err := ParseStatus(status)
	if err != nil {
		return JoinedRecord{}, err
	}
	rec.Status = parsed
	if uID != nil {
		rec.User = &UserRef{ID: *uID, Name: deref(uName), Email: deref(uEmail), EmployeeID: deref(uEmployeeID), Department: deref(uDepartment)}
	}
	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
