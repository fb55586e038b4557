package querier

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const invalidTextRepresentation = "22P02"

// IsInvalidInput reports whether Postgres rejected a parameter it could not
// parse, such as a malformed uuid.
func IsInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
