package ingest

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// RowError describes a CSV row that could not be loaded. It is logged and
// the row is skipped; it never aborts a load.
type RowError struct {
	Table string
	Line  int
	Key   string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %q (line %d): %v", e.Table, e.Key, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// FieldError is a single column that failed to parse.
type FieldError struct {
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("column %s: invalid value %q: %v", e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var ErrMissingValue = errors.New("missing required value")

// Postgres SQLSTATE codes reported for rejected rows.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

// rejectReason summarises why the store refused a row.
func rejectReason(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "insert failed"
	}
	switch pgErr.Code {
	case codeForeignKeyViolation:
		return "foreign key violation"
	case codeUniqueViolation:
		return "duplicate key"
	case codeCheckViolation:
		return "check violation"
	case codeNotNullViolation:
		return "missing required value"
	default:
		return "insert failed"
	}
}

var ErrMissingColumn = errors.New("missing column")

// isRowRejection reports whether err came from the database refusing
// the data itself rather than from a broken connection.
func isRowRejection(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
