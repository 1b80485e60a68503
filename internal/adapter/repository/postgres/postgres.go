// Package postgres implements the repositories on top of PostgreSQL.
package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
