// Package pgutil holds the query builder and driver error mapping shared by
// the Postgres repositories.
package pgutil

import (
	"database/sql"
	"errors"

	"github.com/Abraxas-365/prointern/pkg/errx"
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// Psql builds statements with $n placeholders
var Psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolation = "23505"

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Unavailable marks a driver failure as a retryable store error
func Unavailable(err error, op string) error {
	if err == nil {
		return nil
	}
	return errx.Wrap(err, "record store failed to "+op, errx.TypeUnavailable)
}
