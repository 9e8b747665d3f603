// Package sqlxrepos implements the core repositories on PostgreSQL
// through jmoiron/sqlx.
package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func wrapDB(db *sql.DB) *sqlx.DB {
	return sqlx.NewDb(db, "postgres")
}

// trapNoRowsErr swaps sql.ErrNoRows for the domain's not-found error.
func trapNoRowsErr(err, notFoundErr error) error {
	if err == sql.ErrNoRows {
		return notFoundErr
	}
	return err
}

// trapUniqueErr swaps a unique-constraint violation on the given
// constraint for the domain's already-exists error.
func trapUniqueErr(err error, constraint string, existsErr error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == uniqueViolation && string(pqErr.Constraint) == constraint {
			return existsErr
		}
	}
	return err
}

func inClause(db *sqlx.DB, query string, ids []int) (string, []interface{}, error) {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return "", nil, err
	}
	return db.Rebind(q), args, nil
}
