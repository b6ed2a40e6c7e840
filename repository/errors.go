package repository

import (
	"errors"

	"arena-backend/service"

	"github.com/jackc/pgx/v5/pgconn"
)

// constraintError translates Postgres constraint violations into the
// service-level sentinels. Returns nil for anything else.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		if pgErr.TableName == "accounts" {
			return service.ErrDuplicateAccount
		}
		return service.ErrDuplicateUser
	case "23503": // foreign_key_violation
		return service.ErrUserMissing
	}

	return nil
}
