// Package store provides database access for all BlogPulse entities. Each
// store struct wraps a *sql.DB and exposes typed query methods. Counter
// mutations are single SQL statements or single transactions so that
// read-modify-write never happens in application code.
package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"blogpulse/internal/errs"
)

// wrapErr annotates a database error with the failing operation and marks
// backend-unavailable failures as transient so callers can retry them.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return errs.Wrap(errs.KindTransient, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isTransient reports whether the error indicates the backend is
// unreachable or shutting down, as opposed to a query-level failure.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception.
		if strings.HasPrefix(pgErr.Code, "08") {
			return true
		}
		switch pgErr.Code {
		case "53300", // too_many_connections
			"57P01", // admin_shutdown
			"57P02", // crash_shutdown
			"57P03": // cannot_connect_now
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn)
}

// isUniqueViolation reports whether the error is a unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// rollback is a deferred-safe transaction rollback: committed transactions
// make it a no-op.
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
