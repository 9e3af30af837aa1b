// ABOUTME: Error kinds returned by the storage layer and driver error classification.
// ABOUTME: Callers match kinds with errors.Is; the driver error stays in the chain.
package storage

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound means no row matched, or an aggregate had nothing to aggregate.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means there is no usable database connection.
	ErrUnavailable = errors.New("database unavailable")

	// ErrConstraint means the schema rejected the write (unique, foreign key, not null).
	ErrConstraint = errors.New("constraint violation")
)

var kinds = []error{ErrNotFound, ErrUnavailable, ErrConstraint}

// Kind returns the storage error kind carried by err, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// classify maps a driver error to one of the storage kinds, or nil.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case Kind(err) != nil:
		return Kind(err)
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isConnectionError(err):
		return ErrUnavailable
	case isConstraintError(err):
		return ErrConstraint
	default:
		return nil
	}
}

// fail wraps err as "<op>: <kind>: <cause>", logs it, and marks the
// connection lost for connection-class failures.
func (d *DB) fail(op string, err error) error {
	kind := classify(err)

	var wrapped error
	if kind == nil || errors.Is(err, kind) {
		wrapped = fmt.Errorf("%s: %w", op, err)
	} else {
		wrapped = fmt.Errorf("%s: %w: %w", op, kind, err)
	}

	if kind == ErrUnavailable {
		d.markLost()
		log.Warn().Err(err).Str("op", op).Msg("Database connection lost")
		return wrapped
	}

	ev := log.Debug().Err(err).Str("op", op)
	if kind != nil {
		ev = ev.Str("kind", kind.Error())
	}
	ev.Msg("Database operation failed")

	return wrapped
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exception; 57P01..57P03 are shutdown/unavailable.
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0")
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CANTOPEN
	}

	return false
}

// mysqlConstraintCodes are server error numbers for rejected writes.
var mysqlConstraintCodes = map[uint16]bool{
	1048: true, // column cannot be null
	1062: true, // duplicate entry
	1216: true, // child row: foreign key fails
	1217: true, // parent row: foreign key fails
	1364: true, // field has no default value
	1451: true, // cannot delete parent row
	1452: true, // cannot add child row
	3819: true, // check constraint violated
}

func isConstraintError(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlConstraintCodes[myErr.Number]
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23 is integrity constraint violation.
		return strings.HasPrefix(pgErr.Code, "23")
	}

	return false
}
