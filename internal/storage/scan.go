// ABOUTME: Scanning helpers that smooth over driver differences.
// ABOUTME: DATE columns arrive as time.Time, string or []byte depending on the backend.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/fitness/internal/models"
)

// dateValue scans a DATE column from any supported driver into a calendar date.
type dateValue struct {
	t *time.Time
}

func (v dateValue) Scan(src any) error {
	switch s := src.(type) {
	case time.Time:
		*v.t = models.Date(s)
		return nil
	case string:
		t, err := models.ParseDate(s)
		if err != nil {
			return err
		}
		*v.t = t
		return nil
	case []byte:
		t, err := models.ParseDate(string(s))
		if err != nil {
			return err
		}
		*v.t = t
		return nil
	case nil:
		*v.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported date type %T", src)
	}
}

func scanDate(t *time.Time) sql.Scanner {
	return dateValue{t: t}
}

// dateArg formats a date for a query parameter.
func dateArg(t time.Time) string {
	return models.FormatDate(t)
}

// nullString converts an empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
