// ABOUTME: Database handle lifecycle: open, ping with backoff, reconnect, close.
// ABOUTME: One *sql.DB per process, backed by SQLite, Postgres or MySQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultConnectAttempts = 3
	defaultConnectBackoff  = 500 * time.Millisecond
	maxConnectBackoff      = 10 * time.Second
)

// Options selects the backend and carries its connection parameters.
// Path is used by sqlite; Name, User, Password, Host, Port and SSLMode by
// the network backends.
type Options struct {
	Driver   string
	Path     string
	Name     string
	User     string
	Password string
	Host     string
	Port     int
	SSLMode  string

	// MaxOpenConns defaults to 1: the tracker works over a single connection.
	MaxOpenConns int

	// ConnectAttempts and ConnectBackoff control the ping retry loop used
	// when opening and when recovering from a dropped connection.
	ConnectAttempts int
	ConnectBackoff  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Driver == "" {
		o.Driver = DriverSQLite
	}
	if o.Driver == DriverSQLite && o.Path == "" {
		o.Path = DefaultDBPath()
	}
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 1
	}
	if o.ConnectAttempts <= 0 {
		o.ConnectAttempts = defaultConnectAttempts
	}
	if o.ConnectBackoff <= 0 {
		o.ConnectBackoff = defaultConnectBackoff
	}
	return o
}

// DB wraps the database connection.
type DB struct {
	dialect dialect
	opts    Options
	now     func() time.Time

	mu      sync.Mutex
	db      *sql.DB
	healthy bool
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)

// Open connects to the configured backend and creates the schema if needed.
func Open(ctx context.Context, opts Options) (*DB, error) {
	opts = opts.withDefaults()

	dia, err := dialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	if opts.Driver == DriverSQLite {
		// Ensure parent directory exists
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	dsn, err := dia.dsn(opts)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dia.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)

	if err := pingWithBackoff(ctx, db, opts.ConnectAttempts, opts.ConnectBackoff); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w: %w", dia.name(), ErrUnavailable, err)
	}

	if opts.Driver == DriverSQLite {
		// Set file permissions
		if err := os.Chmod(opts.Path, 0600); err != nil && !os.IsNotExist(err) {
			_ = db.Close()
			return nil, fmt.Errorf("set database permissions: %w", err)
		}
	}

	d := &DB{
		dialect: dia,
		opts:    opts,
		now:     time.Now,
		db:      db,
		healthy: true,
	}

	if err := d.configure(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	if err := d.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Debug().Str("driver", dia.name()).Str("target", opts.target()).Msg("Database connection established")

	return d, nil
}

// OpenDefault opens the SQLite database at the default XDG data path.
func OpenDefault(ctx context.Context) (*DB, error) {
	return Open(ctx, Options{Driver: DriverSQLite, Path: DefaultDBPath()})
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitness")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "fitness.db")
}

// Driver reports the backend in use.
func (d *DB) Driver() string {
	return d.dialect.name()
}

// Close closes the database connection. Every later call fails with
// ErrUnavailable without touching the database.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	d.healthy = false
	return err
}

// Ping verifies the connection, reconnecting if it was marked lost.
func (d *DB) Ping(ctx context.Context) error {
	conn, err := d.conn(ctx)
	if err != nil {
		return d.fail("ping", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		return d.fail("ping", err)
	}
	return nil
}

// configure runs the dialect's per-database setup statements.
func (d *DB) configure(ctx context.Context) error {
	for _, stmt := range d.dialect.setup() {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute %s: %w", stmt, err)
		}
	}
	return nil
}

// conn returns the live handle. A handle marked lost is re-verified with
// ping and backoff first.
func (d *DB) conn(ctx context.Context) (*sql.DB, error) {
	d.mu.Lock()
	db, healthy := d.db, d.healthy
	d.mu.Unlock()

	if db == nil {
		return nil, ErrUnavailable
	}
	if healthy {
		return db, nil
	}

	log.Info().Str("driver", d.dialect.name()).Msg("Reconnecting to database")
	if err := pingWithBackoff(ctx, db, d.opts.ConnectAttempts, d.opts.ConnectBackoff); err != nil {
		return nil, fmt.Errorf("reconnect: %w: %w", ErrUnavailable, err)
	}

	d.mu.Lock()
	d.healthy = d.db != nil
	d.mu.Unlock()
	log.Info().Str("driver", d.dialect.name()).Msg("Database connection restored")

	return db, nil
}

// markLost flags the handle so the next call reconnects before running.
func (d *DB) markLost() {
	d.mu.Lock()
	d.healthy = false
	d.mu.Unlock()
}

// pingWithBackoff pings until success, doubling the wait between attempts.
func pingWithBackoff(ctx context.Context, db *sql.DB, attempts int, base time.Duration) error {
	backoff := base
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == attempts {
			break
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Database ping failed; retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = min(backoff*2, maxConnectBackoff)
	}
	return lastErr
}

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	conn, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}
	return conn.ExecContext(ctx, d.dialect.rebind(query), args...)
}

func (d *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	conn, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}
	return conn.QueryContext(ctx, d.dialect.rebind(query), args...)
}

// row runs a single-row query. A connection failure surfaces from Scan.
func (d *DB) row(ctx context.Context, query string, args ...any) rowScanner {
	conn, err := d.conn(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return conn.QueryRowContext(ctx, d.dialect.rebind(query), args...)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// insert runs an INSERT on q and returns the generated key.
func (d *DB) insert(ctx context.Context, q execQuerier, query, pk string, args ...any) (int64, error) {
	return d.dialect.insertID(ctx, q, query, pk, args...)
}

// execAffecting runs a write and reports ErrNotFound when it touched no rows.
func (d *DB) execAffecting(ctx context.Context, query string, args ...any) error {
	result, err := d.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// transaction wraps fn in a database transaction.
func (d *DB) transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := d.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
