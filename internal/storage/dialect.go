// ABOUTME: SQL dialects for the supported backends.
// ABOUTME: Covers DSN building, placeholder rebinding and generated-key retrieval.
package storage

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DefaultPort returns the conventional port for a network driver, or 0.
func DefaultPort(driver string) int {
	switch driver {
	case DriverPostgres:
		return 5432
	case DriverMySQL:
		return 3306
	default:
		return 0
	}
}

type dialect interface {
	name() string
	driverName() string
	dsn(opts Options) (string, error)
	// setup returns statements run once after connecting.
	setup() []string
	// schema returns the DDL statements, in dependency order.
	schema() []string
	rebind(query string) string
	insertID(ctx context.Context, q execQuerier, query, pk string, args ...any) (int64, error)
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect{}, nil
	case DriverPostgres:
		return postgresDialect{}, nil
	case DriverMySQL:
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown driver: %q", driver)
	}
}

// target describes the connection for logs, without credentials.
func (o Options) target() string {
	if o.Driver == DriverSQLite {
		return o.Path
	}
	return net.JoinHostPort(o.Host, strconv.Itoa(o.port())) + "/" + o.Name
}

func (o Options) port() int {
	if o.Port > 0 {
		return o.Port
	}
	return DefaultPort(o.Driver)
}

func (o Options) host() string {
	if o.Host == "" {
		return "localhost"
	}
	return o.Host
}

// lastInsertID covers drivers that report generated keys through sql.Result.
func lastInsertID(ctx context.Context, q execQuerier, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

type sqliteDialect struct{}

func (sqliteDialect) name() string       { return DriverSQLite }
func (sqliteDialect) driverName() string { return "sqlite" }

func (sqliteDialect) dsn(opts Options) (string, error) {
	if opts.Path == "" {
		return "", fmt.Errorf("sqlite: database path is required")
	}
	// Per-connection pragmas go in the DSN so they survive reconnects.
	return opts.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
}

func (sqliteDialect) setup() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
}

func (sqliteDialect) schema() []string { return sqliteSchema }

func (sqliteDialect) rebind(query string) string { return query }

func (sqliteDialect) insertID(ctx context.Context, q execQuerier, query, _ string, args ...any) (int64, error) {
	return lastInsertID(ctx, q, query, args...)
}

type postgresDialect struct{}

func (postgresDialect) name() string       { return DriverPostgres }
func (postgresDialect) driverName() string { return "pgx" }

func (postgresDialect) dsn(opts Options) (string, error) {
	if opts.Name == "" {
		return "", fmt.Errorf("postgres: database name is required")
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(opts.host(), strconv.Itoa(opts.port())),
		Path:   "/" + opts.Name,
	}
	if opts.User != "" {
		if opts.Password != "" {
			u.User = url.UserPassword(opts.User, opts.Password)
		} else {
			u.User = url.User(opts.User)
		}
	}
	if opts.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{opts.SSLMode}}.Encode()
	}
	return u.String(), nil
}

func (postgresDialect) setup() []string { return nil }

func (postgresDialect) schema() []string { return postgresSchema }

// rebind rewrites ? placeholders as $1, $2, ...
func (postgresDialect) rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p postgresDialect) insertID(ctx context.Context, q execQuerier, query, pk string, args ...any) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, p.rebind(query+" RETURNING "+pk), args...).Scan(&id)
	return id, err
}

type mysqlDialect struct{}

func (mysqlDialect) name() string       { return DriverMySQL }
func (mysqlDialect) driverName() string { return "mysql" }

func (mysqlDialect) dsn(opts Options) (string, error) {
	if opts.Name == "" {
		return "", fmt.Errorf("mysql: database name is required")
	}
	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(opts.host(), strconv.Itoa(opts.port()))
	cfg.DBName = opts.Name
	// Matched rather than changed rows, so a no-op update is not "not found".
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

func (mysqlDialect) setup() []string { return nil }

func (mysqlDialect) schema() []string { return mysqlSchema }

func (mysqlDialect) rebind(query string) string { return query }

func (mysqlDialect) insertID(ctx context.Context, q execQuerier, query, _ string, args ...any) (int64, error) {
	return lastInsertID(ctx, q, query, args...)
}
