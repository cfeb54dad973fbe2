package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"docstore/internal/config"
)

const (
	applicationName = "docstore"
	pingTimeout     = 5 * time.Second
)

var sqlOpen = sql.Open

// BuildPostgresDSN renders c as a postgres:// URL tagged with the
// application name, so sessions show up as docstore in pg_stat_activity.
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"host", c.Host}, {"port", c.Port}, {"user", c.User}, {"name", c.Name},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("database config: missing %s", strings.Join(missing, ", "))
	}

	params := url.Values{"application_name": {applicationName}}
	if c.SSLMode != "" {
		params.Set("sslmode", c.SSLMode)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(c.User),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     c.Name,
		RawQuery: params.Encode(),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String(), nil
}

// NewPostgres opens a traced database/sql pool on the pgx driver and returns
// it once a ping succeeds. The pool is closed again when the ping fails.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	configurePool(db, c)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// configurePool applies the non-zero pool limits of c; zero keeps the
// database/sql default.
func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if n := c.MaxOpenConns; n > 0 {
		db.SetMaxOpenConns(n)
	}
	if n := c.MaxIdleConns; n > 0 {
		db.SetMaxIdleConns(n)
	}
	if sec := c.ConnMaxLifetimeSec; sec > 0 {
		db.SetConnMaxLifetime(time.Duration(sec) * time.Second)
	}
}
