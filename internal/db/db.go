package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/memberdir/apiserver/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
)

// Open connects to the configured database and verifies the connection.
// Postgres is the production driver; sqlite serves local development and
// tests. Either way the store layer only ever sees the pooled *sql.DB
// handle, never a shared connection.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	driver, dsn, err := DriverDSN(cfg)
	if err != nil {
		return nil, err
	}

	handle, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == config.DriverSQLite {
		// sqlite allows a single writer; serialize through the pool.
		handle.SetMaxOpenConns(1)
	} else {
		handle.SetConnMaxIdleTime(defaultConnMaxIdle)
		handle.SetConnMaxLifetime(defaultConnMaxLife)
		handle.SetMaxIdleConns(defaultMaxIdleConns)
		handle.SetMaxOpenConns(defaultMaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, err
	}

	return handle, nil
}

// DriverDSN resolves the sql driver name and DSN from config.
func DriverDSN(cfg config.Config) (driver, dsn string, err error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres, "":
		return config.DriverPostgres, PostgresURL(cfg), nil
	case config.DriverSQLite:
		return config.DriverSQLite, cfg.Database.SQLitePath, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// PostgresURL builds a postgres connection URL from config.
func PostgresURL(cfg config.Config) string {
	sslmode := "disable"
	if cfg.Database.UseSSL {
		sslmode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port),
		User:   url.UserPassword(cfg.Database.User, cfg.Database.Password),
		Path:   cfg.Database.DBName,
	}

	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()

	return u.String()
}
