package db

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
	DriverClickHouse = "clickhouse"
)

// Pool tunes database/sql pooling; zero values keep the driver defaults.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func (p Pool) apply(db *sqlx.DB) {
	if p.MaxOpenConns > 0 {
		db.SetMaxOpenConns(p.MaxOpenConns)
	}
	if p.MaxIdleConns > 0 {
		db.SetMaxIdleConns(p.MaxIdleConns)
	}
	if p.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(p.ConnMaxLifetime)
	}
	if p.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(p.ConnMaxIdleTime)
	}
}

type SQLOpts struct {
	Driver string // mysql|postgres, default mysql
	DSN    string
	Pool
	PingTimeout time.Duration // default 5s
}

// NewSQLConnection opens the appointment store with pool/timeouts applied.
// Queries are written with `?` placeholders and rebound per driver.
func NewSQLConnection(opts SQLOpts) (*sqlx.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("empty database DSN")
	}
	driver := opts.Driver
	switch driver {
	case "":
		driver = DriverMySQL
	case DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return open(driver, opts.DSN, opts.Pool, opts.PingTimeout, 5*time.Second)
}

func open(driver, dsn string, pool Pool, pingTimeout, fallback time.Duration) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	pool.apply(db)

	if pingTimeout <= 0 {
		pingTimeout = fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}
