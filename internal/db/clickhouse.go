package db

import (
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
)

type ClickHouseOpts struct {
	DSN string // e.g. clickhouse://default:@localhost:9000/notifier?dial_timeout=5s&compress=true
	Pool
	PingTimeout time.Duration // default 3s
}

// NewClickHouseConnection opens the delivery reporting store. It is only
// dialed when reports are served from the replica.
func NewClickHouseConnection(opts ClickHouseOpts) (*sqlx.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("empty ClickHouse DSN")
	}
	return open(DriverClickHouse, opts.DSN, opts.Pool, opts.PingTimeout, 3*time.Second)
}
