package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hairfy/appointment-notifier/internal/app"
	"github.com/hairfy/appointment-notifier/internal/config"
	"github.com/hairfy/appointment-notifier/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (dev: DROP & CREATE tables)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		sqlDB, err := app.OpenDB(cfg)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		if err := migrate(ctx, sqlDB, migrationPath(sqlDB.DriverName())); err != nil {
			return err
		}

		if cfg.ClickHouse.Enabled {
			chDB, err := db.NewClickHouseConnection(db.ClickHouseOpts{
				DSN:         cfg.ClickHouse.DSN,
				PingTimeout: cfg.ClickHouse.PingTimeout,
			})
			if err != nil {
				return fmt.Errorf("clickhouse connect: %w", err)
			}
			defer chDB.Close()

			if err := migrate(ctx, chDB, migrationPath(db.DriverClickHouse)); err != nil {
				return err
			}
		}

		fmt.Println(">> Migration complete")
		return nil
	},
}

func migrationPath(driver string) string {
	name := "001_init.sql"
	if driver == db.DriverClickHouse {
		name = "001_deliveries.sql"
	}
	return filepath.Join("migrations", driver, name)
}

// migrate runs every statement of path on one connection; session settings
// only hold there.
func migrate(ctx context.Context, dbx *sqlx.DB, path string) error {
	sqlBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file %s: %w", path, err)
	}

	conn, err := dbx.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()

	if dbx.DriverName() == db.DriverMySQL {
		if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
			return fmt.Errorf("disable fk checks: %w", err)
		}
		defer func() { _, _ = conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1") }()
	}

	for i, stmt := range splitStatements(string(sqlBytes)) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s statement %d: %w", path, i+1, err)
		}
	}
	return nil
}

// splitStatements cuts a migration file on ';', dropping comment-only chunks.
func splitStatements(src string) []string {
	var out []string
	for _, chunk := range strings.Split(src, ";") {
		var lines []string
		for _, l := range strings.Split(chunk, "\n") {
			if t := strings.TrimSpace(l); t != "" && !strings.HasPrefix(t, "--") {
				lines = append(lines, l)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.TrimSpace(strings.Join(lines, "\n")))
		}
	}
	return out
}
