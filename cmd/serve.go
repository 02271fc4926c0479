package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hairfy/appointment-notifier/internal/app"
	"github.com/hairfy/appointment-notifier/internal/config"
	"github.com/hairfy/appointment-notifier/internal/db"
	httpSrv "github.com/hairfy/appointment-notifier/internal/http"
	"github.com/hairfy/appointment-notifier/internal/logger"
	"github.com/hairfy/appointment-notifier/internal/metrics"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		store, err := app.OpenDB(cfg)
		if err != nil {
			return fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
		}
		defer store.Close()

		redisClient, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		var chDB *sqlx.DB
		if cfg.ClickHouse.Enabled {
			chDB, err = db.NewClickHouseConnection(db.ClickHouseOpts{
				DSN: cfg.ClickHouse.DSN,
				Pool: db.Pool{
					MaxOpenConns:    cfg.ClickHouse.MaxOpenConns,
					MaxIdleConns:    cfg.ClickHouse.MaxIdleConns,
					ConnMaxLifetime: cfg.ClickHouse.ConnMaxLifetime,
					ConnMaxIdleTime: cfg.ClickHouse.ConnMaxIdleTime,
				},
				PingTimeout: cfg.ClickHouse.PingTimeout,
			})
			if err != nil {
				return fmt.Errorf("clickhouse connect: %w", err)
			}
			defer func() { _ = chDB.Close() }()
		}

		svc := app.New(cfg, store, metrics.New(), log)
		server := httpSrv.NewServer(cfg, svc, chDB, redisClient, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start(cfg.HTTP.Addr) }()

		select {
		case <-ctx.Done():
			log.Info("signal received, shutting down")
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server exited", zap.Error(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)

		return nil
	},
}
