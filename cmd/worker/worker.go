package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hairfy/appointment-notifier/internal/app"
	"github.com/hairfy/appointment-notifier/internal/config"
	"github.com/hairfy/appointment-notifier/internal/logger"
	"github.com/hairfy/appointment-notifier/internal/metrics"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var metricsAddr string

// NewWorkerCmd returns the parent "worker" command.
func NewWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background workers",
	}
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address (empty = off)")

	// attach subcommands
	cmd.AddCommand(schedulerCmd)
	cmd.AddCommand(confirmationsCmd)

	return cmd
}

// runtime is what every worker needs: config, logger, store and the pipeline.
type runtime struct {
	cfg   config.Config
	log   *zap.Logger
	store *sqlx.DB
	svc   *app.Services
}

func bootstrap(cmd *cobra.Command) (*runtime, error) {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := app.OpenDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
	}

	m := metrics.New()
	m.MustRegister(prometheus.DefaultRegisterer)

	return &runtime{cfg: cfg, log: log, store: store, svc: app.New(cfg, store, m, log)}, nil
}

func (rt *runtime) Close() {
	_ = rt.store.Close()
	_ = rt.log.Sync()
}

// serveMetrics exposes the default registry until ctx is done.
func (rt *runtime) serveMetrics(ctx context.Context) {
	if metricsAddr == "" {
		return
	}
	e := newMetricsRouter(prometheus.DefaultGatherer)

	go func() {
		rt.log.Info("metrics: listening", zap.String("addr", metricsAddr))
		if err := e.Start(metricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.Error("metrics server exited", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()
}

func newMetricsRouter(g prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	return e
}
