package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hairfy/appointment-notifier/internal/app"
	"github.com/hairfy/appointment-notifier/internal/config"
	"github.com/hairfy/appointment-notifier/internal/logger"
	"github.com/hairfy/appointment-notifier/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepDate string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Send day-before reminders once and print the result",
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

		loc := cfg.Sweep.Location()
		ref := time.Now().In(loc)
		if sweepDate != "" {
			// --date is the reference day; reminders go out for the day after it
			ref, err = time.ParseInLocation(time.DateOnly, sweepDate, loc)
			if err != nil {
				return fmt.Errorf("parse --date: %w", err)
			}
		}

		store, err := app.OpenDB(cfg)
		if err != nil {
			return fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
		}
		defer store.Close()

		svc := app.New(cfg, store, metrics.New(), log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("running reminder sweep", zap.Time("ref", ref))
		res := svc.Sweep.Run(ctx, ref)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepDate, "date", "", "reference date YYYY-MM-DD in the sweep timezone (default today)")
}
