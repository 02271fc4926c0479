package worker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hairfy/appointment-notifier/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runAtStart bool

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the reminder sweep on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		s, err := scheduler.New(rt.svc.Sweep, rt.cfg.Sweep.Cron, rt.cfg.Sweep.Location(), rt.log.Named("scheduler"))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		rt.serveMetrics(ctx)

		if runAtStart {
			res := s.RunOnce(ctx)
			rt.log.Info("startup sweep finished", zap.Int("processed", res.Processed), zap.Int("sent", res.Sent), zap.Int("errors", res.Errors))
		}

		rt.log.Info(">> scheduler started", zap.String("cron", rt.cfg.Sweep.Cron), zap.Time("next", s.Next()))
		return s.Run(ctx)
	},
}

func init() {
	schedulerCmd.Flags().BoolVar(&runAtStart, "run-now", false, "run one sweep immediately before waiting for the schedule")
}
