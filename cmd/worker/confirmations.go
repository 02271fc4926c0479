package worker

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hairfy/appointment-notifier/internal/kafka"
	"github.com/hairfy/appointment-notifier/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var confirmationsCmd = &cobra.Command{
	Use:   "confirmations",
	Short: "Consume booking events and send confirmation messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		kc := rt.cfg.Kafka
		groupID := kc.GroupID
		if groupID == "" {
			groupID = "notifier-confirmations"
		}

		consumer := kafka.NewConsumerFromConfig(kafka.Config{
			Brokers:        kc.Brokers,
			Topic:          kc.ConfirmationsTopic,
			GroupID:        groupID,
			MinBytes:       kc.MinBytes,
			MaxBytes:       kc.MaxBytes,
			CommitInterval: time.Duration(kc.CommitInterval) * time.Millisecond,
			Logger:         rt.log.Named("kafka"),
		})
		defer consumer.Close()

		w := worker.NewConfirmations(consumer, rt.svc.Appointments, rt.svc.Dispatcher, rt.log.Named("confirmations"))

		// graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		rt.serveMetrics(ctx)

		rt.log.Info(">> confirmations started", zap.String("topic", kc.ConfirmationsTopic), zap.String("group", groupID))
		return w.Run(ctx)
	},
}
