package app

import (
	"github.com/hairfy/appointment-notifier/internal/config"
	"github.com/hairfy/appointment-notifier/internal/db"
	"github.com/hairfy/appointment-notifier/internal/gateway"
	"github.com/hairfy/appointment-notifier/internal/ledger"
	"github.com/hairfy/appointment-notifier/internal/metrics"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/notify"
	"github.com/hairfy/appointment-notifier/internal/repository"
	"github.com/hairfy/appointment-notifier/internal/sweep"
	"github.com/hairfy/appointment-notifier/internal/template"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Services is the notification pipeline built on one store connection.
type Services struct {
	Tenants      repository.TenantsRepository
	Appointments repository.AppointmentsRepository
	Deliveries   repository.DeliveriesRepository
	Sessions     *gateway.SessionGateway
	Dispatcher   *notify.Dispatcher
	Sweep        *sweep.Sweep
	Metrics      *metrics.Metrics
}

func New(cfg config.Config, store *sqlx.DB, m *metrics.Metrics, log *zap.Logger) *Services {
	tenantsRepo := repository.NewTenantsRepository(store)
	sessionsRepo := repository.NewSessionsRepository(store)
	templatesRepo := repository.NewTemplatesRepository(store)
	appointmentsRepo := repository.NewAppointmentsRepository(store)
	deliveriesRepo := repository.NewDeliveriesRepository(store)

	client := gateway.NewClient(gateway.ClientOpts{
		BaseURL:       cfg.Gateway.BaseURL,
		SendPath:      cfg.Gateway.SendPath,
		StatusPath:    cfg.Gateway.StatusPath,
		TimeoutMs:     cfg.Gateway.TimeoutMs,
		FailThreshold: cfg.Gateway.Breaker.FailThreshold,
		OpenForMs:     cfg.Gateway.Breaker.OpenForMs,
	})
	sessions := gateway.NewSessionGateway(sessionsRepo, client)

	dispatcher := notify.NewDispatcher(
		sessions,
		template.NewResolver(templatesRepo),
		ledger.New(deliveriesRepo, appointmentsRepo),
		notify.WithRenderer(template.NewRenderer(cfg.Notify.DefaultAddress)),
		notify.WithCountryCode(cfg.Notify.CountryCode),
		notify.WithMetrics(m),
		notify.WithLogger(log.Named("dispatcher")),
	)

	sw := sweep.New(
		appointmentsRepo,
		dispatcher,
		sweep.NewPacer(cfg.Sweep.Interval, nil),
		sweep.WithStatuses(Statuses(cfg.Sweep.Statuses)),
		sweep.WithMetrics(m),
		sweep.WithLogger(log.Named("sweep")),
	)

	return &Services{
		Tenants:      tenantsRepo,
		Appointments: appointmentsRepo,
		Deliveries:   deliveriesRepo,
		Sessions:     sessions,
		Dispatcher:   dispatcher,
		Sweep:        sw,
		Metrics:      m,
	}
}

// Statuses converts configured status names, dropping blanks.
func Statuses(names []string) []model.AppointmentStatus {
	out := make([]model.AppointmentStatus, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, model.AppointmentStatus(n))
		}
	}
	return out
}

// OpenDB connects the appointment store described by cfg.Database.
func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	return db.NewSQLConnection(db.SQLOpts{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Pool: db.Pool{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		},
		PingTimeout: cfg.Database.PingTimeout,
	})
}
