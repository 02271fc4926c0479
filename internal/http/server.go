package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hairfy/appointment-notifier/internal/app"
	"github.com/hairfy/appointment-notifier/internal/config"
	"github.com/hairfy/appointment-notifier/internal/http/middleware"
	"github.com/hairfy/appointment-notifier/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

// routes holds everything the router needs; tests build it directly.
type routes struct {
	Tenants      repository.TenantsRepository
	Appointments repository.AppointmentsRepository
	Deliveries   repository.DeliveryReader
	Notifier     Notifier
	Sessions     StatusChecker
	Redis        *redis.Client
	RateLimitRPS int
	CountryCode  string
	Gatherer     prometheus.Gatherer
}

// NewServer exposes the pipeline over HTTP. chDB may be nil, in which case
// delivery reports read from the primary store.
func NewServer(cfg config.Config, svc *app.Services, chDB *sqlx.DB, rds *redis.Client, logger *zap.Logger) *Server {
	var reports repository.DeliveryReader = svc.Deliveries
	if chDB != nil {
		reports = repository.NewCHDeliveriesRepository(chDB)
	}

	svc.Metrics.MustRegister(prometheus.DefaultRegisterer)

	e := newRouter(routes{
		Tenants:      svc.Tenants,
		Appointments: svc.Appointments,
		Deliveries:   reports,
		Notifier:     svc.Dispatcher,
		Sessions:     svc.Sessions,
		Redis:        rds,
		RateLimitRPS: cfg.RateLimit.RPS,
		CountryCode:  cfg.Notify.CountryCode,
		Gatherer:     prometheus.DefaultGatherer,
	})

	return &Server{e: e, log: logger}
}

func newRouter(r routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(echoMid.Recover(), echoMid.Logger())

	if r.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{})))
	}

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.APIKeyMiddleware(r.Tenants)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          r.Redis,
		DefaultRPS:     r.RateLimitRPS,
		KeyPrefix:      "rl:tenant:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.POST("/whatsapp/send", sendMessageHandler(r.Notifier))
	v1.GET("/whatsapp/status", sessionStatusHandler(r.Sessions))
	v1.POST("/appointments/:id/confirmation", confirmationHandler(r.Appointments, r.Notifier))
	v1.GET("/deliveries", listDeliveriesHandler(r.Deliveries, r.CountryCode))

	return e
}

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
