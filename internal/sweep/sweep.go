package sweep

import (
	"context"
	"time"

	"github.com/hairfy/appointment-notifier/internal/metrics"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/notify"
	"go.uber.org/zap"
)

type Selector interface {
	ListDueReminders(ctx context.Context, date time.Time, statuses []model.AppointmentStatus) ([]model.Appointment, error)
}

type Reminder interface {
	Remind(ctx context.Context, a model.Appointment) (notify.Outcome, error)
}

// Result summarizes one sweep.
type Result struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Errors    int `json:"errors"`
}

// DefaultStatuses are the appointment states that still get a reminder.
var DefaultStatuses = []model.AppointmentStatus{model.AppointmentScheduled, model.AppointmentConfirmed}

// Sweep sends day-before reminders for every due appointment, one at a time.
type Sweep struct {
	appointments Selector
	reminder     Reminder
	pacer        *Pacer
	statuses     []model.AppointmentStatus
	metrics      *metrics.Metrics
	log          *zap.Logger
}

type Option func(*Sweep)

func WithStatuses(sts []model.AppointmentStatus) Option {
	return func(s *Sweep) {
		if len(sts) > 0 {
			s.statuses = sts
		}
	}
}
func WithMetrics(m *metrics.Metrics) Option { return func(s *Sweep) { s.metrics = m } }
func WithLogger(l *zap.Logger) Option       { return func(s *Sweep) { s.log = l } }

func New(appointments Selector, reminder Reminder, pacer *Pacer, opts ...Option) *Sweep {
	s := &Sweep{
		appointments: appointments,
		reminder:     reminder,
		pacer:        pacer,
		statuses:     DefaultStatuses,
		log:          zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// DueDate is the calendar day after ref, in ref's location.
func DueDate(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, ref.Location())
}

// Run selects appointments due the day after ref and reminds each of them.
// A failed selection counts as a single error.
func (s *Sweep) Run(ctx context.Context, ref time.Time) Result {
	due := DueDate(ref)
	log := s.log.With(zap.String("due_date", due.Format(time.DateOnly)))

	items, err := s.appointments.ListDueReminders(ctx, due, s.statuses)
	if err != nil {
		log.Error("reminder selection failed", zap.Error(err))
		s.metrics.ObserveSweep(0, 0, true)
		return Result{Errors: 1}
	}
	log.Info("reminder sweep started", zap.Int("due", len(items)))

	var res Result
	Each(ctx, s.pacer, items, func(ctx context.Context, a model.Appointment) {
		res.Processed++
		out, err := s.reminder.Remind(ctx, a)
		if err != nil {
			log.Error("reminder dispatch failed", zap.Int64("appointment_id", a.ID), zap.Error(err))
		}
		if out.Success {
			res.Sent++
			return
		}
		res.Errors++
	})

	s.metrics.ObserveSweep(res.Sent, res.Errors, false)
	log.Info("reminder sweep finished",
		zap.Int("processed", res.Processed),
		zap.Int("sent", res.Sent),
		zap.Int("errors", res.Errors),
	)
	return res
}
