package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hairfy/appointment-notifier/internal/kafka"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/notify"
	"go.uber.org/zap"
)

// BookingEvent is published when an appointment is booked or confirmed.
type BookingEvent struct {
	TenantID      int64 `json:"tenant_id"`
	AppointmentID int64 `json:"appointment_id"`
}

type AppointmentLookup interface {
	GetByID(ctx context.Context, tenantID, id int64) (*model.Appointment, error)
}

type Confirmer interface {
	Confirm(ctx context.Context, a model.Appointment) (notify.Outcome, error)
}

// Confirmations consumes booking events and sends the confirmation message.
// Every message is committed once handled (at-least-once, no retry).
type Confirmations struct {
	Source       kafka.Source
	Appointments AppointmentLookup
	Confirmer    Confirmer
	Log          *zap.Logger
	FetchBackoff time.Duration
}

func NewConfirmations(src kafka.Source, appts AppointmentLookup, c Confirmer, log *zap.Logger) *Confirmations {
	if log == nil {
		log = zap.NewNop()
	}
	return &Confirmations{
		Source:       src,
		Appointments: appts,
		Confirmer:    c,
		Log:          log,
		FetchBackoff: 200 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled.
func (w *Confirmations) Run(ctx context.Context) error {
	for {
		m, err := w.Source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.Log.Warn("kafka fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.FetchBackoff):
			}
			continue
		}

		w.Handle(ctx, m)

		if err := w.Source.Commit(ctx, m); err != nil {
			w.Log.Error("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

// Handle processes one event; poison messages are logged and dropped.
func (w *Confirmations) Handle(ctx context.Context, m kafka.Message) {
	var ev BookingEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil || ev.TenantID <= 0 || ev.AppointmentID <= 0 {
		w.Log.Warn("bad booking event", zap.ByteString("value", m.Value), zap.Error(err))
		return
	}
	log := w.Log.With(zap.Int64("tenant_id", ev.TenantID), zap.Int64("appointment_id", ev.AppointmentID))

	a, err := w.Appointments.GetByID(ctx, ev.TenantID, ev.AppointmentID)
	if err != nil {
		log.Error("appointment lookup failed", zap.Error(err))
		return
	}
	if a == nil {
		log.Warn("appointment not found")
		return
	}

	out, err := w.Confirmer.Confirm(ctx, *a)
	if err != nil {
		log.Error("confirmation dispatch failed", zap.Error(err))
		return
	}
	if !out.Success {
		log.Warn("confirmation not delivered", zap.Error(out.Err), zap.String("record_id", out.RecordID))
	}
}
