package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/hairfy/appointment-notifier/internal/errs"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/repository"
	"github.com/hairfy/appointment-notifier/internal/util"
)

// ReminderMarker flips an appointment's reminder flag.
type ReminderMarker interface {
	MarkReminderSent(ctx context.Context, id int64) error
}

// Entry is what the dispatcher knows about an attempt when it finishes.
type Entry struct {
	TenantID      int64
	AppointmentID *int64
	Phone         string
	Message       string
	TemplateType  model.TemplateType
	InstanceToken string
}

// Ledger appends one immutable delivery record per dispatch attempt.
type Ledger struct {
	deliveries   repository.DeliveriesRepository
	appointments ReminderMarker
	now          func() time.Time
}

func New(deliveries repository.DeliveriesRepository, appointments ReminderMarker) *Ledger {
	return &Ledger{deliveries: deliveries, appointments: appointments, now: time.Now}
}

// RecordSent stores a sent record for an accepted dispatch.
func (l *Ledger) RecordSent(ctx context.Context, e Entry) (model.DeliveryRecord, error) {
	now := l.now().UTC()
	rec := l.base(e, now)
	rec.Status = model.DeliverySent
	rec.SentAt = &now

	return rec, l.insert(ctx, rec)
}

// RecordFailed stores a failed record carrying the cause. Attempts that never
// reached a session get the error token in place of the instance token.
func (l *Ledger) RecordFailed(ctx context.Context, e Entry, cause error) (model.DeliveryRecord, error) {
	now := l.now().UTC()
	rec := l.base(e, now)
	rec.Status = model.DeliveryFailed
	rec.FailedAt = &now
	if rec.InstanceToken == "" {
		rec.InstanceToken = model.ErrorToken
	}
	if reason, ok := errs.Reason(cause); ok {
		r := string(reason)
		rec.FailureReason = &r
	}
	if cause != nil {
		msg := cause.Error()
		rec.ErrorMessage = &msg
	}

	return rec, l.insert(ctx, rec)
}

// MarkReminderSent records that the appointment's reminder went out.
func (l *Ledger) MarkReminderSent(ctx context.Context, appointmentID int64) error {
	if err := l.appointments.MarkReminderSent(ctx, appointmentID); err != nil {
		return fmt.Errorf("%w: mark reminder sent: %v", errs.ErrStoreUnavailable, err)
	}
	return nil
}

func (l *Ledger) base(e Entry, now time.Time) model.DeliveryRecord {
	return model.DeliveryRecord{
		ID:            util.NewID(now),
		TenantID:      e.TenantID,
		AppointmentID: e.AppointmentID,
		PhoneNumber:   e.Phone,
		Message:       e.Message,
		TemplateType:  e.TemplateType,
		InstanceToken: e.InstanceToken,
		CreatedAt:     now,
	}
}

func (l *Ledger) insert(ctx context.Context, rec model.DeliveryRecord) error {
	if err := l.deliveries.Insert(ctx, rec); err != nil {
		return fmt.Errorf("%w: insert delivery: %v", errs.ErrStoreUnavailable, err)
	}
	return nil
}
