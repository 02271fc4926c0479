package notify

import (
	"context"
	"errors"
	"time"

	"github.com/hairfy/appointment-notifier/internal/errs"
	"github.com/hairfy/appointment-notifier/internal/gateway"
	"github.com/hairfy/appointment-notifier/internal/ledger"
	"github.com/hairfy/appointment-notifier/internal/metrics"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/template"
	"github.com/hairfy/appointment-notifier/internal/util"
	"go.uber.org/zap"
)

type Sessions interface {
	Resolve(ctx context.Context, tenantID int64) (*model.Session, error)
	Dispatch(ctx context.Context, token, destination, text string) (*gateway.Response, error)
}

type Templates interface {
	Resolve(ctx context.Context, tenantID int64, typ model.TemplateType) (string, error)
}

type Recorder interface {
	RecordSent(ctx context.Context, e ledger.Entry) (model.DeliveryRecord, error)
	RecordFailed(ctx context.Context, e ledger.Entry, cause error) (model.DeliveryRecord, error)
	MarkReminderSent(ctx context.Context, appointmentID int64) error
}

// Request describes one notification. Text, when set, is sent verbatim and
// skips the template lookup.
type Request struct {
	TenantID      int64
	AppointmentID *int64
	Destination   string
	ClientName    string
	MessageType   model.MessageType
	TemplateType  model.TemplateType
	Values        template.Values
	Text          string
}

// Outcome is the result of one dispatch. Domain failures land in Err.
type Outcome struct {
	Success     bool
	RecordID    string
	Destination string
	Message     string
	Err         error
}

// Dispatcher runs session check, template render, phone normalization and
// the gateway call for one notification, and records exactly one delivery.
type Dispatcher struct {
	sessions    Sessions
	templates   Templates
	ledger      Recorder
	renderer    *template.Renderer
	countryCode string
	metrics     *metrics.Metrics
	log         *zap.Logger
}

type Option func(*Dispatcher)

func WithRenderer(r *template.Renderer) Option { return func(d *Dispatcher) { d.renderer = r } }
func WithCountryCode(cc string) Option         { return func(d *Dispatcher) { d.countryCode = cc } }
func WithMetrics(m *metrics.Metrics) Option    { return func(d *Dispatcher) { d.metrics = m } }
func WithLogger(l *zap.Logger) Option          { return func(d *Dispatcher) { d.log = l } }

func NewDispatcher(sessions Sessions, templates Templates, rec Recorder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sessions:    sessions,
		templates:   templates,
		ledger:      rec,
		renderer:    template.NewRenderer(template.DefaultAddress),
		countryCode: util.DefaultCountryCode,
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Send dispatches one notification. The returned error is non-nil only when
// the store could not be reached; everything else is reported in Outcome.Err.
func (d *Dispatcher) Send(ctx context.Context, req Request) (Outcome, error) {
	start := time.Now()
	log := d.log.With(
		zap.Int64("tenant_id", req.TenantID),
		zap.String("message_type", req.MessageType.String()),
	)
	if req.AppointmentID != nil {
		log = log.With(zap.Int64("appointment_id", *req.AppointmentID))
	}

	entry := ledger.Entry{
		TenantID:      req.TenantID,
		AppointmentID: req.AppointmentID,
		Phone:         req.Destination,
		TemplateType:  req.TemplateType,
	}

	sess, err := d.sessions.Resolve(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, errs.ErrStoreUnavailable) {
			log.Error("session lookup failed", zap.Error(err))
			return Outcome{Destination: req.Destination, Err: err}, err
		}
		return d.fail(ctx, log, req, entry, err, start)
	}
	entry.InstanceToken = sess.InstanceToken

	text := req.Text
	if text == "" {
		body, err := d.templates.Resolve(ctx, req.TenantID, req.TemplateType)
		if err != nil {
			if errors.Is(err, errs.ErrStoreUnavailable) {
				log.Error("template lookup failed", zap.Error(err))
				return Outcome{Destination: req.Destination, Err: err}, err
			}
			return d.fail(ctx, log, req, entry, err, start)
		}
		text = d.renderer.Render(body, req.Values)
	}
	entry.Message = text

	dest := util.NormalizePhoneWithCode(req.Destination, d.countryCode)
	if dest == "" {
		return d.fail(ctx, log, req, entry, errs.ErrInvalidDestination, start)
	}
	entry.Phone = dest

	if _, err := d.sessions.Dispatch(ctx, sess.InstanceToken, dest, text); err != nil {
		return d.fail(ctx, log, req, entry, err, start)
	}

	out := Outcome{Success: true, Destination: dest, Message: text}
	rec, recErr := d.ledger.RecordSent(ctx, entry)
	d.metrics.ObserveDelivery(req.MessageType.String(), model.DeliverySent.String(), "", time.Since(start))
	if recErr != nil {
		log.Error("message sent but delivery record failed", zap.String("destination", dest), zap.Error(recErr))
	} else {
		out.RecordID = rec.ID
	}

	// the flag is written even without a record, or the next sweep resends
	var markErr error
	if req.MessageType == model.MessageReminder && req.AppointmentID != nil {
		if markErr = d.ledger.MarkReminderSent(ctx, *req.AppointmentID); markErr != nil {
			log.Error("reminder sent but flag update failed", zap.Error(markErr))
		}
	}

	if err := errors.Join(recErr, markErr); err != nil {
		return out, err
	}

	log.Info("notification sent", zap.String("destination", dest), zap.String("record_id", rec.ID))
	return out, nil
}

func (d *Dispatcher) fail(ctx context.Context, log *zap.Logger, req Request, entry ledger.Entry, cause error, start time.Time) (Outcome, error) {
	if entry.Message == "" {
		entry.Message = "[" + req.TemplateType.String() + "]"
	}
	reason, _ := errs.Reason(cause)

	out := Outcome{Destination: entry.Phone, Message: entry.Message, Err: cause}
	rec, err := d.ledger.RecordFailed(ctx, entry, cause)
	d.metrics.ObserveDelivery(req.MessageType.String(), model.DeliveryFailed.String(), string(reason), time.Since(start))
	if err != nil {
		log.Error("delivery record failed", zap.NamedError("cause", cause), zap.Error(err))
		return out, err
	}
	out.RecordID = rec.ID

	log.Warn("notification failed",
		zap.String("destination", entry.Phone),
		zap.String("reason", string(reason)),
		zap.String("record_id", rec.ID),
		zap.Error(cause),
	)
	return out, nil
}
