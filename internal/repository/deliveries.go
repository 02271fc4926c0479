package repository

import (
	"context"

	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/jmoiron/sqlx"
)

// DeliveryFilter narrows a tenant's delivery history.
type DeliveryFilter struct {
	TenantID int64
	Phone    string
	Status   model.DeliveryStatus
	Limit    int
	Offset   int
}

func (f *DeliveryFilter) clamp() {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// DeliveryReader lists delivery records, newest first.
type DeliveryReader interface {
	ListByTenant(ctx context.Context, f DeliveryFilter) ([]model.DeliveryRecord, error)
}

// DeliveriesRepository persists the append-only delivery log.
type DeliveriesRepository interface {
	DeliveryReader
	Insert(ctx context.Context, rec model.DeliveryRecord) error
}

type DeliveriesRepositoryImpl struct {
	db *sqlx.DB
}

func NewDeliveriesRepository(db *sqlx.DB) *DeliveriesRepositoryImpl {
	return &DeliveriesRepositoryImpl{db: db}
}

var _ DeliveriesRepository = (*DeliveriesRepositoryImpl)(nil)

const deliveryColumns = `id, tenant_id, appointment_id, phone_number, message, template_type, status,
	instance_token, failure_reason, error_message, created_at, sent_at, failed_at`

// Insert appends one record; rows are never updated afterwards.
func (r *DeliveriesRepositoryImpl) Insert(ctx context.Context, rec model.DeliveryRecord) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO whatsapp_message_queue (`+deliveryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		rec.ID, rec.TenantID, rec.AppointmentID, rec.PhoneNumber, rec.Message,
		rec.TemplateType.String(), rec.Status.String(), rec.InstanceToken,
		rec.FailureReason, rec.ErrorMessage, rec.CreatedAt, rec.SentAt, rec.FailedAt,
	)
	return err
}

func (r *DeliveriesRepositoryImpl) ListByTenant(ctx context.Context, f DeliveryFilter) ([]model.DeliveryRecord, error) {
	f.clamp()

	q := `SELECT ` + deliveryColumns + ` FROM whatsapp_message_queue WHERE tenant_id = ?`
	args := []any{f.TenantID}

	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status.String())
	}
	if f.Phone != "" {
		q += " AND phone_number = ?"
		args = append(args, f.Phone)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var rows []model.DeliveryRecord
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return rows, nil
}
