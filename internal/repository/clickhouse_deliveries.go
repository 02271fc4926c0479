package repository

import (
	"context"

	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/jmoiron/sqlx"
)

// chDeliveriesRepository lists deliveries from the ClickHouse replica (final view).
type chDeliveriesRepository struct {
	ch *sqlx.DB
}

func NewCHDeliveriesRepository(ch *sqlx.DB) DeliveryReader {
	return &chDeliveriesRepository{ch: ch}
}

func (r *chDeliveriesRepository) ListByTenant(ctx context.Context, f DeliveryFilter) ([]model.DeliveryRecord, error) {
	f.clamp()

	q := `
		SELECT ` + deliveryColumns + `
		FROM notifier.deliveries_latest
		WHERE tenant_id = ?
	`
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
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
