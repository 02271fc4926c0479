package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/jmoiron/sqlx"
)

type AppointmentsRepository interface {
	ListDueReminders(ctx context.Context, date time.Time, statuses []model.AppointmentStatus) ([]model.Appointment, error)
	GetByID(ctx context.Context, tenantID, id int64) (*model.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

type AppointmentsRepositoryImpl struct {
	db *sqlx.DB
}

func NewAppointmentsRepository(db *sqlx.DB) *AppointmentsRepositoryImpl {
	return &AppointmentsRepositoryImpl{db: db}
}

var _ AppointmentsRepository = (*AppointmentsRepositoryImpl)(nil)

const appointmentColumns = `
	a.id, a.tenant_id, a.client_name, a.client_phone, a.appointment_date, a.start_time,
	COALESCE(a.service_name, '') AS service_name, a.service_price,
	COALESCE(a.staff_name, '') AS staff_name, a.status, a.reminder_sent,
	t.name AS tenant_name, t.address AS tenant_address
`

// ListDueReminders selects appointments on date that still need a reminder,
// enriched with the owning tenant's name and address.
func (r *AppointmentsRepositoryImpl) ListDueReminders(ctx context.Context, date time.Time, statuses []model.AppointmentStatus) ([]model.Appointment, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	sts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		sts = append(sts, string(s))
	}

	base := `SELECT ` + appointmentColumns + `
		  FROM appointments a
		  JOIN tenants t ON t.id = a.tenant_id
		 WHERE a.appointment_date = ?
		   AND a.status IN (?)
		   AND a.reminder_sent = ?
		 ORDER BY a.start_time, a.client_name`
	query, args, err := sqlx.In(base, date.Format(time.DateOnly), sts, false)
	if err != nil {
		return nil, err
	}

	var rows []model.Appointment
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil, nil when the appointment does not belong to the tenant.
func (r *AppointmentsRepositoryImpl) GetByID(ctx context.Context, tenantID, id int64) (*model.Appointment, error) {
	var a model.Appointment
	err := r.db.GetContext(ctx, &a, r.db.Rebind(`SELECT `+appointmentColumns+`
		  FROM appointments a
		  JOIN tenants t ON t.id = a.tenant_id
		 WHERE a.id = ? AND a.tenant_id = ?
		 LIMIT 1`), id, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// MarkReminderSent flips reminder_sent; the flag never reverts.
func (r *AppointmentsRepositoryImpl) MarkReminderSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE appointments
		   SET reminder_sent = ?, updated_at = ?
		 WHERE id = ?
	`), true, time.Now().UTC(), id)
	return err
}
