package model

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "agendado"
	AppointmentConfirmed AppointmentStatus = "confirmado"
)

// Appointment is a booked service slot, enriched with the tenant's
// name and address at read time.
type Appointment struct {
	ID           int64             `db:"id"`
	TenantID     int64             `db:"tenant_id"`
	ClientName   string            `db:"client_name"`
	ClientPhone  string            `db:"client_phone"`
	Date         time.Time         `db:"appointment_date"`
	StartTime    string            `db:"start_time"`
	ServiceName  string            `db:"service_name"`
	ServicePrice int64             `db:"service_price"` // cents
	StaffName    string            `db:"staff_name"`
	Status       AppointmentStatus `db:"status"`
	ReminderSent bool              `db:"reminder_sent"`

	TenantName    string  `db:"tenant_name"`
	TenantAddress *string `db:"tenant_address"`
}
