package model

import "time"

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string { return string(s) }

func (s DeliveryStatus) Valid() bool {
	return s == DeliveryPending || s == DeliverySent || s == DeliveryFailed
}

type FailureReason string

const (
	ReasonSession     FailureReason = "session"
	ReasonTemplate    FailureReason = "template"
	ReasonDestination FailureReason = "destination"
	ReasonGateway     FailureReason = "gateway"
)

// ErrorToken replaces the instance token on records that never reached the gateway.
const ErrorToken = "error"

// DeliveryRecord is one append-only row per dispatch attempt.
type DeliveryRecord struct {
	ID            string         `db:"id"             json:"id"`
	TenantID      int64          `db:"tenant_id"      json:"tenant_id"`
	AppointmentID *int64         `db:"appointment_id" json:"appointment_id,omitempty"`
	PhoneNumber   string         `db:"phone_number"   json:"phone_number"`
	Message       string         `db:"message"        json:"message"`
	TemplateType  TemplateType   `db:"template_type"  json:"template_type"`
	Status        DeliveryStatus `db:"status"         json:"status"`
	InstanceToken string         `db:"instance_token" json:"-"`
	FailureReason *string        `db:"failure_reason" json:"failure_reason,omitempty"`
	ErrorMessage  *string        `db:"error_message"  json:"error_message,omitempty"`
	CreatedAt     time.Time      `db:"created_at"     json:"created_at"`
	SentAt        *time.Time     `db:"sent_at"        json:"sent_at,omitempty"`
	FailedAt      *time.Time     `db:"failed_at"      json:"failed_at,omitempty"`
}
