package model

import (
	"strings"
	"time"
)

type TemplateType string

const (
	TemplateConfirmation         TemplateType = "confirmation"
	TemplateReminder             TemplateType = "reminder"
	TemplateCustom               TemplateType = "custom"
	TemplateAppointmentConfirmed TemplateType = "appointment_confirmed"
	TemplateAppointmentReminder  TemplateType = "appointment_reminder"
)

func (t TemplateType) String() string { return string(t) }

func (t TemplateType) Valid() bool {
	switch t {
	case TemplateConfirmation, TemplateReminder, TemplateCustom,
		TemplateAppointmentConfirmed, TemplateAppointmentReminder:
		return true
	}
	return false
}

// Template is a tenant-authored message body with {placeholder} tokens.
type Template struct {
	ID        int64        `db:"id"`
	TenantID  int64        `db:"tenant_id"`
	Type      TemplateType `db:"template_type"`
	Message   string       `db:"message"`
	IsActive  bool         `db:"is_active"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// MessageType is the purpose of an outbound notification.
type MessageType string

const (
	MessageConfirmation MessageType = "confirmation"
	MessageReminder     MessageType = "reminder"
	MessageCustom       MessageType = "custom"
)

func (t MessageType) String() string { return string(t) }

// ParseMessageType normalizes input; empty => custom.
func ParseMessageType(s string) (MessageType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "custom":
		return MessageCustom, true
	case "confirmation":
		return MessageConfirmation, true
	case "reminder":
		return MessageReminder, true
	default:
		return MessageCustom, false
	}
}
