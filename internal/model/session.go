package model

import (
	"strings"
	"time"
)

// Session is the tenant's messaging gateway instance (one per tenant).
type Session struct {
	TenantID        int64      `db:"tenant_id"`
	InstanceToken   string     `db:"instance_token"`
	IsConnected     bool       `db:"is_connected"`
	PhoneNumber     *string    `db:"phone_number"`
	LastConnectedAt *time.Time `db:"last_connected_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// Usable reports whether the session can be used for a dispatch.
func (s *Session) Usable() bool {
	return s != nil && s.IsConnected && strings.TrimSpace(s.InstanceToken) != ""
}
