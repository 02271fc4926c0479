package model

import "time"

// Tenant is a barbershop owning sessions, templates and appointments.
type Tenant struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Address      *string   `db:"address"` // nullable
	APIKey       string    `db:"api_key"`
	Status       string    `db:"status"`         // active|suspended
	RateLimitRPS *int      `db:"rate_limit_rps"` // nullable
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (t *Tenant) Active() bool { return t != nil && t.Status == "active" }
