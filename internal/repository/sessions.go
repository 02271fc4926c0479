package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/jmoiron/sqlx"
)

type SessionsRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*model.Session, error)
	UpdateConnection(ctx context.Context, tenantID int64, connected bool, at time.Time) error
}

type SessionsRepositoryImpl struct {
	db *sqlx.DB
}

func NewSessionsRepository(db *sqlx.DB) *SessionsRepositoryImpl {
	return &SessionsRepositoryImpl{db: db}
}

var _ SessionsRepository = (*SessionsRepositoryImpl)(nil)

// GetByTenant returns nil, nil when the tenant never created a session.
func (r *SessionsRepositoryImpl) GetByTenant(ctx context.Context, tenantID int64) (*model.Session, error) {
	var s model.Session
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`
		SELECT tenant_id, instance_token, is_connected, phone_number, last_connected_at, updated_at
		  FROM whatsapp_sessions
		 WHERE tenant_id = ? LIMIT 1
	`), tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateConnection stores the connection flag reported by the gateway.
// last_connected_at only moves when the session is connected.
func (r *SessionsRepositoryImpl) UpdateConnection(ctx context.Context, tenantID int64, connected bool, at time.Time) error {
	if connected {
		_, err := r.db.ExecContext(ctx, r.db.Rebind(`
			UPDATE whatsapp_sessions
			   SET is_connected = ?, last_connected_at = ?, updated_at = ?
			 WHERE tenant_id = ?
		`), true, at, at, tenantID)
		return err
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE whatsapp_sessions
		   SET is_connected = ?, updated_at = ?
		 WHERE tenant_id = ?
	`), false, at, tenantID)
	return err
}
