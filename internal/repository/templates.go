package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/jmoiron/sqlx"
)

type TemplatesRepository interface {
	GetActive(ctx context.Context, tenantID int64, typ model.TemplateType) (*model.Template, error)
}

type TemplatesRepositoryImpl struct {
	db *sqlx.DB
}

func NewTemplatesRepository(db *sqlx.DB) *TemplatesRepositoryImpl {
	return &TemplatesRepositoryImpl{db: db}
}

var _ TemplatesRepository = (*TemplatesRepositoryImpl)(nil)

// GetActive returns the most recently updated active template of typ, or nil, nil.
func (r *TemplatesRepositoryImpl) GetActive(ctx context.Context, tenantID int64, typ model.TemplateType) (*model.Template, error) {
	var t model.Template
	err := r.db.GetContext(ctx, &t, r.db.Rebind(`
		SELECT id, tenant_id, template_type, message, is_active, updated_at
		  FROM whatsapp_templates
		 WHERE tenant_id = ? AND template_type = ? AND is_active = ?
		 ORDER BY updated_at DESC
		 LIMIT 1
	`), tenantID, typ.String(), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
