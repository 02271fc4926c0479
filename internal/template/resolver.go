package template

import (
	"context"
	"fmt"
	"strings"

	"github.com/hairfy/appointment-notifier/internal/errs"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/repository"
)

// Resolver looks up the active template body for a tenant.
type Resolver struct {
	templates repository.TemplatesRepository
}

func NewResolver(templates repository.TemplatesRepository) *Resolver {
	return &Resolver{templates: templates}
}

// Resolve returns the body of the active template of typ. A blank body counts as missing.
func (r *Resolver) Resolve(ctx context.Context, tenantID int64, typ model.TemplateType) (string, error) {
	tpl, err := r.templates.GetActive(ctx, tenantID, typ)
	if err != nil {
		return "", fmt.Errorf("%w: load template: %v", errs.ErrStoreUnavailable, err)
	}
	if tpl == nil || strings.TrimSpace(tpl.Message) == "" {
		return "", fmt.Errorf("tenant %d type %s: %w", tenantID, typ, errs.ErrTemplateNotFound)
	}
	return tpl.Message, nil
}
