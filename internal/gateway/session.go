package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/hairfy/appointment-notifier/internal/errs"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/repository"
)

// Transport is the wire side of the gateway.
type Transport interface {
	Send(ctx context.Context, token, number, text string) (*Response, error)
	Status(ctx context.Context, token string) (*InstanceStatus, error)
}

// SessionGateway binds a tenant's stored session to the gateway transport.
type SessionGateway struct {
	sessions  repository.SessionsRepository
	transport Transport
	now       func() time.Time
}

func NewSessionGateway(sessions repository.SessionsRepository, transport Transport) *SessionGateway {
	return &SessionGateway{sessions: sessions, transport: transport, now: time.Now}
}

// Resolve returns the tenant's session when it is connected and carries a token.
func (g *SessionGateway) Resolve(ctx context.Context, tenantID int64) (*model.Session, error) {
	s, err := g.sessions.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", errs.ErrStoreUnavailable, err)
	}
	if !s.Usable() {
		return nil, fmt.Errorf("tenant %d: %w", tenantID, errs.ErrSessionNotConnected)
	}
	return s, nil
}

// Dispatch makes exactly one send call; it never retries.
func (g *SessionGateway) Dispatch(ctx context.Context, token, destination, text string) (*Response, error) {
	return g.transport.Send(ctx, token, destination, text)
}

// Status asks the gateway for the instance state and stores the resulting
// connection flag on the session.
func (g *SessionGateway) Status(ctx context.Context, tenantID int64) (*InstanceStatus, error) {
	s, err := g.sessions.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", errs.ErrStoreUnavailable, err)
	}
	if s == nil || s.InstanceToken == "" {
		return nil, fmt.Errorf("tenant %d: %w", tenantID, errs.ErrSessionNotConnected)
	}

	st, err := g.transport.Status(ctx, s.InstanceToken)
	if err != nil {
		return nil, err
	}

	if st.Ready() != s.IsConnected {
		if err := g.sessions.UpdateConnection(ctx, tenantID, st.Ready(), g.now().UTC()); err != nil {
			return st, fmt.Errorf("%w: update session: %v", errs.ErrStoreUnavailable, err)
		}
	}
	return st, nil
}
