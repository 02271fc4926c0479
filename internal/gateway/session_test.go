package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hairfy/appointment-notifier/internal/errs"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessions struct{ mock.Mock }

func (m *mockSessions) GetByTenant(ctx context.Context, tenantID int64) (*model.Session, error) {
	args := m.Called(ctx, tenantID)
	s, _ := args.Get(0).(*model.Session)
	return s, args.Error(1)
}

func (m *mockSessions) UpdateConnection(ctx context.Context, tenantID int64, connected bool, at time.Time) error {
	return m.Called(ctx, tenantID, connected, at).Error(0)
}

type mockTransport struct{ mock.Mock }

func (m *mockTransport) Send(ctx context.Context, token, number, text string) (*Response, error) {
	args := m.Called(ctx, token, number, text)
	r, _ := args.Get(0).(*Response)
	return r, args.Error(1)
}

func (m *mockTransport) Status(ctx context.Context, token string) (*InstanceStatus, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*InstanceStatus)
	return s, args.Error(1)
}

func TestSessionGateway_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		session *model.Session
		err     error
		wantErr error
	}{
		{"connected", &model.Session{TenantID: 1, InstanceToken: "tok", IsConnected: true}, nil, nil},
		{"missing", nil, nil, errs.ErrSessionNotConnected},
		{"disconnected", &model.Session{TenantID: 1, InstanceToken: "tok"}, nil, errs.ErrSessionNotConnected},
		{"empty token", &model.Session{TenantID: 1, IsConnected: true}, nil, errs.ErrSessionNotConnected},
		{"store down", nil, errors.New("dial tcp"), errs.ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mockSessions{}
			sessions.On("GetByTenant", ctx, int64(1)).Return(tt.session, tt.err)

			g := NewSessionGateway(sessions, &mockTransport{})
			s, err := g.Resolve(ctx, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tok", s.InstanceToken)
		})
	}
}

func TestSessionGateway_StatusSyncsFlag(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	sessions := &mockSessions{}
	sessions.On("GetByTenant", ctx, int64(1)).Return(&model.Session{TenantID: 1, InstanceToken: "tok", IsConnected: true}, nil)
	sessions.On("UpdateConnection", ctx, int64(1), false, at).Return(nil)

	transport := &mockTransport{}
	transport.On("Status", ctx, "tok").Return(&InstanceStatus{Connected: true, LoggedIn: false}, nil)

	g := NewSessionGateway(sessions, transport)
	g.now = func() time.Time { return at }

	st, err := g.Status(ctx, 1)
	require.NoError(t, err)
	assert.False(t, st.Ready())
	sessions.AssertExpectations(t)
}

func TestSessionGateway_StatusUnchangedSkipsUpdate(t *testing.T) {
	ctx := context.Background()

	sessions := &mockSessions{}
	sessions.On("GetByTenant", ctx, int64(1)).Return(&model.Session{TenantID: 1, InstanceToken: "tok", IsConnected: true}, nil)

	transport := &mockTransport{}
	transport.On("Status", ctx, "tok").Return(&InstanceStatus{Connected: true, LoggedIn: true}, nil)

	st, err := NewSessionGateway(sessions, transport).Status(ctx, 1)
	require.NoError(t, err)
	assert.True(t, st.Ready())
	sessions.AssertNotCalled(t, "UpdateConnection", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionGateway_DispatchPassesThrough(t *testing.T) {
	ctx := context.Background()
	transport := &mockTransport{}
	transport.On("Send", ctx, "tok", "5511912345678", "oi").Return(&Response{StatusCode: 200}, nil).Once()

	res, err := NewSessionGateway(&mockSessions{}, transport).Dispatch(ctx, "tok", "5511912345678", "oi")
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	transport.AssertNumberOfCalls(t, "Send", 1)
}
