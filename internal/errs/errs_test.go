package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	tests := []struct {
		err    error
		want   model.FailureReason
		wantOK bool
	}{
		{nil, "", false},
		{ErrSessionNotConnected, model.ReasonSession, true},
		{fmt.Errorf("tenant 7: %w", ErrTemplateNotFound), model.ReasonTemplate, true},
		{ErrInvalidDestination, model.ReasonDestination, true},
		{ErrGatewayUnreachable, model.ReasonGateway, true},
		{fmt.Errorf("status 400: %w", ErrGatewayRejected), model.ReasonGateway, true},
		{ErrStoreUnavailable, "", false},
		{errors.New("boom"), "", false},
	}
	for _, tt := range tests {
		got, ok := Reason(tt.err)
		assert.Equal(t, tt.want, got, "%v", tt.err)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.err)
	}
}
