package errs

import (
	"errors"

	"github.com/hairfy/appointment-notifier/internal/model"
)

var (
	ErrSessionNotConnected = errors.New("whatsapp session not connected")
	ErrTemplateNotFound    = errors.New("active template not found")
	ErrGatewayUnreachable  = errors.New("gateway unreachable")
	ErrGatewayRejected     = errors.New("gateway rejected message")
	ErrInvalidDestination  = errors.New("invalid destination phone")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Reason maps a dispatch error to the failure reason stored on the delivery record.
func Reason(err error) (model.FailureReason, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, ErrSessionNotConnected):
		return model.ReasonSession, true
	case errors.Is(err, ErrTemplateNotFound):
		return model.ReasonTemplate, true
	case errors.Is(err, ErrInvalidDestination):
		return model.ReasonDestination, true
	case errors.Is(err, ErrGatewayUnreachable), errors.Is(err, ErrGatewayRejected):
		return model.ReasonGateway, true
	default:
		return "", false
	}
}
