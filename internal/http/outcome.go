package http

import (
	"errors"
	"net/http"

	"github.com/hairfy/appointment-notifier/internal/errs"
	"github.com/hairfy/appointment-notifier/internal/gateway"
	"github.com/hairfy/appointment-notifier/internal/notify"
	"github.com/labstack/echo/v4"
)

// outcomeJSON maps a dispatch outcome onto a response. Failed dispatches are
// still recorded, so the record id is returned either way.
func outcomeJSON(c echo.Context, out notify.Outcome) error {
	if out.Success {
		return c.JSON(http.StatusOK, map[string]any{
			"sent":    true,
			"id":      out.RecordID,
			"phone":   out.Destination,
			"message": out.Message,
		})
	}

	code := http.StatusBadGateway
	reason := "gateway_error"
	switch {
	case errors.Is(out.Err, errs.ErrSessionNotConnected):
		code, reason = http.StatusConflict, "session_not_connected"
	case errors.Is(out.Err, errs.ErrTemplateNotFound):
		code, reason = http.StatusUnprocessableEntity, "template_not_found"
	case errors.Is(out.Err, errs.ErrInvalidDestination):
		code, reason = http.StatusBadRequest, "invalid_phone"
	case errors.Is(out.Err, errs.ErrGatewayUnreachable):
		code, reason = http.StatusServiceUnavailable, "gateway_unreachable"
	}

	body := map[string]any{
		"sent":  false,
		"id":    out.RecordID,
		"error": reason,
	}
	var rej *gateway.RejectedError
	if errors.As(out.Err, &rej) {
		body["description"] = rej.Detail()
	}
	return c.JSON(code, body)
}
