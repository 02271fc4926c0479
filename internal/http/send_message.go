package http

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/hairfy/appointment-notifier/internal/http/middleware"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/notify"
	"github.com/labstack/echo/v4"
)

const maxMessageRunes = 4096

type Notifier interface {
	SendText(ctx context.Context, tenantID int64, phone, text string) (notify.Outcome, error)
	Confirm(ctx context.Context, a model.Appointment) (notify.Outcome, error)
}

type sendReq struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func sendMessageHandler(n Notifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		var req sendReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.Phone = strings.TrimSpace(req.Phone)
		req.Message = strings.TrimSpace(req.Message)
		if req.Phone == "" || req.Message == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "phone and message are required"})
		}
		if utf8.RuneCountInString(req.Message) > maxMessageRunes {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "message too long"})
		}

		out, err := n.SendText(c.Request().Context(), tenantID, req.Phone, req.Message)
		if err != nil && !out.Success {
			c.Logger().Errorf("send text failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return outcomeJSON(c, out)
	}
}
