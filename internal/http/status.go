package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/hairfy/appointment-notifier/internal/errs"
	"github.com/hairfy/appointment-notifier/internal/gateway"
	"github.com/hairfy/appointment-notifier/internal/http/middleware"
	"github.com/labstack/echo/v4"
)

type StatusChecker interface {
	Status(ctx context.Context, tenantID int64) (*gateway.InstanceStatus, error)
}

func sessionStatusHandler(s StatusChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		st, err := s.Status(c.Request().Context(), tenantID)
		switch {
		case err == nil:
		case errors.Is(err, errs.ErrSessionNotConnected):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		case errors.Is(err, errs.ErrStoreUnavailable) && st == nil:
			c.Logger().Errorf("session status failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		case errors.Is(err, errs.ErrStoreUnavailable):
			c.Logger().Warnf("session flag not synced: %v", err)
		default:
			c.Logger().Warnf("gateway status failed: %v", err)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "gateway error"})
		}

		body := map[string]any{
			"connected": st.Ready(),
			"state":     st.State,
		}
		if st.QRCode != "" {
			body["qrcode"] = st.QRCode
		}
		return c.JSON(http.StatusOK, body)
	}
}
