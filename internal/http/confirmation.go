package http

import (
	"net/http"
	"strconv"

	"github.com/hairfy/appointment-notifier/internal/http/middleware"
	"github.com/hairfy/appointment-notifier/internal/repository"
	"github.com/labstack/echo/v4"
)

func confirmationHandler(appts repository.AppointmentsRepository, n Notifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid appointment id"})
		}

		a, err := appts.GetByID(c.Request().Context(), tenantID, id)
		if err != nil {
			c.Logger().Errorf("appointment lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		if a == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "appointment not found"})
		}

		out, err := n.Confirm(c.Request().Context(), *a)
		if err != nil && !out.Success {
			c.Logger().Errorf("confirmation failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return outcomeJSON(c, out)
	}
}
