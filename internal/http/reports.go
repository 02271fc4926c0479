package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hairfy/appointment-notifier/internal/http/middleware"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/repository"
	"github.com/hairfy/appointment-notifier/internal/util"
	echo "github.com/labstack/echo/v4"
)

// listDeliveriesHandler normalizes the phone filter with countryCode so it
// matches the destinations the dispatcher stored.
func listDeliveriesHandler(reader repository.DeliveryReader, countryCode string) echo.HandlerFunc {
	if countryCode == "" {
		countryCode = util.DefaultCountryCode
	}
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		f := repository.DeliveryFilter{TenantID: tenantID, Limit: 50}
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				f.Limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				f.Offset = n
			}
		}
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			if st := model.DeliveryStatus(raw); st.Valid() {
				f.Status = st
			}
		}
		f.Phone = util.NormalizePhoneWithCode(c.QueryParam("phone"), countryCode)

		rows, err := reader.ListByTenant(c.Request().Context(), f)
		if err != nil {
			c.Logger().Errorf("delivery list failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   f.Limit,
			"offset":  f.Offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}
