package middleware

import (
	"net/http"
	"strings"

	"github.com/hairfy/appointment-notifier/internal/repository"
	echo "github.com/labstack/echo/v4"
)

const (
	ctxTenantID  = "tenant_id"
	ctxTenantRPS = "tenant_rps"
)

// TenantIDFromCtx extracts the authenticated tenant_id set by APIKeyMiddleware.
func TenantIDFromCtx(c echo.Context) (int64, bool) {
	id, ok := c.Get(ctxTenantID).(int64)
	return id, ok && id > 0
}

// APIKeyMiddleware authenticates requests using the X-API-Key header and
// blocks suspended tenants.
func APIKeyMiddleware(tenants repository.TenantsRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			tn, err := tenants.GetByAPIKey(c.Request().Context(), key)
			if err != nil {
				c.Logger().Errorf("tenant lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "auth error"})
			}
			if !tn.Active() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			}
			c.Set(ctxTenantID, tn.ID)
			if tn.RateLimitRPS != nil {
				c.Set(ctxTenantRPS, *tn.RateLimitRPS)
			}
			return next(c)
		}
	}
}
