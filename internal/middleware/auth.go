package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"panel-store/internal/dto"
)

// AnonKey requires every request to carry the static bearer token. The key
// authorizes calling the API at all; it is not per-user identity.
func AnonKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
					Success: false,
					Error:   "Unauthorized",
				})
			}
			return next(c)
		}
	}
}
