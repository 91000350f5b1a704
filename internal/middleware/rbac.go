package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRoles rejects requests whose token role is not in the allowed
// set. The JWT middleware must run first so "role" is on the context.
func RequireRoles(allowed ...string) echo.MiddlewareFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := set[role]; !ok {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "insufficient role",
				})
			}
			return next(c)
		}
	}
}
