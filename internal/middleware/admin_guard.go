package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chillwithnegi/Leafora/internal/user"
)

// AdminGuard gates the /admin group on the admin role.
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != user.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"message": "admin access required",
			})
		}
		return next(c)
	}
}
