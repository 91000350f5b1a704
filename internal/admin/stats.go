package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chillwithnegi/Leafora/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var users, sellers, services, orders, completed, reviews, messages int
	var revenue float64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = 'seller'`).Scan(&sellers)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&services)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orders)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = 'completed'`).Scan(&completed)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&reviews)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&messages)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(commission_amount), 0) FROM orders WHERE status = 'completed'`).Scan(&revenue)

	return c.JSON(http.StatusOK, echo.Map{
		"users":              users,
		"sellers":            sellers,
		"services":           services,
		"orders":             orders,
		"completed_orders":   completed,
		"reviews":            reviews,
		"messages":           messages,
		"commission_revenue": revenue,
	})
}
