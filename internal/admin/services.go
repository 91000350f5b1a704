package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chillwithnegi/Leafora/internal/db"
)

type AdminService struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"seller_id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Rating      float64 `json:"rating"`
	TotalOrders int     `json:"total_orders"`
	CreatedAt   string  `json:"created_at"`
}

// GET /admin/services
func ListServices(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(), `
        SELECT id, seller_id, title, category, status, rating, total_orders, created_at
        FROM services ORDER BY created_at DESC
    `)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch services"})
	}
	defer rows.Close()

	var items []AdminService
	for rows.Next() {
		var s AdminService
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.SellerID, &s.Title, &s.Category, &s.Status, &s.Rating, &s.TotalOrders, &createdAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read service record"})
		}
		s.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		items = append(items, s)
	}
	return c.JSON(http.StatusOK, echo.Map{"services": items})
}

// POST /admin/services/:id/approve
func ApproveService(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service id required"})
	}
	_, err := db.Conn.Exec(context.Background(), `UPDATE services SET status = 'active' WHERE id = $1`, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to approve service"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service approved", "service_id": id})
}

// POST /admin/services/:id/reject
func RejectService(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service id required"})
	}
	_, err := db.Conn.Exec(context.Background(), `UPDATE services SET status = 'rejected' WHERE id = $1`, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reject service"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service rejected", "service_id": id})
}
