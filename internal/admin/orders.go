package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chillwithnegi/Leafora/internal/db"
	"github.com/chillwithnegi/Leafora/internal/marketplace"
)

type AdminOrder struct {
	ID         string    `json:"id"`
	BuyerID    string    `json:"buyer_id"`
	SellerID   string    `json:"seller_id"`
	ServiceID  string    `json:"service_id"`
	Amount     float64   `json:"amount"`
	Commission float64   `json:"commission_amount"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GET /admin/orders?status=disputed
func ListOrders(c echo.Context) error {
	query := `SELECT id, buyer_id, seller_id, service_id, amount, commission_amount, status, created_at, updated_at
              FROM orders ORDER BY created_at DESC`
	args := []interface{}{}
	if status := c.QueryParam("status"); status != "" {
		query = `SELECT id, buyer_id, seller_id, service_id, amount, commission_amount, status, created_at, updated_at
                 FROM orders WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch orders"})
	}
	defer rows.Close()

	var orders []AdminOrder
	for rows.Next() {
		var o AdminOrder
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.ServiceID, &o.Amount, &o.Commission, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read order record"})
		}
		orders = append(orders, o)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// OrderHandlers routes dispute resolutions through the order engine so the
// usual transition and aggregate rules apply.
type OrderHandlers struct {
	orders *marketplace.Orders
}

func NewOrderHandlers(orders *marketplace.Orders) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// POST /admin/orders/:id/resolve
func (h *OrderHandlers) ResolveDispute(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order id required"})
	}
	var req struct {
		Resolution string `json:"resolution"` // cancel
	}
	if err := c.Bind(&req); err != nil || req.Resolution == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload: resolution required"})
	}
	// Disputed orders only ever exit by cancellation; anything else goes
	// through the normal delivery path.
	if req.Resolution != "cancel" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resolution"})
	}

	order, err := h.orders.UpdateOrderStatus(context.Background(), id, marketplace.OrderCancelled)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "resolved", "order": order})
}
