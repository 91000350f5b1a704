package marketplace

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers exposes the catalog, lifecycle and review engines over echo.
type Handlers struct {
	Catalog *Catalog
	Orders  *Orders
	Reviews *Reviews
}

func NewHandlers(catalog *Catalog, orders *Orders, reviews *Reviews) *Handlers {
	return &Handlers{Catalog: catalog, Orders: orders, Reviews: reviews}
}

// GetServices returns the filtered catalog view. Query params mutate the
// filter inputs; each setter re-derives the view in full.
func (h *Handlers) GetServices(c echo.Context) error {
	h.Catalog.SetSearchQuery(c.QueryParam("q"))
	h.Catalog.SetSelectedCategory(c.QueryParam("category"))

	min, max := 0.0, 0.0
	hasRange := false
	if v := c.QueryParam("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			min = f
			hasRange = true
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			max = f
			hasRange = true
		}
	}
	if hasRange {
		if max == 0 {
			max = 1e12
		}
		h.Catalog.SetPriceRange(min, max)
	}
	if sort := c.QueryParam("sort"); sort != "" {
		h.Catalog.SetSortBy(sort)
	}

	return c.JSON(http.StatusOK, echo.Map{"services": h.Catalog.FilteredServices()})
}

// GetService returns a single service by id.
func (h *Handlers) GetService(c echo.Context) error {
	svc, found := h.Catalog.ServiceByID(c.Param("id"))
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"service": svc})
}

// GetFeatured returns active services grouped by the featured categories.
func (h *Handlers) GetFeatured(c echo.Context) error {
	groups, err := h.Catalog.Featured(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch featured services"})
	}
	return c.JSON(http.StatusOK, echo.Map{"featured": groups})
}

// CreateService lets a seller list a new service.
func (h *Handlers) CreateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var svc Service
	if err := c.Bind(&svc); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	svc.SellerID = uid

	res, id := h.Catalog.CreateService(c.Request().Context(), svc)
	if !res.Success {
		return c.JSON(http.StatusBadRequest, res)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"service_id": id,
		"message":    res.Message,
	})
}

// UpdateService applies a seller edit to their own listing.
func (h *Handlers) UpdateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	current, found := h.Catalog.ServiceByID(id)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}
	if current.SellerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your service"})
	}

	var updates Service
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	res := h.Catalog.UpdateService(c.Request().Context(), id, updates)
	if !res.Success {
		return c.JSON(http.StatusBadRequest, res)
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteService retires a seller's own listing.
func (h *Handlers) DeleteService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	current, found := h.Catalog.ServiceByID(id)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}
	if current.SellerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your service"})
	}

	res := h.Catalog.DeleteService(c.Request().Context(), id)
	if !res.Success {
		return c.JSON(http.StatusBadRequest, res)
	}
	return c.JSON(http.StatusOK, res)
}

// GetMyServices returns the caller's own listings, drafts included.
func (h *Handlers) GetMyServices(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"services": h.Catalog.ServicesBySeller(uid)})
}

// CreateOrder - buyer checks out one tier of a service
func (h *Handlers) CreateOrder(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in CreateOrderInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	in.BuyerID = buyerID

	order, err := h.Orders.CreateOrder(c.Request().Context(), in)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"order_id": order.ID,
		"message":  "Order placed successfully",
	})
}

// UpdateOrderStatus moves an order through the lifecycle. Only the two
// participants may drive it.
func (h *Handlers) UpdateOrderStatus(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("id")

	var req struct {
		Status OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing status"})
	}

	current, err := h.Orders.OrderByID(c.Request().Context(), orderID)
	if err != nil {
		return orderError(c, err)
	}
	if current.BuyerID != uid && current.SellerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this order"})
	}

	order, err := h.Orders.UpdateOrderStatus(c.Request().Context(), orderID, req.Status)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// RequestRevision - buyer asks for a revision on a delivered order
func (h *Handlers) RequestRevision(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("id")

	current, err := h.Orders.OrderByID(c.Request().Context(), orderID)
	if err != nil {
		return orderError(c, err)
	}
	if current.BuyerID != buyerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your order"})
	}

	order, err := h.Orders.RequestRevision(c.Request().Context(), orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        "Revision requested",
		"revision_count": order.RevisionCount,
		"max_revisions":  order.MaxRevisions,
	})
}

// GetUserOrders returns the caller's orders under a role lens. The lens
// defaults to buyer and can be flipped with ?role=seller.
func (h *Handlers) GetUserOrders(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	role := c.QueryParam("role")
	if role == "" {
		role = "buyer"
	}

	orders, err := h.Orders.OrdersByUser(c.Request().Context(), uid, role)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// GetDashboard returns the recomputed money aggregates for the caller.
func (h *Handlers) GetDashboard(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	earnings, err := h.Orders.TotalEarnings(ctx, uid)
	if err != nil {
		return orderError(c, err)
	}
	spent, err := h.Orders.TotalSpent(ctx, uid)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_earnings": earnings,
		"total_spent":    spent,
	})
}

// CreateReview - buyer reviews their completed order
func (h *Handlers) CreateReview(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in CreateReviewInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	in.OrderID = c.Param("id")
	in.BuyerID = buyerID

	review, err := h.Reviews.Create(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrDuplicateReview) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return orderError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":   true,
		"review_id": review.ID,
		"message":   "Review created successfully",
	})
}

// GetSellerReviews lists reviews for a seller.
func (h *Handlers) GetSellerReviews(c echo.Context) error {
	sellerID := c.Param("id")
	if sellerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing seller id"})
	}

	reviews, err := h.Reviews.BySeller(c.Request().Context(), sellerID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

// orderError maps the engine error taxonomy onto HTTP responses with the
// success/message shape the clients render.
func orderError(c echo.Context, err error) error {
	var trErr *TransitionError
	switch {
	case errors.As(err, &trErr):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": trErr.Error()})
	case errors.Is(err, ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrInvalidPackage):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrServiceUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}
