package marketplace

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/chillwithnegi/Leafora/internal/user"
)

// Orders is the lifecycle engine: it creates orders, drives their status
// through the transition graph and answers ownership and money queries.
type Orders struct {
	store     OrderStore
	services  ServiceStore
	profiles  ProfileAggregates
	settings  SettingsSource
	validator *TransitionValidator
}

func NewOrders(store OrderStore, services ServiceStore, profiles ProfileAggregates, settings SettingsSource) *Orders {
	return &Orders{
		store:     store,
		services:  services,
		profiles:  profiles,
		settings:  settings,
		validator: NewTransitionValidator(),
	}
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	ServiceID    string      `json:"service_id"`
	BuyerID      string      `json:"-"`
	Package      PackageTier `json:"package"`
	Requirements string      `json:"requirements"`
}

// CreateOrder places an order against an active service. Amount,
// commission and delivery date are computed here once and frozen: later
// edits to the tier or the commission rate do not touch existing orders.
func (e *Orders) CreateOrder(ctx context.Context, in CreateOrderInput) (Order, error) {
	if in.ServiceID == "" || in.BuyerID == "" {
		return Order{}, fmt.Errorf("%w: service and buyer are required", ErrValidation)
	}

	svc, err := e.services.Get(ctx, in.ServiceID)
	if err != nil {
		return Order{}, err
	}
	if svc.Status != ServiceActive {
		return Order{}, ErrServiceUnavailable
	}
	tier := svc.Pricing.Tier(in.Package)
	if tier == nil {
		return Order{}, ErrInvalidPackage
	}

	rate, err := e.settings.CommissionRate(ctx)
	if err != nil {
		return Order{}, err
	}

	now := time.Now()
	order := Order{
		ID:               uuid.New().String(),
		ServiceID:        svc.ID,
		BuyerID:          in.BuyerID,
		SellerID:         svc.SellerID,
		Package:          in.Package,
		Amount:           tier.Price,
		CommissionAmount: tier.Price * rate / 100,
		Requirements:     in.Requirements,
		RevisionCount:    0,
		MaxRevisions:     tier.Revisions,
		DeliveryDate:     now.Add(time.Duration(tier.DeliveryDays) * 24 * time.Hour),
		Status:           OrderPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := e.store.Insert(ctx, order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// UpdateOrderStatus validates the requested change against the transition
// graph and applies it. This is the only place completed_at is written,
// and it is written at most once.
func (e *Orders) UpdateOrderStatus(ctx context.Context, orderID string, newStatus OrderStatus) (Order, error) {
	order, err := e.store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	event, known := EventFor(newStatus)
	if !known {
		return Order{}, &TransitionError{Current: order.Status, Target: newStatus}
	}

	dst, err := e.validator.Apply(ctx, order.Status, event)
	if err != nil {
		return Order{}, err
	}

	order.Status = dst
	order.UpdatedAt = time.Now()
	if dst == OrderCompleted && order.CompletedAt == nil {
		completed := order.UpdatedAt
		order.CompletedAt = &completed
	}

	if err := e.store.Update(ctx, order); err != nil {
		return Order{}, err
	}

	if dst == OrderCompleted {
		// Designated recompute path for the cached aggregates. Best
		// effort: a failure here leaves stale counters but a valid order.
		if err := e.recomputeOnCompletion(ctx, order); err != nil {
			log.Printf("orders: aggregate recompute after %s failed: %v", order.ID, err)
		}
	}
	return order, nil
}

// RequestRevision counts a buyer revision request against the tier's
// allowance. The order stays delivered; there is no backward transition.
func (e *Orders) RequestRevision(ctx context.Context, orderID string) (Order, error) {
	order, err := e.store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if order.Status != OrderDelivered {
		return Order{}, fmt.Errorf("%w: revisions can only be requested on delivered orders", ErrValidation)
	}
	if order.RevisionCount >= order.MaxRevisions {
		return Order{}, fmt.Errorf("%w: revision limit reached", ErrValidation)
	}

	order.RevisionCount++
	order.UpdatedAt = time.Now()
	if err := e.store.Update(ctx, order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// OrderByID fetches a single order.
func (e *Orders) OrderByID(ctx context.Context, id string) (Order, error) {
	return e.store.Get(ctx, id)
}

// OrdersByUser returns the orders a user participates in under the given
// role lens: buyer_id for buyers, seller_id for sellers.
func (e *Orders) OrdersByUser(ctx context.Context, userID, role string) ([]Order, error) {
	if role != "buyer" && role != "seller" {
		return nil, fmt.Errorf("%w: role must be buyer or seller", ErrValidation)
	}
	return e.store.ListByUser(ctx, userID, role)
}

// TotalEarnings recomputes a seller's take from the authoritative order
// set: the post-commission amount of every completed order. Each order
// keeps the commission frozen at its creation, so a later rate change
// only affects newer orders.
func (e *Orders) TotalEarnings(ctx context.Context, sellerID string) (float64, error) {
	orders, err := e.store.ListByUser(ctx, sellerID, "seller")
	if err != nil {
		return 0, err
	}
	var total float64
	for _, o := range orders {
		if o.Status == OrderCompleted {
			total += o.Amount - o.CommissionAmount
		}
	}
	return total, nil
}

// TotalSpent recomputes a buyer's spend: the full amount of every order
// that was not cancelled.
func (e *Orders) TotalSpent(ctx context.Context, buyerID string) (float64, error) {
	orders, err := e.store.ListByUser(ctx, buyerID, "buyer")
	if err != nil {
		return 0, err
	}
	var total float64
	for _, o := range orders {
		if o.Status != OrderCancelled {
			total += o.Amount
		}
	}
	return total, nil
}

// recomputeOnCompletion refreshes the cached counters derived from
// completed orders: the service's total_orders and the seller's level.
func (e *Orders) recomputeOnCompletion(ctx context.Context, order Order) error {
	sellerOrders, err := e.store.ListByUser(ctx, order.SellerID, "seller")
	if err != nil {
		return err
	}

	serviceCompleted := 0
	sellerCompleted := 0
	for _, o := range sellerOrders {
		if o.Status != OrderCompleted {
			continue
		}
		sellerCompleted++
		if o.ServiceID == order.ServiceID {
			serviceCompleted++
		}
	}

	svc, err := e.services.Get(ctx, order.ServiceID)
	if err != nil {
		return err
	}
	svc.TotalOrders = serviceCompleted
	if err := e.services.Update(ctx, svc); err != nil {
		return err
	}

	return e.profiles.SetSellerLevel(ctx, order.SellerID, user.LevelFor(sellerCompleted))
}
