package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Reviews records buyer feedback on completed orders and maintains the
// cached rating aggregates on services and seller profiles.
type Reviews struct {
	store    ReviewStore
	orders   OrderStore
	services ServiceStore
	profiles ProfileAggregates
}

func NewReviews(store ReviewStore, orders OrderStore, services ServiceStore, profiles ProfileAggregates) *Reviews {
	return &Reviews{store: store, orders: orders, services: services, profiles: profiles}
}

// CreateReviewInput is the payload for reviewing an order.
type CreateReviewInput struct {
	OrderID string `json:"-"`
	BuyerID string `json:"-"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

var ErrDuplicateReview = errors.New("review already exists for this order")

// Create validates ownership and order state, records the review and runs
// the rating recompute. One review per order.
func (r *Reviews) Create(ctx context.Context, in CreateReviewInput) (Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if len(in.Comment) > 1000 {
		return Review{}, fmt.Errorf("%w: comment too long (max 1000 characters)", ErrValidation)
	}

	order, err := r.orders.Get(ctx, in.OrderID)
	if err != nil {
		return Review{}, err
	}
	if order.BuyerID != in.BuyerID {
		return Review{}, fmt.Errorf("%w: order does not belong to reviewer", ErrValidation)
	}
	if order.Status != OrderCompleted {
		return Review{}, fmt.Errorf("%w: can only review completed orders", ErrValidation)
	}

	if _, err := r.store.GetByOrder(ctx, in.OrderID); err == nil {
		return Review{}, ErrDuplicateReview
	} else if !errors.Is(err, ErrReviewNotFound) {
		return Review{}, err
	}

	review := Review{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		ServiceID: order.ServiceID,
		BuyerID:   order.BuyerID,
		SellerID:  order.SellerID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: time.Now(),
	}
	if err := r.store.Insert(ctx, review); err != nil {
		return Review{}, err
	}

	// The review is recorded even if the recompute fails; stale
	// aggregates heal on the next designated recompute.
	if err := r.recompute(ctx, review.SellerID, review.ServiceID); err != nil {
		log.Printf("reviews: rating recompute after %s failed: %v", review.ID, err)
	}
	return review, nil
}

// BySeller lists a seller's reviews newest first.
func (r *Reviews) BySeller(ctx context.Context, sellerID string) ([]Review, error) {
	return r.store.ListBySeller(ctx, sellerID)
}

// recompute rewrites the cached rating aggregates for a seller and one of
// their services from the full review set.
func (r *Reviews) recompute(ctx context.Context, sellerID, serviceID string) error {
	sellerReviews, err := r.store.ListBySeller(ctx, sellerID)
	if err != nil {
		return err
	}
	if err := r.profiles.SetRating(ctx, sellerID, average(sellerReviews), len(sellerReviews)); err != nil {
		return err
	}

	serviceReviews, err := r.store.ListByService(ctx, serviceID)
	if err != nil {
		return err
	}
	svc, err := r.services.Get(ctx, serviceID)
	if err != nil {
		return err
	}
	svc.Rating = average(serviceReviews)
	return r.services.Update(ctx, svc)
}

func average(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(reviews))
}
