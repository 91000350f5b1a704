package marketplace_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chillwithnegi/Leafora/internal/marketplace"
)

func newReviewsFixture() (*marketplace.Reviews, *memReviewStore, *memOrderStore, *memServiceStore, *memProfiles) {
	services := &memServiceStore{services: []marketplace.Service{
		{ID: "svc-1", SellerID: "seller-1", Title: "Landing page", Category: "Web Development",
			Pricing: marketplace.Pricing{Basic: tier(100, 3, 1)}, Status: marketplace.ServiceActive},
		{ID: "svc-2", SellerID: "seller-1", Title: "API build", Category: "Web Development",
			Pricing: marketplace.Pricing{Basic: tier(250, 7, 2)}, Status: marketplace.ServiceActive},
	}}
	orders := &memOrderStore{orders: []marketplace.Order{
		{ID: "ord-done", ServiceID: "svc-1", BuyerID: "buyer-1", SellerID: "seller-1", Status: marketplace.OrderCompleted},
		{ID: "ord-done-2", ServiceID: "svc-2", BuyerID: "buyer-1", SellerID: "seller-1", Status: marketplace.OrderCompleted},
		{ID: "ord-open", ServiceID: "svc-1", BuyerID: "buyer-1", SellerID: "seller-1", Status: marketplace.OrderDelivered},
	}}
	store := &memReviewStore{}
	profiles := newMemProfiles()
	engine := marketplace.NewReviews(store, orders, services, profiles)
	return engine, store, orders, services, profiles
}

func TestCreateReview_Validation(t *testing.T) {
	engine, store, _, _, _ := newReviewsFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   marketplace.CreateReviewInput
	}{
		{"rating too low", marketplace.CreateReviewInput{OrderID: "ord-done", BuyerID: "buyer-1", Rating: 0}},
		{"rating too high", marketplace.CreateReviewInput{OrderID: "ord-done", BuyerID: "buyer-1", Rating: 6}},
		{"comment too long", marketplace.CreateReviewInput{OrderID: "ord-done", BuyerID: "buyer-1", Rating: 5, Comment: strings.Repeat("x", 1001)}},
		{"not the buyer", marketplace.CreateReviewInput{OrderID: "ord-done", BuyerID: "someone-else", Rating: 5}},
		{"order not completed", marketplace.CreateReviewInput{OrderID: "ord-open", BuyerID: "buyer-1", Rating: 5}},
	}
	for _, tc := range cases {
		if _, err := engine.Create(ctx, tc.in); !errors.Is(err, marketplace.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.name, err)
		}
	}
	if len(store.reviews) != 0 {
		t.Errorf("store holds %d reviews after rejected inputs, want 0", len(store.reviews))
	}
}

func TestCreateReview_OnePerOrder(t *testing.T) {
	engine, _, _, _, _ := newReviewsFixture()
	ctx := context.Background()

	first, err := engine.Create(ctx, marketplace.CreateReviewInput{
		OrderID: "ord-done", BuyerID: "buyer-1", Rating: 5, Comment: "great work",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.SellerID != "seller-1" || first.ServiceID != "svc-1" {
		t.Errorf("review links = %q/%q, want seller-1/svc-1", first.SellerID, first.ServiceID)
	}

	_, err = engine.Create(ctx, marketplace.CreateReviewInput{
		OrderID: "ord-done", BuyerID: "buyer-1", Rating: 1,
	})
	if !errors.Is(err, marketplace.ErrDuplicateReview) {
		t.Errorf("err = %v, want ErrDuplicateReview", err)
	}
}

func TestCreateReview_RecomputesRatings(t *testing.T) {
	engine, _, _, services, profiles := newReviewsFixture()
	ctx := context.Background()

	if _, err := engine.Create(ctx, marketplace.CreateReviewInput{
		OrderID: "ord-done", BuyerID: "buyer-1", Rating: 4,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := engine.Create(ctx, marketplace.CreateReviewInput{
		OrderID: "ord-done-2", BuyerID: "buyer-1", Rating: 5,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := profiles.ratings["seller-1"]; got != 4.5 {
		t.Errorf("seller rating = %v, want 4.5", got)
	}
	if got := profiles.totals["seller-1"]; got != 2 {
		t.Errorf("seller total_reviews = %d, want 2", got)
	}

	// Each service averages only its own reviews.
	svc1, _ := services.Get(ctx, "svc-1")
	if svc1.Rating != 4 {
		t.Errorf("svc-1 rating = %v, want 4", svc1.Rating)
	}
	svc2, _ := services.Get(ctx, "svc-2")
	if svc2.Rating != 5 {
		t.Errorf("svc-2 rating = %v, want 5", svc2.Rating)
	}
}

func TestReviews_BySeller(t *testing.T) {
	engine, store, _, _, _ := newReviewsFixture()
	ctx := context.Background()

	_ = store.Insert(ctx, marketplace.Review{ID: "rv-1", OrderID: "x", SellerID: "seller-1", Rating: 5})
	_ = store.Insert(ctx, marketplace.Review{ID: "rv-2", OrderID: "y", SellerID: "other", Rating: 3})

	got, err := engine.BySeller(ctx, "seller-1")
	if err != nil {
		t.Fatalf("BySeller: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rv-1" {
		t.Errorf("BySeller = %v, want [rv-1]", got)
	}
}
