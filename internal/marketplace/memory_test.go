package marketplace_test

import (
	"context"
	"errors"

	"github.com/chillwithnegi/Leafora/internal/marketplace"
)

// In-memory gateways backing the engine tests.

type memServiceStore struct {
	services []marketplace.Service
	failList bool
}

func (m *memServiceStore) List(ctx context.Context) ([]marketplace.Service, error) {
	if m.failList {
		return nil, errors.New("store offline")
	}
	out := make([]marketplace.Service, len(m.services))
	copy(out, m.services)
	return out, nil
}

func (m *memServiceStore) Get(ctx context.Context, id string) (marketplace.Service, error) {
	for _, s := range m.services {
		if s.ID == id {
			return s, nil
		}
	}
	return marketplace.Service{}, marketplace.ErrServiceNotFound
}

func (m *memServiceStore) Insert(ctx context.Context, s marketplace.Service) error {
	m.services = append(m.services, s)
	return nil
}

func (m *memServiceStore) Update(ctx context.Context, s marketplace.Service) error {
	for i := range m.services {
		if m.services[i].ID == s.ID {
			m.services[i] = s
			return nil
		}
	}
	return marketplace.ErrServiceNotFound
}

func (m *memServiceStore) Delete(ctx context.Context, id string) error {
	for i := range m.services {
		if m.services[i].ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			return nil
		}
	}
	return marketplace.ErrServiceNotFound
}

type memOrderStore struct {
	orders []marketplace.Order
}

func (m *memOrderStore) List(ctx context.Context) ([]marketplace.Order, error) {
	out := make([]marketplace.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *memOrderStore) ListByUser(ctx context.Context, userID, role string) ([]marketplace.Order, error) {
	var out []marketplace.Order
	for _, o := range m.orders {
		if role == "seller" && o.SellerID == userID {
			out = append(out, o)
		}
		if role == "buyer" && o.BuyerID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderStore) Get(ctx context.Context, id string) (marketplace.Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return marketplace.Order{}, marketplace.ErrOrderNotFound
}

func (m *memOrderStore) Insert(ctx context.Context, o marketplace.Order) error {
	m.orders = append(m.orders, o)
	return nil
}

func (m *memOrderStore) Update(ctx context.Context, o marketplace.Order) error {
	for i := range m.orders {
		if m.orders[i].ID == o.ID {
			m.orders[i] = o
			return nil
		}
	}
	return marketplace.ErrOrderNotFound
}

type memReviewStore struct {
	reviews []marketplace.Review
}

func (m *memReviewStore) Insert(ctx context.Context, r marketplace.Review) error {
	m.reviews = append(m.reviews, r)
	return nil
}

func (m *memReviewStore) GetByOrder(ctx context.Context, orderID string) (marketplace.Review, error) {
	for _, r := range m.reviews {
		if r.OrderID == orderID {
			return r, nil
		}
	}
	return marketplace.Review{}, marketplace.ErrReviewNotFound
}

func (m *memReviewStore) ListBySeller(ctx context.Context, sellerID string) ([]marketplace.Review, error) {
	var out []marketplace.Review
	for _, r := range m.reviews {
		if r.SellerID == sellerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviewStore) ListByService(ctx context.Context, serviceID string) ([]marketplace.Review, error) {
	var out []marketplace.Review
	for _, r := range m.reviews {
		if r.ServiceID == serviceID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memProfiles struct {
	levels  map[string]string
	ratings map[string]float64
	totals  map[string]int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{
		levels:  make(map[string]string),
		ratings: make(map[string]float64),
		totals:  make(map[string]int),
	}
}

func (m *memProfiles) SetSellerLevel(ctx context.Context, sellerID, level string) error {
	m.levels[sellerID] = level
	return nil
}

func (m *memProfiles) SetRating(ctx context.Context, sellerID string, rating float64, totalReviews int) error {
	m.ratings[sellerID] = rating
	m.totals[sellerID] = totalReviews
	return nil
}

type memSettings struct {
	rate     float64
	featured []string
}

func (m *memSettings) CommissionRate(ctx context.Context) (float64, error) {
	return m.rate, nil
}

func (m *memSettings) FeaturedCategories(ctx context.Context) ([]string, error) {
	return m.featured, nil
}
