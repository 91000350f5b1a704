package marketplace

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sort modes accepted by the catalog.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortPopular   = "popular"
)

// Catalog owns the authoritative list of services and a derived filtered
// view. Every filter setter and every CRUD operation recomputes the view
// in full; there is no incremental update to drift.
type Catalog struct {
	store    ServiceStore
	settings SettingsSource

	mu               sync.Mutex
	services         []Service
	filtered         []Service
	searchQuery      string
	selectedCategory string
	priceMin         float64
	priceMax         float64
	sortBy           string
}

// NewCatalog returns a catalog with an open price range and newest-first
// ordering. Call Refresh to load the authoritative set.
func NewCatalog(store ServiceStore, settings SettingsSource) *Catalog {
	return &Catalog{
		store:    store,
		settings: settings,
		priceMin: 0,
		priceMax: math.Inf(1),
		sortBy:   SortNewest,
	}
}

// Refresh re-fetches the authoritative set and recomputes the filtered
// view. A failed fetch degrades to an empty set: browsing renders nothing
// rather than crashing, and the error is logged and returned.
func (c *Catalog) Refresh(ctx context.Context) error {
	services, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Printf("catalog: fetch failed, serving empty set: %v", err)
		c.services = nil
		c.refilter()
		return err
	}
	c.services = services
	c.refilter()
	return nil
}

func (c *Catalog) SetSearchQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchQuery = q
	c.refilter()
}

func (c *Catalog) SetSelectedCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedCategory = category
	c.refilter()
}

func (c *Catalog) SetPriceRange(min, max float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.priceMin = min
	c.priceMax = max
	c.refilter()
}

func (c *Catalog) SetSortBy(sortBy string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortBy = sortBy
	c.refilter()
}

// FilteredServices returns a copy of the current derived view.
func (c *Catalog) FilteredServices() []Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Service, len(c.filtered))
	copy(out, c.filtered)
	return out
}

// ServiceByID looks up a service in the authoritative set regardless of
// filter state or status.
func (c *Catalog) ServiceByID(id string) (Service, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// ServicesBySeller returns a seller's own listings, drafts included.
func (c *Catalog) ServicesBySeller(sellerID string) []Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Service
	for _, s := range c.services {
		if s.SellerID == sellerID {
			out = append(out, s)
		}
	}
	return out
}

// Featured returns active services grouped by the featured categories from
// the global settings, preserving catalog order within each group.
func (c *Catalog) Featured(ctx context.Context) (map[string][]Service, error) {
	categories, err := c.settings.FeaturedCategories(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]Service, len(categories))
	for _, cat := range categories {
		for _, s := range c.services {
			if s.Status == ServiceActive && s.Category == cat {
				out[cat] = append(out[cat], s)
			}
		}
	}
	return out, nil
}

// CreateService validates and appends a new listing, then re-derives the
// view. The seller never supplies rating or order counts.
func (c *Catalog) CreateService(ctx context.Context, s Service) (Result, string) {
	if s.Title == "" || s.SellerID == "" {
		return fail("title and seller are required"), ""
	}
	if !ValidCategory(s.Category) {
		return fail("unknown category"), ""
	}
	if msg := validatePricing(s.Pricing); msg != "" {
		return fail(msg), ""
	}
	if s.Status == "" {
		s.Status = ServiceActive
	}
	if s.Status != ServiceActive && s.Status != ServiceDraft {
		return fail("new services must be active or draft"), ""
	}

	s.ID = uuid.New().String()
	s.CreatedAt = time.Now()
	s.Rating = 0
	s.TotalOrders = 0

	if err := c.store.Insert(ctx, s); err != nil {
		log.Printf("catalog: create service failed: %v", err)
		return fail("could not create service"), ""
	}
	_ = c.Refresh(ctx)
	return ok("Service created successfully"), s.ID
}

// UpdateService applies a seller edit. The cached aggregates and creation
// time of the stored row always win over whatever the caller sent.
func (c *Catalog) UpdateService(ctx context.Context, id string, updates Service) Result {
	current, err := c.store.Get(ctx, id)
	if err != nil {
		if err == ErrServiceNotFound {
			return fail("service not found")
		}
		log.Printf("catalog: update fetch failed: %v", err)
		return fail("could not update service")
	}

	merged := mergeServiceUpdate(current, updates)
	if msg := validatePricing(merged.Pricing); msg != "" {
		return fail(msg)
	}

	if err := c.store.Update(ctx, merged); err != nil {
		log.Printf("catalog: update service failed: %v", err)
		return fail("could not update service")
	}
	_ = c.Refresh(ctx)
	return ok("Service updated successfully")
}

// DeleteService removes a listing and re-derives the view.
func (c *Catalog) DeleteService(ctx context.Context, id string) Result {
	if err := c.store.Delete(ctx, id); err != nil {
		if err == ErrServiceNotFound {
			return fail("service not found")
		}
		log.Printf("catalog: delete service failed: %v", err)
		return fail("could not delete service")
	}
	_ = c.Refresh(ctx)
	return ok("Service deleted successfully")
}

// mergeServiceUpdate overlays the caller's edit onto the stored row,
// keeping identity, creation time and the cached aggregates.
func mergeServiceUpdate(current, updates Service) Service {
	merged := current
	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Category != "" && ValidCategory(updates.Category) {
		merged.Category = updates.Category
	}
	if updates.SubCategory != "" {
		merged.SubCategory = updates.SubCategory
	}
	if updates.Tags != nil {
		merged.Tags = updates.Tags
	}
	if updates.Images != nil {
		merged.Images = updates.Images
	}
	if updates.Pricing.Basic != nil {
		merged.Pricing = updates.Pricing
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	return merged
}

func validatePricing(p Pricing) string {
	if p.Basic == nil {
		return "basic tier is required"
	}
	for _, t := range []*Tier{p.Basic, p.Standard, p.Premium} {
		if t == nil {
			continue
		}
		if t.Price <= 0 {
			return "tier price must be positive"
		}
		if t.DeliveryDays < 1 {
			return "tier delivery must be at least one day"
		}
		if t.Revisions < 0 {
			return "tier revisions cannot be negative"
		}
	}
	return ""
}

// refilter recomputes the derived view from the full authoritative set.
// Callers must hold the mutex.
func (c *Catalog) refilter() {
	q := strings.ToLower(c.searchQuery)

	filtered := make([]Service, 0, len(c.services))
	for _, s := range c.services {
		if s.Status != ServiceActive {
			continue
		}
		if !matchesQuery(s, q) {
			continue
		}
		if c.selectedCategory != "" && s.Category != c.selectedCategory {
			continue
		}
		from := s.Pricing.FromPrice()
		if from < c.priceMin || from > c.priceMax {
			continue
		}
		filtered = append(filtered, s)
	}

	// Stable sort so equal keys keep their authoritative order
	switch c.sortBy {
	case SortPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Pricing.FromPrice() < filtered[j].Pricing.FromPrice()
		})
	case SortPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Pricing.FromPrice() > filtered[j].Pricing.FromPrice()
		})
	case SortRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Rating > filtered[j].Rating
		})
	case SortPopular:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].TotalOrders > filtered[j].TotalOrders
		})
	default: // newest
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	c.filtered = filtered
}

func matchesQuery(s Service, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Description), q) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
