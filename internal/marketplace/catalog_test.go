package marketplace_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/chillwithnegi/Leafora/internal/marketplace"
)

func tier(price float64, days, revisions int) *marketplace.Tier {
	return &marketplace.Tier{Price: price, DeliveryDays: days, Revisions: revisions}
}

func testServices() []marketplace.Service {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []marketplace.Service{
		{
			ID: "svc-logo", SellerID: "seller-1", Title: "Minimal logo design",
			Description: "Clean flat logos", Category: "Logo Design",
			Tags:    []string{"branding", "logo"},
			Pricing: marketplace.Pricing{Basic: tier(50, 3, 1)},
			Status:  marketplace.ServiceActive, Rating: 4.8, TotalOrders: 40,
			CreatedAt: base,
		},
		{
			ID: "svc-web", SellerID: "seller-2", Title: "Full stack web app",
			Description: "React and Go backends", Category: "Web Development",
			Tags:    []string{"golang", "react"},
			Pricing: marketplace.Pricing{Basic: tier(300, 14, 2), Premium: tier(900, 30, 5)},
			Status:  marketplace.ServiceActive, Rating: 4.8, TotalOrders: 12,
			CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: "svc-voice", SellerID: "seller-1", Title: "Warm voice over",
			Description: "Narration and ads", Category: "Voice Over",
			Pricing: marketplace.Pricing{Basic: tier(80, 2, 0), Standard: tier(150, 3, 1)},
			Status:  marketplace.ServiceActive, Rating: 5.0, TotalOrders: 25,
			CreatedAt: base.Add(48 * time.Hour),
		},
		{
			ID: "svc-draft", SellerID: "seller-2", Title: "Unpublished thing",
			Category: "Animation",
			Pricing:  marketplace.Pricing{Basic: tier(10, 1, 0)},
			Status:   marketplace.ServiceDraft,
			CreatedAt: base.Add(72 * time.Hour),
		},
	}
}

func newTestCatalog(t *testing.T) (*marketplace.Catalog, *memServiceStore) {
	t.Helper()
	store := &memServiceStore{services: testServices()}
	catalog := marketplace.NewCatalog(store, &memSettings{rate: 15, featured: []string{"Logo Design", "Web Development"}})
	if err := catalog.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return catalog, store
}

func filteredIDs(c *marketplace.Catalog) []string {
	var ids []string
	for _, s := range c.FilteredServices() {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestCatalog_DefaultViewActiveNewestFirst(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	got := filteredIDs(catalog)
	want := []string{"svc-voice", "svc-web", "svc-logo"}
	if len(got) != len(want) {
		t.Fatalf("filtered = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filtered = %v, want %v", got, want)
		}
	}
}

func TestCatalog_SearchQuery(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	cases := []struct {
		query string
		want  []string
	}{
		{"LOGO", []string{"svc-logo"}},                // title, case-insensitive
		{"narration", []string{"svc-voice"}},          // description
		{"golang", []string{"svc-web"}},               // tag
		{"nothing matches this", nil},                 // empty view, not an error
		{"", []string{"svc-voice", "svc-web", "svc-logo"}}, // cleared
	}
	for _, tc := range cases {
		catalog.SetSearchQuery(tc.query)
		got := filteredIDs(catalog)
		if len(got) != len(tc.want) {
			t.Errorf("query %q: filtered = %v, want %v", tc.query, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("query %q: filtered = %v, want %v", tc.query, got, tc.want)
				break
			}
		}
	}
}

func TestCatalog_CategoryAndPriceFilter(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	catalog.SetSelectedCategory("Voice Over")
	if got := filteredIDs(catalog); len(got) != 1 || got[0] != "svc-voice" {
		t.Fatalf("category filter = %v, want [svc-voice]", got)
	}

	catalog.SetSelectedCategory("")
	catalog.SetPriceRange(60, 400)
	// From-prices: logo 50, web 300, voice 80.
	got := filteredIDs(catalog)
	want := map[string]bool{"svc-web": true, "svc-voice": true}
	if len(got) != 2 || !want[got[0]] || !want[got[1]] {
		t.Fatalf("price filter = %v, want svc-web and svc-voice", got)
	}

	catalog.SetPriceRange(0, math.Inf(1))
	if got := filteredIDs(catalog); len(got) != 3 {
		t.Fatalf("open range = %v, want all active", got)
	}
}

func TestCatalog_SortModes(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	cases := []struct {
		sortBy string
		want   []string
	}{
		{marketplace.SortPriceLow, []string{"svc-logo", "svc-voice", "svc-web"}},
		{marketplace.SortPriceHigh, []string{"svc-web", "svc-voice", "svc-logo"}},
		{marketplace.SortPopular, []string{"svc-logo", "svc-voice", "svc-web"}},
		{marketplace.SortNewest, []string{"svc-voice", "svc-web", "svc-logo"}},
	}
	for _, tc := range cases {
		catalog.SetSortBy(tc.sortBy)
		got := filteredIDs(catalog)
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("sort %q: filtered = %v, want %v", tc.sortBy, got, tc.want)
				break
			}
		}
	}
}

func TestCatalog_RatingSortIsStable(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	// svc-logo and svc-web share a 4.8 rating; they must keep their
	// authoritative relative order behind the 5.0 service.
	catalog.SetSortBy(marketplace.SortRating)
	got := filteredIDs(catalog)
	want := []string{"svc-voice", "svc-logo", "svc-web"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rating sort = %v, want %v", got, want)
		}
	}
}

func TestCatalog_FromPriceIgnoresMissingTiers(t *testing.T) {
	p := marketplace.Pricing{Standard: tier(150, 3, 1), Premium: tier(400, 7, 3)}
	if got := p.FromPrice(); got != 150 {
		t.Errorf("FromPrice = %v, want 150", got)
	}
	empty := marketplace.Pricing{}
	if got := empty.FromPrice(); !math.IsInf(got, 1) {
		t.Errorf("FromPrice of empty pricing = %v, want +Inf", got)
	}
}

func TestCatalog_CreateServiceValidation(t *testing.T) {
	catalog, store := newTestCatalog(t)
	before := len(store.services)

	cases := []struct {
		name string
		in   marketplace.Service
	}{
		{"missing title", marketplace.Service{SellerID: "s", Category: "Animation", Pricing: marketplace.Pricing{Basic: tier(10, 1, 0)}}},
		{"unknown category", marketplace.Service{Title: "x", SellerID: "s", Category: "Underwater Basket Weaving", Pricing: marketplace.Pricing{Basic: tier(10, 1, 0)}}},
		{"missing basic tier", marketplace.Service{Title: "x", SellerID: "s", Category: "Animation", Pricing: marketplace.Pricing{Standard: tier(10, 1, 0)}}},
		{"zero price", marketplace.Service{Title: "x", SellerID: "s", Category: "Animation", Pricing: marketplace.Pricing{Basic: tier(0, 1, 0)}}},
		{"zero delivery", marketplace.Service{Title: "x", SellerID: "s", Category: "Animation", Pricing: marketplace.Pricing{Basic: tier(10, 0, 0)}}},
	}
	for _, tc := range cases {
		res, id := catalog.CreateService(context.Background(), tc.in)
		if res.Success {
			t.Errorf("%s: create succeeded, want failure", tc.name)
		}
		if id != "" {
			t.Errorf("%s: got id %q, want empty", tc.name, id)
		}
	}
	if len(store.services) != before {
		t.Errorf("store grew to %d services, want %d", len(store.services), before)
	}
}

func TestCatalog_CreateServiceResetsAggregates(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	res, id := catalog.CreateService(context.Background(), marketplace.Service{
		Title: "2D explainer animation", SellerID: "seller-3", Category: "Animation",
		Pricing: marketplace.Pricing{Basic: tier(120, 5, 2)},
		Rating:  4.9, TotalOrders: 99, // caller-supplied aggregates are discarded
	})
	if !res.Success {
		t.Fatalf("create failed: %s", res.Message)
	}

	svc, found := catalog.ServiceByID(id)
	if !found {
		t.Fatalf("created service %q not in catalog", id)
	}
	if svc.Rating != 0 || svc.TotalOrders != 0 {
		t.Errorf("aggregates = %v/%d, want 0/0", svc.Rating, svc.TotalOrders)
	}
	if svc.Status != marketplace.ServiceActive {
		t.Errorf("status = %q, want active default", svc.Status)
	}
}

func TestCatalog_UpdateServicePreservesAggregates(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	res := catalog.UpdateService(context.Background(), "svc-logo", marketplace.Service{
		Title:  "Premium logo design",
		Rating: 1.0, TotalOrders: 1, // must not stick
	})
	if !res.Success {
		t.Fatalf("update failed: %s", res.Message)
	}

	svc, _ := catalog.ServiceByID("svc-logo")
	if svc.Title != "Premium logo design" {
		t.Errorf("title = %q, want updated title", svc.Title)
	}
	if svc.Rating != 4.8 || svc.TotalOrders != 40 {
		t.Errorf("aggregates = %v/%d, want preserved 4.8/40", svc.Rating, svc.TotalOrders)
	}
}

func TestCatalog_DeleteServiceRederives(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	res := catalog.DeleteService(context.Background(), "svc-logo")
	if !res.Success {
		t.Fatalf("delete failed: %s", res.Message)
	}
	if _, found := catalog.ServiceByID("svc-logo"); found {
		t.Errorf("svc-logo still present after delete")
	}
	for _, id := range filteredIDs(catalog) {
		if id == "svc-logo" {
			t.Errorf("svc-logo still in filtered view after delete")
		}
	}

	if res := catalog.DeleteService(context.Background(), "no-such-id"); res.Success {
		t.Errorf("deleting unknown service should fail")
	}
}

func TestCatalog_RefreshFailureDegradesToEmpty(t *testing.T) {
	catalog, store := newTestCatalog(t)

	store.failList = true
	if err := catalog.Refresh(context.Background()); err == nil {
		t.Fatalf("Refresh should surface the fetch error")
	}
	if got := catalog.FilteredServices(); len(got) != 0 {
		t.Errorf("filtered = %d services after failed fetch, want 0", len(got))
	}

	store.failList = false
	if err := catalog.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh after recovery: %v", err)
	}
	if got := catalog.FilteredServices(); len(got) == 0 {
		t.Errorf("catalog still empty after recovery")
	}
}

func TestCatalog_Featured(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	groups, err := catalog.Featured(context.Background())
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	if len(groups["Logo Design"]) != 1 || groups["Logo Design"][0].ID != "svc-logo" {
		t.Errorf("Logo Design group = %v", groups["Logo Design"])
	}
	if len(groups["Web Development"]) != 1 || groups["Web Development"][0].ID != "svc-web" {
		t.Errorf("Web Development group = %v", groups["Web Development"])
	}
	if _, ok := groups["Voice Over"]; ok {
		t.Errorf("Voice Over is not a featured category, should be absent")
	}
}

func TestCatalog_ServicesBySellerIncludesDrafts(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	own := catalog.ServicesBySeller("seller-2")
	if len(own) != 2 {
		t.Fatalf("seller-2 services = %d, want 2 including draft", len(own))
	}
}
