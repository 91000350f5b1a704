package marketplace

import (
	"math"
	"time"
)

// ServiceStatus is the publication state of a service listing. Only active
// services are discoverable in the catalog.
type ServiceStatus string

const (
	ServiceDraft    ServiceStatus = "draft"
	ServiceActive   ServiceStatus = "active"
	ServicePaused   ServiceStatus = "paused"
	ServiceRejected ServiceStatus = "rejected"
)

// PackageTier names one of the three pricing packages on a service.
type PackageTier string

const (
	PackageBasic    PackageTier = "basic"
	PackageStandard PackageTier = "standard"
	PackagePremium  PackageTier = "premium"
)

// Tier is one pricing package: price, promised delivery window, included
// revisions and the feature list shown to buyers.
type Tier struct {
	Price        float64  `json:"price"`
	DeliveryDays int      `json:"delivery_days"`
	Revisions    int      `json:"revisions"`
	Features     []string `json:"features"`
}

// Pricing holds the three tiers of a service. Basic is required; standard
// and premium may be absent.
type Pricing struct {
	Basic    *Tier `json:"basic"`
	Standard *Tier `json:"standard,omitempty"`
	Premium  *Tier `json:"premium,omitempty"`
}

// Tier returns the named tier, or nil when the service does not define it.
func (p Pricing) Tier(pkg PackageTier) *Tier {
	switch pkg {
	case PackageBasic:
		return p.Basic
	case PackageStandard:
		return p.Standard
	case PackagePremium:
		return p.Premium
	}
	return nil
}

// FromPrice is the effective "from" price of the service: the minimum price
// across defined tiers. Missing tiers are treated as infinitely expensive.
func (p Pricing) FromPrice() float64 {
	min := math.Inf(1)
	for _, t := range []*Tier{p.Basic, p.Standard, p.Premium} {
		if t != nil && t.Price < min {
			min = t.Price
		}
	}
	return min
}

// Service represents a productized service listed by a seller.
// Rating and TotalOrders are cached aggregates written only by the
// lifecycle engine's recompute path, never by seller edits.
type Service struct {
	ID          string        `json:"id"`
	SellerID    string        `json:"seller_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	SubCategory string        `json:"sub_category,omitempty"`
	Tags        []string      `json:"tags"`
	Images      []string      `json:"images,omitempty"`
	Pricing     Pricing       `json:"pricing"`
	Status      ServiceStatus `json:"status"`
	Rating      float64       `json:"rating"`
	TotalOrders int           `json:"total_orders"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Categories is the fixed set a service can be listed under.
var Categories = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX Design",
	"Graphic Design",
	"Logo Design",
	"Content Writing",
	"Digital Marketing",
	"Video Editing",
	"Animation",
	"Data Analysis",
	"Translation",
	"Voice Over",
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderDelivered  OrderStatus = "delivered"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderDisputed   OrderStatus = "disputed"
)

// Terminal reports whether no further transition can leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// OrderEvent is an action that moves an order between statuses.
type OrderEvent string

const (
	EventStart    OrderEvent = "start"
	EventDeliver  OrderEvent = "deliver"
	EventComplete OrderEvent = "complete"
	EventCancel   OrderEvent = "cancel"
	EventDispute  OrderEvent = "dispute"
)

// OrderTransition defines one valid status change.
type OrderTransition struct {
	Event OrderEvent
	Src   OrderStatus
	Dst   OrderStatus
}

// OrderTransitions is the full transition graph. The main path moves
// forward only; cancel and dispute branch off every non-terminal state.
// Resolution of a disputed order back into the main path is external
// arbitration, so the only exit from disputed here is cancel.
var OrderTransitions = []OrderTransition{
	{Event: EventStart, Src: OrderPending, Dst: OrderInProgress},
	{Event: EventDeliver, Src: OrderInProgress, Dst: OrderDelivered},
	{Event: EventComplete, Src: OrderDelivered, Dst: OrderCompleted},
	{Event: EventCancel, Src: OrderPending, Dst: OrderCancelled},
	{Event: EventCancel, Src: OrderInProgress, Dst: OrderCancelled},
	{Event: EventCancel, Src: OrderDelivered, Dst: OrderCancelled},
	{Event: EventCancel, Src: OrderDisputed, Dst: OrderCancelled},
	{Event: EventDispute, Src: OrderPending, Dst: OrderDisputed},
	{Event: EventDispute, Src: OrderInProgress, Dst: OrderDisputed},
	{Event: EventDispute, Src: OrderDelivered, Dst: OrderDisputed},
}

// EventFor maps a target status to the event that reaches it. Every event
// has a single destination so the mapping is unambiguous. The second return
// is false for statuses no event targets (pending is only an initial state).
func EventFor(dst OrderStatus) (OrderEvent, bool) {
	switch dst {
	case OrderInProgress:
		return EventStart, true
	case OrderDelivered:
		return EventDeliver, true
	case OrderCompleted:
		return EventComplete, true
	case OrderCancelled:
		return EventCancel, true
	case OrderDisputed:
		return EventDispute, true
	}
	return "", false
}

// Order represents a purchase of one service tier. Amount, commission and
// delivery date are snapshots taken at creation time and never recomputed,
// even if the service's pricing or the global commission rate change later.
type Order struct {
	ID               string      `json:"id"`
	ServiceID        string      `json:"service_id"`
	BuyerID          string      `json:"buyer_id"`
	SellerID         string      `json:"seller_id"`
	Package          PackageTier `json:"package"`
	Amount           float64     `json:"amount"`
	CommissionAmount float64     `json:"commission_amount"`
	Requirements     string      `json:"requirements,omitempty"`
	RevisionCount    int         `json:"revision_count"`
	MaxRevisions     int         `json:"max_revisions"`
	DeliveryDate     time.Time   `json:"delivery_date"`
	Status           OrderStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
}

// Review is a buyer's rating of a completed order.
type Review struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ServiceID string    `json:"service_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
