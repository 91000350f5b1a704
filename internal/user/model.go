package user

import "time"

// Roles an account can hold. Buyer is the signup default; seller is gained
// once through become-seller; admin is assigned operationally.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Profile is a marketplace account. Rating, TotalReviews and SellerLevel
// are cached aggregates maintained by the marketplace recompute paths.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"-"` // never return
	Role         string    `json:"role"`
	Bio          string    `json:"bio,omitempty"`
	ProfilePic   string    `json:"profile_pic,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	Languages    []string  `json:"languages,omitempty"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	SellerLevel  string    `json:"seller_level"`
	IsVerified   bool      `json:"is_verified"`
	IsActive     bool      `json:"is_active"`
	CurrentMode  string    `json:"current_mode"`
	CreatedAt    time.Time `json:"created_at"`
}

// Seller reputation levels and the completed-order counts that earn them.
const (
	LevelNew      = "new_seller"
	LevelOne      = "level_one"
	LevelTwo      = "level_two"
	LevelTopRated = "top_rated"
)

// LevelFor derives the seller level from a completed-order count.
func LevelFor(completedOrders int) string {
	switch {
	case completedOrders >= 100:
		return LevelTopRated
	case completedOrders >= 50:
		return LevelTwo
	case completedOrders >= 10:
		return LevelOne
	default:
		return LevelNew
	}
}
