package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chillwithnegi/Leafora/internal/db"
)

// GetPublicProfile returns the public view of a profile (no email, no
// account flags beyond verification)
func GetPublicProfile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing profile id"})
	}

	var p Profile
	err := db.Conn.QueryRow(c.Request().Context(), `
        SELECT id, name, role, bio, profile_pic, skills, languages,
               rating, total_reviews, seller_level, is_verified, created_at
        FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Role, &p.Bio, &p.ProfilePic, &p.Skills,
		&p.Languages, &p.Rating, &p.TotalReviews, &p.SellerLevel,
		&p.IsVerified, &p.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":            p.ID,
		"name":          p.Name,
		"role":          p.Role,
		"bio":           p.Bio,
		"profile_pic":   p.ProfilePic,
		"skills":        p.Skills,
		"languages":     p.Languages,
		"rating":        p.Rating,
		"total_reviews": p.TotalReviews,
		"seller_level":  p.SellerLevel,
		"is_verified":   p.IsVerified,
		"member_since":  p.CreatedAt,
	})
}
