package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chillwithnegi/Leafora/internal/db"
)

type UpdateProfileRequest struct {
	Name       string   `json:"name"`
	Bio        string   `json:"bio"`
	ProfilePic string   `json:"profile_pic"`
	Skills     []string `json:"skills"`
	Languages  []string `json:"languages"`
}

// PATCH /user/profile
func UpdateProfile(c echo.Context) error {
	userIDVal := c.Get("user_id")
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	query := `
		UPDATE profiles
		SET name = COALESCE(NULLIF($1, ''), name),
		    bio = COALESCE(NULLIF($2, ''), bio),
		    profile_pic = COALESCE(NULLIF($3, ''), profile_pic),
		    skills = COALESCE($4, skills),
		    languages = COALESCE($5, languages)
		WHERE id = $6
	`
	_, err := db.Conn.Exec(c.Request().Context(), query,
		req.Name, req.Bio, req.ProfilePic, req.Skills, req.Languages, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
	})
}
