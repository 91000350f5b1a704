package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/chillwithnegi/Leafora/internal/db"
	"github.com/chillwithnegi/Leafora/internal/session"
	"github.com/chillwithnegi/Leafora/internal/user"
)

// Events receives sign-in/sign-out notifications. Wired in main.
var Events *session.Notifier

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignupResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of at least 6 characters are required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	conn := db.Conn
	ctx := context.Background()

	// Everyone starts as a buyer; BecomeSeller upgrades later.
	var userID string
	err = conn.QueryRow(ctx, `
		INSERT INTO profiles (id, name, email, password, role)
		VALUES ($1, $2, $3, $4, 'buyer')
		RETURNING id
	`, uuid.New().String(), req.Name, req.Email, string(hashed)).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	signed, err := issueToken(userID, user.RoleBuyer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	if Events != nil {
		Events.SignIn(&user.Profile{ID: userID, Name: req.Name, Email: req.Email, Role: user.RoleBuyer, CurrentMode: user.RoleBuyer})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed})
}

// Logout pushes a sign-out event; the token itself simply expires.
func Logout(c echo.Context) error {
	if Events != nil {
		Events.SignOut()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func issueToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
