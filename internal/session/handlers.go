package session

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// Handlers bridges HTTP requests to per-request session contexts: each
// request rebuilds the context from the token's user id, applies the
// operation through the engine, and persists the outcome.
type Handlers struct {
	pool     *pgxpool.Pool
	profiles ProfileWriter
}

func NewHandlers(pool *pgxpool.Pool) *Handlers {
	return &Handlers{pool: pool, profiles: NewPGProfileWriter(pool)}
}

func (h *Handlers) contextFor(c echo.Context) (*Context, bool) {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return nil, false
	}
	profile, err := LoadProfile(c.Request().Context(), h.pool, uid)
	if err != nil {
		return nil, false
	}
	sc := NewContext(h.profiles)
	sc.SetActor(&profile)
	if profile.CurrentMode == string(ModeBuyer) || profile.CurrentMode == string(ModeSeller) {
		sc.SwitchMode(Mode(profile.CurrentMode))
	}
	return sc, true
}

// BecomeSeller - one-way buyer to seller upgrade
func (h *Handlers) BecomeSeller(c echo.Context) error {
	sc, ok := h.contextFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in BecomeSellerInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	res := sc.BecomeSeller(c.Request().Context(), in)
	if !res.Success {
		return c.JSON(http.StatusBadRequest, res)
	}
	return c.JSON(http.StatusOK, res)
}

// SwitchMode - flip the buyer/seller viewing lens. A buyer-role caller
// gets a success response with their mode unchanged: the engine treats
// the call as an intentional no-op rather than an error.
func (h *Handlers) SwitchMode(c echo.Context) error {
	sc, ok := h.contextFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Mode Mode `json:"mode"`
	}
	if err := c.Bind(&req); err != nil || (req.Mode != ModeBuyer && req.Mode != ModeSeller) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be buyer or seller"})
	}

	sc.SwitchMode(req.Mode)

	actor := sc.Actor()
	actor.CurrentMode = string(sc.Mode())
	if err := h.profiles.UpdateProfile(c.Request().Context(), *actor); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist mode"})
	}
	return c.JSON(http.StatusOK, echo.Map{"current_mode": sc.Mode()})
}

// Me - the authenticated actor's full profile plus session state
func (h *Handlers) Me(c echo.Context) error {
	sc, ok := h.contextFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	actor := sc.Actor()
	return c.JSON(http.StatusOK, echo.Map{
		"user":             actor,
		"is_authenticated": sc.IsAuthenticated(),
		"current_mode":     sc.Mode(),
	})
}
