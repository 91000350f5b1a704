package session

import (
	"context"
	"sync"

	"github.com/chillwithnegi/Leafora/internal/user"
)

// Mode is the buyer/seller lens a seller-or-admin actor views their data
// through, independent of their underlying role.
type Mode string

const (
	ModeBuyer  Mode = "buyer"
	ModeSeller Mode = "seller"
)

// AuthEventType distinguishes sign-in from sign-out notifications.
type AuthEventType string

const (
	SignedIn  AuthEventType = "signed_in"
	SignedOut AuthEventType = "signed_out"
)

// AuthEvent is an auth-state change pushed by the provider.
type AuthEvent struct {
	Type  AuthEventType
	Actor *user.Profile
}

// AuthProvider yields the current actor and a stream of auth-state
// changes. The context subscribes to it exactly once.
type AuthProvider interface {
	Current(ctx context.Context) (*user.Profile, error)
	Subscribe(fn func(AuthEvent))
}

// ProfileWriter persists the profile changes the context makes.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, p user.Profile) error
}

// Result is the outcome value of the context's operations.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Context is the single source of truth for who is acting and as what.
type Context struct {
	profiles ProfileWriter

	mu    sync.Mutex
	actor *user.Profile
	mode  Mode

	subscribeOnce sync.Once
}

func NewContext(profiles ProfileWriter) *Context {
	return &Context{profiles: profiles, mode: ModeBuyer}
}

// Attach subscribes the context to the provider's auth-state stream.
// Repeat calls are no-ops so startup wiring cannot double-subscribe.
func (c *Context) Attach(provider AuthProvider) {
	c.subscribeOnce.Do(func() {
		provider.Subscribe(func(ev AuthEvent) {
			switch ev.Type {
			case SignedIn:
				c.SetActor(ev.Actor)
			case SignedOut:
				c.Logout()
			}
		})
	})
}

// SetActor installs the signed-in actor. Sellers land in seller mode,
// everyone else in buyer mode.
func (c *Context) SetActor(actor *user.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actor = actor
	c.mode = ModeBuyer
	if actor != nil && actor.Role == user.RoleSeller {
		c.mode = ModeSeller
	}
}

// Actor returns the current actor, nil when signed out.
func (c *Context) Actor() *user.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actor
}

// IsAuthenticated is derived from actor presence.
func (c *Context) IsAuthenticated() bool {
	return c.Actor() != nil
}

// Mode returns the active viewing mode.
func (c *Context) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SwitchMode changes the viewing lens. Buyer-role actors are pinned to
// buyer mode: the call is silently ignored for them, by intent, not as
// an error.
func (c *Context) SwitchMode(mode Mode) {
	if mode != ModeBuyer && mode != ModeSeller {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.actor == nil {
		return
	}
	if c.actor.Role != user.RoleSeller && c.actor.Role != user.RoleAdmin {
		return
	}
	c.mode = mode
}

// BecomeSellerInput is the one-way buyer-to-seller upgrade payload.
type BecomeSellerInput struct {
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
	Languages  []string `json:"languages"`
	ProfilePic string   `json:"profile_pic"`
}

// BecomeSeller promotes the current buyer-role actor to seller, merging
// the seller profile fields and switching to seller mode. The transition
// happens at most once: an actor already holding seller (or admin) role
// gets a failed result and no changes.
func (c *Context) BecomeSeller(ctx context.Context, in BecomeSellerInput) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.actor == nil {
		return Result{Success: false, Message: "not authenticated"}
	}
	if c.actor.Role != user.RoleBuyer {
		return Result{Success: false, Message: "account is already a seller"}
	}
	if in.Bio == "" {
		return Result{Success: false, Message: "bio is required"}
	}
	if len(in.Skills) == 0 || len(in.Languages) == 0 {
		return Result{Success: false, Message: "at least one skill and one language are required"}
	}

	updated := *c.actor
	updated.Role = user.RoleSeller
	updated.Bio = in.Bio
	updated.Skills = in.Skills
	updated.Languages = in.Languages
	if in.ProfilePic != "" {
		updated.ProfilePic = in.ProfilePic
	}
	updated.CurrentMode = string(ModeSeller)

	if err := c.profiles.UpdateProfile(ctx, updated); err != nil {
		return Result{Success: false, Message: "could not activate seller account"}
	}

	c.actor = &updated
	c.mode = ModeSeller
	return Result{Success: true, Message: "Seller account activated successfully"}
}

// Logout clears the actor and resets the mode to buyer.
func (c *Context) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actor = nil
	c.mode = ModeBuyer
}
