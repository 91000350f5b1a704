package session

import (
	"context"
	"sync"

	"github.com/chillwithnegi/Leafora/internal/user"
)

// Notifier is the in-process auth provider: the auth handlers push
// sign-in/sign-out events into it and the session context subscribes.
type Notifier struct {
	mu      sync.Mutex
	current *user.Profile
	subs    []func(AuthEvent)
}

var _ AuthProvider = (*Notifier)(nil)

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Current returns the most recently signed-in actor, nil when signed out.
func (n *Notifier) Current(ctx context.Context) (*user.Profile, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, nil
}

// Subscribe registers a listener for auth-state changes.
func (n *Notifier) Subscribe(fn func(AuthEvent)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

// SignIn records the actor and notifies subscribers.
func (n *Notifier) SignIn(actor *user.Profile) {
	n.publish(AuthEvent{Type: SignedIn, Actor: actor})
}

// SignOut clears the actor and notifies subscribers.
func (n *Notifier) SignOut() {
	n.publish(AuthEvent{Type: SignedOut})
}

func (n *Notifier) publish(ev AuthEvent) {
	n.mu.Lock()
	n.current = ev.Actor
	subs := make([]func(AuthEvent), len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
