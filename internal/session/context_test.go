package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chillwithnegi/Leafora/internal/session"
	"github.com/chillwithnegi/Leafora/internal/user"
)

type memProfileWriter struct {
	saved []user.Profile
	fail  bool
}

func (w *memProfileWriter) UpdateProfile(ctx context.Context, p user.Profile) error {
	if w.fail {
		return errors.New("write failed")
	}
	w.saved = append(w.saved, p)
	return nil
}

func buyer() *user.Profile {
	return &user.Profile{ID: "u-1", Name: "Asha", Email: "asha@example.com", Role: user.RoleBuyer, CurrentMode: "buyer"}
}

func seller() *user.Profile {
	return &user.Profile{ID: "u-2", Name: "Femi", Email: "femi@example.com", Role: user.RoleSeller, CurrentMode: "seller"}
}

func TestSetActor_ModeFollowsRole(t *testing.T) {
	c := session.NewContext(&memProfileWriter{})

	if c.IsAuthenticated() {
		t.Fatalf("fresh context should be signed out")
	}
	if c.Mode() != session.ModeBuyer {
		t.Errorf("initial mode = %q, want buyer", c.Mode())
	}

	c.SetActor(buyer())
	if !c.IsAuthenticated() || c.Mode() != session.ModeBuyer {
		t.Errorf("buyer sign-in: mode = %q, want buyer", c.Mode())
	}

	c.SetActor(seller())
	if c.Mode() != session.ModeSeller {
		t.Errorf("seller sign-in: mode = %q, want seller", c.Mode())
	}
}

func TestSwitchMode_SilentForBuyers(t *testing.T) {
	c := session.NewContext(&memProfileWriter{})
	c.SetActor(buyer())

	// Not an error, just ignored: buyer-role actors stay in buyer mode.
	c.SwitchMode(session.ModeSeller)
	if c.Mode() != session.ModeBuyer {
		t.Errorf("mode = %q, buyer must stay pinned to buyer mode", c.Mode())
	}

	c.SetActor(seller())
	c.SwitchMode(session.ModeBuyer)
	if c.Mode() != session.ModeBuyer {
		t.Errorf("mode = %q, seller should browse as buyer on demand", c.Mode())
	}
	c.SwitchMode(session.ModeSeller)
	if c.Mode() != session.ModeSeller {
		t.Errorf("mode = %q, want seller after switching back", c.Mode())
	}

	c.SwitchMode(session.Mode("admin-panel"))
	if c.Mode() != session.ModeSeller {
		t.Errorf("unknown mode changed state to %q", c.Mode())
	}
}

func TestSwitchMode_SignedOutNoop(t *testing.T) {
	c := session.NewContext(&memProfileWriter{})
	c.SwitchMode(session.ModeSeller)
	if c.Mode() != session.ModeBuyer {
		t.Errorf("mode = %q, signed-out switch should be ignored", c.Mode())
	}
}

func TestBecomeSeller_Validation(t *testing.T) {
	writer := &memProfileWriter{}
	c := session.NewContext(writer)
	ctx := context.Background()

	in := session.BecomeSellerInput{Bio: "I build things", Skills: []string{"go"}, Languages: []string{"English"}}

	if res := c.BecomeSeller(ctx, in); res.Success {
		t.Errorf("signed-out become-seller succeeded")
	}

	c.SetActor(buyer())
	cases := []struct {
		name string
		in   session.BecomeSellerInput
	}{
		{"missing bio", session.BecomeSellerInput{Skills: []string{"go"}, Languages: []string{"English"}}},
		{"no skills", session.BecomeSellerInput{Bio: "hi", Languages: []string{"English"}}},
		{"no languages", session.BecomeSellerInput{Bio: "hi", Skills: []string{"go"}}},
	}
	for _, tc := range cases {
		if res := c.BecomeSeller(ctx, tc.in); res.Success {
			t.Errorf("%s: become-seller succeeded, want failure", tc.name)
		}
	}
	if len(writer.saved) != 0 {
		t.Errorf("profile written despite rejected input")
	}
}

func TestBecomeSeller_OneWay(t *testing.T) {
	writer := &memProfileWriter{}
	c := session.NewContext(writer)
	ctx := context.Background()
	c.SetActor(buyer())

	res := c.BecomeSeller(ctx, session.BecomeSellerInput{
		Bio: "Full stack developer", Skills: []string{"go", "react"}, Languages: []string{"English", "Yoruba"},
	})
	if !res.Success {
		t.Fatalf("become-seller failed: %s", res.Message)
	}
	if c.Actor().Role != user.RoleSeller {
		t.Errorf("role = %q, want seller", c.Actor().Role)
	}
	if c.Mode() != session.ModeSeller {
		t.Errorf("mode = %q, want seller after upgrade", c.Mode())
	}
	if len(writer.saved) != 1 || writer.saved[0].Role != user.RoleSeller {
		t.Fatalf("persisted profile = %+v, want one seller write", writer.saved)
	}

	// Already a seller: failed result, no second write.
	res = c.BecomeSeller(ctx, session.BecomeSellerInput{
		Bio: "again", Skills: []string{"go"}, Languages: []string{"English"},
	})
	if res.Success {
		t.Errorf("second become-seller succeeded, the upgrade is one-way")
	}
	if len(writer.saved) != 1 {
		t.Errorf("profile written again on rejected upgrade")
	}
}

func TestBecomeSeller_PersistFailureKeepsState(t *testing.T) {
	writer := &memProfileWriter{fail: true}
	c := session.NewContext(writer)
	c.SetActor(buyer())

	res := c.BecomeSeller(context.Background(), session.BecomeSellerInput{
		Bio: "hi", Skills: []string{"go"}, Languages: []string{"English"},
	})
	if res.Success {
		t.Fatalf("become-seller succeeded despite persistence failure")
	}
	if c.Actor().Role != user.RoleBuyer {
		t.Errorf("role = %q, local state must not flip before the write lands", c.Actor().Role)
	}
	if c.Mode() != session.ModeBuyer {
		t.Errorf("mode = %q, want buyer", c.Mode())
	}
}

func TestLogout_ResetsToBuyer(t *testing.T) {
	c := session.NewContext(&memProfileWriter{})
	c.SetActor(seller())

	c.Logout()
	if c.IsAuthenticated() {
		t.Errorf("still authenticated after logout")
	}
	if c.Mode() != session.ModeBuyer {
		t.Errorf("mode = %q, want buyer after logout", c.Mode())
	}
}

func TestAttach_FollowsAuthStream(t *testing.T) {
	notifier := session.NewNotifier()
	c := session.NewContext(&memProfileWriter{})
	c.Attach(notifier)
	// Second attach is a no-op, not a double subscription.
	c.Attach(notifier)

	notifier.SignIn(seller())
	if !c.IsAuthenticated() || c.Mode() != session.ModeSeller {
		t.Fatalf("context did not follow sign-in: mode = %q", c.Mode())
	}

	current, err := notifier.Current(context.Background())
	if err != nil || current == nil || current.ID != "u-2" {
		t.Errorf("Current = %v, %v, want the signed-in seller", current, err)
	}

	notifier.SignOut()
	if c.IsAuthenticated() {
		t.Errorf("context still authenticated after sign-out event")
	}
	if current, _ := notifier.Current(context.Background()); current != nil {
		t.Errorf("Current = %v after sign-out, want nil", current)
	}
}
