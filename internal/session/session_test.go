package session

import "testing"

func TestDerive(t *testing.T) {
	cases := []struct {
		name  string
		snap  Snapshot
		state State
		reset bool
	}{
		{"empty", Snapshot{}, NoSession, false},
		{"token only", Snapshot{Token: "t"}, NoSession, false},
		{"user only", Snapshot{User: `{"mobile":"9876543210"}`}, NoSession, false},
		{"corrupted", Snapshot{Token: "t", User: "{not json"}, NoSession, true},
		{"null user", Snapshot{Token: "t", User: "null"}, NoSession, true},
		{"no mobile", Snapshot{Token: "t", User: `{"email":"a@b.com"}`}, PendingOnboarding, false},
		{"empty mobile", Snapshot{Token: "t", User: `{"email":"a@b.com","mobile":""}`}, PendingOnboarding, false},
		{"complete", Snapshot{Token: "t", User: `{"email":"a@b.com","mobile":"9876543210"}`}, Complete, false},
	}
	for _, tc := range cases {
		got := Derive(tc.snap)
		if got.State != tc.state || got.Reset != tc.reset {
			t.Fatalf("%s: expected %s reset=%v, got %s reset=%v", tc.name, tc.state, tc.reset, got.State, got.Reset)
		}
	}
}

func TestTransitions(t *testing.T) {
	s := Derive(Snapshot{})
	if got := s.MobileAttached("9876543210"); got.State != NoSession {
		t.Fatalf("attaching without a session must stay signed out, got %s", got.State)
	}

	s = s.Verified("tok", User{Email: "a@b.com"})
	if s.State != PendingOnboarding || !s.NeedsOnboarding() {
		t.Fatalf("expected pending onboarding, got %s", s.State)
	}

	s = s.MobileAttached("9876543210")
	if s.State != Complete || s.User.Mobile != "9876543210" || s.Token != "tok" {
		t.Fatalf("expected complete session, got %+v", s)
	}

	if direct := Derive(Snapshot{}).Verified("tok", User{Mobile: "9876543210"}); direct.State != Complete {
		t.Fatalf("sign-in with a mobile should complete directly, got %s", direct.State)
	}

	if out := s.LoggedOut(); out.State != NoSession || out.Token != "" {
		t.Fatalf("expected logged out, got %+v", out)
	}
	if out := s.Verified("", User{Mobile: "1"}); out.State != NoSession {
		t.Fatalf("verification without token is no session, got %s", out.State)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	s, err := Load(store)
	if err != nil || s.State != NoSession {
		t.Fatalf("empty store: %+v %v", s, err)
	}

	s, err = Save(store, "tok", User{UID: "abc", Email: "a@b.com"})
	if err != nil || s.State != PendingOnboarding {
		t.Fatalf("save: %+v %v", s, err)
	}

	s, err = UpdateUser(store, map[string]any{"mobile": "9876543210"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.State != Complete || s.User.Email != "a@b.com" || s.User.UID != "abc" {
		t.Fatalf("merge lost fields: %+v", s)
	}

	reloaded, err := Load(store)
	if err != nil || reloaded.State != Complete || reloaded.User.Mobile != "9876543210" {
		t.Fatalf("reload: %+v %v", reloaded, err)
	}

	if err := Clear(store); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s, _ := Load(store); s.State != NoSession {
		t.Fatalf("expected no session after clear, got %s", s.State)
	}
}

func TestLoadClearsCorruptedData(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set(TokenKey, "tok")
	_ = store.Set(UserKey, "{broken")

	s, err := Load(store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.State != NoSession || !s.Reset {
		t.Fatalf("expected reset, got %+v", s)
	}
	if _, ok := store.Get(TokenKey); ok {
		t.Fatalf("token should have been cleared")
	}
	if _, ok := store.Get(UserKey); ok {
		t.Fatalf("user should have been cleared")
	}
}
