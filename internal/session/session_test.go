package session

import (
	"testing"

	"github.com/99designs/keyring"
)

func newTestStore() *Store {
	return NewWithRing(keyring.NewArrayKeyring(nil))
}

func TestTokenAbsentInitially(t *testing.T) {
	s := newTestStore()

	if token, ok := s.Token(); ok {
		t.Errorf("fresh store returned token %q", token)
	}
}

func TestLoginThenToken(t *testing.T) {
	s := newTestStore()

	if err := s.Login("abc123"); err != nil {
		t.Fatalf("storing token: %v", err)
	}

	token, ok := s.Token()
	if !ok {
		t.Fatal("token not found after Login")
	}
	if token != "abc123" {
		t.Errorf("Token() = %q, want abc123", token)
	}
}

func TestLogoutClearsToken(t *testing.T) {
	s := newTestStore()

	if err := s.Login("abc123"); err != nil {
		t.Fatalf("storing token: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("logging out: %v", err)
	}

	if _, ok := s.Token(); ok {
		t.Error("token still present after Logout")
	}
}

func TestLogoutWithoutTokenSucceeds(t *testing.T) {
	s := newTestStore()

	if err := s.Logout(); err != nil {
		t.Errorf("logout on empty store: %v", err)
	}
}
