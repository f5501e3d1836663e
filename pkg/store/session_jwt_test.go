package store

import (
	"testing"
	"time"
)

func TestJWTSessionStoreRoundTrip(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, err := s.NewSession("user-9")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	userID, ok, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ok || userID != "user-9" {
		t.Fatalf("expected user-9, got %q ok=%v", userID, ok)
	}
}

func TestJWTSessionStoreRejectsExpired(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, err := s.NewSession("user-9")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := s.GetUserIDByToken(token); ok {
		t.Fatalf("expired token must not resolve")
	}
}

func TestJWTSessionStoreRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewJWTSessionStore("secret-a", time.Minute)
	verifier, _ := NewJWTSessionStore("secret-b", time.Minute)
	token, err := issuer.NewSession("user-9")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := verifier.GetUserIDByToken(token); ok {
		t.Fatalf("token signed with another secret must not resolve")
	}
}

func TestJWTSessionStoreRejectsGarbage(t *testing.T) {
	s, _ := NewJWTSessionStore("test-secret", time.Minute)
	if _, ok, _ := s.GetUserIDByToken("not.a.token"); ok {
		t.Fatalf("garbage token must not resolve")
	}
}

func TestJWTSessionStoreRequiresSecret(t *testing.T) {
	if _, err := NewJWTSessionStore("", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
