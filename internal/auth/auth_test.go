package auth

import (
	"testing"
	"time"
)

func TestAuthenticator(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	a := NewAuthenticator("yuvi@example.com", hash)

	tests := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{"valid credentials", "yuvi@example.com", "secret123", true},
		{"email case insensitive", "Yuvi@Example.COM", "secret123", true},
		{"email whitespace trimmed", "  yuvi@example.com ", "secret123", true},
		{"wrong password", "yuvi@example.com", "secret124", false},
		{"wrong email", "other@example.com", "secret123", false},
		{"both wrong", "other@example.com", "wrong", false},
		{"empty credentials", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Authenticate(tt.email, tt.password); got != tt.want {
				t.Errorf("Authenticate(%q, ...) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestSessionStore(t *testing.T) {
	s := NewSessionStore(time.Hour)

	token, err := s.Create()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if !s.Valid(token) {
		t.Error("freshly created session should be valid")
	}
	if s.Valid("") {
		t.Error("empty token should never validate")
	}
	if s.Valid("deadbeef") {
		t.Error("unknown token should not validate")
	}

	s.Revoke(token)
	if s.Valid(token) {
		t.Error("revoked session should not validate")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	s := NewSessionStore(30 * time.Millisecond)

	token, err := s.Create()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	time.Sleep(60 * time.Millisecond)

	if s.Valid(token) {
		t.Error("expired session should not validate")
	}
}

func TestSessionStore_CleanExpired(t *testing.T) {
	s := NewSessionStore(30 * time.Millisecond)

	if _, err := s.Create(); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := s.Create(); err != nil {
		t.Fatalf("create session: %v", err)
	}
	time.Sleep(60 * time.Millisecond)

	if removed := s.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if s.Size() != 0 {
		t.Errorf("Size() = %d, want 0", s.Size())
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	s := NewSessionStore(time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := s.Create()
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate session token %q", token)
		}
		seen[token] = true
	}
}
