package memory

import (
	"errors"
	"testing"
	"time"

	"crowdquiz-service/internal/domain"
)

func TestAuthStoreIssueAndRedeem(t *testing.T) {
	store := NewAuthStore(time.Minute)

	code, err := store.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	player, err := store.Redeem(code)
	if err != nil || player != "alice" {
		t.Fatalf("redeem: got %q, %v", player, err)
	}
}

func TestAuthStoreUnknownCode(t *testing.T) {
	store := NewAuthStore(time.Minute)
	if _, err := store.Redeem("bogus"); !errors.Is(err, domain.ErrBadAuthCode) {
		t.Fatalf("expected ErrBadAuthCode, got %v", err)
	}
}

func TestAuthStoreExpiry(t *testing.T) {
	store := NewAuthStore(time.Minute)
	now := time.Now()
	store.clock = func() time.Time { return now }

	code, err := store.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Redeem(code); !errors.Is(err, domain.ErrBadAuthCode) {
		t.Fatalf("expected expired code to be rejected, got %v", err)
	}
}

func TestAuthStoreRevoke(t *testing.T) {
	store := NewAuthStore(time.Minute)

	code1, _ := store.Issue("alice")
	code2, _ := store.Issue("alice")
	keep, _ := store.Issue("bob")

	store.Revoke("alice")

	if _, err := store.Redeem(code1); err == nil {
		t.Fatal("revoked code should fail")
	}
	if _, err := store.Redeem(code2); err == nil {
		t.Fatal("revoked code should fail")
	}
	if player, err := store.Redeem(keep); err != nil || player != "bob" {
		t.Fatalf("bob's code must survive, got %q, %v", player, err)
	}
}
