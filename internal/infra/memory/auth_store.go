package memory

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"crowdquiz-service/internal/domain"
)

// AuthStore issues and checks the short-lived codes phones use to reclaim
// their player identity after a reconnect. In-process implementation.
type AuthStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu    sync.Mutex
	codes map[string]authEntry
}

type authEntry struct {
	player    string
	expiresAt time.Time
}

func NewAuthStore(ttl time.Duration) *AuthStore {
	return &AuthStore{
		ttl:   ttl,
		clock: time.Now,
		codes: make(map[string]authEntry),
	}
}

// Issue creates a fresh code bound to player.
func (s *AuthStore) Issue(player string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = authEntry{player: player, expiresAt: s.clock().Add(s.ttl)}
	return code, nil
}

// Redeem returns the player a code is bound to. Expired codes are dropped.
func (s *AuthStore) Redeem(code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[code]
	if !ok {
		return "", domain.ErrBadAuthCode
	}
	if entry.expiresAt.Before(s.clock()) {
		delete(s.codes, code)
		return "", domain.ErrBadAuthCode
	}
	return entry.player, nil
}

// Revoke drops every code bound to player, e.g. after a kick.
func (s *AuthStore) Revoke(player string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, entry := range s.codes {
		if entry.player == player {
			delete(s.codes, code)
		}
	}
}
