package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"crowdquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AuthStore keeps reconnect codes in Redis so they survive a transport
// restart. Codes are stored as: SET auth:{code} {player} EX ttl
type AuthStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAuthStore(client *redis.Client, ttl time.Duration) *AuthStore {
	return &AuthStore{client: client, ttl: ttl}
}

// Issue creates a fresh code bound to player.
func (s *AuthStore) Issue(player string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := hex.EncodeToString(buf)

	if err := s.client.Set(context.Background(), s.key(code), player, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Redeem returns the player a code is bound to.
func (s *AuthStore) Redeem(code string) (string, error) {
	player, err := s.client.Get(context.Background(), s.key(code)).Result()
	if err == redis.Nil {
		return "", domain.ErrBadAuthCode
	}
	if err != nil {
		return "", err
	}
	return player, nil
}

// Revoke drops every code bound to player. Linear scan over the auth keys;
// sessions hold tens of players, not thousands.
func (s *AuthStore) Revoke(player string) {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, "auth:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if owner, err := s.client.Get(ctx, key).Result(); err == nil && owner == player {
			_ = s.client.Del(ctx, key).Err()
		}
	}
}

func (s *AuthStore) key(code string) string {
	return "auth:" + code
}
