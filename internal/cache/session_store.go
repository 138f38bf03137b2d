package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetSession is the server-side state behind a password-reset session
// token. The token itself is an opaque random string handed to the client
// after a successful code verification; only a session with Verified set
// may complete a reset.
type ResetSession struct {
	UserID   uint `json:"user_id"`
	CodeID   uint `json:"code_id"`
	Verified bool `json:"verified"`
}

// ResetSessionStore keeps reset sessions in Redis with a TTL, so a verified
// session cannot be replayed after it expires or after the reset completes.
type ResetSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResetSessionStore(client *redis.Client, ttl time.Duration) *ResetSessionStore {
	return &ResetSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *ResetSessionStore) key(token string) string {
	return "reset:" + token
}

// Put stores the session under the token for the store's TTL.
func (s *ResetSessionStore) Put(ctx context.Context, token string, session ResetSession) error {
	if s.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal reset session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset session: %w", err)
	}

	return nil
}

// Get returns the session for the token, or ErrCacheNotFound when the token
// is unknown or expired.
func (s *ResetSessionStore) Get(ctx context.Context, token string) (*ResetSession, error) {
	if s.client == nil {
		return nil, ErrCacheNotAvailable
	}

	data, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to load reset session: %w", err)
	}

	var session ResetSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reset session: %w", err)
	}

	return &session, nil
}

// Delete removes the session; called once the reset completes.
func (s *ResetSessionStore) Delete(ctx context.Context, token string) error {
	if s.client == nil {
		return nil
	}

	return s.client.Del(ctx, s.key(token)).Err()
}
