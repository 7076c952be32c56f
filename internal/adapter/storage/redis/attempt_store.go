package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// AttemptStore counts failed PIN verifications per account, backed by Redis.
// It implements ports.PinAttemptStore. Counters expire after the lockout TTL,
// so a lockout clears itself without intervention.
type AttemptStore struct {
	client *goredis.Client
	prefix string
}

// NewAttemptStore creates a new Redis-backed attempt store.
func NewAttemptStore(client *goredis.Client) *AttemptStore {
	return &AttemptStore{
		client: client,
		prefix: "pinattempts:",
	}
}

func (s *AttemptStore) key(accountIdentifier string) string {
	return s.prefix + accountIdentifier
}

// Failures returns the current failed-attempt count for the account. A missing
// key counts as zero.
func (s *AttemptStore) Failures(ctx context.Context, accountIdentifier string) (int64, error) {
	count, err := s.client.Get(ctx, s.key(accountIdentifier)).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis pin attempts get: %w", err)
	}
	return count, nil
}

// RecordFailure increments the account's failed-attempt counter and returns the
// new count. The expiry is set on the first failure so the whole window shares
// one deadline.
func (s *AttemptStore) RecordFailure(ctx context.Context, accountIdentifier string, ttl time.Duration) (int64, error) {
	redisKey := s.key(accountIdentifier)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis pin attempts incr: %w", err)
	}

	if count == 1 && ttl > 0 {
		s.client.Expire(ctx, redisKey, ttl)
	}

	return count, nil
}

// Reset clears the account's failed-attempt counter.
func (s *AttemptStore) Reset(ctx context.Context, accountIdentifier string) error {
	if err := s.client.Del(ctx, s.key(accountIdentifier)).Err(); err != nil {
		return fmt.Errorf("redis pin attempts del: %w", err)
	}
	return nil
}
