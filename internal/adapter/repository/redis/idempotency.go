package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atelier-erp/cashbox/internal/usecase"
)

// Stored values carry a one-byte state marker, so a cached response body can
// never be mistaken for the in-flight placeholder.
const (
	pendingMarker  = 'p'
	completeMarker = 'c'
)

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
// POS clients retry posting requests on flaky connections, so replayed
// keys must return the original response instead of posting twice.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "cashbox:idempotency:",
	}
}

// CheckAndSet atomically claims the key if it is unknown. The SetNX claim is
// the lock: the losing request of a race observes the winner's marker.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (usecase.IdempotencyState, []byte, error) {
	fullKey := s.prefix + key

	set, err := s.client.SetNX(ctx, fullKey, string(pendingMarker), ttl).Result()
	if err != nil {
		return usecase.IdempotencyNew, nil, err
	}
	if set {
		return usecase.IdempotencyNew, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err == redis.Nil {
		// Key expired between the claim attempt and the read. Report it
		// in flight; the client's retry claims it cleanly.
		return usecase.IdempotencyInFlight, nil, nil
	}
	if err != nil {
		return usecase.IdempotencyNew, nil, err
	}

	if len(existing) > 0 && existing[0] == completeMarker {
		return usecase.IdempotencyCompleted, existing[1:], nil
	}

	return usecase.IdempotencyInFlight, nil, nil
}

// Update stores the final response for a claimed key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	value := append([]byte{completeMarker}, response...)

	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

// Release frees a claimed key after a failed request, so the client's retry
// is not locked out for the whole TTL.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
