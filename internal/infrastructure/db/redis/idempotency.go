package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore binds a client-supplied Idempotency-Key to the record it
// produces. The binding is taken before the insert so concurrent retries
// cannot both create a record.
// Key format: idem:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// releaseScript deletes KEYS[1] only while it still holds ARGV[1].
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Claim binds key to recordID with SET NX. When the key is already bound it
// returns the bound record id and false.
func (s *IdempotencyStore) Claim(ctx context.Context, ownerID, key, recordID string) (string, bool, error) {
	k := s.key(ownerID, key)
	// Two attempts cover a binding that expires between SETNX and GET.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, recordID, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return recordID, true, nil
		}

		holder, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim: %w", err)
		}
		return holder, false, nil
	}
	return "", false, fmt.Errorf("idempotency claim: key %q kept expiring", key)
}

// Release drops the binding if it still points at recordID.
func (s *IdempotencyStore) Release(ctx context.Context, ownerID, key, recordID string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(ownerID, key)}, recordID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:%s:%s", ownerID, key)
}
