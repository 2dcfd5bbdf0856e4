package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"sellerconnect/internal/domain/repository"
	"sellerconnect/pkg/errors"
)

const dismissalKeyPrefix = "prompt:dismissed:"

// DismissalStore keeps each session's dismissed prompts in a Redis set that
// expires ttl after the last dismissal.
type DismissalStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewDismissalStore(rdb redis.Cmdable, ttl time.Duration) repository.PromptDismissalRepository {
	return &DismissalStore{rdb: rdb, ttl: ttl}
}

func dismissalKey(sessionID string) string {
	return dismissalKeyPrefix + sessionID
}

func (s *DismissalStore) Dismiss(ctx context.Context, sessionID, contactID string) error {
	key := dismissalKey(sessionID)

	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, contactID)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Store("Failed to record prompt dismissal", err)
	}
	return nil
}

func (s *DismissalStore) DismissedIDs(ctx context.Context, sessionID string) (map[string]struct{}, error) {
	members, err := s.rdb.SMembers(ctx, dismissalKey(sessionID)).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Store("Failed to load prompt dismissals", err)
	}

	ids := make(map[string]struct{}, len(members))
	for _, id := range members {
		ids[id] = struct{}{}
	}
	return ids, nil
}
