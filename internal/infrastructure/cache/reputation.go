package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"whisperguard/internal/domain/models"
	"whisperguard/internal/moderation"
	"whisperguard/pkg/logger"
)

// CachedReputationStore is a read-through cache in front of the
// reputation store. Reputation moves slowly while the publish path
// calls analyze on every post, so a short TTL removes most reads.
// Cache failures fall through to the backing store; the engine's own
// degradation handles the store failing too.
type CachedReputationStore struct {
	backing moderation.ReputationStore
	cache   *RedisCache
	ttl     time.Duration
	logger  *logger.Logger
}

// NewCachedReputationStore wraps backing with a redis read-through
func NewCachedReputationStore(backing moderation.ReputationStore, cache *RedisCache, ttl time.Duration, log *logger.Logger) *CachedReputationStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedReputationStore{
		backing: backing,
		cache:   cache,
		ttl:     ttl,
		logger:  log.WithComponent("reputation-cache"),
	}
}

// GetReputation implements moderation.ReputationStore
func (s *CachedReputationStore) GetReputation(ctx context.Context, userID uuid.UUID) (*models.ReputationSnapshot, error) {
	key := "reputation:" + userID.String()

	var cached models.ReputationSnapshot
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	snap, err := s.backing.GetReputation(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, snap, s.ttl); err != nil {
		s.logger.Debug().Err(err).Str("user_id", userID.String()).Msg("failed to cache reputation snapshot")
	}
	return snap, nil
}

// Invalidate drops a user's cached snapshot, e.g. after a recorded
// violation changes their standing.
func (s *CachedReputationStore) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, "reputation:"+userID.String()); err != nil {
		s.logger.Debug().Err(err).Str("user_id", userID.String()).Msg("failed to invalidate reputation cache")
	}
}
