package handlers

import (
	"whisperguard/internal/infrastructure/cache"
	"whisperguard/internal/infrastructure/database"
	"whisperguard/internal/infrastructure/database/repository"
	"whisperguard/internal/moderation"
	"whisperguard/internal/streaming"
	"whisperguard/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Health     *HealthHandler
	Moderation *ModerationHandler
}

// Dependencies holds dependencies for handlers. DB, Cache, Repos, and
// Publisher may be nil when the process boots without its backing
// services; only the content-only screening path is available then.
type Dependencies struct {
	Engine    *moderation.Engine
	DB        *database.PostgresDB
	Cache     *cache.RedisCache
	Repos     *repository.Repositories
	Publisher *streaming.NATSPublisher
	RepCache  *cache.CachedReputationStore
	Logger    *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	var violations *repository.ViolationRepository
	if deps.Repos != nil {
		violations = deps.Repos.Violations
	}

	return &Handlers{
		Health:     NewHealthHandler(deps.DB, deps.Cache, deps.Logger),
		Moderation: NewModerationHandler(deps.Engine, violations, deps.Publisher, deps.RepCache, deps.Logger),
	}
}
