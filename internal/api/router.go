package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"whisperguard/internal/api/handlers"
	apimiddleware "whisperguard/internal/api/middleware"
	"whisperguard/internal/config"
	"whisperguard/internal/infrastructure/cache"
	"whisperguard/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	// Rate limiting needs a live cache; a degraded boot without Redis
	// serves unthrottled
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit, r.logger))
	}

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Health checks
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/moderation", func(mod chi.Router) {
			// Full analysis: content + behavioral + trust signals
			mod.Post("/analyze", r.handlers.Moderation.Analyze)

			// Content-only screening, used before a whisper exists
			mod.Post("/screen", r.handlers.Moderation.Screen)
			mod.Post("/screen/batch", r.handlers.Moderation.ScreenBatch)

			// Violation conversion and the per-user review feed
			mod.Post("/violations", r.handlers.Moderation.ConvertViolations)
			mod.Get("/violations/{userID}", r.handlers.Moderation.ListViolations)
		})
	})

	return router
}
