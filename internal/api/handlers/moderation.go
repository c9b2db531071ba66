package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"whisperguard/internal/domain/models"
	"whisperguard/internal/infrastructure/cache"
	"whisperguard/internal/infrastructure/database/repository"
	"whisperguard/internal/moderation"
	"whisperguard/internal/streaming"
	"whisperguard/pkg/logger"
)

const maxBatchSize = 100

// ModerationHandler exposes the risk-scoring engine over HTTP
type ModerationHandler struct {
	engine     *moderation.Engine
	violations *repository.ViolationRepository
	publisher  *streaming.NATSPublisher
	repCache   *cache.CachedReputationStore
	logger     *logger.Logger
}

// NewModerationHandler creates a new moderation handler. violations,
// publisher, and repCache may be nil in a degraded boot; recording,
// event publishing, and cache invalidation are then skipped.
func NewModerationHandler(engine *moderation.Engine, violations *repository.ViolationRepository, publisher *streaming.NATSPublisher, repCache *cache.CachedReputationStore, log *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		engine:     engine,
		violations: violations,
		publisher:  publisher,
		repCache:   repCache,
		logger:     log.WithComponent("moderation-handler"),
	}
}

// ScreenRequest is the request body for content-only screening
type ScreenRequest struct {
	Text string `json:"text"`
}

// ScreenBatchRequest is the request body for batch screening
type ScreenBatchRequest struct {
	Texts []string `json:"texts"`
}

// AnalyzeRequest is the request body for full analysis
type AnalyzeRequest struct {
	WhisperID       uuid.UUID `json:"whisper_id"`
	AuthorID        uuid.UUID `json:"author_id"`
	Text            string    `json:"text"`
	DurationSeconds float64   `json:"duration_seconds"`
	LikeCount       int       `json:"like_count"`
	ReplyCount      int       `json:"reply_count"`
	CreatedAt       time.Time `json:"created_at,omitempty"`

	// Reputation lets the caller pass an already-fetched snapshot;
	// when nil the engine fetches one itself
	Reputation *models.ReputationSnapshot `json:"reputation,omitempty"`

	// Record persists violations and publishes decision events
	Record bool `json:"record,omitempty"`
}

// AnalyzeResponse pairs the analysis result with any recorded violations
type AnalyzeResponse struct {
	Result     *models.SpamAnalysisResult `json:"result"`
	Violations []models.Violation         `json:"violations,omitempty"`
}

// Screen handles POST /api/v1/moderation/screen - the pre-publish fast path
func (h *ModerationHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.engine.AnalyzeContentOnly(req.Text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ScreenBatch handles POST /api/v1/moderation/screen/batch
func (h *ModerationHandler) ScreenBatch(w http.ResponseWriter, r *http.Request) {
	var req ScreenBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Texts) == 0 {
		http.Error(w, "At least one text is required", http.StatusBadRequest)
		return
	}
	if len(req.Texts) > maxBatchSize {
		http.Error(w, "Maximum 100 texts per batch", http.StatusBadRequest)
		return
	}

	results := h.engine.AnalyzeContentBatch(r.Context(), req.Texts)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// Analyze handles POST /api/v1/moderation/analyze - the full pipeline
func (h *ModerationHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.AuthorID == uuid.Nil {
		http.Error(w, "author_id is required", http.StatusBadRequest)
		return
	}

	whisper := &models.Whisper{
		ID:              req.WhisperID,
		AuthorID:        req.AuthorID,
		Text:            req.Text,
		DurationSeconds: req.DurationSeconds,
		LikeCount:       req.LikeCount,
		ReplyCount:      req.ReplyCount,
		CreatedAt:       req.CreatedAt,
	}
	if whisper.CreatedAt.IsZero() {
		whisper.CreatedAt = time.Now()
	}

	result := h.engine.Analyze(r.Context(), whisper, req.Reputation)

	response := AnalyzeResponse{Result: result}
	if req.Record {
		response.Violations = h.record(r, whisper.AuthorID, whisper.ID, result)
	}

	log := h.logger.WithUserID(whisper.AuthorID.String())
	if whisper.ID != uuid.Nil {
		log = log.WithWhisperID(whisper.ID.String())
	}
	log.Info().
		Bool("is_spam", result.IsSpam).
		Bool("is_scam", result.IsScam).
		Str("action", string(result.SuggestedAction)).
		Msg("whisper analyzed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// record converts, persists, and publishes. Failures here are logged
// and degrade the response rather than failing the analysis.
func (h *ModerationHandler) record(r *http.Request, userID, whisperID uuid.UUID, result *models.SpamAnalysisResult) []models.Violation {
	violations := h.engine.ToViolations(userID, whisperID, result)
	log := h.logger.WithUserID(userID.String()).WithWhisperID(whisperID.String())

	if len(violations) > 0 && h.violations != nil {
		if err := h.violations.CreateBatch(r.Context(), violations); err != nil {
			log.Error().Err(err).Msg("failed to persist violations")
		} else if h.repCache != nil {
			// A new violation changes the author's standing, so the
			// cached snapshot is stale
			h.repCache.Invalidate(r.Context(), userID)
		}
	}

	if h.publisher != nil {
		if len(violations) > 0 || result.SuggestedAction != models.ActionWarn {
			event := streaming.NewAnalysisEvent(userID, whisperID, result)
			if err := h.publisher.Publish(r.Context(), event); err != nil {
				log.Warn().Err(err).Msg("failed to publish moderation event")
			}
		}
		for i := range violations {
			if err := h.publisher.Publish(r.Context(), streaming.NewViolationEvent(&violations[i])); err != nil {
				log.Warn().Err(err).Msg("failed to publish violation event")
			}
		}
	}

	return violations
}

// ConvertRequest is the request body for converting an existing
// analysis result to violation records
type ConvertRequest struct {
	UserID    uuid.UUID                  `json:"user_id"`
	WhisperID uuid.UUID                  `json:"whisper_id"`
	Result    *models.SpamAnalysisResult `json:"result"`
	Record    bool                       `json:"record,omitempty"`
}

// ConvertViolations handles POST /api/v1/moderation/violations - maps
// a previously obtained analysis result to violation records, for
// callers that analyze first and decide to record later
func (h *ModerationHandler) ConvertViolations(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == uuid.Nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if req.Result == nil {
		http.Error(w, "result is required", http.StatusBadRequest)
		return
	}

	var violations []models.Violation
	if req.Record {
		violations = h.record(r, req.UserID, req.WhisperID, req.Result)
	} else {
		violations = h.engine.ToViolations(req.UserID, req.WhisperID, req.Result)
	}
	if violations == nil {
		violations = []models.Violation{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(violations)
}

// ListViolations handles GET /api/v1/moderation/violations/{userID}.
// An optional min_severity query parameter narrows the feed to
// violations at or above that severity.
func (h *ModerationHandler) ListViolations(w http.ResponseWriter, r *http.Request) {
	if h.violations == nil {
		http.Error(w, "Violation store not configured", http.StatusServiceUnavailable)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	minSeverity := models.Severity(r.URL.Query().Get("min_severity"))
	switch minSeverity {
	case "", models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
	default:
		http.Error(w, "Invalid min_severity", http.StatusBadRequest)
		return
	}

	violations, err := h.violations.ListByUser(r.Context(), userID, 50)
	if err != nil {
		h.logger.WithUserID(userID.String()).Error().Err(err).Msg("failed to list violations")
		http.Error(w, "Failed to list violations", http.StatusInternalServerError)
		return
	}

	if minSeverity != "" {
		violations = filterBySeverity(violations, minSeverity)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(violations)
}

// filterBySeverity keeps violations at or above the given severity.
func filterBySeverity(violations []models.Violation, min models.Severity) []models.Violation {
	filtered := make([]models.Violation, 0, len(violations))
	for _, v := range violations {
		if v.Severity.AtLeast(min) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
