package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"whisperguard/internal/domain/models"
	"whisperguard/pkg/logger"
)

// HistoryStore lists an author's recent posts. The engine treats it as
// at-most-one-attempt: any error degrades behavioral and timing
// analysis to empty flags instead of failing the call.
type HistoryStore interface {
	ListRecentByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.PostHistoryEntry, error)
}

// ReputationStore fetches a user's reputation snapshot, with the same
// degrade-on-error contract as HistoryStore.
type ReputationStore interface {
	GetReputation(ctx context.Context, userID uuid.UUID) (*models.ReputationSnapshot, error)
}

// EngineConfig tunes one engine instance. Zero values fall back to the
// calibrated defaults.
type EngineConfig struct {
	HistoryLimit    int           `mapstructure:"history_limit"`
	AnalysisTimeout time.Duration `mapstructure:"analysis_timeout"`

	SpamWeights SpamWeights      `mapstructure:"spam_weights"`
	ScamWeights ScamWeights      `mapstructure:"scam_weights"`
	Thresholds  PolicyThresholds `mapstructure:"thresholds"`
}

// DefaultEngineConfig returns the calibrated defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HistoryLimit:    20,
		AnalysisTimeout: 5 * time.Second,
		SpamWeights:     DefaultSpamWeights(),
		ScamWeights:     DefaultScamWeights(),
		Thresholds:      DefaultPolicyThresholds(),
	}
}

// Engine is the moderation risk-scoring engine: a stateless pipeline
// from (whisper, history, reputation) to (scores, flags, action). It
// holds only collaborator handles and configuration, so one instance
// is safe for unbounded concurrent use.
type Engine struct {
	content    *ContentAnalyzer
	behavioral *BehavioralAnalyzer
	trust      *UserTrustAnalyzer
	aggregator *ScoreAggregator
	policy     *PolicyEngine
	converter  *ViolationConverter

	history    HistoryStore
	reputation ReputationStore

	cfg    EngineConfig
	logger *logger.Logger

	// now is swappable for deterministic tests
	now func() time.Time
}

// NewEngine creates an engine. history may be nil (behavioral and
// timing analysis degrade to empty); reputation may be nil (callers
// must then pass snapshots explicitly).
func NewEngine(cfg EngineConfig, history HistoryStore, reputation ReputationStore, log *logger.Logger, extraSignals ...TrustSignalSource) *Engine {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.AnalysisTimeout <= 0 {
		cfg.AnalysisTimeout = 5 * time.Second
	}
	if cfg.SpamWeights == (SpamWeights{}) {
		cfg.SpamWeights = DefaultSpamWeights()
	}
	if cfg.ScamWeights == (ScamWeights{}) {
		cfg.ScamWeights = DefaultScamWeights()
	}
	if cfg.Thresholds == (PolicyThresholds{}) {
		cfg.Thresholds = DefaultPolicyThresholds()
	}

	lib := NewPatternLibrary()
	return &Engine{
		content:    NewContentAnalyzer(lib, log),
		behavioral: NewBehavioralAnalyzer(lib, log),
		trust:      NewUserTrustAnalyzer(log, extraSignals...),
		aggregator: NewScoreAggregator(cfg.SpamWeights, cfg.ScamWeights),
		policy:     NewPolicyEngine(cfg.Thresholds),
		converter:  NewViolationConverter(),
		history:    history,
		reputation: reputation,
		cfg:        cfg,
		logger:     log.WithComponent("moderation-engine"),
		now:        time.Now,
	}
}

// Analyze runs the full pipeline for one whisper. It never panics and
// never returns an invalid result: collaborator failures degrade the
// affected component to empty flags, and any internal fault yields the
// safe fail-open default ("warn", zero scores) so an analysis outage
// cannot block legitimate content.
func (e *Engine) Analyze(ctx context.Context, whisper *models.Whisper, rep *models.ReputationSnapshot) (result *models.SpamAnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("analysis panicked, returning safe default")
			result = failOpenResult()
		}
	}()

	if whisper == nil {
		return failOpenResult()
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.AnalysisTimeout)
	defer cancel()

	now := e.now()
	history, rep := e.fetchInputs(ctx, whisper.AuthorID, rep)

	var (
		contentFlags    []models.ContentFlag
		behavioralFlags []models.BehavioralFlag
		userFlags       []models.UserBehaviorFlag
		wg              sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer e.recoverBranch("behavioral")
		behavioralFlags = e.behavioral.Analyze(whisper, history, now)
	}()
	go func() {
		defer wg.Done()
		defer e.recoverBranch("user-trust")
		userFlags = e.trust.Analyze(ctx, rep, history, now)
	}()

	contentFlags = e.content.Analyze(whisper.Text)
	wg.Wait()

	return e.buildResult(contentFlags, behavioralFlags, userFlags, rep)
}

// AnalyzeContentOnly is the synchronous pre-publish fast path: content
// analysis only, no collaborator I/O, no history. Identical input
// always yields an identical result.
func (e *Engine) AnalyzeContentOnly(text string) (result *models.SpamAnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("content screening panicked, returning safe default")
			result = failOpenResult()
		}
	}()

	flags := e.content.Analyze(text)
	return e.buildResult(flags, nil, nil, nil)
}

// AnalyzeContentBatch screens many texts with bounded concurrency.
// Used by backfill scans; each entry gets the same guarantees as
// AnalyzeContentOnly.
func (e *Engine) AnalyzeContentBatch(ctx context.Context, texts []string) []*models.SpamAnalysisResult {
	const maxConcurrency = 5

	results := make([]*models.SpamAnalysisResult, len(texts))
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i, text := range texts {
		wg.Add(1)
		go func(idx int, t string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[idx] = failOpenResult()
				return
			}
			results[idx] = e.AnalyzeContentOnly(t)
		}(i, text)
	}

	wg.Wait()
	return results
}

// ToViolations maps a completed result to persistence-ready records.
func (e *Engine) ToViolations(userID, whisperID uuid.UUID, result *models.SpamAnalysisResult) []models.Violation {
	return e.converter.ToViolations(userID, whisperID, result)
}

// fetchInputs pulls history and, when the caller did not supply a
// snapshot, reputation. The two fetches run concurrently since neither
// depends on the other; either one failing degrades that input.
func (e *Engine) fetchInputs(ctx context.Context, authorID uuid.UUID, rep *models.ReputationSnapshot) ([]models.PostHistoryEntry, *models.ReputationSnapshot) {
	var (
		history []models.PostHistoryEntry
		fetched *models.ReputationSnapshot
		wg      sync.WaitGroup
	)

	if e.history != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer e.recoverBranch("history-fetch")
			// One entry beyond the configured window, so volume checks
			// can tell "exactly HistoryLimit posts" apart from "more
			// than HistoryLimit"
			entries, err := e.history.ListRecentByAuthor(ctx, authorID, e.cfg.HistoryLimit+1)
			if err != nil {
				e.logger.Warn().Err(err).Str("author_id", authorID.String()).Msg("history unavailable, degrading behavioral analysis")
				return
			}
			history = entries
		}()
	}

	if rep == nil && e.reputation != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer e.recoverBranch("reputation-fetch")
			snapshot, err := e.reputation.GetReputation(ctx, authorID)
			if err != nil {
				e.logger.Warn().Err(err).Str("user_id", authorID.String()).Msg("reputation unavailable, degrading trust analysis")
				return
			}
			fetched = snapshot
		}()
	}

	wg.Wait()
	if rep == nil {
		rep = fetched
	}
	return history, rep
}

func (e *Engine) buildResult(content []models.ContentFlag, behavioral []models.BehavioralFlag, user []models.UserBehaviorFlag, rep *models.ReputationSnapshot) *models.SpamAnalysisResult {
	spamScore, scamScore := e.aggregator.Aggregate(content, behavioral, user)

	confidence := spamScore
	if scamScore > confidence {
		confidence = scamScore
	}

	return &models.SpamAnalysisResult{
		IsSpam:          e.policy.IsSpam(spamScore),
		IsScam:          e.policy.IsScam(scamScore),
		Confidence:      confidence,
		SpamScore:       spamScore,
		ScamScore:       scamScore,
		ContentFlags:    content,
		BehavioralFlags: behavioral,
		UserFlags:       user,
		SuggestedAction: e.policy.Decide(spamScore, scamScore, rep),
		Reason:          e.policy.BuildReason(content, behavioral, user),
	}
}

// recoverBranch swallows a panic in one analysis branch so the branch
// degrades to empty flags instead of killing the whole call.
func (e *Engine) recoverBranch(name string) {
	if r := recover(); r != nil {
		e.logger.Error().Interface("panic", r).Str("branch", name).Msg("analysis branch panicked, degrading to empty flags")
	}
}

// failOpenResult is the fully safe default: no scores, no flags, warn.
func failOpenResult() *models.SpamAnalysisResult {
	return &models.SpamAnalysisResult{
		SuggestedAction: models.ActionWarn,
		Reason:          "Analysis failed",
	}
}
