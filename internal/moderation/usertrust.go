package moderation

import (
	"context"
	"time"

	"whisperguard/internal/domain/models"
	"whisperguard/pkg/logger"
)

const (
	// Accounts below either bar count as new
	newAccountMinWhispers = 5
	newAccountMinAge      = 24 * time.Hour

	// Reputation score below this flags even non-flagged accounts
	lowReputationScore = 30

	// Trailing-24h posting volume that flags suspicious timing. The
	// engine fetches one history entry beyond its configured limit so
	// this check stays reachable when the limit equals the count.
	burstPostCount = 20

	// Share of trailing-24h posts in the night window that flags
	nightPostShare = 0.7
)

// TrustSignalInput is the read-only context handed to trust signal
// sources for one analysis call.
type TrustSignalInput struct {
	Reputation  *models.ReputationSnapshot
	RecentPosts []models.PostHistoryEntry
	Now         time.Time
}

// TrustSignalSource produces user-behavior flags from one signal
// family. Additional sources (IP geolocation, device fingerprinting)
// plug in here without touching the aggregator.
type TrustSignalSource interface {
	Name() string
	Collect(ctx context.Context, input TrustSignalInput) []models.UserBehaviorFlag
}

// UserTrustAnalyzer evaluates the author's standing and account-level
// posting anomalies. Reputation and history are read-only snapshots
// supplied by the engine; the analyzer itself performs no I/O.
type UserTrustAnalyzer struct {
	sources []TrustSignalSource
	logger  *logger.Logger
}

// NewUserTrustAnalyzer creates a trust analyzer with the built-in
// signal sources plus any extras.
func NewUserTrustAnalyzer(log *logger.Logger, extra ...TrustSignalSource) *UserTrustAnalyzer {
	sources := []TrustSignalSource{
		geoSignalSource{},
		deviceSignalSource{},
	}
	sources = append(sources, extra...)
	return &UserTrustAnalyzer{
		sources: sources,
		logger:  log.WithComponent("trust-analyzer"),
	}
}

// Analyze returns user-behavior flags for the author. A nil reputation
// snapshot degrades to timing analysis only.
func (a *UserTrustAnalyzer) Analyze(ctx context.Context, rep *models.ReputationSnapshot, recent []models.PostHistoryEntry, now time.Time) []models.UserBehaviorFlag {
	var flags []models.UserBehaviorFlag

	if f := a.checkNewAccount(rep, now); f != nil {
		flags = append(flags, *f)
	}
	if f := a.checkLowReputation(rep); f != nil {
		flags = append(flags, *f)
	}
	if f := a.checkSuspiciousTiming(recent, now); f != nil {
		flags = append(flags, *f)
	}

	for _, src := range a.sources {
		flags = append(flags, src.Collect(ctx, TrustSignalInput{
			Reputation:  rep,
			RecentPosts: recent,
			Now:         now,
		})...)
	}

	return flags
}

func (a *UserTrustAnalyzer) checkNewAccount(rep *models.ReputationSnapshot, now time.Time) *models.UserBehaviorFlag {
	if rep == nil {
		return nil
	}
	fewPosts := rep.TotalWhispers < newAccountMinWhispers
	young := rep.AccountAge(now) < newAccountMinAge
	if !fewPosts && !young {
		return nil
	}

	confidence := 0.7
	if fewPosts && young {
		confidence = 0.8
	}
	return &models.UserBehaviorFlag{
		Type:        models.UserFlagNewAccount,
		Severity:    models.SeverityMedium,
		Confidence:  confidence,
		Description: "Account is new or has almost no posting history",
		Evidence: map[string]any{
			"total_whispers": rep.TotalWhispers,
			"account_age_h":  int(rep.AccountAge(now).Hours()),
		},
	}
}

func (a *UserTrustAnalyzer) checkLowReputation(rep *models.ReputationSnapshot) *models.UserBehaviorFlag {
	if rep == nil {
		return nil
	}
	if rep.Level == models.TrustLevelFlagged || rep.Level == models.TrustLevelBanned {
		return &models.UserBehaviorFlag{
			Type:        models.UserFlagLowReputation,
			Severity:    models.SeverityHigh,
			Confidence:  0.9,
			Description: "Account is flagged or banned by the reputation service",
			Evidence:    map[string]any{"level": string(rep.Level)},
		}
	}
	if rep.Score < lowReputationScore {
		return &models.UserBehaviorFlag{
			Type:        models.UserFlagLowReputation,
			Severity:    models.SeverityMedium,
			Confidence:  0.6,
			Description: "Reputation score is in the low band",
			Evidence:    map[string]any{"score": rep.Score},
		}
	}
	return nil
}

func (a *UserTrustAnalyzer) checkSuspiciousTiming(recent []models.PostHistoryEntry, now time.Time) *models.UserBehaviorFlag {
	var trailing, night int
	for _, p := range recent {
		age := now.Sub(p.CreatedAt)
		if age < 0 || age > 24*time.Hour {
			continue
		}
		trailing++
		if h := p.CreatedAt.Hour(); h >= 2 && h < 6 {
			night++
		}
	}

	if trailing > burstPostCount {
		return &models.UserBehaviorFlag{
			Type:        models.UserFlagSuspiciousTiming,
			Severity:    models.SeverityHigh,
			Confidence:  0.8,
			Description: "Extreme posting volume in the last 24 hours",
			Evidence:    map[string]any{"posts_24h": trailing},
		}
	}
	if trailing > 0 && float64(night)/float64(trailing) > nightPostShare {
		return &models.UserBehaviorFlag{
			Type:        models.UserFlagSuspiciousTiming,
			Severity:    models.SeverityMedium,
			Confidence:  0.6,
			Description: "Posting concentrated in the 02:00-06:00 window",
			Evidence:    map[string]any{"night_posts": night, "posts_24h": trailing},
		}
	}
	return nil
}

// geoSignalSource is an extension point for IP-geolocation anomaly
// detection. It returns no flags until a geolocation feed is wired in.
type geoSignalSource struct{}

func (geoSignalSource) Name() string { return "geographic" }

func (geoSignalSource) Collect(context.Context, TrustSignalInput) []models.UserBehaviorFlag {
	return nil
}

// deviceSignalSource is an extension point for device-fingerprint
// analysis. It returns no flags until a fingerprint feed is wired in.
type deviceSignalSource struct{}

func (deviceSignalSource) Name() string { return "device" }

func (deviceSignalSource) Collect(context.Context, TrustSignalInput) []models.UserBehaviorFlag {
	return nil
}
