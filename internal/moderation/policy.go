package moderation

import (
	"strings"

	"whisperguard/internal/domain/models"
)

// PolicyThresholds are the score bands that drive the decision table.
// The scam axis runs slightly hotter than the spam axis before a given
// tier engages.
type PolicyThresholds struct {
	SpamMedium   float64 `mapstructure:"spam_medium"`
	SpamHigh     float64 `mapstructure:"spam_high"`
	SpamCritical float64 `mapstructure:"spam_critical"`
	ScamMedium   float64 `mapstructure:"scam_medium"`
	ScamHigh     float64 `mapstructure:"scam_high"`
	ScamCritical float64 `mapstructure:"scam_critical"`
}

// DefaultPolicyThresholds returns the calibrated default bands.
func DefaultPolicyThresholds() PolicyThresholds {
	return PolicyThresholds{
		SpamMedium:   0.5,
		SpamHigh:     0.7,
		SpamCritical: 0.9,
		ScamMedium:   0.6,
		ScamHigh:     0.8,
		ScamCritical: 0.95,
	}
}

// PolicyEngine turns (spamScore, scamScore, reputation) into a
// suggested action and a human-readable reason. Pure decision table,
// no persisted state. Trusted users take the lenient column; every
// other level, banned included, takes the standard column. The
// recommendation stays score-driven and enforcement of an existing ban
// belongs to the reputation service.
type PolicyEngine struct {
	thresholds PolicyThresholds
}

// NewPolicyEngine creates a policy engine with the given thresholds.
func NewPolicyEngine(t PolicyThresholds) *PolicyEngine {
	return &PolicyEngine{thresholds: t}
}

// Decide returns the suggested action for the given scores and
// reputation. A nil snapshot takes the standard column.
func (p *PolicyEngine) Decide(spamScore, scamScore float64, rep *models.ReputationSnapshot) models.ModerationAction {
	trusted := rep.IsTrusted()

	switch {
	case spamScore > p.thresholds.SpamCritical || scamScore > p.thresholds.ScamCritical:
		if trusted {
			return models.ActionReject
		}
		return models.ActionBan
	case spamScore > p.thresholds.SpamHigh || scamScore > p.thresholds.ScamHigh:
		if trusted {
			return models.ActionFlag
		}
		return models.ActionReject
	case spamScore > p.thresholds.SpamMedium || scamScore > p.thresholds.ScamMedium:
		if trusted {
			return models.ActionWarn
		}
		return models.ActionFlag
	default:
		return models.ActionWarn
	}
}

// IsSpam applies the spam medium threshold.
func (p *PolicyEngine) IsSpam(spamScore float64) bool {
	return spamScore > p.thresholds.SpamMedium
}

// IsScam applies the scam medium threshold.
func (p *PolicyEngine) IsScam(scamScore float64) bool {
	return scamScore > p.thresholds.ScamMedium
}

// defaultReason is used when no flag matched a reason rule
const defaultReason = "No high-risk signals matched"

// BuildReason assembles the human-readable reason by scanning flags in
// priority order: scam-indicating content first, then spam behavior,
// then account standing.
func (p *PolicyEngine) BuildReason(content []models.ContentFlag, behavioral []models.BehavioralFlag, user []models.UserBehaviorFlag) string {
	var reasons []string

	for _, f := range content {
		switch f.Type {
		case models.ContentFlagPhishingAttempt:
			reasons = append(reasons, "content resembles a phishing attempt")
		case models.ContentFlagSuspiciousPatterns:
			reasons = append(reasons, "content matches known scam phrasing")
		}
	}
	for _, f := range behavioral {
		switch f.Type {
		case models.BehavioralFlagRepetitivePosting:
			reasons = append(reasons, "repetitive posting pattern")
		case models.BehavioralFlagRapidPosting:
			reasons = append(reasons, "unusually rapid posting")
		case models.BehavioralFlagBotLikeBehavior:
			reasons = append(reasons, "bot-like posting behavior")
		}
	}
	for _, f := range user {
		if f.Type == models.UserFlagNewAccount {
			reasons = append(reasons, "new account with no track record")
		}
	}
	for _, f := range user {
		if f.Type == models.UserFlagLowReputation {
			reasons = append(reasons, "low account reputation")
		}
	}

	if len(reasons) == 0 {
		return defaultReason
	}
	return strings.Join(reasons, "; ")
}
