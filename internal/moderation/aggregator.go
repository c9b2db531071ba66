package moderation

import (
	"whisperguard/internal/domain/models"
)

// SpamWeights are the per-flag-type weights for the spam axis. They
// live in configuration so scoring can be tuned without touching the
// scanning logic.
type SpamWeights struct {
	SuspiciousPatterns float64 `mapstructure:"suspicious_patterns"`
	Clickbait          float64 `mapstructure:"clickbait"`
	MisleadingInfo     float64 `mapstructure:"misleading_info"`
	FakeUrgency        float64 `mapstructure:"fake_urgency"`
	PhishingAttempt    float64 `mapstructure:"phishing_attempt"`

	RepetitivePosting float64 `mapstructure:"repetitive_posting"`
	RapidPosting      float64 `mapstructure:"rapid_posting"`
	SimilarContent    float64 `mapstructure:"similar_content"`
	BotLikeBehavior   float64 `mapstructure:"bot_like_behavior"`
	EngagementFarming float64 `mapstructure:"engagement_farming"`

	NewAccount        float64 `mapstructure:"new_account"`
	LowReputation     float64 `mapstructure:"low_reputation"`
	SuspiciousTiming  float64 `mapstructure:"suspicious_timing"`
	GeographicAnomaly float64 `mapstructure:"geographic_anomaly"`
	DevicePattern     float64 `mapstructure:"device_pattern"`
}

// DefaultSpamWeights returns the calibrated default spam weight table.
func DefaultSpamWeights() SpamWeights {
	return SpamWeights{
		SuspiciousPatterns: 0.25,
		Clickbait:          0.2,
		MisleadingInfo:     0.2,
		FakeUrgency:        0.15,
		PhishingAttempt:    0.2,

		RepetitivePosting: 0.3,
		RapidPosting:      0.25,
		SimilarContent:    0.2,
		BotLikeBehavior:   0.15,
		EngagementFarming: 0.1,

		NewAccount:        0.2,
		LowReputation:     0.3,
		SuspiciousTiming:  0.2,
		GeographicAnomaly: 0.15,
		DevicePattern:     0.15,
	}
}

// ScamWeights are the per-flag-type weights for the scam axis. Scam
// detection is content- and identity-driven: behavioral flags carry no
// weight here.
type ScamWeights struct {
	// Phishing and financial-scam content dominate the axis
	HighRiskContent float64 `mapstructure:"high_risk_content"`
	OtherContent    float64 `mapstructure:"other_content"`

	// New or disreputable accounts amplify scam risk
	HighRiskUser float64 `mapstructure:"high_risk_user"`
	OtherUser    float64 `mapstructure:"other_user"`
}

// DefaultScamWeights returns the calibrated default scam weight table.
func DefaultScamWeights() ScamWeights {
	return ScamWeights{
		HighRiskContent: 0.4,
		OtherContent:    0.2,
		HighRiskUser:    0.3,
		OtherUser:       0.1,
	}
}

// ScoreAggregator combines the three flag sets into two bounded risk
// scores. Pure function of its inputs, no I/O, no retained state.
type ScoreAggregator struct {
	spam SpamWeights
	scam ScamWeights
}

// NewScoreAggregator creates an aggregator with the given weight tables.
func NewScoreAggregator(spam SpamWeights, scam ScamWeights) *ScoreAggregator {
	return &ScoreAggregator{spam: spam, scam: scam}
}

// NewDefaultScoreAggregator creates an aggregator with the default tables.
func NewDefaultScoreAggregator() *ScoreAggregator {
	return NewScoreAggregator(DefaultSpamWeights(), DefaultScamWeights())
}

// Aggregate returns (spamScore, scamScore), each clamped to [0,1].
// Empty flag sets on all three inputs yield exactly 0 on both axes.
func (s *ScoreAggregator) Aggregate(content []models.ContentFlag, behavioral []models.BehavioralFlag, user []models.UserBehaviorFlag) (float64, float64) {
	return s.spamScore(content, behavioral, user), s.scamScore(content, user)
}

func (s *ScoreAggregator) spamScore(content []models.ContentFlag, behavioral []models.BehavioralFlag, user []models.UserBehaviorFlag) float64 {
	var score float64
	for _, f := range content {
		score += f.Confidence * s.contentWeight(f.Type)
	}
	for _, f := range behavioral {
		score += f.Confidence * s.behaviorWeight(f.Type)
	}
	for _, f := range user {
		score += f.Confidence * s.userWeight(f.Type)
	}
	return clamp01(score)
}

func (s *ScoreAggregator) scamScore(content []models.ContentFlag, user []models.UserBehaviorFlag) float64 {
	var score float64
	for _, f := range content {
		switch f.Type {
		case models.ContentFlagPhishingAttempt, models.ContentFlagSuspiciousPatterns:
			score += f.Confidence * s.scam.HighRiskContent
		default:
			score += f.Confidence * s.scam.OtherContent
		}
	}
	for _, f := range user {
		switch f.Type {
		case models.UserFlagNewAccount, models.UserFlagLowReputation:
			score += f.Confidence * s.scam.HighRiskUser
		default:
			score += f.Confidence * s.scam.OtherUser
		}
	}
	return clamp01(score)
}

func (s *ScoreAggregator) contentWeight(t models.ContentFlagType) float64 {
	switch t {
	case models.ContentFlagSuspiciousPatterns:
		return s.spam.SuspiciousPatterns
	case models.ContentFlagClickbait:
		return s.spam.Clickbait
	case models.ContentFlagMisleadingInfo:
		return s.spam.MisleadingInfo
	case models.ContentFlagFakeUrgency:
		return s.spam.FakeUrgency
	case models.ContentFlagPhishingAttempt:
		return s.spam.PhishingAttempt
	default:
		return 0
	}
}

func (s *ScoreAggregator) behaviorWeight(t models.BehavioralFlagType) float64 {
	switch t {
	case models.BehavioralFlagRepetitivePosting:
		return s.spam.RepetitivePosting
	case models.BehavioralFlagRapidPosting:
		return s.spam.RapidPosting
	case models.BehavioralFlagSimilarContent:
		return s.spam.SimilarContent
	case models.BehavioralFlagBotLikeBehavior:
		return s.spam.BotLikeBehavior
	case models.BehavioralFlagEngagementFarming:
		return s.spam.EngagementFarming
	default:
		return 0
	}
}

func (s *ScoreAggregator) userWeight(t models.UserFlagType) float64 {
	switch t {
	case models.UserFlagNewAccount:
		return s.spam.NewAccount
	case models.UserFlagLowReputation:
		return s.spam.LowReputation
	case models.UserFlagSuspiciousTiming:
		return s.spam.SuspiciousTiming
	case models.UserFlagGeographicAnomaly:
		return s.spam.GeographicAnomaly
	case models.UserFlagDevicePattern:
		return s.spam.DevicePattern
	default:
		return 0
	}
}
