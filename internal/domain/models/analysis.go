package models

// Severity grades an individual flag or violation
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for comparisons
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// ModerationAction is the engine's non-binding recommendation.
// Actual enforcement is the moderation workflow's decision.
type ModerationAction string

const (
	ActionWarn   ModerationAction = "warn"
	ActionFlag   ModerationAction = "flag"
	ActionReject ModerationAction = "reject"
	ActionBan    ModerationAction = "ban"
)

// ContentFlagType categorizes observations from content analysis
type ContentFlagType string

const (
	ContentFlagSuspiciousPatterns ContentFlagType = "suspicious_patterns"
	ContentFlagClickbait          ContentFlagType = "clickbait"
	ContentFlagMisleadingInfo     ContentFlagType = "misleading_info"
	ContentFlagFakeUrgency        ContentFlagType = "fake_urgency"
	ContentFlagPhishingAttempt    ContentFlagType = "phishing_attempt"
)

// BehavioralFlagType categorizes observations from posting-pattern analysis
type BehavioralFlagType string

const (
	BehavioralFlagRepetitivePosting BehavioralFlagType = "repetitive_posting"
	BehavioralFlagRapidPosting      BehavioralFlagType = "rapid_posting"
	BehavioralFlagSimilarContent    BehavioralFlagType = "similar_content"
	BehavioralFlagBotLikeBehavior   BehavioralFlagType = "bot_like_behavior"
	BehavioralFlagEngagementFarming BehavioralFlagType = "engagement_farming"
)

// UserFlagType categorizes observations about the author's account
type UserFlagType string

const (
	UserFlagNewAccount        UserFlagType = "new_account"
	UserFlagLowReputation     UserFlagType = "low_reputation"
	UserFlagSuspiciousTiming  UserFlagType = "suspicious_timing"
	UserFlagGeographicAnomaly UserFlagType = "geographic_anomaly"
	UserFlagDevicePattern     UserFlagType = "device_pattern"
)

// ContentFlag is a typed observation emitted by the content analyzer
type ContentFlag struct {
	Type        ContentFlagType `json:"type"`
	Severity    Severity        `json:"severity"`
	Confidence  float64         `json:"confidence"` // 0-1
	Description string          `json:"description"`
	Evidence    map[string]any  `json:"evidence,omitempty"`
}

// BehavioralFlag is a typed observation emitted by the behavioral analyzer
type BehavioralFlag struct {
	Type        BehavioralFlagType `json:"type"`
	Severity    Severity           `json:"severity"`
	Confidence  float64            `json:"confidence"`
	Description string             `json:"description"`
	Evidence    map[string]any     `json:"evidence,omitempty"`
}

// UserBehaviorFlag is a typed observation emitted by the user trust analyzer
type UserBehaviorFlag struct {
	Type        UserFlagType   `json:"type"`
	Severity    Severity       `json:"severity"`
	Confidence  float64        `json:"confidence"`
	Description string         `json:"description"`
	Evidence    map[string]any `json:"evidence,omitempty"`
}

// SpamAnalysisResult is the complete output of one analysis call.
//
// Invariants: Confidence == max(SpamScore, ScamScore); both scores are
// clamped to [0,1]; IsSpam and IsScam follow the medium thresholds of
// the policy configuration.
type SpamAnalysisResult struct {
	IsSpam          bool               `json:"is_spam"`
	IsScam          bool               `json:"is_scam"`
	Confidence      float64            `json:"confidence"`
	SpamScore       float64            `json:"spam_score"`
	ScamScore       float64            `json:"scam_score"`
	ContentFlags    []ContentFlag      `json:"content_flags"`
	BehavioralFlags []BehavioralFlag   `json:"behavioral_flags"`
	UserFlags       []UserBehaviorFlag `json:"user_flags"`
	SuggestedAction ModerationAction   `json:"suggested_action"`
	Reason          string             `json:"reason"`
}
