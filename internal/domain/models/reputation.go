package models

import (
	"time"

	"github.com/google/uuid"
)

// TrustLevel is a coarse reputation bucket maintained by the
// reputation service. The moderation engine reads it to modulate
// policy leniency and never writes it back.
type TrustLevel string

const (
	TrustLevelTrusted  TrustLevel = "trusted"
	TrustLevelVerified TrustLevel = "verified"
	TrustLevelStandard TrustLevel = "standard"
	TrustLevelFlagged  TrustLevel = "flagged"
	TrustLevelBanned   TrustLevel = "banned"
)

// ReputationSnapshot is a read-only point-in-time view of a user's
// standing. Score and level are maintained independently by the
// reputation service.
type ReputationSnapshot struct {
	UserID           uuid.UUID  `json:"user_id"`
	Score            float64    `json:"score"` // 0-100
	Level            TrustLevel `json:"level"`
	TotalWhispers    int        `json:"total_whispers"`
	ViolationHistory int        `json:"violation_history"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsTrusted reports whether the user qualifies for the lenient policy path.
func (r *ReputationSnapshot) IsTrusted() bool {
	return r != nil && r.Level == TrustLevelTrusted
}

// AccountAge returns how old the account is relative to now.
func (r *ReputationSnapshot) AccountAge(now time.Time) time.Duration {
	if r == nil || r.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(r.CreatedAt)
}
