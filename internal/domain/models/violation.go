package models

import (
	"time"

	"github.com/google/uuid"
)

// ViolationType identifies the risk axis a violation was recorded on
type ViolationType string

const (
	ViolationTypeSpam ViolationType = "SPAM"
	ViolationTypeScam ViolationType = "SCAM"
)

// Violation is a durable, point-in-time record derived from a
// completed analysis result. It is never mutated after creation; an
// appeal reversing the decision is recorded elsewhere.
type Violation struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	WhisperID       uuid.UUID        `json:"whisper_id,omitempty"`
	Type            ViolationType    `json:"type"`
	Severity        Severity         `json:"severity"`
	Confidence      float64          `json:"confidence"`
	Description     string           `json:"description"`
	SuggestedAction ModerationAction `json:"suggested_action"`
	CreatedAt       time.Time        `json:"created_at"`
}
