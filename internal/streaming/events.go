package streaming

import (
	"time"

	"github.com/google/uuid"

	"whisperguard/internal/domain/models"
)

// EventType represents the type of moderation event
type EventType string

const (
	EventTypeContentFlagged    EventType = "content_flagged"
	EventTypeContentRejected   EventType = "content_rejected"
	EventTypeViolationRecorded EventType = "violation_recorded"
)

// ModerationEvent is the real-time event emitted for downstream
// consumers (review tooling, reputation service).
type ModerationEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	UserID    string `json:"user_id"`
	WhisperID string `json:"whisper_id,omitempty"`

	// Analysis outcome
	SpamScore       float64                 `json:"spam_score"`
	ScamScore       float64                 `json:"scam_score"`
	SuggestedAction models.ModerationAction `json:"suggested_action"`
	Reason          string                  `json:"reason"`

	// Violation details, set on violation_recorded events
	ViolationID   string               `json:"violation_id,omitempty"`
	ViolationType models.ViolationType `json:"violation_type,omitempty"`
	Severity      models.Severity      `json:"severity,omitempty"`
}

// NewAnalysisEvent creates an event from a completed analysis result.
// Reject and ban recommendations arrive as content_rejected, everything
// flagged but publishable as content_flagged.
func NewAnalysisEvent(userID, whisperID uuid.UUID, result *models.SpamAnalysisResult) *ModerationEvent {
	eventType := EventTypeContentFlagged
	if result.SuggestedAction == models.ActionReject || result.SuggestedAction == models.ActionBan {
		eventType = EventTypeContentRejected
	}

	return &ModerationEvent{
		ID:              uuid.New().String(),
		Type:            eventType,
		Timestamp:       time.Now(),
		UserID:          userID.String(),
		WhisperID:       whisperID.String(),
		SpamScore:       result.SpamScore,
		ScamScore:       result.ScamScore,
		SuggestedAction: result.SuggestedAction,
		Reason:          result.Reason,
	}
}

// NewViolationEvent creates an event for a recorded violation
func NewViolationEvent(v *models.Violation) *ModerationEvent {
	return &ModerationEvent{
		ID:              uuid.New().String(),
		Type:            EventTypeViolationRecorded,
		Timestamp:       time.Now(),
		UserID:          v.UserID.String(),
		WhisperID:       v.WhisperID.String(),
		SuggestedAction: v.SuggestedAction,
		Reason:          v.Description,
		ViolationID:     v.ID.String(),
		ViolationType:   v.Type,
		Severity:        v.Severity,
	}
}
