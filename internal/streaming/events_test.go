package streaming

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperguard/internal/domain/models"
)

func TestNewAnalysisEvent(t *testing.T) {
	userID, whisperID := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		action models.ModerationAction
		want   EventType
	}{
		{"flag stays flagged", models.ActionFlag, EventTypeContentFlagged},
		{"warn stays flagged", models.ActionWarn, EventTypeContentFlagged},
		{"reject becomes rejected", models.ActionReject, EventTypeContentRejected},
		{"ban becomes rejected", models.ActionBan, EventTypeContentRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &models.SpamAnalysisResult{
				SpamScore:       0.8,
				ScamScore:       0.4,
				SuggestedAction: tt.action,
				Reason:          "repetitive posting pattern",
			}

			event := NewAnalysisEvent(userID, whisperID, result)

			assert.Equal(t, tt.want, event.Type)
			assert.Equal(t, userID.String(), event.UserID)
			assert.Equal(t, whisperID.String(), event.WhisperID)
			assert.Equal(t, 0.8, event.SpamScore)
			assert.Equal(t, tt.action, event.SuggestedAction)
			assert.NotEmpty(t, event.ID)
		})
	}
}

func TestNewViolationEvent(t *testing.T) {
	v := &models.Violation{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		WhisperID:       uuid.New(),
		Type:            models.ViolationTypeScam,
		Severity:        models.SeverityCritical,
		Confidence:      0.9,
		Description:     "Scam risk 0.90: content resembles a phishing attempt",
		SuggestedAction: models.ActionBan,
	}

	event := NewViolationEvent(v)

	require.Equal(t, EventTypeViolationRecorded, event.Type)
	assert.Equal(t, v.ID.String(), event.ViolationID)
	assert.Equal(t, models.ViolationTypeScam, event.ViolationType)
	assert.Equal(t, models.SeverityCritical, event.Severity)
	assert.Equal(t, v.UserID.String(), event.UserID)
}
