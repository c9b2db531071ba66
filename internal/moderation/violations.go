package moderation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"whisperguard/internal/domain/models"
)

// Violation severity bands on the triggering axis score. Because a
// result only enters here above the medium thresholds, the floor band
// is medium, never low.
const (
	violationCriticalScore = 0.8
	violationHighScore     = 0.6
)

// ViolationConverter maps a completed analysis result to zero, one, or
// two durable violation records. Pure mapping, no I/O; a clean result
// always yields zero records.
type ViolationConverter struct{}

// NewViolationConverter creates a converter.
func NewViolationConverter() *ViolationConverter {
	return &ViolationConverter{}
}

// ToViolations builds the persistence-ready records for a result.
func (c *ViolationConverter) ToViolations(userID, whisperID uuid.UUID, result *models.SpamAnalysisResult) []models.Violation {
	if result == nil {
		return nil
	}

	var violations []models.Violation
	now := time.Now()

	if result.IsScam {
		violations = append(violations, models.Violation{
			ID:              uuid.New(),
			UserID:          userID,
			WhisperID:       whisperID,
			Type:            models.ViolationTypeScam,
			Severity:        bandViolationSeverity(result.ScamScore),
			Confidence:      result.ScamScore,
			Description:     fmt.Sprintf("Scam risk %.2f: %s", result.ScamScore, result.Reason),
			SuggestedAction: result.SuggestedAction,
			CreatedAt:       now,
		})
	}
	if result.IsSpam {
		violations = append(violations, models.Violation{
			ID:              uuid.New(),
			UserID:          userID,
			WhisperID:       whisperID,
			Type:            models.ViolationTypeSpam,
			Severity:        bandViolationSeverity(result.SpamScore),
			Confidence:      result.SpamScore,
			Description:     fmt.Sprintf("Spam risk %.2f: %s", result.SpamScore, result.Reason),
			SuggestedAction: result.SuggestedAction,
			CreatedAt:       now,
		})
	}

	return violations
}

func bandViolationSeverity(score float64) models.Severity {
	switch {
	case score > violationCriticalScore:
		return models.SeverityCritical
	case score > violationHighScore:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}
