package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"whisperguard/internal/domain/models"
)

func TestPolicyEngine_Decide(t *testing.T) {
	p := NewPolicyEngine(DefaultPolicyThresholds())

	tests := []struct {
		name      string
		spamScore float64
		scamScore float64
		level     models.TrustLevel
		want      models.ModerationAction
	}{
		{"critical spam standard", 0.95, 0, models.TrustLevelStandard, models.ActionBan},
		{"critical spam trusted", 0.95, 0, models.TrustLevelTrusted, models.ActionReject},
		{"critical scam standard", 0, 0.96, models.TrustLevelStandard, models.ActionBan},
		{"critical scam trusted", 0, 0.96, models.TrustLevelTrusted, models.ActionReject},

		{"high spam standard", 0.75, 0, models.TrustLevelStandard, models.ActionReject},
		{"high spam trusted", 0.75, 0, models.TrustLevelTrusted, models.ActionFlag},
		{"high scam verified", 0, 0.85, models.TrustLevelVerified, models.ActionReject},

		{"medium spam standard", 0.55, 0, models.TrustLevelStandard, models.ActionFlag},
		{"medium spam trusted", 0.55, 0, models.TrustLevelTrusted, models.ActionWarn},
		{"medium scam standard", 0, 0.65, models.TrustLevelStandard, models.ActionFlag},

		{"low scores", 0.3, 0.3, models.TrustLevelStandard, models.ActionWarn},
		{"zero scores", 0, 0, models.TrustLevelTrusted, models.ActionWarn},

		// Thresholds are exclusive: a score exactly at the band edge
		// stays in the band below
		{"spam at medium edge", 0.5, 0, models.TrustLevelStandard, models.ActionWarn},
		{"scam at medium edge", 0, 0.6, models.TrustLevelStandard, models.ActionWarn},

		// A banned level takes the standard column; enforcing an
		// existing ban is the reputation service's job
		{"high spam banned", 0.75, 0, models.TrustLevelBanned, models.ActionReject},
		{"medium spam flagged", 0.55, 0, models.TrustLevelFlagged, models.ActionFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &models.ReputationSnapshot{Level: tt.level}
			assert.Equal(t, tt.want, p.Decide(tt.spamScore, tt.scamScore, rep))
		})
	}

	t.Run("nil snapshot takes the standard column", func(t *testing.T) {
		assert.Equal(t, models.ActionReject, p.Decide(0.75, 0, nil))
	})
}

func TestPolicyEngine_IsSpamIsScam(t *testing.T) {
	p := NewPolicyEngine(DefaultPolicyThresholds())

	assert.False(t, p.IsSpam(0.5))
	assert.True(t, p.IsSpam(0.51))
	assert.False(t, p.IsScam(0.6))
	assert.True(t, p.IsScam(0.61))
}

func TestPolicyEngine_BuildReason(t *testing.T) {
	p := NewPolicyEngine(DefaultPolicyThresholds())

	t.Run("no flags", func(t *testing.T) {
		assert.Equal(t, "No high-risk signals matched", p.BuildReason(nil, nil, nil))
	})

	t.Run("priority order", func(t *testing.T) {
		content := []models.ContentFlag{
			{Type: models.ContentFlagPhishingAttempt},
		}
		behavioral := []models.BehavioralFlag{
			{Type: models.BehavioralFlagRepetitivePosting},
		}
		user := []models.UserBehaviorFlag{
			{Type: models.UserFlagNewAccount},
		}

		reason := p.BuildReason(content, behavioral, user)
		assert.Equal(t, "content resembles a phishing attempt; repetitive posting pattern; new account with no track record", reason)
	})

	t.Run("unlisted flag types fall back to default", func(t *testing.T) {
		content := []models.ContentFlag{{Type: models.ContentFlagClickbait}}
		assert.Equal(t, "No high-risk signals matched", p.BuildReason(content, nil, nil))
	})
}
