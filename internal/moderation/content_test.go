package moderation

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperguard/internal/domain/models"
	"whisperguard/pkg/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zerolog.Nop()}
}

func newTestContentAnalyzer() *ContentAnalyzer {
	return NewContentAnalyzer(NewPatternLibrary(), testLogger())
}

func findContentFlag(flags []models.ContentFlag, t models.ContentFlagType) *models.ContentFlag {
	for i := range flags {
		if flags[i].Type == t {
			return &flags[i]
		}
	}
	return nil
}

func TestContentAnalyzer_FinancialScam(t *testing.T) {
	a := newTestContentAnalyzer()

	flags := a.Analyze("Make money fast! Earn money online today. Work from home and get rich quick!")

	flag := findContentFlag(flags, models.ContentFlagSuspiciousPatterns)
	require.NotNil(t, flag, "expected a suspicious patterns flag")
	assert.InDelta(t, 0.8, flag.Confidence, 0.001)
	assert.Equal(t, models.SeverityHigh, flag.Severity)

	matched, ok := flag.Evidence["matched_phrases"].([]string)
	require.True(t, ok)
	assert.Len(t, matched, 4)
}

func TestContentAnalyzer_PhishingWithURL(t *testing.T) {
	a := newTestContentAnalyzer()

	flags := a.Analyze("Verify your account at http://secure-login.example.com or it will be closed")

	flag := findContentFlag(flags, models.ContentFlagPhishingAttempt)
	require.NotNil(t, flag, "expected a phishing flag")
	assert.Equal(t, models.SeverityCritical, flag.Severity)
	assert.InDelta(t, 0.5, flag.Confidence, 0.001)
	assert.Equal(t, true, flag.Evidence["contains_url"])
}

func TestContentAnalyzer_PhishingPhraseAloneBelowThreshold(t *testing.T) {
	a := newTestContentAnalyzer()

	// A single phishing phrase without a link stays at the emission
	// threshold and is not flagged on its own
	flags := a.Analyze("please verify your account when you get a chance")

	assert.Nil(t, findContentFlag(flags, models.ContentFlagPhishingAttempt))
}

func TestContentAnalyzer_PhishingScoreCapped(t *testing.T) {
	a := newTestContentAnalyzer()

	flags := a.Analyze("Security alert: unusual activity detected. Verify your account and confirm your identity at http://example.com now, reset your password today")

	flag := findContentFlag(flags, models.ContentFlagPhishingAttempt)
	require.NotNil(t, flag)
	assert.InDelta(t, 1.0, flag.Confidence, 0.001)
}

func TestContentAnalyzer_Clickbait(t *testing.T) {
	a := newTestContentAnalyzer()

	flags := a.Analyze("You won't believe what happened next! Shocking! Must watch!!!!")

	flag := findContentFlag(flags, models.ContentFlagClickbait)
	require.NotNil(t, flag, "expected a clickbait flag")
	assert.Equal(t, models.SeverityHigh, flag.Severity)
	assert.InDelta(t, 0.9, flag.Confidence, 0.001)
	assert.Equal(t, 6, flag.Evidence["exclamation_marks"])
}

func TestContentAnalyzer_FakeUrgency(t *testing.T) {
	a := newTestContentAnalyzer()

	flags := a.Analyze("Act now. Limited time, the offer ends soon. Hurry, this is your last chance")

	flag := findContentFlag(flags, models.ContentFlagFakeUrgency)
	require.NotNil(t, flag, "expected a fake urgency flag")
	assert.Equal(t, models.SeverityHigh, flag.Severity)
}

func TestContentAnalyzer_Misleading(t *testing.T) {
	a := newTestContentAnalyzer()

	flags := a.Analyze("The truth about this miracle cure they don't want you to know, 100% guaranteed")

	flag := findContentFlag(flags, models.ContentFlagMisleadingInfo)
	require.NotNil(t, flag, "expected a misleading info flag")
	assert.InDelta(t, 0.6, flag.Confidence, 0.001)
	assert.Equal(t, models.SeverityMedium, flag.Severity)
}

func TestContentAnalyzer_CleanText(t *testing.T) {
	a := newTestContentAnalyzer()

	tests := []struct {
		name string
		text string
	}{
		{"ordinary post", "Just finished a long walk by the river, feeling refreshed"},
		{"empty", ""},
		{"whitespace only", "   \t\n  "},
		{"question without bait", "Has anyone tried the new ramen place downtown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, a.Analyze(tt.text))
		})
	}
}

func TestContentAnalyzer_Deterministic(t *testing.T) {
	a := newTestContentAnalyzer()
	text := "Make money fast! Earn money online. Work from home and get rich quick!"

	first := a.Analyze(text)
	second := a.Analyze(text)

	assert.Equal(t, first, second)
}

func TestUppercaseRatio(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"all upper", "HELLO", 1.0},
		{"all lower", "hello", 0.0},
		{"mixed", "HeLLo", 0.6},
		{"no letters", "123 !!!", 0.0},
		{"empty", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, uppercaseRatio(tt.text), 0.001)
		})
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.42, clamp01(0.42))
}
