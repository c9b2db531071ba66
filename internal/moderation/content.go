package moderation

import (
	"fmt"
	"strings"
	"unicode"

	"whisperguard/internal/domain/models"
	"whisperguard/pkg/logger"
)

// Per-hit score contributions for each pattern category. Phishing
// phrases carry the largest weight because a single one is already a
// strong signal.
const (
	phishingHitScore    = 0.3
	financialHitScore   = 0.2
	clickbaitHitScore   = 0.2
	misleadingHitScore  = 0.15
	fakeUrgencyHitScore = 0.15

	// Structural red flags feed the clickbait score
	structuralBonus = 0.1

	// URL or email presence feeds the phishing score, checked once
	// per text rather than per occurrence
	linkBonus = 0.2

	// A flag is emitted only above this accumulated score
	flagThreshold = 0.3
)

// ContentAnalyzer scans transcribed whisper text against the pattern
// library and structural heuristics. It is pure CPU and safe for
// unbounded concurrent use.
type ContentAnalyzer struct {
	patterns *PatternLibrary
	logger   *logger.Logger
}

// NewContentAnalyzer creates a content analyzer over the given library.
func NewContentAnalyzer(lib *PatternLibrary, log *logger.Logger) *ContentAnalyzer {
	return &ContentAnalyzer{
		patterns: lib,
		logger:   log.WithComponent("content-analyzer"),
	}
}

// Analyze scans text and returns the content flags that cleared the
// emission threshold. Empty or whitespace-only text yields no flags.
func (a *ContentAnalyzer) Analyze(text string) []models.ContentFlag {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lowered := strings.ToLower(text)

	var flags []models.ContentFlag

	if f := a.scanFinancial(lowered); f != nil {
		flags = append(flags, *f)
	}
	if f := a.scanClickbait(text, lowered); f != nil {
		flags = append(flags, *f)
	}
	if f := a.scanMisleading(lowered); f != nil {
		flags = append(flags, *f)
	}
	if f := a.scanFakeUrgency(lowered); f != nil {
		flags = append(flags, *f)
	}
	if f := a.scanPhishing(text, lowered); f != nil {
		flags = append(flags, *f)
	}

	return flags
}

func (a *ContentAnalyzer) scanFinancial(lowered string) *models.ContentFlag {
	hits := a.patterns.Hits(CategoryFinancialScam, lowered)
	score := clamp01(float64(len(hits)) * financialHitScore)
	if score <= flagThreshold {
		return nil
	}
	return &models.ContentFlag{
		Type:        models.ContentFlagSuspiciousPatterns,
		Severity:    bandContentSeverity(score),
		Confidence:  score,
		Description: "Content matches known financial scam phrasing",
		Evidence:    map[string]any{"matched_phrases": hits},
	}
}

func (a *ContentAnalyzer) scanClickbait(text, lowered string) *models.ContentFlag {
	hits := a.patterns.Hits(CategoryClickbait, lowered)
	score := float64(len(hits)) * clickbaitHitScore

	evidence := map[string]any{"matched_phrases": hits}

	if n := strings.Count(text, "!"); n > 3 {
		score += structuralBonus
		evidence["exclamation_marks"] = n
	}
	if n := strings.Count(text, "?"); n > 2 {
		score += structuralBonus
		evidence["question_marks"] = n
	}
	if r := uppercaseRatio(text); r > 0.5 {
		score += structuralBonus
		evidence["uppercase_ratio"] = fmt.Sprintf("%.2f", r)
	}

	score = clamp01(score)
	if score <= flagThreshold {
		return nil
	}
	return &models.ContentFlag{
		Type:        models.ContentFlagClickbait,
		Severity:    bandContentSeverity(score),
		Confidence:  score,
		Description: "Content uses clickbait phrasing or structure",
		Evidence:    evidence,
	}
}

func (a *ContentAnalyzer) scanMisleading(lowered string) *models.ContentFlag {
	hits := a.patterns.Hits(CategoryMisleading, lowered)
	score := clamp01(float64(len(hits)) * misleadingHitScore)
	if score <= flagThreshold {
		return nil
	}
	return &models.ContentFlag{
		Type:        models.ContentFlagMisleadingInfo,
		Severity:    bandContentSeverity(score),
		Confidence:  score,
		Description: "Content matches misleading-information phrasing",
		Evidence:    map[string]any{"matched_phrases": hits},
	}
}

func (a *ContentAnalyzer) scanFakeUrgency(lowered string) *models.ContentFlag {
	hits := a.patterns.Hits(CategoryFakeUrgency, lowered)
	score := clamp01(float64(len(hits)) * fakeUrgencyHitScore)
	if score <= flagThreshold {
		return nil
	}
	return &models.ContentFlag{
		Type:        models.ContentFlagFakeUrgency,
		Severity:    bandContentSeverity(score),
		Confidence:  score,
		Description: "Content manufactures urgency",
		Evidence:    map[string]any{"matched_phrases": hits},
	}
}

func (a *ContentAnalyzer) scanPhishing(text, lowered string) *models.ContentFlag {
	hits := a.patterns.Hits(CategoryPhishing, lowered)

	// Phrase hits cap at 1.0 before the link bonuses apply
	score := float64(len(hits)) * phishingHitScore
	if score > 1.0 {
		score = 1.0
	}

	evidence := map[string]any{"matched_phrases": hits}
	if a.patterns.HasURL(text) {
		score += linkBonus
		evidence["contains_url"] = true
	}
	if a.patterns.HasEmail(text) {
		score += linkBonus
		evidence["contains_email"] = true
	}

	score = clamp01(score)
	if score <= flagThreshold {
		return nil
	}
	// Phishing is always critical when present at all
	return &models.ContentFlag{
		Type:        models.ContentFlagPhishingAttempt,
		Severity:    models.SeverityCritical,
		Confidence:  score,
		Description: "Content resembles a phishing attempt",
		Evidence:    evidence,
	}
}

// bandContentSeverity maps an accumulated score to a severity band
func bandContentSeverity(score float64) models.Severity {
	if score > 0.7 {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// uppercaseRatio returns the share of letters that are uppercase.
// Texts without letters have ratio 0.
func uppercaseRatio(text string) float64 {
	var letters, upper int
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// clamp01 clamps v to [0, 1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
