package moderation

import (
	"fmt"
	"strings"
	"time"

	"whisperguard/internal/domain/models"
	"whisperguard/pkg/logger"
)

// Window sizes over the author's recent history. The engine fetches at
// most 20 prior posts; the sub-analyses look at smaller slices of it.
const (
	repetitionWindow = 5
	velocityWindow   = 10
	similarityWindow = 10

	// Texts this similar are treated as repeats
	repeatSimilarity = 0.7

	// Posts inside this window of "now" count toward rapid posting
	rapidWindow = 5 * time.Minute

	// Automation sub-scores are meaningless on fewer samples
	minAutomationHistory = 3

	behavioralFlagThreshold = 0.3
)

// BehavioralAnalyzer computes posting-pattern sub-scores from the
// author's recent history. It performs no I/O itself; the engine hands
// it an already-fetched history slice, newest first.
type BehavioralAnalyzer struct {
	patterns *PatternLibrary
	logger   *logger.Logger
}

// NewBehavioralAnalyzer creates a behavioral analyzer.
func NewBehavioralAnalyzer(lib *PatternLibrary, log *logger.Logger) *BehavioralAnalyzer {
	return &BehavioralAnalyzer{
		patterns: lib,
		logger:   log.WithComponent("behavioral-analyzer"),
	}
}

// Analyze returns the behavioral flags whose sub-score cleared the
// emission threshold. An author with no history produces no flags.
func (a *BehavioralAnalyzer) Analyze(current *models.Whisper, history []models.PostHistoryEntry, now time.Time) []models.BehavioralFlag {
	if current == nil || len(history) == 0 {
		return nil
	}

	var flags []models.BehavioralFlag

	if score := a.repetitionScore(current.Text, history); score > behavioralFlagThreshold {
		flags = append(flags, behavioralFlag(
			models.BehavioralFlagRepetitivePosting, score,
			"Recent posts repeat near-identical content",
			map[string]any{"window": repetitionWindow},
		))
	}
	if score := a.velocityScore(history, now); score > behavioralFlagThreshold {
		flags = append(flags, behavioralFlag(
			models.BehavioralFlagRapidPosting, score,
			"Unusually high posting velocity",
			map[string]any{"window_minutes": int(rapidWindow.Minutes())},
		))
	}
	if score := a.similarityScore(current.Text, history); score > behavioralFlagThreshold {
		flags = append(flags, behavioralFlag(
			models.BehavioralFlagSimilarContent, score,
			"Current post closely resembles recent posts",
			map[string]any{"max_similarity": fmt.Sprintf("%.2f", score)},
		))
	}
	if score := a.automationScore(history); score > behavioralFlagThreshold {
		flags = append(flags, behavioralFlag(
			models.BehavioralFlagBotLikeBehavior, score,
			"Posting rhythm and content shape suggest automation",
			map[string]any{"history_size": len(history)},
		))
	}
	if score := a.farmingScore(history); score > behavioralFlagThreshold {
		flags = append(flags, behavioralFlag(
			models.BehavioralFlagEngagementFarming, score,
			"Recent posts are dominated by engagement bait",
			map[string]any{"history_size": len(history)},
		))
	}

	return flags
}

// repetitionScore compares the current text against the last
// repetitionWindow prior posts. Score is the fraction of the window
// occupied by near-repeats, measured against the full window so a
// short history cannot saturate it.
func (a *BehavioralAnalyzer) repetitionScore(text string, history []models.PostHistoryEntry) float64 {
	window := history
	if len(window) > repetitionWindow {
		window = window[:repetitionWindow]
	}
	repeats := 0
	for _, prior := range window {
		if JaccardSimilarity(text, prior.Text) > repeatSimilarity {
			repeats++
		}
	}
	return float64(repeats) / float64(repetitionWindow)
}

// velocityScore is the fraction of the last velocityWindow prior posts
// created within rapidWindow of now.
func (a *BehavioralAnalyzer) velocityScore(history []models.PostHistoryEntry, now time.Time) float64 {
	window := history
	if len(window) > velocityWindow {
		window = window[:velocityWindow]
	}
	recent := 0
	for _, prior := range window {
		if age := now.Sub(prior.CreatedAt); age >= 0 && age <= rapidWindow {
			recent++
		}
	}
	return float64(recent) / float64(velocityWindow)
}

// similarityScore is the maximum Jaccard similarity between the
// current text and any of the last similarityWindow prior posts.
func (a *BehavioralAnalyzer) similarityScore(text string, history []models.PostHistoryEntry) float64 {
	window := history
	if len(window) > similarityWindow {
		window = window[:similarityWindow]
	}
	var max float64
	for _, prior := range window {
		if s := JaccardSimilarity(text, prior.Text); s > max {
			max = s
		}
	}
	return max
}

// automationScore sums three independent regularity checks, capped at
// 1.0: near-constant posting hour, near-constant content length, and
// near-constant engagement rate. All three need a minimum history to
// mean anything.
func (a *BehavioralAnalyzer) automationScore(history []models.PostHistoryEntry) float64 {
	if len(history) < minAutomationHistory {
		return 0
	}

	hours := make([]float64, len(history))
	lengths := make([]float64, len(history))
	rates := make([]float64, len(history))
	for i, p := range history {
		hours[i] = float64(p.CreatedAt.Hour())
		lengths[i] = float64(len(p.Text))
		rates[i] = engagementRate(p)
	}

	var score float64
	if Variance(hours) < 2 {
		score += 0.3
	}
	if Variance(lengths) < 10 {
		score += 0.2
	}
	if Variance(rates) < 0.1 {
		score += 0.2
	}
	return clamp01(score)
}

// farmingScore sums two checks, capped at 1.0: the share of recent
// posts that are engagement bait, and the share touching controversial
// topics.
func (a *BehavioralAnalyzer) farmingScore(history []models.PostHistoryEntry) float64 {
	var bait, controversial int
	for _, p := range history {
		if a.patterns.IsFarmingBait(p.Text) {
			bait++
		}
		if a.patterns.MentionsControversialTopic(p.Text) {
			controversial++
		}
	}

	total := float64(len(history))
	var score float64
	if float64(bait)/total > 0.7 {
		score += 0.4
	}
	if float64(controversial)/total > 0.5 {
		score += 0.3
	}
	return clamp01(score)
}

// engagementRate is (likes+replies) per second of audio. Posts with a
// non-positive duration rate as 0 rather than dividing by zero.
func engagementRate(p models.PostHistoryEntry) float64 {
	if p.DurationSeconds <= 0 {
		return 0
	}
	return float64(p.LikeCount+p.ReplyCount) / p.DurationSeconds
}

func behavioralFlag(t models.BehavioralFlagType, score float64, description string, evidence map[string]any) models.BehavioralFlag {
	return models.BehavioralFlag{
		Type:        t,
		Severity:    bandBehavioralSeverity(score),
		Confidence:  clamp01(score),
		Description: description,
		Evidence:    evidence,
	}
}

func bandBehavioralSeverity(score float64) models.Severity {
	switch {
	case score > 0.7:
		return models.SeverityHigh
	case score > 0.5:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// JaccardSimilarity computes word-set similarity between two texts:
// intersection over union of case-folded whitespace tokens. Two empty
// texts are defined as 0.0, not NaN; identical non-empty texts are 1.0.
func JaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Variance is the population variance of values. Empty and
// single-element inputs are defined as 0.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
