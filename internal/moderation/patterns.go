package moderation

import (
	"regexp"
	"strings"
)

// Compiled once at package init and reused for every call, safe for
// concurrent use.
var (
	// urlPattern matches http/https URLs, www. URLs, and bare domains
	// with common TLDs. The bare-domain variant requires a word
	// boundary to avoid false positives on decimals like "3.14".
	urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+|\b[a-z0-9-]+\.(com|net|org|io|co|xyz|info|biz|ru|tk|ml)\b\S*)`)

	// emailPattern matches email-shaped tokens
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// PatternCategory identifies one keyword set in the library
type PatternCategory string

const (
	CategoryFinancialScam PatternCategory = "financial_scam"
	CategoryPhishing      PatternCategory = "phishing"
	CategoryClickbait     PatternCategory = "clickbait"
	CategoryFakeUrgency   PatternCategory = "fake_urgency"
	CategoryMisleading    PatternCategory = "misleading"
)

// PatternLibrary holds the static categorized phrase sets used by
// content analysis, plus the phrase lists behavioral analysis uses for
// engagement-farming detection. All sets are matched case-insensitively
// against lowercased text.
type PatternLibrary struct {
	keywords map[PatternCategory][]string

	// farmingPhrases are cheap engagement-bait questions
	farmingPhrases []string

	// controversialTopics are subjects commonly used for outrage farming
	controversialTopics []string
}

// NewPatternLibrary returns the library with the default phrase sets.
func NewPatternLibrary() *PatternLibrary {
	return &PatternLibrary{
		keywords: map[PatternCategory][]string{
			CategoryFinancialScam: {
				"make money fast", "earn money online", "work from home",
				"get rich quick", "double your money", "guaranteed returns",
				"risk-free investment", "passive income guaranteed",
				"financial freedom", "crypto giveaway", "free bitcoin",
				"send me money", "wire transfer", "western union",
				"gift cards", "cash app flip",
			},
			CategoryPhishing: {
				"verify your account", "confirm your identity",
				"account has been suspended", "click here to verify",
				"update your payment", "unusual activity detected",
				"your account will be closed", "reset your password",
				"confirm your password", "claim your prize",
				"you have been selected", "security alert",
			},
			CategoryClickbait: {
				"you won't believe", "shocking", "doctors hate",
				"this one trick", "what happened next", "gone wrong",
				"must watch", "before it gets deleted", "number one secret",
				"blow your mind",
			},
			CategoryFakeUrgency: {
				"act now", "limited time", "expires soon", "last chance",
				"urgent", "hurry", "only today", "don't miss out",
				"before it's too late", "offer ends",
			},
			CategoryMisleading: {
				"they don't want you to know", "the truth about",
				"mainstream media won't tell you", "secret cure",
				"miracle", "100% guaranteed", "proven fact",
				"banned video", "wake up people",
			},
		},
		farmingPhrases: []string{
			"what do you think", "agree or disagree",
			"let me know in the comments", "am i right",
			"who else thinks", "unpopular opinion",
		},
		controversialTopics: []string{
			"politics", "religion", "abortion", "vaccine",
			"immigration", "gun control", "climate change", "election",
		},
	}
}

// Hits returns the phrases of a category found in text. The caller is
// expected to pass text already lowercased.
func (l *PatternLibrary) Hits(category PatternCategory, lowered string) []string {
	var hits []string
	for _, kw := range l.keywords[category] {
		if strings.Contains(lowered, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// HasURL reports whether text contains a URL-shaped token.
func (l *PatternLibrary) HasURL(text string) bool {
	return urlPattern.MatchString(text)
}

// HasEmail reports whether text contains an email-shaped token.
func (l *PatternLibrary) HasEmail(text string) bool {
	return emailPattern.MatchString(text)
}

// IsFarmingBait reports whether a post reads like engagement bait:
// a question mark or one of the known farming phrases.
func (l *PatternLibrary) IsFarmingBait(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	lowered := strings.ToLower(text)
	for _, p := range l.farmingPhrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// MentionsControversialTopic reports whether a post touches one of the
// outrage-farming topics.
func (l *PatternLibrary) MentionsControversialTopic(text string) bool {
	lowered := strings.ToLower(text)
	for _, t := range l.controversialTopics {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}
