package detect

import (
	"strings"
	"unicode"

	"github.com/glebsterx/TaskFlow/internal/rules"
)

// Normalizer produces a presentable task title from raw message text.
type Normalizer struct {
	keywords  []rules.Keyword
	maxLength int
}

// NewNormalizer builds a normalizer; maxLength <= 0 selects the default of
// 200 runes.
func NewNormalizer(keywords []rules.Keyword, maxLength int) *Normalizer {
	if keywords == nil {
		keywords = rules.DefaultKeywords()
	}
	if maxLength <= 0 {
		maxLength = 200
	}
	return &Normalizer{keywords: keywords, maxLength: maxLength}
}

// Normalize strips a leading imperative phrase, all @mentions, and the exact
// matched date substring, then collapses whitespace, capitalizes the first
// letter, and truncates. An empty result falls back to the truncated raw
// text, so the title is never empty for non-empty input.
func (n *Normalizer) Normalize(text, dateSubstring string) string {
	cleaned := text

	if lead := rules.LeadingPhrase(n.keywords, cleaned); lead != "" {
		trimmed := strings.TrimLeft(cleaned, " \t")
		cleaned = trimmed[len(lead):]
	}

	cleaned = mentionRe.ReplaceAllString(cleaned, "")

	if dateSubstring != "" {
		if idx := strings.Index(strings.ToLower(cleaned), dateSubstring); idx >= 0 {
			cleaned = cleaned[:idx] + cleaned[idx+len(dateSubstring):]
		}
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, " ,.:;-")
	cleaned = capitalize(cleaned)

	if cleaned == "" {
		cleaned = strings.TrimSpace(text)
	}
	return truncateRunes(cleaned, n.maxLength)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
