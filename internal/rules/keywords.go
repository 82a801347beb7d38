// Package rules holds the ordered rule tables the detection pipeline runs
// on: task keywords, assignment patterns, and date phrases. The tables are
// pure data, compiled once at startup, and every lookup is first-match-wins
// in table order.
package rules

import "strings"

// Keyword is a single task-indicator phrase. Strong keywords are imperative
// verbs and urgency markers; weak ones are auxiliary words that alone do not
// outweigh an interrogative sentence.
type Keyword struct {
	Phrase string
	Strong bool
}

// DefaultKeywords returns the ordered task-keyword table. Matching is
// case-insensitive substring containment; order matters for the leading
// imperative-phrase strip in title normalization.
func DefaultKeywords() []Keyword {
	return []Keyword{
		// Imperative verbs
		{Phrase: "сделать", Strong: true},
		{Phrase: "реализовать", Strong: true},
		{Phrase: "проверить", Strong: true},
		{Phrase: "написать", Strong: true},
		{Phrase: "создать", Strong: true},
		{Phrase: "добавить", Strong: true},
		{Phrase: "исправить", Strong: true},
		{Phrase: "протестировать", Strong: true},
		{Phrase: "развернуть", Strong: true},
		{Phrase: "настроить", Strong: true},
		{Phrase: "выполнить", Strong: true},
		{Phrase: "завершить", Strong: true},
		{Phrase: "подготовить", Strong: true},
		{Phrase: "обновить", Strong: true},
		{Phrase: "fix", Strong: true},
		{Phrase: "implement", Strong: true},
		{Phrase: "deploy", Strong: true},
		{Phrase: "remind", Strong: true},

		// Urgency and necessity markers
		{Phrase: "нужно", Strong: true},
		{Phrase: "надо", Strong: true},
		{Phrase: "необходимо", Strong: true},
		{Phrase: "срочно", Strong: true},
		{Phrase: "need to", Strong: true},

		// Weak auxiliary indicators
		{Phrase: "важно", Strong: false},
		{Phrase: "please", Strong: false},
		{Phrase: "пожалуйста", Strong: false},
		{Phrase: "task", Strong: false},
		{Phrase: "задача", Strong: false},
	}
}

// MatchKeywords returns the keywords contained in text (case-insensitive),
// preserving table order. The count of distinct hits feeds the confidence
// scorer; the Strong flag feeds the interrogative check.
func MatchKeywords(table []Keyword, text string) []Keyword {
	lower := strings.ToLower(text)
	var hits []Keyword
	for _, kw := range table {
		if strings.Contains(lower, kw.Phrase) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// HasStrong reports whether any matched keyword is a strong indicator.
func HasStrong(hits []Keyword) bool {
	for _, kw := range hits {
		if kw.Strong {
			return true
		}
	}
	return false
}

// LeadingPhrase returns the longest keyword phrase that text starts with
// (case-insensitive, ignoring leading whitespace), or "" if none. Used by
// the title normalizer to strip a leading imperative.
func LeadingPhrase(table []Keyword, text string) string {
	lower := strings.ToLower(strings.TrimLeft(text, " \t"))
	best := ""
	for _, kw := range table {
		if strings.HasPrefix(lower, kw.Phrase) && len(kw.Phrase) > len(best) {
			best = kw.Phrase
		}
	}
	return best
}
