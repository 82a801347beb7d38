package detect

import (
	"strings"
	"unicode/utf8"

	"github.com/glebsterx/TaskFlow/internal/rules"
)

const (
	minTextRunes = 10
	minWordCount = 5
)

// Classifier decides task-likeness from raw text using the rule tables.
type Classifier struct {
	keywords    []rules.Keyword
	assignments *rules.AssignmentTable
}

// NewClassifier builds a classifier over the given tables; nil arguments
// select the default tables.
func NewClassifier(keywords []rules.Keyword, assignments *rules.AssignmentTable) *Classifier {
	if keywords == nil {
		keywords = rules.DefaultKeywords()
	}
	if assignments == nil {
		assignments = rules.DefaultAssignmentTable()
	}
	return &Classifier{keywords: keywords, assignments: assignments}
}

// Classify applies the gates and rule tables in tie-break order: length and
// word-count gates, interrogative rejection, keyword table, assignment
// patterns.
func (c *Classifier) Classify(text string) Classification {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minTextRunes {
		return Classification{Reason: "too_short"}
	}
	if len(strings.Fields(trimmed)) < minWordCount {
		return Classification{Reason: "too_few_words"}
	}

	hits := rules.MatchKeywords(c.keywords, trimmed)
	strong := rules.HasStrong(hits)

	// A purely interrogative sentence is rejected even when it weakly
	// matches, unless a strong keyword anchors it.
	if strings.HasSuffix(trimmed, "?") && !strong {
		return Classification{
			Reason:           "interrogative",
			DistinctKeywords: len(hits),
		}
	}

	if len(hits) > 0 {
		return Classification{
			TaskLike:         true,
			Reason:           "keyword",
			DistinctKeywords: len(hits),
			HasStrongKeyword: strong,
		}
	}

	if name := c.assignments.Match(trimmed); name != "" {
		return Classification{TaskLike: true, Reason: name}
	}

	return Classification{Reason: "no_match"}
}
