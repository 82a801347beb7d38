// Package detect turns validated inbound chat messages into task candidates.
// The pipeline is classifier -> entity extraction -> confidence scoring ->
// title normalization; every stage is pure and deterministic for a given
// clock, and the only observable negative outcome is "no candidate".
package detect

import "time"

// Assignee is a detected task assignee. ExternalID is non-zero only when a
// resolved mention supplied the user identity; a bare "@username" carries
// the name alone.
type Assignee struct {
	Name       string
	ExternalID int64
}

// Candidate is a provisionally detected task, immutable once built. It
// exists only when its confidence cleared the acceptance threshold.
type Candidate struct {
	RawText  string
	Title    string
	Assignee *Assignee
	DueDate  *time.Time

	Confidence float64

	MessageID int64
	ChatID    int64
	AuthorID  int64
}

// Classification is the classifier verdict for a text.
type Classification struct {
	TaskLike bool

	// Reason names the rule that decided: "keyword", an assignment
	// pattern name, or a rejection reason.
	Reason string

	// DistinctKeywords counts distinct keyword-table hits; more than one
	// adds a confidence bonus.
	DistinctKeywords int

	// HasStrongKeyword reports an imperative/urgency hit, which lets a
	// text survive the interrogative rejection.
	HasStrongKeyword bool
}
