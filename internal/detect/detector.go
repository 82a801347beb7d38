package detect

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/glebsterx/TaskFlow/internal/rules"
	"github.com/glebsterx/TaskFlow/internal/transport"
)

// Detector composes the classifier, extractors, scorer, and normalizer into
// the candidate-building pipeline. It is stateless and safe for concurrent
// use; the clock is injected so extraction stays deterministic under test.
type Detector struct {
	classifier *Classifier
	dates      *rules.DateTable
	normalizer *Normalizer
	threshold  float64
	logger     *zap.Logger
	now        func() time.Time
}

// Config holds the detector's tunable policy constants.
type Config struct {
	// ConfidenceThreshold is the minimum score a candidate must reach.
	// Zero selects the default of 0.5.
	ConfidenceThreshold float64

	// MaxTitleLength caps the normalized title, in runes. Zero selects
	// the default of 200.
	MaxTitleLength int
}

// NewDetector builds a detector over the default rule tables.
func NewDetector(cfg Config, logger *zap.Logger) *Detector {
	threshold := cfg.ConfidenceThreshold
	if threshold == 0 {
		threshold = DefaultAcceptanceThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	keywords := rules.DefaultKeywords()
	return &Detector{
		classifier: NewClassifier(keywords, rules.DefaultAssignmentTable()),
		dates:      rules.DefaultDateTable(),
		normalizer: NewNormalizer(keywords, cfg.MaxTitleLength),
		threshold:  threshold,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the detector's clock. Intended for tests.
func (d *Detector) WithClock(now func() time.Time) *Detector {
	d.now = now
	return d
}

// Detect runs the full pipeline on a validated inbound message. A nil
// return is the normal negative result: not task-like, or confidence below
// threshold. It is silent apart from debug logging.
func (d *Detector) Detect(in transport.Inbound) *Candidate {
	cls := d.classifier.Classify(in.Text)
	if !cls.TaskLike {
		d.logger.Debug("message not task-like",
			zap.Int64("message_id", in.MessageID),
			zap.String("reason", cls.Reason),
		)
		return nil
	}

	assignee := ExtractAssignee(in.Text, in.Mentions)

	var due *time.Time
	var dateSubstring string
	if match, ok := d.dates.Match(strings.ToLower(in.Text), d.now()); ok {
		due = &match.Due
		dateSubstring = match.Matched
	}

	confidence := Score(assignee != nil, due != nil, cls.DistinctKeywords)
	if confidence < d.threshold {
		d.logger.Debug("candidate below confidence threshold",
			zap.Int64("message_id", in.MessageID),
			zap.Float64("confidence", confidence),
		)
		return nil
	}

	title := d.normalizer.Normalize(in.Text, dateSubstring)

	candidate := &Candidate{
		RawText:    in.Text,
		Title:      title,
		Assignee:   assignee,
		DueDate:    due,
		Confidence: confidence,
		MessageID:  in.MessageID,
		ChatID:     in.ChatID,
		AuthorID:   in.AuthorID,
	}

	d.logger.Info("task candidate detected",
		zap.Int64("message_id", in.MessageID),
		zap.String("title", title),
		zap.Float64("confidence", confidence),
		zap.Bool("has_assignee", assignee != nil),
		zap.Bool("has_due_date", due != nil),
	)
	return candidate
}
