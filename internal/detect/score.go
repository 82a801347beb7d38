package detect

// Confidence weighting is a fixed policy, not learned: task-likeness earns
// the base, assignee and due-date signals add, and multiple distinct
// keywords add a final bonus. The sum is clamped to 1.0.
const (
	baseWeight         = 0.4
	assigneeWeight     = 0.3
	dueDateWeight      = 0.2
	extraKeywordWeight = 0.1

	DefaultAcceptanceThreshold = 0.5
)

// Score combines the detection signals into a confidence in [0, 1].
// Task-likeness is assumed already established by the classifier.
func Score(hasAssignee, hasDueDate bool, distinctKeywords int) float64 {
	score := baseWeight
	if hasAssignee {
		score += assigneeWeight
	}
	if hasDueDate {
		score += dueDateWeight
	}
	if distinctKeywords > 1 {
		score += extraKeywordWeight
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
