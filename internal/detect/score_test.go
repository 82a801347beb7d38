package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		hasAssignee bool
		hasDueDate  bool
		keywords    int
		want        float64
	}{
		{"base only", false, false, 1, 0.4},
		{"with assignee", true, false, 1, 0.7},
		{"with due date", false, true, 1, 0.6},
		{"keyword bonus", false, false, 2, 0.5},
		{"all signals clamp to one", true, true, 3, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.hasAssignee, tt.hasDueDate, tt.keywords)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// Adding a signal never lowers the score.
func TestScore_Monotonic(t *testing.T) {
	for _, assignee := range []bool{false, true} {
		for _, due := range []bool{false, true} {
			for kw := 0; kw < 4; kw++ {
				base := Score(assignee, due, kw)
				assert.GreaterOrEqual(t, Score(true, due, kw), base)
				assert.GreaterOrEqual(t, Score(assignee, true, kw), base)
				assert.GreaterOrEqual(t, Score(assignee, due, kw+1), base)
			}
		}
	}
}
