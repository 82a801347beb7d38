package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentTable_Match(t *testing.T) {
	table := DefaultAssignmentTable()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"mention first", "@ivan посмотри логи деплоя", "mention_directive"},
		{"mention with comma", "@anna, подготовь презентацию к демо", "mention_directive"},
		{"mention last", "посмотри логи деплоя @ivan", "directive_mention"},
		{"imperative object", "сделай ревью последнего пулреквеста", "imperative_object"},
		{"plain statement", "вчера был хороший релиз", ""},
		{"bare mention", "@ivan", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Match(tt.text))
		})
	}
}
