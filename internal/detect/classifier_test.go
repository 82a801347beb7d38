package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name         string
		text         string
		wantTaskLike bool
		wantReason   string
	}{
		{
			name:         "keyword match",
			text:         "нужно проверить API до конца недели",
			wantTaskLike: true,
			wantReason:   "keyword",
		},
		{
			name:       "too short",
			text:       "ок",
			wantReason: "too_short",
		},
		{
			name:       "too few words",
			text:       "сделать отчёт завтра",
			wantReason: "too_few_words",
		},
		{
			name:       "interrogative without strong keyword",
			text:       "кто-нибудь знает когда будет важно готов релиз?",
			wantReason: "interrogative",
		},
		{
			name:         "interrogative with strong keyword survives",
			text:         "можешь срочно проверить логи деплоя на проде?",
			wantTaskLike: true,
			wantReason:   "keyword",
		},
		{
			name:         "assignment pattern without keyword",
			text:         "@ivan посмотри логи вчерашнего деплоя на проде",
			wantTaskLike: true,
			wantReason:   "mention_directive",
		},
		{
			name:       "plain chatter",
			text:       "вчера отлично посидели в баре после релиза",
			wantReason: "no_match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.wantTaskLike, got.TaskLike)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestClassifier_DistinctKeywords(t *testing.T) {
	c := NewClassifier(nil, nil)

	got := c.Classify("нужно срочно сделать отчёт к демо")
	assert.True(t, got.TaskLike)
	assert.Equal(t, 3, got.DistinctKeywords)
	assert.True(t, got.HasStrongKeyword)
}
