package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebsterx/TaskFlow/internal/transport"
)

func TestExtractAssignee_UsernameMention(t *testing.T) {
	text := "нужно @ivan проверить API завтра"
	mentions := []transport.Mention{
		{Kind: transport.MentionUsername, Offset: 6, Length: 5},
	}

	a := ExtractAssignee(text, mentions)
	require.NotNil(t, a)
	assert.Equal(t, "ivan", a.Name)
	assert.Zero(t, a.ExternalID)
}

func TestExtractAssignee_ResolvedUserMention(t *testing.T) {
	a := ExtractAssignee("попроси Ивана проверить логи", []transport.Mention{
		{
			Kind:        transport.MentionUser,
			Offset:      8,
			Length:      5,
			UserID:      42,
			DisplayName: "Иван Петров",
		},
	})
	require.NotNil(t, a)
	assert.Equal(t, "Иван Петров", a.Name)
	assert.Equal(t, int64(42), a.ExternalID)
}

func TestExtractAssignee_RegexFallback(t *testing.T) {
	a := ExtractAssignee("передай задачу @maria пожалуйста", nil)
	require.NotNil(t, a)
	assert.Equal(t, "maria", a.Name)
	assert.Zero(t, a.ExternalID)
}

func TestExtractAssignee_None(t *testing.T) {
	assert.Nil(t, ExtractAssignee("нужно проверить API завтра", nil))
}

func TestExtractAssignee_OutOfRangeMentionIgnored(t *testing.T) {
	a := ExtractAssignee("короткий текст", []transport.Mention{
		{Kind: transport.MentionUsername, Offset: 100, Length: 5},
	})
	assert.Nil(t, a)
}
