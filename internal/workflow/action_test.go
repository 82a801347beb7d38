package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		token string
		want  Action
	}{
		{"confirm:101", Action{Verb: VerbConfirm, Key: 101}},
		{"cancel:101", Action{Verb: VerbCancel, Key: 101}},
		{"self:55", Action{Verb: VerbSelfAssign, TaskID: 55}},
		{"assign:55:42", Action{Verb: VerbAssign, TaskID: 55, UserID: 42}},
		{"skip:55", Action{Verb: VerbSkip, TaskID: 55}},
		{"confirm:-1001", Action{Verb: VerbConfirm, Key: -1001}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseAction(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAction_Invalid(t *testing.T) {
	tokens := []string{
		"",
		"confirm",
		"confirm:abc",
		"confirm:101:7",
		"assign:55",
		"assign:55:abc",
		"delete:55",
		"::",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := ParseAction(token)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestActionTokenRoundTrip(t *testing.T) {
	actions := []Action{
		{Verb: VerbConfirm, Key: 101},
		{Verb: VerbCancel, Key: 9},
		{Verb: VerbSelfAssign, TaskID: 55},
		{Verb: VerbAssign, TaskID: 55, UserID: 42},
		{Verb: VerbSkip, TaskID: 55},
	}

	for _, a := range actions {
		got, err := ParseAction(a.Token())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
}
