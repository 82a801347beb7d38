// Package transport defines the narrow records exchanged with the messaging
// transport. Inbound updates are validated here, at the boundary, before
// anything enters the detection core; the core never touches raw transport
// payloads.
package transport

import "errors"

var (
	ErrEmptyText        = errors.New("message text cannot be empty")
	ErrMissingMessageID = errors.New("message id is required")
	ErrMissingChatID    = errors.New("chat id is required")
	ErrMissingAuthorID  = errors.New("author id is required")
)

// MentionKind distinguishes the two mention shapes the transport delivers.
type MentionKind string

const (
	// MentionUsername is a plain "@username" mention; the transport gives
	// only the text span, not a resolved user.
	MentionUsername MentionKind = "mention"

	// MentionUser is a mention of a user without a username; the transport
	// resolves it to a concrete user identity.
	MentionUser MentionKind = "text_mention"
)

// Mention is a structured mention entity attached to an inbound message.
// Offset and Length address the mention span in runes of Inbound.Text.
type Mention struct {
	Kind   MentionKind
	Offset int
	Length int

	// Set only for MentionUser.
	UserID      int64
	Username    string
	DisplayName string
}

// Inbound is a single validated chat message entering the detection pipeline.
type Inbound struct {
	Text      string
	Mentions  []Mention
	MessageID int64
	ChatID    int64
	AuthorID  int64
}

// Validate checks the record for the fields the core requires.
func (in Inbound) Validate() error {
	if in.Text == "" {
		return ErrEmptyText
	}
	if in.MessageID == 0 {
		return ErrMissingMessageID
	}
	if in.ChatID == 0 {
		return ErrMissingChatID
	}
	if in.AuthorID == 0 {
		return ErrMissingAuthorID
	}
	return nil
}

// Option is a single user-selectable action. Token is an opaque string the
// transport echoes back verbatim when the user picks the option.
type Option struct {
	Label string
	Token string
}

// Prompt is an outbound message with action options, rendered by the
// transport as it sees fit (inline keyboard rows for Telegram).
type Prompt struct {
	Text    string
	Options [][]Option

	// ReplyTo is the message the prompt responds to, 0 for none.
	ReplyTo int64
}
