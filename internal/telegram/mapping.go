package telegram

import (
	"unicode/utf16"

	"github.com/glebsterx/TaskFlow/internal/transport"
)

// InboundFromMessage converts an API message into the core's transport
// record. Mention entities keep only the spans the detection pipeline cares
// about; everything else (bold, links, commands) is dropped.
func InboundFromMessage(msg *Message) transport.Inbound {
	in := transport.Inbound{
		Text:      msg.Text,
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
	}
	if msg.From != nil {
		in.AuthorID = msg.From.ID
	}

	for _, e := range msg.Entities {
		var kind transport.MentionKind
		switch e.Type {
		case "mention":
			kind = transport.MentionUsername
		case "text_mention":
			kind = transport.MentionUser
		default:
			continue
		}

		m := transport.Mention{
			Kind:   kind,
			Offset: runeOffset(msg.Text, e.Offset),
			Length: runeLength(msg.Text, e.Offset, e.Length),
		}
		if e.User != nil {
			m.UserID = e.User.ID
			m.Username = e.User.Username
			m.DisplayName = e.User.DisplayName()
		}
		in.Mentions = append(in.Mentions, m)
	}
	return in
}

// runeOffset converts a UTF-16 code-unit offset from the Bot API into a rune
// offset into text.
func runeOffset(text string, u16 int) int {
	units, runes := 0, 0
	for _, r := range text {
		if units >= u16 {
			break
		}
		units += len(utf16.Encode([]rune{r}))
		runes++
	}
	return runes
}

// runeLength converts a UTF-16 span length into a rune count.
func runeLength(text string, u16Offset, u16Length int) int {
	return runeOffset(text, u16Offset+u16Length) - runeOffset(text, u16Offset)
}
