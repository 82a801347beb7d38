package detect

import (
	"regexp"

	"github.com/glebsterx/TaskFlow/internal/transport"
)

var mentionRe = regexp.MustCompile(`@(\w+)`)

// ExtractAssignee resolves the assignee from structured mention entities,
// falling back to a regex scan for a "@token" in the raw text. Structured
// entities win because only they can carry a resolved user identity.
func ExtractAssignee(text string, mentions []transport.Mention) *Assignee {
	runes := []rune(text)
	for _, m := range mentions {
		switch m.Kind {
		case transport.MentionUsername:
			if m.Offset < 0 || m.Offset+m.Length > len(runes) || m.Length < 2 {
				continue
			}
			// Skip the @ sign.
			name := string(runes[m.Offset+1 : m.Offset+m.Length])
			return &Assignee{Name: name}
		case transport.MentionUser:
			name := m.Username
			if name == "" {
				name = m.DisplayName
			}
			if name == "" {
				continue
			}
			return &Assignee{Name: name, ExternalID: m.UserID}
		}
	}

	if sub := mentionRe.FindStringSubmatch(text); sub != nil {
		return &Assignee{Name: sub[1]}
	}
	return nil
}
