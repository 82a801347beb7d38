package workflow

import (
	"fmt"
	"strings"

	"github.com/glebsterx/TaskFlow/internal/detect"
	"github.com/glebsterx/TaskFlow/internal/transport"
	"github.com/glebsterx/TaskFlow/internal/upstream"
)

// ConfirmationPrompt renders the detection proposal for a candidate: title,
// detected attributes, confidence, and the confirm/cancel options.
func ConfirmationPrompt(c detect.Candidate) *transport.Prompt {
	var b strings.Builder
	b.WriteString("📋 Обнаружена задача!\n\n")
	fmt.Fprintf(&b, "Название: %s\n", c.Title)
	if c.Assignee != nil {
		fmt.Fprintf(&b, "👤 Исполнитель: @%s\n", c.Assignee.Name)
	}
	if c.DueDate != nil {
		fmt.Fprintf(&b, "📅 Срок: %s\n", c.DueDate.Format("02.01.2006"))
	}
	fmt.Fprintf(&b, "\n🎯 Уверенность: %d%%\n\nСоздать задачу?", int(c.Confidence*100))

	confirm := Action{Verb: VerbConfirm, Key: c.MessageID}
	cancel := Action{Verb: VerbCancel, Key: c.MessageID}
	return &transport.Prompt{
		Text: b.String(),
		Options: [][]transport.Option{{
			{Label: "✅ Да", Token: confirm.Token()},
			{Label: "❌ Нет", Token: cancel.Token()},
		}},
		ReplyTo: c.MessageID,
	}
}

// AssignmentPrompt renders the post-confirmation assignment menu:
// self-assign, one option per known user (bounded by limit), and skip.
func AssignmentPrompt(task upstream.Task, users []upstream.User, limit int) *transport.Prompt {
	options := [][]transport.Option{{
		{Label: "👤 Взять себе", Token: Action{Verb: VerbSelfAssign, TaskID: task.ID}.Token()},
	}}

	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	for _, u := range users {
		assign := Action{Verb: VerbAssign, TaskID: task.ID, UserID: u.ExternalID}
		options = append(options, []transport.Option{
			{Label: "👥 " + u.DisplayName, Token: assign.Token()},
		})
	}

	options = append(options, []transport.Option{
		{Label: "⏭ Без исполнителя", Token: Action{Verb: VerbSkip, TaskID: task.ID}.Token()},
	})

	return &transport.Prompt{
		Text:    fmt.Sprintf("✅ Задача создана!\n\n#%d %s\n\nНазначить исполнителя?", task.ID, task.Title),
		Options: options,
	}
}
