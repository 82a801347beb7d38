package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/glebsterx/TaskFlow/internal/transport"
	"github.com/glebsterx/TaskFlow/internal/workflow"
)

// Poller runs the long-poll loop, routing messages into detection and button
// presses into the action workflow.
type Poller struct {
	client   *Client
	workflow *workflow.Workflow
	logger   *zap.Logger

	// chatID restricts handling to one chat when non-zero.
	chatID      int64
	pollTimeout time.Duration
}

// NewPoller wires the poller.
func NewPoller(client *Client, wf *workflow.Workflow, logger *zap.Logger, chatID int64, pollTimeout time.Duration) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Poller{
		client:      client,
		workflow:    wf,
		logger:      logger,
		chatID:      chatID,
		pollTimeout: pollTimeout,
	}
}

// Run polls until the context is cancelled. Transport errors are logged and
// retried after a short pause; a single bad update never stops the loop.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("getUpdates failed", zap.Error(err))
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			switch {
			case u.Message != nil:
				p.handleMessage(ctx, u.Message)
			case u.CallbackQuery != nil:
				p.handleCallback(ctx, u.CallbackQuery)
			}
		}
	}
}

func (p *Poller) handleMessage(ctx context.Context, msg *Message) {
	if msg.Text == "" {
		return
	}
	if msg.From != nil && msg.From.IsBot {
		return
	}
	if p.chatID != 0 && msg.Chat.ID != p.chatID {
		return
	}

	in := InboundFromMessage(msg)
	prompt, err := p.workflow.HandleMessage(ctx, in)
	if err != nil {
		p.logger.Warn("message rejected",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int64("message_id", msg.MessageID),
			zap.Error(err),
		)
		return
	}
	if prompt == nil {
		return
	}

	if _, err := p.client.SendPrompt(ctx, msg.Chat.ID, prompt); err != nil {
		p.logger.Error("failed to send confirmation prompt",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
	}
}

func (p *Poller) handleCallback(ctx context.Context, cb *CallbackQuery) {
	actor := workflow.Actor{
		UserID:      cb.From.ID,
		DisplayName: cb.From.DisplayName(),
	}
	outcome := p.workflow.HandleAction(ctx, cb.Data, actor)

	if err := p.client.AnswerCallback(ctx, cb.ID, outcome.Notice); err != nil {
		p.logger.Warn("failed to answer callback", zap.Error(err))
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	// Replace the prompt in place: either with the follow-up menu or with a
	// plain notice that strips the buttons.
	next := outcome.Prompt
	if next == nil {
		next = &transport.Prompt{Text: outcome.Notice}
	}
	if err := p.client.EditPrompt(ctx, chatID, messageID, next); err != nil {
		p.logger.Warn("failed to edit prompt message",
			zap.Int64("chat_id", chatID),
			zap.Int64("message_id", messageID),
			zap.Error(err),
		)
	}
}
