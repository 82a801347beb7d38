package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/glebsterx/TaskFlow/internal/transport"
)

const (
	defaultBaseURL = "https://api.telegram.org"

	// Bot API allows ~30 messages per second overall; stay well under it.
	defaultSendRate  = 20
	defaultSendBurst = 5
)

// Client is a minimal Bot API client. Outbound calls share one rate limiter;
// getUpdates is exempt because long polling is self-pacing.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Config holds the client settings.
type Config struct {
	Token   string
	BaseURL string

	// Timeout bounds a single non-polling API call.
	Timeout time.Duration
}

// NewClient creates a Bot API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		token:      cfg.Token,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultSendRate), defaultSendBurst),
	}, nil
}

// GetUpdates long-polls for new updates starting at offset. The HTTP timeout
// is stretched past the poll timeout so the server, not the client, ends the
// wait.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}

	pollClient := &http.Client{Timeout: timeout + 10*time.Second}
	raw, err := c.call(ctx, pollClient, "getUpdates", payload)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("failed to parse updates: %w", err)
	}
	return updates, nil
}

// SendPrompt sends a prompt as a message with an inline keyboard and returns
// the sent message.
func (c *Client) SendPrompt(ctx context.Context, chatID int64, p *transport.Prompt) (*Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload := map[string]any{
		"chat_id": chatID,
		"text":    p.Text,
	}
	if p.ReplyTo != 0 {
		payload["reply_to_message_id"] = p.ReplyTo
	}
	if markup := keyboardFor(p); markup != nil {
		payload["reply_markup"] = markup
	}

	raw, err := c.call(ctx, c.httpClient, "sendMessage", payload)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse sent message: %w", err)
	}
	return &msg, nil
}

// EditPrompt replaces an already sent prompt in place, used to swap the
// confirmation message for the assignment menu or the final notice. A nil
// keyboard removes the buttons.
func (c *Client) EditPrompt(ctx context.Context, chatID, messageID int64, p *transport.Prompt) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       p.Text,
	}
	if markup := keyboardFor(p); markup != nil {
		payload["reply_markup"] = markup
	}

	_, err := c.call(ctx, c.httpClient, "editMessageText", payload)
	return err
}

// AnswerCallback acknowledges a button press. Telegram shows text as a toast;
// empty text just clears the button spinner.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	payload := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		payload["text"] = text
	}
	_, err := c.call(ctx, c.httpClient, "answerCallbackQuery", payload)
	return err
}

// call performs one Bot API method call and unwraps the response envelope.
func (c *Client) call(ctx context.Context, httpClient *http.Client, method string, payload any) (json.RawMessage, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse %s response (%d): %w", method, resp.StatusCode, err)
	}
	if !envelope.OK {
		return nil, fmt.Errorf("%s failed (%d): %s", method, envelope.ErrorCode, envelope.Description)
	}
	return envelope.Result, nil
}

// keyboardFor builds the inline keyboard markup for a prompt, nil when the
// prompt carries no options.
func keyboardFor(p *transport.Prompt) *InlineKeyboardMarkup {
	if len(p.Options) == 0 {
		return nil
	}
	markup := &InlineKeyboardMarkup{}
	for _, row := range p.Options {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, opt := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: opt.Label, Data: opt.Token})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
