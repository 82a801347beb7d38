package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 2
	defaultBaseBackoff = 500 * time.Millisecond
)

// Client is the HTTP implementation of TaskService and UserDirectory,
// speaking the TaskFlow backend REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// ClientConfig configures the upstream HTTP client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// MaxRetries bounds automatic retries of retryable failures. Zero
	// selects the default of 2; negative disables retries.
	MaxRetries int
}

// NewClient creates an upstream client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
	}, nil
}

// CreateTask creates a task via POST /api/tasks. The Idempotency-Key header
// is derived from the source message, so repeating the call after a
// reported failure cannot double-create.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error) {
	var task Task
	idem := fmt.Sprintf("msg-%d-%d", req.SourceChatID, req.SourceMessageID)
	err := c.do(ctx, "create_task", http.MethodPost, "/api/tasks", req, &task, idem)
	return task, err
}

// AssignTask sets the assignee via POST /api/tasks/{id}/assign.
func (c *Client) AssignTask(ctx context.Context, taskID, userExternalID int64) (Task, error) {
	var task Task
	body := struct {
		ExternalID int64 `json:"telegram_id"`
	}{ExternalID: userExternalID}
	path := fmt.Sprintf("/api/tasks/%d/assign", taskID)
	err := c.do(ctx, "assign_task", http.MethodPost, path, body, &task, "")
	return task, err
}

// Unassign clears the assignee via DELETE /api/tasks/{id}/assignee.
func (c *Client) Unassign(ctx context.Context, taskID int64) (Task, error) {
	var task Task
	path := fmt.Sprintf("/api/tasks/%d/assignee", taskID)
	err := c.do(ctx, "unassign_task", http.MethodDelete, path, nil, &task, "")
	return task, err
}

// ListKnownUsers fetches the team via GET /api/users.
func (c *Client) ListKnownUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "list_users", http.MethodGet, "/api/users", nil, &users, ""); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByExternalID fetches a single user, nil when the directory does not
// know the id.
func (c *Client) GetByExternalID(ctx context.Context, id int64) (*User, error) {
	var user User
	path := fmt.Sprintf("/api/users/%d", id)
	err := c.do(ctx, "get_user", http.MethodGet, path, nil, &user, "")
	if err != nil {
		var uerr *Error
		if errors.As(err, &uerr) && uerr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// do performs one logical API call with bounded retries; only errors marked
// retryable are retried, with exponential backoff. Retried writes are safe:
// creation carries an idempotency key and assignment is idempotent upstream.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}, idempotencyKey string) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return &Error{Op: op, Err: ctx.Err()}
			}
		}

		err := c.doOnce(ctx, op, method, path, payload, out, idempotencyKey)
		if err == nil {
			return nil
		}
		lastErr = err

		var uerr *Error
		if !errors.As(err, &uerr) || !uerr.Retryable {
			return err
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, op, method, path string, payload []byte, out interface{}, idempotencyKey string) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Retryable: true, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &Error{Op: op, Status: resp.StatusCode, Retryable: true, Err: fmt.Errorf("%s", data)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%s", data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// Compile-time interface checks.
var (
	_ TaskService   = (*Client)(nil)
	_ UserDirectory = (*Client)(nil)
)
