// Package upstream defines the external collaborators the workflow calls
// out to: the Task Service that owns durable task records, and the User
// Directory that knows the team. The core depends only on the interfaces;
// the HTTP client in this package is the production implementation.
package upstream

import (
	"context"
	"fmt"
	"time"
)

// TaskSource marks how a task entered the system.
type TaskSource string

// SourceAutoDetected is the source for tasks created from chat detection.
const SourceAutoDetected TaskSource = "CHAT_MESSAGE"

// Task is the upstream task record as returned by the Task Service.
type Task struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	AssigneeID int64      `json:"assignee_telegram_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// User is a directory entry.
type User struct {
	DisplayName string `json:"display_name"`
	ExternalID  int64  `json:"telegram_id"`
}

// CreateTaskRequest carries everything the Task Service needs to create a
// task from a confirmed candidate. SourceMessageID doubles as the
// idempotency key, so a retried creation cannot duplicate.
type CreateTaskRequest struct {
	Title              string     `json:"title"`
	Source             TaskSource `json:"source"`
	SourceMessageID    int64      `json:"source_message_id"`
	SourceChatID       int64      `json:"source_chat_id"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	AssigneeExternalID int64      `json:"assignee_telegram_id,omitempty"`
}

// TaskService owns durable task records.
type TaskService interface {
	// CreateTask creates a task; idempotent per SourceMessageID.
	CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error)

	// AssignTask sets the task's assignee. Re-assigning the same user is
	// a no-op success.
	AssignTask(ctx context.Context, taskID, userExternalID int64) (Task, error)

	// Unassign clears the task's assignee.
	Unassign(ctx context.Context, taskID int64) (Task, error)
}

// UserDirectory lists known users for assignment menus.
type UserDirectory interface {
	// ListKnownUsers returns the team in the directory's preferred order.
	ListKnownUsers(ctx context.Context) ([]User, error)

	// GetByExternalID resolves a single user, nil when unknown.
	GetByExternalID(ctx context.Context, id int64) (*User, error)
}

// Error is a failed upstream call. Retryable marks timeouts and server-side
// failures where a user-driven retry is worth suggesting.
type Error struct {
	Op        string
	Status    int
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
