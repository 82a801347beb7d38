package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/glebsterx/TaskFlow/internal/detect"
	"github.com/glebsterx/TaskFlow/internal/pending"
	"github.com/glebsterx/TaskFlow/internal/transport"
	"github.com/glebsterx/TaskFlow/internal/upstream"
)

// Result is the terminal classification of handling one inbound action.
type Result string

const (
	ResultConfirmed       Result = "confirmed"
	ResultCancelled       Result = "cancelled"
	ResultAlreadyResolved Result = "already_resolved"
	ResultInvalid         Result = "invalid"
	ResultUpstreamFailed  Result = "upstream_failed"
	ResultAssigned        Result = "assigned"
	ResultUnassigned      Result = "unassigned"
)

// Outcome is what the transport should show the user after an action:
// always a short notice, sometimes a follow-up prompt (the assignment menu
// after a successful confirm).
type Outcome struct {
	Result Result
	Notice string
	Prompt *transport.Prompt
	Task   *upstream.Task
}

// Actor identifies the user who pressed the button, for self-assignment.
type Actor struct {
	UserID      int64
	DisplayName string
}

// Config holds the workflow's tunable policy constants.
type Config struct {
	// AssignListLimit caps the assignment menu. Zero selects 10.
	AssignListLimit int
}

// Workflow drives candidates from detection to resolution. The pending
// store is the only shared state; its take-once semantics are the sole
// guard against duplicate callback delivery, so every resolution path goes
// through TakeIfPending exactly once.
type Workflow struct {
	detector *detect.Detector
	store    *pending.Store
	tasks    upstream.TaskService
	users    upstream.UserDirectory
	logger   *zap.Logger
	metrics  *Metrics

	assignLimit int
}

// New wires the workflow. The store instance is owned by the composition
// root and injected, never ambient.
func New(
	detector *detect.Detector,
	store *pending.Store,
	tasks upstream.TaskService,
	users upstream.UserDirectory,
	logger *zap.Logger,
	cfg Config,
) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := cfg.AssignListLimit
	if limit <= 0 {
		limit = 10
	}
	return &Workflow{
		detector:    detector,
		store:       store,
		tasks:       tasks,
		users:       users,
		logger:      logger,
		assignLimit: limit,
	}
}

// SetMetrics attaches optional Prometheus metrics.
func (w *Workflow) SetMetrics(m *Metrics) {
	w.metrics = m
}

// HandleMessage runs detection on an inbound chat message. On a qualifying
// candidate it stores the pending entry and returns the confirmation prompt
// to render; nil means no candidate, which is silent.
func (w *Workflow) HandleMessage(ctx context.Context, in transport.Inbound) (*transport.Prompt, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inbound message: %w", err)
	}

	candidate := w.detector.Detect(in)
	if candidate == nil {
		if w.metrics != nil {
			w.metrics.RecordDetection(false)
		}
		return nil, nil
	}
	if w.metrics != nil {
		w.metrics.RecordDetection(true)
	}

	w.store.Put(candidate.MessageID, *candidate)
	return ConfirmationPrompt(*candidate), nil
}

// HandleAction resolves a user action against the pending store and the
// upstream services. Every failure mode maps to a user-facing outcome; the
// method never lets an error escape to crash the hosting loop.
func (w *Workflow) HandleAction(ctx context.Context, token string, actor Actor) Outcome {
	action, err := ParseAction(token)
	if err != nil {
		w.logger.Warn("malformed action token",
			zap.String("token", token),
			zap.Error(err),
		)
		if w.metrics != nil {
			w.metrics.RecordAction(ResultInvalid)
		}
		return Outcome{Result: ResultInvalid, Notice: "⚠️ Неизвестное действие"}
	}

	var outcome Outcome
	switch action.Verb {
	case VerbConfirm:
		outcome = w.confirm(ctx, action.Key)
	case VerbCancel:
		outcome = w.cancel(action.Key)
	case VerbSelfAssign:
		outcome = w.assign(ctx, action.TaskID, actor.UserID)
	case VerbAssign:
		outcome = w.assign(ctx, action.TaskID, action.UserID)
	case VerbSkip:
		outcome = w.skip(action.TaskID)
	}

	if w.metrics != nil {
		w.metrics.RecordAction(outcome.Result)
	}
	return outcome
}

// confirm transitions PendingConfirmation -> Confirmed. The take must win
// the race; a missing entry is a soft already-resolved-or-expired outcome.
// A failed creation call does not resurrect the consumed entry: the user is
// told to retry, and the idempotency key on the creation request keeps a
// retry from double-creating.
func (w *Workflow) confirm(ctx context.Context, key int64) Outcome {
	entry, ok := w.store.TakeIfPending(key)
	if !ok {
		return Outcome{
			Result: ResultAlreadyResolved,
			Notice: "⏳ Предложение уже обработано или устарело",
		}
	}

	c := entry.Candidate
	req := upstream.CreateTaskRequest{
		Title:           c.Title,
		Source:          upstream.SourceAutoDetected,
		SourceMessageID: c.MessageID,
		SourceChatID:    c.ChatID,
		DueDate:         c.DueDate,
	}
	if c.Assignee != nil && c.Assignee.ExternalID != 0 {
		req.AssigneeExternalID = c.Assignee.ExternalID
	}

	task, err := w.tasks.CreateTask(ctx, req)
	if err != nil {
		w.logger.Error("task creation failed",
			zap.Int64("message_id", key),
			zap.Error(err),
		)
		return Outcome{
			Result: ResultUpstreamFailed,
			Notice: "❌ Не удалось создать задачу. Попробуйте ещё раз.",
		}
	}

	w.logger.Info("candidate confirmed",
		zap.Int64("message_id", key),
		zap.Int64("task_id", task.ID),
	)

	users, err := w.users.ListKnownUsers(ctx)
	if err != nil {
		// The task exists; degrade to self-assign/skip instead of
		// failing the whole confirmation.
		w.logger.Warn("user directory unavailable", zap.Error(err))
		users = nil
	}

	return Outcome{
		Result: ResultConfirmed,
		Notice: "✅ Задача создана",
		Prompt: AssignmentPrompt(task, users, w.assignLimit),
		Task:   &task,
	}
}

// cancel transitions PendingConfirmation -> Cancelled.
func (w *Workflow) cancel(key int64) Outcome {
	if _, ok := w.store.TakeIfPending(key); !ok {
		return Outcome{
			Result: ResultAlreadyResolved,
			Notice: "⏳ Предложение уже обработано или устарело",
		}
	}
	w.logger.Info("candidate cancelled", zap.Int64("message_id", key))
	return Outcome{Result: ResultCancelled, Notice: "❌ Отменено"}
}

// assign transitions AssignmentPending -> Assigned. Re-assigning the same
// user is a no-op success per the Task Service contract.
func (w *Workflow) assign(ctx context.Context, taskID, userExternalID int64) Outcome {
	if userExternalID == 0 {
		return Outcome{Result: ResultInvalid, Notice: "⚠️ Неизвестный пользователь"}
	}

	task, err := w.tasks.AssignTask(ctx, taskID, userExternalID)
	if err != nil {
		w.logger.Error("assignment failed",
			zap.Int64("task_id", taskID),
			zap.Int64("user_id", userExternalID),
			zap.Error(err),
		)
		var uerr *upstream.Error
		if errors.As(err, &uerr) && !uerr.Retryable {
			return Outcome{Result: ResultUpstreamFailed, Notice: "❌ Ошибка назначения"}
		}
		return Outcome{
			Result: ResultUpstreamFailed,
			Notice: "❌ Ошибка назначения. Попробуйте ещё раз.",
		}
	}

	w.logger.Info("task assigned",
		zap.Int64("task_id", task.ID),
		zap.Int64("user_id", userExternalID),
	)
	return Outcome{
		Result: ResultAssigned,
		Notice: "✅ Исполнитель назначен",
		Task:   &task,
	}
}

// skip transitions AssignmentPending -> Unassigned; terminal, no upstream
// call — the task simply keeps no assignee.
func (w *Workflow) skip(taskID int64) Outcome {
	w.logger.Info("assignment skipped", zap.Int64("task_id", taskID))
	return Outcome{Result: ResultUnassigned, Notice: "Задача оставлена без исполнителя"}
}
