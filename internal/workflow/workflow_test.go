package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glebsterx/TaskFlow/internal/detect"
	"github.com/glebsterx/TaskFlow/internal/pending"
	"github.com/glebsterx/TaskFlow/internal/transport"
	"github.com/glebsterx/TaskFlow/internal/upstream"
)

// fakeUpstream implements TaskService and UserDirectory in memory.
type fakeUpstream struct {
	nextTaskID  int64
	createCalls int
	assignCalls int

	createErr error
	assignErr error
	listErr   error

	users    []upstream.User
	lastTask upstream.Task
}

func (f *fakeUpstream) CreateTask(ctx context.Context, req upstream.CreateTaskRequest) (upstream.Task, error) {
	f.createCalls++
	if f.createErr != nil {
		return upstream.Task{}, f.createErr
	}
	f.nextTaskID++
	f.lastTask = upstream.Task{
		ID:         f.nextTaskID,
		Title:      req.Title,
		Status:     "open",
		AssigneeID: req.AssigneeExternalID,
		DueDate:    req.DueDate,
	}
	return f.lastTask, nil
}

func (f *fakeUpstream) AssignTask(ctx context.Context, taskID, userExternalID int64) (upstream.Task, error) {
	f.assignCalls++
	if f.assignErr != nil {
		return upstream.Task{}, f.assignErr
	}
	f.lastTask = upstream.Task{ID: taskID, Status: "open", AssigneeID: userExternalID}
	return f.lastTask, nil
}

func (f *fakeUpstream) Unassign(ctx context.Context, taskID int64) (upstream.Task, error) {
	f.lastTask = upstream.Task{ID: taskID, Status: "open"}
	return f.lastTask, nil
}

func (f *fakeUpstream) ListKnownUsers(ctx context.Context) ([]upstream.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.users, nil
}

func (f *fakeUpstream) GetByExternalID(ctx context.Context, id int64) (*upstream.User, error) {
	for _, u := range f.users {
		if u.ExternalID == id {
			return &u, nil
		}
	}
	return nil, nil
}

var _ upstream.TaskService = (*fakeUpstream)(nil)
var _ upstream.UserDirectory = (*fakeUpstream)(nil)

func newTestWorkflow(t *testing.T, fake *fakeUpstream) (*Workflow, *pending.Store) {
	t.Helper()
	detector := detect.NewDetector(detect.Config{}, zap.NewNop())
	store := pending.NewStore(15 * time.Minute)
	wf := New(detector, store, fake, fake, zap.NewNop(), Config{})
	return wf, store
}

func taskLikeInbound(messageID int64) transport.Inbound {
	return transport.Inbound{
		Text:      "нужно срочно проверить API завтра утром",
		MessageID: messageID,
		ChatID:    -1001,
		AuthorID:  7,
	}
}

func TestHandleMessage_DetectsAndStores(t *testing.T) {
	wf, store := newTestWorkflow(t, &fakeUpstream{})

	prompt, err := wf.HandleMessage(context.Background(), taskLikeInbound(101))
	require.NoError(t, err)
	require.NotNil(t, prompt)

	assert.Contains(t, prompt.Text, "Обнаружена задача")
	assert.Equal(t, int64(101), prompt.ReplyTo)
	require.Len(t, prompt.Options, 1)
	require.Len(t, prompt.Options[0], 2)
	assert.Equal(t, "confirm:101", prompt.Options[0][0].Token)
	assert.Equal(t, "cancel:101", prompt.Options[0][1].Token)

	assert.Equal(t, 1, store.Len())
}

func TestHandleMessage_SilentOnChatter(t *testing.T) {
	wf, store := newTestWorkflow(t, &fakeUpstream{})

	prompt, err := wf.HandleMessage(context.Background(), transport.Inbound{
		Text:      "вчера отлично посидели после релиза в баре",
		MessageID: 102,
		ChatID:    -1001,
		AuthorID:  7,
	})
	require.NoError(t, err)
	assert.Nil(t, prompt)
	assert.Equal(t, 0, store.Len())
}

func TestHandleMessage_RejectsInvalidInbound(t *testing.T) {
	wf, _ := newTestWorkflow(t, &fakeUpstream{})

	_, err := wf.HandleMessage(context.Background(), transport.Inbound{Text: ""})
	assert.Error(t, err)
}

func TestHandleAction_ConfirmCreatesTask(t *testing.T) {
	fake := &fakeUpstream{users: []upstream.User{
		{DisplayName: "Иван Петров", ExternalID: 42},
		{DisplayName: "Анна Смирнова", ExternalID: 43},
	}}
	wf, store := newTestWorkflow(t, fake)

	_, err := wf.HandleMessage(context.Background(), taskLikeInbound(101))
	require.NoError(t, err)

	outcome := wf.HandleAction(context.Background(), "confirm:101", Actor{UserID: 7})
	assert.Equal(t, ResultConfirmed, outcome.Result)
	require.NotNil(t, outcome.Task)
	assert.Equal(t, 1, fake.createCalls)

	// Assignment menu: self-assign, two users, skip.
	require.NotNil(t, outcome.Prompt)
	require.Len(t, outcome.Prompt.Options, 4)
	assert.Equal(t, "self:1", outcome.Prompt.Options[0][0].Token)
	assert.Equal(t, "assign:1:42", outcome.Prompt.Options[1][0].Token)
	assert.Equal(t, "skip:1", outcome.Prompt.Options[3][0].Token)

	assert.Equal(t, 0, store.Len())
}

func TestHandleAction_CancelConsumesEntry(t *testing.T) {
	fake := &fakeUpstream{}
	wf, store := newTestWorkflow(t, fake)

	_, err := wf.HandleMessage(context.Background(), taskLikeInbound(101))
	require.NoError(t, err)

	outcome := wf.HandleAction(context.Background(), "cancel:101", Actor{UserID: 7})
	assert.Equal(t, ResultCancelled, outcome.Result)
	assert.Equal(t, 0, fake.createCalls)
	assert.Equal(t, 0, store.Len())
}

func TestHandleAction_SecondResolutionIsSoft(t *testing.T) {
	fake := &fakeUpstream{}
	wf, _ := newTestWorkflow(t, fake)

	_, err := wf.HandleMessage(context.Background(), taskLikeInbound(101))
	require.NoError(t, err)

	first := wf.HandleAction(context.Background(), "confirm:101", Actor{UserID: 7})
	require.Equal(t, ResultConfirmed, first.Result)

	second := wf.HandleAction(context.Background(), "cancel:101", Actor{UserID: 8})
	assert.Equal(t, ResultAlreadyResolved, second.Result)
	assert.Contains(t, second.Notice, "уже обработано")

	// Only the winning confirm reached the task service.
	assert.Equal(t, 1, fake.createCalls)
}

func TestHandleAction_ConfirmUnknownKey(t *testing.T) {
	wf, _ := newTestWorkflow(t, &fakeUpstream{})

	outcome := wf.HandleAction(context.Background(), "confirm:999", Actor{UserID: 7})
	assert.Equal(t, ResultAlreadyResolved, outcome.Result)
}

func TestHandleAction_CreateFailureLeavesEntryConsumed(t *testing.T) {
	fake := &fakeUpstream{createErr: &upstream.Error{Op: "create_task", Status: 502, Retryable: true}}
	wf, store := newTestWorkflow(t, fake)

	_, err := wf.HandleMessage(context.Background(), taskLikeInbound(101))
	require.NoError(t, err)

	outcome := wf.HandleAction(context.Background(), "confirm:101", Actor{UserID: 7})
	assert.Equal(t, ResultUpstreamFailed, outcome.Result)
	assert.Nil(t, outcome.Prompt)
	assert.Contains(t, outcome.Notice, "Попробуйте ещё раз")

	// The entry stays consumed; the failure does not resurrect it.
	assert.Equal(t, 0, store.Len())
}

func TestHandleAction_ConfirmDegradesWithoutDirectory(t *testing.T) {
	fake := &fakeUpstream{listErr: &upstream.Error{Op: "list_users", Status: 500, Retryable: true}}
	wf, _ := newTestWorkflow(t, fake)

	_, err := wf.HandleMessage(context.Background(), taskLikeInbound(101))
	require.NoError(t, err)

	outcome := wf.HandleAction(context.Background(), "confirm:101", Actor{UserID: 7})
	assert.Equal(t, ResultConfirmed, outcome.Result)

	// Menu still offers self-assign and skip.
	require.NotNil(t, outcome.Prompt)
	assert.Len(t, outcome.Prompt.Options, 2)
}

func TestHandleAction_SelfAssignUsesActor(t *testing.T) {
	fake := &fakeUpstream{}
	wf, _ := newTestWorkflow(t, fake)

	outcome := wf.HandleAction(context.Background(), "self:55", Actor{UserID: 42})
	assert.Equal(t, ResultAssigned, outcome.Result)
	require.NotNil(t, outcome.Task)
	assert.Equal(t, int64(42), outcome.Task.AssigneeID)
}

func TestHandleAction_AssignFailure(t *testing.T) {
	fake := &fakeUpstream{assignErr: &upstream.Error{Op: "assign_task", Status: 503, Retryable: true}}
	wf, _ := newTestWorkflow(t, fake)

	outcome := wf.HandleAction(context.Background(), "assign:55:42", Actor{UserID: 7})
	assert.Equal(t, ResultUpstreamFailed, outcome.Result)
}

func TestHandleAction_SkipIsLocal(t *testing.T) {
	fake := &fakeUpstream{}
	wf, _ := newTestWorkflow(t, fake)

	outcome := wf.HandleAction(context.Background(), "skip:55", Actor{UserID: 7})
	assert.Equal(t, ResultUnassigned, outcome.Result)
	assert.Equal(t, 0, fake.assignCalls)
	assert.Equal(t, 0, fake.createCalls)
}

func TestHandleAction_MalformedToken(t *testing.T) {
	wf, _ := newTestWorkflow(t, &fakeUpstream{})

	outcome := wf.HandleAction(context.Background(), "bogus", Actor{UserID: 7})
	assert.Equal(t, ResultInvalid, outcome.Result)
}

func TestHandleAction_SelfAssignWithoutActorID(t *testing.T) {
	wf, _ := newTestWorkflow(t, &fakeUpstream{})

	outcome := wf.HandleAction(context.Background(), "self:55", Actor{})
	assert.Equal(t, ResultInvalid, outcome.Result)
}

func TestAssignmentPrompt_CapsUserList(t *testing.T) {
	users := make([]upstream.User, 15)
	for i := range users {
		users[i] = upstream.User{DisplayName: "user", ExternalID: int64(i + 1)}
	}

	p := AssignmentPrompt(upstream.Task{ID: 1, Title: "Проверить API"}, users, 10)

	// self + 10 users + skip.
	assert.Len(t, p.Options, 12)
}
