package notes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studykit/core/internal/config"
	"github.com/studykit/core/internal/models"
	"github.com/studykit/core/internal/pkg/taskqueue"
	"github.com/studykit/core/internal/transform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubTransformer struct {
	err error
}

func (s *stubTransformer) Transform(ctx context.Context, notes string, target transform.Format) (*transform.Artifact, error) {
	if s.err != nil {
		return nil, s.err
	}
	if target == transform.FormatFlashcards {
		return &transform.Artifact{Kind: target, Cards: []models.Flashcard{{Question: "q", Answer: "a"}}}, nil
	}
	return &transform.Artifact{Kind: target, Summary: "summary of: " + notes}, nil
}

type statusChange struct {
	taskID string
	status taskqueue.TaskStatus
	errMsg string
}

// memoryTaskQueue records status transitions without Redis behind it.
type memoryTaskQueue struct {
	mu        sync.Mutex
	existing  *taskqueue.Task
	updateErr error
	changes   []statusChange
}

func (q *memoryTaskQueue) Enqueue(ctx context.Context, taskType string, payload interface{}, dedupKey, groupKey string) (*taskqueue.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.existing != nil {
		return q.existing, nil
	}
	q.existing = &taskqueue.Task{ID: "task-1", Type: taskType, Status: taskqueue.TaskPending, DedupKey: dedupKey, GroupKey: groupKey}
	return q.existing, nil
}

func (q *memoryTaskQueue) GetByID(ctx context.Context, id string) (*taskqueue.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.existing, nil
}

func (q *memoryTaskQueue) UpdateStatus(ctx context.Context, id string, status taskqueue.TaskStatus, result interface{}, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.updateErr != nil {
		return q.updateErr
	}
	q.changes = append(q.changes, statusChange{taskID: id, status: status, errMsg: errMsg})
	return nil
}

func (q *memoryTaskQueue) List(ctx context.Context, page, size int, taskType *string, status *taskqueue.TaskStatus) ([]*taskqueue.Task, int64, error) {
	return nil, 0, nil
}

func (q *memoryTaskQueue) Cancel(ctx context.Context, id string) error          { return nil }
func (q *memoryTaskQueue) DeleteByID(ctx context.Context, id string) error      { return nil }
func (q *memoryTaskQueue) DeleteCompleted(ctx context.Context, before int64) error { return nil }

func (q *memoryTaskQueue) statuses() []taskqueue.TaskStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]taskqueue.TaskStatus, 0, len(q.changes))
	for _, c := range q.changes {
		out = append(out, c.status)
	}
	return out
}

func newTaskTestService(tf transform.Transformer, queue taskQueue, logger *zap.Logger) (*Service, *transform.Store) {
	store := transform.NewStore(tf)
	return NewService(nil, config.AIConfig{}, store, queue, logger), store
}

func TestEnqueueTransformRejectsBadInput(t *testing.T) {
	svc, store := newTaskTestService(&stubTransformer{}, &memoryTaskQueue{}, zap.NewNop())
	id := store.StartSession("notes")

	_, err := svc.EnqueueTransform(context.Background(), id, "mindmap")
	assert.ErrorIs(t, err, transform.ErrInvalidFormat)

	_, err = svc.EnqueueTransform(context.Background(), "nope", "summary")
	assert.ErrorIs(t, err, transform.ErrSessionNotFound)
}

func TestEnqueueTransformReturnsRunningDuplicate(t *testing.T) {
	queue := &memoryTaskQueue{existing: &taskqueue.Task{ID: "task-1", Status: taskqueue.TaskRunning}}
	svc, store := newTaskTestService(&stubTransformer{}, queue, zap.NewNop())
	id := store.StartSession("notes")

	task, err := svc.EnqueueTransform(context.Background(), id, "summary")
	require.NoError(t, err)
	assert.Same(t, queue.existing, task)
	// No second execution starts for an already-running task.
	assert.Empty(t, queue.statuses())
}

func TestExecuteTransformCompletesTask(t *testing.T) {
	queue := &memoryTaskQueue{}
	svc, store := newTaskTestService(&stubTransformer{}, queue, zap.NewNop())
	id := store.StartSession("cell biology")

	svc.executeTransform(context.Background(), "task-1", TransformPayload{SessionID: id, Format: "summary"})

	assert.Equal(t, []taskqueue.TaskStatus{taskqueue.TaskRunning, taskqueue.TaskCompleted}, queue.statuses())

	artifacts, err := store.Artifacts(id)
	require.NoError(t, err)
	assert.Len(t, artifacts, 1)
}

func TestExecuteTransformRecordsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	queue := &memoryTaskQueue{}
	svc, store := newTaskTestService(&stubTransformer{err: errors.New("model exploded")}, queue, zap.New(core))
	id := store.StartSession("notes")

	svc.executeTransform(context.Background(), "task-1", TransformPayload{SessionID: id, Format: "summary"})

	assert.Equal(t, []taskqueue.TaskStatus{taskqueue.TaskRunning, taskqueue.TaskFailed}, queue.statuses())
	assert.Contains(t, queue.changes[1].errMsg, "model exploded")
	assert.Equal(t, 1, logs.FilterMessage("background transform failed").Len())
}

func TestExecuteTransformLogsStatusUpdateFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	queue := &memoryTaskQueue{updateErr: errors.New("redis down")}
	svc, store := newTaskTestService(&stubTransformer{}, queue, zap.New(core))
	id := store.StartSession("notes")

	svc.executeTransform(context.Background(), "task-1", TransformPayload{SessionID: id, Format: "summary"})

	assert.GreaterOrEqual(t, logs.FilterMessage("task status update failed").Len(), 1)
}
