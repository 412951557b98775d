package notes

import (
	"context"
	"errors"

	"github.com/studykit/core/internal/pkg/taskqueue"
	"github.com/studykit/core/internal/transform"
	"go.uber.org/zap"
)

// TaskTypeTransform is the queue type for background derivations.
const TaskTypeTransform = "notes:transform"

// TransformPayload is the queued work item for one derivation.
type TransformPayload struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
}

// EnqueueTransform queues a background derivation. The dedup key is
// sessionID:format, so a second enqueue while one is pending or running
// returns the existing task instead of creating a duplicate.
func (s *Service) EnqueueTransform(ctx context.Context, sessionID, format string) (*taskqueue.Task, error) {
	if _, err := transform.ParseFormat(format); err != nil {
		return nil, err
	}
	if _, err := s.store.Notes(sessionID); err != nil {
		return nil, err
	}

	payload := TransformPayload{SessionID: sessionID, Format: format}
	task, err := s.taskSvc.Enqueue(ctx, TaskTypeTransform, payload, sessionID+":"+format, sessionID)
	if err != nil {
		return nil, err
	}

	// A deduped hit is already running; only a freshly created task starts work.
	if task.Status == taskqueue.TaskPending {
		go s.executeTransform(context.Background(), task.ID, payload)
	}
	return task, nil
}

func (s *Service) executeTransform(ctx context.Context, taskID string, payload TransformPayload) {
	s.setTaskStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")

	artifact, err := s.RequestFormat(ctx, payload.SessionID, payload.Format)
	if err != nil {
		if !errors.Is(err, transform.ErrSessionNotFound) && !errors.Is(err, transform.ErrNoNotes) {
			s.logger.Warn("background transform failed",
				zap.String("task_id", taskID),
				zap.String("session_id", payload.SessionID),
				zap.String("format", payload.Format),
				zap.Error(err),
			)
		}
		s.setTaskStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}

	s.setTaskStatus(ctx, taskID, taskqueue.TaskCompleted, artifact, "")
}

func (s *Service) setTaskStatus(ctx context.Context, taskID string, status taskqueue.TaskStatus, result interface{}, errMsg string) {
	if err := s.taskSvc.UpdateStatus(ctx, taskID, status, result, errMsg); err != nil {
		s.logger.Warn("task status update failed",
			zap.String("task_id", taskID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}
