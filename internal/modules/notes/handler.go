package notes

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/pkg/pagination"
	"github.com/studykit/core/internal/pkg/response"
	"github.com/studykit/core/internal/pkg/taskqueue"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/notes", authMW)
	g.POST("", h.generateNotes)
	g.POST("/url", h.generateNotesFromURL)
	g.GET("/:sessionId", h.getSession)
	g.POST("/:sessionId/transform", h.transformNotes)
	g.POST("/:sessionId/transform/task", h.createTransformTask)

	f := rg.Group("/flashcards", authMW)
	f.POST("/text", h.flashcardsFromText)

	tasks := rg.Group("/tasks", authMW)
	tasks.GET("", h.listTasks)
	tasks.GET("/:id", h.getTask)
	tasks.POST("/:id/cancel", h.cancelTask)
	tasks.POST("/:id/retry", h.retryTask)
	tasks.DELETE("/:id", h.deleteTask)
	tasks.DELETE("", h.batchDeleteTasks)
}

// POST /notes
func (h *Handler) generateNotes(c *gin.Context) {
	var dto generateNotesDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID, notes, err := h.svc.GenerateNotes(c.Request.Context(), dto.Text, dto.SessionID)
	if err != nil {
		if errors.Is(err, ErrEmptySource) {
			response.BadRequest(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, notesResponse{SessionID: sessionID, Notes: notes})
}

// POST /notes/url
func (h *Handler) generateNotesFromURL(c *gin.Context) {
	var dto generateNotesFromURLDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID, notes, err := h.svc.GenerateNotesFromURL(c.Request.Context(), dto.URL, dto.SessionID)
	if err != nil {
		if errors.Is(err, ErrArticleTooShort) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, notesResponse{SessionID: sessionID, Notes: notes})
}

// GET /notes/:sessionId
func (h *Handler) getSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	notes, artifacts, err := h.svc.Session(sessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, sessionResponse{SessionID: sessionID, Notes: notes, Artifacts: artifacts})
}

// POST /notes/:sessionId/transform
func (h *Handler) transformNotes(c *gin.Context) {
	var dto transformDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	artifact, err := h.svc.RequestFormat(c.Request.Context(), c.Param("sessionId"), dto.Format)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, artifact)
}

// POST /notes/:sessionId/transform/task
func (h *Handler) createTransformTask(c *gin.Context) {
	var dto transformDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.svc.EnqueueTransform(c.Request.Context(), c.Param("sessionId"), dto.Format)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, task)
}

// POST /flashcards/text
func (h *Handler) flashcardsFromText(c *gin.Context) {
	var dto flashcardsFromTextDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cards, err := h.svc.FlashcardsFromText(c.Request.Context(), dto.Text)
	if err != nil {
		if errors.Is(err, ErrEmptySource) {
			response.BadRequest(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"flashcards": cards})
}

// GET /tasks
func (h *Handler) listTasks(c *gin.Context) {
	q := pagination.FromContext(c)
	statusStr := c.Query("status")

	var statusPtr *taskqueue.TaskStatus
	if statusStr != "" {
		s := taskqueue.TaskStatus(statusStr)
		statusPtr = &s
	}
	taskType := TaskTypeTransform

	tasks, total, err := h.svc.taskSvc.List(c.Request.Context(), q.Page, q.Size, &taskType, statusPtr)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Paged(c, tasks, q.Meta(total))
}

// GET /tasks/:id
func (h *Handler) getTask(c *gin.Context) {
	task, err := h.svc.taskSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, task)
}

// POST /tasks/:id/cancel
func (h *Handler) cancelTask(c *gin.Context) {
	task, err := h.svc.taskSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	switch task.Status {
	case taskqueue.TaskCompleted, taskqueue.TaskFailed, taskqueue.TaskCancelled:
		response.BadRequest(c, "task has already finished")
		return
	case taskqueue.TaskRunning:
		if err := h.svc.taskSvc.UpdateStatus(c.Request.Context(), task.ID, taskqueue.TaskCancelled, nil, "cancelled by user"); err != nil {
			response.InternalError(c, err)
			return
		}
		response.NoContent(c)
		return
	}
	if err := h.svc.taskSvc.Cancel(c.Request.Context(), task.ID); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.NoContent(c)
}

// POST /tasks/:id/retry
func (h *Handler) retryTask(c *gin.Context) {
	task, err := h.svc.taskSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil || task == nil {
		response.NotFound(c)
		return
	}
	if task.Status != taskqueue.TaskFailed && task.Status != taskqueue.TaskCancelled {
		response.BadRequest(c, "only failed or cancelled tasks can be retried")
		return
	}

	var payload TransformPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		response.BadRequest(c, "invalid task payload")
		return
	}

	newTask, err := h.svc.EnqueueTransform(c.Request.Context(), payload.SessionID, payload.Format)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, newTask)
}

// DELETE /tasks/:id
func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.svc.taskSvc.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.NoContent(c)
}

// DELETE /tasks?before=<unix_ms>
func (h *Handler) batchDeleteTasks(c *gin.Context) {
	var before int64
	if raw := c.Query("before"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			before = v
		}
	}
	if err := h.svc.taskSvc.DeleteCompleted(c.Request.Context(), before); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
