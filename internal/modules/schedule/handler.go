package schedule

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/middleware"
	"github.com/studykit/core/internal/models"
	"github.com/studykit/core/internal/pkg/response"
)

type generateScheduleDTO struct {
	ExamDate     string `json:"exam_date"`
	Subjects     string `json:"subjects" binding:"required"`
	Availability string `json:"availability" binding:"required"`
}

type generateWeeklyDTO struct {
	Subject     string `json:"subject" binding:"required"`
	WeeklyTopic string `json:"weekly_topic"`
	WeekNumber  int    `json:"week_number" binding:"required"`
}

type replaceGoalsDTO struct {
	Goals []models.Goal `json:"goals"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/schedule", authMW)
	g.POST("", h.generateSchedule)
	g.POST("/weekly", h.generateWeekly)

	goals := rg.Group("/goals", authMW)
	goals.GET("", h.listGoals)
	goals.PUT("", h.replaceGoals)
}

// POST /schedule
func (h *Handler) generateSchedule(c *gin.Context) {
	var dto generateScheduleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	schedule, err := h.svc.GenerateMonthly(c.Request.Context(), dto.ExamDate, dto.Subjects, dto.Availability)
	if err != nil {
		if errors.Is(err, ErrBadScheduleInput) {
			response.BadRequest(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, schedule)
}

// POST /schedule/weekly
func (h *Handler) generateWeekly(c *gin.Context) {
	var dto generateWeeklyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	plan, err := h.svc.GenerateWeekly(c.Request.Context(), dto.Subject, dto.WeeklyTopic, dto.WeekNumber)
	if err != nil {
		if errors.Is(err, ErrBadScheduleInput) {
			response.BadRequest(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, plan)
}

// GET /goals
func (h *Handler) listGoals(c *gin.Context) {
	goals, err := h.svc.goals.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, goals)
}

// PUT /goals
func (h *Handler) replaceGoals(c *gin.Context) {
	var dto replaceGoalsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.goals.Replace(c.Request.Context(), middleware.CurrentUserID(c), dto.Goals); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
