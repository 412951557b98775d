package library

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/middleware"
	"github.com/studykit/core/internal/models"
	"github.com/studykit/core/internal/pkg/response"
)

type saveBundleDTO struct {
	Topic   string               `json:"topic" binding:"required"`
	Type    string               `json:"type" binding:"required"`
	Content models.BundleContent `json:"content" binding:"required"`
}

type saveSessionDTO struct {
	Topic     string `json:"topic" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/library", authMW)
	g.POST("", h.saveBundle)
	g.POST("/session", h.saveSession)
	g.GET("", h.listBundles)
}

// POST /library
func (h *Handler) saveBundle(c *gin.Context) {
	var dto saveBundleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bundleType := models.BundleType(dto.Type)
	if !bundleType.Valid() {
		response.BadRequest(c, "type must be one of study-notes, article-analysis, flashcards, quiz")
		return
	}

	id, err := h.svc.Save(c.Request.Context(), middleware.CurrentUserID(c), dto.Topic, bundleType, dto.Content)
	if err != nil {
		if errors.Is(err, ErrInvalidBundle) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"id": id})
}

// POST /library/session
func (h *Handler) saveSession(c *gin.Context) {
	var dto saveSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := h.svc.SaveSession(c.Request.Context(), middleware.CurrentUserID(c), dto.Topic, dto.SessionID)
	if err != nil {
		if errors.Is(err, ErrInvalidBundle) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"id": id})
}

// GET /library
func (h *Handler) listBundles(c *gin.Context) {
	bundles, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, bundles)
}
