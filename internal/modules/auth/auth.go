package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/middleware"
	jwtpkg "github.com/studykit/core/internal/pkg/jwt"
	"github.com/studykit/core/internal/pkg/response"
	"go.uber.org/zap"
)

const defaultTokenTTL = 14 * 24 * time.Hour

// ErrMintingDisabled is returned when token minting is requested outside
// development mode.
var ErrMintingDisabled = errors.New("token minting is disabled outside development")

// Service issues and inspects access tokens. Identity is established by the
// deployment's front door; this service only mints development tokens and
// answers "who am I" for an already-validated request.
type Service struct {
	dev    bool
	logger *zap.Logger
}

func NewService(dev bool, logger *zap.Logger) *Service {
	return &Service{dev: dev, logger: logger}
}

// MintToken signs a token for the given user. Development only.
func (s *Service) MintToken(userID string) (string, error) {
	if !s.dev {
		return "", ErrMintingDisabled
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user_id is required")
	}
	token, err := jwtpkg.Sign(userID, defaultTokenTTL)
	if err != nil {
		return "", err
	}
	s.logger.Info("minted development token", zap.String("user_id", userID))
	return token, nil
}

type mintTokenDTO struct {
	UserID string `json:"user_id" binding:"required"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/token", h.mintToken)
	g.GET("/check", authMW, h.check)
}

// POST /auth/token
func (h *Handler) mintToken(c *gin.Context) {
	var dto mintTokenDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.svc.MintToken(dto.UserID)
	if err != nil {
		if errors.Is(err, ErrMintingDisabled) {
			response.Forbidden(c)
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{"token": token})
}

// GET /auth/check
func (h *Handler) check(c *gin.Context) {
	response.OK(c, gin.H{
		"authenticated": true,
		"user_id":       middleware.CurrentUserID(c),
	})
}
