package article

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/config"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/models"
	"github.com/studykit/core/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	analysisMaxTokens  = 3500
	maxSourceTextRunes = 24000
)

// ErrEmptyArticle is returned for a blank input text.
var ErrEmptyArticle = errors.New("article text is required")

const analysisSystemPrompt = `You are an expert linguistic analyst. Your task is to read the provided article text and extract a list of key vocabulary and phrases.

For this list, you must identify:
1.  Advanced or uncommon single words (e.g., "grandiose").
2.  Phrasal verbs (e.g., "hunkered down", "vaulted to").
3.  Idiomatic expressions (e.g., "nags at the back of").

For each item you identify, you MUST provide four pieces of information:
1.  **term**: The word or phrase itself.
2.  **partOfSpeech**: The grammatical role (e.g., noun, adjective, phrasal verb, idiom).
3.  **definition**: A simple, concise definition relevant to how it's used in the text.
4.  **example**: A new, clear sentence that shows how to use the term correctly.

The output must be a JSON array of objects with 'term', 'partOfSpeech', 'definition' and 'example' fields. Return only the JSON array with no surrounding prose.`

// Service extracts vocabulary and phrases from article text.
type Service struct {
	ai     *llm.Client
	cfg    config.AIConfig
	logger *zap.Logger
}

func NewService(ai *llm.Client, cfg config.AIConfig, logger *zap.Logger) *Service {
	return &Service{ai: ai, cfg: cfg, logger: logger}
}

// Analyze returns the extracted vocabulary entries.
func (s *Service) Analyze(ctx context.Context, text string) ([]models.VocabularyEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyArticle
	}

	var entries []models.VocabularyEntry
	err := s.ai.GenerateJSON(ctx, llm.Request{
		System:          analysisSystemPrompt,
		Prompt:          "Article Text:\n" + llm.TruncateText(text, maxSourceTextRunes),
		Assignment:      s.cfg.TransformModel,
		MaxOutputTokens: analysisMaxTokens,
	}, &entries)
	if err != nil {
		return nil, err
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func validateEntries(entries []models.VocabularyEntry) error {
	if len(entries) == 0 {
		return &llm.IncompleteArtifactError{Reason: "vocabulary list is empty"}
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Term) == "" || strings.TrimSpace(e.Definition) == "" {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("vocabulary entry %d is missing a term or definition", i+1)}
		}
	}
	return nil
}

type analyzeArticleDTO struct {
	Text string `json:"text" binding:"required"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/article", authMW)
	g.POST("/analyze", h.analyzeArticle)
}

// POST /article/analyze
func (h *Handler) analyzeArticle(c *gin.Context) {
	var dto analyzeArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entries, err := h.svc.Analyze(c.Request.Context(), dto.Text)
	if err != nil {
		if errors.Is(err, ErrEmptyArticle) {
			response.BadRequest(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"vocabulary_and_phrases": entries})
}
