package writer

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/config"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	writerMaxTokens    = 4000
	maxSourceTextRunes = 24000
)

// ErrEmptyDraft is returned for a blank input.
var ErrEmptyDraft = errors.New("text to edit is required")

const writerSystemPrompt = `You are an expert writing editor with the precision and style of a Harvard-trained academic. Your task is to take the provided text and rewrite it, adhering to the highest standards of professional and business communication.

You MUST perform two tasks in order:
1.  **Evaluate the original text:** Score the original text on a scale of 0-100 based on the "A-Level" standard. Provide brief, bulleted feedback on its strengths and weaknesses, and summarize the improvements you will make.
2.  **Rewrite the text:** Transform the text to an "A-Level" standard.

### Core Principles
- **Clarity:** Write so the audience understands immediately. Eliminate jargon, buzzwords, and convoluted sentences.
- **Conciseness:** Respect the reader's time. Cut wordiness, redundancies, and filler phrases.
- **Correctness:** Ensure grammar, punctuation, and word usage are flawless.
- **Bottom-line upfront:** State the main point or conclusion at the beginning, then provide the necessary details or context.
- **A-Level analysis:** Add nuanced distinctions, inject applied case examples, and include a balanced critique of risks and limitations.

The final output must be a single JSON object with a 'generated_text' field (the rewritten text) and an 'evaluation' object carrying 'score' (0-100), 'strengths', 'weaknesses' and 'improvements' fields. Return only the JSON object with no surrounding prose.`

// Evaluation scores the original draft against the editing standard.
type Evaluation struct {
	Score        int    `json:"score"`
	Strengths    string `json:"strengths"`
	Weaknesses   string `json:"weaknesses"`
	Improvements string `json:"improvements"`
}

// Result is the rewritten text plus its evaluation.
type Result struct {
	GeneratedText string     `json:"generated_text"`
	Evaluation    Evaluation `json:"evaluation"`
}

// Service rewrites prose and scores the original draft.
type Service struct {
	ai     *llm.Client
	cfg    config.AIConfig
	logger *zap.Logger
}

func NewService(ai *llm.Client, cfg config.AIConfig, logger *zap.Logger) *Service {
	return &Service{ai: ai, cfg: cfg, logger: logger}
}

// Edit rewrites the draft and returns the evaluation alongside.
func (s *Service) Edit(ctx context.Context, draft string) (*Result, error) {
	if strings.TrimSpace(draft) == "" {
		return nil, ErrEmptyDraft
	}

	var result Result
	err := s.ai.GenerateJSON(ctx, llm.Request{
		System:          writerSystemPrompt,
		Prompt:          "Original Text:\n" + llm.TruncateText(draft, maxSourceTextRunes),
		Assignment:      s.cfg.TransformModel,
		MaxOutputTokens: writerMaxTokens,
	}, &result)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.GeneratedText) == "" {
		return nil, &llm.IncompleteArtifactError{Reason: "rewritten text is empty"}
	}
	if result.Evaluation.Score < 0 || result.Evaluation.Score > 100 {
		return nil, &llm.IncompleteArtifactError{Reason: "evaluation score is out of range"}
	}
	return &result, nil
}

type editTextDTO struct {
	Text string `json:"text" binding:"required"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/writer", authMW)
	g.POST("/edit", h.editText)
}

// POST /writer/edit
func (h *Handler) editText(c *gin.Context) {
	var dto editTextDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Edit(c.Request.Context(), dto.Text)
	if err != nil {
		if errors.Is(err, ErrEmptyDraft) {
			response.BadRequest(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, result)
}
