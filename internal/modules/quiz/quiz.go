package quiz

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
	defaultQuestionCount = 10
	maxQuestionCount     = 20
	quizMaxTokens        = 3500
	maxSourceTextRunes   = 24000
)

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ErrBadQuizParams is returned for out-of-range difficulty or count.
var ErrBadQuizParams = errors.New("invalid quiz parameters")

const quizSystemPrompt = `You are a quiz generator. Generate a quiz with the specified difficulty and number of questions from the provided text content.

Make sure each question comes with one correct answer, and a few incorrect options.
Output the quiz as a JSON array of question objects. Each object has a 'question', an 'answer', and an 'options' field. The 'options' field must contain all possible answer choices, including the correct answer. Return only the JSON array with no surrounding prose.`

// Service generates multiple-choice quizzes from raw text.
type Service struct {
	ai     *llm.Client
	cfg    config.AIConfig
	logger *zap.Logger
}

func NewService(ai *llm.Client, cfg config.AIConfig, logger *zap.Logger) *Service {
	return &Service{ai: ai, cfg: cfg, logger: logger}
}

// Generate produces a quiz. Difficulty defaults to medium, count to 10,
// capped at 20.
func (s *Service) Generate(ctx context.Context, text, difficulty string, count int) ([]models.QuizQuestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrBadQuizParams)
	}
	if difficulty == "" {
		difficulty = "medium"
	}
	if !validDifficulties[difficulty] {
		return nil, fmt.Errorf("%w: difficulty must be easy, medium or hard", ErrBadQuizParams)
	}
	if count == 0 {
		count = defaultQuestionCount
	}
	if count < 1 || count > maxQuestionCount {
		return nil, fmt.Errorf("%w: number of questions must be between 1 and %d", ErrBadQuizParams, maxQuestionCount)
	}

	prompt := fmt.Sprintf("Text Content: %s\nDifficulty: %s\nNumber of Questions: %d",
		llm.TruncateText(text, maxSourceTextRunes), difficulty, count)

	var questions []models.QuizQuestion
	err := s.ai.GenerateJSON(ctx, llm.Request{
		System:          quizSystemPrompt,
		Prompt:          prompt,
		Assignment:      s.cfg.QuizModel,
		MaxOutputTokens: quizMaxTokens,
	}, &questions)
	if err != nil {
		return nil, err
	}
	if err := validateQuiz(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// validateQuiz checks the deck is non-empty and every question's options
// include its answer.
func validateQuiz(questions []models.QuizQuestion) error {
	if len(questions) == 0 {
		return &llm.IncompleteArtifactError{Reason: "quiz is empty"}
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("quiz question %d is missing a question or answer", i+1)}
		}
		if len(q.Options) < 2 {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("quiz question %d needs at least two options", i+1)}
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("quiz question %d options do not include the answer", i+1)}
		}
	}
	return nil
}

type generateQuizDTO struct {
	Text              string `json:"text" binding:"required"`
	Difficulty        string `json:"difficulty"`
	NumberOfQuestions int    `json:"number_of_questions"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/quiz", authMW)
	g.POST("", h.generateQuiz)
}

// POST /quiz
func (h *Handler) generateQuiz(c *gin.Context) {
	var dto generateQuizDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	questions, err := h.svc.Generate(c.Request.Context(), dto.Text, dto.Difficulty, dto.NumberOfQuestions)
	if err != nil {
		if errors.Is(err, ErrBadQuizParams) {
			response.BadRequest(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"quiz": questions})
}
