package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studykit/core/internal/config"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/models"
	"go.uber.org/zap"
)

func testAIConfig() config.AIConfig { return config.AIConfig{} }

func TestGenerateRejectsBadParams(t *testing.T) {
	svc := NewService(nil, testAIConfig(), zap.NewNop())

	_, err := svc.Generate(context.Background(), "  ", "medium", 10)
	assert.ErrorIs(t, err, ErrBadQuizParams)

	_, err = svc.Generate(context.Background(), "text", "impossible", 10)
	assert.ErrorIs(t, err, ErrBadQuizParams)

	_, err = svc.Generate(context.Background(), "text", "easy", 21)
	assert.ErrorIs(t, err, ErrBadQuizParams)

	_, err = svc.Generate(context.Background(), "text", "easy", -1)
	assert.ErrorIs(t, err, ErrBadQuizParams)
}

func TestValidateQuiz(t *testing.T) {
	good := []models.QuizQuestion{{
		Question: "What is 2+2?",
		Answer:   "4",
		Options:  []string{"3", "4", "5", "22"},
	}}
	require.NoError(t, validateQuiz(good))
}

func TestValidateQuizFailures(t *testing.T) {
	var incomplete *llm.IncompleteArtifactError

	assert.ErrorAs(t, validateQuiz(nil), &incomplete)

	missingAnswer := []models.QuizQuestion{{Question: "q", Answer: " ", Options: []string{"a", "b"}}}
	assert.ErrorAs(t, validateQuiz(missingAnswer), &incomplete)

	tooFewOptions := []models.QuizQuestion{{Question: "q", Answer: "a", Options: []string{"a"}}}
	assert.ErrorAs(t, validateQuiz(tooFewOptions), &incomplete)

	answerNotListed := []models.QuizQuestion{{Question: "q", Answer: "x", Options: []string{"a", "b"}}}
	err := validateQuiz(answerNotListed)
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Reason, "do not include the answer")
}
