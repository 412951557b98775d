package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTransientSignatures(t *testing.T) {
	cases := []string{
		"upstream returned 503 Service Unavailable",
		"HTTP 429 Too Many Requests",
		"anthropic: Overloaded",
		"rate limit exceeded",
		"rate_limit_error",
		"quota exhausted for project",
		"model capacity reached",
	}
	for _, msg := range cases {
		err := Classify(errors.New(msg))
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr, msg)
		assert.True(t, genErr.Transient, msg)
		assert.True(t, IsTransient(err), msg)
	}
}

func TestClassifyTerminal(t *testing.T) {
	err := Classify(errors.New("invalid api key"))
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.False(t, genErr.Transient)
	assert.False(t, IsTransient(err))
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	original := &GenerationError{Transient: true, Message: "overloaded"}
	assert.Same(t, error(original), Classify(original))

	wrapped := fmt.Errorf("generate: %w", original)
	assert.Equal(t, wrapped, Classify(wrapped))

	incomplete := &IncompleteArtifactError{Reason: "missing section"}
	assert.Same(t, error(incomplete), Classify(incomplete))
	assert.False(t, IsTransient(incomplete))
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify(nil))
}
