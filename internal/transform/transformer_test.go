package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/models"
)

const validSummary = `**1. BACKGROUND & CONTEXT:** Photosynthesis overview.
**2. KEY CONCEPTS:** Light reactions, Calvin cycle.
**3. DEFINITIONS:** Chlorophyll - the green pigment.
**4. PROCESSES & FRAMEWORKS:** Light capture, carbon fixation.
**5. METRICS & DATA POINTS:** ~1% conversion efficiency.
**6. BEST PRACTICES:** Review the electron transport chain first.
**7. ACTION ITEMS:** Draw the cycle from memory.
**8. OPEN QUESTIONS:** Role of photorespiration.
**9. CLARITY CHECK:** All sections reviewed.
Done.`

func TestValidateSummary(t *testing.T) {
	require.NoError(t, ValidateSummary(validSummary))
}

func TestValidateSummaryMissingSection(t *testing.T) {
	broken := `**1. BACKGROUND:** something
**2. KEY CONCEPTS:** something else`

	err := ValidateSummary(broken)
	var incomplete *llm.IncompleteArtifactError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Reason, "definitions")
}

func TestValidateSummaryEmptyLastSection(t *testing.T) {
	truncated := `background key concepts definitions processes metrics best practices action items open questions clarity:`

	err := ValidateSummary(truncated)
	var incomplete *llm.IncompleteArtifactError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Reason, "empty section")
}

func TestValidateSummaryEmpty(t *testing.T) {
	var incomplete *llm.IncompleteArtifactError
	assert.ErrorAs(t, ValidateSummary("   \n"), &incomplete)
}

func TestValidateFlashcards(t *testing.T) {
	require.NoError(t, ValidateFlashcards([]models.Flashcard{
		{Question: "What is ATP?", Answer: "The cell's energy currency."},
	}))

	var incomplete *llm.IncompleteArtifactError
	assert.ErrorAs(t, ValidateFlashcards(nil), &incomplete)
	assert.ErrorAs(t, ValidateFlashcards([]models.Flashcard{{Question: "q", Answer: "  "}}), &incomplete)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("summary")
	require.NoError(t, err)
	assert.Equal(t, FormatSummary, f)

	f, err = ParseFormat("flashcards")
	require.NoError(t, err)
	assert.Equal(t, FormatFlashcards, f)

	_, err = ParseFormat("podcast")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
