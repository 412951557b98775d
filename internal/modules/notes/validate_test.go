package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studykit/core/internal/llm"
)

const validNotes = `## BACKGROUND
The French Revolution began in 1789 amid fiscal crisis.

## KEY POINTS
- The Estates-General convened for the first time since 1614.
- The storming of the Bastille marked a point of no return.

## SUMMARY
A fiscal crisis escalated into a political revolution.`

func TestValidateCanonicalNotes(t *testing.T) {
	require.NoError(t, ValidateCanonicalNotes(validNotes))
}

func TestValidateCanonicalNotesMissingSection(t *testing.T) {
	missing := `## BACKGROUND
Some context.

## SUMMARY
A short wrap-up.`

	err := ValidateCanonicalNotes(missing)
	var incomplete *llm.IncompleteArtifactError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Reason, "KEY POINTS")
}

func TestValidateCanonicalNotesEmptySection(t *testing.T) {
	empty := `## BACKGROUND
Context here.

## KEY POINTS

## SUMMARY
Wrap-up.`

	err := ValidateCanonicalNotes(empty)
	var incomplete *llm.IncompleteArtifactError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Reason, "empty KEY POINTS")
}

func TestValidateCanonicalNotesOutOfOrder(t *testing.T) {
	reordered := `## SUMMARY
Wrap-up first.

## BACKGROUND
Context.

## KEY POINTS
- One point.`

	// SUMMARY before BACKGROUND cannot satisfy the in-order contract.
	err := ValidateCanonicalNotes(reordered)
	var incomplete *llm.IncompleteArtifactError
	assert.ErrorAs(t, err, &incomplete)
}

func TestValidateCanonicalNotesEmptyInput(t *testing.T) {
	var incomplete *llm.IncompleteArtifactError
	assert.ErrorAs(t, ValidateCanonicalNotes("  \n "), &incomplete)
}

func TestValidateCanonicalNotesIgnoresLowerLevelHeadings(t *testing.T) {
	withSubheadings := `## BACKGROUND
Context.

### Origins
Detail under a sub-heading.

## KEY POINTS
- A point.

## SUMMARY
Wrap-up.`

	require.NoError(t, ValidateCanonicalNotes(withSubheadings))
}
