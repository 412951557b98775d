package transform

import (
	"errors"
	"fmt"

	"github.com/studykit/core/internal/models"
)

// Format is a derived-artifact target.
type Format string

const (
	FormatSummary    Format = "summary"
	FormatFlashcards Format = "flashcards"
)

// ErrInvalidFormat is returned for an unrecognized target format. Terminal,
// never retryable.
var ErrInvalidFormat = errors.New("invalid target format")

// ParseFormat validates a raw format tag.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatSummary, FormatFlashcards:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidFormat, raw, FormatSummary, FormatFlashcards)
	}
}

// Artifact is the result of transforming canonical notes into one target
// format. Kind is the discriminant; exactly one payload field is set.
type Artifact struct {
	Kind    Format             `json:"kind"`
	Summary string             `json:"summary,omitempty"`
	Cards   []models.Flashcard `json:"cards,omitempty"`
}
