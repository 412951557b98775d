package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/studykit/core/internal/config"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/models"
)

// Transformer derives one artifact from canonical notes. It performs no
// caching; the session store owns that.
type Transformer interface {
	Transform(ctx context.Context, notes string, target Format) (*Artifact, error)
}

const (
	summaryMaxTokens    = 4000
	flashcardsMaxTokens = 3000
	maxNotesPromptRunes = 24000
)

// summarySections are the structural markers a cheat-sheet summary must
// populate. An empty section is a contract violation, not sparse output.
var summarySections = []string{
	"background",
	"key concepts",
	"definitions",
	"processes",
	"metrics",
	"best practices",
	"action items",
	"open questions",
	"clarity",
}

// NotesTransformer implements Transformer on top of the generation gateway.
type NotesTransformer struct {
	ai         *llm.Client
	assignment *config.AIModelAssignment
}

func NewNotesTransformer(ai *llm.Client, assignment *config.AIModelAssignment) *NotesTransformer {
	return &NotesTransformer{ai: ai, assignment: assignment}
}

func (t *NotesTransformer) Transform(ctx context.Context, notes string, target Format) (*Artifact, error) {
	switch target {
	case FormatSummary:
		return t.transformSummary(ctx, notes)
	case FormatFlashcards:
		return t.transformFlashcards(ctx, notes)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, target)
	}
}

func (t *NotesTransformer) transformSummary(ctx context.Context, notes string) (*Artifact, error) {
	raw, err := t.ai.GenerateWithRetry(ctx, llm.Request{
		System:          summarySystemPrompt,
		Prompt:          "Detailed Study Notes:\n" + llm.TruncateText(notes, maxNotesPromptRunes),
		Assignment:      t.assignment,
		MaxOutputTokens: summaryMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if err := ValidateSummary(raw); err != nil {
		return nil, err
	}
	return &Artifact{Kind: FormatSummary, Summary: raw}, nil
}

func (t *NotesTransformer) transformFlashcards(ctx context.Context, notes string) (*Artifact, error) {
	var cards []models.Flashcard
	err := t.ai.GenerateJSON(ctx, llm.Request{
		System:          flashcardsSystemPrompt,
		Prompt:          "Detailed Study Notes:\n" + llm.TruncateText(notes, maxNotesPromptRunes),
		Assignment:      t.assignment,
		MaxOutputTokens: flashcardsMaxTokens,
	}, &cards)
	if err != nil {
		return nil, err
	}
	if err := ValidateFlashcards(cards); err != nil {
		return nil, err
	}
	return &Artifact{Kind: FormatFlashcards, Cards: cards}, nil
}

// ValidateSummary checks that every structural section of the cheat-sheet
// template is present and non-empty.
func ValidateSummary(markdown string) error {
	if strings.TrimSpace(markdown) == "" {
		return &llm.IncompleteArtifactError{Reason: "summary is empty"}
	}

	lower := strings.ToLower(markdown)
	cursor := 0
	for _, section := range summarySections {
		idx := strings.Index(lower[cursor:], section)
		if idx < 0 {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("summary is missing the %q section", section)}
		}
		cursor += idx + len(section)
	}

	// The last marker must be followed by actual content.
	if strings.TrimSpace(trimMarkerLine(markdown[cursor:])) == "" {
		return &llm.IncompleteArtifactError{Reason: "summary ends with an empty section"}
	}
	return nil
}

// ValidateFlashcards checks that the deck is non-empty and every card has
// both sides.
func ValidateFlashcards(cards []models.Flashcard) error {
	if len(cards) == 0 {
		return &llm.IncompleteArtifactError{Reason: "flashcard list is empty"}
	}
	for i, card := range cards {
		if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("flashcard %d is missing a question or answer", i+1)}
		}
	}
	return nil
}

func trimMarkerLine(s string) string {
	// Drop the remainder of the marker's own line (": / SUMMARY:**" etc).
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}
	return ""
}
