package notes

import (
	"context"
	"errors"
	"strings"

	"github.com/studykit/core/internal/config"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/models"
	"github.com/studykit/core/internal/pkg/taskqueue"
	"github.com/studykit/core/internal/transform"
	"go.uber.org/zap"
)

const (
	notesMaxTokens     = 4000
	maxSourceTextRunes = 24000
)

// ErrEmptySource is returned when the input text is blank.
var ErrEmptySource = errors.New("text is required")

// taskQueue is the slice of the task-queue service this module depends on.
type taskQueue interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, dedupKey, groupKey string) (*taskqueue.Task, error)
	GetByID(ctx context.Context, id string) (*taskqueue.Task, error)
	UpdateStatus(ctx context.Context, id string, status taskqueue.TaskStatus, result interface{}, errMsg string) error
	List(ctx context.Context, page, size int, taskType *string, status *taskqueue.TaskStatus) ([]*taskqueue.Task, int64, error)
	Cancel(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteCompleted(ctx context.Context, beforeMS int64) error
}

// Service generates canonical study notes and drives on-demand derivation
// through the session store.
type Service struct {
	ai      *llm.Client
	cfg     config.AIConfig
	store   *transform.Store
	taskSvc taskQueue
	logger  *zap.Logger
}

func NewService(ai *llm.Client, cfg config.AIConfig, store *transform.Store, taskSvc taskQueue, logger *zap.Logger) *Service {
	return &Service{ai: ai, cfg: cfg, store: store, taskSvc: taskSvc, logger: logger}
}

// Store exposes the session store for save-time snapshots.
func (s *Service) Store() *transform.Store { return s.store }

// GenerateNotes produces canonical notes from raw text. With an empty
// sessionID a new session is started; otherwise the session's notes are
// replaced and every cached artifact is discarded.
func (s *Service) GenerateNotes(ctx context.Context, text, sessionID string) (string, string, error) {
	if strings.TrimSpace(text) == "" {
		return "", "", ErrEmptySource
	}

	raw, err := s.ai.GenerateWithRetry(ctx, llm.Request{
		System:          notesSystemPrompt,
		Prompt:          "Text to analyze:\n" + llm.TruncateText(text, maxSourceTextRunes),
		Assignment:      s.cfg.NotesModel,
		MaxOutputTokens: notesMaxTokens,
	})
	if err != nil {
		return "", "", err
	}
	if err := ValidateCanonicalNotes(raw); err != nil {
		return "", "", err
	}

	if sessionID == "" {
		sessionID = s.store.StartSession(raw)
	} else if err := s.store.SetNotes(sessionID, raw); err != nil {
		return "", "", err
	}

	s.logger.Info("canonical notes generated",
		zap.String("session_id", sessionID),
		zap.Int("notes_len", len(raw)),
	)
	return sessionID, raw, nil
}

// GenerateNotesFromURL fetches an article, reduces it to text, and runs the
// same notes generation.
func (s *Service) GenerateNotesFromURL(ctx context.Context, url, sessionID string) (string, string, error) {
	text, err := FetchArticleText(ctx, url)
	if err != nil {
		return "", "", err
	}
	return s.GenerateNotes(ctx, text, sessionID)
}

// RequestFormat derives (or returns the cached) artifact for one format.
func (s *Service) RequestFormat(ctx context.Context, sessionID, format string) (*transform.Artifact, error) {
	target, err := transform.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return s.store.RequestFormat(ctx, sessionID, target)
}

// Session returns the canonical notes and the current artifact snapshot.
func (s *Service) Session(sessionID string) (string, map[transform.Format]*transform.Artifact, error) {
	notes, err := s.store.Notes(sessionID)
	if err != nil {
		return "", nil, err
	}
	artifacts, err := s.store.Artifacts(sessionID)
	if err != nil {
		return "", nil, err
	}
	return notes, artifacts, nil
}

// FlashcardsFromText generates a deck straight from raw text, without a
// canonical-notes session.
func (s *Service) FlashcardsFromText(ctx context.Context, text string) ([]models.Flashcard, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySource
	}

	var cards []models.Flashcard
	err := s.ai.GenerateJSON(ctx, llm.Request{
		System:          flashcardsFromTextSystemPrompt,
		Prompt:          "Text:\n" + llm.TruncateText(text, maxSourceTextRunes),
		Assignment:      s.cfg.TransformModel,
		MaxOutputTokens: 3000,
	}, &cards)
	if err != nil {
		return nil, err
	}
	if err := transform.ValidateFlashcards(cards); err != nil {
		return nil, err
	}
	return cards, nil
}
