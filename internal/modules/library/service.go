package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studykit/core/internal/database"
	"github.com/studykit/core/internal/models"
	"github.com/studykit/core/internal/transform"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrInvalidBundle is returned when a save request's content does not match
// its declared type.
var ErrInvalidBundle = errors.New("bundle content does not match its type")

// Service is the append-only bundle store. Saves are single atomic document
// inserts; no update or delete is exposed.
type Service struct {
	db       *mongo.Database
	sessions *transform.Store
	logger   *zap.Logger
}

func NewService(db *mongo.Database, sessions *transform.Store, logger *zap.Logger) *Service {
	return &Service{db: db, sessions: sessions, logger: logger}
}

func (s *Service) collection() *mongo.Collection {
	return s.db.Collection(models.CollectionBundles)
}

// Save validates and appends one bundle, returning the new document id.
func (s *Service) Save(ctx context.Context, userID, topic string, bundleType models.BundleType, content models.BundleContent) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: user id is required", ErrInvalidBundle)
	}
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("%w: topic is required", ErrInvalidBundle)
	}
	if err := validateContent(bundleType, content); err != nil {
		return "", err
	}

	bundle := models.SavedBundle{
		UserID:    userID,
		Topic:     topic,
		Type:      bundleType,
		Content:   content,
		CreatedAt: time.Now(),
	}
	res, err := s.collection().InsertOne(ctx, bundle)
	if err != nil {
		return "", &database.PersistenceError{Op: "save bundle", Err: err}
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	s.logger.Info("bundle saved",
		zap.String("user_id", userID),
		zap.String("type", string(bundleType)),
		zap.String("id", id.Hex()),
	)
	return id.Hex(), nil
}

// SaveSession appends a study-notes bundle built from the current session
// snapshot: canonical notes plus whichever derived artifacts exist right now.
// In-flight derivations are not awaited.
func (s *Service) SaveSession(ctx context.Context, userID, topic, sessionID string) (string, error) {
	notes, err := s.sessions.Notes(sessionID)
	if err != nil {
		return "", err
	}
	artifacts, err := s.sessions.Artifacts(sessionID)
	if err != nil {
		return "", err
	}
	return s.Save(ctx, userID, topic, models.BundleStudyNotes, sessionBundleContent(notes, artifacts))
}

// sessionBundleContent assembles the save-time snapshot: the canonical notes
// plus every artifact derived so far.
func sessionBundleContent(notes string, artifacts map[transform.Format]*transform.Artifact) models.BundleContent {
	content := models.BundleContent{StudyNotes: notes}
	if a, ok := artifacts[transform.FormatSummary]; ok {
		content.Summary = a.Summary
	}
	if a, ok := artifacts[transform.FormatFlashcards]; ok {
		content.Flashcards = a.Cards
	}
	return content
}

// List returns the user's bundles newest first. A user with no bundles gets
// an empty slice, not an error.
func (s *Service) List(ctx context.Context, userID string) ([]models.SavedBundle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.collection().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, &database.PersistenceError{Op: "list bundles", Err: err}
	}
	defer cur.Close(ctx)

	bundles := make([]models.SavedBundle, 0)
	if err := cur.All(ctx, &bundles); err != nil {
		return nil, &database.PersistenceError{Op: "list bundles", Err: err}
	}
	return bundles, nil
}

// validateContent enforces the type/content consistency invariant.
func validateContent(bundleType models.BundleType, content models.BundleContent) error {
	switch bundleType {
	case models.BundleStudyNotes:
		if strings.TrimSpace(content.StudyNotes) == "" {
			return fmt.Errorf("%w: study-notes bundle needs canonical notes", ErrInvalidBundle)
		}
	case models.BundleFlashcards:
		if len(content.Flashcards) == 0 {
			return fmt.Errorf("%w: flashcards bundle needs a non-empty card list", ErrInvalidBundle)
		}
		for _, card := range content.Flashcards {
			if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
				return fmt.Errorf("%w: flashcards bundle has a card missing a question or answer", ErrInvalidBundle)
			}
		}
	case models.BundleQuiz:
		if len(content.Quiz) == 0 {
			return fmt.Errorf("%w: quiz bundle needs a non-empty question list", ErrInvalidBundle)
		}
	case models.BundleArticleAnalysis:
		if len(content.VocabularyAndPhrases) == 0 {
			return fmt.Errorf("%w: article-analysis bundle needs a non-empty vocabulary list", ErrInvalidBundle)
		}
	default:
		return fmt.Errorf("%w: unknown bundle type %q", ErrInvalidBundle, bundleType)
	}
	return nil
}
