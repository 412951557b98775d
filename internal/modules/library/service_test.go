package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studykit/core/internal/database"
	"github.com/studykit/core/internal/models"
	"github.com/studykit/core/internal/transform"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func TestValidateContent(t *testing.T) {
	require.NoError(t, validateContent(models.BundleStudyNotes, models.BundleContent{
		StudyNotes: "## BACKGROUND\n...",
	}))
	require.NoError(t, validateContent(models.BundleFlashcards, models.BundleContent{
		Flashcards: []models.Flashcard{{Question: "q", Answer: "a"}},
	}))
	require.NoError(t, validateContent(models.BundleQuiz, models.BundleContent{
		Quiz: []models.QuizQuestion{{Question: "q", Answer: "a", Options: []string{"a", "b"}}},
	}))
	require.NoError(t, validateContent(models.BundleArticleAnalysis, models.BundleContent{
		VocabularyAndPhrases: []models.VocabularyEntry{{Term: "grandiose", Definition: "impressive in scale"}},
	}))
}

func TestValidateContentRejectsMismatches(t *testing.T) {
	assert.ErrorIs(t, validateContent(models.BundleStudyNotes, models.BundleContent{}), ErrInvalidBundle)
	assert.ErrorIs(t, validateContent(models.BundleFlashcards, models.BundleContent{}), ErrInvalidBundle)
	assert.ErrorIs(t, validateContent(models.BundleFlashcards, models.BundleContent{
		Flashcards: []models.Flashcard{{Question: "q", Answer: " "}},
	}), ErrInvalidBundle)
	assert.ErrorIs(t, validateContent(models.BundleQuiz, models.BundleContent{}), ErrInvalidBundle)
	assert.ErrorIs(t, validateContent(models.BundleArticleAnalysis, models.BundleContent{}), ErrInvalidBundle)
	assert.ErrorIs(t, validateContent(models.BundleType("mixtape"), models.BundleContent{}), ErrInvalidBundle)
}

// stubTransformer derives canned artifacts; with release set it blocks until
// the channel closes.
type stubTransformer struct {
	release chan struct{}
}

func (s *stubTransformer) Transform(ctx context.Context, notes string, target transform.Format) (*transform.Artifact, error) {
	if s.release != nil {
		<-s.release
	}
	if target == transform.FormatFlashcards {
		return &transform.Artifact{Kind: target, Cards: []models.Flashcard{{Question: "q", Answer: "a"}}}, nil
	}
	return &transform.Artifact{Kind: target, Summary: "summary of: " + notes}, nil
}

func TestSessionBundleContentSnapshot(t *testing.T) {
	store := transform.NewStore(&stubTransformer{})
	id := store.StartSession("## BACKGROUND\ncell biology")

	_, err := store.RequestFormat(context.Background(), id, transform.FormatSummary)
	require.NoError(t, err)

	notes, err := store.Notes(id)
	require.NoError(t, err)
	artifacts, err := store.Artifacts(id)
	require.NoError(t, err)

	content := sessionBundleContent(notes, artifacts)
	assert.Equal(t, notes, content.StudyNotes)
	assert.NotEmpty(t, content.Summary)
	assert.Empty(t, content.Flashcards)
	require.NoError(t, validateContent(models.BundleStudyNotes, content))
}

func TestSessionBundleContentExcludesInFlightDerivation(t *testing.T) {
	tf := &stubTransformer{release: make(chan struct{})}
	store := transform.NewStore(tf)
	id := store.StartSession("notes")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.RequestFormat(context.Background(), id, transform.FormatFlashcards)
	}()
	time.Sleep(50 * time.Millisecond)

	notes, err := store.Notes(id)
	require.NoError(t, err)
	artifacts, err := store.Artifacts(id)
	require.NoError(t, err)

	// The save-time snapshot carries only what has finished deriving.
	content := sessionBundleContent(notes, artifacts)
	assert.Equal(t, notes, content.StudyNotes)
	assert.Empty(t, content.Summary)
	assert.Empty(t, content.Flashcards)

	close(tf.release)
	<-done
}

func bundleDoc(topic string, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "user_id", Value: "u1"},
		{Key: "topic", Value: topic},
		{Key: "type", Value: string(models.BundleStudyNotes)},
		{Key: "content", Value: bson.D{{Key: "study_notes", Value: "## BACKGROUND\n..."}}},
		{Key: "created_at", Value: createdAt},
	}
}

func TestSaveAppendsSingleDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save issues one insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		svc := NewService(mt.DB, nil, zap.NewNop())

		id, err := svc.Save(context.Background(), "u1", "Bio Ch.1", models.BundleStudyNotes, models.BundleContent{
			StudyNotes: "## BACKGROUND\n...",
		})
		require.NoError(mt, err)
		assert.Len(mt, id, 24)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		assert.Equal(mt, "u1", evt.Command.Lookup("documents", "0", "user_id").StringValue())
	})

	mt.Run("storage failure surfaces as persistence error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted",
			Name:    "InterruptedAtShutdown",
		}))
		svc := NewService(mt.DB, nil, zap.NewNop())

		_, err := svc.Save(context.Background(), "u1", "Bio Ch.1", models.BundleStudyNotes, models.BundleContent{
			StudyNotes: "## BACKGROUND\n...",
		})
		var perr *database.PersistenceError
		require.ErrorAs(mt, err, &perr)
		assert.Equal(mt, "save bundle", perr.Op)
	})
}

func TestListReturnsNewestFirst(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list sorts by created_at descending", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + models.CollectionBundles
		now := time.Now()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bundleDoc("newer", now),
				bundleDoc("older", now.Add(-time.Hour)),
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)
		svc := NewService(mt.DB, nil, zap.NewNop())

		bundles, err := svc.List(context.Background(), "u1")
		require.NoError(mt, err)
		require.Len(mt, bundles, 2)
		assert.Equal(mt, "newer", bundles[0].Topic)
		assert.Equal(mt, "older", bundles[1].Topic)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, "u1", evt.Command.Lookup("filter", "user_id").StringValue())
		sortDir, ok := evt.Command.Lookup("sort", "created_at").AsInt64OK()
		require.True(mt, ok)
		assert.Equal(mt, int64(-1), sortDir)
	})

	mt.Run("user with no bundles gets an empty slice", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + models.CollectionBundles
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		svc := NewService(mt.DB, nil, zap.NewNop())

		bundles, err := svc.List(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Empty(mt, bundles)
	})
}
