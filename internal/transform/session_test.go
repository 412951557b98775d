package transform

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studykit/core/internal/models"
)

// fakeTransformer counts invocations and can block until released.
type fakeTransformer struct {
	calls   atomic.Int64
	release chan struct{}
	err     error
}

func (f *fakeTransformer) Transform(ctx context.Context, notes string, target Format) (*Artifact, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	switch target {
	case FormatSummary:
		return &Artifact{Kind: FormatSummary, Summary: "summary of: " + notes}, nil
	case FormatFlashcards:
		return &Artifact{Kind: FormatFlashcards, Cards: []models.Flashcard{{Question: "q", Answer: "a"}}}, nil
	}
	return nil, ErrInvalidFormat
}

func TestRequestFormatCachesArtifact(t *testing.T) {
	tf := &fakeTransformer{}
	store := NewStore(tf)
	id := store.StartSession("cell biology notes")

	first, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), tf.calls.Load())
}

func TestRequestFormatFormatsAreIndependent(t *testing.T) {
	tf := &fakeTransformer{}
	store := NewStore(tf)
	id := store.StartSession("notes")

	summary, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.NoError(t, err)
	assert.Equal(t, FormatSummary, summary.Kind)

	cards, err := store.RequestFormat(context.Background(), id, FormatFlashcards)
	require.NoError(t, err)
	assert.Equal(t, FormatFlashcards, cards.Kind)
	assert.Equal(t, int64(2), tf.calls.Load())

	artifacts, err := store.Artifacts(id)
	require.NoError(t, err)
	assert.Len(t, artifacts, 2)
}

func TestSetNotesResetsDerivedArtifacts(t *testing.T) {
	tf := &fakeTransformer{}
	store := NewStore(tf)
	id := store.StartSession("first notes")

	_, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.NoError(t, err)

	require.NoError(t, store.SetNotes(id, "second notes"))

	artifacts, err := store.Artifacts(id)
	require.NoError(t, err)
	assert.Empty(t, artifacts)

	regenerated, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.NoError(t, err)
	assert.Equal(t, "summary of: second notes", regenerated.Summary)
	assert.Equal(t, int64(2), tf.calls.Load())
}

func TestRequestFormatConcurrentCallersShareOneDerivation(t *testing.T) {
	tf := &fakeTransformer{release: make(chan struct{})}
	store := NewStore(tf)
	id := store.StartSession("notes")

	const waiters = 8
	results := make([]*Artifact, waiters)
	errs := make([]error, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.RequestFormat(context.Background(), id, FormatSummary)
		}(i)
	}

	// Let every goroutine reach the store before the transform finishes.
	time.Sleep(50 * time.Millisecond)
	close(tf.release)
	wg.Wait()

	assert.Equal(t, int64(1), tf.calls.Load())
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
}

func TestRequestFormatFailureRevertsToAbsent(t *testing.T) {
	tf := &fakeTransformer{err: errors.New("upstream exploded")}
	store := NewStore(tf)
	id := store.StartSession("notes")

	_, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.Error(t, err)

	artifacts, err := store.Artifacts(id)
	require.NoError(t, err)
	assert.Empty(t, artifacts)

	// The failed format derives again on the next request.
	tf.err = nil
	artifact, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.NoError(t, err)
	assert.NotNil(t, artifact)
	assert.Equal(t, int64(2), tf.calls.Load())
}

func TestRequestFormatDoesNotCacheAcrossReset(t *testing.T) {
	tf := &fakeTransformer{release: make(chan struct{})}
	store := NewStore(tf)
	id := store.StartSession("old notes")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.RequestFormat(context.Background(), id, FormatSummary)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, store.SetNotes(id, "new notes"))
	close(tf.release)
	<-done

	// The stale derivation must not land in the refreshed session.
	artifacts, err := store.Artifacts(id)
	require.NoError(t, err)
	assert.Empty(t, artifacts)

	// A request after the reset derives from the new notes.
	fresh, err := store.RequestFormat(context.Background(), id, FormatSummary)
	require.NoError(t, err)
	assert.Equal(t, "summary of: new notes", fresh.Summary)
	assert.Equal(t, int64(2), tf.calls.Load())
}

func TestRequestFormatErrors(t *testing.T) {
	store := NewStore(&fakeTransformer{})

	_, err := store.RequestFormat(context.Background(), "nope", FormatSummary)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	id := store.StartSession("")
	_, err = store.RequestFormat(context.Background(), id, FormatSummary)
	assert.ErrorIs(t, err, ErrNoNotes)

	id2 := store.StartSession("notes")
	_, err = store.RequestFormat(context.Background(), id2, Format("mindmap"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPruneStale(t *testing.T) {
	store := NewStore(&fakeTransformer{})
	store.StartSession("notes")
	assert.Equal(t, 1, store.Len())

	assert.Equal(t, 0, store.PruneStale(time.Now()))
	assert.Equal(t, 1, store.PruneStale(time.Now().Add(25*time.Hour)))
	assert.Equal(t, 0, store.Len())
}
