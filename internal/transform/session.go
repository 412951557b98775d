package transform

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoNotes is returned when a derivation is requested before canonical
// notes exist for the session.
var ErrNoNotes = errors.New("session has no canonical notes")

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

const defaultSessionTTL = 24 * time.Hour

// inflight tracks one in-progress derivation. Waiters block on done and then
// read artifact/err.
type inflight struct {
	done     chan struct{}
	artifact *Artifact
	err      error
}

type session struct {
	id         string
	notes      string
	derived    map[Format]*Artifact
	inProgress map[Format]*inflight
	touchedAt  time.Time
}

// Store is the per-session derivation state machine. Each format moves
// independently through absent, deriving, and derived; generating new
// canonical notes resets every format to absent. At most one derivation per
// (session, format) runs at a time; concurrent requesters for the same
// format await the first call's result.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*session
	transformer Transformer
	ttl         time.Duration
}

func NewStore(transformer Transformer) *Store {
	return &Store{
		sessions:    make(map[string]*session),
		transformer: transformer,
		ttl:         defaultSessionTTL,
	}
}

// StartSession creates a session holding the given canonical notes and
// returns its id.
func (s *Store) StartSession(notes string) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &session{
		id:         id,
		notes:      notes,
		derived:    make(map[Format]*Artifact),
		inProgress: make(map[Format]*inflight),
		touchedAt:  time.Now(),
	}
	s.mu.Unlock()
	return id
}

// SetNotes replaces a session's canonical notes and discards every cached
// artifact. The next request for any format derives it again.
func (s *Store) SetNotes(sessionID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.notes = notes
	sess.derived = make(map[Format]*Artifact)
	// Detach in-flight derivations: their waiters still get the old result,
	// but nothing started before the reset may serve or cache into the new
	// notes generation.
	sess.inProgress = make(map[Format]*inflight)
	sess.touchedAt = time.Now()
	return nil
}

// Notes returns a session's canonical notes.
func (s *Store) Notes(sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return sess.notes, nil
}

// Artifacts returns a snapshot of the session's derived artifacts. A save
// observes whatever exists at call time; in-flight derivations are not
// awaited.
func (s *Store) Artifacts(sessionID string) (map[Format]*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	snapshot := make(map[Format]*Artifact, len(sess.derived))
	for k, v := range sess.derived {
		snapshot[k] = v
	}
	return snapshot, nil
}

// RequestFormat returns the derived artifact for the given format, deriving
// it on first request. A cached artifact is returned without calling the
// transformer. If the same format is already deriving, the call awaits that
// result instead of issuing a second transformer call. On failure the format
// reverts to absent and the error is surfaced.
func (s *Store) RequestFormat(ctx context.Context, sessionID string, target Format) (*Artifact, error) {
	if _, err := ParseFormat(string(target)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	sess.touchedAt = time.Now()
	if sess.notes == "" {
		s.mu.Unlock()
		return nil, ErrNoNotes
	}
	if artifact, ok := sess.derived[target]; ok {
		s.mu.Unlock()
		return artifact, nil
	}
	if call, ok := sess.inProgress[target]; ok {
		s.mu.Unlock()
		return awaitInflight(ctx, call)
	}

	call := &inflight{done: make(chan struct{})}
	sess.inProgress[target] = call
	notes := sess.notes
	s.mu.Unlock()

	artifact, err := s.transformer.Transform(ctx, notes, target)

	s.mu.Lock()
	// The session may have been reset or pruned while deriving; only cache
	// into the same generation that started the call.
	if cur, ok := s.sessions[sessionID]; ok && cur.inProgress[target] == call {
		delete(cur.inProgress, target)
		if err == nil && cur.notes == notes {
			cur.derived[target] = artifact
		}
	}
	s.mu.Unlock()

	call.artifact = artifact
	call.err = err
	close(call.done)

	return artifact, err
}

func awaitInflight(ctx context.Context, call *inflight) (*Artifact, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.done:
		return call.artifact, call.err
	}
}

// PruneStale drops sessions untouched for longer than the store TTL and
// returns how many were removed. In-flight derivations keep their waiters;
// only the cached state goes away.
func (s *Store) PruneStale(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.touchedAt) > s.ttl && len(sess.inProgress) == 0 {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
