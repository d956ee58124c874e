package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/hotzone"
	"github.com/dgallion1/docstruct/internal/metrics"
)

// Store is a thread-safe in-memory session registry with TTL eviction.
// Uploads with identical content share one session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byHash   map[string]string
	ttl      time.Duration

	classifier *hotzone.Classifier
	log        *slog.Logger
	metrics    *metrics.Recorder

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

func NewStore(ttl time.Duration, hz hotzone.Config, log *slog.Logger, rec *metrics.Recorder) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		byHash:     make(map[string]string),
		ttl:        ttl,
		classifier: hotzone.NewClassifier(hz),
		log:        log,
		metrics:    rec,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
}

// Create opens a session on doc. When contentHash matches a live session
// that session is returned with created false.
func (s *Store) Create(doc *doctree.Document, filename, contentHash string) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contentHash != "" {
		if id, ok := s.byHash[contentHash]; ok {
			if existing, ok := s.sessions[id]; ok {
				existing.touch()
				return existing, false
			}
		}
	}

	sess = newSession(s.newID(), doc, s.classifier, s.log, s.metrics)
	sess.Filename = filename
	sess.ContentHash = contentHash
	s.sessions[sess.ID] = sess
	if contentHash != "" {
		s.byHash[contentHash] = sess.ID
	}
	s.metrics.SetSessions(len(s.sessions))
	return sess, true
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	if sess != nil {
		sess.touch()
	}
	return sess
}

// Delete closes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	s.removeLocked(sess)
	return true
}

// List returns every open session, oldest first.
func (s *Store) List() []Info {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	out := make([]Info, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for _, sess := range s.sessions {
		if now.Sub(sess.lastUsed()) > s.ttl {
			s.removeLocked(sess)
			removed++
		}
	}
	return removed
}

// Run evicts expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				s.log.Info("evicted idle sessions", "count", n)
			}
		}
	}
}

func (s *Store) removeLocked(sess *Session) {
	delete(s.sessions, sess.ID)
	if sess.ContentHash != "" && s.byHash[sess.ContentHash] == sess.ID {
		delete(s.byHash, sess.ContentHash)
	}
	s.metrics.SetSessions(len(s.sessions))
}

func (s *Store) newID() string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
