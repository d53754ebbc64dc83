package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/briefly/briefly-backend/internal/models"
)

// Session co-locates a document with the client's block progress. The two are
// created and deleted together; Progress is created lazily on the first
// summary write.
type Session struct {
	Document *models.Document

	mu       sync.Mutex
	progress *models.SessionProgress
}

// HasProgress reports whether any block summary has been generated or
// scheduled for this session.
func (s *Session) HasProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress != nil
}

// CurrentBlock returns the highest block the session has advanced to.
func (s *Session) CurrentBlock() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return 0
	}
	return s.progress.LastBlock
}

// CachedSummary returns the memoized summary for a block, if present.
func (s *Session) CachedSummary(block int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return "", false
	}
	text, ok := s.progress.Summaries[block]
	return text, ok
}

// StoreSummary memoizes a block summary. Entries are write-once: a second
// write for the same block keeps the first value and reports false. Progress
// is created here if the session has none yet.
func (s *Session) StoreSummary(block int, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress == nil {
		s.progress = &models.SessionProgress{
			LastBlock:      block,
			LastAdvancedAt: time.Now(),
			Summaries:      make(map[int]string),
		}
	}

	if _, exists := s.progress.Summaries[block]; exists {
		return false
	}
	s.progress.Summaries[block] = text
	return true
}

// Advance moves the session to nextBlock if at least minInterval has passed
// since the previous advance. The check-then-set is one critical section; on
// refusal it reports the whole seconds left to wait and changes nothing.
func (s *Session) Advance(nextBlock int, minInterval time.Duration, now time.Time) (remaining int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress == nil {
		return 0, false
	}

	elapsed := now.Sub(s.progress.LastAdvancedAt)
	if elapsed < minInterval {
		return int((minInterval - elapsed).Seconds()), false
	}

	s.progress.LastBlock = nextBlock
	s.progress.LastAdvancedAt = now
	return 0, true
}

// Store is the in-memory session store. It owns every Document and
// SessionProgress in the process and is safe for concurrent use by request
// handlers and the reaper.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      *logrus.Logger
}

// New creates an empty session store.
func New(log *logrus.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		log:      log,
	}
}

// Create registers a freshly extracted document under a new session ID and
// returns the session. The document's SessionID and CreatedAt are set here.
func (s *Store) Create(doc *models.Document) *Session {
	doc.SessionID = uuid.NewString()
	doc.CreatedAt = time.Now()

	sess := &Session{Document: doc}

	s.mu.Lock()
	s.sessions[doc.SessionID] = sess
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"session_id": doc.SessionID,
		"document":   doc.Name,
		"pages":      doc.TotalPages,
	}).Info("session created")

	return sess
}

// Get returns the session for an ID, if it exists.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes a session and everything it owns. It reports whether the
// session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.log.WithField("session_id", id).Info("session deleted")
	}
	return ok
}

// StoreSummary memoizes a block summary for a session, looking the session up
// first so a late result for a reclaimed session is silently discarded.
func (s *Store) StoreSummary(id string, block int, text string) bool {
	sess, ok := s.Get(id)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"session_id": id,
			"block":      block,
		}).Debug("dropping summary for reclaimed session")
		return false
	}
	return sess.StoreSummary(block, text)
}

// Sweep deletes every session whose document is older than ttl and returns
// how many were reclaimed.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	var reaped []string
	for id, sess := range s.sessions {
		if sess.Document.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			reaped = append(reaped, id)
		}
	}
	s.mu.Unlock()

	for _, id := range reaped {
		s.log.WithField("session_id", id).Info("session reclaimed after TTL")
	}
	return len(reaped)
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
