package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ritikiit/careergps1/internal/metrics"
	"github.com/ritikiit/careergps1/internal/pipeline"
)

// ControllerFactory creates the controller for a new session.
type ControllerFactory func() *pipeline.Controller

type session struct {
	controller *pipeline.Controller
	lastSeen   time.Time
}

// SessionStore keeps one controller per browser session in memory.
type SessionStore struct {
	ttl     time.Duration
	factory ControllerFactory
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// NewSessionStore creates an empty store. Sessions idle for longer than ttl are
// dropped by Sweep.
func NewSessionStore(ttl time.Duration, factory ControllerFactory) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Controller returns the controller of session id, creating it on first use.
func (s *SessionStore) Controller(id uuid.UUID) *pipeline.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{controller: s.factory()}
		s.sessions[id] = sess
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
	sess.lastSeen = s.now()
	return sess.controller
}

// Sweep drops idle sessions and returns how many were removed. Sessions still
// generating a report are kept.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.After(cutoff) {
			continue
		}
		if sess.controller.Snapshot().State == pipeline.StateLoading {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return removed
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunSweeper calls Sweep every interval until stop is closed.
func (s *SessionStore) RunSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-stop:
			return
		}
	}
}
