package session

import (
	"strings"
	"sync"
)

// Sessions is the live-session set, keyed by the full (username, key) pair.
// One user may hold several concurrent sessions.
type Sessions struct {
	mu   sync.RWMutex
	live map[Session]struct{}
}

// NewSessions creates an empty live-session set.
func NewSessions() *Sessions {
	return &Sessions{live: make(map[Session]struct{})}
}

// Add registers a session.
func (s *Sessions) Add(sess Session) {
	s.mu.Lock()
	s.live[sess] = struct{}{}
	s.mu.Unlock()
}

// Contains reports whether the exact (username, key) pair is registered.
// No partial matching.
func (s *Sessions) Contains(sess Session) bool {
	s.mu.RLock()
	_, ok := s.live[sess]
	s.mu.RUnlock()
	return ok
}

// Destroy removes every session whose username matches, case-insensitively,
// and returns how many were removed. Matches are collected before removal so
// the map is never mutated while it is being iterated.
func (s *Sessions) Destroy(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Session
	for sess := range s.live {
		if strings.EqualFold(sess.Username, username) {
			matched = append(matched, sess)
		}
	}
	for _, sess := range matched {
		delete(s.live, sess)
	}
	return len(matched)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}
