package aggregate

import (
	"sync"

	"kycflow/domain/onboarding"
)

// DefaultSessionID is used when a fragment arrives without a session id
const DefaultSessionID = "default_session"

// Store accumulates application fragments per session in memory. A session holds
// at most one fragment per kind; a repeated kind replaces the earlier fragment but
// keeps its original position in the merge order.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	order []onboarding.PartKind
	parts map[onboarding.PartKind]map[string]interface{}
}

// Submission describes the state of a session after a fragment was added
type Submission struct {
	Kind       onboarding.PartKind
	Classified bool
	Parts      []onboarding.PartKind
	// Merged is set once every kind is present
	Merged map[string]interface{}
}

// Complete reports whether the session held every kind after the fragment was added
func (s Submission) Complete() bool {
	return s.Merged != nil
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// Add classifies payload and stores it under sessionID. An unclassified payload is
// not stored, but the session is still opened.
func (s *Store) Add(sessionID string, payload map[string]interface{}) Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{parts: make(map[onboarding.PartKind]map[string]interface{}, onboarding.PartCount)}
		s.sessions[sessionID] = sess
	}

	kind, classified := onboarding.Classify(payload)
	if classified {
		if _, seen := sess.parts[kind]; !seen {
			sess.order = append(sess.order, kind)
		}
		sess.parts[kind] = payload
	}

	submission := Submission{
		Kind:       kind,
		Classified: classified,
		Parts:      append([]onboarding.PartKind(nil), sess.order...),
	}
	if len(sess.parts) == onboarding.PartCount {
		submission.Merged = sess.merge()
	}
	return submission
}

// Parts lists the kinds held for sessionID in arrival order
func (s *Store) Parts(sessionID string) ([]onboarding.PartKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return append([]onboarding.PartKind(nil), sess.order...), true
}

// Remove drops sessionID
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of open sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// merge folds the fragments in arrival order; later keys override earlier ones
func (sess *session) merge() map[string]interface{} {
	merged := make(map[string]interface{})
	for _, kind := range sess.order {
		for key, value := range sess.parts[kind] {
			merged[key] = value
		}
	}
	return merged
}
