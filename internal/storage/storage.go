// Package storage keeps an in-memory record of completed scan attempts for
// the serve API.
package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lotverify/docscan/internal/capture"
	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/workflow"
)

// ScanSession is one document pass through the workflow.
type ScanSession struct {
	ID        string              `json:"id"`
	State     workflow.State      `json:"state"`
	Image     *capture.Image      `json:"image,omitempty"`
	Result    *gateway.ScanResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
	Verified  bool                `json:"verified"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// SessionStore is a concurrency-safe in-memory session map.
type SessionStore struct {
	sessions map[string]*ScanSession
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*ScanSession),
	}
}

func (s *SessionStore) Get(sessionID string) (*ScanSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *ScanSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

func (s *SessionStore) GetAll() map[string]*ScanSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*ScanSession, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
