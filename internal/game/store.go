// internal/game/store.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore holds all live game sessions in memory, keyed by session ID.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*CaboGame
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*CaboGame),
	}
}

func (s *SessionStore) Add(g *CaboGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[g.ID] = g
}

func (s *SessionStore) Get(id uuid.UUID) (*CaboGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.sessions[id]
	return g, exists
}

func (s *SessionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
