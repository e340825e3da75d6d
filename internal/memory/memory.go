// internal/memory/memory.go

// Package memory implements the per-observer belief maps that make Cabo a
// memory game. Every player, human and AI alike, tracks their own private
// view of which card they believe occupies which table position. Beliefs are
// subjective and can go stale; whichever action moves or reveals a card is
// responsible for updating or clearing the affected entries for every
// observer.
package memory

import "github.com/cardtable/cabo/internal/models"

// Memory is one observer's private belief map from table position to the
// card believed to sit there. It is not safe for concurrent use; the owning
// game session serializes all access.
type Memory struct {
	beliefs map[models.Position]models.Card
}

// New returns an empty belief map.
func New() *Memory {
	return &Memory{beliefs: make(map[models.Position]models.Card)}
}

// Set records that the observer believes card c occupies pos. The card's
// identity is copied; later mutation of the table card does not retroactively
// change the belief.
func (m *Memory) Set(pos models.Position, c *models.Card) {
	if c == nil {
		return
	}
	m.beliefs[pos] = models.Card{Rank: c.Rank, Suit: c.Suit}
}

// Get returns the believed card at pos, if any.
func (m *Memory) Get(pos models.Position) (models.Card, bool) {
	c, ok := m.beliefs[pos]
	return c, ok
}

// Knows reports whether the observer holds any belief about pos.
func (m *Memory) Knows(pos models.Position) bool {
	_, ok := m.beliefs[pos]
	return ok
}

// Forget drops any belief about pos.
func (m *Memory) Forget(pos models.Position) {
	delete(m.beliefs, pos)
}

// Transpose exchanges the beliefs held at a and b, following the cards
// through a swap the observer witnessed without seeing the faces. A belief
// held about only one side moves to the other side; knowing neither leaves
// the map unchanged.
func (m *Memory) Transpose(a, b models.Position) {
	ca, okA := m.beliefs[a]
	cb, okB := m.beliefs[b]
	delete(m.beliefs, a)
	delete(m.beliefs, b)
	if okA {
		m.beliefs[b] = ca
	}
	if okB {
		m.beliefs[a] = cb
	}
}

// Len returns the number of positions the observer holds beliefs about.
func (m *Memory) Len() int {
	return len(m.beliefs)
}

// Snapshot returns a copy of all current beliefs, keyed by position. Used by
// the view layer for the memory-aid display.
func (m *Memory) Snapshot() map[models.Position]models.Card {
	out := make(map[models.Position]models.Card, len(m.beliefs))
	for pos, c := range m.beliefs {
		out[pos] = c
	}
	return out
}
