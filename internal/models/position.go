// internal/models/position.go
package models

import "fmt"

// Position addresses one card slot on the table by player and slot index.
// It is a value type so it can key observer memory maps directly.
type Position struct {
	Player int `json:"player"`
	Card   int `json:"card"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d-%d", p.Player, p.Card)
}

// SlotLabel returns a human-readable name for a slot in a hand of the given
// size. Four-card hands use the table layout names; larger hands (after
// penalty draws) fall back to numbered positions.
func SlotLabel(handSize, idx int) string {
	if handSize == 4 && idx >= 0 && idx < 4 {
		return [...]string{"top-left", "top-right", "bottom-left", "bottom-right"}[idx]
	}
	return fmt.Sprintf("position %d", idx+1)
}
