// internal/models/player.go
package models

// Player is one seat at the table. Cards is a fixed-position slot array: a
// nil entry is a permanent gap left by a matched-away card, not a removed
// element. Penalty cards are appended; indices of existing slots never shift.
type Player struct {
	Name    string  `json:"name"`
	IsHuman bool    `json:"isHuman"`
	Cards   []*Card `json:"cards"`
}

// CardCount returns the number of occupied slots.
func (p *Player) CardCount() int {
	n := 0
	for _, c := range p.Cards {
		if c != nil {
			n++
		}
	}
	return n
}

// OccupiedSlots returns the indices of all non-nil slots in order.
func (p *Player) OccupiedSlots() []int {
	var idxs []int
	for i, c := range p.Cards {
		if c != nil {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
