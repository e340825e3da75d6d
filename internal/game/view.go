// internal/game/view.go
package game

import "github.com/cardtable/cabo/internal/models"

// SlotView is one table slot as shown to the human. Card carries the true
// card only when the rules reveal it; Believed carries the human's own
// remembered card when memory aids are enabled.
type SlotView struct {
	Present  bool         `json:"present"`
	Card     *models.Card `json:"card,omitempty"`
	Believed *models.Card `json:"believed,omitempty"`
}

// PlayerView is one seat in the snapshot.
type PlayerView struct {
	Name    string      `json:"name"`
	IsHuman bool        `json:"isHuman"`
	Cards   []*SlotView `json:"cards"`
}

// ViewState is the full human-facing snapshot of a session. It contains
// nothing the human is not entitled to see: hidden cards appear only as
// occupied slots.
type ViewState struct {
	GameID        string       `json:"gameId"`
	Phase         Phase        `json:"phase"`
	Message       string       `json:"message"`
	Log           []string     `json:"log"`
	DeckSize      int          `json:"deckSize"`
	DiscardSize   int          `json:"discardSize"`
	DiscardTop    *models.Card `json:"discardTop,omitempty"`
	Players       []PlayerView `json:"players"`
	CurrentPlayer int          `json:"currentPlayer"`

	DrawnCard *models.Card `json:"drawnCard,omitempty"`
	DrawnFrom DrawSource   `json:"drawnFrom,omitempty"`

	CaboCaller    *int `json:"caboCaller,omitempty"`
	TurnsUntilEnd int  `json:"turnsUntilEnd,omitempty"`

	// Selection highlights for in-progress multi-step interactions.
	PeekReveal     *models.Position `json:"peekReveal,omitempty"`
	PowerSwapFirst *models.Position `json:"powerSwapFirst,omitempty"`
	BKOwnSelect    *models.Position `json:"bkOwnSelect,omitempty"`
	BKOppSelect    *models.Position `json:"bkOppSelect,omitempty"`

	Round       int            `json:"round"`
	TotalRounds int            `json:"totalRounds"`
	Scores      []RoundScore   `json:"scores,omitempty"`
	MatchTotals []int          `json:"matchTotals"`
	RoundCount  int            `json:"roundCount"`
	History     [][]RoundScore `json:"history,omitempty"`
}

// BuildView assembles the human-facing snapshot. Assumes lock is held.
func (g *CaboGame) BuildView() *ViewState {
	v := &ViewState{
		GameID:        g.ID.String(),
		Phase:         g.Phase,
		Message:       g.Message,
		Log:           append([]string(nil), g.Log...),
		DeckSize:      len(g.Deck),
		DiscardSize:   len(g.DiscardPile),
		DiscardTop:    g.topDiscard(),
		CurrentPlayer: g.CurrentPlayerIndex,
		TurnsUntilEnd: g.TurnsUntilEnd,

		PeekReveal:     g.peekReveal,
		PowerSwapFirst: g.powerSwapFirst,
		BKOwnSelect:    g.bkOwnSelect,
		BKOppSelect:    g.bkOppSelect,

		Round:       g.Match.CurrentRound,
		TotalRounds: g.Match.TotalRounds,
		MatchTotals: append([]int(nil), g.Match.MatchTotals...),
		RoundCount:  len(g.Match.RoundHistory),
	}
	if g.CaboCallerIndex != NoCaller {
		v.CaboCaller = intPtr(g.CaboCallerIndex)
	}

	// The drawn card is visible only on the human's own turn; an AI's drawn
	// card never enters the snapshot at all.
	if g.DrawnCard != nil && g.CurrentPlayerIndex == HumanIndex {
		v.DrawnCard = g.DrawnCard
		v.DrawnFrom = g.DrawnFrom
	}

	revealAll := g.Phase == PhaseRoundReveal || g.Phase == PhaseGameOver
	if revealAll {
		v.Scores = g.Scores
		v.History = g.Match.RoundHistory
	}

	for p, player := range g.Players {
		pv := PlayerView{Name: player.Name, IsHuman: player.IsHuman}
		for c, card := range player.Cards {
			if card == nil {
				pv.Cards = append(pv.Cards, &SlotView{})
				continue
			}
			slot := &SlotView{Present: true}
			pos := models.Position{Player: p, Card: c}
			switch {
			case revealAll:
				slot.Card = card
			case g.peekReveal != nil && *g.peekReveal == pos:
				slot.Card = card
			case g.Phase == PhasePeek && p == HumanIndex && (c == 2 || c == 3):
				slot.Card = card
			}
			if slot.Card == nil && g.Cfg.MemoryAids {
				if believed, known := g.Memories[HumanIndex].Get(pos); known {
					b := believed
					slot.Believed = &b
				}
			}
			pv.Cards = append(pv.Cards, slot)
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

// View is the lock-acquiring variant of BuildView for callers outside the
// render path.
func (g *CaboGame) View() *ViewState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.BuildView()
}
