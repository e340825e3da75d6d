// internal/game/ai.go
package game

import "github.com/cardtable/cabo/internal/models"

// AI decision heuristics. Every function here reads ONLY the acting player's
// own memory (g.Memories[pIdx]); the true card arrays are consulted solely to
// enumerate occupied slots, never to read hidden values. All assume the lock
// is held.

// unknownCardEstimate is the value an AI assumes for a card it has no belief
// about.
const unknownCardEstimate = 7

type aiActionKind int

const (
	aiActDiscard aiActionKind = iota
	aiActSwap
	aiActPower
)

// aiAction is the resolved plan for a deck-drawn card.
type aiAction struct {
	kind aiActionKind
	slot int // own slot index for aiActSwap
}

// aiOccupiedSlots lists the occupied slot indices of player p.
func (g *CaboGame) aiOccupiedSlots(p int) []int {
	return g.Players[p].OccupiedSlots()
}

// aiUnknownOwnSlots lists pIdx's occupied slots it holds no belief about.
func (g *CaboGame) aiUnknownOwnSlots(pIdx int) []int {
	var out []int
	for _, s := range g.aiOccupiedSlots(pIdx) {
		if !g.Memories[pIdx].Knows(models.Position{Player: pIdx, Card: s}) {
			out = append(out, s)
		}
	}
	return out
}

// aiWorstKnownOwnSlot returns pIdx's highest-valued believed own card.
func (g *CaboGame) aiWorstKnownOwnSlot(pIdx int) (slot, val int, ok bool) {
	val = -100
	for _, s := range g.aiOccupiedSlots(pIdx) {
		c, known := g.Memories[pIdx].Get(models.Position{Player: pIdx, Card: s})
		if known && c.Value() > val {
			slot, val, ok = s, c.Value(), true
		}
	}
	return slot, val, ok
}

// aiShouldTakeDiscard decides whether pIdx takes the public top discard and,
// if so, which own slot to swap it into. A Joker is always taken; anything
// over 6 is never taken; otherwise the card is taken only when the AI
// believes it holds something strictly worse.
func (g *CaboGame) aiShouldTakeDiscard(pIdx int, top *models.Card) (slot int, ok bool) {
	worst, worstVal, known := g.aiWorstKnownOwnSlot(pIdx)
	if top.IsJoker() {
		if known {
			return worst, true
		}
		if unknowns := g.aiUnknownOwnSlots(pIdx); len(unknowns) > 0 {
			return unknowns[g.rng.Intn(len(unknowns))], true
		}
		return 0, false
	}
	if top.Value() > 6 {
		return 0, false
	}
	if known && worstVal > top.Value() {
		return worst, true
	}
	return 0, false
}

// aiDecideDeckAction plans what pIdx does with a card drawn from the deck.
func (g *CaboGame) aiDecideDeckAction(pIdx int, drawn *models.Card) aiAction {
	worst, worstVal, known := g.aiWorstKnownOwnSlot(pIdx)
	unknowns := g.aiUnknownOwnSlots(pIdx)

	// A Joker or red King is always kept.
	if drawn.IsJoker() || drawn.IsRedKing() {
		if known {
			return aiAction{kind: aiActSwap, slot: worst}
		}
		if len(unknowns) > 0 {
			return aiAction{kind: aiActSwap, slot: unknowns[g.rng.Intn(len(unknowns))]}
		}
		return aiAction{kind: aiActDiscard}
	}

	v := drawn.Value()
	if v <= 4 {
		if known && worstVal > v {
			return aiAction{kind: aiActSwap, slot: worst}
		}
		// Low card, nothing known to beat: gamble on an unknown slot half
		// the time.
		if len(unknowns) > 0 && g.rng.Intn(2) == 0 {
			return aiAction{kind: aiActSwap, slot: unknowns[g.rng.Intn(len(unknowns))]}
		}
		return aiAction{kind: aiActDiscard}
	}
	if v <= 6 && known && worstVal > v+2 {
		return aiAction{kind: aiActSwap, slot: worst}
	}

	if drawn.IsPowerCard() && g.aiWantsPower(pIdx, drawn, worstVal, known) {
		return aiAction{kind: aiActPower}
	}

	if known && worstVal > v+3 {
		return aiAction{kind: aiActSwap, slot: worst}
	}
	return aiAction{kind: aiActDiscard}
}

// aiWantsPower decides whether the drawn power card is worth using instead
// of discarding outright.
func (g *CaboGame) aiWantsPower(pIdx int, drawn *models.Card, worstVal int, known bool) bool {
	switch drawn.Power() {
	case models.PowerPeekSelf:
		return len(g.aiUnknownOwnSlots(pIdx)) > 0
	case models.PowerPeekOther:
		return len(g.aiUnknownOpponentSlots(pIdx)) > 0
	case models.PowerSwapCards:
		if _, _, ok := g.aiFindBlindSwapPair(pIdx); !ok {
			return false
		}
		return g.rng.Intn(100) < 40
	case models.PowerSpyAndSwap:
		if len(g.aiUnknownOwnSlots(pIdx)) > 0 || (known && worstVal >= 7) {
			return true
		}
		return g.rng.Intn(100) < 30
	}
	return false
}

// aiFindBlindSwapPair looks for a J/Q blind swap worth making: the actor's
// highest believed own card (never a Joker or red King) against the lowest
// card it believes an opponent holds. Reports false unless the trade gains
// at least two points.
func (g *CaboGame) aiFindBlindSwapPair(pIdx int) (own, opp models.Position, ok bool) {
	ownVal := -100
	for _, s := range g.aiOccupiedSlots(pIdx) {
		pos := models.Position{Player: pIdx, Card: s}
		c, known := g.Memories[pIdx].Get(pos)
		if !known || c.IsJoker() || c.IsRedKing() {
			continue
		}
		if c.Value() > ownVal {
			own, ownVal = pos, c.Value()
		}
	}
	if ownVal == -100 {
		return own, opp, false
	}

	oppVal := 100
	for p := range g.Players {
		if p == pIdx {
			continue
		}
		for _, s := range g.aiOccupiedSlots(p) {
			pos := models.Position{Player: p, Card: s}
			if c, known := g.Memories[pIdx].Get(pos); known && c.Value() < oppVal {
				opp, oppVal = pos, c.Value()
			}
		}
	}
	if oppVal == 100 || ownVal-oppVal < 2 {
		return own, opp, false
	}
	return own, opp, true
}

// aiUnknownOpponentSlots lists every occupied slot of every other player
// that pIdx holds no belief about.
func (g *CaboGame) aiUnknownOpponentSlots(pIdx int) []models.Position {
	var out []models.Position
	for p := range g.Players {
		if p == pIdx {
			continue
		}
		for _, s := range g.aiOccupiedSlots(p) {
			pos := models.Position{Player: p, Card: s}
			if !g.Memories[pIdx].Knows(pos) {
				out = append(out, pos)
			}
		}
	}
	return out
}

// aiFindMatchTargets lists every slot (any player's) that pIdx believes
// holds the top discard's rank. Jokers and red Kings are never matched
// away; their low value is worth more in hand than the discard.
func (g *CaboGame) aiFindMatchTargets(pIdx int, top *models.Card) []models.Position {
	var out []models.Position
	for p := range g.Players {
		for _, s := range g.aiOccupiedSlots(p) {
			pos := models.Position{Player: p, Card: s}
			c, known := g.Memories[pIdx].Get(pos)
			if !known || c.Rank != top.Rank {
				continue
			}
			if c.IsJoker() || c.IsRedKing() {
				continue
			}
			out = append(out, pos)
		}
	}
	return out
}

// aiChooseGiveSlot picks which own card pIdx hands over after a cross-player
// match: the worst card it believes it holds, never a believed Joker or red
// King, with unknown slots valued at unknownCardEstimate.
func (g *CaboGame) aiChooseGiveSlot(pIdx int) (int, bool) {
	bestSlot, bestVal, found := 0, -100, false
	for _, s := range g.aiOccupiedSlots(pIdx) {
		v := unknownCardEstimate
		if c, known := g.Memories[pIdx].Get(models.Position{Player: pIdx, Card: s}); known {
			if c.IsJoker() || c.IsRedKing() {
				continue
			}
			v = c.Value()
		}
		if v > bestVal {
			bestSlot, bestVal, found = s, v, true
		}
	}
	return bestSlot, found
}

// caboUnknownEstimate values an unseen slot when weighing a Cabo call.
const caboUnknownEstimate = 6

// aiEstimateHand totals what pIdx believes target's hand is worth, reading
// only pIdx's own memory. Unknown occupied slots count caboUnknownEstimate.
func (g *CaboGame) aiEstimateHand(pIdx, target int) int {
	est := 0
	for _, s := range g.aiOccupiedSlots(target) {
		if c, known := g.Memories[pIdx].Get(models.Position{Player: target, Card: s}); known {
			est += c.Value()
		} else {
			est += caboUnknownEstimate
		}
	}
	return est
}

// aiShouldCallCabo decides whether pIdx locks the round in. It never calls
// with two or more unknown cards, and only calls when its own estimate both
// clears a randomized ceiling and undercuts the best-looking opponent hand
// (with a small random margin to keep the call imperfect).
func (g *CaboGame) aiShouldCallCabo(pIdx int) bool {
	if len(g.aiUnknownOwnSlots(pIdx)) >= 2 {
		return false
	}
	est := g.aiEstimateHand(pIdx, pIdx)
	if est+g.rng.Intn(4) > 10+g.rng.Intn(5) {
		return false
	}

	lowestOpp, found := 0, false
	for p := range g.Players {
		if p == pIdx {
			continue
		}
		if e := g.aiEstimateHand(pIdx, p); !found || e < lowestOpp {
			lowestOpp, found = e, true
		}
	}
	return !found || est <= lowestOpp+g.rng.Intn(4)
}
