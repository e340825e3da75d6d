// internal/game/powers.go
package game

import (
	"time"

	"github.com/cardtable/cabo/internal/models"
)

// performSwap exchanges the human's drawn card with their own slot cIdx and
// discards the old card. Belief propagation depends on the draw source: a
// discard-pile card was public, so everyone learns the new slot; a deck card
// is private, so everyone else's belief about the slot is cleared.
// Assumes lock is held.
func (g *CaboGame) performSwap(cIdx int) {
	pos := models.Position{Player: HumanIndex, Card: cIdx}
	old := g.cardAt(pos)
	if old == nil || g.DrawnCard == nil {
		return
	}
	drawn := g.DrawnCard
	g.DrawnCard = nil
	g.Players[HumanIndex].Cards[cIdx] = drawn
	g.discard(old)

	if g.DrawnFrom == DrawFromDiscard {
		for _, m := range g.Memories {
			m.Set(pos, drawn)
		}
	} else {
		g.forgetForAll(pos)
		g.Memories[HumanIndex].Set(pos, drawn)
	}

	g.addLog("You swapped %s into %s and discarded %s.",
		drawn.Name(), g.cardPosDesc(pos), old.Name())
	g.fireEvent(GameEvent{Type: EventPlayerSwap, Player: intPtr(HumanIndex), Card: old, Pos: posPtr(pos)})
	g.finishHumanAction("Swapped and discarded " + old.Name() + ".")
}

// usePowerCard discards the human's deck-drawn power card and enters the
// matching resolution sub-state. Assumes lock is held.
func (g *CaboGame) usePowerCard() {
	card := g.DrawnCard
	g.DrawnCard = nil
	g.discard(card)
	g.addLog("You discarded %s to use its power: %s.", card.Name(), card.PowerDescription())
	g.fireEvent(GameEvent{Type: EventPlayerPower, Player: intPtr(HumanIndex), Card: card})

	switch card.Power() {
	case models.PowerPeekSelf:
		g.Phase = PhasePeekSelf
		g.Message = "Peek power! Click one of YOUR cards to look at it."
	case models.PowerPeekOther:
		g.Phase = PhasePeekOther
		g.Message = "Spy power! Click one of an OPPONENT'S cards to look at it."
	case models.PowerSwapCards:
		g.Phase = PhaseSwapCardsFirst
		g.Message = "Swap power! Choose the first card to swap (any player's)."
	case models.PowerSpyAndSwap:
		g.Phase = PhaseBlackKingSelect
		g.Message = "Black King! Select one of your cards AND one of an opponent's cards."
	default:
		// Not reachable; UsePower gates on IsPowerCard.
		g.finishHumanAction("")
		return
	}
	g.render()
}

// performPeekSelf reveals the human's own slot to them for PeekRevealDelay,
// then auto-advances to turn_end. Assumes lock is held.
func (g *CaboGame) performPeekSelf(cIdx int) {
	pos := models.Position{Player: HumanIndex, Card: cIdx}
	card := g.cardAt(pos)
	if card == nil {
		return
	}
	g.Memories[HumanIndex].Set(pos, card)
	g.peekReveal = posPtr(pos)
	g.Phase = PhasePeekShow
	g.Message = "Your " + models.SlotLabel(len(g.Players[HumanIndex].Cards), cIdx) +
		" card is " + card.Name() + ". Memorize it!"
	g.addLog("You peeked at %s.", g.cardPosDesc(pos))
	g.fireEvent(GameEvent{Type: EventPlayerPeek, Player: intPtr(HumanIndex), Pos: posPtr(pos)})
	g.render()
	g.schedulePeekEnd(PhasePeekShow, func() {
		g.peekReveal = nil
		g.finishHumanAction("Card memorized.")
	})
}

// performPeekOther reveals an opponent's slot to the human only.
// Assumes lock is held.
func (g *CaboGame) performPeekOther(pos models.Position) {
	card := g.cardAt(pos)
	if card == nil {
		return
	}
	g.Memories[HumanIndex].Set(pos, card)
	g.peekReveal = posPtr(pos)
	g.Phase = PhasePeekShow
	g.Message = capitalize(g.cardPosDesc(pos)) + " is " + card.Name() + ". Memorize it!"
	g.addLog("You peeked at %s.", g.cardPosDesc(pos))
	g.fireEvent(GameEvent{Type: EventPlayerPeek, Player: intPtr(HumanIndex), Pos: posPtr(pos)})
	g.render()
	g.schedulePeekEnd(PhasePeekShow, func() {
		g.peekReveal = nil
		g.finishHumanAction("Card memorized.")
	})
}

// performPowerSwap executes the blind J/Q swap of two table slots. Neither
// card is revealed; every observer's beliefs follow the swap.
// Assumes lock is held.
func (g *CaboGame) performPowerSwap(a, b models.Position) {
	ca, cb := g.cardAt(a), g.cardAt(b)
	if ca == nil || cb == nil {
		return
	}
	g.Players[a.Player].Cards[a.Card] = cb
	g.Players[b.Player].Cards[b.Card] = ca
	g.transposeForAll(a, b)
	g.powerSwapFirst = nil

	g.addLog("You swapped %s with %s (unseen).", g.cardPosDesc(a), g.cardPosDesc(b))
	g.fireEvent(GameEvent{Type: EventPlayerTableSwap, Player: intPtr(HumanIndex), Pos: posPtr(a), Pos2: posPtr(b)})
	g.finishHumanAction("Cards swapped.")
}

// performBlackKingPeek reveals the chosen one of the two selected cards to
// the human, then moves to the swap decision. Assumes lock is held.
func (g *CaboGame) performBlackKingPeek(own bool) {
	pos := *g.bkOppSelect
	if own {
		pos = *g.bkOwnSelect
	}
	card := g.cardAt(pos)
	if card == nil {
		return
	}
	g.Memories[HumanIndex].Set(pos, card)
	g.bkPeeked = posPtr(pos)
	g.peekReveal = posPtr(pos)
	g.Phase = PhaseBlackKingPeekShow
	g.Message = capitalize(g.cardPosDesc(pos)) + " is " + card.Name() + "."
	g.addLog("You peeked at %s.", g.cardPosDesc(pos))
	g.fireEvent(GameEvent{Type: EventPlayerPeek, Player: intPtr(HumanIndex), Pos: posPtr(pos)})
	g.render()
	g.schedulePeekEnd(PhaseBlackKingPeekShow, func() {
		g.peekReveal = nil
		g.Phase = PhaseBlackKingSwapDecision
		g.Message = "Swap " + g.cardPosDesc(*g.bkOwnSelect) + " with " +
			g.cardPosDesc(*g.bkOppSelect) + "?"
		g.render()
	})
}

// performBlackKingSwap commits or declines the spy-and-swap. On a swap, every
// other observer's beliefs about both slots are wiped; the actor keeps only
// the card they peeked, tracked to its new slot. Assumes lock is held.
func (g *CaboGame) performBlackKingSwap(doSwap bool) {
	if !doSwap {
		g.addLog("You chose not to swap.")
		g.finishHumanAction("No swap.")
		return
	}
	own, opp := *g.bkOwnSelect, *g.bkOppSelect
	co, cp := g.cardAt(own), g.cardAt(opp)
	if co == nil || cp == nil {
		g.finishHumanAction("")
		return
	}
	g.Players[own.Player].Cards[own.Card] = cp
	g.Players[opp.Player].Cards[opp.Card] = co

	for i, m := range g.Memories {
		m.Forget(own)
		m.Forget(opp)
		if i != HumanIndex || g.bkPeeked == nil {
			continue
		}
		// The peeked card moved to the opposite slot of the pair.
		if *g.bkPeeked == own {
			m.Set(opp, co)
		} else {
			m.Set(own, cp)
		}
	}

	g.addLog("You swapped %s with %s.", g.cardPosDesc(own), g.cardPosDesc(opp))
	g.fireEvent(GameEvent{Type: EventPlayerTableSwap, Player: intPtr(HumanIndex), Pos: posPtr(own), Pos2: posPtr(opp)})
	g.finishHumanAction("Cards swapped.")
}

// schedulePeekEnd arms the reveal timer: after PeekRevealDelay, run done
// under the lock unless the turn advanced or the phase changed in the
// meantime. Assumes lock is held.
func (g *CaboGame) schedulePeekEnd(expect Phase, done func()) {
	gen := g.turnGen
	time.AfterFunc(g.PeekRevealDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.turnGen != gen || g.Phase != expect {
			return
		}
		done()
	})
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}
