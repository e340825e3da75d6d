// internal/game/ai_turn.go
package game

import (
	"time"

	"github.com/cardtable/cabo/internal/models"
)

// runAITurn drives one computer player's full turn on its own goroutine,
// locking around each visible step. gen pins the goroutine to the turn that
// scheduled it: any turn advance or round reset bumps turnGen and every
// later step becomes a no-op.
func (g *CaboGame) runAITurn(pIdx, gen int) {
	if !g.lockStep(gen) {
		return
	}
	name := g.Players[pIdx].Name

	// Pre-draw matching, then the human's first interrupt window.
	g.aiPerformMatches(pIdx)
	if !g.pauseForHumanMatch(gen, name+" is about to draw. Match a card now, or click Continue.") {
		return
	}
	g.Mu.Unlock()

	if !g.lockStep(gen) {
		return
	}
	acted := false
	if top := g.topDiscard(); top != nil {
		if slot, ok := g.aiShouldTakeDiscard(pIdx, top); ok {
			g.aiTakeDiscard(pIdx, slot)
			acted = true
		}
	}
	if !acted {
		drawn := g.drawFromDeck()
		if drawn == nil {
			g.endRound()
			g.Mu.Unlock()
			return
		}
		g.Message = name + " drew a card from the deck..."
		g.addLog("%s drew a card from the deck.", name)
		g.fireEvent(GameEvent{Type: EventPlayerDrawDeck, Player: intPtr(pIdx)})
		g.render()
		g.Mu.Unlock()

		if !g.lockStep(gen) {
			return
		}
		switch act := g.aiDecideDeckAction(pIdx, drawn); act.kind {
		case aiActSwap:
			g.aiSwapDrawn(pIdx, act.slot, drawn)
		case aiActPower:
			g.aiUsePower(pIdx, drawn)
		default:
			g.discard(drawn)
			g.Message = name + " discarded " + drawn.Name() + "."
			g.addLog("%s discarded %s.", name, drawn.Name())
			g.fireEvent(GameEvent{Type: EventPlayerDiscard, Player: intPtr(pIdx), Card: drawn})
			g.render()
		}
	}

	// The act changed the pile top; give the human a window at it before the
	// AI's own post-action matching can snap it up.
	if !g.pauseForHumanMatch(gen, name+" played. Match a card now, or click Continue.") {
		return
	}
	g.finishAITurn(pIdx, gen)
}

// pauseForHumanMatch opens the human's interrupt window: the turn goroutine
// parks on aiResume until the human matches or clicks Continue. The window
// is skipped when the human called Cabo (their hand is locked), their hand
// is empty, or there is nothing to match against. Called with the lock held;
// returns with it held, or false once the turn is gone (lock released).
func (g *CaboGame) pauseForHumanMatch(gen int, msg string) bool {
	if g.topDiscard() == nil || g.CaboCallerIndex == HumanIndex || g.Players[HumanIndex].CardCount() == 0 {
		return true
	}
	resume := make(chan struct{})
	g.aiResume = resume
	g.Phase = PhaseAIMatchPause
	g.Message = msg
	g.render()
	g.Mu.Unlock()
	<-resume
	g.Mu.Lock()
	if g.turnGen != gen || g.RoundOver {
		g.Mu.Unlock()
		return false
	}
	return true
}

// lockStep sleeps the pacing delay and re-acquires the lock, reporting false
// (lock released) when the turn this goroutine belongs to is gone.
func (g *CaboGame) lockStep(gen int) bool {
	time.Sleep(g.StepDelay)
	g.Mu.Lock()
	if g.turnGen != gen || g.RoundOver {
		g.Mu.Unlock()
		return false
	}
	return true
}

// finishAITurn runs the post-action matching pass, a final match window for
// the human, and the Cabo decision, then yields the turn. Called with the
// lock held; consumes it.
func (g *CaboGame) finishAITurn(pIdx, gen int) {
	g.Mu.Unlock()
	if !g.lockStep(gen) {
		return
	}
	name := g.Players[pIdx].Name

	g.aiPerformMatches(pIdx)
	if g.checkRoundEnd() {
		g.nextTurn()
		g.Mu.Unlock()
		return
	}
	if !g.pauseForHumanMatch(gen, name+" is ending their turn. Match a card now, or click Continue.") {
		return
	}

	if g.CaboCallerIndex == NoCaller && g.aiShouldCallCabo(pIdx) {
		g.CaboCallerIndex = pIdx
		g.TurnsUntilEnd = g.Cfg.NumPlayers
		g.Message = name + " called CABO! Everyone gets one more turn."
		g.addLog("%s called CABO!", name)
		g.fireEvent(GameEvent{Type: EventPlayerCabo, Player: intPtr(pIdx)})
		g.render()
	}
	g.nextTurn()
	g.Mu.Unlock()
}

// aiTakeDiscard swaps the public top discard into the given own slot. The
// incoming card was face-up, so every observer learns the slot's new
// content. Assumes lock is held.
func (g *CaboGame) aiTakeDiscard(pIdx, slot int) {
	card := g.drawFromDiscard()
	if card == nil {
		return
	}
	name := g.Players[pIdx].Name
	pos := models.Position{Player: pIdx, Card: slot}
	old := g.Players[pIdx].Cards[slot]
	g.Players[pIdx].Cards[slot] = card
	g.discard(old)
	for _, m := range g.Memories {
		m.Set(pos, card)
	}

	g.Message = name + " took " + card.Name() + " from the discard pile."
	g.addLog("%s took %s from the discard pile, swapping out %s.", name, card.Name(), old.Name())
	g.fireEvent(GameEvent{Type: EventPlayerTakeDiscard, Player: intPtr(pIdx), Card: card})
	g.fireEvent(GameEvent{Type: EventPlayerSwap, Player: intPtr(pIdx), Card: old, Pos: posPtr(pos)})
	g.render()
}

// aiSwapDrawn swaps a privately drawn deck card into the given own slot.
// Only the actor learns the slot; everyone else's belief about it is
// cleared, since the card they may have known is now on the discard pile.
// Assumes lock is held.
func (g *CaboGame) aiSwapDrawn(pIdx, slot int, drawn *models.Card) {
	name := g.Players[pIdx].Name
	pos := models.Position{Player: pIdx, Card: slot}
	old := g.Players[pIdx].Cards[slot]
	g.Players[pIdx].Cards[slot] = drawn
	g.discard(old)
	g.forgetForAll(pos)
	g.Memories[pIdx].Set(pos, drawn)

	g.Message = name + " swapped the drawn card with " + g.ownPosDesc(pos) + ", discarding " + old.Name() + "."
	g.addLog("%s swapped the drawn card, discarding %s.", name, old.Name())
	g.fireEvent(GameEvent{Type: EventPlayerSwap, Player: intPtr(pIdx), Card: old, Pos: posPtr(pos)})
	g.render()
}

// aiUsePower discards the drawn power card and resolves its effect
// immediately. Assumes lock is held.
func (g *CaboGame) aiUsePower(pIdx int, card *models.Card) {
	name := g.Players[pIdx].Name
	g.discard(card)
	g.Message = name + " used " + card.Name() + ": " + card.PowerDescription() + "."
	g.addLog("%s discarded %s to use its power.", name, card.Name())
	g.fireEvent(GameEvent{Type: EventPlayerPower, Player: intPtr(pIdx), Card: card})

	switch card.Power() {
	case models.PowerPeekSelf:
		if unknowns := g.aiUnknownOwnSlots(pIdx); len(unknowns) > 0 {
			slot := unknowns[g.rng.Intn(len(unknowns))]
			pos := models.Position{Player: pIdx, Card: slot}
			g.Memories[pIdx].Set(pos, g.Players[pIdx].Cards[slot])
			g.addLog("%s peeked at %s.", name, g.ownPosDesc(pos))
			g.fireEvent(GameEvent{Type: EventPlayerPeek, Player: intPtr(pIdx), Pos: posPtr(pos)})
		}
	case models.PowerPeekOther:
		if targets := g.aiUnknownOpponentSlots(pIdx); len(targets) > 0 {
			pos := targets[g.rng.Intn(len(targets))]
			g.Memories[pIdx].Set(pos, g.cardAt(pos))
			g.addLog("%s peeked at %s.", name, g.cardPosDesc(pos))
			g.fireEvent(GameEvent{Type: EventPlayerPeek, Player: intPtr(pIdx), Pos: posPtr(pos)})
		}
	case models.PowerSwapCards:
		g.aiBlindSwap(pIdx)
	case models.PowerSpyAndSwap:
		g.aiSpyAndSwap(pIdx)
	}
	g.render()
}

// aiBlindSwap plays the J/Q power: trade the actor's highest believed card
// for a believed-low opponent card without looking at either. Without a pair
// that gains at least two points the power fizzles. Assumes lock is held.
func (g *CaboGame) aiBlindSwap(pIdx int) {
	name := g.Players[pIdx].Name
	a, b, ok := g.aiFindBlindSwapPair(pIdx)
	if !ok {
		g.addLog("%s chose not to swap.", name)
		return
	}

	ca, cb := g.cardAt(a), g.cardAt(b)
	g.Players[a.Player].Cards[a.Card] = cb
	g.Players[b.Player].Cards[b.Card] = ca
	g.transposeForAll(a, b)

	g.addLog("%s swapped %s with %s (unseen).", name, g.ownPosDesc(a), g.cardPosDesc(b))
	g.fireEvent(GameEvent{Type: EventPlayerTableSwap, Player: intPtr(pIdx), Pos: posPtr(a), Pos2: posPtr(b)})
}

// aiSpyAndSwap plays the Black King: pick one own and one opponent slot,
// peek at whichever side is less certain, then swap when the opponent's
// card looks at least two points better. Assumes lock is held.
func (g *CaboGame) aiSpyAndSwap(pIdx int) {
	name := g.Players[pIdx].Name

	var own models.Position
	if unknowns := g.aiUnknownOwnSlots(pIdx); len(unknowns) > 0 {
		own = models.Position{Player: pIdx, Card: unknowns[g.rng.Intn(len(unknowns))]}
	} else if slot, _, known := g.aiWorstKnownOwnSlot(pIdx); known {
		own = models.Position{Player: pIdx, Card: slot}
	} else {
		return
	}

	var opp models.Position
	if targets := g.aiUnknownOpponentSlots(pIdx); len(targets) > 0 {
		opp = targets[g.rng.Intn(len(targets))]
	} else {
		var all []models.Position
		for p := range g.Players {
			if p == pIdx {
				continue
			}
			for _, s := range g.aiOccupiedSlots(p) {
				all = append(all, models.Position{Player: p, Card: s})
			}
		}
		if len(all) == 0 {
			return
		}
		opp = all[g.rng.Intn(len(all))]
	}

	// Peek at the less certain side of the pair.
	peeked := opp
	if !g.Memories[pIdx].Knows(own) {
		peeked = own
	}
	g.Memories[pIdx].Set(peeked, g.cardAt(peeked))
	g.addLog("%s peeked at %s.", name, g.cardPosDesc(peeked))
	g.fireEvent(GameEvent{Type: EventPlayerPeek, Player: intPtr(pIdx), Pos: posPtr(peeked)})

	ownVal, oppVal := unknownCardEstimate, unknownCardEstimate
	ownCard, ownKnown := g.Memories[pIdx].Get(own)
	if ownKnown {
		ownVal = ownCard.Value()
		if ownCard.IsJoker() || ownCard.IsRedKing() {
			g.addLog("%s chose not to swap.", name)
			return
		}
	}
	if c, known := g.Memories[pIdx].Get(opp); known {
		oppVal = c.Value()
	}
	if oppVal >= ownVal-1 {
		g.addLog("%s chose not to swap.", name)
		return
	}

	co, cp := g.cardAt(own), g.cardAt(opp)
	g.Players[own.Player].Cards[own.Card] = cp
	g.Players[opp.Player].Cards[opp.Card] = co
	for i, m := range g.Memories {
		m.Forget(own)
		m.Forget(opp)
		if i != pIdx {
			continue
		}
		if peeked == own {
			m.Set(opp, co)
		} else {
			m.Set(own, cp)
		}
	}
	g.addLog("%s swapped %s with %s.", name, g.ownPosDesc(own), g.cardPosDesc(opp))
	g.fireEvent(GameEvent{Type: EventPlayerTableSwap, Player: intPtr(pIdx), Pos: posPtr(own), Pos2: posPtr(opp)})
}

// aiPerformMatches runs every match the actor believes in against the
// current top discard, re-checking the top after each since a successful
// match changes it. Assumes lock is held.
func (g *CaboGame) aiPerformMatches(pIdx int) {
	name := g.Players[pIdx].Name
	for i := 0; i < 8; i++ {
		top := g.topDiscard()
		if top == nil {
			return
		}
		targets := g.aiFindMatchTargets(pIdx, top)
		if len(targets) == 0 {
			return
		}
		pos := targets[0]
		card := g.cardAt(pos)
		if card == nil || card.Rank != top.Rank {
			// Belief was stale somehow; drop it rather than eat a penalty.
			g.Memories[pIdx].Forget(pos)
			continue
		}

		g.Players[pos.Player].Cards[pos.Card] = nil
		g.discard(card)
		g.forgetForAll(pos)
		g.fireEvent(GameEvent{Type: EventMatchSuccess, Player: intPtr(pIdx), Card: card, Pos: posPtr(pos)})

		if pos.Player == pIdx {
			g.Message = name + " matched and discarded " + card.Name() + "!"
			g.addLog("%s matched and discarded their %s!", name, card.Name())
			g.render()
			continue
		}

		victim := g.Players[pos.Player]
		g.Message = name + " matched " + victim.Name + "'s " + card.Name() + "!"
		g.addLog("%s matched %s's %s!", name, victim.Name, card.Name())

		if g.Players[pIdx].CardCount() > 0 {
			giveSlot, ok := g.aiChooseGiveSlot(pIdx)
			if !ok {
				giveSlot = g.aiOccupiedSlots(pIdx)[0]
			}
			from := models.Position{Player: pIdx, Card: giveSlot}
			given := g.Players[pIdx].Cards[giveSlot]
			g.Players[pos.Player].Cards[pos.Card] = given
			g.Players[pIdx].Cards[giveSlot] = nil
			g.forgetForAll(from)
			g.forgetForAll(pos)
			g.addLog("%s gave a card to %s.", name, victim.Name)
			g.fireEvent(GameEvent{Type: EventMatchGive, Player: intPtr(pIdx), Pos: posPtr(from), Pos2: posPtr(pos)})
		}
		g.render()
	}
}
