// internal/game/input.go
package game

import "github.com/cardtable/cabo/internal/models"

// The exported methods in this file are the input events consumed from the
// presentation layer. Each validates the current phase and silently ignores
// anything out of place, so a stale or misdirected click never corrupts the
// state machine.

// Ready ends the initial memorization window and starts the human's first
// turn.
func (g *CaboGame) Ready() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhasePeek {
		return
	}
	g.Phase = PhaseTurnStart
	g.Message = "Your turn! Draw from the deck or discard pile."
	g.addLog("You memorized your bottom cards. Game begins!")
	g.render()
}

// DeckClick draws the human's card from the deck.
func (g *CaboGame) DeckClick() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseTurnStart {
		return
	}
	card := g.drawFromDeck()
	if card == nil {
		g.Message = "Deck is empty!"
		g.render()
		return
	}
	g.DrawnCard = card
	g.DrawnFrom = DrawFromDeck
	g.Phase = PhaseDrawDecision
	g.Message = "You drew " + card.Name() + ". What will you do?"
	g.addLog("You drew a card from the deck.")
	g.fireEvent(GameEvent{Type: EventPlayerDrawDeck, Player: intPtr(HumanIndex)})
	g.render()
}

// DiscardClick takes the public top card of the discard pile.
func (g *CaboGame) DiscardClick() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseTurnStart {
		return
	}
	card := g.drawFromDiscard()
	if card == nil {
		return
	}
	g.DrawnCard = card
	g.DrawnFrom = DrawFromDiscard
	g.Phase = PhaseDrawDecision
	g.Message = "You took " + card.Name() + " from the discard pile. What will you do?"
	g.addLog("You took %s from the discard pile.", card.Name())
	g.fireEvent(GameEvent{Type: EventPlayerTakeDiscard, Player: intPtr(HumanIndex), Card: card})
	g.render()
}

// CardClick handles a click on any table slot; its meaning depends on phase.
func (g *CaboGame) CardClick(pIdx, cIdx int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	pos := models.Position{Player: pIdx, Card: cIdx}
	if g.cardAt(pos) == nil {
		return
	}

	switch g.Phase {
	case PhaseSwapSelect:
		if pIdx != HumanIndex {
			return
		}
		g.performSwap(cIdx)

	case PhaseMatchMode:
		g.attemptMatch(pos)

	case PhaseAIMatchPause:
		// Clicking a card during the AI pause enters match mode directly.
		g.matchPrevPhase = PhaseAIMatchPause
		g.Phase = PhaseMatchMode
		g.attemptMatch(pos)

	case PhaseMatchGive:
		if pIdx != HumanIndex {
			return
		}
		g.performGiveCard(cIdx)

	case PhasePeekSelf:
		if pIdx != HumanIndex {
			return
		}
		g.performPeekSelf(cIdx)

	case PhasePeekOther:
		if pIdx == HumanIndex {
			return
		}
		g.performPeekOther(pos)

	case PhaseBlackKingSelect:
		g.toggleBlackKingSelection(pos)

	case PhaseSwapCardsFirst:
		g.powerSwapFirst = posPtr(pos)
		g.Phase = PhaseSwapCardsSecond
		g.Message = "Now choose the second card to swap."
		g.render()

	case PhaseSwapCardsSecond:
		if g.powerSwapFirst == nil || *g.powerSwapFirst == pos {
			return
		}
		g.performPowerSwap(*g.powerSwapFirst, pos)
	}
}

// BeginSwap moves from the draw decision into own-slot selection.
func (g *CaboGame) BeginSwap() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseDrawDecision {
		return
	}
	g.Phase = PhaseSwapSelect
	g.Message = "Click one of your cards to swap with " + g.DrawnCard.Name() + "."
	g.render()
}

// CancelSwap abandons slot selection and returns to the draw decision.
func (g *CaboGame) CancelSwap() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseSwapSelect {
		return
	}
	g.Phase = PhaseDrawDecision
	g.Message = "You drew " + g.DrawnCard.Name() + ". What will you do?"
	g.render()
}

// DiscardDrawn discards the drawn card without swapping. A power card drawn
// from the deck cannot be plainly discarded; its discard goes through
// UsePower instead.
func (g *CaboGame) DiscardDrawn() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseDrawDecision || g.DrawnCard == nil {
		return
	}
	if g.DrawnFrom == DrawFromDeck && g.DrawnCard.IsPowerCard() {
		return
	}
	card := g.DrawnCard
	g.DrawnCard = nil
	g.discard(card)
	g.addLog("You discarded %s.", card.Name())
	g.fireEvent(GameEvent{Type: EventPlayerDiscard, Player: intPtr(HumanIndex), Card: card})
	g.finishHumanAction("Discarded.")
}

// UsePower discards the freshly deck-drawn power card and enters its
// resolution sub-state.
func (g *CaboGame) UsePower() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseDrawDecision || g.DrawnCard == nil {
		return
	}
	if g.DrawnFrom != DrawFromDeck || !g.DrawnCard.IsPowerCard() {
		return
	}
	g.usePowerCard()
}

// EndTurn yields the turn to the next player.
func (g *CaboGame) EndTurn() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseTurnEnd {
		return
	}
	g.nextTurn()
}

// CallCabo calls Cabo, closing the human's participation and starting the
// final-turns countdown. Only valid from turn_end while no one has called.
func (g *CaboGame) CallCabo() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseTurnEnd || g.CaboCallerIndex != NoCaller {
		return
	}
	g.CaboCallerIndex = HumanIndex
	g.TurnsUntilEnd = g.Cfg.NumPlayers
	g.Message = "You called CABO! Everyone else gets one more turn."
	g.addLog("You called CABO!")
	g.fireEvent(GameEvent{Type: EventPlayerCabo, Player: intPtr(HumanIndex)})
	g.render()
	g.nextTurn()
}

// EnterMatchMode opens the matching window against the current discard top.
// Available throughout the human's turn and during the AI pause.
func (g *CaboGame) EnterMatchMode() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	switch g.Phase {
	case PhaseTurnStart, PhaseDrawDecision, PhaseSwapSelect, PhaseTurnEnd, PhaseAIMatchPause:
	default:
		return
	}
	top := g.topDiscard()
	if top == nil {
		return
	}
	g.matchPrevPhase = g.Phase
	g.Phase = PhaseMatchMode
	g.Message = "Click any card to match against " + top.Name() + ". Click Done when finished."
	g.render()
}

// DoneMatching leaves match mode, restoring the interrupted phase or
// resuming the paused AI turn.
func (g *CaboGame) DoneMatching() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseMatchMode {
		return
	}
	prev := g.matchPrevPhase
	if prev == "" {
		prev = PhaseTurnStart
	}
	g.matchPrevPhase = ""

	if prev == PhaseAIMatchPause {
		g.resumeAITurn()
		return
	}

	g.Phase = prev
	switch prev {
	case PhaseTurnStart:
		g.Message = "Your turn! Draw from the deck or discard pile."
	case PhaseDrawDecision:
		g.Message = "You drew " + g.DrawnCard.Name() + ". What will you do?"
	case PhaseTurnEnd:
		if g.CaboCallerIndex != NoCaller {
			g.Message = "End your turn."
		} else {
			g.Message = "End your turn or call Cabo."
		}
	case PhaseSwapSelect:
		g.Message = "Click one of your cards to swap with " + g.DrawnCard.Name() + "."
	}
	g.render()
}

// ContinueAI releases the AI-turn pause without attempting a match.
func (g *CaboGame) ContinueAI() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseAIMatchPause {
		return
	}
	g.resumeAITurn()
}

// resumeAITurn wakes the parked AI goroutine. Assumes lock is held.
func (g *CaboGame) resumeAITurn() {
	resume := g.aiResume
	g.aiResume = nil
	g.Phase = PhaseAIThinking
	g.render()
	if resume != nil {
		close(resume)
	}
}

// SkipPower forfeits an unresolved power without effect.
func (g *CaboGame) SkipPower() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	switch g.Phase {
	case PhaseSwapCardsFirst:
		g.powerSwapFirst = nil
		g.addLog("You skipped the swap power.")
	case PhaseBlackKingSelect:
		g.bkOwnSelect = nil
		g.bkOppSelect = nil
		g.addLog("You skipped the Black King power.")
	default:
		return
	}
	g.finishHumanAction("Power skipped.")
}

// ReselectSwapFirst restarts the blind-swap selection from the first card.
func (g *CaboGame) ReselectSwapFirst() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseSwapCardsSecond {
		return
	}
	g.Phase = PhaseSwapCardsFirst
	g.powerSwapFirst = nil
	g.Message = "Choose the first card to swap."
	g.render()
}

// ConfirmBlackKing locks in the spy-and-swap selections and asks which of
// the two cards to peek at.
func (g *CaboGame) ConfirmBlackKing() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseBlackKingSelect || g.bkOwnSelect == nil || g.bkOppSelect == nil {
		return
	}
	g.Phase = PhaseBlackKingPeekChoice
	g.Message = "Which card do you want to peek at?"
	g.render()
}

// BlackKingBack returns from the peek choice to reselection.
func (g *CaboGame) BlackKingBack() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseBlackKingPeekChoice {
		return
	}
	g.Phase = PhaseBlackKingSelect
	g.Message = "Reselect your cards, or confirm to proceed."
	g.render()
}

// BlackKingPeek reveals one of the two selected cards to the human only.
func (g *CaboGame) BlackKingPeek(own bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseBlackKingPeekChoice {
		return
	}
	g.performBlackKingPeek(own)
}

// BlackKingSwap commits or declines the spy-and-swap exchange.
func (g *CaboGame) BlackKingSwap(doSwap bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseBlackKingSwapDecision {
		return
	}
	g.performBlackKingSwap(doSwap)
}

// ShowScores moves from the end-of-round reveal to the scoreboard.
func (g *CaboGame) ShowScores() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseRoundReveal {
		return
	}
	g.Phase = PhaseGameOver
	g.render()
}

// toggleBlackKingSelection flips one of the two spy-and-swap selections.
// Assumes lock is held.
func (g *CaboGame) toggleBlackKingSelection(pos models.Position) {
	if pos.Player == HumanIndex {
		if g.bkOwnSelect != nil && *g.bkOwnSelect == pos {
			g.bkOwnSelect = nil
		} else {
			g.bkOwnSelect = posPtr(pos)
		}
	} else {
		if g.bkOppSelect != nil && *g.bkOppSelect == pos {
			g.bkOppSelect = nil
		} else {
			g.bkOppSelect = posPtr(pos)
		}
	}

	switch {
	case g.bkOwnSelect != nil && g.bkOppSelect != nil:
		g.Message = "Both cards selected. Click Confirm to proceed."
	case g.bkOwnSelect != nil:
		g.Message = "Now select one of an opponent's cards."
	case g.bkOppSelect != nil:
		g.Message = "Now select one of your own cards."
	default:
		g.Message = "Select one of your cards AND one of an opponent's cards."
	}
	g.render()
}
