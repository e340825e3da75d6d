// internal/game/matching.go
package game

import "github.com/cardtable/cabo/internal/models"

// attemptMatch resolves a human match attempt against the top discard. A
// correct rank discards the clicked card (leaving a permanent gap); a wrong
// guess costs a face-down penalty card. Matching someone else's card opens
// the give step. Assumes lock is held and the clicked slot is occupied.
func (g *CaboGame) attemptMatch(pos models.Position) {
	top := g.topDiscard()
	card := g.cardAt(pos)
	if top == nil || card == nil {
		return
	}

	if card.Rank != top.Rank {
		g.addLog("Wrong match! %s is not a %s. Penalty card!", card.Name(), string(top.Rank))
		g.Message = "No match! " + card.Name() + " doesn't match. You drew a penalty card."
		if penalty := g.drawFromDeck(); penalty != nil {
			// Appended face-down; the human never sees it.
			g.Players[HumanIndex].Cards = append(g.Players[HumanIndex].Cards, penalty)
		}
		g.fireEvent(GameEvent{Type: EventMatchFail, Player: intPtr(HumanIndex), Pos: posPtr(pos)})
		g.render()
		return
	}

	g.Players[pos.Player].Cards[pos.Card] = nil
	g.discard(card)
	g.forgetForAll(pos)
	g.fireEvent(GameEvent{Type: EventMatchSuccess, Player: intPtr(HumanIndex), Card: card, Pos: posPtr(pos)})

	if pos.Player == HumanIndex {
		g.addLog("Match! You discarded your %s.", card.Name())
		g.Message = "Match! You discarded " + card.Name() + ". Keep matching or click Done."
		g.render()
		return
	}

	g.addLog("Match! You discarded %s's %s.", g.Players[pos.Player].Name, card.Name())
	if g.Players[HumanIndex].CardCount() == 0 {
		g.Message = "Match! You have no card to give. Keep matching or click Done."
		g.render()
		return
	}
	g.matchGiveTarget = posPtr(pos)
	g.Phase = PhaseMatchGive
	g.Message = "Match! Now give one of YOUR cards to " + g.Players[pos.Player].Name + "."
	g.render()
}

// performGiveCard moves the human's chosen card into the slot vacated by a
// cross-player match. The transfer is face-down, so every observer's beliefs
// about both slots are cleared. Assumes lock is held.
func (g *CaboGame) performGiveCard(cIdx int) {
	if g.matchGiveTarget == nil {
		return
	}
	from := models.Position{Player: HumanIndex, Card: cIdx}
	to := *g.matchGiveTarget
	card := g.cardAt(from)
	if card == nil {
		return
	}
	g.Players[to.Player].Cards[to.Card] = card
	g.Players[HumanIndex].Cards[cIdx] = nil
	g.forgetForAll(from)
	g.forgetForAll(to)
	g.matchGiveTarget = nil

	g.addLog("You gave a card to %s.", g.Players[to.Player].Name)
	g.fireEvent(GameEvent{Type: EventMatchGive, Player: intPtr(HumanIndex), Pos: posPtr(from), Pos2: posPtr(to)})
	g.Phase = PhaseMatchMode
	g.Message = "Card given. Keep matching or click Done."
	g.render()
}
