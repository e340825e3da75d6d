// internal/game/deck.go
package game

import "github.com/cardtable/cabo/internal/models"

// TotalCards is the fixed deck size: 52 standard cards plus two Jokers.
const TotalCards = 54

// buildDeck constructs and shuffles the 54-card Cabo deck. The two Jokers
// are suited only so the view can render one red and one black.
// Assumes lock is held.
func (g *CaboGame) buildDeck() []*models.Card {
	deck := make([]*models.Card, 0, TotalCards)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			deck = append(deck, &models.Card{Rank: rank, Suit: suit})
		}
	}
	deck = append(deck, &models.Card{Rank: models.RankJoker, Suit: models.SuitHearts})
	deck = append(deck, &models.Card{Rank: models.RankJoker, Suit: models.SuitSpades})

	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// popDeck removes and returns the top deck card without any reshuffle
// handling. Assumes lock is held and the deck is non-empty.
func (g *CaboGame) popDeck() *models.Card {
	card := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return card
}

// drawFromDeck draws the top deck card, reshuffling the discard pile (all
// but its top card) into a fresh deck when empty. Returns nil when no card
// is available, which is also a round-end trigger. Assumes lock is held.
func (g *CaboGame) drawFromDeck() *models.Card {
	if len(g.Deck) == 0 {
		g.reshuffleDeck()
	}
	if len(g.Deck) == 0 {
		return nil
	}
	return g.popDeck()
}

// reshuffleDeck rebuilds the deck from the discard pile, leaving only the
// top discard behind. A pile of one or zero cards cannot be reshuffled.
// Assumes lock is held.
func (g *CaboGame) reshuffleDeck() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	g.Deck = append(g.Deck, g.DiscardPile[:len(g.DiscardPile)-1]...)
	g.DiscardPile = []*models.Card{top}
	g.rng.Shuffle(len(g.Deck), func(i, j int) {
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	})
	g.addLog("Discard pile reshuffled into the deck.")
	g.log.WithField("deckSize", len(g.Deck)).Info("reshuffled discard pile into deck")
	g.fireEvent(GameEvent{Type: EventDeckReshuffle, Payload: map[string]interface{}{
		"deckSize": len(g.Deck),
	}})
}

// drawFromDiscard removes and returns the top discard card, or nil when the
// pile is empty. Assumes lock is held.
func (g *CaboGame) drawFromDiscard() *models.Card {
	if len(g.DiscardPile) == 0 {
		return nil
	}
	card := g.DiscardPile[len(g.DiscardPile)-1]
	g.DiscardPile = g.DiscardPile[:len(g.DiscardPile)-1]
	return card
}

// discard pushes a card onto the discard pile; the top is public to all
// players. Assumes lock is held.
func (g *CaboGame) discard(card *models.Card) {
	g.DiscardPile = append(g.DiscardPile, card)
}

// topDiscard returns the visible top of the discard pile, or nil.
func (g *CaboGame) topDiscard() *models.Card {
	if len(g.DiscardPile) == 0 {
		return nil
	}
	return g.DiscardPile[len(g.DiscardPile)-1]
}
