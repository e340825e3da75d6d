// internal/models/card.go
package models

// Suit identifies one of the four card suits. Jokers carry a suit only to
// distinguish their printed color; it never affects value.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Suits lists all four suits in deck-construction order.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// RedSuits is the set of suits that count as red for valuation.
var RedSuits = map[Suit]bool{SuitHearts: true, SuitDiamonds: true}

// Rank is the face rank of a card. Jokers use RankJoker.
type Rank string

const (
	RankAce   Rank = "A"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankJoker Rank = "Joker"
)

// Ranks lists the thirteen standard ranks in deck-construction order.
var Ranks = []Rank{RankAce, "2", "3", "4", "5", "6", "7", "8", "9", "10", RankJack, RankQueen, RankKing}

var suitSymbols = map[Suit]string{
	SuitHearts:   "♥",
	SuitDiamonds: "♦",
	SuitClubs:    "♣",
	SuitSpades:   "♠",
}

var faceValues = map[Rank]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
}

// Card is a single playing card. Identity is rank plus suit; value is always
// derived, never stored.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Value returns the scoring value of the card. A nil card (empty slot)
// scores 0. Red kings score 0, Jokers score -1.
func (c *Card) Value() int {
	if c == nil {
		return 0
	}
	switch c.Rank {
	case RankJoker:
		return -1
	case RankAce:
		return 1
	case RankJack:
		return 11
	case RankQueen:
		return 12
	case RankKing:
		if RedSuits[c.Suit] {
			return 0
		}
		return 13
	}
	return faceValues[c.Rank]
}

// Name renders the card for log and message text, e.g. "7♥" or "Joker".
func (c *Card) Name() string {
	if c == nil {
		return "?"
	}
	if c.Rank == RankJoker {
		return "Joker"
	}
	return string(c.Rank) + suitSymbols[c.Suit]
}

// IsJoker reports whether the card is a Joker.
func (c *Card) IsJoker() bool {
	return c != nil && c.Rank == RankJoker
}

// IsOneEyedKing reports whether the card is the king of diamonds.
func (c *Card) IsOneEyedKing() bool {
	return c != nil && c.Rank == RankKing && c.Suit == SuitDiamonds
}

// IsBlackKing reports whether the card is a black king, the only rank that
// carries the spy-and-swap power.
func (c *Card) IsBlackKing() bool {
	return c != nil && c.Rank == RankKing && (c.Suit == SuitSpades || c.Suit == SuitClubs)
}

// IsRedKing reports whether the card is a zero-value red king.
func (c *Card) IsRedKing() bool {
	return c != nil && c.Rank == RankKing && RedSuits[c.Suit]
}

// PowerType identifies the special action unlocked by discarding a freshly
// drawn power card.
type PowerType string

const (
	PowerNone       PowerType = ""
	PowerPeekSelf   PowerType = "peek_self"
	PowerPeekOther  PowerType = "peek_other"
	PowerSwapCards  PowerType = "swap_cards"
	PowerSpyAndSwap PowerType = "spy_and_swap"
)

// Power returns the power type of the card, or PowerNone.
func (c *Card) Power() PowerType {
	if c == nil {
		return PowerNone
	}
	switch c.Rank {
	case "7", "8":
		return PowerPeekSelf
	case "9", "10":
		return PowerPeekOther
	case RankJack, RankQueen:
		return PowerSwapCards
	case RankKing:
		if c.IsBlackKing() {
			return PowerSpyAndSwap
		}
	}
	return PowerNone
}

// IsPowerCard reports whether discarding the card from a deck draw unlocks a
// special action.
func (c *Card) IsPowerCard() bool {
	return c.Power() != PowerNone
}

// PowerDescription returns the player-facing description of the card's power.
func (c *Card) PowerDescription() string {
	switch c.Power() {
	case PowerPeekSelf:
		return "Peek at one of your own cards"
	case PowerPeekOther:
		return "Peek at an opponent's card"
	case PowerSwapCards:
		return "Swap any two cards on the table"
	case PowerSpyAndSwap:
		return "Spy & Swap: peek at one, then swap or keep"
	}
	return ""
}
