// internal/game/powers_test.go
package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/cabo/internal/models"
)

// primePower puts a deck-drawn power card into the human's hand decision.
func primePower(g *CaboGame, c *models.Card) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.Phase = PhaseDrawDecision
	g.DrawnCard = c
	g.DrawnFrom = DrawFromDeck
}

func TestPeekSelfMemorizesCard(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card("7", models.SuitSpades))

	g.UsePower()
	assert.Equal(t, PhasePeekSelf, phaseOf(g))

	g.CardClick(0, 0)
	assert.Equal(t, PhasePeekShow, phaseOf(g))

	g.Mu.Lock()
	believed, ok := g.Memories[0].Get(models.Position{Player: 0, Card: 0})
	truth := g.Players[0].Cards[0]
	g.Mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, truth.Rank, believed.Rank)

	// The reveal times out into turn_end on its own.
	require.Eventually(t, func() bool {
		return phaseOf(g) == PhaseTurnEnd
	}, 2*time.Second, time.Millisecond)
}

func TestDrawnPeekFlowsIntoOpponentSnap(t *testing.T) {
	g, mb := setupTestGame(t, 2)
	g.Ready()

	// Plant a 7 on top of the deck and let the opponent know it holds
	// another 7.
	seven := card("7", models.SuitClubs)
	match := card("7", models.SuitDiamonds)
	g.Mu.Lock()
	g.Deck = append(g.Deck, seven)
	g.Players[1].Cards[1] = match
	g.Memories[1].Set(models.Position{Player: 1, Card: 1}, match)
	g.Mu.Unlock()

	g.DeckClick()
	g.Mu.Lock()
	require.Equal(t, seven, g.DrawnCard)
	g.Mu.Unlock()

	g.UsePower()
	assert.Equal(t, PhasePeekSelf, phaseOf(g))
	g.CardClick(0, 2)

	require.Eventually(t, func() bool {
		return phaseOf(g) == PhaseTurnEnd
	}, 2*time.Second, time.Millisecond)
	g.Mu.Lock()
	believed, ok := g.Memories[0].Get(models.Position{Player: 0, Card: 2})
	truth := g.Players[0].Cards[2]
	top := g.topDiscard()
	g.Mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, truth.Rank, believed.Rank)
	// The spent power card is now the public pile top.
	require.Equal(t, seven, top)

	mb.clear()
	g.EndTurn()
	pumpAITurn(t, g)

	// The opponent snapped its own 7 onto the spent power card, leaving a
	// permanent gap in its hand.
	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Nil(t, g.Players[1].Cards[1])
	ev := mb.lastOfType(EventMatchSuccess)
	require.NotNil(t, ev)
	assert.Equal(t, 1, *ev.Player)
}

func TestPeekSelfRejectsOpponentSlot(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card("8", models.SuitHearts))
	g.UsePower()

	g.CardClick(1, 0)
	assert.Equal(t, PhasePeekSelf, phaseOf(g))
}

func TestPeekOtherRevealsOpponentCard(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card("9", models.SuitClubs))

	g.UsePower()
	assert.Equal(t, PhasePeekOther, phaseOf(g))

	// Own cards are not valid spy targets.
	g.CardClick(0, 1)
	assert.Equal(t, PhasePeekOther, phaseOf(g))

	g.CardClick(1, 2)
	g.Mu.Lock()
	believed, ok := g.Memories[0].Get(models.Position{Player: 1, Card: 2})
	truth := g.Players[1].Cards[2]
	g.Mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, truth.Rank, believed.Rank)

	require.Eventually(t, func() bool {
		return phaseOf(g) == PhaseTurnEnd
	}, 2*time.Second, time.Millisecond)
}

func TestBlindSwapTransposesAllBeliefs(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	a := models.Position{Player: 0, Card: 2}
	b := models.Position{Player: 1, Card: 3}

	g.Mu.Lock()
	cardA := g.Players[0].Cards[2]
	cardB := g.Players[1].Cards[3]
	g.Mu.Unlock()
	primePower(g, card(models.RankJack, models.SuitHearts))

	g.UsePower()
	assert.Equal(t, PhaseSwapCardsFirst, phaseOf(g))

	g.CardClick(0, 2)
	assert.Equal(t, PhaseSwapCardsSecond, phaseOf(g))
	g.CardClick(1, 3)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Equal(t, cardB, g.Players[0].Cards[2])
	assert.Equal(t, cardA, g.Players[1].Cards[3])

	// The human memorized slot 2 during the initial peek; that belief must
	// follow the card to its new position, not linger or vanish.
	moved, ok := g.Memories[0].Get(b)
	require.True(t, ok)
	assert.Equal(t, cardA.Rank, moved.Rank)
	assert.False(t, g.Memories[0].Knows(a))

	// The opponent's initial-peek belief about its own slot 3 moved too.
	oppMoved, ok := g.Memories[1].Get(a)
	require.True(t, ok)
	assert.Equal(t, cardB.Rank, oppMoved.Rank)
	assert.Equal(t, PhaseTurnEnd, g.Phase)
}

func TestBlindSwapSameSlotRejected(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card(models.RankQueen, models.SuitClubs))
	g.UsePower()

	g.CardClick(0, 0)
	g.CardClick(0, 0)
	assert.Equal(t, PhaseSwapCardsSecond, phaseOf(g))
}

func TestBlindSwapReselect(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card(models.RankQueen, models.SuitClubs))
	g.UsePower()

	g.CardClick(0, 0)
	g.ReselectSwapFirst()
	assert.Equal(t, PhaseSwapCardsFirst, phaseOf(g))
}

func TestSkipPower(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card(models.RankJack, models.SuitSpades))
	g.UsePower()

	g.SkipPower()
	assert.Equal(t, PhaseTurnEnd, phaseOf(g))
}

func TestBlackKingSpyAndSwap(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	own := models.Position{Player: 0, Card: 0}
	opp := models.Position{Player: 1, Card: 1}

	g.Mu.Lock()
	ownCard := g.Players[0].Cards[0]
	oppCard := g.Players[1].Cards[1]
	// Let the opponent know its own slot so the wipe is observable.
	g.Memories[1].Set(opp, oppCard)
	g.Mu.Unlock()
	primePower(g, card(models.RankKing, models.SuitSpades))

	g.UsePower()
	assert.Equal(t, PhaseBlackKingSelect, phaseOf(g))

	g.CardClick(0, 0)
	g.CardClick(1, 1)
	g.ConfirmBlackKing()
	assert.Equal(t, PhaseBlackKingPeekChoice, phaseOf(g))

	g.BlackKingPeek(false)
	assert.Equal(t, PhaseBlackKingPeekShow, phaseOf(g))
	require.Eventually(t, func() bool {
		return phaseOf(g) == PhaseBlackKingSwapDecision
	}, 2*time.Second, time.Millisecond)

	g.BlackKingSwap(true)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Equal(t, oppCard, g.Players[0].Cards[0])
	assert.Equal(t, ownCard, g.Players[1].Cards[1])

	// The actor keeps only the peeked card, tracked to its landing slot.
	believed, ok := g.Memories[0].Get(own)
	require.True(t, ok)
	assert.Equal(t, oppCard.Rank, believed.Rank)
	assert.False(t, g.Memories[0].Knows(opp))

	// The opponent's beliefs about both slots are wiped; it saw the swap
	// happen but never saw the faces.
	assert.False(t, g.Memories[1].Knows(own))
	assert.False(t, g.Memories[1].Knows(opp))
	assert.Equal(t, PhaseTurnEnd, g.Phase)
}

func TestBlackKingDeclineSwap(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Mu.Lock()
	ownCard := g.Players[0].Cards[1]
	g.Mu.Unlock()
	primePower(g, card(models.RankKing, models.SuitClubs))

	g.UsePower()
	g.CardClick(0, 1)
	g.CardClick(1, 0)
	g.ConfirmBlackKing()
	g.BlackKingPeek(true)
	require.Eventually(t, func() bool {
		return phaseOf(g) == PhaseBlackKingSwapDecision
	}, 2*time.Second, time.Millisecond)

	g.BlackKingSwap(false)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Equal(t, ownCard, g.Players[0].Cards[1])
	assert.Equal(t, PhaseTurnEnd, g.Phase)
	// Declining keeps the peeked knowledge in place.
	believed, ok := g.Memories[0].Get(models.Position{Player: 0, Card: 1})
	require.True(t, ok)
	assert.Equal(t, ownCard.Rank, believed.Rank)
}

func TestBlackKingSelectionToggle(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card(models.RankKing, models.SuitSpades))
	g.UsePower()

	g.CardClick(0, 0)
	g.ConfirmBlackKing()
	// Only one side selected; confirmation refused.
	assert.Equal(t, PhaseBlackKingSelect, phaseOf(g))

	// Clicking the same card again deselects it.
	g.CardClick(0, 0)
	g.CardClick(1, 0)
	g.ConfirmBlackKing()
	assert.Equal(t, PhaseBlackKingSelect, phaseOf(g))
}

func TestBlackKingBackFromPeekChoice(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	primePower(g, card(models.RankKing, models.SuitSpades))
	g.UsePower()
	g.CardClick(0, 0)
	g.CardClick(1, 0)
	g.ConfirmBlackKing()

	g.BlackKingBack()
	assert.Equal(t, PhaseBlackKingSelect, phaseOf(g))
}
