// internal/game/matching_test.go
package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/cabo/internal/models"
)

// primeMatch puts the session into match mode with a known top discard.
func primeMatch(g *CaboGame, top *models.Card) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.DiscardPile = []*models.Card{top}
	g.matchPrevPhase = PhaseTurnStart
	g.Phase = PhaseMatchMode
}

func TestSelfMatchLeavesPermanentGap(t *testing.T) {
	g, mb := setupTestGame(t, 2)
	g.Mu.Lock()
	g.Players[0].Cards[1] = card("5", models.SuitHearts)
	g.Memories[1].Set(models.Position{Player: 0, Card: 1}, g.Players[0].Cards[1])
	g.Mu.Unlock()
	primeMatch(g, card("5", models.SuitClubs))

	g.CardClick(0, 1)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Nil(t, g.Players[0].Cards[1])
	assert.Equal(t, 3, g.Players[0].CardCount())
	assert.Equal(t, models.SuitHearts, g.topDiscard().Suit)
	assert.Equal(t, PhaseMatchMode, g.Phase)
	// Every observer's belief about the vacated slot is gone.
	for _, m := range g.Memories {
		assert.False(t, m.Knows(models.Position{Player: 0, Card: 1}))
	}
	assert.NotNil(t, mb.lastOfType(EventMatchSuccess))
}

func TestWrongMatchAddsPenaltyCard(t *testing.T) {
	g, mb := setupTestGame(t, 2)
	g.Mu.Lock()
	g.Players[0].Cards[0] = card("9", models.SuitDiamonds)
	g.Mu.Unlock()
	primeMatch(g, card("5", models.SuitClubs))

	g.CardClick(0, 0)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	// The mismatched card stays put; the hand grows by one face-down card.
	assert.NotNil(t, g.Players[0].Cards[0])
	assert.Len(t, g.Players[0].Cards, 5)
	assert.Equal(t, 5, g.Players[0].CardCount())
	// The penalty card's identity is unknown to its new owner.
	assert.False(t, g.Memories[0].Knows(models.Position{Player: 0, Card: 4}))
	assert.Equal(t, PhaseMatchMode, g.Phase)
	assert.NotNil(t, mb.lastOfType(EventMatchFail))
}

func TestCrossMatchRequiresGive(t *testing.T) {
	g, mb := setupTestGame(t, 2)
	g.Mu.Lock()
	g.Players[1].Cards[0] = card("5", models.SuitSpades)
	giveCard := g.Players[0].Cards[2]
	g.Mu.Unlock()
	primeMatch(g, card("5", models.SuitClubs))

	g.CardClick(1, 0)
	assert.Equal(t, PhaseMatchGive, phaseOf(g))

	g.CardClick(0, 2)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	// The human's card moved into the opponent's vacated slot.
	assert.Equal(t, giveCard, g.Players[1].Cards[0])
	assert.Nil(t, g.Players[0].Cards[2])
	assert.Equal(t, PhaseMatchMode, g.Phase)
	// The transfer is face-down: both slots are unknown to everyone,
	// including the two parties.
	for _, m := range g.Memories {
		assert.False(t, m.Knows(models.Position{Player: 0, Card: 2}))
		assert.False(t, m.Knows(models.Position{Player: 1, Card: 0}))
	}
	assert.NotNil(t, mb.lastOfType(EventMatchGive))
}

func TestCrossMatchWithEmptyHandSkipsGive(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Mu.Lock()
	for i := range g.Players[0].Cards {
		g.Players[0].Cards[i] = nil
	}
	g.Players[1].Cards[0] = card("5", models.SuitSpades)
	g.Mu.Unlock()
	primeMatch(g, card("5", models.SuitClubs))

	g.CardClick(1, 0)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Nil(t, g.Players[1].Cards[0])
	assert.Equal(t, PhaseMatchMode, g.Phase)
}

func TestMatchClickOnEmptySlotIgnored(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Mu.Lock()
	g.Players[0].Cards[3] = nil
	g.Mu.Unlock()
	primeMatch(g, card("5", models.SuitClubs))

	g.CardClick(0, 3)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Equal(t, PhaseMatchMode, g.Phase)
	assert.Equal(t, 3, g.Players[0].CardCount())
}

func TestEnterMatchModeRequiresDiscard(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Mu.Lock()
	g.Phase = PhaseTurnStart
	g.DiscardPile = nil
	g.Mu.Unlock()

	g.EnterMatchMode()
	assert.Equal(t, PhaseTurnStart, phaseOf(g))
}

func TestDoneMatchingRestoresPreviousPhase(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	forcePhase(g, PhaseTurnStart)

	g.EnterMatchMode()
	assert.Equal(t, PhaseMatchMode, phaseOf(g))

	g.DoneMatching()
	assert.Equal(t, PhaseTurnStart, phaseOf(g))
}

func TestMatchModeAvailableFromTurnEnd(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	forcePhase(g, PhaseTurnEnd)

	g.EnterMatchMode()
	assert.Equal(t, PhaseMatchMode, phaseOf(g))

	g.DoneMatching()
	assert.Equal(t, PhaseTurnEnd, phaseOf(g))
}

func TestMatchDuringAIPauseResumesAI(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	forcePhase(g, PhaseTurnEnd)
	g.EndTurn()

	require.Eventually(t, func() bool {
		return phaseOf(g) == PhaseAIMatchPause
	}, 2*time.Second, 2*time.Millisecond)

	g.EnterMatchMode()
	assert.Equal(t, PhaseMatchMode, phaseOf(g))

	// Leaving match mode hands control back to the paused AI turn.
	g.DoneMatching()
	p := pumpAITurn(t, g)
	assert.Contains(t, []Phase{PhaseTurnStart, PhaseRoundReveal}, p)
}
