// internal/game/game.go
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cardtable/cabo/internal/memory"
	"github.com/cardtable/cabo/internal/models"
)

// AINames are the opponent names, assigned in seat order.
var AINames = []string{"Coco", "Tashi", "Ricky Baker", "Jeff"}

// HumanIndex is the human player's fixed seat.
const HumanIndex = 0

const logRingSize = 80

// NoCaller marks CaboCallerIndex while no one has called Cabo this round.
const NoCaller = -1

// CaboGame holds the entire state for a single game session in memory. A
// session spans a whole match; the round-scoped fields are reset by
// startRound. All mutation happens under Mu; exactly one actor (the human
// via input events, or the AI turn goroutine) mutates at a time.
type CaboGame struct {
	ID  uuid.UUID
	Mu  sync.Mutex
	Cfg Config

	Phase       Phase
	Deck        []*models.Card
	DiscardPile []*models.Card
	Players     []*models.Player

	CurrentPlayerIndex int
	DrawnCard          *models.Card
	DrawnFrom          DrawSource
	CaboCallerIndex    int
	TurnsUntilEnd      int

	// Memories holds one private belief map per player; index 0 is the
	// human's. No decision function ever reads another player's map.
	Memories []*memory.Memory

	Message   string
	Log       []string
	Scores    []RoundScore
	RoundOver bool

	Match *CaboMatch

	// Transient selection state for in-progress multi-step interactions.
	// Cleared on every turn advance.
	powerSwapFirst  *models.Position
	bkOwnSelect     *models.Position
	bkOppSelect     *models.Position
	bkPeeked        *models.Position
	peekReveal      *models.Position
	matchPrevPhase  Phase
	matchGiveTarget *models.Position

	// aiResume, when non-nil, parks the AI turn goroutine until the human
	// acts on the ai_match_pause window.
	aiResume chan struct{}

	// turnGen invalidates in-flight AI turn goroutines across turn advances
	// and round resets.
	turnGen int

	// BroadcastFn forwards game events to the presentation layer. If nil,
	// no events are sent.
	BroadcastFn func(ev GameEvent)

	// RenderFn is invoked after every externally visible state mutation.
	RenderFn func()

	// StepDelay paces the AI turn between sub-steps; PeekRevealDelay is how
	// long a peeked card stays face-up before the phase auto-reverts. Tests
	// set both near zero.
	StepDelay       time.Duration
	PeekRevealDelay time.Duration

	rng *rand.Rand
	log *logrus.Entry
}

// NewCaboGame builds a session for the given config and deals the first
// round. The returned game is in PhasePeek awaiting the human's Ready.
func NewCaboGame(cfg Config) (*CaboGame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id, _ := uuid.NewRandom()
	g := &CaboGame{
		ID:              id,
		Cfg:             cfg,
		CaboCallerIndex: NoCaller,
		StepDelay:       1500 * time.Millisecond,
		PeekRevealDelay: 2500 * time.Millisecond,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		log:             logrus.WithField("game", id),
	}
	g.Match = newCaboMatch(cfg)
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.startRound()
	return g, nil
}

// startRound resets all round-scoped state, deals fresh hands and performs
// the initial bottom-two peek for every player. Assumes lock is held.
func (g *CaboGame) startRound() {
	g.Match.CurrentRound++
	g.turnGen++

	g.Deck = nil
	g.DiscardPile = nil
	g.Players = nil
	g.CurrentPlayerIndex = 0
	g.DrawnCard = nil
	g.DrawnFrom = ""
	g.CaboCallerIndex = NoCaller
	g.TurnsUntilEnd = 0
	g.Scores = nil
	g.RoundOver = false
	g.Log = nil
	g.clearTurnTransients()

	for i := 0; i < g.Cfg.NumPlayers; i++ {
		p := &models.Player{Cards: make([]*models.Card, 4)}
		if i == HumanIndex {
			p.Name = "You"
			p.IsHuman = true
		} else {
			p.Name = AINames[i-1]
		}
		g.Players = append(g.Players, p)
	}

	g.Memories = make([]*memory.Memory, g.Cfg.NumPlayers)
	for i := range g.Memories {
		g.Memories[i] = memory.New()
	}

	g.Deck = g.buildDeck()
	for p := 0; p < g.Cfg.NumPlayers; p++ {
		for c := 0; c < 4; c++ {
			g.Players[p].Cards[c] = g.popDeck()
		}
	}
	g.DiscardPile = append(g.DiscardPile, g.popDeck())

	// Initial peek: everyone memorizes their bottom two slots (2 and 3).
	for p := 0; p < g.Cfg.NumPlayers; p++ {
		for _, ci := range []int{2, 3} {
			if card := g.Players[p].Cards[ci]; card != nil {
				g.Memories[p].Set(models.Position{Player: p, Card: ci}, card)
			}
		}
	}

	g.Phase = PhasePeek
	g.Message = "Memorize your bottom two cards, then click Ready."
	g.addLog("Round %d started with %d players.", g.Match.CurrentRound, g.Cfg.NumPlayers)
	g.addLog("Peek at your bottom two cards!")
	g.log.WithFields(logrus.Fields{
		"round":   g.Match.CurrentRound,
		"players": g.Cfg.NumPlayers,
	}).Info("round started")
	g.fireEvent(GameEvent{Type: EventGameStart, Payload: map[string]interface{}{
		"round": g.Match.CurrentRound,
	}})
}

// clearTurnTransients drops all per-turn selection state. Assumes lock is
// held.
func (g *CaboGame) clearTurnTransients() {
	if g.aiResume != nil {
		// Wake any parked AI goroutine; it re-checks turnGen and exits.
		close(g.aiResume)
	}
	g.powerSwapFirst = nil
	g.bkOwnSelect = nil
	g.bkOppSelect = nil
	g.bkPeeked = nil
	g.peekReveal = nil
	g.matchPrevPhase = ""
	g.matchGiveTarget = nil
	g.aiResume = nil
}

// addLog appends a formatted line to the bounded game log.
// Assumes lock is held.
func (g *CaboGame) addLog(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	g.Log = append(g.Log, line)
	if len(g.Log) > logRingSize {
		g.Log = g.Log[len(g.Log)-logRingSize:]
	}
}

// cardPosDesc describes a slot from the human's point of view, e.g.
// "your top-left card" or "Coco's bottom-right card".
func (g *CaboGame) cardPosDesc(pos models.Position) string {
	p := g.Players[pos.Player]
	label := models.SlotLabel(len(p.Cards), pos.Card)
	if pos.Player == HumanIndex {
		return "your " + label + " card"
	}
	return p.Name + "'s " + label + " card"
}

// ownPosDesc describes an AI's own slot in the third person.
func (g *CaboGame) ownPosDesc(pos models.Position) string {
	p := g.Players[pos.Player]
	return "their " + models.SlotLabel(len(p.Cards), pos.Card) + " card"
}

// forgetForAll clears every observer's belief about pos. Assumes lock is
// held.
func (g *CaboGame) forgetForAll(pos models.Position) {
	for _, m := range g.Memories {
		m.Forget(pos)
	}
}

// transposeForAll follows a publicly visible blind swap of a and b through
// every observer's beliefs: anyone who knew either slot now believes the
// card moved to the other slot; observers who knew neither stay empty.
// Assumes lock is held.
func (g *CaboGame) transposeForAll(a, b models.Position) {
	for _, m := range g.Memories {
		m.Transpose(a, b)
	}
}

// cardAt returns the card at pos, or nil for a gap or out-of-range address.
func (g *CaboGame) cardAt(pos models.Position) *models.Card {
	if pos.Player < 0 || pos.Player >= len(g.Players) {
		return nil
	}
	cards := g.Players[pos.Player].Cards
	if pos.Card < 0 || pos.Card >= len(cards) {
		return nil
	}
	return cards[pos.Card]
}

// checkRoundEnd reports whether a round-termination trigger holds: an empty
// hand, or an exhausted deck with no reshuffle possible. Assumes lock is
// held.
func (g *CaboGame) checkRoundEnd() bool {
	for i := range g.Players {
		if g.Players[i].CardCount() == 0 {
			return true
		}
	}
	return len(g.Deck) == 0 && len(g.DiscardPile) <= 1
}

// nextTurn closes the current turn: it evaluates round-end triggers, runs
// the Cabo countdown, clears transient state and hands control to the next
// player (scheduling the AI turn goroutine for computer seats). Assumes lock
// is held.
func (g *CaboGame) nextTurn() {
	if g.checkRoundEnd() {
		g.endRound()
		return
	}

	if g.CaboCallerIndex != NoCaller {
		g.TurnsUntilEnd--
		if g.TurnsUntilEnd <= 0 {
			g.endRound()
			return
		}
	}

	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % g.Cfg.NumPlayers

	// The caller sits out the final turns.
	if g.CaboCallerIndex != NoCaller && g.CurrentPlayerIndex == g.CaboCallerIndex {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % g.Cfg.NumPlayers
		g.TurnsUntilEnd--
		if g.TurnsUntilEnd <= 0 {
			g.endRound()
			return
		}
	}

	g.DrawnCard = nil
	g.DrawnFrom = ""
	g.clearTurnTransients()
	g.turnGen++

	g.fireEvent(GameEvent{Type: EventPlayerTurn, Player: intPtr(g.CurrentPlayerIndex)})

	player := g.Players[g.CurrentPlayerIndex]
	if player.IsHuman {
		g.Phase = PhaseTurnStart
		g.Message = "Your turn! Draw from the deck or discard pile."
		if g.CaboCallerIndex != NoCaller {
			g.Message += fmt.Sprintf(" (Cabo! %d turn(s) left)", g.TurnsUntilEnd)
		}
		g.render()
	} else {
		g.Phase = PhaseAIThinking
		g.Message = player.Name + " is thinking..."
		g.render()
		go g.runAITurn(g.CurrentPlayerIndex, g.turnGen)
	}
}

// finishHumanAction lands the human in turn_end after their act resolves.
// Assumes lock is held.
func (g *CaboGame) finishHumanAction(msg string) {
	g.Phase = PhaseTurnEnd
	suffix := "End your turn or call Cabo."
	if g.CaboCallerIndex != NoCaller {
		suffix = "Match or end your turn."
	}
	if msg != "" {
		g.Message = msg + " " + suffix
	} else {
		g.Message = suffix
	}
	g.render()
}
