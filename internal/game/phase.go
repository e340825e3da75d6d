// internal/game/phase.go
package game

// Phase enumerates the states of the turn protocol. Input events are only
// honored in the phases that expect them; everything else is a no-op.
type Phase string

const (
	// PhasePeek is the initial memorization window before the first turn.
	PhasePeek Phase = "peek"

	// Human turn phases.
	PhaseTurnStart    Phase = "turn_start"
	PhaseDrawDecision Phase = "draw_decision"
	PhaseSwapSelect   Phase = "swap_select"
	PhaseTurnEnd      Phase = "turn_end"

	// Matching. MatchMode is reachable from any human-turn phase and from
	// the AI-turn pause; MatchGive follows a successful cross-player match.
	PhaseMatchMode Phase = "match_mode"
	PhaseMatchGive Phase = "match_give"

	// Power sub-states.
	PhasePeekSelf              Phase = "peek_self"
	PhasePeekOther             Phase = "peek_other"
	PhasePeekShow              Phase = "peek_show"
	PhaseSwapCardsFirst        Phase = "swap_cards_1"
	PhaseSwapCardsSecond       Phase = "swap_cards_2"
	PhaseBlackKingSelect       Phase = "black_king_select"
	PhaseBlackKingPeekChoice   Phase = "black_king_peek_choice"
	PhaseBlackKingPeekShow     Phase = "black_king_peek_show"
	PhaseBlackKingSwapDecision Phase = "black_king_swap_decision"

	// AI turn phases. AIMatchPause is the human's interrupt window.
	PhaseAIThinking   Phase = "ai_thinking"
	PhaseAIMatchPause Phase = "ai_match_pause"

	// Terminal round phases.
	PhaseRoundReveal Phase = "round_reveal"
	PhaseGameOver    Phase = "game_over"
)

// DrawSource records where the pending drawn card came from. A discard-pile
// draw is public knowledge; a deck draw is private to the drawer.
type DrawSource string

const (
	DrawFromDeck    DrawSource = "deck"
	DrawFromDiscard DrawSource = "discard"
)
