// internal/game/events.go
package game

import "github.com/cardtable/cabo/internal/models"

// GameEventType is an enum-like type for broadcasting game actions to the
// presentation layer.
type GameEventType string

const (
	EventGameStart         GameEventType = "game_start"
	EventPlayerTurn        GameEventType = "game_player_turn"
	EventPlayerDrawDeck    GameEventType = "player_draw_deck"
	EventPlayerTakeDiscard GameEventType = "player_take_discard"
	EventPlayerDiscard     GameEventType = "player_discard"
	EventPlayerSwap        GameEventType = "player_swap"
	EventPlayerPower       GameEventType = "player_power"
	EventPlayerPeek        GameEventType = "player_peek"
	EventPlayerTableSwap   GameEventType = "player_table_swap"
	EventMatchSuccess      GameEventType = "player_match_success"
	EventMatchFail         GameEventType = "player_match_fail"
	EventMatchGive         GameEventType = "player_match_give"
	EventPlayerCabo        GameEventType = "player_cabo"
	EventDeckReshuffle     GameEventType = "game_reshuffle_deck"
	EventRoundEnd          GameEventType = "game_round_end"
	EventMatchEnd          GameEventType = "game_match_end"
)

// GameEvent holds data about an event that can be forwarded to the client in
// a consistent format. Player is the acting player's index; Pos and Pos2
// identify affected table slots where relevant.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Player  *int                   `json:"player,omitempty"`
	Card    *models.Card           `json:"card,omitempty"`
	Pos     *models.Position       `json:"pos,omitempty"`
	Pos2    *models.Position       `json:"pos2,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// fireEvent forwards an event to the registered broadcaster, if any.
// Assumes lock is held.
func (g *CaboGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// render notifies the presentation layer that visible state changed. The
// collaborator is idempotent and reads current state only; the core never
// waits on it. Assumes lock is held.
func (g *CaboGame) render() {
	if g.RenderFn != nil {
		g.RenderFn()
	}
}

func intPtr(i int) *int { return &i }

func posPtr(p models.Position) *models.Position { return &p }
