// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/cardtable/cabo/internal/game"
	"github.com/cardtable/cabo/internal/middleware"
)

// GameMessage is the envelope for incoming WebSocket messages. Player and
// Card address a table slot for card_click; Own and Swap carry the Black
// King sub-decisions.
type GameMessage struct {
	Type   string `json:"type"`
	Player *int   `json:"player,omitempty"`
	Card   *int   `json:"card,omitempty"`
	Own    *bool  `json:"own,omitempty"`
	Swap   *bool  `json:"swap,omitempty"`
}

// GameWSHandler upgrades the connection to WebSocket for a session at
// /game/ws/{game_id}, attaches it as the session's presentation sink, sends
// the initial snapshot and runs the read loop until the client leaves.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := gs.sessionFromPath(w, r, "/game/ws/")
		if !ok {
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"cabo"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", g.ID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "cabo" {
			logger.Warnf("Client for game %s connected with invalid subprotocol: %s", g.ID, c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'cabo' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		// Outbound frames are queued here; a dedicated writer goroutine owns
		// the connection for writes so render callbacks never block game
		// logic.
		out := make(chan []byte, 64)
		go writeFrames(c, out, logger)
		attachPresentation(g, out, logger)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		readErr := readGameMessages(ctx, c, g, logger)

		detachPresentation(g)
		close(out)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// attachPresentation wires the session's render and event callbacks to the
// connection's outbound queue and pushes the initial snapshot. The callbacks
// run with the game lock held, so they only marshal and enqueue.
func attachPresentation(g *game.CaboGame, out chan []byte, logger *logrus.Logger) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	enqueue := func(v interface{}) {
		data, err := json.Marshal(v)
		if err != nil {
			logger.Errorf("failed to marshal outbound frame for game %s: %v", g.ID, err)
			return
		}
		select {
		case out <- data:
		default:
			logger.Warnf("dropping frame for game %s: client is slow", g.ID)
		}
	}
	g.RenderFn = func() {
		enqueue(map[string]interface{}{"type": "state", "state": g.BuildView()})
	}
	g.BroadcastFn = func(ev game.GameEvent) {
		enqueue(map[string]interface{}{"type": "event", "event": ev})
	}
	g.RenderFn()
}

// detachPresentation disconnects the session from a departed client so the
// game can keep running headless until a reconnect.
func detachPresentation(g *game.CaboGame) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.RenderFn = nil
	g.BroadcastFn = nil
}

// writeFrames drains the outbound queue onto the connection until the queue
// closes or a write fails.
func writeFrames(c *websocket.Conn, out chan []byte, logger *logrus.Logger) {
	for data := range out {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := c.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			logger.Warnf("WebSocket write failed: %v", err)
			return
		}
	}
}

// readGameMessages reads client messages and routes them to the session's
// input methods, which validate phase internally. Returns the terminal read
// error, nil for a normal closure.
func readGameMessages(ctx context.Context, c *websocket.Conn, g *game.CaboGame, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from client in game %s: %v", g.ID, err)
			sendWsError(ctx, c, "Invalid JSON format.")
			continue
		}
		logger.Debugf("Received action '%s' for game %s", msg.Type, g.ID)

		switch msg.Type {
		case "ready":
			g.Ready()
		case "deck_click":
			g.DeckClick()
		case "discard_click":
			g.DiscardClick()
		case "card_click":
			if msg.Player == nil || msg.Card == nil {
				sendWsError(ctx, c, "card_click requires player and card.")
				continue
			}
			g.CardClick(*msg.Player, *msg.Card)
		case "swap_begin":
			g.BeginSwap()
		case "swap_cancel":
			g.CancelSwap()
		case "discard_drawn":
			g.DiscardDrawn()
		case "use_power":
			g.UsePower()
		case "skip_power":
			g.SkipPower()
		case "swap_reselect":
			g.ReselectSwapFirst()
		case "bk_confirm":
			g.ConfirmBlackKing()
		case "bk_back":
			g.BlackKingBack()
		case "bk_peek":
			if msg.Own == nil {
				sendWsError(ctx, c, "bk_peek requires own.")
				continue
			}
			g.BlackKingPeek(*msg.Own)
		case "bk_swap":
			if msg.Swap == nil {
				sendWsError(ctx, c, "bk_swap requires swap.")
				continue
			}
			g.BlackKingSwap(*msg.Swap)
		case "end_turn":
			g.EndTurn()
		case "call_cabo":
			g.CallCabo()
		case "match_enter":
			g.EnterMatchMode()
		case "done_matching":
			g.DoneMatching()
		case "continue":
			g.ContinueAI()
		case "show_scores":
			g.ShowScores()
		case "next_round":
			g.NextRound()
		case "new_game":
			g.NewGame()
		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})
		default:
			logger.Warnf("Unknown action type '%s' in game %s", msg.Type, g.ID)
			sendWsError(ctx, c, "Unknown action type: "+msg.Type)
		}
	}
}
