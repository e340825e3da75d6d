// internal/handlers/utils.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/cardtable/cabo/internal/game"
)

// sessionFromPath resolves the session addressed by the request path after
// stripping prefix, writing the HTTP error itself when the ID is missing,
// malformed or unknown.
func (gs *GameServer) sessionFromPath(w http.ResponseWriter, r *http.Request, prefix string) (*game.CaboGame, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	idStr = strings.TrimSuffix(idStr, "/")
	if idStr == "" {
		http.Error(w, "Missing game ID in path", http.StatusBadRequest)
		return nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid game ID format", http.StatusBadRequest)
		return nil, false
	}
	g, ok := gs.Store.Get(id)
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return nil, false
	}
	return g, true
}

// sendWsMessage marshals v and writes it to the connection with a short
// timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	c.Write(wctx, websocket.MessageText, data)
}

// sendWsError sends a typed error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, msg string) {
	sendWsMessage(ctx, c, map[string]string{"type": "error", "message": msg})
}
