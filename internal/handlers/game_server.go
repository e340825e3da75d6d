// internal/handlers/game_server.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cardtable/cabo/internal/game"
)

// GameServer holds the session store and serves the HTTP surface for
// creating sessions and fetching snapshots.
type GameServer struct {
	Store  *game.SessionStore
	Logger *logrus.Logger
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	return &GameServer{
		Store:  game.NewSessionStore(),
		Logger: logger,
	}
}

// PingHandler is a trivial liveness endpoint.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// CreateGameHandler handles POST /game/new. The optional JSON body carries
// config overrides (players, rounds, memoryAids); anything omitted keeps its
// default. Responds with the session ID and the initial snapshot.
func (gs *GameServer) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg, err := game.ConfigFromEnv()
	if err != nil {
		cfg = game.DefaultConfig()
		gs.Logger.Warnf("invalid config in environment, using defaults: %v", err)
	}
	if r.Body != nil {
		var overrides map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&overrides); err == nil {
			cfg.Update(overrides)
		}
	}

	g, err := game.NewCaboGame(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gs.Store.Add(g)
	gs.Logger.WithFields(logrus.Fields{
		"game":    g.ID,
		"players": cfg.NumPlayers,
		"rounds":  cfg.TotalRounds,
	}).Info("game session created")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"gameId": g.ID.String(),
		"state":  g.View(),
	})
}

// StateHandler handles GET /game/state/{id}, returning the current snapshot
// for polling clients that do not hold a WebSocket.
func (gs *GameServer) StateHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := gs.sessionFromPath(w, r, "/game/state/")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g.View())
}

// DeleteGameHandler handles POST /game/delete/{id}.
func (gs *GameServer) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	g, ok := gs.sessionFromPath(w, r, "/game/delete/")
	if !ok {
		return
	}
	gs.Store.Delete(g.ID)
	gs.Logger.WithField("game", g.ID).Info("game session deleted")
	w.WriteHeader(http.StatusNoContent)
}
