// internal/game/match.go
package game

// CaboMatch spans multiple rounds of one match. It survives round resets and
// is replaced only by New Game.
type CaboMatch struct {
	NumPlayers   int            `json:"numPlayers"`
	TotalRounds  int            `json:"totalRounds"`
	CurrentRound int            `json:"currentRound"`
	PlayerNames  []string       `json:"playerNames"`
	MatchTotals  []int          `json:"matchTotals"`
	RoundHistory [][]RoundScore `json:"roundHistory"`
}

func newCaboMatch(cfg Config) *CaboMatch {
	names := []string{"You"}
	for i := 1; i < cfg.NumPlayers; i++ {
		names = append(names, AINames[i-1])
	}
	return &CaboMatch{
		NumPlayers:  cfg.NumPlayers,
		TotalRounds: cfg.TotalRounds,
		PlayerNames: names,
		MatchTotals: make([]int, cfg.NumPlayers),
	}
}

// Finished reports whether all rounds of the match have been played.
func (m *CaboMatch) Finished() bool {
	return m.CurrentRound >= m.TotalRounds
}

// NextRound deals the next round of the match. No-op unless the session sits
// on the game_over screen with rounds remaining.
func (g *CaboGame) NextRound() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase != PhaseGameOver || g.Match.Finished() {
		return
	}
	g.startRound()
	g.render()
}

// NewGame discards the whole match and starts over with the same config.
func (g *CaboGame) NewGame() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.Match = newCaboMatch(g.Cfg)
	g.startRound()
	g.render()
}
