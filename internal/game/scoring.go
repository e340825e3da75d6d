// internal/game/scoring.go
package game

import (
	"fmt"
	"sort"

	"github.com/cardtable/cabo/internal/models"
)

// RoundScore is one player's end-of-round result. Score includes CaboBonus;
// Cards holds the revealed remaining hand.
type RoundScore struct {
	PlayerIndex int            `json:"playerIndex"`
	Name        string         `json:"name"`
	Score       int            `json:"score"`
	CaboBonus   int            `json:"caboBonus"`
	Cards       []*models.Card `json:"cards"`
}

// calculateScores totals every hand and applies the Cabo caller adjustment:
// -5 when the caller is strictly lowest, +5 when strictly higher than the
// lowest opponent, nothing on a tie. Results are sorted ascending by score.
// Assumes lock is held.
func (g *CaboGame) calculateScores() []RoundScore {
	scores := make([]RoundScore, 0, len(g.Players))
	for i, p := range g.Players {
		s := RoundScore{PlayerIndex: i, Name: p.Name}
		for _, c := range p.Cards {
			if c != nil {
				s.Score += c.Value()
				s.Cards = append(s.Cards, c)
			}
		}
		scores = append(scores, s)
	}

	if g.CaboCallerIndex != NoCaller {
		lowestOpponent := 0
		first := true
		for i := range scores {
			if scores[i].PlayerIndex == g.CaboCallerIndex {
				continue
			}
			if first || scores[i].Score < lowestOpponent {
				lowestOpponent = scores[i].Score
				first = false
			}
		}
		for i := range scores {
			if scores[i].PlayerIndex != g.CaboCallerIndex {
				continue
			}
			if scores[i].Score < lowestOpponent {
				scores[i].CaboBonus = -5
				scores[i].Score -= 5
			} else if scores[i].Score > lowestOpponent {
				scores[i].CaboBonus = 5
				scores[i].Score += 5
			}
		}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Score < scores[b].Score
	})
	g.Scores = scores
	return scores
}

// endRound enters the terminal reveal state, computes adjusted scores and
// folds them into the match totals. Assumes lock is held.
func (g *CaboGame) endRound() {
	if g.RoundOver {
		return
	}
	g.RoundOver = true
	g.Phase = PhaseRoundReveal
	g.calculateScores()

	for _, s := range g.Scores {
		g.Match.MatchTotals[s.PlayerIndex] += s.Score
	}
	history := make([]RoundScore, len(g.Scores))
	copy(history, g.Scores)
	g.Match.RoundHistory = append(g.Match.RoundHistory, history)

	if g.Match.TotalRounds > 1 {
		g.Message = sprintfRound(g.Match.CurrentRound, g.Match.TotalRounds) + " complete! All cards revealed."
		g.addLog("%s complete!", sprintfRound(g.Match.CurrentRound, g.Match.TotalRounds))
	} else {
		g.Message = "Game Over! All cards revealed."
		g.addLog("Game Over!")
	}

	if g.CaboCallerIndex != NoCaller {
		for _, s := range g.Scores {
			if s.PlayerIndex != g.CaboCallerIndex {
				continue
			}
			switch s.CaboBonus {
			case -5:
				g.addLog("%s called Cabo with the lowest score! -5 bonus.", s.Name)
			case 5:
				g.addLog("%s was back-doored! +5 penalty.", s.Name)
			default:
				g.addLog("%s called Cabo but tied — no bonus.", s.Name)
			}
			break
		}
	}

	g.log.WithField("round", g.Match.CurrentRound).Info("round ended")
	g.fireEvent(GameEvent{Type: EventRoundEnd, Payload: map[string]interface{}{
		"round":  g.Match.CurrentRound,
		"scores": g.Scores,
	}})
	if g.Match.Finished() {
		g.fireEvent(GameEvent{Type: EventMatchEnd, Payload: map[string]interface{}{
			"totals": g.Match.MatchTotals,
		}})
	}
	g.render()
}

func sprintfRound(current, total int) string {
	return fmt.Sprintf("Round %d of %d", current, total)
}
