// Package rankingdomain holds the pure ranking rules: how a ratio is derived
// from a tally and how rows are ordered on a leaderboard.
package rankingdomain

import "sort"

// Row is one player's standing.
type Row struct {
	PlayerID int64
	Name     string
	Username string
	Wins     int
	Losses   int
	// Ratio is nil when the player has no games in scope.
	Ratio *float64
}

// Played is the number of games counted for the row.
func (r Row) Played() int { return r.Wins + r.Losses }

// ComputeRatio returns wins/(wins+losses), or nil when no games were played.
func ComputeRatio(wins, losses int) *float64 {
	total := wins + losses
	if total <= 0 {
		return nil
	}
	ratio := float64(wins) / float64(total)
	return &ratio
}

// Leaderboard drops rows without a ratio and orders the rest by ratio, then
// wins, both descending, then by player id.
func Leaderboard(rows []Row) []Row {
	board := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Ratio != nil {
			board = append(board, r)
		}
	}
	sort.SliceStable(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if *a.Ratio != *b.Ratio {
			return *a.Ratio > *b.Ratio
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.PlayerID < b.PlayerID
	})
	return board
}
