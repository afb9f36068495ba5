// internal/game/types.go
//
// Core type definitions for an assistant session.
// Defines:
//   - State: coarse session state (playing/finished).
//   - RoundResult: one row of the round-by-round result log.
//   - Session: history, round counter, result log and current recommendation.

package game

import (
	"time"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/move"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/predict"
)

// State is the coarse state of a session.
type State string

const (
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

// RoundResult records what was recommended, what the opponent played and
// how the recommended move fared.
type RoundResult struct {
	Round        int          `json:"round"`
	UserMove     move.Move    `json:"userMove"`
	OpponentMove move.Move    `json:"opponentMove"`
	Outcome      move.Outcome `json:"outcome"`
}

// Session holds the mutable state of one assistant session.
type Session struct {
	ID             string                 `json:"id"`             // random hex identifier
	History        []move.Move            `json:"history"`        // opponent moves, oldest first
	Round          int                    `json:"round"`          // 1-based current round
	MaxRounds      int                    `json:"maxRounds"`      // session cap (typically 10)
	Recommendation predict.Recommendation `json:"recommendation"` // suggestion for the current round
	Results        []RoundResult          `json:"results"`        // result log, one row per played round
	Finished       bool                   `json:"finished"`       // true once MaxRounds were played
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// Summary tallies a session's outcomes.
type Summary struct {
	Rounds int `json:"rounds"`
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
}
