// internal/game/engine.go
//
// Session engine driving the predictor one opponent move at a time.
// Responsibilities:
//   - Create sessions with a round cap (10 by default).
//   - Validate and apply opponent moves, scoring the recommended move.
//   - Recompute the recommendation after every history update.
//   - Reset a session to the exact state of a fresh one.
//
// Notes:
//   - The recommendation is a pure function of History; the session keeps no
//     other model state, so a reset cannot leak old transition counts.
//   - Randomness is passed in by the caller on every call.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/move"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/predict"
)

// DefaultMaxRounds is the session cap used when none is given.
const DefaultMaxRounds = 10

// ErrFinished is returned when a move is applied to a finished session.
var ErrFinished = errors.New("session finished")

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// New constructs a session at round 1 with an empty history.
// A non-positive maxRounds selects DefaultMaxRounds.
func New(maxRounds int, src predict.Source) *Session {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	t := now()
	s := &Session{
		ID:        randomID(),
		MaxRounds: maxRounds,
		CreatedAt: t,
	}
	s.clear(src, t)
	return s
}

// ApplyOpponentMove records the opponent's move for the current round.
// Returns: the scored round, the new state, or an error.
//
// Validation rules:
//   - Session must not be finished.
//   - m must be one of the three moves.
//
// State transitions:
//   - If Round reaches MaxRounds → Finished = true.
//   - Else Round advances by one.
func (s *Session) ApplyOpponentMove(m move.Move, src predict.Source) (RoundResult, State, error) {
	if s.Finished {
		return RoundResult{}, s.State(), ErrFinished
	}
	if !move.Valid(m) {
		return RoundResult{}, s.State(), move.ErrInvalidMove
	}

	mine := s.Recommendation.Counter
	res := RoundResult{
		Round:        s.Round,
		UserMove:     mine,
		OpponentMove: m,
		Outcome:      move.Compare(mine, m),
	}
	s.Results = append(s.Results, res)
	s.History = append(s.History, m)

	if s.Round >= s.MaxRounds {
		s.Finished = true
	} else {
		s.Round++
	}

	s.Recommendation = predict.Recommend(s.History, src)
	s.UpdatedAt = now()
	return res, s.State(), nil
}

// Reset clears history, round counter and result log.
func (s *Session) Reset(src predict.Source) {
	s.clear(src, now())
}

func (s *Session) clear(src predict.Source, t time.Time) {
	s.History = []move.Move{}
	s.Results = []RoundResult{}
	s.Round = 1
	s.Finished = false
	s.Recommendation = predict.Recommend(s.History, src)
	s.UpdatedAt = t
}

// State reports the coarse session state.
func (s *Session) State() State {
	if s.Finished {
		return StateFinished
	}
	return StatePlaying
}

// Summary counts outcomes over the result log.
func (s *Session) Summary() Summary {
	sum := Summary{Rounds: len(s.Results)}
	for _, r := range s.Results {
		switch r.Outcome {
		case move.Win:
			sum.Wins++
		case move.Draw:
			sum.Draws++
		case move.Loss:
			sum.Losses++
		}
	}
	return sum
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
