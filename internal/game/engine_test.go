package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/move"
)

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

func TestNewSession(t *testing.T) {
	s := New(0, fixedSource(1))
	assert.Len(t, s.ID, 16)
	assert.Equal(t, DefaultMaxRounds, s.MaxRounds)
	assert.Equal(t, 1, s.Round)
	assert.Empty(t, s.History)
	assert.Empty(t, s.Results)
	assert.Equal(t, StatePlaying, s.State())
	assert.True(t, s.Recommendation.Random)
	// All[1] is rock, countered by paper.
	assert.Equal(t, move.Rock, s.Recommendation.Predicted)
	assert.Equal(t, move.Paper, s.Recommendation.Counter)
}

func TestApplyOpponentMoveScoresRecommendation(t *testing.T) {
	s := New(10, fixedSource(1)) // recommends paper
	res, state, err := s.ApplyOpponentMove(move.Rock, fixedSource(0))
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, state)
	assert.Equal(t, RoundResult{Round: 1, UserMove: move.Paper, OpponentMove: move.Rock, Outcome: move.Win}, res)
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, []move.Move{move.Rock}, s.History)

	// A single move leaves no transition out of rock: random again.
	assert.True(t, s.Recommendation.Random)
}

func TestRecommendationTracksTransitions(t *testing.T) {
	s := New(10, fixedSource(0))
	for i := 0; i < 3; i++ {
		_, _, err := s.ApplyOpponentMove(move.Rock, fixedSource(0))
		require.NoError(t, err)
	}
	assert.False(t, s.Recommendation.Random)
	assert.Equal(t, move.Rock, s.Recommendation.Predicted)
	assert.Equal(t, move.Paper, s.Recommendation.Counter)

	res, _, err := s.ApplyOpponentMove(move.Rock, fixedSource(0))
	require.NoError(t, err)
	assert.Equal(t, move.Win, res.Outcome)
}

func TestSessionFinishesAtCap(t *testing.T) {
	src := rand.New(rand.NewPCG(7, 7))
	s := New(3, src)
	for i := 1; i <= 3; i++ {
		res, state, err := s.ApplyOpponentMove(move.Scissors, src)
		require.NoError(t, err)
		assert.Equal(t, i, res.Round)
		if i < 3 {
			assert.Equal(t, StatePlaying, state)
		} else {
			assert.Equal(t, StateFinished, state)
		}
	}
	assert.True(t, s.Finished)
	assert.Equal(t, 3, s.Round)

	_, state, err := s.ApplyOpponentMove(move.Rock, src)
	assert.ErrorIs(t, err, ErrFinished)
	assert.Equal(t, StateFinished, state)
	assert.Len(t, s.Results, 3)
}

func TestApplyRejectsInvalidMove(t *testing.T) {
	s := New(10, fixedSource(0))
	_, _, err := s.ApplyOpponentMove(move.Move("lizard"), fixedSource(0))
	assert.ErrorIs(t, err, move.ErrInvalidMove)
	assert.Empty(t, s.History)
	assert.Equal(t, 1, s.Round)
}

func TestResetMatchesFreshSession(t *testing.T) {
	s := New(4, fixedSource(0))
	for _, m := range []move.Move{move.Rock, move.Rock, move.Rock, move.Rock} {
		_, _, err := s.ApplyOpponentMove(m, fixedSource(0))
		require.NoError(t, err)
	}
	require.True(t, s.Finished)
	id := s.ID

	src := &recordingSource{}
	s.Reset(src)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, 1, s.Round)
	assert.False(t, s.Finished)
	assert.Empty(t, s.History)
	assert.Empty(t, s.Results)
	assert.True(t, s.Recommendation.Random)
	assert.Equal(t, 1, src.calls, "reset must take the random branch")
}

func TestSummary(t *testing.T) {
	// Every recommendation here falls back to rock, countered by paper.
	s := New(10, fixedSource(1))
	for _, m := range []move.Move{move.Rock, move.Paper, move.Scissors} {
		_, _, err := s.ApplyOpponentMove(m, fixedSource(1))
		require.NoError(t, err)
	}
	assert.Equal(t, Summary{Rounds: 3, Wins: 1, Draws: 1, Losses: 1}, s.Summary())
}

func TestTimestamps(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prev := now
	now = func() time.Time { return fixed }
	defer func() { now = prev }()

	s := New(10, fixedSource(0))
	assert.Equal(t, fixed, s.CreatedAt)
	assert.Equal(t, fixed, s.UpdatedAt)
}

type recordingSource struct{ calls int }

func (r *recordingSource) IntN(n int) int {
	r.calls++
	return 0
}
