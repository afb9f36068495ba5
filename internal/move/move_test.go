package move

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always returns the same index.
type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

func TestCounterIsThreeCycleWithoutFixedPoint(t *testing.T) {
	for _, m := range All {
		c := Counter(m, fixedSource(0))
		assert.NotEqual(t, m, c, "counter of %s", m)
		assert.True(t, Beats(c, m), "%s should beat %s", c, m)
		assert.Equal(t, m, Counter(Counter(c, nil), nil))
	}
	assert.Equal(t, Paper, Counter(Rock, nil))
	assert.Equal(t, Scissors, Counter(Paper, nil))
	assert.Equal(t, Rock, Counter(Scissors, nil))
}

func TestCounterOutOfDomainFallsBackToRandom(t *testing.T) {
	assert.Equal(t, Scissors, Counter(Move("lizard"), fixedSource(0)))
	assert.Equal(t, Rock, Counter(Move(""), fixedSource(1)))
	assert.Equal(t, Paper, Counter(Move("spock"), fixedSource(2)))
}

func TestCompare(t *testing.T) {
	cases := []struct {
		mine, theirs Move
		want         Outcome
	}{
		{Scissors, Paper, Win},
		{Rock, Scissors, Win},
		{Paper, Rock, Win},
		{Paper, Scissors, Loss},
		{Scissors, Rock, Loss},
		{Rock, Paper, Loss},
		{Rock, Rock, Draw},
		{Paper, Paper, Draw},
		{Scissors, Scissors, Draw},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Compare(tc.mine, tc.theirs), "%s vs %s", tc.mine, tc.theirs)
	}
}

func TestParseAcceptsAliasesAndLabels(t *testing.T) {
	for in, want := range map[string]Move{
		"rock":     Rock,
		" Paper ":  Paper,
		"SCISSORS": Scissors,
		"r":        Rock,
		"p":        Paper,
		"s":        Scissors,
		"가위":       Scissors,
		"바위":       Rock,
		"보":        Paper,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseRejectsUnknownInput(t *testing.T) {
	for _, in := range []string{"", "lizard", "win", "draw", "rockk"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidMove, in)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Rock", Rock.Label("en"))
	assert.Equal(t, "바위", Rock.Label("ko"))
	assert.Equal(t, "승리", Win.Label("ko"))
	assert.Equal(t, "Loss", Loss.Label("fr"))
}

func TestRandomCoversAllMoves(t *testing.T) {
	for i, want := range All {
		assert.Equal(t, want, Random(fixedSource(i)))
	}
}
