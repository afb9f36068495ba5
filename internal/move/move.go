// internal/move/move.go
//
// Move vocabulary for rock-paper-scissors.
// Defines:
//   - Move: one of rock/paper/scissors (string-backed, JSON friendly).
//   - Outcome: result of one round from the player's perspective.
//   - The fixed win relation and the counter-move mapping.
//
// Notes:
//   - All is the canonical enumeration order (scissors, rock, paper).
//     Uniform random picks index into it.
//   - Parse is the only place user input is validated. Anything that
//     reaches the predictor is expected to be Valid.

package move

import (
	"errors"
	"strings"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/labels"
)

// Move is a single hand shape.
type Move string

const (
	Scissors Move = "scissors"
	Rock     Move = "rock"
	Paper    Move = "paper"
)

// All lists every move in enumeration order.
var All = [3]Move{Scissors, Rock, Paper}

// ErrInvalidMove is returned for input outside the three-move set.
var ErrInvalidMove = errors.New("invalid move")

// Source supplies uniform integers in [0, n).
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Outcome is the result of a round for the player who made the first move.
type Outcome string

const (
	Win  Outcome = "win"
	Draw Outcome = "draw"
	Loss Outcome = "loss"
)

// Valid reports whether m is one of the three moves.
func Valid(m Move) bool {
	switch m {
	case Scissors, Rock, Paper:
		return true
	}
	return false
}

// Random draws a move uniformly from All.
func Random(src Source) Move {
	return All[src.IntN(len(All))]
}

// Beats reports whether a defeats b.
// Scissors beats paper, rock beats scissors, paper beats rock.
func Beats(a, b Move) bool {
	switch a {
	case Scissors:
		return b == Paper
	case Rock:
		return b == Scissors
	case Paper:
		return b == Rock
	}
	return false
}

// Compare scores mine against theirs.
func Compare(mine, theirs Move) Outcome {
	switch {
	case mine == theirs:
		return Draw
	case Beats(mine, theirs):
		return Win
	default:
		return Loss
	}
}

// Counter returns the move that beats m.
// Out-of-domain input yields a uniformly random move so the mapping stays total.
func Counter(m Move, src Source) Move {
	switch m {
	case Scissors:
		return Rock
	case Rock:
		return Paper
	case Paper:
		return Scissors
	default:
		return Random(src)
	}
}

// Parse maps user input (canonical name, alias or localized label) to a Move.
func Parse(s string) (Move, error) {
	key, ok := labels.Resolve(strings.TrimSpace(s))
	if !ok {
		return "", ErrInvalidMove
	}
	m := Move(key)
	if !Valid(m) {
		return "", ErrInvalidMove
	}
	return m, nil
}

// Label returns the display name of m in lang ("en" or "ko").
func (m Move) Label(lang string) string { return labels.Label(string(m), lang) }

// Label returns the display name of o in lang ("en" or "ko").
func (o Outcome) Label(lang string) string { return labels.Label(string(o), lang) }
