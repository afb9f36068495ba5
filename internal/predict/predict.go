// internal/predict/predict.go
//
// First-order Markov predictor for an opponent's next move.
// Responsibilities:
//   - Build a move→next-move transition count table from history.
//   - Predict the next move from the row of the last observed move.
//   - Map the prediction to its counter-move.
//
// Notes:
//   - Everything here is a pure function of its inputs. The table is rebuilt
//     on every call; nothing is cached between calls.
//   - Randomness is injected through Source. Global wraps the package-level
//     math/rand/v2 generator, which is safe for concurrent use.
package predict

import (
	"math/rand/v2"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/move"
)

// Source supplies uniform integers in [0, n).
type Source = move.Source

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Global draws from the package-level math/rand/v2 generator.
var Global Source = globalSource{}

// Table counts observed transitions: Table[from][to].
type Table map[move.Move]map[move.Move]int

// NewTable returns a table with all nine entries present and zero.
func NewTable() Table {
	t := make(Table, len(move.All))
	for _, from := range move.All {
		row := make(map[move.Move]int, len(move.All))
		for _, to := range move.All {
			row[to] = 0
		}
		t[from] = row
	}
	return t
}

// Row returns the outgoing counts of from.
func (t Table) Row(from move.Move) map[move.Move]int { return t[from] }

// Total sums every entry of the table.
func (t Table) Total() int {
	n := 0
	for _, row := range t {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// BuildTransitions counts each consecutive pair (history[i], history[i+1]).
// Histories of length 0 or 1 produce an all-zero table.
// Pairs containing an out-of-domain move are skipped.
func BuildTransitions(history []move.Move) Table {
	t := NewTable()
	for i := 0; i+1 < len(history); i++ {
		row, ok := t[history[i]]
		if !ok {
			continue
		}
		if _, ok := row[history[i+1]]; ok {
			row[history[i+1]]++
		}
	}
	return t
}

// Prediction is the predictor's guess at the opponent's next move.
type Prediction struct {
	Move   move.Move `json:"move"`
	Random bool      `json:"random"` // true when no informative history existed
}

// Predict guesses the opponent's next move from history.
//
// An empty history, or a last move never seen followed by anything, falls
// back to a uniform random move. Otherwise the most frequent successor of
// the last move wins. Candidates are considered in the order scissors, rock,
// paper and a later candidate only replaces the current best when its count
// is strictly greater, so ties go to the earlier candidate.
func Predict(history []move.Move, src Source) Prediction {
	if len(history) == 0 {
		return Prediction{Move: move.Random(src), Random: true}
	}

	counts := BuildTransitions(history).Row(history[len(history)-1])
	if counts[move.Scissors]+counts[move.Rock]+counts[move.Paper] == 0 {
		return Prediction{Move: move.Random(src), Random: true}
	}

	best := move.Scissors
	if counts[move.Rock] > counts[best] {
		best = move.Rock
	}
	if counts[move.Paper] > counts[best] {
		best = move.Paper
	}
	return Prediction{Move: best}
}

// PredictNextMove returns only the predicted move.
func PredictNextMove(history []move.Move, src Source) move.Move {
	return Predict(history, src).Move
}

// GetCounterMove returns the move that beats m.
func GetCounterMove(m move.Move, src Source) move.Move {
	return move.Counter(m, src)
}

// Recommendation is the suggested move for the next round.
type Recommendation struct {
	Predicted move.Move `json:"predicted"`
	Counter   move.Move `json:"counter"`
	Random    bool      `json:"random"`
}

// Recommend predicts the opponent's next move and returns its counter.
func Recommend(history []move.Move, src Source) Recommendation {
	p := Predict(history, src)
	return Recommendation{
		Predicted: p.Move,
		Counter:   move.Counter(p.Move, src),
		Random:    p.Random,
	}
}
