// internal/shell/shell.go
//
// Interactive terminal front end for a single assistant session.
// Flow per round:
//   - Show "Round n / N" and the recommended move.
//   - Read the opponent's move (any alias or label); reject anything else.
//   - Score the recommendation and show the outcome.
// After the last round the result table is printed and the player may start
// over. "reset" restarts at any time, "quit" exits.

package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/game"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/labels"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/move"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/predict"
)

// Options configure a Shell.
type Options struct {
	Lang   string         // labels.English or labels.Korean
	Rounds int            // rounds per session, 0 → game.DefaultMaxRounds
	Source predict.Source // nil → predict.Global
	Plain  bool           // disable colors
}

// Shell runs sessions over a line-oriented reader and writer.
type Shell struct {
	in   *bufio.Scanner
	w    io.Writer
	term *termenv.Output
	text map[string]string
	opts Options
}

func New(in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.Source == nil {
		opts.Source = predict.Global
	}
	if opts.Lang != labels.Korean {
		opts.Lang = labels.English
	}
	var term *termenv.Output
	if opts.Plain {
		term = termenv.NewOutput(out, termenv.WithProfile(termenv.Ascii))
	} else {
		term = termenv.NewOutput(out)
	}
	return &Shell{
		in:   bufio.NewScanner(in),
		w:    out,
		term: term,
		text: messages[opts.Lang],
		opts: opts,
	}
}

// Run plays until input ends, the player quits, or ctx is cancelled.
func (sh *Shell) Run(ctx context.Context) error {
	s := game.New(sh.opts.Rounds, sh.opts.Source)
	sh.printf("%s\n", sh.term.String(sh.text["title"]).Bold())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.Finished {
			sh.printResults(s)
			sh.printf("%s ", sh.text["again"])
			line, ok := sh.readLine()
			if !ok || !isYes(line) {
				return sh.in.Err()
			}
			s.Reset(sh.opts.Source)
			continue
		}

		sh.printf("\n%s\n", fmt.Sprintf(sh.text["round"], s.Round, s.MaxRounds))
		sh.printf("%s %s\n", sh.text["recommend"], sh.term.String(s.Recommendation.Counter.Label(sh.opts.Lang)).Bold())
		sh.printf("%s ", sh.text["prompt"])

		line, ok := sh.readLine()
		if !ok {
			return sh.in.Err()
		}
		switch strings.ToLower(line) {
		case "quit", "q", "exit":
			return nil
		case "reset":
			s.Reset(sh.opts.Source)
			sh.printf("%s\n", sh.text["reset"])
			continue
		}

		m, err := move.Parse(line)
		if err != nil {
			sh.printf("%s\n", sh.term.String(sh.text["invalid"]).Foreground(sh.term.Color("3")))
			continue
		}
		res, _, err := s.ApplyOpponentMove(m, sh.opts.Source)
		if err != nil {
			return err
		}
		sh.printf("%s %s · %s %s → %s\n",
			sh.text["mine"], res.UserMove.Label(sh.opts.Lang),
			sh.text["theirs"], res.OpponentMove.Label(sh.opts.Lang),
			sh.outcome(res.Outcome))
	}
}

func (sh *Shell) printResults(s *game.Session) {
	sh.printf("\n%s\n", sh.term.String(sh.text["over"]).Bold())
	tw := tabwriter.NewWriter(sh.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sh.text["colRound"], sh.text["colMine"], sh.text["colTheirs"], sh.text["colResult"])
	for _, r := range s.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Round,
			r.UserMove.Label(sh.opts.Lang), r.OpponentMove.Label(sh.opts.Lang), r.Outcome.Label(sh.opts.Lang))
	}
	_ = tw.Flush()
	sum := s.Summary()
	sh.printf("%s\n", fmt.Sprintf(sh.text["summary"], sum.Wins, sum.Draws, sum.Losses))
}

func (sh *Shell) outcome(o move.Outcome) string {
	color := "3"
	switch o {
	case move.Win:
		color = "2"
	case move.Loss:
		color = "1"
	}
	return sh.term.String(o.Label(sh.opts.Lang)).Foreground(sh.term.Color(color)).String()
}

func (sh *Shell) readLine() (string, bool) {
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.w, format, args...)
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "네", "예", "ㅇ":
		return true
	}
	return false
}

var messages = map[string]map[string]string{
	labels.English: {
		"title":     "Rock-Paper-Scissors Supporter",
		"round":     "Round %d / %d",
		"recommend": "Recommended move:",
		"prompt":    "Opponent's move (rock/paper/scissors, reset, quit) >",
		"invalid":   "Please choose a valid move.",
		"reset":     "Session reset.",
		"mine":      "You:",
		"theirs":    "Opponent:",
		"over":      "Game over!",
		"colRound":  "Round",
		"colMine":   "My move",
		"colTheirs": "Opponent",
		"colResult": "Result",
		"summary":   "Wins %d · Draws %d · Losses %d",
		"again":     "Play again? [y/N]",
	},
	labels.Korean: {
		"title":     "가위바위보 서포트 봇",
		"round":     "라운드 %d / %d",
		"recommend": "다음에 낼 패 추천:",
		"prompt":    "상대 패 (가위/바위/보, reset, quit) >",
		"invalid":   "유효한 패를 선택해주세요.",
		"reset":     "다시 시작합니다.",
		"mine":      "내 패:",
		"theirs":    "상대 패:",
		"over":      "게임 종료!",
		"colRound":  "라운드",
		"colMine":   "내 패",
		"colTheirs": "상대 패",
		"colResult": "결과",
		"summary":   "승리 %d · 무승부 %d · 패배 %d",
		"again":     "다시 시작할까요? [y/N]",
	},
}
