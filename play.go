package main

import (
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/labels"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/predict"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/shell"
)

var (
	playLang   string
	playRounds int
	playSeed   uint64
	playPlain  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Use the assistant interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := labels.Init(); err != nil {
			return err
		}
		var src predict.Source = predict.Global
		if playSeed != 0 {
			src = rand.New(rand.NewPCG(playSeed, playSeed))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), shell.Options{
			Lang:   playLang,
			Rounds: playRounds,
			Source: src,
			Plain:  playPlain,
		}).Run(ctx)
	},
}

func init() {
	playCmd.Flags().StringVar(&playLang, "lang", labels.English, "display language (en or ko)")
	playCmd.Flags().IntVar(&playRounds, "rounds", 10, "rounds per session")
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "seed for the random fallback (0 = unseeded)")
	playCmd.Flags().BoolVar(&playPlain, "plain", false, "disable colors")
	rootCmd.AddCommand(playCmd)
}
