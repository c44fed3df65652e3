package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/tui"
)

var (
	playSeed  uint64
	playQueue bool
	playDaily bool
)

func init() {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play in the terminal. Left click or space reveals, right click or f
toggles a flag, r starts a new board, q or Esc quits.

Logs go to LOG_FILE when set and are discarded otherwise.

Examples:
  minesweeper play
  minesweeper play --daily
  minesweeper play --seed 7 --queue`,
		RunE: runPlay,
	}

	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "Seed for a reproducible layout")
	playCmd.Flags().BoolVar(&playQueue, "queue", false, "Expand empty regions breadth-first")
	playCmd.Flags().BoolVar(&playDaily, "daily", false, "Play the board of the day")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	closeLog, err := logToFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var rng game.Rand
	switch {
	case playDaily:
		rng = game.NewRand(daily.Seed(time.Now(), cfg.DailySalt))
	case changed(cmd, "seed"):
		rng = game.NewRand(playSeed)
	default:
		if rng, err = game.NewEntropyRand(); err != nil {
			return err
		}
	}
	var opts []game.Option
	if playQueue {
		opts = append(opts, game.WithOrder(game.FIFO))
	}
	g, err := game.NewGame(cfg.BoardHeight, cfg.BoardWidth, rng, opts...)
	if err != nil {
		return fmt.Errorf("new board: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	log.Info().Str("gameId", g.ID).Int("height", cfg.BoardHeight).Int("width", cfg.BoardWidth).Msg("terminal game started")
	tui.New(screen, g).Run()
	return nil
}

// logToFile points the global logger at path, or silences it when path is
// empty. The terminal belongs to the board while playing.
func logToFile(path string) (func(), error) {
	if path == "" {
		log.Logger = zerolog.Nop()
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
}
