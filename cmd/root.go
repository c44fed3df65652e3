// Package cmd wires configuration, logging and the two shells (HTTP server
// and terminal client) into a cobra command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/robalobadob/minesweeper/internal/config"
)

var (
	cfg config.Config

	boardHeight int
	boardWidth  int
)

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper rule engine with an HTTP API and a terminal client",
	Long: `Minesweeper rule engine with an HTTP API and a terminal client.

Configuration comes from the environment (and a .env file if present);
flags override it.

Examples:
  minesweeper play
  minesweeper play --height 9 --width 9 --seed 7
  minesweeper serve --port 8080 --db ./data/app.db`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&boardHeight, "height", 0, "Board height (default BOARD_HEIGHT or 20)")
	rootCmd.PersistentFlags().IntVar(&boardWidth, "width", 0, "Board width (default BOARD_WIDTH or 20)")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.Load()
	if changed(cmd, "height") {
		cfg.BoardHeight = boardHeight
	}
	if changed(cmd, "width") {
		cfg.BoardWidth = boardWidth
	}
	cfg.ApplyLogLevel()
	return nil
}

// changed reports whether a local or inherited flag was set.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}
