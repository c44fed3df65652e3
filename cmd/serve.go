package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minesweeper/internal/db"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/httpserver"
	"github.com/robalobadob/minesweeper/internal/store"
)

var (
	servePort string
	serveDB   string
	serveSeed uint64
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the JSON API: free-play boards, the board of the day,
accounts and results.

Examples:
  minesweeper serve
  minesweeper serve --port 8080 --db /tmp/mines.db
  minesweeper serve --seed 42`,
		RunE: runServe,
	}

	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (default PORT or 5175)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite path (default DB_PATH or ./data/app.db)")
	serveCmd.Flags().Uint64Var(&serveSeed, "seed", 0, "Derive every board layout from this seed")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if changed(cmd, "port") {
		cfg.Port = servePort
	}
	if changed(cmd, "db") {
		cfg.DBPath = serveDB
	}

	sqlDB, err := db.OpenAndMigrate(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlDB.Close()

	var opts []httpserver.Option
	if changed(cmd, "seed") {
		opts = append(opts, httpserver.WithRandSource(seededSource(serveSeed)))
		log.Warn().Uint64("seed", serveSeed).Msg("board layouts are reproducible")
	}

	srv := httpserver.New(store.NewMemoryStore(), sqlDB, cfg, opts...)
	go srv.RunJanitor(cmd.Context(), 10*time.Minute, 2*time.Hour)
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).
		Int("height", cfg.BoardHeight).Int("width", cfg.BoardWidth).Msg("starting server")
	return srv.Start(":" + cfg.Port)
}

// seededSource gives each new board its own generator, drawn from one
// master generator.
func seededSource(seed uint64) httpserver.RandSource {
	var mu sync.Mutex
	master := game.NewRand(seed)
	return func() (game.Rand, error) {
		mu.Lock()
		defer mu.Unlock()
		return game.NewRand(master.Uint64()), nil
	}
}
