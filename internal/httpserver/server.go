// internal/httpserver/server.go
//
// HTTP shell for the Minesweeper engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): create, view, event, reset.
//   - Daily board endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - The shell only translates requests into game.Event values; every rule
//     lives in internal/game.
//   - Boards stay in memory (store.Store); SQLite only records outcomes.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/account"
	"github.com/robalobadob/minesweeper/internal/config"
	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/store"
)

// RandSource hands out a randomness provider for each new board.
type RandSource func() (game.Rand, error)

// EntropyRand seeds every board from the operating system.
func EntropyRand() (game.Rand, error) { return game.NewEntropyRand() }

// Server bundles router, in-memory game store, and DB handle.
type Server struct {
	r        *chi.Mux
	store    store.Store
	db       *sql.DB
	accounts *account.Store
	daily    *dailyServer
	cfg      config.Config
	rand     RandSource
	now      func() time.Time
}

// Option customizes a Server (tests pin randomness and time).
type Option func(*Server)

// WithRandSource replaces the per-board randomness provider.
func WithRandSource(fn RandSource) Option { return func(s *Server) { s.rand = fn } }

// WithClock replaces the wall clock used for daily boards and ledger stamps.
func WithClock(fn func() time.Time) Option { return func(s *Server) { s.now = fn } }

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		db:       db,
		accounts: account.NewStore(db),
		cfg:      cfg,
		rand:     EntropyRand,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"minesweeper-go","endpoints":["/health","POST /game/new","GET /game/{id}","POST /game/{id}/event","POST /game/{id}/reset","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true, "games": s.store.Len()})
	})

	// Game + daily endpoints, guests allowed
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		s.mountGame(r)
		s.mountDaily(r)
	})

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// RunJanitor evicts idle boards and stale daily sessions every interval
// until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx, idle)
		}
	}
}

func (s *Server) sweep(ctx context.Context, idle time.Duration) {
	games := s.store.Evict(ctx, idle)
	days := s.daily.prune(daily.DateKey(s.now()))
	if games+days > 0 {
		log.Info().Int("games", games).Int("daily", days).Msg("evicted idle sessions")
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func httpError(w http.ResponseWriter, code int, key string) {
	http.Error(w, `{"error":"`+key+`"}`, code)
}

// writeGameError maps engine contract violations onto HTTP statuses;
// anything else is an internal failure.
func writeGameError(w http.ResponseWriter, err error) {
	if !game.IsContractError(err) {
		log.Error().Err(err).Msg("game event")
		httpError(w, http.StatusInternalServerError, "internal")
		return
	}
	switch {
	case errors.Is(err, game.ErrGameAlreadyOver):
		httpError(w, http.StatusConflict, "game_over")
	case errors.Is(err, game.ErrInvalidCell):
		httpError(w, http.StatusBadRequest, "invalid_cell")
	default:
		httpError(w, http.StatusBadRequest, "unknown_event")
	}
}

// stamp formats the server clock for ledger columns.
func (s *Server) stamp() string { return s.now().UTC().Format(time.RFC3339) }
