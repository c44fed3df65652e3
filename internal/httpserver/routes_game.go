// internal/httpserver/routes_game.go
//
// Free-play game endpoints:
//   - POST /game/new         → create a board of the configured size
//   - GET  /game/{id}        → current view
//   - POST /game/{id}/event  → apply one {kind, col, row} event
//   - POST /game/{id}/reset  → shorthand for a reset event
//
// Games are private to the player (or guest cookie) that created them.
// Every accepted event is mirrored into the games ledger (best effort),
// one row per round; the transition into won/lost also bumps the owner's
// stats.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/account"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Get("/game/{id}", s.handleGetGame)
	r.Post("/game/{id}/event", s.handleEvent)
	r.Post("/game/{id}/reset", s.handleReset)
}

// gameRes is returned by every game endpoint.
type gameRes struct {
	GameID string    `json:"gameId"`
	Clicks int       `json:"clicks"`
	View   game.View `json:"view"`
}

// eventReq is the body of POST /game/{id}/event.
type eventReq struct {
	Kind string `json:"kind"` // "primary" | "secondary" | "reset"
	Col  int    `json:"col"`
	Row  int    `json:"row"`
}

// event converts the wire payload into an engine event.
func (e eventReq) event() (game.Event, error) {
	kind, err := game.ParseKind(e.Kind)
	if err != nil {
		return game.Event{}, err
	}
	return game.Event{Kind: kind, Cell: game.Cell{Col: e.Col, Row: e.Row}}, nil
}

// handleNewGame creates an in-memory board owned by the caller and opens
// its first ledger round.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rand()
	if err != nil {
		log.Error().Err(err).Msg("randomness source")
		httpError(w, http.StatusInternalServerError, "randomness_unavailable")
		return
	}
	g, err := game.NewGame(s.cfg.BoardHeight, s.cfg.BoardWidth, rng)
	if err != nil {
		log.Error().Err(err).Msg("new game")
		httpError(w, http.StatusInternalServerError, "bad_board_config")
		return
	}
	ownerCol, ownerID := s.owner(w, r)
	g.Owner = ownerID
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		httpError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	v := g.View()
	if err := s.openRound(r.Context(), s.db, g.ID, 0, ownerCol, ownerID, v); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	log.Info().Str("gameId", g.ID).Int("height", v.Height).Int("width", v.Width).Msg("game created")
	writeJSON(w, gameRes{GameID: g.ID, View: v})
}

// lookup fetches the addressed game. Games of other players are reported
// as missing.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err == nil && !s.owns(r, g) {
		err = store.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found")
		} else {
			httpError(w, http.StatusInternalServerError, "store_failed")
		}
		return nil, false
	}
	return g, true
}

// owns reports whether the caller created g, either as the signed-in
// player or through the guest cookie it had at the time.
func (s *Server) owns(r *http.Request, g *game.Game) bool {
	if me := userFrom(r); me != nil && me.ID == g.Owner {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && c.Value == g.Owner
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st := g.Snapshot()
	writeJSON(w, gameRes{GameID: g.ID, Clicks: st.Clicks, View: st.View})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ev, err := req.event()
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.apply(w, r, ev)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, game.Event{Kind: game.ResetRequested})
}

// apply runs one event against the addressed game and records the result.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, ev game.Event) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, err := g.Apply(ev)
	if err != nil {
		log.Debug().Err(err).Str("gameId", g.ID).Str("kind", ev.Kind.String()).Msg("event rejected")
		writeGameError(w, err)
		return
	}
	s.recordEvent(w, r, g.ID, ev, st)

	if st.Ended {
		log.Info().Str("gameId", g.ID).Str("outcome", st.View.Outcome.String()).Int("clicks", st.Clicks).Msg("game finished")
	}
	writeJSON(w, gameRes{GameID: g.ID, Clicks: st.Clicks, View: st.View})
}

// recordEvent mirrors an accepted event into the ledger (best effort,
// non-fatal if it fails). Finished rounds are never rewritten: a reset
// drops the previous round only if it was abandoned, then opens a new one.
func (s *Server) recordEvent(w http.ResponseWriter, r *http.Request, id string, ev game.Event, st game.Step) {
	ctx := r.Context()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin ledger tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if ev.Kind == game.ResetRequested {
		if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE id=? AND round=? AND finished_at IS NULL`, id, st.Round-1); err != nil {
			log.Warn().Err(err).Msg("drop abandoned round")
		}
		ownerCol, ownerID := s.owner(w, r)
		if err := s.openRound(ctx, tx, id, st.Round, ownerCol, ownerID, st.View); err != nil {
			log.Warn().Err(err).Msg("open round")
		}
	} else if _, err := tx.ExecContext(ctx, `UPDATE games SET clicks=? WHERE id=? AND round=?`, st.Clicks, id, st.Round); err != nil {
		log.Warn().Err(err).Msg("update clicks")
	}

	if st.Ended {
		res, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=? AND round=? AND finished_at IS NULL`,
			st.View.Outcome.String(), s.stamp(), id, st.Round)
		if err != nil {
			log.Warn().Err(err).Msg("finish game")
		} else if n, _ := res.RowsAffected(); n == 1 {
			if me := userFrom(r); me != nil {
				if err := account.RecordOutcome(ctx, tx, me.ID, st.View.Outcome == game.Win); err != nil {
					log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit ledger tx")
	}
}

// openRound inserts the ledger row for one round of a game.
func (s *Server) openRound(ctx context.Context, ex account.Execer, id string, round int, ownerCol, ownerID string, v game.View) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO games (id, round, `+ownerCol+`, height, width, bombs, started_at, status, clicks)
		 VALUES (?,?,?,?,?,?,?,?,0)`,
		id, round, ownerID, v.Height, v.Width, v.Bombs, s.stamp(), v.Outcome.String())
	return err
}

// owner picks the ledger column identifying the caller: the user id when
// authenticated, otherwise the anonymous cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, string) {
	if me := userFrom(r); me != nil {
		return "user_id", me.ID
	}
	return "anonymous_id", s.ensureAnonID(w, r)
}
