// internal/httpserver/routes_daily.go
//
// HTTP routes for the "board of the day" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's board
//   - POST /daily/event       → apply a primary/secondary click to it
//   - GET  /daily/leaderboard → fastest wins for today (or ?date=YYYY-MM-DD)
//
// Each player gets one attempt per UTC date (enforced by DB + in-memory
// session). The board cannot be reset. The result is persisted once the
// board is won or lost.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	sessions map[string]*dailySession // keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession is one player's attempt at the board of a date.
type dailySession struct {
	GameID string
	Date   string
	Game   *game.Game
	Start  time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		sessions: make(map[string]*dailySession),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/event", dd.handleEvent)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// prune drops sessions of any date other than today.
func (d *dailyServer) prune(today string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for key, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, key)
			n++
		}
	}
	return n
}

// playerID returns the authenticated user ID, otherwise the anonymous cookie.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new. View is omitted once played.
type dailyNewRes struct {
	GameID string     `json:"gameId"`
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	View   *game.View `json:"view,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		httpError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		v := sess.Game.View()
		writeJSON(w, dailyNewRes{GameID: sess.GameID, Date: date, View: &v})
		return
	}

	cfg := d.srv.cfg
	b, err := daily.Board(now, cfg.DailySalt, cfg.BoardHeight, cfg.BoardWidth)
	if err != nil {
		log.Error().Err(err).Msg("daily board")
		httpError(w, http.StatusInternalServerError, "bad_board_config")
		return
	}
	sess := &dailySession{GameID: uuid.NewString(), Date: date, Game: game.Wrap(b), Start: now}
	d.sessions[key] = sess
	log.Info().Str("date", date).Str("gameId", sess.GameID).Msg("daily board started")

	v := sess.Game.View()
	writeJSON(w, dailyNewRes{GameID: sess.GameID, Date: date, View: &v})
}

// -----------------------------------------------------------------------------
// /daily/event

// dailyEventReq is the request payload for /daily/event.
type dailyEventReq struct {
	GameID string `json:"gameId"`
	eventReq
}

// handleEvent applies one click to the caller's board of the day.
func (d *dailyServer) handleEvent(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p dailyEventReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ev, err := p.event()
	if err != nil {
		writeGameError(w, err)
		return
	}
	if ev.Kind == game.ResetRequested {
		httpError(w, http.StatusBadRequest, "reset_not_allowed")
		return
	}

	date := daily.DateKey(d.srv.now())
	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if !ok || sess.GameID != p.GameID {
		httpError(w, http.StatusConflict, "no_session")
		return
	}

	st, err := sess.Game.Apply(ev)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if st.Ended {
		res := daily.Result{
			UserID:    uid,
			Date:      sess.Date,
			Clicks:    st.Clicks,
			ElapsedMs: int(d.srv.now().Sub(sess.Start).Milliseconds()),
			Won:       st.View.Outcome == game.Win,
		}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("date", sess.Date).Msg("insert daily result")
		}
		log.Info().Str("date", sess.Date).Str("outcome", st.View.Outcome.String()).Int("clicks", st.Clicks).Msg("daily board finished")
	}
	writeJSON(w, gameRes{GameID: sess.GameID, Clicks: st.Clicks, View: st.View})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, lbRes{Date: date, Top: rows})
}
