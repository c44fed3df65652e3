// internal/httpserver/auth.go
//
// Player sessions over HTTP.
//   - POST /auth/signup, /auth/login, /auth/logout; GET /auth/me.
//   - GET /stats/me and /games/mine sit behind requireAuth.
//   - Tokens are HS256 JWTs carried in an HttpOnly cookie or a Bearer header.
//   - Guests get an anonymous cookie; their history is claimed on sign-in.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/account"
)

const anonCookieName = "mines_anon"

// authUser is what the auth middleware stores in the request context.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

func userFrom(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

func withUser(r *http.Request, p *account.Player) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: p.ID, Username: p.Username}))
}

// tokenClaims is the JWT payload.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		s.writeTokenCookie(w, "", time.Time{})
		writeJSON(w, map[string]bool{"ok": true})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, userFrom(r))
		})
		r.Get("/stats/me", s.handleMyStats)
		r.Get("/games/mine", s.handleMyGames)
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		httpError(w, http.StatusBadRequest, "bad_json")
		return c, false
	}
	c.Username = strings.TrimSpace(c.Username)
	return c, true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	p, err := s.accounts.Register(r.Context(), c.Username, c.Password)
	var invalid *account.InvalidError
	switch {
	case errors.Is(err, account.ErrUsernameTaken):
		httpError(w, http.StatusConflict, "username_taken")
		return
	case errors.As(err, &invalid):
		httpError(w, http.StatusBadRequest, "invalid_"+invalid.Field)
		return
	case err != nil:
		log.Error().Err(err).Msg("register")
		httpError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	log.Info().Str("user", p.ID).Msg("player registered")
	s.signIn(w, r, p)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	p, err := s.accounts.Authenticate(r.Context(), c.Username, c.Password)
	if errors.Is(err, account.ErrBadCredentials) {
		httpError(w, http.StatusUnauthorized, "bad_credentials")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("authenticate")
		httpError(w, http.StatusInternalServerError, "login_failed")
		return
	}
	s.signIn(w, r, p)
}

// signIn issues the token cookie and claims the caller's guest history.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, p *account.Player) {
	tok, exp, err := s.issueToken(p)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		httpError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.writeTokenCookie(w, tok, exp)
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		if err := s.accounts.ClaimGuest(r.Context(), c.Value, p.ID); err != nil {
			log.Warn().Err(err).Str("user", p.ID).Msg("claim guest history")
		}
	}
	writeJSON(w, p)
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	p, err := s.accounts.ByID(r.Context(), userFrom(r).ID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	writeJSON(w, p.Stats)
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.accounts.History(r.Context(), userFrom(r).ID, 50)
	if err != nil {
		log.Error().Err(err).Msg("game history")
		httpError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, games)
}

// ----------------------------- middleware ----------------------------------

// playerFromToken resolves the bearer/cookie token to a live player.
func (s *Server) playerFromToken(r *http.Request) (*account.Player, bool) {
	raw := bearerToken(r)
	if raw == "" {
		if c, err := r.Cookie(s.cfg.CookieName); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return nil, false
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, false
	}
	p, err := s.accounts.ByID(r.Context(), claims.Subject)
	if err != nil {
		return nil, false
	}
	return p, true
}

// withOptionalAuth attaches the player when a valid token is present and
// lets guests through otherwise.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := s.playerFromToken(r); ok {
			r = withUser(r, p)
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.playerFromToken(r)
		if !ok {
			httpError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, withUser(r, p))
	})
}

// ensureAnonID returns the guest id cookie, minting one if absent.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, s.cookie(anonCookieName, id, time.Now().Add(180*24*time.Hour)))
	return id
}

// ------------------------------ tokens & cookies ---------------------------

func (s *Server) issueToken(p *account.Player) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString([]byte(s.cfg.JWTSecret))
	return signed, exp, err
}

// writeTokenCookie sets the auth cookie; an empty token deletes it.
func (s *Server) writeTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	c := s.cookie(s.cfg.CookieName, token, exp)
	if token == "" {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// cookie builds an HttpOnly cookie. Production cookies are Secure and
// SameSite=None so a separately hosted client can send them.
func (s *Server) cookie(name, value string, exp time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cfg.Production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
