// Package account keeps players: credentials, lifetime stats and the
// hand-over of guest history once a guest signs in.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken  = errors.New("username taken")
	ErrNotFound       = errors.New("player not found")
	ErrBadCredentials = errors.New("invalid username or password")
)

// InvalidError describes a rejected signup field.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string { return e.Field + " " + e.Reason }

// Stats are the lifetime counters of a player.
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Streak      int `json:"streak"`
}

// Player is one row of the users table.
type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	Stats

	hash string
}

// Summary is one finished or running round of a player's game.
type Summary struct {
	ID         string `json:"id"`
	Round      int    `json:"round"`
	Status     string `json:"status"`
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Bombs      int    `json:"bombs"`
	Clicks     int    `json:"clicks"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store reads and writes players.
type Store struct {
	db   *sql.DB
	cost int
}

func NewStore(db *sql.DB) *Store { return &Store{db: db, cost: bcrypt.DefaultCost} }

// Validate checks signup input: usernames are 3-24 letters, digits or
// underscores; passwords are 8-100 bytes.
func Validate(username, password string) error {
	if n := len(username); n < 3 || n > 24 {
		return &InvalidError{"username", "must be 3-24 chars"}
	}
	for _, r := range username {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return &InvalidError{"username", "may only hold letters, numbers and underscores"}
		}
	}
	if n := len(password); n < 8 || n > 100 {
		return &InvalidError{"password", "must be 8-100 chars"}
	}
	return nil
}

// Register creates a player. Usernames are unique regardless of case.
func (s *Store) Register(ctx context.Context, username, password string) (*Player, error) {
	if err := Validate(username, password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	p := &Player{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		hash:      string(hash),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		p.ID, p.Username, p.hash, p.CreatedAt.Format(time.RFC3339))
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return p, nil
}

// Authenticate returns the player whose password matches.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*Player, error) {
	p, err := s.find(ctx, `username=?`, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return p, nil
}

// ByID loads a player.
func (s *Store) ByID(ctx context.Context, id string) (*Player, error) {
	return s.find(ctx, `id=?`, id)
}

func (s *Store) find(ctx context.Context, where string, arg any) (*Player, error) {
	var (
		p       Player
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, games_played, wins, streak FROM users WHERE `+where, arg,
	).Scan(&p.ID, &p.Username, &p.hash, &created, &p.GamesPlayed, &p.Wins, &p.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &p, nil
}

// RecordOutcome counts one finished game. A loss breaks the win streak.
func RecordOutcome(ctx context.Context, ex Execer, playerID string, won bool) error {
	win := 0
	if won {
		win = 1
	}
	_, err := ex.ExecContext(ctx,
		`UPDATE users SET games_played = games_played + 1,
		                  wins = wins + ?,
		                  streak = CASE WHEN ? = 1 THEN streak + 1 ELSE 0 END
		 WHERE id=?`, win, win, playerID)
	return err
}

// ClaimGuest moves a guest's games and daily results onto a player.
// Daily results the player already has for the same date are kept.
func (s *Store) ClaimGuest(ctx context.Context, guestID, playerID string) error {
	if guestID == "" || playerID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, playerID, guestID); err != nil {
		return fmt.Errorf("claim games: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE OR IGNORE daily_results SET user_id=? WHERE user_id=?`, playerID, guestID); err != nil {
		return fmt.Errorf("claim daily results: %w", err)
	}
	return tx.Commit()
}

// History lists the most recent games of a player, newest first.
func (s *Store) History(ctx context.Context, playerID string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, round, status, height, width, bombs, clicks, started_at, COALESCE(finished_at, '')
		 FROM games WHERE user_id=? ORDER BY started_at DESC, round DESC LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var g Summary
		if err := rows.Scan(&g.ID, &g.Round, &g.Status, &g.Height, &g.Width, &g.Bombs, &g.Clicks, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
