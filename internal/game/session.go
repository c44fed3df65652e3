// internal/game/session.go
//
// Game wraps one Board for hosts that receive input concurrently (HTTP
// handlers). All access goes through a single mutex so at most one event
// is applied to a board at a time, and every event runs to completion
// before the next one is accepted.

package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Game is a hosted board session.
type Game struct {
	ID string
	// Owner names the player the session belongs to. Hosts set it once,
	// before the game is shared; local play leaves it empty.
	Owner string

	mu     sync.Mutex // guards board, clicks, round
	board  *Board
	clicks int
	round  int
}

// Step is the result of one accepted event, taken under a single lock.
type Step struct {
	View View
	// Ended is true only for the event that moved the board from in
	// progress to won/lost.
	Ended  bool
	Clicks int // accepted clicks in the current round
	Round  int // 0 for the first board, +1 per reset
}

// NewGame builds a board and wraps it in a session with a fresh id.
func NewGame(height, width int, rng Rand, opts ...Option) (*Game, error) {
	b, err := New(height, width, rng, opts...)
	if err != nil {
		return nil, err
	}
	return Wrap(b), nil
}

// Wrap hosts an existing board.
func Wrap(b *Board) *Game {
	return &Game{ID: uuid.NewString(), board: b}
}

// Apply handles one event. Rejected events leave the board, the click
// counter and the round untouched; the returned Step then describes the
// unchanged session.
func (g *Game) Apply(ev Event) (Step, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	before := g.board.Outcome()
	if err := g.board.Handle(ev); err != nil {
		return g.step(false), err
	}
	switch ev.Kind {
	case ResetRequested:
		g.clicks = 0
		g.round++
	default:
		g.clicks++
	}
	return g.step(!before.Terminal() && g.board.Outcome().Terminal()), nil
}

func (g *Game) step(ended bool) Step {
	return Step{View: g.board.View(), Ended: ended, Clicks: g.clicks, Round: g.round}
}

// Snapshot describes the session as it stands.
func (g *Game) Snapshot() Step {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.step(false)
}

// View returns a snapshot of the hosted board.
func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.View()
}

// Outcome reports the board's current outcome.
func (g *Game) Outcome() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Outcome()
}

// Clicks counts accepted primary/secondary events since the last reset.
func (g *Game) Clicks() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clicks
}

// IsContractError reports whether err is a caller mistake (bad cell,
// finished game, unknown event) rather than an internal failure.
func IsContractError(err error) bool {
	return errors.Is(err, ErrInvalidCell) ||
		errors.Is(err, ErrGameAlreadyOver) ||
		errors.Is(err, ErrUnknownEvent)
}
