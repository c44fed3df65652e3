// internal/game/types.go
//
// Core type definitions for the Minesweeper rule engine.
// Defines:
//   - Cell: one grid location (zero-based column/row).
//   - Outcome: per-board status (in progress / won / lost).
//   - Board: the single stateful entity owned by a shell.
//   - Error sentinels for contract violations.

package game

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// NumberBombs is the fixed bomb count of every board
// (capped at the number of cells on tiny grids).
const NumberBombs = 50

// Cell addresses one square of the grid.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Col, c.Row) }

// Outcome is the status of one game session.
// Win and Lose are terminal until the board is reset.
type Outcome int

const (
	InProgress Outcome = iota
	Win
	Lose
)

// String reports the wire name of an outcome.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "won"
	case Lose:
		return "lost"
	default:
		return "in_progress"
	}
}

// MarshalText lets outcomes travel as strings in JSON payloads.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Terminal reports whether no further reveal/mark is accepted.
func (o Outcome) Terminal() bool { return o != InProgress }

// Order selects the frontier discipline of the flood fill.
// It changes the visiting order only, never the revealed set.
type Order int

const (
	LIFO Order = iota // stack
	FIFO              // queue
)

// Errors returned by board operations. Callers match with errors.Is.
var (
	ErrInvalidCell       = errors.New("invalid cell")
	ErrGameAlreadyOver   = errors.New("game already over")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrNoRandomness      = errors.New("no randomness source")
	ErrRandomness        = errors.New("randomness source unavailable")
	ErrUnknownEvent      = errors.New("unknown event")
)

// Board holds the grid, the bomb layout and everything the player has
// uncovered so far.
type Board struct {
	height, width int

	bombs    mapset.Set[Cell] // fixed between resets
	revealed mapset.Set[Cell] // grows monotonically until reset
	flagged  mapset.Set[Cell] // never intersects revealed
	counts   map[Cell]int     // defined exactly for revealed cells

	lastDetonated *Cell
	outcome       Outcome

	rng   Rand
	order Order
}

// Option configures a Board at construction.
type Option func(*Board)

// WithOrder selects the flood-fill frontier discipline (LIFO by default).
func WithOrder(o Order) Option {
	return func(b *Board) { b.order = o }
}
