// internal/game/engine.go
//
// Board State Engine: the rule core of a Minesweeper session.
// Responsibilities:
//   - Create boards with a uniformly sampled bomb layout (injected Rand).
//   - Reset a board in place with a fresh, independent layout.
//   - Compute 8-connected neighbors and lazily record neighbor-bomb counts.
//   - Reveal a cell with an explicit-frontier flood fill.
//   - Toggle flags (secondary action).
//   - Track state transitions: in progress → won/lost.
//
// Notes:
//   - The engine performs no I/O and never blocks; callers serialize access.
//   - Contract violations are reported before any mutation.

package game

import (
	"fmt"

	"github.com/gammazero/deque"
	"github.com/zyedidia/generic/mapset"
)

// offsets lists the 8 Chebyshev-1 deltas in lexicographic (dc, dr) order.
var offsets = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

// New constructs a board of the given dimensions with a random layout of
// min(NumberBombs, height*width) bombs drawn from rng.
func New(height, width int, rng Rand, opts ...Option) (*Board, error) {
	b, err := newEmpty(height, width, rng, opts)
	if err != nil {
		return nil, err
	}
	b.placeBombs(sampleBombs(height, width, rng))
	return b, nil
}

// FromLayout constructs a board with an explicit bomb layout.
// Subsequent resets sample normally from rng.
func FromLayout(height, width int, bombs []Cell, rng Rand, opts ...Option) (*Board, error) {
	b, err := newEmpty(height, width, rng, opts)
	if err != nil {
		return nil, err
	}
	for _, c := range bombs {
		if !b.InBounds(c) {
			return nil, fmt.Errorf("%w: bomb at %s outside %dx%d", ErrInvalidCell, c, width, height)
		}
	}
	b.placeBombs(bombs)
	return b, nil
}

func newEmpty(height, width int, rng Rand, opts []Option) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if rng == nil {
		return nil, ErrNoRandomness
	}
	b := &Board{height: height, width: width, rng: rng}
	for _, o := range opts {
		o(b)
	}
	b.clear()
	return b, nil
}

// Reset draws a new layout and clears all player progress.
// Dimensions are preserved.
func (b *Board) Reset() {
	b.clear()
	b.placeBombs(sampleBombs(b.height, b.width, b.rng))
}

func (b *Board) clear() {
	b.bombs = mapset.New[Cell]()
	b.revealed = mapset.New[Cell]()
	b.flagged = mapset.New[Cell]()
	b.counts = make(map[Cell]int)
	b.lastDetonated = nil
	b.outcome = InProgress
}

func (b *Board) placeBombs(cells []Cell) {
	for _, c := range cells {
		b.bombs.Put(c)
	}
}

// InBounds reports whether c lies on the grid.
func (b *Board) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < b.width && c.Row >= 0 && c.Row < b.height
}

// Neighbors returns the in-bounds 8-adjacent cells of c, always in the
// same order.
func (b *Board) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, len(offsets))
	for _, d := range offsets {
		n := Cell{Col: c.Col + d[0], Row: c.Row + d[1]}
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// checkPlayable rejects out-of-bounds cells and finished games.
func (b *Board) checkPlayable(c Cell) error {
	if !b.InBounds(c) {
		return fmt.Errorf("%w: %s outside %dx%d", ErrInvalidCell, c, b.width, b.height)
	}
	if b.outcome.Terminal() {
		return fmt.Errorf("%w: %s", ErrGameAlreadyOver, b.outcome)
	}
	return nil
}

// Reveal uncovers c.
//
// A bomb ends the game (Lose) without revealing anything. Otherwise the
// zero-count region around c is expanded with an explicit frontier: every
// popped cell is revealed and numbered; cells with a count of zero push
// their unvisited, unflagged neighbors, numbered cells stop the expansion.
// The win condition is checked once, after the expansion.
//
// Flagged cells are protected: revealing one is a no-op.
func (b *Board) Reveal(c Cell) error {
	if err := b.checkPlayable(c); err != nil {
		return err
	}
	if b.flagged.Has(c) {
		return nil
	}
	if b.bombs.Has(c) {
		hit := c
		b.lastDetonated = &hit
		b.outcome = Lose
		return nil
	}

	var frontier deque.Deque[Cell]
	visited := mapset.New[Cell]()
	frontier.PushBack(c)
	visited.Put(c)

	for frontier.Len() > 0 {
		next := b.pop(&frontier)
		b.revealed.Put(next)

		ns := b.Neighbors(next)
		count := 0
		for _, n := range ns {
			if b.bombs.Has(n) {
				count++
			}
		}
		b.counts[next] = count
		if count > 0 {
			continue
		}
		for _, n := range ns {
			if visited.Has(n) || b.flagged.Has(n) {
				continue
			}
			visited.Put(n)
			frontier.PushBack(n)
		}
	}

	if b.revealed.Size() == b.height*b.width-b.bombs.Size() {
		b.outcome = Win
	}
	return nil
}

func (b *Board) pop(q *deque.Deque[Cell]) Cell {
	if b.order == FIFO {
		return q.PopFront()
	}
	return q.PopBack()
}

// Mark toggles a flag on a covered cell. Revealed cells cannot be flagged;
// marking one is a no-op.
func (b *Board) Mark(c Cell) error {
	if err := b.checkPlayable(c); err != nil {
		return err
	}
	switch {
	case b.revealed.Has(c):
	case b.flagged.Has(c):
		b.flagged.Remove(c)
	default:
		b.flagged.Put(c)
	}
	return nil
}
