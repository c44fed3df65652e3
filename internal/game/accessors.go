package game

import (
	"cmp"
	"maps"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

func (b *Board) Height() int { return b.height }
func (b *Board) Width() int { return b.width }
func (b *Board) Outcome() Outcome { return b.outcome }
func (b *Board) BombCount() int { return b.bombs.Size() }
func (b *Board) RevealedCount() int { return b.revealed.Size() }

func (b *Board) IsRevealed(c Cell) bool { return b.revealed.Has(c) }
func (b *Board) IsFlagged(c Cell) bool { return b.flagged.Has(c) }
func (b *Board) IsBomb(c Cell) bool { return b.bombs.Has(c) }

// Revealed returns the uncovered cells in row-major order.
func (b *Board) Revealed() []Cell { return sorted(b.revealed) }

// Flagged returns the flagged cells in row-major order.
func (b *Board) Flagged() []Cell { return sorted(b.flagged) }

// Bombs returns the layout in row-major order. Shells only show it once
// the game is over.
func (b *Board) Bombs() []Cell { return sorted(b.bombs) }

// NeighborBombCount reports the recorded count for a revealed cell.
func (b *Board) NeighborBombCount(c Cell) (int, bool) {
	n, ok := b.counts[c]
	return n, ok
}

// NeighborBombCounts returns a copy of the count map.
func (b *Board) NeighborBombCounts() map[Cell]int { return maps.Clone(b.counts) }

// LastDetonated reports the bomb the player exposed, if any.
func (b *Board) LastDetonated() (Cell, bool) {
	if b.lastDetonated == nil {
		return Cell{}, false
	}
	return *b.lastDetonated, true
}

func sorted(s mapset.Set[Cell]) []Cell {
	out := make([]Cell, 0, s.Size())
	s.Each(func(c Cell) { out = append(out, c) })
	slices.SortFunc(out, compareCells)
	return out
}

func compareCells(a, b Cell) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}
