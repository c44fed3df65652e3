// internal/game/view.go
//
// Read-only projection of a board for shells.
// Bombs stay hidden while the game is in progress; once it is over the
// whole layout is exposed and the detonated bomb is singled out.

package game

// Square is what a shell should draw for one cell.
type Square string

const (
	SquareCovered   Square = "covered"
	SquareFlagged   Square = "flagged"
	SquareRevealed  Square = "revealed"
	SquareBomb      Square = "bomb"
	SquareDetonated Square = "detonated"
)

// SquareView is one entry of View.Squares.
type SquareView struct {
	State Square `json:"state"`
	Count int    `json:"count,omitempty"`
}

// View is a snapshot of everything a shell may show.
type View struct {
	Height        int            `json:"height"`
	Width         int            `json:"width"`
	Outcome       Outcome        `json:"outcome"`
	Bombs         int            `json:"bombs"`
	Flags         int            `json:"flags"`
	Revealed      int            `json:"revealed"`
	LastDetonated *Cell          `json:"lastDetonated,omitempty"`
	Squares       [][]SquareView `json:"squares"` // [row][col]
}

// View builds a snapshot of the board.
func (b *Board) View() View {
	v := View{
		Height:   b.height,
		Width:    b.width,
		Outcome:  b.outcome,
		Bombs:    b.bombs.Size(),
		Flags:    b.flagged.Size(),
		Revealed: b.revealed.Size(),
		Squares:  make([][]SquareView, b.height),
	}
	if c, ok := b.LastDetonated(); ok {
		v.LastDetonated = &c
	}
	over := b.outcome.Terminal()
	for row := 0; row < b.height; row++ {
		v.Squares[row] = make([]SquareView, b.width)
		for col := 0; col < b.width; col++ {
			c := Cell{Col: col, Row: row}
			sq := &v.Squares[row][col]
			switch {
			case v.LastDetonated != nil && *v.LastDetonated == c:
				sq.State = SquareDetonated
			case b.revealed.Has(c):
				sq.State = SquareRevealed
				sq.Count = b.counts[c]
			case over && b.bombs.Has(c):
				sq.State = SquareBomb
			case b.flagged.Has(c):
				sq.State = SquareFlagged
			default:
				sq.State = SquareCovered
			}
		}
	}
	return v
}
