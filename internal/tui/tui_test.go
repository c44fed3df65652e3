package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/minesweeper/internal/game"
)

// newTestUI hosts a 3x3 board with a single bomb in the bottom-right corner.
func newTestUI(t *testing.T) (*UI, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 10)

	b, err := game.FromLayout(3, 3, []game.Cell{{Col: 2, Row: 2}}, game.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	u := New(screen, game.Wrap(b))
	u.Draw()
	return u, screen
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func press(x, y int, btn tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, btn, tcell.ModNone)
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestCellAt(t *testing.T) {
	v := game.View{Height: 3, Width: 4}
	tests := []struct {
		x, y int
		want game.Cell
		ok   bool
	}{
		{0, 0, game.Cell{Col: 0, Row: 0}, true},
		{1, 0, game.Cell{Col: 0, Row: 0}, true},
		{2, 1, game.Cell{Col: 1, Row: 1}, true},
		{7, 2, game.Cell{Col: 3, Row: 2}, true},
		{8, 0, game.Cell{}, false},
		{0, 3, game.Cell{}, false},
		{-1, 0, game.Cell{}, false},
	}
	for _, tt := range tests {
		got, ok := CellAt(tt.x, tt.y, v)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CellAt(%d, %d): expected %v/%v, got %v/%v", tt.x, tt.y, tt.want, tt.ok, got, ok)
		}
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		sq   game.SquareView
		want rune
	}{
		{game.SquareView{State: game.SquareCovered}, '■'},
		{game.SquareView{State: game.SquareFlagged}, 'F'},
		{game.SquareView{State: game.SquareRevealed}, ' '},
		{game.SquareView{State: game.SquareRevealed, Count: 3}, '3'},
		{game.SquareView{State: game.SquareBomb}, '*'},
		{game.SquareView{State: game.SquareDetonated}, 'X'},
	}
	for _, tt := range tests {
		if got := Glyph(tt.sq); got != tt.want {
			t.Errorf("Glyph(%+v): expected %q, got %q", tt.sq, tt.want, got)
		}
	}
}

func TestInitialDraw(t *testing.T) {
	_, screen := newTestUI(t)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if r := runeAt(screen, col*SquareWidth, row); r != '■' {
				t.Errorf("Expected covered square at %d,%d, got %q", col, row, r)
			}
		}
	}
}

func TestRightClickFlagsAndLeftClickWins(t *testing.T) {
	u, screen := newTestUI(t)

	u.Handle(press(4, 2, tcell.Button2))
	u.Handle(press(4, 2, tcell.ButtonNone))
	if r := runeAt(screen, 4, 2); r != 'F' {
		t.Fatalf("Expected flag at bomb, got %q", r)
	}

	// flagged bomb ignores the primary click
	u.Handle(press(4, 2, tcell.Button1))
	u.Handle(press(4, 2, tcell.ButtonNone))
	if o := u.game.Outcome(); o != game.InProgress {
		t.Fatalf("Expected in progress, got %v", o)
	}

	u.Handle(press(0, 0, tcell.Button1))
	if o := u.game.Outcome(); o != game.Win {
		t.Fatalf("Expected win, got %v", o)
	}
	if r := runeAt(screen, 2, 1); r != '1' {
		t.Errorf("Expected count 1 next to the bomb, got %q", r)
	}
	if r := runeAt(screen, 0, 0); r != ' ' {
		t.Errorf("Expected blank zero square, got %q", r)
	}
}

func TestHeldButtonActsOnce(t *testing.T) {
	u, _ := newTestUI(t)
	u.Handle(press(4, 2, tcell.Button2))
	u.Handle(press(4, 2, tcell.Button2)) // drag report while held
	if u.game.View().Squares[2][2].State != game.SquareFlagged {
		t.Error("Expected the flag to survive a held button")
	}
	if c := u.game.Clicks(); c != 1 {
		t.Errorf("Expected 1 click, got %d", c)
	}
}

func TestLoseThenReset(t *testing.T) {
	u, screen := newTestUI(t)
	u.Handle(press(4, 2, tcell.Button1))
	if o := u.game.Outcome(); o != game.Lose {
		t.Fatalf("Expected lose, got %v", o)
	}
	if r := runeAt(screen, 4, 2); r != 'X' {
		t.Errorf("Expected detonated bomb, got %q", r)
	}

	u.Handle(key(' '))
	if u.hint == "" {
		t.Error("Expected a hint after clicking a finished board")
	}

	u.Handle(key('r'))
	if o := u.game.Outcome(); o != game.InProgress {
		t.Errorf("Expected in progress after reset, got %v", o)
	}
	if v := u.game.View(); v.Revealed != 0 || v.Flags != 0 {
		t.Errorf("Expected a fresh board, got %+v", v)
	}
}

func TestKeyboardPlay(t *testing.T) {
	u, screen := newTestUI(t)

	u.Handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	u.Handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	u.Handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)) // clamped
	u.Handle(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if c := u.Cursor(); c != (game.Cell{Col: 2, Row: 1}) {
		t.Fatalf("Expected cursor at (2,1), got %v", c)
	}

	u.Handle(key('f'))
	if r := runeAt(screen, 4, 1); r != 'F' {
		t.Errorf("Expected flag under cursor, got %q", r)
	}
	u.Handle(key('f'))
	u.Handle(key(' '))
	if r := runeAt(screen, 4, 1); r != '1' {
		t.Errorf("Expected revealed count under cursor, got %q", r)
	}
}

func TestQuitKeys(t *testing.T) {
	u, _ := newTestUI(t)
	if u.Handle(key('q')) {
		t.Error("Expected q to quit")
	}
	if u.Handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Expected Esc to quit")
	}
	if !u.Handle(key('x')) {
		t.Error("Expected unbound keys to be ignored")
	}
}
