// Package tui is the terminal shell: it draws a game.View with tcell and
// turns mouse clicks and keys into game events, one at a time.
//
// Layout: the board starts at the top-left corner, each cell is
// SquareWidth columns wide and one row high. Two status lines follow the
// board.
package tui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/game"
)

// SquareWidth is the number of terminal columns per board cell.
const SquareWidth = 2

const helpLine = "click/space reveal  right-click/f flag  arrows move  r reset  q quit"

var countColors = [...]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorRed,
	4: tcell.ColorNavy,
	5: tcell.ColorMaroon,
	6: tcell.ColorTeal,
	7: tcell.ColorWhite,
	8: tcell.ColorGray,
}

// UI binds one game to one screen.
type UI struct {
	screen  tcell.Screen
	game    *game.Game
	cursor  game.Cell
	pressed tcell.ButtonMask
	hint    string
}

// New prepares a UI. The screen must already be initialised.
func New(screen tcell.Screen, g *game.Game) *UI {
	screen.EnableMouse()
	return &UI{screen: screen, game: g}
}

// Run draws the board and processes events until the player quits.
func (u *UI) Run() {
	u.Draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		if !u.Handle(ev) {
			return
		}
	}
}

// CellAt translates a terminal position into a board cell.
func CellAt(x, y int, v game.View) (game.Cell, bool) {
	if x < 0 || y < 0 {
		return game.Cell{}, false
	}
	c := game.Cell{Col: x / SquareWidth, Row: y}
	if c.Col >= v.Width || c.Row >= v.Height {
		return game.Cell{}, false
	}
	return c, true
}

// Glyph is the rune drawn for one square.
func Glyph(sq game.SquareView) rune {
	switch sq.State {
	case game.SquareFlagged:
		return 'F'
	case game.SquareBomb:
		return '*'
	case game.SquareDetonated:
		return 'X'
	case game.SquareRevealed:
		if sq.Count > 0 {
			return rune('0' + sq.Count)
		}
		return ' '
	default:
		return '■'
	}
}

// Handle processes one terminal event. It returns false when the player
// asked to quit.
func (u *UI) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return u.handleKey(ev)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	case *tcell.EventResize:
		u.screen.Sync()
		u.Draw()
	}
	return true
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		u.move(0, -1)
	case tcell.KeyDown:
		u.move(0, 1)
	case tcell.KeyLeft:
		u.move(-1, 0)
	case tcell.KeyRight:
		u.move(1, 0)
	case tcell.KeyEnter:
		u.apply(game.Event{Kind: game.PrimaryClick, Cell: u.cursor})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'r':
			u.apply(game.Event{Kind: game.ResetRequested})
		case ' ':
			u.apply(game.Event{Kind: game.PrimaryClick, Cell: u.cursor})
		case 'f':
			u.apply(game.Event{Kind: game.SecondaryClick, Cell: u.cursor})
		}
	}
	return true
}

// handleMouse acts on button presses only; drags and releases are ignored.
func (u *UI) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2)
	fresh := buttons &^ u.pressed
	u.pressed = buttons
	if fresh == 0 {
		return
	}
	x, y := ev.Position()
	c, ok := CellAt(x, y, u.game.View())
	if !ok {
		return
	}
	u.cursor = c
	if fresh&tcell.Button1 != 0 {
		u.apply(game.Event{Kind: game.PrimaryClick, Cell: c})
		return
	}
	u.apply(game.Event{Kind: game.SecondaryClick, Cell: c})
}

func (u *UI) move(dc, dr int) {
	v := u.game.View()
	next := game.Cell{Col: u.cursor.Col + dc, Row: u.cursor.Row + dr}
	if next.Col < 0 || next.Row < 0 || next.Col >= v.Width || next.Row >= v.Height {
		return
	}
	u.cursor = next
	u.Draw()
}

// Cursor returns the keyboard cursor.
func (u *UI) Cursor() game.Cell { return u.cursor }

func (u *UI) apply(ev game.Event) {
	st, err := u.game.Apply(ev)
	switch {
	case err == nil:
		u.hint = ""
		if st.Ended {
			log.Info().Str("outcome", st.View.Outcome.String()).Int("clicks", st.Clicks).Msg("game finished")
		}
	case errors.Is(err, game.ErrGameAlreadyOver):
		log.Debug().Err(err).Str("kind", ev.Kind.String()).Msg("event rejected")
		u.hint = "game over, press r for a new board"
	default:
		log.Error().Err(err).Msg("apply event")
		u.hint = err.Error()
	}
	u.Draw()
}

// Draw renders the current view.
func (u *UI) Draw() {
	v := u.game.View()
	u.screen.Clear()

	for row, squares := range v.Squares {
		for col, sq := range squares {
			style := squareStyle(sq)
			if u.cursor == (game.Cell{Col: col, Row: row}) {
				style = style.Reverse(true)
			}
			x := col * SquareWidth
			u.screen.SetContent(x, row, Glyph(sq), nil, style)
			for pad := 1; pad < SquareWidth; pad++ {
				u.screen.SetContent(x+pad, row, ' ', nil, style)
			}
		}
	}

	status := fmt.Sprintf("bombs %d  flags %d  clicks %d  %s", v.Bombs, v.Flags, u.game.Clicks(), outcomeText(v.Outcome))
	if u.hint != "" {
		status += "  (" + u.hint + ")"
	}
	drawText(u.screen, 0, v.Height+1, status, tcell.StyleDefault.Bold(true))
	drawText(u.screen, 0, v.Height+2, helpLine, tcell.StyleDefault.Foreground(tcell.ColorGray))
	u.screen.Show()
}

func squareStyle(sq game.SquareView) tcell.Style {
	switch sq.State {
	case game.SquareFlagged:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case game.SquareBomb:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case game.SquareDetonated:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
	case game.SquareRevealed:
		if sq.Count > 0 && sq.Count < len(countColors) {
			return tcell.StyleDefault.Foreground(countColors[sq.Count])
		}
		return tcell.StyleDefault
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver)
	}
}

func outcomeText(o game.Outcome) string {
	switch o {
	case game.Win:
		return "you won!"
	case game.Lose:
		return "boom."
	default:
		return "in progress"
	}
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
