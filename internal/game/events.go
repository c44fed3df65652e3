// internal/game/events.go
//
// Typed input events forwarded by a shell.
// A shell translates raw input (mouse buttons, keys, HTTP bodies) into
// one Event and hands it to Handle; nothing registers callbacks on the
// engine.

package game

import (
	"fmt"
	"strings"
)

// EventKind names the player action.
type EventKind int

const (
	PrimaryClick   EventKind = iota + 1 // reveal
	SecondaryClick                      // flag toggle
	ResetRequested
)

func (k EventKind) String() string {
	switch k {
	case PrimaryClick:
		return "primary"
	case SecondaryClick:
		return "secondary"
	case ResetRequested:
		return "reset"
	default:
		return "unknown"
	}
}

// ParseKind maps the wire names "primary", "secondary" and "reset".
func ParseKind(s string) (EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "left", "reveal":
		return PrimaryClick, nil
	case "secondary", "right", "flag":
		return SecondaryClick, nil
	case "reset":
		return ResetRequested, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Event is one discrete player action. Cell is ignored for resets.
type Event struct {
	Kind EventKind
	Cell Cell
}

// Handle applies ev synchronously.
func (b *Board) Handle(ev Event) error {
	switch ev.Kind {
	case PrimaryClick:
		return b.Reveal(ev.Cell)
	case SecondaryClick:
		return b.Mark(ev.Cell)
	case ResetRequested:
		b.Reset()
		return nil
	}
	return fmt.Errorf("%w: kind %d", ErrUnknownEvent, int(ev.Kind))
}
