package game

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want EventKind
	}{
		{"primary", PrimaryClick},
		{"LEFT", PrimaryClick},
		{" secondary ", SecondaryClick},
		{"flag", SecondaryClick},
		{"reset", ResetRequested},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
	if _, err := ParseKind("middle"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Expected ErrUnknownEvent, got %v", err)
	}
}

func TestHandleDispatches(t *testing.T) {
	b := wall(t)

	if err := b.Handle(Event{Kind: SecondaryClick, Cell: Cell{4, 4}}); err != nil {
		t.Fatal(err)
	}
	if !b.IsFlagged(Cell{4, 4}) {
		t.Error("Secondary click should flag")
	}
	if err := b.Handle(Event{Kind: PrimaryClick, Cell: Cell{0, 0}}); err != nil {
		t.Fatal(err)
	}
	if !b.IsRevealed(Cell{0, 0}) {
		t.Error("Primary click should reveal")
	}
	if err := b.Handle(Event{Kind: PrimaryClick, Cell: Cell{2, 2}}); err != nil {
		t.Fatal(err)
	}
	if b.Outcome() != Lose {
		t.Fatalf("Expected Lose, got %s", b.Outcome())
	}
	if err := b.Handle(Event{Kind: ResetRequested}); err != nil {
		t.Fatal(err)
	}
	if b.Outcome() != InProgress || b.RevealedCount() != 0 {
		t.Error("Reset event should restart the board")
	}
	if err := b.Handle(Event{Kind: EventKind(99)}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Expected ErrUnknownEvent, got %v", err)
	}
}
