package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame(5, 5, game.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	g := newGame(t)
	if err := st.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != g {
		t.Error("Expected the same *game.Game back")
	}
	if st.Len() != 1 {
		t.Errorf("Expected 1 game, got %d", st.Len())
	}

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEvictDropsIdleGames(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	st := newMemory(func() time.Time { return now })

	idle, busy := newGame(t), newGame(t)
	st.Save(ctx, idle)
	st.Save(ctx, busy)

	now = now.Add(50 * time.Minute)
	if _, err := st.Get(ctx, busy.ID); err != nil {
		t.Fatal(err)
	}

	now = now.Add(20 * time.Minute)
	if n := st.Evict(ctx, time.Hour); n != 1 {
		t.Fatalf("Expected 1 eviction, got %d", n)
	}
	if _, err := st.Get(ctx, idle.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected the idle game to be gone, got %v", err)
	}
	if _, err := st.Get(ctx, busy.ID); err != nil {
		t.Errorf("Expected the busy game to survive, got %v", err)
	}
}
