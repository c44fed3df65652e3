package daily

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/robalobadob/minesweeper/internal/db"
)

func TestSeedIsStablePerDate(t *testing.T) {
	morning := time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	next := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)

	if Seed(morning, "salt") != Seed(evening, "salt") {
		t.Error("Expected one seed per UTC date")
	}
	if Seed(morning, "salt") == Seed(next, "salt") {
		t.Error("Expected a different seed on the next day")
	}
	if Seed(morning, "salt") == Seed(morning, "pepper") {
		t.Error("Expected the salt to change the seed")
	}
}

func TestBoardOfTheDayIsShared(t *testing.T) {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	a, err := Board(day, "salt", 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Board(day.Add(3*time.Hour), "salt", 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Bombs(), b.Bombs()) {
		t.Error("Expected identical layouts on the same date")
	}
}

func TestStoreResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.OpenAndMigrate(ctx, filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()
	st := NewStore(sqlDB)

	date := "2026-03-14"
	results := []Result{
		{UserID: "slow", Date: date, Clicks: 10, ElapsedMs: 9000, Won: true},
		{UserID: "fast", Date: date, Clicks: 30, ElapsedMs: 4000, Won: true},
		{UserID: "boom", Date: date, Clicks: 2, ElapsedMs: 100, Won: false},
	}
	for _, r := range results {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	// second attempt of the same day is ignored
	if err := st.InsertResult(ctx, Result{UserID: "slow", Date: date, Clicks: 1, ElapsedMs: 1, Won: true}); err != nil {
		t.Fatal(err)
	}

	played, err := st.AlreadyPlayed(ctx, "boom", date)
	if err != nil || !played {
		t.Errorf("Expected boom to have played, got %v (%v)", played, err)
	}
	played, err = st.AlreadyPlayed(ctx, "nobody", date)
	if err != nil || played {
		t.Errorf("Expected nobody not to have played, got %v (%v)", played, err)
	}

	top, err := st.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 winners, got %d", len(top))
	}
	if top[0].UserID != "fast" || top[1].UserID != "slow" || top[1].ElapsedMs != 9000 {
		t.Errorf("Unexpected leaderboard order: %+v", top)
	}
}
