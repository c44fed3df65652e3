package account

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/minesweeper/internal/db"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	sqlDB, err := db.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "accounts.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	st := NewStore(sqlDB)
	st.cost = bcrypt.MinCost
	return st, sqlDB
}

func TestValidate(t *testing.T) {
	tests := []struct {
		username, password string
		field              string
	}{
		{"sweeper", "longenough", ""},
		{"ab", "longenough", "username"},
		{"has space", "longenough", "username"},
		{"sweeper", "short", "password"},
	}
	for _, tt := range tests {
		err := Validate(tt.username, tt.password)
		var invalid *InvalidError
		switch {
		case tt.field == "" && err != nil:
			t.Errorf("Validate(%q): expected ok, got %v", tt.username, err)
		case tt.field != "" && (!errors.As(err, &invalid) || invalid.Field != tt.field):
			t.Errorf("Validate(%q, %q): expected %s error, got %v", tt.username, tt.password, tt.field, err)
		}
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	p, err := st.Register(ctx, "Sweeper", "correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Register(ctx, "sweeper", "another one"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken for a case variant, got %v", err)
	}

	got, err := st.Authenticate(ctx, "SWEEPER", "correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != p.ID {
		t.Errorf("Expected %s, got %s", p.ID, got.ID)
	}
	if _, err := st.Authenticate(ctx, "sweeper", "wrong horse"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials, got %v", err)
	}
	if _, err := st.Authenticate(ctx, "nobody", "correct horse"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for unknown user, got %v", err)
	}
	if _, err := st.ByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecordOutcomeTracksStreak(t *testing.T) {
	ctx := context.Background()
	st, sqlDB := newTestStore(t)
	p, err := st.Register(ctx, "sweeper", "correct horse")
	if err != nil {
		t.Fatal(err)
	}

	for _, won := range []bool{true, true, false, true} {
		if err := RecordOutcome(ctx, sqlDB, p.ID, won); err != nil {
			t.Fatal(err)
		}
	}
	got, err := st.ByID(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{GamesPlayed: 4, Wins: 3, Streak: 1}
	if got.Stats != want {
		t.Errorf("Expected %+v, got %+v", want, got.Stats)
	}
}

func TestClaimGuestAndHistory(t *testing.T) {
	ctx := context.Background()
	st, sqlDB := newTestStore(t)
	p, err := st.Register(ctx, "sweeper", "correct horse")
	if err != nil {
		t.Fatal(err)
	}

	_, err = sqlDB.ExecContext(ctx,
		`INSERT INTO games (id, anonymous_id, height, width, bombs, started_at, status, clicks)
		 VALUES ('g1','guest',20,20,50,'2026-03-14T10:00:00Z','lost',3),
		        ('g2','guest',9,9,50,'2026-03-14T11:00:00Z','won',40),
		        ('g3','stranger',9,9,50,'2026-03-14T12:00:00Z','won',12)`)
	if err != nil {
		t.Fatal(err)
	}

	if err := st.ClaimGuest(ctx, "guest", p.ID); err != nil {
		t.Fatal(err)
	}
	games, err := st.History(ctx, p.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(games))
	}
	if games[0].ID != "g2" || games[1].ID != "g1" {
		t.Errorf("Expected newest first, got %+v", games)
	}
	if games[0].FinishedAt != "" || games[0].Clicks != 40 {
		t.Errorf("Unexpected summary: %+v", games[0])
	}
}
