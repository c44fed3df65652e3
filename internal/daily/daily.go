// Package daily derives the shared board of the day and records results.
//
// Every player gets the same layout on a given UTC date: the layout seed is
// HMAC-SHA256(salt, YYYY-MM-DD), so it cannot be guessed without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the deterministic layout seed for a date.
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes are plenty for a PCG seed
	return binary.BigEndian.Uint64(sum[:8])
}

// Board builds the board of the day.
func Board(date time.Time, salt string, height, width int) (*game.Board, error) {
	return game.New(height, width, game.NewRand(Seed(date, salt)))
}
