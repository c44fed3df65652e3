// internal/game/random.go
//
// Randomness provider for bomb placement.
// The engine never reaches for a process-wide generator: every board is
// given a Rand, so tests and the daily mode can pin exact layouts.

package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Rand is the subset of *rand.Rand the engine needs.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropyRand seeds a generator from the operating system.
// A failure here is fatal to initialization, not a game error.
func NewEntropyRand() (*rand.Rand, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	)), nil
}

// sampleBombs shuffles every coordinate of the grid and keeps the first
// min(NumberBombs, height*width) of them.
func sampleBombs(height, width int, rng Rand) []Cell {
	all := make([]Cell, 0, height*width)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			all = append(all, Cell{Col: col, Row: row})
		}
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:min(NumberBombs, len(all))]
}
