package core

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrInvalidSize is returned for non-positive grid dimensions.
	ErrInvalidSize = errors.New("grid dimensions must be positive")
	// ErrInvalidProbability is returned for live probabilities outside [0,100].
	ErrInvalidProbability = errors.New("live probability must be within [0,100]")
)

// Grid stores a binary cell field in row-major order together with the
// probability used to seed it.
type Grid struct {
	w, h int
	prob int
	data []uint8
	rng  *rand.Rand
}

// NewGrid allocates a w*h grid and seeds it with the given live probability.
func NewGrid(w, h, prob int, seed int64) (*Grid, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if err := checkProbability(prob); err != nil {
		return nil, err
	}
	g := &Grid{w: w, h: h, prob: prob, data: make([]uint8, w*h), rng: NewRNG(seed)}
	g.Seed()
	return g, nil
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return nil
}

func checkProbability(p int) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidProbability, p)
	}
	return nil
}

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.w, H: g.h} }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.data) }

// Cells exposes the backing slice. Callers must not change its length.
func (g *Grid) Cells() []uint8 { return g.data }

// LiveProbability returns the seeding percentage.
func (g *Grid) LiveProbability() int { return g.prob }

// Get returns the value of cell i. Out-of-range indices panic.
func (g *Grid) Get(i int) uint8 { return g.data[i] }

// Set writes cell i. Out-of-range indices panic.
func (g *Grid) Set(i int, v uint8) { g.data[i] = v }

// Resize reallocates the grid and reseeds every cell. Prior contents are
// discarded; on error the grid is left untouched.
func (g *Grid) Resize(w, h int) error {
	if err := checkSize(w, h); err != nil {
		return err
	}
	g.w, g.h = w, h
	g.data = make([]uint8, w*h)
	g.Seed()
	return nil
}

// SetLiveProbability updates the seeding percentage and reseeds the grid.
func (g *Grid) SetLiveProbability(p int) error {
	if err := checkProbability(p); err != nil {
		return err
	}
	g.prob = p
	g.Seed()
	return nil
}

// Seed redraws every cell from the running random stream.
func (g *Grid) Seed() {
	FillPercent(g.rng, g.data, g.prob)
}

// Reseed restarts the random stream from seed and redraws every cell.
func (g *Grid) Reseed(seed int64) {
	g.rng = NewRNG(seed)
	g.Seed()
}

// Population counts live cells.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.data {
		n += int(c)
	}
	return n
}

// Swap installs buf as the cell slice and returns the previous one. buf must
// have the same length as the grid.
func (g *Grid) Swap(buf []uint8) []uint8 {
	if len(buf) != len(g.data) {
		panic(fmt.Sprintf("core: swap buffer length %d, want %d", len(buf), len(g.data)))
	}
	prev := g.data
	g.data = buf
	return prev
}
