package life

import (
	"torus-life/internal/core"

	"golang.org/x/sync/errgroup"
)

// Life implements Conway's Game of Life (B3/S23) on a toroidal grid and
// records which cells flipped on every incremental step.
type Life struct {
	grid    *core.Grid
	nxt     []uint8
	changes []core.Change
	gen     int

	workers int
	bands   [][]core.Change
}

// New returns a Life simulation seeded with the given live probability.
func New(w, h, prob int, seed int64) (*Life, error) {
	g, err := core.NewGrid(w, h, prob, seed)
	if err != nil {
		return nil, err
	}
	return &Life{grid: g, workers: 1}, nil
}

// NewWithConfig validates cfg and builds the simulation it describes.
func NewWithConfig(cfg Config) (*Life, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, err := New(cfg.Width, cfg.Height, cfg.LiveProbability, cfg.Seed)
	if err != nil {
		return nil, err
	}
	l.SetWorkers(cfg.Workers)
	return l, nil
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return "life" }

// Size returns the grid dimensions.
func (l *Life) Size() core.Size { return l.grid.Size() }

// Cells exposes the current grid values.
func (l *Life) Cells() []uint8 { return l.grid.Cells() }

// Generation returns the number of steps taken since the last reset.
func (l *Life) Generation() int { return l.gen }

// Population counts live cells.
func (l *Life) Population() int { return l.grid.Population() }

// LiveProbability returns the seeding percentage.
func (l *Life) LiveProbability() int { return l.grid.LiveProbability() }

// Changes returns the change list of the most recent Advance. The slice is
// reused by the next step.
func (l *Life) Changes() []core.Change { return l.changes }

// Workers returns the number of row bands evaluated concurrently.
func (l *Life) Workers() int { return l.workers }

// SetWorkers sets how many row bands are evaluated concurrently. Values below
// one are treated as one.
func (l *Life) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	l.workers = n
}

// Reset zeroes the generation and reseeds the board from seed.
func (l *Life) Reset(seed int64) {
	l.rewind()
	l.grid.Reseed(seed)
}

// Reseed zeroes the generation and reseeds the board from the running random
// stream, so consecutive calls produce different boards.
func (l *Life) Reseed() {
	l.rewind()
	l.grid.Seed()
}

// Resize reallocates and reseeds the board. The generation counter keeps
// running; only Reset and Reseed zero it. On error nothing changes.
func (l *Life) Resize(w, h int) error {
	if err := l.grid.Resize(w, h); err != nil {
		return err
	}
	l.changes = l.changes[:0]
	return nil
}

// SetLiveProbability updates the seeding percentage and reseeds the board
// without touching the generation counter.
func (l *Life) SetLiveProbability(p int) error {
	if err := l.grid.SetLiveProbability(p); err != nil {
		return err
	}
	l.changes = l.changes[:0]
	return nil
}

func (l *Life) rewind() {
	l.gen = 0
	l.changes = l.changes[:0]
}

// LeftOf returns the index of the cell left of i, wrapping within the row.
func (l *Life) LeftOf(i int) int {
	w := l.grid.Size().W
	return i/w*w + ((i-1)%w+w)%w
}

// RightOf returns the index of the cell right of i, wrapping within the row.
func (l *Life) RightOf(i int) int {
	w := l.grid.Size().W
	return i/w*w + (i+1)%w
}

// TopOf returns the index of the cell above i, wrapping to the last row.
func (l *Life) TopOf(i int) int {
	w, n := l.grid.Size().W, l.grid.Len()
	return (i - w + n) % n
}

// BottomOf returns the index of the cell below i, wrapping to the first row.
func (l *Life) BottomOf(i int) int {
	w, n := l.grid.Size().W, l.grid.Len()
	return (i + w + n) % n
}

// Neighbours returns the eight neighbour indices of i: left, right, top,
// bottom, then the top-left, top-right, bottom-left and bottom-right diagonals.
func (l *Life) Neighbours(i int) [8]int {
	top, bottom := l.TopOf(i), l.BottomOf(i)
	return [8]int{
		l.LeftOf(i), l.RightOf(i), top, bottom,
		l.LeftOf(top), l.RightOf(top), l.LeftOf(bottom), l.RightOf(bottom),
	}
}

// CountNeighbours returns the number of live cells among the eight neighbours
// of i.
func (l *Life) CountNeighbours(i int) int {
	n := 0
	for _, j := range l.Neighbours(i) {
		n += int(l.grid.Get(j))
	}
	return n
}

// nextState applies the rule table to a cell with n live neighbours.
func nextState(s uint8, n int) uint8 {
	switch {
	case s == 1 && (n < 2 || n > 3):
		return 0
	case s == 0 && n == 3:
		return 1
	}
	return s
}

// Advance evaluates every cell against the current generation, records the
// cells that flip, then commits them. It returns the change list in ascending
// index order and the new generation number.
func (l *Life) Advance() ([]core.Change, int) {
	l.changes = l.evaluate(l.changes[:0])
	for _, c := range l.changes {
		l.grid.Set(c.Index, c.Status)
	}
	l.gen++
	return l.changes, l.gen
}

// StepFull advances by recomputing every cell into a second buffer and
// swapping it in. No change list is produced.
func (l *Life) StepFull() {
	cells := l.grid.Cells()
	if len(l.nxt) != len(cells) {
		l.nxt = make([]uint8, len(cells))
	}
	for i, s := range cells {
		l.nxt[i] = nextState(s, l.CountNeighbours(i))
	}
	l.nxt = l.grid.Swap(l.nxt)
	l.changes = l.changes[:0]
	l.gen++
}

func (l *Life) evaluate(dst []core.Change) []core.Change {
	size := l.grid.Size()
	workers := l.workers
	if workers > size.H {
		workers = size.H
	}
	if workers <= 1 {
		return l.diffRange(dst, 0, size.Cells())
	}

	if len(l.bands) < workers {
		l.bands = make([][]core.Change, workers)
	}
	rows := (size.H + workers - 1) / workers
	var eg errgroup.Group
	for b := 0; b < workers; b++ {
		lo := b * rows
		hi := min(lo+rows, size.H)
		if lo >= hi {
			l.bands[b] = l.bands[b][:0]
			continue
		}
		eg.Go(func() error {
			l.bands[b] = l.diffRange(l.bands[b][:0], lo*size.W, hi*size.W)
			return nil
		})
	}
	_ = eg.Wait()

	for b := 0; b < workers; b++ {
		dst = append(dst, l.bands[b]...)
	}
	return dst
}

// diffRange appends a change for every cell in [lo, hi) whose next state
// differs from its current one. It only reads the grid.
func (l *Life) diffRange(dst []core.Change, lo, hi int) []core.Change {
	for i := lo; i < hi; i++ {
		s := l.grid.Get(i)
		if next := nextState(s, l.CountNeighbours(i)); next != s {
			dst = append(dst, core.Change{Index: i, Status: next})
		}
	}
	return dst
}
