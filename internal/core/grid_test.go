package core

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestNewGridRejectsInvalidInput(t *testing.T) {
	if _, err := NewGrid(0, 5, 30, 1); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("zero width: got %v, want ErrInvalidSize", err)
	}
	if _, err := NewGrid(5, -1, 30, 1); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("negative height: got %v, want ErrInvalidSize", err)
	}
	if _, err := NewGrid(5, 5, 101, 1); !errors.Is(err, ErrInvalidProbability) {
		t.Fatalf("probability 101: got %v, want ErrInvalidProbability", err)
	}
	if _, err := NewGrid(5, 5, -1, 1); !errors.Is(err, ErrInvalidProbability) {
		t.Fatalf("probability -1: got %v, want ErrInvalidProbability", err)
	}
}

func TestSeedMatchesProbability(t *testing.T) {
	for _, p := range []int{10, 30, 50, 99} {
		g, err := NewGrid(100, 100, p, int64(p))
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range g.Cells() {
			if c > 1 {
				t.Fatalf("cell value %d outside {0,1}", c)
			}
		}
		got := float64(g.Population()) / float64(g.Len())
		want := float64(p) / 100
		if math.Abs(got-want) > 0.03 {
			t.Fatalf("probability %d: live fraction %.3f, want %.3f±0.03", p, got, want)
		}
	}
}

func TestSeedExtremes(t *testing.T) {
	g, err := NewGrid(20, 10, 0, 7)
	if err != nil {
		t.Fatal(err)
	}
	if pop := g.Population(); pop != 0 {
		t.Fatalf("probability 0 produced %d live cells", pop)
	}
	if err := g.SetLiveProbability(100); err != nil {
		t.Fatal(err)
	}
	if pop := g.Population(); pop != g.Len() {
		t.Fatalf("probability 100 produced %d/%d live cells", pop, g.Len())
	}
}

func TestResizeReallocatesAndReseeds(t *testing.T) {
	g, err := NewGrid(10, 10, 100, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Resize(7, 4); err != nil {
		t.Fatal(err)
	}
	if g.Len() != 28 || g.Size() != (Size{W: 7, H: 4}) {
		t.Fatalf("resize produced %v with %d cells", g.Size(), g.Len())
	}
	if g.Population() != 28 {
		t.Fatalf("resize did not reseed with probability 100")
	}
}

func TestInvalidChangesLeaveGridIntact(t *testing.T) {
	g, err := NewGrid(8, 6, 40, 11)
	if err != nil {
		t.Fatal(err)
	}
	before := slices.Clone(g.Cells())

	if err := g.Resize(0, 6); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("got %v, want ErrInvalidSize", err)
	}
	if err := g.SetLiveProbability(150); !errors.Is(err, ErrInvalidProbability) {
		t.Fatalf("got %v, want ErrInvalidProbability", err)
	}
	if g.Size() != (Size{W: 8, H: 6}) || g.LiveProbability() != 40 {
		t.Fatalf("rejected change mutated grid: %v p=%d", g.Size(), g.LiveProbability())
	}
	if !slices.Equal(before, g.Cells()) {
		t.Fatal("rejected change mutated cells")
	}
}

func TestReseedDeterministic(t *testing.T) {
	g, err := NewGrid(16, 16, 50, 99)
	if err != nil {
		t.Fatal(err)
	}
	first := slices.Clone(g.Cells())

	g.Seed()
	if slices.Equal(first, g.Cells()) {
		t.Fatal("Seed should draw from the running stream")
	}

	g.Reseed(99)
	if !slices.Equal(first, g.Cells()) {
		t.Fatal("Reseed with the construction seed should reproduce the initial cells")
	}
}

func TestSizeUpdateRowMajor(t *testing.T) {
	g, err := NewGrid(7, 5, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < g.Len(); i++ {
		x, y := i%7, i/7
		u := g.Size().Update(Change{Index: i, Status: 1})
		if u.Row != y || u.Col != x {
			t.Fatalf("update for %d = (%d,%d), want (%d,%d)", i, u.Row, u.Col, y, x)
		}
	}
}

func TestSwapRejectsMismatchedBuffer(t *testing.T) {
	g, err := NewGrid(4, 4, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Swap with wrong length should panic")
		}
	}()
	g.Swap(make([]uint8, 3))
}

func TestGetOutOfRangePanics(t *testing.T) {
	g, err := NewGrid(4, 4, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Get past the end should panic")
		}
	}()
	g.Get(g.Len())
}
