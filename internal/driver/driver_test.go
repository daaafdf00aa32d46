package driver

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"torus-life/internal/core"
	"torus-life/internal/sims/life"

	"github.com/go-kit/log"
)

type recorder struct {
	mu       sync.Mutex
	redraws  int
	size     core.Size
	cellSize int
	cells    []uint8
	batches  [][]core.CellUpdate
}

func (r *recorder) Redraw(size core.Size, cellSize int, cells []uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redraws++
	r.size = size
	r.cellSize = cellSize
	r.cells = slices.Clone(cells)
}

func (r *recorder) RedrawChanges(cellSize int, updates []core.CellUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cellSize = cellSize
	r.batches = append(r.batches, slices.Clone(updates))
}

func (r *recorder) redrawCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redraws
}

func testConfig() life.Config {
	cfg := life.DefaultConfig()
	cfg.Width = 24
	cfg.Height = 16
	cfg.CellSize = 10
	cfg.LiveProbability = 40
	cfg.TickInterval = 10 * time.Millisecond
	return cfg
}

func newDriver(t *testing.T) (*Driver, *recorder) {
	t.Helper()
	rec := &recorder{}
	d, err := New(testConfig(), rec)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Stop)
	return d, rec
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNewDrawsInitialBoard(t *testing.T) {
	d, rec := newDriver(t)
	if rec.redraws != 1 {
		t.Fatalf("redraws = %d, want 1", rec.redraws)
	}
	if rec.size != (core.Size{W: 24, H: 16}) || rec.cellSize != 10 {
		t.Fatalf("redraw got size %v cell %d", rec.size, rec.cellSize)
	}
	if !slices.Equal(rec.cells, d.Cells()) {
		t.Fatal("initial redraw did not receive the board")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.LiveProbability = 0
	if _, err := New(cfg, nil); !errors.Is(err, life.ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
}

func TestAdvanceForwardsChanges(t *testing.T) {
	d, rec := newDriver(t)
	before := d.Cells()

	changes, gen := d.Advance()
	if gen != 1 || d.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", gen)
	}
	if len(rec.batches) != 1 {
		t.Fatalf("renderer got %d batches, want 1", len(rec.batches))
	}
	updates := rec.batches[0]
	if len(updates) != len(changes) {
		t.Fatalf("renderer got %d updates for %d changes", len(updates), len(changes))
	}
	after := d.Cells()
	for k, c := range changes {
		u := updates[k]
		if u.Row*24+u.Col != c.Index || u.Status != c.Status {
			t.Fatalf("update %d = %+v, change = %+v", k, u, c)
		}
		if before[c.Index] == after[c.Index] {
			t.Fatalf("change at %d did not flip the cell", c.Index)
		}
	}
}

func TestConfigureRejectsOutOfBounds(t *testing.T) {
	d, rec := newDriver(t)
	cells := d.Cells()

	cfg := testConfig()
	cfg.Width = life.MaxDimension + 1
	if err := d.Configure(cfg); !errors.Is(err, life.ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
	if d.Config() != testConfig() || !slices.Equal(cells, d.Cells()) || rec.redrawCount() != 1 {
		t.Fatal("rejected configuration changed state")
	}
	if d.SetIntParameter(ParamProb, 100) {
		t.Fatal("probability 100 accepted")
	}
	if d.SetIntParameter("colour", 3) {
		t.Fatal("unknown key accepted")
	}
}

func TestConfigurePresentationKeepsCells(t *testing.T) {
	d, rec := newDriver(t)
	d.Advance()
	cells := d.Cells()

	if !d.SetIntParameter(ParamInterval, 500) {
		t.Fatal("interval change rejected")
	}
	if rec.redrawCount() != 1 {
		t.Fatal("interval change should not redraw")
	}
	if !d.SetIntParameter(ParamCellSize, 30) {
		t.Fatal("cell size change rejected")
	}
	if rec.redrawCount() != 2 || rec.cellSize != 30 {
		t.Fatalf("cell size change: redraws=%d cell=%d", rec.redrawCount(), rec.cellSize)
	}
	if !slices.Equal(cells, d.Cells()) || d.Generation() != 1 {
		t.Fatal("presentation change touched the board")
	}
	if d.Config().TickInterval != 500*time.Millisecond {
		t.Fatalf("interval = %s", d.Config().TickInterval)
	}
}

func TestConfigureKeepsGeneration(t *testing.T) {
	d, _ := newDriver(t)
	d.Advance()
	d.Advance()

	cfg := d.Config()
	cfg.Width = 25
	if err := d.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	if d.Generation() != 2 {
		t.Fatalf("generation = %d after resize, want 2", d.Generation())
	}
	if d.Name() != "life" {
		t.Fatalf("name = %q", d.Name())
	}
}

func TestConfigureBoardReseeds(t *testing.T) {
	d, rec := newDriver(t)
	d.Advance()
	d.Advance()

	if !d.SetIntParameter(ParamWidth, 30) {
		t.Fatal("width change rejected")
	}
	if d.Generation() != 2 || len(d.Cells()) != 30*16 {
		t.Fatalf("width change: gen=%d cells=%d", d.Generation(), len(d.Cells()))
	}
	if rec.redrawCount() != 2 || rec.size != (core.Size{W: 30, H: 16}) {
		t.Fatalf("width change: redraws=%d size=%v", rec.redrawCount(), rec.size)
	}

	d.Advance()
	if !d.SetIntParameter(ParamProb, 99) {
		t.Fatal("probability change rejected")
	}
	if d.Generation() != 3 || rec.redrawCount() != 3 {
		t.Fatalf("probability change: gen=%d redraws=%d", d.Generation(), rec.redrawCount())
	}

	d.Reset()
	if d.Generation() != 0 {
		t.Fatalf("generation = %d after Reset", d.Generation())
	}
}

func TestStartAdvancesUntilStopped(t *testing.T) {
	d, _ := newDriver(t)
	d.Start(context.Background())
	d.Start(context.Background())
	if !d.Running() {
		t.Fatal("driver not running after Start")
	}
	waitFor(t, func() bool { return d.Generation() >= 3 })

	d.Stop()
	if d.Running() {
		t.Fatal("driver still running after Stop")
	}
	gen := d.Generation()
	time.Sleep(50 * time.Millisecond)
	if d.Generation() != gen {
		t.Fatal("generation advanced after Stop")
	}
	d.Stop()
}

func TestStopWhenIdle(t *testing.T) {
	d, _ := newDriver(t)
	d.Stop()
	d.Stop()
	if d.Running() {
		t.Fatal("idle driver reports running")
	}
}

func TestConfigureWhileRunningResumes(t *testing.T) {
	d, _ := newDriver(t)
	d.Start(context.Background())
	waitFor(t, func() bool { return d.Generation() >= 1 })

	if !d.SetIntParameter(ParamHeight, 20) {
		t.Fatal("height change rejected")
	}
	if !d.Running() {
		t.Fatal("loop not resumed after Configure")
	}
	waitFor(t, func() bool { return d.Generation() >= 2 })
	if len(d.Cells()) != 24*20 {
		t.Fatalf("cells = %d after resize", len(d.Cells()))
	}
}

func TestCancelledContextStopsLoop(t *testing.T) {
	d, _ := newDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	waitFor(t, func() bool { return !d.Running() })

	d.Start(context.Background())
	waitFor(t, func() bool { return d.Generation() >= 1 })
}

func TestResetStopsAndRedraws(t *testing.T) {
	d, rec := newDriver(t)
	d.Start(context.Background())
	waitFor(t, func() bool { return d.Generation() >= 2 })

	d.Reset()
	if d.Running() {
		t.Fatal("Reset should stop the loop")
	}
	if d.Generation() != 0 {
		t.Fatalf("generation = %d after Reset", d.Generation())
	}
	if rec.redrawCount() != 2 {
		t.Fatalf("redraws = %d, want 2", rec.redrawCount())
	}
}

func TestParametersSnapshot(t *testing.T) {
	d, _ := newDriver(t)
	d.Advance()
	snap := d.Parameters()
	checks := map[string]string{
		ParamWidth:    "24",
		ParamHeight:   "16",
		ParamCellSize: "10",
		ParamProb:     "40",
		ParamInterval: "10",
		"gen":         "1",
	}
	for key, want := range checks {
		p, ok := snap.Lookup(key)
		if !ok || p.Value != want {
			t.Errorf("%s = %q (found=%v), want %q", key, p.Value, ok, want)
		}
	}
	for _, ctrl := range d.ParameterControls() {
		if _, ok := snap.Lookup(ctrl.Key); !ok {
			t.Errorf("control %s missing from snapshot", ctrl.Key)
		}
	}
}

func TestLoggerReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(testConfig(), nil, WithLogger(log.NewLogfmtLogger(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	if !d.SetIntParameter(ParamCellSize, 12) {
		t.Fatal("cell size change rejected")
	}
	d.SetIntParameter(ParamCellSize, 1)
	out := buf.String()
	if !strings.Contains(out, "msg=configured") || !strings.Contains(out, "level=warn") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
