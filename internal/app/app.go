//go:build ebiten

package app

import (
	"fmt"
	"time"

	"torus-life/internal/core"
	"torus-life/internal/driver"
	"torus-life/internal/render"
	"torus-life/internal/sims/life"
	"torus-life/internal/ui"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 220

// Game adapts a Life driver to the ebiten.Game interface. ebiten calls Update
// on a single goroutine, so at most one advance is ever in flight.
type Game struct {
	drv     *driver.Driver
	painter *render.Painter
	hud     *ui.HUD
	step    *core.FixedStep
	logger  log.Logger

	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided configuration.
func New(cfg life.Config, paused bool, logger log.Logger) (*Game, error) {
	painter := render.NewPainter(render.DefaultPalette())
	drv, err := driver.New(cfg, painter, driver.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	g := &Game{
		drv:     drv,
		painter: painter,
		hud:     ui.NewHUD(drv, hudWidth),
		step:    core.NewFixedStep(cfg.TickInterval),
		logger:  logger,
		paused:  paused,
	}
	g.step.Rearm()
	return g, nil
}

// Title is the window title for the running simulation.
func (g *Game) Title() string {
	return "torus-life: " + g.drv.Name()
}

// WindowSize returns the window dimensions that fit the board and HUD.
func (g *Game) WindowSize() (int, int) {
	return g.Layout(0, 0)
}

// Reset stops the simulation and reseeds the board.
func (g *Game) Reset() {
	g.drv.Reset()
	g.paused = true
	g.tickOnce = false
}

// Reseed restarts the board from a new seed, keeping the run state.
func (g *Game) Reseed(seed int64) {
	cfg := g.drv.Config()
	cfg.Seed = seed
	if err := g.drv.Configure(cfg); err != nil {
		level.Error(g.logger).Log("msg", "reseed failed", "err", err)
	}
	g.step.Rearm()
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		g.step.Rearm()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reseed(time.Now().UnixNano())
	}

	boardW, _ := g.painter.Size()
	if g.hud.Update(boardW) {
		g.step.SetInterval(g.drv.Config().TickInterval)
		g.step.Rearm()
		ebiten.SetWindowSize(g.WindowSize())
	}

	if (!g.paused && g.step.ShouldStep()) || g.tickOnce {
		g.drv.Advance()
		g.tickOnce = false
	}

	state := "running"
	if g.paused {
		state = "stopped"
	}
	g.hud.SetStatus(fmt.Sprintf("%s, %s", state, g.drv.Config().TickInterval))
	return nil
}

// Draw renders the board and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen)
	w, _ := g.painter.Size()
	_, h := g.Layout(0, 0)
	g.hud.Draw(screen, w, h)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.drv.Config()
	w := cfg.Width * cfg.CellSize
	h := max(cfg.Height*cfg.CellSize, g.hud.MinHeight())
	return w + g.hud.Width(), h
}
