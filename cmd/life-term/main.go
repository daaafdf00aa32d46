package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"torus-life/internal/app"
	"torus-life/internal/driver"
	"torus-life/internal/sims/life"
	"torus-life/internal/term"

	"github.com/gdamore/tcell/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli"
)

func main() {
	def := life.DefaultConfig()

	a := cli.NewApp()
	a.Name = "life-term"
	a.Usage = "run Conway's Game of Life on a toroidal board in the terminal"
	a.Flags = []cli.Flag{
		cli.IntFlag{Name: "cols, c", Value: def.Width, Usage: "board columns"},
		cli.IntFlag{Name: "rows, r", Value: def.Height, Usage: "board rows"},
		cli.IntFlag{Name: "prob, p", Value: def.LiveProbability, Usage: "percentage of cells alive after seeding"},
		cli.DurationFlag{Name: "interval, i", Value: 200 * time.Millisecond, Usage: "time between generations"},
		cli.Int64Flag{Name: "seed", Value: def.Seed, Usage: "seed for the initial board"},
		cli.IntFlag{Name: "workers", Value: def.Workers, Usage: "row bands evaluated concurrently"},
		cli.BoolFlag{Name: "paused", Usage: "start with the simulation stopped"},
		cli.StringFlag{Name: "log-file", Usage: "write logs to this file instead of discarding them"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level: debug, info, warn, error"},
	}
	a.Action = run

	if err := a.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := life.DefaultConfig()
	cfg.Width = c.Int("cols")
	cfg.Height = c.Int("rows")
	cfg.LiveProbability = c.Int("prob")
	cfg.TickInterval = c.Duration("interval")
	cfg.Seed = c.Int64("seed")
	cfg.Workers = c.Int("workers")
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sink io.Writer = io.Discard
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		sink = f
	}
	logger, err := app.NewLogger(sink, c.String("log-level"))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	view := term.NewScreen(screen, 1)
	drv, err := driver.New(cfg, view, driver.WithLogger(logger))
	if err != nil {
		return err
	}
	defer drv.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !c.Bool("paused") {
		drv.Start(ctx)
	}
	return loop(ctx, screen, view, drv, logger)
}

func loop(ctx context.Context, screen tcell.Screen, view *term.Screen, drv *driver.Driver, logger log.Logger) error {
	events := make(chan tcell.Event)
	go pumpEvents(ctx, screen, events)

	status := time.NewTicker(100 * time.Millisecond)
	defer status.Stop()
	showStatus(view, drv)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-status.C:
			showStatus(view, drv)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				drv.Redraw()
				showStatus(view, drv)
			case *tcell.EventKey:
				if quit := handleKey(ctx, ev, drv, logger); quit {
					return nil
				}
				showStatus(view, drv)
			}
		}
	}
}

// pumpEvents forwards screen events until the screen is finalised, which
// closes events, or ctx is cancelled while a send is pending.
func pumpEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func handleKey(ctx context.Context, ev *tcell.EventKey, drv *driver.Driver, logger log.Logger) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	switch ev.Rune() {
	case 'q':
		return true
	case ' ':
		if drv.Running() {
			drv.Stop()
		} else {
			drv.Start(ctx)
		}
	case 'n':
		if !drv.Running() {
			drv.Advance()
		}
	case 'r':
		drv.Reset()
	case 's':
		cfg := drv.Config()
		cfg.Seed = time.Now().UnixNano()
		if err := drv.Configure(cfg); err != nil {
			level.Error(logger).Log("msg", "reseed failed", "err", err)
		}
	}
	return false
}

func showStatus(view *term.Screen, drv *driver.Driver) {
	state := "stopped"
	if drv.Running() {
		state = "running"
	}
	view.Status(fmt.Sprintf("%s  gen %d  pop %d  %s  [space] run/stop [n] step [r] reset [s] seed [q] quit",
		drv.Name(), drv.Generation(), drv.Population(), state))
}
