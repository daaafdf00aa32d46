//go:build ebiten

package main

import (
	"errors"
	"flag"
	stdlog "log"
	"os"

	"torus-life/internal/app"

	"github.com/go-kit/log/level"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger, err := app.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		stdlog.Fatal(err)
	}

	game, err := app.New(cfg.Life, cfg.Paused, logger)
	if err != nil {
		level.Error(logger).Log("msg", "invalid configuration", "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowSize(game.WindowSize())

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		level.Error(logger).Log("msg", "game exited", "err", err)
		os.Exit(1)
	}
}
