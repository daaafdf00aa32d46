package app

import (
	"flag"

	"torus-life/internal/sims/life"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Life     life.Config
	Paused   bool
	LogLevel string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Life: life.DefaultConfig(), Paused: true, LogLevel: "info"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Life.Width, "w", c.Life.Width, "board columns")
	fs.IntVar(&c.Life.Height, "h", c.Life.Height, "board rows")
	fs.IntVar(&c.Life.CellSize, "cell", c.Life.CellSize, "cell size in pixels")
	fs.IntVar(&c.Life.LiveProbability, "prob", c.Life.LiveProbability, "percentage of cells alive after seeding")
	fs.DurationVar(&c.Life.TickInterval, "interval", c.Life.TickInterval, "time between generations")
	fs.Int64Var(&c.Life.Seed, "seed", c.Life.Seed, "seed for board reset")
	fs.IntVar(&c.Life.Workers, "workers", c.Life.Workers, "row bands evaluated concurrently")
	fs.BoolVar(&c.Paused, "paused", c.Paused, "start with the simulation stopped")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}
