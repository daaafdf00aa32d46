package life

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Bounds accepted by Validate.
const (
	MinDimension = 5
	MaxDimension = 1000

	MinCellSize = 5
	MaxCellSize = 50

	MinLiveProbability = 10
	MaxLiveProbability = 99

	MinTickInterval = 10 * time.Millisecond
	MaxTickInterval = 1000000 * time.Millisecond
)

// ErrInvalidConfig is returned when a Config falls outside the accepted bounds.
var ErrInvalidConfig = errors.New("invalid life config")

// Config controls the Life simulation and how it is presented.
type Config struct {
	Width           int
	Height          int
	CellSize        int
	LiveProbability int
	TickInterval    time.Duration

	Seed    int64
	Workers int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:           20,
		Height:          20,
		CellSize:        20,
		LiveProbability: 30,
		TickInterval:    time.Second,
		Seed:            42,
		Workers:         1,
	}
}

// Validate reports the first field outside its accepted range.
func (c Config) Validate() error {
	switch {
	case c.Width < MinDimension || c.Width > MaxDimension:
		return fmt.Errorf("%w: width %d not in [%d,%d]", ErrInvalidConfig, c.Width, MinDimension, MaxDimension)
	case c.Height < MinDimension || c.Height > MaxDimension:
		return fmt.Errorf("%w: height %d not in [%d,%d]", ErrInvalidConfig, c.Height, MinDimension, MaxDimension)
	case c.CellSize < MinCellSize || c.CellSize > MaxCellSize:
		return fmt.Errorf("%w: cell size %d not in [%d,%d]", ErrInvalidConfig, c.CellSize, MinCellSize, MaxCellSize)
	case c.LiveProbability < MinLiveProbability || c.LiveProbability > MaxLiveProbability:
		return fmt.Errorf("%w: live probability %d not in [%d,%d]", ErrInvalidConfig, c.LiveProbability, MinLiveProbability, MaxLiveProbability)
	case c.TickInterval < MinTickInterval || c.TickInterval > MaxTickInterval:
		return fmt.Errorf("%w: tick interval %s not in [%s,%s]", ErrInvalidConfig, c.TickInterval, MinTickInterval, MaxTickInterval)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d must be positive", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults; range checks are left to Validate.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Height = parsed
		}
	}
	if v, ok := cfg["cell"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.CellSize = parsed
		}
	}
	if v, ok := cfg["prob"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.LiveProbability = parsed
		}
	}
	if v, ok := cfg["interval"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.TickInterval = time.Duration(parsed) * time.Millisecond
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}
	return c
}
