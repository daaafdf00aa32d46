package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"torus-life/internal/app"
	"torus-life/internal/sims/life"

	"github.com/cheggaaa/pb/v3"
	"github.com/go-kit/log/level"
)

type scenario struct {
	prob int
	seed int64
}

type scenarioResult struct {
	scenario
	initialDensity float64
	finalDensity   float64
	lastChanges    int
	settledAt      int
	err            error
}

type summary struct {
	prob           int
	runs           int
	initialDensity float64
	finalDensity   float64
	lastChanges    float64
	settled        int
}

func (s summary) String() string {
	return fmt.Sprintf("p=%2d%%  seeded=%.3f  final=%.3f  churn=%.1f  settled=%d/%d",
		s.prob, s.initialDensity, s.finalDensity, s.lastChanges, s.settled, s.runs)
}

func main() {
	width := flag.Int("w", 128, "board columns")
	height := flag.Int("h", 128, "board rows")
	steps := flag.Int("steps", 500, "generations to simulate per scenario")
	seeds := flag.Int("seeds", 8, "seeds per probability")
	minProb := flag.Int("min", 10, "lowest live probability")
	maxProb := flag.Int("max", 90, "highest live probability")
	stepProb := flag.Int("step", 10, "probability increment")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := app.NewLogger(os.Stderr, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *stepProb <= 0 || *minProb > *maxProb || *seeds <= 0 || *workers <= 0 {
		level.Error(logger).Log("msg", "invalid sweep range", "min", *minProb, "max", *maxProb, "step", *stepProb, "seeds", *seeds)
		os.Exit(2)
	}

	var sets []scenario
	for p := *minProb; p <= *maxProb; p += *stepProb {
		for s := 0; s < *seeds; s++ {
			sets = append(sets, scenario{prob: p, seed: int64(s + 1)})
		}
	}

	level.Info(logger).Log("msg", "sweeping", "scenarios", len(sets), "workers", *workers, "steps", *steps,
		"width", *width, "height", *height)

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				res, err := runScenario(*width, *height, sc, *steps)
				if err != nil {
					res = scenarioResult{scenario: sc, err: err}
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	bar := pb.StartNew(len(sets))
	all, err := collect(results, bar)
	bar.Finish()
	if err != nil {
		level.Error(logger).Log("msg", "scenario failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("\nResults after %d generations (elapsed %s):\n", *steps, time.Since(start).Round(time.Millisecond))
	for _, s := range all {
		fmt.Println(s)
	}
}

// collect drains results, ticking the bar once per scenario whether it
// succeeded or not, and returns per-probability averages sorted by
// probability. The first scenario error is returned after the channel closes.
func collect(results <-chan scenarioResult, bar *pb.ProgressBar) ([]summary, error) {
	var firstErr error
	byProb := map[int]*summary{}
	for res := range results {
		bar.Increment()
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("p=%d seed=%d: %w", res.prob, res.seed, res.err)
			}
			continue
		}
		s, ok := byProb[res.prob]
		if !ok {
			s = &summary{prob: res.prob}
			byProb[res.prob] = s
		}
		s.runs++
		s.initialDensity += res.initialDensity
		s.finalDensity += res.finalDensity
		s.lastChanges += float64(res.lastChanges)
		if res.settledAt >= 0 {
			s.settled++
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	all := make([]summary, 0, len(byProb))
	for _, s := range byProb {
		n := float64(s.runs)
		s.initialDensity /= n
		s.finalDensity /= n
		s.lastChanges /= n
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].prob < all[j].prob })
	return all, nil
}

// runScenario seeds a board and advances it, recording densities and the
// first generation with an empty change list (-1 when it never settles).
func runScenario(w, h int, sc scenario, steps int) (scenarioResult, error) {
	world, err := life.New(w, h, sc.prob, sc.seed)
	if err != nil {
		return scenarioResult{}, err
	}
	total := float64(w * h)
	res := scenarioResult{
		scenario:       sc,
		initialDensity: float64(world.Population()) / total,
		settledAt:      -1,
	}
	for step := 0; step < steps; step++ {
		changes, gen := world.Advance()
		res.lastChanges = len(changes)
		if len(changes) == 0 {
			res.settledAt = gen
			break
		}
	}
	res.finalDensity = float64(world.Population()) / total
	return res, nil
}
