package main

import (
	"errors"
	"math"
	"testing"

	"github.com/cheggaaa/pb/v3"
)

func TestRunScenarioDensity(t *testing.T) {
	res, err := runScenario(64, 64, scenario{prob: 40, seed: 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.initialDensity-0.40) > 0.05 {
		t.Fatalf("seeded density %.3f, want about 0.40", res.initialDensity)
	}
	if res.finalDensity < 0 || res.finalDensity > 1 {
		t.Fatalf("final density %.3f out of range", res.finalDensity)
	}
}

func TestRunScenarioSettlesEmptyBoard(t *testing.T) {
	res, err := runScenario(16, 16, scenario{prob: 0, seed: 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.settledAt != 1 || res.finalDensity != 0 {
		t.Fatalf("empty board: settledAt=%d final=%.3f", res.settledAt, res.finalDensity)
	}
}

func TestRunScenarioRejectsBadSize(t *testing.T) {
	if _, err := runScenario(0, 16, scenario{prob: 30, seed: 1}, 1); err == nil {
		t.Fatal("zero width accepted")
	}
}

func TestCollectCountsFailedScenarios(t *testing.T) {
	boom := errors.New("boom")
	results := make(chan scenarioResult, 3)
	results <- scenarioResult{scenario: scenario{prob: 20, seed: 1}, initialDensity: 0.2, settledAt: -1}
	results <- scenarioResult{scenario: scenario{prob: 30, seed: 1}, err: boom}
	results <- scenarioResult{scenario: scenario{prob: 20, seed: 2}, initialDensity: 0.4, settledAt: 5}
	close(results)

	bar := pb.New(3)
	_, err := collect(results, bar)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if bar.Current() != 3 {
		t.Fatalf("bar at %d, want 3", bar.Current())
	}
}

func TestCollectAverages(t *testing.T) {
	results := make(chan scenarioResult, 3)
	results <- scenarioResult{scenario: scenario{prob: 50, seed: 1}, initialDensity: 0.4, settledAt: -1}
	results <- scenarioResult{scenario: scenario{prob: 20, seed: 1}, initialDensity: 0.2, settledAt: 3}
	results <- scenarioResult{scenario: scenario{prob: 50, seed: 2}, initialDensity: 0.6, settledAt: 7}
	close(results)

	all, err := collect(results, pb.New(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].prob != 20 || all[1].prob != 50 {
		t.Fatalf("summaries = %+v", all)
	}
	if all[1].runs != 2 || all[1].settled != 1 || math.Abs(all[1].initialDensity-0.5) > 1e-9 {
		t.Fatalf("p=50 summary = %+v", all[1])
	}
}
