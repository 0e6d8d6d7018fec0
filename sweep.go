package fairalpha

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// SweepConfig controls a calibration sweep over several ranking lengths.
type SweepConfig struct {
	P      float64 // Minority proportion shared by every level
	Alpha  float64 // Desired significance shared by every level
	Levels []int   // Ranking lengths to calibrate (default: [20,30,40,50,100,200])
	Config Config  // Search tuning; Workers bounds concurrency
}

// DefaultSweepConfig returns sensible defaults.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		P:      0.5,
		Alpha:  0.1,
		Levels: []int{20, 30, 40, 50, 100, 200},
		Config: DefaultConfig(),
	}
}

// SweepStatistics summarises a sweep.
type SweepStatistics struct {
	Levels       int
	Converged    int
	Evaluations  int
	MeanDistance float64
	MaxDistance  float64
	WorstK       int // level with the largest distance
}

// Sweep calibrates every level in cfg.Levels and returns results ordered by k.
//
// Every level gets its own Calibrator; eval is shared and must be safe for
// concurrent use. All levels are validated before any search starts.
func Sweep(ctx context.Context, eval Evaluator, cfg SweepConfig) ([]Result, error) {
	if len(cfg.Levels) == 0 {
		return nil, fmt.Errorf("sweep needs at least one level")
	}

	calibrators := make([]*Calibrator, len(cfg.Levels))
	for i, k := range cfg.Levels {
		c, err := New(k, cfg.P, cfg.Alpha, WithEvaluator(eval), WithConfig(cfg.Config))
		if err != nil {
			return nil, fmt.Errorf("failed at k=%d: %w", k, err)
		}
		calibrators[i] = c
	}

	workers := cfg.Config.Workers
	if workers <= 0 || workers > len(calibrators) {
		workers = len(calibrators)
	}

	var (
		wg      sync.WaitGroup
		jobs    = make(chan int)
		results = make([]Result, len(calibrators))
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = calibrators[i].AdjustAlpha()
			}
		}()
	}

	var cancelled error
feed:
	for i := range calibrators {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Request.K < results[j].Request.K
	})
	return results, nil
}

// Summarize computes sweep statistics. NaN distances are ignored.
func Summarize(results []Result) SweepStatistics {
	stats := SweepStatistics{Levels: len(results)}
	if len(results) == 0 {
		return stats
	}

	var sum float64
	var counted int
	for _, r := range results {
		stats.Evaluations += r.Evaluations
		if r.Converged {
			stats.Converged++
		}
		if math.IsNaN(r.Distance) {
			continue
		}
		sum += r.Distance
		counted++
		if counted == 1 || r.Distance > stats.MaxDistance {
			stats.MaxDistance = r.Distance
			stats.WorstK = r.Request.K
		}
	}
	if counted > 0 {
		stats.MeanDistance = sum / float64(counted)
	}
	return stats
}
