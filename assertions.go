package fairalpha

import (
	"fmt"
	"testing"
)

// AssertionConfig contains thresholds for calibration quality.
type AssertionConfig struct {
	// Maximum |achieved - target| accepted
	Tolerance float64

	// Maximum evaluator calls accepted for a binary search run
	MaxBinaryEvaluations int
}

// DefaultAssertionConfig returns thresholds matching the default search.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		Tolerance:            0.0001,
		MaxBinaryEvaluations: DefaultMaxIterations,
	}
}

// AssertWithinTolerance re-evaluates the adjusted alpha and verifies the
// achieved probability is within cfg.Tolerance of the target.
//
// Calibration never reports poor quality as an error, so callers that need a
// guarantee have to check it independently. This is that check.
func AssertWithinTolerance(t *testing.T, res Result, eval Evaluator, cfg AssertionConfig) {
	t.Helper()

	req := res.Request
	achieved := eval.FailureProbability(req.K, req.P, res.AdjustedAlpha)
	distance := req.distance(achieved)

	if !(distance <= cfg.Tolerance) {
		t.Errorf("Calibration outside tolerance: |%.6f - %.6f| = %.6f (max: %.6f)\n"+
			"k=%d p=%.3f alpha=%.4f adjusted=%.6f (%s)",
			achieved, req.Target, distance, cfg.Tolerance,
			req.K, req.P, req.Alpha, res.AdjustedAlpha, res.Strategy)
		return
	}

	t.Logf("✓ Within tolerance: |achieved - target| = %.6f (threshold: %.6f)", distance, cfg.Tolerance)
}

// AssertNotAboveAlpha verifies the adjusted alpha lies in (0, alpha].
func AssertNotAboveAlpha(t *testing.T, res Result) {
	t.Helper()

	if !(res.AdjustedAlpha > 0 && res.AdjustedAlpha <= res.Request.Alpha) {
		t.Errorf("Adjusted alpha %.8f outside (0, %.6f]", res.AdjustedAlpha, res.Request.Alpha)
		return
	}

	t.Logf("✓ Adjusted alpha %.6f in (0, %.6f]", res.AdjustedAlpha, res.Request.Alpha)
}

// AssertEvaluationBudget verifies the search spent the expected number of
// evaluator calls: exactly FlatSteps+1 for the flat search, at most
// cfg.MaxBinaryEvaluations for binary search.
func AssertEvaluationBudget(t *testing.T, res Result, searchCfg Config, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	switch res.Strategy {
	case FlatSearch{}.Name():
		if want := searchCfg.FlatSteps + 1; res.Evaluations != want {
			failures = append(failures, fmt.Sprintf("  flat: %d evaluations, want exactly %d", res.Evaluations, want))
		}
	case BinaryPartitionSearch{}.Name():
		if res.Evaluations > cfg.MaxBinaryEvaluations {
			failures = append(failures, fmt.Sprintf("  binary: %d evaluations, max %d", res.Evaluations, cfg.MaxBinaryEvaluations))
		}
	default:
		failures = append(failures, fmt.Sprintf("  unknown strategy %q", res.Strategy))
	}

	if len(failures) > 0 {
		t.Errorf("Evaluation budget violated:\n%s", failures)
		return
	}

	t.Logf("✓ Evaluation budget: %s search used %d evaluator calls", res.Strategy, res.Evaluations)
}

// AssertCalibrated runs the range and budget assertions with default config.
func AssertCalibrated(t *testing.T, res Result) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("NotAboveAlpha", func(t *testing.T) {
		AssertNotAboveAlpha(t, res)
	})

	t.Run("EvaluationBudget", func(t *testing.T) {
		AssertEvaluationBudget(t, res, DefaultConfig(), cfg)
	})
}

// PrintAnalysis outputs a calibration summary to the test log.
func PrintAnalysis(t *testing.T, results []Result) {
	t.Helper()

	t.Logf("\n=== Alpha Calibration ===")
	t.Logf("  k     strategy  alpha     adjusted    achieved    distance    calls")
	t.Logf("  ----  --------  --------  ----------  ----------  ----------  -----")
	for _, r := range results {
		t.Logf("  %-4d  %-8s  %8.4f  %10.6f  %10.6f  %10.6f  %5d",
			r.Request.K, r.Strategy, r.Request.Alpha, r.AdjustedAlpha,
			r.Achieved, r.Distance, r.Evaluations)
	}

	stats := Summarize(results)
	t.Logf("\nSummary: %d/%d converged, mean distance %.6f, worst k=%d (%.6f), %d evaluator calls",
		stats.Converged, stats.Levels, stats.MeanDistance, stats.WorstK, stats.MaxDistance, stats.Evaluations)
}
