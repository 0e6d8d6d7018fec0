// Package fairalpha calibrates the significance parameter of the FA*IR
// ranked group fairness test.
//
// # Overview
//
// FA*IR checks every prefix of a ranking of length k against a binomial
// quantile at significance alpha. Because the test runs k times, the overall
// probability of wrongly rejecting a fair ranking (the failure probability)
// drifts away from alpha, and for small k the drift is step-like. fairalpha
// searches for a replacement alpha whose achieved failure probability is
// closest to the desired level.
//
// # Architecture
//
// The package components:
//
//   - calibrator  - Input validation and strategy dispatch
//   - flat        - Fixed 500-step scan below alpha (20 ≤ k ≤ 40)
//   - binary      - Bounded halving search over (0, alpha] (k > 40)
//   - sweep       - Concurrent calibration over several ranking lengths
//   - metrics     - Prometheus collectors for calibration runs
//   - assertions  - Test helpers for calibration quality
//   - fair/       - The FA*IR binomial model (mtable, failure probability)
//
// # Quick Start
//
//	c, err := fairalpha.New(100, 0.5, 0.1)
//	if err != nil {
//	    if kind, ok := fairalpha.KindOf(err); ok {
//	        log.Fatalf("rejected: %s", kind)
//	    }
//	    log.Fatal(err)
//	}
//
//	res := c.AdjustAlpha()
//	fmt.Printf("adjusted alpha: %g (achieved %.4f)\n", res.AdjustedAlpha, res.Achieved)
//
// # Custom Models
//
// Any deterministic function of (k, p, alpha) can stand in for the FA*IR
// model:
//
//	identity := fairalpha.EvaluatorFunc(func(k int, p, x float64) float64 { return x })
//	c, _ := fairalpha.New(30, 0.5, 0.05, fairalpha.WithEvaluator(identity))
//
// # Comparison Target
//
// Both searches compare the achieved failure probability against the
// original alpha. WithTarget replaces that comparison value, so the choice
// can be tested independently of the search code.
//
// # Quality
//
// AdjustAlpha never fails once New succeeds. A result that misses the target
// is reported through Result.Distance and Result.Converged; callers needing a
// guarantee check Result.WithinTolerance themselves.
package fairalpha
