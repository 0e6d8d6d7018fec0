package fairalpha

import "math"

// BinaryPartitionSearch halves [smallest positive float64, alpha] until the
// achieved probability is within Tolerance of the target.
//
// After each halving the moved bound is nudged by the fixed Step, which is
// not scaled to the search range. MaxIterations caps the loop so that an
// evaluator that never settles cannot stall the search.
type BinaryPartitionSearch struct {
	Tolerance     float64
	Step          float64
	MaxIterations int
}

// Name implements Strategy.
func (BinaryPartitionSearch) Name() string { return "binary" }

// Search implements Strategy.
func (s BinaryPartitionSearch) Search(req Request, eval Evaluator) Outcome {
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	left := math.SmallestNonzeroFloat64
	right := req.Alpha
	best := Outcome{Alpha: (left + right) / 2, Achieved: math.NaN()}

	for i := 0; left <= right && i < maxIter; i++ {
		mid := (left + right) / 2
		achieved := eval.FailureProbability(req.K, req.P, mid)
		if mid == best.Alpha {
			best.Achieved = achieved
		}

		if req.distance(achieved) <= s.Tolerance {
			return Outcome{Alpha: mid, Achieved: achieved, Converged: true}
		}

		// The running best is compared by its alpha value, not by its
		// achieved probability.
		if req.distance(achieved) < math.Abs(achieved-best.Alpha) {
			best.Alpha = mid
			best.Achieved = achieved
		}

		if req.Target < achieved {
			right = mid - s.Step
		} else {
			left = mid + s.Step
		}
	}

	return best
}
