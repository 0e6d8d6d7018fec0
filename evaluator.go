package fairalpha

// Evaluator returns the achieved failure probability, in [0, 1], of running
// the fairness test for a ranking of length k and minority proportion p at
// significance alphaCandidate.
//
// Implementations must be deterministic and free of side effects. A single
// Evaluator may be shared by calibrations running on different goroutines.
type Evaluator interface {
	FailureProbability(k int, p, alphaCandidate float64) float64
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(k int, p, alphaCandidate float64) float64

// FailureProbability calls f.
func (f EvaluatorFunc) FailureProbability(k int, p, alphaCandidate float64) float64 {
	return f(k, p, alphaCandidate)
}

// countingEvaluator records how often a strategy consulted the model.
// Owned by a single AdjustAlpha call.
type countingEvaluator struct {
	next  Evaluator
	calls int
}

func (c *countingEvaluator) FailureProbability(k int, p, alphaCandidate float64) float64 {
	c.calls++
	return c.next.FailureProbability(k, p, alphaCandidate)
}
