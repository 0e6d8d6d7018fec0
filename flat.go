package fairalpha

// FlatSearch scans Steps evenly spaced candidates from alpha down towards 0.
//
// It always evaluates alpha itself plus Steps candidates, so the number of
// evaluator calls is Steps+1 regardless of how good the early candidates are.
// Ties keep the earlier (larger) candidate.
type FlatSearch struct {
	Steps int
}

// Name implements Strategy.
func (FlatSearch) Name() string { return "flat" }

// Search implements Strategy.
func (s FlatSearch) Search(req Request, eval Evaluator) Outcome {
	steps := s.Steps
	if steps <= 0 {
		steps = DefaultConfig().FlatSteps
	}
	stepSize := req.Alpha / float64(steps)

	best := Outcome{
		Alpha:    req.Alpha,
		Achieved: eval.FailureProbability(req.K, req.P, req.Alpha),
	}

	for i := 0; i < steps; i++ {
		candidate := req.Alpha - float64(i)*stepSize
		achieved := eval.FailureProbability(req.K, req.P, candidate)
		if req.distance(achieved) < req.distance(best.Achieved) {
			best.Alpha = candidate
			best.Achieved = achieved
		}
	}

	return best
}
