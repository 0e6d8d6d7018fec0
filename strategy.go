package fairalpha

// Outcome is what a single strategy run produced.
type Outcome struct {
	Alpha     float64 // best candidate found
	Achieved  float64 // evaluated failure probability at Alpha
	Converged bool    // tolerance was met before the search was exhausted
}

// Strategy searches for the alpha whose achieved failure probability is
// closest to the request's target.
type Strategy interface {
	Name() string
	Search(req Request, eval Evaluator) Outcome
}

// SelectStrategy picks the search for a ranking length. Short rankings have a
// step-like probability curve and get the dense flat scan; longer rankings
// use binary partitioning.
func SelectStrategy(k int, cfg Config) Strategy {
	if k >= MinK && k <= cfg.FlatMaxK {
		return FlatSearch{Steps: cfg.FlatSteps}
	}
	return BinaryPartitionSearch{
		Tolerance:     cfg.Tolerance,
		Step:          cfg.Step,
		MaxIterations: cfg.MaxIterations,
	}
}
