package fairalpha

import "math"

// Input bounds. These are properties of the calibration problem, not tuning
// knobs, so they are not part of Config.
const (
	MinK     = 20    // shortest ranking that can be adjusted
	MinAlpha = 0.001 // smallest alpha that can be adjusted
)

// Request is an immutable calibration input.
//
// Target is the value the achieved failure probability is compared against.
// It defaults to Alpha; set it explicitly to test other interpretations
// (for example comparing against P) without touching the search code.
type Request struct {
	K      int
	P      float64
	Alpha  float64
	Target float64
}

// NewRequest validates (k, p, alpha) and returns a Request targeting alpha.
func NewRequest(k int, p, alpha float64) (Request, error) {
	req := Request{K: k, P: p, Alpha: alpha, Target: alpha}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks the request constraints in a fixed order and reports the
// first violation.
func (r Request) Validate() error {
	if r.K < MinK {
		return &InvalidParameterError{Kind: KindRankingTooShort, Value: float64(r.K)}
	}
	if !openUnit(r.P) {
		return &InvalidParameterError{Kind: KindProportionOutOfRange, Value: r.P}
	}
	if !openUnit(r.Alpha) {
		return &InvalidParameterError{Kind: KindAlphaOutOfRange, Value: r.Alpha}
	}
	if r.Alpha < MinAlpha {
		return &InvalidParameterError{Kind: KindAlphaBelowFloor, Value: r.Alpha}
	}
	if !openUnit(r.Target) {
		return &InvalidParameterError{Kind: KindTargetOutOfRange, Value: r.Target}
	}
	return nil
}

// distance is the quantity both strategies minimise.
func (r Request) distance(probability float64) float64 {
	return math.Abs(probability - r.Target)
}

// openUnit reports whether v ∈ (0, 1). NaN is rejected.
func openUnit(v float64) bool {
	return v > 0 && v < 1
}
