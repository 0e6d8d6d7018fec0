package fairalpha

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is wrapped by every validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamKind identifies which calibration constraint was violated.
type ParamKind int

const (
	KindRankingTooShort      ParamKind = iota + 1 // k < MinK
	KindProportionOutOfRange                      // p ∉ (0, 1)
	KindAlphaOutOfRange                           // alpha ∉ (0, 1)
	KindAlphaBelowFloor                           // alpha < MinAlpha
	KindTargetOutOfRange                          // target ∉ (0, 1)
)

func (k ParamKind) String() string {
	switch k {
	case KindRankingTooShort:
		return "ranking_too_short"
	case KindProportionOutOfRange:
		return "proportion_out_of_range"
	case KindAlphaOutOfRange:
		return "alpha_out_of_range"
	case KindAlphaBelowFloor:
		return "alpha_below_floor"
	case KindTargetOutOfRange:
		return "target_out_of_range"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// InvalidParameterError reports a rejected calibration input.
// Test by Kind, not by message.
type InvalidParameterError struct {
	Kind  ParamKind
	Value float64
}

func (e *InvalidParameterError) Error() string {
	switch e.Kind {
	case KindRankingTooShort:
		return fmt.Sprintf("parameter k must be at least %d to be adjusted, got %d", MinK, int(e.Value))
	case KindProportionOutOfRange:
		return fmt.Sprintf("parameter p must be in ]0.0, 1.0[, got %g", e.Value)
	case KindAlphaOutOfRange:
		return fmt.Sprintf("parameter alpha must be in ]0.0, 1.0[, got %g", e.Value)
	case KindAlphaBelowFloor:
		return fmt.Sprintf("alpha has to be greater than or equal to %g for an adjustment, got %g", MinAlpha, e.Value)
	case KindTargetOutOfRange:
		return fmt.Sprintf("comparison target must be in ]0.0, 1.0[, got %g", e.Value)
	default:
		return fmt.Sprintf("invalid parameter (%s): %g", e.Kind, e.Value)
	}
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// KindOf returns the violated constraint carried by err, if any.
func KindOf(err error) (ParamKind, bool) {
	var ipe *InvalidParameterError
	if errors.As(err, &ipe) {
		return ipe.Kind, true
	}
	return 0, false
}
