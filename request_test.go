package fairalpha

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRequest_Validation verifies each violated constraint maps to its own kind.
func TestNewRequest_Validation(t *testing.T) {
	tests := []struct {
		name  string
		k     int
		p     float64
		alpha float64
		kind  ParamKind
	}{
		{"k below minimum", 19, 0.5, 0.1, KindRankingTooShort},
		{"k zero", 0, 0.5, 0.1, KindRankingTooShort},
		{"k negative", -5, 0.5, 0.1, KindRankingTooShort},
		{"p zero", 20, 0, 0.1, KindProportionOutOfRange},
		{"p one", 20, 1, 0.1, KindProportionOutOfRange},
		{"p negative", 20, -0.2, 0.1, KindProportionOutOfRange},
		{"p NaN", 20, math.NaN(), 0.1, KindProportionOutOfRange},
		{"alpha zero", 20, 0.5, 0, KindAlphaOutOfRange},
		{"alpha one", 20, 0.5, 1, KindAlphaOutOfRange},
		{"alpha above one", 20, 0.5, 1.5, KindAlphaOutOfRange},
		{"alpha NaN", 20, 0.5, math.NaN(), KindAlphaOutOfRange},
		{"alpha below floor", 20, 0.5, 0.0005, KindAlphaBelowFloor},
		{"alpha just below floor", 20, 0.5, 0.000999, KindAlphaBelowFloor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.k, tt.p, tt.alpha)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))

			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestNewRequest_Valid(t *testing.T) {
	for _, alpha := range []float64{MinAlpha, 0.05, 0.1, 0.999} {
		req, err := NewRequest(MinK, 0.5, alpha)
		require.NoError(t, err)
		assert.Equal(t, alpha, req.Target, "target defaults to alpha")
	}
}

// TestInvalidParameter_Messages keeps one message per constraint.
func TestInvalidParameter_Messages(t *testing.T) {
	_, err := NewRequest(19, 0.5, 0.1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 20")

	_, floorErr := NewRequest(20, 0.5, 0.0005)
	_, rangeErr := NewRequest(20, 0.5, 1.5)
	require.Error(t, floorErr)
	require.Error(t, rangeErr)
	assert.Contains(t, floorErr.Error(), "0.001")
	assert.NotEqual(t, floorErr.Error(), rangeErr.Error())

	seen := map[string]ParamKind{}
	for _, kind := range []ParamKind{
		KindRankingTooShort, KindProportionOutOfRange, KindAlphaOutOfRange,
		KindAlphaBelowFloor, KindTargetOutOfRange,
	} {
		msg := (&InvalidParameterError{Kind: kind, Value: 0.5}).Error()
		if prev, dup := seen[msg]; dup {
			t.Errorf("kinds %s and %s share message %q", prev, kind, msg)
		}
		seen[msg] = kind
	}
}

func TestRequest_TargetValidation(t *testing.T) {
	req := Request{K: 30, P: 0.5, Alpha: 0.1, Target: 0}
	kind, ok := KindOf(req.Validate())
	require.True(t, ok)
	assert.Equal(t, KindTargetOutOfRange, kind)
}

func TestKindOf_ForeignError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestParamKind_String(t *testing.T) {
	assert.Equal(t, "alpha_below_floor", KindAlphaBelowFloor.String())
	assert.Equal(t, "ParamKind(42)", ParamKind(42).String())
}
