package fairalpha

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/fairalpha/fair"
)

func TestNew_RejectsInvalidInput(t *testing.T) {
	_, err := New(19, 0.5, 0.1)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindRankingTooShort, kind)

	_, err = New(30, 0.5, 0.0005)
	kind, ok = KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindAlphaBelowFloor, kind)

	_, err = New(30, 0.5, 0.1, WithTarget(1.2))
	kind, ok = KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTargetOutOfRange, kind)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FlatSteps = 0

	_, err := New(30, 0.5, 0.1, WithConfig(cfg))
	require.Error(t, err)
	_, isParam := KindOf(err)
	assert.False(t, isParam)
}

func TestCalibrator_Accessors(t *testing.T) {
	c, err := New(50, 0.3, 0.05, WithEvaluator(identity))
	require.NoError(t, err)

	assert.Equal(t, 50, c.K())
	assert.Equal(t, 0.3, c.P())
	assert.Equal(t, 0.05, c.Alpha())
	assert.Equal(t, 0.05, c.Target())
	assert.Equal(t, Request{K: 50, P: 0.3, Alpha: 0.05, Target: 0.05}, c.Request())
}

// TestSelectStrategy verifies the k boundaries of the flat scan.
func TestSelectStrategy(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		k    int
		want string
	}{
		{20, "flat"},
		{30, "flat"},
		{40, "flat"},
		{41, "binary"},
		{100, "binary"},
		{5000, "binary"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SelectStrategy(tt.k, cfg).Name(), "k=%d", tt.k)
	}
}

// TestAdjustAlpha_FlatScenario: k=30, identity evaluator keeps alpha.
func TestAdjustAlpha_FlatScenario(t *testing.T) {
	c, err := New(30, 0.5, 0.05, WithEvaluator(identity))
	require.NoError(t, err)

	res := c.AdjustAlpha()

	assert.Equal(t, 0.05, res.AdjustedAlpha)
	assert.Equal(t, "flat", res.Strategy)
	assert.Equal(t, 501, res.Evaluations)
	assert.Equal(t, 0.0, res.Distance)
	AssertCalibrated(t, res)
}

// TestAdjustAlpha_BinaryScenario: k=100, identity evaluator approaches alpha.
func TestAdjustAlpha_BinaryScenario(t *testing.T) {
	c, err := New(100, 0.5, 0.05, WithEvaluator(identity))
	require.NoError(t, err)

	res := c.AdjustAlpha()

	assert.Equal(t, "binary", res.Strategy)
	assert.True(t, res.Converged)
	assert.InDelta(t, 0.05, res.AdjustedAlpha, 0.0001)
	assert.True(t, res.WithinTolerance(0.0001))
	AssertCalibrated(t, res)
	AssertWithinTolerance(t, res, identity, DefaultAssertionConfig())
}

// TestAdjustAlpha_Deterministic compares fresh calibrators with equal inputs.
func TestAdjustAlpha_Deterministic(t *testing.T) {
	for _, k := range []int{25, 75} {
		a, err := New(k, 0.4, 0.1)
		require.NoError(t, err)
		b, err := New(k, 0.4, 0.1)
		require.NoError(t, err)

		first := a.AdjustAlpha()
		assert.Equal(t, first, b.AdjustAlpha(), "k=%d", k)
		assert.Equal(t, first, a.AdjustAlpha(), "k=%d: repeated call", k)
	}
}

// TestAdjustAlpha_FairModel runs both strategies against the real model.
func TestAdjustAlpha_FairModel(t *testing.T) {
	var results []Result
	for _, k := range []int{30, 100} {
		c, err := New(k, 0.5, 0.1)
		require.NoError(t, err)

		res := c.AdjustAlpha()
		AssertNotAboveAlpha(t, res)
		AssertEvaluationBudget(t, res, DefaultConfig(), DefaultAssertionConfig())

		if res.Strategy == "flat" {
			// alpha itself is a flat candidate, so the scan can only improve on it.
			unadjusted := fair.FailureProbability(k, 0.5, 0.1)
			assert.LessOrEqual(t, res.Distance, res.Request.distance(unadjusted), "k=%d", k)
		}

		assert.Len(t, res.MTable(), k+1)
		results = append(results, res)
	}
	PrintAnalysis(t, results)
}

func TestAdjustAlpha_WithTargetOverride(t *testing.T) {
	c, err := New(100, 0.5, 0.1, WithEvaluator(identity), WithTarget(0.04))
	require.NoError(t, err)

	res := c.AdjustAlpha()
	assert.InDelta(t, 0.04, res.AdjustedAlpha, 0.0001)
	assert.Equal(t, 0.04, res.Request.Target)
}

func TestAdjust_OneShot(t *testing.T) {
	req, err := NewRequest(35, 0.5, 0.05)
	require.NoError(t, err)

	res, err := Adjust(req, identity, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.05, res.AdjustedAlpha)

	_, err = Adjust(Request{K: 10, P: 0.5, Alpha: 0.05, Target: 0.05}, identity, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestAdjustAlpha_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := New(30, 0.5, 0.05, WithEvaluator(identity), WithLogger(logger))
	require.NoError(t, err)
	c.AdjustAlpha()

	assert.Contains(t, buf.String(), "alpha adjusted")
	assert.Contains(t, buf.String(), "strategy=flat")
}

func TestAdjustAlpha_Metrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	flat, err := New(30, 0.5, 0.05, WithEvaluator(identity), WithMetrics(m))
	require.NoError(t, err)
	binary, err := New(100, 0.5, 0.05, WithEvaluator(identity), WithMetrics(m))
	require.NoError(t, err)

	flat.AdjustAlpha()
	flat.AdjustAlpha()
	binary.AdjustAlpha()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calibrations.WithLabelValues("flat", OutcomeBestEffort)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calibrations.WithLabelValues("binary", OutcomeConverged)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.evaluations))

	assert.Error(t, m.Register(reg), "double registration must fail")
}

func TestResult_String(t *testing.T) {
	res := Result{
		Request:       Request{K: 30, P: 0.5, Alpha: 0.1, Target: 0.1},
		AdjustedAlpha: 0.08,
		Achieved:      0.1,
		Strategy:      "flat",
		Evaluations:   501,
	}
	assert.Contains(t, res.String(), "-> 0.08")
	assert.Contains(t, res.String(), "501 evaluations")
}

func TestAdjust_ZeroTargetMeansAlpha(t *testing.T) {
	res, err := Adjust(Request{K: 35, P: 0.5, Alpha: 0.05}, identity, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.05, res.Request.Target)
	assert.Equal(t, 0.05, res.AdjustedAlpha)
}
