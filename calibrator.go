package fairalpha

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/alexshd/fairalpha/fair"
)

// Calibrator holds a validated request and the collaborators needed to adjust
// its alpha. It is immutable after New and safe for concurrent use as long as
// its Evaluator is.
type Calibrator struct {
	req      Request
	cfg      Config
	eval     Evaluator
	strategy Strategy
	logger   *slog.Logger
	metrics  *Metrics
}

// Option customises a Calibrator.
type Option func(*Calibrator)

// WithEvaluator sets the probability model. Default: fair.Model.
func WithEvaluator(e Evaluator) Option {
	return func(c *Calibrator) { c.eval = e }
}

// WithConfig replaces the search tuning.
func WithConfig(cfg Config) Option {
	return func(c *Calibrator) { c.cfg = cfg }
}

// WithTarget compares achieved probabilities against target instead of alpha.
func WithTarget(target float64) Option {
	return func(c *Calibrator) { c.req.Target = target }
}

// WithLogger sets the structured logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calibrator) { c.logger = l }
}

// WithMetrics records every AdjustAlpha call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Calibrator) { c.metrics = m }
}

// New validates (k, p, alpha) and prepares a calibration.
//
// Validation failures are *InvalidParameterError values wrapping
// ErrInvalidParameter; use KindOf to tell them apart. An invalid Config
// is reported as a plain error.
func New(k int, p, alpha float64, opts ...Option) (*Calibrator, error) {
	c := &Calibrator{
		req:  Request{K: k, P: p, Alpha: alpha, Target: alpha},
		cfg:  DefaultConfig(),
		eval: fair.Model{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.req.Validate(); err != nil {
		return nil, err
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if c.eval == nil {
		c.eval = fair.Model{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.strategy = SelectStrategy(k, c.cfg)
	return c, nil
}

// K returns the ranking length.
func (c *Calibrator) K() int { return c.req.K }

// P returns the minority proportion.
func (c *Calibrator) P() float64 { return c.req.P }

// Alpha returns the original alpha.
func (c *Calibrator) Alpha() float64 { return c.req.Alpha }

// Target returns the comparison target.
func (c *Calibrator) Target() float64 { return c.req.Target }

// Request returns the validated input.
func (c *Calibrator) Request() Request { return c.req }

// Strategy returns the search selected for K.
func (c *Calibrator) Strategy() Strategy { return c.strategy }

// AdjustAlpha runs the selected strategy and returns its result. It never
// fails; a result far from the target is reported through Distance, not an
// error. Repeated calls with a deterministic evaluator return equal results.
func (c *Calibrator) AdjustAlpha() Result {
	counter := &countingEvaluator{next: c.eval}
	out := c.strategy.Search(c.req, counter)

	res := Result{
		Request:       c.req,
		AdjustedAlpha: out.Alpha,
		Achieved:      out.Achieved,
		Distance:      c.req.distance(out.Achieved),
		Strategy:      c.strategy.Name(),
		Evaluations:   counter.calls,
		Converged:     out.Converged,
	}

	c.logger.Debug("alpha adjusted",
		"k", c.req.K,
		"p", c.req.P,
		"alpha", c.req.Alpha,
		"target", c.req.Target,
		"strategy", res.Strategy,
		"adjusted", res.AdjustedAlpha,
		"achieved", res.Achieved,
		"evaluations", res.Evaluations,
		"converged", res.Converged,
	)
	if c.metrics != nil {
		c.metrics.Observe(res)
	}
	return res
}

// Adjust validates req and calibrates it once with eval. A zero Target
// compares against Alpha.
func Adjust(req Request, eval Evaluator, cfg Config) (Result, error) {
	if req.Target == 0 {
		req.Target = req.Alpha
	}
	c, err := New(req.K, req.P, req.Alpha,
		WithTarget(req.Target),
		WithEvaluator(eval),
		WithConfig(cfg),
	)
	if err != nil {
		return Result{}, err
	}
	return c.AdjustAlpha(), nil
}

// Result is the immutable outcome of one AdjustAlpha call.
type Result struct {
	Request       Request
	AdjustedAlpha float64
	Achieved      float64 // failure probability observed at AdjustedAlpha
	Distance      float64 // |Achieved - Target|
	Strategy      string
	Evaluations   int
	Converged     bool
}

// WithinTolerance reports whether the achieved probability is within tol of
// the target. NaN distances never are.
func (r Result) WithinTolerance(tol float64) bool {
	return r.Distance <= tol
}

// MTable returns the FA*IR mtable computed with the adjusted alpha.
func (r Result) MTable() []int {
	return fair.MTable(r.Request.K, r.Request.P, r.AdjustedAlpha)
}

func (r Result) String() string {
	if math.IsNaN(r.Achieved) {
		return fmt.Sprintf("k=%d p=%g alpha=%g -> %g (%s, %d evaluations)",
			r.Request.K, r.Request.P, r.Request.Alpha, r.AdjustedAlpha, r.Strategy, r.Evaluations)
	}
	return fmt.Sprintf("k=%d p=%g alpha=%g -> %g (achieved %.6f, %s, %d evaluations)",
		r.Request.K, r.Request.P, r.Request.Alpha, r.AdjustedAlpha, r.Achieved, r.Strategy, r.Evaluations)
}
