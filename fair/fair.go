// Package fair implements the FA*IR ranked group fairness model.
//
// A ranking of length k passes the test when, for every prefix of length i,
// it contains at least m(i) protected candidates. The minimum m(i) is the
// alpha-quantile of a Binomial(i, p) distribution:
//
//	m(i) = min{ x : P(X ≤ x) ≥ alpha },  X ~ Binomial(i, p)
//
// Because the test is applied at every prefix, the probability that a fair
// ranking (each position protected with probability p) fails at least once
// is larger than alpha. FailureProbability computes that overall rate.
package fair

import "math"

// Model evaluates achieved failure probabilities of the FA*IR test.
// The zero value is ready to use and safe for concurrent use.
type Model struct{}

// FailureProbability implements the calibration evaluator contract.
func (Model) FailureProbability(k int, p, alpha float64) float64 {
	return FailureProbability(k, p, alpha)
}

// MTable returns the minimum number of protected candidates required in the
// top i positions, for i = 0..k. Entry 0 is always 0.
func MTable(k int, p, alpha float64) []int {
	if k < 0 {
		return nil
	}
	m := make([]int, k+1)
	for i := 1; i <= k; i++ {
		m[i] = inverseCDF(alpha, i, p)
	}
	return m
}

// FailureProbability returns the probability that a ranking of length k whose
// positions are independently protected with probability p violates the
// mtable for (k, p, alpha) at some prefix.
func FailureProbability(k int, p, alpha float64) float64 {
	if k <= 0 {
		return 0
	}
	m := MTable(k, p, alpha)

	// surviving[c]: probability of c protected so far with no violation yet
	surviving := make([]float64, k+1)
	next := make([]float64, k+1)
	surviving[0] = 1

	for i := 1; i <= k; i++ {
		for c := 0; c <= i; c++ {
			v := surviving[c] * (1 - p)
			if c > 0 {
				v += surviving[c-1] * p
			}
			next[c] = v
		}
		for c := 0; c < m[i] && c <= i; c++ {
			next[c] = 0
		}
		surviving, next = next, surviving
	}

	var success float64
	for _, v := range surviving {
		success += v
	}
	return clamp01(1 - success)
}

// BinomialCDF returns P(X ≤ x) for X ~ Binomial(n, p).
func BinomialCDF(x, n int, p float64) float64 {
	if x < 0 {
		return 0
	}
	if x >= n {
		return 1
	}
	var sum float64
	binomialTerms(n, p, func(i int, pmf float64) bool {
		sum += pmf
		return i < x
	})
	return clamp01(sum)
}

// inverseCDF returns the smallest x with P(X ≤ x) ≥ q.
func inverseCDF(q float64, n int, p float64) int {
	var cdf float64
	result := n
	binomialTerms(n, p, func(x int, pmf float64) bool {
		if x == n {
			return false
		}
		cdf += pmf
		if cdf >= q {
			result = x
			return false
		}
		return true
	})
	return result
}

// minDirectPMF is the smallest pmf(0) the multiplicative recurrence starts
// from; below it (1-p)^n is too close to underflow and the walk runs in log
// space instead.
const minDirectPMF = 1e-290

// binomialTerms calls fn with pmf(x) for x = 0..n in order until fn returns
// false, using pmf(x+1) = pmf(x)·(n−x)/(x+1)·p/(1−p).
func binomialTerms(n int, p float64, fn func(x int, pmf float64) bool) {
	switch {
	case p <= 0:
		for x := 0; x <= n; x++ {
			if !fn(x, boolPMF(x == 0)) {
				return
			}
		}
		return
	case p >= 1:
		for x := 0; x <= n; x++ {
			if !fn(x, boolPMF(x == n)) {
				return
			}
		}
		return
	}

	logPMF := float64(n) * math.Log1p(-p)
	if pmf := math.Exp(logPMF); pmf > minDirectPMF {
		ratio := p / (1 - p)
		for x := 0; x <= n; x++ {
			if !fn(x, pmf) {
				return
			}
			pmf *= float64(n-x) / float64(x+1) * ratio
		}
		return
	}

	logRatio := math.Log(p) - math.Log1p(-p)
	for x := 0; x <= n; x++ {
		if !fn(x, math.Exp(logPMF)) {
			return
		}
		logPMF += math.Log(float64(n-x)) - math.Log(float64(x+1)) + logRatio
	}
}

func boolPMF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
