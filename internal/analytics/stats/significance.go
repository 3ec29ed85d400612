package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Common confidence levels for prediction intervals.
const (
	Confidence90 = 0.90
	Confidence95 = 0.95
	Confidence99 = 0.99
)

var zScores = map[float64]float64{
	Confidence90: 1.645,
	Confidence95: 1.96,
	Confidence99: 2.576,
}

// ZForConfidence returns the two-sided normal critical value for a confidence level.
// Unknown levels fall back to the 95% value.
func ZForConfidence(level float64) float64 {
	if z, ok := zScores[level]; ok {
		return z
	}
	return zScores[Confidence95]
}

// IsKnownConfidence reports whether level has a tabulated z value.
func IsKnownConfidence(level float64) bool {
	_, ok := zScores[level]
	return ok
}

// NormalCDF approximates the standard normal CDF using Abramowitz & Stegun 7.1.26
// for erf (absolute error below 1.5e-7).
func NormalCDF(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	z := math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + p*z)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-z*z)

	return 0.5 * (1.0 + sign*y)
}

// PValueFunc converts a t statistic and its degrees of freedom to a two-tailed p-value.
type PValueFunc func(tStat float64, degreesOfFreedom int) float64

// ApproximatePValue is a coarse two-tailed p-value for a t statistic.
// For df > 30 it uses the normal approximation; below that it uses
// exp(-t²/2)·(1 + 0.5/df), which is not a Student-t CDF and is only
// suitable for ranking, not for reporting.
func ApproximatePValue(tStat float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1
	}
	if math.IsInf(tStat, 0) {
		return 0
	}

	var p float64
	if degreesOfFreedom > 30 {
		p = 2 * (1 - NormalCDF(math.Abs(tStat)))
	} else {
		p = math.Exp(-0.5*tStat*tStat) * (1 + 0.5/float64(degreesOfFreedom))
	}
	return clampProbability(p)
}

// ExactPValue computes the two-tailed p-value from the Student-t CDF.
func ExactPValue(tStat float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1
	}
	if math.IsInf(tStat, 0) {
		return 0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return clampProbability(2 * (1 - dist.CDF(math.Abs(tStat))))
}

// PValueMethod names a PValueFunc for configuration.
type PValueMethod string

const (
	PValueApproximate PValueMethod = "approximate"
	PValueExact       PValueMethod = "exact"
)

// PValueFuncFor resolves a configured method name. Empty selects the approximation.
func PValueFuncFor(method PValueMethod) (PValueFunc, error) {
	switch method {
	case "", PValueApproximate:
		return ApproximatePValue, nil
	case PValueExact:
		return ExactPValue, nil
	default:
		return nil, fmt.Errorf("unknown p-value method: %s", method)
	}
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
