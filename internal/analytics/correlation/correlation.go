// Package correlation measures pairwise linear correlation between two
// equal-length signals and classifies its strength and direction.
package correlation

import (
	"math"
	"sort"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
)

// MinDataPoints is the shortest pair of series accepted.
const MinDataPoints = 3

// Significance bands applied to |r|
type Significance string

const (
	SignificanceStrong   Significance = "strong"
	SignificanceModerate Significance = "moderate"
	SignificanceWeak     Significance = "weak"
	SignificanceNone     Significance = "none"
)

// Relationship is the sign of the correlation outside the ±0.1 dead zone
type Relationship string

const (
	RelationshipPositive Relationship = "positive"
	RelationshipNegative Relationship = "negative"
	RelationshipNone     Relationship = "none"
)

const (
	strongThreshold   = 0.7
	moderateThreshold = 0.4
	weakThreshold     = 0.2
	relationshipBand  = 0.1
)

// CorrelationResult is the outcome of comparing two series
type CorrelationResult struct {
	Variable1    string       `json:"variable1"`
	Variable2    string       `json:"variable2"`
	Correlation  float64      `json:"correlation"`
	PValue       float64      `json:"p_value"`
	Significance Significance `json:"significance"`
	Relationship Relationship `json:"relationship"`
}

type options struct {
	label1, label2 string
	pValue         stats.PValueFunc
}

// Option customizes CalculateCorrelation
type Option func(*options)

// WithLabels sets the variable names reported in the result
func WithLabels(first, second string) Option {
	return func(o *options) {
		o.label1 = first
		o.label2 = second
	}
}

// WithPValueFunc replaces the default approximate t-to-p conversion
func WithPValueFunc(fn stats.PValueFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.pValue = fn
		}
	}
}

// CalculateCorrelation computes Pearson's r between a and b together with a
// two-tailed p-value for t = r*sqrt((n-2)/(1-r²)).
func CalculateCorrelation(a, b []float64, opts ...Option) (*CorrelationResult, error) {
	o := options{label1: "a", label2: "b", pValue: stats.ApproximatePValue}
	for _, opt := range opts {
		opt(&o)
	}

	if len(a) != len(b) {
		return nil, analytics.LengthMismatch(len(a), len(b))
	}
	n := len(a)
	if n < MinDataPoints {
		return nil, analytics.InsufficientData(MinDataPoints, n)
	}

	r := Pearson(a, b)

	return &CorrelationResult{
		Variable1:    o.label1,
		Variable2:    o.label2,
		Correlation:  r,
		PValue:       pValueOf(r, n, o.pValue),
		Significance: Classify(r),
		Relationship: RelationshipOf(r),
	}, nil
}

// Pearson returns the correlation coefficient of two equal-length slices,
// or 0 when either has zero variance. Lengths are not checked.
func Pearson(a, b []float64) float64 {
	meanA, meanB := stats.Mean(a), stats.Mean(b)

	cov, varA, varB := 0.0, 0.0, 0.0
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}

	return analytics.Clamp(analytics.Finite(cov/math.Sqrt(varA*varB)), -1, 1)
}

func pValueOf(r float64, n int, fn stats.PValueFunc) float64 {
	df := n - 2
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(float64(df)/(1-r*r))
	return analytics.Clamp(analytics.Finite(fn(t, df)), 0, 1)
}

// Classify maps |r| onto the significance bands
func Classify(r float64) Significance {
	abs := math.Abs(r)
	switch {
	case abs >= strongThreshold:
		return SignificanceStrong
	case abs >= moderateThreshold:
		return SignificanceModerate
	case abs >= weakThreshold:
		return SignificanceWeak
	default:
		return SignificanceNone
	}
}

// RelationshipOf returns the sign of r, treating |r| <= 0.1 as none
func RelationshipOf(r float64) Relationship {
	switch {
	case r > relationshipBand:
		return RelationshipPositive
	case r < -relationshipBand:
		return RelationshipNegative
	default:
		return RelationshipNone
	}
}

// Matrix correlates every unordered pair of named series. Pairs are returned
// in lexical order of their names; the first failing pair aborts the call.
func Matrix(series map[string][]float64, opts ...Option) ([]CorrelationResult, error) {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]CorrelationResult, 0, len(names)*(len(names)-1)/2)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			pairOpts := append(append([]Option{}, opts...), WithLabels(names[i], names[j]))
			result, err := CalculateCorrelation(series[names[i]], series[names[j]], pairOpts...)
			if err != nil {
				return nil, err
			}
			results = append(results, *result)
		}
	}
	return results, nil
}
