// Package seasonality detects periodic structure in a series from its
// autocorrelation function and extracts the average cycle shape.
package seasonality

import (
	"math"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
)

const (
	// DefaultMaxPeriod is the longest lag examined when none is given.
	DefaultMaxPeriod = 30

	// Threshold is the autocorrelation a lag must exceed to count as seasonal.
	Threshold = 0.3

	// minLag skips lag 1, which measures smoothness rather than periodicity.
	minLag = 2
)

// SeasonalityResult describes the strongest cycle found
type SeasonalityResult struct {
	HasSeasonal bool      `json:"has_seasonal"`
	Period      int       `json:"period"`
	Strength    float64   `json:"strength"`
	Pattern     []float64 `json:"pattern"`
}

// None is the result for series that show no usable cycle.
func None() SeasonalityResult {
	return SeasonalityResult{Pattern: []float64{}}
}

// DetectSeasonality examines lags 2..maxPeriod of data. Series shorter than
// 2*maxPeriod return None() rather than an error.
func DetectSeasonality(data []analytics.TimeSeriesPoint, maxPeriod int) SeasonalityResult {
	return DetectValues(analytics.TimeSeriesData(data).Values(), maxPeriod)
}

// DetectValues is DetectSeasonality over raw values
func DetectValues(values []float64, maxPeriod int) SeasonalityResult {
	if maxPeriod <= 0 {
		maxPeriod = DefaultMaxPeriod
	}
	if len(values) < maxPeriod*2 {
		return None()
	}

	acf := ACF(values, maxPeriod)
	if acf == nil {
		return None()
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxPeriod; lag++ {
		if bestLag == 0 || acf[lag] > bestCorr {
			bestLag = lag
			bestCorr = acf[lag]
		}
	}

	if bestLag == 0 || !(bestCorr > Threshold) {
		result := None()
		if bestCorr > 0 {
			result.Strength = analytics.Finite(bestCorr)
		}
		return result
	}

	return SeasonalityResult{
		HasSeasonal: true,
		Period:      bestLag,
		Strength:    analytics.Finite(bestCorr),
		Pattern:     Pattern(values, bestLag),
	}
}

// ACF returns the normalized autocorrelation for lags 0..maxLag:
// sum((x[i]-mean)*(x[i+lag]-mean)) / sum((x[i]-mean)²).
// Deviations are divided by their largest magnitude first, which leaves the
// ratios unchanged and keeps the sums finite. It returns nil when the series
// has zero variance, contains non-finite values, or maxLag >= len(values).
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag < 0 || maxLag >= n {
		return nil
	}

	mean := stats.Mean(values)
	deviations := make([]float64, n)
	scale := 0.0
	for i, v := range values {
		deviations[i] = v - mean
		if !isFinite(deviations[i]) {
			return nil
		}
		scale = math.Max(scale, math.Abs(deviations[i]))
	}
	if scale == 0 {
		return nil
	}

	denominator := 0.0
	for i := range deviations {
		deviations[i] /= scale
		denominator += deviations[i] * deviations[i]
	}

	acf := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < n; i++ {
			sum += deviations[i] * deviations[i+lag]
		}
		acf[lag] = sum / denominator
	}
	return acf
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Pattern averages values sharing the same phase i mod period.
func Pattern(values []float64, period int) []float64 {
	if period <= 0 {
		return []float64{}
	}

	sums := make([]float64, period)
	counts := make([]int, period)
	for i, v := range values {
		sums[i%period] += v
		counts[i%period]++
	}

	pattern := make([]float64, period)
	for phase := range pattern {
		if counts[phase] > 0 {
			pattern[phase] = sums[phase] / float64(counts[phase])
		}
	}
	return pattern
}
