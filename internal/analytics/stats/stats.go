// Package stats provides the descriptive statistics and significance helpers
// shared by every analytics component.
//
// Variance and standard deviation are population measures (divide by N).
// Any ratio normalized by a zero standard deviation evaluates to 0.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// SummaryStatistics describes the distribution of a sample.
// All fields are zero when Count is 0.
type SummaryStatistics struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// overflowScale is the magnitude above which moments are computed on
// values divided by their largest absolute value, so squares stay finite.
const overflowScale = 1e100

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	unit, scale := scaled(values)
	mean, err := mstats.Mean(unit)
	if err != nil {
		return 0
	}
	return mean * scale
}

// Variance returns the population variance.
func Variance(values []float64) float64 {
	variance, err := mstats.PopulationVariance(values)
	if err != nil {
		return 0
	}
	return variance
}

// StdDev returns the population standard deviation. It stays finite for
// values whose variance alone would overflow.
func StdDev(values []float64) float64 {
	unit, scale := scaled(values)
	stdDev, err := mstats.StandardDeviationPopulation(unit)
	if err != nil {
		return 0
	}
	return stdDev * scale
}

// MeanStdDev returns mean and population standard deviation in one call.
func MeanStdDev(values []float64) (mean, stdDev float64) {
	return Mean(values), StdDev(values)
}

// Min returns the smallest value, 0 for an empty slice.
func Min(values []float64) float64 {
	v, err := mstats.Min(values)
	if err != nil {
		return 0
	}
	return v
}

// Max returns the largest value, 0 for an empty slice.
func Max(values []float64) float64 {
	v, err := mstats.Max(values)
	if err != nil {
		return 0
	}
	return v
}

// scaled returns values divided by their largest magnitude when that
// magnitude exceeds overflowScale, together with the divisor.
func scaled(values []float64) ([]float64, float64) {
	scale := 0.0
	for _, v := range values {
		scale = math.Max(scale, math.Abs(v))
	}
	if scale <= overflowScale || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return values, 1
	}

	unit := make([]float64, len(values))
	for i, v := range values {
		unit[i] = v / scale
	}
	return unit, scale
}

// Quantile returns sortedValues[floor(n*q)], clamped to the last element.
// It does not interpolate and expects the input to be sorted ascending.
func Quantile(sortedValues []float64, q float64) float64 {
	n := len(sortedValues)
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(float64(n) * q))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sortedValues[idx]
}

// Skewness returns the third standardized moment.
func Skewness(values []float64) float64 {
	return standardizedMoment(values, 3)
}

// Kurtosis returns the excess kurtosis (fourth standardized moment minus 3).
func Kurtosis(values []float64) float64 {
	if StdDev(values) == 0 {
		return 0
	}
	return standardizedMoment(values, 4) - 3
}

// standardizedMoment is scale invariant, so it works on the scaled values.
func standardizedMoment(values []float64, order float64) float64 {
	unit, _ := scaled(values)
	mean, stdDev := MeanStdDev(unit)
	if stdDev == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range unit {
		sum += math.Pow((v-mean)/stdDev, order)
	}
	return sum / float64(len(unit))
}

// ZScore returns |value - mean| / stdDev, or 0 when stdDev is 0.
func ZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return math.Abs(value-mean) / stdDev
}

// Sorted returns an ascending copy of values.
func Sorted(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// Summarize computes SummaryStatistics for values. Every field is finite;
// a measure that cannot be represented is reported as 0.
func Summarize(values []float64) SummaryStatistics {
	if len(values) == 0 {
		return SummaryStatistics{}
	}

	sorted := Sorted(values)
	mean, stdDev := MeanStdDev(values)

	median, err := mstats.Median(sorted)
	if err != nil {
		median = Quantile(sorted, 0.5)
	}

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	minVal := Min(values)
	maxVal := Max(values)

	return SummaryStatistics{
		Count:    len(values),
		Mean:     finite(mean),
		Median:   finite(median),
		StdDev:   finite(stdDev),
		Min:      finite(minVal),
		Max:      finite(maxVal),
		Range:    finite(maxVal - minVal),
		Q1:       finite(q1),
		Q3:       finite(q3),
		IQR:      finite(q3 - q1),
		Skewness: finite(Skewness(values)),
		Kurtosis: finite(Kurtosis(values)),
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
