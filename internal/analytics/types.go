// Package analytics provides common types and utilities for time-series analytics
// including forecasting, anomaly detection, correlation and seasonality.
package analytics

import (
	"math"
	"time"
)

// DefaultInterval is the step used when a series is too short to infer one.
const DefaultInterval = 24 * time.Hour

// TimeSeriesPoint represents a single time-series sample.
// This is the common type used across all analytics packages (forecast, anomaly, etc.)
type TimeSeriesPoint struct {
	Time     time.Time         `json:"time"`
	Value    float64           `json:"value"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TimeSeriesData represents a collection of time-series data points.
// Points are assumed to be ordered by time ascending; nothing here re-sorts them.
type TimeSeriesData []TimeSeriesPoint

// Values extracts just the values from the time series
func (ts TimeSeriesData) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Times extracts just the times from the time series
func (ts TimeSeriesData) Times() []time.Time {
	times := make([]time.Time, len(ts))
	for i, p := range ts {
		times[i] = p.Time
	}
	return times
}

// Len returns the number of data points
func (ts TimeSeriesData) Len() int {
	return len(ts)
}

// AverageInterval returns the mean spacing between consecutive points,
// (last - first) / (n - 1). Series shorter than two points use DefaultInterval.
func (ts TimeSeriesData) AverageInterval() time.Duration {
	if len(ts) < 2 {
		return DefaultInterval
	}
	span := ts[len(ts)-1].Time.Sub(ts[0].Time)
	return span / time.Duration(len(ts)-1)
}

// Finite replaces NaN and ±Inf with 0.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
