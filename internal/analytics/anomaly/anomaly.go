// Package anomaly scores every point of a series against both the whole
// series and a window centered on the point, and classifies the deviations.
package anomaly

import (
	"math"
	"time"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
)

// AnomalyType represents the type of anomaly detected
type AnomalyType string

const (
	AnomalyTypeSpike  AnomalyType = "spike"  // Above mean + sensitivity*stddev
	AnomalyTypeDip    AnomalyType = "dip"    // Below mean - sensitivity*stddev
	AnomalyTypeShift  AnomalyType = "shift"  // Large jump from the previous point
	AnomalyTypeTrend  AnomalyType = "trend"  // Locally unusual but within global bounds
	AnomalyTypeNormal AnomalyType = "normal" // Not anomalous
)

// Severity grades an anomaly score relative to the sensitivity
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities from least to most severe
var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// AtLeast reports whether s is as severe as other. Unknown values rank as low.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// ParseSeverity returns the named severity and whether it is recognized
func ParseSeverity(name string) (Severity, bool) {
	s := Severity(name)
	_, ok := severityRank[s]
	return s, ok
}

// DataPoint is an alias to the shared analytics.TimeSeriesPoint type.
type DataPoint = analytics.TimeSeriesPoint

const (
	DefaultSensitivity   = 2.0
	DefaultMinDataPoints = 5
	DefaultMaxWindow     = 10

	// shiftMultiple is the jump, in global standard deviations, that marks a shift.
	shiftMultiple = 2.0
)

// DetectorConfig holds configuration for anomaly detection
type DetectorConfig struct {
	// Sensitivity is the score a point must exceed to be anomalous
	Sensitivity float64

	// MinDataPoints below which every point is reported normal
	MinDataPoints int

	// MaxWindow caps the half-width of the local window
	MaxWindow int
}

// DefaultConfig returns default detector configuration
func DefaultConfig() DetectorConfig {
	return DetectorConfig{
		Sensitivity:   DefaultSensitivity,
		MinDataPoints: DefaultMinDataPoints,
		MaxWindow:     DefaultMaxWindow,
	}
}

func (c DetectorConfig) withDefaults() DetectorConfig {
	if c.Sensitivity <= 0 || math.IsNaN(c.Sensitivity) || math.IsInf(c.Sensitivity, 0) {
		c.Sensitivity = DefaultSensitivity
	}
	if c.MinDataPoints <= 0 {
		c.MinDataPoints = DefaultMinDataPoints
	}
	if c.MaxWindow <= 0 {
		c.MaxWindow = DefaultMaxWindow
	}
	return c
}

// Range represents expected value range
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AnomalyResult is the verdict for the input point at Index
type AnomalyResult struct {
	Index     int         `json:"index"`
	Timestamp time.Time   `json:"timestamp"`
	Value     float64     `json:"value"`
	IsAnomaly bool        `json:"is_anomaly"`
	Score     float64     `json:"score"`
	Type      AnomalyType `json:"type"`
	Severity  Severity    `json:"severity"`
	Expected  *Range      `json:"expected,omitempty"`
}

// Report holds one result per input point, in input order
type Report struct {
	Results []AnomalyResult `json:"results"`
}

// Len returns the number of scored points
func (r Report) Len() int {
	return len(r.Results)
}

// Anomalies returns only the anomalous results
func (r Report) Anomalies() []AnomalyResult {
	anomalies := make([]AnomalyResult, 0)
	for _, result := range r.Results {
		if result.IsAnomaly {
			anomalies = append(anomalies, result)
		}
	}
	return anomalies
}

// Count returns the number of anomalous points
func (r Report) Count() int {
	count := 0
	for _, result := range r.Results {
		if result.IsAnomaly {
			count++
		}
	}
	return count
}

// DetectAnomalies scores every point of data. Series shorter than
// config.MinDataPoints are returned with every point normal.
func DetectAnomalies(data []DataPoint, config DetectorConfig) Report {
	config = config.withDefaults()
	n := len(data)
	results := make([]AnomalyResult, n)

	if n < config.MinDataPoints {
		for i, dp := range data {
			results[i] = normalResult(i, dp)
		}
		return Report{Results: results}
	}

	values := analytics.TimeSeriesData(data).Values()
	mean, stdDev := stats.MeanStdDev(values)
	window := min(config.MaxWindow, n/3)
	s := config.Sensitivity

	expected := Range{
		Min: analytics.Finite(mean - s*stdDev),
		Max: analytics.Finite(mean + s*stdDev),
	}

	for i, dp := range data {
		start := max(0, i-window)
		end := min(n, i+window+1)
		localMean, localStdDev := stats.MeanStdDev(values[start:end])

		globalZ := stats.ZScore(dp.Value, mean, stdDev)
		localZ := stats.ZScore(dp.Value, localMean, localStdDev)
		score := analytics.Finite((globalZ + localZ) / 2)

		if score <= s {
			result := normalResult(i, dp)
			result.Score = score
			results[i] = result
			continue
		}

		band := expected
		results[i] = AnomalyResult{
			Index:     i,
			Timestamp: dp.Time,
			Value:     dp.Value,
			IsAnomaly: true,
			Score:     score,
			Type:      classifyType(values, i, mean, stdDev, s),
			Severity:  classifySeverity(score, s),
			Expected:  &band,
		}
	}

	return Report{Results: results}
}

func normalResult(i int, dp DataPoint) AnomalyResult {
	return AnomalyResult{
		Index:     i,
		Timestamp: dp.Time,
		Value:     dp.Value,
		Type:      AnomalyTypeNormal,
		Severity:  SeverityLow,
	}
}

func classifyType(values []float64, i int, mean, stdDev, sensitivity float64) AnomalyType {
	v := values[i]
	switch {
	case v > mean+sensitivity*stdDev:
		return AnomalyTypeSpike
	case v < mean-sensitivity*stdDev:
		return AnomalyTypeDip
	case i > 0 && math.Abs(v-values[i-1]) > shiftMultiple*stdDev:
		return AnomalyTypeShift
	default:
		return AnomalyTypeTrend
	}
}

func classifySeverity(score, sensitivity float64) Severity {
	switch {
	case score >= 2*sensitivity:
		return SeverityCritical
	case score >= 1.5*sensitivity:
		return SeverityHigh
	case score >= sensitivity:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
