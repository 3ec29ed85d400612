package models

import "github.com/mfgsight/qualitycast/internal/analytics"

// Series is a time-ordered list of samples.
// JSON: [{"time": "2025-01-01T00:00:00Z", "value": 1.5, "metadata": {...}}]
type Series []analytics.TimeSeriesPoint

// SummaryRequest represents a summary statistics request
type SummaryRequest struct {
	Values []float64 `json:"values"`
}

// ForecastRequest represents a forecast request
type ForecastRequest struct {
	Series          Series  `json:"series"`
	Method          string  `json:"method,omitempty"`           // linear (default), exponential, moving_average, holt_winters, auto
	Horizon         int     `json:"horizon,omitempty"`          // Steps to predict
	ConfidenceLevel float64 `json:"confidence_level,omitempty"` // 0.90, 0.95 or 0.99
	Alpha           float64 `json:"alpha,omitempty"`            // Smoothing factor for exponential methods
	SeasonalPeriod  int     `json:"seasonal_period,omitempty"`  // Season length for holt_winters
}

// AnomalyRequest represents an anomaly detection request
type AnomalyRequest struct {
	Series      Series  `json:"series"`
	Sensitivity float64 `json:"sensitivity,omitempty"`
	Source      string  `json:"source,omitempty"` // Machine or sensor identifier carried into events
}

// CorrelationRequest represents a correlation request
type CorrelationRequest struct {
	A         []float64 `json:"a"`
	B         []float64 `json:"b"`
	Variable1 string    `json:"variable1,omitempty"`
	Variable2 string    `json:"variable2,omitempty"`
}

// SeasonalityRequest represents a seasonality detection request
type SeasonalityRequest struct {
	Series    Series `json:"series"`
	MaxPeriod int    `json:"max_period,omitempty"`
}

// BatchItem is one series of a batch analysis
type BatchItem struct {
	ID          string  `json:"id"`
	Series      Series  `json:"series"`
	Method      string  `json:"method,omitempty"`
	Horizon     int     `json:"horizon,omitempty"`
	Sensitivity float64 `json:"sensitivity,omitempty"`
	MaxPeriod   int     `json:"max_period,omitempty"`
}

// BatchRequest represents a batch analysis request
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}
