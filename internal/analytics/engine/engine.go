// Package engine bundles the analytics components behind one stateless value
// so callers can share defaults without a package-level singleton.
package engine

import (
	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/anomaly"
	"github.com/mfgsight/qualitycast/internal/analytics/correlation"
	"github.com/mfgsight/qualitycast/internal/analytics/forecast"
	"github.com/mfgsight/qualitycast/internal/analytics/seasonality"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
)

// Options are the defaults applied when a call leaves a parameter unset
type Options struct {
	Alpha         float64
	Sensitivity   float64
	MaxPeriod     int
	Normalization forecast.StrengthNormalization
	PValue        stats.PValueFunc
}

// DefaultOptions returns the documented defaults
func DefaultOptions() Options {
	return Options{
		Alpha:         forecast.DefaultAlpha,
		Sensitivity:   anomaly.DefaultSensitivity,
		MaxPeriod:     seasonality.DefaultMaxPeriod,
		Normalization: forecast.NormalizeByMean,
		PValue:        stats.ApproximatePValue,
	}
}

// Engine runs analyses with a fixed set of Options. It holds no mutable state
// and is safe for concurrent use; the zero value uses DefaultOptions.
type Engine struct {
	opts Options
}

// New returns an Engine. Zero fields in opts take their default.
func New(opts Options) Engine {
	defaults := DefaultOptions()
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		opts.Alpha = defaults.Alpha
	}
	if opts.Sensitivity <= 0 {
		opts.Sensitivity = defaults.Sensitivity
	}
	if opts.MaxPeriod <= 0 {
		opts.MaxPeriod = defaults.MaxPeriod
	}
	if opts.Normalization == "" {
		opts.Normalization = defaults.Normalization
	}
	if opts.PValue == nil {
		opts.PValue = defaults.PValue
	}
	return Engine{opts: opts}
}

// Options returns the effective options
func (e Engine) Options() Options {
	if e.opts.PValue == nil {
		return New(e.opts).opts
	}
	return e.opts
}

// SummaryStatistics describes values; empty input yields the zero summary
func (e Engine) SummaryStatistics(values []float64) stats.SummaryStatistics {
	return stats.Summarize(values)
}

// LinearForecast fits a least-squares line and projects it forward
func (e Engine) LinearForecast(series []analytics.TimeSeriesPoint, cfg forecast.ForecastConfig) (*forecast.TrendAnalysis, error) {
	return forecast.LinearForecast(series, e.forecastConfig(cfg))
}

// ExponentialForecast applies simple exponential smoothing with drift
func (e Engine) ExponentialForecast(series []analytics.TimeSeriesPoint, cfg forecast.ForecastConfig) (*forecast.TrendAnalysis, error) {
	return forecast.ExponentialForecast(series, e.forecastConfig(cfg))
}

// MovingAverageForecast projects the trailing moving average
func (e Engine) MovingAverageForecast(series []analytics.TimeSeriesPoint, cfg forecast.ForecastConfig) (*forecast.TrendAnalysis, error) {
	return forecast.MovingAverageForecast(series, e.forecastConfig(cfg))
}

// Forecast dispatches to the forecaster registered as method
func (e Engine) Forecast(method forecast.Method, series []analytics.TimeSeriesPoint, cfg forecast.ForecastConfig) (*forecast.TrendAnalysis, error) {
	return forecast.Forecast(method, series, e.forecastConfig(cfg))
}

// DetectAnomalies scores every point; sensitivity <= 0 uses the engine default
func (e Engine) DetectAnomalies(series []analytics.TimeSeriesPoint, sensitivity float64) anomaly.Report {
	config := anomaly.DefaultConfig()
	config.Sensitivity = sensitivity
	if sensitivity <= 0 {
		config.Sensitivity = e.Options().Sensitivity
	}
	return anomaly.DetectAnomalies(series, config)
}

// CalculateCorrelation correlates a and b using the engine's p-value function
func (e Engine) CalculateCorrelation(a, b []float64, opts ...correlation.Option) (*correlation.CorrelationResult, error) {
	all := append([]correlation.Option{correlation.WithPValueFunc(e.Options().PValue)}, opts...)
	return correlation.CalculateCorrelation(a, b, all...)
}

// DetectSeasonality looks for a cycle; maxPeriod <= 0 uses the engine default
func (e Engine) DetectSeasonality(series []analytics.TimeSeriesPoint, maxPeriod int) seasonality.SeasonalityResult {
	if maxPeriod <= 0 {
		maxPeriod = e.Options().MaxPeriod
	}
	return seasonality.DetectSeasonality(series, maxPeriod)
}

func (e Engine) forecastConfig(cfg forecast.ForecastConfig) forecast.ForecastConfig {
	opts := e.Options()
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = opts.Alpha
	}
	if cfg.Normalization == "" {
		cfg.Normalization = opts.Normalization
	}
	return cfg
}
