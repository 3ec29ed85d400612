package forecast

import (
	"math"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/correlation"
	"github.com/mfgsight/qualitycast/internal/analytics/seasonality"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
)

// MethodAuto picks one of the concrete methods from the shape of the series.
const MethodAuto Method = "auto"

const (
	// trendCorrelation is the |r| of value against index above which a
	// series is treated as trending.
	trendCorrelation = 0.5

	// smoothingMinPoints is the length from which exponential smoothing is
	// preferred over the moving average.
	smoothingMinPoints = 20

	// flatResidualRatio bounds detrended variance below which the series is
	// considered fully explained by its trend.
	flatResidualRatio = 1e-12
)

// AutoForecaster automatically selects the best forecasting algorithm
type AutoForecaster struct{}

// NewAutoForecaster creates a new Auto forecaster
func NewAutoForecaster() *AutoForecaster {
	return &AutoForecaster{}
}

func init() {
	RegisterForecaster(MethodAuto, NewAutoForecaster())
}

// Name returns the algorithm name
func (f *AutoForecaster) Name() string {
	return string(MethodAuto)
}

// Forecast selects a method and delegates to it. The returned Method field
// names the method actually used.
func (f *AutoForecaster) Forecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	if err := checkLength(data); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	values := analytics.TimeSeriesData(data).Values()
	method, period := SelectMethod(values, config.SeasonalPeriod)
	if method == MethodHoltWinters {
		config.SeasonalPeriod = period
	}

	forecaster, err := GetForecaster(method)
	if err != nil {
		return nil, err
	}
	return forecaster.Forecast(data, config)
}

// SelectMethod chooses a forecaster for values. A seasonal series gets
// holt_winters together with its period; seasonalHint, when >= 2, is the
// only period considered.
func SelectMethod(values []float64, seasonalHint int) (Method, int) {
	if period := seasonalPeriodOf(values, seasonalHint); period > 0 {
		return MethodHoltWinters, period
	}

	if hasTrend(values) {
		return MethodLinear, 0
	}
	if len(values) >= smoothingMinPoints {
		return MethodExponential, 0
	}
	return MethodMovingAverage, 0
}

func hasTrend(values []float64) bool {
	index := make([]float64, len(values))
	for i := range index {
		index[i] = float64(i)
	}
	return math.Abs(correlation.Pearson(index, values)) > trendCorrelation
}

// seasonalPeriodOf looks for a cycle in the series after removing its
// least-squares line, so a plain ramp does not read as periodic.
func seasonalPeriodOf(values []float64, hint int) int {
	residuals := detrend(values)
	if stats.Variance(residuals) <= flatResidualRatio*math.Max(stats.Variance(values), 1) {
		return 0
	}

	if hint >= 2 {
		if len(residuals) < hint*2 {
			return 0
		}
		acf := seasonality.ACF(residuals, hint)
		if acf != nil && acf[hint] > seasonality.Threshold {
			return hint
		}
		return 0
	}

	maxPeriod := min(seasonality.DefaultMaxPeriod, len(residuals)/2)
	if maxPeriod < 2 {
		return 0
	}
	if result := seasonality.DetectValues(residuals, maxPeriod); result.HasSeasonal {
		return result.Period
	}
	return 0
}

func detrend(values []float64) []float64 {
	n := float64(len(values))
	meanX := (n - 1) / 2
	meanY := stats.Mean(values)

	sxx, sxy := 0.0, 0.0
	for i, v := range values {
		dx := float64(i) - meanX
		sxx += dx * dx
		sxy += dx * (v - meanY)
	}
	slope := 0.0
	if sxx > 0 {
		slope = sxy / sxx
	}

	residuals := make([]float64, len(values))
	for i, v := range values {
		residuals[i] = v - (meanY + slope*(float64(i)-meanX))
	}
	return residuals
}
