package forecast

import (
	"math"

	"github.com/mfgsight/qualitycast/internal/analytics"
)

// trendWindow is the look-back used for the smoothed-level trend estimate.
const trendWindow = 5

// ExponentialSmoothingForecaster implements simple exponential smoothing with
// a short-window drift estimate on the smoothed level
type ExponentialSmoothingForecaster struct{}

// NewExponentialSmoothingForecaster creates a new Exponential Smoothing forecaster
func NewExponentialSmoothingForecaster() *ExponentialSmoothingForecaster {
	return &ExponentialSmoothingForecaster{}
}

func init() {
	RegisterForecaster(MethodExponential, NewExponentialSmoothingForecaster())
}

// Name returns the algorithm name
func (f *ExponentialSmoothingForecaster) Name() string {
	return string(MethodExponential)
}

// ExponentialForecast is a shorthand for NewExponentialSmoothingForecaster().Forecast
func ExponentialForecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	return NewExponentialSmoothingForecaster().Forecast(data, config)
}

// Forecast generates predictions using Simple Exponential Smoothing
func (f *ExponentialSmoothingForecaster) Forecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	if err := checkLength(data); err != nil {
		return nil, err
	}
	config = config.withDefaults()
	alpha := config.Alpha

	values := analytics.TimeSeriesData(data).Values()
	n := len(values)

	smoothed := make([]float64, n)
	smoothed[0] = values[0]
	for i := 1; i < n; i++ {
		smoothed[i] = alpha*values[i] + (1-alpha)*smoothed[i-1]
	}

	// One-step-ahead fit: the forecast for i is the level at i-1
	fitted := make([]float64, n)
	fitted[0] = values[0]
	residuals := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		fitted[i] = smoothed[i-1]
		residuals = append(residuals, values[i]-smoothed[i-1])
	}
	stdError := rms(residuals)

	back := max(0, n-trendWindow)
	trend := analytics.Finite((smoothed[n-1] - smoothed[back]) / float64(min(trendWindow, n-1)))
	level := smoothed[n-1]

	predict := func(step int) float64 {
		return level + trend*float64(step)
	}
	margin := func(step int) float64 {
		return stdError * math.Sqrt(float64(step))
	}

	direction, strength := classifyTrend(trend, values, config.Normalization)

	return &TrendAnalysis{
		Method:     MethodExponential,
		Direction:  direction,
		Slope:      trend,
		Strength:   strength,
		RSquared:   rSquaredOf(values, fitted),
		Forecast:   buildForecast(data, config, predict, margin),
		Accuracy:   accuracyOf(values, fitted),
		DataPoints: n,
	}, nil
}
