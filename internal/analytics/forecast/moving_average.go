package forecast

import (
	"math"

	"github.com/mfgsight/qualitycast/internal/analytics"
)

const (
	maxMovingWindow = 5
	maTrendLookback = 3
)

// MovingAverageForecaster projects the last trailing moving average forward
// along the recent slope of the moving-average series
type MovingAverageForecaster struct{}

// NewMovingAverageForecaster creates a new moving average forecaster
func NewMovingAverageForecaster() *MovingAverageForecaster {
	return &MovingAverageForecaster{}
}

func init() {
	RegisterForecaster(MethodMovingAverage, NewMovingAverageForecaster())
}

// Name returns the algorithm name
func (f *MovingAverageForecaster) Name() string {
	return string(MethodMovingAverage)
}

// MovingAverageForecast is a shorthand for NewMovingAverageForecaster().Forecast
func MovingAverageForecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	return NewMovingAverageForecaster().Forecast(data, config)
}

// Forecast generates predictions using a trailing moving average
func (f *MovingAverageForecaster) Forecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	if err := checkLength(data); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	values := analytics.TimeSeriesData(data).Values()
	n := len(values)
	window := min(maxMovingWindow, n/2)

	averages := TrailingMovingAverage(values, window)
	count := len(averages)

	// averages[j] covers values[j : j+window], so it aligns with values[j+window-1]
	aligned := values[window-1:]
	residuals := make([]float64, count)
	for j := range averages {
		residuals[j] = aligned[j] - averages[j]
	}
	stdError := rms(residuals)

	last := count - 1
	back := max(0, last-maTrendLookback)
	trend := analytics.Finite((averages[last] - averages[back]) / float64(min(maTrendLookback, count)))
	lastMA := averages[last]

	predict := func(step int) float64 {
		return lastMA + trend*float64(step)
	}
	margin := func(step int) float64 {
		return stdError * math.Sqrt(float64(step))
	}

	direction, strength := classifyTrend(trend, values, config.Normalization)

	return &TrendAnalysis{
		Method:     MethodMovingAverage,
		Direction:  direction,
		Slope:      trend,
		Strength:   strength,
		RSquared:   rSquaredOf(aligned, averages),
		Forecast:   buildForecast(data, config, predict, margin),
		Accuracy:   accuracyOf(aligned, averages),
		DataPoints: n,
	}, nil
}

// TrailingMovingAverage returns the mean of each full window of values, so the
// result has len(values)-window+1 entries. A window outside [1, len] yields nil.
func TrailingMovingAverage(values []float64, window int) []float64 {
	if window <= 0 || window > len(values) {
		return nil
	}

	result := make([]float64, 0, len(values)-window+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			result = append(result, sum/float64(window))
		}
	}
	return result
}
