package forecast

import (
	"math"

	"github.com/mfgsight/qualitycast/internal/analytics"
)

// LinearRegressionForecaster fits ordinary least squares of value against sample index
type LinearRegressionForecaster struct{}

// NewLinearRegressionForecaster creates a new Linear Regression forecaster
func NewLinearRegressionForecaster() *LinearRegressionForecaster {
	return &LinearRegressionForecaster{}
}

func init() {
	RegisterForecaster(MethodLinear, NewLinearRegressionForecaster())
}

// Name returns the algorithm name
func (f *LinearRegressionForecaster) Name() string {
	return string(MethodLinear)
}

// LinearForecast is a shorthand for NewLinearRegressionForecaster().Forecast
func LinearForecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	return NewLinearRegressionForecaster().Forecast(data, config)
}

// Forecast generates predictions using Linear Regression
func (f *LinearRegressionForecaster) Forecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	if err := checkLength(data); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	values := analytics.TimeSeriesData(data).Values()
	n := float64(len(values))
	meanX := (n - 1) / 2

	meanY := 0.0
	for _, v := range values {
		meanY += v
	}
	meanY /= n

	// Sxx and Sxy around the means
	sxx, sxy := 0.0, 0.0
	for i, v := range values {
		dx := float64(i) - meanX
		sxx += dx * dx
		sxy += dx * (v - meanY)
	}

	slope := analytics.Finite(sxy / sxx)
	intercept := meanY - slope*meanX

	fitted := make([]float64, len(values))
	ssRes := 0.0
	for i, v := range values {
		fitted[i] = intercept + slope*float64(i)
		r := v - fitted[i]
		ssRes += r * r
	}
	stdError := math.Sqrt(ssRes / (n - 2))

	predict := func(step int) float64 {
		return intercept + slope*(n-1+float64(step))
	}
	// Prediction error grows with distance from the mean index
	margin := func(step int) float64 {
		x := n - 1 + float64(step)
		return stdError * math.Sqrt(1+1/n+(x-meanX)*(x-meanX)/sxx)
	}

	direction, strength := classifyTrend(slope, values, config.Normalization)

	return &TrendAnalysis{
		Method:     MethodLinear,
		Direction:  direction,
		Slope:      slope,
		Strength:   strength,
		RSquared:   rSquaredOf(values, fitted),
		Forecast:   buildForecast(data, config, predict, margin),
		Accuracy:   accuracyOf(values, fitted),
		DataPoints: len(values),
	}, nil
}
