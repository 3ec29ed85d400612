package forecast

import (
	"math"

	"github.com/mfgsight/qualitycast/internal/analytics"
)

// MethodHoltWinters is additive triple exponential smoothing. It is the only
// method that consumes ForecastConfig.SeasonalPeriod.
const MethodHoltWinters Method = "holt_winters"

const (
	DefaultBeta  = 0.1
	DefaultGamma = 0.1
)

// HoltWintersForecaster implements additive Holt-Winters forecasting
type HoltWintersForecaster struct{}

// NewHoltWintersForecaster creates a new Holt-Winters forecaster
func NewHoltWintersForecaster() *HoltWintersForecaster {
	return &HoltWintersForecaster{}
}

func init() {
	RegisterForecaster(MethodHoltWinters, NewHoltWintersForecaster())
}

// Name returns the algorithm name
func (f *HoltWintersForecaster) Name() string {
	return string(MethodHoltWinters)
}

// Forecast generates predictions using Holt-Winters. Without a usable seasonal
// period (< 2, or fewer than two full seasons of data) it falls back to
// exponential smoothing.
func (f *HoltWintersForecaster) Forecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	if err := checkLength(data); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	period := config.SeasonalPeriod
	if period < 2 || len(data) < period*2 {
		return NewExponentialSmoothingForecaster().Forecast(data, config)
	}

	alpha, beta, gamma := config.Alpha, config.Beta, config.Gamma
	values := analytics.TimeSeriesData(data).Values()
	n := len(values)

	level := make([]float64, n)
	trend := make([]float64, n)
	seasonal := make([]float64, n)

	// Initialize from the first two seasons
	firstSeason, secondSeason := 0.0, 0.0
	for i := 0; i < period; i++ {
		firstSeason += values[i]
		secondSeason += values[period+i]
	}
	firstSeason /= float64(period)
	secondSeason /= float64(period)

	level[0] = firstSeason
	trend[0] = (secondSeason - firstSeason) / float64(period)
	for i := 0; i < period; i++ {
		seasonal[i] = values[i] - firstSeason
	}

	fitted := make([]float64, n)
	fitted[0] = level[0] + seasonal[0]
	residuals := make([]float64, 0, n-1)

	for i := 1; i < n; i++ {
		// Seasonal component from one period ago
		prevSeasonal := seasonal[i]
		if i >= period {
			prevSeasonal = seasonal[i-period]
		}

		fitted[i] = level[i-1] + trend[i-1] + prevSeasonal
		residuals = append(residuals, values[i]-fitted[i])

		level[i] = alpha*(values[i]-prevSeasonal) + (1-alpha)*(level[i-1]+trend[i-1])
		trend[i] = beta*(level[i]-level[i-1]) + (1-beta)*trend[i-1]
		seasonal[i] = gamma*(values[i]-level[i]) + (1-gamma)*prevSeasonal
	}
	stdError := rms(residuals)

	lastLevel := level[n-1]
	lastTrend := analytics.Finite(trend[n-1])

	predict := func(step int) float64 {
		return lastLevel + float64(step)*lastTrend + seasonal[n-period+(step-1)%period]
	}
	margin := func(step int) float64 {
		return stdError * math.Sqrt(float64(step))
	}

	direction, strength := classifyTrend(lastTrend, values, config.Normalization)

	return &TrendAnalysis{
		Method:     MethodHoltWinters,
		Direction:  direction,
		Slope:      lastTrend,
		Strength:   strength,
		RSquared:   rSquaredOf(values, fitted),
		Forecast:   buildForecast(data, config, predict, margin),
		Accuracy:   accuracyOf(values, fitted),
		DataPoints: n,
	}, nil
}
