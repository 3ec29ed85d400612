package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
)

// DataPoint is an alias to the shared analytics.TimeSeriesPoint type.
type DataPoint = analytics.TimeSeriesPoint

// Method names a forecasting algorithm
type Method string

const (
	MethodLinear        Method = "linear"
	MethodExponential   Method = "exponential"
	MethodMovingAverage Method = "moving_average"
)

// Direction is the classified sign of the fitted trend
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// StrengthNormalization selects how trend strength is scaled to [0,1]
type StrengthNormalization string

const (
	// NormalizeByMean divides |trend| by max(mean, 1).
	NormalizeByMean StrengthNormalization = "mean"
	// NormalizeByStdDev divides |trend| by the series standard deviation.
	NormalizeByStdDev StrengthNormalization = "stddev"
)

const (
	// MinDataPoints is the shortest series any method accepts.
	MinDataPoints = 3

	DefaultHorizon    = 10
	DefaultConfidence = stats.Confidence95
	DefaultAlpha      = 0.3

	// DirectionThreshold is the |trend| below which a series is stable.
	DirectionThreshold = 0.01
)

// ForecastResult is the prediction for a single future step
type ForecastResult struct {
	Timestamp  time.Time `json:"timestamp"`
	Predicted  float64   `json:"predicted"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Confidence float64   `json:"confidence"`
}

// ModelAccuracy holds in-sample error measures of the fitted values
type ModelAccuracy struct {
	MAPE float64 `json:"mape"` // Mean Absolute Percentage Error
	MAE  float64 `json:"mae"`  // Mean Absolute Error
	RMSE float64 `json:"rmse"` // Root Mean Squared Error
}

// TrendAnalysis is the outcome of one forecast call
type TrendAnalysis struct {
	Method     Method           `json:"method"`
	Direction  Direction        `json:"direction"`
	Slope      float64          `json:"slope"`
	Strength   float64          `json:"strength"`
	RSquared   float64          `json:"r_squared"`
	Forecast   []ForecastResult `json:"forecast"`
	Accuracy   ModelAccuracy    `json:"accuracy"`
	DataPoints int              `json:"data_points"`
}

// ForecastConfig holds configuration for forecasting
type ForecastConfig struct {
	Horizon         int                   // Number of future steps to predict
	ConfidenceLevel float64               // 0.90, 0.95 or 0.99
	Method          Method                // Used by Forecast when no method is passed
	SeasonalPeriod  int                   // Season length; consumed by holt_winters only
	Alpha           float64               // Level smoothing factor (0-1]
	Beta            float64               // Trend smoothing factor for Holt-Winters (0-1]
	Gamma           float64               // Seasonal smoothing factor for Holt-Winters (0-1]
	Normalization   StrengthNormalization // Trend strength scaling
}

// DefaultForecastConfig returns default forecast configuration
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		Horizon:         DefaultHorizon,
		ConfidenceLevel: DefaultConfidence,
		Alpha:           DefaultAlpha,
		Beta:            DefaultBeta,
		Gamma:           DefaultGamma,
		Normalization:   NormalizeByMean,
	}
}

// withDefaults fills zero or out-of-range fields
func (c ForecastConfig) withDefaults() ForecastConfig {
	if c.Horizon <= 0 {
		c.Horizon = DefaultHorizon
	}
	if !stats.IsKnownConfidence(c.ConfidenceLevel) {
		c.ConfidenceLevel = DefaultConfidence
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		c.Alpha = DefaultAlpha
	}
	if c.Beta <= 0 || c.Beta > 1 {
		c.Beta = DefaultBeta
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		c.Gamma = DefaultGamma
	}
	if c.Normalization == "" {
		c.Normalization = NormalizeByMean
	}
	return c
}

// Forecaster interface for all forecasting algorithms
type Forecaster interface {
	// Name returns the algorithm name
	Name() string
	// Forecast fits the series and predicts config.Horizon future steps
	Forecast(data []DataPoint, config ForecastConfig) (*TrendAnalysis, error)
}

// Registry holds available forecasters
var forecasterRegistry = make(map[Method]Forecaster)

// RegisterForecaster adds a forecaster to the registry
func RegisterForecaster(name Method, forecaster Forecaster) {
	forecasterRegistry[name] = forecaster
}

// GetForecaster returns a forecaster by name
func GetForecaster(name Method) (Forecaster, error) {
	if forecaster, ok := forecasterRegistry[name]; ok {
		return forecaster, nil
	}
	return nil, fmt.Errorf("%w: %s", analytics.ErrUnknownMethod, name)
}

// ListForecasters returns the sorted list of available forecaster names
func ListForecasters() []string {
	names := make([]string, 0, len(forecasterRegistry))
	for name := range forecasterRegistry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Forecast runs the forecaster registered under method. An empty method
// falls back to config.Method; there is no default beyond that.
func Forecast(method Method, data []DataPoint, config ForecastConfig) (*TrendAnalysis, error) {
	if method == "" {
		method = config.Method
	}
	forecaster, err := GetForecaster(method)
	if err != nil {
		return nil, err
	}
	return forecaster.Forecast(data, config)
}

// CalculateMAPE calculates Mean Absolute Percentage Error
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}

func accuracyOf(actual, fitted []float64) ModelAccuracy {
	return ModelAccuracy{
		MAPE: analytics.Finite(CalculateMAPE(actual, fitted)),
		MAE:  analytics.Finite(CalculateMAE(actual, fitted)),
		RMSE: analytics.Finite(CalculateRMSE(actual, fitted)),
	}
}

// rSquaredOf returns 1 - SSres/SStot clamped to [0,1], or 0 when SStot is 0
func rSquaredOf(actual, fitted []float64) float64 {
	mean := stats.Mean(actual)
	ssTot, ssRes := 0.0, 0.0
	for i := range actual {
		ssTot += (actual[i] - mean) * (actual[i] - mean)
		ssRes += (actual[i] - fitted[i]) * (actual[i] - fitted[i])
	}
	if ssTot == 0 {
		return 0
	}
	return analytics.Clamp(analytics.Finite(1-ssRes/ssTot), 0, 1)
}

// rms returns sqrt(mean(residual²))
func rms(residuals []float64) float64 {
	if len(residuals) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range residuals {
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(residuals)))
}

// classifyTrend derives direction and strength from a per-step trend
func classifyTrend(trend float64, values []float64, normalization StrengthNormalization) (Direction, float64) {
	direction := DirectionStable
	switch {
	case trend > DirectionThreshold:
		direction = DirectionUp
	case trend < -DirectionThreshold:
		direction = DirectionDown
	}

	var strength float64
	switch normalization {
	case NormalizeByStdDev:
		if sd := stats.StdDev(values); sd > 0 {
			strength = math.Abs(trend) / sd
		}
	default:
		strength = math.Abs(trend) / math.Max(stats.Mean(values), 1)
	}

	return direction, analytics.Clamp(analytics.Finite(strength), 0, 1)
}

// buildForecast assembles horizon predictions. predict and margin receive the
// 1-based step index; a negative or non-finite margin is treated as 0.
func buildForecast(data []DataPoint, config ForecastConfig, predict, margin func(step int) float64) []ForecastResult {
	interval := analytics.TimeSeriesData(data).AverageInterval()
	lastTime := data[len(data)-1].Time
	z := stats.ZForConfidence(config.ConfidenceLevel)

	results := make([]ForecastResult, config.Horizon)
	for i := range results {
		step := i + 1
		value := analytics.Finite(predict(step))
		half := math.Abs(analytics.Finite(z * margin(step)))

		results[i] = ForecastResult{
			Timestamp:  lastTime.Add(interval * time.Duration(step)),
			Predicted:  value,
			LowerBound: value - half,
			UpperBound: value + half,
			Confidence: config.ConfidenceLevel,
		}
	}
	return results
}

func checkLength(data []DataPoint) error {
	if len(data) < MinDataPoints {
		return analytics.InsufficientData(MinDataPoints, len(data))
	}
	return nil
}
