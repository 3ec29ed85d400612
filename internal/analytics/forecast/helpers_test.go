package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mfgsight/qualitycast/internal/analytics"
)

// Common test data and helpers for all forecast tests

var (
	testBaseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testInterval = time.Hour
)

// createDataPoints spaces values one testInterval apart
func createDataPoints(values []float64) []DataPoint {
	data := make([]DataPoint, len(values))
	for i, v := range values {
		data[i] = DataPoint{
			Time:  testBaseTime.Add(testInterval * time.Duration(i)),
			Value: v,
		}
	}
	return data
}

// generateLinearData creates test data with linear pattern: y = slope * x + intercept
func generateLinearData(n int, slope, intercept float64) []DataPoint {
	values := make([]float64, n)
	for i := range values {
		values[i] = slope*float64(i) + intercept
	}
	return createDataPoints(values)
}

// generateSeasonalTestData creates test data with seasonal pattern
func generateSeasonalTestData(n int, period int) []DataPoint {
	values := make([]float64, n)
	for i := range values {
		trend := float64(i) * 0.1
		seasonal := 10 * math.Sin(2*math.Pi*float64(i%period)/float64(period))
		values[i] = 50 + trend + seasonal
	}
	return createDataPoints(values)
}

func generateConstantData(n int, value float64) []DataPoint {
	values := make([]float64, n)
	for i := range values {
		values[i] = value
	}
	return createDataPoints(values)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Test basic Forecaster interface compliance
func TestForecasterRegistry(t *testing.T) {
	// These algorithms are registered via init() in the forecast package
	algorithms := []Method{
		MethodLinear,
		MethodExponential,
		MethodMovingAverage,
		MethodHoltWinters,
		MethodAuto,
	}

	for _, algo := range algorithms {
		forecaster, err := GetForecaster(algo)
		if err != nil {
			t.Errorf("Forecaster '%s' not registered: %v", algo, err)
		} else if forecaster.Name() != string(algo) {
			t.Errorf("Forecaster name mismatch: expected '%s', got '%s'", algo, forecaster.Name())
		}
	}
}

func TestListForecasters(t *testing.T) {
	expected := []string{"auto", "exponential", "holt_winters", "linear", "moving_average"}

	names := ListForecasters()
	if len(names) != len(expected) {
		t.Fatalf("Expected %d forecasters, got %v", len(expected), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Expected %s at position %d, got %s", expected[i], i, names[i])
		}
	}
}

func TestGetForecaster_Unknown(t *testing.T) {
	_, err := GetForecaster("unknown_algorithm")
	if !errors.Is(err, analytics.ErrUnknownMethod) {
		t.Errorf("Expected ErrUnknownMethod, got %v", err)
	}

	_, err = Forecast("arima", generateLinearData(10, 1, 0), DefaultForecastConfig())
	if !errors.Is(err, analytics.ErrUnknownMethod) {
		t.Errorf("Expected ErrUnknownMethod from Forecast, got %v", err)
	}
}

func TestForecast_MethodFromConfig(t *testing.T) {
	data := generateLinearData(10, 2, 5)
	config := DefaultForecastConfig()
	config.Method = MethodExponential

	result, err := Forecast("", data, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.Method != MethodExponential {
		t.Errorf("Expected method from config, got %s", result.Method)
	}

	result, err = Forecast(MethodLinear, data, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.Method != MethodLinear {
		t.Errorf("Expected explicit method to win, got %s", result.Method)
	}

	_, err = Forecast("", data, DefaultForecastConfig())
	if !errors.Is(err, analytics.ErrUnknownMethod) {
		t.Errorf("Expected ErrUnknownMethod without any method, got %v", err)
	}
}

func TestCalculateMAPE(t *testing.T) {
	actual := []float64{100, 200, 300}
	predicted := []float64{110, 190, 310}

	mape := CalculateMAPE(actual, predicted)
	// Expected: (|10/100| + |10/200| + |10/300|) / 3 * 100 ≈ 6.1%
	if mape < 5 || mape > 7 {
		t.Errorf("MAPE calculation incorrect: got %v", mape)
	}

	if CalculateMAPE([]float64{0, 0}, []float64{1, 2}) != 0 {
		t.Error("Expected MAPE 0 when every actual value is zero")
	}
}

func TestCalculateMAE(t *testing.T) {
	actual := []float64{100, 200, 300}
	predicted := []float64{110, 190, 310}

	mae := CalculateMAE(actual, predicted)
	if mae != 10 {
		t.Errorf("MAE calculation incorrect: got %v, expected 10", mae)
	}
}

func TestCalculateRMSE(t *testing.T) {
	actual := []float64{100, 200, 300}
	predicted := []float64{110, 190, 310}

	rmse := CalculateRMSE(actual, predicted)
	if rmse != 10 {
		t.Errorf("RMSE calculation incorrect: got %v, expected 10", rmse)
	}

	if CalculateRMSE([]float64{1}, []float64{1, 2}) != 0 {
		t.Error("Expected 0 for mismatched lengths")
	}
}

func TestForecastConfig_Defaults(t *testing.T) {
	config := ForecastConfig{ConfidenceLevel: 0.5, Alpha: 1.5}.withDefaults()

	if config.Horizon != DefaultHorizon {
		t.Errorf("Expected horizon %d, got %d", DefaultHorizon, config.Horizon)
	}
	if config.ConfidenceLevel != DefaultConfidence {
		t.Errorf("Expected confidence %v, got %v", DefaultConfidence, config.ConfidenceLevel)
	}
	if config.Alpha != DefaultAlpha {
		t.Errorf("Expected alpha %v, got %v", DefaultAlpha, config.Alpha)
	}
	if config.Beta != DefaultBeta || config.Gamma != DefaultGamma {
		t.Errorf("Expected default beta/gamma, got %v/%v", config.Beta, config.Gamma)
	}
	if config.Normalization != NormalizeByMean {
		t.Errorf("Expected mean normalization, got %s", config.Normalization)
	}
}

func TestClassifyTrend(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	tests := []struct {
		name          string
		trend         float64
		normalization StrengthNormalization
		wantDirection Direction
		wantStrength  float64
	}{
		{"up by mean", 10, NormalizeByMean, DirectionUp, 0.4},
		{"down by mean", -10, NormalizeByMean, DirectionDown, 0.4},
		{"stable inside threshold", 0.01, NormalizeByMean, DirectionStable, 0.0004},
		{"clamped", 1000, NormalizeByMean, DirectionUp, 1},
		{"by stddev", 10, NormalizeByStdDev, DirectionUp, 10 / math.Sqrt(125)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direction, strength := classifyTrend(tt.trend, values, tt.normalization)
			if direction != tt.wantDirection {
				t.Errorf("Expected direction %s, got %s", tt.wantDirection, direction)
			}
			if math.Abs(strength-tt.wantStrength) > 1e-9 {
				t.Errorf("Expected strength %v, got %v", tt.wantStrength, strength)
			}
		})
	}
}

func TestClassifyTrend_SmallMean(t *testing.T) {
	// mean below 1 is replaced by 1
	_, strength := classifyTrend(0.5, []float64{0, 0, 0}, NormalizeByMean)
	if strength != 0.5 {
		t.Errorf("Expected strength 0.5, got %v", strength)
	}

	_, strength = classifyTrend(0.5, []float64{3, 3, 3}, NormalizeByStdDev)
	if strength != 0 {
		t.Errorf("Expected strength 0 for zero stddev, got %v", strength)
	}
}
