package seasonality

import (
	"math"
	"testing"
	"time"

	"github.com/mfgsight/qualitycast/internal/analytics"
)

func createSeries(values []float64) []analytics.TimeSeriesPoint {
	points := make([]analytics.TimeSeriesPoint, len(values))
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		points[i] = analytics.TimeSeriesPoint{
			Time:  baseTime.Add(time.Duration(i) * time.Hour),
			Value: v,
		}
	}
	return points
}

func generateSineData(n, period int, amplitude, base float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = base + amplitude*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
	return values
}

func assertNotSeasonal(t *testing.T, result SeasonalityResult) {
	t.Helper()
	if result.HasSeasonal {
		t.Error("Expected HasSeasonal=false")
	}
	if result.Period != 0 {
		t.Errorf("Expected period 0, got %d", result.Period)
	}
	if result.Pattern == nil {
		t.Error("Expected non-nil empty pattern")
	}
	if len(result.Pattern) != 0 {
		t.Errorf("Expected empty pattern, got %v", result.Pattern)
	}
}

func TestDetectSeasonality_ShortSeries(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i)
	}

	result := DetectSeasonality(createSeries(values), 30)

	assertNotSeasonal(t, result)
	if result.Strength != 0 {
		t.Errorf("Expected strength 0, got %f", result.Strength)
	}
}

func TestDetectSeasonality_DefaultMaxPeriod(t *testing.T) {
	// 40 points is enough for maxPeriod 20 but not for the default of 30
	data := createSeries(generateSineData(40, 7, 5, 10))

	assertNotSeasonal(t, DetectSeasonality(data, 0))
	assertNotSeasonal(t, DetectSeasonality(data, -3))

	if !DetectSeasonality(data, 20).HasSeasonal {
		t.Error("Expected seasonality with maxPeriod 20")
	}
}

func TestDetectSeasonality_SineWave(t *testing.T) {
	data := createSeries(generateSineData(84, 7, 5, 10))

	result := DetectSeasonality(data, 30)

	if !result.HasSeasonal {
		t.Fatal("Expected seasonal pattern")
	}
	if result.Period != 7 {
		t.Errorf("Expected period 7, got %d", result.Period)
	}
	if result.Strength <= Threshold || result.Strength > 1 {
		t.Errorf("Expected strength in (%.1f, 1], got %f", Threshold, result.Strength)
	}
	if len(result.Pattern) != result.Period {
		t.Fatalf("Expected pattern length %d, got %d", result.Period, len(result.Pattern))
	}

	for phase, v := range result.Pattern {
		expected := 10 + 5*math.Sin(2*math.Pi*float64(phase)/7)
		if math.Abs(v-expected) > 1e-9 {
			t.Errorf("Pattern[%d]: expected %f, got %f", phase, expected, v)
		}
	}
}

func TestDetectSeasonality_ConstantSeries(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 42
	}

	result := DetectSeasonality(createSeries(values), 30)

	assertNotSeasonal(t, result)
	if result.Strength != 0 {
		t.Errorf("Expected strength 0 for zero variance, got %f", result.Strength)
	}
}

func TestDetectSeasonality_IsolatedSpike(t *testing.T) {
	// A single spike produces negative autocorrelation at every lag
	values := make([]float64, 60)
	values[30] = 1

	result := DetectSeasonality(createSeries(values), 30)

	assertNotSeasonal(t, result)
	if result.Strength != 0 {
		t.Errorf("Expected strength 0, got %f", result.Strength)
	}
}

func TestDetectSeasonality_SkipsLagOne(t *testing.T) {
	// A slow ramp has lag-1 autocorrelation close to 1; any detected period
	// must still come from lag 2 or above.
	values := make([]float64, 60)
	for i := range values {
		values[i] = float64(i)
	}

	result := DetectSeasonality(createSeries(values), 30)

	if result.HasSeasonal && result.Period < 2 {
		t.Errorf("Expected period >= 2, got %d", result.Period)
	}
}

func TestDetectSeasonality_Deterministic(t *testing.T) {
	data := createSeries(generateSineData(90, 12, 3, 50))

	first := DetectSeasonality(data, 30)
	second := DetectSeasonality(data, 30)

	if first.Period != second.Period || first.Strength != second.Strength {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
	for i := range first.Pattern {
		if first.Pattern[i] != second.Pattern[i] {
			t.Errorf("Pattern[%d] differs: %f vs %f", i, first.Pattern[i], second.Pattern[i])
		}
	}
}

func TestACF(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	acf := ACF(values, 2)
	if len(acf) != 3 {
		t.Fatalf("Expected 3 lags, got %d", len(acf))
	}
	if math.Abs(acf[0]-1) > 1e-12 {
		t.Errorf("Expected lag-0 autocorrelation 1, got %f", acf[0])
	}
	// deviations -2,-1,0,1,2; lag 1: (2+0+0+2)/10
	if math.Abs(acf[1]-0.4) > 1e-12 {
		t.Errorf("Expected lag-1 autocorrelation 0.4, got %f", acf[1])
	}

	if ACF([]float64{3, 3, 3}, 1) != nil {
		t.Error("Expected nil for zero variance")
	}
	if ACF(values, 5) != nil {
		t.Error("Expected nil when maxLag >= len")
	}
}

func TestPattern(t *testing.T) {
	pattern := Pattern([]float64{1, 2, 3, 4, 5, 6, 7}, 3)
	expected := []float64{4, 3.5, 4.5}

	if len(pattern) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(pattern))
	}
	for i := range expected {
		if math.Abs(pattern[i]-expected[i]) > 1e-12 {
			t.Errorf("Pattern[%d]: expected %f, got %f", i, expected[i], pattern[i])
		}
	}

	if p := Pattern([]float64{1, 2}, 0); p == nil || len(p) != 0 {
		t.Errorf("Expected empty pattern for period 0, got %v", p)
	}
}

func TestDetectSeasonality_LargeMagnitude(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 1e200 * float64(i%7)
	}

	result := DetectSeasonality(createSeries(values), 30)

	if !result.HasSeasonal {
		t.Fatal("Expected a seasonal result")
	}
	if result.Period != 7 {
		t.Errorf("Expected period 7, got %d", result.Period)
	}
	if !(result.Strength > Threshold) || result.Strength > 1 {
		t.Errorf("Expected strength in (%v, 1], got %v", Threshold, result.Strength)
	}
	for i, p := range result.Pattern {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Errorf("Pattern[%d] not finite: %v", i, p)
		}
	}
}

func TestDetectSeasonality_NonFiniteValues(t *testing.T) {
	values := generateSineData(60, 7, 3, 50)
	values[10] = math.Inf(1)

	assertNotSeasonal(t, DetectSeasonality(createSeries(values), 30))
}

func TestACF_NonFinite(t *testing.T) {
	if ACF([]float64{1, math.NaN(), 3, 4}, 2) != nil {
		t.Error("Expected nil for NaN input")
	}
	if ACF([]float64{-math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}, 2) != nil {
		t.Error("Expected nil when deviations overflow")
	}
}
