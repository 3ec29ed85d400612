package forecast

import (
	"math"
	"testing"
)

func TestMovingAverageForecaster_KnownValues(t *testing.T) {
	data := createDataPoints([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	config := DefaultForecastConfig()
	config.Horizon = 3

	result, err := MovingAverageForecast(data, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	// window 5: MA = 3..8, trend = (8 - 5) / 3
	if math.Abs(result.Slope-1) > 1e-9 {
		t.Errorf("Expected trend 1, got %v", result.Slope)
	}
	for i, f := range result.Forecast {
		want := 8 + float64(i+1)
		if math.Abs(f.Predicted-want) > 1e-9 {
			t.Errorf("Prediction %d: expected %v, got %v", i, want, f.Predicted)
		}
	}

	// each value sits 2 above its trailing average
	margin := result.Forecast[0].UpperBound - result.Forecast[0].Predicted
	if math.Abs(margin-1.96*2) > 1e-9 {
		t.Errorf("Expected margin %v, got %v", 1.96*2, margin)
	}
	if result.Direction != DirectionUp {
		t.Errorf("Expected direction up, got %s", result.Direction)
	}
	if result.Method != MethodMovingAverage {
		t.Errorf("Expected method moving_average, got %s", result.Method)
	}
}

func TestMovingAverageForecaster_Name(t *testing.T) {
	if NewMovingAverageForecaster().Name() != "moving_average" {
		t.Error("Expected name 'moving_average'")
	}
}

func TestMovingAverageForecaster_MinimumLength(t *testing.T) {
	// n=3 gives a window of 1
	result, err := MovingAverageForecast(createDataPoints([]float64{10, 20, 30}), DefaultForecastConfig())
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	for i, f := range result.Forecast {
		if !isFinite(f.Predicted) || !isFinite(f.LowerBound) || !isFinite(f.UpperBound) {
			t.Errorf("Prediction %d is not finite: %+v", i, f)
		}
	}
}

func TestTrailingMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   []float64
	}{
		{"window 2", []float64{1, 3, 5, 7}, 2, []float64{2, 4, 6}},
		{"window equals length", []float64{2, 4, 6}, 3, []float64{4}},
		{"window 1", []float64{5, 6}, 1, []float64{5, 6}},
		{"window too large", []float64{1, 2}, 3, nil},
		{"zero window", []float64{1, 2}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrailingMovingAverage(tt.values, tt.window)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Index %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
