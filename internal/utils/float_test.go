package utils

import (
	"math"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		{"float64", float64(3.14), 3.14, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", int(42), 42, true},
		{"int64", int64(-64), -64, true},
		{"uint32", uint32(32), 32, true},
		{"numeric string", "12.5", 12.5, true},
		{"padded string", "  7 ", 7, true},
		{"scientific string", "1e3", 1000, true},

		{"word", "hello", 0, false},
		{"empty string", "", 0, false},
		{"NaN string", "NaN", 0, false},
		{"Inf string", "+Inf", 0, false},
		{"NaN float", math.NaN(), 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"slice", []int{1, 2, 3}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToFloat64(tt.input)

			if ok != tt.ok {
				t.Errorf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}

			if result != tt.expected {
				t.Errorf("ToFloat64(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFloat64Slice(t *testing.T) {
	values, indices := ParseFloat64Slice([]string{"1", "x", "2.5", "", "-3"})

	expectedValues := []float64{1, 2.5, -3}
	expectedIndices := []int{0, 2, 4}

	if len(values) != len(expectedValues) {
		t.Fatalf("Expected %d values, got %d", len(expectedValues), len(values))
	}
	for i := range expectedValues {
		if values[i] != expectedValues[i] {
			t.Errorf("values[%d] = %v, want %v", i, values[i], expectedValues[i])
		}
		if indices[i] != expectedIndices[i] {
			t.Errorf("indices[%d] = %v, want %v", i, indices[i], expectedIndices[i])
		}
	}
}

func TestParseFloat64Slice_Empty(t *testing.T) {
	values, indices := ParseFloat64Slice(nil)
	if len(values) != 0 || len(indices) != 0 {
		t.Errorf("Expected empty result, got %v %v", values, indices)
	}
}
