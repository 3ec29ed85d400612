package utils

import (
	"math"
	"strconv"
	"strings"
)

// ToFloat64 converts numeric types and numeric strings to float64.
// Returns the converted value and true if successful, or 0 and false if
// conversion fails. NaN and infinities are rejected.
func ToFloat64(v interface{}) (float64, bool) {
	var f float64

	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseFloat64Slice converts text fields to float64 values.
// Fields that do not parse are skipped. Returns the converted slice and the
// original indices of successfully converted fields.
func ParseFloat64Slice(fields []string) ([]float64, []int) {
	result := make([]float64, 0, len(fields))
	indices := make([]int, 0, len(fields))

	for i, field := range fields {
		if f, ok := ToFloat64(field); ok {
			result = append(result, f)
			indices = append(indices, i)
		}
	}

	return result, indices
}
