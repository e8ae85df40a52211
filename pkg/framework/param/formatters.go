package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Common parameter formatters and parsers

// IntegerHertzFormatter renders a frequency as a whole number of hertz, e.g.
// "440 hz". The value is truncated toward zero and saturated to the uint32 range.
func IntegerHertzFormatter(hz float64) string {
	return fmt.Sprintf("%d hz", saturateUint32(hz))
}

// HertzParser parses frequency strings such as "440", "440 hz", "440Hz" or
// "1.2 kHz". Units are case-insensitive.
func HertzParser(str string) (float64, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	if str == "" {
		return 0, fmt.Errorf("empty frequency")
	}

	scale := 1.0
	numStr := strings.TrimSuffix(str, "hz")
	if strings.HasSuffix(numStr, "k") {
		numStr = strings.TrimSuffix(numStr, "k")
		scale = 1000
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q: %w", str, err)
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("invalid frequency %q", str)
	}
	return val * scale, nil
}

// saturateUint32 truncates toward zero and clamps to [0, MaxUint32]; NaN maps to 0.
func saturateUint32(v float64) uint32 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
