package video

import (
	"math"
	"strconv"
	"strings"
)

// Threshold bounds.
const (
	DefaultThreshold = 90
	MinThreshold     = 60
	MaxThreshold     = 99
)

// CoerceThreshold turns a raw form value into a threshold in [MinThreshold, MaxThreshold].
// Blank, non-numeric and zero values fall back to DefaultThreshold; fractions are floored.
func CoerceThreshold(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || f == 0 {
		return DefaultThreshold
	}
	f = math.Min(math.Max(f, MinThreshold), MaxThreshold)
	return int(math.Floor(f))
}
