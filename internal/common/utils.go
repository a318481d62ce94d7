package common

import (
	"math"
	"strings"
)

// HasAny returns true if s contains any of the substrings (case-insensitive).
func HasAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// Round rounds v to the given number of decimal places, with halves rounded up
// towards positive infinity.
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Floor(v*pow+0.5) / pow
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
