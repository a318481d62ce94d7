package metrics

import (
	"fmt"
	"math"
)

// Axis selects the hemisphere letters used by FormatDMS.
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

// FormatDMS renders decimal degrees as degrees, minutes and seconds with a hemisphere
// letter, e.g. 10°30'0.0"N. Seconds carry one decimal.
func FormatDMS(coord float64, axis Axis) string {
	var hemisphere string
	switch axis {
	case Latitude:
		hemisphere = "N"
		if coord < 0 {
			hemisphere = "S"
		}
	default:
		hemisphere = "E"
		if coord < 0 {
			hemisphere = "W"
		}
	}

	abs := math.Abs(coord)
	degrees := math.Floor(abs)
	minutes := math.Floor((abs - degrees) * 60)
	seconds := (abs - degrees - minutes/60) * 3600
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%d°%d'%.1f\"%s", int(degrees), int(minutes), seconds, hemisphere)
}
