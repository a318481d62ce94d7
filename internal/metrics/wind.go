package metrics

import "math"

// CompassSectors are the eight wind sectors in clockwise order starting at north.
var CompassSectors = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// SectorFrequency is the share of observations (percent) blowing from one sector.
type SectorFrequency struct {
	Direction string  `json:"direction"`
	Frequency float64 `json:"frequency"`
}

// WindSector returns the compass sector for a direction in degrees.
func WindSector(deg float64) string {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Mod(d+22.5, 360) / 45)
	return CompassSectors[idx]
}

// WindRose computes the frequency distribution of wind directions over the eight
// sectors. An empty input yields zero frequencies for every sector.
func WindRose(directions []float64) []SectorFrequency {
	counts := make(map[string]int, len(CompassSectors))
	for _, d := range directions {
		counts[WindSector(d)]++
	}

	out := make([]SectorFrequency, 0, len(CompassSectors))
	for _, s := range CompassSectors {
		var freq float64
		if len(directions) > 0 {
			freq = float64(counts[s]) / float64(len(directions)) * 100
		}
		out = append(out, SectorFrequency{Direction: s, Frequency: freq})
	}
	return out
}

// MSToKMH converts m/s to km/h.
func MSToKMH(v float64) float64 {
	return v * 3.6
}
