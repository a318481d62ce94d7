package metrics

import "math"

// Magnus coefficients over water.
const (
	magnusA = 17.27
	magnusB = 237.7
)

// DewPoint computes the dew point in °C with the Magnus formula. ok is false for a
// non-positive humidity, where the dew point is undefined.
func DewPoint(tempC, humidityPct float64) (dew float64, ok bool) {
	if humidityPct <= 0 {
		return 0, false
	}
	gamma := (magnusA*tempC)/(magnusB+tempC) + math.Log(humidityPct/100)
	return (magnusB * gamma) / (magnusA - gamma), true
}

// WetBulb estimates the wet-bulb temperature in °C (Stull 2011). Valid for
// humidity between 5 % and 99 % at standard pressure.
func WetBulb(tempC, humidityPct float64) float64 {
	rh := humidityPct
	return tempC*math.Atan(0.151977*math.Sqrt(rh+8.313659)) +
		math.Atan(tempC+rh) - math.Atan(rh-1.676331) +
		0.00391838*math.Pow(rh, 1.5)*math.Atan(0.023101*rh) - 4.686035
}
