package metrics

import (
	"math"

	"github.com/i474232898/weather-dashboard/internal/common"
)

const (
	// HeatIndexThreshold is the temperature (°C) at and above which the heat index applies.
	HeatIndexThreshold = 27.0
	// WindChillThreshold is the temperature (°C) at and below which wind chill applies.
	WindChillThreshold = 10.0
)

// FeelsLike returns the apparent temperature in °C for the given air temperature (°C),
// relative humidity (%) and wind speed (km/h).
//
// Temperatures of 27 °C or more use a heat index approximation, temperatures of 10 °C or
// less use the wind chill formula, and anything strictly in between is returned as is.
// Formula results are rounded to one decimal.
func FeelsLike(tempC, humidityPct, windKmh float64) float64 {
	switch {
	case tempC >= HeatIndexThreshold:
		return common.Round(HeatIndex(tempC, humidityPct, windKmh), 1)
	case tempC <= WindChillThreshold:
		return common.Round(WindChill(tempC, windKmh), 1)
	default:
		return tempC
	}
}

// HeatIndex is the unrounded heat index approximation used by FeelsLike.
func HeatIndex(tempC, humidityPct, windKmh float64) float64 {
	return tempC + 0.348*humidityPct - 0.7*windKmh + 0.7*(humidityPct/100)*tempC - 0.002*tempC*tempC
}

// WindChill is the unrounded wind chill formula used by FeelsLike.
func WindChill(tempC, windKmh float64) float64 {
	v16 := math.Pow(windKmh, 0.16)
	return 13.12 + 0.6215*tempC - 11.37*v16 + 0.3965*tempC*v16
}
