package metrics

import "math"

// CropCoefficient scales reference evapotranspiration to the actual value.
const CropCoefficient = 0.7

// Evapotranspiration holds reference and crop-adjusted evapotranspiration in mm/day.
type Evapotranspiration struct {
	ET0      float64 `json:"et0"`
	ETActual float64 `json:"etActual"`
}

// ReferenceET approximates ET0 (mm/day) from temperature (°C), relative humidity (%),
// wind speed at 2 m (m/s) and all-sky shortwave radiation (kWh/m²/day). The result is
// never negative.
func ReferenceET(tempC, humidityPct, windMS, solarRadiation float64) float64 {
	return math.Max(0, ((solarRadiation*0.8+windMS*0.5)*(1-humidityPct/100)*(tempC+10))/30)
}

// ComputeET returns ET0 together with the crop-adjusted value.
func ComputeET(tempC, humidityPct, windMS, solarRadiation float64) Evapotranspiration {
	et0 := ReferenceET(tempC, humidityPct, windMS, solarRadiation)
	return Evapotranspiration{
		ET0:      et0,
		ETActual: et0 * CropCoefficient,
	}
}
