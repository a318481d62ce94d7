package metrics

import "github.com/vorlif/spreak/localize"

// AQICategory is the machine-readable air quality band.
type AQICategory string

const (
	AQIGood               AQICategory = "good"
	AQIModerate           AQICategory = "moderate"
	AQIUnhealthySensitive AQICategory = "unhealthy_sensitive"
	AQIUnhealthy          AQICategory = "unhealthy"
	AQIVeryUnhealthy      AQICategory = "very_unhealthy"
	AQIHazardous          AQICategory = "hazardous"
)

// AQILevel describes an air quality band.
type AQILevel struct {
	Category AQICategory    `json:"category"`
	Label    string         `json:"label"`
	Color    string         `json:"color"`
	MsgID    localize.MsgID `json:"-"`
	Advice   string         `json:"healthAdvice"`
}

const (
	adviceGood     = "Air quality is good. Suitable for all outdoor activities."
	adviceModerate = "Air quality is moderate. Sensitive groups should limit outdoor activities."
	advicePoor     = "Air quality is poor. Limit outdoor activities and wear a mask."
)

var aqiLevels = []struct {
	upper int
	level AQILevel
}{
	{50, AQILevel{Category: AQIGood, Label: "Good", Color: "green", MsgID: "Good", Advice: adviceGood}},
	{100, AQILevel{Category: AQIModerate, Label: "Moderate", Color: "yellow", MsgID: "Moderate", Advice: adviceModerate}},
	{150, AQILevel{Category: AQIUnhealthySensitive, Label: "Unhealthy-for-sensitive", Color: "orange",
		MsgID: "Unhealthy for sensitive groups", Advice: advicePoor}},
	{200, AQILevel{Category: AQIUnhealthy, Label: "Unhealthy", Color: "red", MsgID: "Unhealthy", Advice: advicePoor}},
	{300, AQILevel{Category: AQIVeryUnhealthy, Label: "Very-Unhealthy", Color: "purple", MsgID: "Very unhealthy",
		Advice: advicePoor}},
}

var aqiHazardous = AQILevel{Category: AQIHazardous, Label: "Hazardous", Color: "maroon", MsgID: "Hazardous",
	Advice: advicePoor}

// ClassifyAQI maps an AQI value to its band. Upper bounds are inclusive.
func ClassifyAQI(aqi int) AQILevel {
	for _, l := range aqiLevels {
		if aqi <= l.upper {
			return l.level
		}
	}
	return aqiHazardous
}

// AQILabel is shorthand for ClassifyAQI(aqi).Label.
func AQILabel(aqi int) string {
	return ClassifyAQI(aqi).Label
}
