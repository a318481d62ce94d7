package metrics

import "github.com/i474232898/weather-dashboard/internal/common"

// MaxUVIndex is the upper bound of the approximated UV index.
const MaxUVIndex = 11.0

// CloudCover estimates the cloud cover percentage from the ratio of all-sky to clear-sky
// shortwave radiation. A non-positive clear-sky value yields 0.
func CloudCover(clearSky, allSky float64) float64 {
	if clearSky <= 0 {
		return 0
	}
	return common.Clamp((1-allSky/clearSky)*100, 0, 100)
}

// Visibility estimates visibility in km from cloud cover (%). For cover within [0, 100]
// the result lies within [7, 10].
func Visibility(cloudCover float64) float64 {
	return 10 - (cloudCover/100)*3
}

// CloudCategory buckets a cloud cover percentage.
type CloudCategory string

const (
	CloudClear        CloudCategory = "clear"
	CloudPartly       CloudCategory = "partly_cloudy"
	CloudMostlyCloudy CloudCategory = "mostly_cloudy"
	CloudOvercast     CloudCategory = "overcast"
)

// CloudCategories lists the categories in ascending cover order.
var CloudCategories = []CloudCategory{CloudClear, CloudPartly, CloudMostlyCloudy, CloudOvercast}

// ClassifyCloudCover maps a cover percentage to its category (upper bounds inclusive).
func ClassifyCloudCover(cover float64) CloudCategory {
	switch {
	case cover <= 25:
		return CloudClear
	case cover <= 50:
		return CloudPartly
	case cover <= 75:
		return CloudMostlyCloudy
	default:
		return CloudOvercast
	}
}

// UVIndex approximates the UV index from all-sky shortwave radiation (kWh/m²/day).
func UVIndex(solarRadiation float64) float64 {
	return common.Clamp(solarRadiation*0.4, 0, MaxUVIndex)
}

// UVBand identifies a UV exposure band.
type UVBand string

const (
	UVLow      UVBand = "low"
	UVModerate UVBand = "moderate"
	UVHigh     UVBand = "high"
	UVVeryHigh UVBand = "very_high"
	UVExtreme  UVBand = "extreme"
)

// UVBands lists the bands in ascending order.
var UVBands = []UVBand{UVLow, UVModerate, UVHigh, UVVeryHigh, UVExtreme}

// UVLevel describes the exposure band a UV index value falls into.
type UVLevel struct {
	Band  UVBand `json:"band"`
	Label string `json:"label"`
	Color string `json:"color"`
	Risk  string `json:"risk"`
}

var uvLevels = map[UVBand]UVLevel{
	UVLow:      {Band: UVLow, Label: "Low", Color: "#22c55e", Risk: "Minimal risk"},
	UVModerate: {Band: UVModerate, Label: "Moderate", Color: "#eab308", Risk: "Protection required"},
	UVHigh:     {Band: UVHigh, Label: "High", Color: "#f97316", Risk: "Extra protection required"},
	UVVeryHigh: {Band: UVVeryHigh, Label: "Very High", Color: "#dc2626", Risk: "Dangerous"},
	UVExtreme:  {Band: UVExtreme, Label: "Extreme", Color: "#7c3aed", Risk: "Very dangerous"},
}

// UVBandOf returns the band for a UV index. Upper bounds are inclusive: 2, 5, 7, 10.
func UVBandOf(uv float64) UVBand {
	switch {
	case uv <= 2:
		return UVLow
	case uv <= 5:
		return UVModerate
	case uv <= 7:
		return UVHigh
	case uv <= 10:
		return UVVeryHigh
	default:
		return UVExtreme
	}
}

// ClassifyUV returns the full level description for a UV index.
func ClassifyUV(uv float64) UVLevel {
	return uvLevels[UVBandOf(uv)]
}
