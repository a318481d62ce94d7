package weather

import (
	"github.com/i474232898/weather-dashboard/internal/metrics"
)

// DerivedDay holds the metrics derived from one observation record.
type DerivedDay struct {
	Date          Date                  `json:"date"`
	ET0           float64               `json:"et0"`
	ETActual      float64               `json:"etActual"`
	CloudCover    float64               `json:"cloudCover"`
	CloudCategory metrics.CloudCategory `json:"cloudCategory"`
	Visibility    float64               `json:"visibility"`
	UVIndex       float64               `json:"uvIndex"`
	UVBand        metrics.UVBand        `json:"uvBand"`
	DewPoint      *float64              `json:"dewPoint,omitempty"`
	WetBulb       *float64              `json:"wetBulb,omitempty"`
}

// Derive computes the derived metrics for a record, substituting the documented
// defaults for absent inputs.
func Derive(r ObservationRecord) DerivedDay {
	temp := r.ValueOr(ParamT2M, DefaultTemperature)
	humidity := r.ValueOr(ParamRH2M, DefaultHumidity)
	wind := r.ValueOr(ParamWS2M, DefaultWindSpeed)
	solar := r.ValueOr(ParamAllSkySW, DefaultSolarRadiation)

	et := metrics.ComputeET(temp, humidity, wind, solar)

	clearSky := r.ValueOr(ParamClearSkySW, 0)
	allSky := r.ValueOr(ParamAllSkySW, 0)
	cover := metrics.CloudCover(clearSky, allSky)
	uv := metrics.UVIndex(allSky)

	d := DerivedDay{
		Date:          r.Date,
		ET0:           et.ET0,
		ETActual:      et.ETActual,
		CloudCover:    cover,
		CloudCategory: metrics.ClassifyCloudCover(cover),
		Visibility:    metrics.Visibility(cover),
		UVIndex:       uv,
		UVBand:        metrics.UVBandOf(uv),
	}

	// Measured values win over estimates.
	if v, ok := r.Value(ParamT2MDew); ok {
		d.DewPoint = &v
	} else if v, ok := metrics.DewPoint(temp, humidity); ok {
		d.DewPoint = &v
	}
	if v, ok := r.Value(ParamT2MWet); ok {
		d.WetBulb = &v
	} else if humidity > 0 {
		v := metrics.WetBulb(temp, humidity)
		d.WetBulb = &v
	}
	return d
}

// DeriveSeries applies Derive to every record in order.
func DeriveSeries(records []ObservationRecord) []DerivedDay {
	out := make([]DerivedDay, 0, len(records))
	for _, r := range records {
		out = append(out, Derive(r))
	}
	return out
}

// ETSummary totals crop-adjusted evapotranspiration over a derived series.
type ETSummary struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

// SummarizeET returns the total and mean ETActual. An empty series yields ErrNoData.
func SummarizeET(days []DerivedDay) (ETSummary, error) {
	if len(days) == 0 {
		return ETSummary{}, ErrNoData
	}
	var total float64
	for _, d := range days {
		total += d.ETActual
	}
	return ETSummary{Total: total, Average: total / float64(len(days))}, nil
}

// CloudDistribution counts derived days per cloud category.
func CloudDistribution(days []DerivedDay) map[metrics.CloudCategory]int {
	out := make(map[metrics.CloudCategory]int, len(metrics.CloudCategories))
	for _, c := range metrics.CloudCategories {
		out[c] = 0
	}
	for _, d := range days {
		out[d.CloudCategory]++
	}
	return out
}

// UVDistribution counts derived days per UV band.
func UVDistribution(days []DerivedDay) map[metrics.UVBand]int {
	out := make(map[metrics.UVBand]int, len(metrics.UVBands))
	for _, b := range metrics.UVBands {
		out[b] = 0
	}
	for _, d := range days {
		out[d.UVBand]++
	}
	return out
}

// DeriveFrostDays sets FROST_DAYS to 1 when T2M_MIN is at or below 0 °C and to 0
// otherwise. Records that already carry FROST_DAYS or lack T2M_MIN are left alone.
func DeriveFrostDays(records []ObservationRecord) {
	for i := range records {
		if _, ok := records[i].Value(ParamFrostDays); ok {
			continue
		}
		tmin, ok := records[i].Value(ParamT2MMin)
		if !ok {
			continue
		}
		frost := 0.0
		if tmin <= 0 {
			frost = 1
		}
		records[i].Set(ParamFrostDays, frost)
	}
}
