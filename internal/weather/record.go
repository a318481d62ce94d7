package weather

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults substituted for absent fields before deriving metrics.
const (
	DefaultTemperature    = 20.0 // °C
	DefaultHumidity       = 50.0 // %
	DefaultWindSpeed      = 2.0  // m/s
	DefaultSolarRadiation = 5.0  // kWh/m²/day
)

// ErrUnknownParameter is returned for parameter keys outside the supported set.
var ErrUnknownParameter = errors.New("unknown parameter")

// Parameter is a key of the daily climate series (NASA POWER naming).
type Parameter string

const (
	ParamT2M           Parameter = "T2M"
	ParamT2MMax        Parameter = "T2M_MAX"
	ParamT2MMin        Parameter = "T2M_MIN"
	ParamRH2M          Parameter = "RH2M"
	ParamWS2M          Parameter = "WS2M"
	ParamWD2M          Parameter = "WD2M"
	ParamPrecipitation Parameter = "PRECTOTCORR"
	ParamPS            Parameter = "PS"
	ParamAllSkySW      Parameter = "ALLSKY_SFC_SW_DWN"
	ParamClearSkySW    Parameter = "CLRSKY_SFC_SW_DWN"
	ParamAllSkyLW      Parameter = "ALLSKY_SFC_LW_DWN"
	ParamTOASW         Parameter = "ALLSKY_TOA_SW_DWN"
	ParamT2MDew        Parameter = "T2MDEW"
	ParamT2MWet        Parameter = "T2MWET"
	ParamTS            Parameter = "TS"
	ParamT10M          Parameter = "T10M"
	ParamQV2M          Parameter = "QV2M"
	ParamU2M           Parameter = "U2M"
	ParamV2M           Parameter = "V2M"
	ParamWS10M         Parameter = "WS10M"
	ParamWS50M         Parameter = "WS50M"
	ParamUVIndex       Parameter = "ALLSKY_SFC_UV_INDEX"
	ParamFrostDays     Parameter = "FROST_DAYS"
)

// ObservationRecord is one day of observations. Nil fields are absent.
type ObservationRecord struct {
	Date Date `json:"date"`

	T2M         *float64 `json:"T2M,omitempty"`
	T2MMax      *float64 `json:"T2M_MAX,omitempty"`
	T2MMin      *float64 `json:"T2M_MIN,omitempty"`
	RH2M        *float64 `json:"RH2M,omitempty"`
	WS2M        *float64 `json:"WS2M,omitempty"`
	WD2M        *float64 `json:"WD2M,omitempty"`
	PrecTotCorr *float64 `json:"PRECTOTCORR,omitempty"`
	PS          *float64 `json:"PS,omitempty"`
	AllSkySW    *float64 `json:"ALLSKY_SFC_SW_DWN,omitempty"`
	ClearSkySW  *float64 `json:"CLRSKY_SFC_SW_DWN,omitempty"`
	AllSkyLW    *float64 `json:"ALLSKY_SFC_LW_DWN,omitempty"`
	TOASW       *float64 `json:"ALLSKY_TOA_SW_DWN,omitempty"`
	T2MDew      *float64 `json:"T2MDEW,omitempty"`
	T2MWet      *float64 `json:"T2MWET,omitempty"`
	TS          *float64 `json:"TS,omitempty"`
	T10M        *float64 `json:"T10M,omitempty"`
	QV2M        *float64 `json:"QV2M,omitempty"`
	U2M         *float64 `json:"U2M,omitempty"`
	V2M         *float64 `json:"V2M,omitempty"`
	WS10M       *float64 `json:"WS10M,omitempty"`
	WS50M       *float64 `json:"WS50M,omitempty"`
	UVIndex     *float64 `json:"ALLSKY_SFC_UV_INDEX,omitempty"`
	FrostDays   *float64 `json:"FROST_DAYS,omitempty"`
}

type parameterDef struct {
	key   Parameter
	name  string
	unit  string
	field func(r *ObservationRecord) **float64
}

var parameterDefs = []parameterDef{
	{ParamT2M, "Temperature at 2 m", "°C", func(r *ObservationRecord) **float64 { return &r.T2M }},
	{ParamT2MMax, "Maximum temperature at 2 m", "°C", func(r *ObservationRecord) **float64 { return &r.T2MMax }},
	{ParamT2MMin, "Minimum temperature at 2 m", "°C", func(r *ObservationRecord) **float64 { return &r.T2MMin }},
	{ParamRH2M, "Relative humidity at 2 m", "%", func(r *ObservationRecord) **float64 { return &r.RH2M }},
	{ParamWS2M, "Wind speed at 2 m", "m/s", func(r *ObservationRecord) **float64 { return &r.WS2M }},
	{ParamWD2M, "Wind direction at 2 m", "°", func(r *ObservationRecord) **float64 { return &r.WD2M }},
	{ParamPrecipitation, "Precipitation (corrected)", "mm/day", func(r *ObservationRecord) **float64 { return &r.PrecTotCorr }},
	{ParamPS, "Surface pressure", "kPa", func(r *ObservationRecord) **float64 { return &r.PS }},
	{ParamAllSkySW, "All-sky surface shortwave irradiance", "kWh/m²/day", func(r *ObservationRecord) **float64 { return &r.AllSkySW }},
	{ParamClearSkySW, "Clear-sky surface shortwave irradiance", "kWh/m²/day", func(r *ObservationRecord) **float64 { return &r.ClearSkySW }},
	{ParamAllSkyLW, "All-sky surface longwave irradiance", "kWh/m²/day", func(r *ObservationRecord) **float64 { return &r.AllSkyLW }},
	{ParamTOASW, "Top-of-atmosphere shortwave irradiance", "kWh/m²/day", func(r *ObservationRecord) **float64 { return &r.TOASW }},
	{ParamT2MDew, "Dew point at 2 m", "°C", func(r *ObservationRecord) **float64 { return &r.T2MDew }},
	{ParamT2MWet, "Wet bulb temperature at 2 m", "°C", func(r *ObservationRecord) **float64 { return &r.T2MWet }},
	{ParamTS, "Earth skin temperature", "°C", func(r *ObservationRecord) **float64 { return &r.TS }},
	{ParamT10M, "Temperature at 10 m", "°C", func(r *ObservationRecord) **float64 { return &r.T10M }},
	{ParamQV2M, "Specific humidity at 2 m", "g/kg", func(r *ObservationRecord) **float64 { return &r.QV2M }},
	{ParamU2M, "Eastward wind at 2 m", "m/s", func(r *ObservationRecord) **float64 { return &r.U2M }},
	{ParamV2M, "Northward wind at 2 m", "m/s", func(r *ObservationRecord) **float64 { return &r.V2M }},
	{ParamWS10M, "Wind speed at 10 m", "m/s", func(r *ObservationRecord) **float64 { return &r.WS10M }},
	{ParamWS50M, "Wind speed at 50 m", "m/s", func(r *ObservationRecord) **float64 { return &r.WS50M }},
	{ParamUVIndex, "All-sky surface UV index", "", func(r *ObservationRecord) **float64 { return &r.UVIndex }},
	{ParamFrostDays, "Frost days", "days", func(r *ObservationRecord) **float64 { return &r.FrostDays }},
}

var parameterIndex = func() map[Parameter]int {
	idx := make(map[Parameter]int, len(parameterDefs))
	for i, d := range parameterDefs {
		idx[d.key] = i
	}
	return idx
}()

// AllParameters returns every supported parameter in canonical order.
func AllParameters() []Parameter {
	out := make([]Parameter, 0, len(parameterDefs))
	for _, d := range parameterDefs {
		out = append(out, d.key)
	}
	return out
}

// Valid reports whether p is a supported parameter.
func (p Parameter) Valid() bool {
	_, ok := parameterIndex[p]
	return ok
}

// Unit returns the display unit of p, or "" for unknown parameters.
func (p Parameter) Unit() string {
	if i, ok := parameterIndex[p]; ok {
		return parameterDefs[i].unit
	}
	return ""
}

// Name returns the human readable name of p.
func (p Parameter) Name() string {
	if i, ok := parameterIndex[p]; ok {
		return parameterDefs[i].name
	}
	return string(p)
}

// ParseParameters converts raw keys into parameters, preserving order and dropping
// duplicates. Keys are matched case-insensitively.
func ParseParameters(keys []string) ([]Parameter, error) {
	out := make([]Parameter, 0, len(keys))
	seen := make(map[Parameter]bool, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		p := Parameter(strings.ToUpper(k))
		if !p.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, k)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// Value returns the value of p on the record and whether it is present.
func (r ObservationRecord) Value(p Parameter) (float64, bool) {
	i, ok := parameterIndex[p]
	if !ok {
		return 0, false
	}
	v := *parameterDefs[i].field(&r)
	if v == nil {
		return 0, false
	}
	return *v, true
}

// ValueOr returns the value of p, or def when the field is absent.
func (r ObservationRecord) ValueOr(p Parameter, def float64) float64 {
	if v, ok := r.Value(p); ok {
		return v
	}
	return def
}

// Set stores v for p. Unknown parameters are ignored.
func (r *ObservationRecord) Set(p Parameter, v float64) {
	i, ok := parameterIndex[p]
	if !ok {
		return
	}
	*parameterDefs[i].field(r) = &v
}
