package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	// NASAPowerBaseURL is the root of the POWER temporal API.
	NASAPowerBaseURL = "https://power.larc.nasa.gov/api/temporal"

	// NASA POWER rejects requests with more than 20 parameters.
	maxParamsPerRequest = 20
	// Value used by POWER for missing observations.
	powerFillValue = -999.0
	// POWER publishes data with a lag; hourly history ends yesterday.
	powerHistoryDays = 3
	// Used for hours whose history has no surface pressure.
	standardPressureHPa = 1013.25

	powerDailyLayout  = "20060102"
	powerHourlyLayout = "2006010215"
)

var powerHourlyParams = []string{
	string(weather.ParamT2M),
	string(weather.ParamRH2M),
	string(weather.ParamPS),
	string(weather.ParamWS10M),
	string(weather.ParamPrecipitation),
}

// NASAPowerProvider serves daily climate series and a persistence-based hourly
// projection from the NASA POWER point API.
type NASAPowerProvider struct {
	name      string
	baseURL   string
	community string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
	now       func() time.Time
}

// NewNASAPowerProvider creates a provider. An empty baseURL selects NASAPowerBaseURL.
func NewNASAPowerProvider(client *http.Client, baseURL string) *NASAPowerProvider {
	if baseURL == "" {
		baseURL = NASAPowerBaseURL
	}
	return &NASAPowerProvider{
		name:      "nasapower",
		baseURL:   strings.TrimRight(baseURL, "/"),
		community: "RE",
		httpCfg:   newHTTPConfig(client),
		circuit:   newCircuitBreaker("nasapower"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (p *NASAPowerProvider) Name() string {
	return p.name
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

func (p *NASAPowerProvider) query(ctx context.Context, temporal string, loc weather.Location, start, end string,
	params []string,
) (map[string]map[string]float64, error) {
	values := url.Values{}
	values.Set("parameters", strings.Join(params, ","))
	values.Set("community", p.community)
	values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	values.Set("start", start)
	values.Set("end", end)
	values.Set("format", "JSON")
	values.Set("time-standard", "UTC")

	u := fmt.Sprintf("%s/%s/point?%s", p.baseURL, temporal, values.Encode())

	var payload powerResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, fmt.Errorf("nasapower %s: %w", temporal, err)
	}
	return payload.Properties.Parameter, nil
}

// FetchDaily returns one record per day between from and to, in ascending order.
// Parameters are requested in chunks; FROST_DAYS is derived from T2M_MIN.
func (p *NASAPowerProvider) FetchDaily(ctx context.Context, loc weather.Location, from, to weather.Date,
	params []weather.Parameter,
) ([]weather.ObservationRecord, error) {
	if to.Before(from.Time) {
		return nil, fmt.Errorf("nasapower: end %s before start %s", to, from)
	}

	wantFrost := false
	keys := make([]string, 0, len(params)+1)
	seen := make(map[weather.Parameter]bool, len(params)+1)
	for _, param := range params {
		if param == weather.ParamFrostDays {
			wantFrost = true
			continue
		}
		if !seen[param] {
			seen[param] = true
			keys = append(keys, string(param))
		}
	}
	if wantFrost && !seen[weather.ParamT2MMin] {
		keys = append(keys, string(weather.ParamT2MMin))
	}

	byDate := make(map[string]*weather.ObservationRecord)
	for start := 0; start < len(keys); start += maxParamsPerRequest {
		end := min(start+maxParamsPerRequest, len(keys))
		series, err := p.query(ctx, "daily", loc, from.Format(powerDailyLayout), to.Format(powerDailyLayout), keys[start:end])
		if err != nil {
			return nil, err
		}
		for key, values := range series {
			param := weather.Parameter(key)
			if !param.Valid() {
				continue
			}
			for stamp, v := range values {
				if v == powerFillValue {
					continue
				}
				rec, err := recordFor(byDate, stamp)
				if err != nil {
					return nil, err
				}
				rec.Set(param, v)
			}
		}
	}

	out := make([]weather.ObservationRecord, 0, len(byDate))
	for _, rec := range byDate {
		if wantFrost {
			if tmin, ok := rec.Value(weather.ParamT2MMin); ok {
				frost := 0.0
				if tmin <= 0 {
					frost = 1
				}
				rec.Set(weather.ParamFrostDays, frost)
			}
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func recordFor(byDate map[string]*weather.ObservationRecord, stamp string) (*weather.ObservationRecord, error) {
	if rec, ok := byDate[stamp]; ok {
		return rec, nil
	}
	t, err := time.Parse(powerDailyLayout, stamp)
	if err != nil {
		return nil, fmt.Errorf("nasapower: invalid date key %q: %w", stamp, err)
	}
	rec := &weather.ObservationRecord{Date: weather.NewDate(t)}
	byDate[stamp] = rec
	return rec, nil
}

// mean accumulates the defined values of one field.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64, ok bool) {
	if ok {
		m.sum += v
		m.n++
	}
}

// orDefault returns the mean, or def when no value was defined.
func (m mean) orDefault(def float64) float64 {
	if m.n == 0 {
		return def
	}
	return m.sum / float64(m.n)
}

type hourlySample struct {
	temp, humidity, pressure, wind, precip mean
}

// FetchHourly projects the next days from the recent hourly history: each forecast
// hour is the mean of the same UTC hour over the history window.
func (p *NASAPowerProvider) FetchHourly(ctx context.Context, loc weather.Location, days int) ([]weather.HourlyForecast, error) {
	today := weather.NewDate(p.now())
	end := today.AddDate(0, 0, -1)
	start := today.AddDate(0, 0, -powerHistoryDays)

	series, err := p.query(ctx, "hourly", loc, start.Format(powerDailyLayout), end.Format(powerDailyLayout), powerHourlyParams)
	if err != nil {
		return nil, err
	}

	var byHour [24]hourlySample
	for stamp, temp := range series[string(weather.ParamT2M)] {
		if temp == powerFillValue {
			continue
		}
		t, err := time.Parse(powerHourlyLayout, stamp)
		if err != nil {
			continue
		}
		s := &byHour[t.Hour()]
		s.temp.add(temp, true)
		s.humidity.add(powerValue(series, weather.ParamRH2M, stamp))
		if ps, ok := powerValue(series, weather.ParamPS, stamp); ok {
			// kPa to hPa
			s.pressure.add(ps*10, true)
		}
		if ws, ok := powerValue(series, weather.ParamWS10M, stamp); ok {
			s.wind.add(metrics.MSToKMH(ws), true)
		}
		s.precip.add(powerValue(series, weather.ParamPrecipitation, stamp))
	}

	var out []weather.HourlyForecast
	for d := 0; d < days; d++ {
		for h := 0; h < 24; h++ {
			s := byHour[h]
			if s.temp.n == 0 {
				continue
			}
			hf := weather.HourlyForecast{
				Datetime:      today.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour),
				Hour:          h,
				Temperature:   s.temp.orDefault(0),
				Humidity:      s.humidity.orDefault(weather.DefaultHumidity),
				Pressure:      s.pressure.orDefault(standardPressureHPa),
				WindSpeed:     s.wind.orDefault(metrics.MSToKMH(weather.DefaultWindSpeed)),
				Precipitation: s.precip.orDefault(0),
				Source:        p.name,
			}
			hf.Condition = weather.DeriveCondition(hf.Precipitation, hf.Humidity)
			hf.Icon = weather.ConditionIcon(hf.Condition)
			hf.Description = string(hf.Condition)
			out = append(out, hf)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("nasapower: no hourly history for %s", loc.Name)
	}
	return out, nil
}

// powerValue reports a value of p at stamp; fill values count as missing.
func powerValue(series map[string]map[string]float64, p weather.Parameter, stamp string) (float64, bool) {
	v, ok := series[string(p)][stamp]
	if !ok || v == powerFillValue {
		return 0, false
	}
	return v, true
}
