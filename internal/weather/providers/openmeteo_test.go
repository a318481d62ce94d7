package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hectormalot/omgo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type fakeForecaster struct {
	forecast *omgo.Forecast
	err      error
	opts     *omgo.Options
}

func (f *fakeForecaster) Forecast(_ context.Context, _ omgo.Location, opts *omgo.Options) (*omgo.Forecast, error) {
	f.opts = opts
	return f.forecast, f.err
}

func TestOpenMeteoFetchHourly(t *testing.T) {
	base := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	var times []time.Time
	for i := 0; i < 72; i++ {
		times = append(times, base.Add(time.Duration(i)*time.Hour))
	}
	metricsFor := func(v float64) []float64 {
		out := make([]float64, len(times))
		for i := range out {
			out[i] = v
		}
		return out
	}

	fake := &fakeForecaster{forecast: &omgo.Forecast{
		HourlyTimes: times,
		HourlyMetrics: map[string][]float64{
			"temperature_2m":       metricsFor(28),
			"relative_humidity_2m": metricsFor(70),
			"precipitation":        metricsFor(1.2),
			"wind_speed_10m":       metricsFor(12),
			"surface_pressure":     metricsFor(1008),
			"weather_code":         metricsFor(61),
		},
	}}
	p := &OpenMeteoProvider{name: "openmeteo", client: fake}

	hours, err := p.FetchHourly(context.Background(), hanoi, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hours) != 48 {
		t.Fatalf("expected 48 hours, got %d", len(hours))
	}
	if fake.opts.WindspeedUnit != "kmh" || fake.opts.Timezone != "UTC" {
		t.Fatalf("unexpected options: %+v", fake.opts)
	}
	h := hours[5]
	if h.Hour != 5 || h.Temperature != 28 || h.Pressure != 1008 {
		t.Fatalf("unexpected hour: %+v", h)
	}
	if h.Condition != weather.ConditionRain || h.Description != "Rain" || h.Source != "openmeteo" {
		t.Fatalf("unexpected classification: %+v", h)
	}
}

func TestOpenMeteoFetchHourlyPropagatesErrors(t *testing.T) {
	p := &OpenMeteoProvider{name: "openmeteo", client: &fakeForecaster{err: errors.New("boom")}}
	if _, err := p.FetchHourly(context.Background(), hanoi, 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestMapOpenMeteoCondition(t *testing.T) {
	cases := map[int]weather.Condition{
		0:  weather.ConditionClear,
		2:  weather.ConditionPartlyCloudy,
		3:  weather.ConditionCloudy,
		45: weather.ConditionCloudy,
		63: weather.ConditionRain,
		95: weather.ConditionRain,
		73: weather.ConditionSnow,
		99: weather.ConditionRain,
		30: weather.ConditionUnknown,
	}
	for code, want := range cases {
		if got := mapOpenMeteoCondition(code); got != want {
			t.Errorf("code %d: expected %s, got %s", code, want, got)
		}
	}
}

func TestOpenMeteoAirQuality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") != "21.0285" {
			t.Errorf("unexpected latitude %q", r.URL.Query().Get("latitude"))
		}
		_, _ = w.Write([]byte(`{"current":{"us_aqi":87.6,"pm2_5":28.1,"pm10":40,"ozone":60,
			"nitrogen_dioxide":12,"sulphur_dioxide":3,"carbon_monoxide":300}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoAirQualityProvider(srv.Client(), srv.URL)
	aq, err := p.FetchAirQuality(context.Background(), hanoi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aq.AQI != 88 || aq.PM25 != 28.1 || aq.CO != 300 {
		t.Fatalf("unexpected reading: %+v", aq)
	}
}

func TestOpenMeteoAirQualityMissingIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"pm2_5":10}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoAirQualityProvider(srv.Client(), srv.URL)
	if _, err := p.FetchAirQuality(context.Background(), hanoi); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
