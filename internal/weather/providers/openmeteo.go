package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hectormalot/omgo"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenMeteoAirQualityURL is the Open-Meteo air quality endpoint.
const OpenMeteoAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

var openMeteoHourlyMetrics = []string{
	"temperature_2m", "relative_humidity_2m", "precipitation", "wind_speed_10m",
	"surface_pressure", "weather_code",
}

// forecaster is the subset of omgo.Client used by the provider.
type forecaster interface {
	Forecast(ctx context.Context, loc omgo.Location, opts *omgo.Options) (*omgo.Forecast, error)
}

// OpenMeteoProvider implements weather.ForecastProvider on top of the Open-Meteo API.
type OpenMeteoProvider struct {
	name   string
	client forecaster
}

func NewOpenMeteoProvider() (*OpenMeteoProvider, error) {
	client, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	return &OpenMeteoProvider{name: "openmeteo", client: client}, nil
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly returns hourly forecasts in UTC with metric units.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, loc weather.Location, days int) ([]weather.HourlyForecast, error) {
	location, err := omgo.NewLocation(loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, fmt.Errorf("openmeteo: invalid location: %w", err)
	}

	opts := &omgo.Options{
		Timezone:          "UTC",
		TemperatureUnit:   "celsius",
		WindspeedUnit:     "kmh",
		PrecipitationUnit: "mm",
		HourlyMetrics:     openMeteoHourlyMetrics,
	}
	forecast, err := p.client.Forecast(ctx, location, opts)
	if err != nil {
		return nil, fmt.Errorf("openmeteo: %w", err)
	}

	metric := func(name string, i int) float64 {
		values := forecast.HourlyMetrics[name]
		if i >= len(values) {
			return 0
		}
		return values[i]
	}

	var (
		out   []weather.HourlyForecast
		first string
		seen  int
	)
	for i, t := range forecast.HourlyTimes {
		t = t.UTC()
		date := t.Format(time.DateOnly)
		if date != first {
			if seen == days {
				break
			}
			first = date
			seen++
		}

		code := int(metric("weather_code", i))
		hf := weather.HourlyForecast{
			Datetime:      t,
			Hour:          t.Hour(),
			Temperature:   metric("temperature_2m", i),
			Humidity:      metric("relative_humidity_2m", i),
			Precipitation: metric("precipitation", i),
			WindSpeed:     metric("wind_speed_10m", i),
			Pressure:      metric("surface_pressure", i),
			Condition:     mapOpenMeteoCondition(code),
			Description:   weatherCodeText(code),
			Source:        p.name,
		}
		hf.Icon = weather.ConditionIcon(hf.Condition)
		out = append(out, hf)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("openmeteo: empty forecast")
	}
	return out, nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on WMO weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 2:
		return weather.ConditionPartlyCloudy
	case code == 3 || code == 45 || code == 48:
		return weather.ConditionCloudy
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82) || code >= 95:
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	default:
		return weather.ConditionUnknown
	}
}

func weatherCodeText(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code == 1:
		return "Mainly clear"
	case code == 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

// OpenMeteoAirQualityProvider implements weather.AirQualityProvider.
type OpenMeteoAirQualityProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoAirQualityProvider creates a provider. An empty baseURL selects
// OpenMeteoAirQualityURL.
func NewOpenMeteoAirQualityProvider(client *http.Client, baseURL string) *OpenMeteoAirQualityProvider {
	if baseURL == "" {
		baseURL = OpenMeteoAirQualityURL
	}
	return &OpenMeteoAirQualityProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: newHTTPConfig(client),
		circuit: newCircuitBreaker("openmeteo-airquality"),
	}
}

// FetchAirQuality returns current pollutant levels. Classification is left to the caller.
func (p *OpenMeteoAirQualityProvider) FetchAirQuality(ctx context.Context, loc weather.Location) (weather.AirQuality, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	values.Set("current", "us_aqi,pm2_5,pm10,ozone,nitrogen_dioxide,sulphur_dioxide,carbon_monoxide")
	values.Set("timezone", "UTC")

	var payload struct {
		Current *struct {
			USAQI           *float64 `json:"us_aqi"`
			PM25            float64  `json:"pm2_5"`
			PM10            float64  `json:"pm10"`
			Ozone           float64  `json:"ozone"`
			NitrogenDioxide float64  `json:"nitrogen_dioxide"`
			SulphurDioxide  float64  `json:"sulphur_dioxide"`
			CarbonMonoxide  float64  `json:"carbon_monoxide"`
		} `json:"current"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.AirQuality{}, fmt.Errorf("openmeteo air quality: %w", err)
	}
	if payload.Current == nil || payload.Current.USAQI == nil {
		return weather.AirQuality{}, fmt.Errorf("openmeteo air quality: %w", weather.ErrNotFound)
	}

	c := payload.Current
	return weather.AirQuality{
		AQI:  int(*c.USAQI + 0.5),
		PM25: c.PM25,
		PM10: c.PM10,
		O3:   c.Ozone,
		NO2:  c.NitrogenDioxide,
		SO2:  c.SulphurDioxide,
		CO:   c.CarbonMonoxide,
	}, nil
}
