package weather

import (
	"fmt"
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown      Condition = "unknown"
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
)

// Location is the identity of a place the dashboard shows weather for.
// It is a value type and never mutated after resolution.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Name))
}

// Date is a calendar day that marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date format: %s", string(b))
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HourlyForecast is one forecast hour. Wind speed is km/h, pressure hPa.
type HourlyForecast struct {
	Datetime      time.Time `json:"datetime"`
	Hour          int       `json:"hour"`
	Temperature   float64   `json:"temperature"`
	Condition     Condition `json:"condition"`
	Precipitation float64   `json:"precipitation"`
	WindSpeed     float64   `json:"wind_speed"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Source        string    `json:"source"`
}

// ForecastDay groups the hours of one calendar day in ascending order.
type ForecastDay struct {
	Date   string           `json:"date"`
	Hourly []HourlyForecast `json:"hourly"`
}

// CurrentWeather is the headline of the dashboard.
type CurrentWeather struct {
	Temperature float64   `json:"temperature"`
	Condition   Condition `json:"condition"`
	Icon        string    `json:"icon"`
	Timestamp   time.Time `json:"timestamp"`
}

// Details holds the secondary readings shown next to the current conditions.
type Details struct {
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
	Pressure      float64 `json:"pressure"`
	FeelsLike     float64 `json:"feelsLike"`
	UVIndex       float64 `json:"uvIndex"`
	Visibility    float64 `json:"visibility"`
	Precipitation float64 `json:"precipitation"`
}

// WeatherData is the complete forecast view for one location.
type WeatherData struct {
	Location Location       `json:"location"`
	Current  CurrentWeather `json:"current"`
	Details  Details        `json:"details"`
	Forecast []ForecastDay  `json:"forecast"`
}

// AirQuality is a pollutant reading with its derived classification.
type AirQuality struct {
	AQI          int     `json:"aqi"`
	PM25         float64 `json:"pm25"`
	PM10         float64 `json:"pm10"`
	O3           float64 `json:"o3"`
	NO2          float64 `json:"no2"`
	SO2          float64 `json:"so2"`
	CO           float64 `json:"co"`
	Category     string  `json:"category"`
	Label        string  `json:"label"`
	Color        string  `json:"color"`
	HealthAdvice string  `json:"healthAdvice"`
}

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	SeverityMinor    AlertSeverity = "minor"
	SeverityModerate AlertSeverity = "moderate"
	SeveritySevere   AlertSeverity = "severe"
)

// AlertType names the hazard an alert warns about.
type AlertType string

const (
	AlertStorm AlertType = "storm"
	AlertRain  AlertType = "rain"
	AlertWind  AlertType = "wind"
	AlertHeat  AlertType = "heat"
	AlertCold  AlertType = "cold"
	AlertFog   AlertType = "fog"
)

// Alert is a weather warning for one or more areas.
type Alert struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Severity    AlertSeverity `json:"severity"`
	Type        AlertType     `json:"type"`
	StartTime   time.Time     `json:"startTime"`
	EndTime     time.Time     `json:"endTime"`
	Areas       []string      `json:"areas"`
}

// NewsArticle is a weather news item.
type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
}

// Astronomy holds sun and moon information for a location and day.
type Astronomy struct {
	Location  Location  `json:"location"`
	Date      Date      `json:"date"`
	Sunrise   time.Time `json:"sunrise"`
	Sunset    time.Time `json:"sunset"`
	DayLength string    `json:"dayLength"`
	MoonPhase string    `json:"moonPhase"`
}
