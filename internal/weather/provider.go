package weather

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when nothing is stored for a location or range.
var ErrNotFound = errors.New("no weather data for location")

// ForecastProvider abstracts an hourly forecast source (e.g. Open-Meteo, NASA POWER).
type ForecastProvider interface {
	Name() string
	FetchHourly(ctx context.Context, loc Location, days int) ([]HourlyForecast, error)
}

// ClimateProvider returns daily observation records for a date range.
type ClimateProvider interface {
	Name() string
	FetchDaily(ctx context.Context, loc Location, from, to Date, params []Parameter) ([]ObservationRecord, error)
}

// AirQualityProvider returns current pollutant levels. Classification fields are
// filled in by the service.
type AirQualityProvider interface {
	FetchAirQuality(ctx context.Context, loc Location) (AirQuality, error)
}

// NewsProvider returns the latest weather news.
type NewsProvider interface {
	FetchNews(ctx context.Context) ([]NewsArticle, error)
}

// Geocoder resolves free-form place names that are not in the catalog.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (Location, error)
}

// AlertPublisher forwards newly raised alerts, e.g. to a message broker.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, loc Location, alerts []Alert) error
}

// Store is the contract the in-memory store (and the SQLite store) must satisfy.
// Records are kept per location in ascending date order, one per day.
type Store interface {
	SaveRecords(loc Location, records []ObservationRecord) error
	GetLatest(loc Location) (ObservationRecord, error)
	GetRange(loc Location, from, to time.Time) ([]ObservationRecord, error)
}
