package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/metrics"
)

var (
	// ErrNoProviders is returned when no provider is configured for a request.
	ErrNoProviders = errors.New("no weather providers configured")
	// ErrFetch wraps failures of upstream data sources.
	ErrFetch = errors.New("upstream fetch failed")
	// ErrInvalidArgument is returned for malformed requests.
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	// MaxForecastDays is the longest forecast the service assembles.
	MaxForecastDays = 7
	// MaxClimateDays bounds the climate series length of a single request.
	MaxClimateDays = 366
	// AlertHorizonDays is how far ahead alerts are evaluated.
	AlertHorizonDays = 3

	climateSource  = "NASA POWER"
	climateVersion = "2.0"
)

// Providers bundles the upstream data sources of the service. Any of them may be nil,
// in which case the matching operation fails with ErrNoProviders.
type Providers struct {
	Forecast   []ForecastProvider
	Climate    ClimateProvider
	AirQuality AirQualityProvider
	News       NewsProvider
	Geocoder   Geocoder
}

// Service orchestrates fetching from providers, persisting climate series and
// deriving dashboard views.
type Service struct {
	store     Store
	providers Providers
	catalog   *Catalog
	rules     AlertRules
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new Service. A nil catalog falls back to DefaultLocations.
func NewService(store Store, providers Providers, catalog *Catalog, logger *slog.Logger) *Service {
	if catalog == nil {
		catalog = NewCatalog(DefaultLocations)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		providers: providers,
		catalog:   catalog,
		rules:     DefaultAlertRules,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Locations returns the known locations sorted by name.
func (s *Service) Locations() []Location {
	return s.catalog.All()
}

// ResolveLocation looks a name up in the catalog and falls back to the geocoder.
func (s *Service) ResolveLocation(ctx context.Context, name string) (Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Location{}, fmt.Errorf("%w: empty location name", ErrInvalidArgument)
	}
	if loc, ok := s.catalog.Lookup(name); ok {
		return loc, nil
	}
	if s.providers.Geocoder == nil {
		return Location{}, fmt.Errorf("%w: %s", ErrUnknownLocation, name)
	}

	loc, err := s.providers.Geocoder.Geocode(ctx, name)
	if err != nil {
		s.logger.Warn("geocoding failed", slog.String("location", name), slog.Any("error", err))
		return Location{}, fmt.Errorf("%w: %s: %w", ErrUnknownLocation, name, err)
	}
	if loc.Name == "" {
		loc.Name = name
	}
	s.catalog.Add(loc)
	return loc, nil
}

// Forecast fetches hourly forecasts from all providers concurrently, merges readings
// of the same hour and assembles the dashboard view for up to days days.
func (s *Service) Forecast(ctx context.Context, name string, days int) (WeatherData, error) {
	if days <= 0 || days > MaxForecastDays {
		return WeatherData{}, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidArgument, MaxForecastDays)
	}
	loc, err := s.ResolveLocation(ctx, name)
	if err != nil {
		return WeatherData{}, err
	}
	return s.forecastFor(ctx, loc, days)
}

func (s *Service) forecastFor(ctx context.Context, loc Location, days int) (WeatherData, error) {
	s.logger.Debug("forecast requested", slog.String("location", loc.Key()), slog.Int("days", days))
	if len(s.providers.Forecast) == 0 {
		return WeatherData{}, ErrNoProviders
	}

	type hourKey int64

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		hourReadings = make(map[hourKey][]HourlyForecast)
		errs         []error
	)

	for _, p := range s.providers.Forecast {
		wg.Add(1)
		go func(p ForecastProvider) {
			defer wg.Done()

			readings, err := p.FetchHourly(ctx, loc, days)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Log and continue; we want partial success when possible.
				s.logger.Warn("forecast provider failed", slog.String("provider", p.Name()),
					slog.String("location", loc.Key()), slog.Any("error", err))
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
				return
			}
			for _, r := range readings {
				r.Datetime = r.Datetime.UTC().Truncate(time.Hour)
				k := hourKey(r.Datetime.Unix())
				hourReadings[k] = append(hourReadings[k], r)
			}
		}(p)
	}
	wg.Wait()

	if len(hourReadings) == 0 {
		if len(errs) == 0 {
			return WeatherData{}, fmt.Errorf("%w: no forecast data available", ErrFetch)
		}
		return WeatherData{}, fmt.Errorf("%w: %w", ErrFetch, errors.Join(errs...))
	}

	keys := make([]hourKey, 0, len(hourReadings))
	for k := range hourReadings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var forecast []ForecastDay
	for _, k := range keys {
		hour := MergeHourly(hourReadings[k])
		hour.Hour = hour.Datetime.Hour()
		if hour.Condition == "" || hour.Condition == ConditionUnknown {
			hour.Condition = DeriveCondition(hour.Precipitation, hour.Humidity)
		}
		if hour.Icon == "" {
			hour.Icon = ConditionIcon(hour.Condition)
		}

		date := hour.Datetime.Format(dateLayout)
		if n := len(forecast); n == 0 || forecast[n-1].Date != date {
			if n == days {
				break
			}
			forecast = append(forecast, ForecastDay{Date: date})
		}
		last := &forecast[len(forecast)-1]
		last.Hourly = append(last.Hourly, hour)
	}

	return buildWeatherData(loc, forecast, s.now()), nil
}

// buildWeatherData picks the latest hour not after now as the current conditions,
// falling back to the first forecast hour.
func buildWeatherData(loc Location, forecast []ForecastDay, now time.Time) WeatherData {
	var current HourlyForecast
	found := false
	for _, day := range forecast {
		for _, h := range day.Hourly {
			if !found || !h.Datetime.After(now) {
				current = h
				found = true
			}
		}
	}

	return WeatherData{
		Location: loc,
		Current: CurrentWeather{
			Temperature: current.Temperature,
			Condition:   current.Condition,
			Icon:        current.Icon,
			Timestamp:   current.Datetime,
		},
		Details: Details{
			Humidity:      current.Humidity,
			WindSpeed:     current.WindSpeed,
			Pressure:      current.Pressure,
			FeelsLike:     metrics.FeelsLike(current.Temperature, current.Humidity, current.WindSpeed),
			Visibility:    10,
			Precipitation: current.Precipitation,
		},
		Forecast: forecast,
	}
}

// DateRange is an inclusive range of days.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Days returns the number of days in the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start.Time).Hours()/24) + 1
}

// Metadata describes where a climate report came from.
type Metadata struct {
	Source      string    `json:"source"`
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ClimateReport is the satellite-derived climate view for a location and date range.
type ClimateReport struct {
	Location             Location                      `json:"location"`
	DateRange            DateRange                     `json:"dateRange"`
	Parameters           []NamedStatistic              `json:"parameters"`
	TimeSeries           []ObservationRecord           `json:"timeSeries"`
	Derived              []DerivedDay                  `json:"derived"`
	Evapotranspiration   *ETSummary                    `json:"evapotranspiration,omitempty"`
	MonthlyPrecipitation []GroupTotal                  `json:"monthlyPrecipitation"`
	PressureTrend        float64                       `json:"pressureTrend"`
	PressureStdDev       *float64                      `json:"pressureStdDev,omitempty"`
	WindRose             []metrics.SectorFrequency     `json:"windRose"`
	CloudDistribution    map[metrics.CloudCategory]int `json:"cloudDistribution"`
	UVDistribution       map[metrics.UVBand]int        `json:"uvDistribution"`
	Metadata             Metadata                      `json:"metadata"`
}

// BuildClimateReport runs derivation and aggregation over a time-ascending series.
func BuildClimateReport(loc Location, dr DateRange, records []ObservationRecord, params []Parameter,
	updated time.Time,
) ClimateReport {
	derived := DeriveSeries(records)
	report := ClimateReport{
		Location:             loc,
		DateRange:            dr,
		Parameters:           SummarizeAll(records, params),
		TimeSeries:           records,
		Derived:              derived,
		MonthlyPrecipitation: GroupTotals(records, ParamPrecipitation, MonthKey),
		PressureTrend:        PressureTrend(records),
		WindRose:             metrics.WindRose(Values(records, ParamWD2M)),
		CloudDistribution:    CloudDistribution(derived),
		UVDistribution:       UVDistribution(derived),
		Metadata: Metadata{
			Source:      climateSource,
			Version:     climateVersion,
			LastUpdated: updated,
		},
	}
	if et, err := SummarizeET(derived); err == nil {
		report.Evapotranspiration = &et
	}
	if sd, err := StdDev(records, ParamPS); err == nil {
		report.PressureStdDev = &sd
	}
	return report
}

// Climate returns the climate report for a location. Stored series are used when they
// cover the whole range; otherwise the climate provider is queried and the result stored.
func (s *Service) Climate(ctx context.Context, name string, dr DateRange, params []Parameter) (ClimateReport, error) {
	if dr.End.Before(dr.Start.Time) {
		return ClimateReport{}, fmt.Errorf("%w: end date before start date", ErrInvalidArgument)
	}
	if dr.Days() > MaxClimateDays {
		return ClimateReport{}, fmt.Errorf("%w: range exceeds %d days", ErrInvalidArgument, MaxClimateDays)
	}
	if len(params) == 0 {
		params = AllParameters()
	}

	loc, err := s.ResolveLocation(ctx, name)
	if err != nil {
		return ClimateReport{}, err
	}

	records, err := s.climateRecords(ctx, loc, dr)
	if err != nil {
		return ClimateReport{}, err
	}
	return BuildClimateReport(loc, dr, records, params, s.now()), nil
}

func (s *Service) climateRecords(ctx context.Context, loc Location, dr DateRange) ([]ObservationRecord, error) {
	stored, err := s.store.GetRange(loc, dr.Start.Time, dr.End.Time)
	switch {
	case err == nil && len(stored) >= dr.Days():
		return stored, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		s.logger.Warn("climate store lookup failed", slog.String("location", loc.Key()), slog.Any("error", err))
	}

	return s.fetchClimate(ctx, loc, dr)
}

func (s *Service) fetchClimate(ctx context.Context, loc Location, dr DateRange) ([]ObservationRecord, error) {
	if s.providers.Climate == nil {
		return nil, ErrNoProviders
	}

	records, err := s.providers.Climate.FetchDaily(ctx, loc, dr.Start, dr.End, AllParameters())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.providers.Climate.Name(), err)
	}
	DeriveFrostDays(records)
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date.Time) })

	if err := s.store.SaveRecords(loc, records); err != nil {
		s.logger.Error("failed to store climate records", slog.String("location", loc.Key()),
			slog.Any("error", err))
	}
	return records, nil
}

// RefreshClimate fetches the trailing window of daily records ending yesterday and
// stores them. It is used by the scheduler to keep the store warm.
func (s *Service) RefreshClimate(ctx context.Context, loc Location, windowDays int) error {
	if windowDays <= 0 {
		return fmt.Errorf("%w: window must be positive", ErrInvalidArgument)
	}
	end := NewDate(s.now().AddDate(0, 0, -1))
	start := Date{end.AddDate(0, 0, -(windowDays - 1))}
	_, err := s.fetchClimate(ctx, loc, DateRange{Start: start, End: end})
	return err
}

// LatestObservation returns the most recent stored daily record for a location.
func (s *Service) LatestObservation(ctx context.Context, name string) (ObservationRecord, error) {
	loc, err := s.ResolveLocation(ctx, name)
	if err != nil {
		return ObservationRecord{}, err
	}
	return s.store.GetLatest(loc)
}

// AirQuality fetches pollutant levels and classifies them.
func (s *Service) AirQuality(ctx context.Context, name string) (AirQuality, error) {
	if s.providers.AirQuality == nil {
		return AirQuality{}, ErrNoProviders
	}
	loc, err := s.ResolveLocation(ctx, name)
	if err != nil {
		return AirQuality{}, err
	}

	aq, err := s.providers.AirQuality.FetchAirQuality(ctx, loc)
	if err != nil {
		return AirQuality{}, fmt.Errorf("%w: air quality: %w", ErrFetch, err)
	}
	level := metrics.ClassifyAQI(aq.AQI)
	aq.Category = string(level.Category)
	aq.Label = level.Label
	aq.Color = level.Color
	aq.HealthAdvice = level.Advice
	return aq, nil
}

// Alerts evaluates the alert rules against the forecast of the named location.
func (s *Service) Alerts(ctx context.Context, name string) ([]Alert, error) {
	loc, err := s.ResolveLocation(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.AlertsFor(ctx, loc)
}

// AlertsFor evaluates alerts for an already resolved location.
func (s *Service) AlertsFor(ctx context.Context, loc Location) ([]Alert, error) {
	data, err := s.forecastFor(ctx, loc, AlertHorizonDays)
	if err != nil {
		return nil, err
	}
	alerts := s.rules.Evaluate(loc, data.Forecast)
	if alerts == nil {
		alerts = []Alert{}
	}
	return alerts, nil
}

// News returns the latest articles, newest first.
func (s *Service) News(ctx context.Context) ([]NewsArticle, error) {
	if s.providers.News == nil {
		return nil, ErrNoProviders
	}
	articles, err := s.providers.News.FetchNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: news: %w", ErrFetch, err)
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	return articles, nil
}
