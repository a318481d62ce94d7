package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/kelvins/geocoder"
)

// GoogleGeocoder resolves place names through the Google Geocoding API.
type GoogleGeocoder struct {
	country string
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder configures the geocoder with an API key. Names are resolved
// within country.
func NewGoogleGeocoder(apiKey, country string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{country: country, lookup: geocoder.Geocoding}
}

// Geocode resolves name to coordinates. The underlying client is not context
// aware, so cancellation only stops waiting for the result.
func (g *GoogleGeocoder) Geocode(ctx context.Context, name string) (weather.Location, error) {
	name = strings.TrimSpace(name)

	type result struct {
		loc geocoder.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := g.lookup(geocoder.Address{City: name, Country: g.country})
		ch <- result{loc, err}
	}()

	select {
	case <-ctx.Done():
		return weather.Location{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return weather.Location{}, fmt.Errorf("geocode %q: %w", name, r.err)
		}
		return weather.Location{Name: name, Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}, nil
	}
}
