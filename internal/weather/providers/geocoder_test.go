package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
)

func TestGoogleGeocoder(t *testing.T) {
	var got geocoder.Address
	g := &GoogleGeocoder{country: "Vietnam", lookup: func(a geocoder.Address) (geocoder.Location, error) {
		got = a
		return geocoder.Location{Latitude: 12.5, Longitude: 108.1}, nil
	}}

	loc, err := g.Geocode(context.Background(), " Buôn Ma Thuột ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.City != "Buôn Ma Thuột" || got.Country != "Vietnam" {
		t.Fatalf("unexpected address: %+v", got)
	}
	if loc.Name != "Buôn Ma Thuột" || loc.Latitude != 12.5 || loc.Longitude != 108.1 {
		t.Fatalf("unexpected location: %+v", loc)
	}
}

func TestGoogleGeocoderErrors(t *testing.T) {
	g := &GoogleGeocoder{lookup: func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("ZERO_RESULTS")
	}}
	if _, err := g.Geocode(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected error")
	}
}

func TestGoogleGeocoderCancellation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	g := &GoogleGeocoder{lookup: func(geocoder.Address) (geocoder.Location, error) {
		<-release
		return geocoder.Location{}, nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := g.Geocode(ctx, "Huế"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
