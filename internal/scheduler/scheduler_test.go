package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type fakeService struct {
	mu        sync.Mutex
	refreshed map[string]int
	alerts    map[string][]weather.Alert
	climErr   error
}

func (f *fakeService) ResolveLocation(_ context.Context, name string) (weather.Location, error) {
	if name == "Atlantis" {
		return weather.Location{}, weather.ErrUnknownLocation
	}
	return weather.Location{Name: name}, nil
}

func (f *fakeService) RefreshClimate(_ context.Context, loc weather.Location, windowDays int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshed == nil {
		f.refreshed = map[string]int{}
	}
	f.refreshed[loc.Name] = windowDays
	return f.climErr
}

func (f *fakeService) AlertsFor(_ context.Context, loc weather.Location) ([]weather.Alert, error) {
	return f.alerts[loc.Name], nil
}

type fakePublisher struct {
	mu   sync.Mutex
	err  error
	sent map[string][]string
}

func (f *fakePublisher) PublishAlerts(_ context.Context, loc weather.Location, alerts []weather.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = map[string][]string{}
	}
	for _, a := range alerts {
		f.sent[loc.Name] = append(f.sent[loc.Name], a.ID)
	}
	return nil
}

type fakePruner struct{ cutoff time.Time }

func (f *fakePruner) Prune(cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, nil
}

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestScheduler(svc Service, opts Options) *Scheduler {
	s := New(svc, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return testNow }
	return s
}

func TestRunOncePublishesNewAlertsOnce(t *testing.T) {
	svc := &fakeService{alerts: map[string][]weather.Alert{
		"Hà Nội": {
			{ID: "a1", EndTime: testNow.Add(time.Hour)},
			{ID: "a2", EndTime: testNow.Add(2 * time.Hour)},
		},
	}}
	pub := &fakePublisher{}
	s := newTestScheduler(svc, Options{
		Locations:         []string{"Hà Nội", "Huế", "Atlantis"},
		ClimateWindowDays: 30,
		Publisher:         pub,
	})

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	if got := pub.sent["Hà Nội"]; len(got) != 2 {
		t.Fatalf("expected 2 published alerts, got %v", got)
	}
	if len(pub.sent["Huế"]) != 0 {
		t.Fatalf("expected nothing for Huế, got %v", pub.sent["Huế"])
	}
	if svc.refreshed["Huế"] != 30 || svc.refreshed["Hà Nội"] != 30 {
		t.Fatalf("expected 30-day refreshes, got %v", svc.refreshed)
	}
	if _, ok := svc.refreshed["Atlantis"]; ok {
		t.Fatal("unresolved location must not be refreshed")
	}
}

func TestRunOnceRetriesFailedPublish(t *testing.T) {
	svc := &fakeService{
		alerts:  map[string][]weather.Alert{"Huế": {{ID: "a1", EndTime: testNow.Add(time.Hour)}}},
		climErr: errors.New("nasa down"),
	}
	pub := &fakePublisher{err: errors.New("broker down")}
	s := newTestScheduler(svc, Options{Locations: []string{"Huế"}, Publisher: pub})

	s.RunOnce(context.Background())
	pub.err = nil
	s.RunOnce(context.Background())

	if got := pub.sent["Huế"]; len(got) != 1 || got[0] != "a1" {
		t.Fatalf("expected alert to be retried, got %v", got)
	}
	if len(svc.refreshed) != 0 {
		t.Fatal("climate refresh should be skipped without a window")
	}
}

func TestRunOnceExpiresSeenAlertsAndPrunes(t *testing.T) {
	svc := &fakeService{alerts: map[string][]weather.Alert{
		"Huế": {{ID: "old", EndTime: testNow.Add(-time.Hour)}},
	}}
	pruner := &fakePruner{}
	s := newTestScheduler(svc, Options{
		Locations: []string{"Huế"},
		Publisher: &fakePublisher{},
		Pruner:    pruner,
		MaxAge:    24 * time.Hour,
	})

	s.RunOnce(context.Background())

	if len(s.seen) != 0 {
		t.Fatalf("expected expired alerts to be dropped, got %v", s.seen)
	}
	if want := testNow.Add(-24 * time.Hour); !pruner.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, pruner.cutoff)
	}
}

func TestStartWithoutLocations(t *testing.T) {
	s := newTestScheduler(&fakeService{}, Options{})
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
