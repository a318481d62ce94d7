package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var hue = weather.Location{Name: "Thừa Thiên Huế", Latitude: 16.4667, Longitude: 107.5833}

func day(t *testing.T, s string) weather.Date {
	t.Helper()
	d, err := weather.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func record(t *testing.T, date string, temp float64) weather.ObservationRecord {
	r := weather.ObservationRecord{Date: day(t, date)}
	r.Set(weather.ParamT2M, temp)
	return r
}

// stores returns each weather.Store implementation under test.
func stores(t *testing.T) map[string]weather.Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "weather.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlite.Close(); err != nil {
			t.Fatalf("close sqlite: %v", err)
		}
	})
	return map[string]weather.Store{
		"memory": NewMemoryStore(0, 0),
		"sqlite": sqlite,
	}
}

func TestStoreEmpty(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.GetLatest(hue); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			_, err := s.GetRange(hue, time.Now().AddDate(0, 0, -1), time.Now())
			if !errors.Is(err, weather.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreUpsertAndRange(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.SaveRecords(hue, []weather.ObservationRecord{
				record(t, "2024-03-02", 24),
				record(t, "2024-03-01", 23),
				record(t, "2024-03-03", 25),
			})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			// Replaces the existing day.
			if err := s.SaveRecords(hue, []weather.ObservationRecord{record(t, "2024-03-02", 30)}); err != nil {
				t.Fatalf("save: %v", err)
			}

			latest, err := s.GetLatest(hue)
			if err != nil {
				t.Fatalf("latest: %v", err)
			}
			if latest.Date.String() != "2024-03-03" {
				t.Fatalf("expected latest 2024-03-03, got %s", latest.Date)
			}

			got, err := s.GetRange(hue, day(t, "2024-03-01").Time, day(t, "2024-03-02").Time)
			if err != nil {
				t.Fatalf("range: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 records, got %d", len(got))
			}
			if got[0].Date.String() != "2024-03-01" {
				t.Fatalf("expected ascending order, got %s first", got[0].Date)
			}
			if v, _ := got[1].Value(weather.ParamT2M); v != 30 {
				t.Fatalf("expected upserted value 30, got %v", v)
			}

			// Keys are case-insensitive.
			other := weather.Location{Name: "  THỪA THIÊN HUẾ "}
			if _, err := s.GetLatest(other); err != nil {
				t.Fatalf("expected lookup by normalized key, got %v", err)
			}
		})
	}
}

func TestMemoryStoreRetention(t *testing.T) {
	s := NewMemoryStore(2, 0)
	_ = s.SaveRecords(hue, []weather.ObservationRecord{
		record(t, "2024-03-01", 1), record(t, "2024-03-02", 2), record(t, "2024-03-03", 3),
	})
	got, err := s.GetRange(hue, day(t, "2024-01-01").Time, day(t, "2024-12-31").Time)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 2 || got[0].Date.String() != "2024-03-02" {
		t.Fatalf("expected the two newest days, got %d records starting %s", len(got), got[0].Date)
	}

	aged := NewMemoryStore(0, 48*time.Hour)
	aged.now = func() time.Time { return time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC) }
	_ = aged.SaveRecords(hue, []weather.ObservationRecord{
		record(t, "2024-02-01", 1), record(t, "2024-03-01", 2), record(t, "2024-03-03", 3),
	})
	got, _ = aged.GetRange(hue, day(t, "2024-01-01").Time, day(t, "2024-12-31").Time)
	if len(got) != 2 || got[0].Date.String() != "2024-03-01" {
		t.Fatalf("expected records from 2024-03-01 on, got %d", len(got))
	}
}

func TestSQLitePrune(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	_ = s.SaveRecords(hue, []weather.ObservationRecord{record(t, "2024-03-01", 1), record(t, "2024-03-05", 2)})
	n, err := s.Prune(day(t, "2024-03-03").Time)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned row, got %d", n)
	}
	latest, err := s.GetLatest(hue)
	if err != nil || latest.Date.String() != "2024-03-05" {
		t.Fatalf("unexpected latest %v, %v", latest.Date, err)
	}
}

func TestBuildDSN(t *testing.T) {
	dir := t.TempDir()
	dsn, err := buildDSN(filepath.Join(dir, "nested", "app.db"))
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	want := "file:" + filepath.Join(dir, "nested", "app.db") + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
	if dsn != want {
		t.Fatalf("got %q, want %q", dsn, want)
	}

	dsn, _ = buildDSN("file:" + filepath.Join(dir, "x.db") + "?cache=shared")
	if dsn != "file:"+filepath.Join(dir, "x.db")+"?cache=shared&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
}
