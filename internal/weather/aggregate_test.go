package weather

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	records := []ObservationRecord{
		rec(t, "2024-01-01", ParamT2M, 10.0),
		rec(t, "2024-01-02", ParamT2M, 20.0),
	}
	got, err := Summarize(records, ParamT2M)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ParameterStatistic{Current: 20, Average: 15, Min: 10, Max: 20, Unit: "°C"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSummarizeSkipsAbsentValues(t *testing.T) {
	records := []ObservationRecord{
		rec(t, "2024-01-01", ParamRH2M, 60.0),
		rec(t, "2024-01-02"),
		rec(t, "2024-01-03", ParamRH2M, 80.0),
		rec(t, "2024-01-04"),
	}
	got, err := Summarize(records, ParamRH2M)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Current != 80 || got.Average != 70 || got.Min != 60 || got.Max != 80 {
		t.Fatalf("unexpected statistic %+v", got)
	}
}

func TestSummarizeNoData(t *testing.T) {
	if _, err := Summarize(nil, ParamT2M); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty series, got %v", err)
	}
	records := []ObservationRecord{rec(t, "2024-01-01", ParamRH2M, 50.0)}
	if _, err := Summarize(records, ParamT2M); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for missing field, got %v", err)
	}
}

func TestSummarizeAllOmitsMissingParameters(t *testing.T) {
	records := []ObservationRecord{rec(t, "2024-01-01", ParamT2M, 25.0)}
	got := SummarizeAll(records, []Parameter{ParamT2M, ParamPS})
	if len(got) != 1 {
		t.Fatalf("expected 1 statistic, got %d", len(got))
	}
	if _, ok := Lookup(got, ParamT2M); !ok {
		t.Fatal("expected T2M statistic")
	}
}

func TestSummarizeAllKeepsParameterOrder(t *testing.T) {
	records := []ObservationRecord{
		rec(t, "2024-01-01", ParamT2M, 25.0, ParamPS, 100.0, ParamRH2M, 80.0, ParamWS2M, 3.0),
	}
	params := []Parameter{ParamWS2M, ParamT2M, ParamRH2M, ParamPS}
	got := SummarizeAll(records, params)
	if len(got) != len(params) {
		t.Fatalf("expected %d statistics, got %d", len(params), len(got))
	}
	for i, p := range params {
		if got[i].Parameter != p {
			t.Fatalf("expected %s at position %d, got %s", p, i, got[i].Parameter)
		}
	}

	data, err := json.Marshal(got[:2])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), `[{"parameter":"WS2M","current":3,`) {
		t.Fatalf("unexpected JSON %s", data)
	}
	if strings.Index(string(data), `"WS2M"`) > strings.Index(string(data), `"T2M"`) {
		t.Fatalf("expected selection order in JSON, got %s", data)
	}
}

func TestGroupTotalsByMonth(t *testing.T) {
	records := []ObservationRecord{
		rec(t, "2024-02-01", ParamPrecipitation, 5.0),
		rec(t, "2024-02-15", ParamPrecipitation, 3.0),
		rec(t, "2024-03-01", ParamPrecipitation, 0.0),
		rec(t, "2024-03-02"),
		rec(t, "2024-01-31", ParamPrecipitation, 2.0),
	}
	got := GroupTotals(records, ParamPrecipitation, MonthKey)
	want := []GroupTotal{
		{Key: "2024-02", Total: 8, Days: 2},
		{Key: "2024-03", Total: 0, Days: 0},
		{Key: "2024-01", Total: 2, Days: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPressureTrendAndStdDev(t *testing.T) {
	records := []ObservationRecord{
		rec(t, "2024-01-01", ParamPS, 100.0),
		rec(t, "2024-01-02", ParamPS, 102.0),
		rec(t, "2024-01-03"),
		rec(t, "2024-01-04", ParamPS, 101.0),
	}
	if got := PressureTrend(records); got != -1 {
		t.Fatalf("expected trend -1, got %v", got)
	}
	if got := PressureTrend(records[:1]); got != 0 {
		t.Fatalf("expected trend 0 for a single value, got %v", got)
	}

	sd, err := StdDev(records, ParamPS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := math.Sqrt(2.0 / 3.0); math.Abs(sd-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, sd)
	}
	if _, err := StdDev(nil, ParamPS); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestMergeHourly(t *testing.T) {
	a := hourAt("2024-06-01", 9, 30, 70, 10, 0)
	a.Description, a.Source = "Clear sky", "openmeteo"
	b := hourAt("2024-06-01", 9, 32, 90, 14, 2)
	b.Description, b.Source = "rain", "nasapower"
	c := hourAt("2024-06-01", 9, 31, 80, 12, 1)
	c.Description, c.Source = "rain", "backup"

	got := MergeHourly([]HourlyForecast{a, b, c})
	if got.Temperature != 31 || got.Humidity != 80 || got.WindSpeed != 12 || got.Precipitation != 1 {
		t.Fatalf("unexpected averages %+v", got)
	}
	if got.Description != "rain" {
		t.Fatalf("expected majority description, got %q", got.Description)
	}
	if got.Source != "backup,nasapower,openmeteo" {
		t.Fatalf("unexpected sources %q", got.Source)
	}
	if got.Condition != ConditionRain || got.Icon != "cloud-rain" {
		t.Fatalf("unexpected condition %s / %s", got.Condition, got.Icon)
	}

	if empty := MergeHourly(nil); empty.Condition != ConditionUnknown {
		t.Fatalf("expected unknown condition for no readings, got %s", empty.Condition)
	}
}
