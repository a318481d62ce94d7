package weather

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseParameters(t *testing.T) {
	got, err := ParseParameters([]string{"t2m", " PRECTOTCORR ", "T2M", "", "ws2m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Parameter{ParamT2M, ParamPrecipitation, ParamWS2M}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := ParseParameters([]string{"T2M", "ELEVATION"}); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestRecordAccessors(t *testing.T) {
	var r ObservationRecord
	if _, ok := r.Value(ParamT2M); ok {
		t.Fatal("expected absent value")
	}
	if got := r.ValueOr(ParamT2M, DefaultTemperature); got != 20 {
		t.Fatalf("expected default 20, got %v", got)
	}

	r.Set(ParamT2M, 0)
	if v, ok := r.Value(ParamT2M); !ok || v != 0 {
		t.Fatalf("expected explicit zero to be present, got %v %v", v, ok)
	}
	r.Set("ELEVATION", 12)
	if _, ok := r.Value("ELEVATION"); ok {
		t.Fatal("unknown parameters must be ignored")
	}
}

func TestParameterMetadata(t *testing.T) {
	for _, p := range AllParameters() {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
		if p.Name() == "" || p.Name() == string(p) {
			t.Errorf("%s has no display name", p)
		}
	}
	if ParamPS.Unit() != "kPa" {
		t.Fatalf("unexpected PS unit %q", ParamPS.Unit())
	}
	if Parameter("NOPE").Unit() != "" {
		t.Fatal("unknown parameter should have no unit")
	}
}

func TestRecordJSON(t *testing.T) {
	r := rec(t, "2024-05-06", ParamT2M, 31.5, ParamPrecipitation, 0.0)
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"date":"2024-05-06"`) || !strings.Contains(s, `"PRECTOTCORR":0`) {
		t.Fatalf("unexpected encoding %s", s)
	}
	if strings.Contains(s, "RH2M") {
		t.Fatalf("absent fields must be omitted: %s", s)
	}

	var back ObservationRecord
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Date.String() != "2024-05-06" {
		t.Fatalf("unexpected date %s", back.Date)
	}
	if err := json.Unmarshal([]byte(`{"date":"06/05/2024"}`), &back); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
