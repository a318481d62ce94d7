package weather

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// rec builds a record from alternating parameter/value pairs.
func rec(t *testing.T, date string, kv ...any) ObservationRecord {
	t.Helper()
	r := ObservationRecord{Date: mustDate(t, date)}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(Parameter), kv[i+1].(float64))
	}
	return r
}

func hourAt(day string, hour int, temp, humidity, wind, precip float64) HourlyForecast {
	d, _ := time.Parse(dateLayout, day)
	return HourlyForecast{
		Datetime:      d.Add(time.Duration(hour) * time.Hour),
		Hour:          hour,
		Temperature:   temp,
		Humidity:      humidity,
		WindSpeed:     wind,
		Precipitation: precip,
	}
}
