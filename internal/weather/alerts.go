package weather

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/metrics"
)

// AlertRules holds the thresholds alerts are evaluated against. Wind speeds are km/h,
// precipitation is the daily total in mm.
type AlertRules struct {
	HeatFeelsLike       float64
	SevereHeatFeelsLike float64
	ColdTemperature     float64
	SevereCold          float64
	HeavyRain           float64
	SevereRain          float64
	StrongWind          float64
	GaleWind            float64
	StormWind           float64
	StormRain           float64
	FogHumidity         float64
	FogMaxWind          float64
}

// DefaultAlertRules are tuned for a tropical climate.
var DefaultAlertRules = AlertRules{
	HeatFeelsLike:       35,
	SevereHeatFeelsLike: 41,
	ColdTemperature:     10,
	SevereCold:          5,
	HeavyRain:           50,
	SevereRain:          100,
	StrongWind:          39,
	GaleWind:            62,
	StormWind:           62,
	StormRain:           50,
	FogHumidity:         97,
	FogMaxWind:          5,
}

// alertNamespace seeds the deterministic alert IDs.
var alertNamespace = uuid.MustParse("6f1c1b4e-8a53-4c57-9d0e-3f4b7c2a9e11")

type hazardWindow struct {
	start, end time.Time
	severity   AlertSeverity
	peak       float64
	hasPeak    bool
}

func (w *hazardWindow) extend(h HourlyForecast, severity AlertSeverity, value float64) {
	if w.start.IsZero() || h.Datetime.Before(w.start) {
		w.start = h.Datetime
	}
	if end := h.Datetime.Add(time.Hour); end.After(w.end) {
		w.end = end
	}
	if severityRank(severity) > severityRank(w.severity) {
		w.severity = severity
	}
	if !w.hasPeak || value > w.peak {
		w.peak = value
		w.hasPeak = true
	}
}

func severityRank(s AlertSeverity) int {
	switch s {
	case SeverityMinor:
		return 1
	case SeverityModerate:
		return 2
	case SeveritySevere:
		return 3
	default:
		return 0
	}
}

// Evaluate derives alerts from a forecast. At most one alert per hazard type and day
// is produced; alerts come out in day order, then in the order storm, rain, wind, heat,
// cold, fog. IDs are stable for the same location, hazard and day.
func (r AlertRules) Evaluate(loc Location, days []ForecastDay) []Alert {
	var alerts []Alert

	for _, day := range days {
		windows := make(map[AlertType]*hazardWindow)
		hit := func(t AlertType, h HourlyForecast, sev AlertSeverity, value float64) {
			w, ok := windows[t]
			if !ok {
				w = &hazardWindow{}
				windows[t] = w
			}
			w.extend(h, sev, value)
		}

		var dailyRain, maxWind float64
		for _, h := range day.Hourly {
			dailyRain += h.Precipitation
			if h.WindSpeed > maxWind {
				maxWind = h.WindSpeed
			}

			feels := metrics.FeelsLike(h.Temperature, h.Humidity, h.WindSpeed)
			switch {
			case feels >= r.SevereHeatFeelsLike:
				hit(AlertHeat, h, SeveritySevere, feels)
			case feels >= r.HeatFeelsLike:
				hit(AlertHeat, h, SeverityModerate, feels)
			}

			switch {
			case h.Temperature <= r.SevereCold:
				hit(AlertCold, h, SeverityModerate, -h.Temperature)
			case h.Temperature <= r.ColdTemperature:
				hit(AlertCold, h, SeverityMinor, -h.Temperature)
			}

			switch {
			case h.WindSpeed >= r.GaleWind:
				hit(AlertWind, h, SeverityModerate, h.WindSpeed)
			case h.WindSpeed >= r.StrongWind:
				hit(AlertWind, h, SeverityMinor, h.WindSpeed)
			}

			if h.Humidity >= r.FogHumidity && h.WindSpeed < r.FogMaxWind {
				hit(AlertFog, h, SeverityMinor, h.Humidity)
			}

			if h.Precipitation > 0 {
				hit(AlertRain, h, "", h.Precipitation)
			}
		}

		// Rain is judged on the daily total, the window only spans the wet hours.
		if w, ok := windows[AlertRain]; ok {
			switch {
			case dailyRain >= r.SevereRain:
				w.severity = SeveritySevere
			case dailyRain >= r.HeavyRain:
				w.severity = SeverityModerate
			default:
				delete(windows, AlertRain)
			}
		}

		if dailyRain >= r.StormRain && maxWind >= r.StormWind {
			storm := &hazardWindow{severity: SeveritySevere, peak: maxWind, hasPeak: true}
			for _, h := range day.Hourly {
				if h.WindSpeed >= r.StrongWind || h.Precipitation > 0 {
					storm.extend(h, SeveritySevere, h.WindSpeed)
				}
			}
			windows[AlertStorm] = storm
		}

		for _, t := range []AlertType{AlertStorm, AlertRain, AlertWind, AlertHeat, AlertCold, AlertFog} {
			w, ok := windows[t]
			if !ok {
				continue
			}
			alerts = append(alerts, newAlert(loc, day.Date, t, w, dailyRain))
		}
	}
	return alerts
}

func newAlert(loc Location, date string, t AlertType, w *hazardWindow, dailyRain float64) Alert {
	var title, desc string
	switch t {
	case AlertStorm:
		title = "Storm warning"
		desc = fmt.Sprintf("Winds up to %.0f km/h with %.0f mm of rain expected. Stay indoors and secure loose objects.",
			w.peak, dailyRain)
	case AlertRain:
		title = "Heavy rain warning"
		desc = fmt.Sprintf("Around %.0f mm of rain expected. Watch out for local flooding.", dailyRain)
	case AlertWind:
		title = "Strong wind warning"
		desc = fmt.Sprintf("Wind speeds up to %.0f km/h. Take care when travelling.", w.peak)
	case AlertHeat:
		title = "Heat warning"
		desc = fmt.Sprintf("Feels-like temperatures up to %.1f°C. Avoid strenuous activity at midday and stay hydrated.",
			w.peak)
	case AlertCold:
		title = "Cold warning"
		desc = fmt.Sprintf("Temperatures down to %.1f°C. Keep warm, especially children and the elderly.", -w.peak)
	case AlertFog:
		title = "Dense fog warning"
		desc = "Dense fog with reduced visibility expected. Drive carefully."
	}

	id := uuid.NewSHA1(alertNamespace, []byte(loc.Key()+"|"+string(t)+"|"+date))
	return Alert{
		ID:          id.String(),
		Title:       title,
		Description: desc,
		Severity:    w.severity,
		Type:        t,
		StartTime:   w.start,
		EndTime:     w.end,
		Areas:       []string{loc.Name},
	}
}
