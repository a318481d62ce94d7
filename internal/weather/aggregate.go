package weather

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrNoData is returned when no record in a series defines the requested field.
var ErrNoData = errors.New("no data for parameter")

// ParameterStatistic summarizes one parameter over a time-ascending series.
type ParameterStatistic struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Unit    string  `json:"unit"`
}

// Summarize folds the series into statistics for p. Records lacking p are skipped;
// Current is the value on the last record that defines p. If no record defines p,
// ErrNoData is returned.
func Summarize(records []ObservationRecord, p Parameter) (ParameterStatistic, error) {
	var (
		sum   float64
		count int
		stat  = ParameterStatistic{Unit: p.Unit(), Min: math.Inf(1), Max: math.Inf(-1)}
	)

	for _, r := range records {
		v, ok := r.Value(p)
		if !ok {
			continue
		}
		sum += v
		count++
		stat.Current = v
		stat.Min = math.Min(stat.Min, v)
		stat.Max = math.Max(stat.Max, v)
	}

	if count == 0 {
		return ParameterStatistic{}, ErrNoData
	}
	stat.Average = sum / float64(count)
	return stat, nil
}

// NamedStatistic is the statistic of one parameter.
type NamedStatistic struct {
	Parameter Parameter `json:"parameter"`
	ParameterStatistic
}

// SummarizeAll summarizes every parameter that has at least one value, in the order
// of params. Parameters without data are left out of the result.
func SummarizeAll(records []ObservationRecord, params []Parameter) []NamedStatistic {
	out := make([]NamedStatistic, 0, len(params))
	for _, p := range params {
		stat, err := Summarize(records, p)
		if err != nil {
			continue
		}
		out = append(out, NamedStatistic{Parameter: p, ParameterStatistic: stat})
	}
	return out
}

// Lookup returns the statistic for p, if present.
func Lookup(stats []NamedStatistic, p Parameter) (ParameterStatistic, bool) {
	for _, s := range stats {
		if s.Parameter == p {
			return s.ParameterStatistic, true
		}
	}
	return ParameterStatistic{}, false
}

// GroupTotal is the sum of a parameter within one group.
type GroupTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
	Days  int     `json:"days"`
}

// GroupTotals partitions records with keyFn and sums p per group. Days counts the
// records whose value is strictly positive. Absent values count as zero. Groups are
// returned in first-seen order.
func GroupTotals(records []ObservationRecord, p Parameter, keyFn func(ObservationRecord) string) []GroupTotal {
	var groups []GroupTotal
	index := make(map[string]int)

	for _, r := range records {
		key := keyFn(r)
		v := r.ValueOr(p, 0)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, GroupTotal{Key: key})
		}
		groups[i].Total += v
		if v > 0 {
			groups[i].Days++
		}
	}
	return groups
}

// MonthKey groups records by calendar month (YYYY-MM).
func MonthKey(r ObservationRecord) string {
	return r.Date.Format("2006-01")
}

// PressureTrend is the change in surface pressure between the last two records
// that report it, or 0 when fewer than two do.
func PressureTrend(records []ObservationRecord) float64 {
	var values []float64
	for _, r := range records {
		if v, ok := r.Value(ParamPS); ok {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return 0
	}
	return values[len(values)-1] - values[len(values)-2]
}

// StdDev returns the population standard deviation of p over the series.
func StdDev(records []ObservationRecord, p Parameter) (float64, error) {
	stat, err := Summarize(records, p)
	if err != nil {
		return 0, err
	}
	var (
		sq    float64
		count int
	)
	for _, r := range records {
		if v, ok := r.Value(p); ok {
			sq += (v - stat.Average) * (v - stat.Average)
			count++
		}
	}
	return math.Sqrt(sq / float64(count)), nil
}

// Values extracts the defined values of p in series order.
func Values(records []ObservationRecord, p Parameter) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := r.Value(p); ok {
			out = append(out, v)
		}
	}
	return out
}

// MergeHourly combines readings of the same hour from multiple providers into one.
// Numeric fields are averaged; the description is selected by majority (ties go to
// the earliest provider in the slice).
func MergeHourly(readings []HourlyForecast) HourlyForecast {
	if len(readings) == 0 {
		return HourlyForecast{Condition: ConditionUnknown}
	}
	if len(readings) == 1 {
		return readings[0]
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumWind     float64
		sumPressure float64
		sumPrecip   float64
	)

	descCounts := make(map[string]int)
	var descOrder []string
	sources := make([]string, 0, len(readings))

	for _, r := range readings {
		sumTemp += r.Temperature
		sumHumidity += r.Humidity
		sumWind += r.WindSpeed
		sumPressure += r.Pressure
		sumPrecip += r.Precipitation

		if _, ok := descCounts[r.Description]; !ok {
			descOrder = append(descOrder, r.Description)
		}
		descCounts[r.Description]++
		sources = append(sources, r.Source)
	}

	n := float64(len(readings))

	// Pick majority description.
	bestDesc := ""
	bestCount := 0
	for _, d := range descOrder {
		if descCounts[d] > bestCount {
			bestCount = descCounts[d]
			bestDesc = d
		}
	}

	sort.Strings(sources)
	merged := HourlyForecast{
		Datetime:      readings[0].Datetime,
		Hour:          readings[0].Hour,
		Temperature:   sumTemp / n,
		Precipitation: sumPrecip / n,
		WindSpeed:     sumWind / n,
		Humidity:      sumHumidity / n,
		Pressure:      sumPressure / n,
		Description:   bestDesc,
		Source:        strings.Join(sources, ","),
	}
	merged.Condition = DeriveCondition(merged.Precipitation, merged.Humidity)
	merged.Icon = ConditionIcon(merged.Condition)
	return merged
}
