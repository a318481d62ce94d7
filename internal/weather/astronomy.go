package weather

import (
	"context"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/wneessen/go-moonphase"
)

// Astronomy computes sunrise, sunset and the moon phase for a location and day.
// Sun times are UTC; they are zero during polar day or night.
func (s *Service) Astronomy(ctx context.Context, name string, day Date) (Astronomy, error) {
	loc, err := s.ResolveLocation(ctx, name)
	if err != nil {
		return Astronomy{}, err
	}
	if day.IsZero() {
		day = NewDate(s.now())
	}
	return ComputeAstronomy(loc, day), nil
}

// ComputeAstronomy is the pure part of Astronomy.
func ComputeAstronomy(loc Location, day Date) Astronomy {
	rise, set := sunrise.SunriseSunset(loc.Latitude, loc.Longitude, day.Year(), day.Month(), day.Day())

	a := Astronomy{
		Location:  loc,
		Date:      day,
		Sunrise:   rise,
		Sunset:    set,
		MoonPhase: moonphase.New(day.Add(12 * time.Hour)).PhaseName(),
	}
	if !rise.IsZero() && !set.IsZero() {
		a.DayLength = set.Sub(rise).Round(time.Minute).String()
	}
	return a
}
