package metrics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestFeelsLike(t *testing.T) {
	t.Run("moderate temperatures are returned unchanged", func(t *testing.T) {
		for _, temp := range []float64{10.0001, 10.5, 15, 20, 26.9, 26.9999} {
			for _, rh := range []float64{0, 50, 100} {
				for _, wind := range []float64{0, 10, 60} {
					if got := FeelsLike(temp, rh, wind); got != temp {
						t.Errorf("FeelsLike(%v, %v, %v) = %v, want %v", temp, rh, wind, got, temp)
					}
				}
			}
		}
	})
	t.Run("heat index applies from 27 degrees", func(t *testing.T) {
		tests := []struct {
			temp, rh, wind, want float64
		}{
			{30, 70, 10, 60.3},
			{27, 50, 0, 52.4},
		}
		for _, tc := range tests {
			got := FeelsLike(tc.temp, tc.rh, tc.wind)
			if math.Abs(got-tc.want) > epsilon {
				t.Errorf("FeelsLike(%v, %v, %v) = %v, want %v", tc.temp, tc.rh, tc.wind, got, tc.want)
			}
		}
	})
	t.Run("heat index is non-decreasing in humidity", func(t *testing.T) {
		for _, temp := range []float64{27, 32, 40} {
			prev := math.Inf(-1)
			for rh := 0.0; rh <= 100; rh += 5 {
				got := FeelsLike(temp, rh, 12)
				if got < prev {
					t.Fatalf("FeelsLike decreased at T=%v RH=%v: %v < %v", temp, rh, got, prev)
				}
				prev = got
			}
		}
	})
	t.Run("wind chill applies up to 10 degrees", func(t *testing.T) {
		got := FeelsLike(5, 80, 20)
		if math.Abs(got-1.1) > epsilon {
			t.Errorf("FeelsLike(5, 80, 20) = %v, want 1.1", got)
		}
		at := FeelsLike(10, 80, 20)
		want := math.Floor(WindChill(10, 20)*10+0.5) / 10
		if at != want {
			t.Errorf("FeelsLike(10, 80, 20) = %v, want wind chill %v", at, want)
		}
	})
}
