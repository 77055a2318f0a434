package trace

import (
	"sort"

	"github.com/paddock-data/stint.report/internal/f1"
)

// positionClampTolerance bounds how far outside a driver's location
// coverage a query may fall and still clamp to the boundary sample. Beyond
// it the driver has not started, or has already finished, their lap.
const positionClampTolerance = 0.5

// SpeedAt returns the speed of the time-sorted car sample nearest to t.
// Speed is treated as piecewise-constant: no interpolation. Exact midpoints
// resolve to the earlier sample. Returns 0 for empty input.
func SpeedAt(car []f1.CarSample, t float64) float64 {
	if len(car) == 0 {
		return 0
	}

	i := sort.Search(len(car), func(i int) bool { return car[i].T >= t })
	if i == 0 {
		return car[0].Speed
	}
	if i == len(car) {
		return car[len(car)-1].Speed
	}
	// car[i-1].T < t <= car[i].T; the earlier sample wins ties.
	if t-car[i-1].T <= car[i].T-t {
		return car[i-1].Speed
	}
	return car[i].Speed
}

// SpeedAtLinear returns the linearly interpolated speed at t over the
// time-sorted car samples, clamped to the boundary samples outside the
// covered range. Returns 0 for empty input.
func SpeedAtLinear(car []f1.CarSample, t float64) float64 {
	if len(car) == 0 {
		return 0
	}
	if t <= car[0].T {
		return car[0].Speed
	}
	if t >= car[len(car)-1].T {
		return car[len(car)-1].Speed
	}

	i := sort.Search(len(car), func(i int) bool { return car[i].T >= t })
	prev, next := car[i-1], car[i]
	if next.T == prev.T {
		return prev.Speed
	}
	frac := (t - prev.T) / (next.T - prev.T)
	return prev.Speed + frac*(next.Speed-prev.Speed)
}

// PositionAt returns the linearly interpolated (x, y) position at t over
// the time-sorted location samples. Queries outside the covered range clamp
// to the first or last sample when within positionClampTolerance, and
// report no position beyond it. The third return is false when there is no
// answer.
func PositionAt(loc []f1.LocationSample, t float64) (x, y float64, ok bool) {
	if len(loc) == 0 {
		return 0, 0, false
	}

	first, last := loc[0], loc[len(loc)-1]
	if t < first.T {
		if first.T-t > positionClampTolerance {
			return 0, 0, false
		}
		return first.X, first.Y, true
	}
	if t > last.T {
		if t-last.T > positionClampTolerance {
			return 0, 0, false
		}
		return last.X, last.Y, true
	}

	i := sort.Search(len(loc), func(i int) bool { return loc[i].T >= t })
	if loc[i].T == t {
		return loc[i].X, loc[i].Y, true
	}

	prev, next := loc[i-1], loc[i]
	frac := (t - prev.T) / (next.T - prev.T)
	return prev.X + frac*(next.X-prev.X), prev.Y + frac*(next.Y-prev.Y), true
}
