// Package trace aligns per-driver lap telemetry onto shared distance and
// time domains: it builds cumulative distance profiles from speed samples,
// computes cross-driver speed and time deltas against a reference driver,
// and reconstructs time-synchronized track positions for animation.
//
// Telemetry timestamps are not guaranteed to arrive sorted; every entry
// point sorts its inputs first, so shuffled input produces identical output.
package trace

import (
	"sort"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/units"
)

// ProfilePoint maps a lap-relative time to the cumulative distance covered
// by that time.
type ProfilePoint struct {
	T        float64 // seconds into the lap
	Distance float64 // meters
}

// DistanceProfile integrates speed over time with the trapezoidal rule to
// produce a monotonically non-decreasing time-to-distance profile. The
// first sample anchors distance 0. Input must already be sorted by time;
// use SortedCar first when the origin of the samples is not trusted.
func DistanceProfile(car []f1.CarSample) []ProfilePoint {
	if len(car) == 0 {
		return nil
	}

	profile := make([]ProfilePoint, len(car))
	profile[0] = ProfilePoint{T: car[0].T, Distance: 0}

	dist := 0.0
	for i := 1; i < len(car); i++ {
		dt := car[i].T - car[i-1].T
		avgSpeed := units.KphToMps((car[i].Speed + car[i-1].Speed) / 2)
		dist += avgSpeed * dt
		profile[i] = ProfilePoint{T: car[i].T, Distance: dist}
	}
	return profile
}

// TimeAtDistance returns the interpolated time at which the profile reached
// the target cumulative distance. The second return is false when the
// target lies outside the profile's distance range; the lookup never
// extrapolates. Over a flat segment (no distance gained) the earliest
// matching time is returned.
func TimeAtDistance(profile []ProfilePoint, target float64) (float64, bool) {
	if len(profile) == 0 {
		return 0, false
	}
	if target < profile[0].Distance || target > profile[len(profile)-1].Distance {
		return 0, false
	}

	i := sort.Search(len(profile), func(i int) bool {
		return profile[i].Distance >= target
	})
	if profile[i].Distance == target {
		return profile[i].T, true
	}

	prev, next := profile[i-1], profile[i]
	frac := (target - prev.Distance) / (next.Distance - prev.Distance)
	return prev.T + frac*(next.T-prev.T), true
}

// DistanceAtTime returns the interpolated cumulative distance at the target
// time. The second return is false when the target lies outside the
// profile's time range.
func DistanceAtTime(profile []ProfilePoint, target float64) (float64, bool) {
	if len(profile) == 0 {
		return 0, false
	}
	if target < profile[0].T || target > profile[len(profile)-1].T {
		return 0, false
	}

	i := sort.Search(len(profile), func(i int) bool {
		return profile[i].T >= target
	})
	if profile[i].T == target {
		return profile[i].Distance, true
	}

	prev, next := profile[i-1], profile[i]
	frac := (target - prev.T) / (next.T - prev.T)
	return prev.Distance + frac*(next.Distance-prev.Distance), true
}

// SortedCar returns a copy of car sorted by sample time. Equal timestamps
// keep their input order.
func SortedCar(car []f1.CarSample) []f1.CarSample {
	out := make([]f1.CarSample, len(car))
	copy(out, car)
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}

// SortedLocations returns a copy of loc sorted by sample time. Equal
// timestamps keep their input order.
func SortedLocations(loc []f1.LocationSample) []f1.LocationSample {
	out := make([]f1.LocationSample, len(loc))
	copy(out, loc)
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}
