// Package weather estimates track conditions over a stint's lap range.
package weather

import (
	"math"
	"sort"
	"time"

	"github.com/paddock-data/stint.report/internal/f1"
)

// EstimateStintTemperature estimates the average track temperature across a
// stint by mapping its lap range [lapStart, lapEnd] proportionally onto the
// session weather timeline and averaging the samples that fall inside the
// resulting window. When the window contains no samples, the single sample
// nearest the window midpoint is used instead.
//
// The mapping assumes laps are evenly spaced in time across the session,
// which is a known approximation: no per-lap timestamps are available to do
// better. The second return is false when there are no samples or totalLaps
// is below 1.
func EstimateStintTemperature(samples []f1.WeatherSample, lapStart, lapEnd, totalLaps int) (float64, bool) {
	if len(samples) == 0 || totalLaps < 1 {
		return 0, false
	}

	sorted := make([]f1.WeatherSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	sessionStart := sorted[0].Time
	sessionEnd := sorted[len(sorted)-1].Time
	sessionDuration := sessionEnd.Sub(sessionStart)
	if sessionDuration <= 0 {
		return sorted[0].TrackTemp, true
	}

	fracStart := float64(lapStart-1) / float64(totalLaps)
	fracEnd := float64(lapEnd) / float64(totalLaps)
	windowStart := sessionStart.Add(time.Duration(fracStart * float64(sessionDuration)))
	windowEnd := sessionStart.Add(time.Duration(fracEnd * float64(sessionDuration)))

	sum := 0.0
	n := 0
	for _, s := range sorted {
		if !s.Time.Before(windowStart) && !s.Time.After(windowEnd) {
			sum += s.TrackTemp
			n++
		}
	}
	if n > 0 {
		return sum / float64(n), true
	}

	// No samples in the window; fall back to the one nearest its midpoint.
	midpoint := windowStart.Add(windowEnd.Sub(windowStart) / 2)
	nearest := sorted[0]
	nearestDist := math.Abs(float64(sorted[0].Time.Sub(midpoint)))
	for _, s := range sorted[1:] {
		if d := math.Abs(float64(s.Time.Sub(midpoint))); d < nearestDist {
			nearest = s
			nearestDist = d
		}
	}
	return nearest.TrackTemp, true
}
