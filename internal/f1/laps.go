package f1

import "sort"

// ValidLaps returns laps with a measured duration, preserving order.
func ValidLaps(laps []Lap) []Lap {
	out := make([]Lap, 0, len(laps))
	for _, lap := range laps {
		if lap.Duration != nil {
			out = append(out, lap)
		}
	}
	return out
}

// CleanLaps returns valid laps that are not pit-out laps, preserving order.
// Pit-out laps are systematically slower and excluded from pace statistics.
func CleanLaps(laps []Lap) []Lap {
	out := make([]Lap, 0, len(laps))
	for _, lap := range laps {
		if lap.Duration != nil && !lap.PitOut {
			out = append(out, lap)
		}
	}
	return out
}

// SplitCleanAndPitOut partitions valid laps into (clean, pitOut), preserving
// relative order in both halves.
func SplitCleanAndPitOut(valid []Lap) (clean, pitOut []Lap) {
	for _, lap := range valid {
		if lap.PitOut {
			pitOut = append(pitOut, lap)
		} else {
			clean = append(clean, lap)
		}
	}
	return clean, pitOut
}

// SessionBest returns the fastest valid lap duration in laps, across any
// number of drivers. The second return is false when no lap has a duration.
func SessionBest(laps []Lap) (float64, bool) {
	best := 0.0
	found := false
	for _, lap := range laps {
		if lap.Duration == nil {
			continue
		}
		if !found || *lap.Duration < best {
			best = *lap.Duration
			found = true
		}
	}
	return best, found
}

// SessionMedian returns the median clean lap duration across laps.
func SessionMedian(laps []Lap) (float64, bool) {
	var durations []float64
	for _, lap := range laps {
		if lap.Duration != nil && !lap.PitOut {
			durations = append(durations, *lap.Duration)
		}
	}
	if len(durations) == 0 {
		return 0, false
	}
	sort.Float64s(durations)
	n := len(durations)
	if n%2 == 1 {
		return durations[n/2], true
	}
	return (durations[n/2-1] + durations[n/2]) / 2, true
}

// AverageLap returns the mean duration of the clean laps in laps.
func AverageLap(laps []Lap) (float64, bool) {
	sum := 0.0
	n := 0
	for _, lap := range laps {
		if lap.Duration != nil && !lap.PitOut {
			sum += *lap.Duration
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// BestLap returns the fastest clean lap. The second return is false when the
// driver has no clean laps.
func BestLap(laps []Lap) (Lap, bool) {
	var best Lap
	found := false
	for _, lap := range laps {
		if lap.Duration == nil || lap.PitOut {
			continue
		}
		if !found || *lap.Duration < *best.Duration {
			best = lap
			found = true
		}
	}
	return best, found
}

// IdealLap returns the sum of the best sector 1, sector 2 and sector 3 times
// observed independently across laps; the sectors need not come from the
// same lap. The second return is false when any sector was never timed.
func IdealLap(laps []Lap) (float64, bool) {
	var s1, s2, s3 *float64
	for _, lap := range laps {
		s1 = minSector(s1, lap.Sector1)
		s2 = minSector(s2, lap.Sector2)
		s3 = minSector(s3, lap.Sector3)
	}
	if s1 == nil || s2 == nil || s3 == nil {
		return 0, false
	}
	return *s1 + *s2 + *s3, true
}

func minSector(cur, candidate *float64) *float64 {
	if candidate == nil {
		return cur
	}
	if cur == nil || *candidate < *cur {
		return candidate
	}
	return cur
}

// CompoundForLap returns the compound of the stint covering lapNumber, or
// CompoundUnknown when no stint covers it.
func CompoundForLap(lapNumber int, stints []Stint) string {
	for _, s := range stints {
		if lapNumber >= s.LapStart && lapNumber <= s.LapEnd {
			return NormalizeCompound(s.Compound)
		}
	}
	return CompoundUnknown
}

// StintForLap returns the stint covering lapNumber. The second return is
// false when no stint covers it.
func StintForLap(lapNumber int, stints []Stint) (Stint, bool) {
	for _, s := range stints {
		if lapNumber >= s.LapStart && lapNumber <= s.LapEnd {
			return s, true
		}
	}
	return Stint{}, false
}
