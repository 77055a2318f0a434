// Package stint computes outlier-trimmed per-stint lap statistics.
//
// Stint boundaries are where warm-up and cool-down artifacts live: the first
// lap of a stint often carries pit-exit and tire-warming time, the last one
// a cool-down. The summarizer compares both boundary laps against the mean
// of the interior laps and drops them when they exceed it by more than the
// edge threshold, leaving genuine mid-stint variance (traffic, fuel burn)
// untouched.
package stint

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/paddock-data/stint.report/internal/f1"
)

// DefaultEdgeThreshold is the fraction above the interior-lap mean beyond
// which a boundary lap is excluded.
const DefaultEdgeThreshold = 0.07

// Summary holds the trimmed aggregate statistics for one stint. Sector
// fields are nil unless the summary was built with sectors, or when no
// retained lap carries that sector.
type Summary struct {
	StintNumber  int
	Compound     string
	LapStart     int
	LapEnd       int
	NumLaps      int   // laps retained after exclusion
	ExcludedLaps []int // lap numbers trimmed at the stint edges, ascending
	AvgTime      float64
	BestTime     float64
	StdDev       float64 // sample standard deviation; 0 for a single lap
	AvgSector1   *float64
	AvgSector2   *float64
	AvgSector3   *float64
	BestSector1  *float64
	BestSector2  *float64
	BestSector3  *float64
}

// Excluded reports whether lapNumber was trimmed from this summary.
func (s Summary) Excluded(lapNumber int) bool {
	for _, n := range s.ExcludedLaps {
		if n == lapNumber {
			return true
		}
	}
	return false
}

// Summarise computes a Summary per stint using DefaultEdgeThreshold. Stints
// with no usable laps produce no summary.
func Summarise(laps []f1.Lap, stints []f1.Stint) []Summary {
	return summarise(laps, stints, DefaultEdgeThreshold, false)
}

// SummariseWithSectors is Summarise plus per-sector mean and best times. A
// lap missing one sector still contributes to the other sectors and to the
// overall duration statistics.
func SummariseWithSectors(laps []f1.Lap, stints []f1.Stint) []Summary {
	return summarise(laps, stints, DefaultEdgeThreshold, true)
}

func summarise(laps []f1.Lap, stints []f1.Stint, edgeThreshold float64, withSectors bool) []Summary {
	var out []Summary
	for _, st := range stints {
		selected := selectStintLaps(laps, st)
		if len(selected) == 0 {
			continue
		}

		excluded := trimEdges(selected, edgeThreshold)
		clean := make([]f1.Lap, 0, len(selected))
		for _, lap := range selected {
			if !containsInt(excluded, lap.Number) {
				clean = append(clean, lap)
			}
		}
		if len(clean) == 0 {
			continue
		}

		durations := make([]float64, len(clean))
		for i, lap := range clean {
			durations[i] = *lap.Duration
		}

		s := Summary{
			StintNumber:  st.Number,
			Compound:     f1.NormalizeCompound(st.Compound),
			LapStart:     st.LapStart,
			LapEnd:       st.LapEnd,
			NumLaps:      len(clean),
			ExcludedLaps: excluded,
			AvgTime:      stat.Mean(durations, nil),
			BestTime:     minOf(durations),
			StdDev:       sampleStdDev(durations),
		}

		if withSectors {
			s.AvgSector1, s.BestSector1 = sectorStats(clean, func(l f1.Lap) *float64 { return l.Sector1 })
			s.AvgSector2, s.BestSector2 = sectorStats(clean, func(l f1.Lap) *float64 { return l.Sector2 })
			s.AvgSector3, s.BestSector3 = sectorStats(clean, func(l f1.Lap) *float64 { return l.Sector3 })
		}

		out = append(out, s)
	}
	return out
}

// selectStintLaps returns the clean laps inside the stint's range, sorted by
// lap number.
func selectStintLaps(laps []f1.Lap, st f1.Stint) []f1.Lap {
	var selected []f1.Lap
	for _, lap := range laps {
		if lap.Number < st.LapStart || lap.Number > st.LapEnd {
			continue
		}
		if lap.Duration == nil || lap.PitOut {
			continue
		}
		selected = append(selected, lap)
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].Number < selected[j].Number })
	return selected
}

// trimEdges returns the lap numbers of boundary laps slower than the
// interior mean by more than the threshold fraction. With two or fewer laps
// there is no interior reference and nothing is excluded; interior laps are
// never excluded.
func trimEdges(selected []f1.Lap, edgeThreshold float64) []int {
	if len(selected) <= 2 {
		return nil
	}

	interior := make([]float64, 0, len(selected)-2)
	for _, lap := range selected[1 : len(selected)-1] {
		interior = append(interior, *lap.Duration)
	}
	limit := stat.Mean(interior, nil) * (1 + edgeThreshold)

	var excluded []int
	first, last := selected[0], selected[len(selected)-1]
	if *first.Duration > limit {
		excluded = append(excluded, first.Number)
	}
	if *last.Duration > limit {
		excluded = append(excluded, last.Number)
	}
	return excluded
}

func sectorStats(clean []f1.Lap, sector func(f1.Lap) *float64) (avg, best *float64) {
	var vals []float64
	for _, lap := range clean {
		if v := sector(lap); v != nil {
			vals = append(vals, *v)
		}
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return f1.Float64(stat.Mean(vals, nil)), f1.Float64(minOf(vals))
}

// sampleStdDev guards gonum's sample standard deviation against the
// single-observation case, where variance is undefined and reported as 0.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd := stat.StdDev(xs, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
