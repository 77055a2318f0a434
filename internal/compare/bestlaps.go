package compare

import (
	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/weather"
)

// BestLapRow is one driver's best-lap summary.
type BestLapRow struct {
	Driver    f1.Driver
	Best      *float64 // nil without a timed clean lap
	Average   *float64 // mean of the driver's clean laps
	Ideal     *float64 // nil when any sector lacks observations
	Compound  string   // compound of the best lap; UNKNOWN outside stints
	TyreAge   *int     // tyre age on the best lap
	TrackTemp *float64 // estimated for the best lap's stint
}

// BestLapComparison is the per-driver best/ideal lap table.
type BestLapComparison struct {
	SessionBest   *float64
	SessionMedian *float64 // median clean lap across all drivers
	Rows          []BestLapRow
}

// BestLaps builds the best and ideal lap comparison over the fetched
// drivers. Rows follow the ascending driver order of data.Drivers.
func (s *Service) BestLaps(data *SessionData) *BestLapComparison {
	out := &BestLapComparison{}

	var allLaps []f1.Lap
	for _, d := range data.Drivers {
		allLaps = append(allLaps, data.Laps[d.Number]...)
	}
	if best, ok := f1.SessionBest(allLaps); ok {
		out.SessionBest = f1.Float64(best)
	}
	if median, ok := f1.SessionMedian(allLaps); ok {
		out.SessionMedian = f1.Float64(median)
	}

	for _, d := range data.Drivers {
		laps := data.Laps[d.Number]
		row := BestLapRow{Driver: d, Compound: f1.CompoundUnknown}

		if avg, ok := f1.AverageLap(laps); ok {
			row.Average = f1.Float64(avg)
		}
		if ideal, ok := f1.IdealLap(laps); ok {
			row.Ideal = f1.Float64(ideal)
		}

		if best, ok := f1.BestLap(laps); ok {
			row.Best = best.Duration

			stints := data.Stints[d.Number]
			row.Compound = f1.CompoundForLap(best.Number, stints)
			if st, ok := f1.StintForLap(best.Number, stints); ok {
				age := st.TyreAge + (best.Number - st.LapStart)
				row.TyreAge = &age

				if temp, ok := weather.EstimateStintTemperature(data.Weather, st.LapStart, st.LapEnd, len(laps)); ok {
					row.TrackTemp = f1.Float64(temp)
				}
			}
		}

		out.Rows = append(out.Rows, row)
	}
	return out
}

// SpeedTrapRow is one driver's maximum speed-trap readings across their
// valid laps.
type SpeedTrapRow struct {
	Driver  f1.Driver
	I1Speed *float64
	I2Speed *float64
	STSpeed *float64
}

// SpeedTraps reports each driver's best intermediate and speed-trap
// readings.
func (s *Service) SpeedTraps(data *SessionData) []SpeedTrapRow {
	var out []SpeedTrapRow
	for _, d := range data.Drivers {
		row := SpeedTrapRow{Driver: d}
		for _, lap := range f1.ValidLaps(data.Laps[d.Number]) {
			row.I1Speed = maxSpeed(row.I1Speed, lap.I1Speed)
			row.I2Speed = maxSpeed(row.I2Speed, lap.I2Speed)
			row.STSpeed = maxSpeed(row.STSpeed, lap.STSpeed)
		}
		out = append(out, row)
	}
	return out
}

func maxSpeed(cur, candidate *float64) *float64 {
	if candidate == nil {
		return cur
	}
	if cur == nil || *candidate > *cur {
		v := *candidate
		return &v
	}
	return cur
}

// SectorRow is the sector breakdown of one driver's fastest fully-timed
// clean lap.
type SectorRow struct {
	Driver    f1.Driver
	LapNumber int
	Duration  float64
	Sector1   float64
	Sector2   float64
	Sector3   float64
}

// SectorComparison reports each driver's fastest clean lap that has all
// three sectors timed. Drivers without such a lap are omitted.
func (s *Service) SectorComparison(data *SessionData) []SectorRow {
	var out []SectorRow
	for _, d := range data.Drivers {
		var best *f1.Lap
		for _, lap := range f1.CleanLaps(data.Laps[d.Number]) {
			if lap.Sector1 == nil || lap.Sector2 == nil || lap.Sector3 == nil {
				continue
			}
			if best == nil || *lap.Duration < *best.Duration {
				lap := lap
				best = &lap
			}
		}
		if best == nil {
			continue
		}
		out = append(out, SectorRow{
			Driver:    d,
			LapNumber: best.Number,
			Duration:  *best.Duration,
			Sector1:   *best.Sector1,
			Sector2:   *best.Sector2,
			Sector3:   *best.Sector3,
		})
	}
	return out
}
