package compare

import (
	"sort"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/stint"
	"github.com/paddock-data/stint.report/internal/weather"
)

// Qualification thresholds for stint comparison rows.
const (
	minStintLaps        = 5   // a row needs more retained laps than this
	practiceStdDevLimit = 2.0 // seconds; practice runs above this are noise
	practiceStintCap    = 3   // best stints kept per driver in practice
)

// StintRow is one driver's summarized stint in the comparison table.
type StintRow struct {
	Driver    f1.Driver
	Summary   stint.Summary
	TrackTemp *float64
}

// Insight names one standout value with its owner.
type Insight struct {
	Acronym  string
	Compound string
	Value    float64
}

// Insights are the standout rows extracted across every comparison row,
// irrespective of driver.
type Insights struct {
	FastestAvg     *Insight // lowest mean lap time
	MostConsistent *Insight // lowest standard deviation
	BestIdeal      *Insight // lowest sum of best sectors, all three present
	BestSector1    *Insight
	BestSector2    *Insight
	BestSector3    *Insight
}

// StintComparison is the assembled cross-driver stint pace table.
type StintComparison struct {
	Rows     []StintRow // ascending by mean lap time
	Insights Insights
}

// StintComparison summarizes every driver's stints and assembles the
// qualifying rows into one table. A row qualifies with more than
// minStintLaps retained laps; in practice sessions it additionally needs a
// standard deviation under practiceStdDevLimit, and each driver keeps only
// their practiceStintCap lowest-mean stints.
func (s *Service) StintComparison(data *SessionData) *StintComparison {
	practice := data.Session.IsPractice()

	var rows []StintRow
	for _, d := range data.Drivers {
		laps := data.Laps[d.Number]
		summaries := stint.SummariseWithSectors(laps, data.Stints[d.Number])

		var qualified []StintRow
		for _, sum := range summaries {
			if sum.NumLaps <= minStintLaps {
				continue
			}
			if practice && sum.StdDev >= practiceStdDevLimit {
				continue
			}
			row := StintRow{Driver: d, Summary: sum}
			if temp, ok := weather.EstimateStintTemperature(data.Weather, sum.LapStart, sum.LapEnd, len(laps)); ok {
				row.TrackTemp = f1.Float64(temp)
			}
			qualified = append(qualified, row)
		}

		sort.SliceStable(qualified, func(i, j int) bool {
			return qualified[i].Summary.AvgTime < qualified[j].Summary.AvgTime
		})
		if practice && len(qualified) > practiceStintCap {
			qualified = qualified[:practiceStintCap]
		}
		rows = append(rows, qualified...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Summary.AvgTime < rows[j].Summary.AvgTime
	})

	return &StintComparison{Rows: rows, Insights: extractInsights(rows)}
}

// extractInsights scans the assembled rows for the standout values.
func extractInsights(rows []StintRow) Insights {
	var in Insights
	for _, row := range rows {
		sum := row.Summary
		in.FastestAvg = lowest(in.FastestAvg, row, sum.AvgTime)
		in.MostConsistent = lowest(in.MostConsistent, row, sum.StdDev)

		if sum.BestSector1 != nil && sum.BestSector2 != nil && sum.BestSector3 != nil {
			ideal := *sum.BestSector1 + *sum.BestSector2 + *sum.BestSector3
			in.BestIdeal = lowest(in.BestIdeal, row, ideal)
		}
		if sum.BestSector1 != nil {
			in.BestSector1 = lowest(in.BestSector1, row, *sum.BestSector1)
		}
		if sum.BestSector2 != nil {
			in.BestSector2 = lowest(in.BestSector2, row, *sum.BestSector2)
		}
		if sum.BestSector3 != nil {
			in.BestSector3 = lowest(in.BestSector3, row, *sum.BestSector3)
		}
	}
	return in
}

func lowest(cur *Insight, row StintRow, value float64) *Insight {
	if cur != nil && cur.Value <= value {
		return cur
	}
	return &Insight{
		Acronym:  row.Driver.Acronym,
		Compound: row.Summary.Compound,
		Value:    value,
	}
}
