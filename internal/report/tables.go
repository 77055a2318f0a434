// Package report renders comparison results for people: text tables on the
// terminal, HTML charts, and a track-map PNG on disk.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/paddock-data/stint.report/internal/compare"
	"github.com/paddock-data/stint.report/internal/f1"
)

// WriteBestLapTable renders the best/ideal lap comparison.
func WriteBestLapTable(w io.Writer, cmp *compare.BestLapComparison) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Best Laps")
	t.AppendHeader(table.Row{"Driver", "Best", "Gap", "Avg", "Ideal", "Compound", "Tyre Age", "Track Temp"})

	for _, row := range cmp.Rows {
		t.AppendRow(table.Row{
			row.Driver.Acronym,
			f1.FormatLapTime(row.Best),
			f1.FormatDelta(row.Best, cmp.SessionBest),
			f1.FormatLapTime(row.Average),
			f1.FormatLapTime(row.Ideal),
			row.Compound,
			formatAge(row.TyreAge),
			f1.FormatTemperature(row.TrackTemp),
		})
	}
	if cmp.SessionMedian != nil {
		t.SetCaption("Session median %s", f1.FormatLapTime(cmp.SessionMedian))
	}
	t.Render()
}

// WriteStintTable renders the stint comparison rows and their insights.
func WriteStintTable(w io.Writer, cmp *compare.StintComparison) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Stint Pace")
	t.AppendHeader(table.Row{"Driver", "Stint", "Compound", "Laps", "Avg", "Best", "Std Dev", "Track Temp"})

	for _, row := range cmp.Rows {
		sum := row.Summary
		t.AppendRow(table.Row{
			row.Driver.Acronym,
			sum.StintNumber,
			sum.Compound,
			sum.NumLaps,
			f1.FormatLapTime(f1.Float64(sum.AvgTime)),
			f1.FormatLapTime(f1.Float64(sum.BestTime)),
			fmt.Sprintf("%.3fs", sum.StdDev),
			f1.FormatTemperature(row.TrackTemp),
		})
	}
	t.Render()

	writeInsights(w, cmp.Insights)
}

func writeInsights(w io.Writer, in compare.Insights) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Insights")
	t.AppendHeader(table.Row{"", "Driver", "Compound", "Value"})

	appendInsight := func(label string, i *compare.Insight, lapTime bool) {
		if i == nil {
			return
		}
		value := fmt.Sprintf("%.3fs", i.Value)
		if lapTime {
			value = f1.FormatLapTime(f1.Float64(i.Value))
		}
		t.AppendRow(table.Row{label, i.Acronym, i.Compound, value})
	}

	appendInsight("Fastest average", in.FastestAvg, true)
	appendInsight("Most consistent", in.MostConsistent, false)
	appendInsight("Best ideal lap", in.BestIdeal, true)
	appendInsight("Best sector 1", in.BestSector1, false)
	appendInsight("Best sector 2", in.BestSector2, false)
	appendInsight("Best sector 3", in.BestSector3, false)
	t.Render()
}

// WriteSpeedTrapTable renders each driver's top speed-trap readings.
func WriteSpeedTrapTable(w io.Writer, rows []compare.SpeedTrapRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Speed Traps")
	t.AppendHeader(table.Row{"Driver", "I1 (km/h)", "I2 (km/h)", "ST (km/h)"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Driver.Acronym,
			formatSpeed(row.I1Speed),
			formatSpeed(row.I2Speed),
			formatSpeed(row.STSpeed),
		})
	}
	t.Render()
}

// WriteSectorTable renders the fastest fully-timed lap sector breakdown.
func WriteSectorTable(w io.Writer, rows []compare.SectorRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Sectors (fastest fully-timed lap)")
	t.AppendHeader(table.Row{"Driver", "Lap", "S1", "S2", "S3", "Time"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Driver.Acronym,
			row.LapNumber,
			fmt.Sprintf("%.3f", row.Sector1),
			fmt.Sprintf("%.3f", row.Sector2),
			fmt.Sprintf("%.3f", row.Sector3),
			f1.FormatLapTime(f1.Float64(row.Duration)),
		})
	}
	t.Render()
}

func formatAge(age *int) string {
	if age == nil {
		return f1.Dash
	}
	return fmt.Sprintf("%d laps", *age)
}

func formatSpeed(v *float64) string {
	if v == nil {
		return f1.Dash
	}
	return fmt.Sprintf("%.0f", *v)
}
