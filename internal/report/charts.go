package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/paddock-data/stint.report/internal/compare"
	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/trace"
)

// maxChartPoints caps the payload of one HTML chart series. Car telemetry
// for a lap is a few hundred samples, so this mostly matters for location
// grids and stacked pages.
const maxChartPoints = 2000

// WriteTraceChart renders traces as one HTML line chart with a numeric
// x axis.
func WriteTraceChart(w io.Writer, title, xLabel, yLabel string, traces []trace.Trace) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yLabel}),
	)

	for _, tr := range traces {
		data := make([]opts.LineData, 0, len(tr.Points))
		for _, p := range downsample(tr.Points, maxChartPoints) {
			data = append(data, opts.LineData{Value: []interface{}{p.T, p.Value}})
		}
		series := tr.Acronym
		line.AddSeries(series, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false), ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: tr.Color, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: tr.Color}),
		)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("rendering %q: %w", title, err)
	}
	return nil
}

// WriteDeltaChart renders a delta comparison; each trace is relative to
// the named reference driver, drawn as the zero line.
func WriteDeltaChart(w io.Writer, title, xLabel, yLabel string, cmp *trace.DeltaComparison) error {
	if cmp == nil {
		return fmt.Errorf("rendering %q: no delta data", title)
	}
	full := fmt.Sprintf("%s (vs %s)", title, cmp.ReferenceAcronym)
	return WriteTraceChart(w, full, xLabel, yLabel, cmp.Traces)
}

// WriteSpeedChart renders per-driver best-lap speed over lap time,
// resampled onto a uniform grid so every driver shares the same x axis.
func WriteSpeedChart(w io.Writer, telemetry map[int]f1.DriverTelemetry) error {
	var traces []trace.Trace
	for _, dn := range trace.DriverNumbers(telemetry) {
		d := telemetry[dn]
		if len(d.Car) == 0 {
			continue
		}
		traces = append(traces, trace.Trace{
			Acronym: d.Acronym,
			Color:   d.Color,
			Points:  resampleSpeed(d.Car, 400),
		})
	}
	return WriteTraceChart(w, "Best Lap Speed", "Lap time (s)", "Speed (km/h)", traces)
}

// WriteLapProgressionChart renders each driver's lap times over the lap
// number, the session-length view of pace and degradation.
func WriteLapProgressionChart(w io.Writer, data *compare.SessionData) error {
	return WriteTraceChart(w, "Lap Progression", "Lap", "Lap time (s)", compare.LapProgression(data))
}

// WriteTireStrategyChart renders each driver's stint sequence as a stacked
// horizontal bar, one segment per stint, colored by compound.
func WriteTireStrategyChart(w io.Writer, data *compare.SessionData) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Tire Strategy", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Tire Strategy"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Laps", NameLocation: "middle", NameGap: 30}),
	)

	var acronyms []string
	maxStints := 0
	for _, d := range data.Drivers {
		acronyms = append(acronyms, d.Acronym)
		if n := len(data.Stints[d.Number]); n > maxStints {
			maxStints = n
		}
	}
	bar.SetXAxis(acronyms)

	for i := 0; i < maxStints; i++ {
		items := make([]opts.BarData, 0, len(data.Drivers))
		for _, d := range data.Drivers {
			stints := data.Stints[d.Number]
			if i >= len(stints) {
				items = append(items, opts.BarData{Value: 0})
				continue
			}
			st := stints[i]
			color, ok := f1.CompoundColors[st.Compound]
			if !ok {
				color = f1.CompoundColors[f1.CompoundUnknown]
			}
			items = append(items, opts.BarData{
				Name:      st.Compound,
				Value:     st.LapEnd - st.LapStart + 1,
				ItemStyle: &opts.ItemStyle{Color: color},
			})
		}
		bar.AddSeries(fmt.Sprintf("Stint %d", i+1), items,
			charts.WithBarChartOpts(opts.BarChart{Stack: "strategy"}))
	}
	bar.XYReversal()

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("rendering tire strategy: %w", err)
	}
	return nil
}

// resampleSpeed evaluates linearly-interpolated speed on a uniform grid
// over the samples' time span.
func resampleSpeed(car []f1.CarSample, points int) []trace.Point {
	sorted := trace.SortedCar(car)
	if len(sorted) == 0 || points < 2 {
		return nil
	}
	first, last := sorted[0].T, sorted[len(sorted)-1].T
	if last <= first {
		return []trace.Point{{T: first, Value: sorted[0].Speed}}
	}

	out := make([]trace.Point, 0, points)
	step := (last - first) / float64(points-1)
	for i := 0; i < points; i++ {
		t := first + float64(i)*step
		out = append(out, trace.Point{T: t, Value: trace.SpeedAtLinear(sorted, t)})
	}
	return out
}

// downsample strides points down to at most limit entries, always keeping
// the last point.
func downsample(points []trace.Point, limit int) []trace.Point {
	if len(points) <= limit || limit < 2 {
		return points
	}
	stride := (len(points) + limit - 1) / limit
	out := make([]trace.Point, 0, limit)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	if out[len(out)-1] != points[len(points)-1] {
		out = append(out, points[len(points)-1])
	}
	return out
}
