package compare

import (
	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/trace"
)

// RPMTraces builds one time-domain engine RPM trace per driver from
// best-lap telemetry. Drivers without car samples are omitted. Traces come
// back in ascending driver-number order.
func RPMTraces(telemetry map[int]f1.DriverTelemetry) []trace.Trace {
	return carTraces(telemetry, func(s f1.CarSample) float64 { return s.RPM })
}

// ThrottleTraces builds one time-domain throttle trace per driver.
func ThrottleTraces(telemetry map[int]f1.DriverTelemetry) []trace.Trace {
	return carTraces(telemetry, func(s f1.CarSample) float64 { return s.Throttle })
}

// LapProgression builds one lap-time-over-lap-number trace per driver from
// the session's timed laps. Drivers without a timed lap are omitted.
func LapProgression(data *SessionData) []trace.Trace {
	var out []trace.Trace
	for _, d := range data.Drivers {
		tr := trace.Trace{Acronym: d.Acronym, Color: data.Colors[d.Number]}
		for _, lap := range data.Laps[d.Number] {
			if lap.Duration == nil {
				continue
			}
			tr.Points = append(tr.Points, trace.Point{T: float64(lap.Number), Value: *lap.Duration})
		}
		if len(tr.Points) == 0 {
			continue
		}
		out = append(out, tr)
	}
	return out
}

func carTraces(telemetry map[int]f1.DriverTelemetry, value func(f1.CarSample) float64) []trace.Trace {
	var out []trace.Trace
	for _, dn := range trace.DriverNumbers(telemetry) {
		d := telemetry[dn]
		if len(d.Car) == 0 {
			continue
		}
		tr := trace.Trace{Acronym: d.Acronym, Color: d.Color}
		for _, s := range trace.SortedCar(d.Car) {
			tr.Points = append(tr.Points, trace.Point{T: s.T, Value: value(s)})
		}
		out = append(out, tr)
	}
	return out
}
