package f1

import (
	"fmt"
	"math"
)

// Dash is rendered wherever a value is absent.
const Dash = "—"

// sessionBestTolerance treats deltas under half a millisecond as "this lap
// is the session best" rather than printing a zero gap.
const sessionBestTolerance = 0.0005

// FormatLapTime formats a lap or sector duration in seconds as m:ss.mmm.
// A nil duration renders as a dash.
func FormatLapTime(seconds *float64) string {
	if seconds == nil {
		return Dash
	}
	mins := int(*seconds / 60)
	secs := *seconds - float64(mins*60)
	return fmt.Sprintf("%d:%06.3f", mins, secs)
}

// FormatDelta formats a driver's gap to the session best as "(+s.mmm)", or
// "(session best)" when the driver holds it. Returns "" when either value
// is missing.
func FormatDelta(driverBest, sessionBest *float64) string {
	if driverBest == nil || sessionBest == nil {
		return ""
	}
	delta := *driverBest - *sessionBest
	if math.Abs(delta) < sessionBestTolerance {
		return "(session best)"
	}
	return fmt.Sprintf("(+%.3f)", delta)
}

// FormatTemperature formats a track temperature as "31.5°C", or a dash for
// nil.
func FormatTemperature(celsius *float64) string {
	if celsius == nil {
		return Dash
	}
	return fmt.Sprintf("%.1f°C", *celsius)
}
