// Package units provides speed unit conversions shared across the telemetry
// pipeline. Car telemetry arrives in km/h; distance integration works in m/s.
package units

// Unit constants
const (
	MPS = "mps"
	KPH = "kph"
	MPH = "mph"
)

// KphToMps converts a speed from km/h to meters per second.
func KphToMps(kph float64) float64 {
	return kph / 3.6
}

// MpsToKph converts a speed from meters per second to km/h.
func MpsToKph(mps float64) float64 {
	return mps * 3.6
}

// ConvertSpeed converts a speed from km/h (the telemetry wire unit) to the
// target units. Unknown units return the input unchanged.
func ConvertSpeed(speedKph float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedKph / 3.6
	case MPH:
		return speedKph * 0.62137119223733
	case KPH:
		return speedKph
	default:
		return speedKph
	}
}
