package f1

import "testing"

func TestFormatLapTime(t *testing.T) {
	testCases := []struct {
		name     string
		seconds  *float64
		expected string
	}{
		{"nil_is_dash", nil, Dash},
		{"typical_lap", Float64(91.234), "1:31.234"},
		{"under_a_minute", Float64(28.5), "0:28.500"},
		{"two_minutes", Float64(125.001), "2:05.001"},
		{"zero", Float64(0), "0:00.000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatLapTime(tc.seconds); got != tc.expected {
				t.Errorf("FormatLapTime = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestFormatDelta(t *testing.T) {
	testCases := []struct {
		name        string
		driverBest  *float64
		sessionBest *float64
		expected    string
	}{
		{"nil_driver", nil, Float64(90.0), ""},
		{"nil_session", Float64(90.0), nil, ""},
		{"holds_session_best", Float64(90.0), Float64(90.0), "(session best)"},
		{"within_half_millisecond", Float64(90.0004), Float64(90.0), "(session best)"},
		{"positive_gap", Float64(90.5), Float64(90.0), "(+0.500)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDelta(tc.driverBest, tc.sessionBest); got != tc.expected {
				t.Errorf("FormatDelta = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestFormatTemperature(t *testing.T) {
	if got := FormatTemperature(Float64(31.25)); got != "31.2°C" && got != "31.3°C" {
		t.Errorf("FormatTemperature = %q", got)
	}
	if got := FormatTemperature(nil); got != Dash {
		t.Errorf("nil temperature = %q, want dash", got)
	}
}
