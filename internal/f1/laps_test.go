package f1

import (
	"math"
	"testing"
)

func lap(number int, duration *float64, pitOut bool) Lap {
	return Lap{Number: number, Duration: duration, PitOut: pitOut}
}

func TestValidLaps(t *testing.T) {
	laps := []Lap{
		lap(1, Float64(95.0), true),
		lap(2, nil, false),
		lap(3, Float64(90.0), false),
	}

	valid := ValidLaps(laps)
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid laps, got %d", len(valid))
	}
	if valid[0].Number != 1 || valid[1].Number != 3 {
		t.Errorf("order not preserved: %v %v", valid[0].Number, valid[1].Number)
	}
}

func TestCleanLaps(t *testing.T) {
	laps := []Lap{
		lap(1, Float64(95.0), true),
		lap(2, nil, false),
		lap(3, Float64(90.0), false),
		lap(4, Float64(91.0), false),
	}

	clean := CleanLaps(laps)
	if len(clean) != 2 {
		t.Fatalf("expected 2 clean laps, got %d", len(clean))
	}
	for _, l := range clean {
		if l.PitOut || l.Duration == nil {
			t.Errorf("lap %d should be clean", l.Number)
		}
	}
}

func TestSplitCleanAndPitOut(t *testing.T) {
	valid := []Lap{
		lap(1, Float64(95.0), true),
		lap(2, Float64(90.0), false),
		lap(3, Float64(96.0), true),
		lap(4, Float64(91.0), false),
	}

	clean, pitOut := SplitCleanAndPitOut(valid)
	if len(clean) != 2 || len(pitOut) != 2 {
		t.Fatalf("split = %d clean, %d pit-out", len(clean), len(pitOut))
	}
	if clean[0].Number != 2 || clean[1].Number != 4 {
		t.Errorf("clean order not preserved: %+v", clean)
	}
	if pitOut[0].Number != 1 || pitOut[1].Number != 3 {
		t.Errorf("pit-out order not preserved: %+v", pitOut)
	}
}

func TestSessionBest(t *testing.T) {
	testCases := []struct {
		name     string
		laps     []Lap
		expected float64
		ok       bool
	}{
		{"empty", nil, 0, false},
		{"no_valid", []Lap{lap(1, nil, false)}, 0, false},
		{"includes_pit_out", []Lap{lap(1, Float64(85.0), true), lap(2, Float64(90.0), false)}, 85.0, true},
		{"picks_minimum", []Lap{lap(1, Float64(92.0), false), lap(2, Float64(90.5), false), lap(3, Float64(91.0), false)}, 90.5, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SessionBest(tc.laps)
			if ok != tc.ok || (ok && got != tc.expected) {
				t.Errorf("SessionBest() = %v, %v; want %v, %v", got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestSessionMedian(t *testing.T) {
	laps := []Lap{
		lap(1, Float64(90.0), false),
		lap(2, Float64(91.0), false),
		lap(3, Float64(95.0), true), // pit-out excluded from median
		lap(4, Float64(92.0), false),
	}
	got, ok := SessionMedian(laps)
	if !ok || got != 91.0 {
		t.Errorf("SessionMedian() = %v, %v; want 91.0, true", got, ok)
	}

	// Even count averages the middle two.
	laps = append(laps, lap(5, Float64(93.0), false))
	got, ok = SessionMedian(laps)
	if !ok || got != 91.5 {
		t.Errorf("SessionMedian() = %v, %v; want 91.5, true", got, ok)
	}

	if _, ok := SessionMedian(nil); ok {
		t.Error("empty laps should have no median")
	}
}

func TestAverageLap(t *testing.T) {
	laps := []Lap{
		lap(1, Float64(90.0), false),
		lap(2, Float64(92.0), false),
		lap(3, Float64(100.0), true), // pit-out excluded
	}
	got, ok := AverageLap(laps)
	if !ok || math.Abs(got-91.0) > 1e-9 {
		t.Errorf("AverageLap() = %v, %v; want 91.0, true", got, ok)
	}
}

func TestBestLap(t *testing.T) {
	laps := []Lap{
		lap(1, Float64(85.0), true), // pit-out never wins
		lap(2, Float64(90.5), false),
		lap(3, Float64(90.0), false),
	}
	best, ok := BestLap(laps)
	if !ok || best.Number != 3 {
		t.Errorf("BestLap() = %+v, %v; want lap 3", best, ok)
	}

	if _, ok := BestLap([]Lap{lap(1, nil, false)}); ok {
		t.Error("no clean laps should yield no best lap")
	}
}

func TestIdealLap(t *testing.T) {
	laps := []Lap{
		{Number: 1, Sector1: Float64(28.0), Sector2: Float64(35.0), Sector3: Float64(30.0)},
		{Number: 2, Sector1: Float64(27.0), Sector2: Float64(34.0), Sector3: Float64(31.0)},
		{Number: 3, Sector1: Float64(27.5), Sector2: Float64(34.5), Sector3: Float64(29.5)},
	}

	got, ok := IdealLap(laps)
	if !ok || math.Abs(got-90.5) > 1e-9 {
		t.Errorf("IdealLap() = %v, %v; want 90.5, true", got, ok)
	}
}

func TestIdealLapMissingSector(t *testing.T) {
	laps := []Lap{
		{Number: 1, Sector1: Float64(28.0), Sector2: Float64(35.0)},
		{Number: 2, Sector1: Float64(27.0), Sector2: Float64(34.0)},
	}
	if _, ok := IdealLap(laps); ok {
		t.Error("ideal lap should be absent when sector 3 was never timed")
	}
}

func TestCompoundForLap(t *testing.T) {
	stints := []Stint{
		{Number: 1, Compound: "soft", LapStart: 1, LapEnd: 5},
		{Number: 2, Compound: "MEDIUM", LapStart: 6, LapEnd: 10},
	}

	testCases := []struct {
		lapNumber int
		expected  string
	}{
		{1, CompoundSoft},
		{5, CompoundSoft},
		{6, CompoundMedium},
		{10, CompoundMedium},
		{99, CompoundUnknown},
	}

	for _, tc := range testCases {
		if got := CompoundForLap(tc.lapNumber, stints); got != tc.expected {
			t.Errorf("CompoundForLap(%d) = %q, want %q", tc.lapNumber, got, tc.expected)
		}
	}

	if got := CompoundForLap(1, nil); got != CompoundUnknown {
		t.Errorf("empty stints = %q, want UNKNOWN", got)
	}
}

func TestStintForLap(t *testing.T) {
	stints := []Stint{
		{Number: 1, Compound: "SOFT", LapStart: 1, LapEnd: 8, TyreAge: 2},
	}
	s, ok := StintForLap(3, stints)
	if !ok || s.Number != 1 {
		t.Errorf("StintForLap(3) = %+v, %v", s, ok)
	}
	if _, ok := StintForLap(9, stints); ok {
		t.Error("lap 9 is outside every stint")
	}
}

func TestNormalizeCompound(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"soft", CompoundSoft},
		{"SOFT", CompoundSoft},
		{" Medium ", CompoundMedium},
		{"intermediate", CompoundIntermediate},
		{"", CompoundUnknown},
		{"TEST_UNKNOWN", CompoundUnknown},
	}
	for _, tc := range testCases {
		if got := NormalizeCompound(tc.in); got != tc.expected {
			t.Errorf("NormalizeCompound(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}
