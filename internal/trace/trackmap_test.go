package trace

import (
	"math"
	"testing"

	"github.com/paddock-data/stint.report/internal/f1"
)

func lapLocations(n int, step float64) []f1.LocationSample {
	loc := make([]f1.LocationSample, n)
	for i := range loc {
		t := float64(i) * step
		loc[i] = f1.LocationSample{T: t, X: 100 * t, Y: 50 * t}
	}
	return loc
}

func TestBuildTrackMap(t *testing.T) {
	telemetry := map[int]f1.DriverTelemetry{
		1: {
			Acronym:  "VER",
			Color:    "#3671C6",
			Car:      constantSpeedCar(200, 2),
			Location: lapLocations(9, 0.25),
		},
		44: {
			Acronym:  "HAM",
			Color:    "#27F4D2",
			Car:      constantSpeedCar(210, 2),
			Location: lapLocations(9, 0.25),
		},
	}

	tm := BuildTrackMap(telemetry)
	if tm == nil {
		t.Fatal("expected a track map")
	}
	if len(tm.TrackX) != 9 || len(tm.TrackY) != 9 {
		t.Errorf("outline lengths = %d, %d; want 9", len(tm.TrackX), len(tm.TrackY))
	}
	if tm.FrameIntervalMs != 250 {
		t.Errorf("frame interval = %d, want 250", tm.FrameIntervalMs)
	}
	if math.Abs(tm.LapDuration-2.0) > 1e-9 {
		t.Errorf("lap duration = %v, want 2.0", tm.LapDuration)
	}
	// Grid covers 0 to 2.0 inclusive at 0.25 s: 9 frames.
	if len(tm.Frames) != 9 {
		t.Fatalf("expected 9 frames, got %d", len(tm.Frames))
	}
	if got := tm.DriverColors["VER"]; got != "#3671C6" {
		t.Errorf("VER color = %q", got)
	}
	if got := tm.DriverColors["HAM"]; got != "#27F4D2" {
		t.Errorf("HAM color = %q", got)
	}

	for i, frame := range tm.Frames {
		want := float64(i) * 0.25
		if math.Abs(frame.T-want) > 1e-9 {
			t.Errorf("frame %d at t=%v, want %v", i, frame.T, want)
		}
		if len(frame.Positions) != 2 {
			t.Errorf("frame %d has %d positions, want 2", i, len(frame.Positions))
		}
	}

	// Interpolated coordinates track the linear path.
	mid := tm.Frames[4] // t = 1.0
	for _, p := range mid.Positions {
		if math.Abs(p.X-100) > 1e-9 || math.Abs(p.Y-50) > 1e-9 {
			t.Errorf("position at t=1.0 = (%v, %v), want (100, 50)", p.X, p.Y)
		}
		if p.Speed == 0 {
			t.Errorf("position at t=1.0 has no speed")
		}
	}
}

func TestBuildTrackMapOutlineFromLowestNumberedDriver(t *testing.T) {
	telemetry := map[int]f1.DriverTelemetry{
		44: {Acronym: "HAM", Location: lapLocations(5, 0.25)},
		4:  {Acronym: "NOR", Location: lapLocations(3, 0.25)},
	}

	for i := 0; i < 10; i++ {
		tm := BuildTrackMap(telemetry)
		if tm == nil {
			t.Fatal("expected a track map")
		}
		if len(tm.TrackX) != 3 {
			t.Fatalf("call %d: outline has %d points, want 3 (from driver 4)", i, len(tm.TrackX))
		}
	}
}

func TestBuildTrackMapNoLocationData(t *testing.T) {
	telemetry := map[int]f1.DriverTelemetry{
		1: {Acronym: "VER", Car: constantSpeedCar(200, 2)},
	}
	if BuildTrackMap(telemetry) != nil {
		t.Error("track map without location data should be nil")
	}
	if BuildTrackMap(nil) != nil {
		t.Error("track map for no drivers should be nil")
	}
}

func TestBuildTrackMapEmptyFramesForGaps(t *testing.T) {
	// One driver stops reporting after 1 s while the lap runs 3 s; the
	// later frames still exist but only carry the longer-running driver.
	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Location: lapLocations(13, 0.25)}, // 0..3 s
		44: {Acronym: "HAM", Location: lapLocations(5, 0.25)},  // 0..1 s
	}

	tm := BuildTrackMap(telemetry)
	if tm == nil {
		t.Fatal("expected a track map")
	}
	if len(tm.Frames) != 13 {
		t.Fatalf("expected 13 frames, got %d", len(tm.Frames))
	}

	last := tm.Frames[len(tm.Frames)-1] // t = 3.0, HAM out of tolerance
	if len(last.Positions) != 1 {
		t.Fatalf("last frame has %d positions, want 1", len(last.Positions))
	}
	if last.Positions[0].Acronym != "VER" {
		t.Errorf("last frame position acronym = %q, want VER", last.Positions[0].Acronym)
	}

	// Within the 0.5 s clamp tolerance HAM is still placed at the last
	// known location.
	clamped := tm.Frames[5] // t = 1.25
	if len(clamped.Positions) != 2 {
		t.Fatalf("frame at t=1.25 has %d positions, want 2", len(clamped.Positions))
	}
}
