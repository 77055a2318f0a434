package trace

import "github.com/paddock-data/stint.report/internal/f1"

// frameIntervalMs is the fixed real-time spacing of animation frames.
const frameIntervalMs = 250

// Position is one driver's interpolated location and speed inside a frame.
type Position struct {
	Acronym string
	X       float64
	Y       float64
	Speed   float64 // km/h from the nearest car sample; 0 without telemetry
}

// Frame is the set of driver positions at one animation timestamp. Frames
// with no drivers present are still emitted so the animation timeline stays
// continuous.
type Frame struct {
	T         float64
	Positions []Position
}

// TrackMap is animation-ready track position data for a set of drivers.
// Each driver's time axis is anchored to their own lap start; animating by
// elapsed lap time gives a side-by-side comparison, not a wall-clock replay.
type TrackMap struct {
	TrackX          []float64
	TrackY          []float64
	Frames          []Frame
	DriverColors    map[string]string
	LapDuration     float64 // seconds; the longest location coverage seen
	FrameIntervalMs int
}

// BuildTrackMap reconstructs interpolated (x, y, speed) positions for all
// drivers on a fixed 250 ms grid spanning the longest lap in the set. The
// track outline is the full location trace of the first driver (lowest
// driver number) with location data. Returns nil when no driver has
// location coverage.
func BuildTrackMap(telemetry map[int]f1.DriverTelemetry) *TrackMap {
	type driverTrack struct {
		acronym string
		loc     []f1.LocationSample
		car     []f1.CarSample
	}

	var tracked []driverTrack
	var outline []f1.LocationSample
	maxDuration := 0.0
	colors := make(map[string]string, len(telemetry))

	for _, dn := range DriverNumbers(telemetry) {
		d := telemetry[dn]
		colors[d.Acronym] = d.Color
		if len(d.Location) == 0 {
			continue
		}
		loc := SortedLocations(d.Location)
		if outline == nil {
			outline = loc
		}
		if last := loc[len(loc)-1].T; last > maxDuration {
			maxDuration = last
		}
		tracked = append(tracked, driverTrack{acronym: d.Acronym, loc: loc, car: SortedCar(d.Car)})
	}

	if outline == nil || maxDuration <= 0 {
		return nil
	}

	trackX := make([]float64, len(outline))
	trackY := make([]float64, len(outline))
	for i, p := range outline {
		trackX[i] = p.X
		trackY[i] = p.Y
	}

	var frames []Frame
	step := float64(frameIntervalMs) / 1000.0
	for i := 0; ; i++ {
		t := float64(i) * step
		if t > maxDuration {
			break
		}
		frame := Frame{T: t}
		for _, d := range tracked {
			x, y, ok := PositionAt(d.loc, t)
			if !ok {
				continue
			}
			frame.Positions = append(frame.Positions, Position{
				Acronym: d.acronym,
				X:       x,
				Y:       y,
				Speed:   SpeedAt(d.car, t),
			})
		}
		frames = append(frames, frame)
	}

	return &TrackMap{
		TrackX:          trackX,
		TrackY:          trackY,
		Frames:          frames,
		DriverColors:    colors,
		LapDuration:     maxDuration,
		FrameIntervalMs: frameIntervalMs,
	}
}
