package trace

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/paddock-data/stint.report/internal/f1"
)

// constantSpeedCar samples a car at a fixed speed every 100 ms for the
// given duration.
func constantSpeedCar(speedKph, duration float64) []f1.CarSample {
	var car []f1.CarSample
	for t := 0.0; t <= duration+1e-9; t += 0.1 {
		car = append(car, f1.CarSample{T: t, Speed: speedKph})
	}
	return car
}

func TestSpeedDeltaConstantSpeeds(t *testing.T) {
	// 200 vs 220 km/h: the comparison driver is 20 km/h faster at every
	// point on the reference distance axis.
	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Color: "#3671C6", Car: constantSpeedCar(200, 10)},
		44: {Acronym: "HAM", Color: "#27F4D2", Car: constantSpeedCar(220, 10)},
	}

	comparison := SpeedDelta(telemetry)
	if comparison == nil {
		t.Fatal("expected a comparison")
	}
	if comparison.ReferenceAcronym != "VER" {
		t.Fatalf("reference = %q, want VER (equal sample counts, lowest driver number)", comparison.ReferenceAcronym)
	}
	if len(comparison.Traces) != 1 {
		t.Fatalf("expected 1 trace, got %d", len(comparison.Traces))
	}

	trace := comparison.Traces[0]
	if trace.Acronym != "HAM" {
		t.Errorf("trace acronym = %q, want HAM", trace.Acronym)
	}
	if len(trace.Points) == 0 {
		t.Fatal("trace has no points")
	}
	for _, p := range trace.Points {
		if math.Abs(p.Value-20) > 1e-9 {
			t.Fatalf("delta at distance %v = %v, want +20", p.T, p.Value)
		}
	}
}

func TestSpeedDeltaSignFlipsWithRoles(t *testing.T) {
	slow := constantSpeedCar(200, 10)
	fast := constantSpeedCar(220, 10)
	// Extra sample makes HAM the reference.
	fast = append(fast, f1.CarSample{T: 10.1, Speed: 220})

	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: slow},
		44: {Acronym: "HAM", Car: fast},
	}

	comparison := SpeedDelta(telemetry)
	if comparison == nil {
		t.Fatal("expected a comparison")
	}
	if comparison.ReferenceAcronym != "HAM" {
		t.Fatalf("reference = %q, want HAM (most samples)", comparison.ReferenceAcronym)
	}
	for _, p := range comparison.Traces[0].Points {
		if math.Abs(p.Value-(-20)) > 1e-9 {
			t.Fatalf("delta at distance %v = %v, want -20", p.T, p.Value)
		}
	}
}

func TestSpeedDeltaSkipsUnreachableDistances(t *testing.T) {
	// The reference covers twice the distance of the comparison driver;
	// points beyond the comparison driver's total distance are skipped.
	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: constantSpeedCar(360, 10)},
		44: {Acronym: "HAM", Car: constantSpeedCar(180, 10)},
	}

	comparison := SpeedDelta(telemetry)
	if comparison == nil {
		t.Fatal("expected a comparison")
	}
	points := comparison.Traces[0].Points
	if len(points) == 0 {
		t.Fatal("trace has no points")
	}
	// VER travels 1000 m, HAM only 500 m.
	maxDistance := points[len(points)-1].T
	if maxDistance > 500+1e-6 {
		t.Errorf("last point at distance %v exceeds comparison driver's range", maxDistance)
	}
}

func TestTimeDeltaConstantSpeeds(t *testing.T) {
	// Reference at 360 km/h, comparison at 180 km/h: the comparison
	// driver needs exactly twice as long to any distance, so the time
	// delta at reference time t is exactly t.
	ref := constantSpeedCar(360, 10)

	// Sparser sampling so the half-speed driver still covers the
	// reference distance without becoming the reference itself.
	var comp []f1.CarSample
	for tt := 0.0; tt <= 21; tt += 0.25 {
		comp = append(comp, f1.CarSample{T: tt, Speed: 180})
	}

	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: ref},
		44: {Acronym: "HAM", Car: comp},
	}

	comparison := TimeDelta(telemetry)
	if comparison == nil {
		t.Fatal("expected a comparison")
	}
	if comparison.ReferenceAcronym != "VER" {
		t.Fatalf("reference = %q, want VER", comparison.ReferenceAcronym)
	}
	points := comparison.Traces[0].Points
	if len(points) == 0 {
		t.Fatal("trace has no points")
	}
	for _, p := range points {
		if math.Abs(p.Value-p.T) > 1e-6 {
			t.Fatalf("time delta at t=%v is %v, want %v", p.T, p.Value, p.T)
		}
	}
}

func TestTimeDeltaIdenticalDriversIsZero(t *testing.T) {
	car := constantSpeedCar(250, 10)
	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: car},
		44: {Acronym: "HAM", Car: append([]f1.CarSample(nil), car...)},
	}

	comparison := TimeDelta(telemetry)
	if comparison == nil {
		t.Fatal("expected a comparison")
	}
	for _, p := range comparison.Traces[0].Points {
		if math.Abs(p.Value) > 1e-9 {
			t.Fatalf("time delta at t=%v is %v, want 0", p.T, p.Value)
		}
	}
}

func TestDeltaRequiresTwoDrivers(t *testing.T) {
	single := map[int]f1.DriverTelemetry{
		1: {Acronym: "VER", Car: constantSpeedCar(200, 10)},
	}
	if SpeedDelta(single) != nil {
		t.Error("speed delta with one driver should be nil")
	}
	if TimeDelta(single) != nil {
		t.Error("time delta with one driver should be nil")
	}
	if SpeedDelta(nil) != nil {
		t.Error("speed delta with no drivers should be nil")
	}
	if TimeDelta(map[int]f1.DriverTelemetry{}) != nil {
		t.Error("time delta with no drivers should be nil")
	}
}

func TestReferenceDriverMostSamples(t *testing.T) {
	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: constantSpeedCar(200, 1)},  // 11 samples
		44: {Acronym: "HAM", Car: constantSpeedCar(200, 2)},  // 21 samples
	}

	// Deterministic across repeated calls despite map iteration order.
	for i := 0; i < 20; i++ {
		comparison := SpeedDelta(telemetry)
		if comparison == nil {
			t.Fatal("expected a comparison")
		}
		if comparison.ReferenceAcronym != "HAM" {
			t.Fatalf("call %d: reference = %q, want HAM", i, comparison.ReferenceAcronym)
		}
		if len(comparison.Traces) != 1 || comparison.Traces[0].Acronym != "VER" {
			t.Fatalf("call %d: unexpected traces %+v", i, comparison.Traces)
		}
	}
}

func TestDeltaSortInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	varying := func(n int) []f1.CarSample {
		car := make([]f1.CarSample, n)
		for i := range car {
			t := float64(i) * 0.1
			car[i] = f1.CarSample{T: t, Speed: 200 + 80*math.Sin(t)}
		}
		return car
	}
	shuffle := func(car []f1.CarSample) []f1.CarSample {
		out := append([]f1.CarSample(nil), car...)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	refCar := varying(120)
	compCar := varying(100)

	sorted := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: refCar},
		44: {Acronym: "HAM", Car: compCar},
	}
	shuffled := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: shuffle(refCar)},
		44: {Acronym: "HAM", Car: shuffle(compCar)},
	}

	approx := cmpopts.EquateApprox(0, 1e-9)
	if diff := cmp.Diff(SpeedDelta(sorted), SpeedDelta(shuffled), approx); diff != "" {
		t.Errorf("speed delta differs for shuffled input (-sorted +shuffled):\n%s", diff)
	}
	if diff := cmp.Diff(TimeDelta(sorted), TimeDelta(shuffled), approx); diff != "" {
		t.Errorf("time delta differs for shuffled input (-sorted +shuffled):\n%s", diff)
	}
}

func TestDeltaMultipleComparisonDrivers(t *testing.T) {
	telemetry := map[int]f1.DriverTelemetry{
		1:  {Acronym: "VER", Car: constantSpeedCar(200, 10)},
		16: {Acronym: "LEC", Car: constantSpeedCar(210, 9)},
		44: {Acronym: "HAM", Car: constantSpeedCar(190, 9)},
	}

	comparison := SpeedDelta(telemetry)
	if comparison == nil {
		t.Fatal("expected a comparison")
	}
	if comparison.ReferenceAcronym != "VER" {
		t.Fatalf("reference = %q, want VER", comparison.ReferenceAcronym)
	}
	if len(comparison.Traces) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(comparison.Traces))
	}
	// Traces come back in ascending driver-number order.
	if comparison.Traces[0].Acronym != "LEC" || comparison.Traces[1].Acronym != "HAM" {
		t.Errorf("trace order = %q, %q", comparison.Traces[0].Acronym, comparison.Traces[1].Acronym)
	}
}
