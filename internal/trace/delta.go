package trace

import (
	"sort"

	"github.com/paddock-data/stint.report/internal/f1"
)

// Point is one sample of a derived trace: T is the x-axis value (meters for
// speed deltas, seconds for everything else) and Value the y-axis value.
type Point struct {
	T     float64
	Value float64
}

// Trace is one driver's derived series with display attributes.
type Trace struct {
	Acronym string
	Color   string
	Points  []Point
}

// DeltaComparison holds the per-driver delta traces against the reference
// driver. The reference itself carries no trace: its delta is zero by
// definition.
type DeltaComparison struct {
	ReferenceAcronym string
	Traces           []Trace
}

// SpeedDelta compares every driver's speed against the reference driver at
// matched points on track. The x-axis is the cumulative distance covered by
// the reference; at each reference distance sample the compared driver's
// speed is taken at the time they reached that same distance along their
// own profile. Positive values mean the compared driver was faster at that
// point on track.
//
// The reference is the driver with the most car telemetry samples, ties
// resolved to the lowest driver number. Returns nil when fewer than two
// drivers have car telemetry.
func SpeedDelta(telemetry map[int]f1.DriverTelemetry) *DeltaComparison {
	refNum, ok := referenceDriver(telemetry)
	if !ok {
		return nil
	}

	ref := telemetry[refNum]
	refCar := SortedCar(ref.Car)
	refProfile := DistanceProfile(refCar)

	result := &DeltaComparison{ReferenceAcronym: ref.Acronym}
	for _, dn := range DriverNumbers(telemetry) {
		if dn == refNum || len(telemetry[dn].Car) == 0 {
			continue
		}
		comp := telemetry[dn]
		compCar := SortedCar(comp.Car)
		compProfile := DistanceProfile(compCar)

		var points []Point
		for _, pp := range refProfile {
			compTime, ok := TimeAtDistance(compProfile, pp.Distance)
			if !ok {
				continue
			}
			refSpeed := SpeedAt(refCar, pp.T)
			compSpeed := SpeedAt(compCar, compTime)
			points = append(points, Point{T: pp.Distance, Value: compSpeed - refSpeed})
		}
		if len(points) > 0 {
			result.Traces = append(result.Traces, Trace{Acronym: comp.Acronym, Color: comp.Color, Points: points})
		}
	}

	if len(result.Traces) == 0 {
		return nil
	}
	return result
}

// TimeDelta compares how long every driver took to reach the reference
// driver's position on track. The x-axis is time into the reference's lap;
// at each reference sample time the reference's cumulative distance is
// looked up, then the time the compared driver needed to cover that same
// distance. Positive values mean the compared driver is behind: they needed
// more time to cover the same ground.
//
// Reference selection and the under-two-drivers result match SpeedDelta.
func TimeDelta(telemetry map[int]f1.DriverTelemetry) *DeltaComparison {
	refNum, ok := referenceDriver(telemetry)
	if !ok {
		return nil
	}

	ref := telemetry[refNum]
	refCar := SortedCar(ref.Car)
	refProfile := DistanceProfile(refCar)

	result := &DeltaComparison{ReferenceAcronym: ref.Acronym}
	for _, dn := range DriverNumbers(telemetry) {
		if dn == refNum || len(telemetry[dn].Car) == 0 {
			continue
		}
		comp := telemetry[dn]
		compProfile := DistanceProfile(SortedCar(comp.Car))

		var points []Point
		for _, pp := range refProfile {
			compTime, ok := TimeAtDistance(compProfile, pp.Distance)
			if !ok {
				continue
			}
			points = append(points, Point{T: pp.T, Value: compTime - pp.T})
		}
		if len(points) > 0 {
			result.Traces = append(result.Traces, Trace{Acronym: comp.Acronym, Color: comp.Color, Points: points})
		}
	}

	if len(result.Traces) == 0 {
		return nil
	}
	return result
}

// referenceDriver picks the driver with the most car telemetry samples,
// breaking ties with the lowest driver number so repeated calls always
// agree. The second return is false when fewer than two drivers have any
// car telemetry.
func referenceDriver(telemetry map[int]f1.DriverTelemetry) (int, bool) {
	withData := 0
	refNum := 0
	refSamples := -1
	for _, dn := range DriverNumbers(telemetry) {
		n := len(telemetry[dn].Car)
		if n == 0 {
			continue
		}
		withData++
		if n > refSamples {
			refNum = dn
			refSamples = n
		}
	}
	if withData < 2 {
		return 0, false
	}
	return refNum, true
}

// DriverNumbers returns the telemetry map's keys in ascending order, the
// iteration order every engine here uses for determinism.
func DriverNumbers(telemetry map[int]f1.DriverTelemetry) []int {
	nums := make([]int, 0, len(telemetry))
	for dn := range telemetry {
		nums = append(nums, dn)
	}
	sort.Ints(nums)
	return nums
}
