// Package f1 defines the immutable value types shared across the session
// analysis pipeline, together with the pure lap classification helpers and
// session-level aggregates built on them.
//
// Optional measurements are pointer fields: a nil duration means the lap was
// never completed (or was invalidated), a nil sector means that sector was
// not timed. Values are never mutated after construction.
package f1

import (
	"strings"
	"time"
)

// Tire compound labels, normalized to uppercase.
const (
	CompoundSoft         = "SOFT"
	CompoundMedium       = "MEDIUM"
	CompoundHard         = "HARD"
	CompoundIntermediate = "INTERMEDIATE"
	CompoundWet          = "WET"
	CompoundUnknown      = "UNKNOWN"
)

// NormalizeCompound uppercases a source compound label, mapping empty and
// unrecognized labels to CompoundUnknown.
func NormalizeCompound(s string) string {
	switch c := strings.ToUpper(strings.TrimSpace(s)); c {
	case CompoundSoft, CompoundMedium, CompoundHard, CompoundIntermediate, CompoundWet:
		return c
	default:
		return CompoundUnknown
	}
}

// Driver identifies one entrant in a session.
type Driver struct {
	Number     int
	Acronym    string
	FullName   string
	TeamName   string
	TeamColour string // hex without '#'; empty when the source has none
}

// Lap is one measured lap for one driver.
type Lap struct {
	Number       int
	DriverNumber int
	Duration     *float64 // seconds; nil for incomplete or invalidated laps
	Sector1      *float64
	Sector2      *float64
	Sector3      *float64
	I1Speed      *float64 // km/h speed-trap readings
	I2Speed      *float64
	STSpeed      *float64
	PitOut       bool       // lap began by exiting the pits
	Start        *time.Time // required only for telemetry lookups
}

// Stint is a contiguous lap range on one tire compound.
type Stint struct {
	Number   int
	Compound string
	LapStart int // inclusive
	LapEnd   int // inclusive
	TyreAge  int // laps already on this tire set before the stint
}

// Pit is one pit stop.
type Pit struct {
	LapNumber int
	Duration  *float64 // seconds stationary; nil when not reported
}

// Meeting is one race weekend.
type Meeting struct {
	Key  int
	Name string
}

// Session is one timed session within a meeting.
type Session struct {
	Key  int
	Name string
	Type string // "Practice", "Qualifying", "Race"
}

// IsPractice reports whether the session is a practice session, which
// loosens some comparison heuristics.
func (s Session) IsPractice() bool {
	return s.Type == "Practice"
}

// WeatherSample is one track weather observation.
type WeatherSample struct {
	Time      time.Time
	TrackTemp float64 // °C
}

// CarSample is one car telemetry observation, time-relative to a lap start.
// Samples are not guaranteed to arrive sorted by T.
type CarSample struct {
	T        float64 // seconds into the lap, >= 0
	Speed    float64 // km/h
	RPM      float64
	Throttle float64
	Brake    float64
	Gear     int
	DRS      int
}

// LocationSample is one on-track position observation, time-relative to a
// lap start. X and Y define the 2D track map; Z is carried through unused.
type LocationSample struct {
	T float64
	X float64
	Y float64
	Z float64
}

// DriverTelemetry bundles one driver's best-lap telemetry with display
// attributes. Built by the comparison service; consumed by the delta
// engines and the track-position reconstructor.
type DriverTelemetry struct {
	Acronym  string
	Color    string
	Car      []CarSample
	Location []LocationSample
}

// Float64 returns a pointer to v. Convenience for optional fields.
func Float64(v float64) *float64 { return &v }

// TimePtr returns a pointer to t. Convenience for optional fields.
func TimePtr(t time.Time) *time.Time { return &t }
