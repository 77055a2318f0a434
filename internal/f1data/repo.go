// Package f1data provides session data access behind a single Repository
// interface, with an OpenF1 API backend, a local sqlite archive backend,
// and a TTL cache decorator usable over either.
package f1data

import (
	"context"
	"errors"
	"time"

	"github.com/paddock-data/stint.report/internal/f1"
)

// ErrUnavailable wraps any backend failure to fetch session data. Callers
// match it with errors.Is when they want to degrade instead of abort.
var ErrUnavailable = errors.New("session data unavailable")

// unavailable tags err with ErrUnavailable.
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrUnavailable, err)
}

// Repository is the data surface the analysis layer consumes. Telemetry
// lookups are windowed by wall-clock time (a lap's start and end) because
// full-session telemetry is far too large to move in one call.
//
// Implementations return empty slices, not errors, when a query simply has
// no data; errors mean the backend itself failed.
type Repository interface {
	// Meetings lists the race weekends of a season.
	Meetings(ctx context.Context, year int) ([]f1.Meeting, error)

	// Sessions lists the sessions of a meeting.
	Sessions(ctx context.Context, meetingKey int) ([]f1.Session, error)

	// Drivers lists the drivers entered in a session.
	Drivers(ctx context.Context, sessionKey int) ([]f1.Driver, error)

	// Laps lists one driver's laps, ordered by lap number.
	Laps(ctx context.Context, sessionKey, driverNumber int) ([]f1.Lap, error)

	// AllLaps lists every driver's laps in one call.
	AllLaps(ctx context.Context, sessionKey int) ([]f1.Lap, error)

	// Stints lists one driver's stints, ordered by stint number.
	Stints(ctx context.Context, sessionKey, driverNumber int) ([]f1.Stint, error)

	// Pits lists one driver's pit stops.
	Pits(ctx context.Context, sessionKey, driverNumber int) ([]f1.Pit, error)

	// Weather lists the session's weather samples in time order.
	Weather(ctx context.Context, sessionKey int) ([]f1.WeatherSample, error)

	// CarTelemetry lists one driver's car samples inside [start, end],
	// with T rebased to seconds after start.
	CarTelemetry(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.CarSample, error)

	// Location lists one driver's track positions inside [start, end],
	// with T rebased to seconds after start.
	Location(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.LocationSample, error)
}
