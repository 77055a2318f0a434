// Package compare assembles cross-driver session comparisons: best and
// ideal laps, stint pace tables with insights, speed traps, and best-lap
// telemetry bundles for the delta engines and the track map.
//
// Fetch methods degrade per the repository contract: a failed weather or
// telemetry fetch empties that aspect and the comparison continues; missing
// laps or stints abort, because nothing downstream works without them.
package compare

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/f1data"
	"github.com/paddock-data/stint.report/internal/monitoring"
)

// Service runs comparisons over one repository backend.
type Service struct {
	Repo f1data.Repository
}

// NewService creates a comparison service.
func NewService(repo f1data.Repository) *Service {
	return &Service{Repo: repo}
}

// SessionData is everything one comparison needs, fetched once.
type SessionData struct {
	Session f1.Session
	Drivers []f1.Driver // requested drivers, ascending by number
	Colors  map[int]string
	Laps    map[int][]f1.Lap
	Stints  map[int][]f1.Stint
	Pits    map[int][]f1.Pit
	Weather []f1.WeatherSample
}

// Driver returns the entry for a driver number.
func (d *SessionData) Driver(number int) (f1.Driver, bool) {
	for _, drv := range d.Drivers {
		if drv.Number == number {
			return drv, true
		}
	}
	return f1.Driver{}, false
}

// FetchComparisonData loads laps, stints and pit stops for the requested
// drivers plus the session weather series. An empty driverNumbers selects
// every driver in the session. Weather and pit failures degrade to empty;
// lap and stint failures abort.
func (s *Service) FetchComparisonData(ctx context.Context, session f1.Session, driverNumbers []int) (*SessionData, error) {
	entered, err := s.Repo.Drivers(ctx, session.Key)
	if err != nil {
		return nil, fmt.Errorf("drivers for session %d: %w", session.Key, err)
	}

	drivers := selectDrivers(entered, driverNumbers)
	if len(drivers) == 0 {
		return nil, fmt.Errorf("no matching drivers in session %d", session.Key)
	}

	data := &SessionData{
		Session: session,
		Drivers: drivers,
		Colors:  f1.AssignDriverColors(drivers),
		Laps:    make(map[int][]f1.Lap, len(drivers)),
		Stints:  make(map[int][]f1.Stint, len(drivers)),
		Pits:    make(map[int][]f1.Pit, len(drivers)),
	}

	for _, d := range drivers {
		laps, err := s.Repo.Laps(ctx, session.Key, d.Number)
		if err != nil {
			return nil, fmt.Errorf("laps for driver %d: %w", d.Number, err)
		}
		stints, err := s.Repo.Stints(ctx, session.Key, d.Number)
		if err != nil {
			return nil, fmt.Errorf("stints for driver %d: %w", d.Number, err)
		}
		data.Laps[d.Number] = laps
		data.Stints[d.Number] = stints

		pits, err := s.Repo.Pits(ctx, session.Key, d.Number)
		if err != nil {
			monitoring.Logf("compare: pit stops unavailable for driver %d: %v", d.Number, err)
			pits = nil
		}
		data.Pits[d.Number] = pits
	}

	wx, err := s.Repo.Weather(ctx, session.Key)
	if err != nil {
		monitoring.Logf("compare: weather unavailable for session %d: %v", session.Key, err)
		wx = nil
	}
	data.Weather = wx

	return data, nil
}

// selectDrivers filters entered down to the requested numbers, sorted
// ascending. Empty numbers selects everyone.
func selectDrivers(entered []f1.Driver, numbers []int) []f1.Driver {
	var out []f1.Driver
	if len(numbers) == 0 {
		out = append(out, entered...)
	} else {
		want := make(map[int]bool, len(numbers))
		for _, n := range numbers {
			want[n] = true
		}
		for _, d := range entered {
			if want[d.Number] {
				out = append(out, d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// FetchBestLapTelemetry fetches each driver's best clean lap telemetry
// concurrently. A driver whose telemetry fetch fails, or who has no timed
// best lap, is still present with empty sample lists so downstream colors
// and labels stay complete.
func (s *Service) FetchBestLapTelemetry(ctx context.Context, data *SessionData) (map[int]f1.DriverTelemetry, error) {
	out := make(map[int]f1.DriverTelemetry, len(data.Drivers))
	results := make([]f1.DriverTelemetry, len(data.Drivers))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range data.Drivers {
		i, d := i, d
		results[i] = f1.DriverTelemetry{
			Acronym: d.Acronym,
			Color:   data.Colors[d.Number],
		}
		g.Go(func() error {
			best, ok := f1.BestLap(data.Laps[d.Number])
			if !ok || best.Start == nil || best.Duration == nil {
				monitoring.Debugf("compare: no usable best lap for driver %d", d.Number)
				return nil
			}
			start := *best.Start
			end := start.Add(time.Duration(*best.Duration * float64(time.Second)))

			car, err := s.Repo.CarTelemetry(gctx, data.Session.Key, d.Number, start, end)
			if err != nil {
				monitoring.Logf("compare: car telemetry unavailable for driver %d: %v", d.Number, err)
				car = nil
			}
			loc, err := s.Repo.Location(gctx, data.Session.Key, d.Number, start, end)
			if err != nil {
				monitoring.Logf("compare: location unavailable for driver %d: %v", d.Number, err)
				loc = nil
			}

			results[i].Car = car
			results[i].Location = loc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, d := range data.Drivers {
		out[d.Number] = results[i]
	}
	return out, nil
}
