package f1data

import (
	"context"
	"time"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/monitoring"
	"github.com/paddock-data/stint.report/internal/openf1"
)

// OpenF1Repository serves session data live from the OpenF1 API.
type OpenF1Repository struct {
	Client *openf1.Client
}

// NewOpenF1Repository wraps an OpenF1 client as a Repository.
func NewOpenF1Repository(client *openf1.Client) *OpenF1Repository {
	return &OpenF1Repository{Client: client}
}

func (r *OpenF1Repository) Meetings(ctx context.Context, year int) ([]f1.Meeting, error) {
	records, err := r.Client.Meetings(ctx, year)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.Meeting, 0, len(records))
	for _, m := range records {
		out = append(out, f1.Meeting{Key: m.MeetingKey, Name: m.MeetingName})
	}
	return out, nil
}

func (r *OpenF1Repository) Sessions(ctx context.Context, meetingKey int) ([]f1.Session, error) {
	records, err := r.Client.Sessions(ctx, meetingKey)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.Session, 0, len(records))
	for _, s := range records {
		out = append(out, f1.Session{Key: s.SessionKey, Name: s.SessionName, Type: s.SessionType})
	}
	return out, nil
}

func (r *OpenF1Repository) Drivers(ctx context.Context, sessionKey int) ([]f1.Driver, error) {
	records, err := r.Client.Drivers(ctx, sessionKey)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.Driver, 0, len(records))
	for _, d := range records {
		out = append(out, f1.Driver{
			Number:     d.DriverNumber,
			Acronym:    d.NameAcronym,
			FullName:   d.FullName,
			TeamName:   d.TeamName,
			TeamColour: d.TeamColour,
		})
	}
	return out, nil
}

func (r *OpenF1Repository) Laps(ctx context.Context, sessionKey, driverNumber int) ([]f1.Lap, error) {
	records, err := r.Client.Laps(ctx, sessionKey, driverNumber)
	if err != nil {
		return nil, unavailable(err)
	}
	return mapLaps(records), nil
}

func (r *OpenF1Repository) AllLaps(ctx context.Context, sessionKey int) ([]f1.Lap, error) {
	records, err := r.Client.Laps(ctx, sessionKey, 0)
	if err != nil {
		return nil, unavailable(err)
	}
	return mapLaps(records), nil
}

func mapLaps(records []openf1.Lap) []f1.Lap {
	out := make([]f1.Lap, 0, len(records))
	for _, l := range records {
		lap := f1.Lap{
			Number:       l.LapNumber,
			DriverNumber: l.DriverNumber,
			Duration:     l.LapDuration,
			Sector1:      l.DurationSector1,
			Sector2:      l.DurationSector2,
			Sector3:      l.DurationSector3,
			I1Speed:      l.I1Speed,
			I2Speed:      l.I2Speed,
			STSpeed:      l.STSpeed,
			PitOut:       l.IsPitOutLap,
		}
		if !l.DateStart.IsZero() {
			lap.Start = f1.TimePtr(l.DateStart.Time)
		}
		out = append(out, lap)
	}
	return out
}

func (r *OpenF1Repository) Stints(ctx context.Context, sessionKey, driverNumber int) ([]f1.Stint, error) {
	records, err := r.Client.Stints(ctx, sessionKey, driverNumber)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.Stint, 0, len(records))
	for _, s := range records {
		out = append(out, f1.Stint{
			Number:   s.StintNumber,
			Compound: f1.NormalizeCompound(s.Compound),
			LapStart: s.LapStart,
			LapEnd:   s.LapEnd,
			TyreAge:  s.TyreAgeAtStart,
		})
	}
	return out, nil
}

func (r *OpenF1Repository) Pits(ctx context.Context, sessionKey, driverNumber int) ([]f1.Pit, error) {
	records, err := r.Client.Pits(ctx, sessionKey, driverNumber)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.Pit, 0, len(records))
	for _, p := range records {
		out = append(out, f1.Pit{LapNumber: p.LapNumber, Duration: p.PitDuration})
	}
	return out, nil
}

func (r *OpenF1Repository) Weather(ctx context.Context, sessionKey int) ([]f1.WeatherSample, error) {
	records, err := r.Client.Weather(ctx, sessionKey)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.WeatherSample, 0, len(records))
	for _, w := range records {
		if w.Date.IsZero() {
			monitoring.Debugf("f1data: dropping weather sample without timestamp (session %d)", sessionKey)
			continue
		}
		out = append(out, f1.WeatherSample{Time: w.Date.Time, TrackTemp: w.TrackTemperature})
	}
	return out, nil
}

func (r *OpenF1Repository) CarTelemetry(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.CarSample, error) {
	records, err := r.Client.CarData(ctx, sessionKey, driverNumber, start, end)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.CarSample, 0, len(records))
	for _, s := range records {
		if s.Date.IsZero() {
			continue
		}
		t := s.Date.Sub(start).Seconds()
		if t < 0 {
			continue
		}
		out = append(out, f1.CarSample{
			T:        t,
			Speed:    s.Speed,
			RPM:      s.RPM,
			Throttle: s.Throttle,
			Brake:    s.Brake,
			Gear:     s.NGear,
			DRS:      s.DRS,
		})
	}
	return out, nil
}

func (r *OpenF1Repository) Location(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.LocationSample, error) {
	records, err := r.Client.Location(ctx, sessionKey, driverNumber, start, end)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]f1.LocationSample, 0, len(records))
	for _, s := range records {
		if s.Date.IsZero() {
			continue
		}
		t := s.Date.Sub(start).Seconds()
		if t < 0 {
			continue
		}
		out = append(out, f1.LocationSample{T: t, X: s.X, Y: s.Y, Z: s.Z})
	}
	return out, nil
}
