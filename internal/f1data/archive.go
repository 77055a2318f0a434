package f1data

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/monitoring"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Archive is a local sqlite mirror of session data. It implements
// Repository for offline report runs and exposes writer methods so a live
// backend can be copied into it.
type Archive struct {
	*sql.DB
}

// OpenArchive opens (or creates) the archive database at path and brings
// its schema up to date.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	a := &Archive{db}
	if err := a.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// migrateUp applies any pending schema migrations.
func (a *Archive) migrateUp() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(a.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	// Not closed: closing would also close the underlying DB connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// nullFloat maps an optional float column value.
func nullFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// unixSeconds stores timestamps with sub-second precision.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func fromUnixSeconds(s float64) time.Time {
	return time.Unix(0, int64(s*1e9)).UTC()
}

// SaveMeeting upserts one meeting.
func (a *Archive) SaveMeeting(ctx context.Context, year int, m f1.Meeting) error {
	_, err := a.ExecContext(ctx,
		`INSERT OR REPLACE INTO meetings (meeting_key, name, year) VALUES (?, ?, ?)`,
		m.Key, m.Name, year)
	if err != nil {
		return fmt.Errorf("saving meeting %d: %w", m.Key, err)
	}
	return nil
}

// SaveSession upserts one session under its meeting.
func (a *Archive) SaveSession(ctx context.Context, meetingKey int, s f1.Session) error {
	_, err := a.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (session_key, meeting_key, name, type) VALUES (?, ?, ?, ?)`,
		s.Key, meetingKey, s.Name, s.Type)
	if err != nil {
		return fmt.Errorf("saving session %d: %w", s.Key, err)
	}
	return nil
}

// SaveDrivers upserts a session's driver entries.
func (a *Archive) SaveDrivers(ctx context.Context, sessionKey int, drivers []f1.Driver) error {
	tx, err := a.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range drivers {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO drivers
			 (session_key, driver_number, acronym, full_name, team_name, team_colour)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sessionKey, d.Number, d.Acronym, d.FullName, d.TeamName, d.TeamColour)
		if err != nil {
			return fmt.Errorf("saving driver %d: %w", d.Number, err)
		}
	}
	return tx.Commit()
}

// SaveLaps upserts laps for a session.
func (a *Archive) SaveLaps(ctx context.Context, sessionKey int, laps []f1.Lap) error {
	tx, err := a.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, l := range laps {
		var dateStart interface{}
		if l.Start != nil {
			dateStart = unixSeconds(*l.Start)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO laps
			 (session_key, driver_number, lap_number, duration,
			  sector_1, sector_2, sector_3, i1_speed, i2_speed, st_speed,
			  pit_out, date_start)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionKey, l.DriverNumber, l.Number, nullFloat(l.Duration),
			nullFloat(l.Sector1), nullFloat(l.Sector2), nullFloat(l.Sector3),
			nullFloat(l.I1Speed), nullFloat(l.I2Speed), nullFloat(l.STSpeed),
			l.PitOut, dateStart)
		if err != nil {
			return fmt.Errorf("saving lap %d/%d: %w", l.DriverNumber, l.Number, err)
		}
	}
	return tx.Commit()
}

// SaveStints upserts one driver's stints.
func (a *Archive) SaveStints(ctx context.Context, sessionKey, driverNumber int, stints []f1.Stint) error {
	tx, err := a.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range stints {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO stints
			 (session_key, driver_number, stint_number, compound, lap_start, lap_end, tyre_age)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionKey, driverNumber, s.Number, s.Compound, s.LapStart, s.LapEnd, s.TyreAge)
		if err != nil {
			return fmt.Errorf("saving stint %d/%d: %w", driverNumber, s.Number, err)
		}
	}
	return tx.Commit()
}

// SavePits upserts one driver's pit stops.
func (a *Archive) SavePits(ctx context.Context, sessionKey, driverNumber int, pits []f1.Pit) error {
	tx, err := a.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range pits {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO pits (session_key, driver_number, lap_number, duration)
			 VALUES (?, ?, ?, ?)`,
			sessionKey, driverNumber, p.LapNumber, nullFloat(p.Duration))
		if err != nil {
			return fmt.Errorf("saving pit stop %d/%d: %w", driverNumber, p.LapNumber, err)
		}
	}
	return tx.Commit()
}

// SaveWeather upserts a session's weather samples.
func (a *Archive) SaveWeather(ctx context.Context, sessionKey int, samples []f1.WeatherSample) error {
	tx, err := a.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, w := range samples {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO weather (session_key, date, track_temp) VALUES (?, ?, ?)`,
			sessionKey, unixSeconds(w.Time), w.TrackTemp)
		if err != nil {
			return fmt.Errorf("saving weather sample: %w", err)
		}
	}
	return tx.Commit()
}

// SaveCarTelemetry stores car samples. Sample T values are relative to
// start, which anchors them back to wall-clock time in the archive.
// Samples are keyed by wall-clock time, so re-mirroring a session replaces
// rows instead of duplicating them.
func (a *Archive) SaveCarTelemetry(ctx context.Context, sessionKey, driverNumber int, start time.Time, samples []f1.CarSample) error {
	tx, err := a.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range samples {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO car_data
			 (session_key, driver_number, date, speed, rpm, throttle, brake, gear, drs)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionKey, driverNumber, unixSeconds(start)+s.T,
			s.Speed, s.RPM, s.Throttle, s.Brake, s.Gear, s.DRS)
		if err != nil {
			return fmt.Errorf("saving car sample: %w", err)
		}
	}
	return tx.Commit()
}

// SaveLocation stores location samples, anchored like SaveCarTelemetry.
func (a *Archive) SaveLocation(ctx context.Context, sessionKey, driverNumber int, start time.Time, samples []f1.LocationSample) error {
	tx, err := a.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range samples {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO location (session_key, driver_number, date, x, y, z)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sessionKey, driverNumber, unixSeconds(start)+s.T, s.X, s.Y, s.Z)
		if err != nil {
			return fmt.Errorf("saving location sample: %w", err)
		}
	}
	return tx.Commit()
}

func (a *Archive) Meetings(ctx context.Context, year int) ([]f1.Meeting, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT meeting_key, name FROM meetings WHERE year = ? ORDER BY meeting_key`, year)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []f1.Meeting
	for rows.Next() {
		var m f1.Meeting
		if err := rows.Scan(&m.Key, &m.Name); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (a *Archive) Sessions(ctx context.Context, meetingKey int) ([]f1.Session, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT session_key, name, type FROM sessions WHERE meeting_key = ? ORDER BY session_key`,
		meetingKey)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []f1.Session
	for rows.Next() {
		var s f1.Session
		if err := rows.Scan(&s.Key, &s.Name, &s.Type); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (a *Archive) Drivers(ctx context.Context, sessionKey int) ([]f1.Driver, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT driver_number, acronym, full_name, team_name, team_colour
		 FROM drivers WHERE session_key = ? ORDER BY driver_number`, sessionKey)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []f1.Driver
	for rows.Next() {
		var d f1.Driver
		if err := rows.Scan(&d.Number, &d.Acronym, &d.FullName, &d.TeamName, &d.TeamColour); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const lapColumns = `driver_number, lap_number, duration, sector_1, sector_2, sector_3,
	i1_speed, i2_speed, st_speed, pit_out, date_start`

func scanLaps(rows *sql.Rows) ([]f1.Lap, error) {
	var out []f1.Lap
	for rows.Next() {
		var l f1.Lap
		var duration, s1, s2, s3, i1, i2, st, dateStart sql.NullFloat64
		err := rows.Scan(&l.DriverNumber, &l.Number, &duration, &s1, &s2, &s3,
			&i1, &i2, &st, &l.PitOut, &dateStart)
		if err != nil {
			return nil, unavailable(err)
		}
		l.Duration = floatPtr(duration)
		l.Sector1 = floatPtr(s1)
		l.Sector2 = floatPtr(s2)
		l.Sector3 = floatPtr(s3)
		l.I1Speed = floatPtr(i1)
		l.I2Speed = floatPtr(i2)
		l.STSpeed = floatPtr(st)
		if dateStart.Valid {
			l.Start = f1.TimePtr(fromUnixSeconds(dateStart.Float64))
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (a *Archive) Laps(ctx context.Context, sessionKey, driverNumber int) ([]f1.Lap, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT `+lapColumns+` FROM laps
		 WHERE session_key = ? AND driver_number = ? ORDER BY lap_number`,
		sessionKey, driverNumber)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()
	return scanLaps(rows)
}

func (a *Archive) AllLaps(ctx context.Context, sessionKey int) ([]f1.Lap, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT `+lapColumns+` FROM laps
		 WHERE session_key = ? ORDER BY driver_number, lap_number`, sessionKey)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()
	return scanLaps(rows)
}

func (a *Archive) Stints(ctx context.Context, sessionKey, driverNumber int) ([]f1.Stint, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT stint_number, compound, lap_start, lap_end, tyre_age
		 FROM stints WHERE session_key = ? AND driver_number = ? ORDER BY stint_number`,
		sessionKey, driverNumber)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []f1.Stint
	for rows.Next() {
		var s f1.Stint
		if err := rows.Scan(&s.Number, &s.Compound, &s.LapStart, &s.LapEnd, &s.TyreAge); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (a *Archive) Pits(ctx context.Context, sessionKey, driverNumber int) ([]f1.Pit, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT lap_number, duration FROM pits
		 WHERE session_key = ? AND driver_number = ? ORDER BY lap_number`,
		sessionKey, driverNumber)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []f1.Pit
	for rows.Next() {
		var p f1.Pit
		var duration sql.NullFloat64
		if err := rows.Scan(&p.LapNumber, &duration); err != nil {
			return nil, unavailable(err)
		}
		p.Duration = floatPtr(duration)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (a *Archive) Weather(ctx context.Context, sessionKey int) ([]f1.WeatherSample, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT date, track_temp FROM weather WHERE session_key = ? ORDER BY date`, sessionKey)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []f1.WeatherSample
	for rows.Next() {
		var date, temp float64
		if err := rows.Scan(&date, &temp); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, f1.WeatherSample{Time: fromUnixSeconds(date), TrackTemp: temp})
	}
	return out, rows.Err()
}

func (a *Archive) CarTelemetry(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.CarSample, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT date, speed, rpm, throttle, brake, gear, drs FROM car_data
		 WHERE session_key = ? AND driver_number = ? AND date BETWEEN ? AND ?
		 ORDER BY date`,
		sessionKey, driverNumber, unixSeconds(start), unixSeconds(end))
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	base := unixSeconds(start)
	var out []f1.CarSample
	for rows.Next() {
		var date float64
		var s f1.CarSample
		if err := rows.Scan(&date, &s.Speed, &s.RPM, &s.Throttle, &s.Brake, &s.Gear, &s.DRS); err != nil {
			return nil, unavailable(err)
		}
		s.T = date - base
		out = append(out, s)
	}
	return out, rows.Err()
}

func (a *Archive) Location(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.LocationSample, error) {
	rows, err := a.QueryContext(ctx,
		`SELECT date, x, y, z FROM location
		 WHERE session_key = ? AND driver_number = ? AND date BETWEEN ? AND ?
		 ORDER BY date`,
		sessionKey, driverNumber, unixSeconds(start), unixSeconds(end))
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	base := unixSeconds(start)
	var out []f1.LocationSample
	for rows.Next() {
		var date float64
		var s f1.LocationSample
		if err := rows.Scan(&date, &s.X, &s.Y, &s.Z); err != nil {
			return nil, unavailable(err)
		}
		s.T = date - base
		out = append(out, s)
	}
	return out, rows.Err()
}

// MirrorSession copies one session's records from src into the archive:
// drivers, laps, stints, pits, weather, and each driver's best clean lap
// telemetry. Weather and telemetry failures are logged and skipped so a
// partial mirror still yields a usable archive.
func (a *Archive) MirrorSession(ctx context.Context, src Repository, year, meetingKey int, session f1.Session, meeting f1.Meeting) error {
	if err := a.SaveMeeting(ctx, year, meeting); err != nil {
		return err
	}
	if err := a.SaveSession(ctx, meetingKey, session); err != nil {
		return err
	}

	drivers, err := src.Drivers(ctx, session.Key)
	if err != nil {
		return err
	}
	if err := a.SaveDrivers(ctx, session.Key, drivers); err != nil {
		return err
	}

	laps, err := src.AllLaps(ctx, session.Key)
	if err != nil {
		return err
	}
	if err := a.SaveLaps(ctx, session.Key, laps); err != nil {
		return err
	}

	lapsByDriver := make(map[int][]f1.Lap)
	for _, l := range laps {
		lapsByDriver[l.DriverNumber] = append(lapsByDriver[l.DriverNumber], l)
	}

	for _, d := range drivers {
		stints, err := src.Stints(ctx, session.Key, d.Number)
		if err != nil {
			return err
		}
		if err := a.SaveStints(ctx, session.Key, d.Number, stints); err != nil {
			return err
		}

		pits, err := src.Pits(ctx, session.Key, d.Number)
		if err != nil {
			return err
		}
		if err := a.SavePits(ctx, session.Key, d.Number, pits); err != nil {
			return err
		}

		if err := a.mirrorBestLapTelemetry(ctx, src, session.Key, d.Number, lapsByDriver[d.Number]); err != nil {
			monitoring.Logf("archive: skipping telemetry for driver %d: %v", d.Number, err)
		}
	}

	weather, err := src.Weather(ctx, session.Key)
	if err != nil {
		monitoring.Logf("archive: skipping weather for session %d: %v", session.Key, err)
		return nil
	}
	return a.SaveWeather(ctx, session.Key, weather)
}

func (a *Archive) mirrorBestLapTelemetry(ctx context.Context, src Repository, sessionKey, driverNumber int, laps []f1.Lap) error {
	best, ok := f1.BestLap(laps)
	if !ok || best.Start == nil || best.Duration == nil {
		return nil
	}
	start := *best.Start
	end := start.Add(time.Duration(*best.Duration * float64(time.Second)))

	car, err := src.CarTelemetry(ctx, sessionKey, driverNumber, start, end)
	if err != nil {
		return err
	}
	if err := a.SaveCarTelemetry(ctx, sessionKey, driverNumber, start, car); err != nil {
		return err
	}

	loc, err := src.Location(ctx, sessionKey, driverNumber, start, end)
	if err != nil {
		return err
	}
	return a.SaveLocation(ctx, sessionKey, driverNumber, start, loc)
}
