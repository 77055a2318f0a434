package compare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/f1data"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	drivers    []f1.Driver
	laps       map[int][]f1.Lap
	stints     map[int][]f1.Stint
	weather    []f1.WeatherSample
	weatherErr error
	lapsErr    error
	car        map[int][]f1.CarSample
	carErr     map[int]error
	loc        map[int][]f1.LocationSample

	carCalls int
}

func (r *fakeRepo) Meetings(ctx context.Context, year int) ([]f1.Meeting, error) { return nil, nil }
func (r *fakeRepo) Sessions(ctx context.Context, meetingKey int) ([]f1.Session, error) {
	return nil, nil
}
func (r *fakeRepo) Drivers(ctx context.Context, sessionKey int) ([]f1.Driver, error) {
	return r.drivers, nil
}
func (r *fakeRepo) Laps(ctx context.Context, sessionKey, driverNumber int) ([]f1.Lap, error) {
	if r.lapsErr != nil {
		return nil, r.lapsErr
	}
	return r.laps[driverNumber], nil
}
func (r *fakeRepo) AllLaps(ctx context.Context, sessionKey int) ([]f1.Lap, error) {
	var all []f1.Lap
	for _, laps := range r.laps {
		all = append(all, laps...)
	}
	return all, nil
}
func (r *fakeRepo) Stints(ctx context.Context, sessionKey, driverNumber int) ([]f1.Stint, error) {
	return r.stints[driverNumber], nil
}
func (r *fakeRepo) Pits(ctx context.Context, sessionKey, driverNumber int) ([]f1.Pit, error) {
	return nil, nil
}
func (r *fakeRepo) Weather(ctx context.Context, sessionKey int) ([]f1.WeatherSample, error) {
	if r.weatherErr != nil {
		return nil, r.weatherErr
	}
	return r.weather, nil
}
func (r *fakeRepo) CarTelemetry(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.CarSample, error) {
	r.carCalls++
	if err := r.carErr[driverNumber]; err != nil {
		return nil, err
	}
	return r.car[driverNumber], nil
}
func (r *fakeRepo) Location(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.LocationSample, error) {
	return r.loc[driverNumber], nil
}

func timedLap(driver, number int, duration float64, sectors ...float64) f1.Lap {
	l := f1.Lap{Number: number, DriverNumber: driver, Duration: f1.Float64(duration)}
	if len(sectors) == 3 {
		l.Sector1 = f1.Float64(sectors[0])
		l.Sector2 = f1.Float64(sectors[1])
		l.Sector3 = f1.Float64(sectors[2])
	}
	return l
}

func raceSession() f1.Session {
	return f1.Session{Key: 9472, Name: "Race", Type: "Race"}
}

func TestFetchComparisonData(t *testing.T) {
	repo := &fakeRepo{
		drivers: []f1.Driver{
			{Number: 44, Acronym: "HAM", TeamName: "Mercedes", TeamColour: "27F4D2"},
			{Number: 1, Acronym: "VER", TeamName: "Red Bull Racing", TeamColour: "3671C6"},
			{Number: 16, Acronym: "LEC", TeamName: "Ferrari", TeamColour: "E8002D"},
		},
		laps: map[int][]f1.Lap{
			1:  {timedLap(1, 1, 95.0)},
			44: {timedLap(44, 1, 95.5)},
		},
		weather: []f1.WeatherSample{{Time: time.Now(), TrackTemp: 40}},
	}
	svc := NewService(repo)

	data, err := svc.FetchComparisonData(context.Background(), raceSession(), []int{44, 1})
	if err != nil {
		t.Fatalf("FetchComparisonData: %v", err)
	}
	if len(data.Drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(data.Drivers))
	}
	// Ascending driver order regardless of request order.
	if data.Drivers[0].Number != 1 || data.Drivers[1].Number != 44 {
		t.Errorf("driver order = %+v", data.Drivers)
	}
	if len(data.Weather) != 1 {
		t.Errorf("weather = %+v", data.Weather)
	}
	if data.Colors[1] == "" || data.Colors[44] == "" {
		t.Errorf("colors = %+v", data.Colors)
	}
	if _, ok := data.Driver(16); ok {
		t.Error("unrequested driver present")
	}
}

func TestFetchComparisonDataWeatherDegrades(t *testing.T) {
	repo := &fakeRepo{
		drivers:    []f1.Driver{{Number: 1, Acronym: "VER"}},
		laps:       map[int][]f1.Lap{1: {timedLap(1, 1, 95.0)}},
		weatherErr: f1data.ErrUnavailable,
	}
	svc := NewService(repo)

	data, err := svc.FetchComparisonData(context.Background(), raceSession(), nil)
	if err != nil {
		t.Fatalf("weather failure must not abort: %v", err)
	}
	if len(data.Weather) != 0 {
		t.Errorf("weather = %+v", data.Weather)
	}
}

func TestFetchComparisonDataLapsAbort(t *testing.T) {
	repo := &fakeRepo{
		drivers: []f1.Driver{{Number: 1, Acronym: "VER"}},
		lapsErr: f1data.ErrUnavailable,
	}
	svc := NewService(repo)

	_, err := svc.FetchComparisonData(context.Background(), raceSession(), nil)
	if !errors.Is(err, f1data.ErrUnavailable) {
		t.Fatalf("expected lap failure to propagate, got %v", err)
	}
}

func TestFetchBestLapTelemetry(t *testing.T) {
	start := time.Date(2024, 3, 2, 15, 4, 50, 0, time.UTC)
	bestLap := func(driver int, duration float64) f1.Lap {
		l := timedLap(driver, 2, duration)
		l.Start = f1.TimePtr(start)
		return l
	}

	repo := &fakeRepo{
		drivers: []f1.Driver{
			{Number: 1, Acronym: "VER", TeamName: "Red Bull Racing", TeamColour: "3671C6"},
			{Number: 44, Acronym: "HAM", TeamName: "Mercedes", TeamColour: "27F4D2"},
		},
		laps: map[int][]f1.Lap{
			1:  {bestLap(1, 93.4)},
			44: {bestLap(44, 93.9)},
		},
		car: map[int][]f1.CarSample{
			1: {{T: 0, Speed: 280}},
		},
		carErr: map[int]error{44: f1data.ErrUnavailable},
		loc: map[int][]f1.LocationSample{
			1: {{T: 0, X: 1, Y: 2}},
		},
	}
	svc := NewService(repo)

	data, err := svc.FetchComparisonData(context.Background(), raceSession(), nil)
	if err != nil {
		t.Fatalf("FetchComparisonData: %v", err)
	}

	telemetry, err := svc.FetchBestLapTelemetry(context.Background(), data)
	if err != nil {
		t.Fatalf("FetchBestLapTelemetry: %v", err)
	}
	if len(telemetry) != 2 {
		t.Fatalf("expected both drivers present, got %d", len(telemetry))
	}
	if len(telemetry[1].Car) != 1 || len(telemetry[1].Location) != 1 {
		t.Errorf("driver 1 telemetry = %+v", telemetry[1])
	}
	// A failed fetch degrades to empty lists, driver still present.
	if len(telemetry[44].Car) != 0 {
		t.Errorf("driver 44 car samples = %+v", telemetry[44].Car)
	}
	if telemetry[44].Acronym != "HAM" || telemetry[44].Color == "" {
		t.Errorf("driver 44 attributes = %+v", telemetry[44])
	}
}

func TestFetchBestLapTelemetrySkipsUntimedLaps(t *testing.T) {
	repo := &fakeRepo{
		drivers: []f1.Driver{{Number: 1, Acronym: "VER"}},
		laps:    map[int][]f1.Lap{1: {timedLap(1, 1, 93.4)}}, // no Start
	}
	svc := NewService(repo)

	data, err := svc.FetchComparisonData(context.Background(), raceSession(), nil)
	if err != nil {
		t.Fatalf("FetchComparisonData: %v", err)
	}
	telemetry, err := svc.FetchBestLapTelemetry(context.Background(), data)
	if err != nil {
		t.Fatalf("FetchBestLapTelemetry: %v", err)
	}
	if repo.carCalls != 0 {
		t.Errorf("telemetry fetched %d times for a lap without a start time", repo.carCalls)
	}
	if len(telemetry[1].Car) != 0 {
		t.Errorf("telemetry = %+v", telemetry[1])
	}
}
