package openf1

import (
	"bytes"
	"time"

	"github.com/paddock-data/stint.report/internal/monitoring"
)

// Timestamp parses the API's date fields. OpenF1 serves RFC 3339 with an
// offset on most endpoints but omits the offset on car_data and location;
// offset-less values are treated as UTC. A null, empty or unparsable field
// leaves the timestamp zero rather than failing the record — one bad date
// must not discard the rest of the response.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s := string(bytes.Trim(data, `"`))
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	monitoring.Debugf("openf1: unrecognised timestamp %q", s)
	t.Time = time.Time{}
	return nil
}

// Meeting is one race weekend.
type Meeting struct {
	MeetingKey       int       `json:"meeting_key"`
	MeetingName      string    `json:"meeting_name"`
	OfficialName     string    `json:"meeting_official_name"`
	Location         string    `json:"location"`
	CountryName      string    `json:"country_name"`
	CircuitShortName string    `json:"circuit_short_name"`
	DateStart        Timestamp `json:"date_start"`
	Year             int       `json:"year"`
}

// Session is one session of a meeting (practice, qualifying, race, ...).
type Session struct {
	SessionKey       int       `json:"session_key"`
	MeetingKey       int       `json:"meeting_key"`
	SessionName      string    `json:"session_name"`
	SessionType      string    `json:"session_type"`
	DateStart        Timestamp `json:"date_start"`
	DateEnd          Timestamp `json:"date_end"`
	Location         string    `json:"location"`
	CountryName      string    `json:"country_name"`
	CircuitShortName string    `json:"circuit_short_name"`
	Year             int       `json:"year"`
}

// Driver is one session entry.
type Driver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
	NameAcronym  string `json:"name_acronym"`
	TeamName     string `json:"team_name"`
	TeamColour   string `json:"team_colour"`
	CountryCode  string `json:"country_code"`
	HeadshotURL  string `json:"headshot_url"`
}

// Lap is one timed lap. Duration fields are null for laps without a time
// (first lap of a run, red flags, in-laps on some sessions).
type Lap struct {
	DriverNumber    int       `json:"driver_number"`
	LapNumber       int       `json:"lap_number"`
	LapDuration     *float64  `json:"lap_duration"`
	DurationSector1 *float64  `json:"duration_sector_1"`
	DurationSector2 *float64  `json:"duration_sector_2"`
	DurationSector3 *float64  `json:"duration_sector_3"`
	I1Speed         *float64  `json:"i1_speed"`
	I2Speed         *float64  `json:"i2_speed"`
	STSpeed         *float64  `json:"st_speed"`
	IsPitOutLap     bool      `json:"is_pit_out_lap"`
	DateStart       Timestamp `json:"date_start"`
}

// Stint is one continuous run on a tyre set.
type Stint struct {
	StintNumber    int    `json:"stint_number"`
	DriverNumber   int    `json:"driver_number"`
	Compound       string `json:"compound"`
	LapStart       int    `json:"lap_start"`
	LapEnd         int    `json:"lap_end"`
	TyreAgeAtStart int    `json:"tyre_age_at_start"`
}

// Pit is one pit stop.
type Pit struct {
	DriverNumber int       `json:"driver_number"`
	LapNumber    int       `json:"lap_number"`
	PitDuration  *float64  `json:"pit_duration"`
	Date         Timestamp `json:"date"`
}

// Weather is one trackside weather sample, recorded about once a minute.
type Weather struct {
	Date             Timestamp `json:"date"`
	AirTemperature   float64   `json:"air_temperature"`
	TrackTemperature float64   `json:"track_temperature"`
	Humidity         float64   `json:"humidity"`
	Rainfall         float64   `json:"rainfall"`
	WindSpeed        float64   `json:"wind_speed"`
}

// CarData is one car telemetry sample (~3.7 Hz).
type CarData struct {
	Date         Timestamp `json:"date"`
	DriverNumber int       `json:"driver_number"`
	Speed        float64   `json:"speed"`
	RPM          float64   `json:"rpm"`
	Throttle     float64   `json:"throttle"`
	Brake        float64   `json:"brake"`
	NGear        int       `json:"n_gear"`
	DRS          int       `json:"drs"`
}

// Location is one track position sample.
type Location struct {
	Date         Timestamp `json:"date"`
	DriverNumber int       `json:"driver_number"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	Z            float64   `json:"z"`
}
