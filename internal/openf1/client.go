// Package openf1 is a thin client for the OpenF1 REST API
// (https://openf1.org). It deals in the API's own record shapes; mapping
// into report types happens in the f1data package.
package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/paddock-data/stint.report/internal/httputil"
	"github.com/paddock-data/stint.report/internal/monitoring"
	"github.com/paddock-data/stint.report/internal/timeutil"
)

// DefaultBaseURL is the public OpenF1 API endpoint.
const DefaultBaseURL = "https://api.openf1.org/v1"

// minRequestInterval spaces requests out to stay under the public API's
// rate limit (~3 requests per second for anonymous clients).
const minRequestInterval = 350 * time.Millisecond

// Client fetches records from the OpenF1 API. Methods on a single client
// are rate limited as a group; use one client per process.
type Client struct {
	BaseURL    string
	HTTPClient httputil.HTTPClient
	Clock      timeutil.Clock

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a client for the public OpenF1 API.
func NewClient(httpClient httputil.HTTPClient) *Client {
	if httpClient == nil {
		httpClient = httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second})
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: httpClient,
		Clock:      timeutil.RealClock{},
	}
}

// get fetches one endpoint and decodes the JSON array response into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	c.throttle()

	u := fmt.Sprintf("%s/%s?%s", c.BaseURL, endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	monitoring.Debugf("openf1: GET %s", u)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("openf1 %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openf1 %s: status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openf1 %s: decoding response: %w", endpoint, err)
	}
	return nil
}

// throttle sleeps long enough to keep requests minRequestInterval apart.
// The lock is held across the sleep so concurrent callers queue instead of
// all measuring the same interval.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Clock.Now()
	if !c.lastRequest.IsZero() {
		if wait := minRequestInterval - now.Sub(c.lastRequest); wait > 0 {
			c.Clock.Sleep(wait)
		}
	}
	c.lastRequest = c.Clock.Now()
}

// Meetings lists the meetings (race weekends) of a season.
func (c *Client) Meetings(ctx context.Context, year int) ([]Meeting, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))

	var out []Meeting
	if err := c.get(ctx, "meetings", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sessions lists the sessions of a meeting.
func (c *Client) Sessions(ctx context.Context, meetingKey int) ([]Session, error) {
	q := url.Values{}
	q.Set("meeting_key", strconv.Itoa(meetingKey))

	var out []Session
	if err := c.get(ctx, "sessions", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Drivers lists the drivers entered in a session.
func (c *Client) Drivers(ctx context.Context, sessionKey int) ([]Driver, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))

	var out []Driver
	if err := c.get(ctx, "drivers", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Laps lists one driver's laps in a session. A driverNumber of 0 fetches
// every driver's laps.
func (c *Client) Laps(ctx context.Context, sessionKey, driverNumber int) ([]Lap, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))
	if driverNumber > 0 {
		q.Set("driver_number", strconv.Itoa(driverNumber))
	}

	var out []Lap
	if err := c.get(ctx, "laps", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stints lists one driver's stints in a session.
func (c *Client) Stints(ctx context.Context, sessionKey, driverNumber int) ([]Stint, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))
	if driverNumber > 0 {
		q.Set("driver_number", strconv.Itoa(driverNumber))
	}

	var out []Stint
	if err := c.get(ctx, "stints", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pits lists one driver's pit stops in a session.
func (c *Client) Pits(ctx context.Context, sessionKey, driverNumber int) ([]Pit, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))
	if driverNumber > 0 {
		q.Set("driver_number", strconv.Itoa(driverNumber))
	}

	var out []Pit
	if err := c.get(ctx, "pit", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Weather lists the weather samples recorded during a session.
func (c *Client) Weather(ctx context.Context, sessionKey int) ([]Weather, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))

	var out []Weather
	if err := c.get(ctx, "weather", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CarData lists one driver's car telemetry between start and end. The
// window keeps response sizes manageable; car data is sampled at roughly
// 3.7 Hz so a full session is far too large for one request.
func (c *Client) CarData(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]CarData, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))
	q.Set("driver_number", strconv.Itoa(driverNumber))
	q.Set("date>=", start.UTC().Format(time.RFC3339))
	q.Set("date<=", end.UTC().Format(time.RFC3339))

	var out []CarData
	if err := c.get(ctx, "car_data", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Location lists one driver's track positions between start and end.
func (c *Client) Location(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]Location, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))
	q.Set("driver_number", strconv.Itoa(driverNumber))
	q.Set("date>=", start.UTC().Format(time.RFC3339))
	q.Set("date<=", end.UTC().Format(time.RFC3339))

	var out []Location
	if err := c.get(ctx, "location", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
