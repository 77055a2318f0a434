package f1data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/monitoring"
	"github.com/paddock-data/stint.report/internal/timeutil"
)

// DefaultCacheTTL keeps completed-session data for a long time; OpenF1
// records for a finished session do not change.
const DefaultCacheTTL = time.Hour

// CachedRepository decorates a Repository with an in-memory TTL cache.
// Failed fetches are never cached. Safe for concurrent use.
type CachedRepository struct {
	inner Repository
	ttl   time.Duration
	clock timeutil.Clock

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   interface{}
	fetched time.Time
}

// NewCachedRepository wraps inner with a TTL cache. A zero ttl means
// DefaultCacheTTL; a nil clock means the real clock.
func NewCachedRepository(inner Repository, ttl time.Duration, clock timeutil.Clock) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &CachedRepository{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// lookup returns the cached value for key, fetching and storing it on a
// miss or after expiry.
func (c *CachedRepository) lookup(key string, fetch func() (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.clock.Since(e.fetched) < c.ttl {
		c.mu.Unlock()
		monitoring.Debugf("f1data: cache hit %s", key)
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, fetched: c.clock.Now()}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops every cached entry.
func (c *CachedRepository) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *CachedRepository) Meetings(ctx context.Context, year int) ([]f1.Meeting, error) {
	v, err := c.lookup(fmt.Sprintf("meetings:%d", year), func() (interface{}, error) {
		return c.inner.Meetings(ctx, year)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.Meeting), nil
}

func (c *CachedRepository) Sessions(ctx context.Context, meetingKey int) ([]f1.Session, error) {
	v, err := c.lookup(fmt.Sprintf("sessions:%d", meetingKey), func() (interface{}, error) {
		return c.inner.Sessions(ctx, meetingKey)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.Session), nil
}

func (c *CachedRepository) Drivers(ctx context.Context, sessionKey int) ([]f1.Driver, error) {
	v, err := c.lookup(fmt.Sprintf("drivers:%d", sessionKey), func() (interface{}, error) {
		return c.inner.Drivers(ctx, sessionKey)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.Driver), nil
}

func (c *CachedRepository) Laps(ctx context.Context, sessionKey, driverNumber int) ([]f1.Lap, error) {
	v, err := c.lookup(fmt.Sprintf("laps:%d:%d", sessionKey, driverNumber), func() (interface{}, error) {
		return c.inner.Laps(ctx, sessionKey, driverNumber)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.Lap), nil
}

func (c *CachedRepository) AllLaps(ctx context.Context, sessionKey int) ([]f1.Lap, error) {
	v, err := c.lookup(fmt.Sprintf("alllaps:%d", sessionKey), func() (interface{}, error) {
		return c.inner.AllLaps(ctx, sessionKey)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.Lap), nil
}

func (c *CachedRepository) Stints(ctx context.Context, sessionKey, driverNumber int) ([]f1.Stint, error) {
	v, err := c.lookup(fmt.Sprintf("stints:%d:%d", sessionKey, driverNumber), func() (interface{}, error) {
		return c.inner.Stints(ctx, sessionKey, driverNumber)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.Stint), nil
}

func (c *CachedRepository) Pits(ctx context.Context, sessionKey, driverNumber int) ([]f1.Pit, error) {
	v, err := c.lookup(fmt.Sprintf("pits:%d:%d", sessionKey, driverNumber), func() (interface{}, error) {
		return c.inner.Pits(ctx, sessionKey, driverNumber)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.Pit), nil
}

func (c *CachedRepository) Weather(ctx context.Context, sessionKey int) ([]f1.WeatherSample, error) {
	v, err := c.lookup(fmt.Sprintf("weather:%d", sessionKey), func() (interface{}, error) {
		return c.inner.Weather(ctx, sessionKey)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.WeatherSample), nil
}

func (c *CachedRepository) CarTelemetry(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.CarSample, error) {
	key := fmt.Sprintf("car:%d:%d:%d:%d", sessionKey, driverNumber, start.UnixNano(), end.UnixNano())
	v, err := c.lookup(key, func() (interface{}, error) {
		return c.inner.CarTelemetry(ctx, sessionKey, driverNumber, start, end)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.CarSample), nil
}

func (c *CachedRepository) Location(ctx context.Context, sessionKey, driverNumber int, start, end time.Time) ([]f1.LocationSample, error) {
	key := fmt.Sprintf("loc:%d:%d:%d:%d", sessionKey, driverNumber, start.UnixNano(), end.UnixNano())
	v, err := c.lookup(key, func() (interface{}, error) {
		return c.inner.Location(ctx, sessionKey, driverNumber, start, end)
	})
	if err != nil {
		return nil, err
	}
	return v.([]f1.LocationSample), nil
}
