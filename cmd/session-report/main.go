// Command session-report fetches one F1 session and prints a cross-driver
// comparison: best and ideal laps, stint pace with insights, speed traps,
// and sector times, plus delta charts and a track map written to disk.
//
// Data comes live from the OpenF1 API by default, or from a local sqlite
// archive previously filled with -mirror.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/paddock-data/stint.report/internal/compare"
	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/f1data"
	"github.com/paddock-data/stint.report/internal/monitoring"
	"github.com/paddock-data/stint.report/internal/openf1"
	"github.com/paddock-data/stint.report/internal/report"
)

var (
	year        = flag.Int("year", time.Now().Year(), "Season year")
	meetingName = flag.String("meeting", "", "Meeting name substring or meeting key (required)")
	sessionName = flag.String("session", "Race", "Session name (e.g. Race, Qualifying, Practice 2)")
	driversFlag = flag.String("drivers", "", "Comma-separated driver numbers (empty = all)")
	backend     = flag.String("backend", "openf1", "Data backend: openf1 or archive")
	dbPath      = flag.String("db", "sessions.db", "Archive database path")
	outDir      = flag.String("out", "reports", "Directory for charts and track maps (empty = tables only)")
	mirror      = flag.Bool("mirror", false, "Mirror the session into the archive database and exit")
	cacheTTL    = flag.Duration("cache-ttl", f1data.DefaultCacheTTL, "Repository cache TTL")
	verbose     = flag.Bool("verbose", false, "Log every repository and API call")
)

func main() {
	flag.Parse()
	monitoring.Debug = *verbose

	if *meetingName == "" {
		log.Fatal("-meeting is required")
	}

	driverNumbers, err := parseDrivers(*driversFlag)
	if err != nil {
		log.Fatalf("invalid -drivers: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, archive, err := buildRepository()
	if err != nil {
		log.Fatalf("failed to open backend: %v", err)
	}
	if archive != nil {
		defer archive.Close()
	}

	meeting, session, err := resolveSession(ctx, repo)
	if err != nil {
		log.Fatalf("failed to resolve session: %v", err)
	}
	log.Printf("session: %s — %s (key %d)", meeting.Name, session.Name, session.Key)

	if *mirror {
		if err := mirrorSession(ctx, repo, meeting, session); err != nil {
			log.Fatalf("mirror failed: %v", err)
		}
		log.Printf("mirrored session %d into %s", session.Key, *dbPath)
		return
	}

	runner := &report.Runner{
		Service: compare.NewService(repo),
		OutDir:  *outDir,
		Out:     os.Stdout,
	}
	if err := runner.Run(ctx, session, driverNumbers); err != nil {
		log.Fatalf("report failed: %v", err)
	}
}

// buildRepository opens the selected backend, wrapping the live one in a
// cache. The archive handle is returned for closing when in use.
func buildRepository() (f1data.Repository, *f1data.Archive, error) {
	switch *backend {
	case "openf1":
		client := openf1.NewClient(nil)
		repo := f1data.NewCachedRepository(f1data.NewOpenF1Repository(client), *cacheTTL, nil)
		return repo, nil, nil
	case "archive":
		archive, err := f1data.OpenArchive(*dbPath)
		if err != nil {
			return nil, nil, err
		}
		return archive, archive, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", *backend)
	}
}

// resolveSession finds the requested meeting and session within the season.
func resolveSession(ctx context.Context, repo f1data.Repository) (f1.Meeting, f1.Session, error) {
	meetings, err := repo.Meetings(ctx, *year)
	if err != nil {
		return f1.Meeting{}, f1.Session{}, err
	}

	meeting, ok := matchMeeting(meetings, *meetingName)
	if !ok {
		return f1.Meeting{}, f1.Session{}, fmt.Errorf("no meeting matching %q in %d", *meetingName, *year)
	}

	sessions, err := repo.Sessions(ctx, meeting.Key)
	if err != nil {
		return f1.Meeting{}, f1.Session{}, err
	}
	for _, s := range sessions {
		if strings.EqualFold(s.Name, *sessionName) {
			return meeting, s, nil
		}
	}
	return f1.Meeting{}, f1.Session{}, fmt.Errorf("no session %q in %s", *sessionName, meeting.Name)
}

func matchMeeting(meetings []f1.Meeting, query string) (f1.Meeting, bool) {
	if key, err := strconv.Atoi(query); err == nil {
		for _, m := range meetings {
			if m.Key == key {
				return m, true
			}
		}
		return f1.Meeting{}, false
	}
	q := strings.ToLower(query)
	for _, m := range meetings {
		if strings.Contains(strings.ToLower(m.Name), q) {
			return m, true
		}
	}
	return f1.Meeting{}, false
}

func mirrorSession(ctx context.Context, src f1data.Repository, meeting f1.Meeting, session f1.Session) error {
	archive, err := f1data.OpenArchive(*dbPath)
	if err != nil {
		return err
	}
	defer archive.Close()
	return archive.MirrorSession(ctx, src, *year, meeting.Key, session, meeting)
}

func parseDrivers(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("driver number %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}
