package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/paddock-data/stint.report/internal/compare"
	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/monitoring"
	"github.com/paddock-data/stint.report/internal/trace"
)

// Runner produces one full session report: comparison tables on Out, and
// chart/track-map files under a per-run directory.
type Runner struct {
	Service *compare.Service
	OutDir  string    // parent for run directories; empty skips file output
	Out     io.Writer // table destination, typically os.Stdout
}

// Run fetches, compares and renders one session for the given drivers.
// An empty driverNumbers compares every driver in the session.
func (r *Runner) Run(ctx context.Context, session f1.Session, driverNumbers []int) error {
	data, err := r.Service.FetchComparisonData(ctx, session, driverNumbers)
	if err != nil {
		return fmt.Errorf("fetching session %d: %w", session.Key, err)
	}

	WriteBestLapTable(r.Out, r.Service.BestLaps(data))
	WriteStintTable(r.Out, r.Service.StintComparison(data))
	WriteSpeedTrapTable(r.Out, r.Service.SpeedTraps(data))
	WriteSectorTable(r.Out, r.Service.SectorComparison(data))

	if r.OutDir == "" {
		return nil
	}

	runDir := filepath.Join(r.OutDir, fmt.Sprintf("session-%d-%s", session.Key, uuid.New().String()[:8]))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}
	monitoring.Logf("report: writing charts to %s", runDir)

	if err := r.writeChart(runDir, "lap_progression.html", func(w io.Writer) error {
		return WriteLapProgressionChart(w, data)
	}); err != nil {
		return err
	}
	if err := r.writeChart(runDir, "strategy.html", func(w io.Writer) error {
		return WriteTireStrategyChart(w, data)
	}); err != nil {
		return err
	}

	telemetry, err := r.Service.FetchBestLapTelemetry(ctx, data)
	if err != nil {
		return fmt.Errorf("fetching telemetry: %w", err)
	}

	if err := r.writeChart(runDir, "speed.html", func(w io.Writer) error {
		return WriteSpeedChart(w, telemetry)
	}); err != nil {
		return err
	}
	if err := r.writeChart(runDir, "rpm.html", func(w io.Writer) error {
		return WriteTraceChart(w, "Best Lap RPM", "Lap time (s)", "RPM", compare.RPMTraces(telemetry))
	}); err != nil {
		return err
	}
	if err := r.writeChart(runDir, "throttle.html", func(w io.Writer) error {
		return WriteTraceChart(w, "Best Lap Throttle", "Lap time (s)", "Throttle (%)", compare.ThrottleTraces(telemetry))
	}); err != nil {
		return err
	}

	// Delta charts and the track map need at least two drivers with
	// telemetry; absence is a normal "not enough data" state.
	if sd := trace.SpeedDelta(telemetry); sd != nil {
		if err := r.writeChart(runDir, "speed_delta.html", func(w io.Writer) error {
			return WriteDeltaChart(w, "Speed Delta", "Distance (m)", "Δ Speed (km/h)", sd)
		}); err != nil {
			return err
		}
	} else {
		monitoring.Logf("report: skipping speed delta (fewer than 2 drivers with telemetry)")
	}
	if td := trace.TimeDelta(telemetry); td != nil {
		if err := r.writeChart(runDir, "time_delta.html", func(w io.Writer) error {
			return WriteDeltaChart(w, "Time Delta", "Reference lap time (s)", "Δ Time (s)", td)
		}); err != nil {
			return err
		}
	}

	if tm := trace.BuildTrackMap(telemetry); tm != nil {
		png := filepath.Join(runDir, "trackmap.png")
		if err := SaveTrackMapPNG(png, tm, len(tm.Frames)/2); err != nil {
			return err
		}
	} else {
		monitoring.Logf("report: skipping track map (no location data)")
	}

	return nil
}

func (r *Runner) writeChart(dir, name string, render func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()
	return render(f)
}
