package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/paddock-data/stint.report/internal/f1"
	"github.com/paddock-data/stint.report/internal/trace"
)

// SaveTrackMapPNG draws the track outline with every driver's position at
// the given frame and writes it to path. The frame index is clamped to the
// available range.
func SaveTrackMapPNG(path string, tm *trace.TrackMap, frameIndex int) error {
	if tm == nil || len(tm.Frames) == 0 {
		return fmt.Errorf("track map: no frames to draw")
	}
	if frameIndex < 0 {
		frameIndex = 0
	}
	if frameIndex >= len(tm.Frames) {
		frameIndex = len(tm.Frames) - 1
	}
	frame := tm.Frames[frameIndex]

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Track Position (t = %.2fs)", frame.T)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.HideAxes()

	outline := make(plotter.XYs, len(tm.TrackX))
	for i := range tm.TrackX {
		outline[i] = plotter.XY{X: tm.TrackX[i], Y: tm.TrackY[i]}
	}
	track, err := plotter.NewLine(outline)
	if err != nil {
		return fmt.Errorf("track outline: %w", err)
	}
	track.Color = color.Gray{Y: 120}
	track.Width = vg.Points(2)
	p.Add(track)

	for _, pos := range frame.Positions {
		pts := plotter.XYs{{X: pos.X, Y: pos.Y}}
		marker, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("driver marker %s: %w", pos.Acronym, err)
		}
		marker.Color = parseHexColor(tm.DriverColors[pos.Acronym])
		marker.Radius = vg.Points(5)
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("%s %.0f km/h", pos.Acronym, pos.Speed), marker)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving track map: %w", err)
	}
	return nil
}

// parseHexColor converts "#RRGGBB" to an opaque color, falling back to the
// default red on anything unparsable.
func parseHexColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		s = strings.TrimPrefix(f1.FallbackRed, "#")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		v, _ = strconv.ParseUint(strings.TrimPrefix(f1.FallbackRed, "#"), 16, 32)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
