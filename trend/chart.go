// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trend

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// DefaultCutoff is the date growth fits are split at.
var DefaultCutoff = time.Date(2005, time.January, 1, 0, 0, 0, 0, time.UTC)

// ChartOptions configures Chart.
type ChartOptions struct {
	Metric Metric
	// Cutoff splits the growth fits. If zero, DefaultCutoff is used.
	Cutoff time.Time
	Title  string
}

var yLabels = map[Metric]string{
	Score:       "SPECint speed score (log2 scale)",
	ScorePerMHz: "SPECint speed score per MHz (log2 scale)",
	MHz:         "Clock speed (MHz)",
}

const pointRad = 3

// Chart plots each series as a scatter of monthly means. For score
// metrics the Y axis is logarithmic and log-linear fits before and
// after the cutoff are drawn as dashed lines; a side without enough
// points is left out.
func Chart(series []*Series, opts ChartOptions) (*plot.Plot, error) {
	cutoff := opts.Cutoff
	if cutoff.IsZero() {
		cutoff = DefaultCutoff
	}

	pl := plot.New()
	pl.Title.Text = opts.Title
	pl.X.Label.Text = "Date"
	pl.Y.Label.Text = yLabels[opts.Metric]
	pl.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	pl.Legend.Top = true
	pl.Legend.Left = true

	logScale := opts.Metric != MHz
	if logScale {
		pl.Y.Scale = plot.LogScale{}
		pl.Y.Tick.Marker = plot.LogTicks{}
	}

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = grid.Vertical.Dashes
	pl.Add(grid)

	for i, s := range series {
		xys := make(plotter.XYs, len(s.Dates))
		for j, d := range s.Dates {
			xys[j].X = float64(d.Unix())
			xys[j].Y = s.Values[j]
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.CPU, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = plotutil.Shape(i / len(plotutil.DefaultColors))
		sc.GlyphStyle.Radius = vg.Points(pointRad)
		pl.Add(sc)
		pl.Legend.Add(fmt.Sprintf("%s (%d)", s.CPU, s.N), sc)
	}

	if !logScale {
		return pl, nil
	}
	for _, side := range []struct {
		name     string
		from, to time.Time
	}{
		{"before", time.Time{}, cutoff},
		{"after", cutoff, time.Time{}},
	} {
		fit, err := FitRange(series, side.from, side.to)
		if err != nil {
			continue
		}
		lo, hi := fit.From, fit.To
		if side.name == "before" {
			hi = cutoff
		} else {
			lo = cutoff
		}
		fn := plotter.NewFunction(func(x float64) float64 {
			return fit.At(time.Unix(int64(x), 0))
		})
		fn.XMin, fn.XMax = float64(lo.Unix()), float64(hi.Unix())
		fn.Samples = 100
		fn.Color = color.Black
		fn.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		pl.Add(fn)
		pl.Legend.Add(fmt.Sprintf("Log-linear trend %s %d (R2=%.2f)", side.name, cutoff.Year(), fit.R2), fn)
	}
	return pl, nil
}

// Chart sizes.
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	dpi           = 150
)

// Save writes pl to w in the format named by the extension of name:
// ".png", ".svg" or ".pdf".
func Save(pl *plot.Plot, w io.Writer, name string, width, height vg.Length) error {
	var c vg.CanvasWriterTo
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
			vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	case ".svg":
		c = vgsvg.New(width, height)
	case ".pdf":
		c = vgpdf.New(width, height)
	default:
		return fmt.Errorf("unsupported chart format %q", ext)
	}
	pl.Draw(draw.New(c))
	_, err := c.WriteTo(w)
	return err
}
