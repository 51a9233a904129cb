// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package debugplot renders optional diagnostic plots for a job run
// (§10 "Debug plotting"): an MDS stress-vs-iteration curve and a
// similarity-value distribution histogram, using a log-scaled axis
// idiom shared with other singular-value style diagnostic plots.
package debugplot

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kortschak/revigo/internal/similarity"
)

// StressCurve renders stress (normalized coordinate change) against
// SMACOF iteration number to dir/name.png.
func StressCurve(dir, name string, stress []float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("MDS stress\n%s", name)
	p.Y.Scale = logScale{}
	p.Y.Tick.Marker = logTicks{}
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "normalized change"

	xys := sliceToXYs(stress)
	if len(xys) != 0 {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = color.RGBA{B: 255, A: 255}
		p.Add(line)
	}
	return p.Save(18*vg.Centimeter, 15*vg.Centimeter, filepath.Join(dir, name+".png"))
}

// SimilarityHistogram renders the distribution of pairwise similarity
// values in matrix to dir/name.png.
func SimilarityHistogram(dir, name string, matrix *similarity.Matrix) error {
	n := matrix.Len()
	var values plotter.Values
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := matrix.At(i, j)
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Similarity distribution\n%s", name)
	p.X.Label.Text = "similarity"
	p.Y.Label.Text = "count"

	if len(values) != 0 {
		h, err := plotter.NewHist(values, 20)
		if err != nil {
			return err
		}
		p.Add(h)
	}
	return p.Save(18*vg.Centimeter, 15*vg.Centimeter, filepath.Join(dir, name+".png"))
}

func sliceToXYs(s []float64) plotter.XYs {
	xy := make(plotter.XYs, 0, len(s))
	for i, v := range s {
		if v <= 0 {
			continue
		}
		xy = append(xy, plotter.XY{X: float64(i), Y: v})
	}
	return xy
}

type logScale struct{}

func (logScale) Normalize(min, max, x float64) float64 {
	min = math.Max(min, 1e-16)
	max = math.Max(max, 1e-16)
	x = math.Max(x, 1e-16)
	logMin := math.Log(min)
	return (math.Log(x) - logMin) / (math.Log(max) - logMin)
}

type logTicks struct{ powers int }

func (t logTicks) Ticks(min, max float64) []plot.Tick {
	min = math.Max(min, 1e-16)
	max = math.Max(max, 1e-16)
	if t.powers < 1 {
		t.powers = 1
	}

	val := math.Pow10(int(math.Log10(min)))
	max = math.Pow10(int(math.Ceil(math.Log10(max))))
	var ticks []plot.Tick
	for val < max {
		for i := 1; i < 10; i++ {
			if i == 1 {
				ticks = append(ticks, plot.Tick{Value: val, Label: strconv.FormatFloat(val, 'e', 0, 64)})
			}
			if t.powers != 1 {
				break
			}
			ticks = append(ticks, plot.Tick{Value: val * float64(i)})
		}
		val *= math.Pow10(t.powers)
	}
	ticks = append(ticks, plot.Tick{Value: val, Label: strconv.FormatFloat(val, 'e', 0, 64)})

	return ticks
}
