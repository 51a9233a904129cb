// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout implements 2D/3D multidimensional-scaling placement of
// a retained term set (component C5): classical-MDS initialization via
// power-iteration eigendecomposition, refined by SMACOF-style iterative
// majorization.
package layout

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/kortschak/revigo/internal/similarity"
	"github.com/kortschak/revigo/internal/term"
)

const (
	distanceFloor    = 0.1
	eigenConvergence = 1e-6
	eigenMaxIter     = 100

	// DefaultThresholdExponent sets the SMACOF stopping rule to
	// normalized change < 10^-6.
	DefaultThresholdExponent = 6
	// DefaultMaxIterations is the iteration cap used when Options.MaxIterations
	// is left at zero (§4.5 "iteration cap (default 10 000 000 when passed 0)").
	DefaultMaxIterations = 10_000_000
)

// Options tunes the SMACOF refinement's stopping conditions.
type Options struct {
	// ThresholdExponent stops refinement once the normalized coordinate
	// change drops below 10^-ThresholdExponent. Zero selects
	// DefaultThresholdExponent.
	ThresholdExponent int
	// TimeoutMS bounds wall-clock refinement time. Zero means no limit.
	TimeoutMS int64
	// MaxIterations caps the refinement loop. Zero selects
	// DefaultMaxIterations.
	MaxIterations int
	// RecordHistory makes Run populate Result.History with the
	// normalized coordinate change at each SMACOF iteration, for the
	// optional debug stress plot (§10 "Debug plotting").
	RecordHistory bool
}

// Result reports how layout proceeded.
type Result struct {
	Dim        int
	Iterations int
	Converged  bool
	// Skipped is true when the landmark set was too small (m <= dim) to
	// run MDS; coordinates were copied directly from clamped distances
	// instead. This is not an error (§4.5).
	Skipped bool
	// History holds the per-iteration normalized coordinate change when
	// Options.RecordHistory was set.
	History []float64
}

// Run lays out the subset of matrix's terms with dispensability <=
// cutoff (or NaN dispensability) into dim dimensions (2 or 3), writing
// the result into each selected term's PC (dim==2) or PC3 (dim==3)
// field.
func Run(ctx context.Context, matrix *similarity.Matrix, cutoff float64, dim int, opts Options) (*Result, error) {
	terms := matrix.Terms()
	var sel []int
	for i, t := range terms {
		if math.IsNaN(t.Dispensability) || t.Dispensability <= cutoff {
			sel = append(sel, i)
		}
	}
	m := len(sel)
	if m == 0 {
		return &Result{Dim: dim}, nil
	}

	D := mat.NewDense(m, m, nil)
	for a := 0; a < m; a++ {
		for b := 0; b < m; b++ {
			if a == b {
				continue
			}
			s := matrix.At(sel[a], sel[b])
			var d float64
			if !math.IsNaN(s) {
				d = 1 / math.Max(distanceFloor, s)
			}
			D.Set(a, b, d)
		}
	}

	coords := make([][]float64, m)
	for i := range coords {
		coords[i] = make([]float64, dim)
	}

	if m <= dim {
		for i := 0; i < m; i++ {
			for k := 0; k < dim; k++ {
				coords[i][k] = D.At(i, k%m)
			}
		}
		writeCoords(terms, sel, coords, dim)
		return &Result{Dim: dim, Skipped: true}, nil
	}

	classicalInit(D, coords, dim)

	res, err := smacof(ctx, D, coords, opts)
	if err != nil {
		return nil, err
	}
	res.Dim = dim
	writeCoords(terms, sel, coords, dim)
	return res, nil
}

// classicalInit fills coords with the double-centered, power-iterated
// classical scaling solution (§4.5 step 1), deflating the working
// matrix after each extracted eigenvector.
func classicalInit(D *mat.Dense, coords [][]float64, dim int) {
	m, _ := D.Dims()
	b := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			d := D.At(i, j)
			b.Set(i, j, -0.5*d*d)
		}
	}

	rowMean := make([]float64, m)
	var grandMean float64
	for i := 0; i < m; i++ {
		var sum float64
		for j := 0; j < m; j++ {
			sum += b.At(i, j)
		}
		rowMean[i] = sum / float64(m)
		grandMean += sum
	}
	grandMean /= float64(m * m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			b.Set(i, j, b.At(i, j)-rowMean[i]-rowMean[j]+grandMean)
		}
	}

	work := mat.DenseCopyOf(b)
	for k := 0; k < dim; k++ {
		lambda, vec := powerIteration(work, m)
		scale := math.Sqrt(math.Abs(lambda))
		for i := 0; i < m; i++ {
			coords[i][k] = vec[i] * scale
		}
		for i := 0; i < m; i++ {
			for j := 0; j < m; j++ {
				work.Set(i, j, work.At(i, j)-lambda*vec[i]*vec[j])
			}
		}
	}
}

// powerIteration returns the dominant eigenpair of M by power
// iteration, converging when |1 - <v,Mv>/|Mv|| < eigenConvergence or
// after eigenMaxIter steps (§4.5 step 1).
func powerIteration(M *mat.Dense, m int) (float64, []float64) {
	v := make([]float64, m)
	for i := range v {
		v[i] = 1 / math.Sqrt(float64(m))
	}
	mv := make([]float64, m)
	var lambda float64

	for iter := 0; iter < eigenMaxIter; iter++ {
		for i := 0; i < m; i++ {
			var sum float64
			for j := 0; j < m; j++ {
				sum += M.At(i, j) * v[j]
			}
			mv[i] = sum
		}
		var norm float64
		for _, x := range mv {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return 0, v
		}
		var rq float64
		for i := range v {
			rq += v[i] * mv[i]
		}
		lambda = rq
		for i := range v {
			v[i] = mv[i] / norm
		}
		if math.Abs(1-rq/norm) < eigenConvergence {
			break
		}
	}
	return lambda, v
}

// smacof performs SMACOF-style iterative majorization over coords in
// place (§4.5 step 2), stopping on normalized-change convergence, a
// wall-clock timeout, or the iteration cap.
func smacof(ctx context.Context, D *mat.Dense, coords [][]float64, opts Options) (*Result, error) {
	m := len(coords)
	if m == 0 {
		return &Result{}, nil
	}
	dim := len(coords[0])

	exp := opts.ThresholdExponent
	if exp == 0 {
		exp = DefaultThresholdExponent
	}
	threshold := math.Pow(10, -float64(exp))

	maxIter := opts.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}

	var deadline time.Time
	if opts.TimeoutMS > 0 {
		deadline = time.Now().Add(time.Duration(opts.TimeoutMS) * time.Millisecond)
	}

	dist := make([][]float64, m)
	next := make([][]float64, m)
	for i := range dist {
		dist[i] = make([]float64, m)
		next[i] = make([]float64, dim)
	}

	iter := 0
	converged := false
	var history []float64
	for ; iter < maxIter; iter++ {
		select {
		case <-ctx.Done():
			return &Result{Iterations: iter}, nil
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		for i := 0; i < m; i++ {
			for j := 0; j < m; j++ {
				if i == j {
					dist[i][j] = 0
					continue
				}
				var s float64
				for k := 0; k < dim; k++ {
					d := coords[i][k] - coords[j][k]
					s += d * d
				}
				dist[i][j] = math.Sqrt(s)
			}
		}

		for i := 0; i < m; i++ {
			for k := 0; k < dim; k++ {
				next[i][k] = 0
			}
			for j := 0; j < m; j++ {
				if i == j {
					continue
				}
				dij := dist[i][j]
				var b float64
				if dij > 1e-12 {
					b = D.At(i, j) / dij
				}
				for k := 0; k < dim; k++ {
					next[i][k] += coords[j][k] + b*(coords[i][k]-coords[j][k])
				}
			}
			for k := 0; k < dim; k++ {
				next[i][k] /= float64(m)
			}
		}

		var deltaSq, normSq float64
		for i := 0; i < m; i++ {
			for k := 0; k < dim; k++ {
				d := next[i][k] - coords[i][k]
				deltaSq += d * d
				normSq += coords[i][k] * coords[i][k]
			}
			copy(coords[i], next[i])
		}
		if normSq == 0 {
			break
		}
		change := math.Sqrt(deltaSq / normSq)
		if opts.RecordHistory {
			history = append(history, change)
		}
		if change < threshold {
			converged = true
			iter++
			break
		}
	}
	return &Result{Iterations: iter, Converged: converged, History: history}, nil
}

func writeCoords(terms []*term.RevigoTerm, sel []int, coords [][]float64, dim int) {
	for i, idx := range sel {
		t := terms[idx]
		switch dim {
		case 2:
			t.PC[0] = coords[i][0]
			t.PC[1] = coords[i][1]
		case 3:
			t.PC3[0] = coords[i][0]
			t.PC3[1] = coords[i][1]
			t.PC3[2] = coords[i][2]
		}
	}
}
