// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cluster implements the dispensability-assignment engine
// (component C4): a priority-ordered greedy redundancy elimination over
// the similarity matrix, leaving exactly one representative per
// similarity-linked chain with dispensability 0.
package cluster

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/kortschak/revigo/internal/mtrand"
	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/revigo/rerr"
	"github.com/kortschak/revigo/internal/similarity"
	"github.com/kortschak/revigo/internal/term"
)

// DefaultSeed is the fixed Mersenne Twister seed mandated for the pair
// tie-break draw, chosen to make two runs over identical input
// reproduce identical dispensability assignments.
const DefaultSeed = 18012021

const (
	tooGeneralThreshold   = 0.05
	confidenceInterval    = 0.10
	ancestorSizeThreshold = 0.25
)

// Options tunes the winner-decision rules. The zero value is not the
// default; use DefaultOptions.
type Options struct {
	// KeepGreater selects whether R3/R5 prefer the larger or the smaller
	// value. Default true.
	KeepGreater bool
	// LogTransform applies |log10(max(x,1e-300))| to the R3/R5
	// comparison values before comparing them. Default false.
	LogTransform bool
}

// DefaultOptions returns the rule parameterization used when a job does
// not override it.
func DefaultOptions() Options {
	return Options{KeepGreater: true}
}

// Progress is called with a fraction in [0,1] as clustering proceeds.
type Progress func(frac float64)

type pair struct{ i, j int }

// Run assigns dispensability and a dispenser to every term in terms,
// based on matrix, which must have been built over the same term set.
// It reinitializes dispensability and dispensed-by to 0 before running.
// seed selects the Mersenne Twister draw; callers that need
// reproducible results across runs should pass DefaultSeed.
func Run(ctx context.Context, onto *ontology.Graph, matrix *similarity.Matrix, terms []*term.RevigoTerm, seed int64, opts Options, report Progress) error {
	n := len(terms)
	for _, t := range terms {
		t.Dispensability = 0
		t.DispensedByID = 0
	}
	if n < 2 {
		if report != nil {
			report(1)
		}
		return nil
	}

	buckets, err := buildBuckets(ctx, matrix, terms, report)
	if err != nil {
		return err
	}

	keys := make([]float64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	total := 0
	for _, k := range keys {
		total += len(buckets[k])
	}

	removed := make([]bool, n)
	rng := rand.New(mtrand.NewSource(seed))

	consumed := 0
	for _, k := range keys {
		b := buckets[k]
		for len(b) > 0 {
			select {
			case <-ctx.Done():
				return rerr.Wrap(rerr.State, false, "clustering cancelled during consumption", rerr.ErrCancelled)
			default:
			}

			pick := rng.Intn(len(b))
			p := b[pick]
			b[pick] = b[len(b)-1]
			b = b[:len(b)-1]
			consumed++
			if report != nil && total > 0 {
				report(0.5 + 0.5*float64(consumed)/float64(total))
			}

			if removed[p.i] || removed[p.j] {
				continue
			}
			aWins := decide(onto, terms[p.i], terms[p.j], opts)
			winner, loser := p.i, p.j
			if !aWins {
				winner, loser = p.j, p.i
			}
			terms[loser].Dispensability = k
			terms[loser].DispensedByID = terms[winner].TermID
			removed[loser] = true
		}
	}
	if report != nil {
		report(1)
	}
	return nil
}

// buildBuckets enumerates admitted pairs and groups them by 8-decimal
// rounded similarity.
func buildBuckets(ctx context.Context, matrix *similarity.Matrix, terms []*term.RevigoTerm, report Progress) (map[float64][]pair, error) {
	n := len(terms)
	total := n * (n - 1) / 2
	buckets := make(map[float64][]pair)
	done := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			select {
			case <-ctx.Done():
				return nil, rerr.Wrap(rerr.State, false, "clustering cancelled during bucket construction", rerr.ErrCancelled)
			default:
			}

			sim := similarity.Round8(matrix.At(i, j))
			if sim > -1 && signsCompatible(terms[i].TransformedValue, terms[j].TransformedValue) {
				buckets[sim] = append(buckets[sim], pair{i, j})
			}
			done++
			if report != nil && total > 0 {
				report(0.5 * float64(done) / float64(total))
			}
		}
	}
	return buckets, nil
}

func signsCompatible(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return sign(a) == sign(b)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// decide applies the R1-R5 winner rules and reports whether a beats b.
func decide(onto *ontology.Graph, a, b *term.RevigoTerm, opts Options) bool {
	// R1: a pinned term always beats an unpinned one.
	if a.Pinned != b.Pinned {
		return a.Pinned
	}

	// R2: a term below the "too general" frequency threshold beats one
	// above it.
	aGeneral := a.AnnotationFrequency > tooGeneralThreshold
	bGeneral := b.AnnotationFrequency > tooGeneralThreshold
	if aGeneral != bGeneral {
		return !aGeneral
	}

	// R3: larger (or smaller, if !KeepGreater) transformed value wins,
	// substituting uniqueness then 0 for NaN, treating values within a
	// 10%-of-average band as equal.
	va, vb := r3Values(a, b, opts)
	if !valuesEqual(va, vb) {
		return byGreater(va, vb, opts.KeepGreater)
	}

	// R4: equal values, ancestor relationship: the parent loses unless
	// its size exceeds the child's by 25% or more.
	aChildOfB := onto.IsChildOf(a.TermID, b.TermID)
	bChildOfA := onto.IsChildOf(b.TermID, a.TermID)
	if aChildOfB || bChildOfA {
		var child, parent *term.RevigoTerm
		var childIsA bool
		if aChildOfB {
			child, parent, childIsA = a, b, true
		} else {
			child, parent, childIsA = b, a, false
		}
		if parent.AnnotationSize > 0 {
			ratio := float64(parent.AnnotationSize-child.AnnotationSize) / float64(parent.AnnotationSize)
			if ratio < ancestorSizeThreshold {
				// parent loses
				return childIsA
			}
			// child loses
			return !childIsA
		}
	}

	// R5: fall back to the raw (pre-equalization) comparison.
	return byGreater(va, vb, opts.KeepGreater)
}

func r3Values(a, b *term.RevigoTerm, opts Options) (float64, float64) {
	va, vb := a.TransformedValue, b.TransformedValue
	if math.IsNaN(va) || math.IsNaN(vb) {
		// Either side NaN: substitute uniqueness for both operands,
		// not just the NaN one.
		va, vb = a.Uniqueness, b.Uniqueness
	}
	if math.IsNaN(va) {
		va = 0
	}
	if math.IsNaN(vb) {
		vb = 0
	}
	if opts.LogTransform {
		va = math.Abs(math.Log10(math.Max(va, 1e-300)))
		vb = math.Abs(math.Log10(math.Max(vb, 1e-300)))
	}
	return va, vb
}

func valuesEqual(va, vb float64) bool {
	avg := (va + vb) / 2
	if avg == 0 {
		return va == vb
	}
	return math.Abs(va-vb) <= confidenceInterval*math.Abs(avg)
}

func byGreater(va, vb float64, keepGreater bool) bool {
	if keepGreater {
		return va > vb
	}
	return va < vb
}
