// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package similarity

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/kortschak/revigo/internal/annotation"
	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/term"
)

// Matrix is the half-stored pairwise similarity matrix over a term set,
// sorted by GO ID. Storage length is n*(n-1)/2, holding the lower
// triangle; the diagonal (always 1) is never stored.
type Matrix struct {
	terms   []*term.RevigoTerm
	index   map[int64]int
	variant Variant
	storage []float64
}

// Build computes the full pairwise similarity matrix for terms under the
// given ontology, species annotations and variant. terms is sorted
// in-place by GO ID to satisfy the storage contract.
func Build(onto *ontology.Graph, anno *annotation.SpeciesAnnotations, terms []*term.RevigoTerm, variant Variant) *Matrix {
	sort.Sort(term.ByTermID(terms))

	n := len(terms)
	m := &Matrix{
		terms:   terms,
		index:   make(map[int64]int, n),
		variant: variant,
		storage: make([]float64, n*(n-1)/2),
	}
	for i, t := range terms {
		m.index[t.TermID] = i
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := Score(onto, anno, variant, terms[i].TermID, terms[j].TermID)
			m.storage[packIndex(i, j)] = v
		}
	}
	return m
}

// packIndex computes the lower-triangle storage offset for the
// unordered pair (i, j), i != j. row is always the smaller of the two
// positions, col the larger; the offset is col*(col-1)/2 + row, the
// 0-based translation of M[((i-1)*i)/2+j] for 1-based i>j.
func packIndex(i, j int) int {
	row, col := i, j
	if row > col {
		row, col = col, row
	}
	return col*(col-1)/2 + row
}

// Terms returns the matrix's term set, sorted by GO ID.
func (m *Matrix) Terms() []*term.RevigoTerm { return m.terms }

// Len returns the number of terms in the matrix.
func (m *Matrix) Len() int { return len(m.terms) }

// IndexOf returns the position of the term with the given ID, and
// whether it is present.
func (m *Matrix) IndexOf(id int64) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// At returns sim(i, j) for 0-based matrix positions i, j.
func (m *Matrix) At(i, j int) float64 {
	if i == j {
		return 1
	}
	return m.storage[packIndex(i, j)]
}

// SetAt overwrites sim(i, j). Setting the diagonal (i == j) has no
// effect.
func (m *Matrix) SetAt(i, j int, v float64) {
	if i == j {
		return
	}
	m.storage[packIndex(i, j)] = v
}

// ByID returns sim(a, b) for two term IDs, and whether both are present
// in the matrix.
func (m *Matrix) ByID(a, b int64) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.At(i, j), true
}

// Uniqueness returns the uniqueness score for the term at position i:
// the squared mean distance from all other terms whose similarity to i
// is not NaN (§4.3). If fewer than two such terms exist, uniqueness is
// 1.
func (m *Matrix) Uniqueness(i int) float64 {
	n := len(m.terms)
	vals := make([]float64, 0, n-1)
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		v := m.At(i, j)
		if math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
	}
	if len(vals) <= 1 {
		return 1
	}
	mean := floats.Sum(vals) / float64(len(vals))
	d := 1 - mean
	return d * d
}

// Variant returns the similarity variant the matrix was built with.
func (m *Matrix) Variant() Variant { return m.variant }
