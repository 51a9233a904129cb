// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package similarity computes the pairwise semantic-similarity matrix
// over a term set (component C3): a half-stored lower triangle indexed
// by term position, four similarity-score variants, and term
// "uniqueness" aggregation.
package similarity

import (
	"math"

	"github.com/kortschak/revigo/internal/annotation"
	"github.com/kortschak/revigo/internal/ontology"
)

// Variant selects the similarity formula (§4.3). SimRel is the default.
type Variant int

const (
	SimRel Variant = iota
	Lin
	Resnik
	Jiang
)

func (v Variant) String() string {
	switch v {
	case SimRel:
		return "SIMREL"
	case Lin:
		return "LIN"
	case Resnik:
		return "RESNIK"
	case Jiang:
		return "JIANG"
	default:
		return "UNKNOWN"
	}
}

// Score computes sim(a, b) under the given variant. It returns 1 for
// a==b and 0 if either ID is absent from the ontology, per contract.
func Score(onto *ontology.Graph, anno *annotation.SpeciesAnnotations, variant Variant, a, b int64) float64 {
	if a == b {
		return 1
	}
	if _, ok := onto.Term(a); !ok {
		return 0
	}
	if _, ok := onto.Term(b); !ok {
		return 0
	}

	fa := anno.GetFrequency(onto, a)
	fb := anno.GetFrequency(onto, b)

	fmia := mostInformativeAncestorFrequency(onto, anno, a, b)

	switch variant {
	case Resnik:
		v := -math.Log10(fmia)
		if v > 4 {
			v = 4
		}
		return v / 4
	case Lin:
		return linScore(fa, fb, fmia)
	case Jiang:
		return 1 / (-math.Log10(fa) - math.Log10(fb) + 2*math.Log10(fmia) + 1)
	case SimRel:
		fallthrough
	default:
		return linScore(fa, fb, fmia) * (1 - fmia)
	}
}

func linScore(fa, fb, fmia float64) float64 {
	return 2 * math.Log10(fmia) / (math.Log10(fa) + math.Log10(fb))
}

// mostInformativeAncestorFrequency returns the minimum frequency among
// the common ancestors of a and b, or 1 if they share none.
func mostInformativeAncestorFrequency(onto *ontology.Graph, anno *annotation.SpeciesAnnotations, a, b int64) float64 {
	common := onto.CommonAncestors(a, b)
	fmia := 1.0
	first := true
	for id := range common {
		f := anno.GetFrequency(onto, id)
		if first || f < fmia {
			fmia = f
			first = false
		}
	}
	return fmia
}

// Round8 rounds v to 8 decimal places, as required when similarity
// values are used as bucket/dictionary keys (§4.3, §4.4).
func Round8(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	const scale = 1e8
	return math.Round(v*scale) / scale
}
