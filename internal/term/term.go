// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package term holds RevigoTerm, the per-job mutable wrapper around an
// ontology term that is shared by the similarity, clustering, layout and
// job orchestrator packages.
package term

// MaxUserValues is the maximum number of additional numeric columns
// accepted per input record (§4.7).
const MaxUserValues = 9

// RevigoTerm wraps a GO term reference with per-job mutable properties.
// Identity and equality are defined by the GO term ID alone.
type RevigoTerm struct {
	// TermID is the canonical (alias-resolved) GO term ID.
	TermID int64

	// Value is the raw user-supplied value (p-value or score).
	Value float64
	// TransformedValue is Value after the configured value-type
	// transform; "larger is better" orientation.
	TransformedValue float64

	Uniqueness     float64
	Dispensability float64

	AnnotationSize      int
	LogAnnotationSize   float64
	AnnotationFrequency float64

	Pinned bool

	// RepresentativeID is not written by the clustering, layout or
	// pin/recompute stages; it stays 0 unless a caller sets it. The
	// winning term chosen by clustering is recorded in DispensedByID.
	RepresentativeID int64
	// DispensedByID is the ID of the winning term that caused this term
	// to be dispensed, or 0 if this term was retained.
	DispensedByID int64

	// PC and PC3 are the 2D and 3D MDS coordinates.
	PC  [2]float64
	PC3 [3]float64

	// UserValues holds up to MaxUserValues additional numeric columns
	// from the input record.
	UserValues []float64
}

// ID returns t.TermID, satisfying graph.Node so RevigoTerm can be used
// directly as a node in threshold-graph traversals.
func (t *RevigoTerm) ID() int64 { return t.TermID }

// Equal reports whether t and other refer to the same GO term.
func (t *RevigoTerm) Equal(other *RevigoTerm) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.TermID == other.TermID
}

// ByTermID sorts a slice of *RevigoTerm by ascending GO term ID, as
// required by the similarity matrix's "sorted by GO ID" storage
// contract.
type ByTermID []*RevigoTerm

func (s ByTermID) Len() int           { return len(s) }
func (s ByTermID) Less(i, j int) bool { return s[i].TermID < s[j].TermID }
func (s ByTermID) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
