// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package annotation implements the per-species annotation model: term
// size and normalized frequency, with statistical imputation of missing
// values via sibling/child/parent fallback (component C2).
package annotation

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/revigo/internal/ontology"
)

// maxVisited bounds the recursion depth of frequency imputation to
// prevent divergence (§4.2 "Recursion guard").
const maxVisited = 200

// parentClamp is the ceiling applied to a frequency value inherited from
// a parent, to avoid propagating the implicit root frequency of 1.0.
const parentClamp = 0.75

// SpeciesAnnotations holds per-term annotation counts for one species,
// growing on demand as imputed values are memoized. It is safe for
// concurrent use: the imputation cache is read-mostly and guarded by a
// RWMutex (§5 "Shared-resource policy").
type SpeciesAnnotations struct {
	TaxonID int64
	Name    string

	mu       sync.RWMutex
	size     map[int64]int
	freq     map[int64]float64
	sumSize  int
	sumFreq  float64
}

// New returns an empty SpeciesAnnotations for the given taxon.
func New(taxonID int64, name string) *SpeciesAnnotations {
	return &SpeciesAnnotations{
		TaxonID: taxonID,
		Name:    name,
		size:    make(map[int64]int),
		freq:    make(map[int64]float64),
	}
}

// SetSize records a known annotation size for id, as loaded from the GOA
// ingestion pipeline (an external collaborator).
func (a *SpeciesAnnotations) SetSize(id int64, size int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.size[id]; !exists {
		a.sumSize += size
	} else {
		a.sumSize += size - a.size[id]
	}
	a.size[id] = size
}

// SetFrequency records a known normalized frequency for id.
func (a *SpeciesAnnotations) SetFrequency(id int64, freq float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.freq[id]; !exists {
		a.sumFreq += freq
	} else {
		a.sumFreq += freq - a.freq[id]
	}
	a.freq[id] = freq
}

// GetSize returns the annotation size for id, imputing and memoizing one
// if unknown.
func (a *SpeciesAnnotations) GetSize(onto *ontology.Graph, id int64) int {
	a.mu.RLock()
	if v, ok := a.size[id]; ok {
		a.mu.RUnlock()
		return v
	}
	a.mu.RUnlock()

	v := a.imputeSize(onto, id, make(map[int64]bool))
	a.mu.Lock()
	if _, ok := a.size[id]; !ok {
		a.size[id] = v
		a.sumSize += v
	} else {
		v = a.size[id]
	}
	a.mu.Unlock()
	return v
}

// GetFrequency returns the normalized frequency for id, imputing and
// memoizing one if unknown.
func (a *SpeciesAnnotations) GetFrequency(onto *ontology.Graph, id int64) float64 {
	a.mu.RLock()
	if v, ok := a.freq[id]; ok {
		a.mu.RUnlock()
		return v
	}
	a.mu.RUnlock()

	visited := make(map[int64]bool)
	visited[id] = true
	v := a.imputeFrequency(onto, id, visited)
	a.mu.Lock()
	if _, ok := a.freq[id]; !ok {
		a.freq[id] = v
		a.sumFreq += v
	} else {
		v = a.freq[id]
	}
	a.mu.Unlock()
	return v
}

// globalAverageSize returns the mean of all known sizes.
func (a *SpeciesAnnotations) globalAverageSize() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.size) == 0 {
		return 0
	}
	return float64(a.sumSize) / float64(len(a.size))
}

// globalAverageFrequency returns the mean of all known frequencies.
func (a *SpeciesAnnotations) globalAverageFrequency() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.freq) == 0 {
		return 0
	}
	return a.sumFreq / float64(len(a.freq))
}

// knownSize returns (value, true) if id has a known (not imputed) size
// at the time of the call.
func (a *SpeciesAnnotations) knownSize(id int64) (int, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.size[id]
	return v, ok
}

func (a *SpeciesAnnotations) knownFreq(id int64) (float64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.freq[id]
	return v, ok
}

// imputeSize applies the fallback order from §4.2 for integer sizes:
// mean of usable siblings, else largest known child, else smallest
// known non-root parent, else global average.
func (a *SpeciesAnnotations) imputeSize(onto *ontology.Graph, id int64, visited map[int64]bool) int {
	if visited[id] || len(visited) > maxVisited {
		return int(a.globalAverageSize())
	}
	visited[id] = true

	var usable []float64
	for sib := range onto.Siblings(id) {
		if v, ok := a.knownSize(sib); ok && v > 0 {
			usable = append(usable, float64(v))
		}
	}
	if len(usable) > 0 {
		return int(stat.Mean(usable, nil))
	}

	var maxChild int
	found := false
	for _, c := range onto.Children(id) {
		if v, ok := a.knownSize(c); ok && v > 0 {
			if !found || v > maxChild {
				maxChild = v
				found = true
			}
		}
	}
	if found {
		return maxChild
	}

	minParent := 0
	found = false
	for _, p := range onto.Parents(id) {
		if onto.IsRoot(p) {
			continue
		}
		if v, ok := a.knownSize(p); ok && v > 0 {
			if !found || v < minParent {
				minParent = v
				found = true
			}
		}
	}
	if found {
		return minParent
	}

	return int(a.globalAverageSize())
}

// imputeFrequency applies the fallback order from §4.2 for normalized
// frequencies. A sibling/child/parent whose own frequency is unknown is
// itself resolved recursively (through the same fallback chain), which
// is why the 200-entry visited guard exists: sibling relations are
// mutual, so without it a pair of terms with no known annotations could
// recurse into each other indefinitely.
func (a *SpeciesAnnotations) imputeFrequency(onto *ontology.Graph, id int64, visited map[int64]bool) float64 {
	var usable []float64
	for sib := range onto.Siblings(id) {
		if v, ok := a.resolveFrequency(onto, sib, visited); ok {
			usable = append(usable, v)
		}
	}
	if len(usable) > 0 {
		return stat.Mean(usable, nil)
	}

	var maxChild float64
	found := false
	for _, c := range onto.Children(id) {
		if v, ok := a.resolveFrequency(onto, c, visited); ok {
			if !found || v > maxChild {
				maxChild = v
				found = true
			}
		}
	}
	if found {
		return maxChild
	}

	minParent := 0.0
	found = false
	for _, p := range onto.Parents(id) {
		if onto.IsRoot(p) {
			continue
		}
		if v, ok := a.resolveFrequency(onto, p, visited); ok {
			if !found || v < minParent {
				minParent = v
				found = true
			}
		}
	}
	if found {
		if minParent > parentClamp {
			minParent = parentClamp
		}
		return minParent
	}

	return a.globalAverageFrequency()
}

// resolveFrequency returns a usable (> 0) frequency for id, imputing it
// recursively through the shared visited set if it is not directly
// known. It reports false if id has already been visited on this chain
// or the visited set has grown past maxVisited, in which case it
// contributes nothing to the caller's fallback step rather than forcing
// a global-average value into an otherwise-successful sibling mean.
func (a *SpeciesAnnotations) resolveFrequency(onto *ontology.Graph, id int64, visited map[int64]bool) (float64, bool) {
	if v, ok := a.knownFreq(id); ok {
		if v > 0 {
			return v, true
		}
		return 0, false
	}
	if visited[id] || len(visited) >= maxVisited {
		return 0, false
	}
	visited[id] = true
	v := a.imputeFrequency(onto, id, visited)
	if v <= 0 {
		return 0, false
	}
	return v, true
}
