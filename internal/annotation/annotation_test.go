// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package annotation

import (
	"testing"

	"github.com/kortschak/revigo/internal/ontology"
)

func buildGraph(t *testing.T) *ontology.Graph {
	t.Helper()
	g := ontology.NewGraph()
	for _, in := range []ontology.TermInput{
		{ID: 1, Namespace: ontology.BiologicalProcess},
		{ID: 2, Namespace: ontology.BiologicalProcess, IsA: []int64{1}},
		{ID: 3, Namespace: ontology.BiologicalProcess, IsA: []int64{1}},
		{ID: 4, Namespace: ontology.BiologicalProcess, IsA: []int64{1}},
	} {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestSiblingMeanImputation(t *testing.T) {
	g := buildGraph(t)
	a := New(9606, "human")
	lo, hi := 0.2, 0.4
	a.SetFrequency(2, lo)
	a.SetFrequency(3, hi)
	// 4 is unknown; its siblings are 2 and 3. The mean is taken in
	// float64, so it is (0.2+0.4)/2 = 0.30000000000000004, not 0.3.
	got := a.GetFrequency(g, 4)
	want := (lo + hi) / 2
	if got != want {
		t.Fatalf("GetFrequency(4) = %v, want %v", got, want)
	}
}

func TestFrequencyMemoized(t *testing.T) {
	g := buildGraph(t)
	a := New(9606, "human")
	a.SetFrequency(2, 0.2)
	a.SetFrequency(3, 0.4)
	first := a.GetFrequency(g, 4)
	if v, ok := a.knownFreq(4); !ok || v != first {
		t.Fatalf("imputed value for 4 was not memoized: %v, %v", v, ok)
	}
}

func TestParentClamp(t *testing.T) {
	g := ontology.NewGraph()
	for _, in := range []ontology.TermInput{
		{ID: 1, Namespace: ontology.BiologicalProcess},
		{ID: 2, Namespace: ontology.BiologicalProcess, IsA: []int64{1}},
		{ID: 3, Namespace: ontology.BiologicalProcess, IsA: []int64{2}},
	} {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	a := New(9606, "human")
	// 2 is a non-root parent of 3 (the root 1 would be skipped), and 3
	// has no siblings or children to impute from.
	a.SetFrequency(2, 0.9)
	got := a.GetFrequency(g, 3)
	if got != parentClamp {
		t.Fatalf("GetFrequency(3) = %v, want clamp %v", got, parentClamp)
	}
}

func TestGlobalAverageFallback(t *testing.T) {
	g := ontology.NewGraph()
	for _, in := range []ontology.TermInput{
		{ID: 1, Namespace: ontology.BiologicalProcess},
		{ID: 2, Namespace: ontology.BiologicalProcess},
	} {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	a := New(9606, "human")
	a.SetFrequency(1, 0.5)
	got := a.GetFrequency(g, 2)
	if got != 0.5 {
		t.Fatalf("GetFrequency(2) = %v, want global average 0.5", got)
	}
}

func TestMutualSiblingRecursionTerminates(t *testing.T) {
	// Two unknown children of the same unknown-frequency parent: asking
	// for one's frequency should not infinite-loop through the other.
	g := ontology.NewGraph()
	for _, in := range []ontology.TermInput{
		{ID: 1, Namespace: ontology.BiologicalProcess},
		{ID: 2, Namespace: ontology.BiologicalProcess, IsA: []int64{1}},
		{ID: 3, Namespace: ontology.BiologicalProcess, IsA: []int64{1}},
	} {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	a := New(9606, "human")
	got := a.GetFrequency(g, 2)
	if got != 0 {
		t.Fatalf("GetFrequency(2) = %v, want 0 (global average over empty map)", got)
	}
}
