// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import "testing"

// buildSmallDAG builds:
//
//	0008150 (biological_process, root)
//	└─ 0009987 (cellular process, is_a 0008150)
//	   └─ 0006950 (response to stress, is_a 0009987)
//	0000001 (obsolete, replaced by 0009987)
func buildSmallDAG(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	terms := []TermInput{
		{ID: 8150, Formatted: "GO:0008150", Namespace: BiologicalProcess, Name: "biological_process"},
		{ID: 9987, Formatted: "GO:0009987", Namespace: BiologicalProcess, Name: "cellular process", IsA: []int64{8150}},
		{ID: 6950, Formatted: "GO:0006950", Namespace: BiologicalProcess, Name: "response to stress", IsA: []int64{9987}},
		{ID: 1, Formatted: "GO:0000001", Namespace: BiologicalProcess, Obsolete: true, ReplacedBy: []int64{9987}},
	}
	for _, in := range terms {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestRootAndAncestors(t *testing.T) {
	g := buildSmallDAG(t)

	root, ok := g.Root(6950)
	if !ok || root != 8150 {
		t.Fatalf("Root(6950) = %d, %v; want 8150, true", root, ok)
	}

	term, ok := g.Term(6950)
	if !ok {
		t.Fatal("Term(6950) not found")
	}
	anc := term.Ancestors()
	if !anc[9987] || !anc[8150] {
		t.Fatalf("Ancestors(6950) = %v; want {9987, 8150}", anc)
	}
	if len(anc) != 2 {
		t.Fatalf("Ancestors(6950) has %d entries, want 2", len(anc))
	}
}

func TestIsChildOf(t *testing.T) {
	g := buildSmallDAG(t)
	if !g.IsChildOf(6950, 8150) {
		t.Error("expected 6950 to be a child of 8150")
	}
	if g.IsChildOf(8150, 6950) {
		t.Error("did not expect 8150 to be a child of 6950")
	}
}

func TestObsoleteAliasing(t *testing.T) {
	g := buildSmallDAG(t)
	aliased, ok := g.Term(1)
	if !ok {
		t.Fatal("Term(1) (obsolete) not found")
	}
	canonical, ok := g.Term(9987)
	if !ok {
		t.Fatal("Term(9987) not found")
	}
	if aliased.ID != canonical.ID {
		t.Fatalf("Term(1).ID = %d; want %d (aliased to replacement)", aliased.ID, canonical.ID)
	}
}

func TestCommonAncestors(t *testing.T) {
	g := NewGraph()
	for _, in := range []TermInput{
		{ID: 1, Namespace: BiologicalProcess},
		{ID: 2, Namespace: BiologicalProcess, IsA: []int64{1}},
		{ID: 3, Namespace: BiologicalProcess, IsA: []int64{1}},
		{ID: 4, Namespace: BiologicalProcess, IsA: []int64{2}},
		{ID: 5, Namespace: BiologicalProcess, IsA: []int64{3}},
	} {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	common := g.CommonAncestors(4, 5)
	if !common[1] {
		t.Fatalf("CommonAncestors(4,5) = %v; want to include 1", common)
	}
	if common[2] || common[3] {
		t.Fatalf("CommonAncestors(4,5) = %v; should not include 2 or 3", common)
	}
}

func TestSiblings(t *testing.T) {
	g := NewGraph()
	for _, in := range []TermInput{
		{ID: 1, Namespace: BiologicalProcess},
		{ID: 2, Namespace: BiologicalProcess, IsA: []int64{1}},
		{ID: 3, Namespace: BiologicalProcess, IsA: []int64{1}},
	} {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	sib := g.Siblings(2)
	if !sib[3] || sib[2] {
		t.Fatalf("Siblings(2) = %v; want {3}", sib)
	}
}

func TestMissingIDIsMalformed(t *testing.T) {
	g := NewGraph()
	err := g.AddTerm(TermInput{Namespace: BiologicalProcess})
	if err == nil {
		t.Fatal("expected error for term missing ID")
	}
}

func TestUnresolvedReplacementIsMalformed(t *testing.T) {
	g := NewGraph()
	if err := g.AddTerm(TermInput{ID: 1, Obsolete: true, ReplacedBy: []int64{999}}); err != nil {
		t.Fatalf("AddTerm: %v", err)
	}
	if err := g.Finalize(); err == nil {
		t.Fatal("expected error for unresolved replacement")
	}
}
