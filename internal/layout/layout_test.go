// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"context"
	"math"
	"testing"

	"github.com/kortschak/revigo/internal/annotation"
	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/similarity"
	"github.com/kortschak/revigo/internal/term"
)

func buildFixture(t *testing.T, n int) (*ontology.Graph, *annotation.SpeciesAnnotations) {
	t.Helper()
	g := ontology.NewGraph()
	ins := []ontology.TermInput{{ID: 1, Namespace: ontology.BiologicalProcess}}
	for i := 2; i <= n; i++ {
		ins = append(ins, ontology.TermInput{ID: int64(i), Namespace: ontology.BiologicalProcess, IsA: []int64{1}})
	}
	for _, in := range ins {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	a := annotation.New(9606, "human")
	for i := 1; i <= n; i++ {
		a.SetFrequency(int64(i), float64(i)/float64(n+1))
	}
	return g, a
}

func TestSkipsMDSWhenTooFewTerms(t *testing.T) {
	g, a := buildFixture(t, 2)
	terms := []*term.RevigoTerm{
		{TermID: 1}, {TermID: 2},
	}
	m := similarity.Build(g, a, terms, similarity.SimRel)
	res, err := Run(context.Background(), m, 1, 2, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Skipped {
		t.Fatal("want Skipped=true when m<=dim")
	}
}

func TestLayoutProducesFiniteCoordinates(t *testing.T) {
	g, a := buildFixture(t, 6)
	var terms []*term.RevigoTerm
	for i := int64(1); i <= 6; i++ {
		terms = append(terms, &term.RevigoTerm{TermID: i})
	}
	m := similarity.Build(g, a, terms, similarity.SimRel)
	res, err := Run(context.Background(), m, 1, 2, Options{MaxIterations: 50})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Dim != 2 {
		t.Fatalf("Dim = %d, want 2", res.Dim)
	}
	for _, tm := range terms {
		for _, v := range tm.PC {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("term %d has non-finite coordinate: %v", tm.TermID, tm.PC)
			}
		}
	}
}

func TestLayout3DWritesThreeCoords(t *testing.T) {
	g, a := buildFixture(t, 6)
	var terms []*term.RevigoTerm
	for i := int64(1); i <= 6; i++ {
		terms = append(terms, &term.RevigoTerm{TermID: i})
	}
	m := similarity.Build(g, a, terms, similarity.SimRel)
	_, err := Run(context.Background(), m, 1, 3, Options{MaxIterations: 50})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, tm := range terms {
		for _, v := range tm.PC3 {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("term %d has non-finite 3D coordinate: %v", tm.TermID, tm.PC3)
			}
		}
	}
}

func TestDispensedTermsExcluded(t *testing.T) {
	g, a := buildFixture(t, 4)
	terms := []*term.RevigoTerm{
		{TermID: 1, Dispensability: 0},
		{TermID: 2, Dispensability: 0},
		{TermID: 3, Dispensability: 0.9},
		{TermID: 4, Dispensability: 0.9},
	}
	m := similarity.Build(g, a, terms, similarity.SimRel)
	_, err := Run(context.Background(), m, 0.1, 2, Options{MaxIterations: 20})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, tm := range terms {
		if tm.TermID == 3 || tm.TermID == 4 {
			if tm.PC[0] != 0 || tm.PC[1] != 0 {
				t.Errorf("dispensed term %d got written coordinates %v", tm.TermID, tm.PC)
			}
		}
	}
}

func TestCancellationStopsEarly(t *testing.T) {
	g, a := buildFixture(t, 8)
	var terms []*term.RevigoTerm
	for i := int64(1); i <= 8; i++ {
		terms = append(terms, &term.RevigoTerm{TermID: i})
	}
	m := similarity.Build(g, a, terms, similarity.SimRel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, m, 1, 2, Options{MaxIterations: 1000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Converged {
		t.Fatal("want Converged=false when cancelled immediately")
	}
}
