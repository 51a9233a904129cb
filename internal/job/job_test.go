// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package job

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kortschak/revigo/internal/annotation"
	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/revigo/rerr"
)

func buildFixture(t *testing.T) (*ontology.Graph, *annotation.SpeciesAnnotations) {
	t.Helper()
	g := ontology.NewGraph()
	for _, in := range []ontology.TermInput{
		{ID: 8150, Namespace: ontology.BiologicalProcess, Name: "biological_process"},
		{ID: 9987, Namespace: ontology.BiologicalProcess, Name: "cellular process", IsA: []int64{8150}},
		{ID: 6950, Namespace: ontology.BiologicalProcess, Name: "response to stress", IsA: []int64{9987}},
		{ID: 1, Namespace: ontology.BiologicalProcess, Obsolete: true, ReplacedBy: []int64{9987}},
	} {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	a := annotation.New(9606, "human")
	a.SetFrequency(8150, 1.0)
	a.SetFrequency(9987, 0.3)
	a.SetFrequency(6950, 0.05)
	// 8150 is only 10% larger than 9987 (below the 25% R4 threshold),
	// so by default the parent loses to its child.
	a.SetSize(8150, 20000)
	a.SetSize(9987, 18000)
	a.SetSize(6950, 1000)
	return g, a
}

func TestRunParentChildEqualValues(t *testing.T) {
	g, a := buildFixture(t)
	cfg := DefaultConfig()
	j := New("t1", g, a, cfg, nil)

	input := "GO:0009987\t10\nGO:0008150\t10\n"
	res, err := j.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	bp := res.Namespaces[ontology.BiologicalProcess]
	if bp == nil {
		t.Fatal("missing BiologicalProcess result")
	}
	var child, parent int
	for _, tm := range bp.Terms {
		if tm.TermID == 9987 && tm.DispensedByID == 0 {
			child++
		}
		if tm.TermID == 8150 && tm.DispensedByID == 9987 {
			parent++
		}
	}
	if child != 1 || parent != 1 {
		t.Errorf("expected child retained and parent dispensed into it, got child=%d parent=%d", child, parent)
	}
}

func TestRunRewritesObsoleteID(t *testing.T) {
	g, a := buildFixture(t)
	cfg := DefaultConfig()
	j := New("t2", g, a, cfg, nil)

	res, err := j.Run(context.Background(), "GO:0000001\t5\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "obsolete") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an obsolete-redirect warning, got %v", res.Warnings)
	}
	bp := res.Namespaces[ontology.BiologicalProcess]
	if bp == nil || len(bp.Terms) != 1 || bp.Terms[0].TermID != 9987 {
		t.Fatalf("expected the obsolete ID to resolve to 9987, got %+v", bp)
	}
}

func TestRunDropsUnrecognizedToken(t *testing.T) {
	g, a := buildFixture(t)
	j := New("t3", g, a, DefaultConfig(), nil)

	res, err := j.Run(context.Background(), "not-a-go-id\nGO:0009987\t1\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "not-a-go-id") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning about the unrecognized token, got %v", res.Warnings)
	}
}

func TestRunRejectsOversizedNamespace(t *testing.T) {
	g := ontology.NewGraph()
	if err := g.AddTerm(ontology.TermInput{ID: 8150, Namespace: ontology.BiologicalProcess}); err != nil {
		t.Fatalf("AddTerm: %v", err)
	}
	var lines []string
	for i := 1; i <= maxTermsPerNamespace+1; i++ {
		id := int64(8150 + i)
		if err := g.AddTerm(ontology.TermInput{ID: id, Namespace: ontology.BiologicalProcess, IsA: []int64{8150}}); err != nil {
			t.Fatalf("AddTerm(%d): %v", id, err)
		}
		lines = append(lines, fmt.Sprintf("GO:%07d\t1", id))
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	a := annotation.New(9606, "human")
	j := New("t4", g, a, DefaultConfig(), nil)

	_, err := j.Run(context.Background(), strings.Join(lines, "\n"))
	if !rerr.Is(err, rerr.Capacity) {
		t.Fatalf("Run: got %v, want a Capacity error", err)
	}
}

func TestRunNoResolvableTermsIsInputError(t *testing.T) {
	g, a := buildFixture(t)
	j := New("t5", g, a, DefaultConfig(), nil)

	_, err := j.Run(context.Background(), "GO:9999999\t1\n")
	if !rerr.Is(err, rerr.Input) {
		t.Fatalf("Run: got %v, want an Input error", err)
	}
}

func TestRunFiltersNonSignificantPValues(t *testing.T) {
	g, a := buildFixture(t)
	cfg := DefaultConfig()
	cfg.ValueType = PValue
	j := New("t6", g, a, cfg, nil)

	res, err := j.Run(context.Background(), "GO:0009987\t0.9\nGO:0008150\t0.01\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	bp := res.Namespaces[ontology.BiologicalProcess]
	if bp == nil || len(bp.Terms) != 1 || bp.Terms[0].TermID != 8150 {
		t.Fatalf("expected only the significant term retained, got %+v", bp)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "not significant") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a non-significant-count warning, got %v", res.Warnings)
	}
}

func TestPinOverridesRepresentative(t *testing.T) {
	g, a := buildFixture(t)
	j := New("t7", g, a, DefaultConfig(), nil)

	res, err := j.Run(context.Background(), "GO:0009987\t10\nGO:0008150\t10\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	bp := res.Namespaces[ontology.BiologicalProcess]
	var parent *int64
	for _, tm := range bp.Terms {
		if tm.TermID == 8150 {
			id := tm.TermID
			parent = &id
		}
	}
	if parent == nil {
		t.Fatal("parent term missing from result")
	}

	res, err = j.Pin(context.Background(), 8150, true)
	if err != nil {
		t.Fatalf("Pin: %v", err)
	}
	bp = res.Namespaces[ontology.BiologicalProcess]
	for _, tm := range bp.Terms {
		switch tm.TermID {
		case 8150:
			if !tm.Pinned {
				t.Error("pinned term lost its pinned flag")
			}
			if tm.DispensedByID != 0 {
				t.Error("pinned term was dispensed away")
			}
		case 9987:
			if tm.DispensedByID != 8150 {
				t.Errorf("former representative should now be dispensed into the pinned term, got DispensedByID=%d", tm.DispensedByID)
			}
		}
	}
}

func TestRunHonoursTimeout(t *testing.T) {
	g := ontology.NewGraph()
	if err := g.AddTerm(ontology.TermInput{ID: 8150, Namespace: ontology.BiologicalProcess}); err != nil {
		t.Fatalf("AddTerm: %v", err)
	}
	var lines []string
	for i := 1; i <= 500; i++ {
		id := int64(8150 + i)
		if err := g.AddTerm(ontology.TermInput{ID: id, Namespace: ontology.BiologicalProcess, IsA: []int64{8150}}); err != nil {
			t.Fatalf("AddTerm(%d): %v", id, err)
		}
		lines = append(lines, fmt.Sprintf("GO:%07d\t1", id))
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	a := annotation.New(9606, "human")
	cfg := DefaultConfig()
	cfg.Timeout = time.Nanosecond
	j := New("t8", g, a, cfg, nil)

	_, err := j.Run(context.Background(), strings.Join(lines, "\n"))
	if !rerr.Is(err, rerr.State) {
		t.Fatalf("Run: got %v, want a State (cancellation) error", err)
	}
}
