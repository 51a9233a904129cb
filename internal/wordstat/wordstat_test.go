// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wordstat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/diff"
	"github.com/pkg/diff/write"

	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/term"
)

func buildFixture(t *testing.T) (*ontology.Graph, []*term.RevigoTerm) {
	t.Helper()
	g := ontology.NewGraph()
	ins := []ontology.TermInput{
		{ID: 1, Namespace: ontology.BiologicalProcess, Keywords: map[string]bool{"alpha": true}},
		{ID: 2, Namespace: ontology.BiologicalProcess, Keywords: map[string]bool{"alpha": true, "beta": true}},
		{ID: 3, Namespace: ontology.BiologicalProcess, Keywords: map[string]bool{"beta": true}},
		{ID: 4, Namespace: ontology.BiologicalProcess, Keywords: map[string]bool{"gamma": true}},
	}
	for _, in := range ins {
		if err := g.AddTerm(in); err != nil {
			t.Fatalf("AddTerm(%d): %v", in.ID, err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	terms := []*term.RevigoTerm{
		{TermID: 1, TransformedValue: 10},
		{TermID: 2, TransformedValue: 8},
		{TermID: 3, TransformedValue: 4},
		{TermID: 4, TransformedValue: 1},
	}
	return g, terms
}

// TestFormatTableDeterministic guards the word-correlation shuffle's
// reproducibility contract (§9): the same input, summarized and
// formatted independently, must produce byte-identical tables, even
// though wordTermCount/wordPresence are built from Go maps and
// correlation ties are broken by a Mersenne-Twister shuffle rather
// than sorted order.
func TestFormatTableDeterministic(t *testing.T) {
	onto, terms1 := buildFixture(t)
	_, terms2 := buildFixture(t)

	got := FormatTable(Summarize(onto, terms1, nil))
	want := FormatTable(Summarize(onto, terms2, nil))

	if got != want {
		var buf bytes.Buffer
		if err := diff.Text("got", "want", got, want, &buf, write.TerminalColor()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Errorf("word summary table not reproducible:\n%s", &buf)
	}
}

func TestFormatTableOrdersDistinctCorrelations(t *testing.T) {
	onto, terms := buildFixture(t)
	table := FormatTable(Summarize(onto, terms, nil))

	i := strings.Index(table, "word\tcorrelation\n")
	if i < 0 {
		t.Fatalf("expected a correlation table header, got:\n%s", table)
	}
	corrTable := table[i:]

	alpha := strings.Index(corrTable, "alpha\t")
	beta := strings.Index(corrTable, "beta\t0\n")
	gamma := strings.Index(corrTable, "gamma\t-")
	if alpha < 0 || beta < 0 || gamma < 0 {
		t.Fatalf("expected all three words in the correlation table, got:\n%s", corrTable)
	}
	if !(alpha < beta && beta < gamma) {
		t.Errorf("expected correlation order alpha > beta > gamma, got table:\n%s", corrTable)
	}
}
