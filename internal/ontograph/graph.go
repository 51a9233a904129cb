// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ontograph builds the threshold-cut similarity graph (component
// C6) from a clustered term set and encodes it as a compact JS object
// literal, an XGMML document for Cytoscape, or (for debugging) DOT.
package ontograph

import (
	"math"
	"sort"

	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/similarity"
	"github.com/kortschak/revigo/internal/term"
)

// Node is one retained term's exported attributes (§6 "Graph output
// formats"), with field names preserved verbatim across both encoders.
type Node struct {
	ID             int64
	Description    string
	Value          float64
	LogSize        float64
	PC1, PC2       float64
	Dispensability float64
	Uniqueness     float64
	Color          string
}

// Edge is a retained pair whose similarity met the threshold cut.
type Edge struct {
	A, B       int64
	Similarity float64
	Thickness  float64
}

// Graph is the threshold-cut export graph for one namespace.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Build selects terms with dispensability <= cutoff or Pinned, cuts
// their pairwise similarities at the percentile p (§4.6), and
// post-processes node colors and edge thicknesses.
func Build(onto *ontology.Graph, matrix *similarity.Matrix, cutoff, p float64) *Graph {
	terms := matrix.Terms()
	var sel []int
	for i, t := range terms {
		if t.Pinned || t.Dispensability <= cutoff {
			sel = append(sel, i)
		}
	}

	type scoredPair struct {
		a, b int
		sim  float64
	}
	pairs := make([]scoredPair, 0, len(sel)*(len(sel)-1)/2)
	for x := 0; x < len(sel); x++ {
		for y := x + 1; y < len(sel); y++ {
			sim := matrix.At(sel[x], sel[y])
			pairs = append(pairs, scoredPair{sel[x], sel[y], sim})
		}
	}

	sorted := make([]float64, len(pairs))
	for i, pr := range pairs {
		sorted[i] = pr.sim
	}
	sort.Float64s(sorted)

	var tau float64
	hasCut := false
	if len(sorted) > 0 {
		idx := int(math.Floor(float64(len(sorted))*p)) - 1
		if idx < 0 {
			idx = 0
		}
		tau = sorted[idx]
		hasCut = true
	}

	g := &Graph{}
	for _, i := range sel {
		t := terms[i]
		g.Nodes = append(g.Nodes, nodeFor(onto, t))
	}

	if hasCut {
		var simMin, simMax float64
		first := true
		for _, pr := range pairs {
			if pr.sim >= tau {
				if first || pr.sim < simMin {
					simMin = pr.sim
				}
				if first || pr.sim > simMax {
					simMax = pr.sim
				}
				first = false
			}
		}
		for _, pr := range pairs {
			if pr.sim < tau {
				continue
			}
			g.Edges = append(g.Edges, Edge{
				A:          terms[pr.a].TermID,
				B:          terms[pr.b].TermID,
				Similarity: pr.sim,
				Thickness:  thicknessFor(pr.sim, simMin, simMax),
			})
		}
	}

	colorize(g.Nodes)
	return g
}

func nodeFor(onto *ontology.Graph, t *term.RevigoTerm) Node {
	desc := ""
	if ot, ok := onto.Term(t.TermID); ok {
		desc = ot.Description
		if desc == "" {
			desc = ot.Name
		}
	}
	value := t.TransformedValue
	if math.IsNaN(value) {
		value = 0
	}
	logSize := t.LogAnnotationSize
	if math.IsNaN(logSize) {
		logSize = 0
	}
	return Node{
		ID:             t.TermID,
		Description:    desc,
		Value:          value,
		LogSize:        logSize,
		PC1:            t.PC[0],
		PC2:            t.PC[1],
		Dispensability: t.Dispensability,
		Uniqueness:     t.Uniqueness,
	}
}

// thicknessFor rescales a similarity within [min,max] into the 1..5
// edge-thickness range (§4.6 step 5).
func thicknessFor(sim, min, max float64) float64 {
	if max <= min {
		return 1
	}
	frac := (sim - min) / (max - min)
	return 1 + 4*frac
}

// colorize fills each node's Color from its Value, ramping to pure red
// (#ff0000) at the most negative value and pure green (#00ff00) at the
// most positive, white at zero (§4.6 step 5).
func colorize(nodes []Node) {
	if len(nodes) == 0 {
		return
	}
	min, max := nodes[0].Value, nodes[0].Value
	for _, n := range nodes {
		if n.Value < min {
			min = n.Value
		}
		if n.Value > max {
			max = n.Value
		}
	}
	for i := range nodes {
		nodes[i].Color = colorFor(nodes[i].Value, min, max)
	}
}

func colorFor(v, min, max float64) string {
	if v < 0 {
		frac := 0.0
		if min != 0 {
			frac = v / min
		}
		c := ramp(1 - frac)
		return "#ff" + c + c
	}
	frac := 0.0
	if max != 0 {
		frac = v / max
	}
	c := ramp(1 - frac)
	return "#" + c + "ff" + c
}

func ramp(frac float64) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	v := byte(math.Round(255 * frac))
	const hex = "0123456789abcdef"
	return string([]byte{hex[v>>4], hex[v&0xf]})
}
