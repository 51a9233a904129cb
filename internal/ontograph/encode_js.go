// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontograph

import (
	"fmt"
	"io"
	"strconv"
)

// WriteJS emits the compact JS object literal used by the in-browser
// renderer: a "revigo_nodes" map keyed by formatted GO ID and a
// "revigo_edges" array, using the exact attribute names from §6.
func WriteJS(w io.Writer, formatID func(int64) string, g *Graph) error {
	if _, err := io.WriteString(w, "var revigo_nodes = {\n"); err != nil {
		return err
	}
	for i, n := range g.Nodes {
		sep := ",\n"
		if i == len(g.Nodes)-1 {
			sep = "\n"
		}
		_, err := fmt.Fprintf(w, "  %q: {description: %q, value: %s, color: %q, log_size: %s, LogSize: %s, PC_1: %s, PC_2: %s, dispensability: %s, uniqueness: %s}%s",
			formatID(n.ID), n.Description,
			formatFloat(n.Value), n.Color,
			formatFloat(n.LogSize), formatFloat(n.LogSize),
			formatFloat(n.PC1), formatFloat(n.PC2),
			formatFloat(n.Dispensability), formatFloat(n.Uniqueness),
			sep)
		if err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "};\n\nvar revigo_edges = [\n"); err != nil {
		return err
	}
	for i, e := range g.Edges {
		sep := ",\n"
		if i == len(g.Edges)-1 {
			sep = "\n"
		}
		_, err := fmt.Fprintf(w, "  {a: %q, b: %q, similarity: %s, thickness: %s, weight: %s}%s",
			formatID(e.A), formatID(e.B),
			formatFloat(e.Similarity), formatFloat(e.Thickness), formatFloat(e.Similarity),
			sep)
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "];\n")
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
