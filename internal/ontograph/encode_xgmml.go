// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontograph

import (
	"encoding/xml"
	"io"
)

type xgmmlAtt struct {
	XMLName xml.Name `xml:"att"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Value   string   `xml:"value,attr"`
}

type xgmmlNode struct {
	XMLName xml.Name   `xml:"node"`
	Label   string     `xml:"label,attr"`
	ID      string     `xml:"id,attr"`
	Atts    []xgmmlAtt `xml:"att"`
}

type xgmmlEdge struct {
	XMLName xml.Name   `xml:"edge"`
	Label   string     `xml:"label,attr"`
	Source  string     `xml:"source,attr"`
	Target  string     `xml:"target,attr"`
	Atts    []xgmmlAtt `xml:"att"`
}

type xgmmlGraph struct {
	XMLName xml.Name    `xml:"graph"`
	Label   string      `xml:"label,attr"`
	Xmlns   string      `xml:"xmlns,attr"`
	Nodes   []xgmmlNode `xml:"node"`
	Edges   []xgmmlEdge `xml:"edge"`
}

// WriteXGMML emits g as an XGMML document importable by Cytoscape,
// preserving the exact attribute names mandated by §6.
func WriteXGMML(w io.Writer, formatID func(int64) string, label string, g *Graph) error {
	doc := xgmmlGraph{
		Label: label,
		Xmlns: "http://www.cs.rpi.edu/XGMML",
	}
	for _, n := range g.Nodes {
		id := formatID(n.ID)
		doc.Nodes = append(doc.Nodes, xgmmlNode{
			Label: id,
			ID:    id,
			Atts: []xgmmlAtt{
				{Name: "description", Type: "string", Value: n.Description},
				{Name: "value", Type: "real", Value: realStr(n.Value)},
				{Name: "color", Type: "string", Value: n.Color},
				{Name: "log_size", Type: "real", Value: realStr(n.LogSize)},
				{Name: "LogSize", Type: "real", Value: realStr(n.LogSize)},
				{Name: "PC_1", Type: "real", Value: realStr(n.PC1)},
				{Name: "PC_2", Type: "real", Value: realStr(n.PC2)},
				{Name: "dispensability", Type: "real", Value: realStr(n.Dispensability)},
				{Name: "uniqueness", Type: "real", Value: realStr(n.Uniqueness)},
			},
		})
	}
	for _, e := range g.Edges {
		a, b := formatID(e.A), formatID(e.B)
		doc.Edges = append(doc.Edges, xgmmlEdge{
			Label:  a + " (interacts with) " + b,
			Source: a,
			Target: b,
			Atts: []xgmmlAtt{
				{Name: "similarity", Type: "real", Value: realStr(e.Similarity)},
				{Name: "thickness", Type: "real", Value: realStr(e.Thickness)},
				{Name: "weight", Type: "real", Value: realStr(e.Similarity)},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func realStr(v float64) string {
	return formatFloat(v)
}
