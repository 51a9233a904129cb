// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontograph

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/iterator"
)

// MarshalDOT renders g as a DOT document, a debug export supplementing
// the JS and XGMML graph formats.
func MarshalDOT(formatID func(int64) string, g *Graph, name string) ([]byte, error) {
	return dot.Marshal(newDotGraph(formatID, g), name, "", "\t")
}

type dotGraph struct {
	nodes map[int64]*dotNode
	order []int64
	adj   map[int64]map[int64]*dotEdge
}

func newDotGraph(formatID func(int64) string, g *Graph) *dotGraph {
	dg := &dotGraph{
		nodes: make(map[int64]*dotNode, len(g.Nodes)),
		adj:   make(map[int64]map[int64]*dotEdge, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		dg.nodes[n.ID] = &dotNode{id: n.ID, label: fmt.Sprintf("%s\n%.3f", formatID(n.ID), n.Dispensability)}
		dg.order = append(dg.order, n.ID)
		dg.adj[n.ID] = make(map[int64]*dotEdge)
	}
	for _, e := range g.Edges {
		edge := &dotEdge{
			from:  dg.nodes[e.A],
			to:    dg.nodes[e.B],
			label: fmt.Sprintf("%.3f", e.Similarity),
		}
		dg.adj[e.A][e.B] = edge
		dg.adj[e.B][e.A] = edge
	}
	return dg
}

func (g *dotGraph) Node(id int64) graph.Node {
	return g.nodes[id]
}

func (g *dotGraph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *dotGraph) From(id int64) graph.Nodes {
	neigh, ok := g.adj[id]
	if !ok {
		return graph.Empty
	}
	nodes := make([]graph.Node, 0, len(neigh))
	for other := range neigh {
		nodes = append(nodes, g.nodes[other])
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *dotGraph) HasEdgeBetween(xid, yid int64) bool {
	_, ok := g.adj[xid][yid]
	return ok
}

func (g *dotGraph) Edge(uid, vid int64) graph.Edge {
	return g.adj[uid][vid]
}

type dotNode struct {
	id    int64
	label string
}

func (n *dotNode) ID() int64      { return n.id }
func (n *dotNode) DOTID() string  { return fmt.Sprintf("n%d", n.id) }
func (n *dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: n.label}}
}

type dotEdge struct {
	from, to *dotNode
	label    string
}

func (e *dotEdge) From() graph.Node         { return e.from }
func (e *dotEdge) To() graph.Node           { return e.to }
func (e *dotEdge) ReversedEdge() graph.Edge { return &dotEdge{from: e.to, to: e.from, label: e.label} }
func (e *dotEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: e.label}}
}
