// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/kortschak/revigo/internal/revigo/rerr"
)

// node is a minimal graph.Node wrapping a term ID, in the style of
// gogo.Graph's use of multi.Node to avoid requiring Term itself to
// implement the gonum graph interfaces.
type node int64

func (n node) ID() int64 { return int64(n) }

// Graph is a Gene Ontology term DAG. It implements graph.Directed over
// the is_a/part_of parentage edges (an edge runs from child to parent),
// so From(id) yields a term's direct parents and To(id) yields its
// direct children.
//
// A Graph is built once via AddTerm/Finalize and is immutable and safe
// for concurrent read-only use afterwards (§3 "Ontology" lifecycle).
type Graph struct {
	terms map[int64]*Term // canonical ID -> term
	alias map[int64]int64 // any known ID (including canonical) -> canonical ID
	order []int64         // canonical IDs in insertion order

	finalized bool
}

// NewGraph returns a new, empty Graph ready for AddTerm calls.
func NewGraph() *Graph {
	return &Graph{
		terms: make(map[int64]*Term),
		alias: make(map[int64]int64),
	}
}

// AddTerm adds a term to the graph being built. It must be called before
// Finalize. It returns an OntologyMalformed error if the term lacks an
// ID or namespace.
func (g *Graph) AddTerm(in TermInput) error {
	if g.finalized {
		panic("ontology: AddTerm called after Finalize")
	}
	if in.ID == 0 {
		return rerr.Wrap(rerr.Input, true, "term missing ID", rerr.ErrOntologyMalformed)
	}
	if in.Namespace == NamespaceUnknown && !in.Obsolete {
		return rerr.Wrap(rerr.Input, true, fmt.Sprintf("term %d missing namespace", in.ID), rerr.ErrOntologyMalformed)
	}
	if _, exists := g.terms[in.ID]; exists {
		return rerr.Wrap(rerr.Input, true, fmt.Sprintf("duplicate term ID %d", in.ID), rerr.ErrOntologyMalformed)
	}

	parents := make([]int64, 0, len(in.IsA)+len(in.PartOf))
	parents = append(parents, in.IsA...)
	parents = append(parents, in.PartOf...)

	t := &Term{
		ID:          in.ID,
		Formatted:   in.Formatted,
		Namespace:   in.Namespace,
		Name:        in.Name,
		Description: in.Description,
		Comment:     in.Comment,
		AltIDs:      in.AltIDs,
		AltNames:    in.AltNames,
		Obsolete:    in.Obsolete,
		ReplacedBy:  in.ReplacedBy,
		Consider:    in.Consider,
		ParentIDs:   parents,
		ChildIDs:    append([]int64(nil), in.HasPart...),
		Keywords:    in.Keywords,
	}
	g.terms[in.ID] = t
	g.alias[in.ID] = in.ID
	g.order = append(g.order, in.ID)

	for _, alt := range in.AltIDs {
		g.alias[alt] = in.ID
	}

	return nil
}

// Finalize completes the graph: it links inverse child edges, resolves
// obsolete-term aliasing, computes cached ancestor sets and root IDs,
// and validates that every parent ID and every obsolete term's first
// replacement ID resolves. Consider IDs and has_part child IDs are not
// validated. After Finalize succeeds the graph is immutable.
func (g *Graph) Finalize() error {
	if g.finalized {
		return nil
	}

	// Inverse is_a/part_of edges: for every parent p of t, t is a child
	// of p.
	for _, id := range g.order {
		t := g.terms[id]
		for _, pid := range t.ParentIDs {
			p, ok := g.terms[g.resolveNoAlias(pid)]
			if !ok {
				return rerr.Wrap(rerr.Input, true, fmt.Sprintf("term %d references unknown parent %d", t.ID, pid), rerr.ErrOntologyMalformed)
			}
			p.ChildIDs = append(p.ChildIDs, t.ID)
		}
	}

	// Obsolete redirection: an obsolete term with at least one
	// replacement is aliased to the first replacement. Validate the
	// replacement resolves.
	for _, id := range g.order {
		t := g.terms[id]
		if !t.Obsolete || len(t.ReplacedBy) == 0 {
			continue
		}
		target := t.ReplacedBy[0]
		if _, ok := g.terms[target]; !ok {
			return rerr.Wrap(rerr.Input, true, fmt.Sprintf("obsolete term %d replacement %d does not resolve", t.ID, target), rerr.ErrOntologyMalformed)
		}
		g.alias[t.ID] = target
	}

	// Validate that all parent references resolve.
	for _, id := range g.order {
		t := g.terms[id]
		for _, pid := range t.ParentIDs {
			if _, ok := g.terms[g.resolveNoAlias(pid)]; !ok {
				return rerr.Wrap(rerr.Input, true, fmt.Sprintf("term %d references unknown parent %d", t.ID, pid), rerr.ErrOntologyMalformed)
			}
		}
	}

	g.finalized = true

	if err := g.computeAncestors(); err != nil {
		return err
	}
	g.computeRoots()

	return nil
}

// resolveNoAlias resolves id to its canonical ID if known, otherwise
// returns id unchanged (used during Finalize before validation
// completes).
func (g *Graph) resolveNoAlias(id int64) int64 {
	if canon, ok := g.alias[id]; ok {
		return canon
	}
	return id
}

// computeAncestors fills in t.ancestors for every term by processing
// terms in reverse topological order of the child->parent (From) edges,
// so that every parent's ancestor set is complete before a child's is
// computed (§9 "Ancestor caching").
func (g *Graph) computeAncestors() error {
	sorted, err := topo.Sort(g)
	if err != nil {
		// A cycle in is_a/part_of edges is malformed input; fall back
		// to insertion order, which still terminates via the visited
		// guard in ancestorsOf.
		sorted = nil
	}

	var order []int64
	if sorted != nil {
		order = make([]int64, len(sorted))
		for i, n := range sorted {
			order[i] = n.ID()
		}
	} else {
		order = append([]int64(nil), g.order...)
	}

	// sorted lists children before parents (edges run child->parent);
	// reverse it so parents are processed first.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	done := make(map[int64]bool, len(order))
	for _, id := range order {
		g.ancestorsOf(id, done, make(map[int64]bool))
	}
	return nil
}

// ancestorsOf computes and memoizes the ancestor set for id, guarding
// against cycles with the visiting set.
func (g *Graph) ancestorsOf(id int64, done, visiting map[int64]bool) map[int64]bool {
	t := g.terms[id]
	if t.ancestors != nil {
		return t.ancestors
	}
	if visiting[id] {
		// Cycle guard: treat as no further ancestors.
		return map[int64]bool{}
	}
	visiting[id] = true

	anc := make(map[int64]bool)
	for _, pid := range t.ParentIDs {
		pid = g.resolveNoAlias(pid)
		anc[pid] = true
		for a := range g.ancestorsOf(pid, done, visiting) {
			anc[a] = true
		}
	}
	t.ancestors = anc
	done[id] = true
	delete(visiting, id)
	return anc
}

// computeRoots fills in t.rootID for every term by walking the first
// parent repeatedly until none remain.
func (g *Graph) computeRoots() {
	for _, id := range g.order {
		t := g.terms[id]
		cur := t
		seen := map[int64]bool{cur.ID: true}
		for len(cur.ParentIDs) > 0 {
			next := g.terms[g.resolveNoAlias(cur.ParentIDs[0])]
			if next == nil || seen[next.ID] {
				break
			}
			seen[next.ID] = true
			cur = next
		}
		t.rootID = cur.ID
		t.hasRoot = true
	}
}

// graph.Directed implementation, used by graph/topo.

func (g *Graph) Node(id int64) graph.Node {
	canon := g.alias[id]
	if _, ok := g.terms[canon]; !ok {
		return nil
	}
	return node(canon)
}

func (g *Graph) Nodes() graph.Nodes {
	if len(g.terms) == 0 {
		return graph.Empty
	}
	nodes := make(map[int64]graph.Node, len(g.terms))
	for id := range g.terms {
		nodes[id] = node(id)
	}
	return iterator.NewNodes(nodes)
}

// From returns the direct parents of id (the child->parent edge
// direction).
func (g *Graph) From(id int64) graph.Nodes {
	t, ok := g.terms[g.alias[id]]
	if !ok || len(t.ParentIDs) == 0 {
		return graph.Empty
	}
	nodes := make(map[int64]graph.Node, len(t.ParentIDs))
	for _, pid := range t.ParentIDs {
		pid = g.resolveNoAlias(pid)
		nodes[pid] = node(pid)
	}
	return iterator.NewNodes(nodes)
}

// To returns the direct children of id.
func (g *Graph) To(id int64) graph.Nodes {
	t, ok := g.terms[g.alias[id]]
	if !ok || len(t.ChildIDs) == 0 {
		return graph.Empty
	}
	nodes := make(map[int64]graph.Node, len(t.ChildIDs))
	for _, cid := range t.ChildIDs {
		cid = g.resolveNoAlias(cid)
		nodes[cid] = node(cid)
	}
	return iterator.NewNodes(nodes)
}

func (g *Graph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

func (g *Graph) HasEdgeFromTo(uid, vid int64) bool {
	t, ok := g.terms[g.alias[uid]]
	if !ok {
		return false
	}
	v := g.alias[vid]
	for _, pid := range t.ParentIDs {
		if g.resolveNoAlias(pid) == v {
			return true
		}
	}
	return false
}

func (g *Graph) Edge(uid, vid int64) graph.Edge {
	if !g.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simpleEdge{f: node(g.alias[uid]), t: node(g.alias[vid])}
}

type simpleEdge struct{ f, t node }

func (e simpleEdge) From() graph.Node         { return e.f }
func (e simpleEdge) To() graph.Node           { return e.t }
func (e simpleEdge) ReversedEdge() graph.Edge { return simpleEdge{f: e.t, t: e.f} }
