// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import "github.com/kortschak/revigo/internal/revigo/rerr"

// Term resolves id (which may be a primary ID, an alternate ID, or an
// obsolete ID with a replacement) to its canonical Term.
func (g *Graph) Term(id int64) (*Term, bool) {
	if !g.finalized {
		return nil, false
	}
	canon, ok := g.alias[id]
	if !ok {
		return nil, false
	}
	t, ok := g.terms[canon]
	return t, ok
}

// RawTerm returns the term record originally registered under id,
// before alias resolution. It differs from Term when id is an
// alternate ID (no entry of its own) or an obsolete ID redirected to a
// replacement (an entry of its own, with Obsolete set) — callers use
// this distinction to classify input rewrites (§4.7 "Warnings").
func (g *Graph) RawTerm(id int64) (*Term, bool) {
	t, ok := g.terms[id]
	return t, ok
}

// IsChildOf reports whether b is an ancestor of a, i.e. a is
// (transitively) a child of b.
func (g *Graph) IsChildOf(a, b int64) bool {
	ta, ok := g.Term(a)
	if !ok {
		return false
	}
	tb, ok := g.Term(b)
	if !ok {
		return false
	}
	return ta.ancestors[tb.ID]
}

// CommonAncestors returns the intersection of the ancestor sets of a and
// b.
func (g *Graph) CommonAncestors(a, b int64) map[int64]bool {
	ta, ok := g.Term(a)
	if !ok {
		return nil
	}
	tb, ok := g.Term(b)
	if !ok {
		return nil
	}
	small, big := ta.ancestors, tb.ancestors
	if len(small) > len(big) {
		small, big = big, small
	}
	out := make(map[int64]bool)
	for id := range small {
		if big[id] {
			out[id] = true
		}
	}
	return out
}

// Siblings returns the children of any parent of t, minus t itself.
func (g *Graph) Siblings(id int64) map[int64]bool {
	t, ok := g.Term(id)
	if !ok {
		return nil
	}
	out := make(map[int64]bool)
	for _, pid := range t.ParentIDs {
		p, ok := g.Term(pid)
		if !ok {
			continue
		}
		for _, cid := range p.ChildIDs {
			c, ok := g.Term(cid)
			if !ok {
				continue
			}
			if c.ID != t.ID {
				out[c.ID] = true
			}
		}
	}
	return out
}

// Root returns the cached root ID for t.
func (g *Graph) Root(id int64) (int64, bool) {
	t, ok := g.Term(id)
	if !ok {
		return 0, false
	}
	return t.RootID()
}

// Children returns the direct children of t.
func (g *Graph) Children(id int64) []int64 {
	t, ok := g.Term(id)
	if !ok {
		return nil
	}
	return t.ChildIDs
}

// Parents returns the direct parents of t.
func (g *Graph) Parents(id int64) []int64 {
	t, ok := g.Term(id)
	if !ok {
		return nil
	}
	return t.ParentIDs
}

// IsRoot reports whether t has no parents.
func (g *Graph) IsRoot(id int64) bool {
	t, ok := g.Term(id)
	if !ok {
		return false
	}
	return len(t.ParentIDs) == 0
}

// Len returns the number of canonical terms in the ontology.
func (g *Graph) Len() int { return len(g.terms) }

// checkInitialized returns ErrOntologyNotInitialized if Finalize has not
// been called successfully.
func (g *Graph) checkInitialized() error {
	if !g.finalized {
		return rerr.Wrap(rerr.Internal, true, "ontology used before Finalize", rerr.ErrOntologyNotInitialized)
	}
	return nil
}

// Validate returns an error if the ontology has not been finalized.
func (g *Graph) Validate() error { return g.checkInitialized() }
