// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ontology implements the Gene Ontology term DAG: a
// polyhierarchical graph of is_a/part_of parentage with obsolete-term
// redirection, cached ancestor sets and root determination (component
// C1 of the pipeline).
package ontology

// Namespace tags the primary aspect a term belongs to.
type Namespace int

const (
	// NamespaceUnknown marks a term whose namespace has not been set;
	// AddTerm rejects non-obsolete terms left in this state.
	NamespaceUnknown Namespace = iota
	BiologicalProcess
	MolecularFunction
	CellularComponent
	// Mixed is used by the job orchestrator to tag the synthetic
	// namespace formed by the union of the other three, not by any
	// individual term.
	Mixed
)

func (n Namespace) String() string {
	switch n {
	case BiologicalProcess:
		return "biological_process"
	case MolecularFunction:
		return "molecular_function"
	case CellularComponent:
		return "cellular_component"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Term is a single Gene Ontology term, owned by the Ontology that
// created it. Parent and child references are stored as IDs, not
// pointers, so that the Ontology's ID→term map is the sole owner of the
// graph's connectivity (see §9 "Ownership graph vs. back-references").
type Term struct {
	ID        int64
	Formatted string // e.g. "GO:0008150"
	Namespace Namespace

	Name        string
	Description string
	Comment     string

	AltIDs   []int64
	AltNames []string

	Obsolete   bool
	ReplacedBy []int64
	Consider   []int64

	// ParentIDs is the union of is_a and part_of parents, is_a first.
	ParentIDs []int64
	// ChildIDs is the union of inverse is_a/part_of children and direct
	// has_part children.
	ChildIDs []int64

	// Keywords is extracted from Name/Description/AltNames (§6); it is
	// populated by the caller building the ontology (word-corpus
	// enrichment is an external collaborator) and is read-only here.
	Keywords map[string]bool

	// ancestors and rootID are filled in by Graph.Finalize.
	ancestors map[int64]bool
	rootID    int64
	hasRoot   bool
}

// TermInput is the data needed to add one term to a Graph being built.
// IsA and PartOf are direct parent references; HasPart is the direct
// (non-inverted) has_part child list.
type TermInput struct {
	ID        int64
	Formatted string
	Namespace Namespace

	Name        string
	Description string
	Comment     string

	AltIDs   []int64
	AltNames []string

	Obsolete   bool
	ReplacedBy []int64
	Consider   []int64

	IsA     []int64
	PartOf  []int64
	HasPart []int64

	Keywords map[string]bool
}

// Ancestors returns the cached transitive ancestor set computed at
// Finalize. The returned map must not be mutated.
func (t *Term) Ancestors() map[int64]bool { return t.ancestors }

// RootID returns the cached root ID computed at Finalize, and whether a
// root was found (it is always found for a well-formed, non-obsolete
// term once Finalize has succeeded).
func (t *Term) RootID() (int64, bool) { return t.rootID, t.hasRoot }
