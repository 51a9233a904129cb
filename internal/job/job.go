// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package job implements the orchestrator (component C7): it parses a
// raw GO ID/value list, resolves it against an ontology, partitions it
// by namespace, and runs the C3-C6 pipeline (similarity, clustering,
// MDS layout, threshold graph) over each namespace plus a synthetic
// "Mixed" union namespace, with pin-and-recompute support.
package job

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/kortschak/revigo/internal/annotation"
	"github.com/kortschak/revigo/internal/cluster"
	"github.com/kortschak/revigo/internal/layout"
	"github.com/kortschak/revigo/internal/ontograph"
	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/revigo/debugplot"
	"github.com/kortschak/revigo/internal/revigo/joblog"
	"github.com/kortschak/revigo/internal/revigo/rerr"
	"github.com/kortschak/revigo/internal/similarity"
	"github.com/kortschak/revigo/internal/term"
	"github.com/kortschak/revigo/internal/wordstat"
)

// NamespaceResult holds the outcome of running the C3-C6 pipeline over
// one namespace's retained (and dispensed) terms.
type NamespaceResult struct {
	Namespace ontology.Namespace
	Terms     []*term.RevigoTerm
	Matrix    *similarity.Matrix
	Layout2D  *layout.Result
	Layout3D  *layout.Result
	Graph     *ontograph.Graph
}

// Result is the outcome of a full job run.
type Result struct {
	Namespaces map[ontology.Namespace]*NamespaceResult
	Warnings   []string
	Words      *wordstat.Summary
}

// Job is a single orchestrator run: a resolved term set bound to an
// ontology and species annotation, ready to be (re-)clustered and
// pinned.
type Job struct {
	ID     string
	Config Config

	onto *ontology.Graph
	anno *annotation.SpeciesAnnotations
	log  *joblog.Logger

	// byNamespace holds each namespace's own *term.RevigoTerm objects;
	// termIndex indexes the same objects by ID for pin lookups.
	byNamespace map[ontology.Namespace][]*term.RevigoTerm
	termIndex   map[int64]*term.RevigoTerm
	namespaceOf map[int64]ontology.Namespace

	// mixedTerms/mixedIndex hold independent clones used for the Mixed
	// namespace, so that per-namespace dispensability/PC results do not
	// clobber each other through a shared RevigoTerm (§4.7 "Mixed
	// namespace").
	mixedTerms []*term.RevigoTerm
	mixedIndex map[int64]*term.RevigoTerm

	result *Result
}

// New returns a Job bound to onto and anno, logging stage banners and
// warnings to out (nil selects log.Default()).
func New(id string, onto *ontology.Graph, anno *annotation.SpeciesAnnotations, cfg Config, out *log.Logger) *Job {
	cfg.CutOff = QuantizeCutOff(cfg.CutOff)
	return &Job{
		ID:     id,
		Config: cfg,
		onto:   onto,
		anno:   anno,
		log:    joblog.New(out, id),
	}
}

// Run parses text, resolves it against the ontology, and runs the full
// pipeline. A returned *rerr.Error with Fatal true means the job
// produced no usable result; non-fatal problems are recorded in
// Result.Warnings instead.
func (j *Job) Run(ctx context.Context, text string) (*Result, error) {
	if j.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Config.Timeout)
		defer cancel()
	}

	j.log.Stage("parsing input")
	records := parseInput(text)

	terms, warnings, err := j.resolveTerms(records)
	if err != nil {
		return nil, err
	}

	byNamespace := make(map[ontology.Namespace][]*term.RevigoTerm)
	namespaceOf := make(map[int64]ontology.Namespace)
	termIndex := make(map[int64]*term.RevigoTerm)
	total := 0
	for _, t := range terms {
		ot, ok := j.onto.Term(t.TermID)
		if !ok {
			continue
		}
		ns := ot.Namespace
		byNamespace[ns] = append(byNamespace[ns], t)
		namespaceOf[t.TermID] = ns
		termIndex[t.TermID] = t
		total++
	}
	if total == 0 {
		return nil, rerr.Wrap(rerr.Input, true, "no input terms resolved against the ontology", rerr.ErrNoResults)
	}
	for ns, nsTerms := range byNamespace {
		if len(nsTerms) > maxTermsPerNamespace {
			return nil, rerr.Wrap(rerr.Capacity, true,
				fmt.Sprintf("namespace %s has %d terms, exceeding the %d-term limit", ns, len(nsTerms), maxTermsPerNamespace),
				rerr.ErrTooManyTerms)
		}
	}

	j.byNamespace = byNamespace
	j.namespaceOf = namespaceOf
	j.termIndex = termIndex

	result := &Result{
		Namespaces: make(map[ontology.Namespace]*NamespaceResult),
		Warnings:   warnings,
	}
	j.result = result

	order := []ontology.Namespace{ontology.BiologicalProcess, ontology.CellularComponent, ontology.MolecularFunction}
	var allResolved []*term.RevigoTerm
	for _, ns := range order {
		nsTerms := byNamespace[ns]
		if len(nsTerms) == 0 {
			continue
		}
		allResolved = append(allResolved, nsTerms...)
		nsResult, err := j.runNamespace(ctx, ns, nsTerms)
		if err != nil {
			return result, err
		}
		result.Namespaces[ns] = nsResult
	}

	if len(allResolved) > 0 {
		j.mixedTerms = cloneTerms(allResolved)
		j.mixedIndex = make(map[int64]*term.RevigoTerm, len(j.mixedTerms))
		for _, t := range j.mixedTerms {
			j.mixedIndex[t.TermID] = t
		}
		mixedResult, err := j.runNamespace(ctx, ontology.Mixed, j.mixedTerms)
		if err != nil {
			return result, err
		}
		result.Namespaces[ontology.Mixed] = mixedResult
	}

	result.Words = wordstat.Summarize(j.onto, allResolved, j.Config.Corpus)

	return result, nil
}

// runNamespace runs the C3 (similarity), C4 (clustering), C5 (2D/3D
// layout) and C6 (threshold graph) stages over terms, in that order.
func (j *Job) runNamespace(ctx context.Context, ns ontology.Namespace, terms []*term.RevigoTerm) (*NamespaceResult, error) {
	j.log.Stage("building similarity matrix (%s)", ns)
	matrix := similarity.Build(j.onto, j.anno, terms, j.Config.Similarity)
	for i, t := range matrix.Terms() {
		t.Uniqueness = matrix.Uniqueness(i)
	}

	j.log.Stage("clustering (%s)", ns)
	err := cluster.Run(ctx, j.onto, matrix, matrix.Terms(), j.Config.clusterSeed(), j.Config.ClusterOptions, nil)
	if err != nil {
		return nil, err
	}

	layoutOpts := j.Config.LayoutOptions
	layoutOpts.RecordHistory = j.Config.DebugPlots

	j.log.Stage("computing 2D layout (%s)", ns)
	layout2D, err := layout.Run(ctx, matrix, j.Config.CutOff, 2, layoutOpts)
	if err != nil {
		return nil, err
	}

	j.log.Stage("computing 3D layout (%s)", ns)
	layout3D, err := layout.Run(ctx, matrix, j.Config.CutOff, 3, layoutOpts)
	if err != nil {
		return nil, err
	}

	if j.Config.DebugPlots {
		name := fmt.Sprintf("%s-%s", j.ID, ns)
		if err := debugplot.StressCurve(j.Config.plotDir(), name+"-stress", layout2D.History); err != nil {
			j.log.Warn("stress plot for %s: %v", ns, err)
		}
		if err := debugplot.SimilarityHistogram(j.Config.plotDir(), name+"-similarity", matrix); err != nil {
			j.log.Warn("similarity histogram for %s: %v", ns, err)
		}
	}

	j.log.Stage("building threshold graph (%s)", ns)
	graph := ontograph.Build(j.onto, matrix, j.Config.CutOff, j.Config.percentile())

	return &NamespaceResult{
		Namespace: ns,
		Terms:     matrix.Terms(),
		Matrix:    matrix,
		Layout2D:  layout2D,
		Layout3D:  layout3D,
		Graph:     graph,
	}, nil
}

// resolveTerms turns parsed records into deduplicated RevigoTerm
// values, classifying each GO ID token and applying the configured
// value transform. Unrecognizable, unresolvable and duplicate GO IDs
// become warnings and the record is dropped; a value outside the
// configured transform's domain is returned as a fatal error.
func (j *Job) resolveTerms(records []record) ([]*term.RevigoTerm, []string, error) {
	var warnings []string
	var dropped int
	seen := make(map[int64]bool)
	var out []*term.RevigoTerm

	for _, rec := range records {
		id, ok := parseGOID(rec.goToken)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: %q is not a recognizable GO ID", rec.line, rec.goToken))
			continue
		}

		resolvedID, note := j.classifyID(id)
		if note != "" {
			warnings = append(warnings, fmt.Sprintf("line %d: %s", rec.line, note))
		}
		if resolvedID == 0 {
			if note == "" {
				warnings = append(warnings, fmt.Sprintf("line %d: %s is absent from the ontology", rec.line, formatGOID(id)))
			}
			continue
		}
		if seen[resolvedID] {
			warnings = append(warnings, fmt.Sprintf("line %d: duplicate of %s, ignored", rec.line, formatGOID(resolvedID)))
			continue
		}

		tr, err := applyTransform(j.Config.ValueType, rec.hasValue, rec.value, rec.line)
		if err != nil {
			return nil, nil, err
		}
		if tr.drop {
			dropped++
			continue
		}
		seen[resolvedID] = true

		size := j.anno.GetSize(j.onto, resolvedID)
		freq := j.anno.GetFrequency(j.onto, resolvedID)
		out = append(out, &term.RevigoTerm{
			TermID:              resolvedID,
			Value:               tr.value,
			TransformedValue:    tr.transformed,
			AnnotationSize:      size,
			LogAnnotationSize:   math.Log10(float64(max(1, size)) + 1),
			AnnotationFrequency: freq,
			UserValues:          rec.userValues,
		})
	}

	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d term(s) dropped as not significant (p > %.2g)", dropped, pValueSignificance))
	}
	sort.Sort(term.ByTermID(out))
	return out, warnings, nil
}

// classifyID resolves id against the ontology, distinguishing a direct
// hit from an obsolete redirect or an alternate-ID rewrite (§4.7
// "Warnings"). It returns (0, "") when id cannot be resolved at all,
// and (0, note) when id is obsolete and RemoveObsolete is set.
func (j *Job) classifyID(id int64) (int64, string) {
	raw, hasRaw := j.onto.RawTerm(id)
	canon, ok := j.onto.Term(id)
	if !ok {
		return 0, ""
	}
	switch {
	case hasRaw && raw.ID == canon.ID:
		return canon.ID, ""
	case hasRaw && raw.Obsolete:
		if j.Config.RemoveObsolete {
			return 0, fmt.Sprintf("%s is obsolete, removed", formatGOID(id))
		}
		return canon.ID, fmt.Sprintf("%s is obsolete, replaced by %s", formatGOID(id), formatGOID(canon.ID))
	default:
		return canon.ID, fmt.Sprintf("%s is an alternate ID, rewritten to %s", formatGOID(id), formatGOID(canon.ID))
	}
}

// cloneTerms returns independent copies of terms, used to seed the
// Mixed namespace's own clustering/layout run.
func cloneTerms(terms []*term.RevigoTerm) []*term.RevigoTerm {
	out := make([]*term.RevigoTerm, len(terms))
	for i, t := range terms {
		cp := *t
		cp.Dispensability = 0
		cp.Uniqueness = 0
		cp.DispensedByID = 0
		cp.PC = [2]float64{}
		cp.PC3 = [3]float64{}
		out[i] = &cp
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
