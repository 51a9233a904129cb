// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// revigo summarizes a list of Gene Ontology terms (and optional
// per-term p-values or scores) by clustering semantically similar
// terms, laying the survivors out by multidimensional scaling, and
// emitting a threshold similarity graph, per namespace plus a combined
// "mixed" view.
//
// The ontology and species annotation inputs are JSON documents; parsing
// OBO/OBO-XML and GOA annotation files is treated as an external
// collaborator, out of scope here. The ontology
// document is a JSON object whose Terms field is an array of objects
// with the same fields as internal/ontology.TermInput; the annotation
// document maps formatted GO
// IDs to annotation size and frequency for one species.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kortschak/revigo/internal/annotation"
	"github.com/kortschak/revigo/internal/job"
	"github.com/kortschak/revigo/internal/ontograph"
	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/similarity"
	"github.com/kortschak/revigo/internal/wordstat"
)

func main() {
	var (
		in         = flag.String("in", "", "specify the GO ID/value list input (required)")
		ontopath   = flag.String("ontology", "", "specify the ontology JSON document (required)")
		annopath   = flag.String("annotation", "", "specify the species annotation JSON document (required)")
		outdir     = flag.String("outdir", ".", "directory for graph and summary output")
		cutoff     = flag.Float64("cutoff", 0.7, "dispensability cut-off: nearest of 0.4, 0.5, 0.7, 0.9")
		simName    = flag.String("similarity", "simrel", "similarity measure: simrel, lin, resnik or jiang")
		valName    = flag.String("valuetype", "higher", "value transform: pvalue, higher, lower, higherabsolute or higherabslog2")
		removeObs  = flag.Bool("removeobsolete", false, "drop obsolete GO IDs instead of redirecting them")
		timeout    = flag.Duration("timeout", 0, "job timeout, e.g. 30s (0 disables)")
		debugPlots = flag.Bool("debug", false, "write MDS stress and similarity-distribution plots to outdir")
		help       = flag.Bool("help", false, "print help text")
	)
	flag.Parse()

	if *help {
		flag.Usage()
		fmt.Fprintf(os.Stderr, `
%s summarizes a list of Gene Ontology terms by clustering semantically
similar terms, computing a multidimensional-scaling layout of the
survivors, and writing a threshold similarity graph, per namespace plus
a combined "mixed" view, to outdir.

Copyright ©2020 Dan Kortschak. All rights reserved.

`, filepath.Base(os.Args[0]))
		os.Exit(0)
	}

	if *in == "" || *ontopath == "" || *annopath == "" {
		flag.Usage()
		os.Exit(2)
	}

	onto, err := loadOntology(*ontopath)
	if err != nil {
		log.Fatalf("loading ontology: %v", err)
	}
	anno, err := loadAnnotation(*annopath)
	if err != nil {
		log.Fatalf("loading annotation: %v", err)
	}
	input, err := ioutil.ReadFile(*in)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	simVariant, err := parseSimilarity(*simName)
	if err != nil {
		log.Fatal(err)
	}
	valType, err := parseValueType(*valName)
	if err != nil {
		log.Fatal(err)
	}

	cfg := job.DefaultConfig()
	cfg.CutOff = *cutoff
	cfg.Similarity = simVariant
	cfg.ValueType = valType
	cfg.RemoveObsolete = *removeObs
	cfg.Timeout = *timeout
	cfg.DebugPlots = *debugPlots
	cfg.PlotDir = *outdir

	id := strconv.FormatInt(time.Now().UnixNano(), 36)
	j := job.New(id, onto, anno, cfg, log.Default())

	res, err := j.Run(context.Background(), string(input))
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if err := os.MkdirAll(*outdir, 0o755); err != nil {
		log.Fatalf("creating outdir: %v", err)
	}
	for ns, nsResult := range res.Namespaces {
		if err := writeNamespace(*outdir, ns.String(), nsResult, *debugPlots); err != nil {
			log.Fatalf("writing %s output: %v", ns, err)
		}
	}
	if res.Words != nil {
		path := filepath.Join(*outdir, "word-summary.tsv")
		if err := ioutil.WriteFile(path, []byte(wordstat.FormatTable(res.Words)), 0o644); err != nil {
			log.Fatalf("writing word summary: %v", err)
		}
	}
}

func formatGOID(id int64) string { return fmt.Sprintf("GO:%07d", id) }

func writeNamespace(outdir, name string, nr *job.NamespaceResult, withDOT bool) error {
	tsvPath := filepath.Join(outdir, name+".tsv")
	f, err := os.Create(tsvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintln(f, "term_id\tvalue\tuniqueness\tdispensability\trepresentative\tpc1\tpc2")
	for i, t := range nr.Terms {
		rep := "-"
		if t.DispensedByID != 0 {
			rep = formatGOID(t.DispensedByID)
		}
		fmt.Fprintf(f, "%s\t%v\t%v\t%v\t%s\t%v\t%v\n",
			formatGOID(t.TermID), t.Value, nr.Matrix.Uniqueness(i), t.Dispensability, rep, t.PC[0], t.PC[1])
	}

	jsPath := filepath.Join(outdir, name+".js")
	jsf, err := os.Create(jsPath)
	if err != nil {
		return err
	}
	defer jsf.Close()
	if err := ontograph.WriteJS(jsf, formatGOID, nr.Graph); err != nil {
		return err
	}

	xgmmlPath := filepath.Join(outdir, name+".xgmml")
	xf, err := os.Create(xgmmlPath)
	if err != nil {
		return err
	}
	defer xf.Close()
	if err := ontograph.WriteXGMML(xf, formatGOID, name, nr.Graph); err != nil {
		return err
	}

	if !withDOT {
		return nil
	}
	dot, err := ontograph.MarshalDOT(formatGOID, nr.Graph, name)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(outdir, name+".dot"), dot, 0o644)
}

func parseSimilarity(s string) (similarity.Variant, error) {
	switch strings.ToLower(s) {
	case "simrel", "":
		return similarity.SimRel, nil
	case "lin":
		return similarity.Lin, nil
	case "resnik":
		return similarity.Resnik, nil
	case "jiang":
		return similarity.Jiang, nil
	default:
		return 0, fmt.Errorf("unknown similarity measure %q", s)
	}
}

func parseValueType(s string) (job.ValueType, error) {
	switch strings.ToLower(s) {
	case "pvalue":
		return job.PValue, nil
	case "higher", "":
		return job.Higher, nil
	case "lower":
		return job.Lower, nil
	case "higherabsolute":
		return job.HigherAbsolute, nil
	case "higherabslog2":
		return job.HigherAbsLog2, nil
	default:
		return 0, fmt.Errorf("unknown value type %q", s)
	}
}

// ontologyDoc is the JSON ingestion shape: an object whose Terms field
// holds term inputs matching internal/ontology.TermInput (OBO parsing is an external
// collaborator, out of scope here).
type ontologyDoc struct {
	Terms []ontology.TermInput
}

func loadOntology(path string) (*ontology.Graph, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc ontologyDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	g := ontology.NewGraph()
	for _, in := range doc.Terms {
		if err := g.AddTerm(in); err != nil {
			return nil, err
		}
	}
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return g, nil
}

// annotationDoc is the JSON ingestion shape for one species' annotation
// sizes and frequencies, keyed by formatted GO ID (GOA ingestion is an
// external collaborator, out of scope here).
type annotationDoc struct {
	TaxonID     int64
	Name        string
	Sizes       map[string]int
	Frequencies map[string]float64
}

func loadAnnotation(path string) (*annotation.SpeciesAnnotations, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc annotationDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	a := annotation.New(doc.TaxonID, doc.Name)
	for k, v := range doc.Sizes {
		id, err := parseFormattedGOID(k)
		if err != nil {
			return nil, err
		}
		a.SetSize(id, v)
	}
	for k, v := range doc.Frequencies {
		id, err := parseFormattedGOID(k)
		if err != nil {
			return nil, err
		}
		a.SetFrequency(id, v)
	}
	return a, nil
}

func parseFormattedGOID(s string) (int64, error) {
	s = strings.TrimPrefix(s, "GO:")
	return strconv.ParseInt(s, 10, 64)
}
