// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wordstat computes the job orchestrator's tail-end word
// summaries (§4.7 "Word summaries"): per-job keyword enrichment against
// a species-wide corpus, and rank correlation between keyword
// occurrence and each term's transformed value. Corpus loading itself
// is an external collaborator, represented here by the WordCorpus
// interface.
package wordstat

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/revigo/internal/mtrand"
	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/term"
)

// TopN bounds the length of each summary list.
const TopN = 10

// shuffleSeed is the fixed Mersenne Twister seed mandated for the
// word-correlation shuffle (§9 "Random number generator"), distinct
// from cluster.DefaultSeed.
const shuffleSeed = 26012021

// WordCorpus supplies the background frequency of a keyword across the
// whole species' annotation corpus, normalized to [0,1]. Building this
// corpus (tokenizing descriptions, counting across all annotated
// terms) is an external collaborator; only the statistics over it are
// implemented here.
type WordCorpus interface {
	SpeciesFrequency(word string) float64
}

// EnrichmentEntry is one keyword's over-representation in the job's
// term set relative to the species corpus.
type EnrichmentEntry struct {
	Word             string
	TermFrequency    float64
	SpeciesFrequency float64
	Ratio            float64
}

// CorrelationEntry is one keyword's rank correlation between presence
// and transformed value across the job's terms.
type CorrelationEntry struct {
	Word        string
	Correlation float64
}

// Summary holds both top-N word lists for a job.
type Summary struct {
	Enrichment  []EnrichmentEntry
	Correlation []CorrelationEntry
}

// Summarize computes enrichment and correlation lists for terms, using
// onto to resolve each term's extracted keyword set (§6). corpus may be
// nil, in which case SpeciesFrequency is treated as 0 for every word.
// Whenever a word's species frequency is 0, its Ratio is its term
// frequency.
func Summarize(onto *ontology.Graph, terms []*term.RevigoTerm, corpus WordCorpus) *Summary {
	wordTermCount := make(map[string]int)
	wordPresence := make(map[string][]float64)
	n := len(terms)
	for i, t := range terms {
		ot, ok := onto.Term(t.TermID)
		if !ok {
			continue
		}
		for word, present := range ot.Keywords {
			if !present {
				continue
			}
			wordTermCount[word]++
			if wordPresence[word] == nil {
				wordPresence[word] = make([]float64, n)
			}
			wordPresence[word][i] = 1
		}
	}

	var enrichment []EnrichmentEntry
	for word, count := range wordTermCount {
		termFreq := float64(count) / float64(n)
		speciesFreq := 0.0
		if corpus != nil {
			speciesFreq = corpus.SpeciesFrequency(word)
		}
		ratio := termFreq
		if speciesFreq > 0 {
			ratio = termFreq / speciesFreq
		}
		enrichment = append(enrichment, EnrichmentEntry{
			Word:             word,
			TermFrequency:    termFreq,
			SpeciesFrequency: speciesFreq,
			Ratio:            ratio,
		})
	}
	sort.Slice(enrichment, func(i, j int) bool {
		if enrichment[i].Ratio != enrichment[j].Ratio {
			return enrichment[i].Ratio > enrichment[j].Ratio
		}
		return enrichment[i].Word < enrichment[j].Word
	})
	if len(enrichment) > TopN {
		enrichment = enrichment[:TopN]
	}

	values := make([]float64, n)
	for i, t := range terms {
		values[i] = t.TransformedValue
	}
	valueRank := rank(values)

	var correlation []CorrelationEntry
	for word, presence := range wordPresence {
		if count := wordTermCount[word]; count == 0 || count == n {
			// No variance in presence: correlation is undefined.
			continue
		}
		presenceRank := rank(presence)
		c := stat.Correlation(presenceRank, valueRank, nil)
		correlation = append(correlation, CorrelationEntry{Word: word, Correlation: c})
	}
	// Shuffle with the fixed word-correlation seed before a stable sort,
	// so that words tied on correlation land in a reproducible but
	// non-alphabetic order (§9 "Random number generator").
	rng := rand.New(mtrand.NewSource(shuffleSeed))
	rng.Shuffle(len(correlation), func(i, j int) {
		correlation[i], correlation[j] = correlation[j], correlation[i]
	})
	sort.SliceStable(correlation, func(i, j int) bool {
		return correlation[i].Correlation > correlation[j].Correlation
	})
	if len(correlation) > TopN {
		correlation = correlation[:TopN]
	}

	return &Summary{Enrichment: enrichment, Correlation: correlation}
}

// rank assigns fractional (tie-averaged) ranks to xs, the basis of the
// Spearman rank correlation used for word/value correlation.
func rank(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	ranks := make([]float64, len(xs))
	i := 0
	for i < len(idx) {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// FormatTable renders s as the tab-separated enrichment and correlation
// tables written alongside a namespace's other job output.
func FormatTable(s *Summary) string {
	var b strings.Builder
	fmt.Fprintln(&b, "word\tterm_frequency\tspecies_frequency\tratio")
	for _, e := range s.Enrichment {
		fmt.Fprintf(&b, "%s\t%v\t%v\t%v\n", e.Word, e.TermFrequency, e.SpeciesFrequency, e.Ratio)
	}
	fmt.Fprintln(&b, "word\tcorrelation")
	for _, c := range s.Correlation {
		fmt.Fprintf(&b, "%s\t%v\n", c.Word, c.Correlation)
	}
	return b.String()
}
