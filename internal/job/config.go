// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package job

import (
	"time"

	"github.com/kortschak/revigo/internal/cluster"
	"github.com/kortschak/revigo/internal/layout"
	"github.com/kortschak/revigo/internal/similarity"
	"github.com/kortschak/revigo/internal/wordstat"
)

// CutOffLevels are the four accepted cut-off values (§4.4 "CutOff
// levels"); a configured CutOff is snapped to the nearest of these.
var CutOffLevels = [...]float64{0.4, 0.5, 0.7, 0.9}

// QuantizeCutOff snaps v to the nearest entry in CutOffLevels.
func QuantizeCutOff(v float64) float64 {
	best := CutOffLevels[0]
	bestDist := abs(v - best)
	for _, c := range CutOffLevels[1:] {
		if d := abs(v - c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// maxTermsPerNamespace is the fatal capacity limit of §4.7 "Namespace
// partition".
const maxTermsPerNamespace = 2000

// thresholdGraphPercentile is the default edge-retention percentile used
// to build each namespace's threshold graph (§4.6).
const thresholdGraphPercentile = 0.30

// Config selects a job's behaviour. It is populated by the caller: this
// package is library-first, not a CLI-first design.
type Config struct {
	// CutOff is snapped to the nearest of CutOffLevels by New.
	CutOff float64
	// Similarity chooses the term-pair similarity formula (§4.3).
	Similarity similarity.Variant
	// ValueType chooses the input value transform (§4.7).
	ValueType ValueType
	// RemoveObsolete drops obsolete GO IDs instead of redirecting them
	// to their replacement.
	RemoveObsolete bool
	// RequestOrigin is an opaque caller-supplied tag. Nothing in this
	// package reads it: it is not logged and has no effect on computation.
	RequestOrigin string
	// Timeout bounds the whole job; zero means no timeout (§4.4/§9
	// "Non-termination guard").
	Timeout time.Duration

	// ClusterSeed is the Mersenne Twister seed for C4's bucket
	// tie-break; zero selects cluster.DefaultSeed.
	ClusterSeed int64
	ClusterOptions cluster.Options
	LayoutOptions  layout.Options

	// Percentile is the threshold-graph edge-retention percentile
	// (§4.6); zero selects thresholdGraphPercentile.
	Percentile float64

	// DebugPlots enables the optional gonum/plot debug artifacts (§10
	// "Debug plotting"): an MDS stress curve and a similarity-value
	// histogram, written under PlotDir.
	DebugPlots bool
	// PlotDir is where debug plots are written when DebugPlots is set;
	// empty selects "plots".
	PlotDir string

	// Corpus is the optional background word corpus for the word
	// enrichment/correlation summaries (§4.7 "Word summaries"). A nil
	// Corpus still produces a correlation summary but an enrichment
	// summary with zero species frequencies.
	Corpus wordstat.WordCorpus
}

// DefaultConfig returns the default SimRel/0.7/Higher configuration.
func DefaultConfig() Config {
	return Config{
		CutOff:         0.7,
		Similarity:     similarity.SimRel,
		ValueType:      Higher,
		ClusterSeed:    cluster.DefaultSeed,
		ClusterOptions: cluster.DefaultOptions(),
		Percentile:     thresholdGraphPercentile,
	}
}

func (c Config) clusterSeed() int64 {
	if c.ClusterSeed == 0 {
		return cluster.DefaultSeed
	}
	return c.ClusterSeed
}

func (c Config) percentile() float64 {
	if c.Percentile == 0 {
		return thresholdGraphPercentile
	}
	return c.Percentile
}

func (c Config) plotDir() string {
	if c.PlotDir == "" {
		return "plots"
	}
	return c.PlotDir
}
