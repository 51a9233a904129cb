// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package job

import (
	"fmt"
	"math"

	"github.com/kortschak/revigo/internal/revigo/rerr"
)

// ValueType selects the per-term value transform (§4.7 "Transforms").
type ValueType int

const (
	PValue ValueType = iota
	Higher
	Lower
	HigherAbsolute
	HigherAbsLog2
)

func (v ValueType) String() string {
	switch v {
	case PValue:
		return "PValue"
	case Higher:
		return "Higher"
	case Lower:
		return "Lower"
	case HigherAbsolute:
		return "HigherAbsolute"
	case HigherAbsLog2:
		return "HigherAbsLog2"
	default:
		return "Unknown"
	}
}

// pValueFloor is the minimum p-value accepted before taking its log, to
// avoid -Inf for exact zeroes.
const pValueFloor = 1e-300

// pValueSignificance is the raw-value ceiling above which a PValue
// term is silently dropped as not significant (§4.7).
const pValueSignificance = 0.5

// transformResult is the outcome of applying a value-type transform to
// one record's raw value.
type transformResult struct {
	value       float64
	transformed float64
	// drop is true when the term should be silently filtered (non-
	// significant p-value), not an error.
	drop bool
}

// applyTransform implements §4.7's per-value-type rules. It returns a
// fatal *rerr.Error for out-of-domain inputs.
func applyTransform(vt ValueType, hasValue bool, raw float64, line int) (transformResult, error) {
	if !hasValue {
		return transformResult{value: math.NaN(), transformed: math.NaN()}, nil
	}
	switch vt {
	case PValue:
		if raw < 0 || raw > 1 {
			return transformResult{}, rerr.New(rerr.Input, true, fmt.Sprintf("line %d: p-value %v out of range [0,1]", line, raw))
		}
		if raw > pValueSignificance {
			return transformResult{drop: true}, nil
		}
		v := raw
		if v < pValueFloor {
			v = pValueFloor
		}
		logv := math.Log10(v)
		return transformResult{value: logv, transformed: -logv}, nil
	case Higher:
		return transformResult{value: raw, transformed: raw}, nil
	case Lower:
		return transformResult{value: raw, transformed: -raw}, nil
	case HigherAbsolute:
		return transformResult{value: raw, transformed: math.Abs(raw)}, nil
	case HigherAbsLog2:
		if raw <= 0 {
			return transformResult{}, rerr.New(rerr.Input, true, fmt.Sprintf("line %d: non-positive value %v for log2 transform", line, raw))
		}
		v := math.Log2(raw)
		return transformResult{value: v, transformed: math.Abs(v)}, nil
	default:
		return transformResult{value: raw, transformed: raw}, nil
	}
}
