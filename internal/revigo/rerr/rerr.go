// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rerr defines the error taxonomy shared across the REVIGO core
// packages: Input, Capacity, State, Numeric and Internal classes, as
// described in the job orchestrator's error handling design.
package rerr

import "errors"

// Class identifies which tier of the taxonomy an error belongs to, so a
// caller can decide whether to show it to a user or only to a developer.
type Class int

const (
	// Input covers per-record parse failures: bad GO IDs, malformed
	// numeric fields, out-of-range p-values.
	Input Class = iota
	// Capacity covers per-namespace size limits.
	Capacity
	// State covers cancellation and timeout.
	State
	// Numeric covers MDS convergence and degenerate term sets.
	Numeric
	// Internal covers programmer errors: uninitialized ontology, missing
	// similarity matrix entries.
	Internal
)

func (c Class) String() string {
	switch c {
	case Input:
		return "Input"
	case Capacity:
		return "Capacity"
	case State:
		return "State"
	case Numeric:
		return "Numeric"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is a classified, optionally-fatal error. Fatal errors abort the
// whole job; non-fatal ones are recorded as warnings and processing
// continues.
type Error struct {
	Class   Class
	Fatal   bool
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Class.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Class.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a new classified error.
func New(class Class, fatal bool, message string) *Error {
	return &Error{Class: class, Fatal: fatal, Message: message}
}

// Wrap returns a new classified error wrapping err.
func Wrap(class Class, fatal bool, message string, err error) *Error {
	return &Error{Class: class, Fatal: fatal, Message: message, Err: err}
}

// Sentinel errors for common, identity-comparable conditions.
var (
	// ErrOntologyMalformed is returned when the ontology fails to build
	// because of a missing ID/namespace, or when an obsolete term's
	// replacement cannot be resolved.
	ErrOntologyMalformed = errors.New("rerr: ontology malformed")

	// ErrCancelled is returned when a job's cancellation token has been
	// signalled, whether by explicit request or timeout.
	ErrCancelled = errors.New("rerr: did not finish in a timely fashion")

	// ErrNoResults is returned when every namespace produced zero
	// retained terms.
	ErrNoResults = errors.New("rerr: zero results in every namespace")

	// ErrTooManyTerms is returned when a namespace exceeds the 2000-term
	// capacity limit.
	ErrTooManyTerms = errors.New("rerr: extremely large list")

	// ErrOntologyNotInitialized guards use of a Graph before Finalize.
	ErrOntologyNotInitialized = errors.New("rerr: ontology not initialized")

	// ErrSimilarityMatrixMissing guards use of an unbuilt similarity
	// matrix.
	ErrSimilarityMatrixMissing = errors.New("rerr: similarity matrix missing")
)

// Is reports whether err is classified as class. It understands both
// *Error values and the taxonomy's bare sentinel errors.
func Is(err error, class Class) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Class == class
	}
	switch class {
	case State:
		return errors.Is(err, ErrCancelled)
	case Capacity:
		return errors.Is(err, ErrTooManyTerms)
	case Internal:
		return errors.Is(err, ErrOntologyNotInitialized) || errors.Is(err, ErrSimilarityMatrixMissing)
	case Input:
		return errors.Is(err, ErrOntologyMalformed) || errors.Is(err, ErrNoResults)
	}
	return false
}
