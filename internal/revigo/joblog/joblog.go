// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package joblog provides the bracket-tagged progress logger used by the
// job orchestrator, in the style of smeargol's "[loading ontology]"
// banners.
package joblog

import (
	"fmt"
	"log"
)

// Logger writes bracket-tagged phase banners and warnings for a single
// job, prefixed with the job's ID.
type Logger struct {
	id  string
	out *log.Logger
}

// New returns a Logger that prefixes every message with id.
func New(out *log.Logger, id string) *Logger {
	if out == nil {
		out = log.Default()
	}
	return &Logger{id: id, out: out}
}

// Stage logs the start of a pipeline stage, e.g. "[clustering BP]".
func (l *Logger) Stage(format string, args ...interface{}) {
	l.out.Printf("job %s: [%s]", l.id, fmt.Sprintf(format, args...))
}

// Warn logs a non-fatal, user-visible warning.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.out.Printf("job %s: warning: %s", l.id, fmt.Sprintf(format, args...))
}

// Error logs a fatal error before the job aborts.
func (l *Logger) Error(format string, args ...interface{}) {
	l.out.Printf("job %s: error: %s", l.id, fmt.Sprintf(format, args...))
}
