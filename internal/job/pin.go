// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package job

import (
	"context"
	"fmt"

	"github.com/kortschak/revigo/internal/ontology"
	"github.com/kortschak/revigo/internal/revigo/rerr"
)

// Pin toggles the pinned state of the term identified by id and
// recomputes its namespace plus the Mixed union, reusing the job's
// original seed so the recomputation is deterministic (§4.4 "Pin &
// recompute"). Run must have completed successfully before Pin is
// called.
func (j *Job) Pin(ctx context.Context, id int64, pinned bool) (*Result, error) {
	if j.result == nil {
		return nil, rerr.New(rerr.Internal, true, "Pin called before a successful Run")
	}
	t, ok := j.termIndex[id]
	if !ok {
		return nil, rerr.New(rerr.Input, true, fmt.Sprintf("%s is not part of this job's term set", formatGOID(id)))
	}

	prevRepID := t.DispensedByID
	t.Pinned = pinned
	if mt, ok := j.mixedIndex[id]; ok {
		mt.Pinned = pinned
	}
	if pinned && prevRepID != 0 {
		if rep, ok := j.termIndex[prevRepID]; ok {
			rep.Pinned = false
		}
		if mrep, ok := j.mixedIndex[prevRepID]; ok {
			mrep.Pinned = false
		}
	}

	ns := j.namespaceOf[id]
	nsResult, err := j.runNamespace(ctx, ns, j.byNamespace[ns])
	if err != nil {
		return j.result, err
	}
	j.result.Namespaces[ns] = nsResult

	if j.mixedTerms != nil {
		mixedResult, err := j.runNamespace(ctx, ontology.Mixed, j.mixedTerms)
		if err != nil {
			return j.result, err
		}
		j.result.Namespaces[ontology.Mixed] = mixedResult
	}

	return j.result, nil
}
