// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package job

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kortschak/revigo/internal/term"
)

// record is one parsed, not-yet-resolved input line.
type record struct {
	line       int
	goToken    string
	hasValue   bool
	value      float64
	userValues []float64
}

// isFieldSep reports whether r is one of the input format's field
// delimiters (§6 "Input format").
func isFieldSep(r rune) bool {
	return r == ' ' || r == '\t' || r == '|' || r == '\v'
}

// parseInput splits text into records, skipping empty and
// comment-prefixed (`%`, `#`, `!`) lines.
func parseInput(text string) []record {
	var records []record
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		fields := strings.FieldsFunc(line, isFieldSep)
		if len(fields) == 0 {
			continue
		}
		rec := record{line: lineNo, goToken: fields[0]}
		if len(fields) > 1 {
			if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
				rec.value = v
				rec.hasValue = true
			} else {
				rec.value = math.NaN()
				rec.hasValue = true
			}
		}
		for _, f := range fields[2 : min(len(fields), 2+term.MaxUserValues)] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				v = math.NaN()
			}
			rec.userValues = append(rec.userValues, v)
		}
		records = append(records, rec)
	}
	return records
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// parseGOID accepts "GO:NNNNNNN", "GONNNNNNN" or a bare "NNNNNNN" token
// and returns the numeric accession.
func parseGOID(tok string) (int64, bool) {
	s := tok
	switch {
	case strings.HasPrefix(s, "GO:"):
		s = s[len("GO:"):]
	case strings.HasPrefix(s, "GO"):
		s = s[len("GO"):]
	}
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func formatGOID(id int64) string {
	return fmt.Sprintf("GO:%07d", id)
}
