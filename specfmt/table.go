// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"regexp"
	"strconv"
	"strings"
)

// A tableLayout describes where a dialect's score table starts and
// which columns hold its fields.
type tableLayout struct {
	// banner is the prefix of the rule line that opens the table.
	banner string
	// noncompliant phrases disqualify the result if they appear
	// before the banner.
	noncompliant []string

	// aggregate matches the row that closes the table. Group 1 is
	// the benchmark family label.
	aggregate *regexp.Regexp

	name, base, peak span

	// rowWidth, if nonzero, is the exact width every score row must
	// have. Such rows must also carry numeric base and peak scores.
	rowWidth int

	families map[string]Family
	// rate lists substrings that mark a family label as a rate
	// result.
	rate []string
}

// notices records whether a disqualification notice has been read.
type notices struct {
	phrases []string
	seen    bool
}

func (n *notices) observe(line string) {
	for _, phrase := range n.phrases {
		if strings.Contains(line, phrase) {
			n.seen = true
		}
	}
}

// seekTable consumes lines through banner. It stops early and reports
// true once n has seen a disqualification notice.
func seekTable(s *Scanner, banner string, n *notices) (disqualified bool, err error) {
	for !n.seen {
		line, err := s.NextLine()
		if err != nil {
			return false, err
		}
		if strings.HasPrefix(line, banner) {
			return n.seen, nil
		}
	}
	return true, nil
}

// A scoreTable is the content of a report's score table.
type scoreTable struct {
	benches    []BenchRecord
	family     Family
	base, peak string
}

// readTable reads score rows up to and including the aggregate row
// and the line after it, which carries the aggregate peak score.
//
// A table whose rows fail l's structural check yields Malformed and a
// rate result yields Rate; both return a nil table.
func readTable(s *Scanner, id string, l *tableLayout) (*scoreTable, Exclusion, error) {
	t := new(scoreTable)
	var label string
	for {
		line, err := s.NextLine()
		if err != nil {
			return nil, NotExcluded, err
		}
		if m := l.aggregate.FindStringSubmatch(line); m != nil {
			label = strings.TrimSpace(m[1])
			t.base = field(line, l.base)
			break
		}
		name := field(line, l.name)
		base, peak := field(line, l.base), field(line, l.peak)
		if l.rowWidth != 0 && !l.validRow(line, base, peak) {
			return nil, Malformed, nil
		}
		if isPlaceholder(name) {
			continue
		}
		t.benches = append(t.benches, BenchRecord{ID: id, Name: name, Base: base, Peak: peak})
	}

	for _, marker := range l.rate {
		if strings.Contains(label, marker) {
			return nil, Rate, nil
		}
	}
	fam, ok := l.families[label]
	if !ok {
		return nil, NotExcluded, &FamilyError{label}
	}
	t.family = fam

	// The aggregate peak score is printed on its own line.
	line, err := s.NextLine()
	if err != nil && err != ErrEndOfInput {
		return nil, NotExcluded, err
	}
	t.peak = field(line, l.peak)
	return t, NotExcluded, nil
}

func (l *tableLayout) validRow(line, base, peak string) bool {
	if width(line) != l.rowWidth || base == "" || peak == "" {
		return false
	}
	if _, err := strconv.ParseFloat(base, 64); err != nil {
		return false
	}
	_, err := strconv.ParseFloat(peak, 64)
	return err == nil
}

// isPlaceholder reports whether a row name is blank or a rule.
func isPlaceholder(name string) bool {
	return strings.Trim(name, "=-") == ""
}
