// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"regexp"
	"strings"
)

// CPU2017 column layout. Benchmark names are one column wider than in
// older reports and the peak score is right-aligned at column 78.
var (
	nameCol2017 = span{0, 16}
	baseCol2017 = span{35, 45}
	peakCol2017 = span{67, 78}
)

const (
	colonCol2017 = 20
	// rowWidth2017 is the width of every score row, excluding the
	// line terminator.
	rowWidth2017 = 81
)

var table2017 = tableLayout{
	banner:       strings.Repeat("=", 78),
	noncompliant: []string{"SPEC(R) has determined that this result does not"},
	aggregate:    regexp.MustCompile(`^ (SPEC.{27})  `),
	name:         nameCol2017,
	base:         baseCol2017,
	peak:         peakCol2017,
	rowWidth:     rowWidth2017,
	families: map[string]Family{
		"SPECspeed(R)2017_int_base": CINT2017,
		"SPECspeed2017_int_base":    CINT2017,
		"SPECspeed2017_int_peak":    CINT2017,
	},
	rate: []string{"_rate_", "SPECrate"},
}

var props2017 = propLayout{
	colon:     colonCol2017,
	skip:      []string{"HARDWARE", "SOFTWARE", "--------"},
	stop:      "Submit Notes",
	stripDots: true,
}

var layout2017 = reportLayout{header: readTitleBlock, table: &table2017, props: &props2017}

// CPU2017 parses SPEC CPU2017 speed reports.
//
// Score rows are checked strictly: a row of the wrong width or without
// numeric base and peak scores excludes the whole report as
// Malformed.
type CPU2017 struct{}

func (CPU2017) Folder() string { return "cint2017" }

func (CPU2017) Parse(doc Document) (*Report, error) {
	p, r, err := layout2017.parse(doc)
	if p == nil {
		return r, err
	}
	g := p.getter()
	rec := &TestRecord{
		Tester:       p.title.tester,
		Machine:      p.title.machine,
		CPU:          g.get("CPU Name"),
		HWAvail:      p.title.hwAvail,
		OS:           g.get("OS"),
		Compiler:     g.get("Compiler"),
		AutoParallel: g.get("Parallel"),
	}
	return finishMHz(p, g, rec, "Nominal")
}
