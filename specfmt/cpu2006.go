// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"regexp"
	"strings"
)

// CPU2006 column layout. The base score sits two columns further
// left than in the other dialects.
var (
	nameCol2006 = span{0, 15}
	baseCol2006 = span{33, 43}
	peakCol2006 = span{65, 75}
)

const colonCol2006 = 20

var table2006 = tableLayout{
	banner: strings.Repeat("=", 78),
	noncompliant: []string{
		"SPEC has determined that this result was not in",
		"SPEC has determined that this result is not in",
	},
	aggregate: regexp.MustCompile(`^ (SPEC.{27})  `),
	name:      nameCol2006,
	base:      baseCol2006,
	peak:      peakCol2006,
	families: map[string]Family{
		"SPECint(R)_base2006": CINT2006,
		"SPECfp(R)_base2006":  CFP2006,
	},
	rate: []string{"_rate_"},
}

var props2006 = propLayout{
	colon: colonCol2006,
	skip:  []string{"HARDWARE", "SOFTWARE", "--------"},
	stop:  "Submit Notes",
}

var layout2006 = reportLayout{header: readTitleBlock, table: &table2006, props: &props2006}

// CPU2006 parses SPEC CPU2006 reports.
type CPU2006 struct{}

func (CPU2006) Folder() string { return "cint2006" }

func (CPU2006) Parse(doc Document) (*Report, error) {
	p, r, err := layout2006.parse(doc)
	if p == nil {
		return r, err
	}
	g := p.getter()
	rec := &TestRecord{
		Tester:       p.title.tester,
		Machine:      p.title.machine,
		CPU:          g.get("CPU Name"),
		HWAvail:      p.title.hwAvail,
		OS:           g.get("Operating System"),
		Compiler:     g.get("Compiler"),
		AutoParallel: g.get("Auto Parallel"),
	}
	return finishMHz(p, g, rec, "CPU MHz")
}
