// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import "regexp"

// CPU2000 column layout.
var (
	nameCol2000 = span{0, 15}
	baseCol2000 = span{35, 45}
	peakCol2000 = span{65, 75}
)

const colonCol2000 = 20

var table2000 = tableLayout{
	banner:       "   ========================================================================",
	noncompliant: []string{"SPEC has determined that this result was not in"},
	aggregate:    regexp.MustCompile(`^   (SPEC.{24})    `),
	name:         nameCol2000,
	base:         baseCol2000,
	peak:         peakCol2000,
	families: map[string]Family{
		"SPECint_base2000": CINT2000,
		"SPECfp_base2000":  CFP2000,
	},
	rate: []string{"_rate_"},
}

var props2000 = propLayout{
	colon: colonCol2000,
	skip:  []string{"HARDWARE", "SOFTWARE", "--------"},
	stop:  "NOTES",
}

var testerLine2000 = regexp.MustCompile(`Tester: (.*?) *Software availability`)

var layout2000 = reportLayout{header: header2000, table: &table2000, props: &props2000}

// header2000 reads the availability date and tester that follow the
// report title.
func header2000(s *Scanner) (*titleBlock, error) {
	if _, err := s.NextLine(); err != nil {
		return nil, err
	}
	m, err := s.ScanUntil(hwAvailLine)
	if err != nil {
		return nil, err
	}
	b := &titleBlock{hwAvail: m[0]}
	if m, err = s.ScanUntil(testerLine2000); err != nil {
		return nil, err
	}
	b.tester = m[0]
	return b, nil
}

// CPU2000 parses SPEC CPU2000 reports.
type CPU2000 struct{}

func (CPU2000) Folder() string { return "cint2000" }

func (CPU2000) Parse(doc Document) (*Report, error) {
	p, r, err := layout2000.parse(doc)
	if p == nil {
		return r, err
	}
	g := p.getter()
	rec := &TestRecord{
		Tester:       p.title.tester,
		Machine:      g.get("Model Name"),
		CPU:          g.get("CPU"),
		HWAvail:      p.title.hwAvail,
		OS:           g.get("Operating System"),
		Compiler:     g.get("Compiler"),
		AutoParallel: "No",
	}
	return finishMHz(p, g, rec, "CPU MHz")
}
