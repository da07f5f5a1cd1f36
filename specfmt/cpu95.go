// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"fmt"
	"regexp"
	"time"

	"github.com/cpuhist/cpuhist/frequnit"
)

// CPU95 column layout.
var (
	nameCol95 = span{0, 15}
	baseCol95 = span{35, 45}
	peakCol95 = span{65, 75}
)

const colonCol95 = 19

var table95 = tableLayout{
	banner:       "   ------------  --------  --------  --------  --------  --------  --------",
	noncompliant: []string{"SPEC has determined that this result was not in"},
	aggregate:    regexp.MustCompile(`^   (SPEC.{32}) `),
	name:         nameCol95,
	base:         baseCol95,
	peak:         peakCol95,
	families: map[string]Family{
		"SPECint_base95 (Geom. Mean)": CINT95,
		"SPECfp_base95 (Geom. Mean)":  CFP95,
	},
	rate: []string{"_rate"},
}

var props95 = propLayout{
	colon: colonCol95,
	skip:  []string{"HARDWARE", "SOFTWARE", "TESTER INFORMATION", "------------------", "--------"},
	stop:  "NOTES",
}

// CPU95 parses SPEC CPU95 reports (".asc" files).
//
// CPU95 reports carry no clock frequency property; it is recovered
// from the CPU name. Some reports also omit the hardware availability
// date and tester, which are then taken from Companion.
type CPU95 struct {
	// Companion supplies hardware availability and tester for
	// reports whose text lacks them. If nil, such reports fail.
	Companion Companion
}

func (*CPU95) Folder() string { return "cint95" }

var layout95 = reportLayout{table: &table95, props: &props95}

func (d *CPU95) Parse(doc Document) (*Report, error) {
	p, r, err := layout95.parse(doc)
	if p == nil {
		return r, err
	}

	g := p.getter()
	rec := &TestRecord{
		Machine:      g.get("Model Name"),
		CPU:          g.get("CPU"),
		OS:           g.get("Operating System"),
		Compiler:     g.get("Compiler"),
		AutoParallel: "No",
	}
	if g.p.has("Hardware Avail") {
		rec.HWAvail = g.get("Hardware Avail")
		rec.Tester = g.get("Tested By")
	} else if g.err == nil {
		if d.Companion == nil {
			return nil, doc.wrap(&PropertyError{Label: "Hardware Avail", Msg: "not in report and no companion"})
		}
		c, err := d.Companion.Lookup(doc)
		if err != nil {
			return nil, doc.wrap(err)
		}
		rec.HWAvail, rec.Tester = c.HWAvail, c.Tester
	}
	if g.err != nil {
		return nil, doc.wrap(g.err)
	}

	var ok bool
	if rec.MHz, ok = frequnit.FromName(rec.CPU); !ok {
		return nil, doc.wrap(&PropertyError{Label: "CPU", Msg: fmt.Sprintf("no clock frequency in %q", rec.CPU)})
	}
	rec.HWAvail = canonicalMonth(rec.HWAvail)
	return p.report(rec), nil
}

// canonicalMonth rewrites a "Mon-YY" date as "Mon-YYYY". Values in
// any other form are returned unchanged.
func canonicalMonth(s string) string {
	t, err := time.Parse("Jan-06", s)
	if err != nil {
		return s
	}
	return t.Format("Jan-2006")
}
