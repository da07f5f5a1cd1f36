// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/cpuhist/cpuhist/frequnit"
)

// A Document is one report to be parsed.
type Document struct {
	// ID identifies the report in the record streams.
	ID string
	// Name is the document's path. It is used in error messages and
	// to locate companion documents.
	Name string
	Body io.Reader
}

// NewDocument returns a Document read from body whose ID is the base
// name of name without its extension.
func NewDocument(name string, body io.Reader) Document {
	base := filepath.Base(name)
	return Document{
		ID:   strings.TrimSuffix(base, filepath.Ext(base)),
		Name: name,
		Body: body,
	}
}

func (doc Document) wrap(err error) *DocumentError {
	return &DocumentError{FileName: doc.Name, Err: err}
}

// A Dialect parses reports in one layout.
//
// Parse returns a Report for every document it recognizes, including
// excluded ones. All errors it returns are *DocumentError values that
// concern only doc.
type Dialect interface {
	// Folder returns the source category this dialect's reports
	// are filed under, such as "cint2006".
	Folder() string

	Parse(doc Document) (*Report, error)
}

var (
	_ Dialect = (*CPU95)(nil)
	_ Dialect = CPU2000{}
	_ Dialect = CPU2006{}
	_ Dialect = CPU2017{}
)

// Dialects returns the supported dialects keyed by folder. companion
// is used by CPU95 for reports that lack tester information; it may
// be nil.
func Dialects(companion Companion) map[string]Dialect {
	ds := []Dialect{&CPU95{Companion: companion}, CPU2000{}, CPU2006{}, CPU2017{}}
	m := make(map[string]Dialect, len(ds))
	for _, d := range ds {
		m[d.Folder()] = d
	}
	return m
}

// A getter looks up required properties, remembering the first one
// that was missing.
type getter struct {
	p   properties
	err error
}

func (g *getter) get(label string) string {
	if g.err != nil {
		return ""
	}
	v, err := g.p.get(label)
	if err != nil {
		g.err = err
	}
	return v
}

// A reportLayout lists the sections of a dialect's reports in order.
type reportLayout struct {
	// header reads the lines before the score table. It may be nil.
	header func(*Scanner) (*titleBlock, error)
	table  *tableLayout
	props  *propLayout
}

// A parsedReport holds the sections read by reportLayout.parse.
type parsedReport struct {
	doc   Document
	title *titleBlock
	table *scoreTable
	block *ordereddict.Dict
}

// parse runs the steps shared by every dialect: header, disqualification
// check, score table and property block. If doc is excluded it returns
// a nil parsedReport and the excluded Report.
func (rl *reportLayout) parse(doc Document) (*parsedReport, *Report, error) {
	s := NewScanner(doc.Body, doc.Name)
	n := &notices{phrases: rl.table.noncompliant}
	s.Watch(n.observe)
	p := &parsedReport{doc: doc}
	if rl.header != nil {
		title, err := rl.header(s)
		switch {
		case err == errPlaceholder:
			return nil, excluded(doc.Name, Placeholder), nil
		case n.seen:
			return nil, excluded(doc.Name, Disqualified), nil
		case err != nil:
			return nil, nil, s.wrap(err)
		}
		p.title = title
	}
	disqualified, err := seekTable(s, rl.table.banner, n)
	if err != nil {
		return nil, nil, s.wrap(err)
	}
	if disqualified {
		return nil, excluded(doc.Name, Disqualified), nil
	}
	s.Watch(nil)

	t, why, err := readTable(s, doc.ID, rl.table)
	if err != nil {
		return nil, nil, s.wrap(err)
	}
	if why != NotExcluded {
		return nil, excluded(doc.Name, why), nil
	}
	p.table = t
	if p.block, err = readProperties(s, rl.props); err != nil {
		return nil, nil, s.wrap(err)
	}
	return p, nil, nil
}

// getter returns a getter over p's property block.
func (p *parsedReport) getter() *getter {
	return &getter{p: properties{p.block}}
}

// report builds the accepted Report for rec, filling in the fields
// that come from the score table.
func (p *parsedReport) report(rec *TestRecord) *Report {
	rec.ID = p.doc.ID
	rec.Family = p.table.family
	rec.Base = p.table.base
	rec.Peak = p.table.peak
	return &Report{Test: rec, Benches: p.table.benches, Properties: p.block, fileName: p.doc.Name}
}

// finishMHz reads rec's clock frequency from the property labeled
// label and completes the report.
func finishMHz(p *parsedReport, g *getter, rec *TestRecord, label string) (*Report, error) {
	mhz := g.get(label)
	if g.err != nil {
		return nil, p.doc.wrap(g.err)
	}
	v, err := frequnit.Parse(mhz)
	if err != nil {
		return nil, p.doc.wrap(&PropertyError{Label: label, Msg: err.Error()})
	}
	rec.MHz = v
	return p.report(rec), nil
}

// errPlaceholder is returned by header readers for withdrawn results.
var errPlaceholder = errors.New("placeholder page")

// placeholderMarker fills the first line of a withdrawn result page.
const placeholderMarker = "######################"

// A titleBlock is the header of CPU2006 and CPU2017 reports.
type titleBlock struct {
	machine, hwAvail, tester string
}

var (
	hwAvailLine  = regexp.MustCompile(`Hardware availability: (.*)`)
	testedByLine = regexp.MustCompile(`Tested by:    (.*?) *Software availability`)
)

// readTitleBlock reads the header of a CPU2006 or CPU2017 report. It
// returns errPlaceholder for placeholder pages.
func readTitleBlock(s *Scanner) (*titleBlock, error) {
	first, err := s.NextLine()
	if err != nil {
		return nil, err
	}
	if strings.Contains(first, placeholderMarker) {
		return nil, errPlaceholder
	}
	machine, err := s.NextLine()
	if err != nil {
		return nil, err
	}
	b := &titleBlock{machine: strings.TrimSpace(machine)}
	m, err := s.ScanUntil(hwAvailLine)
	if err != nil {
		return nil, err
	}
	b.hwAvail = m[0]
	if m, err = s.ScanUntil(testedByLine); err != nil {
		return nil, err
	}
	b.tester = m[0]
	// The machine line names the sponsor first.
	if strings.HasPrefix(b.machine, b.tester) {
		b.machine = strings.TrimSpace(b.machine[len(b.tester):])
	}
	return b, nil
}
