// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package specfmt parses plain-text SPEC CPU result reports.
//
// Four report layouts are supported, one per benchmark generation:
// CPU95, CPU2000, CPU2006 and CPU2017. Each is a fixed-column text
// page with a benchmark score table followed by a labeled block of
// hardware and software properties. A Dialect knows the column
// offsets, section banners, label names and disqualification phrasing
// of one layout and turns a document into a Report: one TestRecord
// summarizing the submission plus one BenchRecord per sub-benchmark.
//
// Dialects are selected by the caller based on where a document came
// from (see Files), never by sniffing the document itself.
//
// Rate (throughput) submissions, disqualified results and placeholder
// pages are excluded: they produce a Report with a nil Test and an
// Exclusion reason rather than an error. Errors are reserved for
// documents that look like accepted results but cannot be read, such
// as a missing required property.
package specfmt

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// A Family is the benchmark suite a result belongs to.
type Family string

const (
	CINT95   Family = "CINT95"
	CFP95    Family = "CFP95"
	CINT2000 Family = "CINT2000"
	CFP2000  Family = "CFP2000"
	CINT2006 Family = "CINT2006"
	CFP2006  Family = "CFP2006"
	CINT2017 Family = "CINT2017"
)

// A TestRecord summarizes one accepted report.
//
// Scores are carried as the text found in the report. MHz is always
// in megahertz.
type TestRecord struct {
	ID           string // base name of the source document
	Tester       string
	Machine      string
	CPU          string
	MHz          float64
	HWAvail      string // "Jan-2006" when the report's date could be normalized
	OS           string
	Compiler     string
	AutoParallel string
	Family       Family
	Base         string
	Peak         string
}

// A BenchRecord is one row of a report's score table.
type BenchRecord struct {
	ID   string // ID of the parent TestRecord
	Name string
	Base string
	Peak string
}

// An Exclusion explains why a document produced no records.
type Exclusion int

const (
	// NotExcluded marks an accepted report.
	NotExcluded Exclusion = iota
	// Placeholder is a page of '#' characters standing in for a
	// withdrawn result.
	Placeholder
	// Disqualified results carry SPEC's non-compliance notice.
	Disqualified
	// Rate results measure throughput and are out of scope.
	Rate
	// Malformed marks a CPU2017 score table that failed the
	// per-row structural check.
	Malformed
)

func (e Exclusion) String() string {
	switch e {
	case NotExcluded:
		return "accepted"
	case Placeholder:
		return "placeholder"
	case Disqualified:
		return "disqualified"
	case Rate:
		return "rate"
	case Malformed:
		return "malformed"
	}
	return fmt.Sprintf("Exclusion(%d)", int(e))
}

// A Report is the result of parsing one document.
//
// If Excluded is not NotExcluded, Test is nil and Benches is empty.
// Otherwise Test is set and every element of Benches shares its ID.
type Report struct {
	Test     *TestRecord
	Benches  []BenchRecord
	Excluded Exclusion

	// Properties is the raw labeled-property block in report order,
	// for diagnostics. It is nil for excluded reports.
	Properties *ordereddict.Dict

	fileName string
}

func excluded(fileName string, why Exclusion) *Report {
	return &Report{Excluded: why, fileName: fileName}
}

// Pos returns the name of the document this report was read from.
func (r *Report) Pos() (fileName string, line int) {
	return r.fileName, 0
}

// A Record is a single item produced by Files. It may be a *Report
// or a *DocumentError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file. Line is 0 when the record
	// describes the whole document.
	Pos() (fileName string, line int)
}

var _ Record = (*Report)(nil)
var _ Record = (*DocumentError)(nil)
