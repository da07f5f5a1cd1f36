// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names of the two record streams.
var (
	TestHeader  = []string{"testID", "tester", "machine", "cpu", "mhz", "hwAvail", "os", "compiler", "autoParallel", "benchType", "base", "peak"}
	BenchHeader = []string{"testID", "benchName", "base", "peak"}
)

// A Writer writes the summary and benchmark record streams as CSV
// with CRLF line endings.
type Writer struct {
	tests, benches *csv.Writer
}

// NewWriter returns a Writer that writes test summaries to tests and
// benchmark rows to benches. The header rows are written immediately.
func NewWriter(tests, benches io.Writer) *Writer {
	w := &Writer{csv.NewWriter(tests), csv.NewWriter(benches)}
	w.tests.UseCRLF = true
	w.benches.UseCRLF = true
	w.tests.Write(TestHeader)
	w.benches.Write(BenchHeader)
	return w
}

// Write writes the records of rec. Excluded reports and
// *DocumentError records write nothing.
func (w *Writer) Write(rec Record) error {
	switch rec := rec.(type) {
	case *Report:
		if rec.Test == nil {
			return nil
		}
		if err := w.tests.Write(testRow(rec.Test)); err != nil {
			return err
		}
		for _, b := range rec.Benches {
			if err := w.benches.Write([]string{b.ID, b.Name, b.Base, b.Peak}); err != nil {
				return err
			}
		}
	case *DocumentError:
		// Ignore
	default:
		return fmt.Errorf("unknown Record type %T", rec)
	}
	return nil
}

// Flush writes any buffered data to the underlying writers.
func (w *Writer) Flush() error {
	w.tests.Flush()
	w.benches.Flush()
	if err := w.tests.Error(); err != nil {
		return err
	}
	return w.benches.Error()
}

func testRow(t *TestRecord) []string {
	return []string{
		t.ID, t.Tester, t.Machine, t.CPU, formatMHz(t.MHz), t.HWAvail,
		t.OS, t.Compiler, t.AutoParallel, string(t.Family), t.Base, t.Peak,
	}
}

// formatMHz formats v in shortest form, always with a fractional
// part: 2400 is written "2400.0".
func formatMHz(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ReadTests reads a test summary stream written by Writer.
func ReadTests(r io.Reader) ([]*TestRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(TestHeader)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.Join(header, ",") != strings.Join(TestHeader, ",") {
		return nil, fmt.Errorf("unexpected header %q", header)
	}
	var tests []*TestRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return tests, nil
		}
		if err != nil {
			return nil, err
		}
		mhz, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			line, _ := cr.FieldPos(4)
			return nil, fmt.Errorf("line %d: bad mhz %q", line, row[4])
		}
		tests = append(tests, &TestRecord{
			ID:           row[0],
			Tester:       row[1],
			Machine:      row[2],
			CPU:          row[3],
			MHz:          mhz,
			HWAvail:      row[5],
			OS:           row[6],
			Compiler:     row[7],
			AutoParallel: row[8],
			Family:       Family(row[9]),
			Base:         row[10],
			Peak:         row[11],
		})
	}
}
