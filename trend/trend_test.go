// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trend

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cpuhist/cpuhist/specfmt"
	"github.com/google/go-cmp/cmp"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestPoints(t *testing.T) {
	tests := []*specfmt.TestRecord{
		{CPU: "A", MHz: 200, HWAvail: "Jun-1996", Base: "4.05"},
		{CPU: "B", MHz: 2400, HWAvail: "Q3 1999", Base: "4.05"},
		{CPU: "C", MHz: 1200, HWAvail: "Jul-2001", Base: "--"},
		{CPU: "D", MHz: 0, HWAvail: "Jul-2001", Base: "591"},
	}
	want := []Point{{Date: month(1996, time.June), CPU: "A", Score: 4.05, MHz: 200}}
	if diff := cmp.Diff(want, Points(tests)); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
	if got := want[0].Value(ScorePerMHz); got != 4.05/200 {
		t.Errorf("ScorePerMHz: got %v", got)
	}
}

func TestFilterCPUs(t *testing.T) {
	pts := []Point{{CPU: "A"}, {CPU: "B"}, {CPU: "A"}, {CPU: "C"}, {CPU: "A"}, {CPU: "B"}}
	var got []string
	for _, p := range FilterCPUs(pts, 2) {
		got = append(got, p.CPU)
	}
	if diff := cmp.Diff([]string{"A", "B", "A", "A", "B"}, got); diff != "" {
		t.Errorf("FilterCPUs mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthly(t *testing.T) {
	day := func(year int, m time.Month, d int) time.Time { return time.Date(year, m, d, 0, 0, 0, 0, time.UTC) }
	pts := []Point{
		{Date: day(2001, time.March, 5), CPU: "B", Score: 10, MHz: 100},
		{Date: day(2001, time.March, 20), CPU: "B", Score: 20, MHz: 300},
		{Date: day(2000, time.July, 1), CPU: "B", Score: 6, MHz: 100},
		{Date: day(2001, time.March, 1), CPU: "A", Score: 1, MHz: 50},
	}
	got := Monthly(pts, MHz)
	want := []*Series{
		{CPU: "A", N: 1, Dates: []time.Time{month(2001, time.March)}, Values: []float64{50}},
		{CPU: "B", N: 3, Dates: []time.Time{month(2000, time.July), month(2001, time.March)}, Values: []float64{100, 200}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Monthly mismatch (-want +got):\n%s", diff)
	}
}

// doubling returns a series whose values double every period,
// starting at 1 at start.
func doubling(cpu string, start time.Time, n int, period time.Duration) *Series {
	s := &Series{CPU: cpu, N: n}
	for i := 0; i < n; i++ {
		d := start.Add(time.Duration(i) * 30 * 24 * time.Hour)
		s.Dates = append(s.Dates, d)
		s.Values = append(s.Values, math.Exp2(float64(d.Sub(start))/float64(period)))
	}
	return s
}

func TestFitRange(t *testing.T) {
	const year = 365 * 24 * time.Hour
	series := []*Series{
		doubling("fast", month(1995, time.January), 100, 2*year),
	}
	fit, err := FitRange(series, time.Time{}, DefaultCutoff)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(fit.R2-1) > 1e-9 {
		t.Errorf("R2 = %v, want 1", fit.R2)
	}
	want := (2 * year).Hours() / 24 / 365.25
	if got, ok := fit.DoublingYears(); !ok || math.Abs(got-want) > 1e-3 {
		t.Errorf("DoublingYears = %v, %v, want %v, true", got, ok, want)
	}
	if !fit.To.Before(DefaultCutoff) || fit.From != month(1995, time.January) {
		t.Errorf("fit range %v to %v", fit.From, fit.To)
	}
	if got := fit.At(month(1995, time.January)); math.Abs(got-1) > 1e-6 {
		t.Errorf("At(start) = %v, want 1", got)
	}

	if _, err := FitRange(series, month(2030, time.January), time.Time{}); err == nil {
		t.Errorf("FitRange with no points succeeded")
	}
}

func TestFitRangeSlow(t *testing.T) {
	start := month(1970, time.January)
	flat := &Series{CPU: "flat"}
	slow := &Series{CPU: "slow"}
	falling := &Series{CPU: "falling"}
	for i := 0; i <= 40; i++ {
		d := month(1970+i, time.January)
		x := d.Sub(start).Hours() / 24 / 365.25 / 40
		flat.Dates = append(flat.Dates, d)
		flat.Values = append(flat.Values, 1)
		slow.Dates = append(slow.Dates, d)
		slow.Values = append(slow.Values, 1+0.05*x)
		falling.Dates = append(falling.Dates, d)
		falling.Values = append(falling.Values, 2-x)
	}

	for _, test := range []struct {
		series *Series
		ok     bool
	}{
		{flat, false},
		{falling, false},
		{slow, true},
	} {
		fit, err := FitRange([]*Series{test.series}, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("%s: %v", test.series.CPU, err)
		}
		years, ok := fit.DoublingYears()
		if ok != test.ok {
			t.Errorf("%s: DoublingYears ok = %v, want %v", test.series.CPU, ok, test.ok)
			continue
		}
		// 5% over 40 years doubles in several centuries.
		if ok && (years < 300 || years > 1000) {
			t.Errorf("%s: DoublingYears = %v, want between 300 and 1000", test.series.CPU, years)
		}
		if !ok && years != 0 {
			t.Errorf("%s: DoublingYears = %v with ok == false", test.series.CPU, years)
		}
	}
}

func TestParseMetric(t *testing.T) {
	for _, m := range []Metric{Score, ScorePerMHz, MHz} {
		got, err := ParseMetric(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMetric(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMetric("bogomips"); err == nil {
		t.Errorf("ParseMetric(bogomips) succeeded")
	}
}

func TestChart(t *testing.T) {
	const year = 365 * 24 * time.Hour
	series := []*Series{
		doubling("old", month(1996, time.January), 60, 2*year),
		doubling("new", month(2006, time.January), 60, 6*year),
	}
	for _, m := range []Metric{Score, MHz} {
		pl, err := Chart(series, ChartOptions{Metric: m, Title: "test"})
		if err != nil {
			t.Fatal(err)
		}
		for _, format := range []struct{ name, magic string }{
			{"out.png", "\x89PNG"},
			{"out.svg", "<svg"},
			{"out.pdf", "%PDF"},
		} {
			var buf bytes.Buffer
			if err := Save(pl, &buf, format.name, DefaultWidth, DefaultHeight); err != nil {
				t.Fatalf("%v %s: %v", m, format.name, err)
			}
			head := buf.String()[:min(512, buf.Len())]
			if !strings.Contains(head, format.magic) {
				t.Errorf("%v %s: no %q in output header %q", m, format.name, format.magic, head)
			}
		}
	}
	pl, _ := Chart(series, ChartOptions{})
	if err := Save(pl, new(bytes.Buffer), "out.gif", DefaultWidth, DefaultHeight); err == nil {
		t.Errorf("Save to .gif succeeded")
	}
}
