// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trend summarizes SPEC CPU results over time: monthly means
// per CPU and log-linear growth fits.
package trend

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/cpuhist/cpuhist/specfmt"
	"gonum.org/v1/gonum/stat"
)

// A Metric selects the value plotted and fitted for each result.
type Metric int

const (
	Score Metric = iota
	ScorePerMHz
	MHz
)

var metricNames = []string{"score", "score-per-mhz", "mhz"}

func (m Metric) String() string {
	if int(m) < len(metricNames) {
		return metricNames[m]
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric returns the Metric named s.
func ParseMetric(s string) (Metric, error) {
	for i, name := range metricNames {
		if s == name {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// A Point is one result placed in time.
type Point struct {
	Date  time.Time
	CPU   string
	Score float64
	MHz   float64
}

// Value returns the value of metric m at p.
func (p Point) Value(m Metric) float64 {
	switch m {
	case ScorePerMHz:
		return p.Score / p.MHz
	case MHz:
		return p.MHz
	}
	return p.Score
}

// Points returns a Point for each test with a "Jan-2006" hardware
// availability date, a numeric base score and a positive clock
// frequency. Other tests are skipped.
func Points(tests []*specfmt.TestRecord) []Point {
	var pts []Point
	for _, t := range tests {
		date, err := time.Parse("Jan-2006", t.HWAvail)
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(t.Base, 64)
		if err != nil || score <= 0 || t.MHz <= 0 {
			continue
		}
		pts = append(pts, Point{Date: date, CPU: t.CPU, Score: score, MHz: t.MHz})
	}
	return pts
}

// FilterCPUs returns the points of CPUs that have at least min
// points.
func FilterCPUs(pts []Point, min int) []Point {
	count := make(map[string]int)
	for _, p := range pts {
		count[p.CPU]++
	}
	var out []Point
	for _, p := range pts {
		if count[p.CPU] >= min {
			out = append(out, p)
		}
	}
	return out
}

// A Series is the monthly means of one CPU's results.
type Series struct {
	CPU string
	// N is the number of results the means were taken over.
	N      int
	Dates  []time.Time // first of each month, ascending
	Values []float64
}

// Monthly groups pts by CPU and calendar month and returns the mean
// value of metric m in each group. Series are sorted by CPU.
func Monthly(pts []Point, m Metric) []*Series {
	type key struct {
		cpu   string
		month time.Time
	}
	groups := make(map[key][]float64)
	count := make(map[string]int)
	for _, p := range pts {
		month := time.Date(p.Date.Year(), p.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		k := key{p.CPU, month}
		groups[k] = append(groups[k], p.Value(m))
		count[p.CPU]++
	}
	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cpu != keys[j].cpu {
			return keys[i].cpu < keys[j].cpu
		}
		return keys[i].month.Before(keys[j].month)
	})

	var out []*Series
	for _, k := range keys {
		if len(out) == 0 || out[len(out)-1].CPU != k.cpu {
			out = append(out, &Series{CPU: k.cpu, N: count[k.cpu]})
		}
		s := out[len(out)-1]
		s.Dates = append(s.Dates, k.month)
		s.Values = append(s.Values, stats.Mean(groups[k]))
	}
	return out
}

// A Fit is a least-squares line through log2 of a metric against
// time in Unix seconds.
type Fit struct {
	Intercept, Slope float64
	R2               float64
	// N is the number of points fitted and From and To the range
	// of their dates.
	N        int
	From, To time.Time
}

// At returns the fitted metric value at t.
func (f *Fit) At(t time.Time) float64 {
	return math.Exp2(f.Intercept + f.Slope*float64(t.Unix()))
}

// secondsPerYear is the length of a Julian year.
const secondsPerYear = 365.25 * 24 * 60 * 60

// DoublingYears returns the number of years the fitted value takes
// to double. It returns ok == false if the fit is flat or falling.
func (f *Fit) DoublingYears() (years float64, ok bool) {
	if !(f.Slope > 0) {
		return 0, false
	}
	return 1 / f.Slope / secondsPerYear, true
}

// FitRange fits the series values dated in [from, to). A zero from
// or to leaves that side unbounded. It fails if fewer than two
// points are in range or the values are not positive.
func FitRange(series []*Series, from, to time.Time) (*Fit, error) {
	var xs, ys []float64
	f := new(Fit)
	for _, s := range series {
		for i, d := range s.Dates {
			if !from.IsZero() && d.Before(from) || !to.IsZero() && !d.Before(to) {
				continue
			}
			v := s.Values[i]
			if !(v > 0) {
				return nil, fmt.Errorf("%s: non-positive value %v at %s", s.CPU, v, d.Format("Jan-2006"))
			}
			if f.From.IsZero() || d.Before(f.From) {
				f.From = d
			}
			if d.After(f.To) {
				f.To = d
			}
			xs = append(xs, float64(d.Unix()))
			ys = append(ys, math.Log2(v))
		}
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%d points in range, need at least 2", len(xs))
	}
	f.N = len(xs)
	f.Intercept, f.Slope = stat.LinearRegression(xs, ys, nil, false)
	f.R2 = stat.RSquared(xs, ys, nil, f.Intercept, f.Slope)
	return f, nil
}
