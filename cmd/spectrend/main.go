// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Spectrend charts SPEC CPU results over time.
//
// Usage:
//
//	spectrend [flags] -o plot.png summaries.txt
//
// Spectrend reads the summaries written by specparse, keeps the CPUs
// with at least -min results, and plots the monthly mean of the
// chosen metric for each. For score metrics it also fits log-linear
// trends before and after -cutoff and prints them. The chart format
// follows the extension of -o: .png, .svg or .pdf.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cpuhist/cpuhist/specfmt"
	"github.com/cpuhist/cpuhist/trend"
)

var (
	flagMin    = flag.Int("min", 20, "plot only CPUs with at least `n` results")
	flagCutoff = flag.String("cutoff", trend.DefaultCutoff.Format("2006-01-02"), "split trend fits at `date`")
	flagMetric = flag.String("metric", "score", "plot `metric`: score, score-per-mhz or mhz")
	flagFamily = flag.String("family", "", "plot only results of benchmark `family`, such as CINT2006")
	flagOut    = flag.String("o", "plot.png", "write chart to `file`")
	flagTitle  = flag.String("title", "", "chart title")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: spectrend [flags] summaries.txt

`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("spectrend: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	metric, err := trend.ParseMetric(*flagMetric)
	if err != nil {
		log.Fatal(err)
	}
	cutoff, err := time.Parse("2006-01-02", *flagCutoff)
	if err != nil {
		log.Fatalf("bad -cutoff: %v", err)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	tests, err := specfmt.ReadTests(f)
	f.Close()
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
	if *flagFamily != "" {
		var keep []*specfmt.TestRecord
		for _, t := range tests {
			if string(t.Family) == *flagFamily {
				keep = append(keep, t)
			}
		}
		tests = keep
	}

	pts := trend.FilterCPUs(trend.Points(tests), *flagMin)
	if len(pts) == 0 {
		log.Fatalf("no CPU has %d or more dated results", *flagMin)
	}
	series := trend.Monthly(pts, metric)

	if metric != trend.MHz {
		for _, side := range []struct {
			name     string
			from, to time.Time
		}{
			{"before", time.Time{}, cutoff},
			{"after", cutoff, time.Time{}},
		} {
			fit, err := trend.FitRange(series, side.from, side.to)
			if err != nil {
				log.Printf("%s %s: %v", side.name, cutoff.Format("2006-01-02"), err)
				continue
			}
			doubling := "no doubling"
			if years, ok := fit.DoublingYears(); ok {
				doubling = fmt.Sprintf("doubling every %.1f years", years)
			}
			fmt.Printf("%s %s: %d points, %s, R2=%.2f\n",
				side.name, cutoff.Format("2006-01-02"), fit.N, doubling, fit.R2)
		}
	}

	pl, err := trend.Chart(series, trend.ChartOptions{Metric: metric, Cutoff: cutoff, Title: *flagTitle})
	if err != nil {
		log.Fatal(err)
	}
	out, err := os.Create(*flagOut)
	if err != nil {
		log.Fatal(err)
	}
	if err := trend.Save(pl, out, *flagOut, trend.DefaultWidth, trend.DefaultHeight); err != nil {
		out.Close()
		log.Fatal(err)
	}
	if err := out.Close(); err != nil {
		log.Fatal(err)
	}
}
