// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Specfetch downloads SPEC CPU integer result reports.
//
// Usage:
//
//	specfetch [-store dir] [-j n] [folder...]
//
// Specfetch reads the index page of each result generation and
// fetches every report it links to into the store, one folder per
// generation. Documents already in the store are not fetched again,
// so an interrupted run can simply be restarted. With folder
// arguments, only those generations are fetched.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cpuhist/cpuhist/fetch"
	"github.com/cpuhist/cpuhist/internal/cmdutil"
)

var (
	flagStore   = flag.String("store", cmdutil.Getenv("SPEC_STORE", "scraped"), "save reports to `store` (a directory or gs://bucket/prefix)")
	flagJobs    = flag.Int("j", 64, "fetch `n` documents concurrently")
	flagToken   = flag.String("token", cmdutil.Getenv("GOOGLE_OAUTH_TOKEN", ""), "OAuth2 access `token` for Cloud Storage")
	flagMaxWait = flag.Duration("maxwait", 5*time.Minute, "maximum delay between retries")
	flagV       = flag.Bool("v", false, "log each document")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: specfetch [flags] [folder...]

specfetch downloads SPEC CPU result reports. Folders are among:
`)
	for _, src := range fetch.Sources {
		fmt.Fprintf(flag.CommandLine.Output(), "\t%s\t%s\n", src.Folder, src.IndexURL)
	}
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("specfetch: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	sources := fetch.Sources
	if flag.NArg() > 0 {
		byFolder := make(map[string]fetch.Source)
		for _, src := range fetch.Sources {
			byFolder[src.Folder] = src
		}
		sources = nil
		for _, folder := range flag.Args() {
			src, ok := byFolder[folder]
			if !ok {
				log.Fatalf("unknown folder %q", folder)
			}
			sources = append(sources, src)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := cmdutil.OpenStore(ctx, *flagStore, *flagToken)
	if err != nil {
		log.Fatal(err)
	}
	f := &fetch.Fetcher{
		Store:      store,
		Workers:    *flagJobs,
		MaxBackoff: *flagMaxWait,
		Logf: func(format string, args ...interface{}) {
			if *flagV {
				log.Printf(format, args...)
			}
		},
	}
	stats, err := f.Run(ctx, sources)
	log.Printf("%d fetched, %d cached, %d failed", stats.Fetched, stats.Cached, stats.Failed)
	if err != nil {
		log.Fatal(err)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
