// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Specparse extracts test and benchmark records from SPEC CPU result
// reports.
//
// Usage:
//
//	specparse [flags] [folder=path | path...]
//
// Reports are read from a document store holding one folder per
// result generation (cint95, cint2000, cint2006, cint2017), as
// populated by specfetch. With no arguments, every report in every
// folder is parsed; otherwise only the named documents are.
//
// Specparse writes summaries.txt with one row per accepted report and
// benchmarks.txt with one row per benchmark score, both as CSV. With
// -db, the records are also loaded into a database.
//
// Reports that cannot be read are described on stderr and skipped,
// unless -strict is given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/cpuhist/cpuhist/internal/cmdutil"
	"github.com/cpuhist/cpuhist/specdb"
	_ "github.com/cpuhist/cpuhist/specdb/sqlite3"
	"github.com/cpuhist/cpuhist/specfmt"
)

func main() {
	log.SetPrefix("specparse: ")
	log.SetFlags(0)
	if err := specparse(os.Stderr, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func specparse(stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("specparse", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: specparse [flags] [folder=path | path...]

specparse extracts test and benchmark records from SPEC CPU result
reports and writes them as CSV.

`)
		flags.PrintDefaults()
	}
	flagDir := flags.String("dir", "scraped", "read reports from local `directory`")
	flagStore := flags.String("store", cmdutil.Getenv("SPEC_STORE", ""), "read reports from `store` (a directory or gs://bucket/prefix); overrides -dir")
	flagOut := flags.String("o", ".", "write summaries.txt and benchmarks.txt to `directory`")
	flagDB := flags.String("db", "", "also load records into a database using `driver` (sqlite3, mysql or postgres)")
	flagDSN := flags.String("dsn", cmdutil.Getenv("SPEC_DB_DSN", ""), "database data source `name`")
	flagToken := flags.String("token", cmdutil.Getenv("GOOGLE_OAUTH_TOKEN", ""), "OAuth2 access `token` for Cloud Storage")
	flagV := flags.Bool("v", false, "print progress every 100 documents")
	flagStrict := flags.Bool("strict", false, "stop at the first report that cannot be read")
	if err := flags.Parse(args); err != nil {
		return err
	}
	logf := func(format string, args ...interface{}) {
		fmt.Fprintf(stderr, format+"\n", args...)
	}

	ctx := context.Background()
	storeSpec := *flagStore
	if storeSpec == "" {
		storeSpec = *flagDir
	}
	store, err := cmdutil.OpenStore(ctx, storeSpec, *flagToken)
	if err != nil {
		return err
	}

	paths := flags.Args()
	if len(paths) == 0 {
		for _, folder := range specfmt.Folders {
			names, err := specfmt.Glob(ctx, store, folder)
			if errors.Is(err, fs.ErrNotExist) {
				logf("no %s folder in %s", folder, storeSpec)
				continue
			} else if err != nil {
				return err
			}
			paths = append(paths, names...)
		}
	}

	var load *specdb.Load
	if *flagDB != "" {
		db, err := specdb.OpenSQL(*flagDB, *flagDSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if load, err = db.NewLoad(ctx); err != nil {
			return err
		}
		defer func() {
			if load != nil {
				load.Abort()
			}
		}()
	}

	testsFile, err := os.Create(filepath.Join(*flagOut, "summaries.txt"))
	if err != nil {
		return err
	}
	defer testsFile.Close()
	benchesFile, err := os.Create(filepath.Join(*flagOut, "benchmarks.txt"))
	if err != nil {
		return err
	}
	defer benchesFile.Close()
	writer := specfmt.NewWriter(testsFile, benchesFile)

	var accepted, excluded, failed int
	files := specfmt.Files{Paths: paths, FS: store}
	for n := 1; files.Scan(); n++ {
		switch rec := files.Result().(type) {
		case *specfmt.DocumentError:
			// Non-fatal document error. Warn but keep going.
			if *flagStrict {
				return rec
			}
			fmt.Fprintln(stderr, rec)
			failed++
		case *specfmt.Report:
			if rec.Test == nil {
				excluded++
				break
			}
			accepted++
			if err := writer.Write(rec); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if load != nil {
				if err := load.Insert(ctx, rec); err != nil {
					return fmt.Errorf("loading %s: %w", rec.Test.ID, err)
				}
			}
		}
		if *flagV && n%100 == 0 {
			logf("%d/%d documents", n, len(paths))
		}
	}
	if err := files.Err(); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	for _, f := range []*os.File{testsFile, benchesFile} {
		if err := f.Close(); err != nil {
			return err
		}
	}
	if load != nil {
		err := load.Commit()
		load = nil
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	if *flagV {
		logf("%d accepted, %d excluded, %d failed", accepted, excluded, failed)
	}
	return nil
}
