// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpuhist/cpuhist/docstore"
	"github.com/google/go-cmp/cmp"
)

var update = flag.Bool("update", false, "update golden files")

func testdataPaths(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()
	var paths []string
	for _, folder := range Folders {
		names, err := Glob(ctx, docstore.Dir("testdata"), folder)
		if err != nil {
			t.Fatal(err)
		}
		paths = append(paths, names...)
	}
	return paths
}

func TestGlob(t *testing.T) {
	names, err := Glob(context.Background(), docstore.Dir("testdata"), "cint95")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cint95/companion.asc", "cint95/disq.asc", "cint95/ghz.asc", "cint95/good.asc", "cint95/rate.asc"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Glob mismatch (-want +got):\n%s", diff)
	}
	if _, err := Glob(context.Background(), docstore.Dir("testdata"), "cfp2006"); err == nil {
		t.Errorf("Glob of unknown folder succeeded")
	}
}

func TestGlobExtCase(t *testing.T) {
	ctx := context.Background()
	fsys := docstore.NewMemFS()
	for _, name := range []string{"cint95/a.asc", "cint95/B.ASC", "cint95/B.html", "cint95/c.Asc", "cint95/d.txt"} {
		if err := docstore.WriteFile(ctx, fsys, name, nil); err != nil {
			t.Fatal(err)
		}
	}
	names, err := Glob(ctx, fsys, "cint95")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cint95/B.ASC", "cint95/a.asc", "cint95/c.Asc"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Glob mismatch (-want +got):\n%s", diff)
	}
}

func TestFilesGolden(t *testing.T) {
	f := &Files{Paths: testdataPaths(t), FS: docstore.Dir("testdata")}
	var tests, benches bytes.Buffer
	w := NewWriter(&tests, &benches)
	n := 0
	for f.Scan() {
		if de, ok := f.Result().(*DocumentError); ok {
			t.Errorf("unexpected error: %v", de)
		}
		if err := w.Write(f.Result()); err != nil {
			t.Fatal(err)
		}
		n++
	}
	if err := f.Err(); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if n != 18 {
		t.Errorf("read %d documents, want 18", n)
	}
	golden(t, "summaries.golden", tests.Bytes())
	golden(t, "benchmarks.golden", benches.Bytes())
}

func golden(t *testing.T, name string, got []byte) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if *update {
		if err := os.WriteFile(path, got, 0666); err != nil {
			t.Fatal(err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

func TestFilesLabels(t *testing.T) {
	ctx := context.Background()
	fsys := docstore.NewMemFS()
	good, err := os.ReadFile(filepath.Join("testdata", "cint2017", "good.txt"))
	if err != nil {
		t.Fatal(err)
	}
	docstore.WriteFile(ctx, fsys, "incoming/a.txt", good)

	f := &Files{
		Paths: []string{"cint2017=incoming/a.txt", "incoming/a.txt", "cint2017=incoming/missing.txt"},
		FS:    fsys,
	}
	if !f.Scan() {
		t.Fatalf("Scan failed: %v", f.Err())
	}
	rep, ok := f.Result().(*Report)
	if !ok || rep.Test == nil || rep.Test.ID != "a" {
		t.Fatalf("labeled path: got %#v", f.Result())
	}
	if name, _ := rep.Pos(); name != "incoming/a.txt" {
		t.Errorf("Pos: got %q", name)
	}

	// The folder "incoming" has no dialect.
	if !f.Scan() {
		t.Fatalf("Scan failed: %v", f.Err())
	}
	if _, ok := f.Result().(*DocumentError); !ok {
		t.Errorf("unknown folder: got %T, want *DocumentError", f.Result())
	}

	// A missing document stops the batch.
	if f.Scan() {
		t.Fatalf("Scan of missing document succeeded")
	}
	if err := f.Err(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Err: got %v, want not exist", err)
	}
}
