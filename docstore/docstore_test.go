// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docstore

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testFS(t *testing.T, fsys FS) {
	ctx := context.Background()

	if _, err := fsys.Open(ctx, "cint95/missing.asc"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(missing): got %v, want fs.ErrNotExist", err)
	}
	if ok, err := fsys.Exists(ctx, "cint95/a.asc"); ok || err != nil {
		t.Errorf("Exists before write: got %v, %v", ok, err)
	}

	for _, name := range []string{"cint95/b.asc", "cint95/a.asc", "cint95/a.html", "cint2000/c.asc", "cint95.html"} {
		if err := WriteFile(ctx, fsys, name, []byte("data "+name)); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}

	if ok, err := fsys.Exists(ctx, "cint95/a.asc"); !ok || err != nil {
		t.Errorf("Exists after write: got %v, %v", ok, err)
	}
	data, err := ReadFile(ctx, fsys, "cint95/a.asc")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "data cint95/a.asc"; got != want {
		t.Errorf("ReadFile: got %q, want %q", got, want)
	}

	names, err := fsys.List(ctx, "cint95")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cint95/a.asc", "cint95/a.html", "cint95/b.asc"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	// An aborted write leaves nothing behind.
	w, err := fsys.Create(ctx, "cint95/aborted.asc")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("partial"))
	w.CloseWithError(errors.New("abort"))
	if ok, _ := fsys.Exists(ctx, "cint95/aborted.asc"); ok {
		t.Errorf("aborted document exists")
	}
}

func TestMemFS(t *testing.T) {
	testFS(t, NewMemFS())
}

func TestDir(t *testing.T) {
	testFS(t, Dir(t.TempDir()))
}

func TestSub(t *testing.T) {
	ctx := context.Background()
	m := NewMemFS()
	sub := Sub(m, "/scraped/")
	if err := WriteFile(ctx, sub, "cint2006/x.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.Exists(ctx, "scraped/cint2006/x.txt"); !ok {
		t.Errorf("document not stored under prefix")
	}
	names, err := sub.List(ctx, "cint2006")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"cint2006/x.txt"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
	if Sub(m, "") != FS(m) {
		t.Errorf("Sub with empty dir did not return its argument")
	}
}
