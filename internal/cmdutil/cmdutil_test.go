// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"context"
	"testing"

	"github.com/cpuhist/cpuhist/docstore"
	"github.com/cpuhist/cpuhist/docstore/gcs"
)

func TestGetenv(t *testing.T) {
	t.Setenv("SPEC_TEST_VAR", "")
	if got := Getenv("SPEC_TEST_VAR", "def"); got != "def" {
		t.Errorf("unset: got %q", got)
	}
	t.Setenv("SPEC_TEST_VAR", "set")
	if got := Getenv("SPEC_TEST_VAR", "def"); got != "set" {
		t.Errorf("set: got %q", got)
	}
}

func TestOpenStoreLocal(t *testing.T) {
	dir := t.TempDir()
	fsys, err := OpenStore(context.Background(), dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if fsys != docstore.FS(docstore.Dir(dir)) {
		t.Errorf("got %#v, want Dir(%q)", fsys, dir)
	}
}

func TestParseURL(t *testing.T) {
	for _, test := range []struct {
		in             string
		bucket, prefix string
		ok             bool
	}{
		{"gs://spec-results/scraped/", "spec-results", "scraped", true},
		{"gs://spec-results", "spec-results", "", true},
		{"gs://", "", "", false},
		{"scraped", "", "", false},
	} {
		bucket, prefix, ok := gcs.ParseURL(test.in)
		if bucket != test.bucket || prefix != test.prefix || ok != test.ok {
			t.Errorf("ParseURL(%q) = %q, %q, %v, want %q, %q, %v", test.in, bucket, prefix, ok, test.bucket, test.prefix, test.ok)
		}
	}
}
