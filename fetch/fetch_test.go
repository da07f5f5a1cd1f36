// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cpuhist/cpuhist/docstore"
	"github.com/google/go-cmp/cmp"
)

const index = `<html><body>
<a href="res2009q1/cpu2006-0001.txt">one</a>
<A HREF="res2009q1/cpu2006-0002.TXT">two</A>
<a href="res2009q1/cpu2006-0001.txt">one again</a>
<a href="res2009q1/cpu2006-0001.html">html</a>
<a href="content.txt">contents</a>
<img src="missing.txt">
</body></html>`

func TestLinks(t *testing.T) {
	src := Source{Folder: "cint2006", Base: "http://example.com/results/", Exts: []string{".txt"}}
	links, err := Links(strings.NewReader(index), src)
	if err != nil {
		t.Fatal(err)
	}
	want := []Link{
		{"http://example.com/results/res2009q1/cpu2006-0001.txt", "cint2006/cpu2006-0001.txt"},
		{"http://example.com/results/res2009q1/cpu2006-0002.TXT", "cint2006/cpu2006-0002.TXT"},
		{"http://example.com/results/missing.txt", "cint2006/missing.txt"},
	}
	if diff := cmp.Diff(want, links); diff != "" {
		t.Errorf("Links mismatch (-want +got):\n%s", diff)
	}
}

type server struct {
	mu       sync.Mutex
	requests map[string]int
	// flaky paths fail with 503 this many times first.
	flaky map[string]int
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests[r.URL.Path]++
	n := s.requests[r.URL.Path]
	fail := n <= s.flaky[r.URL.Path]
	s.mu.Unlock()
	switch {
	case fail:
		http.Error(w, "busy", http.StatusServiceUnavailable)
	case r.URL.Path == "/results/cint2006.html":
		fmt.Fprint(w, index)
	case strings.HasPrefix(r.URL.Path, "/results/res2009q1/"):
		fmt.Fprintf(w, "report %s\n", r.URL.Path)
	default:
		http.NotFound(w, r)
	}
}

func TestRun(t *testing.T) {
	s := &server{requests: make(map[string]int), flaky: map[string]int{"/results/res2009q1/cpu2006-0002.TXT": 2}}
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx := context.Background()
	store := docstore.NewMemFS()
	f := &Fetcher{Store: store, Client: srv.Client(), Workers: 2, Backoff: time.Millisecond}
	src := Source{"cint2006", srv.URL + "/results/cint2006.html", srv.URL + "/results/", []string{".txt"}}

	stats, err := f.Run(ctx, []Source{src})
	if err != nil {
		t.Fatal(err)
	}
	if want := (Stats{Fetched: 2, Failed: 1}); stats != want {
		t.Errorf("first run: got %+v, want %+v", stats, want)
	}
	data, err := docstore.ReadFile(ctx, store, "cint2006/cpu2006-0002.TXT")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "report /results/res2009q1/cpu2006-0002.TXT\n"; got != want {
		t.Errorf("stored %q, want %q", got, want)
	}
	if ok, _ := store.Exists(ctx, "cint2006.html"); !ok {
		t.Errorf("index page not cached")
	}
	if n := s.requests["/results/missing.txt"]; n != 1 {
		t.Errorf("404 fetched %d times, want 1", n)
	}
	if n := s.requests["/results/res2009q1/cpu2006-0002.TXT"]; n != 3 {
		t.Errorf("flaky document fetched %d times, want 3", n)
	}

	// Everything is cached now; the index page is not fetched again.
	stats, err = f.Run(ctx, []Source{src})
	if err != nil {
		t.Fatal(err)
	}
	if want := (Stats{Cached: 2, Failed: 1}); stats != want {
		t.Errorf("second run: got %+v, want %+v", stats, want)
	}
	if n := s.requests["/results/cint2006.html"]; n != 1 {
		t.Errorf("index fetched %d times, want 1", n)
	}
}

func TestFetchMaxAttempts(t *testing.T) {
	s := &server{requests: make(map[string]int), flaky: map[string]int{"/results/res2009q1/x.txt": 100}}
	srv := httptest.NewServer(s)
	defer srv.Close()

	f := &Fetcher{Store: docstore.NewMemFS(), Client: srv.Client(), Backoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, MaxAttempts: 3}
	_, err := f.Fetch(context.Background(), srv.URL+"/results/res2009q1/x.txt", "cint2006/x.txt")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Errorf("got %v, want 503 StatusError", err)
	}
	if n := s.requests["/results/res2009q1/x.txt"]; n != 3 {
		t.Errorf("fetched %d times, want 3", n)
	}
}

func TestFetchCanceled(t *testing.T) {
	s := &server{requests: make(map[string]int), flaky: map[string]int{"/results/res2009q1/x.txt": 100}}
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	f := &Fetcher{Store: docstore.NewMemFS(), Client: srv.Client(), Backoff: time.Hour}
	_, err := f.Fetch(ctx, srv.URL+"/results/res2009q1/x.txt", "cint2006/x.txt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}
