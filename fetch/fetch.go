// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fetch downloads SPEC CPU result reports into a document
// store.
//
// Each result generation has an index page listing its reports. The
// index and every report it links to are fetched once; documents
// already in the store are not fetched again.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cpuhist/cpuhist/docstore"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// A Source is the index page of one result generation.
type Source struct {
	// Folder is the store folder reports are saved in.
	Folder string
	// IndexURL is the URL of the index page.
	IndexURL string
	// Base is prepended to every link found on the index page.
	Base string
	// Exts lists the extensions of linked documents to fetch.
	Exts []string
}

// Sources lists the index pages of the CPU95 through CPU2017
// integer results.
var Sources = []Source{
	{"cint95", "http://www.spec.org/cpu95/results/cint95.html", "http://www.spec.org", []string{".asc", ".html"}},
	{"cint2000", "http://www.spec.org/cpu2000/results/cint2000.html", "http://www.spec.org/cpu2000/results/", []string{".asc"}},
	{"cint2006", "http://www.spec.org/cpu2006/results/cint2006.html", "http://www.spec.org/cpu2006/results/", []string{".txt"}},
	{"cint2017", "http://www.spec.org/cpu2017/results/cint2017.html", "http://www.spec.org/cpu2017/results/", []string{".txt"}},
}

// IndexName returns the store name the index page of src is cached
// under.
func (src Source) IndexName() string {
	return src.Folder + ".html"
}

// A Link is a document to fetch.
type Link struct {
	URL string
	// Name is the store name: the source folder and the last
	// element of the link path.
	Name string
}

// skipLinks are substrings of links to pages that are not reports.
var skipLinks = []string{"content", "permute"}

// Links returns the links in the HTML page r that end in one of
// src.Exts, in page order without duplicates.
func Links(r io.Reader, src Source) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var links []Link
	seen := make(map[string]bool)
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key != "href" && a.Key != "src" {
					continue
				}
				if l, ok := src.link(a.Val); ok && !seen[l.URL] {
					seen[l.URL] = true
					links = append(links, l)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return links, nil
}

func (src Source) link(ref string) (Link, bool) {
	lower := strings.ToLower(ref)
	match := false
	for _, ext := range src.Exts {
		if strings.HasSuffix(lower, ext) {
			match = true
		}
	}
	if !match {
		return Link{}, false
	}
	url := src.Base + ref
	for _, skip := range skipLinks {
		if strings.Contains(url, skip) {
			return Link{}, false
		}
	}
	return Link{URL: url, Name: path.Join(src.Folder, path.Base(ref))}, true
}

// A Fetcher fetches documents into Store.
type Fetcher struct {
	Store docstore.FS

	// Client is the HTTP client to use. If nil,
	// http.DefaultClient is used.
	Client *http.Client

	// Workers is the number of concurrent fetches. If zero, 64
	// are used.
	Workers int

	// Backoff is the delay before the first retry of a failed
	// fetch. It doubles on each retry up to MaxBackoff. If zero,
	// one second is used.
	Backoff    time.Duration
	MaxBackoff time.Duration

	// MaxAttempts limits the attempts per document. If zero, a
	// fetch is retried until it succeeds or the context is done.
	MaxAttempts int

	// Logf, if non-nil, is called with progress messages.
	Logf func(format string, args ...interface{})
}

// A StatusError reports an HTTP response that is not retried.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
}

func (f *Fetcher) logf(format string, args ...interface{}) {
	if f.Logf != nil {
		f.Logf(format, args...)
	}
}

// Fetch stores the document at url under name, unless the store
// already has it. It reports whether the document was cached.
func (f *Fetcher) Fetch(ctx context.Context, url, name string) (cached bool, err error) {
	ok, err := f.Store.Exists(ctx, name)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	delay := f.Backoff
	if delay == 0 {
		delay = time.Second
	}
	for attempt := 1; ; attempt++ {
		data, err := f.get(ctx, url)
		if err == nil {
			return false, docstore.WriteFile(ctx, f.Store, name, data)
		}
		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			return false, err
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if f.MaxAttempts > 0 && attempt >= f.MaxAttempts {
			return false, err
		}
		f.logf("%v; retrying in %v", err, delay)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return false, ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if f.MaxBackoff > 0 && delay > f.MaxBackoff {
			delay = f.MaxBackoff
		}
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// Stats counts the documents handled by Run.
type Stats struct {
	Fetched, Cached, Failed int
}

// Run fetches the index page of each source and every report it
// links to. A document that cannot be fetched is logged and counted
// in Stats.Failed; an index page that cannot be fetched stops Run.
func (f *Fetcher) Run(ctx context.Context, sources []Source) (Stats, error) {
	var links []Link
	for _, src := range sources {
		name := src.IndexName()
		if _, err := f.Fetch(ctx, src.IndexURL, name); err != nil {
			return Stats{}, err
		}
		r, err := f.Store.Open(ctx, name)
		if err != nil {
			return Stats{}, err
		}
		f.logf("scanning %s", name)
		l, err := Links(r, src)
		r.Close()
		if err != nil {
			return Stats{}, fmt.Errorf("%s: %w", name, err)
		}
		links = append(links, l...)
	}

	workers := f.Workers
	if workers <= 0 {
		workers = 64
	}
	var fetched, cached, failed, done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, l := range links {
		l := l
		g.Go(func() error {
			wasCached, err := f.Fetch(gctx, l.URL, l.Name)
			n := done.Add(1)
			switch {
			case gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				failed.Add(1)
				f.logf("%d/%d ... %v", n, len(links), err)
			case wasCached:
				cached.Add(1)
				f.logf("%d/%d ... cached %s", n, len(links), l.URL)
			default:
				fetched.Add(1)
				f.logf("%d/%d ... fetched %s", n, len(links), l.URL)
			}
			return nil
		})
	}
	err := g.Wait()
	return Stats{int(fetched.Load()), int(cached.Load()), int(failed.Load())}, err
}
