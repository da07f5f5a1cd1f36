// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the docstore.FS interface using Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/cpuhist/cpuhist/docstore"
	"golang.org/x/oauth2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// impl is an implementation of docstore.FS using GCS.
type impl struct {
	bucket *storage.BucketHandle
}

// NewFS constructs an FS that reads and writes objects in the named
// bucket. opts are passed to storage.NewClient; without them the
// application default credentials are used.
func NewFS(ctx context.Context, bucketName string, opts ...option.ClientOption) (docstore.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucketName)}, nil
}

// WithToken returns a client option authenticating with a fixed
// OAuth2 access token.
func WithToken(token string) option.ClientOption {
	return option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// ParseURL splits a "gs://bucket/prefix" URL. ok is false if s is not
// a gs:// URL.
func ParseURL(s string) (bucket, prefix string, ok bool) {
	rest, ok := strings.CutPrefix(s, "gs://")
	if !ok {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.Trim(prefix, "/"), bucket != ""
}

func (fs *impl) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := fs.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, notExist(name)
	}
	return r, err
}

func (fs *impl) Create(ctx context.Context, name string) (docstore.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := fs.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "text/plain"
	if path.Ext(name) == ".html" {
		w.ContentType = "text/html"
	}
	return &writer{Writer: w, cancel: cancel}, nil
}

func (fs *impl) Exists(ctx context.Context, name string) (bool, error) {
	_, err := fs.bucket.Object(name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (fs *impl) List(ctx context.Context, dir string) ([]string, error) {
	prefix := strings.Trim(dir, "/") + "/"
	it := fs.bucket.Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		// Prefix entries stand for subdirectories.
		if attrs.Name == "" {
			continue
		}
		names = append(names, attrs.Name)
	}
	// Objects are listed in lexicographic order.
	return names, nil
}

// writer aborts the upload by canceling its context.
type writer struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *writer) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

func (w *writer) CloseWithError(error) error {
	w.cancel()
	w.Writer.Close()
	return nil
}

func notExist(name string) error {
	return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
