// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdutil holds configuration helpers shared by the commands.
package cmdutil

import (
	"context"
	"os"

	"github.com/cpuhist/cpuhist/docstore"
	"github.com/cpuhist/cpuhist/docstore/gcs"
	"google.golang.org/api/option"
)

// Getenv returns the value of the environment variable name, or def
// if it is unset or empty.
func Getenv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// OpenStore opens the document store named by spec: either a
// "gs://bucket/prefix" URL or a local directory. token, if not empty,
// is an OAuth2 access token for Cloud Storage; otherwise the
// application default credentials are used.
func OpenStore(ctx context.Context, spec, token string) (docstore.FS, error) {
	bucket, prefix, ok := gcs.ParseURL(spec)
	if !ok {
		return docstore.Dir(spec), nil
	}
	var opts []option.ClientOption
	if token != "" {
		opts = append(opts, gcs.WithToken(token))
	}
	fsys, err := gcs.NewFS(ctx, bucket, opts...)
	if err != nil {
		return nil, err
	}
	return docstore.Sub(fsys, prefix), nil
}
