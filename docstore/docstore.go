// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package docstore provides the document store that fetched reports
// are cached in and parsed from.
//
// Names are slash-separated, like "cint2006/res2009q2-00001.txt".
package docstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// An FS stores documents by name.
type FS interface {
	// Open opens the named document for reading. If it does not
	// exist, the error satisfies errors.Is(err, fs.ErrNotExist).
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create returns a Writer for a new document. The document
	// is not visible until the Writer is closed.
	Create(ctx context.Context, name string) (Writer, error)

	// Exists reports whether the named document exists.
	Exists(ctx context.Context, name string) (bool, error)

	// List returns the names of the documents directly in dir, in
	// sorted order.
	List(ctx context.Context, dir string) ([]string, error)
}

// Writer is the interface for writing documents.
type Writer interface {
	io.Writer
	// CloseWithError cancels the writing of the document, removing
	// any partially written data.
	CloseWithError(error) error
	// Close completes writing the document.
	io.Closer
}

func notExist(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
}

// MemFS is an in-memory filesystem implementing the FS interface.
type MemFS struct {
	mu      sync.Mutex
	content map[string][]byte
}

// NewMemFS constructs a new, empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{content: make(map[string][]byte)}
}

func (m *MemFS) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.content[name]
	if !ok {
		return nil, notExist("open", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemFS) Create(_ context.Context, name string) (Writer, error) {
	return &memWriter{fs: m, name: name}, nil
}

func (m *MemFS) Exists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.content[name]
	return ok, nil
}

func (m *MemFS) List(_ context.Context, dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.content {
		if path.Dir(name) == path.Clean(dir) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

type memWriter struct {
	fs   *MemFS
	name string
	buf  bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	w.fs.content[w.name] = append([]byte(nil), w.buf.Bytes()...)
	return nil
}

func (w *memWriter) CloseWithError(error) error {
	return nil
}

// Dir is an FS rooted at a local directory.
type Dir string

func (d Dir) path(name string) string {
	return filepath.Join(string(d), filepath.FromSlash(name))
}

func (d Dir) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(d.path(name))
}

// Create writes to a temporary file in the destination directory and
// renames it into place on Close.
func (d Dir) Create(_ context.Context, name string) (Writer, error) {
	dst := d.path(name)
	if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return nil, err
	}
	return &dirWriter{File: f, dst: dst}, nil
}

func (d Dir) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(d.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (d Dir) List(_ context.Context, dir string) ([]string, error) {
	ents, err := os.ReadDir(d.path(dir))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, ent := range ents {
		if ent.IsDir() || strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		names = append(names, path.Join(dir, ent.Name()))
	}
	// ReadDir returns entries sorted by file name.
	return names, nil
}

type dirWriter struct {
	*os.File
	dst string
}

func (w *dirWriter) Close() error {
	if err := w.File.Close(); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	return os.Rename(w.File.Name(), w.dst)
}

func (w *dirWriter) CloseWithError(error) error {
	w.File.Close()
	return os.Remove(w.File.Name())
}

// Sub returns an FS whose names are relative to dir in fsys. If dir is
// empty, Sub returns fsys.
func Sub(fsys FS, dir string) FS {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return fsys
	}
	return &subFS{fsys, dir}
}

type subFS struct {
	fsys FS
	dir  string
}

func (s *subFS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.fsys.Open(ctx, path.Join(s.dir, name))
}

func (s *subFS) Create(ctx context.Context, name string) (Writer, error) {
	return s.fsys.Create(ctx, path.Join(s.dir, name))
}

func (s *subFS) Exists(ctx context.Context, name string) (bool, error) {
	return s.fsys.Exists(ctx, path.Join(s.dir, name))
}

func (s *subFS) List(ctx context.Context, dir string) ([]string, error) {
	names, err := s.fsys.List(ctx, path.Join(s.dir, dir))
	for i, name := range names {
		names[i] = strings.TrimPrefix(name, s.dir+"/")
	}
	return names, err
}

// ReadFile returns the contents of the named document.
func ReadFile(ctx context.Context, fsys FS, name string) ([]byte, error) {
	r, err := fsys.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteFile stores data as the named document.
func WriteFile(ctx context.Context, fsys FS, name string, data []byte) error {
	w, err := fsys.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.CloseWithError(err)
		return err
	}
	return w.Close()
}
