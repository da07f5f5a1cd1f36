// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cpuhist/cpuhist/docstore"
)

// A Files parses a sequence of report documents.
//
// Each entry of Paths is either of the form folder=path, or a path
// whose parent directory names the folder, such as
// "cint2006/res2009q2-00001.txt". The folder selects the Dialect.
type Files struct {
	// Paths is the list of document names to read, relative to FS.
	Paths []string

	// FS is the store documents are read from. If nil, names are
	// resolved against the current directory.
	FS docstore.FS

	// Dialects maps folders to dialects. If nil, Dialects is
	// used with an HTMLCompanion reading from FS.
	Dialects map[string]Dialect

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet.
	inputs []input

	result Record
	err    error
}

type input struct {
	folder string
	path   string
}

func (f *Files) init() {
	f.inputs = []input{}
	if f.FS == nil {
		f.FS = docstore.Dir(".")
	}
	if f.Dialects == nil {
		f.Dialects = Dialects(HTMLCompanion{Open: f.open})
	}
	for _, p := range f.Paths {
		folder, name, ok := strings.Cut(p, "=")
		if !ok {
			name = p
			folder = path.Base(path.Dir(p))
		}
		f.inputs = append(f.inputs, input{folder, name})
	}
}

func (f *Files) open(name string) (io.ReadCloser, error) {
	return f.FS.Open(context.Background(), name)
}

// Scan advances to the next document and reports whether one was
// read. The caller should use Result to get the record. If Scan
// reaches the end of Paths, or if an I/O error occurs, it returns
// false; Err reports the latter.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		f.init()
	}
	if len(f.inputs) == 0 {
		return false
	}
	inp := f.inputs[0]
	f.inputs = f.inputs[1:]

	d, ok := f.Dialects[inp.folder]
	if !ok {
		f.result = &DocumentError{FileName: inp.path, Err: fmt.Errorf("unknown report folder %q", inp.folder)}
		return true
	}
	r, err := f.open(inp.path)
	if err != nil {
		f.err = err
		return false
	}
	defer r.Close()
	rep, err := d.Parse(NewDocument(inp.path, r))
	if err != nil {
		f.result = asDocumentError(inp.path, err)
	} else {
		f.result = rep
	}
	return true
}

func asDocumentError(name string, err error) *DocumentError {
	if de, ok := err.(*DocumentError); ok {
		return de
	}
	return &DocumentError{FileName: name, Err: err}
}

// Result returns the record that was just read by Scan. It is either
// a *Report or a *DocumentError. A *DocumentError concerns only its
// document; Scan may be called again to continue.
func (f *Files) Result() Record {
	return f.result
}

// Err returns the I/O error that stopped Scan, if any.
func (f *Files) Err() error {
	return f.err
}

// documentExt gives the extension of report documents in each folder.
// Other files, such as CPU95 companions, are skipped by Glob.
var documentExt = map[string]string{
	"cint95":   ".asc",
	"cint2000": ".asc",
	"cint2006": ".txt",
	"cint2017": ".txt",
}

// Glob returns the names of the report documents filed under folder
// in fsys, in sorted order.
func Glob(ctx context.Context, fsys docstore.FS, folder string) ([]string, error) {
	ext, ok := documentExt[folder]
	if !ok {
		return nil, fmt.Errorf("unknown report folder %q", folder)
	}
	names, err := fsys.List(ctx, folder)
	if err != nil {
		return nil, err
	}
	var docs []string
	for _, name := range names {
		if strings.EqualFold(path.Ext(name), ext) {
			docs = append(docs, name)
		}
	}
	return docs, nil
}

// Folders lists the report folders in the order their results were
// published.
var Folders = []string{"cint95", "cint2000", "cint2006", "cint2017"}
