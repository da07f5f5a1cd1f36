// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// CompanionFields are the fields a companion document supplies.
type CompanionFields struct {
	HWAvail string
	Tester  string
}

// A Companion locates the fields a CPU95 report lacks in a second
// document filed alongside it.
type Companion interface {
	Lookup(doc Document) (CompanionFields, error)
}

// HTMLCompanion reads the HTML rendering of a report, stored next to
// it with the extension replaced by ".html".
type HTMLCompanion struct {
	// Open opens a companion by name. If nil, os.Open is used.
	Open func(name string) (io.ReadCloser, error)
}

var (
	companionHWAvail = regexp.MustCompile(`Hardware Avail:\s+<TD align=left>([^\s]+)\s`)
	companionTester  = regexp.MustCompile(`(?m)Tested By:\s+<TD align=left>(.+)$`)
)

// CompanionName returns the name of the companion document of the
// report named name.
func CompanionName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
}

func (c HTMLCompanion) Lookup(doc Document) (CompanionFields, error) {
	name := CompanionName(doc.Name)
	open := c.Open
	if open == nil {
		open = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}
	f, err := open(name)
	if err != nil {
		return CompanionFields{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(decode(f))
	if err != nil {
		return CompanionFields{}, err
	}
	text := string(data)

	var cf CompanionFields
	m := companionHWAvail.FindStringSubmatch(text)
	if m == nil {
		return cf, &CompanionError{Name: name, Field: "Hardware Avail"}
	}
	cf.HWAvail = strings.TrimSpace(m[1])
	if m = companionTester.FindStringSubmatch(text); m == nil {
		return cf, &CompanionError{Name: name, Field: "Tested By"}
	}
	cf.Tester = strings.TrimSpace(m[1])
	return cf, nil
}
