// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"errors"
	"fmt"
)

// ErrEndOfInput is returned when a document ends before a required
// section, header field or aggregate row was found.
var ErrEndOfInput = errors.New("unexpected end of input")

// A PropertyError reports a required property that could not be
// found in a report.
type PropertyError struct {
	Label string
	Msg   string // optional detail
}

func (e *PropertyError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("property %q: %s", e.Label, e.Msg)
	}
	return fmt.Sprintf("missing property %q", e.Label)
}

// A FamilyError reports an aggregate row whose label is not part of
// the dialect's benchmark family vocabulary.
type FamilyError struct {
	Label string
}

func (e *FamilyError) Error() string {
	return fmt.Sprintf("unknown benchmark family %q", e.Label)
}

// A CompanionError reports a companion document that does not carry
// a field the primary report lacked.
type CompanionError struct {
	Name  string // companion document name
	Field string
}

func (e *CompanionError) Error() string {
	return fmt.Sprintf("%s: no %q field", e.Name, e.Field)
}

// A DocumentError is a failure to extract records from one document.
// It is scoped to that document; a batch can continue past it.
type DocumentError struct {
	FileName string
	Line     int // 0 if the error is not tied to a line
	Err      error
}

func (e *DocumentError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *DocumentError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.FileName, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.FileName, e.Line, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
