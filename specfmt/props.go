// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"strings"

	"github.com/Velocidex/ordereddict"
)

// A propLayout describes a dialect's labeled-property block.
//
// Each line with a colon in column colon starts a new label; the text
// left of the colon is the label and the text from column colon+2 on
// is a value fragment. Lines without the colon continue the current
// label, and their fragments are appended to its value.
type propLayout struct {
	colon int
	// skip lists section headers and rules ignored verbatim.
	skip []string
	// stop is the header of the section that ends the block.
	stop string
	// stripDots removes periods from labels, so "Max. MHz" is stored
	// as "Max MHz".
	stripDots bool
}

// readProperties reads the property block. The block ends at l.stop
// or at the end of input.
func readProperties(s *Scanner, l *propLayout) (*ordereddict.Dict, error) {
	props := ordereddict.NewDict()
	label := ""
	for {
		line, err := s.NextLine()
		if err == ErrEndOfInput {
			return props, nil
		} else if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == l.stop {
			return props, nil
		}
		if l.skipped(trimmed) {
			continue
		}
		if column(line, l.colon, l.colon+1) == ":" {
			label = field(line, span{0, l.colon})
		}
		desc := field(line, span{l.colon + 2, toEOL})
		if label == "" || desc == "" {
			continue
		}
		if l.stripDots {
			label = strings.ReplaceAll(label, ".", "")
		}
		if have, ok := props.GetString(label); ok {
			desc = have + " " + desc
		}
		props.Set(label, desc)
	}
}

func (l *propLayout) skipped(line string) bool {
	for _, s := range l.skip {
		if line == s {
			return true
		}
	}
	return false
}

// properties wraps a property block for required lookups.
type properties struct {
	*ordereddict.Dict
}

// get returns the value of label or a *PropertyError.
func (p properties) get(label string) (string, error) {
	v, ok := p.GetString(label)
	if !ok {
		return "", &PropertyError{Label: label}
	}
	return v, nil
}

func (p properties) has(label string) bool {
	_, ok := p.Get(label)
	return ok
}
