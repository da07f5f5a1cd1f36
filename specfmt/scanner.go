// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// A Scanner is a line cursor over a report document.
//
// The input is decoded as UTF-8 on a best-effort basis: ill-formed
// byte sequences are dropped rather than reported. Line terminators
// are not part of the returned lines.
type Scanner struct {
	s    *bufio.Scanner
	name string
	line int
	err  error // sticky; ErrEndOfInput once the input is exhausted

	watch func(line string)
}

const maxLineLen = 1 << 20

// NewScanner returns a Scanner reading from r. name is used in error
// messages; it is purely diagnostic.
func NewScanner(r io.Reader, name string) *Scanner {
	s := bufio.NewScanner(decode(r))
	s.Buffer(make([]byte, 0, 4096), maxLineLen)
	if name == "" {
		name = "<unknown>"
	}
	return &Scanner{s: s, name: name}
}

// decode returns a reader of r's UTF-8 text with ill-formed
// sequences dropped.
func decode(r io.Reader) io.Reader {
	return transform.NewReader(r, transform.Chain(
		runes.ReplaceIllFormed(),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	))
}

// NextLine returns the next line of input. At the end of input it
// returns ErrEndOfInput; an I/O error is returned as is. Either error
// is returned again by every later call.
func (s *Scanner) NextLine() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if !s.s.Scan() {
		s.err = s.s.Err()
		if s.err == nil {
			s.err = ErrEndOfInput
		}
		return "", s.err
	}
	s.line++
	line := s.s.Text()
	if s.watch != nil {
		s.watch(line)
	}
	return line, nil
}

// Watch arranges for f to be called with every line read from now
// on, including lines skipped by ScanUntil. Watch(nil) stops it.
func (s *Scanner) Watch(f func(line string)) {
	s.watch = f
}

// ScanUntil consumes lines up to and including the first one matching
// re and returns re's submatches in that line, with surrounding space
// trimmed. If re has no groups, the whole match is returned.
func (s *Scanner) ScanUntil(re *regexp.Regexp) ([]string, error) {
	for {
		line, err := s.NextLine()
		if err != nil {
			return nil, err
		}
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			m = m[1:]
		}
		groups := make([]string, len(m))
		for i, g := range m {
			groups[i] = strings.TrimSpace(g)
		}
		return groups, nil
	}
}

// Line returns the 1-based number of the last line returned.
func (s *Scanner) Line() int {
	return s.line
}

// Name returns the diagnostic name of the input.
func (s *Scanner) Name() string {
	return s.name
}

// wrap wraps err in a *DocumentError at the current line.
func (s *Scanner) wrap(err error) *DocumentError {
	return &DocumentError{FileName: s.name, Line: s.line, Err: err}
}

// A span is a half-open range of character columns. hi == toEOL
// extends the span to the end of the line.
type span struct {
	lo, hi int
}

const toEOL = -1

// column returns the characters of line in columns [lo, hi), clamped
// to the line like a Python slice. Columns count characters, not
// bytes.
func column(line string, lo, hi int) string {
	n := len(line)
	ascii := isASCII(line)
	var rs []rune
	if !ascii {
		rs = []rune(line)
		n = len(rs)
	}
	if hi == toEOL || hi > n {
		hi = n
	}
	if lo > n {
		lo = n
	}
	if lo >= hi {
		return ""
	}
	if ascii {
		return line[lo:hi]
	}
	return string(rs[lo:hi])
}

// field returns the trimmed contents of sp in line.
func field(line string, sp span) string {
	return strings.TrimSpace(column(line, sp.lo, sp.hi))
}

// width returns the number of characters in line.
func width(line string) int {
	if isASCII(line) {
		return len(line)
	}
	return utf8.RuneCountInString(line)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
