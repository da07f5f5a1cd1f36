// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frequnit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// nameClock finds a clock value in a lower-cased CPU name. It accepts
// an optional opening parenthesis or slash, a model-revision "a"
// between number and unit, and an optional closing parenthesis.
var nameClock = regexp.MustCompile(`[(/]?(\d+(?:\.\d+)?)a? ?([mg]hz)\)?`)

// FromName extracts the clock frequency embedded in a free-text CPU
// name, such as "Intel Pentium 4 (2.4GHz)" or "Alpha 21164 450MHz",
// and returns it in megahertz. The first match wins.
func FromName(name string) (mhz float64, ok bool) {
	m := nameClock.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return Tidy(v, m[2])
}

// Parse parses a labeled clock frequency. A bare number is taken to
// be in megahertz; a number followed by a unit, such as "2.4 GHz", is
// converted to megahertz.
func Parse(s string) (mhz float64, err error) {
	s = strings.TrimSpace(s)
	num, unit := s, Unit
	if i := strings.LastIndexAny(s, "0123456789."); i >= 0 && i+1 < len(s) {
		num, unit = strings.TrimSpace(s[:i+1]), strings.TrimSpace(s[i+1:])
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("bad clock frequency %q", s)
	}
	mhz, ok := Tidy(v, unit)
	if !ok {
		return 0, fmt.Errorf("bad clock frequency unit %q in %q", unit, s)
	}
	return mhz, nil
}
