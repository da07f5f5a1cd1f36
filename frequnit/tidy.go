// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frequnit normalizes processor clock frequencies to
// megahertz.
package frequnit

import "strings"

// Unit is the unit every tidied frequency is expressed in.
const Unit = "MHz"

// Tidy converts value in unit to megahertz. Units are matched
// case-insensitively. It reports false if unit is not a frequency
// unit.
func Tidy(value float64, unit string) (mhz float64, ok bool) {
	factor, ok := tidyFactor(unit)
	if !ok {
		return 0, false
	}
	return value * factor, true
}

// tidyFactor returns the multiplicative factor that converts a value
// in unit to megahertz.
func tidyFactor(unit string) (factor float64, ok bool) {
	// Fast path for the spelling reports use.
	switch unit {
	case "MHz":
		return 1, true
	case "GHz":
		return 1000, true
	}
	switch strings.ToLower(unit) {
	case "mhz":
		return 1, true
	case "ghz":
		return 1000, true
	case "khz":
		return 1e-3, true
	case "hz":
		return 1e-6, true
	}
	return 0, false
}
