// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specfmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readBlock(t *testing.T, l *propLayout, text string) properties {
	t.Helper()
	block, err := readProperties(NewScanner(strings.NewReader(text), "props"), l)
	if err != nil {
		t.Fatal(err)
	}
	return properties{block}
}

func TestPropertiesContinuation(t *testing.T) {
	p := readBlock(t, &props95, ""+
		"                                   SOFTWARE\n"+
		"                                   --------\n"+
		"   Compiler        : Acme C v1.0\n"+
		"                     for Linux\n"+
		"   Operating System: AcmeOS\n"+
		"\n"+
		"                                     NOTES\n"+
		"   Ignored         : after stop\n")
	if diff := cmp.Diff([]string{"Compiler", "Operating System"}, p.Keys()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if v, _ := p.get("Compiler"); v != "Acme C v1.0 for Linux" {
		t.Errorf("Compiler: got %q, want %q", v, "Acme C v1.0 for Linux")
	}
	if p.has("Ignored") {
		t.Errorf("property after stop marker was read")
	}
}

func TestPropertiesStripDots(t *testing.T) {
	p := readBlock(t, &props2017, ""+
		"            Max. MHz: 3700\n"+
		"             Nominal: 2400\n")
	if v, _ := p.get("Max MHz"); v != "3700" {
		t.Errorf("Max MHz: got %q, want 3700", v)
	}
}

func TestPropertiesEmpty(t *testing.T) {
	// A continuation with no current label and a label with no value
	// contribute nothing.
	p := readBlock(t, &props2006, ""+
		"                      orphan text\n"+
		"            CPU Name:\n"+
		"             CPU MHz: 2933\n")
	if p.has("CPU Name") {
		t.Errorf("empty property was stored")
	}
	_, err := p.get("CPU Name")
	var pe *PropertyError
	if !errors.As(err, &pe) || pe.Label != "CPU Name" {
		t.Errorf("get(CPU Name): got %v, want PropertyError", err)
	}
	if v, _ := p.get("CPU MHz"); v != "2933" {
		t.Errorf("CPU MHz: got %q", v)
	}
}
