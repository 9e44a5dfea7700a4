// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFollowsInclude(t *testing.T) {
	dir := t.TempDir()
	top := `rif top "Top interface"
	- ctrl: "Control page"
		registers
			include common_regs.shared.*
`
	shared := `rif common_regs "Shared registers"
	- shared: "Shared page"
		registers
			- status : "Status register"
				- enable = 0 0:0 rw "Enable the block"
`
	if err := os.WriteFile(filepath.Join(dir, "top.rif"), []byte(top), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rif_common_regs.rif"), []byte(shared), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Load(filepath.Join(dir, "top.rif"))
	if err != nil {
		t.Fatalf("Load(): unexpected error: %v", err)
	}
	if src.TopKind != TopRif || src.TopName != "top" {
		t.Fatalf("TopKind/TopName = %v/%q, want TopRif/\"top\"", src.TopKind, src.TopName)
	}
	if _, ok := src.Rifs["top"]; !ok {
		t.Fatal(`Rifs["top"] missing`)
	}
	rif, ok := src.GetRif("common_regs")
	if !ok {
		t.Fatal(`GetRif("common_regs") not found`)
	}
	if rif.Name != "common_regs" {
		t.Fatalf("rif.Name = %q, want %q", rif.Name, "common_regs")
	}
}

func TestLookupToleratesSpellingVariants(t *testing.T) {
	dict := map[string]int{"rif_foo": 1, "bar_rif": 2, "baz": 3}
	if v, ok := Lookup(dict, "foo"); !ok || v != 1 {
		t.Errorf(`Lookup(dict, "foo") = %d, %v, want 1, true`, v, ok)
	}
	if v, ok := Lookup(dict, "bar"); !ok || v != 2 {
		t.Errorf(`Lookup(dict, "bar") = %d, %v, want 2, true`, v, ok)
	}
	if v, ok := Lookup(dict, "baz"); !ok || v != 3 {
		t.Errorf(`Lookup(dict, "baz") = %d, %v, want 3, true`, v, ok)
	}
	if _, ok := Lookup(dict, "nope"); ok {
		t.Error(`Lookup(dict, "nope") found something, want false`)
	}
}
