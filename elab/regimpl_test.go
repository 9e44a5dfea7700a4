// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import (
	"testing"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/parser"
)

func noIncludes(string) (*ast.Rif, bool) { return nil, false }

func mustParseRif(t *testing.T, src string) *parser.Result {
	t.Helper()
	res, err := parser.ParseFile("test.rif", []byte(src))
	if err != nil {
		t.Fatalf("ParseFile(): unexpected error: %v", err)
	}
	if res.Rif == nil {
		t.Fatal("ParseFile(): expected a Rif result, got nil")
	}
	return res
}

func TestBuildRegImplDictBasic(t *testing.T) {
	src := `rif example "An example interface"
	- ctrl: "Control page"
		registers
			- status : "Status register"
				- enable = 0 0:0 rw "Enable the block"
				- mode = 0 2:1 rw "Operating mode"
`
	res := mustParseRif(t, src)
	params := expr.NewParamValues()
	dict, err := BuildRegImplDict(res.Rif, params, noIncludes)
	if err != nil {
		t.Fatalf("BuildRegImplDict(): unexpected error: %v", err)
	}
	impl, ok := dict.Get("status")
	if !ok {
		t.Fatal(`dict.Get("status") not found`)
	}
	if len(impl.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(impl.Fields))
	}
	if impl.Fields[0].Name != "enable" || impl.Fields[1].Name != "mode" {
		t.Errorf("field names = %q, %q, want enable, mode", impl.Fields[0].Name, impl.Fields[1].Name)
	}
	if impl.Fields[1].Width != 2 {
		t.Errorf("mode.Width = %d, want 2", impl.Fields[1].Width)
	}
	if impl.Port.IsIn() {
		t.Errorf("Port = %v, want an output-only port for two rw fields driven by software", impl.Port)
	}
}

func TestBuildRegImplDictMergesRepeatedGroup(t *testing.T) {
	src := `rif example "An example interface"
	- ctrl: "Control page"
		registers
			- status : "Status register"
				- enable = 0 0:0 rw "Enable the block"
			- status2 (status) : "Second status instance"
				- busy = 0 1:1 ro "Hw busy flag"
`
	res := mustParseRif(t, src)
	params := expr.NewParamValues()
	dict, err := BuildRegImplDict(res.Rif, params, noIncludes)
	if err != nil {
		t.Fatalf("BuildRegImplDict(): unexpected error: %v", err)
	}
	impl, ok := dict.Get("status")
	if !ok {
		t.Fatal(`dict.Get("status") not found`)
	}
	if len(impl.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2 (merged from both occurrences)", len(impl.Fields))
	}
}

func TestRegPortKindJoin(t *testing.T) {
	cases := []struct {
		a, b, want RegPortKind
	}{
		{PortNone, PortNone, PortNone},
		{PortNone, PortIn, PortIn},
		{PortOut, PortNone, PortOut},
		{PortIn, PortOut, PortInOut},
		{PortInOut, PortIn, PortInOut},
	}
	for _, c := range cases {
		if got := c.a.Join(c.b); got != c.want {
			t.Errorf("%v.Join(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
