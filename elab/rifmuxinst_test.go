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

// testSource is a minimal elab.Source backed by two already-parsed
// files, standing in for a loader.Source in tests that don't need the
// filesystem-following behavior loader.Load provides.
type testSource struct {
	rifs    map[string]*ast.Rif
	rifmuxs map[string]*ast.Rifmux
}

func (s *testSource) GetRif(name string) (*ast.Rif, bool)    { r, ok := s.rifs[name]; return r, ok }
func (s *testSource) GetRifmux(name string) (*ast.Rifmux, bool) { r, ok := s.rifmuxs[name]; return r, ok }

func mustParseRifmux(t *testing.T, src string) *parser.Result {
	t.Helper()
	res, err := parser.ParseFile("test.rifmux", []byte(src))
	if err != nil {
		t.Fatalf("ParseFile(): unexpected error: %v", err)
	}
	if res.Rifmux == nil {
		t.Fatal("ParseFile(): expected a Rifmux result, got nil")
	}
	return res
}

func TestBuildRifmuxInstOneItem(t *testing.T) {
	coreSrc := `rif core "A core register interface"
	dataWidth 32
	- ctrl: "Control page"
		instances auto
		registers
			- status : "Status register"
				- enable = 0 0:0 rw "Enable the block"
`
	coreRes := mustParseRif(t, coreSrc)

	muxSrc := `rifmux top "Top level mux"
	addrWidth 16
	dataWidth 32
	map
		- core @0x1000 "Core instance"
`
	muxRes := mustParseRifmux(t, muxSrc)

	src := &testSource{
		rifs:    map[string]*ast.Rif{"core": coreRes.Rif},
		rifmuxs: map[string]*ast.Rifmux{},
	}
	lookup := func(name string) (*ast.Rif, bool) { return src.GetRif(name) }

	inst, err := BuildRifmuxInst("top0", muxRes.Rifmux, expr.NewParamValues(), src, map[string]ast.SuffixInfo{}, lookup)
	if err != nil {
		t.Fatalf("BuildRifmuxInst(): unexpected error: %v", err)
	}
	if len(inst.Components) != 1 {
		t.Fatalf("len(Components) = %d, want 1", len(inst.Components))
	}
	c := inst.Components[0]
	if c.Inst.Kind != CompRif {
		t.Fatalf("Components[0].Inst.Kind = %v, want CompRif", c.Inst.Kind)
	}
	if c.Addr != 0x1000 {
		t.Errorf("Components[0].Addr = %#x, want 0x1000", c.Addr)
	}
	rif, ok := c.GetRif()
	if !ok {
		t.Fatal("GetRif() = false, want true")
	}
	if rif.InstName != "core" {
		t.Errorf("rif.InstName = %q, want %q", rif.InstName, "core")
	}
}

func TestCompInstFullAddrAddsGroupOffset(t *testing.T) {
	groups := []RifmuxGroupInst{{Name: "bank0", Addr: 0x2000}}
	c := CompInst{Addr: 0x10, Group: "bank0"}
	if got := c.FullAddr(groups); got != 0x2010 {
		t.Errorf("FullAddr() = %#x, want 0x2010", got)
	}
	c2 := CompInst{Addr: 0x10}
	if got := c2.FullAddr(groups); got != 0x10 {
		t.Errorf("FullAddr() with no group = %#x, want 0x10", got)
	}
}
