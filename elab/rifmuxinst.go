// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import (
	"sort"
	"strings"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/ordered"
	"github.com/TheClams/yarig/internal/yrerr"
	"github.com/TheClams/yarig/loader"
)

// Source resolves a Rif or Rifmux definition by name, tolerating the
// same rif_/_rif/rif_mux_/_rif_mux spelling variants a reference may
// use. loader.Source satisfies this interface.
type Source interface {
	GetRif(name string) (*ast.Rif, bool)
	GetRifmux(name string) (*ast.Rifmux, bool)
}

// RifExt is an externally-implemented address range referenced by a
// Rifmux item: it occupies address space but has no RIF definition of
// its own, generated as an opaque decode-only hole.
type RifExt struct {
	InstName    string
	AddrWidth   int
	Description ast.Description
}

// CompKind tags which concrete kind a Comp holds.
type CompKind int

const (
	CompRifmux CompKind = iota
	CompRif
	CompExternal
)

// Comp is one of a Rifmux's components: a nested Rifmux instance, a
// Rif instance, or an external address range. Exactly one of Rifmux/
// Rif/Ext is set, selected by Kind.
type Comp struct {
	Kind   CompKind
	Rifmux *RifmuxInst
	Rif    *RifInst
	Ext    *RifExt
}

func (c Comp) Name() string {
	switch c.Kind {
	case CompRifmux:
		return c.Rifmux.InstName
	case CompRif:
		return c.Rif.InstName
	default:
		return c.Ext.InstName
	}
}

func (c Comp) TypeName() string {
	switch c.Kind {
	case CompRifmux:
		return c.Rifmux.TypeName
	case CompRif:
		return c.Rif.TypeName
	default:
		return ""
	}
}

func (c Comp) AddrWidth() int {
	switch c.Kind {
	case CompRifmux:
		return c.Rifmux.AddrWidth
	case CompRif:
		return c.Rif.AddrWidth
	default:
		return c.Ext.AddrWidth
	}
}

func (c Comp) DescShort() string {
	switch c.Kind {
	case CompRifmux:
		return c.Rifmux.Description.Short()
	case CompRif:
		return c.Rif.Description.Short()
	default:
		return c.Ext.Description.Short()
	}
}

// CompInst is one instantiated component of a Rifmux: the component
// itself, its address (relative to its group, if any) and the group
// name it belongs to.
type CompInst struct {
	Inst   Comp
	Addr   uint64
	Group  string
	Suffix ast.SuffixInfo
}

// FullAddr resolves this instance's address against the enclosing
// Rifmux's resolved group list, adding the named group's base address
// when this instance belongs to one.
func (c *CompInst) FullAddr(groups []RifmuxGroupInst) uint64 {
	addr := c.Addr
	if c.Group == "" {
		return addr
	}
	for _, g := range groups {
		if g.Name == c.Group {
			return addr + g.Addr
		}
	}
	return addr
}

func (c *CompInst) IsExternal() bool { return c.Inst.Kind == CompExternal }

// GetRif returns the Rif instance this component wraps, if it is one.
func (c *CompInst) GetRif() (*RifInst, bool) {
	if c.Inst.Kind != CompRif {
		return nil, false
	}
	return c.Inst.Rif, true
}

// RifmuxGroupInst is one resolved address-offset group of a Rifmux
// instance: every CompInst naming this group as its Group adds this
// base address to its own.
type RifmuxGroupInst struct {
	Name        string
	Addr        uint64
	Description ast.Description
}

// BuildRifmuxGroupInsts resolves every declared group's address
// offset in declaration order, using the same running cursor plain
// component addressing uses (a group with a Relative/RelativeSet kind
// advances from the previous group's address, not from zero).
func BuildRifmuxGroupInsts(groups []ast.RifmuxGroup, params *expr.ParamValues) ([]RifmuxGroupInst, error) {
	out := make([]RifmuxGroupInst, 0, len(groups))
	cursor := NewInstAddr(0)
	for _, g := range groups {
		v, err := g.Addr.Resolve(params)
		if err != nil {
			return nil, err
		}
		addr := cursor.Update(uint64(v), g.AddrKind)
		out = append(out, RifmuxGroupInst{Name: g.Name, Addr: addr, Description: g.Description})
	}
	return out, nil
}

// RifmuxInst is the fully elaborated instance of one Rifmux: every
// item it declares resolved into a concrete component at a concrete
// address, sorted by full address.
type RifmuxInst struct {
	InstName    string
	TypeName    string
	AddrWidth   int
	DataWidth   int
	SwClocking  ast.ClockingInfo
	Description ast.Description
	Interface   ast.Interface
	Components  []CompInst
	Groups      []RifmuxGroupInst
	Top         *ast.RifmuxTop
}

// BuildRifmuxInst elaborates rifmux into a named instance: it
// resolves the Rifmux's own parameters, its address groups, then each
// item in turn — a plain external range, a nested Rif, or a nested
// Rifmux — scoping any top-level parameter override whose name is
// prefixed with the item's own name (e.g. "core.width") down to that
// item's own parameter space. Components end up sorted by resolved
// full address, matching the order the generated address decoder
// walks them in.
func BuildRifmuxInst(instName string, rifmux *ast.Rifmux, topParams *expr.ParamValues, src Source, suffixes map[string]ast.SuffixInfo, lookup RifLookup) (*RifmuxInst, error) {
	params := expr.NewParamValues()
	if err := params.Compile(rifmux.Parameters); err != nil {
		return nil, err
	}
	groups, err := BuildRifmuxGroupInsts(rifmux.Groups, params)
	if err != nil {
		return nil, err
	}

	rm := &RifmuxInst{
		InstName:    instName,
		TypeName:    rifmux.Name,
		AddrWidth:   rifmux.AddrWidth,
		DataWidth:   rifmux.DataWidth,
		SwClocking:  rifmux.SwClocking,
		Description: rifmux.Description,
		Interface:   rifmux.Interface,
		Top:         rifmux.Top,
		Groups:      groups,
	}

	cursor := NewInstAddr(0)
	for _, item := range rifmux.Items {
		offset, err := item.Addr.Resolve(params)
		if err != nil {
			return nil, err
		}
		addr := cursor.Update(uint64(offset), item.AddrKind)

		iParams := expr.NewParamValues()
		prefix := item.Name + "."
		topParams.Items(func(k string, v int) {
			if strings.HasPrefix(k, prefix) {
				iParams.Insert(strings.TrimPrefix(k, prefix), v)
			}
		})
		if err := iParams.Compile(itemParamDecls(item.Parameters)); err != nil {
			return nil, err
		}

		comp, suffix, err := buildRifmuxItem(&item, iParams, src, suffixes, lookup)
		if err != nil {
			return nil, err
		}
		rm.Components = append(rm.Components, CompInst{Inst: comp, Addr: addr, Group: item.Group, Suffix: suffix})
	}

	sort.SliceStable(rm.Components, func(i, j int) bool {
		return rm.Components[i].FullAddr(rm.Groups) < rm.Components[j].FullAddr(rm.Groups)
	})

	return rm, nil
}

func buildRifmuxItem(item *ast.RifmuxItem, iParams *expr.ParamValues, src Source, suffixes map[string]ast.SuffixInfo, lookup RifLookup) (Comp, ast.SuffixInfo, error) {
	if item.RifType.IsExt {
		return Comp{Kind: CompExternal, Ext: &RifExt{
			InstName:    item.Name,
			AddrWidth:   item.RifType.ExtBits,
			Description: item.Description,
		}}, ast.SuffixInfo{}, nil
	}
	typeName := item.RifType.RifName
	if rifDef, ok := src.GetRif(typeName); ok {
		suffix, ok := suffixes[item.Name]
		if !ok {
			suffix = item.Suffixes[""]
		}
		inst, err := BuildRifInst(item.Name, rifDef, iParams, lookup, item.Description.Text)
		if err != nil {
			return Comp{}, ast.SuffixInfo{}, err
		}
		return Comp{Kind: CompRif, Rif: inst}, suffix, nil
	}
	if muxDef, ok := src.GetRifmux(typeName); ok {
		sub, err := BuildRifmuxInst(item.Name, muxDef, iParams, src, item.Suffixes, lookup)
		if err != nil {
			return Comp{}, ast.SuffixInfo{}, err
		}
		return Comp{Kind: CompRifmux, Rifmux: sub}, ast.SuffixInfo{}, nil
	}
	return Comp{}, ast.SuffixInfo{}, yrerr.MissingDefError(0, "definition for "+typeName)
}

// BuildTop elaborates src's designated top-level definition (the first
// Rif or Rifmux declaration Load encountered) into a single Comp,
// scoping topParams the same way a Rifmux item would.
func BuildTop(src *loader.Source, topParams *expr.ParamValues, suffixes map[string]ast.SuffixInfo) (Comp, error) {
	lookup := func(name string) (*ast.Rif, bool) { return src.GetRif(name) }
	switch src.TopKind {
	case loader.TopRif:
		rif, ok := src.GetRif(src.TopName)
		if !ok {
			return Comp{}, yrerr.MissingDefError(0, "top RIF "+src.TopName)
		}
		inst, err := BuildRifInst(src.TopName, rif, topParams, lookup, "")
		if err != nil {
			return Comp{}, err
		}
		return Comp{Kind: CompRif, Rif: inst}, nil
	case loader.TopRifmux:
		rifmux, ok := src.GetRifmux(src.TopName)
		if !ok {
			return Comp{}, yrerr.MissingDefError(0, "top Rifmux "+src.TopName)
		}
		inst, err := BuildRifmuxInst(src.TopName, rifmux, topParams, src, suffixes, lookup)
		if err != nil {
			return Comp{}, err
		}
		return Comp{Kind: CompRifmux, Rifmux: inst}, nil
	default:
		return Comp{}, yrerr.New("no top RIF or Rifmux defined")
	}
}

// itemParamDecls adapts a Rifmux item's flat parameter-override map
// into the ordered declaration list ParamValues.Compile expects; order
// does not affect correctness here since every entry is a literal
// value override rather than a cross-referencing expression.
func itemParamDecls(overrides map[string]expr.Tokens) *ordered.Dict[string, expr.Tokens] {
	d := ordered.New[string, expr.Tokens]()
	for k, v := range overrides {
		d.Insert(k, v)
	}
	return d
}
