// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package elab builds the elaborated hardware model of a RIF: the
// per-group register implementation (RegImpl), the instantiated
// register/page/RIF tree (RifInst), the hardware register table
// (HwRegs) and the inferred port list (PortList), from the typed AST
// the parser produces.
package elab

import (
	"fmt"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/ordered"
	"github.com/TheClams/yarig/internal/yrerr"
)

// RegPortKind is the hardware-facing port direction a register (or
// one of its fields) requires: None is the lattice identity, In/Out
// are absorbed into InOut when both are seen.
type RegPortKind int

const (
	PortNone RegPortKind = iota
	PortIn
	PortOut
	PortInOut
)

// Join computes the lattice-join of two port directions.
func (k RegPortKind) Join(o RegPortKind) RegPortKind {
	if k == o {
		return k
	}
	if k == PortNone {
		return o
	}
	if o == PortNone {
		return k
	}
	return PortInOut
}

func (k RegPortKind) IsIn() bool  { return k == PortIn || k == PortInOut }
func (k RegPortKind) IsOut() bool { return k == PortOut || k == PortInOut }

// portFromAccess maps a field's hardware-access summary onto the port
// direction it requires: a field hardware may only write (AccessWO)
// needs an input port carrying the value in; one hardware may only
// read (AccessRO) needs an output port exposing the stored value.
func portFromAccess(acc ast.Access) RegPortKind {
	switch acc {
	case ast.AccessRO:
		return PortOut
	case ast.AccessWO:
		return PortIn
	case ast.AccessRW:
		return PortInOut
	default:
		return PortNone
	}
}

// FieldImpl is the hardware-side view of one field of a register
// group's implementation: its storage shape and every signal (clock,
// enable, clear, lock, write-modifier) that feeds it.
type FieldImpl struct {
	Name        string
	Width       int
	Array       int
	Signed      bool
	Reset       []ast.ResetVal
	Description ast.Description
	EnumKind    ast.EnumKind
	HwKind      []ast.FieldHwKind
	SwKind      ast.FieldSwKind
	HwAcc       ast.Access
	Clk         string
	ClkEn       ast.ClkEn
	Clear       string
	Lock        ast.Lock
	IntrDesc    *ast.InterruptDesc
	Limit       ast.Limit
	IsPartial   bool
}

func newFieldImpl(f ast.Field, params *expr.ParamValues) (FieldImpl, error) {
	w, err := f.Width(params)
	if err != nil {
		return FieldImpl{}, err
	}
	array := 0
	if f.Array.IsParam() || f.Array.Value != 0 {
		a, err := f.Array.Resolve(params)
		if err != nil {
			return FieldImpl{}, err
		}
		array = a
	}
	signed := false
	for _, r := range f.Reset {
		if r.IsSigned() {
			signed = true
		}
	}
	return FieldImpl{
		Name:        f.Name,
		Width:       w,
		Array:       array,
		Signed:      signed,
		Reset:       f.Reset,
		Description: f.Description,
		EnumKind:    f.EnumKind,
		HwKind:      f.HwKind,
		SwKind:      f.SwKind,
		HwAcc:       f.HwAcc,
		Clk:         f.Clk,
		ClkEn:       f.ClkEn,
		Clear:       f.Clear,
		Lock:        f.Lock,
		IntrDesc:    f.IntrDesc,
		Limit:       f.Limit,
		IsPartial:   f.Partial.Start != nil,
	}, nil
}

// IsSwWrite reports whether software can write this field.
func (f FieldImpl) IsSwWrite() bool { return f.SwKind.Tag != ast.SwReadOnly }

// HasWriteMod reports whether hardware drives this field through one
// of the write-modifier kinds (set/toggle/clear/we/wel).
func (f FieldImpl) HasWriteMod() bool {
	for _, k := range f.HwKind {
		if k.HasWriteMod() {
			return true
		}
	}
	return false
}

// IsCounter reports whether this field is a hardware counter.
func (f FieldImpl) IsCounter() bool {
	for _, k := range f.HwKind {
		if k.IsCounter() {
			return true
		}
	}
	return false
}

// IsHwWrite reports whether hardware can change this field's stored
// value, either through a write modifier, a counter, an interrupt
// source, or (for a single bit field) any non-read-only hardware kind.
func (f FieldImpl) IsHwWrite() bool {
	if f.Width > 1 {
		for _, k := range f.HwKind {
			if k.Tag != ast.HwReadOnly {
				return true
			}
		}
		return false
	}
	for _, k := range f.HwKind {
		if k.HasWriteMod() || k.IsCounter() || k.IsInterrupt() {
			return true
		}
	}
	return false
}

// PortKind computes the port direction this field requires: the
// access-derived direction, joined with In whenever hardware also
// drives the field through a write modifier, counter or interrupt
// source (those need an input signal beyond the plain access split).
func (f FieldImpl) PortKind() RegPortKind {
	k := portFromAccess(f.HwAcc)
	if f.HasWriteMod() || f.IsCounter() {
		k = k.Join(PortIn)
	}
	for _, hk := range f.HwKind {
		if hk.IsInterrupt() {
			k = k.Join(PortIn)
		}
	}
	return k
}

// RegHwCtrl is one register-wide control signal (a read/write pulse,
// or the register's own external-implementation flag).
type RegHwCtrl struct {
	Name     string
	Pulse    []ast.RegPulseKind
	External ast.ExternalKind
}

// IsExternal reports whether this register's storage is implemented
// outside the generated code.
func (c RegHwCtrl) IsExternal() bool { return c.External.IsRW() }

// RegImpl is the hardware implementation shared by every instance of
// a register group: its field layout, clocking, and the port
// direction hardware needs to interact with it.
type RegImpl struct {
	Name        string
	Description ast.Description
	RegsCtrl    []RegHwCtrl
	Fields      []FieldImpl
	Interrupt   []ast.InterruptInfo
	Clk         string
	Rst         string
	ClkEn       ast.ClkEn
	Clear       string
	Port        RegPortKind
	SwAccess    ast.Access
	HwAccess    ast.Access
	Pkg         string
}

// GetField looks up a field of the implementation by name.
func (r *RegImpl) GetField(name string) (*FieldImpl, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// IsInterrupt reports whether this register group carries at least
// one interrupt source.
func (r *RegImpl) IsInterrupt() bool { return len(r.Interrupt) > 0 }

// newRegImpl builds a fresh RegImpl from the first register
// definition seen for a group: its port direction starts from the
// register's declared external kind (an external register still
// needs a port to carry its value across the boundary) and is then
// joined with every field's own contribution.
func newRegImpl(reg *ast.RegDef, params *expr.ParamValues) (*RegImpl, error) {
	r := &RegImpl{
		Name:        reg.Group.Name,
		Description: reg.Description,
		Interrupt:   reg.Interrupt,
		Clk:         reg.Clk,
		Rst:         reg.Rst,
		ClkEn:       reg.ClkEn,
		Clear:       reg.Clear,
		Pkg:         reg.Group.Pkg,
	}
	if reg.External != ast.ExternalNone {
		r.Port = PortInOut
	}
	for _, f := range reg.Fields {
		fi, err := newFieldImpl(f, params)
		if err != nil {
			return nil, err
		}
		r.SwAccess = r.SwAccess.Join(swAccess(fi.SwKind))
		r.HwAccess = r.HwAccess.Join(fi.HwAcc)
		r.Port = r.Port.Join(fi.PortKind())
		r.Fields = append(r.Fields, fi)
	}
	r.RegsCtrl = append(r.RegsCtrl, RegHwCtrl{
		Name:     reg.Name,
		Pulse:    reg.Pulse,
		External: reg.External.WithAccess(r.SwAccess),
	})
	return r, nil
}

// swAccess summarizes a field's software access kind down to the
// simplified read/write/read-write lattice used for register-level
// access reporting.
func swAccess(k ast.FieldSwKind) ast.Access {
	if k.IsWriteOnly() {
		return ast.AccessWO
	}
	if k.Tag == ast.SwReadOnly {
		return ast.AccessRO
	}
	return ast.AccessRW
}

// mergeWith folds a second occurrence of the same register group into
// r: every field of reg is matched by name against r's existing
// fields (searched from the tail, so the most recently merged
// occurrence wins ties); an unmatched field is appended, a matched
// one is accepted only when both occurrences are partial declarations,
// otherwise the whole RIF compile fails.
func (r *RegImpl) mergeWith(reg *ast.RegDef, params *expr.ParamValues) error {
	if reg.Clk != "" && r.Clk != "" && reg.Clk != r.Clk {
		return yrerr.Newf("Register group %s has multiple clocks !", r.Name)
	}
	if reg.Clk != "" && r.Clk == "" {
		r.Clk = reg.Clk
	}
	for _, f := range reg.Fields {
		fi, err := newFieldImpl(f, params)
		if err != nil {
			return err
		}
		existing := findFieldFromTail(r.Fields, fi.Name)
		switch {
		case existing == nil:
			r.SwAccess = r.SwAccess.Join(swAccess(fi.SwKind))
			r.HwAccess = r.HwAccess.Join(fi.HwAcc)
			r.Port = r.Port.Join(fi.PortKind())
			r.Fields = append(r.Fields, fi)
		case fi.IsPartial && existing.IsPartial:
			// Partial redeclaration of the same field across group
			// occurrences: widen the hardware access rather than
			// erroring, the two halves describe the same storage.
			existing.HwAcc = existing.HwAcc.Join(fi.HwAcc)
			existing.HwKind = append(existing.HwKind, fi.HwKind...)
		default:
			return yrerr.Newf("Field %s.%s already defined in this register group. Missing partial definition ?", r.Name, fi.Name)
		}
	}
	r.RegsCtrl = append(r.RegsCtrl, RegHwCtrl{
		Name:     reg.Name,
		Pulse:    reg.Pulse,
		External: reg.External.WithAccess(r.SwAccess),
	})
	return nil
}

func findFieldFromTail(fields []FieldImpl, name string) *FieldImpl {
	for i := len(fields) - 1; i >= 0; i-- {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

// RegImplDict is the ordered set of register-group implementations
// built for one RIF, keyed by group name.
type RegImplDict struct {
	*ordered.Dict[string, *RegImpl]
}

func newRegImplDict() *RegImplDict {
	return &RegImplDict{ordered.New[string, *RegImpl]()}
}

// RifLookup resolves a RIF by name (tolerating spelling variants),
// used to follow an `include` reference into another RIF's pages.
type RifLookup func(name string) (*ast.Rif, bool)

// BuildRegImplDict walks every non-external page of rif in
// declaration order, building one RegImpl per register group: the
// first definition of a group creates it, later definitions of the
// same group (local or pulled in through an include) merge their
// fields in.
func BuildRegImplDict(rif *ast.Rif, params *expr.ParamValues, lookup RifLookup) (*RegImplDict, error) {
	dict := newRegImplDict()
	for _, page := range rif.Pages {
		if page.External {
			continue
		}
		if err := addPageRegs(dict, &page, params, lookup); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

func addPageRegs(dict *RegImplDict, page *ast.RifPage, params *expr.ParamValues, lookup RifLookup) error {
	for _, r := range page.Registers {
		if r.Include != "" {
			if err := addIncludedRegs(dict, r.Include, params, lookup); err != nil {
				return err
			}
			continue
		}
		def := r.Def
		if def.Ignored(params.Get) {
			continue
		}
		if err := addDef(dict, def, params); err != nil {
			return err
		}
	}
	return nil
}

// addIncludedRegs resolves an `include` reference ("rif.page.reg" or
// "rif.page.*") and folds the matching register definitions of the
// referenced RIF's page into dict, tagging each resulting group's
// package with the name of the RIF it came from.
func addIncludedRegs(dict *RegImplDict, include string, params *expr.ParamValues, lookup RifLookup) error {
	path := splitInclude(include)
	incRif, ok := lookup(path.rif)
	if !ok {
		return yrerr.MissingDefError(0, fmt.Sprintf("included RIF %s", path.rif))
	}
	for _, page := range incRif.Pages {
		if path.page != "" && path.page != page.Name {
			continue
		}
		for _, r := range page.Registers {
			if r.Include != "" {
				continue
			}
			def := r.Def
			if path.reg != "*" && path.reg != "" && path.reg != def.Name {
				continue
			}
			if def.Ignored(params.Get) {
				continue
			}
			def2 := *def
			def2.Group.Pkg = incRif.Name
			if err := addDef(dict, &def2, params); err != nil {
				return err
			}
		}
	}
	return nil
}

func addDef(dict *RegImplDict, def *ast.RegDef, params *expr.ParamValues) error {
	name := def.Group.Name
	if existing, ok := dict.Get(name); ok {
		return existing.mergeWith(def, params)
	}
	impl, err := newRegImpl(def, params)
	if err != nil {
		return err
	}
	dict.Insert(name, impl)
	return nil
}

type includePath struct {
	rif, page, reg string
}

// splitInclude parses an include reference of the form "rif", "rif.page"
// or "rif.page.reg" (reg may be "*" for every register of the page).
func splitInclude(s string) includePath {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	p := includePath{}
	if len(parts) > 0 {
		p.rif = parts[0]
	}
	if len(parts) > 1 {
		p.page = parts[1]
	}
	if len(parts) > 2 {
		p.reg = parts[2]
	}
	return p
}
