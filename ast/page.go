// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ast

import "github.com/TheClams/yarig/expr"

// RegDefOrIncl is either a local register definition or a reference
// to one included from another RIF's page ("rif.page.reg" or
// "rif.page.*").
type RegDefOrIncl struct {
	Def     *RegDef
	Include string
}

// AddressKind selects how a register instance's address is
// interpreted relative to the page's addressing cursor.
type AddressKind int

const (
	AddrAbsolute AddressKind = iota
	AddrRelative
	AddrRelativeSet
)

// FieldOverride customizes one field of an included register
// definition when instantiated, without altering the shared
// definition itself.
type FieldOverride struct {
	Description *Description
	Optional    expr.Tokens
	Visibility  *Visibility
	ResetIsSet  bool
	ResetVal    ResetVal
	Limit       *Limit
	Info        map[string]string
}

// RegOverride customizes one register instance's definition, keyed by
// array index (nil applies to every element) at the register level
// and, per field, by the field's own array index.
type RegOverride struct {
	Description *Description
	Optional    expr.Tokens
	Visibility  *Visibility
	HwAcc       *Access
	Fields      map[string]*FieldOverride
}

// RegOverrideDict maps an optional array index (nil covers every
// instance element) to its override settings.
type RegOverrideDict map[int]*RegOverride

// RegInst instantiates a register definition at an address within a
// page, optionally under a named hardware group and with per-instance
// overrides.
type RegInst struct {
	InstName     string
	TypeName     string
	GroupName    string
	AddrKind     AddressKind
	Addr         uint64
	Array        expr.Tokens
	RegOverride  RegOverrideDict
}

// NewRegInst builds a RegInst from the parser's raw tuple: when no
// explicit type is given the instance name doubles as the type name;
// the group defaults to the instance name only when a type name was
// given explicitly (an un-typed instance has no implicit group).
func NewRegInst(instName string, array expr.Tokens, typeName, groupName *string, addr *struct {
	Kind AddressKind
	Addr uint64
}) RegInst {
	ri := RegInst{
		InstName:    instName,
		TypeName:    instName,
		AddrKind:    AddrRelativeSet,
		Array:       array,
		RegOverride: RegOverrideDict{},
	}
	if typeName != nil {
		ri.TypeName = *typeName
		ri.GroupName = instName
	}
	if groupName != nil {
		ri.GroupName = *groupName
	}
	if addr != nil {
		ri.AddrKind = addr.Kind
		ri.Addr = addr.Addr
	}
	return ri
}

func fieldOverrideKey(name string, idx *int) string {
	if idx == nil {
		return name
	}
	return name + "[" + itoa(*idx) + "]"
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (ri *RegInst) fieldOverride(arrIdx *int, name string, fieldIdx *int) *FieldOverride {
	reg := ri.regOverride(arrIdx)
	key := fieldOverrideKey(name, fieldIdx)
	if reg.Fields == nil {
		reg.Fields = map[string]*FieldOverride{}
	}
	fo, ok := reg.Fields[key]
	if !ok {
		fo = &FieldOverride{Info: map[string]string{}}
		reg.Fields[key] = fo
	}
	return fo
}

func (ri *RegInst) regOverride(arrIdx *int) *RegOverride {
	key := -1
	if arrIdx != nil {
		key = *arrIdx
	}
	ro, ok := ri.RegOverride[key]
	if !ok {
		ro = &RegOverride{}
		ri.RegOverride[key] = ro
	}
	return ro
}

// DescUpdate appends a description line override, either to the
// register instance itself (fieldName == "") or to one of its fields.
func (ri *RegInst) DescUpdate(arrIdx *int, fieldName string, fieldIdx *int, line string) {
	if fieldName == "" {
		ro := ri.regOverride(arrIdx)
		if ro.Description == nil {
			d := NewDescription(line)
			ro.Description = &d
		} else {
			ro.Description.Update(line)
		}
		return
	}
	fo := ri.fieldOverride(arrIdx, fieldName, fieldIdx)
	if fo.Description == nil {
		d := NewDescription(line)
		fo.Description = &d
	} else {
		fo.Description.Update(line)
	}
}

// SetOptional overrides the optional-activation predicate of either
// the instance itself (fieldName == "") or one of its fields.
func (ri *RegInst) SetOptional(arrIdx *int, fieldName string, fieldIdx *int, tokens expr.Tokens) {
	if fieldName == "" {
		ri.regOverride(arrIdx).Optional = tokens
		return
	}
	ri.fieldOverride(arrIdx, fieldName, fieldIdx).Optional = tokens
}

// SetVisibility overrides the visibility of the instance itself
// (fieldName == "") or one of its fields.
func (ri *RegInst) SetVisibility(arrIdx *int, fieldName string, fieldIdx *int, vis Visibility) {
	if fieldName == "" {
		ri.regOverride(arrIdx).Visibility = &vis
		return
	}
	ri.fieldOverride(arrIdx, fieldName, fieldIdx).Visibility = &vis
}

// SetHwAcc overrides the instance's hardware access summary; this
// applies only at the register level, never per-field.
func (ri *RegInst) SetHwAcc(arrIdx *int, acc Access) {
	ri.regOverride(arrIdx).HwAcc = &acc
}

// SetReset overrides a field's reset value; a no-op at the register
// level, since only fields carry reset values.
func (ri *RegInst) SetReset(arrIdx *int, fieldName string, fieldIdx *int, v ResetVal) {
	if fieldName == "" {
		return
	}
	fo := ri.fieldOverride(arrIdx, fieldName, fieldIdx)
	fo.ResetIsSet = true
	fo.ResetVal = v
}

// SetLimit overrides a field's value limit; a no-op at the register
// level, since only fields carry limits.
func (ri *RegInst) SetLimit(arrIdx *int, fieldName string, fieldIdx *int, limit Limit) {
	if fieldName == "" {
		return
	}
	ri.fieldOverride(arrIdx, fieldName, fieldIdx).Limit = &limit
}

// AddInfo attaches a free-form key/value annotation to a field
// override; info on the register instance itself is not supported.
func (ri *RegInst) AddInfo(arrIdx *int, fieldName string, fieldIdx *int, key, value string) {
	if fieldName == "" {
		return
	}
	fo := ri.fieldOverride(arrIdx, fieldName, fieldIdx)
	fo.Info[key] = value
}

// RifPage groups register definitions and instances sharing an
// address offset within a RIF.
type RifPage struct {
	Name        string
	Addr        uint64
	ClkEn       ClkEn
	Description Description
	Optional    string
	Registers   []RegDefOrIncl
	Instances   []RegInst
	InstAuto    bool
	External    bool
	AddrWidth   int
}

func NewRifPage(name string) RifPage {
	return RifPage{Name: name}
}

// FindRegDef resolves a register or derived-interrupt-register name
// to its definition, walking the page's entries in declaration order
// and following each `include` reference into its RIF via lookup.
func (p RifPage) FindRegDef(name string, lookup func(rifName string) (*Rif, bool)) (*RegDef, InterruptRegKind, int, bool) {
	for _, r := range p.Registers {
		if r.Include != "" {
			if def, kind, idx, ok := resolveInclude(r.Include, name, lookup); ok {
				return def, kind, idx, true
			}
			continue
		}
		d := r.Def
		if d.Name == name {
			kind := InterruptRegBase
			if len(d.Interrupt) == 0 {
				kind = InterruptRegNone
			}
			return d, kind, 0, true
		}
		if len(d.Interrupt) == 0 || len(name) <= len(d.Name) || name[:len(d.Name)] != d.Name {
			continue
		}
		suffix := name[len(d.Name):]
		for idx, info := range d.Interrupt {
			prefix := ""
			if info.Name != "" {
				prefix = "_" + info.Name
			}
			if info.Enable != nil && suffix == prefix+"_en" {
				return d, InterruptRegEnable, idx, true
			}
			if info.Mask != nil && suffix == prefix+"_mask" {
				return d, InterruptRegMask, idx, true
			}
			if info.Pending && suffix == prefix+"_pending" {
				return d, InterruptRegPending, idx, true
			}
		}
	}
	return nil, InterruptRegNone, 0, false
}

func resolveInclude(include, name string, lookup func(string) (*Rif, bool)) (*RegDef, InterruptRegKind, int, bool) {
	parts := splitDot(include)
	if len(parts) < 3 || parts[2] == name || parts[2] == "*" {
		rif, ok := lookup(parts[0])
		if !ok {
			return nil, InterruptRegNone, 0, false
		}
		for _, page := range rif.Pages {
			if len(parts) == 1 || parts[1] == page.Name {
				if def, kind, idx, ok := page.FindRegDef(name, lookup); ok {
					return def, kind, idx, true
				}
			}
		}
	}
	return nil, InterruptRegNone, 0, false
}

func splitDot(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// FindRegInst returns the instance override block declared for a
// given register type name, if any.
func (p RifPage) FindRegInst(typeName string) (*RegInst, bool) {
	for i := range p.Instances {
		if p.Instances[i].TypeName == typeName {
			return &p.Instances[i], true
		}
	}
	return nil, false
}
