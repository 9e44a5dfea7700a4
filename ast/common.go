// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package ast defines the typed tree the parser produces: the
// RIFMux → RIF → page → register → field hierarchy, plus the small
// value types (widths, reset values, access kinds) shared across it.
package ast

import (
	"fmt"
	"math/big"

	"github.com/TheClams/yarig/expr"
)

// Access is the simplified two-bit software/hardware access summary:
// not-accessible, read-only, write-only or read-write.
type Access int

const (
	AccessNA Access = iota
	AccessRO
	AccessWO
	AccessRW
)

// Join computes the access lattice used when merging the access of
// several fields/ports into one summary: NA is the identity, RW is
// absorbing, and RO joined with WO promotes to RW.
func (a Access) Join(b Access) Access {
	if a == AccessNA {
		return b
	}
	if b == AccessNA {
		return a
	}
	if a == b {
		return a
	}
	return AccessRW
}

func (a Access) String() string {
	switch a {
	case AccessNA:
		return "NA"
	case AccessRO:
		return "RO"
	case AccessWO:
		return "WO"
	case AccessRW:
		return "RW"
	}
	return "?"
}

// Visibility controls whether a field/register appears in generated
// documentation and public headers.
type Visibility int

const (
	VisibilityFull Visibility = iota
	VisibilityHidden
	VisibilityReserved
	VisibilityDisabled
)

// Width is either a fixed bit count or a reference to a declared
// parameter/generic resolved at elaboration time.
type Width struct {
	Value int
	Param string
}

func WidthValue(v int) Width  { return Width{Value: v} }
func WidthParam(p string) Width { return Width{Param: p} }

func (w Width) IsParam() bool { return w.Param != "" }

// Resolve returns the concrete bit count of w given a resolved
// parameter scope.
func (w Width) Resolve(params *expr.ParamValues) (int, error) {
	if !w.IsParam() {
		return w.Value, nil
	}
	v, ok := params.Get(w.Param)
	if !ok {
		return 0, fmt.Errorf("width: unresolved parameter %q", w.Param)
	}
	return v, nil
}

func (w Width) String() string {
	if w.IsParam() {
		return w.Param
	}
	return fmt.Sprintf("%d", w.Value)
}

// Add combines two widths: the result stays a fixed value only if
// both operands are; otherwise it becomes a symbolic sum, matching
// the original generator's width-arithmetic used when deriving a
// field's position from its neighbors.
func (w Width) Add(o Width) Width {
	if !w.IsParam() && !o.IsParam() {
		return WidthValue(w.Value + o.Value)
	}
	return WidthParam(fmt.Sprintf("%s+%s", w, o))
}

func (w Width) Sub(o Width) Width {
	if !w.IsParam() && !o.IsParam() {
		return WidthValue(w.Value - o.Value)
	}
	return WidthParam(fmt.Sprintf("%s-%s", w, o))
}

// ResetKind distinguishes the three ways a reset value can be given.
type ResetKind int

const (
	ResetUnsigned ResetKind = iota
	ResetSigned
	ResetParamRef
)

// ResetVal is a field's power-up value: an unsigned or signed integer
// literal, or a reference to a parameter resolved at elaboration.
type ResetVal struct {
	Kind  ResetKind
	Value *big.Int
	Param string
}

func ResetUnsignedValue(v int64) ResetVal {
	return ResetVal{Kind: ResetUnsigned, Value: big.NewInt(v)}
}

func ResetSignedValue(v int64) ResetVal {
	return ResetVal{Kind: ResetSigned, Value: big.NewInt(v)}
}

func ResetParam(name string) ResetVal {
	return ResetVal{Kind: ResetParamRef, Param: name}
}

func (r ResetVal) IsSigned() bool { return r.Kind == ResetSigned }

// ToUint resolves r to its unsigned, width-masked representation.
// Calling it on a Param-kind value is a programming error: by the
// time reset values feed code generation they must already be
// elaborated against a parameter scope.
func (r ResetVal) ToUint(width int) *big.Int {
	if r.Kind == ResetParamRef {
		panic(fmt.Sprintf("ToUint called on unresolved reset parameter %q", r.Param))
	}
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
	return new(big.Int).And(r.Value, mask)
}

// LimitKind classifies the kind of restriction placed on a writable
// field's legal values.
type LimitKind int

const (
	LimitNone LimitKind = iota
	LimitMin
	LimitMax
	LimitMinMax
	LimitList
	LimitEnum
)

// Limit restricts the values software may legally write to a field,
// optionally bypassable through a named signal.
type Limit struct {
	Kind   LimitKind
	Min    ResetVal
	Max    ResetVal
	List   []ResetVal
	Bypass string
}

func (l Limit) IsNone() bool { return l.Kind == LimitNone }

// EnumKind classifies a field's enum reference: none, a doc-only enum
// auto-named from its register/field, or a typed enum either
// auto-named or explicitly named.
type EnumKind struct {
	IsDoc bool
	IsSet bool
	Name  string
}

// NewEnumKind mirrors the three-way dispatch the parser performs on
// the raw enum keyword: "" means document-only, "type" means an
// auto-generated type name, anything else is used verbatim as the
// type name.
func NewEnumKind(kind, regName, fieldName string) EnumKind {
	switch kind {
	case "":
		return EnumKind{IsDoc: true, IsSet: true, Name: fmt.Sprintf("doc:%s_%s", regName, fieldName)}
	case "type":
		return EnumKind{IsSet: true, Name: fmt.Sprintf("e_%s_%s", regName, fieldName)}
	default:
		return EnumKind{IsSet: true, Name: kind}
	}
}

// ClkEnKind distinguishes a field/register's clock-enable setting:
// inherited from its enclosing scope, explicitly disabled, or an
// explicit named signal.
type ClkEnKind int

const (
	ClkEnDefault ClkEnKind = iota
	ClkEnNone
	ClkEnSignal
)

type ClkEn struct {
	Kind   ClkEnKind
	Signal string
}

func (c ClkEn) IsDefault() bool { return c.Kind == ClkEnDefault }

// Lock names an optional signal gating write access to a field. A
// name starting with '.' refers to a port on the enclosing structure
// rather than another field in the same register.
type Lock struct {
	name string
}

func NewLock(name string) Lock { return Lock{name: name} }

func (l Lock) IsSet() bool { return l.name != "" }

// LocalName returns the lock name when it refers to a sibling field
// rather than an external port.
func (l Lock) LocalName() (string, bool) {
	if l.name == "" || l.name[0] == '.' {
		return "", false
	}
	for i := 0; i < len(l.name); i++ {
		if l.name[i] == '.' {
			return "", false
		}
	}
	return l.name, true
}

// PortName returns the external port name when the lock refers to one.
func (l Lock) PortName() (string, bool) {
	if len(l.name) > 0 && l.name[0] == '.' {
		return l.name[1:], true
	}
	return "", false
}

// FieldPosKind distinguishes the three ways a field's bit position
// may be declared.
type FieldPosKind int

const (
	PosMsbLsb FieldPosKind = iota
	PosLsbSize
	PosSize
)

// FieldPos is a field's bit position within its register, given as an
// msb/lsb pair, an lsb/size pair, or just a size (implicit lsb).
type FieldPos struct {
	Kind FieldPosKind
	A, B Width
}

func PosFromMsbLsb(msb, lsb Width) FieldPos { return FieldPos{Kind: PosMsbLsb, A: msb, B: lsb} }
func PosFromLsbSize(lsb, size Width) FieldPos { return FieldPos{Kind: PosLsbSize, A: lsb, B: size} }
func PosFromSize(size Width) FieldPos        { return FieldPos{Kind: PosSize, A: size} }

// Width resolves the bit width of a field position.
func (p FieldPos) Width(params *expr.ParamValues) (int, error) {
	switch p.Kind {
	case PosMsbLsb:
		msb, err := p.A.Resolve(params)
		if err != nil {
			return 0, err
		}
		lsb, err := p.B.Resolve(params)
		if err != nil {
			return 0, err
		}
		return msb - lsb + 1, nil
	case PosLsbSize:
		return p.B.Resolve(params)
	case PosSize:
		return p.A.Resolve(params)
	}
	return 0, fmt.Errorf("field position: unknown kind %d", p.Kind)
}

// Description holds a register/field/page's free-text description.
// The interrupt-derived sub-descriptions (enable/mask/pending) are
// kept separately, in InterruptDesc.
type Description struct {
	Text string
}

func NewDescription(text string) Description { return Description{Text: text} }

// Update sets the description, or appends line on a new line when one
// is already present; the parser calls it once per description
// attribute line, so repeated attributes accumulate.
func (d *Description) Update(line string) {
	if d.Text == "" {
		d.Text = line
		return
	}
	d.Text += "\n" + line
}

// Split returns the description's first line and the (possibly
// empty) remainder, used by the HTML emitter to show a short summary
// with an expandable detail section.
func (d Description) Split() (first, rest string) {
	for i := 0; i < len(d.Text); i++ {
		if d.Text[i] == '\n' {
			return d.Text[:i], d.Text[i+1:]
		}
	}
	return d.Text, ""
}

// Short returns only the description's first line.
func (d Description) Short() string {
	first, _ := d.Split()
	return first
}

// Interpolate expands $-substitutions in the description text against
// an array index, via the expression engine.
func (d Description) Interpolate(idx int) (string, error) {
	return expr.Interpolate(d.Text, idx)
}
