// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import (
	"math/big"
	"sort"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/yrerr"
)

// InstAddr is the running address cursor used while instantiating the
// registers of a page (or the components of a Rifmux): incr is the
// step one plain advance takes, base is the reference address that
// absolute, relative-set and plain advances move; a relative address
// is computed from base without moving it.
type InstAddr struct {
	base int64
	incr uint64
}

// NewInstAddr builds a cursor whose first Incr() call lands exactly on
// address 0.
func NewInstAddr(incr uint64) *InstAddr {
	return &InstAddr{base: -int64(incr), incr: incr}
}

// Update applies an explicit address-kind declaration (absolute,
// relative to the cursor, or relative-and-advance) and returns the
// resulting address.
func (a *InstAddr) Update(offset uint64, kind ast.AddressKind) uint64 {
	switch kind {
	case ast.AddrAbsolute:
		a.base = int64(offset)
		return offset
	case ast.AddrRelative:
		o := offset
		if o < a.incr {
			o = a.incr
		}
		return uint64(int64(o) + a.base)
	case ast.AddrRelativeSet:
		o := offset
		if o < a.incr {
			o = a.incr
		}
		a.base += int64(o)
		return uint64(a.base)
	}
	return uint64(a.base)
}

// Incr advances the cursor by one plain step and returns the new
// address.
func (a *InstAddr) Incr() uint64 {
	a.base += int64(a.incr)
	return uint64(a.base)
}

// Decr rewinds the cursor by one plain step, used to pre-position it
// before a manual-mode array loop that will call Incr once per
// element.
func (a *InstAddr) Decr() uint64 {
	a.base -= int64(a.incr)
	return uint64(a.base)
}

// ArrayIdxKind distinguishes where an instance's array index comes
// from: its own register definition's array property, or a manual
// page instance's array override.
type ArrayIdxKind int

const (
	ArrayNone ArrayIdxKind = iota
	ArrayDef
	ArrayInst
)

// ArrayIdx is the position of one element of an instantiated array:
// the element's index and the array's total size.
type ArrayIdx struct {
	Kind ArrayIdxKind
	Idx  int
	Dim  int
}

func (a ArrayIdx) IsDef() bool  { return a.Kind == ArrayDef }
func (a ArrayIdx) IsInst() bool { return a.Kind == ArrayInst }

// RifFieldInst is one field of an instantiated register: its resolved
// bit position, reset value and access kind.
type RifFieldInst struct {
	Name        string
	Lsb         int
	Width       int
	Reset       ast.ResetVal
	Description ast.Description
	EnumKind    ast.EnumKind
	HwKind      []ast.FieldHwKind
	SwKind      ast.FieldSwKind
	HwAcc       ast.Access
	Visibility  ast.Visibility
	Limit       ast.Limit
	Array       ArrayIdx
}

func (f RifFieldInst) Msb() int         { return f.Lsb + f.Width - 1 }
func (f RifFieldInst) IsSwWrite() bool  { return f.SwKind.Tag != ast.SwReadOnly }
func (f RifFieldInst) IsDisabled() bool { return f.Visibility == ast.VisibilityDisabled }

func (f RifFieldInst) IsHwWrite() bool {
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

// resolveFieldReset follows a parameter-referenced reset value to its
// concrete integer, preserving the sign of the resolved value.
func resolveFieldReset(r ast.ResetVal, params *expr.ParamValues) (ast.ResetVal, error) {
	if r.Kind != ast.ResetParamRef {
		return r, nil
	}
	v, ok := params.Get(r.Param)
	if !ok {
		return ast.ResetVal{}, yrerr.New("undefined parameter in reset value")
	}
	if v < 0 {
		return ast.ResetSignedValue(int64(v)), nil
	}
	return ast.ResetUnsignedValue(int64(v)), nil
}

// newRifFieldInst elaborates one field of a register instance. arr, if
// non-nil, is this field's position within a field-level array (the
// field declares its own `array` property); nextLsb is the running
// bit-position cursor shared across every field of the enclosing
// register, consumed only by a size-only field position.
func newRifFieldInst(f ast.Field, nextLsb *int, params *expr.ParamValues, arr *ArrayIdx) (RifFieldInst, error) {
	var lsb, width int
	switch f.Pos.Kind {
	case ast.PosMsbLsb:
		msb, err := f.Pos.A.Resolve(params)
		if err != nil {
			return RifFieldInst{}, err
		}
		l, err := f.Pos.B.Resolve(params)
		if err != nil {
			return RifFieldInst{}, err
		}
		lsb, width = l, msb-l+1
	case ast.PosLsbSize:
		l, err := f.Pos.A.Resolve(params)
		if err != nil {
			return RifFieldInst{}, err
		}
		w, err := f.Pos.B.Resolve(params)
		if err != nil {
			return RifFieldInst{}, err
		}
		lsb, width = l, w
	case ast.PosSize:
		w, err := f.Pos.A.Resolve(params)
		if err != nil {
			return RifFieldInst{}, err
		}
		lsb, width = *nextLsb, w
	}

	reset := ast.ResetUnsignedValue(0)
	if len(f.Reset) > 0 {
		reset = f.Reset[0]
	}
	desc := f.Description

	if arr != nil {
		incr := f.ArrayPosIncr
		if width > incr {
			incr = width
		}
		lsb += arr.Idx * incr
		rstIdx := arr.Idx
		if arr.IsDef() {
			rstIdx += arr.Dim
		}
		if rstIdx < len(f.Reset) {
			reset = f.Reset[rstIdx]
		}
		if d, err := f.Description.Interpolate(arr.Idx); err == nil {
			desc = ast.NewDescription(d)
		}
	}

	reset, err := resolveFieldReset(reset, params)
	if err != nil {
		return RifFieldInst{}, err
	}

	hwKind := append([]ast.FieldHwKind{}, f.HwKind...)
	auto, err := f.AutoHwKind(params)
	if err != nil {
		return RifFieldInst{}, err
	}
	if auto != nil {
		hwKind = append(hwKind, *auto)
	}

	*nextLsb += width

	array := ArrayIdx{}
	if arr != nil {
		array = *arr
	}
	return RifFieldInst{
		Name:        f.Name,
		Lsb:         lsb,
		Width:       width,
		Reset:       reset,
		Description: desc,
		EnumKind:    f.EnumKind,
		HwKind:      hwKind,
		SwKind:      f.SwKind,
		HwAcc:       f.HwAcc,
		Visibility:  f.Visibility,
		Limit:       f.Limit,
		Array:       array,
	}, nil
}

// regInstArgs selects how a single RifRegInst is built: as a plain
// singleton, as one element of an array, or as one of the registers an
// interrupt group derives.
type regInstArgs struct {
	arrKind  ArrayIdxKind
	arrIdx   int
	arrDim   int
	intrKind ast.InterruptRegKind
	intrIdx  int
	isAuto   bool
}

// RifRegInst is one instantiated register: its address, merged reset
// value and elaborated fields.
type RifRegInst struct {
	TypeName    string
	GroupType   string
	Name        string
	GroupName   string
	Addr        uint64
	Reset       *big.Int
	Fields      []RifFieldInst
	SwAccess    ast.Access
	HwAccess    ast.Access
	Pulse       []ast.RegPulseKind
	External    ast.ExternalKind
	Description ast.Description
	IntrKind    ast.InterruptRegKind
	IntrName    string
	Array       ArrayIdx
	Visibility  ast.Visibility
}

func (r *RifRegInst) IsExternal() bool    { return r.External.IsRW() }
func (r *RifRegInst) IsIntr() bool        { return r.IntrKind != ast.InterruptRegNone }
func (r *RifRegInst) IsIntrDerived() bool { return r.IntrKind.IsDerived() }

// GetField looks up an instantiated field by name.
func (r *RifRegInst) GetField(name string) (*RifFieldInst, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// newRifRegInst elaborates one register instance from its definition,
// address and optional page-instance override. It returns a nil
// instance (with a nil error) when an override's optional predicate
// evaluates to zero, meaning this instance is entirely deactivated.
func newRifRegInst(def *ast.RegDef, addr uint64, inst *ast.RegInst, args regInstArgs, params *expr.ParamValues) (*RifRegInst, error) {
	instName, groupName := def.Name, def.Group.Name
	if inst != nil {
		instName = inst.InstName
		groupName = inst.GroupName
		if groupName == "" {
			groupName = def.Group.Name
		}
	}

	intrName := ""
	if args.intrKind != ast.InterruptRegNone && args.intrIdx > 0 && args.intrIdx < len(def.Interrupt) && def.Interrupt[args.intrIdx].Name != "" {
		intrName = "_" + def.Interrupt[args.intrIdx].Name
	}
	altName := ""
	if args.isAuto {
		altName = intrName
	}
	suffix := ""
	if args.isAuto {
		suffix = args.intrKind.Suffix()
	}
	regName := instName + altName + suffix

	array := ArrayIdx{}
	if args.arrKind != ArrayNone {
		array = ArrayIdx{Kind: args.arrKind, Idx: args.arrIdx, Dim: args.arrDim}
	}

	desc := def.Description
	if array.Kind != ArrayNone {
		if d, err := def.Description.Interpolate(array.Idx); err == nil {
			desc = ast.NewDescription(d)
		}
	}

	r := &RifRegInst{
		TypeName:    def.Name,
		GroupType:   def.Group.Name,
		Name:        regName,
		GroupName:   groupName,
		Addr:        addr,
		Pulse:       def.Pulse,
		External:    def.External,
		Description: desc,
		IntrKind:    args.intrKind,
		IntrName:    intrName,
		Array:       array,
		Visibility:  def.Visibility,
	}

	nextLsb := 0
	for _, f := range def.Fields {
		arraySize := 0
		if f.Array.IsParam() || f.Array.Value != 0 {
			v, err := f.Array.Resolve(params)
			if err != nil {
				return nil, err
			}
			arraySize = v
		}
		nb := arraySize
		if nb < 1 {
			nb = 1
		}
		end := 0
		if f.Partial.Start != nil {
			end = f.Partial.End
		}
		offset := array.Idx*nb + end
		for i := 0; i < nb; i++ {
			var fieldArr *ArrayIdx
			if arraySize != 0 {
				kind := ArrayInst
				if array.IsDef() {
					kind = ArrayDef
				}
				fa := ArrayIdx{Kind: kind, Idx: i, Dim: offset}
				fieldArr = &fa
			}
			fi, err := newRifFieldInst(f, &nextLsb, params, fieldArr)
			if err != nil {
				return nil, err
			}
			r.SwAccess = r.SwAccess.Join(swAccess(fi.SwKind))
			r.HwAccess = r.HwAccess.Join(fi.HwAcc)
			r.Fields = append(r.Fields, fi)
		}
	}

	if args.intrKind.IsDerived() && args.intrIdx < len(def.Interrupt) {
		applyIntrDerived(r, def.Interrupt[args.intrIdx], args.intrKind)
	}

	if inst != nil {
		key := -1
		if array.Dim > 1 {
			key = array.Idx
		}
		if ovr, ok := inst.RegOverride[key]; ok {
			drop, err := applyRegOverride(r, ovr, array, params)
			if err != nil {
				return nil, err
			}
			if drop {
				return nil, nil
			}
		}
	}

	r.Reset = big.NewInt(0)
	for _, f := range r.Fields {
		v := f.Reset.ToUint(f.Width)
		r.Reset.Or(r.Reset, new(big.Int).Lsh(v, uint(f.Lsb)))
	}
	sort.SliceStable(r.Fields, func(i, j int) bool { return r.Fields[i].Lsb < r.Fields[j].Lsb })

	return r, nil
}

// applyIntrDerived overrides the base register's elaborated fields to
// describe one of its derived (enable/mask/pending) registers: the
// whole register becomes read-only when deriving the pending register,
// and loses its hardware write side since only software touches the
// derived views.
func applyIntrDerived(r *RifRegInst, intr ast.InterruptInfo, kind ast.InterruptRegKind) {
	var rst *ast.ResetVal
	switch kind {
	case ast.InterruptRegEnable:
		rst = intr.Enable
	case ast.InterruptRegMask:
		rst = intr.Mask
	}
	r.HwAccess = ast.AccessNA
	if kind.IsPending() {
		r.SwAccess = ast.AccessRO
	}
	for i := range r.Fields {
		if rst != nil {
			r.Fields[i].Reset = *rst
		}
		if kind.IsPending() {
			r.Fields[i].SwKind = ast.FieldSwKind{Tag: ast.SwReadOnly}
		}
		r.Fields[i].HwKind = nil
	}
}

// applyRegOverride layers a page-instance's per-instance customization
// onto an already-elaborated register instance; it returns drop=true
// when the override's optional predicate evaluates to zero, meaning
// the caller must discard the instance entirely.
func applyRegOverride(r *RifRegInst, ovr *ast.RegOverride, array ArrayIdx, params *expr.ParamValues) (bool, error) {
	if ovr.Description != nil {
		r.Description = *ovr.Description
	}
	if len(ovr.Optional) > 0 {
		v, err := expr.Eval(ovr.Optional, params)
		if err != nil {
			return false, err
		}
		if v == 0 {
			return true, nil
		}
	}
	if ovr.Visibility != nil {
		r.Visibility = *ovr.Visibility
	}
	if ovr.HwAcc != nil {
		r.HwAccess = *ovr.HwAcc
	}
	for name, fo := range ovr.Fields {
		fieldName := name
		if i := indexOfByte(name, '['); i >= 0 {
			fieldName = name[:i]
		}
		f, ok := r.GetField(fieldName)
		if !ok {
			return false, yrerr.Newf("Field %s must exist in %s", name, r.GroupType)
		}
		if fo.Description != nil {
			f.Description = *fo.Description
		}
		if len(fo.Optional) > 0 {
			v, err := expr.Eval(fo.Optional, params)
			if err != nil {
				return false, err
			}
			if v == 0 {
				f.Visibility = ast.VisibilityDisabled
			}
		}
		if fo.Visibility != nil {
			f.Visibility = *fo.Visibility
		}
		if fo.ResetIsSet {
			f.Reset = fo.ResetVal
		}
		if fo.Limit != nil {
			f.Limit = *fo.Limit
		}
	}
	_ = array
	return false, nil
}

func indexOfByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
