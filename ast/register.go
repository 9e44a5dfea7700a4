// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ast

import "github.com/TheClams/yarig/internal/yrerr"

// RegPulseKindTag classifies a register-level pulse signal: strobed
// on write, on read, or on either access.
type RegPulseKindTag int

const (
	PulseOnWrite RegPulseKindTag = iota
	PulseOnRead
	PulseOnAccess
)

// RegPulseKind is a single register-wide pulse signal definition.
type RegPulseKind struct {
	Tag    RegPulseKindTag
	Signal string
}

// ExternalKind classifies how much of a register's storage/control
// logic is generated versus left to external hardware.
type ExternalKind int

const (
	ExternalNone ExternalKind = iota
	ExternalReadWrite
	ExternalRead
	ExternalWrite
	ExternalDone
)

// WithAccess refines a ReadWrite external register down to Read or
// Write once the register's actual field access is known; any other
// kind (already specific, or None) passes through unchanged.
func (k ExternalKind) WithAccess(access Access) ExternalKind {
	if k != ExternalReadWrite {
		return k
	}
	switch access {
	case AccessRO:
		return ExternalRead
	case AccessWO:
		return ExternalWrite
	case AccessRW:
		return ExternalReadWrite
	default:
		return ExternalNone
	}
}

func (k ExternalKind) IsRW() bool {
	return k == ExternalRead || k == ExternalWrite || k == ExternalReadWrite
}

// RegGroup names the hardware structure a register instance belongs
// to, optionally qualified by the package it was included from.
type RegGroup struct {
	Name string
	Pkg  string
}

func NewRegGroup(name, pkg string) RegGroup { return RegGroup{Name: name, Pkg: pkg} }

// RegDef is a register's type definition: its fields, interrupt
// groups and clocking, independent of where (or how many times) it is
// instantiated.
type RegDef struct {
	Name        string
	Group       RegGroup
	Description Description
	Pulse       []RegPulseKind
	Fields      []Field
	Interrupt   []InterruptInfo
	Visibility  Visibility
	Clk         string
	Rst         string
	ClkEn       ClkEn
	Clear       string
	Info        map[string]string
	Array       Width
	External    ExternalKind
	Optional    string
}

// NewRegDef creates a register definition; when no explicit group is
// given, the register's own name becomes its (ungrouped) group name.
func NewRegDef(name string, group *RegGroup, array Width, desc string) RegDef {
	g := RegGroup{Name: name}
	if group != nil {
		g = *group
	}
	return RegDef{
		Name:        name,
		Group:       g,
		Array:       array,
		Description: NewDescription(desc),
		Info:        map[string]string{},
	}
}

// AddField appends f to the register, propagating the register's
// first interrupt's trigger/clear settings onto it when the register
// is an interrupt register, and refining an external ReadWrite kind
// toward Read/Write as successive fields narrow the register's
// overall software access.
func (r *RegDef) AddField(f Field) {
	if len(r.Interrupt) > 0 {
		intr := r.Interrupt[0]
		f.SetIntr(InterruptInfoField{Trigger: &intr.Trigger, Clear: &intr.Clear})
	}
	if len(r.Fields) == 0 && r.External == ExternalReadWrite {
		switch f.SwKind.Tag {
		case SwReadClr, SwReadOnly:
			r.External = ExternalRead
		case SwWriteOnly:
			r.External = ExternalWrite
		}
	} else if r.External == ExternalRead {
		switch f.SwKind.Tag {
		case SwWriteOnly, SwW1Clr, SwW0Clr, SwW1Set, SwW1Tgl, SwW1Pulse, SwPassword:
			r.External = ExternalReadWrite
		}
	} else if r.External == ExternalWrite {
		switch f.SwKind.Tag {
		case SwReadClr, SwReadOnly, SwReadWrite:
			r.External = ExternalReadWrite
		}
	}
	r.Fields = append(r.Fields, f)
}

// DescIntrUpdate appends a description line to the named interrupt
// group's enable/mask/pending sub-description. Returns a NotIntr error
// if no interrupt group by that name exists on this register.
func (r *RegDef) DescIntrUpdate(name string, which InterruptRegKind, line string) error {
	for i := range r.Interrupt {
		if r.Interrupt[i].Name != name {
			continue
		}
		switch which {
		case InterruptRegEnable:
			r.Interrupt[i].Description.Enable.Update(line)
		case InterruptRegMask:
			r.Interrupt[i].Description.Mask.Update(line)
		case InterruptRegPending:
			r.Interrupt[i].Description.Pending.Update(line)
		}
		return nil
	}
	return yrerr.NotIntrError(0)
}

func (r *RegDef) AddInfo(key, value string) { r.Info[key] = value }
func (r *RegDef) Hidden()                   { r.Visibility = VisibilityHidden }
func (r *RegDef) Reserved()                 { r.Visibility = VisibilityReserved }

// Ignored reports whether this register instance is deactivated by
// its optional-parameter predicate evaluating to zero. A predicate
// whose parameter is not (yet) bound is treated as active, matching
// the source generator's conservative default.
func (r RegDef) Ignored(get func(name string) (int, bool)) bool {
	if r.Optional == "" {
		return false
	}
	v, ok := get(r.Optional)
	return ok && v == 0
}
