// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"

	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/ordered"
)

// ResetDef names a reset signal and its polarity/timing.
type ResetDef struct {
	Name       string
	Sync       bool
	ActiveHigh bool
}

// NewResetDef builds an asynchronous, active-low reset with the given
// name, the default shape used throughout the generator.
func NewResetDef(name string) ResetDef {
	return ResetDef{Name: name}
}

func DefaultResetDef() ResetDef { return NewResetDef("rst_n") }

// Desc renders a short human-readable description of the reset's
// timing and polarity, used as the default comment on generated
// reset ports.
func (r ResetDef) Desc() string {
	sync := "a"
	if r.Sync {
		sync = ""
	}
	polarity := "low"
	if r.ActiveHigh {
		polarity = "high"
	}
	return fmt.Sprintf("%ssynchronous reset, active %s", sync, polarity)
}

// ClockingInfo names the clock, reset, enable and clear signals of one
// clocking domain.
type ClockingInfo struct {
	Clk   string
	Rst   ResetDef
	En    string
	Clear string
}

func DefaultClockingInfo() ClockingInfo {
	return ClockingInfo{Clk: "clk", Rst: DefaultResetDef()}
}

// GenericRange is a generic parameter's declared (min, default, max)
// range. Positional declaration with 0-3+ numbers maps as: no values
// means everything defaults to 1; one value sets default and max;
// two set default and max; three or more set min, default and max
// explicitly.
type GenericRange struct {
	Min     int
	Default int
	Max     int
}

// NewGenericRange builds a GenericRange from the positional value
// list the parser collects for a `generic` declaration.
func NewGenericRange(values []int) GenericRange {
	switch len(values) {
	case 0:
		return GenericRange{Min: 1, Default: 1, Max: 1}
	case 1:
		return GenericRange{Min: 1, Default: values[0], Max: values[0]}
	case 2:
		return GenericRange{Min: 1, Default: values[0], Max: values[1]}
	default:
		return GenericRange{Min: values[0], Default: values[1], Max: values[2]}
	}
}

// Rif is one register-interface type: its address/data bus widths,
// software interface, clocking, pages of registers, enum and
// parameter/generic declarations.
type Rif struct {
	Name        string
	AddrWidth   int
	DataWidth   int
	Description Description
	Interface   Interface
	SuffixPkg   bool
	SwClocking  ClockingInfo
	HwClocking  []ClockingInfo
	Pages       []RifPage
	EnumDefs    []EnumDef
	Parameters  *ordered.Dict[string, expr.Tokens]
	Generics    map[string]GenericRange
	Info        map[string]string
}

func NewRif(name string) Rif {
	return Rif{
		Name:       name,
		AddrWidth:  16,
		DataWidth:  32,
		SwClocking: DefaultClockingInfo(),
		Parameters: ordered.New[string, expr.Tokens](),
		Generics:   map[string]GenericRange{},
		Info:       map[string]string{},
	}
}

func (r *Rif) AddParam(key string, tok expr.Tokens)      { r.Parameters.Insert(key, tok) }
func (r *Rif) AddGeneric(key string, rng GenericRange)    { r.Generics[key] = rng }
func (r *Rif) AddInfo(key, value string)                 { r.Info[key] = value }

// SetHwClk creates one hardware clocking domain per name when none are
// yet declared, or assigns index-for-index onto already-declared
// domains otherwise: the first such statement creates the domains,
// later ones only rename in place (names beyond the declared domains
// are ignored).
func (r *Rif) SetHwClk(names []string) {
	if len(r.HwClocking) == 0 {
		for _, n := range names {
			r.HwClocking = append(r.HwClocking, ClockingInfo{Clk: n})
		}
		return
	}
	for i, n := range names {
		if i < len(r.HwClocking) {
			r.HwClocking[i].Clk = n
		}
	}
}

func (r *Rif) SetHwClkEn(names []string) {
	if len(r.HwClocking) == 0 {
		for _, n := range names {
			r.HwClocking = append(r.HwClocking, ClockingInfo{En: n})
		}
		return
	}
	for i, n := range names {
		if i < len(r.HwClocking) {
			r.HwClocking[i].En = n
		}
	}
}

func (r *Rif) SetHwClear(names []string) {
	if len(r.HwClocking) == 0 {
		for _, n := range names {
			r.HwClocking = append(r.HwClocking, ClockingInfo{Clear: n})
		}
		return
	}
	for i, n := range names {
		if i < len(r.HwClocking) {
			r.HwClocking[i].Clear = n
		}
	}
}

func (r *Rif) SetHwRst(defs []ResetDef) {
	if len(r.HwClocking) == 0 {
		for _, d := range defs {
			r.HwClocking = append(r.HwClocking, ClockingInfo{Rst: d})
		}
		return
	}
	for i, d := range defs {
		if i < len(r.HwClocking) {
			r.HwClocking[i].Rst = d
		}
	}
}

// EnumDef is a reusable set of named integer values attached to a
// field, either locally scoped to this Rif or qualified by an
// enclosing package path ("pkg::name").
type EnumDef struct {
	Name    string
	Entries []EnumEntry
}

// EnumEntry is one named value of an EnumDef.
type EnumEntry struct {
	Name        string
	Value       int
	Description Description
}

// IsLocalType reports whether e's name is unqualified (contains no
// "::" package separator), used by the enum-prefix rule when
// generating its type name in SystemVerilog/C output.
func (e EnumDef) IsLocalType() bool {
	for i := 0; i+1 < len(e.Name); i++ {
		if e.Name[i] == ':' && e.Name[i+1] == ':' {
			return false
		}
	}
	return true
}
