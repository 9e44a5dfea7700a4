// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ast

import (
	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/ordered"
)

// Interface selects the processor-facing register bus protocol.
type Interface struct {
	Custom string // empty unless Kind == InterfaceCustom
	Kind   InterfaceKind
}

type InterfaceKind int

const (
	InterfaceDefault InterfaceKind = iota
	InterfaceApb
	InterfaceUaux
	InterfaceCustom
)

// ParseInterface resolves a textual interface keyword, matching
// unrecognized names to a custom interface named after themselves.
func ParseInterface(s string) Interface {
	switch toLower(s) {
	case "default":
		return Interface{Kind: InterfaceDefault}
	case "apb":
		return Interface{Kind: InterfaceApb}
	case "uaux":
		return Interface{Kind: InterfaceUaux}
	default:
		return Interface{Kind: InterfaceCustom, Custom: s}
	}
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func (i Interface) Name() string {
	switch i.Kind {
	case InterfaceDefault:
		return "rif"
	case InterfaceApb:
		return "apb"
	case InterfaceUaux:
		return "uaux"
	default:
		return i.Custom
	}
}

func (i Interface) IsDefault() bool { return i.Kind == InterfaceDefault }

// RifType selects whether a Rifmux item instantiates a declared Rif
// by name or a fixed-width externally-defined address range.
type RifType struct {
	RifName string
	ExtBits int
	IsExt   bool
}

// AddressOffset is an address that is either a literal or resolved
// from a parameter at elaboration time.
type AddressOffset struct {
	Value int64
	Param string
}

func (a AddressOffset) Resolve(params *expr.ParamValues) (int64, error) {
	if a.Param == "" {
		return a.Value, nil
	}
	v, ok := params.Get(a.Param)
	if !ok {
		return 0, errNotFound(a.Param)
	}
	return int64(v), nil
}

func errNotFound(name string) error {
	return &paramNotFoundError{name}
}

type paramNotFoundError struct{ name string }

func (e *paramNotFoundError) Error() string { return "unresolved parameter " + e.name }

// SuffixInfo configures a filename suffix applied to an instance's
// generated output files: the suffix text itself, whether it goes
// before (alt) or after the base name, and whether it also applies to
// the generated package name.
type SuffixInfo struct {
	Name   string
	AltPos bool
	Pkg    bool
}

// RifmuxItem instantiates a Rif (or an opaque external address range)
// inside a Rifmux.
type RifmuxItem struct {
	Name        string
	Group       string
	RifType     RifType
	AddrKind    AddressKind
	Addr        AddressOffset
	Description Description
	Parameters  map[string]expr.Tokens
	Suffixes    map[string]SuffixInfo
}

func NewRifmuxItem(name, group string, rifType RifType, addrKind AddressKind, addr AddressOffset, desc string) RifmuxItem {
	return RifmuxItem{
		Name:        name,
		Group:       group,
		RifType:     rifType,
		AddrKind:    addrKind,
		Addr:        addr,
		Description: NewDescription(desc),
		Parameters:  map[string]expr.Tokens{},
		Suffixes:    map[string]SuffixInfo{},
	}
}

func (it *RifmuxItem) AddParam(key string, tokens expr.Tokens) { it.Parameters[key] = tokens }

func (it *RifmuxItem) AddSuffix(key string, info SuffixInfo) { it.Suffixes[key] = info }

// RifmuxGroup groups several RifmuxItems under a shared address
// offset and name prefix.
type RifmuxGroup struct {
	Name        string
	AddrKind    AddressKind
	Addr        AddressOffset
	Description Description
}

// RifmuxTop configures the hardware top level generated to wire every
// item together, with a per-item signal-name prefix table.
type RifmuxTop struct {
	Name     string
	Prefixes map[string]string
}

func NewRifmuxTop(name string) RifmuxTop {
	return RifmuxTop{Name: name, Prefixes: map[string]string{}}
}

// Rifmux is the top-level container: a set of RIF (or nested Rifmux)
// instances sharing an address map and a software clocking scheme.
type Rifmux struct {
	Name        string
	AddrWidth   int
	DataWidth   int
	SwClocking  ClockingInfo
	Interface   Interface
	Items       []RifmuxItem
	Parameters  *ordered.Dict[string, expr.Tokens]
	Description Description
	Groups      []RifmuxGroup
	Top         *RifmuxTop
	Info        map[string]string
}

func NewRifmux(name string) Rifmux {
	return Rifmux{
		Name:       name,
		AddrWidth:  16,
		DataWidth:  32,
		SwClocking: DefaultClockingInfo(),
		Parameters: ordered.New[string, expr.Tokens](),
		Info:       map[string]string{},
	}
}

func (r *Rifmux) AddInfo(key, value string)        { r.Info[key] = value }
func (r *Rifmux) AddParam(key string, tok expr.Tokens) { r.Parameters.Insert(key, tok) }

// AddTopSuffix sets a per-instance signal prefix on the hardware top
// level, a no-op when no top level has been declared yet.
func (r *Rifmux) AddTopSuffix(key, val string) {
	if r.Top != nil {
		r.Top.Prefixes[key] = val
	}
}
