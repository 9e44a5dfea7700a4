// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import "github.com/TheClams/yarig/ast"

// PortDir is the direction of one inferred hardware port, relative to
// the generated register interface module.
type PortDir int

const (
	DirIn PortDir = iota
	DirOut
)

// PortInfo is one inferred top-level port of the generated hardware
// interface.
type PortInfo struct {
	Name  string
	Width int
	Dir   PortDir
	Desc  string
}

// PortList is the complete set of ports a RIF instance's generated
// hardware needs: clocking, per-field register access, and interrupt
// request lines.
type PortList struct {
	Clocks []PortInfo
	Resets []PortInfo
	ClkEns []PortInfo
	Regs   []PortInfo
	Irqs   []PortInfo
}

// BuildPortList infers the full port list of a RIF instance from its
// declared clocking domains and the hardware access direction of every
// field in its register implementations.
func BuildPortList(rif *ast.Rif, pages []*RifPageInst, defs *RegImplDict, hw *HwRegs) *PortList {
	pl := &PortList{}
	if rif.SwClocking.Clk != "" {
		pl.Clocks = append(pl.Clocks, PortInfo{Name: rif.SwClocking.Clk, Dir: DirIn, Desc: "Software-side clock"})
	}
	if rif.SwClocking.Rst.Name != "" {
		pl.Resets = append(pl.Resets, PortInfo{Name: rif.SwClocking.Rst.Name, Dir: DirIn, Desc: rif.SwClocking.Rst.Desc()})
	}
	if rif.SwClocking.En != "" {
		pl.ClkEns = append(pl.ClkEns, PortInfo{Name: rif.SwClocking.En, Dir: DirIn, Desc: "Software-side clock enable"})
	}
	for _, c := range rif.HwClocking {
		if c.Clk != "" {
			pl.Clocks = append(pl.Clocks, PortInfo{Name: c.Clk, Dir: DirIn, Desc: "Hardware-side clock"})
		}
		if c.Rst.Name != "" {
			pl.Resets = append(pl.Resets, PortInfo{Name: c.Rst.Name, Dir: DirIn, Desc: c.Rst.Desc()})
		}
		if c.En != "" {
			pl.ClkEns = append(pl.ClkEns, PortInfo{Name: c.En, Dir: DirIn, Desc: "Hardware clock enable"})
		}
	}

	defs.Items(func(name string, impl *RegImpl) {
		for _, f := range impl.Fields {
			desc := f.Description.Short()
			switch f.PortKind() {
			case PortIn:
				pl.Regs = append(pl.Regs, PortInfo{Name: name + "_" + f.Name, Width: f.Width, Dir: DirIn, Desc: desc})
			case PortOut:
				pl.Regs = append(pl.Regs, PortInfo{Name: name + "_" + f.Name, Width: f.Width, Dir: DirOut, Desc: desc})
			case PortInOut:
				pl.Regs = append(pl.Regs,
					PortInfo{Name: name + "_" + f.Name + "_i", Width: f.Width, Dir: DirIn, Desc: desc},
					PortInfo{Name: name + "_" + f.Name + "_o", Width: f.Width, Dir: DirOut, Desc: desc},
				)
			}
		}
		if impl.IsInterrupt() {
			pl.Irqs = append(pl.Irqs, PortInfo{Name: name + "_irq", Width: 1, Dir: DirOut, Desc: "Interrupt request"})
		}
	})
	return pl
}
