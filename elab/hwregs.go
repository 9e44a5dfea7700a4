// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import "github.com/TheClams/yarig/internal/ordered"

// HwRegInst summarizes every instantiation of one register group
// across a RIF's pages: how many instances exist, the port direction
// the group's hardware implementation needs, and whether any instance
// carries an interrupt source.
type HwRegInst struct {
	GroupType string
	Count     int
	Port      RegPortKind
	HasIntr   bool
}

// HwRegs is the per-group instantiation summary of a fully
// instantiated RIF, keyed by instance group name (first-instantiated
// order).
type HwRegs struct {
	*ordered.Dict[string, *HwRegInst]
}

// BuildHwRegs walks every instantiated register of every page and
// folds it into its group's summary, creating one on first sight.
func BuildHwRegs(pages []*RifPageInst, defs *RegImplDict) *HwRegs {
	hw := &HwRegs{ordered.New[string, *HwRegInst]()}
	for _, p := range pages {
		for _, r := range p.Regs {
			hr, ok := hw.Get(r.GroupName)
			if !ok {
				port := PortNone
				if impl, ok := defs.Get(r.GroupType); ok {
					port = impl.Port
				}
				hr = &HwRegInst{GroupType: r.GroupType, Port: port}
				hw.Insert(r.GroupName, hr)
			}
			hr.Count++
			if r.IsIntr() {
				hr.HasIntr = true
			}
		}
	}
	return hw
}
