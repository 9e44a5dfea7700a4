// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import (
	"testing"

	"github.com/TheClams/yarig/expr"
)

func TestBuildRifInstAutoAddressesAreMonotonic(t *testing.T) {
	src := `rif example "An example interface"
	dataWidth 32
	- ctrl: "Control page"
		instances auto
		registers
			- status : "Status register"
				- enable = 0 0:0 rw "Enable the block"
			- count[4] : "Counter bank"
				- value = 0 7:0 ro "Current count"
			- irq : "Interrupt status"
				interrupt
				- done = 0 0:0 rw "Done flag"
`
	res := mustParseRif(t, src)
	inst, err := BuildRifInst("top0", res.Rif, expr.NewParamValues(), noIncludes, "")
	if err != nil {
		t.Fatalf("BuildRifInst(): unexpected error: %v", err)
	}
	if len(inst.Pages) != 1 {
		t.Fatalf("len(Pages) = %d, want 1", len(inst.Pages))
	}
	regs := inst.Pages[0].Regs
	if len(regs) != 6 {
		t.Fatalf("len(Regs) = %d, want 6 (1 status + 4 count + 1 irq base)", len(regs))
	}
	for i := 1; i < len(regs); i++ {
		if regs[i].Addr <= regs[i-1].Addr {
			t.Errorf("regs[%d].Addr = %#x not strictly greater than regs[%d].Addr = %#x", i, regs[i].Addr, i-1, regs[i-1].Addr)
		}
	}
	if regs[0].Addr != 0 {
		t.Errorf("regs[0].Addr = %#x, want 0", regs[0].Addr)
	}
}

func TestBuildRifInstManualOverrideDisablesInstance(t *testing.T) {
	src := `rif example "An example interface"
	dataWidth 32
	- ctrl: "Control page"
		registers
			- status : "Status register"
				- enable = 0 0:0 rw "Enable the block"
		instances
			- status
				optional 0
`
	res := mustParseRif(t, src)
	inst, err := BuildRifInst("top0", res.Rif, expr.NewParamValues(), noIncludes, "")
	if err != nil {
		t.Fatalf("BuildRifInst(): unexpected error: %v", err)
	}
	if len(inst.Pages[0].Regs) != 0 {
		t.Fatalf("len(Regs) = %d, want 0 (instance disabled by optional override)", len(inst.Pages[0].Regs))
	}
}

func TestBuildHwRegsCountsInstances(t *testing.T) {
	src := `rif example "An example interface"
	dataWidth 32
	- ctrl: "Control page"
		instances auto
		registers
			- status[3] : "Status register"
				- enable = 0 0:0 rw "Enable the block"
`
	res := mustParseRif(t, src)
	inst, err := BuildRifInst("top0", res.Rif, expr.NewParamValues(), noIncludes, "")
	if err != nil {
		t.Fatalf("BuildRifInst(): unexpected error: %v", err)
	}
	hr, ok := inst.HwRegs.Get("status")
	if !ok {
		t.Fatal(`HwRegs.Get("status") not found`)
	}
	if hr.Count != 3 {
		t.Errorf("Count = %d, want 3", hr.Count)
	}
}
