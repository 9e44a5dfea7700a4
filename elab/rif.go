// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import (
	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
)

// RifInst is the fully elaborated instance of one RIF: its
// instantiated pages/registers/fields, the shared per-group hardware
// implementation, the hardware register table and the inferred port
// list hardware must connect to it.
type RifInst struct {
	InstName    string
	TypeName    string
	AddrWidth   int
	DataWidth   int
	Description ast.Description
	Pages       []*RifPageInst
	RegImpls    *RegImplDict
	HwRegs      *HwRegs
	Ports       *PortList
	Params      *expr.ParamValues
	EnumDefs    []ast.EnumDef
}

// BuildRifInst elaborates rif into a named instance: it resolves the
// instance's parameter scope (an instance's own top-level parameters
// win over the definition's declared defaults), instantiates every
// page's registers, then builds the shared register implementations,
// the hardware register table and the port list from the resulting
// tree.
func BuildRifInst(instName string, rif *ast.Rif, topParams *expr.ParamValues, lookup RifLookup, description string) (*RifInst, error) {
	addrIncr := uint64(rif.DataWidth) >> 3
	params := topParams.Clone()
	if err := params.Compile(rif.Parameters); err != nil {
		return nil, err
	}

	var pages []*RifPageInst
	for i := range rif.Pages {
		p, err := buildRifPageInst(&rif.Pages[i], addrIncr, params, lookup)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}

	regImpls, err := BuildRegImplDict(rif, params, lookup)
	if err != nil {
		return nil, err
	}
	hwRegs := BuildHwRegs(pages, regImpls)
	ports := BuildPortList(rif, pages, regImpls, hwRegs)

	desc := rif.Description
	if description != "" {
		desc = ast.NewDescription(description)
	}

	return &RifInst{
		InstName:    instName,
		TypeName:    rif.Name,
		AddrWidth:   rif.AddrWidth,
		DataWidth:   rif.DataWidth,
		Description: desc,
		Pages:       pages,
		RegImpls:    regImpls,
		HwRegs:      hwRegs,
		Ports:       ports,
		Params:      params,
		EnumDefs:    rif.EnumDefs,
	}, nil
}

// GetHwReg looks up the hardware implementation of a register group by
// name.
func (r *RifInst) GetHwReg(name string) (*RegImpl, bool) {
	return r.RegImpls.Get(name)
}
