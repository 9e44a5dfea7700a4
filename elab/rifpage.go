// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package elab

import (
	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/yrerr"
)

// RifPageInst is one instantiated page of a RIF: its address and the
// registers instantiated within it, in address order.
type RifPageInst struct {
	Name        string
	Addr        uint64
	External    bool
	Description ast.Description
	Regs        []*RifRegInst
}

func (p *RifPageInst) addReg(r *RifRegInst) {
	if r != nil {
		p.Regs = append(p.Regs, r)
	}
}

// buildRifPageInst instantiates a page's registers, either by walking
// its explicit `instances` list (manual mode) or by deriving one
// instance per declared register in address order (auto mode).
func buildRifPageInst(page *ast.RifPage, addrIncr uint64, params *expr.ParamValues, lookup RifLookup) (*RifPageInst, error) {
	p := &RifPageInst{Name: page.Name, Addr: page.Addr, External: page.External, Description: page.Description}
	var err error
	if page.InstAuto {
		err = autoInstRegList(p, page.Registers, page, NewInstAddr(addrIncr), params, lookup)
	} else {
		err = manualInstRegs(p, page, addrIncr, params, lookup)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func manualInstRegs(p *RifPageInst, page *ast.RifPage, addrIncr uint64, params *expr.ParamValues, lookup RifLookup) error {
	cursor := NewInstAddr(addrIncr)
	astLookup := func(name string) (*ast.Rif, bool) { return lookup(name) }
	for i := range page.Instances {
		ri := &page.Instances[i]
		if ovr, ok := ri.RegOverride[-1]; ok && len(ovr.Optional) > 0 {
			v, err := expr.Eval(ovr.Optional, params)
			if err != nil {
				return err
			}
			if v == 0 {
				continue
			}
		}
		def, kind, idx, ok := page.FindRegDef(ri.TypeName, astLookup)
		if !ok {
			return yrerr.MissingDefError(0, "register definition for "+ri.TypeName)
		}
		nb := 1
		if len(ri.Array) > 0 {
			v, err := expr.Eval(ri.Array, params)
			if err != nil {
				return err
			}
			nb = v
		}
		if nb > 1 {
			cursor.Decr()
			for e := 0; e < nb; e++ {
				addr := cursor.Incr()
				args := regInstArgs{arrKind: ArrayInst, arrIdx: e, arrDim: nb, intrKind: kind, intrIdx: idx}
				inst, err := newRifRegInst(def, addr, ri, args, params)
				if err != nil {
					return err
				}
				p.addReg(inst)
			}
			continue
		}
		addr := cursor.Update(ri.Addr, ri.AddrKind)
		args := regInstArgs{intrKind: kind, intrIdx: idx}
		inst, err := newRifRegInst(def, addr, ri, args, params)
		if err != nil {
			return err
		}
		p.addReg(inst)
	}
	return nil
}

// autoInstRegList walks a page's declared registers in order,
// instantiating one (or, for an interrupt group or an array
// definition, several) RifRegInst per declaration; an `include *`
// recurses into the referenced RIF's matching page(s) using the same
// address cursor, so included registers interleave with local ones in
// declaration order.
func autoInstRegList(p *RifPageInst, regs []ast.RegDefOrIncl, originPage *ast.RifPage, cursor *InstAddr, params *expr.ParamValues, lookup RifLookup) error {
	for _, r := range regs {
		if r.Include != "" {
			path := splitInclude(r.Include)
			if path.reg != "*" && path.reg != "" {
				return yrerr.UnsupportedError(0, "single register include in an auto-instantiated page", r.Include)
			}
			incRif, ok := lookup(path.rif)
			if !ok {
				return yrerr.MissingDefError(0, "included RIF "+path.rif)
			}
			for pi := range incRif.Pages {
				pg := &incRif.Pages[pi]
				if path.page != "" && path.page != pg.Name {
					continue
				}
				if err := autoInstRegList(p, pg.Registers, pg, cursor, params, lookup); err != nil {
					return err
				}
			}
			continue
		}
		def := r.Def
		if def.Ignored(params.Get) {
			continue
		}
		var instPtr *ast.RegInst
		if inst, ok := originPage.FindRegInst(def.Name); ok {
			instPtr = inst
		}

		if len(def.Interrupt) > 0 {
			for idx, info := range def.Interrupt {
				addr := cursor.Incr()
				ri, err := newRifRegInst(def, addr, instPtr, regInstArgs{intrKind: ast.InterruptRegBase, intrIdx: idx, isAuto: true}, params)
				if err != nil {
					return err
				}
				p.addReg(ri)
				if info.Enable != nil {
					addr = cursor.Incr()
					ri, err = newRifRegInst(def, addr, instPtr, regInstArgs{intrKind: ast.InterruptRegEnable, intrIdx: idx, isAuto: true}, params)
					if err != nil {
						return err
					}
					p.addReg(ri)
				}
				if info.Mask != nil {
					addr = cursor.Incr()
					ri, err = newRifRegInst(def, addr, instPtr, regInstArgs{intrKind: ast.InterruptRegMask, intrIdx: idx, isAuto: true}, params)
					if err != nil {
						return err
					}
					p.addReg(ri)
				}
				if info.Pending {
					addr = cursor.Incr()
					ri, err = newRifRegInst(def, addr, instPtr, regInstArgs{intrKind: ast.InterruptRegPending, intrIdx: idx, isAuto: true}, params)
					if err != nil {
						return err
					}
					p.addReg(ri)
				}
			}
			continue
		}

		arraySize := 0
		if def.Array.IsParam() || def.Array.Value != 0 {
			v, err := def.Array.Resolve(params)
			if err != nil {
				return err
			}
			arraySize = v
		}
		if arraySize > 1 {
			for e := 0; e < arraySize; e++ {
				addr := cursor.Incr()
				ri, err := newRifRegInst(def, addr, instPtr, regInstArgs{arrKind: ArrayDef, arrIdx: e, arrDim: arraySize}, params)
				if err != nil {
					return err
				}
				p.addReg(ri)
			}
			continue
		}
		addr := cursor.Incr()
		ri, err := newRifRegInst(def, addr, instPtr, regInstArgs{}, params)
		if err != nil {
			return err
		}
		p.addReg(ri)
	}
	return nil
}
