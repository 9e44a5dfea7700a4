// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package parser turns one source file's text into a typed Rif or
// Rifmux declaration, following the line-oriented, indentation
// sensitive grammar: context is tracked on an explicit stack of
// (keyword-context, indentation-column) frames, popped whenever a
// line's indentation falls back below the frame's column.
package parser

import (
	"strings"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
)

// Result bundles what one source file contributes: the Rif or Rifmux
// it declares (exactly one of the two is set), plus every name it
// referenced that a loader must resolve against sibling files (page
// includes and rifmux map entries).
type Result struct {
	Rif    *ast.Rif
	Rifmux *ast.Rifmux
	Refs   []string
}

type onPop func()

// parser holds the mutable state of a single file's parse: its
// source split into lines, the current line number (1-based, for
// error attribution), the indentation-context stack and a matching
// stack of commit actions run as each frame pops, and the "current"
// builder pointers for whichever nested declaration is in progress.
type parser struct {
	filename string
	lines    []string
	lineNo   int
	frames   []Frame
	pops     []onPop
	err      error

	result Result

	page       *ast.RifPage
	reg        *ast.RegDef
	field      *ast.Field
	enum       *ast.EnumDef
	regInst    *ast.RegInst
	rifmuxGrp  *ast.RifmuxGroup
	rifmuxItem *ast.RifmuxItem

	// riArrIdx/riField/riFieldIdx carry the override target of the
	// register instance "info" block currently being parsed, so nested
	// "- key value" lines land on the right override instead of always
	// the instance itself.
	riArrIdx   *int
	riField    string
	riFieldIdx *int
}

// ParseFile parses one source file's contents into a Result.
func ParseFile(filename string, data []byte) (res *Result, err error) {
	p := &parser{filename: filename, lines: strings.Split(string(data), "\n")}
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(bailout); !ok {
				panic(e)
			}
			err = p.err
		}
	}()
	p.run()
	if p.err != nil {
		return nil, p.err
	}
	return &p.result, nil
}

func (p *parser) push(kind ctxKind, col int, pop onPop) {
	p.frames = append(p.frames, Frame{Kind: kind, Column: col})
	p.pops = append(p.pops, pop)
}

func (p *parser) top() (ctxKind, bool) {
	if len(p.frames) == 0 {
		return ctxKind{}, false
	}
	return p.frames[len(p.frames)-1].Kind, true
}

func (p *parser) popFrame() {
	if len(p.frames) == 0 {
		return
	}
	fn := p.pops[len(p.pops)-1]
	p.frames = p.frames[:len(p.frames)-1]
	p.pops = p.pops[:len(p.pops)-1]
	if fn != nil {
		fn()
	}
}

func (p *parser) run() {
	for p.lineNo < len(p.lines) {
		raw := p.lines[p.lineNo]
		p.lineNo++
		if isBlankOrComment(raw) {
			continue
		}
		ilvl, text, err := measureIndent(raw)
		if err != nil {
			p.fail(err)
		}
		for len(p.frames) > 0 && ilvl < p.frames[len(p.frames)-1].Column {
			p.popFrame()
		}
		p.dispatch(ilvl, text)
	}
	for len(p.frames) > 0 {
		p.popFrame()
	}
}

// dispatch handles one already-indentation-trimmed line under
// whichever context currently sits on top of the frame stack (or the
// file's top level, once the stack is empty).
func (p *parser) dispatch(ilvl int, line string) {
	top, ok := p.top()
	if !ok {
		p.dispatchTop(ilvl, line)
		return
	}
	switch top.Tag {
	case ctxRif:
		p.dispatchRif(ilvl, line)
	case ctxRifmux:
		p.dispatchRifmux(ilvl, line)
	case ctxParameters:
		p.dispatchParameters(line)
	case ctxGenerics:
		p.dispatchGenerics(line)
	case ctxInfo:
		p.dispatchInfo(line)
	case ctxItem: // Page
		p.dispatchPage(ilvl, line)
	case ctxRegisters:
		p.dispatchRegisters(ilvl, line)
	case ctxRegDecl:
		p.dispatchRegDecl(ilvl, line)
	case ctxField:
		p.dispatchField(ilvl, line)
	case ctxEnum:
		p.dispatchEnum(line)
	case ctxInstances:
		p.dispatchInstances(ilvl, line)
	case ctxRegInst:
		p.dispatchRegInstLine(ilvl, line)
	case ctxRifmuxMap, ctxRifmuxGroup:
		p.dispatchRifmuxMap(ilvl, line)
	case ctxRifmuxTop:
		p.dispatchRifmuxTop(line)
	case ctxRifInst:
		p.dispatchRifInst(ilvl, line)
	default:
		p.errorf("unexpected content under %v context", top.Tag)
	}
}

// dispatchTop handles the very first declaration of the file: exactly
// one `rif` or `rifmux` block, matching the common one-declaration-
// per-file layout this compiler's source files use.
func (p *parser) dispatchTop(ilvl int, line string) {
	kind, name, rest, ok := declTop(line)
	if !ok {
		p.errorf("expected 'rif' or 'rifmux' declaration")
		return
	}
	switch kind {
	case ctxRif:
		r := ast.NewRif(name)
		p.result.Rif = &r
		if rest != "" {
			p.result.Rif.Description = ast.NewDescription(scanDesc(rest))
		}
	case ctxRifmux:
		r := ast.NewRifmux(name)
		p.result.Rifmux = &r
		if rest != "" {
			p.result.Rifmux.Description = ast.NewDescription(scanDesc(rest))
		}
	}
	p.push(ck(kind), ilvl, nil)
}

func (p *parser) dispatchRif(ilvl int, line string) {
	k, rest, ok := rifPropertiesOrItem(line)
	if !ok {
		p.errorf("unrecognized rif declaration %q", line)
		return
	}
	rif := p.result.Rif
	switch k.Tag {
	case ctxDescription:
		rif.Description.Update(scanDesc(rest))
	case ctxParameters:
		p.push(k, ilvl+1, nil)
	case ctxGenerics:
		p.push(k, ilvl+1, nil)
	case ctxInfo:
		p.push(k, ilvl+1, nil)
	case ctxInterface:
		if id, ok := identifierLast(rest); ok {
			rif.Interface = ast.ParseInterface(id)
		}
	case ctxAddrWidth:
		if v, _, ok := scanUintLiteral(rest); ok {
			rif.AddrWidth = int(v)
		}
	case ctxDataWidth:
		if v, _, ok := scanUintLiteral(rest); ok {
			rif.DataWidth = int(v)
		}
	case ctxSwClock:
		if id, ok := identifierLast(rest); ok {
			rif.SwClocking.Clk = id
		}
	case ctxSwClkEn:
		if id, ok := identifierLast(rest); ok && !strings.EqualFold(id, "false") {
			rif.SwClocking.En = id
		}
	case ctxSwReset:
		if rd, ok := resetDef(rest); ok {
			rif.SwClocking.Rst = rd
		}
	case ctxSwClear:
		if id, ok := identifierLast(rest); ok {
			rif.SwClocking.Clear = id
		}
	case ctxHwClock:
		rif.SetHwClk(vecId(rest))
	case ctxHwClkEn:
		rif.SetHwClkEn(vecId(rest))
	case ctxHwReset:
		var defs []ast.ResetDef
		for _, name := range vecId(rest) {
			defs = append(defs, ast.NewResetDef(name))
		}
		rif.SetHwRst(defs)
	case ctxHwClear:
		rif.SetHwClear(vecId(rest))
	case ctxSuffixPkg:
		rif.SuffixPkg = boolOrDefault(rest, true)
	case ctxItem:
		pg := ast.NewRifPage(k.Name)
		if rest != "" {
			pg.Description = ast.NewDescription(scanDesc(rest))
		}
		p.page = &pg
		p.push(k, ilvl+1, func() {
			rif.Pages = append(rif.Pages, *p.page)
			p.page = nil
		})
	}
}

func (p *parser) dispatchRifmux(ilvl int, line string) {
	k, rest, ok := rifmuxProperties(line)
	if !ok {
		p.errorf("unrecognized rifmux declaration %q", line)
		return
	}
	rmx := p.result.Rifmux
	switch k.Tag {
	case ctxDescription:
		rmx.Description.Update(scanDesc(rest))
	case ctxInfo:
		p.push(k, ilvl+1, nil)
	case ctxSwClock:
		if id, ok := identifierLast(rest); ok {
			rmx.SwClocking.Clk = id
		}
	case ctxSwClkEn:
		if id, ok := identifierLast(rest); ok && !strings.EqualFold(id, "false") {
			rmx.SwClocking.En = id
		}
	case ctxSwReset:
		if rd, ok := resetDef(rest); ok {
			rmx.SwClocking.Rst = rd
		}
	case ctxInterface:
		if id, ok := identifierLast(rest); ok {
			rmx.Interface = ast.ParseInterface(id)
		}
	case ctxAddrWidth:
		if v, _, ok := scanUintLiteral(rest); ok {
			rmx.AddrWidth = int(v)
		}
	case ctxDataWidth:
		if v, _, ok := scanUintLiteral(rest); ok {
			rmx.DataWidth = int(v)
		}
	case ctxParameters:
		p.push(k, ilvl+1, nil)
	case ctxRifmuxMap:
		p.push(k, ilvl+1, nil)
	case ctxRifmuxTop:
		top := ast.NewRifmuxTop(rmx.Name)
		rmx.Top = &top
		p.push(k, ilvl+1, nil)
	}
}

func (p *parser) dispatchParameters(line string) {
	key, value, ok := keyVal(line)
	if !ok {
		p.errorf("expected '- name value' parameter entry")
		return
	}
	toks, err := expr.Parse(value)
	if err != nil {
		p.fail(err)
		return
	}
	switch {
	case p.rifmuxItem != nil:
		p.rifmuxItem.AddParam(key, toks)
	case p.regInst != nil:
		// Register-instance parameter overrides are parsed but not
		// modeled on RegInst; the top-level parameter dict must not
		// see them.
	case p.result.Rif != nil:
		p.result.Rif.AddParam(key, toks)
	case p.result.Rifmux != nil:
		p.result.Rifmux.AddParam(key, toks)
	}
}

func (p *parser) dispatchGenerics(line string) {
	key, value, ok := keyVal(line)
	if !ok {
		p.errorf("expected '- name values...' generic entry")
		return
	}
	p.result.Rif.AddGeneric(key, genericDef(value))
}

func (p *parser) dispatchInfo(line string) {
	key, value, ok := keyVal(line)
	if !ok {
		p.errorf("expected '- key value' info entry")
		return
	}
	switch {
	case p.regInst != nil:
		p.regInst.AddInfo(p.riArrIdx, p.riField, p.riFieldIdx, key, value)
	case p.field != nil:
		p.field.Info[key] = value
	case p.reg != nil:
		p.reg.AddInfo(key, value)
	case p.result.Rif != nil:
		p.result.Rif.AddInfo(key, value)
	case p.result.Rifmux != nil:
		p.result.Rifmux.AddInfo(key, value)
	}
}

func (p *parser) dispatchPage(ilvl int, line string) {
	k, rest, ok := pageProperties(line)
	if !ok {
		p.errorf("unrecognized page declaration %q", line)
		return
	}
	pg := p.page
	switch k.Tag {
	case ctxBaseAddress:
		if v, _, ok := scanUintLiteral(rest); ok {
			pg.Addr = v
		}
	case ctxAddrWidth:
		if v, _, ok := scanUintLiteral(rest); ok {
			pg.AddrWidth = int(v)
		}
	case ctxDescription:
		pg.Description.Update(scanDesc(rest))
	case ctxHwClkEn:
		pg.ClkEn = clkEn(rest)
	case ctxExternal:
		pg.External = boolOrDefault(rest, true)
	case ctxOptional:
		if id, ok := identifierLast(rest); ok {
			pg.Optional = id
		}
	case ctxInclude:
		p.result.Refs = append(p.result.Refs, strings.TrimSpace(rest))
		pg.Registers = append(pg.Registers, ast.RegDefOrIncl{Include: strings.TrimSpace(rest)})
	case ctxRegisters:
		p.push(k, ilvl+1, nil)
	case ctxInstances:
		pg.InstAuto = isAuto(rest)
		p.push(k, ilvl+1, nil)
	}
}

func (p *parser) dispatchRegisters(ilvl int, line string) {
	k, rest, ok := regInclOrDecl(line)
	if !ok {
		p.errorf("expected register declaration or include")
		return
	}
	if k.Tag == ctxInclude {
		ref := strings.TrimSpace(rest)
		p.result.Refs = append(p.result.Refs, ref)
		p.page.Registers = append(p.page.Registers, ast.RegDefOrIncl{Include: ref})
		return
	}
	def, err := regDecl(rest)
	if err != nil {
		p.fail(err)
		return
	}
	p.reg = &def
	p.push(ck(ctxRegDecl), ilvl+1, func() {
		p.page.Registers = append(p.page.Registers, ast.RegDefOrIncl{Def: p.reg})
		p.reg = nil
	})
}

func (p *parser) dispatchRegDecl(ilvl int, line string) {
	k, rest, ok := regPropertiesOrItem(line)
	if !ok {
		p.errorf("unrecognized register declaration %q", line)
		return
	}
	reg := p.reg
	switch k.Tag {
	case ctxDescription:
		reg.Description.Update(scanDesc(rest))
	case ctxDescIntrEnable, ctxDescIntrMask, ctxDescIntrPending:
		p.applyRegIntrDesc(reg, k.Tag, rest)
	case ctxPathStart:
		k2, rest2, ok2 := intrDesc(rest)
		if !ok2 {
			p.errorf("expected an enable/mask/pending description under interrupt group %q", k.Name)
			return
		}
		if err := reg.DescIntrUpdate(k.Name, descIntrKind(k2.Tag), scanDesc(rest2)); err != nil {
			p.fail(err)
		}
	case ctxHwClock:
		if id, ok := identifierLast(rest); ok {
			reg.Clk = id
		}
	case ctxHwReset:
		if id, ok := identifierLast(rest); ok {
			reg.Rst = id
		}
	case ctxHwClkEn:
		reg.ClkEn = clkEn(rest)
	case ctxHwClear:
		if id, ok := identifierLast(rest); ok {
			reg.Clear = id
		}
	case ctxExternalDone:
		reg.External = ast.ExternalDone
	case ctxExternal:
		if boolOrDefault(rest, true) {
			reg.External = ast.ExternalReadWrite
		}
	case ctxInterrupt:
		name, info, enable, mask, pending := regInterrupt(rest)
		intr := ast.InterruptInfo{Name: name, Enable: enable, Mask: mask, Pending: pending}
		if info.Trigger != nil {
			intr.Trigger = *info.Trigger
		}
		if info.Clear != nil {
			intr.Clear = *info.Clear
		}
		reg.Interrupt = append(reg.Interrupt, intr)
	case ctxInterruptAlt:
		reg.AddInfo("alt", strings.TrimSpace(rest))
	case ctxHidden:
		reg.Hidden()
	case ctxReserved:
		reg.Reserved()
	case ctxDisabled:
		reg.Visibility = ast.VisibilityDisabled
	case ctxOptional:
		if id, ok := identifierLast(rest); ok {
			reg.Optional = id
		}
	case ctxInfo:
		p.push(k, ilvl+1, nil)
	case ctxRegPulseWr:
		reg.Pulse = append(reg.Pulse, ast.RegPulseKind{Tag: ast.PulseOnWrite, Signal: regPulseInfo(rest)})
	case ctxRegPulseRd:
		reg.Pulse = append(reg.Pulse, ast.RegPulseKind{Tag: ast.PulseOnRead, Signal: regPulseInfo(rest)})
	case ctxRegPulseAcc:
		reg.Pulse = append(reg.Pulse, ast.RegPulseKind{Tag: ast.PulseOnAccess, Signal: regPulseInfo(rest)})
	case ctxItem:
		f, err := fieldDecl(rest)
		if err != nil {
			p.fail(err)
			return
		}
		p.field = &f
		p.push(ck(ctxField), ilvl+1, func() {
			reg.AddField(*p.field)
			p.field = nil
		})
	}
}

// descIntrKind maps a matched DescIntr* dispatch tag to its
// InterruptRegKind equivalent.
func descIntrKind(tag ctxTag) ast.InterruptRegKind {
	switch tag {
	case ctxDescIntrEnable:
		return ast.InterruptRegEnable
	case ctxDescIntrMask:
		return ast.InterruptRegMask
	case ctxDescIntrPending:
		return ast.InterruptRegPending
	}
	return ast.InterruptRegNone
}

func (p *parser) applyRegIntrDesc(reg *ast.RegDef, tag ctxTag, rest string) {
	name := ""
	if len(reg.Interrupt) > 0 {
		name = reg.Interrupt[len(reg.Interrupt)-1].Name
	}
	if err := reg.DescIntrUpdate(name, descIntrKind(tag), scanDesc(rest)); err != nil {
		p.fail(err)
	}
}

func (p *parser) dispatchField(ilvl int, line string) {
	k, rest, ok := fieldProperties(line)
	if !ok {
		p.errorf("unrecognized field declaration %q", line)
		return
	}
	f := p.field
	switch k.Tag {
	case ctxDescription:
		f.Description.Update(scanDesc(rest))
	case ctxDescIntrEnable:
		f.DescIntrUpdate(ast.InterruptRegEnable, scanDesc(rest))
	case ctxDescIntrMask:
		f.DescIntrUpdate(ast.InterruptRegMask, scanDesc(rest))
	case ctxDescIntrPending:
		f.DescIntrUpdate(ast.InterruptRegPending, scanDesc(rest))
	case ctxSwSet:
		if kind, _, ok := fieldSwKind(rest); ok {
			if err := f.SetSwKind(p.lineNo, kind); err != nil {
				p.fail(err)
			}
		}
	case ctxPulse:
		if err := f.SetSwKind(p.lineNo, ast.FieldSwKind{Tag: ast.SwW1Pulse}); err != nil {
			p.fail(err)
		}
	case ctxInterrupt:
		f.SetIntr(fieldInterrupt(rest))
	case ctxHidden:
		f.Hidden()
	case ctxReserved:
		f.Reserved()
	case ctxDisabled:
		f.Visibility = ast.VisibilityDisabled
	case ctxOptional:
		if id, ok := identifierLast(rest); ok {
			f.Optional = id
		}
	case ctxHwClock:
		if id, ok := identifierLast(rest); ok {
			f.Clk = id
		}
	case ctxHwClkEn:
		f.ClkEn = clkEn(rest)
	case ctxHwClear:
		if id, ok := identifierLast(rest); ok {
			f.Clear = id
		}
	case ctxHwSet:
		p.addHwKind(f, ast.FieldHwKind{Tag: ast.HwSet}, rest)
	case ctxHwClr:
		p.addHwKind(f, ast.FieldHwKind{Tag: ast.HwClear}, rest)
	case ctxHwTgl:
		p.addHwKind(f, ast.FieldHwKind{Tag: ast.HwToggle}, rest)
	case ctxHwAccess:
		if acc, ok := fieldAcc(rest); ok {
			f.HwAcc = acc
		}
	case ctxHwLock:
		if name, ok := signalNameLast(rest); ok {
			f.Lock = ast.NewLock(name)
		}
	case ctxSigned:
		f.Signed()
	case ctxToggle:
		if err := f.SetSwKind(p.lineNo, ast.FieldSwKind{Tag: ast.SwW1Tgl}); err != nil {
			p.fail(err)
		}
	case ctxHwWe:
		p.addHwKind(f, ast.FieldHwKind{Tag: ast.HwWriteEn}, rest)
	case ctxHwWel:
		p.addHwKind(f, ast.FieldHwKind{Tag: ast.HwWriteEnL}, rest)
	case ctxCounter:
		if err := f.SetHwKind(p.lineNo, ast.FieldHwKind{Tag: ast.HwCounter, Counter: counterDef(rest)}); err != nil {
			p.fail(err)
		}
	case ctxPartial:
		f.Partial.End = 0
		if v, r2, ok := scanUintLiteral(rest); ok {
			f.Partial.End = int(v)
			if v2, _, ok2 := scanUintLiteral(skipHSpace(r2)); ok2 {
				start := int(v2)
				f.Partial.Start = &start
			}
		}
	case ctxArrayPosIncr:
		if v, _, ok := scanUintLiteral(rest); ok {
			f.ArrayPosIncr = int(v)
		}
	case ctxArrayPartial:
		// Field array elements share one overlapping bit range; no
		// further per-line state beyond the attribute's presence.
	case ctxEnum:
		kindText := strings.TrimSpace(rest)
		ek := ast.NewEnumKind(kindText, p.reg.Name, f.Name)
		f.EnumKind = ek
		if ek.IsSet {
			ed := ast.EnumDef{Name: ek.Name}
			p.enum = &ed
			p.push(k, ilvl+1, func() {
				p.result.Rif.EnumDefs = append(p.result.Rif.EnumDefs, *p.enum)
				p.enum = nil
			})
		}
	case ctxLimit:
		lim, err := limitDef(rest)
		if err != nil {
			p.fail(err)
			return
		}
		f.Limit = lim
	case ctxPassword:
		info := passwordInfo(rest)
		if err := f.SetSwKind(p.lineNo, ast.FieldSwKind{Tag: ast.SwPassword, Password: info}); err != nil {
			p.fail(err)
		}
	}
}

func (p *parser) addHwKind(f *ast.Field, kind ast.FieldHwKind, rest string) {
	if name, ok := signalNameLast(rest); ok {
		kind.Signal = &name
	}
	if err := f.SetHwKind(p.lineNo, kind); err != nil {
		p.fail(err)
	}
}

func (p *parser) dispatchEnum(line string) {
	e, err := enumEntry(line)
	if err != nil {
		p.fail(err)
		return
	}
	p.enum.Entries = append(p.enum.Entries, e)
}

func (p *parser) dispatchInstances(ilvl int, line string) {
	ri, err := regInst(line)
	if err != nil {
		p.fail(err)
		return
	}
	p.regInst = &ri
	p.push(ck(ctxRegInst), ilvl+1, func() {
		p.page.Instances = append(p.page.Instances, *p.regInst)
		p.regInst = nil
	})
}

// dispatchRegInstLine handles one attribute or override-index prefix
// line under a register instance, supporting one level of override
// targeting: a bare register attribute, a "[idx]." register-array
// override, or a "field." / "field[idx]." field override.
func (p *parser) dispatchRegInstLine(ilvl int, line string) {
	k, rest, ok := regInstProperties(line)
	if !ok {
		p.errorf("unrecognized register instance override %q", line)
		return
	}
	switch k.Tag {
	case ctxRegIndex:
		idx := k.Index
		k2, rest2, ok2 := regInstArrayProperties(rest)
		if !ok2 {
			p.errorf("expected an attribute after '[%d].'", idx)
			return
		}
		p.applyRegInstAttr(ilvl, &idx, "", nil, k2, rest2)
	case ctxFieldIndex:
		idx := k.Index
		k2, rest2, ok2 := regInstFieldProperties(rest)
		if !ok2 {
			p.errorf("expected an attribute after '%s[%d].'", k.Name, idx)
			return
		}
		p.applyRegInstAttr(ilvl, nil, k.Name, &idx, k2, rest2)
	case ctxItem:
		k2, rest2, ok2 := regInstFieldProperties(rest)
		if !ok2 {
			p.errorf("expected an attribute after '%s.'", k.Name)
			return
		}
		p.applyRegInstAttr(ilvl, nil, k.Name, nil, k2, rest2)
	default:
		p.applyRegInstAttr(ilvl, nil, "", nil, k, rest)
	}
}

func (p *parser) applyRegInstAttr(ilvl int, arrIdx *int, fieldName string, fieldIdx *int, k ctxKind, rest string) {
	ri := p.regInst
	switch k.Tag {
	case ctxDescription:
		ri.DescUpdate(arrIdx, fieldName, fieldIdx, scanDesc(rest))
	case ctxParameters:
		p.push(k, ilvl+1, nil)
	case ctxInfo:
		p.riArrIdx, p.riField, p.riFieldIdx = arrIdx, fieldName, fieldIdx
		p.push(k, ilvl+1, func() {
			p.riArrIdx, p.riField, p.riFieldIdx = nil, "", nil
		})
	case ctxOptional:
		toks, err := expr.Parse(rest)
		if err != nil {
			p.fail(err)
			return
		}
		ri.SetOptional(arrIdx, fieldName, fieldIdx, toks)
	case ctxHidden:
		ri.SetVisibility(arrIdx, fieldName, fieldIdx, ast.VisibilityHidden)
	case ctxReserved:
		ri.SetVisibility(arrIdx, fieldName, fieldIdx, ast.VisibilityReserved)
	case ctxDisabled:
		ri.SetVisibility(arrIdx, fieldName, fieldIdx, ast.VisibilityDisabled)
	case ctxHwAccess:
		if acc, ok := fieldAcc(rest); ok {
			ri.SetHwAcc(arrIdx, acc)
		}
	case ctxHwReset:
		if v, _, ok := scanResetVal(rest); ok {
			ri.SetReset(arrIdx, fieldName, fieldIdx, v)
		}
	case ctxLimit:
		lim, err := limitDef(rest)
		if err != nil {
			p.fail(err)
			return
		}
		ri.SetLimit(arrIdx, fieldName, fieldIdx, lim)
	}
}

func (p *parser) dispatchRifmuxMap(ilvl int, line string) {
	k, rest, ok := rifmuxMap(line)
	if !ok {
		p.errorf("unrecognized rifmux map entry %q", line)
		return
	}
	switch k.Tag {
	case ctxRifmuxGroup:
		grp, err := rifmuxGroup(rest)
		if err != nil {
			p.fail(err)
			return
		}
		p.rifmuxGrp = &grp
		p.push(ck(ctxRifmuxGroup), ilvl+1, func() {
			p.result.Rifmux.Groups = append(p.result.Rifmux.Groups, *p.rifmuxGrp)
			p.rifmuxGrp = nil
		})
	case ctxItem:
		p.startRifInst(ilvl, rest)
	}
}

func (p *parser) startRifInst(ilvl int, rest string) {
	name, r, ok := scanIdentifier(rest)
	if !ok {
		p.errorf("expected rif instance name")
		return
	}
	r = skipHSpace(r)
	rt := ast.RifType{RifName: name}
	p.result.Refs = append(p.result.Refs, name)
	kind := ast.AddrAbsolute
	if strings.HasPrefix(r, "@+=") {
		kind = ast.AddrRelativeSet
		r = r[3:]
	} else if strings.HasPrefix(r, "@+") {
		kind = ast.AddrRelative
		r = r[2:]
	} else if strings.HasPrefix(r, "@") {
		r = r[1:]
	}
	addr, r, _ := scanAddressOffset(r)
	desc := scanDesc(r)
	group := ""
	if p.rifmuxGrp != nil {
		group = p.rifmuxGrp.Name
	}
	item := ast.NewRifmuxItem(name, group, rt, kind, addr, desc)
	p.rifmuxItem = &item
	p.push(ck(ctxRifInst), ilvl+1, func() {
		p.result.Rifmux.Items = append(p.result.Rifmux.Items, *p.rifmuxItem)
		p.rifmuxItem = nil
	})
}

func (p *parser) dispatchRifInst(ilvl int, line string) {
	k, rest, ok := rifInstProperties(line)
	if !ok {
		p.errorf("unrecognized rif instance attribute %q", line)
		return
	}
	it := p.rifmuxItem
	switch k.Tag {
	case ctxDescription:
		it.Description.Update(scanDesc(rest))
	case ctxParameters:
		p.push(k, ilvl+1, nil)
	case ctxSuffix:
		path, info, err := rifInstSuffix(rest)
		if err != nil {
			p.fail(err)
			return
		}
		it.AddSuffix(path, info)
	}
}

func (p *parser) dispatchRifmuxTop(line string) {
	key, value, ok := pathVal(line)
	if !ok {
		p.errorf("expected '- name signal' top-level suffix entry")
		return
	}
	p.result.Rifmux.AddTopSuffix(key, value)
}
