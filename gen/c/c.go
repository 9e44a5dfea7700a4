// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package c emits C headers for a RIF or Rifmux instance: a per-RIF
// header declaring one bitfield union per register type and one
// struct per page, and a per-Rifmux header declaring the base-address
// pointer macros software includes to reach every mapped instance.
package c

import (
	"fmt"
	"strings"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/elab"
	"github.com/TheClams/yarig/gen/casing"
	"github.com/TheClams/yarig/gen/common"
)

// Generator renders a C header tree for an elaborated RIF or Rifmux
// instance.
type Generator struct {
	common.Base
	// BaseAddrName is the C identifier added to a page's offset to
	// form its pointer macro (e.g. "BASE_ADDR" in "#define
	// FOO_BASE_ADDR (BASE_ADDR + 0x00001000)").
	BaseAddrName string
}

// New builds a C header generator.
func New(setting common.BaseSetting, baseAddrName string) *Generator {
	return &Generator{Base: common.NewBase(setting, 1), BaseAddrName: baseAddrName}
}

// Gen renders obj: a bare Rif gets its own header, a Rifmux gets a
// mapping header plus (when GenInc requests it) headers for the RIF
// types it references. An external range has nothing to render.
func (g *Generator) Gen(obj elab.Comp) error {
	switch obj.Kind {
	case elab.CompRif:
		return g.genRifHeader(obj.Rif)
	case elab.CompRifmux:
		rifList := common.RifList(obj)
		if err := g.genRifmuxHeader(obj.Rifmux, rifList); err != nil {
			return err
		}
		if len(g.Setting.GenInc) > 0 {
			for _, rif := range rifList {
				if !g.Setting.Includes(rif.InstName) && !g.Setting.Includes("*") {
					continue
				}
				if err := g.genRifHeader(rif); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// removeRifAffix strips a leading or trailing "rif_"/"_rif" naming
// convention some RIF types use, matching the name a reference driver
// or header expects to see instead.
func removeRifAffix(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "rif_"):
		return s[len("rif_"):]
	case strings.HasSuffix(lower, "_rif"):
		return s[:len(s)-len("_rif")]
	default:
		return s
	}
}

func (g *Generator) genRifHeader(rif *elab.RifInst) error {
	rifname := strings.ToLower(rif.TypeName)
	rifnameUC := strings.ToUpper(rifname)
	basename := strings.ToLower(removeRifAffix(rifname))

	g.Writef("// Register definition for P_%s\n", rifnameUC)
	g.Writef("#ifndef __%s_H__\n", rifnameUC)
	g.Writef("#define __%s_H__\n\n", rifnameUC)

	w := rif.DataWidth
	nbByte := uint64(w) >> 3
	typeReg := fmt.Sprintf("uint%d_t", w)

	for _, def := range rif.EnumDefs {
		if strings.HasPrefix(def.Name, "doc:") {
			continue
		}
		etn := def.Name
		if i := strings.LastIndex(etn, "::"); i >= 0 {
			etn = etn[i+2:]
		}
		etn = strings.TrimPrefix(etn, "e_")
		etn = fmt.Sprintf("%s_%s_t", basename, etn)
		g.Writef("typedef enum %s {\n", etn)
		for i, entry := range def.Entries {
			sep := ","
			if i == len(def.Entries)-1 {
				sep = ""
			}
			g.Writef("    %s_%s = %d%s //!< %s\n",
				strings.ToUpper(basename), strings.ToUpper(entry.Name), entry.Value, sep, entry.Description.Short())
		}
		g.Writef("} %s;\n\n", etn)
	}

	for _, page := range rif.Pages {
		if page.External {
			continue
		}
		pname := basename
		if len(rif.Pages) > 1 {
			pname = fmt.Sprintf("%s_%s", basename, page.Name)
		}
		pname = strings.ToLower(pname)
		pnameUC := strings.ToUpper(pname)

		for _, reg := range pageRegTypes(page) {
			if reg.SwAccess == ast.AccessNA {
				continue
			}
			regType := strings.ToLower(reg.TypeName)
			maxLen := 0
			for _, f := range reg.Fields {
				if len(f.Name) > maxLen {
					maxLen = len(f.Name)
				}
			}

			g.Writef("/// %s %s register bitfields\n", casing.Format(casing.Title, pname), casing.Format(casing.Title, reg.TypeName))
			for _, l := range strings.Split(reg.Description.Text, "\n") {
				if l != "" {
					g.Writef("/// %s\n", l)
				}
			}
			g.Writef("typedef union %s_%s_reg {\n", pname, regType)
			g.Writef("  %s reg%d; //!< Direct access to the full %s register\n", typeReg, w, regType)
			g.Write("  struct {\n")
			posL := 0
			for i := range reg.Fields {
				f := &reg.Fields[i]
				if posL != f.Lsb {
					g.addFieldDecl(w, maxLen, fmt.Sprintf("rsvd%d", posL), f.Lsb-posL, "Reserved", nil)
				}
				posL = f.Lsb + f.Width
				name := casing.Format(g.Setting.Casing, g.getFieldName(reg, f))
				mask := ((uint64(1) << f.Width) - 1) << f.Lsb
				g.addFieldDecl(w, maxLen, name, f.Width, f.Description.Short(), &mask)
			}
			if posL < w {
				g.addFieldDecl(w, maxLen, fmt.Sprintf("rsvd%d", posL), w-posL, "Reserved", nil)
			}
			g.Write("  } fields; //!< Access to bitfields\n")
			g.Writef("} %s_%s_reg_t;\n\n", pname, regType)

			g.Write("\n#ifndef DOXYGEN_SHOULD_SKIP_THIS\n")
			for i := range reg.Fields {
				f := &reg.Fields[i]
				fieldname := strings.ToUpper(strings.ReplaceAll(g.getFieldName(reg, f), "_", ""))
				regname := strings.ToUpper(reg.TypeName)
				name := fmt.Sprintf("%s_%s_%s", pnameUC, regname, fieldname)
				g.Writef("#define %s_POS   %d\n", name, f.Lsb)
				g.Writef("#define %s_MASK  0x%08X\n", name, (uint64(1)<<f.Width)-1)
				g.Writef("#define %s_SMASK (%s_MASK<<%s_POS)\n", name, name, name)
			}
			g.Write("#endif /* DOXYGEN_SHOULD_SKIP_THIS */\n\n")
		}

		g.genPageStruct(page, pname, pnameUC, typeReg, nbByte)
	}

	g.Write(g.PopStash(0))
	g.Writef("#endif /* __%s_H__ */\n", rifnameUC)

	return g.Save(strings.ToLower(removeRifAffix(rif.InstName)) + ".h")
}

// pageRegTypes returns one representative instance per distinct
// register type declared on the page, in first-encounter order,
// skipping every array element beyond the first: a C struct describes
// the shape a register type has, not each of its instances.
func pageRegTypes(page *elab.RifPageInst) []*elab.RifRegInst {
	seen := map[string]bool{}
	var out []*elab.RifRegInst
	for _, r := range page.Regs {
		if r.Array.Kind != elab.ArrayNone && r.Array.Idx > 0 {
			continue
		}
		if seen[r.TypeName] {
			continue
		}
		seen[r.TypeName] = true
		out = append(out, r)
	}
	return out
}

func (g *Generator) genPageStruct(page *elab.RifPageInst, pname, pnameUC, typeReg string, nbByte uint64) {
	lenName, lenType := 0, 0
	for _, r := range page.Regs {
		if len(r.Name) > lenName {
			lenName = len(r.Name)
		}
		if len(r.TypeName)+6 > lenType {
			lenType = len(r.TypeName) + 6
		}
	}

	g.PushStash(0, fmt.Sprintf("/// %s module struct\n", casing.Format(casing.Title, pname)))
	g.PushStash(0, fmt.Sprintf("typedef struct %s_regs {\n", pname))

	isUnion := false
	var addr uint64
	regs := page.Regs
	for i, reg := range regs {
		if reg.Array.Kind != elab.ArrayNone && reg.Array.Idx > 0 {
			continue
		}
		regType := strings.ToLower(reg.TypeName)

		if isUnion && reg.Addr >= addr {
			g.PushStash(0, "   };\n")
			isUnion = false
		}
		if !isUnion && i+1 < len(regs) && regs[i+1].Addr == reg.Addr {
			g.PushStash(0, "   union {\n")
			isUnion = true
		}

		if reg.Addr > addr {
			span := (reg.Addr - addr) / nbByte
			name := fmt.Sprintf("rsvd%d", addr)
			if span > 1 {
				name = fmt.Sprintf("rsvd%d[%d]", addr, span)
			}
			spc := strings.Repeat(" ", maxInt(1, lenType+len(pname)+1-len(typeReg)))
			g.PushStash(0, fmt.Sprintf("  %s%s %-*s;\n", typeReg, spc, lenName, name))
		}

		if isUnion {
			g.PushStash(0, "  ")
		}
		desc := reg.Description.Short()
		regName := strings.ToLower(reg.Name)
		if reg.Array.Dim > 1 {
			regName = fmt.Sprintf("%s[%d]", regName, reg.Array.Dim)
		}
		rtype := fmt.Sprintf("%s_reg_t", regType)
		g.PushStash(0, fmt.Sprintf("  %s_%-*s %-*s; //!< 0x%04X (0x%08X %s): %s\n",
			pname, lenType, rtype, lenName, regName, reg.Addr, reg.Reset.Uint64(), reg.SwAccess, desc))

		nb := reg.Array.Dim
		if nb < 1 {
			nb = 1
		}
		addr = reg.Addr + nbByte*uint64(nb)
	}
	if isUnion {
		g.PushStash(0, "   };\n")
	}
	g.PushStash(0, fmt.Sprintf("} %s_regs_t;\n\n", pname))

	g.PushStash(0, "\n#ifndef DOXYGEN_SHOULD_SKIP_THIS\n")
	for _, reg := range page.Regs {
		if reg.Array.Kind != elab.ArrayNone && reg.Array.Idx > 0 {
			continue
		}
		regName := strings.ToUpper(reg.Name)
		g.PushStash(0, fmt.Sprintf("#define %s_%s_OFFSET %d\n", pnameUC, regName, page.Addr+reg.Addr))
		g.PushStash(0, fmt.Sprintf("#define %s_%s_RESET 0x%08X\n", pnameUC, regName, reg.Reset.Uint64()))
	}
	g.PushStash(0, "#endif /* DOXYGEN_SHOULD_SKIP_THIS */\n\n")
}

// getFieldName renames a reserved field to "rsvd{lsb}" when this
// header is public (a public header should not expose a name the
// author meant to keep private); otherwise it returns the field's own
// name, flattened across its array index when it is one of several
// array elements.
func (g *Generator) getFieldName(r *elab.RifRegInst, f *elab.RifFieldInst) string {
	if f.Visibility == ast.VisibilityReserved && g.Setting.Privacy.IsPublic() {
		return fmt.Sprintf("rsvd%d", f.Lsb)
	}
	if f.Array.Dim > 1 || r.Array.Dim == 0 || r.Array.IsInst() {
		if f.Array.Dim > 1 {
			return fmt.Sprintf("%s%d", f.Name, f.Array.Idx)
		}
		return f.Name
	}
	return f.Name
}

func (g *Generator) addFieldDecl(regWidth, l int, name string, fieldWidth int, desc string, mask *uint64) {
	maskStr := ""
	if mask != nil {
		maskStr = fmt.Sprintf("0x%08X ", *mask)
	}
	g.Writef("    uint%d_t %-*s : %2d; //!< %s%s\n", regWidth, l, name, fieldWidth, maskStr, desc)
}

func (g *Generator) genRifmuxHeader(rifmux *elab.RifmuxInst, rifList []*elab.RifInst) error {
	rifname := rifmux.InstName
	rifnameUC := strings.ToUpper(rifname)
	g.Txt.Reset()

	g.Write("// Register File mapping\n")
	g.Writef("#ifndef __%s_H__\n", rifnameUC)
	g.Writef("#define __%s_H__\n\n", rifnameUC)

	g.Write("// Includes Register File definition\n")
	for _, rif := range rifList {
		g.Writef("#include \"%s.h\"\n", strings.ToLower(removeRifAffix(rif.InstName)))
	}
	g.Write("\n")

	g.addPtrRifmux(rifmux, "", 0)
	g.Write(g.PopStash(0))
	g.Write("\n")

	g.Writef("#endif /* __%s_H__ */\n", rifnameUC)
	return g.Save(rifname + ".h")
}

func (g *Generator) addPtrRifmux(rifmux *elab.RifmuxInst, topName string, offset uint64) {
	prefix := ""
	if topName != "" {
		prefix = topName + "_"
	}
	for _, comp := range rifmux.Components {
		baseAddrName := g.BaseAddrName
		if comp.Group != "" && prefix == "" {
			baseAddrName = baseAddrName + "_" + comp.Group
		}
		switch comp.Inst.Kind {
		case elab.CompRifmux:
			compName := prefix + casing.Format(casing.Pascal, comp.Inst.Rifmux.InstName)
			g.addPtrRifmux(comp.Inst.Rifmux, compName, offset+comp.Addr)
		case elab.CompRif:
			r := comp.Inst.Rif
			rifInstName := strings.ReplaceAll(removeRifAffix(r.InstName), "_", "")
			for _, page := range r.Pages {
				pageName := prefix + rifInstName
				nameTT := casing.Format(casing.Title, prefix+removeRifAffix(r.InstName))
				pageType := removeRifAffix(r.TypeName)
				if len(r.Pages) > 1 {
					pageName += strings.ReplaceAll(page.Name, "_", "")
					nameTT += " " + casing.Format(casing.Title, page.Name)
					pageType += "_" + page.Name
				}
				nameUC := strings.ToUpper(pageName)
				pageType = strings.ToLower(pageType)
				desc := page.Description.Short()
				if desc == "" {
					desc = r.Description.Short()
				}
				addr := page.Addr + comp.Addr + offset
				g.Writef("/// %s base address: %s\n", nameTT, desc)
				g.Writef("#define %s_BASE_ADDR (%s + 0x%08X)\n", nameUC, baseAddrName, addr)
				g.PushStash(0, fmt.Sprintf("/// Pointer to %s registers\n", nameTT))
				g.PushStash(0, fmt.Sprintf("#define P_%s ((volatile %s_regs_t* ) %s_BASE_ADDR)\n", nameUC, pageType, nameUC))
			}
			g.Write("\n")
		case elab.CompExternal:
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
