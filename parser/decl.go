// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package parser

import (
	"strings"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/yrerr"
)

// regDecl parses a register declaration body (the name and everything
// after it, with the leading "-" list marker already stripped):
// "name[array] : (group) "description"".
func regDecl(line string) (ast.RegDef, error) {
	name, rest, ok := scanIdentifier(line)
	if !ok {
		return ast.RegDef{}, yrerr.New("expected register name")
	}
	var array *ast.Width
	if strings.HasPrefix(skipHSpace(rest), "[") {
		r := skipHSpace(rest)[1:]
		w, r2, wOk := scanWidthOrParam(r)
		if !wOk {
			return ast.RegDef{}, yrerr.New("malformed register array size")
		}
		r2 = skipHSpace(r2)
		if !strings.HasPrefix(r2, "]") {
			return ast.RegDef{}, yrerr.New("expected closing ']'")
		}
		array = &w
		rest = r2[1:]
	}
	rest = stripSep(rest)
	var group *ast.RegGroup
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "(") {
		pkg, gname, r, ok := scanScopedIdentifier(rest[1:])
		if !ok {
			return ast.RegDef{}, yrerr.New("malformed register group")
		}
		r = skipHSpace(r)
		if !strings.HasPrefix(r, ")") {
			return ast.RegDef{}, yrerr.New("expected closing ')'")
		}
		g := ast.NewRegGroup(gname, pkg)
		group = &g
		rest = r[1:]
	}
	desc := scanDesc(rest)
	w := ast.Width{}
	if array != nil {
		w = *array
	}
	return ast.NewRegDef(name, group, w, desc), nil
}

// fieldDecl parses a field declaration body: "name[array] = reset
// pos&kind "description"".
func fieldDecl(line string) (ast.Field, error) {
	name, rest, ok := scanIdentifier(line)
	if !ok {
		return ast.Field{}, yrerr.New("expected field name")
	}
	var array *ast.Width
	if strings.HasPrefix(skipHSpace(rest), "[") {
		r := skipHSpace(rest)[1:]
		w, r2, wOk := scanWidthOrParam(r)
		if !wOk {
			return ast.Field{}, yrerr.New("malformed field array size")
		}
		r2 = skipHSpace(r2)
		if !strings.HasPrefix(r2, "]") {
			return ast.Field{}, yrerr.New("expected closing ']'")
		}
		array = &w
		rest = r2[1:]
	}
	var reset []ast.ResetVal
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "=") {
		rest = skipHSpace(rest[1:])
		if vals, r, ok := scanResetValArray(rest); ok {
			reset = vals
			rest = r
		} else if v, r, ok := scanResetVal(rest); ok {
			reset = []ast.ResetVal{v}
			rest = r
		} else {
			return ast.Field{}, yrerr.New("malformed field reset value")
		}
	}
	pos, rest, posOk := scanFieldPos(rest)
	if !posOk {
		return ast.Field{}, yrerr.New("expected field bit position")
	}
	var swKind *ast.FieldSwKind
	if k, r, ok := fieldSwKind(rest); ok {
		swKind = &k
		rest = r
	}
	rest = skipHSpace(rest)
	desc := scanDesc(rest)
	return ast.NewField(name, reset, pos, swKind, array, desc), nil
}

// fieldSwKind reads the one-word software access shorthand following a
// field's position, if present.
func fieldSwKind(line string) (ast.FieldSwKind, string, bool) {
	id, rest, ok := scanIdentifier(line)
	if !ok {
		return ast.FieldSwKind{}, line, false
	}
	switch strings.ToLower(id) {
	case "r", "ro":
		return ast.FieldSwKind{Tag: ast.SwReadOnly}, rest, true
	case "rw":
		return ast.FieldSwKind{Tag: ast.SwReadWrite}, rest, true
	case "rclr":
		return ast.FieldSwKind{Tag: ast.SwReadClr}, rest, true
	case "wclr", "w1clr":
		return ast.FieldSwKind{Tag: ast.SwW1Clr}, rest, true
	case "w0clr":
		return ast.FieldSwKind{Tag: ast.SwW0Clr}, rest, true
	case "w1set":
		return ast.FieldSwKind{Tag: ast.SwW1Set}, rest, true
	case "w", "wo":
		return ast.FieldSwKind{Tag: ast.SwWriteOnly}, rest, true
	case "pulse":
		return ast.FieldSwKind{Tag: ast.SwW1Pulse}, rest, true
	case "pulsereg":
		return ast.FieldSwKind{Tag: ast.SwW1Pulse, Delayed: true}, rest, true
	case "toggle":
		return ast.FieldSwKind{Tag: ast.SwW1Tgl}, rest, true
	}
	return ast.FieldSwKind{}, line, false
}

// fieldAcc reads a bare RO/WO/RW/NA hardware access keyword.
func fieldAcc(line string) (ast.Access, bool) {
	id, _, ok := scanIdentifier(line)
	if !ok {
		return ast.AccessNA, false
	}
	switch strings.ToLower(id) {
	case "na":
		return ast.AccessNA, true
	case "rw":
		return ast.AccessRW, true
	case "r", "ro":
		return ast.AccessRO, true
	case "w", "wo":
		return ast.AccessWO, true
	}
	return ast.AccessNA, false
}

// clkEn reads a clock-enable attribute value: the bare word "false"
// disables clock-gating, anything else names the enable signal.
func clkEn(line string) ast.ClkEn {
	id, _, ok := scanIdentifier(line)
	if !ok || id == "" {
		return ast.ClkEn{}
	}
	if strings.EqualFold(id, "false") {
		return ast.ClkEn{Kind: ast.ClkEnNone}
	}
	return ast.ClkEn{Kind: ast.ClkEnSignal, Signal: id}
}

// resetDef parses "name [[active]Low|High] [async|sync]".
func resetDef(line string) (ast.ResetDef, bool) {
	name, rest, ok := scanIdentifier(line)
	if !ok {
		return ast.ResetDef{}, false
	}
	r := ast.NewResetDef(name)
	rest = skipHSpace(rest)
	if w, r2, ok2 := scanIdentifier(rest); ok2 {
		w2 := w
		if strings.EqualFold(w2, "active") {
			if w3, r3, ok3 := scanIdentifier(skipHSpace(r2)); ok3 {
				w2 = w3
				r2 = r3
			}
		}
		switch strings.ToLower(w2) {
		case "low", "activelow":
			rest = r2
		case "high", "activehigh":
			r.ActiveHigh = true
			rest = r2
		}
	}
	rest = skipHSpace(rest)
	if w, r2, ok2 := scanIdentifier(rest); ok2 {
		switch strings.ToLower(w) {
		case "sync":
			r.Sync = true
			rest = r2
		case "async":
			rest = r2
		}
	}
	return r, true
}

// regInst parses an instance declaration (the leading "-" already
// consumed): "name[array] [= type] [(group)] [@|@+|@+= addr]".
func regInst(line string) (ast.RegInst, error) {
	rest, ok := itemStart(line)
	if !ok {
		return ast.RegInst{}, yrerr.New("expected '-' register instance marker")
	}
	name, rest, ok := scanIdentifier(rest)
	if !ok {
		return ast.RegInst{}, yrerr.New("expected register instance name")
	}
	var array expr.Tokens
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return ast.RegInst{}, yrerr.New("unterminated array size")
		}
		toks, err := expr.Parse(rest[1:end])
		if err != nil {
			return ast.RegInst{}, err
		}
		array = toks
		rest = rest[end+1:]
	}
	var typeName *string
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "=") {
		id, r, idOk := scanIdentifier(skipHSpace(rest[1:]))
		if !idOk {
			return ast.RegInst{}, yrerr.New("expected register type name")
		}
		typeName = &id
		rest = r
	}
	var groupName *string
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return ast.RegInst{}, yrerr.New("unterminated group name")
		}
		g := strings.TrimSpace(rest[1:end])
		groupName = &g
		rest = rest[end+1:]
	}
	var addr *struct {
		Kind ast.AddressKind
		Addr uint64
	}
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "@") {
		kind := ast.AddrAbsolute
		r := rest[1:]
		if strings.HasPrefix(r, "+=") {
			kind = ast.AddrRelativeSet
			r = r[2:]
		} else if strings.HasPrefix(r, "+") {
			kind = ast.AddrRelative
			r = r[1:]
		}
		v, r2, vOk := scanUintLiteral(r)
		if !vOk {
			return ast.RegInst{}, yrerr.New("expected register instance address")
		}
		addr = &struct {
			Kind ast.AddressKind
			Addr uint64
		}{kind, v}
		rest = r2
	}
	_ = rest
	return ast.NewRegInst(name, array, typeName, groupName, addr), nil
}

// rifInstSuffix parses "[path=]name[(alt)|(pkg)|(alt,pkg)]", used to
// configure one output-file suffix of a RIF instance.
func rifInstSuffix(line string) (path string, info ast.SuffixInfo, err error) {
	rest := line
	if id, r, ok := scanPathName(rest); ok {
		r = skipHSpace(r)
		if strings.HasPrefix(r, "=") {
			path = id
			rest = skipHSpace(r[1:])
		}
	}
	name, rest, ok := scanIdentifier(rest)
	if !ok {
		return "", ast.SuffixInfo{}, yrerr.New("expected suffix name")
	}
	info = ast.SuffixInfo{Name: name}
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return "", ast.SuffixInfo{}, yrerr.New("unterminated suffix options")
		}
		for _, opt := range strings.Split(rest[1:end], ",") {
			switch strings.TrimSpace(opt) {
			case "alt":
				info.AltPos = true
			case "pkg":
				info.Pkg = true
			}
		}
	}
	return path, info, nil
}

// scanAddressOffset reads an address offset: a "$param" reference or
// an unsigned integer literal.
func scanAddressOffset(s string) (ast.AddressOffset, string, bool) {
	s = skipHSpace(s)
	if strings.HasPrefix(s, "$") {
		name, r, ok := scanIdentifier(s[1:])
		if !ok {
			return ast.AddressOffset{}, s, false
		}
		return ast.AddressOffset{Param: name}, r, true
	}
	v, r, ok := scanUintLiteral(s)
	if !ok {
		return ast.AddressOffset{}, s, false
	}
	return ast.AddressOffset{Value: int64(v)}, r, true
}

// rifmuxGroup parses "name @|@+|@+= addr "description"".
func rifmuxGroup(line string) (ast.RifmuxGroup, error) {
	name, rest, ok := scanIdentifier(line)
	if !ok {
		return ast.RifmuxGroup{}, yrerr.New("expected rifmux group name")
	}
	rest = skipHSpace(rest)
	kind := ast.AddrAbsolute
	if strings.HasPrefix(rest, "@+=") {
		kind = ast.AddrRelativeSet
		rest = rest[3:]
	} else if strings.HasPrefix(rest, "@+") {
		kind = ast.AddrRelative
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "@") {
		rest = rest[1:]
	}
	addr, rest, ok := scanAddressOffset(rest)
	if !ok {
		return ast.RifmuxGroup{}, yrerr.New("expected rifmux group address")
	}
	desc := scanDesc(rest)
	return ast.RifmuxGroup{Name: name, AddrKind: kind, Addr: addr, Description: ast.NewDescription(desc)}, nil
}

// enumEntry parses "- name = value "description"".
func enumEntry(line string) (ast.EnumEntry, error) {
	rest, ok := itemStart(line)
	if !ok {
		return ast.EnumEntry{}, yrerr.New("expected '-' enum entry marker")
	}
	name, rest, ok := scanIdentifier(rest)
	if !ok {
		return ast.EnumEntry{}, yrerr.New("expected enum entry name")
	}
	rest = skipHSpace(rest)
	if !strings.HasPrefix(rest, "=") {
		return ast.EnumEntry{}, yrerr.New("expected '=' in enum entry")
	}
	v, rest, ok := scanUintLiteral(skipHSpace(rest[1:]))
	if !ok {
		return ast.EnumEntry{}, yrerr.New("expected enum entry value")
	}
	return ast.EnumEntry{Name: name, Value: int(v), Description: ast.NewDescription(scanDesc(rest))}, nil
}

// counterDef parses a counter attribute's value: a whitespace
// separated list of "incr=N"/"decr=N"/"sat"/"clr"/"event" keywords, in
// any order, selecting the counter's direction(s) from whichever of
// incr/decr are present.
func counterDef(line string) ast.CounterInfo {
	c := ast.CounterInfo{Kind: ast.CounterUp, IncrVal: 1, DecrVal: 1}
	hasIncr, hasDecr := false, false
	rest := line
	for {
		rest = skipHSpace(rest)
		if rest == "" {
			break
		}
		id, r, ok := scanIdentifier(rest)
		if !ok {
			break
		}
		switch strings.ToLower(id) {
		case "incr":
			hasIncr = true
			r = skipHSpace(r)
			if strings.HasPrefix(r, "=") {
				if v, r2, vOk := scanUintLiteral(r[1:]); vOk {
					c.IncrVal = int(v)
					r = r2
				}
			}
		case "decr":
			hasDecr = true
			r = skipHSpace(r)
			if strings.HasPrefix(r, "=") {
				if v, r2, vOk := scanUintLiteral(r[1:]); vOk {
					c.DecrVal = int(v)
					r = r2
				}
			}
		case "sat":
			c.Saturate = true
		case "clr":
			c.Clear = true
		case "event":
			c.Event = true
		}
		rest = r
	}
	switch {
	case hasIncr && hasDecr:
		c.Kind = ast.CounterUpDown
	case hasDecr:
		c.Kind = ast.CounterDown
	default:
		c.Kind = ast.CounterUp
	}
	return c
}

// limitDef parses a field's value-limit attribute: "min..max",
// "min..", "..max", a comma-separated value list, or a bare enum
// keyword, optionally followed by "bypass name".
func limitDef(line string) (ast.Limit, error) {
	rest := skipHSpace(line)
	var bypass string
	if idx := strings.Index(rest, "bypass"); idx >= 0 {
		if sig, ok := signalNameLast(strings.TrimSpace(rest[idx+len("bypass"):])); ok {
			bypass = sig
		}
		rest = strings.TrimSpace(rest[:idx])
	}
	if rest == "" {
		return ast.Limit{}, yrerr.New("expected limit bound")
	}
	if strings.Contains(rest, "..") {
		parts := strings.SplitN(rest, "..", 2)
		lo, hi := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		switch {
		case lo != "" && hi != "":
			minV, _, minOk := scanResetVal(lo)
			maxV, _, maxOk := scanResetVal(hi)
			if !minOk || !maxOk {
				return ast.Limit{}, yrerr.New("malformed limit range")
			}
			return ast.Limit{Kind: ast.LimitMinMax, Min: minV, Max: maxV, Bypass: bypass}, nil
		case lo != "":
			minV, _, minOk := scanResetVal(lo)
			if !minOk {
				return ast.Limit{}, yrerr.New("malformed limit range")
			}
			return ast.Limit{Kind: ast.LimitMin, Min: minV, Bypass: bypass}, nil
		default:
			maxV, _, maxOk := scanResetVal(hi)
			if !maxOk {
				return ast.Limit{}, yrerr.New("malformed limit range")
			}
			return ast.Limit{Kind: ast.LimitMax, Max: maxV, Bypass: bypass}, nil
		}
	}
	if strings.Contains(rest, ",") {
		var list []ast.ResetVal
		for _, tok := range strings.Split(rest, ",") {
			v, _, ok := scanResetVal(strings.TrimSpace(tok))
			if !ok {
				return ast.Limit{}, yrerr.New("malformed limit list")
			}
			list = append(list, v)
		}
		return ast.Limit{Kind: ast.LimitList, List: list, Bypass: bypass}, nil
	}
	return ast.Limit{Kind: ast.LimitEnum, Bypass: bypass}, nil
}

// passwordInfo parses a field's password attribute: an optional
// "once=value", an optional "hold=value", and an optional "protect"
// keyword, in any order.
func passwordInfo(line string) ast.PasswordInfo {
	var p ast.PasswordInfo
	rest := line
	for {
		rest = skipHSpace(rest)
		if rest == "" {
			break
		}
		id, r, ok := scanIdentifier(rest)
		if !ok {
			break
		}
		switch strings.ToLower(id) {
		case "once":
			r = skipHSpace(r)
			if strings.HasPrefix(r, "=") {
				if v, r2, vOk := scanResetVal(r[1:]); vOk {
					p.Once = &v
					r = r2
				}
			}
		case "hold":
			r = skipHSpace(r)
			if strings.HasPrefix(r, "=") {
				if v, r2, vOk := scanResetVal(r[1:]); vOk {
					p.Hold = &v
					r = r2
				}
			}
		case "protect":
			p.Protect = true
		}
		rest = r
	}
	return p
}

// interruptTriggerClear matches one of the trigger (high/low/rise/
// fall/edge) or clear (rd/wr0/wr1/hw) keywords shared by field- and
// register-level interrupt attributes, reporting whether id matched.
func interruptTriggerClear(id string, info *ast.InterruptInfoField) bool {
	switch strings.ToLower(id) {
	case "high":
		t := ast.TriggerHigh
		info.Trigger = &t
	case "low":
		t := ast.TriggerLow
		info.Trigger = &t
	case "rise":
		t := ast.TriggerRising
		info.Trigger = &t
	case "fall":
		t := ast.TriggerFalling
		info.Trigger = &t
	case "edge":
		t := ast.TriggerEdge
		info.Trigger = &t
	case "rd":
		c := ast.ClrOnRead
		info.Clear = &c
	case "wr0":
		c := ast.ClrOnWrite0
		info.Clear = &c
	case "wr1":
		c := ast.ClrOnWrite1
		info.Clear = &c
	case "hw":
		c := ast.ClrByHw
		info.Clear = &c
	default:
		return false
	}
	return true
}

// fieldInterrupt parses a field's interrupt attribute: an optional
// trigger keyword (high/low/rise/fall/edge) and an optional clear
// keyword (rd/wr0/wr1/hw), in either order.
func fieldInterrupt(line string) ast.InterruptInfoField {
	var info ast.InterruptInfoField
	rest := line
	for {
		rest = skipHSpace(rest)
		if rest == "" {
			break
		}
		id, r, ok := scanIdentifier(rest)
		if !ok {
			break
		}
		interruptTriggerClear(id, &info)
		rest = r
	}
	return info
}

// regInterrupt parses a register's interrupt attribute: an optional
// group name, the same trigger/clear keywords as a field-level
// interrupt, and "enable[=v]"/"mask[=v]"/"pending" switches selecting
// which derived registers the elaborator generates.
func regInterrupt(line string) (name string, info ast.InterruptInfoField, enable, mask *ast.ResetVal, pending bool) {
	rest := skipHSpace(line)
	if id, r, ok := scanIdentifier(rest); ok {
		var probe ast.InterruptInfoField
		switch {
		case interruptTriggerClear(id, &probe):
		case strings.EqualFold(id, "enable"), strings.EqualFold(id, "mask"), strings.EqualFold(id, "pending"):
		default:
			name = id
			rest = r
		}
	}
	zero := ast.ResetUnsignedValue(0)
	for {
		rest = skipHSpace(rest)
		if rest == "" {
			break
		}
		id, r, ok := scanIdentifier(rest)
		if !ok {
			break
		}
		if interruptTriggerClear(id, &info) {
			rest = r
			continue
		}
		switch strings.ToLower(id) {
		case "enable":
			v := zero
			r2 := skipHSpace(r)
			if strings.HasPrefix(r2, "=") {
				if rv, r3, vOk := scanResetVal(r2[1:]); vOk {
					v = rv
					r = r3
				}
			}
			enable = &v
		case "mask":
			v := zero
			r2 := skipHSpace(r)
			if strings.HasPrefix(r2, "=") {
				if rv, r3, vOk := scanResetVal(r2[1:]); vOk {
					v = rv
					r = r3
				}
			}
			mask = &v
		case "pending":
			pending = true
		}
		rest = r
	}
	return name, info, enable, mask, pending
}

// regPulseInfo parses a register-level pulse attribute's value: an
// optional explicit signal name, defaulting to "" (auto-named by the
// emitter) when absent.
func regPulseInfo(line string) string {
	name, _ := identifierLast(strings.TrimSpace(line))
	return name
}

// genericDef parses a generic parameter's positional range values:
// zero to three whitespace-separated integers.
func genericDef(line string) ast.GenericRange {
	var values []int
	rest := line
	for {
		v, r, ok := scanUintLiteral(rest)
		if !ok {
			break
		}
		values = append(values, int(v))
		rest = r
	}
	return ast.NewGenericRange(values)
}

