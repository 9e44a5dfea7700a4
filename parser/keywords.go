// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package parser

import "strings"

// attrSpec binds one attribute keyword (optionally matched without
// regard to case) to the context tag it produces.
type attrSpec struct {
	word string
	fold bool
	tag  ctxTag
}

// hasWord reports whether line, after leading horizontal whitespace,
// begins with word at an identifier boundary, returning what follows.
func hasWord(line, word string) (rest string, ok bool) {
	s := skipHSpace(line)
	if len(s) < len(word) || s[:len(word)] != word {
		return line, false
	}
	after := s[len(word):]
	if len(after) > 0 && isIdentCont(after[0]) && isIdentCont(word[len(word)-1]) {
		return line, false
	}
	return after, true
}

func hasWordFold(line, word string) (rest string, ok bool) {
	s := skipHSpace(line)
	if len(s) < len(word) || !strings.EqualFold(s[:len(word)], word) {
		return line, false
	}
	after := s[len(word):]
	if len(after) > 0 && isIdentCont(after[0]) && isIdentCont(word[len(word)-1]) {
		return line, false
	}
	return after, true
}

// stripSep consumes the attribute's trailing separator: a colon, an
// equals sign, or nothing at all.
func stripSep(s string) string {
	s = skipHSpace(s)
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	return skipHSpace(s)
}

// matchAttrs tries each spec in order, returning the first match with
// its trailing separator stripped.
func matchAttrs(line string, specs []attrSpec) (ctxTag, string, bool) {
	for _, s := range specs {
		var rest string
		var ok bool
		if s.fold {
			rest, ok = hasWordFold(line, s.word)
		} else {
			rest, ok = hasWord(line, s.word)
		}
		if ok {
			return s.tag, stripSep(rest), true
		}
	}
	return 0, line, false
}

// itemCntxt matches a whole "- name :" declaration line, consuming the
// list marker, the name and an optional trailing colon; what remains
// is the item's inline description.
func itemCntxt(line string) (name, rest string, ok bool) {
	s := skipHSpace(line)
	if !strings.HasPrefix(s, "-") {
		return "", line, false
	}
	s = skipHSpace(s[1:])
	id, r, idOk := scanIdentifier(s)
	if !idOk {
		return "", line, false
	}
	r = skipHSpace(r)
	if strings.HasPrefix(r, ":") {
		r = skipHSpace(r[1:])
	}
	return id, r, true
}

// itemStart consumes only the leading "- " list marker, leaving the
// declared name in the remainder for a context-specific decl parser.
func itemStart(line string) (rest string, ok bool) {
	s := skipHSpace(line)
	if !strings.HasPrefix(s, "-") {
		return line, false
	}
	return skipHSpace(s[1:]), true
}

func declTop(line string) (kind ctxTag, name, rest string, ok bool) {
	if r, ok2 := hasWord(line, "rif"); ok2 {
		r = stripSep(r)
		if id, r2, idOk := scanIdentifier(r); idOk {
			return ctxRif, id, skipHSpace(r2), true
		}
	}
	if r, ok2 := hasWord(line, "rifmux"); ok2 {
		r = stripSep(r)
		if id, r2, idOk := scanIdentifier(r); idOk {
			return ctxRifmux, id, skipHSpace(r2), true
		}
	}
	return 0, "", line, false
}

var rifPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"parameters", false, ctxParameters},
	{"generics", false, ctxGenerics},
	{"info", false, ctxInfo},
	{"interface", false, ctxInterface},
	{"addrWidth", false, ctxAddrWidth},
	{"dataWidth", false, ctxDataWidth},
	{"swClock", false, ctxSwClock},
	{"hwClock", false, ctxHwClock},
	{"swClkEn", false, ctxSwClkEn},
	{"hwClkEn", false, ctxHwClkEn},
	{"swReset", false, ctxSwReset},
	{"hwReset", false, ctxHwReset},
	{"hwClear", false, ctxHwClear},
	{"swClear", false, ctxSwClear},
	{"suffixPkg", false, ctxSuffixPkg},
	{"suffix_pkg", false, ctxSuffixPkg},
}

// rifPropertiesOrItem dispatches a line inside a Rif body: either one
// of its attribute keywords, or a page declaration.
func rifPropertiesOrItem(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, rifPropertySpecs); ok {
		return ck(tag), rest, true
	}
	if name, rest, ok := itemCntxt(line); ok {
		return ckItem(name), rest, true
	}
	return ctxKind{}, line, false
}

var pagePropertySpecs = []attrSpec{
	{"baseAddress", false, ctxBaseAddress},
	{"addrWidth", false, ctxAddrWidth},
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"clkEn", false, ctxHwClkEn},
	{"external", false, ctxExternal},
	{"optional", false, ctxOptional},
	{"registers", false, ctxRegisters},
	{"instances", false, ctxInstances},
	{"include", false, ctxInclude},
}

func pageProperties(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, pagePropertySpecs); ok {
		return ck(tag), rest, true
	}
	return ctxKind{}, line, false
}

// regInclOrDecl matches a Registers-context list entry: an "include"
// reference, or the "-" marker introducing a register declaration.
func regInclOrDecl(line string) (ctxKind, string, bool) {
	s := skipHSpace(line)
	if strings.HasPrefix(s, "-") {
		rest := skipHSpace(s[1:])
		if r, ok := hasWord(rest, "include"); ok {
			return ck(ctxInclude), stripSep(r), true
		}
		return ck(ctxRegisters), rest, true
	}
	if r, ok := hasWord(s, "include"); ok {
		return ck(ctxInclude), stripSep(r), true
	}
	return ctxKind{}, line, false
}

var regPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"enable.description", false, ctxDescIntrEnable},
	{"mask.description", false, ctxDescIntrMask},
	{"pending.description", false, ctxDescIntrPending},
	{"clock", false, ctxHwClock},
	{"hwReset", false, ctxHwReset},
	{"clkEn", true, ctxHwClkEn},
	{"clear", false, ctxHwClear},
	{"externalDone", false, ctxExternalDone},
	{"external", false, ctxExternal},
	{"interrupt", false, ctxInterrupt},
	{"alt", false, ctxInterruptAlt},
	{"hidden", false, ctxHidden},
	{"disabled", false, ctxDisabled},
	{"disable", false, ctxDisabled},
	{"reserved", false, ctxReserved},
	{"optional", false, ctxOptional},
	{"info", false, ctxInfo},
	{"wrPulse", false, ctxRegPulseWr},
	{"rdPulse", false, ctxRegPulseRd},
	{"accPulse", false, ctxRegPulseAcc},
}

func regProperties(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, regPropertySpecs); ok {
		return ck(tag), rest, true
	}
	if id, rest, ok := scanIdentifier(line); ok && strings.HasPrefix(rest, ".") {
		return ckPathStart(id), rest[1:], true
	}
	return ctxKind{}, line, false
}

// regPropertiesOrItem dispatches a RegDecl-context line: one of its
// attribute keywords, or the "-" marker introducing a field
// declaration.
func regPropertiesOrItem(line string) (ctxKind, string, bool) {
	if k, rest, ok := regProperties(line); ok {
		return k, rest, true
	}
	if rest, ok := itemStart(line); ok {
		return ckItem(""), rest, true
	}
	return ctxKind{}, line, false
}

var intrDescSpecs = []attrSpec{
	{"enable.description", false, ctxDescIntrEnable},
	{"mask.description", false, ctxDescIntrMask},
	{"pending.description", false, ctxDescIntrPending},
	{"enable.desc", false, ctxDescIntrEnable},
	{"mask.desc", false, ctxDescIntrMask},
	{"pending.desc", false, ctxDescIntrPending},
}

func intrDesc(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, intrDescSpecs); ok {
		return ck(tag), rest, true
	}
	return ctxKind{}, line, false
}

var fieldPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"enable.description", false, ctxDescIntrEnable},
	{"mask.description", false, ctxDescIntrMask},
	{"pending.description", false, ctxDescIntrPending},
	{"swset", false, ctxSwSet},
	{"pulse", false, ctxPulse},
	{"interrupt", false, ctxInterrupt},
	{"hidden", false, ctxHidden},
	{"disabled", false, ctxDisabled},
	{"disable", false, ctxDisabled},
	{"reserved", false, ctxReserved},
	{"optional", false, ctxOptional},
	{"clock", false, ctxHwClock},
	{"clkEn", true, ctxHwClkEn},
	{"clear", false, ctxHwClear},
	{"hwset", false, ctxHwSet},
	{"hwclr", false, ctxHwClr},
	{"hwtgl", false, ctxHwTgl},
	{"hw", false, ctxHwAccess},
	{"lock", false, ctxHwLock},
	{"signed", false, ctxSigned},
	{"toggle", false, ctxToggle},
	{"we", false, ctxHwWe},
	{"wel", false, ctxHwWel},
	{"counter", false, ctxCounter},
	{"partial", false, ctxPartial},
	{"arrayPosIncr", true, ctxArrayPosIncr},
	{"arrayPartial", true, ctxArrayPartial},
	{"enum", false, ctxEnum},
	{"limit", false, ctxLimit},
	{"password", false, ctxPassword},
}

func fieldProperties(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, fieldPropertySpecs); ok {
		return ck(tag), rest, true
	}
	return ctxKind{}, line, false
}

var rifmuxPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"info", false, ctxInfo},
	{"swClock", false, ctxSwClock},
	{"swClkEn", false, ctxSwClkEn},
	{"swReset", false, ctxSwReset},
	{"interface", false, ctxInterface},
	{"addrWidth", false, ctxAddrWidth},
	{"dataWidth", false, ctxDataWidth},
	{"parameters", false, ctxParameters},
	{"map", false, ctxRifmuxMap},
	{"top", false, ctxRifmuxTop},
}

func rifmuxProperties(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, rifmuxPropertySpecs); ok {
		return ck(tag), rest, true
	}
	return ctxKind{}, line, false
}

// rifmuxMap dispatches a line inside a rifmux map/group: either a
// nested group header, or the "-" marker introducing a RIF instance.
func rifmuxMap(line string) (ctxKind, string, bool) {
	if r, ok := hasWord(line, "group"); ok {
		return ck(ctxRifmuxGroup), stripSep(r), true
	}
	if rest, ok := itemStart(line); ok {
		return ckItem(""), rest, true
	}
	return ctxKind{}, line, false
}

var regInstPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"parameters", false, ctxParameters},
	{"info", false, ctxInfo},
	{"optional", false, ctxOptional},
	{"hidden", false, ctxHidden},
	{"disabled", false, ctxDisabled},
	{"disable", false, ctxDisabled},
	{"reserved", false, ctxReserved},
	{"hw", false, ctxHwAccess},
}

// regInstProperties dispatches a RegInst-context line, including the
// array-index ("[3].") and dotted field ("field.") override prefixes.
func regInstProperties(line string) (ctxKind, string, bool) {
	s := skipHSpace(line)
	if strings.HasPrefix(s, "[") {
		if v, r, ok := scanUintLiteral(s[1:]); ok {
			r = skipHSpace(r)
			if strings.HasPrefix(r, "].") {
				return ckRegIndex(int(v)), skipHSpace(r[2:]), true
			}
		}
	}
	if tag, rest, ok := matchAttrs(s, regInstPropertySpecs); ok {
		return ck(tag), rest, true
	}
	if id, r, idOk := scanIdentifier(s); idOk && strings.HasPrefix(r, "[") {
		if v, r2, numOk := scanUintLiteral(r[1:]); numOk {
			r2 = skipHSpace(r2)
			if strings.HasPrefix(r2, "].") {
				return ckFieldIndex(id, int(v)), skipHSpace(r2[2:]), true
			}
		}
	}
	if id, rest, ok := scanIdentifier(s); ok && strings.HasPrefix(rest, ".") {
		return ckItem(id), skipHSpace(rest[1:]), true
	}
	return ctxKind{}, line, false
}

var regInstArrayPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"optional", false, ctxOptional},
	{"info", false, ctxInfo},
	{"hidden", false, ctxHidden},
	{"reserved", false, ctxReserved},
	{"disabled", false, ctxDisabled},
	{"disable", false, ctxDisabled},
	{"hw", false, ctxHwAccess},
}

func regInstArrayProperties(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, regInstArrayPropertySpecs); ok {
		return ck(tag), rest, true
	}
	if id, rest, ok := scanIdentifier(line); ok && strings.HasPrefix(rest, ".") {
		return ckItem(id), skipHSpace(rest[1:]), true
	}
	return ctxKind{}, line, false
}

var regInstFieldPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"info", false, ctxInfo},
	{"optional", false, ctxOptional},
	{"hidden", false, ctxHidden},
	{"reserved", false, ctxReserved},
	{"disabled", false, ctxDisabled},
	{"disable", false, ctxDisabled},
	{"reset", false, ctxHwReset},
	{"rst", false, ctxHwReset},
	{"limit", false, ctxLimit},
}

func regInstFieldProperties(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, regInstFieldPropertySpecs); ok {
		return ck(tag), rest, true
	}
	return ctxKind{}, line, false
}

var rifInstPropertySpecs = []attrSpec{
	{"description", false, ctxDescription},
	{"desc", false, ctxDescription},
	{"parameters", false, ctxParameters},
	{"suffix", false, ctxSuffix},
}

func rifInstProperties(line string) (ctxKind, string, bool) {
	if tag, rest, ok := matchAttrs(line, rifInstPropertySpecs); ok {
		return ck(tag), rest, true
	}
	return ctxKind{}, line, false
}

// isAuto reports whether a page's instance list is auto-generated.
func isAuto(line string) bool {
	_, ok := hasWord(line, "auto")
	return ok
}

// keyVal reads a "- key value" info-line pair.
func keyVal(line string) (key, value string, ok bool) {
	rest, ok := itemStart(line)
	if !ok {
		return "", "", false
	}
	id, rest, idOk := scanIdentifier(rest)
	if !idOk {
		return "", "", false
	}
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, ":") {
		rest = skipHSpace(rest[1:])
	}
	return id, strings.TrimSpace(rest), true
}

// pathVal reads a "- pkg.path value" pair, used for rif-instance
// parameter overrides addressed by a dotted path.
func pathVal(line string) (key, value string, ok bool) {
	rest, ok := itemStart(line)
	if !ok {
		return "", "", false
	}
	id, rest, idOk := scanPathName(rest)
	if !idOk {
		return "", "", false
	}
	rest = skipHSpace(rest)
	if strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, ":") {
		rest = skipHSpace(rest[1:])
	}
	return id, strings.TrimSpace(rest), true
}

// vecId reads a whitespace-separated list of identifiers, used for
// multi-clock hwClock/hwClkEn/hwClear declarations.
func vecId(line string) []string {
	var out []string
	rest := line
	for {
		id, r, ok := scanIdentifier(rest)
		if !ok {
			break
		}
		out = append(out, id)
		rest = r
	}
	return out
}

// identifierLast reads a single trailing identifier, ignoring any
// surrounding whitespace.
func identifierLast(line string) (string, bool) {
	id, _, ok := scanIdentifier(line)
	return id, ok
}

func signalNameLast(line string) (string, bool) {
	name, _, ok := scanSignalName(line)
	return name, ok
}

// boolOrDefault parses a bare "true"/"false" token, or def if the
// line (ignoring whitespace) is empty.
func boolOrDefault(line string, def bool) bool {
	t := strings.TrimSpace(line)
	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}
