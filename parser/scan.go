// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package parser

import (
	"strconv"
	"strings"

	"github.com/TheClams/yarig/ast"
)

// skipHSpace trims leading spaces and tabs (but not newlines, which
// never appear in a single already-split line) from s.
func skipHSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// scanIdentifier reads a bare identifier (letters, digits, underscore,
// not starting with a digit).
func scanIdentifier(s string) (name, rest string, ok bool) {
	s = skipHSpace(s)
	if s == "" || !isIdentStart(s[0]) {
		return "", s, false
	}
	i := 1
	for i < len(s) && isIdentCont(s[i]) {
		i++
	}
	return s[:i], s[i:], true
}

// scanScopedIdentifier reads an optional "pkg::" prefix followed by a
// name.
func scanScopedIdentifier(s string) (pkg, name, rest string, ok bool) {
	first, r, ok := scanIdentifier(s)
	if !ok {
		return "", "", s, false
	}
	r2 := skipHSpace(r)
	if strings.HasPrefix(r2, "::") {
		second, r3, ok2 := scanIdentifier(r2[2:])
		if !ok2 {
			return "", "", s, false
		}
		return first, second, r3, true
	}
	return "", first, r, true
}

// scanSignalName reads either ".identifier" (a port reference) or
// "identifier[.identifier]" (a local, possibly dotted, signal).
func scanSignalName(s string) (name, rest string, ok bool) {
	s = skipHSpace(s)
	if strings.HasPrefix(s, ".") {
		id, r, ok := scanIdentifier(s[1:])
		if !ok {
			return "", s, false
		}
		return "." + id, r, true
	}
	id, r, ok := scanIdentifier(s)
	if !ok {
		return "", s, false
	}
	if strings.HasPrefix(r, ".") {
		id2, r2, ok2 := scanIdentifier(r[1:])
		if ok2 {
			return id + "." + id2, r2, true
		}
	}
	return id, r, true
}

// scanPathName reads a dotted chain of identifiers.
func scanPathName(s string) (name, rest string, ok bool) {
	id, r, ok := scanIdentifier(s)
	if !ok {
		return "", s, false
	}
	full := id
	for strings.HasPrefix(r, ".") {
		id2, r2, ok2 := scanIdentifier(r[1:])
		if !ok2 {
			break
		}
		full += "." + id2
		r = r2
	}
	return full, r, true
}

// scanQuotedString reads a double-quoted string literal.
func scanQuotedString(s string) (text, rest string, ok bool) {
	s = skipHSpace(s)
	if s == "" || s[0] != '"' {
		return "", s, false
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '"' {
			return s[1:i], s[i+1:], true
		}
	}
	return "", s, false
}

// scanDesc reads a description: a quoted string if present, otherwise
// the rest of the line trimmed of surrounding whitespace.
func scanDesc(s string) string {
	if text, rest, ok := scanQuotedString(s); ok {
		_ = rest
		return text
	}
	return strings.TrimSpace(s)
}

// measureIndent counts the leading run of spaces/tabs in line,
// rejecting a mix of both within that run.
func measureIndent(line string) (col int, rest string, err error) {
	i := 0
	sawSpace, sawTab := false, false
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		if line[i] == ' ' {
			sawSpace = true
		} else {
			sawTab = true
		}
		i++
	}
	if sawSpace && sawTab {
		return 0, line, errMixedIndent
	}
	return i, line[i:], nil
}

// isBlankOrComment reports whether line, ignoring leading/trailing
// whitespace, is empty or starts with a "#" or "//" comment marker.
// Inline trailing comments after real content are not recognized;
// only whole-line comments are.
func isBlankOrComment(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//")
}

// scanUintLiteral reads an unsigned integer in sized (N'bB/N'oO/N'dD/
// N'hH), 0x-hex, or plain decimal form.
func scanUintLiteral(s string) (value uint64, rest string, ok bool) {
	s = skipHSpace(s)
	start := 0
	for start < len(s) && isDigit(s[start]) {
		start++
	}
	if start < len(s) && s[start] == '\'' && start+1 < len(s) {
		base := 0
		switch s[start+1] {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'd', 'D':
			base = 10
		case 'h', 'H':
			base = 16
		}
		if base != 0 {
			digits := s[start+2:]
			j := 0
			for j < len(digits) && isBaseDigit(digits[j], base) {
				j++
			}
			if j == 0 {
				return 0, s, false
			}
			v, err := strconv.ParseUint(digits[:j], base, 64)
			if err != nil {
				return 0, s, false
			}
			return v, digits[j:], true
		}
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		j := 0
		for j < len(digits) && isBaseDigit(digits[j], 16) {
			j++
		}
		if j == 0 {
			return 0, s, false
		}
		v, err := strconv.ParseUint(digits[:j], 16, 64)
		if err != nil {
			return 0, s, false
		}
		return v, digits[j:], true
	}
	j := 0
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == 0 {
		return 0, s, false
	}
	v, err := strconv.ParseUint(s[:j], 10, 64)
	if err != nil {
		return 0, s, false
	}
	return v, s[j:], true
}

func isBaseDigit(b byte, base int) bool {
	var d int
	switch {
	case b >= '0' && b <= '9':
		d = int(b - '0')
	case b >= 'a' && b <= 'f':
		d = int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		d = int(b-'A') + 10
	default:
		return false
	}
	return d < base
}

// scanResetVal reads a reset value: a parameter reference, a signed
// literal (leading -/+), or an unsigned literal.
func scanResetVal(s string) (rv ast.ResetVal, rest string, ok bool) {
	s = skipHSpace(s)
	if strings.HasPrefix(s, "$") {
		name, r, idOk := scanIdentifier(s[1:])
		if !idOk {
			return ast.ResetVal{}, s, false
		}
		return ast.ResetParam(name), r, true
	}
	neg := false
	t := s
	if strings.HasPrefix(t, "-") {
		neg = true
		t = t[1:]
	} else if strings.HasPrefix(t, "+") {
		t = t[1:]
	}
	v, r, vOk := scanUintLiteral(t)
	if !vOk {
		return ast.ResetVal{}, s, false
	}
	if neg {
		return ast.ResetSignedValue(-int64(v)), r, true
	}
	if strings.HasPrefix(s, "+") {
		return ast.ResetSignedValue(int64(v)), r, true
	}
	return ast.ResetUnsignedValue(int64(v)), r, true
}

// scanResetValArray reads a brace-delimited, comma-separated list of
// reset values: "{v0, v1, ...}".
func scanResetValArray(s string) (vals []ast.ResetVal, rest string, ok bool) {
	s = skipHSpace(s)
	if s == "" || s[0] != '{' {
		return nil, s, false
	}
	s = s[1:]
	for {
		s = skipHSpace(s)
		v, r, vOk := scanResetVal(s)
		if !vOk {
			return nil, s, false
		}
		vals = append(vals, v)
		s = skipHSpace(r)
		if strings.HasPrefix(s, ",") {
			s = s[1:]
			continue
		}
		if strings.HasPrefix(s, "}") {
			return vals, s[1:], true
		}
		return nil, s, false
	}
}

// scanWidthOrParam reads a bit width as either a bare unsigned literal
// or a "$param" reference.
func scanWidthOrParam(s string) (w ast.Width, rest string, ok bool) {
	s = skipHSpace(s)
	if strings.HasPrefix(s, "$") {
		name, r, idOk := scanIdentifier(s[1:])
		if !idOk {
			return ast.Width{}, s, false
		}
		return ast.WidthParam(name), r, true
	}
	v, r, vOk := scanUintLiteral(s)
	if !vOk {
		return ast.Width{}, s, false
	}
	return ast.WidthValue(int(v)), r, true
}

// scanFieldPos reads a field position: "msb:lsb", "lsb+:width",
// "Nb" (a literal bit count) or "$param" (a parameterized size).
func scanFieldPos(s string) (pos ast.FieldPos, rest string, ok bool) {
	s = skipHSpace(s)
	if strings.HasPrefix(s, "$") {
		name, r, idOk := scanIdentifier(s[1:])
		if idOk {
			return ast.PosFromSize(ast.WidthParam(name)), r, true
		}
	}
	if v, r, vOk := scanUintLiteral(s); vOk && strings.HasPrefix(r, "b") {
		return ast.PosFromSize(ast.WidthValue(int(v))), r[1:], true
	}
	a, r, aOk := scanWidthOrParam(s)
	if !aOk {
		return ast.FieldPos{}, s, false
	}
	r = skipHSpace(r)
	if strings.HasPrefix(r, "+:") {
		b, r2, bOk := scanWidthOrParam(r[2:])
		if !bOk {
			return ast.FieldPos{}, s, false
		}
		return ast.PosFromLsbSize(a, b), r2, true
	}
	if strings.HasPrefix(r, ":") {
		b, r2, bOk := scanWidthOrParam(r[1:])
		if !bOk {
			return ast.FieldPos{}, s, false
		}
		return ast.PosFromMsbLsb(a, b), r2, true
	}
	return ast.FieldPos{}, s, false
}
