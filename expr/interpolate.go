// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package expr

import (
	"strconv"
	"strings"

	"github.com/TheClams/yarig/internal/yrerr"
)

// idxLookup binds only the interpolation index; variables are never
// valid inside a description's substitution.
type idxLookup int

func (l idxLookup) Var(name string) (int, bool) { return 0, false }
func (l idxLookup) Idx() int                    { return int(l) }

// Interpolate expands a description string: it is split on `$`, and
// every odd-numbered piece is either `i` (replaced by idx, with any
// trailing text preserved) or a sub-expression delimited by balanced
// parentheses (parsed and evaluated with `i` bound to idx, spliced in
// place of the parenthesized text).
func Interpolate(desc string, idx int) (string, error) {
	if !strings.Contains(desc, "$") {
		return desc, nil
	}
	var out strings.Builder
	pieces := strings.Split(desc, "$")
	for i, piece := range pieces {
		if i%2 == 0 {
			out.WriteString(piece)
			continue
		}
		switch {
		case strings.HasPrefix(piece, "i"):
			out.WriteString(strconv.Itoa(idx))
			out.WriteString(piece[1:])
		case strings.HasPrefix(piece, "("):
			sub, rest, ok := extractBalancedParen(piece)
			if !ok {
				return "", yrerr.Newf("description: unbalanced parenthesis in %q", desc)
			}
			tokens, err := Parse(sub)
			if err != nil {
				return "", err
			}
			v, err := Eval(tokens, idxLookup(idx))
			if err != nil {
				return "", err
			}
			out.WriteString(strconv.Itoa(v))
			out.WriteString(rest)
		default:
			out.WriteString(piece)
		}
	}
	return out.String(), nil
}

// extractBalancedParen splits s (which must start with '(') into the
// parenthesized substring, parens included, and whatever follows it.
func extractBalancedParen(s string) (sub, rest string, ok bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[:i+1], s[i+1:], true
			}
		}
	}
	return "", s, false
}
