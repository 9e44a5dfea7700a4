// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package parser

import "github.com/TheClams/yarig/internal/yrerr"

// errMixedIndent is raised by measureIndent when a line mixes spaces
// and tabs within its leading whitespace run.
var errMixedIndent = yrerr.New("indentation mixes tabs and spaces")

// bailout unwinds the parser's recursive-descent call stack back to
// ParseFile once p.err has been set, mirroring the panic/recover idiom
// used throughout the corpus's hand-written recursive-descent parsers.
type bailout struct{}

func (p *parser) fail(err error) {
	p.err = err
	panic(bailout{})
}

func (p *parser) errorf(format string, args ...any) {
	p.fail(yrerr.ParseError(p.lineNo, format, args...))
}

func (p *parser) unsupported(what, lineText string) {
	p.fail(yrerr.UnsupportedError(p.lineNo, what, lineText))
}

func (p *parser) duplicated(what, name string) {
	p.fail(yrerr.DuplicatedError(p.lineNo, what, name))
}
