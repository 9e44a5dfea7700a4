// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package expr

import "github.com/TheClams/yarig/internal/ordered"

// ParamValues holds the resolved integer value of every parameter
// visible at a given point of elaboration. It implements Lookup so it
// can evaluate expressions directly; Idx always reads 0 since
// parameters never bind the interpolation index.
type ParamValues struct {
	values *ordered.Dict[string, int]
}

// NewParamValues returns an empty ParamValues.
func NewParamValues() *ParamValues {
	return &ParamValues{values: ordered.New[string, int]()}
}

// Get returns the resolved value of name, if bound.
func (p *ParamValues) Get(name string) (int, bool) {
	return p.values.Get(name)
}

// Var implements Lookup.
func (p *ParamValues) Var(name string) (int, bool) { return p.Get(name) }

// Idx implements Lookup; parameters never see an interpolation index.
func (p *ParamValues) Idx() int { return 0 }

// Insert binds name to v, overwriting any existing binding.
func (p *ParamValues) Insert(name string, v int) {
	p.values.Insert(name, v)
}

// Items calls fn for every (name, value) binding in p, in the order
// they were first bound. Used to scope a top-level parameter override
// like "item.width" down to the "width" a sub-instance sees.
func (p *ParamValues) Items(fn func(name string, v int)) {
	p.values.Items(fn)
}

// Clone returns an independent copy of p, used when a register
// instance or array element needs its own parameter scope seeded from
// an enclosing one.
func (p *ParamValues) Clone() *ParamValues {
	out := NewParamValues()
	p.values.Items(func(k string, v int) { out.Insert(k, v) })
	return out
}

// Compile resolves every (name, expression) pair in decls, in
// declaration order, against the values already bound in p plus those
// it resolves along the way. A name already bound in p is left
// untouched: first binding wins, so values supplied by a caller (e.g.
// an instantiation's parameter overrides) take priority over a
// definition's own declared default.
func (p *ParamValues) Compile(decls *ordered.Dict[string, Tokens]) error {
	var err error
	decls.Items(func(name string, tokens Tokens) {
		if err != nil || p.values.ContainsKey(name) {
			return
		}
		v, evalErr := Eval(tokens, p)
		if evalErr != nil {
			err = evalErr
			return
		}
		p.Insert(name, v)
	})
	return err
}
