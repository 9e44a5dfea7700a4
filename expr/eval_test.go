// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package expr

import "testing"

type varLookup map[string]int

func (v varLookup) Var(name string) (int, bool) { val, ok := v[name]; return val, ok }
func (v varLookup) Idx() int                     { return 0 }

func evalExpr(t *testing.T, src string, vars varLookup) int {
	t.Helper()
	tokens, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	v, err := Eval(tokens, vars)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func TestEvalArithmetic(t *testing.T) {
	if got := evalExpr(t, "1+2*3", nil); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestEvalUnaryNot(t *testing.T) {
	got := evalExpr(t, "16*(not $v1) + 256*$v1", varLookup{"v1": 1})
	if got != 256 {
		t.Errorf("got %d, want 256", got)
	}
	got = evalExpr(t, "16*(not $v1) + 256*$v1", varLookup{"v1": 0})
	if got != 16 {
		t.Errorf("got %d, want 16", got)
	}
}

func TestEvalPow(t *testing.T) {
	got := evalExpr(t, "pow(2,$x)-1", varLookup{"x": 17})
	if got != 131071 {
		t.Errorf("got %d, want 131071", got)
	}
}

func TestEvalIntegerDivisionCast(t *testing.T) {
	got := evalExpr(t, "int(7/2)", nil)
	if got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestEvalShiftAndRem(t *testing.T) {
	if got := evalExpr(t, "1<<4", nil); got != 16 {
		t.Errorf("1<<4 = %d, want 16", got)
	}
	if got := evalExpr(t, "17 % 5", nil); got != 2 {
		t.Errorf("17%%5 = %d, want 2", got)
	}
}

func TestEvalComparison(t *testing.T) {
	if got := evalExpr(t, "3 > 2", nil); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := evalExpr(t, "3 == 2", nil); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestEvalEmptyExpression(t *testing.T) {
	got := evalExpr(t, "", nil)
	if got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestEvalUnknownVar(t *testing.T) {
	tokens, err := Parse("$missing+1")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = Eval(tokens, varLookup{})
	if err == nil {
		t.Fatal("expected UnknownVar error, got nil")
	}
	evalErr, ok := err.(*EvalError)
	if !ok || evalErr.UnknownVar != "missing" {
		t.Errorf("got %v, want UnknownVar(missing)", err)
	}
}
