// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package expr

import "testing"

func tok(kind Kind) Token { return Token{Kind: kind} }

func num(v float64) Token { return Token{Kind: KindNumber, Num: v} }

func variable(name string) Token { return Token{Kind: KindVar, Var: name} }

func operator(op Op) Token { return Token{Kind: KindOperator, Op: op} }

func fn(f Func) Token { return Token{Kind: KindFunc, Func: f} }

func tokensEqual(a, b Tokens) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseNumber(t *testing.T) {
	got, err := Parse("256 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Tokens{num(256)}
	if !tokensEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSizedLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"8'hFF", 255},
		{"4'b1010", 10},
		{"3'd6", 6},
		{"8'o17", 15},
		{"-8'hFF", -255},
		{"0x1A", 26},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.in, err)
		}
		want := Tokens{num(c.want)}
		if !tokensEqual(got, want) {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, want)
		}
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	got, err := Parse("1+2*3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Tokens{num(1), num(2), num(3), operator(OpMul), operator(OpAdd)}
	if !tokensEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSubExpr(t *testing.T) {
	got, err := Parse("(1+2)*3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Tokens{num(1), num(2), operator(OpAdd), num(3), operator(OpMul)}
	if !tokensEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseFuncCallSingleArg(t *testing.T) {
	got, err := Parse("log2($x)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Tokens{variable("x"), fn(FuncLog2)}
	if !tokensEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParsePowTwoArgs(t *testing.T) {
	got, err := Parse("pow(3,$x )-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Tokens{num(3), variable("x"), fn(FuncPow), num(1), operator(OpSub)}
	if !tokensEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseUnaryNot(t *testing.T) {
	got, err := Parse("16*(not $v1) + 256*$v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Tokens{
		num(16), variable("v1"), operator(OpNot), operator(OpMul),
		num(256), variable("v1"), operator(OpMul),
		operator(OpAdd),
	}
	if !tokensEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseIdx(t *testing.T) {
	got, err := Parse("i+1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Tokens{tok(KindIdx), num(1), operator(OpAdd)}
	if !tokensEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseErrorUnexpectedOperand(t *testing.T) {
	if _, err := Parse("1 + + 2"); err == nil {
		t.Error("expected error for malformed expression, got nil")
	}
}
