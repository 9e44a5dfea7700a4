// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package expr

import "github.com/TheClams/yarig/internal/yrerr"

// ctxKind distinguishes the two reasons a '(' was opened: a plain
// sub-expression, or a function call still awaiting a fixed number of
// remaining arguments.
type ctxKind int

const (
	ctxSubExpr ctxKind = iota
	ctxFuncCall
)

type exprCtx struct {
	kind     ctxKind
	nargsLeft int
}

// state is the shunting-yard's explicit two-state grammar: an Operand
// is expected next, or an Operator (possibly `)`/`,` depending on the
// open context).
type state int

const (
	stateOperand state = iota
	stateOperator
)

// Parse compiles an infix expression into its RPN token sequence
// using a shunting-yard algorithm with an explicit context stack for
// function-call argument counting and parenthesis nesting.
func Parse(input string) (Tokens, error) {
	s := input
	var output Tokens
	var ops Tokens
	var ctx []exprCtx
	st := stateOperand

	pushOp := func(tok Token) {
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			if top.Kind != KindOperator {
				break
			}
			if top.Op.precedence() > tok.Op.precedence() {
				break
			}
			output = append(output, top)
			ops = ops[:len(ops)-1]
		}
		ops = append(ops, tok)
	}

	popUntilParen := func() {
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			ops = ops[:len(ops)-1]
			if top.Kind == KindParenL {
				return
			}
			output = append(output, top)
		}
	}

	popUntilFunc := func() {
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			ops = ops[:len(ops)-1]
			if top.Kind == KindFunc {
				output = append(output, top)
				return
			}
			if top.Kind == KindParenL {
				continue
			}
			output = append(output, top)
		}
	}

	s = skipSpace(s)
	for s != "" {
		switch st {
		case stateOperand:
			switch {
			case s[0] == '(':
				ops = append(ops, Token{Kind: KindParenL})
				ctx = append(ctx, exprCtx{kind: ctxSubExpr})
				s = skipSpace(s[1:])
			case s[0] == '$':
				name, rest, ok := scanIdent(s[1:])
				if !ok {
					return nil, yrerr.New("expression: expected variable name after '$'")
				}
				output = append(output, Token{Kind: KindVar, Var: name})
				s = skipSpace(rest)
				st = stateOperator
			case s[0] == 'n' && len(s) >= 3 && s[:3] == "not" && (len(s) == 3 || !isAlnum(s[3])):
				ops = append(ops, Token{Kind: KindOperator, Op: OpNot})
				s = skipSpace(s[3:])
			case s[0] == '!' && !(len(s) > 1 && s[1] == '='):
				ops = append(ops, Token{Kind: KindOperator, Op: OpNot})
				s = skipSpace(s[1:])
			case s[0] == '~':
				ops = append(ops, Token{Kind: KindOperator, Op: OpNot})
				s = skipSpace(s[1:])
			default:
				if name, rest, ok := scanIdent(s); ok {
					if name == "i" {
						output = append(output, Token{Kind: KindIdx})
						s = skipSpace(rest)
						st = stateOperator
						break
					}
					if fn, isFn := funcByName(name); isFn {
						rest = skipSpace(rest)
						if rest == "" || rest[0] != '(' {
							return nil, yrerr.Newf("expression: expected '(' after function %q", name)
						}
						ops = append(ops, Token{Kind: KindFunc, Func: fn})
						ops = append(ops, Token{Kind: KindParenL})
						ctx = append(ctx, exprCtx{kind: ctxFuncCall, nargsLeft: fn.nargs()})
						s = skipSpace(rest[1:])
						break
					}
					if v, r, okNum := scanNumber(s); okNum {
						output = append(output, Token{Kind: KindNumber, Num: v})
						s = skipSpace(r)
						st = stateOperator
						break
					}
					return nil, yrerr.Newf("expression: unexpected identifier %q", name)
				}
				v, rest, okNum := scanNumber(s)
				if !okNum {
					return nil, yrerr.Newf("expression: expected operand at %q", s)
				}
				output = append(output, Token{Kind: KindNumber, Num: v})
				s = skipSpace(rest)
				st = stateOperator
			}

		case stateOperator:
			var top *exprCtx
			if len(ctx) > 0 {
				top = &ctx[len(ctx)-1]
			}
			switch {
			case top != nil && top.kind == ctxSubExpr && s[0] == ')':
				popUntilParen()
				ctx = ctx[:len(ctx)-1]
				s = skipSpace(s[1:])
			case top != nil && top.kind == ctxFuncCall && top.nargsLeft <= 1 && s[0] == ')':
				popUntilFunc()
				ctx = ctx[:len(ctx)-1]
				s = skipSpace(s[1:])
			case top != nil && top.kind == ctxFuncCall && top.nargsLeft > 1 && s[0] == ',':
				// Flush operators down to (not including) the call's '('.
				for len(ops) > 0 && ops[len(ops)-1].Kind != KindParenL {
					output = append(output, ops[len(ops)-1])
					ops = ops[:len(ops)-1]
				}
				top.nargsLeft--
				s = skipSpace(s[1:])
				st = stateOperand
			default:
				op, rest, okOp := scanOperator(s)
				if !okOp {
					return nil, yrerr.Newf("expression: expected operator at %q", s)
				}
				pushOp(Token{Kind: KindOperator, Op: op})
				s = skipSpace(rest)
				st = stateOperand
			}
		}
	}

	for len(ops) > 0 {
		output = append(output, ops[len(ops)-1])
		ops = ops[:len(ops)-1]
	}
	return output, nil
}

// scanOperator reads one binary operator token, longest match first
// so that e.g. "<=" is not read as "<" followed by "=".
func scanOperator(s string) (Op, string, bool) {
	two := map[string]Op{
		"<<": OpShl,
		">>": OpShr,
		"<=": OpLe,
		">=": OpGe,
		"==": OpEq,
		"!=": OpNe,
	}
	if len(s) >= 2 {
		if op, ok := two[s[:2]]; ok {
			return op, s[2:], true
		}
	}
	if len(s) >= 1 {
		switch s[0] {
		case '*':
			return OpMul, s[1:], true
		case '/':
			return OpDiv, s[1:], true
		case '%':
			return OpRem, s[1:], true
		case '+':
			return OpAdd, s[1:], true
		case '-':
			return OpSub, s[1:], true
		case '^':
			return OpPow, s[1:], true
		case '<':
			return OpLt, s[1:], true
		case '>':
			return OpGt, s[1:], true
		}
	}
	return 0, s, false
}
