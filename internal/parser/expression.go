package parser

import (
	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/source"
)

// binPrec returns binary operator precedence; 0 means not a binary operator.
func binPrec(op string) int {
	switch op {
	case "==", "===", "!=", "!==":
		return 3
	case "<", "<=", ">", ">=":
		return 4
	case "+", "-":
		return 5
	case "*", "/":
		return 6
	}
	return 0
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssign()
}

func (p *parser) parseAssign() ast.Expr {
	start := p.cur.Span.Start
	lhs := p.parseBinary(1)
	if !p.isPunct("=") {
		return lhs
	}
	p.advance() // '='

	target := p.asTarget(lhs)
	value := p.parseAssign()
	return &ast.AssignExpr{Span: p.spanFrom(start), Target: target, Value: value}
}

// asTarget converts a parsed left-hand side into an assignment target.
// Destructuring targets come out as an expression wrapped in pattern
// position; that is how the grammar reaches them, and the expected-side
// normalizer collapses the wrapper later.
func (p *parser) asTarget(lhs ast.Expr) ast.Target {
	switch lhs.(type) {
	case *ast.Ident, *ast.MemberExpr:
		return ast.Target{Expr: lhs}
	case *ast.ArrayLit, *ast.ObjectLit:
		p.checkDestructuring()
		return ast.Target{Pat: &ast.ExprPat{Span: exprSpan(lhs), X: lhs}}
	default:
		p.errorAt(diag.SynBadAssignTarget, exprSpan(lhs), "invalid assignment target")
		return ast.Target{Expr: lhs}
	}
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	start := p.cur.Span.Start
	left := p.parseUnary()
	for {
		if p.cur.Kind != tokPunct {
			return left
		}
		prec := binPrec(p.cur.Text)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.cur.Text
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.BinExpr{Span: p.spanFrom(start), Op: op, L: left, R: right}
	}
}

func (p *parser) parseUnary() ast.Expr {
	start := p.cur.Span.Start
	if p.isPunct("-") || p.isPunct("!") {
		op := p.cur.Text
		p.advance()
		return &ast.UnaryExpr{Span: p.spanFrom(start), Op: op, X: p.parseUnary()}
	}
	if p.isKeyword("typeof") {
		p.advance()
		return &ast.UnaryExpr{Span: p.spanFrom(start), Op: "typeof", X: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	start := p.cur.Span.Start
	x := p.parsePrimary()
	for {
		switch {
		case p.isPunct("("):
			p.advance()
			var args []ast.Expr
			for !p.isPunct(")") && p.cur.Kind != tokEOF && !p.bail {
				args = append(args, p.parseAssign())
				if !p.eatPunct(",") {
					break
				}
			}
			p.expectPunct(")", diag.SynUnclosedParen)
			x = &ast.CallExpr{Span: p.spanFrom(start), Callee: x, Args: args}
		case p.isPunct("."):
			p.advance()
			prop := p.parseIdent()
			x = &ast.MemberExpr{Span: p.spanFrom(start), Obj: x, Prop: prop}
		case p.isPunct("["):
			p.advance()
			idx := p.parseExpr()
			p.expectPunct("]", diag.SynUnclosedBracket)
			x = &ast.MemberExpr{Span: p.spanFrom(start), Obj: x, Computed: true, Index: idx}
		default:
			return x
		}
	}
}

func (p *parser) parsePrimary() ast.Expr {
	start := p.cur.Span.Start

	switch p.cur.Kind {
	case tokNumber:
		v := p.cur.Num
		p.advance()
		return &ast.NumberLit{Span: p.spanFrom(start), Value: v}

	case tokString:
		s := p.cur.Str
		p.advance()
		return &ast.StringLit{Span: p.spanFrom(start), Value: s}

	case tokIdent:
		switch p.cur.Text {
		case "true", "false":
			v := p.cur.Text == "true"
			p.advance()
			return &ast.BoolLit{Span: p.spanFrom(start), Value: v}
		case "null":
			p.advance()
			return &ast.NullLit{Span: p.spanFrom(start)}
		case "function":
			return p.parseFuncExpr()
		}
		return p.parseIdent()

	case tokPunct:
		switch p.cur.Text {
		case "(":
			// Grouping parens are a printing concern; the tree keeps the
			// inner expression and the fixer reinserts them when required.
			p.advance()
			x := p.parseExpr()
			p.expectPunct(")", diag.SynUnclosedParen)
			return x
		case "[":
			p.advance()
			var elems []ast.Expr
			for !p.isPunct("]") && p.cur.Kind != tokEOF && !p.bail {
				elems = append(elems, p.parseAssign())
				if !p.eatPunct(",") {
					break
				}
			}
			p.expectPunct("]", diag.SynUnclosedBracket)
			return &ast.ArrayLit{Span: p.spanFrom(start), Elems: elems}
		case "{":
			return p.parseObjectLit()
		}
	}

	p.errorAt(diag.SynExpectExpression, p.cur.Span, "expected expression")
	span := p.cur.Span
	p.sync()
	return &ast.Ident{Span: span, Name: "_"}
}

func (p *parser) parseFuncExpr() ast.Expr {
	start := p.cur.Span.Start
	p.advance() // 'function'

	var name *ast.Ident
	if p.cur.Kind == tokIdent && !isReserved(p.cur.Text) {
		name = p.parseIdent()
	}
	params := p.parseParams()
	body := p.parseBlock()
	return &ast.FuncExpr{Span: p.spanFrom(start), Name: name, Params: params, Body: body}
}

func (p *parser) parseObjectLit() ast.Expr {
	start := p.cur.Span.Start
	p.advance() // '{'

	var props []ast.Property
	for !p.isPunct("}") && p.cur.Kind != tokEOF && !p.bail {
		pstart := p.cur.Span.Start
		if p.cur.Kind != tokIdent {
			p.errorAt(diag.SynExpectPropertyKey, p.cur.Span, "expected property key")
			p.sync()
			break
		}
		key := p.parseIdent()
		if p.eatPunct(":") {
			value := p.parseAssign()
			props = append(props, ast.Property{Span: p.spanFrom(pstart), Key: key, Value: value})
		} else {
			// Shorthand: {a} binds key and value to the same name.
			props = append(props, ast.Property{
				Span:      p.spanFrom(pstart),
				Key:       key,
				Value:     &ast.Ident{Span: key.Span, Name: key.Name},
				Shorthand: true,
			})
		}
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct("}", diag.SynUnclosedBrace)
	return &ast.ObjectLit{Span: p.spanFrom(start), Props: props}
}

func exprSpan(e ast.Expr) (sp source.Span) {
	switch n := e.(type) {
	case *ast.Ident:
		return n.Span
	case *ast.NumberLit:
		return n.Span
	case *ast.StringLit:
		return n.Span
	case *ast.BoolLit:
		return n.Span
	case *ast.NullLit:
		return n.Span
	case *ast.ArrayLit:
		return n.Span
	case *ast.ObjectLit:
		return n.Span
	case *ast.FuncExpr:
		return n.Span
	case *ast.ParenExpr:
		return n.Span
	case *ast.UnaryExpr:
		return n.Span
	case *ast.BinExpr:
		return n.Span
	case *ast.AssignExpr:
		return n.Span
	case *ast.CallExpr:
		return n.Span
	case *ast.MemberExpr:
		return n.Span
	}
	return sp
}
