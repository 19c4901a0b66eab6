// Package fixer restores the grouping parentheses the printer needs.
//
// The parser drops grouping parens, so a tree rendered verbatim can reparse
// with different structure. Fix walks the tree bottom-up and wraps exactly
// the subexpressions whose flat rendering would bind differently, using
// explicit ParenExpr nodes that the printer honors. Running Fix on its own
// output changes nothing.
package fixer

import (
	"morph/internal/ast"
)

// prec mirrors the parser's binding strengths. Higher binds tighter.
func prec(op string) int {
	switch op {
	case "===", "!==", "==", "!=":
		return 3
	case "<", ">", "<=", ">=":
		return 4
	case "+", "-":
		return 5
	case "*", "/", "%":
		return 6
	}
	return 0
}

// Fix returns a copy of the module with grouping parentheses inserted where
// the rendered text would otherwise reparse differently.
func Fix(m *ast.Module) *ast.Module {
	rw := &ast.Rewriter{}
	rw.Expr = func(x ast.Expr) ast.Expr {
		switch n := x.(type) {
		case *ast.BinExpr:
			n.L = wrapOperand(n.L, prec(n.Op), false)
			n.R = wrapOperand(n.R, prec(n.Op), true)
			return n
		case *ast.UnaryExpr:
			n.X = wrapUnaryOperand(n.X)
			return n
		case *ast.CallExpr:
			n.Callee = wrapCalleeOrObject(n.Callee)
			return n
		case *ast.MemberExpr:
			n.Obj = wrapCalleeOrObject(n.Obj)
			return n
		}
		return x
	}
	rw.Stmt = func(s ast.Stmt) ast.Stmt {
		if es, ok := s.(*ast.ExprStmt); ok {
			es.X = wrapStmtHead(es.X)
		}
		return s
	}
	return rw.Module(m)
}

// wrapOperand parenthesizes a binary operand that binds looser than its
// parent operator. With left association the right operand also needs parens
// at equal strength: a - (b - c) is not a - b - c.
func wrapOperand(x ast.Expr, parent int, right bool) ast.Expr {
	switch n := x.(type) {
	case *ast.BinExpr:
		p := prec(n.Op)
		if p < parent || (right && p == parent) {
			return &ast.ParenExpr{X: n}
		}
	case *ast.AssignExpr:
		return &ast.ParenExpr{X: n}
	}
	return x
}

// wrapUnaryOperand parenthesizes anything looser than a unary operator,
// so -(a + b) survives a round trip.
func wrapUnaryOperand(x ast.Expr) ast.Expr {
	switch x.(type) {
	case *ast.BinExpr, *ast.AssignExpr:
		return &ast.ParenExpr{X: x}
	}
	return x
}

// wrapCalleeOrObject parenthesizes callees and member objects that cannot
// stand bare on the left of a call or member access.
func wrapCalleeOrObject(x ast.Expr) ast.Expr {
	switch x.(type) {
	case *ast.FuncExpr, *ast.ObjectLit, *ast.BinExpr, *ast.UnaryExpr, *ast.AssignExpr:
		return &ast.ParenExpr{X: x}
	}
	return x
}

// wrapStmtHead parenthesizes the leftmost subexpression of an expression
// statement when it would start the line with `function` or `{`, which the
// parser would read as a declaration or a block.
func wrapStmtHead(x ast.Expr) ast.Expr {
	switch n := x.(type) {
	case *ast.FuncExpr, *ast.ObjectLit:
		return &ast.ParenExpr{X: x}
	case *ast.BinExpr:
		n.L = wrapStmtHead(n.L)
		return n
	case *ast.AssignExpr:
		if !n.Target.IsPat() {
			n.Target.Expr = wrapStmtHead(n.Target.Expr)
		} else if ep, ok := n.Target.Pat.(*ast.ExprPat); ok {
			if _, isObj := ep.X.(*ast.ObjectLit); isObj {
				return &ast.ParenExpr{X: n}
			}
		}
		return n
	case *ast.CallExpr:
		n.Callee = wrapStmtHead(n.Callee)
		return n
	case *ast.MemberExpr:
		n.Obj = wrapStmtHead(n.Obj)
		return n
	}
	return x
}
