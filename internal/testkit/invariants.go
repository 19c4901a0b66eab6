// Package testkit holds shared sanity checks for trees moving through the
// verification pipeline.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"morph/internal/ast"
	"morph/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a freshly
// parsed module:
// 1) every top-level statement span is non-empty and within content bounds
// 2) every span points at the parsed file
// 3) statement spans do not run past each other out of order
func CheckSpanInvariants(m *ast.Module, sf *source.File) error {
	if m == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	for i, s := range m.Body {
		sp := stmtSpan(s)
		if sp.End <= sp.Start {
			return fmt.Errorf("empty span on statement %d: %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("statement %d span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("statement %d span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("statement %d span %v overlaps previous %v", i, sp, prev)
		}
		prev = sp
	}
	return nil
}

func stmtSpan(s ast.Stmt) source.Span {
	switch n := s.(type) {
	case *ast.VarDecl:
		return n.Span
	case *ast.ExprStmt:
		return n.Span
	case *ast.FuncDecl:
		return n.Span
	case *ast.ReturnStmt:
		return n.Span
	case *ast.BlockStmt:
		return n.Span
	}
	return source.Span{}
}

// CheckTreeInvariants verifies structural soundness of a tree whose spans
// may already be gone: no nil children where the printer expects a node, no
// empty identifier names. The stage label names the pipeline step that
// produced the tree so a violation points at the guilty pass.
func CheckTreeInvariants(m *ast.Module, stage string) error {
	if m == nil {
		return fmt.Errorf("%s: nil module", stage)
	}
	c := checker{stage: stage}
	for _, s := range m.Body {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

type checker struct {
	stage string
}

func (c *checker) fail(format string, args ...any) error {
	return fmt.Errorf("%s: %s", c.stage, fmt.Sprintf(format, args...))
}

func (c *checker) stmt(s ast.Stmt) error {
	switch n := s.(type) {
	case nil:
		return c.fail("nil statement")
	case *ast.VarDecl:
		if len(n.Decls) == 0 {
			return c.fail("var decl without declarators")
		}
		for _, d := range n.Decls {
			if d.Name == nil {
				return c.fail("declarator without a name")
			}
			if err := c.pat(d.Name); err != nil {
				return err
			}
			if d.Init != nil {
				if err := c.expr(d.Init); err != nil {
					return err
				}
			}
		}
	case *ast.ExprStmt:
		if n.X == nil {
			return c.fail("expression statement without expression")
		}
		return c.expr(n.X)
	case *ast.FuncDecl:
		if n.Name == nil || n.Name.Name == "" {
			return c.fail("function declaration without a name")
		}
		if n.Body == nil {
			return c.fail("function %s without a body", n.Name.Name)
		}
		for _, p := range n.Params {
			if err := c.pat(p); err != nil {
				return err
			}
		}
		for _, bs := range n.Body.Body {
			if err := c.stmt(bs); err != nil {
				return err
			}
		}
	case *ast.ReturnStmt:
		if n.Arg != nil {
			return c.expr(n.Arg)
		}
	case *ast.BlockStmt:
		for _, bs := range n.Body {
			if err := c.stmt(bs); err != nil {
				return err
			}
		}
	default:
		return c.fail("unknown statement %T", s)
	}
	return nil
}

func (c *checker) expr(x ast.Expr) error {
	switch n := x.(type) {
	case nil:
		return c.fail("nil expression")
	case *ast.Ident:
		if n.Name == "" {
			return c.fail("identifier without a name")
		}
	case *ast.NumberLit, *ast.StringLit, *ast.BoolLit, *ast.NullLit:
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			if err := c.expr(el); err != nil {
				return err
			}
		}
	case *ast.ObjectLit:
		for _, p := range n.Props {
			if p.Key == nil || p.Key.Name == "" {
				return c.fail("object property without a key")
			}
			if p.Value == nil {
				return c.fail("object property %s without a value", p.Key.Name)
			}
			if err := c.expr(p.Value); err != nil {
				return err
			}
		}
	case *ast.FuncExpr:
		if n.Body == nil {
			return c.fail("function expression without a body")
		}
		for _, p := range n.Params {
			if err := c.pat(p); err != nil {
				return err
			}
		}
		for _, bs := range n.Body.Body {
			if err := c.stmt(bs); err != nil {
				return err
			}
		}
	case *ast.ParenExpr:
		if n.X == nil {
			return c.fail("empty parenthesized expression")
		}
		return c.expr(n.X)
	case *ast.UnaryExpr:
		if n.Op == "" {
			return c.fail("unary expression without an operator")
		}
		return c.expr(n.X)
	case *ast.BinExpr:
		if n.Op == "" {
			return c.fail("binary expression without an operator")
		}
		if err := c.expr(n.L); err != nil {
			return err
		}
		return c.expr(n.R)
	case *ast.AssignExpr:
		if n.Target.Pat == nil && n.Target.Expr == nil {
			return c.fail("assignment without a target")
		}
		if n.Target.Pat != nil && n.Target.Expr != nil {
			return c.fail("assignment target set on both sides")
		}
		if n.Target.IsPat() {
			if err := c.pat(n.Target.Pat); err != nil {
				return err
			}
		} else if err := c.expr(n.Target.Expr); err != nil {
			return err
		}
		return c.expr(n.Value)
	case *ast.CallExpr:
		if n.Callee == nil {
			return c.fail("call without a callee")
		}
		if err := c.expr(n.Callee); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.expr(a); err != nil {
				return err
			}
		}
	case *ast.MemberExpr:
		if n.Obj == nil {
			return c.fail("member access without an object")
		}
		if err := c.expr(n.Obj); err != nil {
			return err
		}
		if n.Computed {
			if n.Index == nil {
				return c.fail("computed member access without an index")
			}
			return c.expr(n.Index)
		}
		if n.Prop == nil || n.Prop.Name == "" {
			return c.fail("member access without a property name")
		}
	default:
		return c.fail("unknown expression %T", x)
	}
	return nil
}

func (c *checker) pat(p ast.Pat) error {
	switch n := p.(type) {
	case nil:
		return c.fail("nil pattern")
	case *ast.Ident:
		if n.Name == "" {
			return c.fail("binding without a name")
		}
	case *ast.ArrayPat:
		for _, el := range n.Elems {
			if err := c.pat(el); err != nil {
				return err
			}
		}
	case *ast.ObjectPat:
		for _, pr := range n.Props {
			if pr.Key == nil || pr.Key.Name == "" {
				return c.fail("object pattern property without a key")
			}
			if pr.Value != nil {
				if err := c.pat(pr.Value); err != nil {
					return err
				}
			}
		}
	case *ast.ExprPat:
		if n.X == nil {
			return c.fail("empty expression pattern")
		}
		return c.expr(n.X)
	default:
		return c.fail("unknown pattern %T", p)
	}
	return nil
}
