// Package emit renders a tree to canonical source text.
//
// Output is deterministic for a given tree: single-quoted strings, 4-space
// indentation, one statement per line, trailing semicolons. The printer adds
// no parentheses of its own; grouping is printed only where the tree carries
// an explicit ParenExpr, which is the fixer's job to insert.
package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"morph/internal/ast"
)

// Print renders the module into the caller-supplied sink.
func Print(m *ast.Module, sink io.Writer) error {
	_, err := sink.Write(render(m))
	return err
}

// Source renders the module and returns the text as an owned string.
func Source(m *ast.Module) string {
	return string(render(m))
}

func render(m *ast.Module) []byte {
	w := NewWriter(0)
	e := emitter{w: w}
	if m != nil {
		for _, s := range m.Body {
			e.stmt(s)
		}
	}
	return w.Bytes()
}

type emitter struct {
	w *Writer
}

func (e *emitter) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		e.w.WriteString(n.Kind.String())
		e.w.WriteString(" ")
		for i, d := range n.Decls {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.pat(d.Name)
			if d.Init != nil {
				e.w.WriteString(" = ")
				e.expr(d.Init)
			}
		}
		e.w.WriteString(";")
		e.w.Newline()
	case *ast.ExprStmt:
		e.expr(n.X)
		e.w.WriteString(";")
		e.w.Newline()
	case *ast.FuncDecl:
		e.w.WriteString("function ")
		e.w.WriteString(n.Name.Name)
		e.params(n.Params)
		e.w.WriteString(" ")
		e.block(n.Body)
		e.w.Newline()
	case *ast.ReturnStmt:
		e.w.WriteString("return")
		if n.Arg != nil {
			e.w.WriteString(" ")
			e.expr(n.Arg)
		}
		e.w.WriteString(";")
		e.w.Newline()
	case *ast.BlockStmt:
		e.block(n)
		e.w.Newline()
	default:
		e.w.WriteString(fmt.Sprintf("/* unknown stmt %T */", s))
		e.w.Newline()
	}
}

func (e *emitter) block(b *ast.BlockStmt) {
	e.w.WriteString("{")
	if b == nil || len(b.Body) == 0 {
		e.w.WriteString("}")
		return
	}
	e.w.Newline()
	e.w.Indent()
	for _, s := range b.Body {
		e.stmt(s)
	}
	e.w.Dedent()
	e.w.WriteString("}")
}

func (e *emitter) params(params []ast.Pat) {
	e.w.WriteString("(")
	for i, p := range params {
		if i > 0 {
			e.w.WriteString(", ")
		}
		e.pat(p)
	}
	e.w.WriteString(")")
}

func (e *emitter) expr(x ast.Expr) {
	switch n := x.(type) {
	case *ast.Ident:
		e.w.WriteString(n.Name)
	case *ast.NumberLit:
		e.w.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.StringLit:
		e.w.WriteString(quote(n.Value))
	case *ast.BoolLit:
		e.w.WriteString(strconv.FormatBool(n.Value))
	case *ast.NullLit:
		e.w.WriteString("null")
	case *ast.ArrayLit:
		e.w.WriteString("[")
		for i, el := range n.Elems {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.expr(el)
		}
		e.w.WriteString("]")
	case *ast.ObjectLit:
		if len(n.Props) == 0 {
			e.w.WriteString("{}")
			return
		}
		e.w.WriteString("{ ")
		for i, p := range n.Props {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.w.WriteString(p.Key.Name)
			if !p.Shorthand {
				e.w.WriteString(": ")
				e.expr(p.Value)
			}
		}
		e.w.WriteString(" }")
	case *ast.FuncExpr:
		e.w.WriteString("function")
		if n.Name != nil {
			e.w.WriteString(" ")
			e.w.WriteString(n.Name.Name)
		}
		e.params(n.Params)
		e.w.WriteString(" ")
		e.block(n.Body)
	case *ast.ParenExpr:
		e.w.WriteString("(")
		e.expr(n.X)
		e.w.WriteString(")")
	case *ast.UnaryExpr:
		e.w.WriteString(n.Op)
		if isWordOp(n.Op) {
			e.w.WriteString(" ")
		}
		e.expr(n.X)
	case *ast.BinExpr:
		e.expr(n.L)
		e.w.WriteString(" " + n.Op + " ")
		e.expr(n.R)
	case *ast.AssignExpr:
		e.target(n.Target)
		e.w.WriteString(" = ")
		e.expr(n.Value)
	case *ast.CallExpr:
		e.expr(n.Callee)
		e.w.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.expr(a)
		}
		e.w.WriteString(")")
	case *ast.MemberExpr:
		e.expr(n.Obj)
		if n.Computed {
			e.w.WriteString("[")
			e.expr(n.Index)
			e.w.WriteString("]")
		} else {
			e.w.WriteString(".")
			e.w.WriteString(n.Prop.Name)
		}
	case nil:
	default:
		e.w.WriteString(fmt.Sprintf("/* unknown expr %T */", x))
	}
}

// target prints an assignment target. An expression-wrapped pattern prints
// exactly like the bare expression, so collapsing the wrapper never changes
// the rendered text.
func (e *emitter) target(t ast.Target) {
	if t.IsPat() {
		e.pat(t.Pat)
		return
	}
	e.expr(t.Expr)
}

func (e *emitter) pat(p ast.Pat) {
	switch n := p.(type) {
	case *ast.Ident:
		e.w.WriteString(n.Name)
	case *ast.ArrayPat:
		e.w.WriteString("[")
		for i, el := range n.Elems {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.pat(el)
		}
		e.w.WriteString("]")
	case *ast.ObjectPat:
		if len(n.Props) == 0 {
			e.w.WriteString("{}")
			return
		}
		e.w.WriteString("{ ")
		for i, pr := range n.Props {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.w.WriteString(pr.Key.Name)
			if pr.Value != nil {
				e.w.WriteString(": ")
				e.pat(pr.Value)
			}
		}
		e.w.WriteString(" }")
	case *ast.ExprPat:
		e.expr(n.X)
	case nil:
	default:
		e.w.WriteString(fmt.Sprintf("/* unknown pat %T */", p))
	}
}

func isWordOp(op string) bool {
	return op == "typeof"
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
