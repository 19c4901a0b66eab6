package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"morph/internal/ast"
)

// DumpTree writes an indented one-node-per-line rendering of the tree,
// suitable for eyeballing parser output. Scope-context tags show as #n.
func DumpTree(w io.Writer, m *ast.Module) {
	d := dumper{w: w}
	d.line(0, "Module")
	for _, s := range m.Body {
		d.stmt(1, s)
	}
}

type dumper struct {
	w io.Writer
}

func (d *dumper) line(depth int, format string, args ...any) {
	fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) identLabel(id *ast.Ident) string {
	if id == nil {
		return "<nil>"
	}
	if id.Scope != 0 {
		return fmt.Sprintf("%s#%d", id.Name, id.Scope)
	}
	return id.Name
}

func (d *dumper) stmt(depth int, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		d.line(depth, "VarDecl %s", n.Kind)
		for _, decl := range n.Decls {
			d.line(depth+1, "Declarator")
			d.pat(depth+2, decl.Name)
			if decl.Init != nil {
				d.expr(depth+2, decl.Init)
			}
		}
	case *ast.ExprStmt:
		d.line(depth, "ExprStmt")
		d.expr(depth+1, n.X)
	case *ast.FuncDecl:
		d.line(depth, "FuncDecl %s", d.identLabel(n.Name))
		for _, p := range n.Params {
			d.pat(depth+1, p)
		}
		d.stmt(depth+1, n.Body)
	case *ast.ReturnStmt:
		d.line(depth, "ReturnStmt")
		if n.Arg != nil {
			d.expr(depth+1, n.Arg)
		}
	case *ast.BlockStmt:
		d.line(depth, "BlockStmt")
		for _, bs := range n.Body {
			d.stmt(depth+1, bs)
		}
	default:
		d.line(depth, "%T", s)
	}
}

func (d *dumper) expr(depth int, x ast.Expr) {
	switch n := x.(type) {
	case *ast.Ident:
		d.line(depth, "Ident %s", d.identLabel(n))
	case *ast.NumberLit:
		d.line(depth, "NumberLit %s", strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.StringLit:
		d.line(depth, "StringLit %q", n.Value)
	case *ast.BoolLit:
		d.line(depth, "BoolLit %v", n.Value)
	case *ast.NullLit:
		d.line(depth, "NullLit")
	case *ast.ArrayLit:
		d.line(depth, "ArrayLit")
		for _, el := range n.Elems {
			d.expr(depth+1, el)
		}
	case *ast.ObjectLit:
		d.line(depth, "ObjectLit")
		for _, p := range n.Props {
			label := d.identLabel(p.Key)
			if p.Shorthand {
				label += " (shorthand)"
			}
			d.line(depth+1, "Property %s", label)
			if !p.Shorthand {
				d.expr(depth+2, p.Value)
			}
		}
	case *ast.FuncExpr:
		if n.Name != nil {
			d.line(depth, "FuncExpr %s", d.identLabel(n.Name))
		} else {
			d.line(depth, "FuncExpr")
		}
		for _, p := range n.Params {
			d.pat(depth+1, p)
		}
		d.stmt(depth+1, n.Body)
	case *ast.ParenExpr:
		d.line(depth, "ParenExpr")
		d.expr(depth+1, n.X)
	case *ast.UnaryExpr:
		d.line(depth, "UnaryExpr %s", n.Op)
		d.expr(depth+1, n.X)
	case *ast.BinExpr:
		d.line(depth, "BinExpr %s", n.Op)
		d.expr(depth+1, n.L)
		d.expr(depth+1, n.R)
	case *ast.AssignExpr:
		d.line(depth, "AssignExpr")
		if n.Target.IsPat() {
			d.pat(depth+1, n.Target.Pat)
		} else {
			d.expr(depth+1, n.Target.Expr)
		}
		d.expr(depth+1, n.Value)
	case *ast.CallExpr:
		d.line(depth, "CallExpr")
		d.expr(depth+1, n.Callee)
		for _, a := range n.Args {
			d.expr(depth+1, a)
		}
	case *ast.MemberExpr:
		if n.Computed {
			d.line(depth, "MemberExpr [computed]")
			d.expr(depth+1, n.Obj)
			d.expr(depth+1, n.Index)
		} else {
			d.line(depth, "MemberExpr .%s", d.identLabel(n.Prop))
			d.expr(depth+1, n.Obj)
		}
	default:
		d.line(depth, "%T", x)
	}
}

func (d *dumper) pat(depth int, p ast.Pat) {
	switch n := p.(type) {
	case *ast.Ident:
		d.line(depth, "Ident %s", d.identLabel(n))
	case *ast.ArrayPat:
		d.line(depth, "ArrayPat")
		for _, el := range n.Elems {
			d.pat(depth+1, el)
		}
	case *ast.ObjectPat:
		d.line(depth, "ObjectPat")
		for _, pr := range n.Props {
			if pr.Value == nil {
				d.line(depth+1, "Prop %s (shorthand)", d.identLabel(pr.Key))
			} else {
				d.line(depth+1, "Prop %s", d.identLabel(pr.Key))
				d.pat(depth+2, pr.Value)
			}
		}
	case *ast.ExprPat:
		d.line(depth, "ExprPat")
		d.expr(depth+1, n.X)
	default:
		d.line(depth, "%T", p)
	}
}
