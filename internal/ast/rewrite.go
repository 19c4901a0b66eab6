package ast

import (
	"morph/internal/source"
)

// Rewriter deep-copies a tree bottom-up, applying the optional hooks to each
// freshly built node. Children are rewritten before their parent's hook
// runs. A nil hook leaves nodes unchanged; the zero Rewriter is a deep copy.
type Rewriter struct {
	Span   func(source.Span) source.Span
	Ident  func(*Ident) *Ident
	Expr   func(Expr) Expr
	Pat    func(Pat) Pat
	Stmt   func(Stmt) Stmt
	Target func(Target) Target
}

func (r *Rewriter) span(s source.Span) source.Span {
	if r.Span != nil {
		return r.Span(s)
	}
	return s
}

func (r *Rewriter) ident(id *Ident) *Ident {
	if id == nil {
		return nil
	}
	out := &Ident{Span: r.span(id.Span), Name: id.Name, Scope: id.Scope}
	if r.Ident != nil {
		out = r.Ident(out)
	}
	return out
}

// Module rewrites the whole tree and returns the new root.
func (r *Rewriter) Module(m *Module) *Module {
	if m == nil {
		return nil
	}
	out := &Module{Span: r.span(m.Span), Body: r.stmts(m.Body)}
	return out
}

func (r *Rewriter) stmts(body []Stmt) []Stmt {
	if body == nil {
		return nil
	}
	out := make([]Stmt, len(body))
	for i, s := range body {
		out[i] = r.stmt(s)
	}
	return out
}

func (r *Rewriter) stmt(s Stmt) Stmt {
	var out Stmt
	switch n := s.(type) {
	case *VarDecl:
		decls := make([]Declarator, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = Declarator{
				Span: r.span(d.Span),
				Name: r.pat(d.Name),
				Init: r.expr(d.Init),
			}
		}
		out = &VarDecl{Span: r.span(n.Span), Kind: n.Kind, Decls: decls}
	case *ExprStmt:
		out = &ExprStmt{Span: r.span(n.Span), X: r.expr(n.X)}
	case *FuncDecl:
		out = &FuncDecl{
			Span:   r.span(n.Span),
			Name:   r.ident(n.Name),
			Params: r.pats(n.Params),
			Body:   r.block(n.Body),
		}
	case *ReturnStmt:
		out = &ReturnStmt{Span: r.span(n.Span), Arg: r.expr(n.Arg)}
	case *BlockStmt:
		out = r.block(n)
	case nil:
		return nil
	default:
		out = s
	}
	if r.Stmt != nil {
		out = r.Stmt(out)
	}
	return out
}

func (r *Rewriter) block(b *BlockStmt) *BlockStmt {
	if b == nil {
		return nil
	}
	return &BlockStmt{Span: r.span(b.Span), Body: r.stmts(b.Body)}
}

func (r *Rewriter) exprs(list []Expr) []Expr {
	if list == nil {
		return nil
	}
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = r.expr(e)
	}
	return out
}

func (r *Rewriter) expr(e Expr) Expr {
	var out Expr
	switch n := e.(type) {
	case *Ident:
		out = r.ident(n)
	case *NumberLit:
		out = &NumberLit{Span: r.span(n.Span), Value: n.Value}
	case *StringLit:
		out = &StringLit{Span: r.span(n.Span), Value: n.Value}
	case *BoolLit:
		out = &BoolLit{Span: r.span(n.Span), Value: n.Value}
	case *NullLit:
		out = &NullLit{Span: r.span(n.Span)}
	case *ArrayLit:
		out = &ArrayLit{Span: r.span(n.Span), Elems: r.exprs(n.Elems)}
	case *ObjectLit:
		props := make([]Property, len(n.Props))
		for i, p := range n.Props {
			props[i] = Property{
				Span:      r.span(p.Span),
				Key:       r.ident(p.Key),
				Value:     r.expr(p.Value),
				Shorthand: p.Shorthand,
			}
		}
		out = &ObjectLit{Span: r.span(n.Span), Props: props}
	case *FuncExpr:
		out = &FuncExpr{
			Span:   r.span(n.Span),
			Name:   r.ident(n.Name),
			Params: r.pats(n.Params),
			Body:   r.block(n.Body),
		}
	case *ParenExpr:
		out = &ParenExpr{Span: r.span(n.Span), X: r.expr(n.X)}
	case *UnaryExpr:
		out = &UnaryExpr{Span: r.span(n.Span), Op: n.Op, X: r.expr(n.X)}
	case *BinExpr:
		out = &BinExpr{Span: r.span(n.Span), Op: n.Op, L: r.expr(n.L), R: r.expr(n.R)}
	case *AssignExpr:
		out = &AssignExpr{
			Span:   r.span(n.Span),
			Target: r.target(n.Target),
			Value:  r.expr(n.Value),
		}
	case *CallExpr:
		out = &CallExpr{Span: r.span(n.Span), Callee: r.expr(n.Callee), Args: r.exprs(n.Args)}
	case *MemberExpr:
		out = &MemberExpr{
			Span:     r.span(n.Span),
			Obj:      r.expr(n.Obj),
			Prop:     r.ident(n.Prop),
			Computed: n.Computed,
			Index:    r.expr(n.Index),
		}
	case nil:
		return nil
	default:
		out = e
	}
	if r.Expr != nil {
		out = r.Expr(out)
	}
	return out
}

func (r *Rewriter) pats(list []Pat) []Pat {
	if list == nil {
		return nil
	}
	out := make([]Pat, len(list))
	for i, p := range list {
		out[i] = r.pat(p)
	}
	return out
}

func (r *Rewriter) pat(p Pat) Pat {
	var out Pat
	switch n := p.(type) {
	case *Ident:
		out = r.ident(n)
	case *ArrayPat:
		out = &ArrayPat{Span: r.span(n.Span), Elems: r.pats(n.Elems)}
	case *ObjectPat:
		props := make([]ObjectPatProp, len(n.Props))
		for i, pr := range n.Props {
			props[i] = ObjectPatProp{
				Span:  r.span(pr.Span),
				Key:   r.ident(pr.Key),
				Value: r.pat(pr.Value),
			}
		}
		out = &ObjectPat{Span: r.span(n.Span), Props: props}
	case *ExprPat:
		out = &ExprPat{Span: r.span(n.Span), X: r.expr(n.X)}
	case nil:
		return nil
	default:
		out = p
	}
	if r.Pat != nil {
		out = r.Pat(out)
	}
	return out
}

func (r *Rewriter) target(t Target) Target {
	out := Target{Pat: r.pat(t.Pat), Expr: r.expr(t.Expr)}
	if r.Target != nil {
		out = r.Target(out)
	}
	return out
}
