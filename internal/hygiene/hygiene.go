// Package hygiene assigns final printable names to scope-disambiguated
// identifiers.
//
// Transforms introduce bindings under fresh scope-context tags so they can
// never capture user code. Before printing, every binding needs one concrete
// name: a binding keeps its name unless a same-named binding with a different
// tag is already visible at its position, in which case it is renamed to the
// first free `name1`, `name2`, ... Distinct tags in unrelated scopes collapse
// to the same printable name. References follow their binding's decision.
// Member properties and object keys are never renamed.
package hygiene

import (
	"strconv"

	"morph/internal/ast"
)

type bindKey struct {
	name  string
	scope ast.ScopeID
}

type lexScope struct {
	parent *lexScope
	names  map[string]ast.ScopeID // name -> tag bound in this scope
}

func (s *lexScope) lookup(name string) (ast.ScopeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if tag, ok := cur.names[name]; ok {
			return tag, true
		}
	}
	return 0, false
}

type resolver struct {
	renames map[bindKey]string
	used    map[string]bool
}

// Resolve returns a copy of the tree with final printable names assigned.
// It preserves scope tags; stripping them afterwards is the caller's call.
// Resolve is idempotent: a second run finds no conflicts left.
func Resolve(m *ast.Module) *ast.Module {
	r := &resolver{
		renames: make(map[bindKey]string),
		used:    make(map[string]bool),
	}
	root := &lexScope{names: make(map[string]ast.ScopeID)}
	r.collectUsed(m)
	r.collectStmts(m.Body, root)
	return r.rewrite(m)
}

// collectUsed records every identifier name in the tree so renames never
// collide with existing names.
func (r *resolver) collectUsed(m *ast.Module) {
	rw := &ast.Rewriter{
		Ident: func(id *ast.Ident) *ast.Ident {
			r.used[id.Name] = true
			return id
		},
	}
	rw.Module(m)
}

func (r *resolver) collectStmts(body []ast.Stmt, sc *lexScope) {
	for _, s := range body {
		r.collectStmt(s, sc)
	}
}

func (r *resolver) collectStmt(s ast.Stmt, sc *lexScope) {
	switch n := s.(type) {
	case *ast.VarDecl:
		for _, d := range n.Decls {
			r.collectPat(d.Name, sc)
			r.collectExpr(d.Init, sc)
		}
	case *ast.ExprStmt:
		r.collectExpr(n.X, sc)
	case *ast.FuncDecl:
		r.bind(n.Name, sc)
		inner := &lexScope{parent: sc, names: make(map[string]ast.ScopeID)}
		for _, p := range n.Params {
			r.collectPat(p, inner)
		}
		r.collectStmts(n.Body.Body, inner)
	case *ast.ReturnStmt:
		r.collectExpr(n.Arg, sc)
	case *ast.BlockStmt:
		inner := &lexScope{parent: sc, names: make(map[string]ast.ScopeID)}
		r.collectStmts(n.Body, inner)
	}
}

func (r *resolver) collectExpr(x ast.Expr, sc *lexScope) {
	switch n := x.(type) {
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			r.collectExpr(el, sc)
		}
	case *ast.ObjectLit:
		for _, p := range n.Props {
			r.collectExpr(p.Value, sc)
		}
	case *ast.FuncExpr:
		inner := &lexScope{parent: sc, names: make(map[string]ast.ScopeID)}
		if n.Name != nil {
			r.bind(n.Name, inner)
		}
		for _, p := range n.Params {
			r.collectPat(p, inner)
		}
		r.collectStmts(n.Body.Body, inner)
	case *ast.ParenExpr:
		r.collectExpr(n.X, sc)
	case *ast.UnaryExpr:
		r.collectExpr(n.X, sc)
	case *ast.BinExpr:
		r.collectExpr(n.L, sc)
		r.collectExpr(n.R, sc)
	case *ast.AssignExpr:
		if n.Target.IsPat() {
			if ep, ok := n.Target.Pat.(*ast.ExprPat); ok {
				r.collectExpr(ep.X, sc)
			}
		} else {
			r.collectExpr(n.Target.Expr, sc)
		}
		r.collectExpr(n.Value, sc)
	case *ast.CallExpr:
		r.collectExpr(n.Callee, sc)
		for _, a := range n.Args {
			r.collectExpr(a, sc)
		}
	case *ast.MemberExpr:
		r.collectExpr(n.Obj, sc)
		r.collectExpr(n.Index, sc)
	}
}

func (r *resolver) collectPat(p ast.Pat, sc *lexScope) {
	switch n := p.(type) {
	case *ast.Ident:
		r.bind(n, sc)
	case *ast.ArrayPat:
		for _, el := range n.Elems {
			r.collectPat(el, sc)
		}
	case *ast.ObjectPat:
		for _, pr := range n.Props {
			if pr.Value != nil {
				r.collectPat(pr.Value, sc)
			} else {
				r.bind(pr.Key, sc)
			}
		}
	case *ast.ExprPat:
		r.collectExpr(n.X, sc)
	}
}

// bind registers a binding occurrence and decides its printable name.
func (r *resolver) bind(id *ast.Ident, sc *lexScope) {
	key := bindKey{name: id.Name, scope: id.Scope}
	if _, decided := r.renames[key]; decided {
		return
	}
	if tag, found := sc.lookup(id.Name); found && tag != id.Scope {
		// A same-named binding under a different tag is visible here:
		// rename this one to the first free candidate.
		final := r.freshName(id.Name)
		r.renames[key] = final
		sc.names[final] = id.Scope
		return
	}
	sc.names[id.Name] = id.Scope
}

func (r *resolver) freshName(base string) string {
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !r.used[candidate] {
			r.used[candidate] = true
			return candidate
		}
	}
}

// rewrite applies the rename decisions. The generic rewriter routes member
// properties and object keys past the hooks, so those stay untouched by
// construction; shorthand properties whose binding got renamed are demoted
// to the explicit key: value form.
func (r *resolver) rewrite(m *ast.Module) *ast.Module {
	rw := &ast.Rewriter{}
	rw.Expr = func(x ast.Expr) ast.Expr {
		switch n := x.(type) {
		case *ast.Ident:
			return r.renameIdent(n)
		case *ast.ObjectLit:
			for i := range n.Props {
				if !n.Props[i].Shorthand {
					continue
				}
				if v, ok := n.Props[i].Value.(*ast.Ident); ok && v.Name != n.Props[i].Key.Name {
					n.Props[i].Shorthand = false
				}
			}
			return n
		case *ast.FuncExpr:
			if n.Name != nil {
				n.Name = r.renameIdent(n.Name)
			}
			return n
		}
		return x
	}
	rw.Pat = func(p ast.Pat) ast.Pat {
		switch n := p.(type) {
		case *ast.Ident:
			return r.renameIdent(n)
		case *ast.ObjectPat:
			for i := range n.Props {
				if n.Props[i].Value == nil {
					// Shorthand binds the key name; a renamed binding needs
					// the explicit form with the key intact.
					bound := r.renameIdent(n.Props[i].Key)
					if bound.Name != n.Props[i].Key.Name {
						n.Props[i].Value = bound
					}
				}
			}
			return n
		}
		return p
	}
	rw.Stmt = func(s ast.Stmt) ast.Stmt {
		if fd, ok := s.(*ast.FuncDecl); ok {
			fd.Name = r.renameIdent(fd.Name)
		}
		return s
	}
	return rw.Module(m)
}

func (r *resolver) renameIdent(id *ast.Ident) *ast.Ident {
	key := bindKey{name: id.Name, scope: id.Scope}
	final, ok := r.renames[key]
	if !ok {
		return id
	}
	return &ast.Ident{Span: id.Span, Name: final, Scope: id.Scope}
}
