package testkit

import (
	"testing"

	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/dialect"
	"morph/internal/parser"
	"morph/internal/source"
)

func parse(t *testing.T, input string) (*ast.Module, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte(input))
	sf := fs.Get(id)
	bag := diag.NewBag(20)
	m := parser.ParseFile(sf, parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  dialect.Default(),
	})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %+v", bag.Items())
	}
	return m, sf
}

func TestSpanInvariantsHoldAfterParse(t *testing.T) {
	m, sf := parse(t, "let x = 1;\nfunction f(a) {\n    return a + x;\n}\nf(x);")
	if err := CheckSpanInvariants(m, sf); err != nil {
		t.Fatalf("parsed module violates span invariants: %v", err)
	}
}

func TestSpanInvariantsRejectStrippedTree(t *testing.T) {
	m, sf := parse(t, "let x = 1;")
	stripped := ast.StripSpans(m, false)
	if err := CheckSpanInvariants(stripped, sf); err == nil {
		t.Fatal("stripped module passed span invariants")
	}
}

func TestSpanInvariantsRejectWrongFile(t *testing.T) {
	m, _ := parse(t, "let x = 1;")
	fs := source.NewFileSet()
	other := fs.Get(fs.AddVirtual("other.js", []byte("let y = 2;")))
	if err := CheckSpanInvariants(m, other); err == nil {
		t.Fatal("module from another file passed span invariants")
	}
}

func TestTreeInvariantsHoldAfterStrip(t *testing.T) {
	m, _ := parse(t, "let { a, b: c } = o;\nit('should work', function() {\n    return a === c;\n});")
	stripped := ast.StripSpans(m, false)
	if err := CheckTreeInvariants(stripped, "post-strip"); err != nil {
		t.Fatalf("stripped module violates tree invariants: %v", err)
	}
}

func TestTreeInvariantsCatchBrokenTrees(t *testing.T) {
	tests := []struct {
		name  string
		build func() *ast.Module
	}{
		{name: "nil init on binary", build: func() *ast.Module {
			return &ast.Module{Body: []ast.Stmt{
				&ast.ExprStmt{X: &ast.BinExpr{Op: "+", L: &ast.Ident{Name: "a"}, R: nil}},
			}}
		}},
		{name: "empty identifier", build: func() *ast.Module {
			return &ast.Module{Body: []ast.Stmt{
				&ast.ExprStmt{X: &ast.Ident{Name: ""}},
			}}
		}},
		{name: "assignment with no target", build: func() *ast.Module {
			return &ast.Module{Body: []ast.Stmt{
				&ast.ExprStmt{X: &ast.AssignExpr{Value: &ast.NumberLit{Value: 1}}},
			}}
		}},
		{name: "assignment with two targets", build: func() *ast.Module {
			return &ast.Module{Body: []ast.Stmt{
				&ast.ExprStmt{X: &ast.AssignExpr{
					Target: ast.Target{Pat: &ast.Ident{Name: "a"}, Expr: &ast.Ident{Name: "a"}},
					Value:  &ast.NumberLit{Value: 1},
				}},
			}}
		}},
		{name: "var decl without declarators", build: func() *ast.Module {
			return &ast.Module{Body: []ast.Stmt{&ast.VarDecl{Kind: ast.VarLet}}}
		}},
		{name: "computed member without index", build: func() *ast.Module {
			return &ast.Module{Body: []ast.Stmt{
				&ast.ExprStmt{X: &ast.MemberExpr{Obj: &ast.Ident{Name: "o"}, Computed: true}},
			}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckTreeInvariants(tt.build(), "test"); err == nil {
				t.Fatal("broken tree passed invariants")
			}
		})
	}
}
