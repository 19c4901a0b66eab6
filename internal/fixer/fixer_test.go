package fixer

import (
	"testing"

	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/dialect"
	"morph/internal/emit"
	"morph/internal/parser"
	"morph/internal/source"
)

func parse(t *testing.T, input string) *ast.Module {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte(input))
	bag := diag.NewBag(20)
	m := parser.ParseFile(fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  dialect.Default(),
	})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %+v", bag.Items())
	}
	return m
}

// The parser drops grouping parens, so parse followed by Fix must render
// text that still binds the same way as the input.
func TestFixRoundTrips(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "left add under mul", input: "let v = (a + b) * c;", want: "let v = (a + b) * c;\n"},
		{name: "tighter operand stays bare", input: "let v = a * b + c;", want: "let v = a * b + c;\n"},
		{name: "right operand same strength", input: "let v = a - (b - c);", want: "let v = a - (b - c);\n"},
		{name: "left same strength stays bare", input: "let v = a - b - c;", want: "let v = a - b - c;\n"},
		{name: "unary over sum", input: "let v = -(a + b);", want: "let v = -(a + b);\n"},
		{name: "iife", input: "(function() {\n    return 1;\n})();", want: "(function() {\n    return 1;\n})();\n"},
		{name: "member on function expr", input: "(function f() {}).call;", want: "(function f() {}).call;\n"},
		{name: "object pattern assignment", input: "({ k } = f());", want: "({ k } = f());\n"},
		{name: "array pattern assignment stays bare", input: "[a] = f();", want: "[a] = f();\n"},
		{name: "redundant grouping dropped", input: "let v = (a < b) == c;", want: "let v = a < b == c;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed := Fix(parse(t, tt.input))
			if got := emit.Source(fixed); got != tt.want {
				t.Errorf("Source(Fix) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixStatementHeadObject(t *testing.T) {
	// Built by hand: a transform can leave an object literal at the head of
	// an expression statement, where bare text would parse as a block.
	m := &ast.Module{Body: []ast.Stmt{
		&ast.ExprStmt{X: &ast.MemberExpr{
			Obj:  &ast.ObjectLit{Props: []ast.Property{{Key: &ast.Ident{Name: "a"}, Value: &ast.NumberLit{Value: 1}}}},
			Prop: &ast.Ident{Name: "a"},
		}},
	}}
	if got := emit.Source(Fix(m)); got != "({ a: 1 }).a;\n" {
		t.Fatalf("Source(Fix) = %q", got)
	}
}

func TestFixIdempotent(t *testing.T) {
	inputs := []string{
		"let v = (a + b) * c;",
		"(function() {\n    return 1;\n})();",
		"let v = -(a + b);",
		"({ k } = f());",
	}
	for _, input := range inputs {
		once := Fix(parse(t, input))
		twice := Fix(once)
		if !ast.Equal(once, twice) {
			t.Fatalf("Fix not idempotent for %q:\n%s", input, ast.Diff(once, twice))
		}
	}
}

func TestFixDoesNotTouchCleanTrees(t *testing.T) {
	m := parse(t, "let x = a + b;\nfunction f(n) {\n    return n * 2;\n}\nf(x);")
	fixed := Fix(m)
	if !ast.Equal(m, fixed) {
		t.Fatalf("clean tree changed:\n%s", ast.Diff(m, fixed))
	}
}
