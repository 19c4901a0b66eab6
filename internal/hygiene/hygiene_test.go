package hygiene

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

// retag sets the scope tag on every binding and reference of the given name.
func retag(m *ast.Module, name string, tag ast.ScopeID) *ast.Module {
	rw := &ast.Rewriter{
		Ident: func(id *ast.Ident) *ast.Ident {
			if id.Name == name {
				id.Scope = tag
			}
			return id
		},
	}
	return rw.Module(m)
}

func TestResolve_NoTagsNoChanges(t *testing.T) {
	m := parse(t, "let x = 1;\nfunction f(a) {\n    return a + x;\n}")
	out := Resolve(m)
	if !ast.Equal(m, out) {
		t.Fatalf("untagged tree changed:\n%s", ast.Diff(m, out))
	}
}

func TestResolve_SameScopeConflictRenames(t *testing.T) {
	// Simulates a transform that introduced a second `x` under a fresh tag
	// next to the user's `x`.
	m := parse(t, "let x = 1;")
	injected := parse(t, "let x = 2;\nuse(x);")
	injected = retag(injected, "x", 7)
	m.Body = append(m.Body, injected.Body...)

	out := Resolve(m)

	if got := emit.Source(out); got != "let x = 1;\nlet x1 = 2;\nuse(x1);\n" {
		t.Fatalf("resolved source:\n%s", got)
	}
}

func TestResolve_SiblingScopesShareName(t *testing.T) {
	// Distinct tags in unrelated function scopes keep the same printable
	// name: nothing is visible across siblings.
	a := parse(t, "function f() {\n    let tmp = 1;\n    return tmp;\n}")
	a = retag(a, "tmp", 1)
	b := parse(t, "function g() {\n    let tmp = 2;\n    return tmp;\n}")
	b = retag(b, "tmp", 2)
	m := &ast.Module{Body: append(a.Body, b.Body...)}

	out := Resolve(m)

	want := "function f() {\n    let tmp = 1;\n    return tmp;\n}\nfunction g() {\n    let tmp = 2;\n    return tmp;\n}\n"
	if got := emit.Source(out); got != want {
		t.Fatalf("resolved source:\n%s", got)
	}
}

func TestResolve_ShadowWithDifferentTagRenames(t *testing.T) {
	m := parse(t, "let x = 1;\nfunction f() {\n    let x = 2;\n    return x;\n}\nuse(x);")
	// Tag only the inner binding and its reference.
	inner := m.Body[1].(*ast.FuncDecl)
	rw := &ast.Rewriter{
		Ident: func(id *ast.Ident) *ast.Ident {
			if id.Name == "x" {
				id.Scope = 9
			}
			return id
		},
	}
	tagged := rw.Module(&ast.Module{Body: inner.Body.Body})
	inner.Body.Body = tagged.Body

	out := Resolve(m)

	want := "let x = 1;\nfunction f() {\n    let x1 = 2;\n    return x1;\n}\nuse(x);\n"
	if got := emit.Source(out); got != want {
		t.Fatalf("resolved source:\n%s", got)
	}
}

func TestResolve_ShorthandDemotedOnRename(t *testing.T) {
	m := parse(t, "let k = 1;\nlet o = { k };")
	injected := parse(t, "let k = 2;")
	injected = retag(injected, "k", 3)
	// The shorthand references the tagged binding.
	m.Body = append(injected.Body, m.Body...)
	obj := m.Body[2].(*ast.VarDecl).Decls[0].Init.(*ast.ObjectLit)
	obj.Props[0].Value.(*ast.Ident).Scope = 3

	out := Resolve(m)

	// Binding order: tagged k comes first and keeps the name; the untagged
	// user k collides and is renamed, so the shorthand pointing at the
	// tagged binding stays shorthand.
	want := "let k = 2;\nlet k1 = 1;\nlet o = { k };\n"
	if got := emit.Source(out); got != want {
		t.Fatalf("resolved source:\n%s", got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	m := parse(t, "let x = 1;")
	injected := retag(parse(t, "let x = 2;"), "x", 7)
	m.Body = append(m.Body, injected.Body...)

	once := Resolve(m)
	twice := Resolve(once)
	if !ast.Equal(once, twice) {
		t.Fatalf("resolve not idempotent:\n%s", ast.Diff(once, twice))
	}
}
