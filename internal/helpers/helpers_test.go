package helpers

import (
	"strings"
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

func TestInjectPrependsReferencedHelper(t *testing.T) {
	m := parse(t, "let all = _toConsumableArray(items);")

	out, err := Default().Inject(m)
	if err != nil {
		t.Fatal(err)
	}

	src := emit.Source(out)
	if !strings.HasPrefix(src, "function _toConsumableArray(arr) {") {
		t.Fatalf("helper not prepended:\n%s", src)
	}
	if !strings.HasSuffix(src, "let all = _toConsumableArray(items);\n") {
		t.Fatalf("program body not preserved:\n%s", src)
	}
	if strings.Contains(src, "_typeOf") {
		t.Fatalf("unreferenced helper injected:\n%s", src)
	}
}

func TestInjectNoReferencesNoChanges(t *testing.T) {
	m := parse(t, "let x = 1;\nuse(x);")
	out, err := Default().Inject(m)
	if err != nil {
		t.Fatal(err)
	}
	if !ast.Equal(m, out) {
		t.Fatalf("untouched program changed:\n%s", ast.Diff(m, out))
	}
}

func TestInjectOncePerHelper(t *testing.T) {
	m := parse(t, "let a = _typeOf(x);\nlet b = _typeOf(y);")
	out, err := Default().Inject(m)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(emit.Source(out), "function _typeOf"); n != 1 {
		t.Fatalf("helper injected %d times", n)
	}
}

func TestInjectTransitiveHelpers(t *testing.T) {
	r := NewRegistry()
	r.Register("inner", "function _inner(v) {\n    return v;\n}")
	r.Register("outer", "function _outer(v) {\n    return _inner(v);\n}")

	out, err := r.Inject(parse(t, "_outer(1);"))
	if err != nil {
		t.Fatal(err)
	}

	src := emit.Source(out)
	innerAt := strings.Index(src, "function _inner")
	outerAt := strings.Index(src, "function _outer")
	if innerAt < 0 || outerAt < 0 {
		t.Fatalf("missing helper definitions:\n%s", src)
	}
	if innerAt > outerAt {
		t.Fatalf("registration order not kept:\n%s", src)
	}
}

func TestInjectSkipsLocallyDefinedHelper(t *testing.T) {
	m := parse(t, "function _typeOf(v) {\n    return 'mine';\n}\n_typeOf(x);")
	out, err := Default().Inject(m)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(emit.Source(out), "function _typeOf"); n != 1 {
		t.Fatalf("local helper shadowed by injected copy (%d definitions)", n)
	}
}

func TestInjectBadHelperSourceErrors(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", "function _broken( {")
	if _, err := r.Inject(parse(t, "_broken();")); err == nil {
		t.Fatal("expected parse error for broken helper source")
	}
}
