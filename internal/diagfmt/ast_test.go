package diagfmt

import (
	"strings"
	"testing"

	"morph/internal/diag"
	"morph/internal/dialect"
	"morph/internal/parser"
	"morph/internal/source"
)

func TestDumpTree(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte("let x = 1;\nfunction f(a) {\n    return a + x;\n}"))
	bag := diag.NewBag(10)
	m := parser.ParseFile(fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  dialect.Default(),
	})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %+v", bag.Items())
	}

	var sb strings.Builder
	DumpTree(&sb, m)
	got := sb.String()

	for _, want := range []string{
		"Module\n",
		"  VarDecl let\n",
		"      Ident x\n",
		"      NumberLit 1\n",
		"  FuncDecl f\n",
		"    Ident a\n",
		"      BinExpr +\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump missing %q:\n%s", want, got)
		}
	}
}
