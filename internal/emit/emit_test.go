package emit

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/dialect"
	"morph/internal/parser"
	"morph/internal/source"
)

func parseForPrint(t *testing.T, input string) *ast.Module {
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

func TestPrintGolden(t *testing.T) {
	src := `let x = 1;
const msg = 'hi';
function add(a, b) { return a + b; }
it('should work', function() {
  let pair = [1, 2];
  [a] = pair;
  log({ ok: true, msg });
});`

	m := parseForPrint(t, src)

	g := goldie.New(t)
	g.Assert(t, "canonical_program", []byte(Source(m)))
}

func TestPrintDeterministic(t *testing.T) {
	m := parseForPrint(t, "let x = f(1, 'two', null);")

	first := Source(m)
	second := Source(m)
	if first != second {
		t.Fatalf("printer not deterministic:\n%q\n%q", first, second)
	}

	var buf bytes.Buffer
	if err := Print(m, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != first {
		t.Fatalf("Print and Source disagree:\n%q\n%q", buf.String(), first)
	}
}

func TestPrintCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "var decl", input: "let x=1", want: "let x = 1;\n"},
		{name: "multi declarator", input: "var a=1,b;", want: "var a = 1, b;\n"},
		{name: "string escapes", input: `let s = 'a\'b\n';`, want: "let s = 'a\\'b\\n';\n"},
		{name: "unary word op", input: "typeof x;", want: "typeof x;\n"},
		{name: "member chain", input: "a.b[c]();", want: "a.b[c]();\n"},
		{name: "empty object", input: "x = {};", want: "x = {};\n"},
		{name: "object pattern decl", input: "let {a, b: c} = o;", want: "let { a, b: c } = o;\n"},
		{name: "return without value", input: "function f() { return; }", want: "function f() {\n    return;\n}\n"},
		{name: "number formatting", input: "let n = 1.50;", want: "let n = 1.5;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := parseForPrint(t, tt.input)
			if got := Source(m); got != tt.want {
				t.Errorf("Source = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintParenOnlyWhenExplicit(t *testing.T) {
	// The parser drops grouping parens; only fixer-inserted ParenExpr nodes
	// print as parentheses.
	m := parseForPrint(t, "let v = (a + b) * c;")
	if got := Source(m); got != "let v = a + b * c;\n" {
		t.Fatalf("Source = %q", got)
	}

	init := m.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.BinExpr)
	init.L = &ast.ParenExpr{X: init.L}
	if got := Source(m); got != "let v = (a + b) * c;\n" {
		t.Fatalf("Source with ParenExpr = %q", got)
	}
}
