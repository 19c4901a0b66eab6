package parser

import (
	"testing"

	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/dialect"
	"morph/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Module, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte(input))
	bag := diag.NewBag(20)
	m := ParseFile(fs.Get(id), Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  dialect.Default(),
	})
	return m, bag
}

func TestParseVarDecl(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind ast.VarKind
		wantName string
		wantInit bool
	}{
		{
			name:     "let with init",
			input:    "let x = 1;",
			wantKind: ast.VarLet,
			wantName: "x",
			wantInit: true,
		},
		{
			name:     "const with init",
			input:    "const answer = 42;",
			wantKind: ast.VarConst,
			wantName: "answer",
			wantInit: true,
		},
		{
			name:     "var without init",
			input:    "var y;",
			wantKind: ast.VarVar,
			wantName: "y",
			wantInit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, bag := parseSource(t, tt.input)
			if bag.HasErrors() {
				t.Fatalf("unexpected errors: %+v", bag.Items())
			}
			if len(m.Body) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(m.Body))
			}
			decl, ok := m.Body[0].(*ast.VarDecl)
			if !ok {
				t.Fatalf("expected VarDecl, got %T", m.Body[0])
			}
			if decl.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", decl.Kind, tt.wantKind)
			}
			if len(decl.Decls) != 1 {
				t.Fatalf("expected 1 declarator, got %d", len(decl.Decls))
			}
			id, ok := decl.Decls[0].Name.(*ast.Ident)
			if !ok {
				t.Fatalf("expected Ident pattern, got %T", decl.Decls[0].Name)
			}
			if id.Name != tt.wantName {
				t.Errorf("name = %q, want %q", id.Name, tt.wantName)
			}
			if (decl.Decls[0].Init != nil) != tt.wantInit {
				t.Errorf("init presence = %v, want %v", decl.Decls[0].Init != nil, tt.wantInit)
			}
		})
	}
}

func TestParseDestructuringDecl(t *testing.T) {
	m, bag := parseSource(t, "let [a, b] = pair;")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}

	decl := m.Body[0].(*ast.VarDecl)
	pat, ok := decl.Decls[0].Name.(*ast.ArrayPat)
	if !ok {
		t.Fatalf("expected ArrayPat, got %T", decl.Decls[0].Name)
	}
	if len(pat.Elems) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(pat.Elems))
	}
}

func TestParseAssignTargets(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPat bool
	}{
		{name: "identifier target stays expression", input: "x = 1;", wantPat: false},
		{name: "member target stays expression", input: "o.f = 1;", wantPat: false},
		{name: "array target wraps as pattern", input: "[a] = f();", wantPat: true},
		{name: "object target wraps as pattern", input: "({k} = f());", wantPat: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, bag := parseSource(t, tt.input)
			if bag.HasErrors() {
				t.Fatalf("unexpected errors: %+v", bag.Items())
			}
			assign, ok := m.Body[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
			if !ok {
				t.Fatalf("expected AssignExpr, got %T", m.Body[0].(*ast.ExprStmt).X)
			}
			if assign.Target.IsPat() != tt.wantPat {
				t.Errorf("IsPat = %v, want %v", assign.Target.IsPat(), tt.wantPat)
			}
			if tt.wantPat {
				if _, ok := assign.Target.Pat.(*ast.ExprPat); !ok {
					t.Errorf("expected ExprPat wrapper, got %T", assign.Target.Pat)
				}
			}
		})
	}
}

func TestParseExecStub(t *testing.T) {
	src := "it('should work', function () {\n    let x = 1;\n    check(x === 1);\n});"
	m, bag := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}

	call, ok := m.Body[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", m.Body[0].(*ast.ExprStmt).X)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if s, ok := call.Args[0].(*ast.StringLit); !ok || s.Value != "should work" {
		t.Errorf("first arg = %#v", call.Args[0])
	}
	fn, ok := call.Args[1].(*ast.FuncExpr)
	if !ok {
		t.Fatalf("expected FuncExpr, got %T", call.Args[1])
	}
	if len(fn.Body.Body) != 2 {
		t.Errorf("expected 2 body statements, got %d", len(fn.Body.Body))
	}
}

func TestParsePrecedence(t *testing.T) {
	m, bag := parseSource(t, "let v = a + b * c;")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}

	init := m.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.BinExpr)
	if init.Op != "+" {
		t.Fatalf("top op = %q, want +", init.Op)
	}
	r, ok := init.R.(*ast.BinExpr)
	if !ok || r.Op != "*" {
		t.Fatalf("right side = %#v, want b * c", init.R)
	}
}

func TestParseGroupingParensDropped(t *testing.T) {
	m, bag := parseSource(t, "let v = (a + b) * c;")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}

	init := m.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.BinExpr)
	if init.Op != "*" {
		t.Fatalf("top op = %q, want *", init.Op)
	}
	if _, ok := init.L.(*ast.BinExpr); !ok {
		t.Fatalf("left side = %T, want BinExpr (parens dropped)", init.L)
	}
}

func TestParseReportsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{name: "unterminated string", input: "let s = 'oops;", code: diag.LexUnterminatedString},
		{name: "bad assignment target", input: "1 = x;", code: diag.SynBadAssignTarget},
		{name: "unclosed paren", input: "f(a;", code: diag.SynUnclosedParen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := parseSource(t, tt.input)
			if !bag.HasErrors() {
				t.Fatalf("expected errors, got none")
			}
			found := false
			for _, d := range bag.Items() {
				if d.Code == tt.code {
					found = true
				}
			}
			if !found {
				t.Errorf("missing code %v in %+v", tt.code, bag.Items())
			}
		})
	}
}

func TestParseES5RejectsLet(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte("let x = 1;"))
	bag := diag.NewBag(20)
	ParseFile(fs.Get(id), Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  dialect.Dialect{Kind: dialect.ES5},
	})
	if !bag.HasErrors() {
		t.Fatalf("es5 dialect accepted 'let'")
	}
}
