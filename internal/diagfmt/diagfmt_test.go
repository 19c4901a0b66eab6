package diagfmt

import (
	"strings"
	"testing"

	"morph/internal/diag"
	"morph/internal/source"
)

func TestPrintBagPlain(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte("let x = ;\nlet y = 2;"))

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynUnexpectedToken,
		Message:  "unexpected token",
		Primary:  source.Span{File: id, Start: 8, End: 9},
	})

	var sb strings.Builder
	Printer{W: &sb, FS: fs}.PrintBag(bag)

	got := sb.String()
	if !strings.Contains(got, "error") {
		t.Errorf("missing severity label: %q", got)
	}
	if !strings.Contains(got, "input.js:1:9") {
		t.Errorf("missing resolved position: %q", got)
	}
	if !strings.Contains(got, "unexpected token") {
		t.Errorf("missing message: %q", got)
	}
	if !strings.Contains(got, "    let x = ;\n") {
		t.Errorf("missing source line echo: %q", got)
	}
	if !strings.Contains(got, "\n            ^\n") {
		t.Errorf("caret not under column 9: %q", got)
	}
	if strings.Contains(got, "let y = 2;") {
		t.Errorf("echoed more than the offending line: %q", got)
	}
}

func TestPrintBagDeduplicatesAndSorts(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte("a b c"))

	bag := diag.NewBag(10)
	later := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynUnexpectedToken,
		Message:  "second",
		Primary:  source.Span{File: id, Start: 4, End: 5},
	}
	first := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynUnexpectedToken,
		Message:  "first",
		Primary:  source.Span{File: id, Start: 0, End: 1},
	}
	bag.Add(later)
	bag.Add(first)
	bag.Add(later)

	var sb strings.Builder
	Printer{W: &sb, FS: fs}.PrintBag(bag)

	got := sb.String()
	if strings.Count(got, "second") != 1 {
		t.Errorf("duplicate not removed:\n%s", got)
	}
	if strings.Index(got, "first") > strings.Index(got, "second") {
		t.Errorf("diagnostics not sorted by position:\n%s", got)
	}
}

func TestPrintEmptyBagWritesNothing(t *testing.T) {
	var sb strings.Builder
	Printer{W: &sb}.PrintBag(diag.NewBag(10))
	if sb.Len() != 0 {
		t.Errorf("unexpected output: %q", sb.String())
	}
}
