package harness

import (
	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/parser"
	"morph/internal/testkit"
)

// Transform is the unit under test: a pure tree-to-tree function. Apply
// receives a freshly built tree it may mutate or replace.
type Transform interface {
	Name() string
	Apply(m *ast.Module) *ast.Module
}

type transformFunc struct {
	name string
	fn   func(*ast.Module) *ast.Module
}

func (t transformFunc) Name() string                    { return t.name }
func (t transformFunc) Apply(m *ast.Module) *ast.Module { return t.fn(m) }

// NewTransform wraps a function as a named Transform.
func NewTransform(name string, fn func(*ast.Module) *ast.Module) Transform {
	return transformFunc{name: name, fn: fn}
}

// Identity returns a transform that passes trees through unchanged.
func Identity() Transform {
	return NewTransform("identity", func(m *ast.Module) *ast.Module { return m })
}

// apply runs the canonicalizing pipeline: parse, post-parse sanity check,
// transform, strip spans keeping scope tags, collapse
// parser-representation artifacts. The artifact collapse runs on every
// tree that passes through, so both sides of a comparison see it.
func (t *Tester) apply(filename, src string, tr Transform) (*ast.Module, *Failure) {
	id := t.fs.AddVirtual(filename, []byte(src))
	sf := t.fs.Get(id)
	m := parser.ParseFile(sf, parser.Options{
		Reporter: diag.BagReporter{Bag: t.bag},
		Dialect:  t.dialect,
	})
	if t.bag.HasErrors() {
		t.flushDiagnostics()
		return nil, &Failure{Kind: KindParse, Case: t.name, Msg: filename + " did not parse"}
	}
	if err := testkit.CheckSpanInvariants(m, sf); err != nil {
		return nil, &Failure{Kind: KindInvariant, Case: t.name, Stage: "post-parse", Msg: err.Error(), Err: err}
	}
	if tr != nil {
		m = tr.Apply(m)
	}
	m = ast.StripSpans(m, true)
	m = normalizeTargets(m)
	return m, nil
}
