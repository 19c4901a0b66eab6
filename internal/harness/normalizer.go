package harness

import (
	"morph/internal/ast"
)

// normalizeTargets collapses an assignment target that the parser wrapped as
// an expression pattern back into the plain expression form. This corrects a
// representation artifact, not a semantic difference: both forms print
// identically. The pipeline applies it to every tree, so a comparison never
// hinges on which side happened to come out of the parser.
func normalizeTargets(m *ast.Module) *ast.Module {
	rw := &ast.Rewriter{
		Target: func(t ast.Target) ast.Target {
			if ep, ok := t.Pat.(*ast.ExprPat); ok {
				return ast.Target{Expr: ep.X}
			}
			return t
		},
	}
	return rw.Module(m)
}
