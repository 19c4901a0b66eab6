package harness

import (
	"strconv"

	"morph/internal/ast"
	"morph/internal/emit"
)

// renderWithScopes renders the tree with every tagged identifier suffixed by
// its scope-context tag (`x#7`). Diagnostic display only; the input tree is
// not modified and the rendering never feeds a comparison.
func renderWithScopes(m *ast.Module) string {
	rw := &ast.Rewriter{
		Ident: func(id *ast.Ident) *ast.Ident {
			if id.Scope != 0 {
				id.Name = id.Name + "#" + strconv.FormatUint(uint64(id.Scope), 10)
			}
			return id
		},
	}
	return emit.Source(rw.Module(m))
}
