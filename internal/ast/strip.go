package ast

import (
	"morph/internal/source"
)

// StripSpans returns a copy of the tree with all spans zeroed. When
// preserveScopes is false, identifier scope-context tags are zeroed as well;
// that is only safe once hygiene resolution has consumed them. StripSpans is
// idempotent.
func StripSpans(m *Module, preserveScopes bool) *Module {
	r := &Rewriter{
		Span: func(source.Span) source.Span { return source.Span{} },
	}
	if !preserveScopes {
		r.Ident = func(id *Ident) *Ident {
			id.Scope = 0
			return id
		}
	}
	return r.Module(m)
}

// Clone returns a deep copy of the tree.
func Clone(m *Module) *Module {
	r := &Rewriter{}
	return r.Module(m)
}
