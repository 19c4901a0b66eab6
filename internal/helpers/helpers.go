// Package helpers injects shared runtime helper functions into programs
// headed for execution.
//
// A transform may emit calls to helpers it does not define, written as
// identifiers with a leading underscore (`_toConsumableArray` for the helper
// registered as `toConsumableArray`). Before a program is staged for the
// external runner, Inject prepends the definition of every referenced helper
// exactly once, in registration order. Helpers may call other helpers; the
// scan runs to a fixpoint so transitive definitions land too.
package helpers

import (
	"fmt"
	"sync"

	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/dialect"
	"morph/internal/parser"
	"morph/internal/source"
)

// Registry maps helper names to their source text. A Registry is safe for
// concurrent use once built; Register calls belong in setup code.
type Registry struct {
	mu    sync.Mutex
	src   map[string]string
	order []string
	cache map[string]*ast.Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		src:   make(map[string]string),
		cache: make(map[string]*ast.Module),
	}
}

// Register adds or replaces a helper. The name is bare, without the
// underscore prefix references use.
func (r *Registry) Register(name, sourceText string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.src[name]; !exists {
		r.order = append(r.order, name)
	}
	r.src[name] = sourceText
	delete(r.cache, name)
}

// Default returns a registry preloaded with the helpers the bundled
// transforms emit.
func Default() *Registry {
	r := NewRegistry()
	r.Register("toConsumableArray",
		"function _toConsumableArray(arr) {\n"+
			"    return [].slice.call(arr, 0);\n"+
			"}")
	r.Register("typeOf",
		"function _typeOf(obj) {\n"+
			"    return typeof obj;\n"+
			"}")
	return r
}

// Inject returns a copy of the module with the definitions of every
// referenced helper prepended. A module that references no helpers comes
// back equal to its input.
func (r *Registry) Inject(m *ast.Module) (*ast.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needed := make(map[string]bool)
	scanRefs(m, r.src, needed)

	// A program that already defines a helper at top level keeps its own.
	for _, s := range m.Body {
		if fd, ok := s.(*ast.FuncDecl); ok && len(fd.Name.Name) > 1 && fd.Name.Name[0] == '_' {
			delete(needed, fd.Name.Name[1:])
		}
	}

	// Helpers can reference helpers. Grow the set until stable.
	for {
		grew := false
		for name := range needed {
			def, err := r.parseLocked(name)
			if err != nil {
				return nil, err
			}
			before := len(needed)
			scanRefs(def, r.src, needed)
			if len(needed) > before {
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	if len(needed) == 0 {
		return ast.Clone(m), nil
	}

	out := &ast.Module{}
	for _, name := range r.order {
		if !needed[name] {
			continue
		}
		def, err := r.parseLocked(name)
		if err != nil {
			return nil, err
		}
		out.Body = append(out.Body, ast.Clone(def).Body...)
	}
	out.Body = append(out.Body, ast.Clone(m).Body...)
	return out, nil
}

// scanRefs marks every registered helper the module references by its
// underscored identifier.
func scanRefs(m *ast.Module, registered map[string]string, into map[string]bool) {
	rw := &ast.Rewriter{
		Ident: func(id *ast.Ident) *ast.Ident {
			if len(id.Name) > 1 && id.Name[0] == '_' {
				name := id.Name[1:]
				if _, ok := registered[name]; ok {
					into[name] = true
				}
			}
			return id
		},
	}
	rw.Module(m)
}

func (r *Registry) parseLocked(name string) (*ast.Module, error) {
	if def, ok := r.cache[name]; ok {
		return def, nil
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("helper:"+name, []byte(r.src[name]))
	bag := diag.NewBag(10)
	def := parser.ParseFile(fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  dialect.Default(),
	})
	if bag.HasErrors() {
		return nil, fmt.Errorf("helper %s does not parse: %s", name, bag.Items()[0].Message)
	}
	r.cache[name] = def
	return def, nil
}
