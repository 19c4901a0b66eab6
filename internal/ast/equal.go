package ast

import (
	"github.com/google/go-cmp/cmp"
)

// Equal reports structural equality of two trees. Callers are expected to
// strip position metadata first; spans compare like any other field.
func Equal(a, b *Module) bool {
	return cmp.Equal(a, b)
}

// Diff renders a structural diff between the expected and actual trees,
// empty when they are equal.
func Diff(expected, actual *Module) string {
	return cmp.Diff(expected, actual)
}
