// Package dialect describes which grammar the parser accepts. The harness
// passes a Dialect through to the parser unchanged and never owns it.
package dialect

import "fmt"

// Kind selects the base grammar.
type Kind uint8

const (
	// ES5 accepts the ES5 statement/expression subset only.
	ES5 Kind = iota
	// ES2015 additionally accepts let/const and destructuring patterns.
	ES2015

	kindCount
)

func (k Kind) String() string {
	switch k {
	case ES5:
		return "es5"
	case ES2015:
		return "es2015"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// Dialect is an enumerated description of the accepted grammar plus feature
// toggles.
type Dialect struct {
	Kind Kind
}

// Default returns the dialect used when the caller does not care: the full
// ES2015 subset.
func Default() Dialect {
	return Dialect{Kind: ES2015}
}

// AllowsBindingKeywords reports whether let/const declarations are accepted.
func (d Dialect) AllowsBindingKeywords() bool {
	return d.Kind >= ES2015
}

// AllowsDestructuring reports whether array/object binding patterns are
// accepted.
func (d Dialect) AllowsDestructuring() bool {
	return d.Kind >= ES2015
}
