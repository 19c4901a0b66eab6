package harness

import "fmt"

// Kind classifies why a verification run failed.
type Kind uint8

const (
	// KindParse means the parser reported at least one error diagnostic.
	KindParse Kind = iota + 1
	// KindInvariant means a pipeline checkpoint found a broken tree.
	KindInvariant
	// KindStructuralMismatch means the canonical trees differ while the
	// rendered texts agree, and the caller did not opt into text-only
	// matching. Structural equality is the default bar.
	KindStructuralMismatch
	// KindTextualMismatch means the canonical trees differ and so do the
	// rendered texts.
	KindTextualMismatch
	// KindExec means the external runner exited nonzero.
	KindExec
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindInvariant:
		return "invariant violation"
	case KindStructuralMismatch:
		return "structural mismatch"
	case KindTextualMismatch:
		return "textual mismatch"
	case KindExec:
		return "execution failure"
	default:
		return "unknown failure"
	}
}

// Failure is the terminal result of an unsuccessful verification run. Every
// failure aborts its case; nothing retries.
type Failure struct {
	Kind Kind
	Case string
	// Stage names the pipeline step for invariant violations.
	Stage string
	Msg   string

	// Comparison evidence. Populated by the equivalence checker.
	Input    string
	Expected string
	Actual   string
	TreeDiff string
	TextDiff string

	// Artifacts is the retained staging directory for execution failures.
	Artifacts string

	Err error
}

func (f *Failure) Error() string {
	s := fmt.Sprintf("%s: %s", f.Case, f.Kind)
	if f.Stage != "" {
		s += " at " + f.Stage
	}
	if f.Msg != "" {
		s += ": " + f.Msg
	}
	return s
}

func (f *Failure) Unwrap() error {
	return f.Err
}
