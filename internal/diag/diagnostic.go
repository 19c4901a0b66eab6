package diag

import (
	"morph/internal/source"
)

// Note is a secondary span with additional context.
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
