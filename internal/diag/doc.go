// Package diag defines the diagnostic model shared by the lexer, parser and
// the verification harness.
//
// Diagnostic is the central record: severity, stable numeric code, message
// and a primary source span, plus optional notes. Producers emit through a
// Reporter so they stay decoupled from storage; BagReporter aggregates into a
// Bag, which is the per-run sink the harness establishes at the start of a
// verification run and drains at its end.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
