// Package ast defines the tree representation of a parsed program.
//
// Trees are plain pointer structures passed by value through the pipeline:
// passes build new trees instead of mutating their input. Position metadata
// (spans) and scope-context tags on identifiers are disposable: both can be
// stripped without semantic loss, and neither participates in equality once
// stripped.
package ast

import (
	"morph/internal/source"
)

// ScopeID is the scope-context tag on an identifier: an internal
// disambiguator for same-named bindings from different lexical scopes.
// The parser always produces 0; transforms introduce nonzero tags, and
// hygiene resolution consumes them.
type ScopeID uint32

type Node interface{ node() }

type Stmt interface {
	Node
	stmt()
}

type Expr interface {
	Node
	expr()
}

// Pat is a binding pattern.
type Pat interface {
	Node
	pat()
}

// Module is the root of a parsed program.
type Module struct {
	Span source.Span
	Body []Stmt
}

func (*Module) node() {}

// Ident is a name. It is valid both as an expression and as a binding
// pattern.
type Ident struct {
	Span  source.Span
	Name  string
	Scope ScopeID
}

func (*Ident) node() {}
func (*Ident) expr() {}
func (*Ident) pat()  {}

// ---- statements ----

// VarKind is the declaration keyword.
type VarKind uint8

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	default:
		return "var"
	}
}

// Declarator is one name/init pair inside a VarDecl. Init may be nil.
type Declarator struct {
	Span source.Span
	Name Pat
	Init Expr
}

type VarDecl struct {
	Span  source.Span
	Kind  VarKind
	Decls []Declarator
}

type ExprStmt struct {
	Span source.Span
	X    Expr
}

type FuncDecl struct {
	Span   source.Span
	Name   *Ident
	Params []Pat
	Body   *BlockStmt
}

// ReturnStmt returns Arg, which may be nil.
type ReturnStmt struct {
	Span source.Span
	Arg  Expr
}

type BlockStmt struct {
	Span source.Span
	Body []Stmt
}

func (*VarDecl) node()    {}
func (*ExprStmt) node()   {}
func (*FuncDecl) node()   {}
func (*ReturnStmt) node() {}
func (*BlockStmt) node()  {}

func (*VarDecl) stmt()    {}
func (*ExprStmt) stmt()   {}
func (*FuncDecl) stmt()   {}
func (*ReturnStmt) stmt() {}
func (*BlockStmt) stmt()  {}

// ---- expressions ----

type NumberLit struct {
	Span  source.Span
	Value float64
}

type StringLit struct {
	Span  source.Span
	Value string
}

type BoolLit struct {
	Span  source.Span
	Value bool
}

type NullLit struct {
	Span source.Span
}

type ArrayLit struct {
	Span  source.Span
	Elems []Expr
}

// Property is one key/value pair in an object literal. Shorthand properties
// keep Value equal to the key identifier.
type Property struct {
	Span      source.Span
	Key       *Ident
	Value     Expr
	Shorthand bool
}

type ObjectLit struct {
	Span  source.Span
	Props []Property
}

// FuncExpr is a function expression; Name may be nil.
type FuncExpr struct {
	Span   source.Span
	Name   *Ident
	Params []Pat
	Body   *BlockStmt
}

// ParenExpr is an explicit grouping. The parser drops redundant parentheses;
// the fixer inserts ParenExpr nodes where printing would otherwise be
// ambiguous.
type ParenExpr struct {
	Span source.Span
	X    Expr
}

type UnaryExpr struct {
	Span source.Span
	Op   string
	X    Expr
}

type BinExpr struct {
	Span source.Span
	Op   string
	L    Expr
	R    Expr
}

// AssignExpr is a plain `=` assignment. The target is a pattern or an
// expression; see Target.
type AssignExpr struct {
	Span   source.Span
	Target Target
	Value  Expr
}

type CallExpr struct {
	Span   source.Span
	Callee Expr
	Args   []Expr
}

// MemberExpr is obj.Prop or obj[Index] when Computed.
type MemberExpr struct {
	Span     source.Span
	Obj      Expr
	Prop     *Ident
	Computed bool
	Index    Expr
}

func (*NumberLit) node()  {}
func (*StringLit) node()  {}
func (*BoolLit) node()    {}
func (*NullLit) node()    {}
func (*ArrayLit) node()   {}
func (*ObjectLit) node()  {}
func (*FuncExpr) node()   {}
func (*ParenExpr) node()  {}
func (*UnaryExpr) node()  {}
func (*BinExpr) node()    {}
func (*AssignExpr) node() {}
func (*CallExpr) node()   {}
func (*MemberExpr) node() {}

func (*NumberLit) expr()  {}
func (*StringLit) expr()  {}
func (*BoolLit) expr()    {}
func (*NullLit) expr()    {}
func (*ArrayLit) expr()   {}
func (*ObjectLit) expr()  {}
func (*FuncExpr) expr()   {}
func (*ParenExpr) expr()  {}
func (*UnaryExpr) expr()  {}
func (*BinExpr) expr()    {}
func (*AssignExpr) expr() {}
func (*CallExpr) expr()   {}
func (*MemberExpr) expr() {}

// ---- patterns ----

type ArrayPat struct {
	Span  source.Span
	Elems []Pat
}

// ObjectPatProp binds Key (or Value when renaming, as in `{a: b}`).
// Value nil means shorthand.
type ObjectPatProp struct {
	Span  source.Span
	Key   *Ident
	Value Pat
}

type ObjectPat struct {
	Span  source.Span
	Props []ObjectPatProp
}

// ExprPat wraps an expression used in pattern position. Parsers produce it
// for destructuring assignment targets; it is a representation artifact, not
// a semantic construct.
type ExprPat struct {
	Span source.Span
	X    Expr
}

func (*ArrayPat) node()  {}
func (*ObjectPat) node() {}
func (*ExprPat) node()   {}

func (*ArrayPat) pat()  {}
func (*ObjectPat) pat() {}
func (*ExprPat) pat()   {}

// Target is the left side of an assignment: either a binding pattern or a
// plain expression. Exactly one field is non-nil.
type Target struct {
	Pat  Pat
	Expr Expr
}

// IsPat reports whether the target is in pattern form.
func (t Target) IsPat() bool {
	return t.Pat != nil
}
