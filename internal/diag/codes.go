package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntactic.
	SynUnexpectedToken   Code = 2001
	SynExpectSemicolon   Code = 2002
	SynExpectIdentifier  Code = 2003
	SynUnclosedParen     Code = 2004
	SynUnclosedBrace     Code = 2005
	SynUnclosedBracket   Code = 2006
	SynBadAssignTarget   Code = 2007
	SynExpectExpression  Code = 2008
	SynExpectPattern     Code = 2009
	SynExpectPropertyKey Code = 2010

	// IO.
	IOLoadFileError Code = 9001
)

func (c Code) String() string {
	return fmt.Sprintf("M%04d", uint16(c))
}
