package parser

import (
	"strconv"

	"morph/internal/diag"
	"morph/internal/source"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

type token struct {
	Kind tokenKind
	Text string  // identifier name or punctuator
	Num  float64 // number value
	Str  string  // string value (unquoted)
	Span source.Span
}

type lexer struct {
	sf       *source.File
	reporter diag.Reporter
	off      uint32
}

func newLexer(sf *source.File, reporter diag.Reporter) *lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &lexer{sf: sf, reporter: reporter}
}

func (lx *lexer) span(start uint32) source.Span {
	return source.Span{File: lx.sf.ID, Start: start, End: lx.off}
}

func (lx *lexer) peekByte() (byte, bool) {
	if int(lx.off) >= len(lx.sf.Content) {
		return 0, false
	}
	return lx.sf.Content[lx.off], true
}

func (lx *lexer) at(i uint32) byte {
	if int(i) >= len(lx.sf.Content) {
		return 0
	}
	return lx.sf.Content[i]
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (lx *lexer) skipTrivia() {
	for {
		b, ok := lx.peekByte()
		if !ok {
			return
		}
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.off++
		case b == '/' && lx.at(lx.off+1) == '/':
			for {
				c, ok := lx.peekByte()
				if !ok || c == '\n' {
					break
				}
				lx.off++
			}
		case b == '/' && lx.at(lx.off+1) == '*':
			lx.off += 2
			for {
				c, ok := lx.peekByte()
				if !ok {
					return
				}
				if c == '*' && lx.at(lx.off+1) == '/' {
					lx.off += 2
					break
				}
				lx.off++
			}
		default:
			return
		}
	}
}

// next returns the next token, reporting lexical problems as it goes.
func (lx *lexer) next() token {
	lx.skipTrivia()
	start := lx.off

	b, ok := lx.peekByte()
	if !ok {
		return token{Kind: tokEOF, Span: lx.span(start)}
	}

	switch {
	case isIdentStart(b):
		for {
			c, ok := lx.peekByte()
			if !ok || !isIdentPart(c) {
				break
			}
			lx.off++
		}
		text := string(lx.sf.Content[start:lx.off])
		return token{Kind: tokIdent, Text: text, Span: lx.span(start)}

	case isDigit(b):
		for {
			c, ok := lx.peekByte()
			if !ok || !(isDigit(c) || c == '.') {
				break
			}
			lx.off++
		}
		text := string(lx.sf.Content[start:lx.off])
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			diag.ReportError(lx.reporter, diag.LexBadNumber, lx.span(start), "malformed number literal "+strconv.Quote(text))
			v = 0
		}
		return token{Kind: tokNumber, Num: v, Span: lx.span(start)}

	case b == '\'' || b == '"':
		quote := b
		lx.off++
		var val []byte
		for {
			c, ok := lx.peekByte()
			if !ok || c == '\n' {
				diag.ReportError(lx.reporter, diag.LexUnterminatedString, lx.span(start), "unterminated string literal")
				break
			}
			lx.off++
			if c == quote {
				break
			}
			if c == '\\' {
				e, ok := lx.peekByte()
				if !ok {
					diag.ReportError(lx.reporter, diag.LexUnterminatedString, lx.span(start), "unterminated string literal")
					break
				}
				lx.off++
				switch e {
				case 'n':
					val = append(val, '\n')
				case 't':
					val = append(val, '\t')
				case 'r':
					val = append(val, '\r')
				default:
					val = append(val, e)
				}
				continue
			}
			val = append(val, c)
		}
		return token{Kind: tokString, Str: string(val), Span: lx.span(start)}

	default:
		return lx.punct(start)
	}
}

// punct scans the longest matching punctuator.
func (lx *lexer) punct(start uint32) token {
	two := ""
	if int(start)+1 < len(lx.sf.Content) {
		two = string(lx.sf.Content[start : start+2])
	}
	three := ""
	if int(start)+2 < len(lx.sf.Content) {
		three = string(lx.sf.Content[start : start+3])
	}

	switch three {
	case "===", "!==":
		lx.off += 3
		return token{Kind: tokPunct, Text: three, Span: lx.span(start)}
	}
	switch two {
	case "==", "!=", "<=", ">=":
		lx.off += 2
		return token{Kind: tokPunct, Text: two, Span: lx.span(start)}
	}

	b := lx.sf.Content[start]
	switch b {
	case '(', ')', '{', '}', '[', ']', ',', ';', ':', '.', '=', '<', '>', '+', '-', '*', '/', '!':
		lx.off++
		return token{Kind: tokPunct, Text: string(b), Span: lx.span(start)}
	}

	lx.off++
	diag.ReportError(lx.reporter, diag.LexUnknownChar, lx.span(start), "unexpected character "+strconv.QuoteRune(rune(b)))
	// Resync on the next token.
	return lx.next()
}
