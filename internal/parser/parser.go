// Package parser turns (dialect, text) into a tree plus diagnostics.
//
// Problems are emitted through the diag.Reporter in Options; parsing keeps
// going after an error where it can, so callers decide fatality by checking
// their diagnostic sink. The returned tree is complete but may contain
// placeholder identifiers where recovery kicked in.
package parser

import (
	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/dialect"
	"morph/internal/source"
)

// Options configures one parse.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint
	Dialect   dialect.Dialect
}

// ParseFile parses the whole file as a module.
func ParseFile(sf *source.File, opts Options) *ast.Module {
	p := newParser(sf, opts)
	return p.parseModule()
}

type parser struct {
	sf       *source.File
	opts     Options
	reporter diag.Reporter
	lx       *lexer
	cur      token
	prevEnd  uint32
	errs     uint
	bail     bool
}

func newParser(sf *source.File, opts Options) *parser {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 100
	}
	p := &parser{
		sf:       sf,
		opts:     opts,
		reporter: opts.Reporter,
		lx:       newLexer(sf, opts.Reporter),
	}
	p.cur = p.lx.next()
	return p
}

func (p *parser) advance() {
	p.prevEnd = p.cur.Span.End
	p.cur = p.lx.next()
}

func (p *parser) errorAt(code diag.Code, span source.Span, msg string) {
	p.errs++
	if p.errs > p.opts.MaxErrors {
		p.bail = true
		return
	}
	diag.ReportError(p.reporter, code, span, msg)
}

func (p *parser) isPunct(text string) bool {
	return p.cur.Kind == tokPunct && p.cur.Text == text
}

func (p *parser) isKeyword(word string) bool {
	return p.cur.Kind == tokIdent && p.cur.Text == word
}

func (p *parser) eatPunct(text string) bool {
	if p.isPunct(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectPunct(text string, code diag.Code) bool {
	if p.eatPunct(text) {
		return true
	}
	p.errorAt(code, p.cur.Span, "expected '"+text+"'")
	return false
}

func (p *parser) spanFrom(start uint32) source.Span {
	return source.Span{File: p.sf.ID, Start: start, End: p.prevEnd}
}

// sync skips tokens until a statement boundary, consuming the ';' if that is
// what stopped it.
func (p *parser) sync() {
	for p.cur.Kind != tokEOF {
		if p.isPunct(";") {
			p.advance()
			return
		}
		if p.isPunct("}") {
			return
		}
		p.advance()
	}
}

func (p *parser) parseModule() *ast.Module {
	start := p.cur.Span.Start
	var body []ast.Stmt
	for p.cur.Kind != tokEOF && !p.bail {
		body = append(body, p.parseStmt())
	}
	return &ast.Module{Span: p.spanFrom(start), Body: body}
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.isPunct("{"):
		return p.parseBlock()
	case p.isKeyword("var"):
		return p.parseVarDecl(ast.VarVar)
	case p.isKeyword("let"):
		p.checkBindingKeyword("let")
		return p.parseVarDecl(ast.VarLet)
	case p.isKeyword("const"):
		p.checkBindingKeyword("const")
		return p.parseVarDecl(ast.VarConst)
	case p.isKeyword("function"):
		return p.parseFuncDecl()
	case p.isKeyword("return"):
		return p.parseReturn()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) checkBindingKeyword(word string) {
	if !p.opts.Dialect.AllowsBindingKeywords() {
		p.errorAt(diag.SynUnexpectedToken, p.cur.Span,
			"'"+word+"' is not accepted by dialect "+p.opts.Dialect.Kind.String())
	}
}

func (p *parser) parseBlock() *ast.BlockStmt {
	start := p.cur.Span.Start
	p.advance() // '{'
	var body []ast.Stmt
	for !p.isPunct("}") && p.cur.Kind != tokEOF && !p.bail {
		body = append(body, p.parseStmt())
	}
	p.expectPunct("}", diag.SynUnclosedBrace)
	return &ast.BlockStmt{Span: p.spanFrom(start), Body: body}
}

func (p *parser) parseVarDecl(kind ast.VarKind) ast.Stmt {
	start := p.cur.Span.Start
	p.advance() // keyword

	var decls []ast.Declarator
	for {
		dstart := p.cur.Span.Start
		name := p.parseBindingPat()
		var init ast.Expr
		if p.eatPunct("=") {
			init = p.parseAssign()
		}
		decls = append(decls, ast.Declarator{
			Span: p.spanFrom(dstart),
			Name: name,
			Init: init,
		})
		if !p.eatPunct(",") {
			break
		}
	}
	p.eatPunct(";")
	return &ast.VarDecl{Span: p.spanFrom(start), Kind: kind, Decls: decls}
}

func (p *parser) parseFuncDecl() ast.Stmt {
	start := p.cur.Span.Start
	p.advance() // 'function'

	name := p.parseIdent()
	params := p.parseParams()
	body := p.parseBlock()
	return &ast.FuncDecl{Span: p.spanFrom(start), Name: name, Params: params, Body: body}
}

func (p *parser) parseReturn() ast.Stmt {
	start := p.cur.Span.Start
	p.advance() // 'return'

	var arg ast.Expr
	if !p.isPunct(";") && !p.isPunct("}") && p.cur.Kind != tokEOF {
		arg = p.parseExpr()
	}
	p.eatPunct(";")
	return &ast.ReturnStmt{Span: p.spanFrom(start), Arg: arg}
}

func (p *parser) parseExprStmt() ast.Stmt {
	start := p.cur.Span.Start
	x := p.parseExpr()
	p.eatPunct(";")
	return &ast.ExprStmt{Span: p.spanFrom(start), X: x}
}

func (p *parser) parseIdent() *ast.Ident {
	if p.cur.Kind != tokIdent {
		p.errorAt(diag.SynExpectIdentifier, p.cur.Span, "expected identifier")
		return &ast.Ident{Span: p.cur.Span, Name: "_"}
	}
	id := &ast.Ident{Span: p.cur.Span, Name: p.cur.Text}
	p.advance()
	return id
}

func (p *parser) parseParams() []ast.Pat {
	p.expectPunct("(", diag.SynUnclosedParen)
	var params []ast.Pat
	for !p.isPunct(")") && p.cur.Kind != tokEOF && !p.bail {
		params = append(params, p.parseBindingPat())
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct(")", diag.SynUnclosedParen)
	return params
}

// parseBindingPat parses a pattern in binding position (declarations,
// parameters).
func (p *parser) parseBindingPat() ast.Pat {
	switch {
	case p.cur.Kind == tokIdent && !isReserved(p.cur.Text):
		return p.parseIdent()
	case p.isPunct("["):
		p.checkDestructuring()
		start := p.cur.Span.Start
		p.advance()
		var elems []ast.Pat
		for !p.isPunct("]") && p.cur.Kind != tokEOF && !p.bail {
			elems = append(elems, p.parseBindingPat())
			if !p.eatPunct(",") {
				break
			}
		}
		p.expectPunct("]", diag.SynUnclosedBracket)
		return &ast.ArrayPat{Span: p.spanFrom(start), Elems: elems}
	case p.isPunct("{"):
		p.checkDestructuring()
		start := p.cur.Span.Start
		p.advance()
		var props []ast.ObjectPatProp
		for !p.isPunct("}") && p.cur.Kind != tokEOF && !p.bail {
			pstart := p.cur.Span.Start
			key := p.parseIdent()
			var value ast.Pat
			if p.eatPunct(":") {
				value = p.parseBindingPat()
			}
			props = append(props, ast.ObjectPatProp{
				Span:  p.spanFrom(pstart),
				Key:   key,
				Value: value,
			})
			if !p.eatPunct(",") {
				break
			}
		}
		p.expectPunct("}", diag.SynUnclosedBrace)
		return &ast.ObjectPat{Span: p.spanFrom(start), Props: props}
	default:
		p.errorAt(diag.SynExpectPattern, p.cur.Span, "expected binding pattern")
		p.sync()
		return &ast.Ident{Span: p.cur.Span, Name: "_"}
	}
}

func (p *parser) checkDestructuring() {
	if !p.opts.Dialect.AllowsDestructuring() {
		p.errorAt(diag.SynUnexpectedToken, p.cur.Span,
			"destructuring is not accepted by dialect "+p.opts.Dialect.Kind.String())
	}
}

func isReserved(word string) bool {
	switch word {
	case "var", "let", "const", "function", "return", "true", "false", "null", "typeof":
		return true
	}
	return false
}
