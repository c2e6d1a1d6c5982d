package parser

import (
	"fmt"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/token"
)

// Parser is a recursive-descent parser for the Algol 68 subset. It builds
// the tagged-kind syntax tree; modes on declarations come straight from the
// source, everything else is filled in by the analyzer.
type Parser struct {
	tokens []token.Token
	pos    int
	ctx    *pipeline.PipelineContext
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	return &Parser{tokens: tokens, ctx: ctx}
}

func (p *Parser) cur() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) next() token.Token {
	t := p.cur()
	p.pos++
	return t
}

func (p *Parser) curIs(tt token.TokenType) bool  { return p.cur().Type == tt }
func (p *Parser) peekIs(tt token.TokenType) bool { return p.peek().Type == tt }

func (p *Parser) expect(tt token.TokenType) (token.Token, bool) {
	if p.curIs(tt) {
		return p.next(), true
	}
	p.errorf(p.cur(), "expected %s, found %q", string(tt), p.cur().Lexeme)
	return p.cur(), false
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
		diagnostics.ErrP002, tok, fmt.Sprintf(format, args...)))
}

// ParseProgram parses the whole particular program as one serial clause.
func (p *Parser) ParseProgram() *ast.Node {
	root := p.parseSerial(token.EOF)
	if root == nil {
		root = &ast.Node{Kind: ast.KindClosedClause}
	}
	return root
}

// parseSerial parses phrases separated by semicolons up to the closing
// token. A serial with a single unit and no declarations collapses to that
// unit; anything else becomes a closed clause.
func (p *Parser) parseSerial(closers ...token.TokenType) *ast.Node {
	closed := &ast.Node{Kind: ast.KindClosedClause, Tok: p.cur()}
	isCloser := func(tt token.TokenType) bool {
		for _, c := range closers {
			if tt == c {
				return true
			}
		}
		return false
	}
	hasDecl := false
	for !isCloser(p.cur().Type) && !p.curIs(token.EOF) {
		phrase := p.parsePhrase()
		if phrase == nil {
			// error recovery: skip to next separator or closer
			for !p.curIs(token.SEMICOLON) && !isCloser(p.cur().Type) && !p.curIs(token.EOF) {
				p.next()
			}
		} else {
			if !phrase.IsStatement() {
				hasDecl = true
			}
			closed.List = append(closed.List, phrase)
		}
		if p.curIs(token.SEMICOLON) {
			p.next()
			continue
		}
		break
	}
	if len(closed.List) == 1 && !hasDecl {
		return closed.List[0]
	}
	return closed
}

// parsePhrase parses one declaration or unit.
func (p *Parser) parsePhrase() *ast.Node {
	switch p.cur().Type {
	case token.MODE:
		// Could be a declaration (INT x := ...) or a cast (REAL (x)).
		if p.peekIs(token.LPAREN) {
			return p.parseUnit()
		}
		return p.parseScalarDeclaration()
	case token.LBRACK:
		return p.parseRowDeclaration()
	case token.PROC:
		return p.parseProcDeclaration()
	}
	return p.parseUnit()
}

// parseModeSpec parses a possibly REF-prefixed mode indicant.
func (p *Parser) parseModeSpec() *mode.Mode {
	tok, ok := p.expect(token.MODE)
	if !ok {
		return mode.Void
	}
	if tok.Lexeme == "REF" {
		return mode.NewRef(p.parseModeSpec())
	}
	return indicantMode(tok.Lexeme)
}

func indicantMode(name string) *mode.Mode {
	switch name {
	case "INT":
		return mode.Int
	case "REAL":
		return mode.Real
	case "BOOL":
		return mode.Bool
	case "CHAR":
		return mode.Char
	case "BITS":
		return mode.Bits
	case "COMPL":
		return mode.Compl
	case "VOID":
		return mode.Void
	}
	return mode.Void
}

// parseScalarDeclaration parses `MODE name := unit`, `MODE name = unit` or
// `MODE name` (uninitialized variable). Multiple names may share one mode:
// `INT i, j`.
func (p *Parser) parseScalarDeclaration() *ast.Node {
	declMode := p.parseModeSpec()
	return p.parseDeclarers(declMode, nil)
}

// parseRowDeclaration parses `[l:u, ...] MODE name`.
func (p *Parser) parseRowDeclaration() *ast.Node {
	open, _ := p.expect(token.LBRACK)
	var bounds []*ast.Node
	for {
		lower := p.parseUnit()
		if _, ok := p.expect(token.COLON); !ok {
			return nil
		}
		upper := p.parseUnit()
		bounds = append(bounds, lower, upper)
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBRACK); !ok {
		return nil
	}
	elem := p.parseModeSpec()
	rowMode := mode.NewRow(elem, len(bounds)/2)
	decl := p.parseDeclarers(rowMode, bounds)
	_ = open
	return decl
}

// parseDeclarers parses the name list of a declaration. When more than one
// name is declared the result is a closed clause of individual declarations
// so downstream stages only ever see single-name declarations.
func (p *Parser) parseDeclarers(declMode *mode.Mode, bounds []*ast.Node) *ast.Node {
	var decls []*ast.Node
	for {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			return nil
		}
		decl := &ast.Node{Tok: nameTok, Text: nameTok.Lexeme, Mode: declMode, List: bounds}
		switch p.cur().Type {
		case token.EQUALS:
			p.next()
			decl.Kind = ast.KindIdentityDeclaration
			decl.Sub = p.parseUnit()
		case token.ASSIGN:
			p.next()
			decl.Kind = ast.KindVariableDeclaration
			decl.Sub = p.parseUnit()
		default:
			decl.Kind = ast.KindVariableDeclaration
		}
		decls = append(decls, decl)
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	if len(decls) == 1 {
		return decls[0]
	}
	return &ast.Node{Kind: ast.KindClosedClause, Tok: decls[0].Tok, List: decls}
}

// parseProcDeclaration parses `PROC f = (MODE a, MODE b) MODE: unit`.
func (p *Parser) parseProcDeclaration() *ast.Node {
	procTok := p.next() // PROC
	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.EQUALS); !ok {
		return nil
	}
	decl := &ast.Node{Kind: ast.KindProcDeclaration, Tok: procTok, Text: nameTok.Lexeme}

	var paramModes []*mode.Mode
	if p.curIs(token.LPAREN) {
		p.next()
		for !p.curIs(token.RPAREN) {
			pm := p.parseModeSpec()
			pTok, ok := p.expect(token.IDENT)
			if !ok {
				return nil
			}
			decl.List = append(decl.List, &ast.Node{
				Kind: ast.KindParameter, Tok: pTok, Text: pTok.Lexeme, Mode: pm,
			})
			paramModes = append(paramModes, pm)
			if p.curIs(token.COMMA) {
				p.next()
			}
		}
		p.next() // ')'
	}

	var ret *mode.Mode = mode.Void
	if p.curIs(token.MODE) {
		ret = p.parseModeSpec()
	}
	if _, ok := p.expect(token.COLON); !ok {
		return nil
	}
	decl.BodyPart = p.parseUnit()
	decl.Mode = mode.NewProc(paramModes, ret)
	return decl
}

// ParserProcessor adapts the parser to the pipeline.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Errors) > 0 && len(ctx.Tokens) == 0 {
		return ctx
	}
	p := New(ctx.Tokens, ctx)
	root := p.ParseProgram()
	if len(ctx.Errors) == 0 {
		ctx.AstRoot = root
	}
	return ctx
}
