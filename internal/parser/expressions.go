package parser

import (
	"strconv"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/token"
)

// Standard dyadic-operator priorities (Algol 68 report numbering; higher
// binds tighter). All dyadic operators associate to the left.
var dyadicPriority = map[string]int{
	"OR":   2,
	"AND":  3,
	"=":    4,
	"/=":   4,
	"<":    5,
	"<=":   5,
	">":    5,
	">=":   5,
	"+":    6,
	"-":    6,
	"*":    7,
	"/":    7,
	"OVER": 7,
	"MOD":  7,
	"ELEM": 7,
	"**":   8,
}

var monadicOps = map[string]bool{
	"-": true, "+": true,
	"ABS": true, "ENTIER": true, "ROUND": true, "ODD": true, "SIGN": true,
	"NOT": true, "RE": true, "IM": true, "UPB": true, "LWB": true,
}

func (p *Parser) dyadicOp() (string, int, bool) {
	t := p.cur()
	var sym string
	switch t.Type {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.UP,
		token.NE, token.LT, token.LE, token.GT, token.GE:
		sym = t.Lexeme
	case token.EQUALS:
		sym = "="
	case token.OP:
		sym = t.Lexeme
	default:
		return "", 0, false
	}
	prio, ok := dyadicPriority[sym]
	return sym, prio, ok
}

// parseUnit parses one unit: an assignment, an identity relation, or a
// tertiary.
func (p *Parser) parseUnit() *ast.Node {
	left := p.parseDyadic(1)
	if left == nil {
		return nil
	}
	switch p.cur().Type {
	case token.ASSIGN:
		tok := p.next()
		src := p.parseUnit() // := associates to the right
		return &ast.Node{Kind: ast.KindAssignment, Tok: tok, Left: left, Right: src}
	case token.IS, token.ISNT:
		tok := p.next()
		rel := "IS"
		if tok.Type == token.ISNT {
			rel = "ISNT"
		}
		right := p.parseDyadic(1)
		return &ast.Node{Kind: ast.KindIdentityRelation, Tok: tok, Text: rel, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseDyadic(minPrio int) *ast.Node {
	left := p.parseMonadic()
	for {
		sym, prio, ok := p.dyadicOp()
		if !ok || prio < minPrio {
			return left
		}
		tok := p.next()
		right := p.parseDyadic(prio + 1)
		left = &ast.Node{Kind: ast.KindFormula, Tok: tok, Text: sym, Left: left, Right: right}
	}
}

func (p *Parser) parseMonadic() *ast.Node {
	t := p.cur()
	var sym string
	switch t.Type {
	case token.MINUS, token.PLUS:
		sym = t.Lexeme
	case token.OP:
		if monadicOps[t.Lexeme] {
			sym = t.Lexeme
		}
	}
	if sym != "" {
		tok := p.next()
		operand := p.parseMonadic()
		return &ast.Node{Kind: ast.KindMonadicFormula, Tok: tok, Text: sym, Sub: operand}
	}
	return p.parseSecondary()
}

// parseSecondary handles field selection, which is prefix in Algol 68:
// `re OF z`.
func (p *Parser) parseSecondary() *ast.Node {
	if p.curIs(token.IDENT) && p.peekIs(token.OF) {
		field := p.next()
		p.next() // OF
		subject := p.parseSecondary()
		return &ast.Node{Kind: ast.KindSelection, Tok: field, Text: field.Lexeme, Sub: subject}
	}
	return p.parsePostfixed()
}

// parsePostfixed parses a primary followed by call and slice postfixes.
func (p *Parser) parsePostfixed() *ast.Node {
	node := p.parsePrimary()
	for node != nil {
		switch p.cur().Type {
		case token.LBRACK:
			node = p.parseSlice(node)
		case token.LPAREN:
			// A call postfix only applies to identifiers in this subset
			// (procedures are not first-class results of clauses here).
			if node.Kind != ast.KindIdentifier {
				return node
			}
			node = p.parseCall(node)
		default:
			return node
		}
	}
	return node
}

func (p *Parser) parseCall(callee *ast.Node) *ast.Node {
	tok := p.next() // '('
	call := &ast.Node{Kind: ast.KindCall, Tok: tok, Sub: callee}
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		arg := p.parseUnit()
		if arg == nil {
			return nil
		}
		call.List = append(call.List, arg)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return call
}

// parseSlice parses `row[i, j]`. An index of the form `l : u`, `l :` or
// `: u` is an open-ended trimmer and is kept as a trimmer node.
func (p *Parser) parseSlice(row *ast.Node) *ast.Node {
	tok := p.next() // '['
	slice := &ast.Node{Kind: ast.KindSlice, Tok: tok, Sub: row}
	for !p.curIs(token.RBRACK) && !p.curIs(token.EOF) {
		var index *ast.Node
		if p.curIs(token.COLON) {
			index = &ast.Node{Kind: ast.KindTrimmer, Tok: p.cur()}
			p.next()
			if !p.curIs(token.COMMA) && !p.curIs(token.RBRACK) {
				index.Right = p.parseUnit()
			}
		} else {
			index = p.parseUnit()
			if index == nil {
				return nil
			}
			if p.curIs(token.COLON) {
				trim := &ast.Node{Kind: ast.KindTrimmer, Tok: p.cur(), Left: index}
				p.next()
				if !p.curIs(token.COMMA) && !p.curIs(token.RBRACK) {
					trim.Right = p.parseUnit()
				}
				index = trim
			}
		}
		slice.List = append(slice.List, index)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACK)
	return slice
}

func (p *Parser) parsePrimary() *ast.Node {
	t := p.cur()
	switch t.Type {
	case token.INTLIT:
		p.next()
		v, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			p.errorf(t, "malformed integer denotation %q", t.Lexeme)
			return nil
		}
		return &ast.Node{Kind: ast.KindDenotation, Tok: t, Text: t.Lexeme, Mode: mode.Int, IntVal: v}
	case token.REALLIT:
		p.next()
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			p.errorf(t, "malformed real denotation %q", t.Lexeme)
			return nil
		}
		return &ast.Node{Kind: ast.KindDenotation, Tok: t, Text: t.Lexeme, Mode: mode.Real, RealVal: v}
	case token.BITSLIT:
		p.next()
		v, ok := parseRadix(t.Lexeme)
		if !ok {
			p.errorf(t, "malformed bits denotation %q", t.Lexeme)
			return nil
		}
		return &ast.Node{Kind: ast.KindDenotation, Tok: t, Text: t.Lexeme, Mode: mode.Bits, BitsVal: v}
	case token.CHARLIT:
		p.next()
		runes := []rune(t.Lexeme)
		if len(runes) != 1 {
			p.errorf(t, "character denotation must hold one character")
			return nil
		}
		return &ast.Node{Kind: ast.KindDenotation, Tok: t, Text: t.Lexeme, Mode: mode.Char, CharVal: runes[0]}
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.Node{Kind: ast.KindDenotation, Tok: t, Text: t.Lexeme, Mode: mode.Bool, BoolVal: t.Type == token.TRUE}
	case token.NIL:
		p.next()
		return &ast.Node{Kind: ast.KindNil, Tok: t}
	case token.SKIP:
		p.next()
		return &ast.Node{Kind: ast.KindSkip, Tok: t, Mode: mode.Void}
	case token.IDENT:
		p.next()
		return &ast.Node{Kind: ast.KindIdentifier, Tok: t, Text: t.Lexeme}
	case token.MODE:
		return p.parseCast()
	case token.IF:
		return p.parseConditional(token.IF)
	case token.CASE:
		return p.parseCase()
	case token.BEGIN:
		p.next()
		body := p.parseSerial(token.END)
		p.expect(token.END)
		return body
	case token.LPAREN:
		return p.parseEnclosed()
	case token.FOR, token.FROM, token.BY, token.TO, token.WHILE, token.DO:
		return p.parseLoop()
	}
	p.errorf(t, "unexpected %q at start of unit", t.Lexeme)
	p.next()
	return nil
}

// parseCast parses `MODE (unit)`.
func (p *Parser) parseCast() *ast.Node {
	tok := p.cur()
	m := p.parseModeSpec()
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	sub := p.parseSerial(token.RPAREN)
	p.expect(token.RPAREN)
	return &ast.Node{Kind: ast.KindCast, Tok: tok, Text: tok.Lexeme, Mode: m, Sub: sub}
}

// parseConditional parses IF ... THEN ... [ELIF ...] [ELSE ...] FI. ELIF
// chains become nested conditionals sharing the one closing FI.
func (p *Parser) parseConditional(opener token.TokenType) *ast.Node {
	tok := p.next() // IF or ELIF
	cond := p.parseSerial(token.THEN)
	if _, ok := p.expect(token.THEN); !ok {
		return nil
	}
	thenPart := p.parseSerial(token.ELIF, token.ELSE, token.FI)
	node := &ast.Node{Kind: ast.KindConditionalClause, Tok: tok, Cond: cond, ThenPart: thenPart}
	switch p.cur().Type {
	case token.ELIF:
		node.ElsePart = p.parseConditional(token.ELIF)
		return node // nested conditional consumed the FI
	case token.ELSE:
		p.next()
		node.ElsePart = p.parseSerial(token.FI)
	}
	p.expect(token.FI)
	return node
}

// parseCase parses CASE i IN u1, u2 [OUT u] ESAC.
func (p *Parser) parseCase() *ast.Node {
	tok := p.next() // CASE
	sel := p.parseSerial(token.IN)
	if _, ok := p.expect(token.IN); !ok {
		return nil
	}
	node := &ast.Node{Kind: ast.KindCaseClause, Tok: tok, Cond: sel}
	for {
		alt := p.parseUnit()
		if alt == nil {
			return nil
		}
		node.List = append(node.List, alt)
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	if p.curIs(token.OUT) {
		p.next()
		node.ElsePart = p.parseSerial(token.ESAC)
	}
	p.expect(token.ESAC)
	return node
}

// parseLoop parses [FOR id] [FROM u] [BY u] [TO u] [WHILE u] DO serial OD.
func (p *Parser) parseLoop() *ast.Node {
	node := &ast.Node{Kind: ast.KindLoopClause, Tok: p.cur(), Mode: mode.Void}
	if p.curIs(token.FOR) {
		p.next()
		idTok, ok := p.expect(token.IDENT)
		if !ok {
			return nil
		}
		node.LoopVar = &ast.Node{Kind: ast.KindIdentifier, Tok: idTok, Text: idTok.Lexeme}
	}
	if p.curIs(token.FROM) {
		p.next()
		node.FromPart = p.parseUnit()
	}
	if p.curIs(token.BY) {
		p.next()
		node.ByPart = p.parseUnit()
	}
	if p.curIs(token.TO) {
		p.next()
		node.ToPart = p.parseUnit()
	}
	if p.curIs(token.WHILE) {
		p.next()
		node.WhilePart = p.parseSerial(token.DO)
	}
	if _, ok := p.expect(token.DO); !ok {
		return nil
	}
	node.BodyPart = p.parseSerial(token.OD)
	p.expect(token.OD)
	return node
}

// parseEnclosed parses a parenthesized construct: a closed clause
// `(a; b)` or a collateral (tuple) `(a, b)`.
func (p *Parser) parseEnclosed() *ast.Node {
	tok := p.next() // '('
	first := p.parsePhrase()
	if first == nil {
		return nil
	}
	if p.curIs(token.COMMA) {
		coll := &ast.Node{Kind: ast.KindCollateralClause, Tok: tok, List: []*ast.Node{first}}
		for p.curIs(token.COMMA) {
			p.next()
			member := p.parseUnit()
			if member == nil {
				return nil
			}
			coll.List = append(coll.List, member)
		}
		p.expect(token.RPAREN)
		return coll
	}
	if p.curIs(token.RPAREN) {
		p.next()
		return first
	}
	closed := &ast.Node{Kind: ast.KindClosedClause, Tok: tok, List: []*ast.Node{first}}
	for p.curIs(token.SEMICOLON) {
		p.next()
		phrase := p.parsePhrase()
		if phrase == nil {
			return nil
		}
		closed.List = append(closed.List, phrase)
	}
	p.expect(token.RPAREN)
	return closed
}

// parseRadix decodes a bits denotation of the form <base>r<digits>.
func parseRadix(lexeme string) (uint64, bool) {
	for i := 0; i < len(lexeme); i++ {
		if lexeme[i] == 'r' {
			base, err := strconv.Atoi(lexeme[:i])
			if err != nil || base < 2 || base > 16 {
				return 0, false
			}
			v, err := strconv.ParseUint(lexeme[i+1:], base, 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}
