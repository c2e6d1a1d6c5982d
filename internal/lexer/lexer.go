package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/token"
)

// Lexer tokenizes upper-stropped Algol 68 source: bold words are upper case
// (BEGIN, IF, OVER), identifiers are lower case, comments are # ... # or
// CO ... CO.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment consumes "# ... #" hash comments. CO ... CO comments are
// handled where bold words are read.
func (l *Lexer) skipComment() {
	l.readChar() // opening #
	for l.ch != '#' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == '#' {
		l.readChar()
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	for l.ch == '#' {
		l.skipComment()
		l.skipWhitespace()
	}

	line, col := l.line, l.column

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: line, Column: col}
	case '(':
		l.readChar()
		return token.Token{Type: token.LPAREN, Lexeme: "(", Line: line, Column: col}
	case ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Lexeme: ")", Line: line, Column: col}
	case '[':
		l.readChar()
		return token.Token{Type: token.LBRACK, Lexeme: "[", Line: line, Column: col}
	case ']':
		l.readChar()
		return token.Token{Type: token.RBRACK, Lexeme: "]", Line: line, Column: col}
	case ',':
		l.readChar()
		return token.Token{Type: token.COMMA, Lexeme: ",", Line: line, Column: col}
	case ';':
		l.readChar()
		return token.Token{Type: token.SEMICOLON, Lexeme: ";", Line: line, Column: col}
	case '@':
		l.readChar()
		return token.Token{Type: token.AT, Lexeme: "@", Line: line, Column: col}
	case '+':
		l.readChar()
		return token.Token{Type: token.PLUS, Lexeme: "+", Line: line, Column: col}
	case '-':
		l.readChar()
		return token.Token{Type: token.MINUS, Lexeme: "-", Line: line, Column: col}
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.UP, Lexeme: "**", Line: line, Column: col}
		}
		l.readChar()
		return token.Token{Type: token.STAR, Lexeme: "*", Line: line, Column: col}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NE, Lexeme: "/=", Line: line, Column: col}
		}
		l.readChar()
		return token.Token{Type: token.SLASH, Lexeme: "/", Line: line, Column: col}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.LE, Lexeme: "<=", Line: line, Column: col}
		}
		l.readChar()
		return token.Token{Type: token.LT, Lexeme: "<", Line: line, Column: col}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.GE, Lexeme: ">=", Line: line, Column: col}
		}
		l.readChar()
		return token.Token{Type: token.GT, Lexeme: ">", Line: line, Column: col}
	case '=':
		// = is the identity-declaration symbol; comparison is also spelled
		// = in Algol 68, disambiguated by the parser.
		l.readChar()
		return token.Token{Type: token.EQUALS, Lexeme: "=", Line: line, Column: col}
	case ':':
		if l.peekChar() == '=' {
			l.readChar() // ':'
			l.readChar() // '='
			if l.ch == ':' {
				l.readChar()
				return token.Token{Type: token.IS, Lexeme: ":=:", Line: line, Column: col}
			}
			return token.Token{Type: token.ASSIGN, Lexeme: ":=", Line: line, Column: col}
		}
		if l.peekChar() == '/' {
			// :/=:
			start := l.position
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				if l.ch == ':' {
					l.readChar()
					return token.Token{Type: token.ISNT, Lexeme: ":/=:", Line: line, Column: col}
				}
			}
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col}
		}
		l.readChar()
		return token.Token{Type: token.COLON, Lexeme: ":", Line: line, Column: col}
	case '"':
		return l.readCharDenotation(line, col)
	}

	if unicode.IsDigit(l.ch) {
		return l.readNumber(line, col)
	}
	if unicode.IsLetter(l.ch) {
		return l.readWord(line, col)
	}

	bad := string(l.ch)
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: bad, Line: line, Column: col}
}

// readNumber lexes INT, REAL and BITS denotations: 42, 3.14, 1e6, 2.5e-3,
// 2r1010, 16rff.
func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.position
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}

	// radix form: <base>r<digits>
	if l.ch == 'r' && isRadixDigit(l.peekChar()) {
		l.readChar()
		for isRadixDigit(l.ch) {
			l.readChar()
		}
		return token.Token{Type: token.BITSLIT, Lexeme: l.input[start:l.position], Line: line, Column: col}
	}

	isReal := false
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isReal = true
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' && (unicode.IsDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		isReal = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[start:l.position]
	if isReal {
		return token.Token{Type: token.REALLIT, Lexeme: lexeme, Line: line, Column: col}
	}
	return token.Token{Type: token.INTLIT, Lexeme: lexeme, Line: line, Column: col}
}

func isRadixDigit(ch rune) bool {
	return unicode.IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// readCharDenotation lexes "c". A doubled quote inside denotes the quote
// character itself.
func (l *Lexer) readCharDenotation(line, col int) token.Token {
	l.readChar() // opening quote
	var sb strings.Builder
	for l.ch != 0 {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				sb.WriteRune('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // closing quote
			return token.Token{Type: token.CHARLIT, Lexeme: sb.String(), Line: line, Column: col}
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return token.Token{Type: token.ILLEGAL, Lexeme: sb.String(), Line: line, Column: col}
}

// readWord lexes an identifier or a bold word. Algol 68 identifiers may
// contain embedded spaces; this subset does not support that, but it does
// fold CO ... CO comments here since CO lexes as a word.
func (l *Lexer) readWord(line, col int) token.Token {
	start := l.position
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.position]

	if word == "CO" || word == "COMMENT" {
		closing := word
		for {
			l.skipWhitespace()
			if l.ch == 0 {
				return token.Token{Type: token.ILLEGAL, Lexeme: "unterminated comment", Line: line, Column: col}
			}
			if !unicode.IsLetter(l.ch) {
				l.readChar()
				continue
			}
			ws := l.position
			for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) {
				l.readChar()
			}
			if l.input[ws:l.position] == closing {
				return l.NextToken()
			}
		}
	}

	if word == strings.ToUpper(word) && strings.ToUpper(word) != strings.ToLower(word) {
		tt := token.LookupBold(word)
		if tt == token.MODE || tt == token.OP || tt == token.IDENT {
			return token.Token{Type: tt, Lexeme: word, Line: line, Column: col}
		}
		return token.Token{Type: tt, Lexeme: word, Line: line, Column: col}
	}
	return token.Token{Type: token.IDENT, Lexeme: word, Line: line, Column: col}
}

// LexerProcessor adapts the lexer to the pipeline.
type LexerProcessor struct{}

func (p *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(
				diagnostics.ErrP001,
				tok,
				"unexpected character sequence "+tok.Lexeme,
			))
			continue
		}
		ctx.Tokens = append(ctx.Tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return ctx
}
