package token

// TokenType identifies the lexical class of a token.
type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Denotations and identifiers
	INTLIT  TokenType = "INTLIT"  // 42
	REALLIT TokenType = "REALLIT" // 3.14, 1e10
	BITSLIT TokenType = "BITSLIT" // 2r1010, 16rff
	CHARLIT TokenType = "CHARLIT" // "a"
	IDENT   TokenType = "IDENT"   // x, sin

	// Bold (reserved) words
	BEGIN TokenType = "BEGIN"
	END   TokenType = "END"
	IF    TokenType = "IF"
	THEN  TokenType = "THEN"
	ELIF  TokenType = "ELIF"
	ELSE  TokenType = "ELSE"
	FI    TokenType = "FI"
	CASE  TokenType = "CASE"
	IN    TokenType = "IN"
	OUT   TokenType = "OUT"
	ESAC  TokenType = "ESAC"
	FOR   TokenType = "FOR"
	FROM  TokenType = "FROM"
	BY    TokenType = "BY"
	TO    TokenType = "TO"
	WHILE TokenType = "WHILE"
	DO    TokenType = "DO"
	OD    TokenType = "OD"
	PROC  TokenType = "PROC"
	MODE  TokenType = "MODE" // mode indicant: INT, REAL, BOOL, CHAR, BITS, COMPL, REF, VOID
	OP    TokenType = "OP"   // bold operator: ABS, ENTIER, ROUND, ODD, NOT, AND, OR, OVER, MOD, ELEM
	TRUE  TokenType = "TRUE"
	FALSE TokenType = "FALSE"
	NIL   TokenType = "NIL"
	SKIP  TokenType = "SKIP"

	// Symbols
	ASSIGN    TokenType = ":=" // becomes
	EQUALS    TokenType = "="  // identity declaration
	IS        TokenType = ":=:"
	ISNT      TokenType = ":/=:"
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	STAR      TokenType = "*"
	SLASH     TokenType = "/"
	UP        TokenType = "**"
	EQ        TokenType = "=="
	NE        TokenType = "/="
	LT        TokenType = "<"
	LE        TokenType = "<="
	GT        TokenType = ">"
	GE        TokenType = ">="
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACK    TokenType = "["
	RBRACK    TokenType = "]"
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	OF        TokenType = "OF"
	AT        TokenType = "@"
)

// Token is one lexical unit with its source position.
// Line and Column are 1-based; Column points at the first character.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

// Pos renders the token position for diagnostics.
func (t Token) Pos() (int, int) { return t.Line, t.Column }

var boldWords = map[string]TokenType{
	"BEGIN": BEGIN, "END": END,
	"IF": IF, "THEN": THEN, "ELIF": ELIF, "ELSE": ELSE, "FI": FI,
	"CASE": CASE, "IN": IN, "OUT": OUT, "ESAC": ESAC,
	"FOR": FOR, "FROM": FROM, "BY": BY, "TO": TO, "WHILE": WHILE,
	"DO": DO, "OD": OD,
	"PROC": PROC, "OF": OF,
	"TRUE": TRUE, "FALSE": FALSE, "NIL": NIL, "SKIP": SKIP,
	"IS": IS, "ISNT": ISNT,
}

var modeIndicants = map[string]bool{
	"INT": true, "REAL": true, "BOOL": true, "CHAR": true,
	"BITS": true, "COMPL": true, "REF": true, "VOID": true,
}

var boldOperators = map[string]bool{
	"ABS": true, "ENTIER": true, "ROUND": true, "ODD": true,
	"SIGN": true, "NOT": true, "AND": true, "OR": true,
	"OVER": true, "MOD": true, "ELEM": true, "RE": true, "IM": true,
	"UPB": true, "LWB": true,
}

// LookupBold classifies an upper-case word as a reserved word, a mode
// indicant, a bold operator, or a plain identifier.
func LookupBold(word string) TokenType {
	if tt, ok := boldWords[word]; ok {
		return tt
	}
	if modeIndicants[word] {
		return MODE
	}
	if boldOperators[word] {
		return OP
	}
	return IDENT
}
