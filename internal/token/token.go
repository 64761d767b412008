package token

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	// Literals
	INT
	FLOAT
	STRING
	IDENT

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	CARET    // ^
	BANG     // !

	EQ  // ==
	NEQ // !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	COLON     // :
	SEMICOLON // ;
	NEWLINE

	// Keywords
	LET
	TRUE
	FALSE
	NIL
)

var tokenNames = map[TokenType]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	INT:       "INT",
	FLOAT:     "FLOAT",
	STRING:    "STRING",
	IDENT:     "IDENT",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	CARET:     "^",
	BANG:      "!",
	EQ:        "==",
	NEQ:       "!=",
	LT:        "<",
	LTE:       "<=",
	GT:        ">",
	GTE:       ">=",
	LPAREN:    "(",
	RPAREN:    ")",
	COLON:     ":",
	SEMICOLON: ";",
	NEWLINE:   "NEWLINE",
	LET:       "let",
	TRUE:      "true",
	FALSE:     "false",
	NIL:       "nil",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"let":   LET,
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// Token is a single lexeme with its source position.
// Line and Column point at the first character of the lexeme.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	end := t.Column
	if n := len(t.Lexeme); n > 1 {
		end += n - 1
	}
	return Span{Line: t.Line, StartColumn: t.Column, EndColumn: end}
}
