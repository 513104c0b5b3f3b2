package syrec

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable / module name
	INTEGER    // decimal integer literal

	// Keywords
	MODULE // "module"
	IN     // "in"
	OUT    // "out"
	INOUT  // "inout"
	WIRE   // "wire"
	STATE  // "state"
	CALL   // "call"
	UNCALL // "uncall"
	FOR    // "for"
	TO     // "to"
	STEP   // "step"
	DO     // "do"
	ROF    // "rof"
	IF     // "if"
	THEN   // "then"
	ELSE   // "else"
	FI     // "fi"
	SKIP   // "skip"

	// Paired delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	DOT       // .
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	DOLLAR    // $ (loop variable prefix)
	HASH      // # (bitwidth of a signal)

	// Arithmetic and bitwise operators
	PLUS        // +
	MINUS       // -
	STAR        // *
	SLASH       // /
	PERCENT     // %
	AND         // &
	PIPE        // |
	CARET       // ^
	TILDE       // ~
	NOT         // !
	AND_LOGICAL // &&
	OR_LOGICAL  // ||
	SHL_OP      // <<
	SHR_OP      // >>

	// Relational operators (= doubles as the loop variable initialiser)
	ASSIGN     // =
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=

	// Reversible assignments
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	XOR_ASSIGN // ^=
	INC_ASSIGN // ++=
	DEC_ASSIGN // --=
	NEG_ASSIGN // ~=
	SWAP       // <=>
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:         "EOF",
	IDENTIFIER:  "IDENTIFIER",
	INTEGER:     "INTEGER",
	MODULE:      "MODULE",
	IN:          "IN",
	OUT:         "OUT",
	INOUT:       "INOUT",
	WIRE:        "WIRE",
	STATE:       "STATE",
	CALL:        "CALL",
	UNCALL:      "UNCALL",
	FOR:         "FOR",
	TO:          "TO",
	STEP:        "STEP",
	DO:          "DO",
	ROF:         "ROF",
	IF:          "IF",
	THEN:        "THEN",
	ELSE:        "ELSE",
	FI:          "FI",
	SKIP:        "SKIP",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACKET:    "LBRACKET",
	RBRACKET:    "RBRACKET",
	DOT:         "DOT",
	SEMICOLON:   "SEMICOLON",
	COMMA:       "COMMA",
	COLON:       "COLON",
	DOLLAR:      "DOLLAR",
	HASH:        "HASH",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	SLASH:       "SLASH",
	PERCENT:     "PERCENT",
	AND:         "AND",
	PIPE:        "PIPE",
	CARET:       "CARET",
	TILDE:       "TILDE",
	NOT:         "NOT",
	AND_LOGICAL: "AND_LOGICAL",
	OR_LOGICAL:  "OR_LOGICAL",
	SHL_OP:      "SHL_OP",
	SHR_OP:      "SHR_OP",
	ASSIGN:      "ASSIGN",
	NOT_EQ:      "NOT_EQ",
	LESS:        "LESS",
	GREATER:     "GREATER",
	LESS_EQ:     "LESS_EQ",
	GREATER_EQ:  "GREATER_EQ",
	ADD_ASSIGN:  "ADD_ASSIGN",
	SUB_ASSIGN:  "SUB_ASSIGN",
	XOR_ASSIGN:  "XOR_ASSIGN",
	INC_ASSIGN:  "INC_ASSIGN",
	DEC_ASSIGN:  "DEC_ASSIGN",
	NEG_ASSIGN:  "NEG_ASSIGN",
	SWAP:        "SWAP",
}

// operatorText is the source spelling used when printing AST nodes.
var operatorText = map[TokenType]string{
	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	SLASH:       "/",
	PERCENT:     "%",
	AND:         "&",
	PIPE:        "|",
	CARET:       "^",
	TILDE:       "~",
	NOT:         "!",
	AND_LOGICAL: "&&",
	OR_LOGICAL:  "||",
	SHL_OP:      "<<",
	SHR_OP:      ">>",
	ASSIGN:      "=",
	NOT_EQ:      "!=",
	LESS:        "<",
	GREATER:     ">",
	LESS_EQ:     "<=",
	GREATER_EQ:  ">=",
	ADD_ASSIGN:  "+=",
	SUB_ASSIGN:  "-=",
	XOR_ASSIGN:  "^=",
	INC_ASSIGN:  "++=",
	DEC_ASSIGN:  "--=",
	NEG_ASSIGN:  "~=",
	SWAP:        "<=>",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Symbol returns the source spelling of an operator token.
func (tt TokenType) Symbol() string {
	if s, ok := operatorText[tt]; ok {
		return s
	}
	return tt.String()
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
