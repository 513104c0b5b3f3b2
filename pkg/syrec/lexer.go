package syrec

import (
	"unicode"

	"github.com/pkg/errors"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"module": MODULE,
	"in":     IN,
	"out":    OUT,
	"inout":  INOUT,
	"wire":   WIRE,
	"state":  STATE,
	"call":   CALL,
	"uncall": UNCALL,
	"for":    FOR,
	"to":     TO,
	"step":   STEP,
	"do":     DO,
	"rof":    ROF,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"fi":     FI,
	"skip":   SKIP,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peekAt returns the rune offset positions ahead of the current one.
func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything up to end-of-line.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return errors.Errorf("unterminated block comment (opened on line %d)", startLine)
}

// scanIdent collects a full identifier or keyword token.
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanInt collects a decimal integer literal.
func (l *Lexer) scanInt() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	return Token{Type: INTEGER, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// match consumes want if it is the next rune.
func (l *Lexer) match(want rune) bool {
	if l.peek() != want {
		return false
	}
	l.advance()
	return true
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peekAt(1) == '/' {
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peekAt(1) == '*' {
			l.advance()
			l.advance()
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent(), nil
	}
	if unicode.IsDigit(ch) {
		return l.scanInt(), nil
	}

	l.advance()
	switch ch {
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case '[':
		return Token{LBRACKET, "[", line}, nil
	case ']':
		return Token{RBRACKET, "]", line}, nil
	case '.':
		return Token{DOT, ".", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil
	case ',':
		return Token{COMMA, ",", line}, nil
	case ':':
		return Token{COLON, ":", line}, nil
	case '$':
		return Token{DOLLAR, "$", line}, nil
	case '#':
		return Token{HASH, "#", line}, nil

	case '+':
		if l.peek() == '+' && l.peekAt(1) == '=' {
			l.advance()
			l.advance()
			return Token{INC_ASSIGN, "++=", line}, nil
		}
		if l.match('=') {
			return Token{ADD_ASSIGN, "+=", line}, nil
		}
		return Token{PLUS, "+", line}, nil
	case '-':
		if l.peek() == '-' && l.peekAt(1) == '=' {
			l.advance()
			l.advance()
			return Token{DEC_ASSIGN, "--=", line}, nil
		}
		if l.match('=') {
			return Token{SUB_ASSIGN, "-=", line}, nil
		}
		return Token{MINUS, "-", line}, nil
	case '^':
		if l.match('=') {
			return Token{XOR_ASSIGN, "^=", line}, nil
		}
		return Token{CARET, "^", line}, nil
	case '~':
		if l.match('=') {
			return Token{NEG_ASSIGN, "~=", line}, nil
		}
		return Token{TILDE, "~", line}, nil
	case '*':
		return Token{STAR, "*", line}, nil
	case '/':
		return Token{SLASH, "/", line}, nil
	case '%':
		return Token{PERCENT, "%", line}, nil
	case '&':
		if l.match('&') {
			return Token{AND_LOGICAL, "&&", line}, nil
		}
		return Token{AND, "&", line}, nil
	case '|':
		if l.match('|') {
			return Token{OR_LOGICAL, "||", line}, nil
		}
		return Token{PIPE, "|", line}, nil
	case '!':
		if l.match('=') {
			return Token{NOT_EQ, "!=", line}, nil
		}
		return Token{NOT, "!", line}, nil
	case '<':
		if l.peek() == '=' && l.peekAt(1) == '>' {
			l.advance()
			l.advance()
			return Token{SWAP, "<=>", line}, nil
		}
		if l.match('=') {
			return Token{LESS_EQ, "<=", line}, nil
		}
		if l.match('<') {
			return Token{SHL_OP, "<<", line}, nil
		}
		return Token{LESS, "<", line}, nil
	case '>':
		if l.match('=') {
			return Token{GREATER_EQ, ">=", line}, nil
		}
		if l.match('>') {
			return Token{SHR_OP, ">>", line}, nil
		}
		return Token{GREATER, ">", line}, nil
	case '=':
		return Token{ASSIGN, "=", line}, nil
	default:
		return Token{}, errors.Errorf("unexpected character %q on line %d", ch, line)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first illegal character or unterminated comment.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
