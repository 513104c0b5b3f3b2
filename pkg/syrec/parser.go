package syrec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultBitwidth is the width of a declaration without an explicit (n).
const DefaultBitwidth = 16

// Options tune the parser.
type Options struct {
	// DefaultBitwidth replaces DefaultBitwidth when non-zero.
	DefaultBitwidth uint
}

func (o Options) bitwidth() uint {
	if o.DefaultBitwidth == 0 {
		return DefaultBitwidth
	}
	return o.DefaultBitwidth
}

// ParseError reports a syntax or declaration error with its source line.
type ParseError struct {
	Line    int
	Msg     string
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s\n  |> %s", e.Line, e.Msg, e.Snippet)
}

// Parser consumes the flat token slice produced by the Lexer and builds a Program.
//
// Grammar:
//
//	program    = module* EOF
//	module     = "module" IDENTIFIER "(" [param ("," param)*] ")" local* stmtlist
//	param      = ("in" | "out" | "inout") decl
//	local      = ("wire" | "state") decl ("," decl)*
//	decl       = IDENTIFIER ("[" INTEGER "]")* ("(" INTEGER ")")?
//	stmtlist   = stmt (";" stmt)*
//	stmt       = call | for | if | unary | assign | swap | "skip"
//	call       = ("call" | "uncall") IDENTIFIER "(" [IDENTIFIER ("," IDENTIFIER)*] ")"
//	for        = "for" [["$" IDENTIFIER "="] number "to"] number ["step" ["-"] number] "do" stmtlist "rof"
//	if         = "if" expression "then" stmtlist ["else" stmtlist] "fi" expression
//	unary      = ("~=" | "++=" | "--=") signal
//	assign     = signal ("^=" | "+=" | "-=") expression
//	swap       = signal "<=>" signal
//	signal     = IDENTIFIER ("[" expression "]")* ["." number [":" number]]
//	number     = INTEGER | "#" IDENTIFIER | "$" IDENTIFIER | "(" number op number ")"
//	expression = logical_or
//	logical_or = logical_and ("||" logical_and)*
//	logical_and = bitwise_or ("&&" bitwise_or)*
//	bitwise_or = bitwise_xor ("|" bitwise_xor)*
//	bitwise_xor = bitwise_and ("^" bitwise_and)*
//	bitwise_and = equality ("&" equality)*
//	equality   = relational (("=" | "!=") relational)*
//	relational = shift (("<" | ">" | "<=" | ">=") shift)*
//	shift      = additive (("<<" | ">>") number)*
//	additive   = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = unary (("*" | "/" | "%") unary)*
//	unary      = ("~" | "!") unary | primary
//	primary    = number | signal | "(" expression ")"
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
	opts        Options

	program  *Program
	module   *Module
	loopVars []string
	calls    []pendingCall
}

// pendingCall is a call or uncall whose target is resolved once every
// module has been declared.
type pendingCall struct {
	caller *Module
	tok    Token
	name   string
	args   []string
	bind   func(*Module)
}

func NewParser(tokens []Token, rawSource string, opts Options) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n"), opts: opts}
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return &ParseError{Line: tok.Line, Msg: msg, Snippet: snippet}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

// Parse builds a Program from tokens. src is only used for error snippets.
func Parse(tokens []Token, src string, opts Options) (*Program, error) {
	return NewParser(tokens, src, opts).ParseProgram()
}

// ParseSource lexes and parses src.
func ParseSource(src string, opts Options) (*Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, errors.Wrap(err, "lex")
	}
	return Parse(tokens, src, opts)
}

// ParseProgram parses every module, then resolves call targets.
func (p *Parser) ParseProgram() (*Program, error) {
	p.program = &Program{}
	for p.peek().Type != EOF {
		m, err := p.parseModule()
		if err != nil {
			return nil, err
		}
		p.program.Modules = append(p.program.Modules, m)
	}
	for _, c := range p.calls {
		if err := p.resolveCall(c); err != nil {
			return nil, err
		}
	}
	return p.program, nil
}

// -- declarations --------------------------------------------------------------

func (p *Parser) parseModule() (*Module, error) {
	tok, err := p.expect(MODULE)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	m := &Module{Name: name.Lexeme, Line: tok.Line}
	p.module = m
	defer func() { p.module = nil }()

	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	if p.peek().Type != RPAREN {
		for {
			kindTok := p.advance()
			var kind VariableKind
			switch kindTok.Type {
			case IN:
				kind = In
			case OUT:
				kind = Out
			case INOUT:
				kind = Inout
			default:
				return nil, p.fmtError(kindTok, "expected parameter kind in, out or inout, got %q", kindTok.Lexeme)
			}
			v, err := p.parseDecl(kind)
			if err != nil {
				return nil, err
			}
			m.Parameters = append(m.Parameters, v)
			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	for p.peek().Type == WIRE || p.peek().Type == STATE {
		kind := Wire
		if p.advance().Type == STATE {
			kind = State
		}
		for {
			v, err := p.parseDecl(kind)
			if err != nil {
				return nil, err
			}
			m.Variables = append(m.Variables, v)
			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}

	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	m.Statements = stmts
	return m, nil
}

func (p *Parser) parseDecl(kind VariableKind) (*Variable, error) {
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if p.module.FindVariable(name.Lexeme) != nil {
		return nil, p.fmtError(name, "duplicate declaration of %q in module %s", name.Lexeme, p.module.Name)
	}

	v := &Variable{Name: name.Lexeme, Kind: kind, Bitwidth: p.opts.bitwidth(), Line: name.Line}
	for p.peek().Type == LBRACKET {
		p.advance()
		n, err := p.parsePositiveInt("dimension")
		if err != nil {
			return nil, err
		}
		v.Dimensions = append(v.Dimensions, n)
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
	}
	if len(v.Dimensions) == 0 {
		v.Dimensions = []uint{1}
	}
	if p.peek().Type == LPAREN {
		p.advance()
		n, err := p.parsePositiveInt("bitwidth")
		if err != nil {
			return nil, err
		}
		v.Bitwidth = n
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (p *Parser) parsePositiveInt(what string) (uint, error) {
	tok, err := p.expect(INTEGER)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(tok.Lexeme, 10, 32)
	if err != nil || n == 0 {
		return 0, p.fmtError(tok, "%s must be a positive integer, got %q", what, tok.Lexeme)
	}
	return uint(n), nil
}

// -- statements ----------------------------------------------------------------

func isStatementListEnd(tt TokenType) bool {
	switch tt {
	case EOF, MODULE, ELSE, FI, ROF:
		return true
	}
	return false
}

func (p *Parser) parseStatementList() ([]Statement, error) {
	var stmts []Statement
	for {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)

		if p.peek().Type != SEMICOLON {
			if isStatementListEnd(p.peek().Type) {
				return stmts, nil
			}
			tok := p.peek()
			return nil, p.fmtError(tok, "expected ';' between statements, got %q", tok.Lexeme)
		}
		p.advance()
		if isStatementListEnd(p.peek().Type) {
			return stmts, nil
		}
	}
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.peek()
	switch tok.Type {
	case CALL, UNCALL:
		return p.parseCall()
	case FOR:
		return p.parseFor()
	case IF:
		return p.parseIf()
	case SKIP:
		p.advance()
		return &SkipStmt{SourceLine: tok.Line}, nil
	case INC_ASSIGN, DEC_ASSIGN, NEG_ASSIGN:
		p.advance()
		target, err := p.parseSignal()
		if err != nil {
			return nil, err
		}
		if err := p.checkAssignable(tok, target); err != nil {
			return nil, err
		}
		return &UnaryStmt{Op: tok.Type, Target: target, SourceLine: tok.Line}, nil
	case IDENTIFIER:
		lhs, err := p.parseSignal()
		if err != nil {
			return nil, err
		}
		opTok := p.advance()
		switch opTok.Type {
		case ADD_ASSIGN, SUB_ASSIGN, XOR_ASSIGN:
			if err := p.checkAssignable(tok, lhs); err != nil {
				return nil, err
			}
			rhs, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if ReadsVariable(rhs, lhs.Var) {
				return nil, p.fmtError(tok, "%q is assigned and read in the same statement", lhs.Var.Name)
			}
			return &AssignStmt{Op: opTok.Type, Lhs: lhs, Rhs: rhs, SourceLine: tok.Line}, nil
		case SWAP:
			rhs, err := p.parseSignal()
			if err != nil {
				return nil, err
			}
			if err := p.checkAssignable(tok, lhs); err != nil {
				return nil, err
			}
			if err := p.checkAssignable(tok, rhs); err != nil {
				return nil, err
			}
			return &SwapStmt{Lhs: lhs, Rhs: rhs, SourceLine: tok.Line}, nil
		default:
			return nil, p.fmtError(opTok, "expected assignment or swap after %s, got %q", lhs, opTok.Lexeme)
		}
	}
	return nil, p.fmtError(tok, "expected statement, got %s (%q)", tok.Type, tok.Lexeme)
}

func (p *Parser) checkAssignable(tok Token, a *VariableAccess) error {
	if a.Var.Kind == In {
		return p.fmtError(tok, "cannot modify input parameter %q", a.Var.Name)
	}
	return nil
}

func (p *Parser) parseCall() (Statement, error) {
	tok := p.advance()
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var args []string
	seen := make(map[string]bool)
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			if p.module.FindVariable(arg.Lexeme) == nil {
				return nil, p.fmtError(arg, "unknown variable %q", arg.Lexeme)
			}
			if seen[arg.Lexeme] {
				return nil, p.fmtError(arg, "variable %q passed more than once", arg.Lexeme)
			}
			seen[arg.Lexeme] = true
			args = append(args, arg.Lexeme)
			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	pc := pendingCall{caller: p.module, tok: tok, name: name.Lexeme, args: args}
	var stmt Statement
	if tok.Type == CALL {
		s := &CallStmt{TargetName: name.Lexeme, Arguments: args, SourceLine: tok.Line}
		pc.bind = func(m *Module) { s.Target = m }
		stmt = s
	} else {
		s := &UncallStmt{TargetName: name.Lexeme, Arguments: args, SourceLine: tok.Line}
		pc.bind = func(m *Module) { s.Target = m }
		stmt = s
	}
	p.calls = append(p.calls, pc)
	return stmt, nil
}

// resolveCall picks the unique module whose signature accepts the arguments.
func (p *Parser) resolveCall(c pendingCall) error {
	args := make([]*Variable, len(c.args))
	for i, name := range c.args {
		args[i] = c.caller.FindVariable(name)
	}

	candidates := p.program.FindModules(c.name)
	if len(candidates) == 0 {
		return p.fmtError(c.tok, "call to undeclared module %q", c.name)
	}
	var matches []*Module
	for _, m := range candidates {
		if SignatureAccepts(m, args) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return p.fmtError(c.tok, "no module %q accepts arguments (%s)", c.name, strings.Join(c.args, ", "))
	case 1:
		c.bind(matches[0])
		return nil
	}
	return p.fmtError(c.tok, "call to %q is ambiguous between %d modules", c.name, len(matches))
}

// SignatureAccepts reports whether m can be called with args: same arity,
// equal dimensions and bitwidths, and input arguments only bound to input
// parameters.
func SignatureAccepts(m *Module, args []*Variable) bool {
	if len(m.Parameters) != len(args) {
		return false
	}
	for i, param := range m.Parameters {
		arg := args[i]
		if arg == nil || arg.Bitwidth != param.Bitwidth || len(arg.Dimensions) != len(param.Dimensions) {
			return false
		}
		for j := range arg.Dimensions {
			if arg.Dimensions[j] != param.Dimensions[j] {
				return false
			}
		}
		if arg.Kind == In && param.Kind != In {
			return false
		}
	}
	return true
}

func (p *Parser) parseFor() (Statement, error) {
	tok := p.advance()
	s := &ForStmt{SourceLine: tok.Line}

	if p.peek().Type == DOLLAR {
		p.advance()
		name, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		for _, lv := range p.loopVars {
			if lv == name.Lexeme {
				return nil, p.fmtError(name, "loop variable $%s already in use", name.Lexeme)
			}
		}
		s.LoopVariable = name.Lexeme
		if _, err := p.expect(ASSIGN); err != nil {
			return nil, err
		}
		if s.From, err = p.parseNumber(); err != nil {
			return nil, err
		}
		if _, err := p.expect(TO); err != nil {
			return nil, err
		}
		if s.To, err = p.parseNumber(); err != nil {
			return nil, err
		}
	} else {
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if p.peek().Type == TO {
			p.advance()
			s.From = n
			if s.To, err = p.parseNumber(); err != nil {
				return nil, err
			}
		} else {
			s.To = n
		}
	}

	if p.peek().Type == STEP {
		p.advance()
		if p.peek().Type == MINUS {
			p.advance()
			s.NegativeStep = true
		}
		step, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		s.Step = step
	}
	if _, err := p.expect(DO); err != nil {
		return nil, err
	}

	if s.LoopVariable != "" {
		p.loopVars = append(p.loopVars, s.LoopVariable)
	}
	body, err := p.parseStatementList()
	if s.LoopVariable != "" {
		p.loopVars = p.loopVars[:len(p.loopVars)-1]
	}
	if err != nil {
		return nil, err
	}
	s.Body = body
	if _, err := p.expect(ROF); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseIf() (Statement, error) {
	tok := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(THEN); err != nil {
		return nil, err
	}
	then, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	var els []Statement
	if p.peek().Type == ELSE {
		p.advance()
		if els, err = p.parseStatementList(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(FI); err != nil {
		return nil, err
	}
	fi, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &IfStmt{Condition: cond, Then: then, Else: els, FiCondition: fi, SourceLine: tok.Line}, nil
}

// -- signals and numbers -------------------------------------------------------

func (p *Parser) parseSignal() (*VariableAccess, error) {
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	v := p.module.FindVariable(name.Lexeme)
	if v == nil {
		return nil, p.fmtError(name, "unknown variable %q", name.Lexeme)
	}
	a := &VariableAccess{Var: v}

	for p.peek().Type == LBRACKET {
		open := p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if n, ok := idx.(*NumericExpr); ok {
			if c, ok := n.Value.(*ConstantNumber); ok && len(a.Indexes) < len(v.Dimensions) && c.Value >= uint64(v.Dimensions[len(a.Indexes)]) {
				return nil, p.fmtError(open, "index %d out of range for dimension %d of %q (size %d)",
					c.Value, len(a.Indexes), v.Name, v.Dimensions[len(a.Indexes)])
			}
		}
		a.Indexes = append(a.Indexes, idx)
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
	}
	if len(a.Indexes) > 0 && len(a.Indexes) != len(v.Dimensions) {
		return nil, p.fmtError(name, "%q has %d dimensions but is accessed with %d indices", v.Name, len(v.Dimensions), len(a.Indexes))
	}
	if len(a.Indexes) == 0 && !v.IsScalar() {
		return nil, p.fmtError(name, "%q has %d dimensions and must be indexed", v.Name, len(v.Dimensions))
	}

	if p.peek().Type == DOT {
		p.advance()
		r := &BitRange{}
		if r.Start, err = p.parseBitIndex(v); err != nil {
			return nil, err
		}
		if p.peek().Type == COLON {
			p.advance()
			if r.End, err = p.parseBitIndex(v); err != nil {
				return nil, err
			}
		}
		a.Range = r
	}
	return a, nil
}

func (p *Parser) parseBitIndex(v *Variable) (Number, error) {
	tok := p.peek()
	n, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	if c, ok := n.(*ConstantNumber); ok && c.Value >= uint64(v.Bitwidth) {
		return nil, p.fmtError(tok, "bit %d out of range for %q of width %d", c.Value, v.Name, v.Bitwidth)
	}
	return n, nil
}

func (p *Parser) parseNumber() (Number, error) {
	tok := p.advance()
	switch tok.Type {
	case INTEGER:
		n, err := strconv.ParseUint(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.fmtError(tok, "invalid integer %q", tok.Lexeme)
		}
		return &ConstantNumber{Value: n}, nil
	case HASH:
		name, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		v := p.module.FindVariable(name.Lexeme)
		if v == nil {
			return nil, p.fmtError(name, "unknown variable %q", name.Lexeme)
		}
		return &BitwidthOf{Var: v}, nil
	case DOLLAR:
		name, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		for _, lv := range p.loopVars {
			if lv == name.Lexeme {
				return &LoopVariable{Name: name.Lexeme}, nil
			}
		}
		return nil, p.fmtError(name, "unknown loop variable $%s", name.Lexeme)
	case LPAREN:
		lhs, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		opTok := p.advance()
		switch opTok.Type {
		case PLUS, MINUS, STAR, SLASH, PERCENT:
		default:
			return nil, p.fmtError(opTok, "expected number operator, got %q", opTok.Lexeme)
		}
		rhs, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &NumberExpr{Op: opTok.Type, Lhs: lhs, Rhs: rhs}, nil
	}
	return nil, p.fmtError(tok, "expected number, got %s (%q)", tok.Type, tok.Lexeme)
}

// -- expressions ---------------------------------------------------------------

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expression, error) {
	return p.parseLogicalOr()
}

// parseBinaryLevel parses next (op next)* for the given operators.
func (p *Parser) parseBinaryLevel(next func() (Expression, error), ops ...TokenType) (Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tt := p.peek().Type
		matched := false
		for _, op := range ops {
			if tt == op {
				matched = true
				break
			}
		}
		if !matched {
			return expr, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: tt, Lhs: expr, Rhs: right}
	}
}

// parseLogicalOr handles ||
func (p *Parser) parseLogicalOr() (Expression, error) {
	return p.parseBinaryLevel(p.parseLogicalAnd, OR_LOGICAL)
}

// parseLogicalAnd handles &&
func (p *Parser) parseLogicalAnd() (Expression, error) {
	return p.parseBinaryLevel(p.parseBitwiseOr, AND_LOGICAL)
}

func (p *Parser) parseBitwiseOr() (Expression, error) {
	return p.parseBinaryLevel(p.parseBitwiseXor, PIPE)
}

func (p *Parser) parseBitwiseXor() (Expression, error) {
	return p.parseBinaryLevel(p.parseBitwiseAnd, CARET)
}

func (p *Parser) parseBitwiseAnd() (Expression, error) {
	return p.parseBinaryLevel(p.parseEquality, AND)
}

// parseEquality handles = and !=
func (p *Parser) parseEquality() (Expression, error) {
	return p.parseBinaryLevel(p.parseRelational, ASSIGN, NOT_EQ)
}

func (p *Parser) parseRelational() (Expression, error) {
	return p.parseBinaryLevel(p.parseShift, LESS, GREATER, LESS_EQ, GREATER_EQ)
}

// parseShift handles << and >>; the shift amount is always a number.
func (p *Parser) parseShift() (Expression, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == SHL_OP || p.peek().Type == SHR_OP {
		op := p.advance().Type
		amount, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		expr = &ShiftExpr{Op: op, Lhs: expr, Amount: amount}
	}
	return expr, nil
}

func (p *Parser) parseAdditive() (Expression, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, PLUS, MINUS)
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	return p.parseBinaryLevel(p.parseUnary, STAR, SLASH, PERCENT)
}

// parseUnary handles prefix ~ and !
func (p *Parser) parseUnary() (Expression, error) {
	tt := p.peek().Type
	if tt == TILDE || tt == NOT {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: tt, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER, HASH, DOLLAR:
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return &NumericExpr{Value: n}, nil
	case IDENTIFIER:
		a, err := p.parseSignal()
		if err != nil {
			return nil, err
		}
		return &VariableExpr{Access: a}, nil
	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, p.fmtError(tok, "expected expression, got %s (%q)", tok.Type, tok.Lexeme)
}

// ReadsVariable reports whether expr reads v anywhere, including inside
// index expressions.
func ReadsVariable(expr Expression, v *Variable) bool {
	switch e := expr.(type) {
	case *VariableExpr:
		if e.Access.Var == v {
			return true
		}
		for _, idx := range e.Access.Indexes {
			if ReadsVariable(idx, v) {
				return true
			}
		}
	case *BinaryExpr:
		return ReadsVariable(e.Lhs, v) || ReadsVariable(e.Rhs, v)
	case *ShiftExpr:
		return ReadsVariable(e.Lhs, v)
	case *UnaryExpr:
		return ReadsVariable(e.Operand, v)
	}
	return false
}
