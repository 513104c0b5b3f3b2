package syrec

import (
	"fmt"
	"strings"
)

//  Declarations

// VariableKind is the role of a declared signal.
type VariableKind int

const (
	In VariableKind = iota
	Out
	Inout
	Wire
	State
)

func (k VariableKind) String() string {
	switch k {
	case In:
		return "in"
	case Out:
		return "out"
	case Inout:
		return "inout"
	case Wire:
		return "wire"
	case State:
		return "state"
	}
	return fmt.Sprintf("VariableKind(%d)", int(k))
}

// IsParameterKind reports whether k may be used for a module parameter.
func (k VariableKind) IsParameterKind() bool {
	return k == In || k == Out || k == Inout
}

// Variable is a declared signal. A scalar has Dimensions [1].
//
//	inout a[2][3](4)
//	      ^ ^^^^^^ ^
//	      | |      Bitwidth: 4
//	      | Dimensions: [2 3]
//	      Name: "a"
type Variable struct {
	Name       string
	Kind       VariableKind
	Dimensions []uint
	Bitwidth   uint
	Line       int
}

// NumElements returns the product of all dimensions.
func (v *Variable) NumElements() uint {
	n := uint(1)
	for _, d := range v.Dimensions {
		n *= d
	}
	return n
}

// NumQubits returns the number of lines needed to store the variable.
func (v *Variable) NumQubits() uint {
	return v.NumElements() * v.Bitwidth
}

// IsScalar reports whether the variable is a single element.
func (v *Variable) IsScalar() bool {
	return len(v.Dimensions) == 1 && v.Dimensions[0] == 1
}

func (v *Variable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", v.Kind, v.Name)
	if !v.IsScalar() {
		for _, d := range v.Dimensions {
			fmt.Fprintf(&sb, "[%d]", d)
		}
	}
	fmt.Fprintf(&sb, "(%d)", v.Bitwidth)
	return sb.String()
}

// Module is a named unit of reversible code. Modules are referenced by
// pointer and never copied.
type Module struct {
	Name       string
	Parameters []*Variable
	Variables  []*Variable // wire and state locals
	Statements []Statement
	Line       int
}

// FindVariable looks a name up among parameters first, then locals.
func (m *Module) FindVariable(name string) *Variable {
	for _, v := range m.Parameters {
		if v.Name == name {
			return v
		}
	}
	for _, v := range m.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (m *Module) String() string {
	var sb strings.Builder
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = p.String()
	}
	fmt.Fprintf(&sb, "module %s(%s)\n", m.Name, strings.Join(params, ", "))
	for _, v := range m.Variables {
		fmt.Fprintf(&sb, "  %s\n", v)
	}
	writeStatements(&sb, m.Statements, 1)
	return sb.String()
}

// Program is the list of modules in declaration order.
type Program struct {
	Modules []*Module
}

// FindModules returns every module called name, in declaration order.
func (p *Program) FindModules(name string) []*Module {
	var out []*Module
	for _, m := range p.Modules {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

func (p *Program) String() string {
	parts := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		parts[i] = m.String()
	}
	return strings.Join(parts, "\n")
}

//  Expression nodes

// Expression is implemented by every node that produces a value on lines.
type Expression interface {
	exprNode()
	String() string
}

// NumericExpr is a compile-time number used as an operand.
//
//	a += (b + 3)
//	          ^  NumericExpr{Value: ConstantNumber{3}}
//
// Bitwidth 0 means the width is taken from the surrounding expression.
type NumericExpr struct {
	Value    Number
	Bitwidth uint
}

func (*NumericExpr) exprNode()        {}
func (n *NumericExpr) String() string { return n.Value.String() }

// VariableExpr reads a variable access.
type VariableExpr struct {
	Access *VariableAccess
}

func (*VariableExpr) exprNode()        {}
func (v *VariableExpr) String() string { return v.Access.String() }

// BinaryExpr represents Lhs Op Rhs.
//
//	(a + b)
//	 ^ ^ ^
//	 | | Rhs
//	 | Op: PLUS
//	 Lhs
type BinaryExpr struct {
	Op  TokenType
	Lhs Expression
	Rhs Expression
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op.Symbol(), b.Rhs)
}

// ShiftExpr shifts Lhs by a compile-time amount.
type ShiftExpr struct {
	Op     TokenType // SHL_OP or SHR_OP
	Lhs    Expression
	Amount Number
}

func (*ShiftExpr) exprNode() {}
func (s *ShiftExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", s.Lhs, s.Op.Symbol(), s.Amount)
}

// UnaryExpr is a bitwise (~) or logical (!) negation.
type UnaryExpr struct {
	Op      TokenType // TILDE or NOT
	Operand Expression
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("%s%s", u.Op.Symbol(), u.Operand) }

// BitRange selects bits Start..End (inclusive) of an element. End is nil
// for a single bit. Start > End selects the bits in descending order.
type BitRange struct {
	Start Number
	End   Number
}

// VariableAccess addresses a whole variable, an element, or a bit range.
//
//	a[1][$i].2:0
//	  ^^^^^^ ^^^
//	  |      Range{Start: 2, End: 0}
//	  Indexes
type VariableAccess struct {
	Var     *Variable
	Indexes []Expression
	Range   *BitRange
}

func (a *VariableAccess) String() string {
	var sb strings.Builder
	sb.WriteString(a.Var.Name)
	for _, idx := range a.Indexes {
		fmt.Fprintf(&sb, "[%s]", idx)
	}
	if a.Range != nil {
		fmt.Fprintf(&sb, ".%s", a.Range.Start)
		if a.Range.End != nil {
			fmt.Fprintf(&sb, ":%s", a.Range.End)
		}
	}
	return sb.String()
}

//  Statement nodes

// Statement is implemented by every statement kind. The set is closed;
// consumers switch over the concrete types exhaustively.
type Statement interface {
	stmtNode()
	Line() int
	String() string
}

// AssignStmt is Lhs op= Rhs with op one of ADD_ASSIGN, SUB_ASSIGN, XOR_ASSIGN.
type AssignStmt struct {
	Op         TokenType
	Lhs        *VariableAccess
	Rhs        Expression
	SourceLine int
}

func (*AssignStmt) stmtNode()   {}
func (s *AssignStmt) Line() int { return s.SourceLine }
func (s *AssignStmt) String() string {
	return fmt.Sprintf("%s %s %s", s.Lhs, s.Op.Symbol(), s.Rhs)
}

// UnaryStmt is ~= a, ++= a or --= a.
type UnaryStmt struct {
	Op         TokenType
	Target     *VariableAccess
	SourceLine int
}

func (*UnaryStmt) stmtNode()        {}
func (s *UnaryStmt) Line() int      { return s.SourceLine }
func (s *UnaryStmt) String() string { return fmt.Sprintf("%s %s", s.Op.Symbol(), s.Target) }

// SwapStmt is Lhs <=> Rhs.
type SwapStmt struct {
	Lhs        *VariableAccess
	Rhs        *VariableAccess
	SourceLine int
}

func (*SwapStmt) stmtNode()        {}
func (s *SwapStmt) Line() int      { return s.SourceLine }
func (s *SwapStmt) String() string { return fmt.Sprintf("%s <=> %s", s.Lhs, s.Rhs) }

// IfStmt is if Condition then Then else Else fi FiCondition. FiCondition
// must hold after the branches exactly when Condition held before them.
type IfStmt struct {
	Condition   Expression
	Then        []Statement
	Else        []Statement
	FiCondition Expression
	SourceLine  int
}

func (*IfStmt) stmtNode()   {}
func (s *IfStmt) Line() int { return s.SourceLine }
func (s *IfStmt) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if %s then\n", s.Condition)
	writeStatements(&sb, s.Then, 1)
	sb.WriteString("else\n")
	writeStatements(&sb, s.Else, 1)
	fi := "<none>"
	if s.FiCondition != nil {
		fi = s.FiCondition.String()
	}
	fmt.Fprintf(&sb, "fi %s", fi)
	return sb.String()
}

// ForStmt iterates LoopVariable over the half-open range [From, To) in
// steps of Step, descending when From > To. From defaults to 0 and Step to
// 1 when nil. Reversed visits the same values in the opposite order.
type ForStmt struct {
	LoopVariable string // empty when the loop is unnamed
	From         Number
	To           Number
	Step         Number
	NegativeStep bool
	Body         []Statement
	Reversed     bool
	SourceLine   int
}

func (*ForStmt) stmtNode()   {}
func (s *ForStmt) Line() int { return s.SourceLine }
func (s *ForStmt) String() string {
	var sb strings.Builder
	sb.WriteString("for ")
	if s.LoopVariable != "" {
		fmt.Fprintf(&sb, "$%s = ", s.LoopVariable)
	}
	if s.From != nil {
		fmt.Fprintf(&sb, "%s to ", s.From)
	}
	sb.WriteString(s.To.String())
	if s.Step != nil {
		sb.WriteString(" step ")
		if s.NegativeStep {
			sb.WriteString("-")
		}
		sb.WriteString(s.Step.String())
	}
	sb.WriteString(" do\n")
	writeStatements(&sb, s.Body, 1)
	sb.WriteString("rof")
	return sb.String()
}

// CallStmt inlines Target forward. Target is resolved by the parser; when
// it is nil the synthesizer resolves TargetName against the program.
type CallStmt struct {
	Target     *Module
	TargetName string
	Arguments  []string
	SourceLine int
}

func (*CallStmt) stmtNode()   {}
func (s *CallStmt) Line() int { return s.SourceLine }
func (s *CallStmt) String() string {
	return fmt.Sprintf("call %s(%s)", s.TargetName, strings.Join(s.Arguments, ", "))
}

// UncallStmt inlines the inverse of Target.
type UncallStmt struct {
	Target     *Module
	TargetName string
	Arguments  []string
	SourceLine int
}

func (*UncallStmt) stmtNode()   {}
func (s *UncallStmt) Line() int { return s.SourceLine }
func (s *UncallStmt) String() string {
	return fmt.Sprintf("uncall %s(%s)", s.TargetName, strings.Join(s.Arguments, ", "))
}

// SkipStmt does nothing.
type SkipStmt struct {
	SourceLine int
}

func (*SkipStmt) stmtNode()      {}
func (s *SkipStmt) Line() int    { return s.SourceLine }
func (*SkipStmt) String() string { return "skip" }

func writeStatements(sb *strings.Builder, stmts []Statement, depth int) {
	indent := strings.Repeat("  ", depth)
	for i, s := range stmts {
		lines := strings.Split(s.String(), "\n")
		for j, l := range lines {
			sb.WriteString(indent)
			sb.WriteString(l)
			if j == len(lines)-1 && i < len(stmts)-1 {
				sb.WriteString(";")
			}
			sb.WriteString("\n")
		}
	}
}
