package syrec

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnknownLoopVariable = errors.New("unknown loop variable")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrNegativeNumber      = errors.New("number evaluates to a negative value")
)

// LoopValues maps loop variable names to their current iteration value.
type LoopValues map[string]uint64

// Number is a compile-time integer: a literal, a loop variable, the
// bitwidth of a signal, or an arithmetic combination of those.
type Number interface {
	numberNode()
	String() string
	// Evaluate computes the value under the given loop bindings.
	Evaluate(loop LoopValues) (uint64, error)
}

// ConstantNumber is an integer literal.
type ConstantNumber struct {
	Value uint64
}

func (*ConstantNumber) numberNode()      {}
func (n *ConstantNumber) String() string { return fmt.Sprintf("%d", n.Value) }
func (n *ConstantNumber) Evaluate(LoopValues) (uint64, error) {
	return n.Value, nil
}

// LoopVariable reads the current value of $Name.
type LoopVariable struct {
	Name string
}

func (*LoopVariable) numberNode()      {}
func (n *LoopVariable) String() string { return "$" + n.Name }
func (n *LoopVariable) Evaluate(loop LoopValues) (uint64, error) {
	v, ok := loop[n.Name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownLoopVariable, "$%s", n.Name)
	}
	return v, nil
}

// BitwidthOf is #name, the declared bitwidth of a signal.
type BitwidthOf struct {
	Var *Variable
}

func (*BitwidthOf) numberNode()      {}
func (n *BitwidthOf) String() string { return "#" + n.Var.Name }
func (n *BitwidthOf) Evaluate(LoopValues) (uint64, error) {
	return uint64(n.Var.Bitwidth), nil
}

// NumberExpr is (Lhs Op Rhs) over numbers with Op one of PLUS, MINUS,
// STAR, SLASH, PERCENT.
type NumberExpr struct {
	Op  TokenType
	Lhs Number
	Rhs Number
}

func (*NumberExpr) numberNode() {}
func (n *NumberExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Lhs, n.Op.Symbol(), n.Rhs)
}

func (n *NumberExpr) Evaluate(loop LoopValues) (uint64, error) {
	l, err := n.Lhs.Evaluate(loop)
	if err != nil {
		return 0, err
	}
	r, err := n.Rhs.Evaluate(loop)
	if err != nil {
		return 0, err
	}
	return ApplyNumberOp(n.Op, l, r)
}

// ApplyNumberOp folds one arithmetic operator over unsigned operands.
func ApplyNumberOp(op TokenType, l, r uint64) (uint64, error) {
	switch op {
	case PLUS:
		return l + r, nil
	case MINUS:
		if r > l {
			return 0, errors.Wrapf(ErrNegativeNumber, "%d - %d", l, r)
		}
		return l - r, nil
	case STAR:
		return l * r, nil
	case SLASH:
		if r == 0 {
			return 0, errors.Wrapf(ErrDivisionByZero, "%d / 0", l)
		}
		return l / r, nil
	case PERCENT:
		if r == 0 {
			return 0, errors.Wrapf(ErrDivisionByZero, "%d %% 0", l)
		}
		return l % r, nil
	}
	return 0, errors.Errorf("operator %s is not valid in a number", op)
}
