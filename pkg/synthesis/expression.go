package synthesis

import (
	"gosyrec/pkg/circuit"
	"gosyrec/pkg/syrec"

	"github.com/pkg/errors"
)

// operand is the result of synthesizing an expression. Owned lines are
// ancillae of the current statement; the others alias a variable, which
// is recorded in alias.
type operand struct {
	lines []circuit.Qubit
	owned bool
	alias *syrec.Variable
}

func boolValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// isPredicate reports whether op yields a single bit.
func isPredicate(op syrec.TokenType) bool {
	switch op {
	case syrec.AND_LOGICAL, syrec.OR_LOGICAL,
		syrec.ASSIGN, syrec.NOT_EQ, syrec.LESS, syrec.GREATER, syrec.LESS_EQ, syrec.GREATER_EQ:
		return true
	}
	return false
}

// fold evaluates e at compile time. ok is false when e reads a variable.
// Arithmetic wraps at 64 bits; the caller truncates the final value.
func (r *run) fold(e syrec.Expression) (uint64, bool, error) {
	switch e := e.(type) {
	case *syrec.NumericExpr:
		v, err := e.Value.Evaluate(r.loops)
		if err != nil {
			return 0, false, err
		}
		return v, true, nil

	case *syrec.VariableExpr:
		return 0, false, nil

	case *syrec.UnaryExpr:
		v, ok, err := r.fold(e.Operand)
		if err != nil || !ok {
			return 0, false, err
		}
		if e.Op == syrec.NOT {
			return boolValue(v == 0), true, nil
		}
		return ^v, true, nil

	case *syrec.ShiftExpr:
		v, ok, err := r.fold(e.Lhs)
		if err != nil || !ok {
			return 0, false, err
		}
		amount, err := e.Amount.Evaluate(r.loops)
		if err != nil {
			return 0, false, err
		}
		if amount >= 64 {
			return 0, true, nil
		}
		if e.Op == syrec.SHL_OP {
			return v << amount, true, nil
		}
		return v >> amount, true, nil

	case *syrec.BinaryExpr:
		l, lok, err := r.fold(e.Lhs)
		if err != nil {
			return 0, false, err
		}
		rv, rok, err := r.fold(e.Rhs)
		if err != nil {
			return 0, false, err
		}
		if !lok || !rok {
			return 0, false, nil
		}
		v, err := foldBinary(e.Op, l, rv)
		return v, err == nil, err
	}
	return 0, false, errors.Errorf("unknown expression %T", e)
}

func foldBinary(op syrec.TokenType, l, r uint64) (uint64, error) {
	switch op {
	case syrec.PLUS:
		return l + r, nil
	case syrec.MINUS:
		return l - r, nil
	case syrec.STAR:
		return l * r, nil
	case syrec.SLASH, syrec.PERCENT:
		if r == 0 {
			return 0, errors.Wrapf(syrec.ErrDivisionByZero, "%d %s 0", l, op.Symbol())
		}
		if op == syrec.SLASH {
			return l / r, nil
		}
		return l % r, nil
	case syrec.AND:
		return l & r, nil
	case syrec.PIPE:
		return l | r, nil
	case syrec.CARET:
		return l ^ r, nil
	case syrec.AND_LOGICAL:
		return boolValue(l != 0 && r != 0), nil
	case syrec.OR_LOGICAL:
		return boolValue(l != 0 || r != 0), nil
	case syrec.ASSIGN:
		return boolValue(l == r), nil
	case syrec.NOT_EQ:
		return boolValue(l != r), nil
	case syrec.LESS:
		return boolValue(l < r), nil
	case syrec.GREATER:
		return boolValue(l > r), nil
	case syrec.LESS_EQ:
		return boolValue(l <= r), nil
	case syrec.GREATER_EQ:
		return boolValue(l >= r), nil
	}
	return 0, errors.Errorf("operator %s is not a binary expression operator", op)
}

// naturalWidth is the width e has regardless of its context. Numbers have
// none and take the width of whatever they are combined with.
func (r *run) naturalWidth(e syrec.Expression) (uint, bool, error) {
	switch e := e.(type) {
	case *syrec.NumericExpr:
		return e.Bitwidth, e.Bitwidth > 0, nil
	case *syrec.VariableExpr:
		accessed, err := r.accessBits(e.Access)
		if err != nil {
			return 0, false, err
		}
		return uint(len(accessed)), true, nil
	case *syrec.UnaryExpr:
		if e.Op == syrec.NOT {
			return 1, true, nil
		}
		return r.naturalWidth(e.Operand)
	case *syrec.ShiftExpr:
		return r.naturalWidth(e.Lhs)
	case *syrec.BinaryExpr:
		if isPredicate(e.Op) {
			return 1, true, nil
		}
		w, ok, err := r.naturalWidth(e.Lhs)
		if err != nil || ok {
			return w, ok, err
		}
		return r.naturalWidth(e.Rhs)
	}
	return 0, false, errors.Errorf("unknown expression %T", e)
}

// operandWidth is the width both operands of a binary expression are
// synthesized with.
func (r *run) operandWidth(e *syrec.BinaryExpr, context uint) (uint, error) {
	if e.Op == syrec.AND_LOGICAL || e.Op == syrec.OR_LOGICAL {
		return 1, nil
	}
	for _, side := range []syrec.Expression{e.Lhs, e.Rhs} {
		w, ok, err := r.naturalWidth(side)
		if err != nil {
			return 0, err
		}
		if ok {
			return w, nil
		}
	}
	return context, nil
}

// constant materializes v truncated to width on fresh lines.
func (r *run) constant(v uint64, width uint) (operand, error) {
	tv, err := r.settings.Truncation.Apply(v, width)
	if err != nil {
		return operand{}, err
	}
	lines := r.acquire(int(width))
	for i, q := range lines {
		if tv>>uint(i)&1 == 1 {
			r.g.not(q)
		}
	}
	return operand{lines: lines, owned: true}, r.g.err
}

func (r *run) copyOperand(x operand) operand {
	lines := r.acquire(len(x.lines))
	r.g.copyInto(lines, x.lines)
	return operand{lines: lines, owned: true}
}

// expression synthesizes e. context is the width numbers take when nothing
// else fixes the width of e.
func (r *run) expression(e syrec.Expression, context uint) (operand, error) {
	if v, ok, err := r.fold(e); err != nil {
		return operand{}, err
	} else if ok {
		return r.constant(v, context)
	}

	switch e := e.(type) {
	case *syrec.VariableExpr:
		lines, owned, err := r.access(e.Access, readAccess)
		if err != nil {
			return operand{}, err
		}
		x := operand{lines: lines, owned: owned}
		if !owned {
			x.alias = e.Access.Var
		}
		return x, nil

	case *syrec.UnaryExpr:
		width := context
		if e.Op == syrec.NOT {
			width = 1
		}
		x, err := r.expression(e.Operand, width)
		if err != nil {
			return operand{}, err
		}
		if e.Op == syrec.NOT && len(x.lines) != 1 {
			return operand{}, errors.Wrapf(ErrWidthMismatch, "logical negation of %d bits", len(x.lines))
		}
		if !x.owned {
			x = r.copyOperand(x)
		}
		r.g.negate(x.lines)
		return x, r.g.err

	case *syrec.ShiftExpr:
		amount, err := e.Amount.Evaluate(r.loops)
		if err != nil {
			return operand{}, err
		}
		x, err := r.expression(e.Lhs, context)
		if err != nil || amount == 0 {
			return x, err
		}
		res := r.acquire(len(x.lines))
		if amount < uint64(len(x.lines)) {
			if e.Op == syrec.SHL_OP {
				r.g.leftShift(res, x.lines, uint(amount))
			} else {
				r.g.rightShift(res, x.lines, uint(amount))
			}
		}
		return operand{lines: res, owned: true}, r.g.err

	case *syrec.BinaryExpr:
		return r.binary(e, context)
	}
	return operand{}, errors.Errorf("unknown expression %T", e)
}

// simplify handles binary expressions with one folded operand that need
// no gates. ok is false when the expression has to be synthesized.
func (r *run) simplify(e *syrec.BinaryExpr, width uint) (operand, bool, error) {
	rv, rok, err := r.fold(e.Rhs)
	if err != nil {
		return operand{}, false, err
	}
	lv, lok, err := r.fold(e.Lhs)
	if err != nil {
		return operand{}, false, err
	}

	keep := func(side syrec.Expression) (operand, bool, error) {
		x, err := r.expression(side, width)
		return x, true, err
	}
	zero := func() (operand, bool, error) {
		x, err := r.constant(0, width)
		return x, true, err
	}

	if rok {
		switch {
		case rv == 0 && (e.Op == syrec.SLASH || e.Op == syrec.PERCENT):
			return operand{}, false, errors.Wrapf(syrec.ErrDivisionByZero, "%s", e)
		case rv == 0 && (e.Op == syrec.PLUS || e.Op == syrec.MINUS || e.Op == syrec.CARET || e.Op == syrec.PIPE):
			return keep(e.Lhs)
		case rv == 0 && (e.Op == syrec.STAR || e.Op == syrec.AND):
			return zero()
		case rv == 1 && (e.Op == syrec.STAR || e.Op == syrec.SLASH):
			return keep(e.Lhs)
		case rv == 1 && e.Op == syrec.PERCENT:
			return zero()
		}
	}
	if lok {
		switch {
		case lv == 0 && (e.Op == syrec.PLUS || e.Op == syrec.CARET || e.Op == syrec.PIPE):
			return keep(e.Rhs)
		case lv == 0 && (e.Op == syrec.STAR || e.Op == syrec.AND):
			return zero()
		case lv == 1 && e.Op == syrec.STAR:
			return keep(e.Rhs)
		}
	}
	return operand{}, false, nil
}

func (r *run) binary(e *syrec.BinaryExpr, context uint) (operand, error) {
	width, err := r.operandWidth(e, context)
	if err != nil {
		return operand{}, err
	}
	if !isPredicate(e.Op) {
		if x, ok, err := r.simplify(e, width); err != nil || ok {
			return x, err
		}
	}

	l, err := r.expression(e.Lhs, width)
	if err != nil {
		return operand{}, err
	}
	rr, err := r.expression(e.Rhs, width)
	if err != nil {
		return operand{}, err
	}
	if len(l.lines) != len(rr.lines) {
		return operand{}, errors.Wrapf(ErrWidthMismatch, "%s combines %d and %d bits", e, len(l.lines), len(rr.lines))
	}
	if (e.Op == syrec.AND_LOGICAL || e.Op == syrec.OR_LOGICAL) && len(l.lines) != 1 {
		return operand{}, errors.Wrapf(ErrWidthMismatch, "%s needs single bit operands", e)
	}
	if overlaps(l.lines, rr.lines) {
		rr = r.copyOperand(rr)
	}

	n := len(l.lines)
	var res []circuit.Qubit
	switch e.Op {
	case syrec.PLUS, syrec.MINUS, syrec.CARET:
		return r.policy.additive(r, e.Op, l, rr)
	case syrec.STAR:
		res = r.acquire(n)
		r.g.multiplication(res, l.lines, rr.lines)
	case syrec.SLASH, syrec.PERCENT:
		quotient := r.acquire(n)
		remainder := r.acquire(n)
		r.g.division(l.lines, rr.lines, quotient, remainder)
		res = quotient
		if e.Op == syrec.PERCENT {
			res = remainder
		}
	case syrec.AND:
		res = r.acquire(n)
		r.g.bitwiseAnd(res, l.lines, rr.lines)
	case syrec.PIPE:
		res = r.acquire(n)
		r.g.bitwiseOr(res, l.lines, rr.lines)
	case syrec.AND_LOGICAL:
		res = r.acquire(1)
		r.g.toffoli(l.lines[0], rr.lines[0], res[0])
	case syrec.OR_LOGICAL:
		res = r.acquire(1)
		r.g.disjunction(res[0], l.lines[0], rr.lines[0])
	case syrec.LESS:
		res = r.acquire(1)
		r.g.lessThan(res[0], l.lines, rr.lines)
	case syrec.GREATER:
		res = r.acquire(1)
		r.g.lessThan(res[0], rr.lines, l.lines)
	case syrec.LESS_EQ:
		res = r.acquire(1)
		r.g.lessThan(res[0], rr.lines, l.lines)
		r.g.not(res[0])
	case syrec.GREATER_EQ:
		res = r.acquire(1)
		r.g.lessThan(res[0], l.lines, rr.lines)
		r.g.not(res[0])
	case syrec.ASSIGN:
		res = r.acquire(1)
		r.g.equals(res[0], l.lines, rr.lines)
	case syrec.NOT_EQ:
		res = r.acquire(1)
		r.g.equals(res[0], l.lines, rr.lines)
		r.g.not(res[0])
	default:
		return operand{}, errors.Errorf("operator %s is not a binary expression operator", e.Op)
	}
	return operand{lines: res, owned: true}, r.g.err
}

// countReads counts the variable accesses in e, including those in index
// expressions.
func countReads(e syrec.Expression) map[*syrec.Variable]int {
	out := make(map[*syrec.Variable]int)
	var walk func(syrec.Expression)
	walk = func(e syrec.Expression) {
		switch e := e.(type) {
		case *syrec.VariableExpr:
			out[e.Access.Var]++
			for _, idx := range e.Access.Indexes {
				walk(idx)
			}
		case *syrec.UnaryExpr:
			walk(e.Operand)
		case *syrec.ShiftExpr:
			walk(e.Lhs)
		case *syrec.BinaryExpr:
			walk(e.Lhs)
			walk(e.Rhs)
		}
	}
	if e != nil {
		walk(e)
	}
	return out
}
