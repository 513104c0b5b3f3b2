package synthesis

import (
	"gosyrec/pkg/circuit"
	"gosyrec/pkg/syrec"
)

// assignStep is one reversible assignment applied to the target of an
// assignment statement.
type assignStep struct {
	op   syrec.TokenType // ADD_ASSIGN, SUB_ASSIGN or XOR_ASSIGN
	expr syrec.Expression
}

// policy holds the decisions in which the strategies differ.
type policy interface {
	// dynamicIndexes reports whether indices that cannot be folded are
	// supported.
	dynamicIndexes() bool
	// assignSteps splits the assignment "target op rhs" into steps.
	assignSteps(op syrec.TokenType, rhs syrec.Expression) []assignStep
	// additive synthesizes l op rr for op one of PLUS, MINUS, CARET.
	additive(r *run, op syrec.TokenType, l, rr operand) (operand, error)
}

func newPolicy(s Strategy) policy {
	if s == LineAware {
		return lineAware{}
	}
	return costAware{}
}

// costAware computes every subexpression into fresh lines and never
// modifies operands.
type costAware struct{}

func (costAware) dynamicIndexes() bool { return true }

func (costAware) assignSteps(op syrec.TokenType, rhs syrec.Expression) []assignStep {
	return []assignStep{{op: op, expr: rhs}}
}

func (costAware) additive(r *run, op syrec.TokenType, l, rr operand) (operand, error) {
	res := r.acquire(len(l.lines))
	r.g.copyInto(res, l.lines)
	applyAdditive(r.g, op, res, rr.lines)
	return operand{lines: res, owned: true}, r.g.err
}

// lineAware reuses operand lines where that is safe, trading gates for
// fewer ancillae. Their values are restored when the statement is
// uncomputed.
type lineAware struct{}

func (lineAware) dynamicIndexes() bool { return false }

func (lineAware) assignSteps(op syrec.TokenType, rhs syrec.Expression) []assignStep {
	var steps []assignStep
	switch op {
	case syrec.ADD_ASSIGN, syrec.SUB_ASSIGN:
		flattenAdditive(rhs, op == syrec.SUB_ASSIGN, &steps)
	case syrec.XOR_ASSIGN:
		flattenXor(rhs, &steps)
	default:
		steps = append(steps, assignStep{op: op, expr: rhs})
	}
	return steps
}

// flattenAdditive turns "t += a - (b + c)" into "t += a; t -= b; t -= c".
func flattenAdditive(e syrec.Expression, negative bool, out *[]assignStep) {
	if b, ok := e.(*syrec.BinaryExpr); ok && (b.Op == syrec.PLUS || b.Op == syrec.MINUS) {
		flattenAdditive(b.Lhs, negative, out)
		flattenAdditive(b.Rhs, negative != (b.Op == syrec.MINUS), out)
		return
	}
	op := syrec.ADD_ASSIGN
	if negative {
		op = syrec.SUB_ASSIGN
	}
	*out = append(*out, assignStep{op: op, expr: e})
}

func flattenXor(e syrec.Expression, out *[]assignStep) {
	if b, ok := e.(*syrec.BinaryExpr); ok && b.Op == syrec.CARET {
		flattenXor(b.Lhs, out)
		flattenXor(b.Rhs, out)
		return
	}
	*out = append(*out, assignStep{op: syrec.XOR_ASSIGN, expr: e})
}

func (lineAware) additive(r *run, op syrec.TokenType, l, rr operand) (operand, error) {
	switch {
	case l.owned:
	case l.alias != nil && r.reads[l.alias] == 1:
		// l is read nowhere else, so it can hold the result until the
		// statement is uncomputed.
	case rr.owned && op != syrec.MINUS:
		l, rr = rr, l
	case rr.owned:
		// rr = l - rr computed as l + (-rr)
		r.g.negate(rr.lines)
		r.g.increment(rr.lines)
		r.g.inplaceAdd(l.lines, rr.lines, nil)
		return operand{lines: rr.lines, owned: true}, r.g.err
	default:
		l = r.copyOperand(l)
	}
	applyAdditive(r.g, op, l.lines, rr.lines)
	return operand{lines: l.lines, owned: true}, r.g.err
}

// applyAdditive computes dest op= src.
func applyAdditive(g *gateWriter, op syrec.TokenType, dest, src []circuit.Qubit) {
	switch op {
	case syrec.PLUS, syrec.ADD_ASSIGN:
		g.inplaceAdd(src, dest, nil)
	case syrec.MINUS, syrec.SUB_ASSIGN:
		g.inplaceSubtract(src, dest)
	case syrec.CARET, syrec.XOR_ASSIGN:
		g.copyInto(dest, src)
	}
}
