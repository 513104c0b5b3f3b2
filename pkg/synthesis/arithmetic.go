package synthesis

import (
	"gosyrec/pkg/circuit"

	"github.com/pkg/errors"
)

// gateWriter appends gates to a circuit and keeps the first error, so a
// sequence of gates can be emitted without checking after every call.
type gateWriter struct {
	c   *circuit.Circuit
	err error
}

func (g *gateWriter) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

func (g *gateWriter) check(err error) {
	if err != nil {
		g.fail(err)
	}
}

func (g *gateWriter) not(t circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.AddNot(t))
	}
}

func (g *gateWriter) cnot(c, t circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.AddCnot(c, t))
	}
}

func (g *gateWriter) toffoli(c1, c2, t circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.AddToffoli(c1, c2, t))
	}
}

func (g *gateWriter) mct(controls []circuit.Qubit, t circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.AddMct(controls, t))
	}
}

func (g *gateWriter) fredkin(t1, t2 circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.AddFredkin(t1, t2))
	}
}

func (g *gateWriter) controlledFredkin(c, t1, t2 circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.AddGate(circuit.Fredkin, []circuit.Qubit{c}, t1, t2))
	}
}

func (g *gateWriter) activate() { g.c.ActivateControlScope() }

func (g *gateWriter) deactivate() {
	if !g.c.DeactivateControlScope() {
		g.fail(circuit.ErrNoControlScope)
	}
}

func (g *gateWriter) register(q circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.RegisterControl(q))
	}
}

func (g *gateWriter) deregister(q circuit.Qubit) {
	if g.err == nil {
		g.check(g.c.DeregisterControl(q))
	}
}

func (g *gateWriter) sameWidth(op string, a, b []circuit.Qubit) bool {
	if len(a) != len(b) {
		g.fail(errors.Wrapf(ErrWidthMismatch, "%s of %d and %d bits", op, len(a), len(b)))
		return false
	}
	return true
}

// -- unary -------------------------------------------------------------------

func (g *gateWriter) negate(dest []circuit.Qubit) {
	for _, q := range dest {
		g.not(q)
	}
}

func (g *gateWriter) increment(dest []circuit.Qubit) {
	g.activate()
	for _, q := range dest {
		g.register(q)
	}
	for i := len(dest) - 1; i >= 0; i-- {
		g.deregister(dest[i])
		g.not(dest[i])
	}
	g.deactivate()
}

func (g *gateWriter) decrement(dest []circuit.Qubit) {
	g.activate()
	for _, q := range dest {
		g.not(q)
		g.register(q)
	}
	g.deactivate()
}

// -- bitwise -----------------------------------------------------------------

// copyInto xors src into dest.
func (g *gateWriter) copyInto(dest, src []circuit.Qubit) {
	if !g.sameWidth("copy", dest, src) {
		return
	}
	for i := range src {
		g.cnot(src[i], dest[i])
	}
}

func (g *gateWriter) bitwiseAnd(dest, src1, src2 []circuit.Qubit) {
	if !g.sameWidth("and", src1, src2) || !g.sameWidth("and", dest, src1) {
		return
	}
	for i := range dest {
		g.toffoli(src1[i], src2[i], dest[i])
	}
}

func (g *gateWriter) disjunction(dest, src1, src2 circuit.Qubit) {
	g.cnot(src1, dest)
	g.cnot(src2, dest)
	g.toffoli(src1, src2, dest)
}

func (g *gateWriter) bitwiseOr(dest, src1, src2 []circuit.Qubit) {
	if !g.sameWidth("or", src1, src2) || !g.sameWidth("or", dest, src1) {
		return
	}
	for i := range dest {
		g.disjunction(dest[i], src1[i], src2[i])
	}
}

func (g *gateWriter) swap(a, b []circuit.Qubit) {
	if !g.sameWidth("swap", a, b) {
		return
	}
	for i := range a {
		g.fredkin(a[i], b[i])
	}
}

// -- shifts ------------------------------------------------------------------

func (g *gateWriter) leftShift(dest, src []circuit.Qubit, amount uint) {
	if amount >= uint(len(dest)) || !g.sameWidth("shift", dest, src) {
		return
	}
	for i := 0; i < len(dest)-int(amount); i++ {
		g.cnot(src[i], dest[int(amount)+i])
	}
}

func (g *gateWriter) rightShift(dest, src []circuit.Qubit, amount uint) {
	if amount >= uint(len(dest)) || !g.sameWidth("shift", dest, src) {
		return
	}
	for i := 0; i < len(dest)-int(amount); i++ {
		g.cnot(src[int(amount)+i], dest[i])
	}
}

// -- addition ----------------------------------------------------------------

// inplaceAdd computes b = a + b mod 2^n with the ancilla free ripple adder
// of Takahashi, Tani and Kunihiro. a is restored. When carry is set the
// carry out of the addition is xored into it.
func (g *gateWriter) inplaceAdd(a, b []circuit.Qubit, carry *circuit.Qubit) {
	if !g.sameWidth("add", a, b) {
		return
	}
	n := len(b)
	if n == 0 {
		return
	}
	if n == 1 {
		if carry != nil {
			g.toffoli(a[0], b[0], *carry)
		}
		g.cnot(a[0], b[0])
		return
	}

	for i := 1; i < n; i++ {
		g.cnot(a[i], b[i])
	}
	if carry != nil {
		g.cnot(a[n-1], *carry)
	}
	for i := n - 1; i > 1; i-- {
		g.cnot(a[i-1], a[i])
	}
	for i := 0; i < n-1; i++ {
		g.toffoli(b[i], a[i], a[i+1])
	}
	if carry != nil {
		g.toffoli(a[n-1], b[n-1], *carry)
	}
	for i := n - 1; i > 0; i-- {
		g.cnot(a[i], b[i])
		g.toffoli(a[i-1], b[i-1], a[i])
	}
	for i := 1; i < n-1; i++ {
		g.cnot(a[i], a[i+1])
	}
	for i := n; i > 0; i-- {
		g.cnot(a[i-1], b[i-1])
	}
}

// inplaceSubtract computes b = b - a mod 2^n.
func (g *gateWriter) inplaceSubtract(a, b []circuit.Qubit) {
	g.negate(b)
	g.inplaceAdd(a, b, nil)
	g.negate(b)
}

// decreaseWithCarry computes dest = dest - src and xors the borrow into carry.
func (g *gateWriter) decreaseWithCarry(dest, src []circuit.Qubit, carry circuit.Qubit) {
	g.negate(dest)
	g.inplaceAdd(src, dest, &carry)
	g.negate(dest)
}

// -- comparison --------------------------------------------------------------

// lessThan xors (a < b) into dest. a and b are restored.
func (g *gateWriter) lessThan(dest circuit.Qubit, a, b []circuit.Qubit) {
	g.decreaseWithCarry(a, b, dest)
	g.inplaceAdd(b, a, nil)
}

// equals xors (a == b) into dest. a and b are restored.
func (g *gateWriter) equals(dest circuit.Qubit, a, b []circuit.Qubit) {
	if !g.sameWidth("compare", a, b) {
		return
	}
	for i := range a {
		g.cnot(b[i], a[i])
		g.not(a[i])
	}
	g.mct(a, dest)
	for i := range a {
		g.cnot(b[i], a[i])
		g.not(a[i])
	}
}

// -- multiplication and division ---------------------------------------------

// multiplication xors src1 * src2 mod 2^n into the zero lines dest by
// adding shifted copies of src2 controlled by the bits of src1.
func (g *gateWriter) multiplication(dest, src1, src2 []circuit.Qubit) {
	if !g.sameWidth("multiply", src1, src2) || !g.sameWidth("multiply", dest, src1) || len(dest) == 0 {
		return
	}
	sum := dest
	partial := src2

	g.activate()
	g.register(src1[0])
	g.copyInto(sum, partial)
	g.deregister(src1[0])
	for i := 1; i < len(dest); i++ {
		sum = sum[1:]
		partial = partial[:len(partial)-1]
		g.register(src1[i])
		g.inplaceAdd(partial, sum, nil)
		g.deregister(src1[i])
	}
	g.deactivate()
}

// division computes quotient and remainder of dividend / divisor into the
// zero lines quotient and remainder with restoring division. divisor is
// restored.
func (g *gateWriter) division(dividend, divisor, quotient, remainder []circuit.Qubit) {
	n := len(dividend)
	if !g.sameWidth("divide", dividend, divisor) || !g.sameWidth("divide", quotient, remainder) || !g.sameWidth("divide", dividend, quotient) {
		return
	}
	g.copyInto(quotient, dividend)

	// aggregate is r[n-1] ... r[0] q[n-1] ... q[0]
	aggregate := make([]circuit.Qubit, 0, 2*n)
	for i := n - 1; i >= 0; i-- {
		aggregate = append(aggregate, remainder[i])
	}
	for i := n - 1; i >= 0; i-- {
		aggregate = append(aggregate, quotient[i])
	}

	window := make([]circuit.Qubit, n)
	g.activate()
	for i := 1; i <= n; i++ {
		for j := 0; j < n; j++ {
			window[j] = aggregate[i+n-1-j]
		}
		sign := remainder[n-i]
		g.decreaseWithCarry(window, divisor, sign)
		g.register(sign)
		g.inplaceAdd(divisor, window, nil)
		g.deregister(sign)
		g.not(sign)
	}
	g.deactivate()

	for i := 0; i < n; i++ {
		g.fredkin(quotient[i], remainder[i])
	}
}
