package circuit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Qubit is the index of a line in a Circuit.
type Qubit uint32

// GateKind distinguishes the two reversible gate families the synthesizer emits.
type GateKind int

const (
	// Toffoli flips its single target when every control is set. With zero
	// controls it is a NOT, with one a CNOT, with more an MCT.
	Toffoli GateKind = iota
	// Fredkin swaps its two targets when every control is set.
	Fredkin
)

func (k GateKind) String() string {
	switch k {
	case Toffoli:
		return "toffoli"
	case Fredkin:
		return "fredkin"
	}
	return fmt.Sprintf("GateKind(%d)", int(k))
}

// Gate is a single reversible operation.
//
//	t3 a b c     Gate{Kind: Toffoli, Controls: [a b], Targets: [c]}
//	f3 a b c     Gate{Kind: Fredkin, Controls: [a],   Targets: [b c]}
type Gate struct {
	Kind        GateKind
	Controls    []Qubit
	Targets     []Qubit
	Annotations map[string]string
}

func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(g.Kind.String())
	sb.WriteString("(")
	for i, c := range g.Controls {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%d", c)
	}
	sb.WriteString(";")
	for i, t := range g.Targets {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%d", t)
	}
	sb.WriteString(")")
	return sb.String()
}

// Line describes one qubit of the circuit.
type Line struct {
	Label string
	// UserLabel is the declared name for lines that back module locals,
	// e.g. "tmp[1].0" for the internal label "__q12_tmp[1].0".
	UserLabel string
	// Constant is nil for primary inputs and holds the initial value of
	// ancillary lines.
	Constant *bool
	Garbage  bool
	Ancilla  bool
	// InlineStack holds the signatures of the modules that were being
	// inlined when the line was allocated, outermost first.
	InlineStack []string
}

// IsConstant reports whether the line starts in a fixed state.
func (l Line) IsConstant() bool { return l.Constant != nil }

var (
	ErrUnknownQubit       = errors.New("unknown qubit")
	ErrTargetIsControl    = errors.New("target qubit is also a control")
	ErrDuplicateTarget    = errors.New("duplicate target qubit")
	ErrNoControlScope     = errors.New("no control propagation scope active")
	ErrInvalidGateRange   = errors.New("invalid gate range")
	ErrInvalidTargetCount = errors.New("invalid number of targets")
)

// LineNumberAnnotation is the annotation key under which the synthesizer
// records the source line of the statement that produced a gate.
const LineNumberAnnotation = "lno"

// Circuit is an append-only list of gates over a growing set of lines.
//
// Gates added while control propagation scopes are active receive the
// union of the propagated controls in addition to their own.
type Circuit struct {
	Lines []Line
	Gates []Gate

	controlScopes     []map[Qubit]bool
	globalAnnotations map[string]string
}

func New() *Circuit {
	return &Circuit{globalAnnotations: make(map[string]string)}
}

// NumLines returns the number of allocated lines.
func (c *Circuit) NumLines() int { return len(c.Lines) }

// NumGates returns the number of emitted gates.
func (c *Circuit) NumGates() int { return len(c.Gates) }

// AddLine appends a line and returns its qubit index.
func (c *Circuit) AddLine(line Line) Qubit {
	c.Lines = append(c.Lines, line)
	return Qubit(len(c.Lines) - 1)
}

// AddInput appends a primary input line.
func (c *Circuit) AddInput(label string, garbage bool) Qubit {
	return c.AddLine(Line{Label: label, Garbage: garbage})
}

// AddAncilla appends a constant line. An initial value of true is produced
// by an uncontrolled NOT on a zero line so that simulation can start from
// an all-zero ancilla state.
func (c *Circuit) AddAncilla(label string, initial bool) Qubit {
	zero := false
	q := c.AddLine(Line{Label: label, Constant: &zero, Ancilla: true})
	if initial {
		c.Gates = append(c.Gates, Gate{Kind: Toffoli, Targets: []Qubit{q}, Annotations: c.annotations()})
	}
	return q
}

// SetGarbage marks a line as holding an unspecified value at the end of the circuit.
func (c *Circuit) SetGarbage(q Qubit, garbage bool) error {
	if int(q) >= len(c.Lines) {
		return errors.Wrapf(ErrUnknownQubit, "line %d", q)
	}
	c.Lines[q].Garbage = garbage
	return nil
}

// SetInlineStack records the inlining chain that produced q.
func (c *Circuit) SetInlineStack(q Qubit, stack []string) error {
	if int(q) >= len(c.Lines) {
		return errors.Wrapf(ErrUnknownQubit, "line %d", q)
	}
	c.Lines[q].InlineStack = append([]string(nil), stack...)
	return nil
}

// LineByLabel finds a line by its label.
func (c *Circuit) LineByLabel(label string) (Qubit, bool) {
	for i, l := range c.Lines {
		if l.Label == label {
			return Qubit(i), true
		}
	}
	return 0, false
}

// -- control propagation ---------------------------------------------------

// ActivateControlScope opens a new control propagation scope.
func (c *Circuit) ActivateControlScope() {
	c.controlScopes = append(c.controlScopes, make(map[Qubit]bool))
}

// DeactivateControlScope closes the innermost scope, dropping every
// registration and deregistration made in it.
func (c *Circuit) DeactivateControlScope() bool {
	if len(c.controlScopes) == 0 {
		return false
	}
	c.controlScopes = c.controlScopes[:len(c.controlScopes)-1]
	return true
}

// RegisterControl adds q to the controls of every gate added while the
// current scope (or a nested one) is active.
func (c *Circuit) RegisterControl(q Qubit) error {
	if len(c.controlScopes) == 0 {
		return ErrNoControlScope
	}
	if int(q) >= len(c.Lines) {
		return errors.Wrapf(ErrUnknownQubit, "control %d", q)
	}
	c.controlScopes[len(c.controlScopes)-1][q] = true
	return nil
}

// DeregisterControl stops propagating q in the current scope. A
// registration made by an enclosing scope is masked until the current
// scope is deactivated.
func (c *Circuit) DeregisterControl(q Qubit) error {
	if len(c.controlScopes) == 0 {
		return ErrNoControlScope
	}
	if int(q) >= len(c.Lines) {
		return errors.Wrapf(ErrUnknownQubit, "control %d", q)
	}
	c.controlScopes[len(c.controlScopes)-1][q] = false
	return nil
}

// ActiveControls returns the propagated controls in ascending order.
func (c *Circuit) ActiveControls() []Qubit {
	active := make(map[Qubit]bool)
	for _, scope := range c.controlScopes {
		for q, registered := range scope {
			if registered {
				active[q] = true
			} else {
				delete(active, q)
			}
		}
	}
	out := make([]Qubit, 0, len(active))
	for q := range active {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// -- annotations -------------------------------------------------------------

// SetGlobalAnnotation attaches key=value to every gate added from now on.
func (c *Circuit) SetGlobalAnnotation(key, value string) {
	if c.globalAnnotations == nil {
		c.globalAnnotations = make(map[string]string)
	}
	c.globalAnnotations[key] = value
}

// RemoveGlobalAnnotation stops attaching key to new gates.
func (c *Circuit) RemoveGlobalAnnotation(key string) {
	delete(c.globalAnnotations, key)
}

func (c *Circuit) annotations() map[string]string {
	if len(c.globalAnnotations) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.globalAnnotations))
	for k, v := range c.globalAnnotations {
		out[k] = v
	}
	return out
}

// -- gates -------------------------------------------------------------------

// AddGate appends a gate after merging the propagated controls into controls.
func (c *Circuit) AddGate(kind GateKind, controls []Qubit, targets ...Qubit) error {
	switch kind {
	case Toffoli:
		if len(targets) != 1 {
			return errors.Wrapf(ErrInvalidTargetCount, "toffoli gate with %d targets", len(targets))
		}
	case Fredkin:
		if len(targets) != 2 {
			return errors.Wrapf(ErrInvalidTargetCount, "fredkin gate with %d targets", len(targets))
		}
		if targets[0] == targets[1] {
			return errors.Wrapf(ErrDuplicateTarget, "fredkin gate on %d", targets[0])
		}
	}

	merged := make(map[Qubit]bool, len(controls))
	for _, q := range controls {
		merged[q] = true
	}
	for _, q := range c.ActiveControls() {
		merged[q] = true
	}
	all := make([]Qubit, 0, len(merged))
	for q := range merged {
		if int(q) >= len(c.Lines) {
			return errors.Wrapf(ErrUnknownQubit, "control %d", q)
		}
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	for _, t := range targets {
		if int(t) >= len(c.Lines) {
			return errors.Wrapf(ErrUnknownQubit, "target %d", t)
		}
		if merged[t] {
			return errors.Wrapf(ErrTargetIsControl, "qubit %d", t)
		}
	}

	c.Gates = append(c.Gates, Gate{
		Kind:        kind,
		Controls:    all,
		Targets:     append([]Qubit(nil), targets...),
		Annotations: c.annotations(),
	})
	return nil
}

// AddNot appends an X gate on target.
func (c *Circuit) AddNot(target Qubit) error {
	return c.AddGate(Toffoli, nil, target)
}

// AddCnot appends a CNOT gate.
func (c *Circuit) AddCnot(control, target Qubit) error {
	return c.AddGate(Toffoli, []Qubit{control}, target)
}

// AddToffoli appends a two-control Toffoli gate.
func (c *Circuit) AddToffoli(control1, control2, target Qubit) error {
	return c.AddGate(Toffoli, []Qubit{control1, control2}, target)
}

// AddMct appends a multi-controlled Toffoli gate.
func (c *Circuit) AddMct(controls []Qubit, target Qubit) error {
	return c.AddGate(Toffoli, controls, target)
}

// AddFredkin appends a swap of target1 and target2.
func (c *Circuit) AddFredkin(target1, target2 Qubit) error {
	return c.AddGate(Fredkin, nil, target1, target2)
}

// ReplayReversed re-emits gates [from, to) in reverse order. Every gate
// kind is self-inverse, so the replay undoes the effect of the range.
// Replayed gates keep their recorded controls; active propagation scopes
// are not applied a second time.
func (c *Circuit) ReplayReversed(from, to int) error {
	if from < 0 || to > len(c.Gates) || from > to {
		return errors.Wrapf(ErrInvalidGateRange, "[%d, %d) of %d gates", from, to, len(c.Gates))
	}
	for i := to - 1; i >= from; i-- {
		g := c.Gates[i]
		c.Gates = append(c.Gates, Gate{
			Kind:        g.Kind,
			Controls:    append([]Qubit(nil), g.Controls...),
			Targets:     append([]Qubit(nil), g.Targets...),
			Annotations: c.annotations(),
		})
	}
	return nil
}

// Labels returns the label of every line in order.
func (c *Circuit) Labels() []string {
	out := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = l.Label
	}
	return out
}
