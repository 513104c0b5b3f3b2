package synthesis

import (
	"strconv"

	"gosyrec/pkg/circuit"
	"gosyrec/pkg/syrec"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (r *run) statements(stmts []syrec.Statement) error {
	for _, s := range stmts {
		if err := r.statement(s); err != nil {
			return err
		}
	}
	return nil
}

// statement synthesizes s with its line number as the lno annotation of
// every gate it adds.
func (r *run) statement(s syrec.Statement) error {
	outer := r.line
	r.line = s.Line()
	r.circ.SetGlobalAnnotation(circuit.LineNumberAnnotation, strconv.Itoa(r.line))

	if err := r.dispatch(s); err != nil {
		return r.wrap(err)
	}

	r.line = outer
	if outer > 0 {
		r.circ.SetGlobalAnnotation(circuit.LineNumberAnnotation, strconv.Itoa(outer))
	} else {
		r.circ.RemoveGlobalAnnotation(circuit.LineNumberAnnotation)
	}
	return nil
}

func (r *run) dispatch(s syrec.Statement) error {
	switch s := s.(type) {
	case *syrec.AssignStmt:
		return r.assign(s)
	case *syrec.UnaryStmt:
		return r.unary(s)
	case *syrec.SwapStmt:
		return r.swap(s)
	case *syrec.IfStmt:
		return r.ifStmt(s)
	case *syrec.ForStmt:
		return r.forStmt(s)
	case *syrec.CallStmt:
		return r.call(s.Target, s.TargetName, s.Arguments, true, s.SourceLine)
	case *syrec.UncallStmt:
		return r.call(s.Target, s.TargetName, s.Arguments, false, s.SourceLine)
	case *syrec.SkipStmt:
		return nil
	}
	return errors.Errorf("unknown statement %T", s)
}

// uncompute replays the gates in [start, opStart) backwards, which clears
// every ancilla acquired since mark, and returns them to the pool.
func (r *run) uncompute(start, opStart, mark int) error {
	if r.g.err != nil {
		return r.g.err
	}
	if err := r.circ.ReplayReversed(start, opStart); err != nil {
		return err
	}
	r.releaseTo(mark)
	return nil
}

func (r *run) assign(s *syrec.AssignStmt) error {
	for _, step := range r.policy.assignSteps(s.Op, s.Rhs) {
		if v, ok, err := r.fold(step.expr); err != nil {
			return err
		} else if ok && v == 0 {
			continue
		}
		if err := r.assignStep(s.Lhs, step); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) assignStep(lhs *syrec.VariableAccess, step assignStep) error {
	mark, start := len(r.held), r.circ.NumGates()

	target, _, err := r.access(lhs, targetAccess)
	if err != nil {
		return err
	}
	r.reads = countReads(step.expr)
	rhs, err := r.expression(step.expr, uint(len(target)))
	if err != nil {
		return err
	}
	if len(rhs.lines) != len(target) {
		return errors.Wrapf(ErrWidthMismatch, "%s has %d bits, %s has %d", lhs, len(target), step.expr, len(rhs.lines))
	}
	if overlaps(target, rhs.lines) {
		return errors.Wrapf(ErrOverlappingOperands, "%s and %s", lhs, step.expr)
	}

	opStart := r.circ.NumGates()
	applyAdditive(r.g, step.op, target, rhs.lines)
	return r.uncompute(start, opStart, mark)
}

func (r *run) unary(s *syrec.UnaryStmt) error {
	mark, start := len(r.held), r.circ.NumGates()
	target, _, err := r.access(s.Target, targetAccess)
	if err != nil {
		return err
	}

	opStart := r.circ.NumGates()
	switch s.Op {
	case syrec.NEG_ASSIGN:
		r.g.negate(target)
	case syrec.INC_ASSIGN:
		r.g.increment(target)
	case syrec.DEC_ASSIGN:
		r.g.decrement(target)
	default:
		return errors.Errorf("operator %s is not a unary statement", s.Op)
	}
	return r.uncompute(start, opStart, mark)
}

func (r *run) swap(s *syrec.SwapStmt) error {
	for _, idx := range s.Lhs.Indexes {
		if syrec.ReadsVariable(idx, s.Rhs.Var) {
			return errors.Wrapf(ErrOverlappingOperands, "index of %s reads %s", s.Lhs, s.Rhs.Var.Name)
		}
	}
	for _, idx := range s.Rhs.Indexes {
		if syrec.ReadsVariable(idx, s.Lhs.Var) {
			return errors.Wrapf(ErrOverlappingOperands, "index of %s reads %s", s.Rhs, s.Lhs.Var.Name)
		}
	}

	mark, start := len(r.held), r.circ.NumGates()
	a, _, err := r.access(s.Lhs, targetAccess)
	if err != nil {
		return err
	}
	b, _, err := r.access(s.Rhs, targetAccess)
	if err != nil {
		return err
	}
	if len(a) != len(b) {
		return errors.Wrapf(ErrWidthMismatch, "%s has %d bits, %s has %d", s.Lhs, len(a), s.Rhs, len(b))
	}
	if overlaps(a, b) {
		return errors.Wrapf(ErrOverlappingOperands, "%s and %s", s.Lhs, s.Rhs)
	}

	opStart := r.circ.NumGates()
	r.g.swap(a, b)
	return r.uncompute(start, opStart, mark)
}

// condition xors the single bit value of e into dest and uncomputes
// everything else.
func (r *run) condition(e syrec.Expression, dest circuit.Qubit) error {
	mark, start := len(r.held), r.circ.NumGates()
	r.reads = countReads(e)
	cond, err := r.expression(e, 1)
	if err != nil {
		return err
	}
	if len(cond.lines) != 1 {
		return errors.Wrapf(ErrWidthMismatch, "condition %s has %d bits", e, len(cond.lines))
	}
	opStart := r.circ.NumGates()
	r.g.cnot(cond.lines[0], dest)
	return r.uncompute(start, opStart, mark)
}

// ifStmt computes the condition into a guard line, runs the then branch
// controlled by it and the else branch controlled by its negation, then
// clears the guard with the fi condition.
func (r *run) ifStmt(s *syrec.IfStmt) error {
	if s.Condition == nil {
		return errors.Wrap(ErrMissingCondition, "the fi condition of an uncalled if is missing")
	}
	guard := r.acquire(1)[0]
	r.keep(guard)
	if err := r.condition(s.Condition, guard); err != nil {
		return err
	}

	r.g.activate()
	r.g.register(guard)
	if err := r.statements(s.Then); err != nil {
		return err
	}
	r.g.deregister(guard)
	r.g.not(guard)
	r.g.register(guard)
	if err := r.statements(s.Else); err != nil {
		return err
	}
	r.g.deregister(guard)
	r.g.not(guard)
	r.g.deactivate()
	if r.g.err != nil {
		return r.g.err
	}

	if s.FiCondition == nil {
		return r.circ.SetGarbage(guard, true)
	}
	if err := r.condition(s.FiCondition, guard); err != nil {
		return err
	}
	r.free = append(r.free, guard)
	return nil
}

// loopValues lists the values a loop variable takes, in iteration order.
func (r *run) loopValues(s *syrec.ForStmt) ([]uint64, error) {
	var from, step uint64 = 0, 1
	var err error
	if s.From != nil {
		if from, err = s.From.Evaluate(r.loops); err != nil {
			return nil, err
		}
	}
	to, err := s.To.Evaluate(r.loops)
	if err != nil {
		return nil, err
	}
	if s.Step != nil {
		if step, err = s.Step.Evaluate(r.loops); err != nil {
			return nil, err
		}
	}
	if step == 0 {
		return nil, errors.Wrap(ErrInvalidStep, "step is zero")
	}

	var values []uint64
	switch {
	case from < to:
		if s.NegativeStep {
			return nil, errors.Wrapf(ErrInvalidStep, "negative step from %d up to %d", from, to)
		}
		for v := from; v < to; v += step {
			values = append(values, v)
			if to-v <= step {
				break
			}
		}
	case from > to:
		for v := from; v > to; v -= step {
			values = append(values, v)
			if v-to <= step {
				break
			}
		}
	}

	if s.Reversed {
		for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
		}
	}
	return values, nil
}

func (r *run) forStmt(s *syrec.ForStmt) error {
	values, err := r.loopValues(s)
	if err != nil {
		return err
	}
	for _, v := range values {
		if s.LoopVariable != "" {
			r.loops[s.LoopVariable] = v
		}
		r.scope.Open()
		err := r.statements(s.Body)
		r.scope.Close()
		if err != nil {
			return err
		}
	}
	delete(r.loops, s.LoopVariable)
	return nil
}

// resolveCallee finds the module a call without a parser resolved target
// refers to.
func (r *run) resolveCallee(name string, args []*syrec.Variable) (*syrec.Module, error) {
	var found []*syrec.Module
	for _, m := range r.prog.FindModules(name) {
		if syrec.SignatureAccepts(m, args) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return nil, errors.Wrapf(ErrModuleNotFound, "no module %s accepts the arguments", name)
	case 1:
		return found[0], nil
	}
	return nil, errors.Wrapf(ErrAmbiguousModule, "%d overloads of %s accept the arguments", len(found), name)
}

// call inlines target with its parameters bound to the lines of the
// caller's arguments. An uncall runs the body inverted and reversed.
func (r *run) call(target *syrec.Module, name string, argNames []string, isCall bool, line int) error {
	caller := r.currentModule()
	args := make([]*syrec.Variable, len(argNames))
	firsts := make([]circuit.Qubit, len(argNames))
	for i, a := range argNames {
		v := caller.FindVariable(a)
		q, ok := r.scope.Lookup(a)
		if v == nil || !ok {
			return errors.Wrapf(ErrUnknownVariable, "argument %q", a)
		}
		args[i], firsts[i] = v, q
	}

	if target == nil {
		var err error
		if target, err = r.resolveCallee(name, args); err != nil {
			return err
		}
	} else if !syrec.SignatureAccepts(target, args) {
		return errors.Wrapf(ErrInvalidCall, "arguments (%d) do not match %s", len(args), target.Name)
	}
	if r.inlining.Contains(target) {
		return errors.Wrapf(ErrRecursion, "%s", target.Name)
	}

	own := Sequential
	if !isCall {
		own = InvertedAndReversed
	}

	lineNo, kind := line, isCall
	if !r.inlining.Push(InlineFrame{Line: &lineNo, IsCall: &kind, Target: target}) {
		return errors.Wrapf(ErrInvalidCall, "cannot inline %s", target.Name)
	}
	r.modules = append(r.modules, target)
	r.scope.Open()
	for i, p := range target.Parameters {
		r.scope.RegisterOrUpdate(p.Name, firsts[i])
	}
	if err := r.allocateVariables(target.Variables); err != nil {
		return err
	}
	aggregate := r.order.AddToAggregate(own)
	callerLoops := r.loops
	r.loops = make(syrec.LoopValues)

	r.logger.Debug("inlining module",
		zap.String("module", target.Name),
		zap.Bool("call", isCall),
		zap.Int("line", line),
		zap.Stringer("order", own),
		zap.Stringer("aggregate", aggregate),
		zap.Int("depth", r.inlining.Size()))

	// A reversed caller body has already swapped call and uncall, so the
	// statement kind alone decides the direction.
	body := target.Statements
	if own == InvertedAndReversed {
		body = syrec.ReverseStatements(body)
	}
	if err := r.statements(body); err != nil {
		return err
	}

	r.loops = callerLoops
	r.order.RemoveLast()
	r.scope.Close()
	r.modules = r.modules[:len(r.modules)-1]
	r.inlining.Pop()
	return nil
}
