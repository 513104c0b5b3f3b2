package synthesis

import (
	"fmt"
	"strings"
	"time"

	"gosyrec/pkg/circuit"
	"gosyrec/pkg/syrec"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Statistics summarize a synthesized circuit.
type Statistics struct {
	Gates          int
	Lines          int
	QuantumCost    uint64
	TransistorCost uint64
	Runtime        time.Duration
}

// Result is the output of a successful synthesis.
type Result struct {
	Circuit    *circuit.Circuit
	Statistics Statistics
	MainModule *syrec.Module
	Strategy   Strategy
}

// Synthesizer lowers SyReC programs to reversible circuits. All state of a
// run lives in the Synthesize call, so a Synthesizer can be shared.
type Synthesizer struct {
	strategy Strategy
	settings Settings
	logger   *zap.Logger
}

func NewSynthesizer(strategy Strategy, settings Settings, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{strategy: strategy, settings: settings, logger: logger}
}

func (s *Synthesizer) Strategy() Strategy { return s.strategy }

func (s *Synthesizer) Settings() Settings { return s.settings }

// Synthesize builds the circuit for the entry module of prog. On error no
// circuit is returned.
func (s *Synthesizer) Synthesize(prog *syrec.Program) (*Result, error) {
	if err := s.settings.validate(); err != nil {
		return nil, err
	}
	main, err := SelectMainModule(prog, s.settings.MainModule)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s.logger.Info("synthesis started",
		zap.String("module", main.Name),
		zap.Stringer("strategy", s.strategy))

	r := newRun(s, prog)
	if err := r.synthesizeMain(main); err != nil {
		s.logger.Warn("synthesis failed", zap.String("module", main.Name), zap.Error(err))
		return nil, err
	}

	res := &Result{
		Circuit:    r.circ,
		MainModule: main,
		Strategy:   s.strategy,
		Statistics: Statistics{
			Gates:          r.circ.NumGates(),
			Lines:          r.circ.NumLines(),
			QuantumCost:    r.circ.QuantumCost(),
			TransistorCost: r.circ.TransistorCost(),
			Runtime:        time.Since(start),
		},
	}
	s.logger.Info("synthesis finished",
		zap.String("module", main.Name),
		zap.Int("gates", res.Statistics.Gates),
		zap.Int("lines", res.Statistics.Lines),
		zap.Duration("runtime", res.Statistics.Runtime))
	return res, nil
}

// run holds the mutable state of one Synthesize call.
type run struct {
	*Synthesizer
	prog   *syrec.Program
	circ   *circuit.Circuit
	g      *gateWriter
	policy policy

	scope    QubitOffsetScope
	inlining InliningStack
	order    *ExecutionOrderStack
	modules  []*syrec.Module
	loops    syrec.LoopValues

	free []circuit.Qubit // clean ancilla lines
	held []circuit.Qubit // ancilla lines in use by the current statement

	// reads counts how often each variable is read by the expression
	// being synthesized.
	reads map[*syrec.Variable]int
	line  int
}

func newRun(s *Synthesizer, prog *syrec.Program) *run {
	c := circuit.New()
	return &run{
		Synthesizer: s,
		prog:        prog,
		circ:        c,
		g:           &gateWriter{c: c},
		policy:      newPolicy(s.strategy),
		order:       NewExecutionOrderStack(),
		loops:       make(syrec.LoopValues),
	}
}

func (r *run) currentModule() *syrec.Module {
	if len(r.modules) == 0 {
		return nil
	}
	return r.modules[len(r.modules)-1]
}

// wrap attaches the current position to err unless it already carries one.
func (r *run) wrap(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	name := "<none>"
	if m := r.currentModule(); m != nil {
		name = m.Name
	}
	return &Error{Module: name, Line: r.line, Chain: r.inlining.Chain(), Err: err}
}

func (r *run) synthesizeMain(main *syrec.Module) error {
	r.modules = append(r.modules, main)
	line := main.Line
	r.inlining.Push(InlineFrame{Line: &line, Target: main})

	r.scope.Open()
	if err := r.allocateVariables(main.Parameters); err != nil {
		return r.wrap(err)
	}
	if err := r.allocateVariables(main.Variables); err != nil {
		return r.wrap(err)
	}
	if err := r.statements(main.Statements); err != nil {
		return r.wrap(err)
	}
	r.scope.Close()
	return nil
}

// -- line allocation ---------------------------------------------------------

func (r *run) inlineStack() []string {
	if !r.settings.InlineDebugInfo {
		return nil
	}
	return r.inlining.Signatures()
}

// allocateVariables adds the lines of vars in row-major order and binds
// each name in the current scope.
func (r *run) allocateVariables(vars []*syrec.Variable) error {
	for _, v := range vars {
		local := v.Kind == syrec.Wire || v.Kind == syrec.State
		prefix := v.Name
		if local {
			prefix = fmt.Sprintf("__q%d_%s", r.circ.NumLines(), v.Name)
		}
		first := circuit.Qubit(r.circ.NumLines())
		for elem := uint(0); elem < v.NumElements(); elem++ {
			suffix := elementSuffix(v.Dimensions, elem)
			for bit := uint(0); bit < v.Bitwidth; bit++ {
				line := circuit.Line{
					Label:   fmt.Sprintf("%s%s.%d", prefix, suffix, bit),
					Garbage: v.Kind == syrec.In || v.Kind == syrec.Wire,
				}
				if v.Kind == syrec.Out || v.Kind == syrec.Wire {
					zero := false
					line.Constant = &zero
				}
				if local {
					line.UserLabel = fmt.Sprintf("%s%s.%d", v.Name, suffix, bit)
					line.InlineStack = r.inlineStack()
				}
				r.circ.AddLine(line)
			}
		}
		if !r.scope.RegisterOrUpdate(v.Name, first) {
			return errors.Errorf("cannot bind variable %q", v.Name)
		}
	}
	return nil
}

// elementSuffix renders the row-major index elem as "[i][j]...". Scalars
// have no suffix.
func elementSuffix(dims []uint, elem uint) string {
	if len(dims) == 1 && dims[0] == 1 {
		return ""
	}
	idx := make([]uint, len(dims))
	for d := len(dims) - 1; d >= 0; d-- {
		idx[d] = elem % dims[d]
		elem /= dims[d]
	}
	var sb strings.Builder
	for _, i := range idx {
		fmt.Fprintf(&sb, "[%d]", i)
	}
	return sb.String()
}

// acquire returns n clean ancilla lines, reusing released ones first.
func (r *run) acquire(n int) []circuit.Qubit {
	out := make([]circuit.Qubit, n)
	for i := range out {
		if len(r.free) > 0 {
			out[i] = r.free[len(r.free)-1]
			r.free = r.free[:len(r.free)-1]
		} else {
			label := fmt.Sprintf("__q%d_const_0", r.circ.NumLines())
			out[i] = r.circ.AddAncilla(label, false)
			if stack := r.inlineStack(); stack != nil {
				_ = r.circ.SetInlineStack(out[i], stack)
			}
		}
	}
	r.held = append(r.held, out...)
	return out
}

// releaseTo returns every line acquired after mark to the free pool. The
// lines must be clean again.
func (r *run) releaseTo(mark int) {
	for i := len(r.held) - 1; i >= mark; i-- {
		r.free = append(r.free, r.held[i])
	}
	r.held = r.held[:mark]
}

// keep removes q from the held lines so it is never returned to the pool.
func (r *run) keep(q circuit.Qubit) {
	for i, h := range r.held {
		if h == q {
			r.held = append(r.held[:i], r.held[i+1:]...)
			return
		}
	}
}
