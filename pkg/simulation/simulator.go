package simulation

import (
	"github.com/pkg/errors"

	"gosyrec/pkg/circuit"
)

// ErrInputTooWide is returned when an input has more bits than the circuit has lines.
var ErrInputTooWide = errors.New("input has more bits than the circuit has lines")

// Direction selects the order in which a Simulator applies gates.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Simulator applies the gates of a circuit one at a time to a classical
// bit vector. Every gate is self-inverse, so running in Reverse from the
// output of a Forward run restores the input.
type Simulator struct {
	Circuit   *circuit.Circuit
	Direction Direction

	state NBitValues
	input NBitValues
	pc    int
}

// NewSimulator prepares a simulation of c over input. Inputs shorter than
// the line count are zero extended.
func NewSimulator(c *circuit.Circuit, input NBitValues, dir Direction) (*Simulator, error) {
	if input.Len() > c.NumLines() {
		return nil, errors.Wrapf(ErrInputTooWide, "%d bits for %d lines", input.Len(), c.NumLines())
	}
	s := &Simulator{Circuit: c, Direction: dir}
	s.input = New(c.NumLines())
	for i := 0; i < input.Len(); i++ {
		s.input.Set(i, input.Get(i))
	}
	s.Reset()
	return s, nil
}

// Reset restores the initial state and rewinds to the first gate.
func (s *Simulator) Reset() {
	s.state = s.input.Clone()
	s.pc = 0
}

// PC returns the number of gates applied so far.
func (s *Simulator) PC() int { return s.pc }

// Done reports whether every gate has been applied.
func (s *Simulator) Done() bool { return s.pc >= len(s.Circuit.Gates) }

// State returns a copy of the current bit vector.
func (s *Simulator) State() NBitValues { return s.state.Clone() }

// Current returns the index of the gate the next Step applies, or -1 when done.
func (s *Simulator) Current() int {
	if s.Done() {
		return -1
	}
	if s.Direction == Reverse {
		return len(s.Circuit.Gates) - 1 - s.pc
	}
	return s.pc
}

// Step applies the next gate. It returns false once the circuit is exhausted.
func (s *Simulator) Step() bool {
	idx := s.Current()
	if idx < 0 {
		return false
	}
	apply(s.state, s.Circuit.Gates[idx])
	s.pc++
	return true
}

// Run applies all remaining gates.
func (s *Simulator) Run() {
	for s.Step() {
	}
}

func apply(state NBitValues, g circuit.Gate) {
	for _, c := range g.Controls {
		if !state.Get(int(c)) {
			return
		}
	}
	switch g.Kind {
	case circuit.Toffoli:
		state.Flip(int(g.Targets[0]))
	case circuit.Fredkin:
		a, b := int(g.Targets[0]), int(g.Targets[1])
		va, vb := state.Get(a), state.Get(b)
		state.Set(a, vb)
		state.Set(b, va)
	}
}

// Simulate runs c forward over input and returns the final state.
func Simulate(c *circuit.Circuit, input NBitValues) (NBitValues, error) {
	s, err := NewSimulator(c, input, Forward)
	if err != nil {
		return NBitValues{}, err
	}
	s.Run()
	return s.state, nil
}

// SimulateReverse runs c backwards over output and returns the state that
// would have produced it.
func SimulateReverse(c *circuit.Circuit, output NBitValues) (NBitValues, error) {
	s, err := NewSimulator(c, output, Reverse)
	if err != nil {
		return NBitValues{}, err
	}
	s.Run()
	return s.state, nil
}
