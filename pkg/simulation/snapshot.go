package simulation

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Snapshot is the human readable state of a paused simulation.
type Snapshot struct {
	Lines     int    `yaml:"lines"`
	Gates     int    `yaml:"gates"`
	Reverse   bool   `yaml:"reverse"`
	PC        int    `yaml:"pc"`
	Input     string `yaml:"input"`
	State     string `yaml:"state"`
	NextGate  int    `yaml:"nextGate"`
	Completed bool   `yaml:"completed"`
}

// Snapshot captures the current simulation state.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Lines:     s.Circuit.NumLines(),
		Gates:     s.Circuit.NumGates(),
		Reverse:   s.Direction == Reverse,
		PC:        s.pc,
		Input:     s.input.String(),
		State:     s.state.String(),
		NextGate:  s.Current(),
		Completed: s.Done(),
	}
}

// MarshalSnapshot serialises the current state as YAML.
func (s *Simulator) MarshalSnapshot() ([]byte, error) {
	out, err := yaml.Marshal(s.Snapshot())
	return out, errors.Wrap(err, "marshal snapshot")
}

// RestoreSnapshot resumes a simulation saved with MarshalSnapshot. The
// snapshot must describe the same circuit shape.
func (s *Simulator) RestoreSnapshot(data []byte) error {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return errors.Wrap(err, "unmarshal snapshot")
	}
	if snap.Lines != s.Circuit.NumLines() || snap.Gates != s.Circuit.NumGates() {
		return errors.Errorf("snapshot of a %d line, %d gate circuit does not match %d lines, %d gates",
			snap.Lines, snap.Gates, s.Circuit.NumLines(), s.Circuit.NumGates())
	}
	if snap.PC < 0 || snap.PC > snap.Gates {
		return errors.Errorf("snapshot program counter %d out of range", snap.PC)
	}

	input, err := FromString(snap.Input)
	if err != nil {
		return errors.Wrap(err, "snapshot input")
	}
	state, err := FromString(snap.State)
	if err != nil {
		return errors.Wrap(err, "snapshot state")
	}
	if input.Len() != snap.Lines || state.Len() != snap.Lines {
		return errors.New("snapshot bit vectors do not match the line count")
	}

	s.input = input
	s.state = state
	s.pc = snap.PC
	s.Direction = Forward
	if snap.Reverse {
		s.Direction = Reverse
	}
	return nil
}
