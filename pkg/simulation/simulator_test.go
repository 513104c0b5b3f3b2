package simulation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosyrec/pkg/circuit"
)

func TestNBitValues(t *testing.T) {
	v, err := FromString("0110")
	require.NoError(t, err)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, uint64(6), v.Uint())
	assert.True(t, v.Get(1))
	assert.False(t, v.Get(9))

	assert.True(t, v.Flip(0))
	assert.False(t, v.Flip(4))
	assert.Equal(t, "1110", v.String())
	assert.True(t, v.Equal(FromUint(4, 7)))
	assert.False(t, v.Equal(FromUint(5, 7)))

	c := v.Clone()
	c.Set(0, false)
	assert.True(t, v.Get(0), "clone must not alias")

	_, err = FromString("01x")
	assert.Error(t, err)
}

// halfAdder computes a XOR b into b and a AND b into c.
func halfAdder(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New()
	a := c.AddInput("a", false)
	b := c.AddInput("b", false)
	carry := c.AddAncilla("c", false)
	require.NoError(t, c.AddToffoli(a, b, carry))
	require.NoError(t, c.AddCnot(a, b))
	return c
}

func TestSimulateHalfAdder(t *testing.T) {
	c := halfAdder(t)
	tests := []struct {
		in   uint64
		want uint64
	}{
		{0, 0},
		{1, 0b011},
		{2, 0b010},
		{3, 0b101},
	}
	for _, tt := range tests {
		out, err := Simulate(c, FromUint(2, tt.in))
		require.NoError(t, err)
		if out.Uint() != tt.want {
			t.Errorf("input %d: expected %03b, got %03b", tt.in, tt.want, out.Uint())
		}
		back, err := SimulateReverse(c, out)
		require.NoError(t, err)
		if back.Uint() != tt.in {
			t.Errorf("input %d: reverse gave %d", tt.in, back.Uint())
		}
	}
}

func TestSimulateFredkin(t *testing.T) {
	c := circuit.New()
	ctl := c.AddInput("ctl", false)
	x := c.AddInput("x", false)
	y := c.AddInput("y", false)
	c.ActivateControlScope()
	require.NoError(t, c.RegisterControl(ctl))
	require.NoError(t, c.AddFredkin(x, y))

	out, err := Simulate(c, FromUint(3, 0b011))
	require.NoError(t, err)
	assert.Equal(t, uint64(0b101), out.Uint())

	out, err = Simulate(c, FromUint(3, 0b010))
	require.NoError(t, err)
	assert.Equal(t, uint64(0b010), out.Uint())
}

func TestInputTooWide(t *testing.T) {
	_, err := Simulate(halfAdder(t), New(4))
	assert.True(t, errors.Is(err, ErrInputTooWide))
}

func TestStepAndSnapshot(t *testing.T) {
	c := halfAdder(t)
	s, err := NewSimulator(c, FromUint(2, 3), Forward)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Current())
	require.True(t, s.Step())
	assert.Equal(t, "111", s.State().String())

	data, err := s.MarshalSnapshot()
	require.NoError(t, err)

	s.Run()
	assert.True(t, s.Done())
	assert.False(t, s.Step())
	assert.Equal(t, -1, s.Current())

	require.NoError(t, s.RestoreSnapshot(data))
	assert.Equal(t, 1, s.PC())
	s.Run()
	assert.Equal(t, "101", s.State().String())

	s.Reset()
	assert.Equal(t, "110", s.State().String())

	other := circuit.New()
	other.AddInput("z", false)
	o, err := NewSimulator(other, New(1), Forward)
	require.NoError(t, err)
	assert.Error(t, o.RestoreSnapshot(data))
}
