package circuit

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCircuit(t *testing.T, lines int) *Circuit {
	t.Helper()
	c := New()
	for i := 0; i < lines; i++ {
		c.AddInput(string(rune('a'+i)), false)
	}
	return c
}

func TestAddGateValidation(t *testing.T) {
	c := newCircuit(t, 3)

	require.NoError(t, c.AddToffoli(0, 1, 2))
	assert.True(t, errors.Is(c.AddCnot(1, 1), ErrTargetIsControl))
	assert.True(t, errors.Is(c.AddNot(7), ErrUnknownQubit))
	assert.True(t, errors.Is(c.AddCnot(9, 0), ErrUnknownQubit))
	assert.True(t, errors.Is(c.AddFredkin(1, 1), ErrDuplicateTarget))
	assert.Equal(t, 1, c.NumGates(), "rejected gates must not be appended")
}

func TestControlPropagation(t *testing.T) {
	c := newCircuit(t, 4)

	assert.True(t, errors.Is(c.RegisterControl(0), ErrNoControlScope))

	c.ActivateControlScope()
	require.NoError(t, c.RegisterControl(0))
	require.NoError(t, c.AddNot(3))

	c.ActivateControlScope()
	require.NoError(t, c.RegisterControl(1))
	require.NoError(t, c.DeregisterControl(0))
	require.NoError(t, c.AddNot(3))
	assert.Equal(t, []Qubit{1}, c.ActiveControls())
	require.True(t, c.DeactivateControlScope())

	assert.Equal(t, []Qubit{0}, c.ActiveControls(), "outer registration is visible again")
	require.NoError(t, c.AddCnot(2, 3))
	require.True(t, c.DeactivateControlScope())
	assert.False(t, c.DeactivateControlScope())

	require.NoError(t, c.AddNot(3))

	want := [][]Qubit{{0}, {1}, {0, 2}, nil}
	for i, g := range c.Gates {
		if len(want[i]) == 0 {
			assert.Empty(t, g.Controls, "gate %d", i)
			continue
		}
		assert.Equal(t, want[i], g.Controls, "gate %d", i)
	}
}

func TestPropagatedControlCannotBeTarget(t *testing.T) {
	c := newCircuit(t, 2)
	c.ActivateControlScope()
	require.NoError(t, c.RegisterControl(0))
	assert.True(t, errors.Is(c.AddNot(0), ErrTargetIsControl))
}

func TestGlobalAnnotations(t *testing.T) {
	c := newCircuit(t, 2)
	c.SetGlobalAnnotation(LineNumberAnnotation, "4")
	require.NoError(t, c.AddNot(0))
	c.RemoveGlobalAnnotation(LineNumberAnnotation)
	require.NoError(t, c.AddNot(1))

	assert.Equal(t, "4", c.Gates[0].Annotations[LineNumberAnnotation])
	assert.Nil(t, c.Gates[1].Annotations)
}

func TestReplayReversed(t *testing.T) {
	c := newCircuit(t, 3)
	require.NoError(t, c.AddNot(0))
	require.NoError(t, c.AddCnot(0, 1))
	require.NoError(t, c.AddToffoli(0, 1, 2))

	c.ActivateControlScope()
	require.NoError(t, c.RegisterControl(2))
	require.NoError(t, c.ReplayReversed(1, 3))
	c.DeactivateControlScope()

	got := make([]string, 0, len(c.Gates))
	for _, g := range c.Gates {
		got = append(got, g.String())
	}
	want := []string{
		"toffoli(;0)",
		"toffoli(0;1)",
		"toffoli(0,1;2)",
		"toffoli(0,1;2)",
		"toffoli(0;1)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("replayed gates mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, errors.Is(c.ReplayReversed(4, 2), ErrInvalidGateRange))
	assert.True(t, errors.Is(c.ReplayReversed(0, 99), ErrInvalidGateRange))
}

func TestAncillaWithInitialOne(t *testing.T) {
	c := newCircuit(t, 1)
	q := c.AddAncilla("__q1_const_1", true)
	require.Equal(t, Qubit(1), q)
	require.Len(t, c.Gates, 1)
	assert.Equal(t, []Qubit{q}, c.Gates[0].Targets)
	assert.True(t, c.Lines[q].IsConstant())
	assert.False(t, *c.Lines[q].Constant)
}

func TestCosts(t *testing.T) {
	c := newCircuit(t, 6)
	require.NoError(t, c.AddNot(0))
	require.NoError(t, c.AddCnot(0, 1))
	require.NoError(t, c.AddToffoli(0, 1, 2))
	require.NoError(t, c.AddMct([]Qubit{0, 1, 2}, 3))
	require.NoError(t, c.AddFredkin(4, 5))

	assert.Equal(t, uint64(1+1+5+13+3), c.QuantumCost())
	assert.Equal(t, uint64(0+8+16+24+8), c.TransistorCost())
}

func TestRealRoundTrip(t *testing.T) {
	c := New()
	c.AddInput("a", false)
	c.AddInput("b[1].0", true)
	c.AddAncilla("__q2_const_0", false)
	c.SetGlobalAnnotation(LineNumberAnnotation, "3")
	require.NoError(t, c.AddToffoli(0, 1, 2))
	c.RemoveGlobalAnnotation(LineNumberAnnotation)
	require.NoError(t, c.AddFredkin(0, 1))

	var sb strings.Builder
	require.NoError(t, c.WriteReal(&sb))
	text := sb.String()
	assert.Contains(t, text, ".constants --0\n")
	assert.Contains(t, text, ".garbage -1-\n")
	assert.Contains(t, text, "t3 a b[1].0 __q2_const_0 # lno=3\n")
	assert.Contains(t, text, "f2 a b[1].0\n")

	back, err := ReadReal(text)
	require.NoError(t, err)
	assert.Equal(t, c.Labels(), back.Labels())
	require.Len(t, back.Gates, 2)
	assert.Equal(t, c.Gates[0].Controls, back.Gates[0].Controls)
	assert.Equal(t, "3", back.Gates[0].Annotations[LineNumberAnnotation])
	assert.Equal(t, Fredkin, back.Gates[1].Kind)
	assert.True(t, back.Lines[1].Garbage)
	assert.True(t, back.Lines[2].IsConstant())
}

func TestReadRealErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing begin", ".variables a\n.end\n"},
		{"missing end", ".variables a\n.begin\nt1 a\n"},
		{"unknown variable", ".variables a\n.begin\nt2 a b\n.end\n"},
		{"bad arity", ".variables a b\n.begin\nt3 a b\n.end\n"},
		{"unsupported gate", ".variables a b\n.begin\nv2 a b\n.end\n"},
		{"constants length", ".variables a b\n.constants 0\n.begin\n.end\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadReal(tt.src)
			if err == nil {
				t.Errorf("%s: expected error, got nil", tt.name)
			}
		})
	}
}
