package synthesis

import (
	"testing"

	"gosyrec/pkg/circuit"
	"gosyrec/pkg/syrec"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQubitOffsetScope(t *testing.T) {
	var s QubitOffsetScope

	assert.False(t, s.RegisterOrUpdate("a", 0), "register without an open scope")
	assert.False(t, s.Close())
	_, ok := s.Lookup("a")
	assert.False(t, ok)

	s.Open()
	assert.False(t, s.RegisterOrUpdate("", 1), "empty identifier")
	require.True(t, s.RegisterOrUpdate("a", 3))
	require.True(t, s.RegisterOrUpdate("b", 7))

	s.Open()
	require.True(t, s.RegisterOrUpdate("a", 10))
	q, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, circuit.Qubit(10), q, "inner binding shadows")
	q, ok = s.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, circuit.Qubit(7), q, "outer binding visible")

	require.True(t, s.RegisterOrUpdate("a", 11))
	q, _ = s.Lookup("a")
	assert.Equal(t, circuit.Qubit(11), q, "update in place")
	assert.Equal(t, 2, s.Depth())

	require.True(t, s.Close())
	q, ok = s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, circuit.Qubit(3), q, "closing restores the outer binding")

	require.True(t, s.Close())
	_, ok = s.Lookup("b")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Depth())
}

func testModule(name string, params ...*syrec.Variable) *syrec.Module {
	return &syrec.Module{Name: name, Parameters: params}
}

func TestInlineFrameSignature(t *testing.T) {
	tests := []struct {
		name   string
		module *syrec.Module
		want   string
		ok     bool
	}{
		{"no parameters", testModule("main"), "module main()", true},
		{
			"single input",
			testModule("main", &syrec.Variable{Name: "a", Kind: syrec.In, Dimensions: []uint{1}, Bitwidth: 4}),
			"module main(in a[1](4))", true,
		},
		{
			"several multi dimensional",
			testModule("main",
				&syrec.Variable{Name: "a", Kind: syrec.Inout, Dimensions: []uint{2, 1}, Bitwidth: 2},
				&syrec.Variable{Name: "b", Kind: syrec.In, Dimensions: []uint{3}, Bitwidth: 3}),
			"module main(inout a[2][1](2), in b[3](3))", true,
		},
		{"missing target", nil, "", false},
		{"unnamed module", testModule(""), "", false},
		{
			"parameter without dimensions",
			testModule("main", &syrec.Variable{Name: "a", Kind: syrec.In, Bitwidth: 4}),
			"", false,
		},
		{
			"local as parameter",
			testModule("main", &syrec.Variable{Name: "a", Kind: syrec.Wire, Dimensions: []uint{1}, Bitwidth: 4}),
			"", false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := InlineFrame{Target: tc.module}.StringifySignature()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInlineFrameSignatureIgnoresBody(t *testing.T) {
	m := testModule("main", &syrec.Variable{Name: "a", Kind: syrec.Out, Dimensions: []uint{1}, Bitwidth: 1})
	m.Statements = []syrec.Statement{&syrec.SkipStmt{SourceLine: 2}}
	got, ok := InlineFrame{Target: m}.StringifySignature()
	require.True(t, ok)
	assert.Equal(t, "module main(out a[1](1))", got)
}

func TestInliningStack(t *testing.T) {
	var s InliningStack
	assert.False(t, s.Pop())
	assert.False(t, s.Push(InlineFrame{}), "frame without target")
	assert.Equal(t, 0, s.Size())

	main, callee := testModule("main"), testModule("inc")
	line, isCall := 4, false
	require.True(t, s.Push(InlineFrame{Target: main}))
	require.True(t, s.Push(InlineFrame{Line: &line, IsCall: &isCall, Target: callee}))
	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains(callee))
	assert.False(t, s.Contains(testModule("inc")), "identity, not name")

	top, ok := s.EntryAt(1)
	require.True(t, ok)
	assert.Same(t, callee, top.Target)
	_, ok = s.EntryAt(2)
	assert.False(t, ok)
	_, ok = s.EntryAt(-1)
	assert.False(t, ok)

	want := []string{"inline module main()", "uncall module inc() at line 4"}
	if diff := cmp.Diff(want, s.Chain()); diff != "" {
		t.Errorf("chain mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"module main()", "module inc()"}, s.Signatures())

	require.True(t, s.Pop())
	assert.Equal(t, 1, s.Size())
	assert.False(t, s.Contains(callee))
}

func TestExecutionOrderCombine(t *testing.T) {
	assert.Equal(t, Sequential, Sequential.Combine(Sequential))
	assert.Equal(t, InvertedAndReversed, Sequential.Combine(InvertedAndReversed))
	assert.Equal(t, InvertedAndReversed, InvertedAndReversed.Combine(Sequential))
	assert.Equal(t, Sequential, InvertedAndReversed.Combine(InvertedAndReversed))
}

func TestExecutionOrderStack(t *testing.T) {
	s := NewExecutionOrderStack()
	cur, ok := s.CurrentAggregate()
	require.True(t, ok)
	assert.Equal(t, Sequential, cur)

	assert.Equal(t, Sequential, s.AddToAggregate(Sequential), "sequential never changes the aggregate")
	assert.Equal(t, InvertedAndReversed, s.AddToAggregate(InvertedAndReversed))
	assert.Equal(t, InvertedAndReversed, s.AddToAggregate(Sequential))
	assert.Equal(t, Sequential, s.AddToAggregate(InvertedAndReversed), "two inversions cancel")

	// Popping in reverse order restores every intermediate aggregate.
	for _, want := range []ExecutionOrder{InvertedAndReversed, InvertedAndReversed, Sequential, Sequential} {
		require.True(t, s.RemoveLast())
		cur, ok := s.CurrentAggregate()
		require.True(t, ok)
		assert.Equal(t, want, cur)
	}

	require.True(t, s.RemoveLast(), "the baseline can be removed")
	_, ok = s.CurrentAggregate()
	assert.False(t, ok)
	assert.False(t, s.RemoveLast())
}

func TestExecutionOrderStackInterleaving(t *testing.T) {
	pushes := []ExecutionOrder{
		InvertedAndReversed, Sequential, InvertedAndReversed, InvertedAndReversed,
		Sequential, InvertedAndReversed, Sequential,
	}
	s := NewExecutionOrderStack()
	seen := []ExecutionOrder{Sequential}
	for _, p := range pushes {
		seen = append(seen, s.AddToAggregate(p))
	}
	for i := len(seen) - 2; i >= 0; i-- {
		require.True(t, s.RemoveLast())
		cur, ok := s.CurrentAggregate()
		require.True(t, ok)
		assert.Equal(t, seen[i], cur, "after popping back to depth %d", i)
	}
}

func TestSizeRestoredAfterPushPop(t *testing.T) {
	var scope QubitOffsetScope
	var inlining InliningStack
	order := NewExecutionOrderStack()
	m := testModule("f")

	for depth := 1; depth <= 5; depth++ {
		scope.Open()
		inlining.Push(InlineFrame{Target: m})
		order.AddToAggregate(InvertedAndReversed)
	}
	for depth := 5; depth >= 1; depth-- {
		scope.Close()
		inlining.Pop()
		order.RemoveLast()
	}
	assert.Equal(t, 0, scope.Depth())
	assert.Equal(t, 0, inlining.Size())
	cur, ok := order.CurrentAggregate()
	require.True(t, ok)
	assert.Equal(t, Sequential, cur)
}
