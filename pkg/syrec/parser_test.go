package syrec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseSource(src, Options{})
	require.NoError(t, err, "source:\n%s", src)
	return prog
}

func TestParseDeclarations(t *testing.T) {
	prog := mustParse(t, `
module main(in a(4), inout b[2][3](8), out c)
  wire w(2), x[4]
  state s(1)
  skip`)

	require.Len(t, prog.Modules, 1)
	m := prog.Modules[0]
	assert.Equal(t, "main", m.Name)
	assert.Equal(t, 2, m.Line)

	type decl struct {
		Name string
		Kind VariableKind
		Dims []uint
		Bits uint
	}
	var got []decl
	for _, v := range append(append([]*Variable{}, m.Parameters...), m.Variables...) {
		got = append(got, decl{v.Name, v.Kind, v.Dimensions, v.Bitwidth})
	}
	want := []decl{
		{"a", In, []uint{1}, 4},
		{"b", Inout, []uint{2, 3}, 8},
		{"c", Out, []uint{1}, DefaultBitwidth},
		{"w", Wire, []uint{1}, 2},
		{"x", Wire, []uint{4}, DefaultBitwidth},
		{"s", State, []uint{1}, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint(48), m.FindVariable("b").NumQubits())
}

func TestParseDefaultBitwidthOption(t *testing.T) {
	prog, err := ParseSource("module m(inout a) ++= a", Options{DefaultBitwidth: 5})
	require.NoError(t, err)
	assert.Equal(t, uint(5), prog.Modules[0].Parameters[0].Bitwidth)
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"Add", "a += b", "a += b"},
		{"Xor Nested", "a ^= (b & (c | 1))", "a ^= (b & (c | 1))"},
		{"Precedence", "a += b + c * 2", "a += (b + (c * 2))"},
		{"Relational Binds Tighter Than Logical", "c ^= a < b && b != a", "c ^= ((a < b) && (b != a))"},
		{"Shift By Number", "a ^= b << (#b - 1)", "a ^= (b << (#b - 1))"},
		{"Unary", "c ^= !(a = b)", "c ^= !(a = b)"},
		{"Bit Range", "c ^= a.1:0", "c ^= a.1:0"},
		{"Swap", "a <=> c", "a <=> c"},
		{"Increment", "++= a", "++= a"},
		{"Negate", "~= c", "~= c"},
		{"Skip", "skip", "skip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "module m(inout a(4), in b(4), out c(4))\n  " + tt.body
			prog := mustParse(t, src)
			stmts := prog.Modules[0].Statements
			require.Len(t, stmts, 1)
			if got := stmts[0].String(); got != tt.want {
				t.Errorf("statement: expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseForLoops(t *testing.T) {
	prog := mustParse(t, `
module m(inout a[4](4))
  for $i = 0 to 4 step 1 do
    for 2 do ++= a[$i] rof
  rof;
  for $j = 3 to 0 step -1 do --= a[$j] rof`)

	stmts := prog.Modules[0].Statements
	require.Len(t, stmts, 2)

	outer, ok := stmts[0].(*ForStmt)
	require.True(t, ok, "expected *ForStmt, got %T", stmts[0])
	assert.Equal(t, "i", outer.LoopVariable)
	assert.Equal(t, "0", outer.From.String())
	assert.Equal(t, "4", outer.To.String())
	assert.False(t, outer.NegativeStep)

	inner, ok := outer.Body[0].(*ForStmt)
	require.True(t, ok)
	assert.Empty(t, inner.LoopVariable)
	assert.Nil(t, inner.From)
	assert.Equal(t, "2", inner.To.String())

	down := stmts[1].(*ForStmt)
	assert.True(t, down.NegativeStep)
	assert.Equal(t, "1", down.Step.String())
}

func TestParseIf(t *testing.T) {
	prog := mustParse(t, `
module m(in c(1), inout a(2))
  if c then ++= a else --= a fi c;
  if c then ~= a fi c`)

	stmts := prog.Modules[0].Statements
	first := stmts[0].(*IfStmt)
	assert.Len(t, first.Then, 1)
	assert.Len(t, first.Else, 1)
	assert.Equal(t, "c", first.FiCondition.String())

	second := stmts[1].(*IfStmt)
	assert.Len(t, second.Then, 1)
	assert.Empty(t, second.Else)
}

func TestParseCallResolution(t *testing.T) {
	prog := mustParse(t, `
module main(inout x(4), inout y(2))
  call incr(x);
  uncall incr(y)

module incr(inout a(4))
  ++= a

module incr(inout a(2))
  ++= a`)

	stmts := prog.Modules[0].Statements
	call := stmts[0].(*CallStmt)
	uncall := stmts[1].(*UncallStmt)
	assert.Same(t, prog.Modules[1], call.Target)
	assert.Same(t, prog.Modules[2], uncall.Target)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"Unknown Variable", "module m(inout a)\n  a += b", 2},
		{"Duplicate Declaration", "module m(inout a, in a) skip", 1},
		{"Assign To Input", "module m(in a, inout b)\n  a += b", 2},
		{"Swap Input", "module m(in a, inout b)\n  b <=> a", 2},
		{"Unknown Loop Variable", "module m(inout a[2])\n  ++= a[$i]", 2},
		{"Loop Variable Reused", "module m(inout a)\n  for $i = 0 to 2 do\n for $i = 0 to 2 do ++= a rof rof", 3},
		{"Missing Index", "module m(inout a[2])\n  ++= a", 2},
		{"Wrong Index Count", "module m(inout a[2][2])\n  ++= a[0]", 2},
		{"Constant Index Out Of Range", "module m(inout a[2])\n  ++= a[2]", 2},
		{"Bit Out Of Range", "module m(inout a(2))\n  ~= a.2", 2},
		{"Zero Bitwidth", "module m(inout a(0)) skip", 1},
		{"Zero Dimension", "module m(inout a[0]) skip", 1},
		{"Missing Semicolon", "module m(inout a)\n  ++= a\n  ++= a", 3},
		{"Wire Parameter", "module m(wire a) skip", 1},
		{"Undeclared Module", "module m(inout a)\n  call f(a)", 2},
		{"No Matching Overload", "module m(inout a(2))\n  call f(a)\nmodule f(inout b(3)) skip", 2},
		{"Ambiguous Call", "module m(inout a)\n  call f(a)\nmodule f(inout b) skip\nmodule f(inout c) skip", 2},
		{"Input Argument To Inout Parameter", "module m(in a)\n  call f(a)\nmodule f(inout b) skip", 2},
		{"Duplicate Argument", "module m(inout a)\n  call f(a, a)\nmodule f(inout b, inout c) skip", 2},
		{"Missing Statement", "module m(inout a)", 1},
		{"Lhs Read In Rhs", "module m(inout a[2], in b)\n  a[0] += (b + a[1])", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource(tt.src, Options{})
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			if perr.Line != tt.line {
				t.Errorf("line: expected %d, got %d (%v)", tt.line, perr.Line, err)
			}
		})
	}
}

func TestParseErrorSnippet(t *testing.T) {
	_, err := ParseSource("module m(inout a)\n  a += nope", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "|> a += nope")
}

func TestProgramStringRoundTrip(t *testing.T) {
	src := `
module main(inout a[2](4), in b(4))
  wire t(4)
  for $i = 0 to 2 do
    a[$i] += (b ^ 3)
  rof;
  if (a[0] > b) then
    a[1].0:1 <=> t.1:0
  else
    skip
  fi (a[0] > b)`

	first := mustParse(t, src)
	second := mustParse(t, first.String())
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("printed program is not stable (-first +second):\n%s", diff)
	}
}
