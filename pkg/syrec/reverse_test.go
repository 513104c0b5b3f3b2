package syrec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse(t *testing.T) {
	prog := mustParse(t, `
module main(inout a(4), inout b(4))
  a += b;
  a -= b;
  a ^= b;
  ++= a;
  --= a;
  ~= a;
  a <=> b;
  call f(a);
  uncall f(b);
  skip

module f(inout x(4))
  ++= x`)

	want := []string{
		"a -= b",
		"a += b",
		"a ^= b",
		"--= a",
		"++= a",
		"~= a",
		"a <=> b",
		"uncall f(a)",
		"call f(b)",
		"skip",
	}
	stmts := prog.Modules[0].Statements
	require.Len(t, stmts, len(want))
	for i, s := range stmts {
		r := Reverse(s)
		if got := r.String(); got != want[i] {
			t.Errorf("Reverse(%s): expected %q, got %q", s, want[i], got)
		}
		assert.Equal(t, s.Line(), r.Line(), "line of %s", s)
	}

	call := Reverse(stmts[7]).(*UncallStmt)
	assert.Same(t, prog.Modules[1], call.Target)
}

func TestReverseCompound(t *testing.T) {
	prog := mustParse(t, `
module main(inout a(4), in c(1))
  if c then
    ++= a;
    a += c
  else
    ~= a
  fi (c = 0);
  for $i = 0 to 3 do
    ++= a;
    a ^= $i
  rof`)

	stmts := ReverseStatements(prog.Modules[0].Statements)
	require.Len(t, stmts, 2)

	loop, ok := stmts[0].(*ForStmt)
	require.True(t, ok, "expected the loop first, got %T", stmts[0])
	assert.True(t, loop.Reversed)
	assert.Equal(t, "a ^= $i", loop.Body[0].String())
	assert.Equal(t, "--= a", loop.Body[1].String())

	cond, ok := stmts[1].(*IfStmt)
	require.True(t, ok)
	assert.Equal(t, "(c = 0)", cond.Condition.String())
	assert.Equal(t, "c", cond.FiCondition.String())
	assert.Equal(t, []string{"a -= c", "--= a"}, []string{cond.Then[0].String(), cond.Then[1].String()})

	twice := ReverseStatements(stmts)
	assert.Equal(t, "c", twice[0].(*IfStmt).Condition.String())
	assert.False(t, twice[1].(*ForStmt).Reversed)
}
