package synthesis

import (
	"strings"
	"testing"

	"gosyrec/pkg/syrec"

	"github.com/markkurossi/tabulate"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{CostAware, LineAware} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseStrategy("LINE-AWARE")
	require.NoError(t, err)
	assert.Equal(t, LineAware, got)

	_, err = ParseStrategy("fastest")
	assert.Error(t, err)
}

func TestTruncation(t *testing.T) {
	tests := []struct {
		value uint64
		width uint
		want  uint64
	}{
		{10, 3, 2},
		{7, 3, 7},
		{8, 3, 0},
		{0xffff, 4, 15},
		{5, 1, 1},
		{^uint64(0), 64, ^uint64(0)},
		{^uint64(0), 70, ^uint64(0)},
	}
	for _, tr := range []Truncation{BitwiseAnd, Modulo} {
		for _, tc := range tests {
			got, err := tr.Apply(tc.value, tc.width)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "%s of %d to %d bits", tr, tc.value, tc.width)
		}
	}

	_, err := Truncation(7).Apply(1, 1)
	assert.True(t, errors.Is(err, ErrInvalidTruncation))

	tr, err := ParseTruncation("modulo")
	require.NoError(t, err)
	assert.Equal(t, Modulo, tr)
	_, err = ParseTruncation("round")
	assert.True(t, errors.Is(err, ErrInvalidTruncation))
}

func TestSynthesizeRejectsInvalidSettings(t *testing.T) {
	prog, err := syrec.ParseSource("module main(inout a(2)) ++= a", syrec.Options{})
	require.NoError(t, err)

	_, err = NewSynthesizer(CostAware, Settings{Truncation: Truncation(9)}, nil).Synthesize(prog)
	assert.True(t, errors.Is(err, ErrInvalidTruncation))

	_, err = NewSynthesizer(CostAware, Settings{}.WithMainModule("1abc"), nil).Synthesize(prog)
	assert.True(t, errors.Is(err, ErrInvalidMainModule))

	_, err = NewSynthesizer(CostAware, Settings{}.WithMainModule(""), nil).Synthesize(prog)
	assert.True(t, errors.Is(err, ErrInvalidMainModule))

	_, err = NewSynthesizer(CostAware, Settings{}, nil).Synthesize(&syrec.Program{})
	assert.True(t, errors.Is(err, ErrNoModules))
}

const decrSub = `module decr(inout x(2))
  --= x

module sub(inout x(2))
  x -= 1`

func TestSelectMainModule(t *testing.T) {
	prog, err := syrec.ParseSource(decrSub, syrec.Options{})
	require.NoError(t, err)

	m, err := SelectMainModule(prog, nil)
	require.NoError(t, err)
	assert.Equal(t, "sub", m.Name, "last declared module")

	name := "decr"
	m, err = SelectMainModule(prog, &name)
	require.NoError(t, err)
	assert.Equal(t, "decr", m.Name)

	name = "a"
	_, err = SelectMainModule(prog, &name)
	assert.True(t, errors.Is(err, ErrModuleNotFound))

	name = "_ok_name2"
	_, err = SelectMainModule(prog, &name)
	assert.True(t, errors.Is(err, ErrModuleNotFound), "valid identifier without module")

	for _, bad := range []string{"9lives", "main()", "a b", "-x"} {
		_, err = SelectMainModule(prog, &bad)
		assert.True(t, errors.Is(err, ErrInvalidMainModule), bad)
	}

	withMain, err := syrec.ParseSource("module main(inout x(2)) ++= x\n"+decrSub, syrec.Options{})
	require.NoError(t, err)
	m, err = SelectMainModule(withMain, nil)
	require.NoError(t, err)
	assert.Equal(t, "main", m.Name, "main wins over the last module")
}

func TestCache(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)
	s := NewSynthesizer(CostAware, Settings{}, nil)
	src := "module main(inout a(2)) ++= a"

	first, hit, err := c.Compile(src, syrec.Options{}, s)
	require.NoError(t, err)
	assert.False(t, hit)
	again, hit, err := c.Compile(src, syrec.Options{}, s)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, first, again)

	other, hit, err := c.Compile(src, syrec.Options{}, NewSynthesizer(LineAware, Settings{}, nil))
	require.NoError(t, err)
	assert.False(t, hit, "strategy is part of the key")
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, c.Len())

	_, _, err = c.Compile("module main(in a(2)) ++= a", syrec.Options{}, s)
	assert.Error(t, err)
	assert.Equal(t, 2, c.Len(), "failures are not cached")

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestStatisticsTable(t *testing.T) {
	res, err := CompileSource("module main(in a(2), out b(2)) b ^= ~a", syrec.Options{}, NewSynthesizer(CostAware, Settings{}, nil))
	require.NoError(t, err)

	out := StatisticsTable(res, tabulate.CSV).String()
	assert.True(t, strings.Contains(out, "lines,6"), out)
	assert.True(t, strings.Contains(out, "strategy,costAware"), out)

	lines := LinesTable(res.Circuit, tabulate.CSV).String()
	assert.Contains(t, lines, "a.0")
	assert.Contains(t, lines, "__q4_const_0")
}
