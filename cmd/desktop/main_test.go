package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gosyrec/pkg/config"
	"gosyrec/pkg/simulation"
)

const incrementTwice = "module main(inout x(2))\n  ++= x;\n  ++= x\n"

func testViewer(t *testing.T, src, bits string) *viewer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.src")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	input, err := simulation.FromString(bits)
	require.NoError(t, err)
	v, err := newViewer(&config.Config{}, zap.NewNop(), path, input)
	require.NoError(t, err)
	return v
}

func value(v *viewer) uint64 {
	state := v.sim.State()
	var out uint64
	for i, label := range []string{"x.0", "x.1"} {
		q, ok := v.result.Circuit.LineByLabel(label)
		if ok && state.Get(int(q)) {
			out |= 1 << uint(i)
		}
	}
	return out
}

func TestViewerAnimation(t *testing.T) {
	v := testViewer(t, incrementTwice, "10")
	require.Greater(t, v.result.Circuit.NumGates(), 0)

	v.toggleRun()
	for i := 0; i < ticksPerGate*(v.result.Circuit.NumGates()+1); i++ {
		v.tick()
	}
	assert.True(t, v.sim.Done())
	assert.False(t, v.running)
	assert.Equal(t, "done", v.status)
	assert.Equal(t, uint64(3), value(v))

	require.NoError(t, v.reverse())
	for v.sim.Step() {
	}
	assert.Equal(t, uint64(1), value(v), "reverse run restores the input")

	v.reset()
	assert.Equal(t, 0, v.sim.PC())
}

func TestViewerSnapshot(t *testing.T) {
	v := testViewer(t, incrementTwice, "")
	v.step()
	pc := v.sim.PC()
	state := v.sim.State()
	require.NoError(t, v.saveSnapshot())

	v.reset()
	require.NoError(t, v.restoreSnapshot())
	assert.Equal(t, pc, v.sim.PC())
	assert.True(t, state.Equal(v.sim.State()))
}

func TestViewerReloadUsesCache(t *testing.T) {
	v := testViewer(t, incrementTwice, "")
	first := v.result
	require.NoError(t, v.reload())
	assert.Same(t, first, v.result)

	require.NoError(t, os.WriteFile(v.path, []byte("module main(inout x(2))\n  --= x\n"), 0o644))
	require.NoError(t, v.reload())
	assert.NotSame(t, first, v.result)
}

func TestViewerRelayout(t *testing.T) {
	v := testViewer(t, incrementTwice, "")
	v.relayout(200)
	narrow := v.layout.GatesPerBand
	v.relayout(2000)
	assert.Greater(t, v.layout.GatesPerBand, narrow)
	assert.Equal(t, v.result.Circuit.NumLines(), v.layout.Lines)
}

func TestNewViewerErrors(t *testing.T) {
	_, err := newViewer(&config.Config{}, zap.NewNop(), filepath.Join(t.TempDir(), "missing.src"), simulation.New(0))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.src")
	require.NoError(t, os.WriteFile(path, []byte("module main(in x(2)) ++= x"), 0o644))
	_, err = newViewer(&config.Config{}, zap.NewNop(), path, simulation.New(0))
	assert.Error(t, err)
}
