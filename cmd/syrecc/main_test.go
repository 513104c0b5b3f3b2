package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMany(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "inc.src")
	bad := filepath.Join(dir, "broken.src")
	require.NoError(t, os.WriteFile(good, []byte("module main(inout x(3))\n  ++= x\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("module main(in x(3))\n  ++= x\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{good, bad}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "inc.real")
	assert.Contains(t, stderr.String(), "1 of 2 programs failed")

	_, err := os.Stat(filepath.Join(dir, "inc.real"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "broken.real"))
	assert.True(t, os.IsNotExist(err))
}

func TestUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: syrecc")
}
