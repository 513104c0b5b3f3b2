package config

import (
	"os"
	"path/filepath"
	"testing"

	"gosyrec/pkg/synthesis"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gosyrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	strategy, err := cfg.Strategy()
	require.NoError(t, err)
	assert.Equal(t, synthesis.CostAware, strategy)

	settings, err := cfg.SynthesisSettings()
	require.NoError(t, err)
	assert.Nil(t, settings.MainModule)
	assert.Equal(t, synthesis.BitwiseAnd, settings.Truncation)
	assert.Equal(t, uint(0), cfg.ParserOptions().DefaultBitwidth)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
synthesis:
  mainModule: adder
  strategy: lineAware
  truncation: modulo
  inlineDebugInfo: true
parser:
  defaultBitwidth: 8
logger:
  path: /tmp/gosyrec-logs
  maxSize: 10
cacheSize: 16
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	strategy, err := cfg.Strategy()
	require.NoError(t, err)
	assert.Equal(t, synthesis.LineAware, strategy)

	settings, err := cfg.SynthesisSettings()
	require.NoError(t, err)
	require.NotNil(t, settings.MainModule)
	assert.Equal(t, "adder", *settings.MainModule)
	assert.Equal(t, synthesis.Modulo, settings.Truncation)
	assert.True(t, settings.InlineDebugInfo)

	assert.Equal(t, uint(8), cfg.ParserOptions().DefaultBitwidth)
	require.NotNil(t, cfg.Logger)
	assert.Equal(t, 10, cfg.Logger.MaxSize)
	assert.Equal(t, 16, cfg.CacheSize)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "synthesis: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "synthesis:\n  strategy: fastest\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "synthesis:\n  truncation: round\n"))
	assert.True(t, errors.Is(err, synthesis.ErrInvalidTruncation))
}

func TestCreateLogger(t *testing.T) {
	cfg := &Config{}
	logger, closer, err := cfg.CreateLogger(true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closer.Close())

	dir := t.TempDir()
	cfg = &Config{LogFile: "test.log", Logger: &LogConfig{Path: dir}}
	logger, closer, err = cfg.CreateLogger(false)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Sync())
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestOverride(t *testing.T) {
	cfg := &Config{Synthesis: SynthesisConfig{Strategy: "costAware", MainModule: "main"}}
	require.NoError(t, cfg.Override("", "lineAware", ""))
	assert.Equal(t, "main", cfg.Synthesis.MainModule)

	s, err := cfg.Synthesizer(nil)
	require.NoError(t, err)
	assert.Equal(t, synthesis.LineAware, s.Strategy())
	require.NotNil(t, s.Settings().MainModule)
	assert.Equal(t, "main", *s.Settings().MainModule)

	assert.Error(t, cfg.Override("", "", "round"))
}
