package config

import (
	"os"

	"gosyrec/pkg/synthesis"
	"gosyrec/pkg/syrec"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SynthesisConfig selects how programs are lowered to circuits.
type SynthesisConfig struct {
	MainModule      string `yaml:"mainModule"`
	Strategy        string `yaml:"strategy"`
	Truncation      string `yaml:"truncation"`
	InlineDebugInfo bool   `yaml:"inlineDebugInfo"`
}

type ParserConfig struct {
	DefaultBitwidth uint `yaml:"defaultBitwidth"`
}

// Config is the on-disk configuration shared by the command line tools.
// The zero value is valid.
type Config struct {
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Parser    ParserConfig    `yaml:"parser"`
	LogFile   string          `yaml:"logFile"`
	Logger    *LogConfig      `yaml:"logger"`
	CacheSize int             `yaml:"cacheSize"`
}

// Load reads a YAML configuration file. An empty path returns the zero
// configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Override replaces the synthesis settings given on the command line.
// Empty values keep the configured ones.
func (c *Config) Override(mainModule, strategy, truncation string) error {
	if mainModule != "" {
		c.Synthesis.MainModule = mainModule
	}
	if strategy != "" {
		c.Synthesis.Strategy = strategy
	}
	if truncation != "" {
		c.Synthesis.Truncation = truncation
	}
	return c.Validate()
}

// Synthesizer builds a synthesizer from the configuration.
func (c *Config) Synthesizer(logger *zap.Logger) (*synthesis.Synthesizer, error) {
	strategy, err := c.Strategy()
	if err != nil {
		return nil, err
	}
	settings, err := c.SynthesisSettings()
	if err != nil {
		return nil, err
	}
	return synthesis.NewSynthesizer(strategy, settings, logger), nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := c.Strategy(); err != nil {
		return err
	}
	_, err := c.SynthesisSettings()
	return err
}

// Strategy returns the configured strategy, cost-aware by default.
func (c *Config) Strategy() (synthesis.Strategy, error) {
	if c.Synthesis.Strategy == "" {
		return synthesis.CostAware, nil
	}
	return synthesis.ParseStrategy(c.Synthesis.Strategy)
}

// SynthesisSettings converts the synthesis section.
func (c *Config) SynthesisSettings() (synthesis.Settings, error) {
	s := synthesis.Settings{InlineDebugInfo: c.Synthesis.InlineDebugInfo}
	if c.Synthesis.Truncation != "" {
		t, err := synthesis.ParseTruncation(c.Synthesis.Truncation)
		if err != nil {
			return s, err
		}
		s.Truncation = t
	}
	if c.Synthesis.MainModule != "" {
		s = s.WithMainModule(c.Synthesis.MainModule)
	}
	return s, nil
}

func (c *Config) ParserOptions() syrec.Options {
	return syrec.Options{DefaultBitwidth: c.Parser.DefaultBitwidth}
}
