package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "gosyrec.log"

type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

// CreateLogger returns a console logger, or a rotating file logger when a
// log file or logger section is configured. The closer flushes the file.
func (c *Config) CreateLogger(debug bool) (*zap.Logger, io.Closer, error) {
	if c.LogFile != "" || c.Logger != nil {
		lc := LogConfig{}
		if c.Logger != nil {
			lc = *c.Logger
		}
		logger, closer, err := newRotatingFileLogger(debug, lc, c.LogFile)
		return logger, closer, errors.Wrap(err, "create logger")
	}

	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	return logger, io.NopCloser(nil), errors.Wrap(err, "create logger")
}

func newRotatingFileLogger(debug bool, lc LogConfig, filename string) (*zap.Logger, io.Closer, error) {
	dir := lc.Path
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	if filename == "" {
		filename = defaultLogFile
	}

	rot := &lumberjack.Logger{
		Filename:   filepath.Join(dir, filename),
		MaxSize:    orDefault(lc.MaxSize, 50),
		MaxBackups: orDefault(lc.MaxBackups, 5),
		MaxAge:     orDefault(lc.MaxAge, 14),
		Compress:   lc.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	if debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(rot), level)
	return zap.New(core, zap.AddCaller()), rot, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
