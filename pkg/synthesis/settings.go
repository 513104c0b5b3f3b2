package synthesis

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Strategy selects how +, - and ^ are lowered.
type Strategy int

const (
	// CostAware computes every intermediate result into fresh lines.
	CostAware Strategy = iota
	// LineAware reuses operand lines and applies additive assignments
	// leaf by leaf to keep the line count low.
	LineAware
)

func (s Strategy) String() string {
	switch s {
	case CostAware:
		return "costAware"
	case LineAware:
		return "lineAware"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts "costAware" and "lineAware", case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "costaware", "cost-aware", "cost":
		return CostAware, nil
	case "lineaware", "line-aware", "line":
		return LineAware, nil
	}
	return CostAware, errors.Errorf("unknown synthesis strategy %q", s)
}

// Truncation is the policy used to fit a constant into fewer bits.
type Truncation int

const (
	BitwiseAnd Truncation = iota
	Modulo
)

func (t Truncation) String() string {
	switch t {
	case BitwiseAnd:
		return "bitwiseAnd"
	case Modulo:
		return "modulo"
	}
	return fmt.Sprintf("Truncation(%d)", int(t))
}

// ParseTruncation accepts "bitwiseAnd" and "modulo", case-insensitively.
func ParseTruncation(s string) (Truncation, error) {
	switch strings.ToLower(s) {
	case "bitwiseand", "and":
		return BitwiseAnd, nil
	case "modulo", "mod":
		return Modulo, nil
	}
	return BitwiseAnd, errors.Wrapf(ErrInvalidTruncation, "%q", s)
}

// Apply truncates value to width bits.
func (t Truncation) Apply(value uint64, width uint) (uint64, error) {
	switch t {
	case BitwiseAnd:
		if width >= 64 {
			return value, nil
		}
		return value & (uint64(1)<<width - 1), nil
	case Modulo:
		if width >= 64 {
			return value, nil
		}
		return value % (uint64(1) << width), nil
	}
	return 0, errors.Wrapf(ErrInvalidTruncation, "%d", int(t))
}

// Settings configure a synthesis run.
type Settings struct {
	// MainModule names the entry module. When nil the module called
	// "main" is used, or the last declared module if there is none.
	MainModule *string
	Truncation Truncation
	// InlineDebugInfo records the inlining chain on every local and
	// ancilla line.
	InlineDebugInfo bool
}

// WithMainModule returns a copy of s with the entry module set to name.
func (s Settings) WithMainModule(name string) Settings {
	s.MainModule = &name
	return s
}

func (s Settings) validate() error {
	if s.Truncation != BitwiseAnd && s.Truncation != Modulo {
		return errors.Wrapf(ErrInvalidTruncation, "%d", int(s.Truncation))
	}
	return nil
}
