package synthesis

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidMainModule = errors.New("invalid main module identifier")
	ErrAmbiguousModule   = errors.New("ambiguous module")
	ErrModuleNotFound    = errors.New("module not found")
	ErrNoModules         = errors.New("program has no modules")
	ErrInvalidTruncation = errors.New("invalid integer constant truncation")
	ErrUnsupported       = errors.New("unsupported by the selected strategy")

	ErrWidthMismatch       = errors.New("bitwidth mismatch")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrOverlappingOperands = errors.New("operands share lines")
	ErrInvalidStep         = errors.New("invalid loop step")
	ErrRecursion           = errors.New("recursive module call")
	ErrInvalidCall         = errors.New("invalid call")
	ErrUnknownVariable     = errors.New("variable has no lines")
	ErrMissingCondition    = errors.New("if statement without condition")
)

// Error is a failure while synthesizing a statement. It records where in
// the program synthesis stopped.
type Error struct {
	Module string
	Line   int
	// Chain lists the active inlinings, outermost first.
	Chain []string
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s", e.Module)
	if e.Line > 0 {
		fmt.Fprintf(&sb, ", line %d", e.Line)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	for i := len(e.Chain) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "\n  in %s", e.Chain[i])
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }
