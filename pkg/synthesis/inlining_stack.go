package synthesis

import (
	"fmt"
	"strings"

	"gosyrec/pkg/syrec"
)

// InlineFrame describes one active call or uncall inlining.
type InlineFrame struct {
	// Line is the source line of the call or uncall statement, if known.
	Line *int
	// IsCall is true for call, false for uncall and nil when unspecified.
	IsCall *bool
	Target *syrec.Module
}

// StringifySignature renders the target's signature, e.g.
//
//	module main(inout a[2][1](2), in b[3](3))
//
// It fails when the target is missing, unnamed, or has a parameter with an
// empty name, no dimensions, or a kind that is not in, out or inout.
func (f InlineFrame) StringifySignature() (string, bool) {
	if f.Target == nil || f.Target.Name == "" {
		return "", false
	}
	params := make([]string, len(f.Target.Parameters))
	for i, p := range f.Target.Parameters {
		if p == nil || p.Name == "" || len(p.Dimensions) == 0 || !p.Kind.IsParameterKind() {
			return "", false
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %s", p.Kind, p.Name)
		for _, d := range p.Dimensions {
			fmt.Fprintf(&sb, "[%d]", d)
		}
		fmt.Fprintf(&sb, "(%d)", p.Bitwidth)
		params[i] = sb.String()
	}
	return fmt.Sprintf("module %s(%s)", f.Target.Name, strings.Join(params, ", ")), true
}

// String describes the frame for diagnostics.
func (f InlineFrame) String() string {
	sig, ok := f.StringifySignature()
	if !ok {
		sig = "<invalid module>"
	}
	verb := "inline"
	if f.IsCall != nil {
		verb = "call"
		if !*f.IsCall {
			verb = "uncall"
		}
	}
	if f.Line != nil {
		return fmt.Sprintf("%s %s at line %d", verb, sig, *f.Line)
	}
	return fmt.Sprintf("%s %s", verb, sig)
}

// InliningStack records the chain of modules currently being inlined.
type InliningStack struct {
	frames []InlineFrame
}

// Push appends f. Frames without a target module are rejected.
func (s *InliningStack) Push(f InlineFrame) bool {
	if f.Target == nil {
		return false
	}
	s.frames = append(s.frames, f)
	return true
}

// Pop removes the top frame; false on an empty stack.
func (s *InliningStack) Pop() bool {
	if len(s.frames) == 0 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

func (s *InliningStack) Size() int { return len(s.frames) }

// EntryAt returns the frame at index, 0 being the bottom of the stack.
func (s *InliningStack) EntryAt(index int) (InlineFrame, bool) {
	if index < 0 || index >= len(s.frames) {
		return InlineFrame{}, false
	}
	return s.frames[index], true
}

// Contains reports whether m is already being inlined.
func (s *InliningStack) Contains(m *syrec.Module) bool {
	for _, f := range s.frames {
		if f.Target == m {
			return true
		}
	}
	return false
}

// Chain returns the frame descriptions, outermost first.
func (s *InliningStack) Chain() []string {
	out := make([]string, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.String()
	}
	return out
}

// Signatures returns the stringified signature of every frame, outermost first.
func (s *InliningStack) Signatures() []string {
	out := make([]string, 0, len(s.frames))
	for _, f := range s.frames {
		if sig, ok := f.StringifySignature(); ok {
			out = append(out, sig)
		}
	}
	return out
}
