package circuit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RealVersion is the RevLib format version written by WriteReal.
const RealVersion = "2.0"

// WriteReal serialises the circuit in the RevLib .real text format.
//
//	.version 2.0
//	.numvars 3
//	.variables a b c
//	.inputs a b c
//	.outputs a b c
//	.constants --0
//	.garbage --1
//	.begin
//	t3 a b c
//	.end
func (c *Circuit) WriteReal(w io.Writer) error {
	bw := bufio.NewWriter(w)
	labels := c.Labels()

	var constants, garbage strings.Builder
	for _, l := range c.Lines {
		switch {
		case l.Constant == nil:
			constants.WriteByte('-')
		case *l.Constant:
			constants.WriteByte('1')
		default:
			constants.WriteByte('0')
		}
		if l.Garbage {
			garbage.WriteByte('1')
		} else {
			garbage.WriteByte('-')
		}
	}

	fmt.Fprintf(bw, ".version %s\n", RealVersion)
	fmt.Fprintf(bw, ".numvars %d\n", len(labels))
	fmt.Fprintf(bw, ".variables %s\n", strings.Join(labels, " "))
	fmt.Fprintf(bw, ".inputs %s\n", strings.Join(labels, " "))
	fmt.Fprintf(bw, ".outputs %s\n", strings.Join(labels, " "))
	fmt.Fprintf(bw, ".constants %s\n", constants.String())
	fmt.Fprintf(bw, ".garbage %s\n", garbage.String())
	bw.WriteString(".begin\n")
	for _, g := range c.Gates {
		prefix := "t"
		if g.Kind == Fredkin {
			prefix = "f"
		}
		fields := make([]string, 0, len(g.Controls)+len(g.Targets)+1)
		fields = append(fields, fmt.Sprintf("%s%d", prefix, len(g.Controls)+len(g.Targets)))
		for _, q := range g.Controls {
			fields = append(fields, labels[q])
		}
		for _, q := range g.Targets {
			fields = append(fields, labels[q])
		}
		bw.WriteString(strings.Join(fields, " "))
		if lno, ok := g.Annotations[LineNumberAnnotation]; ok {
			fmt.Fprintf(bw, " # %s=%s", LineNumberAnnotation, lno)
		}
		bw.WriteByte('\n')
	}
	bw.WriteString(".end\n")
	return bw.Flush()
}

type realLine struct {
	lineNo    int
	directive string
	operands  []string
	comment   string
}

// ReadReal parses a circuit in the RevLib .real format. Only the gate
// kinds produced by WriteReal are accepted.
func ReadReal(src string) (*Circuit, error) {
	lines := strings.Split(src, "\n")
	c := New()
	index := make(map[string]Qubit)

	inBody := false
	seenEnd := false
	var constants, garbage string

	for i, raw := range lines {
		p := parseRealLine(raw, i+1)
		if p.directive == "" {
			continue
		}
		if seenEnd {
			return nil, errors.Errorf("line %d: content after .end", p.lineNo)
		}

		if !inBody {
			switch strings.ToLower(p.directive) {
			case ".version", ".numvars", ".inputs", ".outputs", ".inputbus", ".outputbus", ".state", ".module", ".define", ".enddefine":
				// informational
			case ".variables":
				for _, v := range p.operands {
					if _, dup := index[v]; dup {
						return nil, errors.Errorf("line %d: duplicate variable %q", p.lineNo, v)
					}
					index[v] = c.AddInput(v, false)
				}
			case ".constants":
				constants = strings.Join(p.operands, "")
			case ".garbage":
				garbage = strings.Join(p.operands, "")
			case ".begin":
				if err := applyLineFlags(c, constants, garbage); err != nil {
					return nil, errors.Wrapf(err, "line %d", p.lineNo)
				}
				inBody = true
			default:
				return nil, errors.Errorf("line %d: unknown directive %s", p.lineNo, p.directive)
			}
			continue
		}

		if strings.EqualFold(p.directive, ".end") {
			seenEnd = true
			continue
		}

		g, err := parseRealGate(p, index)
		if err != nil {
			return nil, err
		}
		c.Gates = append(c.Gates, g)
	}

	if !inBody {
		return nil, errors.New("missing .begin")
	}
	if !seenEnd {
		return nil, errors.New("missing .end")
	}
	return c, nil
}

func applyLineFlags(c *Circuit, constants, garbage string) error {
	if constants != "" && len(constants) != len(c.Lines) {
		return errors.Errorf(".constants has %d entries for %d variables", len(constants), len(c.Lines))
	}
	if garbage != "" && len(garbage) != len(c.Lines) {
		return errors.Errorf(".garbage has %d entries for %d variables", len(garbage), len(c.Lines))
	}
	for i := range c.Lines {
		if constants != "" {
			switch constants[i] {
			case '0', '1':
				v := constants[i] == '1'
				c.Lines[i].Constant = &v
				c.Lines[i].Ancilla = true
			case '-':
			default:
				return errors.Errorf("invalid constant flag %q", constants[i])
			}
		}
		if garbage != "" {
			switch garbage[i] {
			case '1':
				c.Lines[i].Garbage = true
			case '-':
			default:
				return errors.Errorf("invalid garbage flag %q", garbage[i])
			}
		}
	}
	return nil
}

func parseRealGate(p realLine, index map[string]Qubit) (Gate, error) {
	mnemonic := strings.ToLower(p.directive)
	if len(mnemonic) < 2 {
		return Gate{}, errors.Errorf("line %d: invalid gate %q", p.lineNo, p.directive)
	}

	var kind GateKind
	targets := 1
	switch mnemonic[0] {
	case 't':
		kind = Toffoli
	case 'f':
		kind = Fredkin
		targets = 2
	default:
		return Gate{}, errors.Errorf("line %d: unsupported gate %q", p.lineNo, p.directive)
	}

	arity, err := strconv.Atoi(mnemonic[1:])
	if err != nil {
		return Gate{}, errors.Errorf("line %d: invalid gate arity %q", p.lineNo, p.directive)
	}
	if arity != len(p.operands) || arity < targets {
		return Gate{}, errors.Errorf("line %d: %s expects %d operands, got %d", p.lineNo, p.directive, arity, len(p.operands))
	}

	qubits := make([]Qubit, 0, len(p.operands))
	for _, op := range p.operands {
		q, ok := index[op]
		if !ok {
			return Gate{}, errors.Errorf("line %d: unknown variable %q", p.lineNo, op)
		}
		qubits = append(qubits, q)
	}

	g := Gate{
		Kind:     kind,
		Controls: qubits[:len(qubits)-targets],
		Targets:  qubits[len(qubits)-targets:],
	}
	if len(g.Controls) == 0 {
		g.Controls = nil
	}
	if key, value, ok := strings.Cut(p.comment, "="); ok && strings.TrimSpace(key) == LineNumberAnnotation {
		g.Annotations = map[string]string{LineNumberAnnotation: strings.TrimSpace(value)}
	}
	return g, nil
}

func parseRealLine(raw string, lineNo int) realLine {
	p := realLine{lineNo: lineNo}
	line, comment := stripComments(raw)
	p.comment = strings.TrimSpace(comment)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p
	}
	p.directive = fields[0]
	p.operands = fields[1:]
	return p
}

// stripComments splits a .real line at the first '#'.
func stripComments(line string) (string, string) {
	if hash := strings.IndexByte(line, '#'); hash >= 0 {
		return line[:hash], line[hash+1:]
	}
	return line, ""
}
