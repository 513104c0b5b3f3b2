package synthesis

import (
	"math/bits"

	"gosyrec/pkg/circuit"
	"gosyrec/pkg/syrec"

	"github.com/pkg/errors"
)

type accessMode int

const (
	// readAccess only needs the value of the element.
	readAccess accessMode = iota
	// targetAccess needs lines that are written back to the element.
	targetAccess
)

// accessBits returns the selected bit positions of a in access order.
func (r *run) accessBits(a *syrec.VariableAccess) ([]uint, error) {
	width := a.Var.Bitwidth
	if a.Range == nil {
		out := make([]uint, width)
		for i := range out {
			out[i] = uint(i)
		}
		return out, nil
	}

	start, err := a.Range.Start.Evaluate(r.loops)
	if err != nil {
		return nil, err
	}
	end := start
	if a.Range.End != nil {
		if end, err = a.Range.End.Evaluate(r.loops); err != nil {
			return nil, err
		}
	}
	if start >= uint64(width) || end >= uint64(width) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "bits %d:%d of %s with width %d", start, end, a.Var.Name, width)
	}

	var out []uint
	if start <= end {
		for b := start; b <= end; b++ {
			out = append(out, uint(b))
		}
	} else {
		for b := start; ; b-- {
			out = append(out, uint(b))
			if b == end {
				break
			}
		}
	}
	return out, nil
}

// access resolves a variable access to lines. The lines alias the variable
// unless an index could not be folded, in which case the element is
// selected into fresh lines (copied for reads, swapped in for targets; the
// statement's uncomputation swaps it back out).
func (r *run) access(a *syrec.VariableAccess, mode accessMode) ([]circuit.Qubit, bool, error) {
	v := a.Var
	base, ok := r.scope.Lookup(v.Name)
	if !ok {
		return nil, false, errors.Wrapf(ErrUnknownVariable, "%q", v.Name)
	}
	accessed, err := r.accessBits(a)
	if err != nil {
		return nil, false, err
	}

	if len(a.Indexes) == 0 {
		if !v.IsScalar() {
			return nil, false, errors.Wrapf(ErrIndexOutOfRange, "%s needs %d indices", v.Name, len(v.Dimensions))
		}
		return elementLines(base, v, []uint64{0}, accessed), false, nil
	}
	if len(a.Indexes) != len(v.Dimensions) {
		return nil, false, errors.Wrapf(ErrIndexOutOfRange, "%s has %d dimensions, accessed with %d indices", v.Name, len(v.Dimensions), len(a.Indexes))
	}

	index := make([]uint64, len(v.Dimensions))
	var dynamic []int
	for d, expr := range a.Indexes {
		value, ok, err := r.fold(expr)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			dynamic = append(dynamic, d)
			continue
		}
		if value >= uint64(v.Dimensions[d]) {
			return nil, false, errors.Wrapf(ErrIndexOutOfRange, "index %d of dimension %d of %s (size %d)", value, d, v.Name, v.Dimensions[d])
		}
		index[d] = value
	}
	if len(dynamic) == 0 {
		return elementLines(base, v, index, accessed), false, nil
	}

	if !r.policy.dynamicIndexes() {
		return nil, false, errors.Wrapf(ErrUnsupported, "non-constant index into %s", v.Name)
	}
	if mode == targetAccess {
		for _, d := range dynamic {
			if syrec.ReadsVariable(a.Indexes[d], v) {
				return nil, false, errors.Wrapf(ErrOverlappingOperands, "index of %s reads %s", v.Name, v.Name)
			}
		}
	}
	lines, err := r.selectElement(a, base, index, dynamic, accessed, mode)
	return lines, true, err
}

// elementOffset returns the row-major position of index.
func elementOffset(v *syrec.Variable, index []uint64) uint {
	off := uint(0)
	for d, i := range index {
		off = off*v.Dimensions[d] + uint(i)
	}
	return off
}

func elementLines(base circuit.Qubit, v *syrec.Variable, index []uint64, accessed []uint) []circuit.Qubit {
	first := base + circuit.Qubit(elementOffset(v, index)*v.Bitwidth)
	out := make([]circuit.Qubit, len(accessed))
	for i, b := range accessed {
		out[i] = first + circuit.Qubit(b)
	}
	return out
}

// indexWidth is the number of bits needed to address a dimension.
func indexWidth(size uint) uint {
	if size <= 1 {
		return 1
	}
	return uint(bits.Len(size - 1))
}

// selectElement enumerates every element the dynamic indices can address.
// For each candidate a select line is set when the index lines hold the
// candidate's position; the element is then copied (reads) or swapped
// (targets) into the result lines under that select line, and the select
// line is cleared again.
func (r *run) selectElement(a *syrec.VariableAccess, base circuit.Qubit, index []uint64, dynamic []int, accessed []uint, mode accessMode) ([]circuit.Qubit, error) {
	v := a.Var
	indexLines := make([][]circuit.Qubit, len(v.Dimensions))
	for _, d := range dynamic {
		op, err := r.expression(a.Indexes[d], indexWidth(v.Dimensions[d]))
		if err != nil {
			return nil, err
		}
		indexLines[d] = op.lines
	}

	result := r.acquire(len(accessed))
	sel := r.acquire(1)[0]
	candidate := append([]uint64(nil), index...)

	var visit func(k int)
	visit = func(k int) {
		if k == len(dynamic) {
			r.computeSelect(sel, dynamic, candidate, indexLines)
			elem := elementLines(base, v, candidate, accessed)
			for i := range elem {
				if mode == targetAccess {
					r.g.controlledFredkin(sel, elem[i], result[i])
				} else {
					r.g.toffoli(sel, elem[i], result[i])
				}
			}
			r.computeSelect(sel, dynamic, candidate, indexLines)
			return
		}
		d := dynamic[k]
		width := len(indexLines[d])
		for j := uint64(0); j < uint64(v.Dimensions[d]); j++ {
			if width < 64 && j >= uint64(1)<<uint(width) {
				break
			}
			candidate[d] = j
			visit(k + 1)
		}
	}
	visit(0)
	return result, r.g.err
}

// computeSelect xors into sel whether every dynamic index equals its
// candidate value. Applying it twice clears sel.
func (r *run) computeSelect(sel circuit.Qubit, dynamic []int, candidate []uint64, indexLines [][]circuit.Qubit) {
	var flipped, controls []circuit.Qubit
	for _, d := range dynamic {
		for b, q := range indexLines[d] {
			if candidate[d]>>uint(b)&1 == 0 {
				flipped = append(flipped, q)
			}
			controls = append(controls, q)
		}
	}
	for _, q := range flipped {
		r.g.not(q)
	}
	r.g.mct(controls, sel)
	for _, q := range flipped {
		r.g.not(q)
	}
}

func overlaps(a, b []circuit.Qubit) bool {
	seen := make(map[circuit.Qubit]bool, len(a))
	for _, q := range a {
		seen[q] = true
	}
	for _, q := range b {
		if seen[q] {
			return true
		}
	}
	return false
}
