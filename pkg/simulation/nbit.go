package simulation

import (
	"strings"

	"github.com/pkg/errors"
)

// NBitValues is a fixed-length bit vector. Bit 0 is the first character of
// its string form and the least significant bit of its integer form.
type NBitValues struct {
	bits []bool
}

// New returns n cleared bits.
func New(n int) NBitValues {
	return NBitValues{bits: make([]bool, n)}
}

// FromString parses a string of '0' and '1' characters.
func FromString(s string) (NBitValues, error) {
	v := New(len(s))
	for i, r := range s {
		switch r {
		case '0':
		case '1':
			v.bits[i] = true
		default:
			return NBitValues{}, errors.Errorf("invalid bit %q at position %d", r, i)
		}
	}
	return v, nil
}

// FromUint returns the n least significant bits of value.
func FromUint(n int, value uint64) NBitValues {
	v := New(n)
	for i := 0; i < n && i < 64; i++ {
		v.bits[i] = value&(uint64(1)<<uint(i)) != 0
	}
	return v
}

// Len returns the number of bits.
func (v NBitValues) Len() int { return len(v.bits) }

// Get returns bit i; out-of-range bits read as false.
func (v NBitValues) Get(i int) bool {
	if i < 0 || i >= len(v.bits) {
		return false
	}
	return v.bits[i]
}

// Set assigns bit i and reports whether i was in range.
func (v NBitValues) Set(i int, value bool) bool {
	if i < 0 || i >= len(v.bits) {
		return false
	}
	v.bits[i] = value
	return true
}

// Flip toggles bit i and reports whether i was in range.
func (v NBitValues) Flip(i int) bool {
	if i < 0 || i >= len(v.bits) {
		return false
	}
	v.bits[i] = !v.bits[i]
	return true
}

// Uint returns the value of the first 64 bits.
func (v NBitValues) Uint() uint64 {
	var out uint64
	for i := 0; i < len(v.bits) && i < 64; i++ {
		if v.bits[i] {
			out |= uint64(1) << uint(i)
		}
	}
	return out
}

// Clone returns an independent copy.
func (v NBitValues) Clone() NBitValues {
	return NBitValues{bits: append([]bool(nil), v.bits...)}
}

// Equal reports whether both vectors have the same length and bits.
func (v NBitValues) Equal(o NBitValues) bool {
	if len(v.bits) != len(o.bits) {
		return false
	}
	for i := range v.bits {
		if v.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

func (v NBitValues) String() string {
	var sb strings.Builder
	sb.Grow(len(v.bits))
	for _, b := range v.bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
