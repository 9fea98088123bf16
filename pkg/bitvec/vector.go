package bitvec

import (
	"fmt"
	"strings"
)

// Vector is a fixed-width boundary-scan register image. Index i is the value
// of boundary cell i, so cell 0 (closest to TDO) is the first bit shifted
// out and the least significant bit of the SVF hex literal.
type Vector struct {
	bits []bool
}

// New returns an all-zero vector of n bits.
func New(n int) *Vector {
	if n < 0 {
		n = 0
	}
	return &Vector{bits: make([]bool, n)}
}

// ParseHex decodes an SVF hex literal of width n into a vector.
func ParseHex(hex string, n int) (*Vector, error) {
	bin, err := HexToBin(hex, n)
	if err != nil {
		return nil, err
	}
	return ParseBinary(Reverse(bin))
}

// ParseBinary builds a vector from a string in cell order (index 0 first).
func ParseBinary(bin string) (*Vector, error) {
	v := New(len(bin))
	for i := 0; i < len(bin); i++ {
		switch bin[i] {
		case '0':
		case '1':
			v.bits[i] = true
		default:
			return nil, fmt.Errorf("%w %q at %d", ErrInvalidBinary, bin[i], i)
		}
	}
	return v, nil
}

// Len reports the width in bits.
func (v *Vector) Len() int {
	return len(v.bits)
}

// Set writes bit i.
func (v *Vector) Set(i int, high bool) error {
	if i < 0 || i >= len(v.bits) {
		return fmt.Errorf("%w: cell %d, width %d", ErrIndexOutOfRange, i, len(v.bits))
	}
	v.bits[i] = high
	return nil
}

// SetBit writes bit i from a "0"/"1" string, the form BSDL uses for safe,
// enable and disable values.
func (v *Vector) SetBit(i int, bit string) error {
	switch bit {
	case "0":
		return v.Set(i, false)
	case "1":
		return v.Set(i, true)
	default:
		return fmt.Errorf("%w %q for cell %d", ErrInvalidBinary, bit, i)
	}
}

// Get reads bit i.
func (v *Vector) Get(i int) (bool, error) {
	if i < 0 || i >= len(v.bits) {
		return false, fmt.Errorf("%w: cell %d, width %d", ErrIndexOutOfRange, i, len(v.bits))
	}
	return v.bits[i], nil
}

// Clone returns an independent copy.
func (v *Vector) Clone() *Vector {
	out := New(len(v.bits))
	copy(out.bits, v.bits)
	return out
}

// Ones counts the set bits.
func (v *Vector) Ones() int {
	n := 0
	for _, b := range v.bits {
		if b {
			n++
		}
	}
	return n
}

// Binary renders the vector in cell order, index 0 first.
func (v *Vector) Binary() string {
	var b strings.Builder
	b.Grow(len(v.bits))
	for _, bit := range v.bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Hex renders the vector as an SVF literal: the highest cell number becomes
// the most significant bit.
func (v *Vector) Hex() string {
	hex, err := BinToHex(Reverse(v.Binary()))
	if err != nil {
		// Binary only ever emits '0' and '1'.
		panic(err)
	}
	return hex
}

func (v *Vector) String() string {
	return v.Hex()
}
