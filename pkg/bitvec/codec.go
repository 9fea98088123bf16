package bitvec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidHex is returned for characters outside 0-9A-F. Lowercase
	// digits are rejected as well; SVF literals in this repository are
	// always emitted uppercase.
	ErrInvalidHex = errors.New("bitvec: invalid hex digit")
	// ErrInvalidBinary is returned for characters other than '0' and '1'.
	ErrInvalidBinary = errors.New("bitvec: invalid binary digit")
	// ErrIndexOutOfRange is returned when a write falls outside the vector.
	ErrIndexOutOfRange = errors.New("bitvec: index out of range")
	// ErrWidth is returned when a literal does not fit the requested width.
	ErrWidth = errors.New("bitvec: value does not fit width")
)

var nibbles = [16]string{
	"0000", "0001", "0010", "0011", "0100", "0101", "0110", "0111",
	"1000", "1001", "1010", "1011", "1100", "1101", "1110", "1111",
}

const hexDigits = "0123456789ABCDEF"

// BinToHex converts a binary string to an SVF hex literal. The input is
// left-padded with zeros to a multiple of four bits and grouped from the most
// significant nibble. An empty input encodes as "0".
func BinToHex(bin string) (string, error) {
	pad := 0
	switch r := len(bin) % 4; {
	case len(bin) == 0:
		pad = 4
	case r != 0:
		pad = 4 - r
	}
	padded := strings.Repeat("0", pad) + bin

	var b strings.Builder
	b.Grow(len(padded) / 4)
	for i := 0; i < len(padded); i += 4 {
		var n byte
		for _, c := range []byte(padded[i : i+4]) {
			switch c {
			case '0':
				n <<= 1
			case '1':
				n = n<<1 | 1
			default:
				return "", fmt.Errorf("%w %q in %q", ErrInvalidBinary, c, bin)
			}
		}
		b.WriteByte(hexDigits[n])
	}
	return b.String(), nil
}

// HexToBin expands an uppercase hex literal to exactly width binary digits.
// Excess leading zeros are dropped and short literals are zero-extended, as
// the SVF standard does for TDI/TDO/MASK values. Dropping a set bit is an
// error.
func HexToBin(hex string, width int) (string, error) {
	if width < 0 {
		return "", fmt.Errorf("%w: negative width %d", ErrWidth, width)
	}
	var b strings.Builder
	b.Grow(len(hex) * 4)
	for i := 0; i < len(hex); i++ {
		idx := strings.IndexByte(hexDigits, hex[i])
		if idx < 0 {
			return "", fmt.Errorf("%w %q in %q", ErrInvalidHex, hex[i], hex)
		}
		b.WriteString(nibbles[idx])
	}
	bin := b.String()
	if len(bin) < width {
		return strings.Repeat("0", width-len(bin)) + bin, nil
	}
	cut := len(bin) - width
	if strings.ContainsRune(bin[:cut], '1') {
		return "", fmt.Errorf("%w: %s has more than %d significant bits", ErrWidth, hex, width)
	}
	return bin[cut:], nil
}

// ReplaceAt overwrites str at index i with rstr. The result always has the
// same length as str.
func ReplaceAt(str string, i int, rstr string) (string, error) {
	if i < 0 || i+len(rstr) > len(str) {
		return "", fmt.Errorf("%w: %d+%d exceeds length %d", ErrIndexOutOfRange, i, len(rstr), len(str))
	}
	return str[:i] + rstr + str[i+len(rstr):], nil
}

// Reverse returns str with its characters in reverse order.
func Reverse(str string) string {
	out := []byte(str)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
