package types

import (
	"encoding/binary"
	"math/big"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

const uint128Digits = 32

// Uint128 is a 128-bit unsigned integer. Text form is minimal 0x-prefixed
// hex; binary form is 16 bytes little-endian.
type Uint128 struct {
	v uint256.Int
}

// NewUint128 builds a value from its high and low 64-bit halves.
func NewUint128(hi, lo uint64) Uint128 {
	var u Uint128
	u.v[0] = lo
	u.v[1] = hi
	return u
}

// Uint128FromBig converts b, which must be in [0, 2^128).
func Uint128FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Uint128{}, &ParseUintError{Input: b.String(), Bits: 128, Err: strconv.ErrRange}
	}
	v, _ := uint256.FromBig(b)
	return Uint128{v: *v}, nil
}

// ParseUint128 decodes 0x-prefixed hex text.
func ParseUint128(text string) (Uint128, error) {
	digits, err := trimHexPrefix(text)
	if err != nil {
		return Uint128{}, err
	}
	if digits == "" {
		return Uint128{}, &ParseUintError{Input: text, Bits: 128, Err: strconv.ErrSyntax}
	}
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return Uint128{}, &ParseUintError{Input: text, Bits: 128, Err: strconv.ErrSyntax}
		}
	}

	digits = strings.TrimLeft(digits, "0")
	if len(digits) > uint128Digits {
		return Uint128{}, &ParseUintError{Input: text, Bits: 128, Err: strconv.ErrRange}
	}

	// Digits are validated above, so the halves always parse.
	var hi, lo uint64
	if split := len(digits) - 16; split > 0 {
		hi, _ = strconv.ParseUint(digits[:split], 16, 64)
		lo, _ = strconv.ParseUint(digits[split:], 16, 64)
	} else if digits != "" {
		lo, _ = strconv.ParseUint(digits, 16, 64)
	}
	return NewUint128(hi, lo), nil
}

// Uint128FromBinary decodes 16 little-endian bytes.
func Uint128FromBinary(b []byte) (Uint128, error) {
	if len(b) != 16 {
		return Uint128{}, &ParseBytesError{Want: 16, Got: len(b)}
	}
	return NewUint128(binary.LittleEndian.Uint64(b[8:]), binary.LittleEndian.Uint64(b[:8])), nil
}

// Hi returns the high 64 bits.
func (u Uint128) Hi() uint64 { return u.v[1] }

// Lo returns the low 64 bits.
func (u Uint128) Lo() uint64 { return u.v[0] }

// Big returns the value as a new big.Int.
func (u Uint128) Big() *big.Int { return u.v.ToBig() }

func (u Uint128) String() string   { return u.v.Hex() }
func (u Uint128) Kind() ScalarKind { return KindUint128 }

// Binary returns the 16-byte little-endian encoding.
func (u Uint128) Binary() []byte {
	b := binary.LittleEndian.AppendUint64(make([]byte, 0, 16), u.v[0])
	return binary.LittleEndian.AppendUint64(b, u.v[1])
}

func (u Uint128) MarshalBinary() ([]byte, error) { return u.Binary(), nil }
func (u Uint128) MarshalText() ([]byte, error)   { return []byte(u.String()), nil }

func (u *Uint128) UnmarshalText(text []byte) error {
	v, err := ParseUint128(string(text))
	return assign(u, v, err)
}

func (u *Uint128) UnmarshalBinary(b []byte) error {
	v, err := Uint128FromBinary(b)
	return assign(u, v, err)
}
