package types

import (
	"encoding/binary"
	"strconv"
	"unsafe"
)

// Uint32 is a 32-bit unsigned integer. Text form is minimal 0x-prefixed
// hex; binary form is 4 bytes little-endian.
type Uint32 uint32

// Uint64 is a 64-bit unsigned integer. Text form is minimal 0x-prefixed
// hex; binary form is 8 bytes little-endian.
type Uint64 uint64

// nativeUint is the set of widths that map onto a Go integer.
type nativeUint interface {
	~uint32 | ~uint64
}

func uintSize[T nativeUint]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func parseUint[T nativeUint](text string) (T, error) {
	digits, err := trimHexPrefix(text)
	if err != nil {
		return 0, err
	}

	bits := uintSize[T]() * 8
	v, err := strconv.ParseUint(digits, 16, bits)
	if err != nil {
		return 0, &ParseUintError{Input: text, Bits: bits, Err: err}
	}
	return T(v), nil
}

func uintFromBinary[T nativeUint](b []byte) (T, error) {
	size := uintSize[T]()
	if len(b) != size {
		return 0, &ParseBytesError{Want: size, Got: len(b)}
	}
	if size == 4 {
		return T(binary.LittleEndian.Uint32(b)), nil
	}
	return T(binary.LittleEndian.Uint64(b)), nil
}

func appendUint[T nativeUint](dst []byte, v T) []byte {
	if uintSize[T]() == 4 {
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	}
	return binary.LittleEndian.AppendUint64(dst, uint64(v))
}

// ParseUint32 decodes 0x-prefixed hex text.
func ParseUint32(text string) (Uint32, error) { return parseUint[Uint32](text) }

// Uint32FromBinary decodes 4 little-endian bytes.
func Uint32FromBinary(b []byte) (Uint32, error) { return uintFromBinary[Uint32](b) }

func (u Uint32) String() string   { return encodeUint(uint64(u)) }
func (u Uint32) Kind() ScalarKind { return KindUint32 }

// Binary returns the 4-byte little-endian encoding.
func (u Uint32) Binary() []byte { return appendUint(make([]byte, 0, uintSize[Uint32]()), u) }

func (u Uint32) MarshalBinary() ([]byte, error) { return u.Binary(), nil }
func (u Uint32) MarshalText() ([]byte, error)   { return []byte(u.String()), nil }

func (u *Uint32) UnmarshalText(text []byte) error {
	v, err := ParseUint32(string(text))
	return assign(u, v, err)
}

func (u *Uint32) UnmarshalBinary(b []byte) error {
	v, err := Uint32FromBinary(b)
	return assign(u, v, err)
}

// ParseUint64 decodes 0x-prefixed hex text.
func ParseUint64(text string) (Uint64, error) { return parseUint[Uint64](text) }

// Uint64FromBinary decodes 8 little-endian bytes.
func Uint64FromBinary(b []byte) (Uint64, error) { return uintFromBinary[Uint64](b) }

func (u Uint64) String() string   { return encodeUint(uint64(u)) }
func (u Uint64) Kind() ScalarKind { return KindUint64 }

// Binary returns the 8-byte little-endian encoding.
func (u Uint64) Binary() []byte { return appendUint(make([]byte, 0, uintSize[Uint64]()), u) }

func (u Uint64) MarshalBinary() ([]byte, error) { return u.Binary(), nil }
func (u Uint64) MarshalText() ([]byte, error)   { return []byte(u.String()), nil }

func (u *Uint64) UnmarshalText(text []byte) error {
	v, err := ParseUint64(string(text))
	return assign(u, v, err)
}

func (u *Uint64) UnmarshalBinary(b []byte) error {
	v, err := Uint64FromBinary(b)
	return assign(u, v, err)
}
