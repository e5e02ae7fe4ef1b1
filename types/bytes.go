package types

import "bytes"

// Bytes is a variable-length byte string. Text form is 0x-prefixed hex of
// every byte; binary form is the raw bytes. The empty string is nil.
type Bytes []byte

// ParseBytes decodes 0x-prefixed hex text. The empty string decodes to an
// empty byte string.
func ParseBytes(text string) (Bytes, error) {
	b, err := DecodeHex(text)
	if err != nil {
		return nil, err
	}
	return Bytes(b), nil
}

// BytesFromBinary copies raw bytes.
func BytesFromBinary(b []byte) Bytes {
	return Bytes(cloneBytes(b))
}

func (b Bytes) String() string   { return EncodeHex(b) }
func (b Bytes) Kind() ScalarKind { return KindBytes }

// Equal reports whether both hold the same bytes; nil equals empty.
func (b Bytes) Equal(o Bytes) bool { return bytes.Equal(b, o) }

// Binary returns a copy of the raw bytes.
func (b Bytes) Binary() []byte { return cloneBytes(b) }

func (b Bytes) MarshalBinary() ([]byte, error) { return b.Binary(), nil }
func (b Bytes) MarshalText() ([]byte, error)   { return []byte(b.String()), nil }

func (b *Bytes) UnmarshalText(text []byte) error {
	v, err := ParseBytes(string(text))
	return assign(b, v, err)
}

func (b *Bytes) UnmarshalBinary(data []byte) error {
	*b = BytesFromBinary(data)
	return nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return bytes.Clone(b)
}
