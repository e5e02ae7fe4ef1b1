package types

// Hash20 is a 20-byte hash, such as a blake160 lock argument.
type Hash20 [20]byte

// Hash32 is a 32-byte hash.
type Hash32 [32]byte

// fixedBytes is the generic core of the fixed-length byte arrays. Go
// cannot parameterize an array length, so each width exposes its storage
// through slot and every codec rule is written once against it.
type fixedBytes[T comparable] interface {
	*T
	slot() []byte
}

func (h *Hash20) slot() []byte { return h[:] }
func (h *Hash32) slot() []byte { return h[:] }

// parseFixed decodes hex text whose decoded length must equal the width
// of T.
func parseFixed[T comparable, P fixedBytes[T]](text string) (T, error) {
	var h T
	dst := P(&h).slot()
	b, err := DecodeHex(text)
	if err != nil {
		return h, err
	}
	if len(b) != len(dst) {
		return h, &ParseBytesError{Want: len(dst), Got: len(b)}
	}
	copy(dst, b)
	return h, nil
}

// fixedFromBinary copies raw bytes whose length must equal the width of
// T.
func fixedFromBinary[T comparable, P fixedBytes[T]](b []byte) (T, error) {
	var h T
	dst := P(&h).slot()
	if len(b) != len(dst) {
		return h, &ParseBytesError{Want: len(dst), Got: len(b)}
	}
	copy(dst, b)
	return h, nil
}

func fixedString[T comparable, P fixedBytes[T]](h T) string {
	return EncodeHex(P(&h).slot())
}

func fixedBinary[T comparable, P fixedBytes[T]](h T) []byte {
	return append([]byte(nil), P(&h).slot()...)
}

func isZero[T comparable](h T) bool {
	var zero T
	return h == zero
}

// ParseHash20 decodes exactly 20 bytes of 0x-prefixed hex.
func ParseHash20(text string) (Hash20, error) { return parseFixed[Hash20](text) }

// Hash20FromBinary copies exactly 20 raw bytes.
func Hash20FromBinary(b []byte) (Hash20, error) { return fixedFromBinary[Hash20](b) }

func (h Hash20) String() string   { return fixedString(h) }
func (h Hash20) Kind() ScalarKind { return KindHash20 }
func (h Hash20) IsZero() bool     { return isZero(h) }

// Binary returns a copy of the raw bytes.
func (h Hash20) Binary() []byte { return fixedBinary(h) }

func (h Hash20) MarshalBinary() ([]byte, error) { return h.Binary(), nil }
func (h Hash20) MarshalText() ([]byte, error)   { return []byte(h.String()), nil }

func (h *Hash20) UnmarshalText(text []byte) error {
	v, err := ParseHash20(string(text))
	return assign(h, v, err)
}

func (h *Hash20) UnmarshalBinary(b []byte) error {
	v, err := Hash20FromBinary(b)
	return assign(h, v, err)
}

// ParseHash32 decodes exactly 32 bytes of 0x-prefixed hex.
func ParseHash32(text string) (Hash32, error) { return parseFixed[Hash32](text) }

// Hash32FromBinary copies exactly 32 raw bytes.
func Hash32FromBinary(b []byte) (Hash32, error) { return fixedFromBinary[Hash32](b) }

func (h Hash32) String() string   { return fixedString(h) }
func (h Hash32) Kind() ScalarKind { return KindHash32 }
func (h Hash32) IsZero() bool     { return isZero(h) }

// Binary returns a copy of the raw bytes.
func (h Hash32) Binary() []byte { return fixedBinary(h) }

func (h Hash32) MarshalBinary() ([]byte, error) { return h.Binary(), nil }
func (h Hash32) MarshalText() ([]byte, error)   { return []byte(h.String()), nil }

func (h *Hash32) UnmarshalText(text []byte) error {
	v, err := ParseHash32(string(text))
	return assign(h, v, err)
}

func (h *Hash32) UnmarshalBinary(b []byte) error {
	v, err := Hash32FromBinary(b)
	return assign(h, v, err)
}
