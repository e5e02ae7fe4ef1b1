// Package types defines the typed, string-safe view of CKB transaction
// data and its codec to and from the molecule binary encoding.
//
// Scalars render as 0x-prefixed lowercase hexadecimal text and as a
// fixed canonical binary form. Structural records (Script, OutPoint,
// CellInput, CellOutput, CellDep, TransactionView) are plain value
// structs with cramberry struct tags so transports can carry them
// without a conversion layer.
package types

import (
	"encoding"
	"fmt"
	"strings"
)

// Scalar is implemented by every scalar value in this package.
type Scalar interface {
	fmt.Stringer
	encoding.TextMarshaler
	encoding.BinaryMarshaler
	Kind() ScalarKind
}

// Compile-time interface checks.
var (
	_ Scalar = Uint32(0)
	_ Scalar = Uint64(0)
	_ Scalar = Uint128{}
	_ Scalar = Hash20{}
	_ Scalar = Hash32{}
	_ Scalar = Bytes(nil)
)

// ScalarKind names one entry of the scalar catalogue.
type ScalarKind uint8

const (
	KindUint32 ScalarKind = iota + 1
	KindUint64
	KindUint128
	KindHash20
	KindHash32
	KindBytes
)

func (k ScalarKind) String() string {
	switch k {
	case KindUint32:
		return "Uint32"
	case KindUint64:
		return "Uint64"
	case KindUint128:
		return "Uint128"
	case KindHash20:
		return "Hash20"
	case KindHash32:
		return "Hash32"
	case KindBytes:
		return "Bytes"
	default:
		return fmt.Sprintf("ScalarKind(%d)", uint8(k))
	}
}

// assign stores the result of a parse into dst when it succeeded. The
// Unmarshal methods of every scalar share it.
func assign[T any](dst *T, v T, err error) error {
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// ParseScalarKind returns the kind with the given name, matched case
// insensitively.
func ParseScalarKind(name string) (ScalarKind, error) {
	for k := KindUint32; k <= KindBytes; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, &InvalidTagError{Tag: "ScalarKind", Name: name}
}

// ParseScalar decodes text as the scalar named by kind.
func ParseScalar(kind ScalarKind, text string) (Scalar, error) {
	switch kind {
	case KindUint32:
		return ParseUint32(text)
	case KindUint64:
		return ParseUint64(text)
	case KindUint128:
		return ParseUint128(text)
	case KindHash20:
		return ParseHash20(text)
	case KindHash32:
		return ParseHash32(text)
	case KindBytes:
		return ParseBytes(text)
	default:
		return nil, &InvalidTagError{Tag: "ScalarKind", Value: uint8(kind)}
	}
}

// Version is the transaction version.
type Version = Uint32

// Capacity is the value of a cell in Shannons.
type Capacity = Uint64

// BlockNumber is a consecutive block number starting from 0.
type BlockNumber = Uint64

// EpochNumber is a consecutive epoch number starting from 0.
type EpochNumber = Uint64

// Cycle counts VM cycles consumed by scripts.
type Cycle = Uint64

// Timestamp is a Unix timestamp in milliseconds.
type Timestamp = Uint64
