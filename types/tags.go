package types

import "fmt"

// HashType specifies how a script's code hash locates its code and which
// VM version runs it.
type HashType uint8

const (
	// HashTypeData matches code by cell data hash and runs it in VM v0.
	HashTypeData HashType = 0
	// HashTypeType matches code by the type script hash of the code cell.
	HashTypeType HashType = 1
	// HashTypeData1 matches code by cell data hash and runs it in VM v1.
	HashTypeData1 HashType = 2
)

// HashTypeFromByte decodes a binary tag. Bytes outside the defined set
// are rejected, never aliased.
func HashTypeFromByte(b byte) (HashType, error) {
	switch HashType(b) {
	case HashTypeData, HashTypeType, HashTypeData1:
		return HashType(b), nil
	default:
		return HashTypeData, &InvalidTagError{Tag: "HashType", Value: b}
	}
}

// ParseHashType decodes a text name.
func ParseHashType(name string) (HashType, error) {
	switch name {
	case "data":
		return HashTypeData, nil
	case "type":
		return HashTypeType, nil
	case "data1":
		return HashTypeData1, nil
	default:
		return HashTypeData, &InvalidTagError{Tag: "HashType", Name: name}
	}
}

// Byte returns the binary tag.
func (t HashType) Byte() byte { return byte(t) }

// Valid reports whether t is one of the defined variants.
func (t HashType) Valid() bool { return t <= HashTypeData1 }

func (t HashType) String() string {
	switch t {
	case HashTypeData:
		return "data"
	case HashTypeType:
		return "type"
	case HashTypeData1:
		return "data1"
	default:
		return fmt.Sprintf("HashType(%d)", uint8(t))
	}
}

func (t HashType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, &InvalidTagError{Tag: "HashType", Value: uint8(t)}
	}
	return []byte(t.String()), nil
}

func (t *HashType) UnmarshalText(text []byte) error {
	v, err := ParseHashType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DepType specifies how a cell dependency is used.
type DepType uint8

const (
	// DepTypeCode uses the referenced cell itself.
	DepTypeCode DepType = 0
	// DepTypeDepGroup expands the referenced cell, whose data is a
	// molecule OutPointVec, into its member cells.
	DepTypeDepGroup DepType = 1
)

// DepTypeFromByte decodes a binary tag. Bytes outside the defined set are
// rejected, never aliased.
func DepTypeFromByte(b byte) (DepType, error) {
	switch DepType(b) {
	case DepTypeCode, DepTypeDepGroup:
		return DepType(b), nil
	default:
		return DepTypeCode, &InvalidTagError{Tag: "DepType", Value: b}
	}
}

// ParseDepType decodes a text name.
func ParseDepType(name string) (DepType, error) {
	switch name {
	case "code":
		return DepTypeCode, nil
	case "dep_group":
		return DepTypeDepGroup, nil
	default:
		return DepTypeCode, &InvalidTagError{Tag: "DepType", Name: name}
	}
}

// Byte returns the binary tag.
func (t DepType) Byte() byte { return byte(t) }

// Valid reports whether t is one of the defined variants.
func (t DepType) Valid() bool { return t <= DepTypeDepGroup }

func (t DepType) String() string {
	switch t {
	case DepTypeCode:
		return "code"
	case DepTypeDepGroup:
		return "dep_group"
	default:
		return fmt.Sprintf("DepType(%d)", uint8(t))
	}
}

func (t DepType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, &InvalidTagError{Tag: "DepType", Value: uint8(t)}
	}
	return []byte(t.String()), nil
}

func (t *DepType) UnmarshalText(text []byte) error {
	v, err := ParseDepType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
