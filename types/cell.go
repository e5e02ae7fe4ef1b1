package types

import (
	"fmt"
	"math/bits"

	"github.com/blockberries/cellcodec/ckbhash"
	"github.com/blockberries/cellcodec/molecule"
)

// Fixed molecule sizes of the struct records.
const (
	OutPointSize  = 32 + 4
	CellInputSize = 8 + OutPointSize
	CellDepSize   = OutPointSize + 1
)

// ShannonsPerByte is the capacity needed to occupy one byte of a cell.
const ShannonsPerByte = 100_000_000

// Script describes a lock or type script.
type Script struct {
	// The hash used to match the script code.
	CodeHash Hash32 `cramberry:"1" json:"code_hash"`
	// How CodeHash is matched against code cells.
	HashType HashType `cramberry:"2" json:"hash_type"`
	// Arguments passed to the script. May be empty.
	Args Bytes `cramberry:"3" json:"args"`
}

// DecodeScript decodes a molecule Script table.
func DecodeScript(data []byte) (Script, error) {
	fields, err := molecule.ReadTable("Script", data, 3)
	if err != nil {
		return Script{}, malformed("Script", err)
	}

	codeHash, err := Hash32FromBinary(fields[0])
	if err != nil {
		return Script{}, malformed("Script.code_hash", err)
	}
	if len(fields[1]) != 1 {
		return Script{}, malformed("Script.hash_type", &ParseBytesError{Want: 1, Got: len(fields[1])})
	}
	hashType, err := HashTypeFromByte(fields[1][0])
	if err != nil {
		return Script{}, fmt.Errorf("Script.hash_type: %w", err)
	}
	args, err := molecule.ReadBytes("Bytes", fields[2])
	if err != nil {
		return Script{}, malformed("Script.args", err)
	}

	return Script{
		CodeHash: codeHash,
		HashType: hashType,
		Args:     BytesFromBinary(args),
	}, nil
}

// Encode returns the molecule Script table.
func (s Script) Encode() []byte {
	return molecule.Table(
		s.CodeHash[:],
		[]byte{s.HashType.Byte()},
		molecule.Bytes(s.Args),
	)
}

// Hash returns the script hash: the digest of its encoding.
func (s Script) Hash() Hash32 {
	return Hash32(ckbhash.Sum(s.Encode()))
}

// Validate reports a hash type outside the defined set.
func (s Script) Validate() error {
	if !s.HashType.Valid() {
		return &InvalidTagError{Tag: "HashType", Value: s.HashType.Byte()}
	}
	return nil
}

// OccupiedBytes returns the cell bytes the script occupies: code hash,
// hash type and args.
func (s Script) OccupiedBytes() uint64 {
	return 32 + 1 + uint64(len(s.Args))
}

// Clone returns a copy that shares no storage with s.
func (s Script) Clone() Script {
	s.Args = BytesFromBinary(s.Args)
	return s
}

// OutPoint references a cell by the transaction that created it and the
// output index within that transaction.
type OutPoint struct {
	TxHash Hash32 `cramberry:"1" json:"tx_hash"`
	Index  Uint32 `cramberry:"2" json:"index"`
}

// DecodeOutPoint decodes a molecule OutPoint struct.
func DecodeOutPoint(data []byte) (OutPoint, error) {
	fields, err := molecule.ReadStruct("OutPoint", data, 32, 4)
	if err != nil {
		return OutPoint{}, malformed("OutPoint", err)
	}
	// Field sizes are fixed by ReadStruct.
	txHash, _ := Hash32FromBinary(fields[0])
	index, _ := Uint32FromBinary(fields[1])
	return OutPoint{TxHash: txHash, Index: index}, nil
}

// Encode returns the molecule OutPoint struct.
func (o OutPoint) Encode() []byte {
	return molecule.Struct(o.TxHash[:], o.Index.Binary())
}

// CellInput is a transaction input.
type CellInput struct {
	// Restricts when the transaction can be committed.
	Since Uint64 `cramberry:"1" json:"since"`
	// The cell being consumed.
	PreviousOutput OutPoint `cramberry:"2" json:"previous_output"`
}

// DecodeCellInput decodes a molecule CellInput struct.
func DecodeCellInput(data []byte) (CellInput, error) {
	fields, err := molecule.ReadStruct("CellInput", data, 8, OutPointSize)
	if err != nil {
		return CellInput{}, malformed("CellInput", err)
	}
	since, _ := Uint64FromBinary(fields[0])
	prev, err := DecodeOutPoint(fields[1])
	if err != nil {
		return CellInput{}, err
	}
	return CellInput{Since: since, PreviousOutput: prev}, nil
}

// Encode returns the molecule CellInput struct.
func (c CellInput) Encode() []byte {
	return molecule.Struct(c.Since.Binary(), c.PreviousOutput.Encode())
}

// CellOutput holds the fields of an output cell except its data.
type CellOutput struct {
	// Cell value in Shannons; also the upper bound of its occupied bytes.
	Capacity Capacity `cramberry:"1" json:"capacity"`
	Lock     Script   `cramberry:"2" json:"lock"`
	// Optional type script. Nil when absent.
	Type *Script `cramberry:"3" json:"type"`
}

// DecodeCellOutput decodes a molecule CellOutput table. An empty type
// field is an absent type script.
func DecodeCellOutput(data []byte) (CellOutput, error) {
	fields, err := molecule.ReadTable("CellOutput", data, 3)
	if err != nil {
		return CellOutput{}, malformed("CellOutput", err)
	}

	capacity, err := Uint64FromBinary(fields[0])
	if err != nil {
		return CellOutput{}, malformed("CellOutput.capacity", err)
	}
	lock, err := DecodeScript(fields[1])
	if err != nil {
		return CellOutput{}, fmt.Errorf("CellOutput.lock: %w", err)
	}

	out := CellOutput{Capacity: capacity, Lock: lock}
	if len(fields[2]) > 0 {
		typ, err := DecodeScript(fields[2])
		if err != nil {
			return CellOutput{}, fmt.Errorf("CellOutput.type: %w", err)
		}
		out.Type = &typ
	}
	return out, nil
}

// Encode returns the molecule CellOutput table.
func (c CellOutput) Encode() []byte {
	var typ []byte
	if c.Type != nil {
		typ = c.Type.Encode()
	}
	return molecule.Table(c.Capacity.Binary(), c.Lock.Encode(), typ)
}

// OccupiedCapacity returns the least capacity a cell holding c and
// dataLen bytes of data may have. ok is false if it overflows.
func (c CellOutput) OccupiedCapacity(dataLen int) (capacity Capacity, ok bool) {
	size := 8 + c.Lock.OccupiedBytes() + uint64(dataLen)
	if c.Type != nil {
		size += c.Type.OccupiedBytes()
	}
	hi, lo := bits.Mul64(size, ShannonsPerByte)
	return Capacity(lo), hi == 0
}

// Validate checks the tags of both scripts.
func (c CellOutput) Validate() error {
	if err := c.Lock.Validate(); err != nil {
		return fmt.Errorf("CellOutput.lock: %w", err)
	}
	if c.Type != nil {
		if err := c.Type.Validate(); err != nil {
			return fmt.Errorf("CellOutput.type: %w", err)
		}
	}
	return nil
}

// Clone returns a copy that shares no storage with c.
func (c CellOutput) Clone() CellOutput {
	c.Lock = c.Lock.Clone()
	if c.Type != nil {
		typ := c.Type.Clone()
		c.Type = &typ
	}
	return c
}

// CellDep is a cell dependency of a transaction.
type CellDep struct {
	OutPoint OutPoint `cramberry:"1" json:"out_point"`
	DepType  DepType  `cramberry:"2" json:"dep_type"`
}

// DecodeCellDep decodes a molecule CellDep struct.
func DecodeCellDep(data []byte) (CellDep, error) {
	fields, err := molecule.ReadStruct("CellDep", data, OutPointSize, 1)
	if err != nil {
		return CellDep{}, malformed("CellDep", err)
	}
	outPoint, err := DecodeOutPoint(fields[0])
	if err != nil {
		return CellDep{}, err
	}
	depType, err := DepTypeFromByte(fields[1][0])
	if err != nil {
		return CellDep{}, fmt.Errorf("CellDep.dep_type: %w", err)
	}
	return CellDep{OutPoint: outPoint, DepType: depType}, nil
}

// Validate reports a dep type outside the defined set.
func (c CellDep) Validate() error {
	if !c.DepType.Valid() {
		return &InvalidTagError{Tag: "DepType", Value: c.DepType.Byte()}
	}
	return nil
}

// Encode returns the molecule CellDep struct.
func (c CellDep) Encode() []byte {
	return molecule.Struct(c.OutPoint.Encode(), []byte{c.DepType.Byte()})
}
