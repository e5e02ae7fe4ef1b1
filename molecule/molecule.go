// Package molecule implements the molecule serialization primitives that
// CKB records are built from: fixed-size arrays and structs, fixvec,
// dynvec, table and option.
//
// Builders never fail. Readers verify a record against its own declared
// sizes before slicing it, so a malformed header can never make a reader
// allocate more item views than the buffer could hold. Item views returned
// by readers alias the input; callers that keep them must copy.
package molecule

import (
	"encoding/binary"
	"fmt"
)

// NumberSize is the width of every size, count and offset header.
const NumberSize = 4

// ErrorKind classifies a verification failure.
type ErrorKind uint8

const (
	// HeaderIsBroken: the buffer is too short to hold its own header.
	HeaderIsBroken ErrorKind = iota + 1
	// TotalSizeNotMatch: the declared size disagrees with the buffer.
	TotalSizeNotMatch
	// OffsetsNotMatch: an offset is misaligned, decreasing or out of range.
	OffsetsNotMatch
	// FieldCountNotMatch: a table carries the wrong number of fields.
	FieldCountNotMatch
)

func (k ErrorKind) String() string {
	switch k {
	case HeaderIsBroken:
		return "HeaderIsBroken"
	case TotalSizeNotMatch:
		return "TotalSizeNotMatch"
	case OffsetsNotMatch:
		return "OffsetsNotMatch"
	case FieldCountNotMatch:
		return "FieldCountNotMatch"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// VerificationError reports a record whose layout does not verify.
type VerificationError struct {
	Kind   ErrorKind
	Type   string
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("molecule: %s: %s: %s", e.Type, e.Kind, e.Reason)
}

func verifyErr(kind ErrorKind, typeName, format string, args ...any) error {
	return &VerificationError{Kind: kind, Type: typeName, Reason: fmt.Sprintf(format, args...)}
}

func readNumber(data []byte) int {
	return int(binary.LittleEndian.Uint32(data))
}

// --- Builders ---

// Uint32 encodes v as a little-endian 4-byte array.
func Uint32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, 4), v)
}

// Uint64 encodes v as a little-endian 8-byte array.
func Uint64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, 8), v)
}

// Struct concatenates fixed-size fields.
func Struct(fields ...[]byte) []byte {
	size := 0
	for _, f := range fields {
		size += len(f)
	}
	buf := make([]byte, 0, size)
	for _, f := range fields {
		buf = append(buf, f...)
	}
	return buf
}

// Fixvec encodes items of one fixed size: an item count followed by the
// items back to back.
func Fixvec(items ...[]byte) []byte {
	size := NumberSize
	for _, it := range items {
		size += len(it)
	}
	buf := binary.LittleEndian.AppendUint32(make([]byte, 0, size), uint32(len(items)))
	for _, it := range items {
		buf = append(buf, it...)
	}
	return buf
}

// Bytes encodes b as fixvec<byte>.
func Bytes(b []byte) []byte {
	buf := binary.LittleEndian.AppendUint32(make([]byte, 0, NumberSize+len(b)), uint32(len(b)))
	return append(buf, b...)
}

// Dynvec encodes variable-size items: total size, one offset per item,
// then the items.
func Dynvec(items ...[]byte) []byte {
	header := NumberSize * (len(items) + 1)
	total := header
	for _, it := range items {
		total += len(it)
	}

	buf := make([]byte, 0, total)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(total))
	offset := header
	for _, it := range items {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(offset))
		offset += len(it)
	}
	for _, it := range items {
		buf = append(buf, it...)
	}
	return buf
}

// Table encodes fields with the dynvec layout.
func Table(fields ...[]byte) []byte {
	return Dynvec(fields...)
}

// BytesVec encodes items as dynvec<fixvec<byte>>.
func BytesVec(items ...[]byte) []byte {
	encoded := make([][]byte, len(items))
	for i, it := range items {
		encoded[i] = Bytes(it)
	}
	return Dynvec(encoded...)
}

// --- Readers ---

// ReadArray verifies that data is exactly size bytes long.
func ReadArray(typeName string, data []byte, size int) ([]byte, error) {
	if len(data) != size {
		return nil, verifyErr(TotalSizeNotMatch, typeName, "expected %d bytes, got %d", size, len(data))
	}
	return data, nil
}

// ReadStruct splits a fixed-size struct into its fields.
func ReadStruct(typeName string, data []byte, sizes ...int) ([][]byte, error) {
	total := 0
	for _, s := range sizes {
		total += s
	}
	if len(data) != total {
		return nil, verifyErr(TotalSizeNotMatch, typeName, "expected %d bytes, got %d", total, len(data))
	}

	fields := make([][]byte, len(sizes))
	offset := 0
	for i, s := range sizes {
		fields[i] = data[offset : offset+s : offset+s]
		offset += s
	}
	return fields, nil
}

// ReadFixvec splits a fixvec whose items are itemSize bytes each.
func ReadFixvec(typeName string, data []byte, itemSize int) ([][]byte, error) {
	if len(data) < NumberSize {
		return nil, verifyErr(HeaderIsBroken, typeName, "expected at least %d bytes, got %d", NumberSize, len(data))
	}

	count := uint64(binary.LittleEndian.Uint32(data))
	body := uint64(len(data) - NumberSize)
	if count*uint64(itemSize) != body {
		return nil, verifyErr(TotalSizeNotMatch, typeName, "%d items of %d bytes do not fill %d bytes", count, itemSize, body)
	}
	if count == 0 {
		return nil, nil
	}

	items := make([][]byte, count)
	for i := range items {
		start := NumberSize + i*itemSize
		items[i] = data[start : start+itemSize : start+itemSize]
	}
	return items, nil
}

// ReadBytes returns the payload of a fixvec<byte>.
func ReadBytes(typeName string, data []byte) ([]byte, error) {
	if len(data) < NumberSize {
		return nil, verifyErr(HeaderIsBroken, typeName, "expected at least %d bytes, got %d", NumberSize, len(data))
	}
	if n := readNumber(data); n != len(data)-NumberSize {
		return nil, verifyErr(TotalSizeNotMatch, typeName, "declared %d bytes, got %d", n, len(data)-NumberSize)
	}
	return data[NumberSize:], nil
}

// ReadDynvec splits a dynvec into its items.
func ReadDynvec(typeName string, data []byte) ([][]byte, error) {
	return readOffsets(typeName, data)
}

// ReadTable splits a table into exactly fieldCount fields.
func ReadTable(typeName string, data []byte, fieldCount int) ([][]byte, error) {
	fields, err := readOffsets(typeName, data)
	if err != nil {
		return nil, err
	}
	if len(fields) != fieldCount {
		return nil, verifyErr(FieldCountNotMatch, typeName, "expected %d fields, got %d", fieldCount, len(fields))
	}
	return fields, nil
}

// ReadBytesVec returns the payloads of a dynvec<fixvec<byte>>.
func ReadBytesVec(typeName string, data []byte) ([][]byte, error) {
	items, err := readOffsets(typeName, data)
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		payload, err := ReadBytes("Bytes", it)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", typeName, i, err)
		}
		items[i] = payload
	}
	return items, nil
}

// readOffsets verifies the shared dynvec/table header and slices the
// items it describes.
func readOffsets(typeName string, data []byte) ([][]byte, error) {
	size := len(data)
	if size < NumberSize {
		return nil, verifyErr(HeaderIsBroken, typeName, "expected at least %d bytes, got %d", NumberSize, size)
	}
	if total := readNumber(data); total != size {
		return nil, verifyErr(TotalSizeNotMatch, typeName, "declared %d bytes, got %d", total, size)
	}
	if size == NumberSize {
		return nil, nil
	}
	if size < NumberSize*2 {
		return nil, verifyErr(HeaderIsBroken, typeName, "expected at least %d bytes, got %d", NumberSize*2, size)
	}

	first := readNumber(data[NumberSize:])
	if first%NumberSize != 0 || first < NumberSize*2 {
		return nil, verifyErr(OffsetsNotMatch, typeName, "first offset %d is not a valid header size", first)
	}
	if first > size {
		return nil, verifyErr(HeaderIsBroken, typeName, "header of %d bytes exceeds record of %d", first, size)
	}

	count := first/NumberSize - 1
	items := make([][]byte, count)
	for i := range items {
		start := readNumber(data[NumberSize*(i+1):])
		end := size
		if i+1 < count {
			end = readNumber(data[NumberSize*(i+2):])
		}
		if start > end || end > size {
			return nil, verifyErr(OffsetsNotMatch, typeName, "item %d spans [%d, %d) in %d bytes", i, start, end, size)
		}
		items[i] = data[start:end:end]
	}
	return items, nil
}
