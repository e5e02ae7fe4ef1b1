package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error in this package matches exactly one of
// these through errors.Is.
var (
	ErrHexPrefix           = errors.New("invalid hex prefix")
	ErrHexDecode           = errors.New("parse from hex error")
	ErrParseBytes          = errors.New("parse bytes error")
	ErrParseUint           = errors.New("parse uint error")
	ErrInvalidTag          = errors.New("invalid tag")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrOutputsDataMismatch = errors.New("outputs and outputs_data differ in length")
	ErrHashMismatch        = errors.New("transaction hash mismatch")
)

// maxQuoted bounds how much untrusted input is echoed into messages.
const maxQuoted = 72

func quote(s string) string {
	if len(s) > maxQuoted {
		return fmt.Sprintf("%q...", s[:maxQuoted])
	}
	return fmt.Sprintf("%q", s)
}

// HexPrefixError reports text that lacks the 0x or 0X prefix.
type HexPrefixError struct {
	Input string
}

func (e *HexPrefixError) Error() string {
	return fmt.Sprintf("%s: %s", ErrHexPrefix, quote(e.Input))
}

func (e *HexPrefixError) Is(target error) bool { return target == ErrHexPrefix }

// HexDecodeError reports an odd-length or non-hex payload after the
// prefix.
type HexDecodeError struct {
	Input string
	Err   error
}

func (e *HexDecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrHexDecode, quote(e.Input), e.Err)
}

func (e *HexDecodeError) Is(target error) bool { return target == ErrHexDecode }

func (e *HexDecodeError) Unwrap() error { return e.Err }

// ParseBytesError reports a byte length that does not match a
// fixed-length field.
type ParseBytesError struct {
	Want int
	Got  int
}

func (e *ParseBytesError) Error() string {
	return fmt.Sprintf("%s: expected %d bytes, got %d", ErrParseBytes, e.Want, e.Got)
}

func (e *ParseBytesError) Is(target error) bool { return target == ErrParseBytes }

// ParseUintError reports hex digits that do not parse as an unsigned
// integer of the given width.
type ParseUintError struct {
	Input string
	Bits  int
	Err   error
}

func (e *ParseUintError) Error() string {
	return fmt.Sprintf("%s %s as uint%d: %v", ErrParseUint, quote(e.Input), e.Bits, e.Err)
}

func (e *ParseUintError) Is(target error) bool { return target == ErrParseUint }

func (e *ParseUintError) Unwrap() error { return e.Err }

// InvalidTagError reports an enumeration tag outside its defined set,
// given either as a binary byte or as a text name.
type InvalidTagError struct {
	Tag   string
	Value uint8
	Name  string
}

func (e *InvalidTagError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s name %s", ErrInvalidTag, e.Tag, quote(e.Name))
	}
	return fmt.Sprintf("%s: %s byte 0x%02x", ErrInvalidTag, e.Tag, e.Value)
}

func (e *InvalidTagError) Is(target error) bool { return target == ErrInvalidTag }

// MalformedRecordError reports a binary record whose layout does not
// verify. Err is the underlying molecule or field error.
type MalformedRecordError struct {
	Record string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrMalformedRecord, e.Record, e.Err)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// OutputsDataMismatchError reports a transaction whose outputs and
// outputs_data arrays are not parallel.
type OutputsDataMismatchError struct {
	Outputs     int
	OutputsData int
}

func (e *OutputsDataMismatchError) Error() string {
	return fmt.Sprintf("%s: %d outputs, %d outputs_data", ErrOutputsDataMismatch, e.Outputs, e.OutputsData)
}

func (e *OutputsDataMismatchError) Is(target error) bool { return target == ErrOutputsDataMismatch }

// HashMismatchError reports a transaction hash that disagrees with the
// hash of its canonical encoding.
type HashMismatchError struct {
	Want Hash32
	Got  Hash32
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("%s: canonical %s, given %s", ErrHashMismatch, e.Want, e.Got)
}

func (e *HashMismatchError) Is(target error) bool { return target == ErrHashMismatch }

func malformed(record string, err error) error {
	return &MalformedRecordError{Record: record, Err: err}
}
