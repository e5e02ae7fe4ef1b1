package cellcodec

import (
	"errors"
	"fmt"

	"github.com/blockberries/cellcodec/types"
)

var (
	// ErrClosed is returned by calls made on a closed Connection.
	ErrClosed = errors.New("cellcodec: connection closed")

	// ErrRecordTooLarge matches RecordTooLargeError.
	ErrRecordTooLarge = errors.New("record too large")
)

// ValidationError reports input rejected by a Codec operation. Err is
// the underlying kind from the types package, or a RecordTooLargeError.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a new ValidationError.
func NewValidationError(op string, err error) *ValidationError {
	return &ValidationError{Op: op, Err: err}
}

// IsValidation checks whether an error is a ValidationError and returns
// it.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// RecordTooLargeError reports a binary record above the configured size
// limit. It is raised before any decoding work.
type RecordTooLargeError struct {
	Size  int
	Limit int
}

func (e *RecordTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds limit of %d", ErrRecordTooLarge, e.Size, e.Limit)
}

func (e *RecordTooLargeError) Is(target error) bool { return target == ErrRecordTooLarge }

// errorKinds names every validation failure kind. Names are stable and
// travel across transports that cannot carry Go error values. Record
// level kinds come first so they win over the field error they wrap.
var errorKinds = []struct {
	name string
	err  error
}{
	{"record_too_large", ErrRecordTooLarge},
	{"malformed_record", types.ErrMalformedRecord},
	{"outputs_data_mismatch", types.ErrOutputsDataMismatch},
	{"hash_mismatch", types.ErrHashMismatch},
	{"invalid_tag", types.ErrInvalidTag},
	{"hex_prefix", types.ErrHexPrefix},
	{"hex_decode", types.ErrHexDecode},
	{"parse_bytes", types.ErrParseBytes},
	{"parse_uint", types.ErrParseUint},
}

// KindOf returns the name of the failure kind err matches, or "" if it
// matches none.
func KindOf(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// KindError returns the sentinel error for a kind name, or nil if the
// name is unknown.
func KindError(name string) error {
	for _, k := range errorKinds {
		if k.name == name {
			return k.err
		}
	}
	return nil
}
