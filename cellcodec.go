// Package cellcodec converts CKB transaction data between three
// representations: the molecule binary encoding used on the wire and for
// hashing, a typed value view, and 0x-prefixed hex text.
//
// The core [Codec] interface covers records and scalars. [BatchDecoder]
// is an optional capability discovered via Go type assertion.
// Implementations live in the server (in-process), local and grpc
// packages.
package cellcodec

import (
	"context"

	"github.com/blockberries/cellcodec/types"
)

// Codec decodes and encodes transaction records. Every method is safe for
// concurrent use.
//
// Decoding treats its input as untrusted: malformed layouts, undefined
// tag bytes and violated invariants are reported as errors, never
// repaired. Encoding always produces the canonical molecule layout.
type Codec interface {
	// DecodeTransaction decodes a molecule Transaction. The returned
	// view's Hash is computed from the raw-transaction bytes of data.
	DecodeTransaction(ctx context.Context, data []byte) (types.TransactionView, error)

	// EncodeTransaction encodes tx. A non-zero tx.Hash must match the
	// hash of the canonical encoding.
	EncodeTransaction(ctx context.Context, tx types.TransactionView) ([]byte, error)

	DecodeCellOutput(ctx context.Context, data []byte) (types.CellOutput, error)
	EncodeCellOutput(ctx context.Context, out types.CellOutput) ([]byte, error)

	DecodeScript(ctx context.Context, data []byte) (types.Script, error)
	EncodeScript(ctx context.Context, script types.Script) ([]byte, error)

	// NormalizeScalar parses text as the given scalar kind and returns
	// its canonical text form.
	NormalizeScalar(ctx context.Context, kind types.ScalarKind, text string) (string, error)
}

// BatchDecoder is an optional capability for decoding many transaction
// records in one call. Results are in input order; the first failure
// aborts the batch.
type BatchDecoder interface {
	DecodeTransactions(ctx context.Context, records [][]byte) ([]types.TransactionView, error)
}

// Connection is a transport-agnostic handle to a Codec. Both gRPC
// clients and in-process adapters implement this.
type Connection interface {
	Codec

	// Close releases the connection. Calls made after Close return
	// ErrClosed.
	Close() error
}
