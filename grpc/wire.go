package cellgrpc

import "github.com/blockberries/cellcodec/types"

// Transport-specific wrapper types for RPC methods whose interface
// signatures don't map to a single request/response struct.
// These are used only for gRPC serialization boundaries.

// DecodeRequest carries one binary record to decode.
type DecodeRequest struct {
	Record []byte `cramberry:"1"`
}

// EncodeResponse carries the binary record produced by an encode call.
type EncodeResponse struct {
	Record []byte `cramberry:"1"`
}

// DecodeBatchRequest opens the DecodeTransactions server stream. The
// server answers with one TransactionView per record, in order.
type DecodeBatchRequest struct {
	Records [][]byte `cramberry:"1"`
}

// NormalizeScalarRequest wraps the parameters of Codec.NormalizeScalar.
type NormalizeScalarRequest struct {
	Kind types.ScalarKind `cramberry:"1"`
	Text string           `cramberry:"2"`
}

// NormalizeScalarResponse wraps the return value of
// Codec.NormalizeScalar.
type NormalizeScalarResponse struct {
	Text string `cramberry:"1"`
}
