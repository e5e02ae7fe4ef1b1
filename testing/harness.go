package cellcodectest

import (
	"context"
	"testing"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/server"
	"github.com/blockberries/cellcodec/types"
)

// Harness wraps a Connection and fails the test on any unexpected
// error, so codec round trips read as plain calls.
type Harness struct {
	t    *testing.T
	conn cellcodec.Connection
}

// NewHarness creates a harness around conn and closes it when the test
// ends.
func NewHarness(t *testing.T, conn cellcodec.Connection) *Harness {
	t.Helper()
	t.Cleanup(func() { _ = conn.Close() })
	return &Harness{t: t, conn: conn}
}

// NewServerHarness creates a harness around an in-process server.
func NewServerHarness(t *testing.T, opts ...server.Option) *Harness {
	t.Helper()
	srv, err := server.New(opts...)
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	return NewHarness(t, srv)
}

// Conn returns the underlying connection for direct access.
func (h *Harness) Conn() cellcodec.Connection {
	return h.conn
}

// MustHex decodes 0x-prefixed hex text.
func (h *Harness) MustHex(text string) []byte {
	h.t.Helper()
	b, err := types.DecodeHex(text)
	if err != nil {
		h.t.Fatalf("DecodeHex(%q) failed: %v", text, err)
	}
	return b
}

// DecodeTransaction decodes a binary transaction.
func (h *Harness) DecodeTransaction(data []byte) types.TransactionView {
	h.t.Helper()
	tx, err := h.conn.DecodeTransaction(context.Background(), data)
	if err != nil {
		h.t.Fatalf("DecodeTransaction failed: %v", err)
	}
	return tx
}

// DecodeTransactionHex decodes a transaction given as hex text.
func (h *Harness) DecodeTransactionHex(text string) types.TransactionView {
	h.t.Helper()
	return h.DecodeTransaction(h.MustHex(text))
}

// EncodeTransaction encodes tx.
func (h *Harness) EncodeTransaction(tx types.TransactionView) []byte {
	h.t.Helper()
	data, err := h.conn.EncodeTransaction(context.Background(), tx)
	if err != nil {
		h.t.Fatalf("EncodeTransaction failed: %v", err)
	}
	return data
}

// RoundTripTransaction encodes tx, decodes the result and checks that
// the decoded view carries the canonical hash and re-encodes to the same
// bytes.
func (h *Harness) RoundTripTransaction(tx types.TransactionView) types.TransactionView {
	h.t.Helper()
	data := h.EncodeTransaction(tx)
	got := h.DecodeTransaction(data)
	if got.Hash != tx.CanonicalHash() {
		h.t.Fatalf("round trip hash %s, want %s", got.Hash, tx.CanonicalHash())
	}
	if again := h.EncodeTransaction(got); types.EncodeHex(again) != types.EncodeHex(data) {
		h.t.Fatalf("re-encoding differs:\n got %x\nwant %x", again, data)
	}
	return got
}

// DecodeCellOutput decodes a binary cell output.
func (h *Harness) DecodeCellOutput(data []byte) types.CellOutput {
	h.t.Helper()
	out, err := h.conn.DecodeCellOutput(context.Background(), data)
	if err != nil {
		h.t.Fatalf("DecodeCellOutput failed: %v", err)
	}
	return out
}

// EncodeCellOutput encodes out.
func (h *Harness) EncodeCellOutput(out types.CellOutput) []byte {
	h.t.Helper()
	data, err := h.conn.EncodeCellOutput(context.Background(), out)
	if err != nil {
		h.t.Fatalf("EncodeCellOutput failed: %v", err)
	}
	return data
}

// DecodeScript decodes a binary script.
func (h *Harness) DecodeScript(data []byte) types.Script {
	h.t.Helper()
	script, err := h.conn.DecodeScript(context.Background(), data)
	if err != nil {
		h.t.Fatalf("DecodeScript failed: %v", err)
	}
	return script
}

// EncodeScript encodes script.
func (h *Harness) EncodeScript(script types.Script) []byte {
	h.t.Helper()
	data, err := h.conn.EncodeScript(context.Background(), script)
	if err != nil {
		h.t.Fatalf("EncodeScript failed: %v", err)
	}
	return data
}

// Normalize returns the canonical text of a scalar.
func (h *Harness) Normalize(kind types.ScalarKind, text string) string {
	h.t.Helper()
	out, err := h.conn.NormalizeScalar(context.Background(), kind, text)
	if err != nil {
		h.t.Fatalf("NormalizeScalar(%s, %q) failed: %v", kind, text, err)
	}
	return out
}
