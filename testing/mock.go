// Package cellcodectest provides test utilities for code that depends on
// a cellcodec.Codec, including golden vectors, random generators, a
// configurable mock, a test harness, and a compliance test suite for
// Connection implementations.
package cellcodectest

import (
	"context"
	"sync/atomic"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/types"
)

// Compile-time check that MockCodec satisfies all interfaces.
var (
	_ cellcodec.Connection   = (*MockCodec)(nil)
	_ cellcodec.BatchDecoder = (*MockCodec)(nil)
)

// MockCodec is a configurable Connection. Every method is configurable
// via a function field; unconfigured methods fall through to the types
// package codec, so a zero MockCodec behaves like a real one without
// limits or error classification.
type MockCodec struct {
	DecodeTransactionFn  func(context.Context, []byte) (types.TransactionView, error)
	DecodeTransactionsFn func(context.Context, [][]byte) ([]types.TransactionView, error)
	EncodeTransactionFn  func(context.Context, types.TransactionView) ([]byte, error)
	DecodeCellOutputFn   func(context.Context, []byte) (types.CellOutput, error)
	EncodeCellOutputFn   func(context.Context, types.CellOutput) ([]byte, error)
	DecodeScriptFn       func(context.Context, []byte) (types.Script, error)
	EncodeScriptFn       func(context.Context, types.Script) ([]byte, error)
	NormalizeScalarFn    func(context.Context, types.ScalarKind, string) (string, error)

	// Call counters (atomic for concurrent access).
	DecodeCalls    atomic.Int64
	EncodeCalls    atomic.Int64
	NormalizeCalls atomic.Int64
	CloseCalls     atomic.Int64
}

func (m *MockCodec) DecodeTransaction(ctx context.Context, data []byte) (types.TransactionView, error) {
	m.DecodeCalls.Add(1)
	if m.DecodeTransactionFn != nil {
		return m.DecodeTransactionFn(ctx, data)
	}
	return types.DecodeTransaction(data)
}

func (m *MockCodec) DecodeTransactions(ctx context.Context, records [][]byte) ([]types.TransactionView, error) {
	if m.DecodeTransactionsFn != nil {
		m.DecodeCalls.Add(1)
		return m.DecodeTransactionsFn(ctx, records)
	}
	out := make([]types.TransactionView, len(records))
	for i, r := range records {
		tx, err := m.DecodeTransaction(ctx, r)
		if err != nil {
			return nil, err
		}
		out[i] = tx
	}
	return out, nil
}

func (m *MockCodec) EncodeTransaction(ctx context.Context, tx types.TransactionView) ([]byte, error) {
	m.EncodeCalls.Add(1)
	if m.EncodeTransactionFn != nil {
		return m.EncodeTransactionFn(ctx, tx)
	}
	return tx.Encode(), nil
}

func (m *MockCodec) DecodeCellOutput(ctx context.Context, data []byte) (types.CellOutput, error) {
	m.DecodeCalls.Add(1)
	if m.DecodeCellOutputFn != nil {
		return m.DecodeCellOutputFn(ctx, data)
	}
	return types.DecodeCellOutput(data)
}

func (m *MockCodec) EncodeCellOutput(ctx context.Context, out types.CellOutput) ([]byte, error) {
	m.EncodeCalls.Add(1)
	if m.EncodeCellOutputFn != nil {
		return m.EncodeCellOutputFn(ctx, out)
	}
	return out.Encode(), nil
}

func (m *MockCodec) DecodeScript(ctx context.Context, data []byte) (types.Script, error) {
	m.DecodeCalls.Add(1)
	if m.DecodeScriptFn != nil {
		return m.DecodeScriptFn(ctx, data)
	}
	return types.DecodeScript(data)
}

func (m *MockCodec) EncodeScript(ctx context.Context, script types.Script) ([]byte, error) {
	m.EncodeCalls.Add(1)
	if m.EncodeScriptFn != nil {
		return m.EncodeScriptFn(ctx, script)
	}
	return script.Encode(), nil
}

func (m *MockCodec) NormalizeScalar(ctx context.Context, kind types.ScalarKind, text string) (string, error) {
	m.NormalizeCalls.Add(1)
	if m.NormalizeScalarFn != nil {
		return m.NormalizeScalarFn(ctx, kind, text)
	}
	v, err := types.ParseScalar(kind, text)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (m *MockCodec) Close() error {
	m.CloseCalls.Add(1)
	return nil
}
