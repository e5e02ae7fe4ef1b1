// Package local provides a zero-copy, in-process codec connection.
//
// For callers compiled into the same binary as the codec, this adapter
// hands values straight to a server.Server with no serialization. Many
// connections may share one server, and with it one decode cache.
package local

import (
	"context"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/server"
	"github.com/blockberries/cellcodec/types"
)

// Compile-time interface checks.
var (
	_ cellcodec.Connection   = (*Connection)(nil)
	_ cellcodec.BatchDecoder = (*Connection)(nil)
)

// Connection is an in-process handle to a server.Server. Closing it
// refuses further calls on this handle only, unless the handle owns its
// server.
type Connection struct {
	srv   *server.Server
	guard *server.LifecycleGuard
	owned bool
}

// NewConnection creates a handle to a shared server. Closing the handle
// leaves srv running.
func NewConnection(srv *server.Server) *Connection {
	return &Connection{srv: srv, guard: server.NewLifecycleGuard()}
}

// Open creates a handle to a private server built from opts. Closing the
// handle closes the server.
func Open(opts ...server.Option) (*Connection, error) {
	srv, err := server.New(opts...)
	if err != nil {
		return nil, err
	}
	c := NewConnection(srv)
	c.owned = true
	return c, nil
}

func (c *Connection) DecodeTransaction(ctx context.Context, data []byte) (types.TransactionView, error) {
	if err := c.guard.Acquire(); err != nil {
		return types.TransactionView{}, err
	}
	defer c.guard.Release()
	return c.srv.DecodeTransaction(ctx, data)
}

func (c *Connection) DecodeTransactions(ctx context.Context, records [][]byte) ([]types.TransactionView, error) {
	if err := c.guard.Acquire(); err != nil {
		return nil, err
	}
	defer c.guard.Release()
	return c.srv.DecodeTransactions(ctx, records)
}

func (c *Connection) EncodeTransaction(ctx context.Context, tx types.TransactionView) ([]byte, error) {
	if err := c.guard.Acquire(); err != nil {
		return nil, err
	}
	defer c.guard.Release()
	return c.srv.EncodeTransaction(ctx, tx)
}

func (c *Connection) DecodeCellOutput(ctx context.Context, data []byte) (types.CellOutput, error) {
	if err := c.guard.Acquire(); err != nil {
		return types.CellOutput{}, err
	}
	defer c.guard.Release()
	return c.srv.DecodeCellOutput(ctx, data)
}

func (c *Connection) EncodeCellOutput(ctx context.Context, out types.CellOutput) ([]byte, error) {
	if err := c.guard.Acquire(); err != nil {
		return nil, err
	}
	defer c.guard.Release()
	return c.srv.EncodeCellOutput(ctx, out)
}

func (c *Connection) DecodeScript(ctx context.Context, data []byte) (types.Script, error) {
	if err := c.guard.Acquire(); err != nil {
		return types.Script{}, err
	}
	defer c.guard.Release()
	return c.srv.DecodeScript(ctx, data)
}

func (c *Connection) EncodeScript(ctx context.Context, script types.Script) ([]byte, error) {
	if err := c.guard.Acquire(); err != nil {
		return nil, err
	}
	defer c.guard.Release()
	return c.srv.EncodeScript(ctx, script)
}

func (c *Connection) NormalizeScalar(ctx context.Context, kind types.ScalarKind, text string) (string, error) {
	if err := c.guard.Acquire(); err != nil {
		return "", err
	}
	defer c.guard.Release()
	return c.srv.NormalizeScalar(ctx, kind, text)
}

// Close waits for in-flight calls on this handle, then refuses new ones.
func (c *Connection) Close() error {
	if c.guard.Close() && c.owned {
		return c.srv.Close()
	}
	return nil
}

// Server returns the underlying server for advanced use cases.
func (c *Connection) Server() *server.Server {
	return c.srv
}
