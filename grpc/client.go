package cellgrpc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/server"
	"github.com/blockberries/cellcodec/types"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Compile-time interface checks.
var (
	_ cellcodec.Connection   = (*Client)(nil)
	_ cellcodec.BatchDecoder = (*Client)(nil)
)

// Client implements cellcodec.Connection for a remote codec server over
// gRPC using cramberry serialization. Inputs that fail local structural
// checks are rejected without a round trip.
type Client struct {
	cc    *grpc.ClientConn
	guard *server.LifecycleGuard
}

// Dial connects to a remote codec server.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("cellcodec client: dial %s: %w", addr, err)
	}
	return &Client{
		cc:    cc,
		guard: server.NewLifecycleGuard(),
	}, nil
}

// Close waits for in-flight calls and closes the connection. It is safe
// to call more than once.
func (c *Client) Close() error {
	if !c.guard.Close() {
		return nil
	}
	return c.cc.Close()
}

// --- Transactions ---

func (c *Client) DecodeTransaction(ctx context.Context, data []byte) (types.TransactionView, error) {
	resp := new(types.TransactionView)
	if err := c.invoke(ctx, "DecodeTransaction", &DecodeRequest{Record: data}, resp); err != nil {
		return types.TransactionView{}, err
	}
	return *resp, nil
}

func (c *Client) DecodeTransactions(ctx context.Context, records [][]byte) ([]types.TransactionView, error) {
	const method = "DecodeTransactions"
	if err := c.guard.Acquire(); err != nil {
		return nil, err
	}
	defer c.guard.Release()

	stream, err := c.cc.NewStream(ctx, &grpc.StreamDesc{
		StreamName:    method,
		ServerStreams: true,
	}, fullMethod(method))
	if err != nil {
		return nil, fromStatus(method, err, nil)
	}
	if err := stream.SendMsg(&DecodeBatchRequest{Records: records}); err != nil {
		return nil, fromStatus(method, err, stream.Trailer())
	}
	if err := stream.CloseSend(); err != nil {
		return nil, fromStatus(method, err, stream.Trailer())
	}

	out := make([]types.TransactionView, 0, len(records))
	for {
		tx := new(types.TransactionView)
		err := stream.RecvMsg(tx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fromStatus(method, err, stream.Trailer())
		}
		out = append(out, *tx)
	}
	if len(out) != len(records) {
		return nil, fmt.Errorf("cellcodec client: %s: got %d transactions for %d records", method, len(out), len(records))
	}
	return out, nil
}

func (c *Client) EncodeTransaction(ctx context.Context, tx types.TransactionView) ([]byte, error) {
	const method = "EncodeTransaction"
	if err := tx.Validate(); err != nil {
		return nil, cellcodec.NewValidationError(method, err)
	}
	resp := new(EncodeResponse)
	if err := c.invoke(ctx, method, &tx, resp); err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// --- Cells ---

func (c *Client) DecodeCellOutput(ctx context.Context, data []byte) (types.CellOutput, error) {
	resp := new(types.CellOutput)
	if err := c.invoke(ctx, "DecodeCellOutput", &DecodeRequest{Record: data}, resp); err != nil {
		return types.CellOutput{}, err
	}
	return *resp, nil
}

func (c *Client) EncodeCellOutput(ctx context.Context, out types.CellOutput) ([]byte, error) {
	const method = "EncodeCellOutput"
	if err := out.Validate(); err != nil {
		return nil, cellcodec.NewValidationError(method, err)
	}
	resp := new(EncodeResponse)
	if err := c.invoke(ctx, method, &out, resp); err != nil {
		return nil, err
	}
	return resp.Record, nil
}

func (c *Client) DecodeScript(ctx context.Context, data []byte) (types.Script, error) {
	resp := new(types.Script)
	if err := c.invoke(ctx, "DecodeScript", &DecodeRequest{Record: data}, resp); err != nil {
		return types.Script{}, err
	}
	return *resp, nil
}

func (c *Client) EncodeScript(ctx context.Context, script types.Script) ([]byte, error) {
	const method = "EncodeScript"
	if err := script.Validate(); err != nil {
		return nil, cellcodec.NewValidationError(method, err)
	}
	resp := new(EncodeResponse)
	if err := c.invoke(ctx, method, &script, resp); err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// --- Scalars ---

func (c *Client) NormalizeScalar(ctx context.Context, kind types.ScalarKind, text string) (string, error) {
	resp := new(NormalizeScalarResponse)
	req := &NormalizeScalarRequest{Kind: kind, Text: text}
	if err := c.invoke(ctx, "NormalizeScalar", req, resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// invoke performs a unary call under the lifecycle guard and converts a
// failed status back into a codec error.
func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	if err := c.guard.Acquire(); err != nil {
		return err
	}
	defer c.guard.Release()

	var trailer metadata.MD
	if err := c.cc.Invoke(ctx, fullMethod(method), req, resp, grpc.Trailer(&trailer)); err != nil {
		return fromStatus(method, err, trailer)
	}
	return nil
}
