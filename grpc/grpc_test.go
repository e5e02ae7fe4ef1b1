package cellgrpc_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/blockberries/cellcodec"
	cellgrpc "github.com/blockberries/cellcodec/grpc"
	"github.com/blockberries/cellcodec/server"
	cellcodectest "github.com/blockberries/cellcodec/testing"
	"github.com/blockberries/cellcodec/types"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// startServer starts a gRPC server on a random port and returns the
// listener address. The server stops when the test ends.
func startServer(t *testing.T, gs *cellgrpc.GRPCServer) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := grpc.NewServer()
	gs.Register(s)

	go func() {
		// Serve returns once GracefulStop runs.
		_ = s.Serve(lis)
	}()

	t.Cleanup(func() {
		s.GracefulStop()
		_ = gs.Close()
	})
	return lis.Addr().String()
}

func dial(t *testing.T, addr string) *cellgrpc.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := cellgrpc.Dial(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newServer(t *testing.T, opts ...server.Option) *cellgrpc.GRPCServer {
	t.Helper()
	gs, err := cellgrpc.NewGRPCServer(opts...)
	if err != nil {
		t.Fatalf("NewGRPCServer: %v", err)
	}
	return gs
}

func TestGRPC_Compliance(t *testing.T) {
	cellcodectest.RunComplianceSuite(t, func(t *testing.T) cellcodec.Connection {
		return dial(t, startServer(t, newServer(t)))
	})
}

func TestGRPC_HashMismatchCheckedRemotely(t *testing.T) {
	client := dial(t, startServer(t, newServer(t)))

	tx := cellcodectest.SampleTransaction()
	tx.Hash[0] ^= 0xff
	_, err := client.EncodeTransaction(context.Background(), tx)
	if !errors.Is(err, types.ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}

	var remote *cellgrpc.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected a RemoteError, got %T", err)
	}
	if !strings.Contains(remote.Message, cellcodectest.SampleTransactionHash[2:]) {
		t.Fatalf("message should name the canonical hash: %q", remote.Message)
	}
	v, _ := cellcodec.IsValidation(err)
	if v.Op != "EncodeTransaction" {
		t.Fatalf("expected op EncodeTransaction, got %q", v.Op)
	}
}

func TestGRPC_BatchErrorCarriesIndex(t *testing.T) {
	client := dial(t, startServer(t, newServer(t)))
	h := cellcodectest.NewHarness(t, client)

	records := [][]byte{
		h.MustHex(cellcodectest.EmptyTransactionHex),
		h.MustHex(cellcodectest.SampleTransactionHex)[:40],
	}
	_, err := client.DecodeTransactions(context.Background(), records)
	v, ok := cellcodec.IsValidation(err)
	if !ok {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	if v.Op != "DecodeTransactions[1]" {
		t.Fatalf("expected op DecodeTransactions[1], got %q", v.Op)
	}
	if cellcodec.KindOf(err) != "malformed_record" {
		t.Fatalf("expected malformed_record, got %q", cellcodec.KindOf(err))
	}
}

func TestGRPC_EmptyBatch(t *testing.T) {
	client := dial(t, startServer(t, newServer(t)))

	txs, err := client.DecodeTransactions(context.Background(), nil)
	if err != nil {
		t.Fatalf("DecodeTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txs))
	}
}

func TestGRPC_RecordTooLarge(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.MaxRecordBytes = 64
	client := dial(t, startServer(t, newServer(t, server.WithConfig(cfg))))
	h := cellcodectest.NewHarness(t, client)

	_, err := client.DecodeTransaction(context.Background(), h.MustHex(cellcodectest.SampleTransactionHex))
	if !errors.Is(err, cellcodec.ErrRecordTooLarge) {
		t.Fatalf("expected ErrRecordTooLarge, got %v", err)
	}
}

func TestGRPC_LocalValidationSkipsRoundTrip(t *testing.T) {
	gs := newServer(t)
	client := dial(t, startServer(t, gs))

	script := cellcodectest.SampleScript()
	script.HashType = types.HashType(9)
	_, err := client.EncodeScript(context.Background(), script)
	if !errors.Is(err, types.ErrInvalidTag) {
		t.Fatalf("expected ErrInvalidTag, got %v", err)
	}
	var remote *cellgrpc.RemoteError
	if errors.As(err, &remote) {
		t.Fatal("tag check should run before the call")
	}
}

func TestGRPC_ClosedServer(t *testing.T) {
	gs := newServer(t)
	client := dial(t, startServer(t, gs))

	if err := gs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, err := client.DecodeScript(context.Background(), nil)
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestCramberryCodec(t *testing.T) {
	codec := cellgrpc.CramberryCodec{}
	if codec.Name() != "cramberry" {
		t.Fatalf("unexpected codec name %q", codec.Name())
	}

	in := &cellgrpc.NormalizeScalarRequest{Kind: types.KindUint64, Text: "0x0a"}
	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := new(cellgrpc.NormalizeScalarRequest)
	if err := codec.Unmarshal(data, out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip: got %+v, want %+v", out, in)
	}
}

func TestGRPCServer_LogsLostTrailer(t *testing.T) {
	var buf bytes.Buffer
	gs := newServer(t, server.WithLogger(zerolog.New(&buf)))
	t.Cleanup(func() { _ = gs.Close() })

	// Outside a gRPC call there is no stream to carry the trailer.
	_, err := gs.DecodeScript(context.Background(), &cellgrpc.DecodeRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if !strings.Contains(buf.String(), "set error trailer") || !strings.Contains(buf.String(), "malformed_record") {
		t.Fatalf("expected the lost trailer to be logged, got %q", buf.String())
	}
}
