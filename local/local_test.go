package local

import (
	"context"
	"errors"
	"testing"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/server"
	cellcodectest "github.com/blockberries/cellcodec/testing"
	"github.com/blockberries/cellcodec/types"
)

func TestLocalConnection_Compliance(t *testing.T) {
	cellcodectest.RunComplianceSuite(t, func(t *testing.T) cellcodec.Connection {
		conn, err := Open()
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		return conn
	})
}

func TestLocalConnection_SharedServer(t *testing.T) {
	srv, err := server.New()
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	defer srv.Close()

	a := NewConnection(srv)
	b := NewConnection(srv)

	h := cellcodectest.NewHarness(t, a)
	tx := h.DecodeTransactionHex(cellcodectest.SampleTransactionHex)
	if tx.Hash.String() != cellcodectest.SampleTransactionHash {
		t.Fatalf("unexpected hash %s", tx.Hash)
	}

	// Both handles share the server's cache.
	if srv.CacheLen() != 1 {
		t.Fatalf("expected 1 cached transaction, got %d", srv.CacheLen())
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := a.DecodeScript(context.Background(), nil); !errors.Is(err, cellcodec.ErrClosed) {
		t.Fatalf("expected ErrClosed on closed handle, got %v", err)
	}

	// Closing one handle leaves the server and other handles serving.
	out, err := b.NormalizeScalar(context.Background(), types.KindUint32, "0x0a")
	if err != nil {
		t.Fatalf("NormalizeScalar on open handle failed: %v", err)
	}
	if out != "0xa" {
		t.Errorf("expected 0xa, got %s", out)
	}
	if b.Server() != srv {
		t.Error("expected Server to return the shared server")
	}
}

func TestLocalConnection_OwnedServerCloses(t *testing.T) {
	conn, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	srv := conn.Server()
	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := srv.DecodeScript(context.Background(), nil); !errors.Is(err, cellcodec.ErrClosed) {
		t.Fatalf("expected owned server to be closed, got %v", err)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.MaxRecordBytes = -1
	if _, err := Open(server.WithConfig(cfg)); err == nil {
		t.Fatal("expected an error for an invalid config")
	}
}
