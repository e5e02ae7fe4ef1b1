package server_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/server"
	cellcodectest "github.com/blockberries/cellcodec/testing"
	"github.com/blockberries/cellcodec/types"
)

func newServer(t *testing.T, opts ...server.Option) *server.Server {
	t.Helper()
	srv, err := server.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestServer_Compliance(t *testing.T) {
	cellcodectest.RunComplianceSuite(t, func(t *testing.T) cellcodec.Connection {
		return newServer(t)
	})
}

func TestServer_ComplianceWithoutCache(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.CacheSize = 0
	cellcodectest.RunComplianceSuite(t, func(t *testing.T) cellcodec.Connection {
		return newServer(t, server.WithConfig(cfg))
	})
}

func TestServer_RecordTooLarge(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.MaxRecordBytes = 64
	srv := newServer(t, server.WithConfig(cfg))
	data, err := types.DecodeHex(cellcodectest.SampleTransactionHex)
	require.NoError(t, err)

	_, err = srv.DecodeTransaction(context.Background(), data)
	verr, ok := cellcodec.IsValidation(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, "DecodeTransaction", verr.Op)

	var tooLarge *cellcodec.RecordTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, len(data), tooLarge.Size)
	assert.Equal(t, 64, tooLarge.Limit)

	// Small records still decode under the same limit.
	_, err = srv.DecodeTransaction(context.Background(), data[:0])
	assert.ErrorIs(t, err, types.ErrMalformedRecord)
}

func TestServer_CacheServesCopies(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := server.NewMetrics(reg)
	srv := newServer(t, server.WithMetrics(metrics))
	data, err := types.DecodeHex(cellcodectest.SampleTransactionHex)
	require.NoError(t, err)

	first, err := srv.DecodeTransaction(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.CacheLen())

	first.Witnesses[0][0] = 0xff
	first.Outputs[0].Lock.Args[0] = 0xff

	second, err := srv.DecodeTransaction(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, cellcodectest.SampleTransaction(), second)

	expected := `
# HELP cellcodec_server_cache_hits_total Decoded transactions served from the cache
# TYPE cellcodec_server_cache_hits_total counter
cellcodec_server_cache_hits_total 1
# HELP cellcodec_server_cache_misses_total Transactions decoded because the cache had no entry
# TYPE cellcodec_server_cache_misses_total counter
cellcodec_server_cache_misses_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected),
		"cellcodec_server_cache_hits_total", "cellcodec_server_cache_misses_total"))
	series, err := testutil.GatherAndCount(reg, "cellcodec_server_record_bytes")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestServer_CacheDisabled(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.CacheSize = 0
	srv := newServer(t, server.WithConfig(cfg))
	data, err := types.DecodeHex(cellcodectest.SampleTransactionHex)
	require.NoError(t, err)

	_, err = srv.DecodeTransaction(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 0, srv.CacheLen())
}

func TestServer_RequestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newServer(t, server.WithMetrics(server.NewMetrics(reg)))
	ctx := context.Background()

	_, err := srv.NormalizeScalar(ctx, types.KindUint64, "0x10")
	require.NoError(t, err)
	_, err = srv.NormalizeScalar(ctx, types.KindUint64, "10")
	require.Error(t, err)
	_, err = srv.NormalizeScalar(ctx, types.KindUint64, "0xzz")
	require.Error(t, err)

	expected := `
# HELP cellcodec_server_requests_total Codec requests by operation and result
# TYPE cellcodec_server_requests_total counter
cellcodec_server_requests_total{op="NormalizeScalar",result="invalid"} 2
cellcodec_server_requests_total{op="NormalizeScalar",result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "cellcodec_server_requests_total"))
}

func TestServer_LogsRejections(t *testing.T) {
	var buf bytes.Buffer
	cfg := server.DefaultConfig()
	cfg.LogLevel = "debug"
	srv := newServer(t, server.WithConfig(cfg), server.WithLogger(zerolog.New(&buf)))

	_, err := srv.DecodeScript(context.Background(), []byte{0x01})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"op":"DecodeScript"`)
	assert.Contains(t, out, `"kind":"malformed_record"`)
	assert.Contains(t, out, `"message":"rejected input"`)
}

func TestServer_LogLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	srv := newServer(t, server.WithLogger(zerolog.New(&buf)))

	_, err := srv.DecodeScript(context.Background(), []byte{0x01})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestServer_DecodeTransactionsReportsIndex(t *testing.T) {
	srv := newServer(t)
	good, err := types.DecodeHex(cellcodectest.SampleTransactionHex)
	require.NoError(t, err)

	_, err = srv.DecodeTransactions(context.Background(), [][]byte{good, good, {0x00}})
	verr, ok := cellcodec.IsValidation(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, "DecodeTransactions[2]", verr.Op)

	txs, err := srv.DecodeTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestServer_DecodeTransactionsLarge(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.BatchConcurrency = 3
	srv := newServer(t, server.WithConfig(cfg))

	r := cellcodectest.NewRand(7)
	want := make([]types.TransactionView, 40)
	records := make([][]byte, len(want))
	for i := range want {
		want[i] = cellcodectest.RandomTransaction(r)
		records[i] = want[i].Encode()
	}

	got, err := srv.DecodeTransactions(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Hash, got[i].Hash, "record %d", i)
	}
}

func TestServer_CanceledContext(t *testing.T) {
	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := srv.DecodeTransaction(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	_, ok := cellcodec.IsValidation(err)
	assert.False(t, ok)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.BatchConcurrency = 0
	_, err := server.New(server.WithConfig(cfg))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codec.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_record_bytes = 2048
batch_concurrency = 2
log_level = "warn"
`), 0o600))

	cfg, err := server.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.MaxRecordBytes)
	assert.Equal(t, 2, cfg.BatchConcurrency)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, server.DefaultConfig().CacheSize, cfg.CacheSize)
}

func TestParseConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown key":  `max_recrod_bytes = 10`,
		"bad level":    `log_level = "loud"`,
		"negative":     `cache_size = -1`,
		"zero limit":   `max_record_bytes = 0`,
		"syntax error": `max_record_bytes = `,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := server.ParseConfig(doc)
			assert.Error(t, err)
		})
	}

	_, err := server.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestServer_BatchMetricsUseOperationLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := server.DefaultConfig()
	cfg.MaxRecordBytes = 128
	srv := newServer(t, server.WithConfig(cfg), server.WithMetrics(server.NewMetrics(reg)))

	empty, err := types.DecodeHex(cellcodectest.EmptyTransactionHex)
	require.NoError(t, err)
	records := make([][]byte, 50)
	for i := range records {
		records[i] = empty
	}
	txs, err := srv.DecodeTransactions(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, txs, 50)

	series, err := testutil.GatherAndCount(reg, "cellcodec_server_record_bytes")
	require.NoError(t, err)
	assert.Equal(t, 1, series)

	// Errors still name the failing record.
	records[7] = make([]byte, 129)
	_, err = srv.DecodeTransactions(context.Background(), records)
	verr, ok := cellcodec.IsValidation(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, "DecodeTransactions[7]", verr.Op)
	assert.ErrorIs(t, err, cellcodec.ErrRecordTooLarge)

	series, err = testutil.GatherAndCount(reg, "cellcodec_server_record_bytes")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}
