package cellcodectest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/types"
)

// RunComplianceSuite runs the standard compliance test suite against a
// Connection implementation: golden vectors, rejection of bad input with
// classified errors, round trips of generated transactions, concurrent
// use and Close semantics.
//
// The factory function should return a fresh connection for each test.
func RunComplianceSuite(t *testing.T, factory func(t *testing.T) cellcodec.Connection) {
	t.Helper()
	ctx := context.Background()

	t.Run("golden_transaction", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		data := h.MustHex(SampleTransactionHex)

		tx := h.DecodeTransaction(data)
		if tx.Hash.String() != SampleTransactionHash {
			t.Errorf("hash %s, want %s", tx.Hash, SampleTransactionHash)
		}
		want := SampleTransaction()
		if len(tx.Outputs) != 2 || tx.Outputs[1].Type == nil || tx.Outputs[0].Type != nil {
			t.Errorf("decoded outputs differ: %+v", tx.Outputs)
		} else if tx.Outputs[0].Lock.CodeHash != SecpLockCodeHash {
			t.Errorf("lock code hash %s", tx.Outputs[0].Lock.CodeHash)
		}
		if len(tx.Witnesses) != 1 || !tx.Witnesses[0].Equal(want.Witnesses[0]) {
			t.Errorf("witnesses differ: %v", tx.Witnesses)
		}
		if got := types.EncodeHex(h.EncodeTransaction(tx)); got != SampleTransactionHex {
			t.Errorf("re-encoding differs: %s", got)
		}
	})

	t.Run("empty_transaction", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		tx := h.DecodeTransactionHex(EmptyTransactionHex)
		if tx.Hash.String() != EmptyTransactionHash {
			t.Errorf("hash %s, want %s", tx.Hash, EmptyTransactionHash)
		}
		if len(tx.Inputs) != 0 || len(tx.Outputs) != 0 || len(tx.Witnesses) != 0 {
			t.Errorf("expected empty arrays: %+v", tx)
		}
	})

	t.Run("cell_output_optional_type", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		plain := h.DecodeCellOutput(h.MustHex(SecpLockOutputHex))
		if plain.Type != nil {
			t.Errorf("expected absent type script, got %+v", plain.Type)
		}
		typed := h.DecodeCellOutput(h.MustHex(TypedOutputHex))
		if typed.Type == nil {
			t.Fatal("expected a type script")
		}
		if got := types.EncodeHex(h.EncodeCellOutput(typed)); got != TypedOutputHex {
			t.Errorf("re-encoding differs: %s", got)
		}
	})

	t.Run("script_golden", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		script := h.DecodeScript(h.MustHex(SampleScriptHex))
		if script.Hash().String() != SampleScriptHash {
			t.Errorf("script hash %s, want %s", script.Hash(), SampleScriptHash)
		}
		if got := types.EncodeHex(h.EncodeScript(SampleScript())); got != SampleScriptHex {
			t.Errorf("encoding differs: %s", got)
		}
	})

	t.Run("rejects_malformed_records", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		data := h.MustHex(SampleTransactionHex)

		_, err := h.Conn().DecodeTransaction(ctx, data[:len(data)-1])
		requireValidation(t, err, types.ErrMalformedRecord)

		_, err = h.Conn().DecodeScript(ctx, h.MustHex(EmptyRawTransactionHex))
		requireValidation(t, err, types.ErrMalformedRecord)

		_, err = h.Conn().DecodeCellOutput(ctx, nil)
		requireValidation(t, err, types.ErrMalformedRecord)
	})

	t.Run("rejects_undefined_tags", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		data := h.MustHex(SampleScriptHex)
		data[48] = 0x03

		_, err := h.Conn().DecodeScript(ctx, data)
		requireValidation(t, err, types.ErrInvalidTag)

		bad := SampleScript()
		bad.HashType = types.HashType(0x80)
		_, err = h.Conn().EncodeScript(ctx, bad)
		requireValidation(t, err, types.ErrInvalidTag)
	})

	t.Run("rejects_outputs_data_mismatch", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		tx := SampleTransaction()
		tx.OutputsData = tx.OutputsData[:1]
		tx.Hash = types.Hash32{}

		_, err := h.Conn().EncodeTransaction(ctx, tx)
		requireValidation(t, err, types.ErrOutputsDataMismatch)
	})

	t.Run("rejects_hash_mismatch", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		tx := SampleTransaction()
		tx.Hash[31] ^= 0x01

		_, err := h.Conn().EncodeTransaction(ctx, tx)
		requireValidation(t, err, types.ErrHashMismatch)

		tx.Hash = types.Hash32{}
		if got := types.EncodeHex(h.EncodeTransaction(tx)); got != SampleTransactionHex {
			t.Errorf("zero hash should encode canonically, got %s", got)
		}
	})

	t.Run("normalize_scalar", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		cases := []struct {
			kind types.ScalarKind
			in   string
			want string
		}{
			{types.KindUint32, "0x0001", "0x1"},
			{types.KindUint64, "0X2540BE400", "0x2540be400"},
			{types.KindUint128, "0xffffffffffffffffffffffffffffffff", "0xffffffffffffffffffffffffffffffff"},
			{types.KindHash32, SampleTransactionHash, SampleTransactionHash},
			{types.KindBytes, "", "0x"},
		}
		for _, tc := range cases {
			if got := h.Normalize(tc.kind, tc.in); got != tc.want {
				t.Errorf("Normalize(%s, %q) = %q, want %q", tc.kind, tc.in, got, tc.want)
			}
		}

		_, err := h.Conn().NormalizeScalar(ctx, types.KindUint32, "12")
		requireValidation(t, err, types.ErrHexPrefix)
		_, err = h.Conn().NormalizeScalar(ctx, types.KindUint32, "0x100000000")
		requireValidation(t, err, types.ErrParseUint)
		_, err = h.Conn().NormalizeScalar(ctx, types.KindHash20, "0xabcd")
		requireValidation(t, err, types.ErrParseBytes)
		_, err = h.Conn().NormalizeScalar(ctx, types.KindBytes, "0xabc")
		requireValidation(t, err, types.ErrHexDecode)
		_, err = h.Conn().NormalizeScalar(ctx, types.ScalarKind(0), "0x0")
		requireValidation(t, err, types.ErrInvalidTag)
	})

	t.Run("random_round_trips", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		r := NewRand(1)
		for i := 0; i < 25; i++ {
			tx := RandomTransaction(r)
			got := h.RoundTripTransaction(tx)
			if types.EncodeHex(got.Encode()) != types.EncodeHex(tx.Encode()) {
				t.Fatalf("transaction %d changed in round trip:\n got %+v\nwant %+v", i, got, tx)
			}
		}
	})

	t.Run("concurrent_decode", func(t *testing.T) {
		conn := factory(t)
		h := NewHarness(t, conn)
		data := h.MustHex(SampleTransactionHex)

		var wg sync.WaitGroup
		errs := make(chan error, 16)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tx, err := conn.DecodeTransaction(ctx, data)
				if err != nil {
					errs <- err
					return
				}
				if tx.Hash.String() != SampleTransactionHash {
					errs <- errors.New("hash mismatch under concurrency")
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Error(err)
		}
	})

	t.Run("batch_decode", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		batch, ok := h.Conn().(cellcodec.BatchDecoder)
		if !ok {
			t.Skip("connection does not implement BatchDecoder")
		}

		records := [][]byte{
			h.MustHex(SampleTransactionHex),
			h.MustHex(EmptyTransactionHex),
			h.MustHex(SampleTransactionHex),
		}
		txs, err := batch.DecodeTransactions(ctx, records)
		if err != nil {
			t.Fatalf("DecodeTransactions failed: %v", err)
		}
		want := []string{SampleTransactionHash, EmptyTransactionHash, SampleTransactionHash}
		if len(txs) != len(want) {
			t.Fatalf("got %d transactions, want %d", len(txs), len(want))
		}
		for i, tx := range txs {
			if tx.Hash.String() != want[i] {
				t.Errorf("record %d: hash %s, want %s", i, tx.Hash, want[i])
			}
		}

		records[1] = records[1][:8]
		_, err = batch.DecodeTransactions(ctx, records)
		requireValidation(t, err, types.ErrMalformedRecord)
	})

	t.Run("closed_connection", func(t *testing.T) {
		conn := factory(t)
		if err := conn.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := conn.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}

		_, err := conn.DecodeScript(ctx, nil)
		if !errors.Is(err, cellcodec.ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	})
}

// requireValidation fails the test unless err is a ValidationError of
// the given kind.
func requireValidation(t *testing.T, err, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if _, ok := cellcodec.IsValidation(err); !ok {
		t.Fatalf("expected a ValidationError, got %T: %v", err, err)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}
