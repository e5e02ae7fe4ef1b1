package types_test

import (
	"testing"

	"github.com/blockberries/cellcodec/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustHex decodes 0x-prefixed test vectors.
func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := types.DecodeHex(s)
	require.NoError(t, err)
	return b
}

func TestEncodeHex(t *testing.T) {
	assert.Equal(t, "0x", types.EncodeHex(nil))
	assert.Equal(t, "0x000a", types.EncodeHex([]byte{0x00, 0x0a}))
}

func TestDecodeHex(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"", nil},
		{"0x", nil},
		{"0X", nil},
		{"0x00", []byte{0x00}},
		{"0xABcd", []byte{0xab, 0xcd}},
		{"0Xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
	}
	for _, tc := range cases {
		got, err := types.DecodeHex(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestDecodeHex_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"abcd", types.ErrHexPrefix},
		{"x0ab", types.ErrHexPrefix},
		{"0", types.ErrHexPrefix},
		{"0xabc", types.ErrHexDecode},
		{"0xzz", types.ErrHexDecode},
		{"0x0x", types.ErrHexDecode},
	}
	for _, tc := range cases {
		_, err := types.DecodeHex(tc.in)
		assert.ErrorIs(t, err, tc.want, tc.in)
	}
}

func TestDecodeHex_LongInputIsTruncatedInMessage(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'g'
	}
	_, err := types.DecodeHex(string(long))
	require.ErrorIs(t, err, types.ErrHexPrefix)
	assert.Less(t, len(err.Error()), 200)
}
