package types_test

import (
	"testing"

	"github.com/blockberries/cellcodec/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashType_Bytes(t *testing.T) {
	for b, want := range []types.HashType{types.HashTypeData, types.HashTypeType, types.HashTypeData1} {
		got, err := types.HashTypeFromByte(byte(b))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, byte(b), got.Byte())
	}

	for _, b := range []byte{3, 4, 0x7f, 0xff} {
		_, err := types.HashTypeFromByte(b)
		var terr *types.InvalidTagError
		require.ErrorAs(t, err, &terr, "byte %d", b)
		assert.Equal(t, "HashType", terr.Tag)
		assert.Equal(t, b, terr.Value)
	}
}

func TestHashType_Names(t *testing.T) {
	for _, name := range []string{"data", "type", "data1"} {
		ht, err := types.ParseHashType(name)
		require.NoError(t, err)
		assert.Equal(t, name, ht.String())
	}

	_, err := types.ParseHashType("Type")
	assert.ErrorIs(t, err, types.ErrInvalidTag)

	_, err = types.HashType(9).MarshalText()
	assert.ErrorIs(t, err, types.ErrInvalidTag)
	assert.False(t, types.HashType(9).Valid())
	assert.Equal(t, "HashType(9)", types.HashType(9).String())
}

func TestDepType(t *testing.T) {
	code, err := types.DepTypeFromByte(0)
	require.NoError(t, err)
	assert.Equal(t, types.DepTypeCode, code)

	group, err := types.ParseDepType("dep_group")
	require.NoError(t, err)
	assert.Equal(t, byte(1), group.Byte())

	text, err := group.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "dep_group", string(text))

	_, err = types.DepTypeFromByte(2)
	assert.ErrorIs(t, err, types.ErrInvalidTag)

	var dt types.DepType
	assert.ErrorIs(t, dt.UnmarshalText([]byte("depgroup")), types.ErrInvalidTag)
}
