package types_test

import (
	"testing"

	"github.com/blockberries/cellcodec/ckbhash"
	cellcodectest "github.com/blockberries/cellcodec/testing"
	"github.com/blockberries/cellcodec/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript_Golden(t *testing.T) {
	data := mustHex(t, cellcodectest.SampleScriptHex)

	script, err := types.DecodeScript(data)
	require.NoError(t, err)
	assert.Equal(t, cellcodectest.SampleScript(), script)
	assert.Equal(t, data, script.Encode())
	assert.Equal(t, cellcodectest.SampleScriptHash, script.Hash().String())

	lockArg := ckbhash.Blake160(script.Encode())
	assert.Equal(t, script.Hash().Binary()[:ckbhash.Blake160Size], lockArg[:])
}

func TestScript_EmptyArgs(t *testing.T) {
	s := types.Script{HashType: types.HashTypeData1}
	back, err := types.DecodeScript(s.Encode())
	require.NoError(t, err)
	assert.Nil(t, back.Args)
	assert.Equal(t, s, back)
}

func TestScript_InvalidHashType(t *testing.T) {
	data := mustHex(t, cellcodectest.SampleScriptHex)
	data[48] = 0x03

	_, err := types.DecodeScript(data)
	assert.ErrorIs(t, err, types.ErrInvalidTag)
	assert.NotErrorIs(t, err, types.ErrMalformedRecord)
}

func TestScript_Malformed(t *testing.T) {
	data := mustHex(t, cellcodectest.SampleScriptHex)

	cases := map[string][]byte{
		"empty":     nil,
		"truncated": data[:len(data)-1],
		"extended":  append(append([]byte(nil), data...), 0),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := types.DecodeScript(in)
			assert.ErrorIs(t, err, types.ErrMalformedRecord)
		})
	}
}

func TestOutPoint_Struct(t *testing.T) {
	op := types.OutPoint{Index: 7}
	op.TxHash[0] = 0xbb
	data := op.Encode()
	require.Len(t, data, types.OutPointSize)
	assert.Equal(t, []byte{7, 0, 0, 0}, data[32:])

	back, err := types.DecodeOutPoint(data)
	require.NoError(t, err)
	assert.Equal(t, op, back)

	_, err = types.DecodeOutPoint(data[:35])
	assert.ErrorIs(t, err, types.ErrMalformedRecord)
}

func TestCellInput_Struct(t *testing.T) {
	in := types.CellInput{Since: 0x2000000000000005, PreviousOutput: types.OutPoint{Index: 1}}
	data := in.Encode()
	require.Len(t, data, types.CellInputSize)
	assert.Equal(t, byte(0x20), data[7])

	back, err := types.DecodeCellInput(data)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestCellDep_InvalidDepType(t *testing.T) {
	dep := types.CellDep{DepType: types.DepTypeDepGroup}
	data := dep.Encode()
	require.Len(t, data, types.CellDepSize)

	back, err := types.DecodeCellDep(data)
	require.NoError(t, err)
	assert.Equal(t, dep, back)

	data[types.CellDepSize-1] = 2
	_, err = types.DecodeCellDep(data)
	assert.ErrorIs(t, err, types.ErrInvalidTag)
}

func TestCellOutput_OptionalType(t *testing.T) {
	plain, err := types.DecodeCellOutput(mustHex(t, cellcodectest.SecpLockOutputHex))
	require.NoError(t, err)
	assert.Nil(t, plain.Type)
	assert.Equal(t, cellcodectest.SecpLockOutput(), plain)
	assert.Equal(t, cellcodectest.SecpLockOutputHex, types.EncodeHex(plain.Encode()))

	typed, err := types.DecodeCellOutput(mustHex(t, cellcodectest.TypedOutputHex))
	require.NoError(t, err)
	require.NotNil(t, typed.Type)
	assert.Equal(t, types.HashTypeData, typed.Type.HashType)
	assert.Equal(t, cellcodectest.TypedOutput(), typed)
	assert.Equal(t, cellcodectest.TypedOutputHex, types.EncodeHex(typed.Encode()))
}

func TestCellOutput_Clone(t *testing.T) {
	orig := cellcodectest.TypedOutput()
	orig.Type.Args = types.Bytes{1}

	clone := orig.Clone()
	clone.Lock.Args[0] = 0xff
	clone.Type.Args[0] = 0xff

	assert.Equal(t, byte(0xc8), orig.Lock.Args[0])
	assert.Equal(t, byte(1), orig.Type.Args[0])
}

func TestCellOutput_OccupiedCapacity(t *testing.T) {
	plain := cellcodectest.SecpLockOutput()
	capacity, ok := plain.OccupiedCapacity(0)
	require.True(t, ok)
	assert.Equal(t, types.Capacity(61*types.ShannonsPerByte), capacity)

	typed := cellcodectest.TypedOutput()
	capacity, ok = typed.OccupiedCapacity(10)
	require.True(t, ok)
	assert.Equal(t, types.Capacity((61+33+10)*types.ShannonsPerByte), capacity)

	_, ok = plain.OccupiedCapacity(1 << 62)
	assert.False(t, ok)
}
