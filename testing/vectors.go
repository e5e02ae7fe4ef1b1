package cellcodectest

import (
	"github.com/blockberries/cellcodec/types"
)

// Known encodings, in 0x-prefixed hex text form.
const (
	// EmptyRawTransactionHex is a RawTransaction with every array empty.
	EmptyRawTransactionHex = "0x340000001c0000002000000024000000280000002c00000030000000000000000000000000000000000000000400000004000000"
	// EmptyTransactionHash is the hash of EmptyRawTransactionHex.
	EmptyTransactionHash = "0xf2e7a5362e217ed4d7f985af71b654cafadd0c3b6d6a6c13f1b13a6bfd0d3d14"
	// EmptyTransactionHex wraps EmptyRawTransactionHex with no witnesses.
	EmptyTransactionHex = "0x440000000c00000040000000340000001c0000002000000024000000280000002c0000003000000000000000000000000000000000000000040000000400000004000000"

	// SampleScriptHex encodes SampleScript.
	SampleScriptHex = "0x3900000010000000300000003100000001010101010101010101010101010101010101010101010101010101010101010104000000deadbeef"
	// SampleScriptHash is the script hash of SampleScript.
	SampleScriptHash = "0x05ee9915d1e677702252c31aab83b66ef861b07e10a3cfb96b432d0bcf0f9461"

	// SecpLockOutputHex encodes the first output of SampleTransaction: a
	// cell with a secp256k1 lock and no type script.
	SecpLockOutputHex = "0x6100000010000000180000006100000000e40b5402000000490000001000000030000000310000009bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce80114000000c8328aabcd9b9e8e64fbc566c4385c3bdeb219d7"
	// TypedOutputHex encodes the second output of SampleTransaction, which
	// carries a type script.
	TypedOutputHex = "0x960000001000000018000000610000003412000000000000490000001000000030000000310000009bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce80114000000c8328aabcd9b9e8e64fbc566c4385c3bdeb219d73500000010000000300000003100000022222222222222222222222222222222222222222222222222222222222222220000000000"

	// SampleTransactionHex encodes SampleTransaction.
	SampleTransactionHex = "0xe30100000c000000c2010000b60100001c00000020000000490000006d0000009d000000a00100000000000001000000aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa000000000101000000cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc010000000500000000000020bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb07000000030100000c0000006d0000006100000010000000180000006100000000e40b5402000000490000001000000030000000310000009bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce80114000000c8328aabcd9b9e8e64fbc566c4385c3bdeb219d7960000001000000018000000610000003412000000000000490000001000000030000000310000009bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce80114000000c8328aabcd9b9e8e64fbc566c4385c3bdeb219d73500000010000000300000003100000022222222222222222222222222222222222222222222222222222222222222220000000000160000000c000000100000000000000002000000010221000000080000001500000055000000100000005500000055000000410000004f"
	// SampleTransactionHash is the hash of SampleTransaction.
	SampleTransactionHash = "0x936487051b8ede57e19fe576784798e199318ca98d61b729d967520ab16d4733"
)

// SecpLockCodeHash is the code hash of the default secp256k1-blake160 lock.
var SecpLockCodeHash = types.Hash32{
	0x9b, 0xd7, 0xe0, 0x6f, 0x3e, 0xcf, 0x4b, 0xe0, 0xf2, 0xfc, 0xd2, 0x18, 0x8b, 0x23, 0xf1, 0xb9,
	0xfc, 0xc8, 0x8e, 0x5d, 0x4b, 0x65, 0xa8, 0x63, 0x7b, 0x17, 0x72, 0x3b, 0xbd, 0xa3, 0xcc, 0xe8,
}

func filled32(b byte) types.Hash32 {
	var h types.Hash32
	for i := range h {
		h[i] = b
	}
	return h
}

// SampleScript returns the script encoded by SampleScriptHex.
func SampleScript() types.Script {
	return types.Script{
		CodeHash: filled32(0x01),
		HashType: types.HashTypeType,
		Args:     types.Bytes{0xde, 0xad, 0xbe, 0xef},
	}
}

// SecpLock returns the lock script shared by both outputs of
// SampleTransaction.
func SecpLock() types.Script {
	return types.Script{
		CodeHash: SecpLockCodeHash,
		HashType: types.HashTypeType,
		Args: types.Bytes{
			0xc8, 0x32, 0x8a, 0xab, 0xcd, 0x9b, 0x9e, 0x8e, 0x64, 0xfb,
			0xc5, 0x66, 0xc4, 0x38, 0x5c, 0x3b, 0xde, 0xb2, 0x19, 0xd7,
		},
	}
}

// SecpLockOutput returns the output encoded by SecpLockOutputHex.
func SecpLockOutput() types.CellOutput {
	return types.CellOutput{Capacity: 10_000_000_000, Lock: SecpLock()}
}

// TypedOutput returns the output encoded by TypedOutputHex.
func TypedOutput() types.CellOutput {
	return types.CellOutput{
		Capacity: 0x1234,
		Lock:     SecpLock(),
		Type:     &types.Script{CodeHash: filled32(0x22), HashType: types.HashTypeData},
	}
}

// SampleRawTransaction returns the structural portion of
// SampleTransaction.
func SampleRawTransaction() types.RawTransaction {
	return types.RawTransaction{
		Version: 0,
		CellDeps: []types.CellDep{{
			OutPoint: types.OutPoint{TxHash: filled32(0xaa), Index: 0},
			DepType:  types.DepTypeDepGroup,
		}},
		HeaderDeps: []types.Hash32{filled32(0xcc)},
		Inputs: []types.CellInput{{
			Since:          0x2000000000000005,
			PreviousOutput: types.OutPoint{TxHash: filled32(0xbb), Index: 7},
		}},
		Outputs:     []types.CellOutput{SecpLockOutput(), TypedOutput()},
		OutputsData: []types.Bytes{nil, {0x01, 0x02}},
	}
}

// SampleWitness is the single witness of SampleTransaction.
func SampleWitness() types.Bytes {
	return types.Bytes{
		0x55, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x55, 0x00, 0x00,
		0x00, 0x55, 0x00, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00, 0x4f,
	}
}

// SampleTransaction returns the transaction encoded by
// SampleTransactionHex, with its hash set.
func SampleTransaction() types.TransactionView {
	tx, err := types.NewTransaction(SampleRawTransaction(), []types.Bytes{SampleWitness()})
	if err != nil {
		panic(err)
	}
	return tx
}
