package cellcodectest

import (
	"math/rand/v2"

	"github.com/blockberries/cellcodec/types"
)

// NewRand returns a deterministic source for the generators below.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomBytes returns up to limit random bytes. Empty results are nil, as
// the decoder produces them.
func RandomBytes(r *rand.Rand, limit int) types.Bytes {
	n := r.IntN(limit + 1)
	if n == 0 {
		return nil
	}
	b := make(types.Bytes, n)
	for i := range b {
		b[i] = byte(r.Uint32())
	}
	return b
}

// RandomHash32 returns a random 32-byte hash.
func RandomHash32(r *rand.Rand) types.Hash32 {
	var h types.Hash32
	for i := range h {
		h[i] = byte(r.Uint32())
	}
	return h
}

// RandomScript returns a script with a random defined hash type.
func RandomScript(r *rand.Rand) types.Script {
	return types.Script{
		CodeHash: RandomHash32(r),
		HashType: types.HashType(r.IntN(3)),
		Args:     RandomBytes(r, 64),
	}
}

// RandomCellOutput returns an output that carries a type script about
// half the time.
func RandomCellOutput(r *rand.Rand) types.CellOutput {
	out := types.CellOutput{
		Capacity: types.Capacity(r.Uint64()),
		Lock:     RandomScript(r),
	}
	if r.IntN(2) == 0 {
		typ := RandomScript(r)
		out.Type = &typ
	}
	return out
}

func randomOutPoint(r *rand.Rand) types.OutPoint {
	return types.OutPoint{TxHash: RandomHash32(r), Index: types.Uint32(r.Uint32())}
}

// randomSlice returns up to limit items from gen, or nil when empty.
func randomSlice[T any](r *rand.Rand, limit int, gen func(*rand.Rand) T) []T {
	n := r.IntN(limit + 1)
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = gen(r)
	}
	return out
}

// RandomTransaction returns a structurally valid transaction with its
// hash set. Every array may be empty.
func RandomTransaction(r *rand.Rand) types.TransactionView {
	outputs := randomSlice(r, 4, RandomCellOutput)
	var outputsData []types.Bytes
	if len(outputs) > 0 {
		outputsData = make([]types.Bytes, len(outputs))
		for i := range outputsData {
			outputsData[i] = RandomBytes(r, 32)
		}
	}

	raw := types.RawTransaction{
		Version: types.Version(r.IntN(2)),
		CellDeps: randomSlice(r, 3, func(r *rand.Rand) types.CellDep {
			return types.CellDep{OutPoint: randomOutPoint(r), DepType: types.DepType(r.IntN(2))}
		}),
		HeaderDeps: randomSlice(r, 2, RandomHash32),
		Inputs: randomSlice(r, 4, func(r *rand.Rand) types.CellInput {
			return types.CellInput{Since: types.Uint64(r.Uint64()), PreviousOutput: randomOutPoint(r)}
		}),
		Outputs:     outputs,
		OutputsData: outputsData,
	}
	witnesses := randomSlice(r, 3, func(r *rand.Rand) types.Bytes { return RandomBytes(r, 96) })

	tx, err := types.NewTransaction(raw, witnesses)
	if err != nil {
		panic(err)
	}
	return tx
}
