// Package transfer builds capacity transfer transactions through a
// cellcodec.Codec. It shows the typed view in use: inputs and payments
// are collected as values, the change output is derived, and the codec
// produces the canonical record and hash.
//
// Every input is assumed to be locked by the default secp256k1 lock, so
// the first witness carries a zeroed 65-byte signature placeholder.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/molecule"
	"github.com/blockberries/cellcodec/types"
)

// SignatureSize is the size of a recoverable secp256k1 signature.
const SignatureSize = 65

var (
	// ErrInsufficientCapacity reports inputs that cannot cover the
	// payments, the fee and a valid change cell.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrNoInputs reports a build without inputs.
	ErrNoInputs = errors.New("transaction has no inputs")
)

// Builder collects the parts of a transfer. It is not safe for
// concurrent use.
type Builder struct {
	codec    cellcodec.Codec
	cellDeps []types.CellDep
	inputs   []types.CellInput
	inputCap []types.Capacity
	outputs  []types.CellOutput
}

// New creates a Builder encoding through codec. deps are the cell deps
// of the lock scripts, usually the secp256k1 dep group.
func New(codec cellcodec.Codec, deps ...types.CellDep) *Builder {
	return &Builder{codec: codec, cellDeps: deps}
}

// AddInput spends the live cell at prev holding capacity.
func (b *Builder) AddInput(prev types.OutPoint, capacity types.Capacity) *Builder {
	b.inputs = append(b.inputs, types.CellInput{PreviousOutput: prev})
	b.inputCap = append(b.inputCap, capacity)
	return b
}

// Pay adds an output of amount locked by to.
func (b *Builder) Pay(to types.Script, amount types.Capacity) *Builder {
	b.outputs = append(b.outputs, types.CellOutput{Capacity: amount, Lock: to})
	return b
}

// Build assembles the transaction. Whatever the inputs hold beyond the
// payments and fee goes to a change output locked by change. It returns
// the view and its molecule encoding.
func (b *Builder) Build(ctx context.Context, change types.Script, fee types.Capacity) (types.TransactionView, []byte, error) {
	if len(b.inputs) == 0 {
		return types.TransactionView{}, nil, ErrNoInputs
	}

	in, err := sum(b.inputCap)
	if err != nil {
		return types.TransactionView{}, nil, err
	}
	spent := []types.Capacity{fee}
	for i, out := range b.outputs {
		if occupied, ok := out.OccupiedCapacity(0); !ok || out.Capacity < occupied {
			return types.TransactionView{}, nil, fmt.Errorf("%w: output %d holds %s, needs %s",
				ErrInsufficientCapacity, i, out.Capacity, occupied)
		}
		spent = append(spent, out.Capacity)
	}
	total, err := sum(spent)
	if err != nil {
		return types.TransactionView{}, nil, err
	}
	if in.Lt(total) {
		return types.TransactionView{}, nil, fmt.Errorf("%w: inputs hold %s, outputs and fee need %s",
			ErrInsufficientCapacity, in.Hex(), total.Hex())
	}

	outputs := append([]types.CellOutput(nil), b.outputs...)
	if rest := new(uint256.Int).Sub(in, total); !rest.IsZero() {
		// rest <= in, and sum checked that in fits in 64 bits.
		changeOut := types.CellOutput{Capacity: types.Capacity(rest.Uint64()), Lock: change}
		if occupied, _ := changeOut.OccupiedCapacity(0); changeOut.Capacity < occupied {
			return types.TransactionView{}, nil, fmt.Errorf("%w: change of %s is below the %s a cell occupies",
				ErrInsufficientCapacity, changeOut.Capacity, occupied)
		}
		outputs = append(outputs, changeOut)
	}

	raw := types.RawTransaction{
		CellDeps:    b.cellDeps,
		Inputs:      b.inputs,
		Outputs:     outputs,
		OutputsData: make([]types.Bytes, len(outputs)),
	}
	tx, err := types.NewTransaction(raw, witnesses(len(b.inputs)))
	if err != nil {
		return types.TransactionView{}, nil, err
	}
	data, err := b.codec.EncodeTransaction(ctx, tx)
	if err != nil {
		return types.TransactionView{}, nil, err
	}
	return tx, data, nil
}

// witnesses returns one witness per input. The first is a WitnessArgs
// table whose lock field reserves room for the signature; the rest are
// empty.
func witnesses(n int) []types.Bytes {
	out := make([]types.Bytes, n)
	out[0] = molecule.Table(molecule.Bytes(make([]byte, SignatureSize)), nil, nil)
	return out
}

func sum(values []types.Capacity) (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, v := range values {
		total.Add(total, uint256.NewInt(uint64(v)))
	}
	if !total.IsUint64() {
		return nil, fmt.Errorf("capacity sum %s exceeds 64 bits", total.Hex())
	}
	return total, nil
}
