package types

import (
	"fmt"

	"github.com/blockberries/cellcodec/ckbhash"
	"github.com/blockberries/cellcodec/molecule"
)

const (
	transactionFields    = 2
	rawTransactionFields = 6
)

// RawTransaction is the structural portion of a transaction: every field
// the transaction hash covers. Witnesses are excluded.
type RawTransaction struct {
	Version     Version
	CellDeps    []CellDep
	HeaderDeps  []Hash32
	Inputs      []CellInput
	Outputs     []CellOutput
	OutputsData []Bytes
}

// Validate checks that Outputs and OutputsData are parallel and that
// every tag is defined. Decoded values always pass.
func (r RawTransaction) Validate() error {
	if len(r.Outputs) != len(r.OutputsData) {
		return &OutputsDataMismatchError{Outputs: len(r.Outputs), OutputsData: len(r.OutputsData)}
	}
	for i, d := range r.CellDeps {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("RawTransaction.cell_deps[%d]: %w", i, err)
		}
	}
	for i, out := range r.Outputs {
		if err := out.Validate(); err != nil {
			return fmt.Errorf("RawTransaction.outputs[%d]: %w", i, err)
		}
	}
	return nil
}

// Encode returns the molecule RawTransaction table.
func (r RawTransaction) Encode() []byte {
	cellDeps := make([][]byte, len(r.CellDeps))
	for i, d := range r.CellDeps {
		cellDeps[i] = d.Encode()
	}
	headerDeps := make([][]byte, len(r.HeaderDeps))
	for i := range r.HeaderDeps {
		headerDeps[i] = r.HeaderDeps[i][:]
	}
	inputs := make([][]byte, len(r.Inputs))
	for i, in := range r.Inputs {
		inputs[i] = in.Encode()
	}
	outputs := make([][]byte, len(r.Outputs))
	for i, out := range r.Outputs {
		outputs[i] = out.Encode()
	}

	return molecule.Table(
		r.Version.Binary(),
		molecule.Fixvec(cellDeps...),
		molecule.Fixvec(headerDeps...),
		molecule.Fixvec(inputs...),
		molecule.Dynvec(outputs...),
		bytesVec(r.OutputsData),
	)
}

// Hash returns the digest of the canonical encoding.
func (r RawTransaction) Hash() Hash32 {
	return Hash32(ckbhash.Sum(r.Encode()))
}

// TransactionView is the typed view of a transaction.
type TransactionView struct {
	// Reserved for future usage. Must be 0 in the current version.
	Version Version `cramberry:"1" json:"version"`
	// Cells whose code and data scripts may load. Unlike inputs, a live
	// cell may be a dep of many transactions.
	CellDeps []CellDep `cramberry:"2" json:"cell_deps"`
	// Block headers scripts may read.
	HeaderDeps []Hash32 `cramberry:"3" json:"header_deps"`
	// Cells consumed by the transaction, in order.
	Inputs []CellInput `cramberry:"4" json:"inputs"`
	// Cells created by the transaction.
	Outputs []CellOutput `cramberry:"5" json:"outputs"`
	// Parallel to Outputs: OutputsData[i] is the data of Outputs[i].
	OutputsData []Bytes `cramberry:"6" json:"outputs_data"`
	// Data read by scripts to verify the transaction, such as signatures.
	Witnesses []Bytes `cramberry:"7" json:"witnesses"`
	// The transaction hash. Derived, never set independently.
	Hash Hash32 `cramberry:"8" json:"hash"`
}

// NewTransaction builds a view from typed fields. The view copies raw and
// witnesses, so later changes to the caller's slices cannot make its
// hash stale. The hash is derived from the canonical encoding of the copy.
func NewTransaction(raw RawTransaction, witnesses []Bytes) (TransactionView, error) {
	if err := raw.Validate(); err != nil {
		return TransactionView{}, err
	}
	tx := TransactionView{
		Version:     raw.Version,
		CellDeps:    raw.CellDeps,
		HeaderDeps:  raw.HeaderDeps,
		Inputs:      raw.Inputs,
		Outputs:     raw.Outputs,
		OutputsData: raw.OutputsData,
		Witnesses:   witnesses,
	}.Clone()
	tx.Hash = tx.CanonicalHash()
	return tx, nil
}

// DecodeTransaction decodes a molecule Transaction table. The hash is
// computed once, from the raw-transaction bytes of data itself.
func DecodeTransaction(data []byte) (TransactionView, error) {
	fields, err := molecule.ReadTable("Transaction", data, transactionFields)
	if err != nil {
		return TransactionView{}, malformed("Transaction", err)
	}
	raw, err := decodeRawTransaction(fields[0])
	if err != nil {
		return TransactionView{}, err
	}
	if len(raw.Outputs) != len(raw.OutputsData) {
		return TransactionView{}, &OutputsDataMismatchError{Outputs: len(raw.Outputs), OutputsData: len(raw.OutputsData)}
	}
	witnesses, err := decodeBytesVec("Transaction.witnesses", fields[1])
	if err != nil {
		return TransactionView{}, err
	}

	return TransactionView{
		Version:     raw.Version,
		CellDeps:    raw.CellDeps,
		HeaderDeps:  raw.HeaderDeps,
		Inputs:      raw.Inputs,
		Outputs:     raw.Outputs,
		OutputsData: raw.OutputsData,
		Witnesses:   witnesses,
		Hash:        Hash32(ckbhash.Sum(fields[0])),
	}, nil
}

func decodeRawTransaction(data []byte) (RawTransaction, error) {
	fields, err := molecule.ReadTable("RawTransaction", data, rawTransactionFields)
	if err != nil {
		return RawTransaction{}, malformed("RawTransaction", err)
	}

	var raw RawTransaction
	if raw.Version, err = Uint32FromBinary(fields[0]); err != nil {
		return RawTransaction{}, malformed("RawTransaction.version", err)
	}
	if raw.CellDeps, err = decodeFixvec("RawTransaction.cell_deps", fields[1], CellDepSize, DecodeCellDep); err != nil {
		return RawTransaction{}, err
	}
	if raw.HeaderDeps, err = decodeFixvec("RawTransaction.header_deps", fields[2], 32, Hash32FromBinary); err != nil {
		return RawTransaction{}, err
	}
	if raw.Inputs, err = decodeFixvec("RawTransaction.inputs", fields[3], CellInputSize, DecodeCellInput); err != nil {
		return RawTransaction{}, err
	}
	if raw.Outputs, err = decodeDynvec("RawTransaction.outputs", fields[4], DecodeCellOutput); err != nil {
		return RawTransaction{}, err
	}
	if raw.OutputsData, err = decodeBytesVec("RawTransaction.outputs_data", fields[5]); err != nil {
		return RawTransaction{}, err
	}
	return raw, nil
}

// Raw returns the structural portion of tx.
func (tx TransactionView) Raw() RawTransaction {
	return RawTransaction{
		Version:     tx.Version,
		CellDeps:    tx.CellDeps,
		HeaderDeps:  tx.HeaderDeps,
		Inputs:      tx.Inputs,
		Outputs:     tx.Outputs,
		OutputsData: tx.OutputsData,
	}
}

// Validate checks the structural invariants of tx. See
// RawTransaction.Validate.
func (tx TransactionView) Validate() error {
	return tx.Raw().Validate()
}

// Encode returns the molecule Transaction table.
func (tx TransactionView) Encode() []byte {
	return molecule.Table(tx.Raw().Encode(), bytesVec(tx.Witnesses))
}

// CanonicalHash hashes the re-encoded structural portion. For a decoded
// view it equals Hash, since molecule records have one canonical layout.
func (tx TransactionView) CanonicalHash() Hash32 {
	return tx.Raw().Hash()
}

// VerifyHash checks Hash against CanonicalHash.
func (tx TransactionView) VerifyHash() error {
	if want := tx.CanonicalHash(); want != tx.Hash {
		return &HashMismatchError{Want: want, Got: tx.Hash}
	}
	return nil
}

// Clone returns a deep copy that shares no storage with tx.
func (tx TransactionView) Clone() TransactionView {
	tx.CellDeps = cloneSlice(tx.CellDeps)
	tx.HeaderDeps = cloneSlice(tx.HeaderDeps)
	tx.Inputs = cloneSlice(tx.Inputs)
	if tx.Outputs != nil {
		outputs := make([]CellOutput, len(tx.Outputs))
		for i, out := range tx.Outputs {
			outputs[i] = out.Clone()
		}
		tx.Outputs = outputs
	}
	tx.OutputsData = cloneBytesSlice(tx.OutputsData)
	tx.Witnesses = cloneBytesSlice(tx.Witnesses)
	return tx
}

func decodeFixvec[T any](record string, data []byte, itemSize int, decode func([]byte) (T, error)) ([]T, error) {
	items, err := molecule.ReadFixvec(record, data, itemSize)
	if err != nil {
		return nil, malformed(record, err)
	}
	return decodeItems(record, items, decode)
}

func decodeDynvec[T any](record string, data []byte, decode func([]byte) (T, error)) ([]T, error) {
	items, err := molecule.ReadDynvec(record, data)
	if err != nil {
		return nil, malformed(record, err)
	}
	return decodeItems(record, items, decode)
}

func decodeItems[T any](record string, items [][]byte, decode func([]byte) (T, error)) ([]T, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		v, err := decode(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", record, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func decodeBytesVec(record string, data []byte) ([]Bytes, error) {
	items, err := molecule.ReadBytesVec(record, data)
	if err != nil {
		return nil, malformed(record, err)
	}
	return decodeItems(record, items, func(b []byte) (Bytes, error) {
		return BytesFromBinary(b), nil
	})
}

func bytesVec(items []Bytes) []byte {
	raw := make([][]byte, len(items))
	for i, it := range items {
		raw[i] = it
	}
	return molecule.BytesVec(raw...)
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func cloneBytesSlice(s []Bytes) []Bytes {
	if s == nil {
		return nil
	}
	out := make([]Bytes, len(s))
	for i, b := range s {
		out[i] = BytesFromBinary(b)
	}
	return out
}
