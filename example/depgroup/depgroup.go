// Package depgroup resolves the cell deps of a transaction. A dep group
// cell's data is a molecule OutPointVec naming the cells it stands for;
// a DepTypeDepGroup dep expands into those cells, in order.
package depgroup

import (
	"errors"
	"fmt"
	"sync"

	"github.com/blockberries/cellcodec/molecule"
	"github.com/blockberries/cellcodec/types"
)

// ErrUnknownCell reports a dep pointing at a cell the store lacks.
var ErrUnknownCell = errors.New("unknown cell")

// Encode returns the OutPointVec data of a dep group cell.
func Encode(members []types.OutPoint) types.Bytes {
	items := make([][]byte, len(members))
	for i, m := range members {
		items[i] = m.Encode()
	}
	return molecule.Fixvec(items...)
}

// Decode parses dep group cell data.
func Decode(data []byte) ([]types.OutPoint, error) {
	items, err := molecule.ReadFixvec("OutPointVec", data, types.OutPointSize)
	if err != nil {
		return nil, fmt.Errorf("%w: OutPointVec: %w", types.ErrMalformedRecord, err)
	}
	members := make([]types.OutPoint, len(items))
	for i, item := range items {
		if members[i], err = types.DecodeOutPoint(item); err != nil {
			return nil, fmt.Errorf("OutPointVec[%d]: %w", i, err)
		}
	}
	return members, nil
}

// CellStore holds live cell data by out point. It is safe for concurrent
// use.
type CellStore struct {
	mu    sync.RWMutex
	cells map[types.OutPoint]types.Bytes
}

// NewCellStore creates an empty store.
func NewCellStore() *CellStore {
	return &CellStore{cells: make(map[types.OutPoint]types.Bytes)}
}

// Put records the data of the cell at op.
func (s *CellStore) Put(op types.OutPoint, data types.Bytes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[op] = types.BytesFromBinary(data)
}

// Get returns a copy of the data of the cell at op.
func (s *CellStore) Get(op types.OutPoint) (types.Bytes, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.cells[op]
	if !ok {
		return nil, false
	}
	return types.BytesFromBinary(data), true
}

// Resolve returns the out points of the cells deps make loadable. Code
// deps resolve to themselves; dep groups resolve to their members, which
// are not expanded further. Every resolved cell must be in the store.
func (s *CellStore) Resolve(deps []types.CellDep) ([]types.OutPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.OutPoint
	for i, dep := range deps {
		if err := dep.Validate(); err != nil {
			return nil, fmt.Errorf("cell_deps[%d]: %w", i, err)
		}
		data, ok := s.cells[dep.OutPoint]
		if !ok {
			return nil, fmt.Errorf("cell_deps[%d]: %w: %s#%d", i, ErrUnknownCell, dep.OutPoint.TxHash, dep.OutPoint.Index)
		}
		if dep.DepType == types.DepTypeCode {
			out = append(out, dep.OutPoint)
			continue
		}

		members, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("cell_deps[%d]: %w", i, err)
		}
		for _, m := range members {
			if _, ok := s.cells[m]; !ok {
				return nil, fmt.Errorf("cell_deps[%d]: member %w: %s#%d", i, ErrUnknownCell, m.TxHash, m.Index)
			}
		}
		out = append(out, members...)
	}
	return out, nil
}
