package v1

import (
	"bytes"
	"sort"
	"sync"

	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/cosmos/iavl"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MemLedger reads through to one committed version of a MutableLedger
// and keeps its own changes in memory. It can not be committed.
type MemLedger struct {
	mtx sync.RWMutex

	base    *iavl.ImmutableTree // nil before the first commit
	dirty   map[string][]byte   // a nil value is a deleted key
	journal journal

	newItemFor FuncNewItemFor
	logger     tmlog.Logger
}

var _ IImitable = (*MemLedger)(nil)

func NewMemLedgerAt(ver int64, from *MutableLedger, lg tmlog.Logger) (*MemLedger, xerrors.XError) {
	ledger := &MemLedger{
		dirty:      make(map[string][]byte),
		newItemFor: from.newItemFor,
		logger:     lg.With("ledger", "MemLedger", "version", ver),
	}
	if ver > 0 {
		tree, xerr := from.immutableAt(ver)
		if xerr != nil {
			return nil, xerr
		}
		ledger.base = tree
	}
	return ledger, nil
}

func (ledger *MemLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, xerr := ledger.value(key)
	if xerr != nil {
		return nil, xerr
	}
	if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	return decodeItem(ledger.newItemFor, key, bz)
}

func (ledger *MemLedger) value(key LedgerKey) ([]byte, xerrors.XError) {
	if bz, ok := ledger.dirty[string(key)]; ok {
		return bz, nil
	}
	if ledger.base == nil {
		return nil, nil
	}
	bz, err := ledger.base.Get(key)
	if err != nil {
		return nil, xerrors.ErrStore.Wrap(err)
	}
	return bz, nil
}

// Seek merges the committed keys under `prefix` with the in-memory changes.
// cb is called after the ledger is unlocked.
func (ledger *MemLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	keys, items, xerr := ledger.collect(prefix, ascending)
	if xerr != nil {
		return xerr
	}
	for i, k := range keys {
		if xerr := cb(k, items[i]); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MemLedger) collect(prefix []byte, ascending bool) ([]LedgerKey, []ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	merged := make(map[string][]byte)
	if ledger.base != nil {
		iter, err := ledger.base.Iterator(prefix, prefixEnd(prefix), true)
		if err != nil {
			return nil, nil, xerrors.ErrStore.Wrap(err)
		}
		for ; iter.Valid(); iter.Next() {
			merged[string(iter.Key())] = iter.Value()
		}
		_ = iter.Close()
	}
	for k, v := range ledger.dirty {
		if bytes.HasPrefix([]byte(k), prefix) {
			merged[k] = v
		}
	}

	sorted := make([]string, 0, len(merged))
	for k, v := range merged {
		if v != nil {
			sorted = append(sorted, k)
		}
	}
	if ascending {
		sort.Strings(sorted)
	} else {
		sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
	}

	keys := make([]LedgerKey, len(sorted))
	items := make([]ILedgerItem, len(sorted))
	for i, k := range sorted {
		item, xerr := decodeItem(ledger.newItemFor, []byte(k), merged[k])
		if xerr != nil {
			return nil, nil, xerr
		}
		keys[i], items[i] = []byte(k), item
	}
	return keys, items, nil
}

func (ledger *MemLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	bz, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}

	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.put(key, bz)
}

func (ledger *MemLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.put(key, nil)
}

func (ledger *MemLedger) put(key LedgerKey, bz []byte) xerrors.XError {
	prev, xerr := ledger.value(key)
	if xerr != nil {
		return xerr
	}
	if (prev == nil) == (bz == nil) && bytes.Equal(prev, bz) {
		return nil
	}
	k := copyKey(key)
	ledger.dirty[string(k)] = bz
	ledger.journal.record(k, prev)
	return nil
}

func (ledger *MemLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.journal.snapshot()
}

func (ledger *MemLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	err := ledger.journal.undo(snap, func(key, prev []byte) error {
		ledger.dirty[string(key)] = prev
		return nil
	})
	if err != nil {
		return xerrors.ErrStore.Wrap(err)
	}
	return nil
}
