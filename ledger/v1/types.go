package v1

import "github.com/beatoz/taxpool-go/types/xerrors"

type LedgerKey = []byte

// ILedgerItem is a value stored in a ledger.
type ILedgerItem interface {
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

// FuncNewItemFor returns an empty item to decode the value of a key into.
type FuncNewItemFor func(LedgerKey) ILedgerItem

// FuncIterate is called by Seek for each item. Returning an error stops it.
type FuncIterate func(LedgerKey, ILedgerItem) xerrors.XError

// IImitable is a ledger whose changes can be rolled back to a snapshot.
type IImitable interface {
	Get(LedgerKey) (ILedgerItem, xerrors.XError)
	Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError
	Set(LedgerKey, ILedgerItem) xerrors.XError
	Del(LedgerKey) xerrors.XError
	Snapshot() int
	RevertToSnapshot(int) xerrors.XError
}

// IStateLedger selects the committed ledger with exec=true (DeliverTx)
// and the simulated one with exec=false (CheckTx).
type IStateLedger interface {
	Version() int64
	Get(LedgerKey, bool) (ILedgerItem, xerrors.XError)
	Seek([]byte, bool, FuncIterate, bool) xerrors.XError
	Set(LedgerKey, ILedgerItem, bool) xerrors.XError
	Del(LedgerKey, bool) xerrors.XError
	Snapshot(bool) int
	RevertToSnapshot(int, bool) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
	ImitableLedgerAt(int64) (IImitable, xerrors.XError)
}

func decodeItem(newItemFor FuncNewItemFor, key LedgerKey, bz []byte) (ILedgerItem, xerrors.XError) {
	item := newItemFor(key)
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerrors.ErrStore.Wrapf("key %X: %v", key, xerr)
	}
	return item, nil
}
