package v1

import (
	"bytes"
	"sync"

	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MutableLedger is an iavl tree on goleveldb.
// Changes since the last commit are journaled and can be reverted to a snapshot.
type MutableLedger struct {
	mtx sync.RWMutex

	db      dbm.DB
	tree    *iavl.MutableTree
	journal journal

	newItemFor FuncNewItemFor
	logger     tmlog.Logger
}

func NewMutableLedger(name, dbDir string, cacheSize int, newItem FuncNewItemFor, lg tmlog.Logger) (*MutableLedger, xerrors.XError) {
	db, err := dbm.NewGoLevelDB(name, dbDir)
	if err != nil {
		return nil, xerrors.ErrStore.Wrap(xerrors.Wrap(err, "can't open "+name))
	}
	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger(), iavl.SyncOption(true))
	ver, err := tree.Load()
	if err != nil {
		_ = db.Close()
		return nil, xerrors.ErrStore.Wrap(xerrors.Wrap(err, "can't load "+name))
	}

	logger := lg.With("ledger", name)
	logger.Debug("ledger loaded", "version", ver)
	return &MutableLedger{
		db:         db,
		tree:       tree,
		newItemFor: newItem,
		logger:     logger,
	}, nil
}

func (ledger *MutableLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, err := ledger.tree.Get(key)
	if err != nil {
		return nil, xerrors.ErrStore.Wrap(err)
	}
	if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	return decodeItem(ledger.newItemFor, key, bz)
}

// Seek visits every item under `prefix` in key order.
// cb must not modify the ledger.
func (ledger *MutableLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	iter, err := ledger.tree.Iterator(prefix, prefixEnd(prefix), ascending)
	if err != nil {
		return xerrors.ErrStore.Wrap(err)
	}
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		item, xerr := decodeItem(ledger.newItemFor, iter.Key(), iter.Value())
		if xerr != nil {
			return xerr
		}
		if xerr := cb(iter.Key(), item); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MutableLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	bz, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}

	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	prev, err := ledger.tree.Get(key)
	if err != nil {
		return xerrors.ErrStore.Wrap(err)
	}
	if prev != nil && bytes.Equal(prev, bz) {
		return nil
	}
	if _, err := ledger.tree.Set(key, bz); err != nil {
		return xerrors.ErrStore.Wrap(err)
	}
	ledger.journal.record(copyKey(key), prev)
	return nil
}

func (ledger *MutableLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	prev, removed, err := ledger.tree.Remove(key)
	if err != nil {
		return xerrors.ErrStore.Wrap(err)
	}
	if removed {
		ledger.journal.record(copyKey(key), prev)
	}
	return nil
}

func (ledger *MutableLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.journal.snapshot()
}

func (ledger *MutableLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	err := ledger.journal.undo(snap, func(key, prev []byte) error {
		if prev == nil {
			_, _, err := ledger.tree.Remove(key)
			return err
		}
		_, err := ledger.tree.Set(key, prev)
		return err
	})
	if err != nil {
		return xerrors.ErrStore.Wrap(err)
	}
	return nil
}

// Commit saves a new version and returns its root hash and number.
func (ledger *MutableLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.tree.SetCommitting()
	defer ledger.tree.UnsetCommitting()

	hash, ver, err := ledger.tree.SaveVersion()
	if err != nil {
		return nil, 0, xerrors.ErrStore.Wrap(err)
	}
	ledger.journal.clear()
	ledger.logger.Debug("ledger committed", "version", ver, "hash", hash)
	return hash, ver, nil
}

func (ledger *MutableLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.tree.Version()
}

func (ledger *MutableLedger) immutableAt(ver int64) (*iavl.ImmutableTree, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	tree, err := ledger.tree.GetImmutable(ver)
	if err != nil {
		return nil, xerrors.ErrStore.Wrap(err)
	}
	return tree, nil
}

// Close is a no-op on a closed ledger.
func (ledger *MutableLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.tree == nil {
		return nil
	}
	treeErr := ledger.tree.Close()
	dbErr := ledger.db.Close()
	ledger.tree, ledger.db = nil, nil
	ledger.journal.clear()

	if treeErr != nil {
		return xerrors.ErrStore.Wrap(treeErr)
	}
	if dbErr != nil {
		return xerrors.ErrStore.Wrap(dbErr)
	}
	return nil
}

var _ IImitable = (*MutableLedger)(nil)
