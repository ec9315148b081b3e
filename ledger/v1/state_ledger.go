package v1

import (
	"sync"

	"github.com/beatoz/taxpool-go/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// StateLedger pairs a committed MutableLedger (exec=true, DeliverTx) with a
// MemLedger simulation on its last version (exec=false, CheckTx).
// The simulation is rebuilt at every commit, dropping what CheckTx wrote.
type StateLedger struct {
	mtx sync.RWMutex

	committed *MutableLedger
	simulated *MemLedger

	logger tmlog.Logger
}

var _ IStateLedger = (*StateLedger)(nil)

func NewStateLedger(name, dbDir string, cacheSize int, newItem FuncNewItemFor, lg tmlog.Logger) (*StateLedger, xerrors.XError) {
	committed, xerr := NewMutableLedger(name, dbDir, cacheSize, newItem, lg)
	if xerr != nil {
		return nil, xerr
	}
	simulated, xerr := NewMemLedgerAt(committed.Version(), committed, lg)
	if xerr != nil {
		_ = committed.Close()
		return nil, xerr
	}
	return &StateLedger{
		committed: committed,
		simulated: simulated,
		logger:    lg.With("ledger", name),
	}, nil
}

func (ledger *StateLedger) pick(exec bool) IImitable {
	if exec {
		return ledger.committed
	}
	return ledger.simulated
}

func (ledger *StateLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.committed.Version()
}

func (ledger *StateLedger) Get(key LedgerKey, exec bool) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.pick(exec).Get(key)
}

func (ledger *StateLedger) Seek(prefix []byte, ascending bool, cb FuncIterate, exec bool) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.pick(exec).Seek(prefix, ascending, cb)
}

func (ledger *StateLedger) Set(key LedgerKey, item ILedgerItem, exec bool) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.pick(exec).Set(key, item)
}

func (ledger *StateLedger) Del(key LedgerKey, exec bool) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.pick(exec).Del(key)
}

func (ledger *StateLedger) Snapshot(exec bool) int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.pick(exec).Snapshot()
}

func (ledger *StateLedger) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.pick(exec).RevertToSnapshot(snap)
}

func (ledger *StateLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	hash, ver, xerr := ledger.committed.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}
	simulated, xerr := NewMemLedgerAt(ver, ledger.committed, ledger.logger)
	if xerr != nil {
		return nil, 0, xerr
	}
	ledger.simulated = simulated
	return hash, ver, nil
}

func (ledger *StateLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.simulated = nil
	return ledger.committed.Close()
}

// ImitableLedgerAt reads the committed state at `height`, 0 being the last one.
// Nothing written to it is ever committed.
func (ledger *StateLedger) ImitableLedgerAt(height int64) (IImitable, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	if height <= 0 {
		height = ledger.committed.Version()
	}
	return NewMemLedgerAt(height, ledger.committed, ledger.logger)
}
