package v1

import (
	"testing"

	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func newTestStateLedger(t *testing.T) *StateLedger {
	ledger, xerr := NewStateLedger("state_test", t.TempDir(), 1000, func(LedgerKey) ILedgerItem {
		return &Item{}
	}, log.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() { require.NoError(t, ledger.Close()) })
	return ledger
}

func TestJournal_InvalidSnapshot(t *testing.T) {
	var j journal
	j.record([]byte("a"), nil)
	require.Error(t, j.undo(2, func([]byte, []byte) error { return nil }))
	require.Error(t, j.undo(-1, func([]byte, []byte) error { return nil }))

	var undone []string
	require.NoError(t, j.undo(0, func(k, _ []byte) error {
		undone = append(undone, string(k))
		return nil
	}))
	require.Equal(t, []string{"a"}, undone)
	require.Zero(t, j.snapshot())
}

func TestStateLedger_SimulationIsDropped(t *testing.T) {
	ledger := newTestStateLedger(t)

	item0 := newItem(0, "zero")
	require.NoError(t, ledger.Set(item0.Key(), item0, true))
	_, ver, xerr := ledger.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(1), ver)

	// CheckTx sees the committed state and its own writes.
	item1 := newItem(1, "one")
	require.NoError(t, ledger.Set(item1.Key(), item1, false))
	require.NoError(t, ledger.Del(item0.Key(), false))
	_, xerr = ledger.Get(item0.Key(), false)
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
	got, xerr := ledger.Get(item1.Key(), false)
	require.NoError(t, xerr)
	require.Equal(t, "one", got.(*Item).data)

	// DeliverTx does not.
	_, xerr = ledger.Get(item1.Key(), true)
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
	got, xerr = ledger.Get(item0.Key(), true)
	require.NoError(t, xerr)
	require.Equal(t, "zero", got.(*Item).data)

	_, _, xerr = ledger.Commit()
	require.NoError(t, xerr)
	_, xerr = ledger.Get(item1.Key(), false)
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
	_, xerr = ledger.Get(item0.Key(), false)
	require.NoError(t, xerr)
}

func TestMemLedger_SeekAndRevert(t *testing.T) {
	ledger := newTestStateLedger(t)
	for i := 0; i < 5; i++ {
		it := newItem(i, "committed")
		require.NoError(t, ledger.Set(it.Key(), it, true))
	}
	_, _, xerr := ledger.Commit()
	require.NoError(t, xerr)

	mem, xerr := ledger.ImitableLedgerAt(0)
	require.NoError(t, xerr)

	snap := mem.Snapshot()
	require.NoError(t, mem.Del(newItem(1, "").Key()))
	it7 := newItem(7, "memory")
	require.NoError(t, mem.Set(it7.Key(), it7))
	it3 := newItem(3, "changed")
	require.NoError(t, mem.Set(it3.Key(), it3))

	seek := func(asc bool) (keys []int, data []string) {
		require.NoError(t, mem.Seek(nil, asc, func(_ LedgerKey, item ILedgerItem) xerrors.XError {
			keys = append(keys, item.(*Item).key)
			data = append(data, item.(*Item).data)
			return nil
		}))
		return
	}
	keys, data := seek(true)
	require.Equal(t, []int{0, 2, 3, 4, 7}, keys)
	require.Equal(t, "changed", data[2])
	keys, _ = seek(false)
	require.Equal(t, []int{7, 4, 3, 2, 0}, keys)

	require.NoError(t, mem.RevertToSnapshot(snap))
	keys, data = seek(true)
	require.Equal(t, []int{0, 1, 2, 3, 4}, keys)
	require.Equal(t, "committed", data[3])

	// the committed ledger is untouched
	require.Equal(t, int64(1), ledger.Version())
}

func TestMutableLedger_InvalidSnapshot(t *testing.T) {
	ledger, _ := newTestMutableLedger(t)
	defer ledger.Close()

	it := newItem(0, "x")
	require.NoError(t, ledger.Set(it.Key(), it))
	require.True(t, ledger.RevertToSnapshot(5).Contains(xerrors.ErrStore))
	_, xerr := ledger.Get(it.Key())
	require.NoError(t, xerr)
}
