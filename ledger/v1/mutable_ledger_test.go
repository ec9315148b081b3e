package v1

import (
	"encoding/binary"
	"fmt"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"os"
	"strconv"
	"strings"
	"testing"
)

func newTestMutableLedger(t *testing.T) (*MutableLedger, string) {
	dbDir, err := os.MkdirTemp("", "ledger_test")
	require.NoError(t, err)

	ledger, xerr := NewMutableLedger("ledger_test", dbDir, 10000, func(key LedgerKey) ILedgerItem {
		return &Item{}
	}, log.NewNopLogger())
	require.NoError(t, xerr)
	return ledger, dbDir
}

func TestLedger_RevertToSnapshot_Set0(t *testing.T) {
	ledger, dbDir := newTestMutableLedger(t)

	item0 := newItem(0, "test item0 value")
	require.NoError(t, ledger.Set(item0.Key(), item0))

	snap := ledger.Snapshot()

	item1 := newItem(1, "test item1 value")
	require.NoError(t, ledger.Set(item1.Key(), item1))

	_item, xerr := ledger.Get(item0.Key())
	require.NoError(t, xerr)
	require.Equal(t, item0, _item)

	_item, xerr = ledger.Get(item1.Key())
	require.NoError(t, xerr)
	require.Equal(t, item1, _item)

	// item0 should be not removed but item1 should be removed.
	require.NoError(t, ledger.RevertToSnapshot(snap))

	_item, xerr = ledger.Get(item0.Key())
	require.NoError(t, xerr)
	require.Equal(t, item0, _item)

	_item, xerr = ledger.Get(item1.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
	require.Nil(t, _item)

	require.NoError(t, ledger.Close())
	require.NoError(t, os.RemoveAll(dbDir))
}

func TestLedger_RevertToSnapshot_Set1(t *testing.T) {
	ledger, dbDir := newTestMutableLedger(t)

	for i := 0; i < 1000; i++ {
		it := newItem(i, fmt.Sprintf("d%d", i))
		require.NoError(t, ledger.Set(it.Key(), it))
	}

	snap := ledger.Snapshot()
	require.Equal(t, 1000, snap)

	for i := 0; i < 1000; i++ {
		it := newItem(i, fmt.Sprintf("d%d%d", i, i))
		require.NoError(t, ledger.Set(it.Key(), it))
	}
	for i := 0; i < 1000; i++ {
		item, xerr := ledger.Get(newItem(i, "").Key())
		require.NoError(t, xerr)
		require.Equal(t, fmt.Sprintf("d%d%d", i, i), item.(*Item).data)
	}

	require.NoError(t, ledger.RevertToSnapshot(snap))
	for i := 0; i < 1000; i++ {
		item, xerr := ledger.Get(newItem(i, "").Key())
		require.NoError(t, xerr)
		require.Equal(t, fmt.Sprintf("d%d", i), item.(*Item).data)
	}

	require.NoError(t, ledger.RevertToSnapshot(1))
	item, xerr := ledger.Get(newItem(0, "").Key())
	require.NoError(t, xerr)
	require.Equal(t, "d0", item.(*Item).data)

	for i := 1; i < 1000; i++ {
		item, xerr := ledger.Get(newItem(i, "").Key())
		require.Nil(t, item)
		require.Equal(t, xerrors.ErrNotFoundResult, xerr)
	}

	require.NoError(t, ledger.Close())
	require.NoError(t, os.RemoveAll(dbDir))
}

func TestLedger_RevertToSnapshot_Del(t *testing.T) {
	ledger, dbDir := newTestMutableLedger(t)

	item := newItem(123, "data123")
	require.NoError(t, ledger.Set(item.Key(), item))

	snap := ledger.Snapshot()
	require.Equal(t, 1, snap)

	require.NoError(t, ledger.Del(item.Key()))
	_, xerr := ledger.Get(item.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	// revert deletion
	require.NoError(t, ledger.RevertToSnapshot(snap))

	_item, xerr := ledger.Get(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, item.data, _item.(*Item).data)

	require.NoError(t, ledger.Close())
	require.NoError(t, os.RemoveAll(dbDir))
}

func TestLedger_Commit(t *testing.T) {
	ledger, dbDir := newTestMutableLedger(t)

	item := newItem(1, "committed")
	require.NoError(t, ledger.Set(item.Key(), item))
	hash, ver, xerr := ledger.Commit()
	require.NoError(t, xerr)
	require.NotEmpty(t, hash)
	require.Equal(t, int64(1), ver)
	require.Equal(t, 0, ledger.Snapshot())

	require.NoError(t, ledger.Close())

	// reopen
	ledger, xerr = NewMutableLedger("ledger_test", dbDir, 10000, func(key LedgerKey) ILedgerItem {
		return &Item{}
	}, log.NewNopLogger())
	require.NoError(t, xerr)
	require.Equal(t, int64(1), ledger.Version())

	_item, xerr := ledger.Get(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, "committed", _item.(*Item).data)

	require.NoError(t, ledger.Close())
	require.NoError(t, os.RemoveAll(dbDir))
}

func TestLedger_Seek(t *testing.T) {
	ledger, dbDir := newTestMutableLedger(t)

	for i := 0; i < 10; i++ {
		it := newItem(i, strconv.Itoa(i))
		require.NoError(t, ledger.Set(append([]byte("a"), it.Key()...), it))
		require.NoError(t, ledger.Set(append([]byte("b"), it.Key()...), it))
	}

	var visited []int
	require.NoError(t, ledger.Seek([]byte("a"), true, func(key LedgerKey, item ILedgerItem) xerrors.XError {
		require.Equal(t, byte('a'), key[0])
		visited = append(visited, item.(*Item).key)
		return nil
	}))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, visited)

	visited = nil
	require.NoError(t, ledger.Seek([]byte("b"), false, func(key LedgerKey, item ILedgerItem) xerrors.XError {
		require.Equal(t, byte('b'), key[0])
		visited = append(visited, item.(*Item).key)
		return nil
	}))
	require.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, visited)

	require.NoError(t, ledger.Close())
	require.NoError(t, os.RemoveAll(dbDir))
}

type Item struct {
	key  int
	data string
}

func newItem(key int, data string) *Item {
	return &Item{
		key:  key,
		data: data,
	}
}

func (i *Item) Key() []byte {
	bs := make([]byte, 4)
	binary.BigEndian.PutUint32(bs, uint32(i.key))
	return bs
}

func (i *Item) Encode() ([]byte, xerrors.XError) {
	return []byte(fmt.Sprintf("key:%v,data:%v", i.key, i.data)), nil
}

func (i *Item) Decode(bz []byte) xerrors.XError {
	toks := strings.Split(string(bz), ",")
	key, _ := strings.CutPrefix(toks[0], "key:")
	data, _ := strings.CutPrefix(toks[1], "data:")

	var err error
	if i.key, err = strconv.Atoi(key); err != nil {
		return xerrors.From(err)
	}
	i.data = data
	return nil
}
