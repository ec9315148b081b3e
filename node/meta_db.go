package node

import (
	"encoding/binary"
	"errors"
	"sync"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	tmdb "github.com/tendermint/tm-db"
)

var (
	metaKeyChainID   = []byte("meta/chain_id")
	metaKeyLastBlock = []byte("meta/last_block")
	metaKeyTxCount   = []byte("meta/tx_count")
)

// MetaDB holds the node state that lives outside the ledgers:
// the chain id, the last committed block and the number of committed txs.
type MetaDB struct {
	mtx sync.RWMutex
	db  tmdb.DB

	chainId   string
	lastBlock *ctrlertypes.BlockContext
	txCount   uint64
}

func OpenMetaDB(name, dir string) (*MetaDB, error) {
	db, err := tmdb.NewDB(name, tmdb.GoLevelDBBackend, dir)
	if err != nil {
		return nil, err
	}
	return loadMetaDB(db)
}

func loadMetaDB(db tmdb.DB) (*MetaDB, error) {
	meta := &MetaDB{db: db}

	bz, err := db.Get(metaKeyChainID)
	if err != nil {
		return nil, err
	}
	meta.chainId = string(bz)

	if bz, err = db.Get(metaKeyTxCount); err != nil {
		return nil, err
	} else if len(bz) == 8 {
		meta.txCount = binary.BigEndian.Uint64(bz)
	} else if bz != nil {
		return nil, errors.New("corrupted tx count")
	}

	if bz, err = db.Get(metaKeyLastBlock); err != nil {
		return nil, err
	} else if bz != nil {
		bctx := &ctrlertypes.BlockContext{}
		if err := jsonx.Unmarshal(bz, bctx); err != nil {
			return nil, err
		}
		meta.lastBlock = bctx
	}
	return meta, nil
}

func (meta *MetaDB) Close() error {
	meta.mtx.Lock()
	defer meta.mtx.Unlock()

	return meta.db.Close()
}

func (meta *MetaDB) ChainID() string {
	meta.mtx.RLock()
	defer meta.mtx.RUnlock()

	return meta.chainId
}

func (meta *MetaDB) PutChainID(chainId string) error {
	meta.mtx.Lock()
	defer meta.mtx.Unlock()

	if err := meta.db.SetSync(metaKeyChainID, []byte(chainId)); err != nil {
		return err
	}
	meta.chainId = chainId
	return nil
}

// LastBlockContext returns nil if no block has been committed.
func (meta *MetaDB) LastBlockContext() *ctrlertypes.BlockContext {
	meta.mtx.RLock()
	defer meta.mtx.RUnlock()

	return meta.lastBlock
}

// Txn is the number of txs committed so far.
func (meta *MetaDB) Txn() uint64 {
	meta.mtx.RLock()
	defer meta.mtx.RUnlock()

	return meta.txCount
}

// Commit records bctx as the last block and adds its txs to the tx count.
// Both are written in one batch.
func (meta *MetaDB) Commit(bctx *ctrlertypes.BlockContext) error {
	meta.mtx.Lock()
	defer meta.mtx.Unlock()

	bz, err := jsonx.Marshal(bctx)
	if err != nil {
		return err
	}
	txCount := meta.txCount + uint64(bctx.TxsCnt())
	cnt := make([]byte, 8)
	binary.BigEndian.PutUint64(cnt, txCount)

	batch := meta.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(metaKeyLastBlock, bz); err != nil {
		return err
	}
	if err := batch.Set(metaKeyTxCount, cnt); err != nil {
		return err
	}
	if err := batch.WriteSync(); err != nil {
		return err
	}

	meta.lastBlock = bctx
	meta.txCount = txCount
	return nil
}
