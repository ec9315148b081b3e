package types

import (
	"sync"
	"time"

	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types/bytes"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// BlockContext is the block being executed, or the last committed one.
type BlockContext struct {
	mtx sync.RWMutex

	chainId string
	height  int64
	time    time.Time
	txsCnt  int
	appHash bytes.HexBytes

	AcctHandler IAccountHandler
}

func NewBlockContext(req abcitypes.RequestBeginBlock, a IAccountHandler) *BlockContext {
	return TempBlockContext(req.Header.ChainID, req.Header.Height, req.Header.Time, a)
}

func TempBlockContext(chainId string, height int64, btime time.Time, a IAccountHandler) *BlockContext {
	return &BlockContext{
		chainId:     chainId,
		height:      height,
		time:        btime,
		AcctHandler: a,
	}
}

// ExpectNextBlockContext is the block after `last`, `interval` later.
func ExpectNextBlockContext(last *BlockContext, interval time.Duration) *BlockContext {
	last.mtx.RLock()
	defer last.mtx.RUnlock()

	return TempBlockContext(last.chainId, last.height+1, last.time.Add(interval), last.AcctHandler)
}

func (bctx *BlockContext) ChainID() string {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.chainId
}

func (bctx *BlockContext) SetChainID(chainId string) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.chainId = chainId
}

func (bctx *BlockContext) Height() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.height
}

func (bctx *BlockContext) Time() time.Time {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.time
}

// AppHash is set at commit.
func (bctx *BlockContext) AppHash() bytes.HexBytes {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.appHash
}

func (bctx *BlockContext) SetAppHash(hash []byte) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.appHash = hash
}

func (bctx *BlockContext) TxsCnt() int {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.txsCnt
}

func (bctx *BlockContext) AddTxsCnt(d int) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.txsCnt += d
}

type blockContextJSON struct {
	ChainID string         `json:"chainId"`
	Height  int64          `json:"height"`
	Time    time.Time      `json:"time"`
	TxsCnt  int            `json:"txsCnt"`
	AppHash bytes.HexBytes `json:"appHash"`
}

func (bctx *BlockContext) MarshalJSON() ([]byte, error) {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return jsonx.Marshal(&blockContextJSON{
		ChainID: bctx.chainId,
		Height:  bctx.height,
		Time:    bctx.time,
		TxsCnt:  bctx.txsCnt,
		AppHash: bctx.appHash,
	})
}

func (bctx *BlockContext) UnmarshalJSON(bz []byte) error {
	var tm blockContextJSON
	if err := jsonx.Unmarshal(bz, &tm); err != nil {
		return err
	}

	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.chainId = tm.ChainID
	bctx.height = tm.Height
	bctx.time = tm.Time
	bctx.txsCnt = tm.TxsCnt
	bctx.appHash = tm.AppHash
	return nil
}
