package node

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	cfg "github.com/beatoz/taxpool-go/cmd/config"
	"github.com/beatoz/taxpool-go/cmd/version"
	"github.com/beatoz/taxpool-go/ctrlers/account"
	"github.com/beatoz/taxpool-go/ctrlers/taxpool"
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/genesis"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/bytes"
	"github.com/beatoz/taxpool-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	tmtime "github.com/tendermint/tendermint/types/time"
	tmver "github.com/tendermint/tendermint/version"
)

var _ abcitypes.Application = (*TaxPoolApp)(nil)

type TaxPoolApp struct {
	abcitypes.BaseApplication

	lastBlockCtx *ctrlertypes.BlockContext
	currBlockCtx *ctrlertypes.BlockContext

	metaDB     *MetaDB
	acctCtrler *account.AcctCtrler
	taxCtrler  *taxpool.TaxPoolCtrler
	txExecutor *TrxExecutor

	rootConfig *cfg.Config

	logger  log.Logger
	stopped bool
	mtx     sync.Mutex
}

func NewTaxPoolApp(config *cfg.Config, logger log.Logger) (*TaxPoolApp, error) {
	metaDB, err := OpenMetaDB("taxpool_app", config.DBDir())
	if err != nil {
		return nil, err
	}

	acctCtrler, xerr := account.NewAcctCtrler(config, logger)
	if xerr != nil {
		_ = metaDB.Close()
		return nil, xerr
	}

	taxCtrler, xerr := taxpool.NewTaxPoolCtrler(config, acctCtrler, logger)
	if xerr != nil {
		_ = acctCtrler.Close()
		_ = metaDB.Close()
		return nil, xerr
	}

	txExecutor := NewTrxExecutor(acctCtrler, logger)
	txExecutor.Register(acctCtrler, ctrlertypes.TRX_TRANSFER)
	txExecutor.Register(taxCtrler,
		ctrlertypes.TRX_WITHDRAW,
		ctrlertypes.TRX_CHANGE_ADMIN,
		ctrlertypes.TRX_SET_BENEFICIARIES,
		ctrlertypes.TRX_EMERGENCY_WITHDRAW)

	return &TaxPoolApp{
		metaDB:     metaDB,
		acctCtrler: acctCtrler,
		taxCtrler:  taxCtrler,
		txExecutor: txExecutor,
		rootConfig: config,
		logger:     logger.With("module", "TaxPoolApp"),
	}, nil
}

func (ctrler *TaxPoolApp) Start() error {
	return nil
}

// Stop closes the ledgers. Every abci connection stops the app, only the first one closes them.
func (ctrler *TaxPoolApp) Stop() error {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.stopped {
		return nil
	}
	ctrler.stopped = true

	if err := ctrler.taxCtrler.Close(); err != nil {
		return err
	}
	if err := ctrler.acctCtrler.Close(); err != nil {
		return err
	}
	if err := ctrler.metaDB.Close(); err != nil {
		return err
	}
	return nil
}


func (ctrler *TaxPoolApp) Info(info abcitypes.RequestInfo) abcitypes.ResponseInfo {
	ctrler.logger.Info("Info", "version", tmver.ABCIVersion, "AppVersion", version.String())

	ctrler.rootConfig.SetChainId(ctrler.metaDB.ChainID())

	ctrler.lastBlockCtx = ctrler.metaDB.LastBlockContext()
	if ctrler.lastBlockCtx == nil {
		ctrler.lastBlockCtx = ctrlertypes.TempBlockContext(ctrler.rootConfig.ChainId(), 0, tmtime.Canonical(time.Now()), ctrler.acctCtrler)
	}
	ctrler.lastBlockCtx.AcctHandler = ctrler.acctCtrler

	ctrler.logger.Debug("Info", "height", ctrler.lastBlockCtx.Height(), "appHash", ctrler.lastBlockCtx.AppHash())

	return abcitypes.ResponseInfo{
		Data:             "",
		Version:          tmver.ABCIVersion,
		AppVersion:       version.AppVersion(),
		LastBlockHeight:  ctrler.lastBlockCtx.Height(),
		LastBlockAppHash: ctrler.lastBlockCtx.AppHash(),
	}
}

// InitChain is called only when the ResponseInfo::LastBlockHeight which is returned in Info() is 0.
func (ctrler *TaxPoolApp) InitChain(req abcitypes.RequestInitChain) abcitypes.ResponseInitChain {
	if req.GetChainId() == "" {
		panic("there is no chain_id")
	}
	ctrler.rootConfig.SetChainId(req.GetChainId())
	if err := ctrler.metaDB.PutChainID(ctrler.rootConfig.ChainId()); err != nil {
		panic(err)
	}
	ctrler.lastBlockCtx.SetChainID(ctrler.rootConfig.ChainId())

	appState, err := genesis.ParseAppState(req.AppStateBytes)
	if err != nil {
		panic(err)
	}
	appHash, err := appState.Hash()
	if err != nil {
		panic(err)
	}

	// accounts first: the tax pool reads balances from them.
	if xerr := ctrler.acctCtrler.InitLedger(appState); xerr != nil {
		ctrler.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}
	if xerr := ctrler.taxCtrler.InitLedger(appState); xerr != nil {
		ctrler.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}

	return abcitypes.ResponseInitChain{
		AppHash: appHash,
	}
}

func (ctrler *TaxPoolApp) CheckTx(req abcitypes.RequestCheckTx) abcitypes.ResponseCheckTx {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch req.Type {
	case abcitypes.CheckTxType_New:
		// the block which is expected to include this tx.
		bctx := ctrlertypes.TempBlockContext(
			ctrler.rootConfig.ChainId(),
			ctrler.lastBlockCtx.Height()+1,
			tmtime.Now(),
			ctrler.acctCtrler,
		)
		txctx, xerr := ctrlertypes.NewTrxContext(req.Tx, bctx, false)
		if xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("CheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}

		if xerr := ctrler.txExecutor.ExecuteSync(txctx); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("CheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}
		return abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK}

	case abcitypes.CheckTxType_Recheck:
		// do Tx validation minimally.
		// only the nonce of the sender may have been changed by the committed block.
		tx := &ctrlertypes.Trx{}
		if xerr := tx.Decode(req.Tx); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("ReCheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}

		sender := ctrler.acctCtrler.FindOrNewAccount(tx.From, types.DefaultDenom, false)
		if xerr := sender.CheckNonce(tx.Nonce); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr.Wrapf("ledger: %v, tx:%v, address: %v", sender.GetNonce(), tx.Nonce, sender.Address))
			ctrler.logger.Error("ReCheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}
		sender.AddNonce()
		if xerr := ctrler.acctCtrler.SetAccount(sender, false); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("ReCheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}
		return abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK}
	}
	return abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK}
}

func (ctrler *TaxPoolApp) BeginBlock(req abcitypes.RequestBeginBlock) abcitypes.ResponseBeginBlock {
	if req.Header.Height != ctrler.lastBlockCtx.Height()+1 {
		panic(fmt.Errorf("error block height: expected(%v), actual(%v)", ctrler.lastBlockCtx.Height()+1, req.Header.Height))
	}
	ctrler.logger.Debug("BeginBlock",
		"height", req.Header.Height,
		"hash", bytes.HexBytes(req.Hash),
		"prev.hash", bytes.HexBytes(req.Header.LastBlockId.Hash))

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ctrler.currBlockCtx = ctrlertypes.NewBlockContext(req, ctrler.acctCtrler)
	return abcitypes.ResponseBeginBlock{}
}

func (ctrler *TaxPoolApp) DeliverTx(req abcitypes.RequestDeliverTx) abcitypes.ResponseDeliverTx {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	txctx, resp := ctrler.prepareTrxContext(&req, ctrler.currBlockCtx.TxsCnt())
	if resp != nil {
		return *resp
	}
	return *ctrler.execTrxContext(txctx)
}

// prepareTrxContext decodes `req` and verifies its signature.
// It is safe to call concurrently for the txs of a block.
func (ctrler *TaxPoolApp) prepareTrxContext(req *abcitypes.RequestDeliverTx, idx int) (*ctrlertypes.TrxContext, *abcitypes.ResponseDeliverTx) {
	txctx, xerr := ctrlertypes.NewTrxContext(req.Tx, ctrler.currBlockCtx, true)
	if xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		ctrler.logger.Error("prepareTrxContext", "error", xerr)

		ctrler.currBlockCtx.AddTxsCnt(1)
		return nil, &abcitypes.ResponseDeliverTx{
			Code: xerr.Code(),
			Log:  xerr.Error(),
		}
	}

	// `idx` is the position of the tx in the block,
	// while the preparation of txs may complete in any order.
	txctx.TxIdx = idx
	ctrler.currBlockCtx.AddTxsCnt(1)
	return txctx, nil
}

// execTrxContext executes prepared txs one by one in block order.
func (ctrler *TaxPoolApp) execTrxContext(txctx *ctrlertypes.TrxContext) *abcitypes.ResponseDeliverTx {
	if xerr := ctrler.txExecutor.ExecuteSync(txctx); xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		ctrler.logger.Error("execTrxContext", "error", xerr, "txhash", txctx.TxHash)

		return &abcitypes.ResponseDeliverTx{
			Code:   xerr.Code(),
			Log:    xerr.Error(),
			Events: []abcitypes.Event{txEvent(txctx.Tx, xerr.Code())},
		}
	}

	return &abcitypes.ResponseDeliverTx{
		Code:   abcitypes.CodeTypeOK,
		Events: append(txctx.Events, txEvent(txctx.Tx, abcitypes.CodeTypeOK)),
	}
}

func txEvent(tx *ctrlertypes.Trx, code uint32) abcitypes.Event {
	return abcitypes.Event{
		Type: "tx",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXTYPE), Value: []byte(tx.TypeString()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSTATUS), Value: []byte(strconv.Itoa(int(code))), Index: false},
		},
	}
}

func (ctrler *TaxPoolApp) EndBlock(req abcitypes.RequestEndBlock) abcitypes.ResponseEndBlock {
	ctrler.logger.Debug("EndBlock", "height", req.Height, "txs", ctrler.currBlockCtx.TxsCnt())
	return abcitypes.ResponseEndBlock{}
}

func (ctrler *TaxPoolApp) Commit() abcitypes.ResponseCommit {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	start := time.Now()

	appHash0, ver0, xerr := ctrler.acctCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	ctrler.logger.Debug("Commit", "height", ver0, "appHash0", bytes.HexBytes(appHash0))

	appHash1, ver1, xerr := ctrler.taxCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	ctrler.logger.Debug("Commit", "height", ver1, "appHash1", bytes.HexBytes(appHash1))

	if ver0 != ver1 {
		panic(fmt.Sprintf("Not same versions: account: %v, taxpool: %v", ver0, ver1))
	}
	if ver0 != ctrler.currBlockCtx.Height() {
		panic(fmt.Sprintf("ledger version(%v) is not block height(%v)", ver0, ctrler.currBlockCtx.Height()))
	}

	appHash := ethcrypto.Keccak256(appHash0, appHash1)
	ctrler.currBlockCtx.SetAppHash(appHash)
	ctrler.logger.Info("Commit",
		"height", ver0,
		"txs", ctrler.currBlockCtx.TxsCnt(),
		"appHash", ctrler.currBlockCtx.AppHash())

	if err := ctrler.metaDB.Commit(ctrler.currBlockCtx); err != nil {
		panic(err)
	}

	ctrler.lastBlockCtx = ctrler.currBlockCtx
	ctrler.currBlockCtx = nil

	lastHeight.Set(float64(ver0))
	commitDuration.Observe(time.Since(start).Seconds())

	return abcitypes.ResponseCommit{
		Data: appHash[:],
	}
}
