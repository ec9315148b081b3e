package node

import (
	"fmt"

	abcicli "github.com/tendermint/tendermint/abci/client"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmsync "github.com/tendermint/tendermint/libs/sync"
	tmproxy "github.com/tendermint/tendermint/proxy"
)

type localClientCreator struct {
	mtx *tmsync.Mutex
	app *TaxPoolApp
}

// NewLocalClientCreator returns a ClientCreator whose every connection
// calls `app` in-process, serialized by one mutex.
func NewLocalClientCreator(app *TaxPoolApp) tmproxy.ClientCreator {
	return &localClientCreator{
		mtx: new(tmsync.Mutex),
		app: app,
	}
}

func (l *localClientCreator) NewABCIClient() (abcicli.Client, error) {
	return NewLocalClient(l.mtx, l.app), nil
}

// localClient is tendermint's local client except for DeliverTx:
// the txs of a block are queued and prepared in parallel by DeliverTxAsync,
// then executed in block order at EndBlock, before the app's EndBlock.
type localClient struct {
	abcicli.Client

	mtx *tmsync.Mutex
	app *TaxPoolApp
	cb  abcicli.Callback

	txPreparer *TrxPreparer
}

var _ abcicli.Client = (*localClient)(nil)

func NewLocalClient(mtx *tmsync.Mutex, app *TaxPoolApp) abcicli.Client {
	if mtx == nil {
		mtx = new(tmsync.Mutex)
	}
	return &localClient{
		Client:     abcicli.NewLocalClient(mtx, app),
		mtx:        mtx,
		app:        app,
		txPreparer: newTrxPreparer(),
	}
}

func (client *localClient) Start() error {
	client.txPreparer.start()
	if err := client.app.Start(); err != nil {
		client.txPreparer.stop()
		return err
	}
	return client.Client.Start()
}

func (client *localClient) Stop() error {
	client.txPreparer.stop()
	if err := client.app.Stop(); err != nil {
		return err
	}
	return client.Client.Stop()
}

func (client *localClient) SetResponseCallback(cb abcicli.Callback) {
	client.mtx.Lock()
	client.cb = cb
	client.mtx.Unlock()

	client.Client.SetResponseCallback(cb)
}

// DeliverTxAsync only queues `req`.
// Its response is passed to the callback in EndBlock.
func (client *localClient) DeliverTxAsync(req abcitypes.RequestDeliverTx) *abcicli.ReqRes {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	client.txPreparer.Add(&req, client.app.prepareTrxContext)
	return abcicli.NewReqRes(abcitypes.ToRequestDeliverTx(req))
}

func (client *localClient) EndBlockAsync(req abcitypes.RequestEndBlock) *abcicli.ReqRes {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	client.deliverPrepared()
	res := client.app.EndBlock(req)
	return client.respond(abcitypes.ToRequestEndBlock(req), abcitypes.ToResponseEndBlock(res))
}

func (client *localClient) EndBlockSync(req abcitypes.RequestEndBlock) (*abcitypes.ResponseEndBlock, error) {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	client.deliverPrepared()
	res := client.app.EndBlock(req)
	return &res, nil
}

// deliverPrepared executes the queued txs in block order
// and passes every response to the callback.
func (client *localClient) deliverPrepared() {
	client.txPreparer.Wait()
	defer client.txPreparer.reset()

	results := client.txPreparer.resultList()
	if n := client.app.currBlockCtx.TxsCnt(); len(results) != n {
		panic(fmt.Sprintf("prepared txs(%d) != txs in block(%d)", len(results), n))
	}
	for idx, ret := range results {
		if idx != ret.idx {
			panic(fmt.Sprintf("wrong tx index. expected: %d, actual: %d", idx, ret.idx))
		}
		// a nil ctx was rejected while preparing; its response is already set.
		if ret.ctx != nil {
			ret.resp = client.app.execTrxContext(ret.ctx)
		}
		client.respond(abcitypes.ToRequestDeliverTx(*ret.req), abcitypes.ToResponseDeliverTx(*ret.resp))
	}
}

func (client *localClient) respond(req *abcitypes.Request, res *abcitypes.Response) *abcicli.ReqRes {
	if client.cb != nil {
		client.cb(req, res)
	}
	rr := abcicli.NewReqRes(req)
	rr.Response = res
	rr.InvokeCallback()
	return rr
}
