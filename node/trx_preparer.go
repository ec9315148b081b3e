package node

import (
	"runtime"
	"sync"
	"sync/atomic"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// prepareFunc decodes and verifies a delivered tx.
// It returns either a context to execute or the response of a rejected tx.
type prepareFunc func(*abcitypes.RequestDeliverTx, int) (*ctrlertypes.TrxContext, *abcitypes.ResponseDeliverTx)

type prepareJob struct {
	idx     int
	req     *abcitypes.RequestDeliverTx
	prepare prepareFunc
}

type preparedTrx struct {
	idx  int
	req  *abcitypes.RequestDeliverTx
	resp *abcitypes.ResponseDeliverTx
	ctx  *ctrlertypes.TrxContext
}

// TrxPreparer verifies the signatures of a block's txs in parallel.
// The prepared txs are executed sequentially, in block order, at the end of the block.
type TrxPreparer struct {
	wg     sync.WaitGroup
	queues []chan *prepareJob
	done   chan struct{}

	results []*preparedTrx

	started uint32 // atomic
	stopped uint32 // atomic
	mtx     sync.RWMutex
}

func newTrxPreparer() *TrxPreparer {
	return newTrxPreparerWith(runtime.GOMAXPROCS(0))
}

func newTrxPreparerWith(workers int) *TrxPreparer {
	if workers < 1 {
		workers = 1
	}
	return &TrxPreparer{
		queues: make([]chan *prepareJob, workers),
		done:   make(chan struct{}),
	}
}

func (tp *TrxPreparer) start() {
	if atomic.CompareAndSwapUint32(&tp.started, 0, 1) {
		for i := range tp.queues {
			tp.queues[i] = make(chan *prepareJob, 5000)
			go tp.worker(tp.queues[i])
		}
	}
}

func (tp *TrxPreparer) stop() {
	if atomic.CompareAndSwapUint32(&tp.stopped, 0, 1) {
		close(tp.done)
	}
}

func (tp *TrxPreparer) worker(jobs chan *prepareJob) {
	for {
		select {
		case job := <-jobs:
			txctx, resp := job.prepare(job.req, job.idx)
			tp.mtx.Lock()
			tp.results[job.idx] = &preparedTrx{idx: job.idx, req: job.req, resp: resp, ctx: txctx}
			tp.mtx.Unlock()
			tp.wg.Done()
		case <-tp.done:
			return
		}
	}
}

// Add queues `req`. The index of `req` is the number of txs added since the last reset.
func (tp *TrxPreparer) Add(req *abcitypes.RequestDeliverTx, prepare prepareFunc) {
	tp.mtx.Lock()
	idx := len(tp.results)
	tp.results = append(tp.results, nil)
	tp.mtx.Unlock()

	tp.wg.Add(1)
	tp.queues[idx%len(tp.queues)] <- &prepareJob{idx: idx, req: req, prepare: prepare}
}

// Wait blocks until every added tx is prepared.
func (tp *TrxPreparer) Wait() {
	tp.wg.Wait()
}

func (tp *TrxPreparer) reset() {
	tp.mtx.Lock()
	defer tp.mtx.Unlock()

	tp.results = nil
}

func (tp *TrxPreparer) resultCount() int {
	tp.mtx.RLock()
	defer tp.mtx.RUnlock()

	return len(tp.results)
}

func (tp *TrxPreparer) resultList() []*preparedTrx {
	tp.mtx.RLock()
	defer tp.mtx.RUnlock()

	return tp.results
}
