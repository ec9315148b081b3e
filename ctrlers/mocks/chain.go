package mocks

import (
	"time"

	"github.com/beatoz/taxpool-go/ctrlers/mocks/acct"
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
)

// Chain plays the block loop of the node for controller tests.
// Blocks are `interval` apart, starting at the time of NewChain.
type Chain struct {
	last, curr *ctrlertypes.BlockContext
	interval   time.Duration
}

func NewChain(chainId string, height int64, a ctrlertypes.IAccountHandler) *Chain {
	return &Chain{
		curr:     ctrlertypes.TempBlockContext(chainId, height, time.Now(), a),
		interval: time.Second,
	}
}

func (c *Chain) Current() *ctrlertypes.BlockContext {
	return c.curr
}

// LastHeight is 0 until the first commit.
func (c *Chain) LastHeight() int64 {
	if c.last == nil {
		return 0
	}
	return c.last.Height()
}

// Commit commits the ledgers of `ctrlers`, which must all land on the
// current height, and starts the next block.
func (c *Chain) Commit(ctrlers ...ctrlertypes.ILedgerHandler) xerrors.XError {
	for _, ctrler := range ctrlers {
		_, ver, xerr := ctrler.Commit()
		if xerr != nil {
			return xerr
		}
		if ver != c.curr.Height() {
			return xerrors.ErrCommit.Wrapf("ledger version %d at block %d", ver, c.curr.Height())
		}
	}
	c.last = c.curr
	c.curr = ctrlertypes.ExpectNextBlockContext(c.last, c.interval)
	return nil
}

// SignedTrxCtx signs a tx of `w` carrying `payload` and decodes it in the current block.
func (c *Chain) SignedTrxCtx(w *acct.Wallet, nonce int64, payload ctrlertypes.ITrxPayload, exec bool) (*ctrlertypes.TrxContext, xerrors.XError) {
	tx := ctrlertypes.NewTrx(1, w.Address(), nonce, payload)
	if xerr := w.SignTrx(tx, c.curr.ChainID()); xerr != nil {
		return nil, xerr
	}
	bz, xerr := tx.Encode()
	if xerr != nil {
		return nil, xerr
	}
	return ctrlertypes.NewTrxContext(bz, c.curr, exec)
}
