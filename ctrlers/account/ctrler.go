package account

import (
	"sync"

	cfg "github.com/beatoz/taxpool-go/cmd/config"
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/genesis"
	v1 "github.com/beatoz/taxpool-go/ledger/v1"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// AcctCtrler keeps the balance of every address for every denomination.
// It is the balance oracle of the tax pool and runs the transfers the pool decides.
type AcctCtrler struct {
	acctState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewAcctCtrler(config *cfg.Config, logger tmlog.Logger) (*AcctCtrler, xerrors.XError) {
	lg := logger.With("module", "taxpool_AcctCtrler")

	if _state, xerr := v1.NewStateLedger("accounts", config.DBDir(), config.LedgerCacheSize, func(key v1.LedgerKey) v1.ILedgerItem { return &ctrlertypes.Account{} }, lg); xerr != nil {
		return nil, xerr
	} else {
		return &AcctCtrler{
			acctState: _state,
			logger:    lg,
		}, nil
	}
}

func (ctrler *AcctCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: AcctCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	for _, holder := range genAppState.AssetHolders {
		if err := types.ValidateAddress(holder.Address); err != nil {
			return xerrors.ErrInitChain.Wrap(err)
		}
		denom := holder.DenomOrDefault()

		acct, xerr := ctrler.findAccount(holder.Address, denom, true)
		if xerr != nil {
			return xerr
		}
		if acct == nil {
			acct = ctrlertypes.NewAccount(append(types.Address(nil), holder.Address...), denom)
		}
		if xerr := acct.AddBalance(holder.Balance); xerr != nil {
			return xerr
		}
		if xerr := ctrler.setAccount(acct, true); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ctrler *AcctCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_TRANSFER:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadTransfer)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if err := types.ValidateAddress(payload.To); err != nil {
			return xerrors.ErrInvalidAddress.Wrap(err)
		}
		if payload.Denom == "" {
			return xerrors.ErrInvalidTrxPayloadParams.Wrapf("empty denom")
		}
		if payload.Amount == nil || payload.Amount.IsZero() {
			return xerrors.ErrInvalidAmount
		}

		ctrler.mtx.RLock()
		defer ctrler.mtx.RUnlock()

		sender, xerr := ctrler.findAccount(ctx.Sender, payload.Denom, ctx.Exec)
		if xerr != nil {
			return xerr
		}
		if sender == nil {
			return xerrors.ErrInsufficientFund.Wrapf("%v has no %v", ctx.Sender, payload.Denom)
		}
		return sender.CheckBalance(payload.Amount)
	}
	return nil
}

func (ctrler *AcctCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_TRANSFER:
		payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadTransfer)
		if xerr := ctrler.transfer(ctx.Sender, payload.To, payload.Denom, payload.Amount, ctx.Exec); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ctrler *AcctCtrler) Snapshot(exec bool) int {
	return ctrler.acctState.Snapshot(exec)
}

func (ctrler *AcctCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.acctState.RevertToSnapshot(snap, exec)
}

func (ctrler *AcctCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.acctState.Commit()
}

func (ctrler *AcctCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.acctState != nil {
		if xerr := ctrler.acctState.Close(); xerr != nil {
			ctrler.logger.Error("acctLedger.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.acctState = nil
	}
	return nil
}

func (ctrler *AcctCtrler) Balance(addr types.Address, denom string, exec bool) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	acct, xerr := ctrler.findAccount(addr, denom, exec)
	if xerr != nil {
		return nil, xerrors.ErrOracle.Wrap(xerr)
	}
	if acct == nil {
		return uint256.NewInt(0), nil
	}
	return acct.GetBalance(), nil
}

// FindOrNewAccount returns a new account, which is not stored yet, if `addr` has no `denom` account.
func (ctrler *AcctCtrler) FindOrNewAccount(addr types.Address, denom string, exec bool) *ctrlertypes.Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if acct, _ := ctrler.findAccount(addr, denom, exec); acct != nil {
		return acct
	}
	return ctrlertypes.NewAccount(addr, denom)
}

func (ctrler *AcctCtrler) FindAccount(addr types.Address, denom string, exec bool) *ctrlertypes.Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	acct, _ := ctrler.findAccount(addr, denom, exec)
	return acct
}

// findAccount returns nil without error when the account does not exist.
func (ctrler *AcctCtrler) findAccount(addr types.Address, denom string, exec bool) (*ctrlertypes.Account, xerrors.XError) {
	item, xerr := ctrler.acctState.Get(v1.LedgerKeyAccount(denom, addr), exec)
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, nil
		}
		return nil, xerr
	}
	return item.(*ctrlertypes.Account), nil
}

func (ctrler *AcctCtrler) Transfer(from, to types.Address, denom string, amt *uint256.Int, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.transfer(from, to, denom, amt, exec)
}

func (ctrler *AcctCtrler) transfer(from, to types.Address, denom string, amt *uint256.Int, exec bool) xerrors.XError {
	acct0, xerr := ctrler.findAccount(from, denom, exec)
	if xerr != nil {
		return xerr
	}
	if acct0 == nil {
		return xerrors.ErrNotFoundAccount.Wrapf("Transfer - address: %v, denom: %v", from, denom)
	}
	if xerr := acct0.SubBalance(amt); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setAccount(acct0, exec); xerr != nil {
		return xerr
	}

	// `to` is read after `from` is stored, so a transfer to oneself keeps the balance.
	acct1, xerr := ctrler.findAccount(to, denom, exec)
	if xerr != nil {
		return xerr
	}
	if acct1 == nil {
		acct1 = ctrlertypes.NewAccount(append(types.Address(nil), to...), denom)
	}
	if xerr := acct1.AddBalance(amt); xerr != nil {
		return xerr
	}
	return ctrler.setAccount(acct1, exec)
}

func (ctrler *AcctCtrler) SetAccount(acct *ctrlertypes.Account, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.setAccount(acct, exec)
}

func (ctrler *AcctCtrler) setAccount(acct *ctrlertypes.Account, exec bool) xerrors.XError {
	return ctrler.acctState.Set(v1.LedgerKeyAccount(acct.Denom, acct.Address), acct, exec)
}

func (ctrler *AcctCtrler) SimuAcctCtrlerAt(height int64) (ctrlertypes.IAccountHandler, xerrors.XError) {
	memLedger, xerr := ctrler.acctState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerr
	}

	return &SimuAcctCtrler{
		simuLedger: memLedger,
		logger:     ctrler.logger.With("module", "SimuAcctCtrler"),
	}, nil
}

var _ ctrlertypes.ILedgerHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.IAccountHandler = (*AcctCtrler)(nil)
