package taxpool

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

type TaxPoolCtrler struct {
	poolState v1.IStateLedger
	oracle    ctrlertypes.IBalanceOracle

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewTaxPoolCtrler(config *cfg.Config, oracle ctrlertypes.IBalanceOracle, logger tmlog.Logger) (*TaxPoolCtrler, xerrors.XError) {
	lg := logger.With("module", "taxpool_TaxPoolCtrler")

	_state, xerr := v1.NewStateLedger("taxpool", config.DBDir(), config.LedgerCacheSize, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}

	return &TaxPoolCtrler{
		poolState: _state,
		oracle:    oracle,
		logger:    lg,
	}, nil
}

func (ctrler *TaxPoolCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: TaxPoolCtrler::InitLedger requires *genesis.GenesisAppState")
	}
	if genAppState.TaxPool == nil {
		ctrler.logger.Info("no tax pool in genesis. it stays uninitialized")
		return nil
	}

	gen := genAppState.TaxPool
	sess := ctrler.newSession(true)
	if xerr := sess.initialize(gen.Admin, gen.Denom, gen.Beneficiaries, gen.DecimalPlaces); xerr != nil {
		return xerrors.ErrInitChain.Wrap(xerr)
	}

	ctrler.logger.Info("tax pool is initialized",
		"admin", gen.Admin, "beneficiaries", len(gen.Beneficiaries), "decimalPlaces", gen.DecimalPlaces)
	return nil
}

func (ctrler *TaxPoolCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_CHANGE_ADMIN:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadChangeAdmin)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if err := types.ValidateAddress(payload.NewAdmin); err != nil {
			return xerrors.ErrInvalidAddress.Wrap(err)
		}
	case ctrlertypes.TRX_SET_BENEFICIARIES:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadSetBeneficiaries)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if xerr := ValidateWeights(payload.Beneficiaries, payload.DecimalPlaces); xerr != nil {
			return xerr
		}
	}
	return nil
}

// ExecuteTrx runs a tax pool command.
// On failure every change of the command is reverted and `ctx` gets neither effects nor events.
// The revert covers only the pool ledger, so the ctrler stays atomic when it is called
// without a TrxExecutor. The executor reverts the account ledger and the nonce.
func (ctrler *TaxPoolCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_WITHDRAW,
		ctrlertypes.TRX_CHANGE_ADMIN,
		ctrlertypes.TRX_SET_BENEFICIARIES,
		ctrlertypes.TRX_EMERGENCY_WITHDRAW:
	default:
		return nil
	}

	snap := ctrler.poolState.Snapshot(ctx.Exec)
	sess := ctrler.newSession(ctx.Exec)

	xerr := ctrler.execute(sess, ctx)
	if xerr != nil {
		if rerr := ctrler.poolState.RevertToSnapshot(snap, ctx.Exec); rerr != nil {
			ctrler.logger.Error("fail to revert", "error", rerr, "txhash", ctx.TxHash)
		}
		return xerr
	}

	for _, eff := range sess.effects {
		ctx.AddEffect(eff)
	}
	for _, evt := range sess.events {
		ctx.AddEvent(evt)
	}
	return nil
}

func (ctrler *TaxPoolCtrler) execute(sess *session, ctx *ctrlertypes.TrxContext) xerrors.XError {
	switch payload := ctx.Tx.Payload.(type) {
	case *ctrlertypes.TrxPayloadWithdraw:
		amt, xerr := sess.withdraw(ctx.Sender, payload.Amount)
		if xerr != nil {
			return xerr
		}
		ctrler.logger.Debug("withdraw", "beneficiary", ctx.Sender, "amount", amt.Dec(), "exec", ctx.Exec)
	case *ctrlertypes.TrxPayloadChangeAdmin:
		if xerr := sess.changeAdmin(ctx.Sender, payload.NewAdmin); xerr != nil {
			return xerr
		}
		ctrler.logger.Info("admin is changed", "from", ctx.Sender, "to", payload.NewAdmin, "exec", ctx.Exec)
	case *ctrlertypes.TrxPayloadSetBeneficiaries:
		if xerr := sess.setBeneficiaries(ctx.Sender, payload.Beneficiaries, payload.DecimalPlaces); xerr != nil {
			return xerr
		}
		ctrler.logger.Info("beneficiaries are replaced", "count", len(payload.Beneficiaries), "settlements", len(sess.effects), "exec", ctx.Exec)
	case *ctrlertypes.TrxPayloadEmergencyWithdraw:
		amt, xerr := sess.emergencyWithdraw(ctx.Sender)
		if xerr != nil {
			return xerr
		}
		ctrler.logger.Info("emergency withdrawal. the pool is frozen", "admin", ctx.Sender, "amount", amt.Dec(), "exec", ctx.Exec)
	default:
		return xerrors.ErrInvalidTrxPayloadType
	}
	return nil
}

func (ctrler *TaxPoolCtrler) newSession(exec bool) *session {
	return newSession(stateView{ledger: ctrler.poolState, exec: exec}, ctrler.oracle, exec)
}

func (ctrler *TaxPoolCtrler) Snapshot(exec bool) int {
	return ctrler.poolState.Snapshot(exec)
}

func (ctrler *TaxPoolCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.poolState.RevertToSnapshot(snap, exec)
}

func (ctrler *TaxPoolCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.poolState.Commit()
}

func (ctrler *TaxPoolCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.poolState != nil {
		if xerr := ctrler.poolState.Close(); xerr != nil {
			ctrler.logger.Error("poolState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.poolState = nil
	}
	return nil
}

//
// read-only accessors on the last state of DeliverTx

func (ctrler *TaxPoolCtrler) Admin() (types.Address, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	conf, xerr := ctrler.newSession(true).config()
	if xerr != nil {
		return nil, xerr
	}
	return conf.Admin, nil
}

func (ctrler *TaxPoolCtrler) Claimable(addr types.Address) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.newSession(true).claimableOf(addr)
}

func (ctrler *TaxPoolCtrler) Beneficiaries() ([]*StoredBeneficiary, uint32, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.newSession(true).beneficiaries()
}

var _ ctrlertypes.ILedgerHandler = (*TaxPoolCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*TaxPoolCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*TaxPoolCtrler)(nil)
