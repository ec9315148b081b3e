package node

import (
	"fmt"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
)

type ledgerTrxHandler interface {
	ctrlertypes.ITrxHandler
	ctrlertypes.ISnapshotHandler
}

// TrxExecutor runs a transaction over every ledger atomically.
// The handler of the transaction type decides its changes and effects,
// the executor applies the effects through the account handler and
// reverts every ledger when any step fails.
type TrxExecutor struct {
	acctHandler ctrlertypes.IAccountHandler
	handlers    map[int32]ledgerTrxHandler
	ledgers     []ctrlertypes.ISnapshotHandler

	logger log.Logger
}

func NewTrxExecutor(acctHandler ctrlertypes.IAccountHandler, logger log.Logger) *TrxExecutor {
	return &TrxExecutor{
		acctHandler: acctHandler,
		handlers:    make(map[int32]ledgerTrxHandler),
		logger:      logger.With("module", "TrxExecutor"),
	}
}

// Register routes `txTypes` to `handler`.
// Every registered handler is snapshotted and reverted together.
func (txe *TrxExecutor) Register(handler ledgerTrxHandler, txTypes ...int32) {
	for _, t := range txTypes {
		txe.handlers[t] = handler
	}
	for _, l := range txe.ledgers {
		if l == handler {
			return
		}
	}
	txe.ledgers = append(txe.ledgers, handler)
}

func (txe *TrxExecutor) ExecuteSync(ctx *ctrlertypes.TrxContext) xerrors.XError {
	xerr := txe.execute(ctx)
	if xerr != nil {
		observeTrx(ctx, "failed")
		return xerr
	}
	observeTrx(ctx, "ok")
	return nil
}

func (txe *TrxExecutor) execute(ctx *ctrlertypes.TrxContext) xerrors.XError {
	handler, ok := txe.handlers[ctx.Tx.GetType()]
	if !ok {
		return xerrors.ErrUnknownTrxType
	}

	if xerr := txe.commonValidation(ctx); xerr != nil {
		return xerr
	}
	if xerr := handler.ValidateTrx(ctx); xerr != nil {
		return xerr
	}

	snaps := make([]int, len(txe.ledgers))
	for i, l := range txe.ledgers {
		snaps[i] = l.Snapshot(ctx.Exec)
	}
	nEffects, nEvents := len(ctx.Effects), len(ctx.Events)

	if xerr := txe.runTrx(ctx, handler); xerr != nil {
		for i := len(txe.ledgers) - 1; i >= 0; i-- {
			if rerr := txe.ledgers[i].RevertToSnapshot(snaps[i], ctx.Exec); rerr != nil {
				txe.logger.Error("fail to revert", "error", rerr, "txhash", ctx.TxHash)
			}
		}
		ctx.Effects = ctx.Effects[:nEffects]
		ctx.Events = ctx.Events[:nEvents]
		return xerr
	}
	return nil
}

func (txe *TrxExecutor) commonValidation(ctx *ctrlertypes.TrxContext) xerrors.XError {
	//
	// This validation must be performed sequentially
	// after the previous tx was executed.
	// (after the nonce has been updated by the previous tx execution.)
	//
	sender := txe.acctHandler.FindOrNewAccount(ctx.Sender, types.DefaultDenom, ctx.Exec)
	if xerr := sender.CheckNonce(ctx.Tx.Nonce); xerr != nil {
		return xerr.Wrap(fmt.Errorf("ledger: %v, tx:%v, address: %v, txhash: %X", sender.GetNonce(), ctx.Tx.Nonce, sender.Address, ctx.TxHash))
	}
	return nil
}

func (txe *TrxExecutor) runTrx(ctx *ctrlertypes.TrxContext, handler ctrlertypes.ITrxHandler) xerrors.XError {
	if xerr := handler.ExecuteTrx(ctx); xerr != nil {
		return xerr
	}
	for _, eff := range ctx.Effects {
		if xerr := txe.acctHandler.Transfer(eff.From, eff.To, eff.Denom, eff.Amount, ctx.Exec); xerr != nil {
			return xerr.Wrapf("effect: %v", eff)
		}
	}
	return txe.postRunTrx(ctx)
}

func (txe *TrxExecutor) postRunTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	// The sender account is read again since the effects may have changed it.
	sender := txe.acctHandler.FindOrNewAccount(ctx.Sender, types.DefaultDenom, ctx.Exec)
	sender.AddNonce()
	return txe.acctHandler.SetAccount(sender, ctx.Exec)
}
