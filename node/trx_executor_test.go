package node

import (
	"testing"

	acctmock "github.com/beatoz/taxpool-go/ctrlers/mocks/acct"
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// handlerMock decides `effects` and an event, or fails with `err`.
type handlerMock struct {
	effects []*ctrlertypes.TransferEffect
	err     xerrors.XError

	snaps    int
	reverted []int
}

func (h *handlerMock) ValidateTrx(*ctrlertypes.TrxContext) xerrors.XError { return nil }

func (h *handlerMock) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if h.err != nil {
		return h.err
	}
	for _, eff := range h.effects {
		ctx.AddEffect(eff)
	}
	ctx.AddEvent(abcitypes.Event{Type: "mock"})
	return nil
}

func (h *handlerMock) Snapshot(bool) int {
	h.snaps++
	return h.snaps
}

func (h *handlerMock) RevertToSnapshot(snap int, _ bool) xerrors.XError {
	h.reverted = append(h.reverted, snap)
	return nil
}

func newExecCtx(sender types.Address, nonce int64) *ctrlertypes.TrxContext {
	return &ctrlertypes.TrxContext{
		Tx:     ctrlertypes.NewTrx(1, sender, nonce, &ctrlertypes.TrxPayloadWithdraw{}),
		Sender: sender,
		Exec:   true,
	}
}

func TestTrxExecutor(t *testing.T) {
	acct := acctmock.NewAcctHandlerMock(2)
	pool, sender := acct.GetWallet(0).Address(), acct.GetWallet(1).Address()
	acct.Deposit(pool, types.DefaultDenom, uint256.NewInt(100))

	handler := &handlerMock{}
	other := &handlerMock{}
	txe := NewTrxExecutor(acct, log.NewNopLogger())
	txe.Register(handler, ctrlertypes.TRX_WITHDRAW)
	txe.Register(other, ctrlertypes.TRX_TRANSFER)
	require.Len(t, txe.ledgers, 2)

	nonceOf := func() int64 {
		return acct.FindOrNewAccount(sender, types.DefaultDenom, true).GetNonce()
	}
	balanceOf := func(addr types.Address) uint64 {
		bal, xerr := acct.Balance(addr, types.DefaultDenom, true)
		require.NoError(t, xerr)
		return bal.Uint64()
	}

	// success: effects are applied and the nonce is increased.
	handler.effects = []*ctrlertypes.TransferEffect{
		ctrlertypes.NewTransferEffect(pool, sender, types.DefaultDenom, uint256.NewInt(30)),
	}
	ctx := newExecCtx(sender, 0)
	require.NoError(t, txe.ExecuteSync(ctx))
	require.Len(t, ctx.Effects, 1)
	require.Len(t, ctx.Events, 1)
	require.Equal(t, uint64(70), balanceOf(pool))
	require.Equal(t, uint64(30), balanceOf(sender))
	require.Equal(t, int64(1), nonceOf())
	require.Empty(t, handler.reverted)

	// wrong nonce
	ctx = newExecCtx(sender, 0)
	require.True(t, txe.ExecuteSync(ctx).Contains(xerrors.ErrInvalidNonce))
	require.Equal(t, int64(1), nonceOf())

	// the handler fails: every ledger is reverted.
	handler.err = xerrors.ErrUnauthorized
	ctx = newExecCtx(sender, 1)
	require.Equal(t, xerrors.ErrUnauthorized, txe.ExecuteSync(ctx))
	require.Len(t, handler.reverted, 1)
	require.Len(t, other.reverted, 1)
	require.Empty(t, ctx.Effects)
	require.Empty(t, ctx.Events)
	require.Equal(t, int64(1), nonceOf())

	// an effect can not be applied: effects and events are dropped.
	handler.err = nil
	handler.effects = []*ctrlertypes.TransferEffect{
		ctrlertypes.NewTransferEffect(pool, sender, types.DefaultDenom, uint256.NewInt(71)),
	}
	ctx = newExecCtx(sender, 1)
	require.True(t, txe.ExecuteSync(ctx).Contains(xerrors.ErrInsufficientFund))
	require.Len(t, handler.reverted, 2)
	require.Empty(t, ctx.Effects)
	require.Empty(t, ctx.Events)
	require.Equal(t, uint64(70), balanceOf(pool))
	require.Equal(t, int64(1), nonceOf())

	// unknown type
	ctx = newExecCtx(sender, 1)
	ctx.Tx.Type = ctrlertypes.TRX_EMERGENCY_WITHDRAW
	require.Equal(t, xerrors.ErrUnknownTrxType, txe.ExecuteSync(ctx))
}
