package types

import (
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

type ITrxHandler interface {
	ValidateTrx(*TrxContext) xerrors.XError
	ExecuteTrx(*TrxContext) xerrors.XError
}

// ISnapshotHandler lets the executor roll back every ledger touched by a failed transaction.
type ISnapshotHandler interface {
	Snapshot(bool) int
	RevertToSnapshot(int, bool) xerrors.XError
}

// IBalanceOracle reports how much of `denom` is held by an address.
type IBalanceOracle interface {
	Balance(types.Address, string, bool) (*uint256.Int, xerrors.XError)
}

type IAccountHandler interface {
	IBalanceOracle
	SetAccount(*Account, bool) xerrors.XError
	FindOrNewAccount(types.Address, string, bool) *Account
	FindAccount(types.Address, string, bool) *Account
	Transfer(types.Address, types.Address, string, *uint256.Int, bool) xerrors.XError
	SimuAcctCtrlerAt(int64) (IAccountHandler, xerrors.XError)
}
