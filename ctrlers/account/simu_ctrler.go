package account

import (
	"sync"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	v1 "github.com/beatoz/taxpool-go/ledger/v1"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// SimuAcctCtrler works on a committed version of the account ledger.
// Its changes are never committed and `exec` is ignored.
type SimuAcctCtrler struct {
	simuLedger v1.IImitable
	logger     tmlog.Logger
	mtx        sync.RWMutex
}

func (memCtrler *SimuAcctCtrler) Balance(addr types.Address, denom string, exec bool) (*uint256.Int, xerrors.XError) {
	memCtrler.mtx.RLock()
	defer memCtrler.mtx.RUnlock()

	acct, xerr := memCtrler.findAccount(addr, denom)
	if xerr != nil {
		return nil, xerrors.ErrOracle.Wrap(xerr)
	}
	if acct == nil {
		return uint256.NewInt(0), nil
	}
	return acct.GetBalance(), nil
}

func (memCtrler *SimuAcctCtrler) SetAccount(acct *ctrlertypes.Account, exec bool) xerrors.XError {
	memCtrler.mtx.Lock()
	defer memCtrler.mtx.Unlock()

	return memCtrler.simuLedger.Set(v1.LedgerKeyAccount(acct.Denom, acct.Address), acct)
}

func (memCtrler *SimuAcctCtrler) FindOrNewAccount(addr types.Address, denom string, exec bool) *ctrlertypes.Account {
	memCtrler.mtx.RLock()
	defer memCtrler.mtx.RUnlock()

	if acct, _ := memCtrler.findAccount(addr, denom); acct != nil {
		return acct
	}
	return ctrlertypes.NewAccount(addr, denom)
}

func (memCtrler *SimuAcctCtrler) FindAccount(addr types.Address, denom string, exec bool) *ctrlertypes.Account {
	memCtrler.mtx.RLock()
	defer memCtrler.mtx.RUnlock()

	acct, _ := memCtrler.findAccount(addr, denom)
	return acct
}

func (memCtrler *SimuAcctCtrler) findAccount(addr types.Address, denom string) (*ctrlertypes.Account, xerrors.XError) {
	item, xerr := memCtrler.simuLedger.Get(v1.LedgerKeyAccount(denom, addr))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, nil
		}
		return nil, xerr
	}
	return item.(*ctrlertypes.Account), nil
}

func (memCtrler *SimuAcctCtrler) Transfer(from, to types.Address, denom string, amt *uint256.Int, exec bool) xerrors.XError {
	memCtrler.mtx.Lock()
	defer memCtrler.mtx.Unlock()

	acct0, xerr := memCtrler.findAccount(from, denom)
	if xerr != nil {
		return xerr
	}
	if acct0 == nil {
		return xerrors.ErrNotFoundAccount.Wrapf("Transfer - address: %v, denom: %v", from, denom)
	}
	if xerr := acct0.SubBalance(amt); xerr != nil {
		return xerr
	}
	if xerr := memCtrler.simuLedger.Set(v1.LedgerKeyAccount(denom, from), acct0); xerr != nil {
		return xerr
	}

	acct1, xerr := memCtrler.findAccount(to, denom)
	if xerr != nil {
		return xerr
	}
	if acct1 == nil {
		acct1 = ctrlertypes.NewAccount(to, denom)
	}
	if xerr := acct1.AddBalance(amt); xerr != nil {
		return xerr
	}
	return memCtrler.simuLedger.Set(v1.LedgerKeyAccount(denom, to), acct1)
}

func (memCtrler *SimuAcctCtrler) SimuAcctCtrlerAt(height int64) (ctrlertypes.IAccountHandler, xerrors.XError) {
	return nil, xerrors.ErrQuery.Wrapf("SimuAcctCtrler can not create another SimuAcctCtrler")
}

var _ ctrlertypes.IAccountHandler = (*SimuAcctCtrler)(nil)
