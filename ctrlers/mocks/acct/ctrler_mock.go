package acct

import (
	"sync"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/rand"
)

// AcctHandlerMock keeps accounts in memory and ignores `exec`.
type AcctHandlerMock struct {
	wallets  []*Wallet
	accounts map[string]*ctrlertypes.Account

	// OracleErr, if not nil, is returned by every Balance call.
	OracleErr xerrors.XError

	mtx sync.RWMutex
}

func NewAcctHandlerMock(walCnt int) *AcctHandlerMock {
	var wals []*Wallet
	for i := 0; i < walCnt; i++ {
		wals = append(wals, NewWallet())
	}
	return &AcctHandlerMock{
		wallets:  wals,
		accounts: make(map[string]*ctrlertypes.Account),
	}
}

func (mock *AcctHandlerMock) GetAllWallets() []*Wallet {
	return mock.wallets
}

func (mock *AcctHandlerMock) WalletLen() int {
	return len(mock.wallets)
}

func (mock *AcctHandlerMock) RandWallet() *Wallet {
	idx := rand.Intn(len(mock.wallets))
	return mock.wallets[idx]
}

func (mock *AcctHandlerMock) GetWallet(idx int) *Wallet {
	if idx >= len(mock.wallets) {
		return nil
	}
	return mock.wallets[idx]
}

// Deposit adds `amt` to the balance of `addr` out of nowhere.
func (mock *AcctHandlerMock) Deposit(addr types.Address, denom string, amt *uint256.Int) {
	acct := mock.FindOrNewAccount(addr, denom, true)
	if xerr := acct.AddBalance(amt); xerr != nil {
		panic(xerr)
	}
}

// Apply runs every transfer effect.
func (mock *AcctHandlerMock) Apply(effects []*ctrlertypes.TransferEffect) xerrors.XError {
	for _, eff := range effects {
		if xerr := mock.Transfer(eff.From, eff.To, eff.Denom, eff.Amount, true); xerr != nil {
			return xerr
		}
	}
	return nil
}

//
// IAccountHandler interfaces

func (mock *AcctHandlerMock) Balance(addr types.Address, denom string, exec bool) (*uint256.Int, xerrors.XError) {
	if mock.OracleErr != nil {
		return nil, mock.OracleErr
	}
	if acct := mock.FindAccount(addr, denom, exec); acct != nil {
		return acct.GetBalance(), nil
	}
	return uint256.NewInt(0), nil
}

func (mock *AcctHandlerMock) FindOrNewAccount(addr types.Address, denom string, exec bool) *ctrlertypes.Account {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	key := denom + string(addr)
	if acct, ok := mock.accounts[key]; ok {
		return acct
	}
	acct := ctrlertypes.NewAccount(addr, denom)
	mock.accounts[key] = acct
	return acct
}

func (mock *AcctHandlerMock) FindAccount(addr types.Address, denom string, exec bool) *ctrlertypes.Account {
	mock.mtx.RLock()
	defer mock.mtx.RUnlock()

	return mock.accounts[denom+string(addr)]
}

func (mock *AcctHandlerMock) SetAccount(acct *ctrlertypes.Account, exec bool) xerrors.XError {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.accounts[acct.Denom+string(acct.Address)] = acct
	return nil
}

func (mock *AcctHandlerMock) Transfer(from, to types.Address, denom string, amt *uint256.Int, exec bool) xerrors.XError {
	if sender := mock.FindAccount(from, denom, exec); sender == nil {
		return xerrors.ErrNotFoundAccount
	} else if xerr := sender.SubBalance(amt); xerr != nil {
		return xerr
	} else if xerr := mock.FindOrNewAccount(to, denom, exec).AddBalance(amt); xerr != nil {
		_ = sender.AddBalance(amt)
		return xerr
	}
	return nil
}

func (mock *AcctHandlerMock) SimuAcctCtrlerAt(int64) (ctrlertypes.IAccountHandler, xerrors.XError) {
	return mock, nil
}

var _ ctrlertypes.IAccountHandler = (*AcctHandlerMock)(nil)
